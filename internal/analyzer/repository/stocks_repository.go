package repository

import (
	"context"

	"golang-stock-insight/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StocksWriteRepository persists the ranked universe produced by a run.
type StocksWriteRepository interface {
	UpsertStocks(ctx context.Context, stocks []entity.Stock) error
}

// NewStocksWriteRepository creates a new GORM-based stocks write repository.
func NewStocksWriteRepository(db *gorm.DB) StocksWriteRepository {
	return &stocksWriteRepository{db: db}
}

type stocksWriteRepository struct {
	db *gorm.DB
}

func (r *stocksWriteRepository) UpsertStocks(ctx context.Context, stocks []entity.Stock) error {
	if len(stocks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "ticker"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "sector", "rank", "sentiment_score", "sentiment_category",
			"investment_score", "news_count", "bullish_count", "neutral_count",
			"bearish_count", "current_price", "last_updated", "updated_at",
		}),
	}).Create(&stocks).Error
}
