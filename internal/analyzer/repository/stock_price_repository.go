package repository

import (
	"context"

	"golang-stock-insight/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PricesWriteRepository persists observed price history.
type PricesWriteRepository interface {
	UpsertPrices(ctx context.Context, prices []entity.StockPrice) error
}

// NewPricesWriteRepository creates a new GORM-based price write repository.
func NewPricesWriteRepository(db *gorm.DB) PricesWriteRepository {
	return &pricesWriteRepository{db: db}
}

type pricesWriteRepository struct {
	db *gorm.DB
}

func (r *pricesWriteRepository) UpsertPrices(ctx context.Context, prices []entity.StockPrice) error {
	if len(prices) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticker"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "volume"}),
	}).CreateInBatches(&prices, 500).Error
}
