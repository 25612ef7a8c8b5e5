package repository

import (
	"context"

	"golang-stock-insight/internal/entity"

	"gorm.io/gorm"
)

// StockPricesRepository defines read operations over the observed price series.
type StockPricesRepository interface {
	// FindByTicker returns the full price series ordered by date ascending.
	FindByTicker(ctx context.Context, ticker string) ([]entity.StockPrice, error)
	// FindLatest returns the most recent price point, or (nil, nil) when the
	// ticker has no price rows.
	FindLatest(ctx context.Context, ticker string) (*entity.StockPrice, error)
}

// NewStockPricesRepository creates a new GORM-based price repository.
func NewStockPricesRepository(db *gorm.DB) StockPricesRepository {
	return &stockPricesRepository{db: db}
}

type stockPricesRepository struct {
	db *gorm.DB
}

func (r *stockPricesRepository) FindByTicker(ctx context.Context, ticker string) ([]entity.StockPrice, error) {
	var prices []entity.StockPrice
	if err := r.db.WithContext(ctx).Where("ticker = ?", ticker).Order("date ASC").Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

func (r *stockPricesRepository) FindLatest(ctx context.Context, ticker string) (*entity.StockPrice, error) {
	var prices []entity.StockPrice
	if err := r.db.WithContext(ctx).Where("ticker = ?", ticker).Order("date DESC").Limit(1).Find(&prices).Error; err != nil {
		return nil, err
	}
	if len(prices) == 0 {
		return nil, nil
	}
	return &prices[0], nil
}
