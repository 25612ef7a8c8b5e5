package repository

import (
	"context"

	"golang-stock-insight/internal/entity"

	"gorm.io/gorm"
)

// StocksRepository defines read operations over the ranked stock universe.
type StocksRepository interface {
	// FindAllOrdered returns every stock ordered by rank ascending.
	FindAllOrdered(ctx context.Context) ([]entity.Stock, error)
	// FindByTicker returns a single stock or gorm.ErrRecordNotFound.
	FindByTicker(ctx context.Context, ticker string) (*entity.Stock, error)
	// FindTopByScore returns up to limit stocks ordered by investment score
	// descending.
	FindTopByScore(ctx context.Context, limit int) ([]entity.Stock, error)
}

// NewStocksRepository creates a new GORM-based stocks repository.
func NewStocksRepository(db *gorm.DB) StocksRepository {
	return &stocksRepository{db: db}
}

type stocksRepository struct {
	db *gorm.DB
}

func (r *stocksRepository) FindAllOrdered(ctx context.Context) ([]entity.Stock, error) {
	var stocks []entity.Stock
	if err := r.db.WithContext(ctx).Order("rank ASC").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

func (r *stocksRepository) FindByTicker(ctx context.Context, ticker string) (*entity.Stock, error) {
	var stock entity.Stock
	if err := r.db.WithContext(ctx).Where("ticker = ?", ticker).First(&stock).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *stocksRepository) FindTopByScore(ctx context.Context, limit int) ([]entity.Stock, error) {
	var stocks []entity.Stock
	if err := r.db.WithContext(ctx).Order("investment_score DESC").Limit(limit).Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}
