package repository

import (
	"context"

	"golang-stock-insight/internal/entity"

	"gorm.io/gorm"
)

// StockPredictionsRepository defines read operations over the prediction series.
type StockPredictionsRepository interface {
	// FindByTicker returns the full prediction series ordered by date ascending.
	FindByTicker(ctx context.Context, ticker string) ([]entity.StockPrediction, error)
	// FindLatest returns the most recent prediction point, or (nil, nil) when
	// the ticker has no prediction rows.
	FindLatest(ctx context.Context, ticker string) (*entity.StockPrediction, error)
}

// NewStockPredictionsRepository creates a new GORM-based prediction repository.
func NewStockPredictionsRepository(db *gorm.DB) StockPredictionsRepository {
	return &stockPredictionsRepository{db: db}
}

type stockPredictionsRepository struct {
	db *gorm.DB
}

func (r *stockPredictionsRepository) FindByTicker(ctx context.Context, ticker string) ([]entity.StockPrediction, error) {
	var predictions []entity.StockPrediction
	if err := r.db.WithContext(ctx).Where("ticker = ?", ticker).Order("date ASC").Find(&predictions).Error; err != nil {
		return nil, err
	}
	return predictions, nil
}

func (r *stockPredictionsRepository) FindLatest(ctx context.Context, ticker string) (*entity.StockPrediction, error) {
	var predictions []entity.StockPrediction
	if err := r.db.WithContext(ctx).Where("ticker = ?", ticker).Order("date DESC").Limit(1).Find(&predictions).Error; err != nil {
		return nil, err
	}
	if len(predictions) == 0 {
		return nil, nil
	}
	return &predictions[0], nil
}
