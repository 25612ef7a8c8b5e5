package repository

import (
	"context"

	"golang-stock-insight/internal/entity"

	"gorm.io/gorm"
)

// PredictionsWriteRepository persists the projected series of one ticker.
type PredictionsWriteRepository interface {
	// ReplaceForTicker swaps the whole prediction series; predictions are
	// regenerated wholesale on every run.
	ReplaceForTicker(ctx context.Context, ticker string, predictions []entity.StockPrediction) error
}

// NewPredictionsWriteRepository creates a new GORM-based prediction write
// repository.
func NewPredictionsWriteRepository(db *gorm.DB) PredictionsWriteRepository {
	return &predictionsWriteRepository{db: db}
}

type predictionsWriteRepository struct {
	db *gorm.DB
}

func (r *predictionsWriteRepository) ReplaceForTicker(ctx context.Context, ticker string, predictions []entity.StockPrediction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ticker = ?", ticker).Delete(&entity.StockPrediction{}).Error; err != nil {
			return err
		}
		if len(predictions) == 0 {
			return nil
		}
		return tx.CreateInBatches(&predictions, 500).Error
	})
}
