package repository

import (
	"context"

	"golang-stock-insight/internal/entity"

	"gorm.io/gorm"
)

// AnalysisRunRepository persists run bookkeeping records.
type AnalysisRunRepository interface {
	Create(ctx context.Context, run *entity.AnalysisRun) error
}

// NewAnalysisRunRepository creates a new GORM-based analysis run repository.
func NewAnalysisRunRepository(db *gorm.DB) AnalysisRunRepository {
	return &analysisRunRepository{db: db}
}

type analysisRunRepository struct {
	db *gorm.DB
}

func (r *analysisRunRepository) Create(ctx context.Context, run *entity.AnalysisRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}
