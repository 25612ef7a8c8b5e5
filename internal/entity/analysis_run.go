package entity

import (
	"time"

	"gorm.io/datatypes"
)

// AnalysisRun records one execution of the analysis pipeline. Summary holds
// the shocking-prediction snapshot shown on the dashboard.
type AnalysisRun struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	StartedAt      time.Time      `gorm:"not null" json:"started_at"`
	FinishedAt     time.Time      `json:"finished_at"`
	StocksAnalyzed int            `json:"stocks_analyzed"`
	Failures       int            `json:"failures"`
	Summary        datatypes.JSON `json:"summary"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the AnalysisRun model.
func (AnalysisRun) TableName() string {
	return "analysis_runs"
}
