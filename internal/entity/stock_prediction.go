package entity

import (
	"time"
)

// StockPrediction is one model-projected price with its confidence interval.
type StockPrediction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Ticker      string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_stock_predictions_ticker_date" json:"ticker"`
	Date        time.Time `gorm:"type:date;not null;uniqueIndex:idx_stock_predictions_ticker_date" json:"date"`
	Price       float64   `gorm:"not null" json:"price"`
	UpperBound  float64   `json:"upper_bound"`
	LowerBound  float64   `json:"lower_bound"`
	GeneratedAt time.Time `json:"generated_at"`
}

// TableName specifies the table name for the StockPrediction model.
func (StockPrediction) TableName() string {
	return "stock_predictions"
}
