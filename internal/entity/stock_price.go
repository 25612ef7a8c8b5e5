package entity

import (
	"time"
)

// StockPrice is one observed closing price for a ticker.
type StockPrice struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Ticker    string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_stock_prices_ticker_date" json:"ticker"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:idx_stock_prices_ticker_date" json:"date"`
	Price     float64   `gorm:"not null" json:"price"`
	Volume    int64     `json:"volume"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the StockPrice model.
func (StockPrice) TableName() string {
	return "stock_prices"
}
