package entity

import (
	"time"
)

// Stock is one row of the ranked universe, refreshed by the analyzer run.
type Stock struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Ticker            string    `gorm:"type:varchar(10);uniqueIndex;not null" json:"ticker"`
	Name              string    `gorm:"not null" json:"name"`
	Sector            string    `gorm:"type:varchar(100)" json:"sector"`
	Rank              int       `gorm:"not null" json:"rank"`
	SentimentScore    float64   `json:"sentiment_score"`
	SentimentCategory string    `gorm:"type:varchar(20)" json:"sentiment_category"`
	InvestmentScore   float64   `json:"investment_score"`
	NewsCount         int       `json:"news_count"`
	BullishCount      int       `json:"bullish_count"`
	NeutralCount      int       `json:"neutral_count"`
	BearishCount      int       `json:"bearish_count"`
	CurrentPrice      float64   `json:"current_price"`
	LastUpdated       time.Time `json:"last_updated"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Stock model.
func (Stock) TableName() string {
	return "stocks"
}
