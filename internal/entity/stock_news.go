package entity

import (
	"time"

	"github.com/lib/pq"
)

// StockNews is one scraped headline with its per-article sentiment.
type StockNews struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Ticker            string         `gorm:"type:varchar(10);not null;index" json:"ticker"`
	Headline          string         `gorm:"type:text;not null" json:"headline"`
	URL               string         `gorm:"type:text" json:"url"`
	Source            string         `gorm:"type:varchar(100)" json:"source"`
	PublishedAt       time.Time      `json:"published_at"`
	SentimentScore    float64        `json:"sentiment_score"`
	SentimentCategory string         `gorm:"type:varchar(20)" json:"sentiment_category"`
	Topics            pq.StringArray `gorm:"type:text[]" json:"topics"`
	HashIdentifier    string         `gorm:"type:text;not null;uniqueIndex" json:"hash_identifier"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the StockNews model.
func (StockNews) TableName() string {
	return "stock_news"
}
