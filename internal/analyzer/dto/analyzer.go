package dto

import (
	"time"
)

// TickerInfo identifies one member of the analysis universe.
type TickerInfo struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
}

// NewsItem is one scraped headline before persistence.
type NewsItem struct {
	Ticker      string    `json:"ticker"`
	Headline    string    `json:"headline"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

// SentimentSummary aggregates the per-headline scores of one ticker.
type SentimentSummary struct {
	AvgSentiment      float64 `json:"avg_sentiment"`
	SentimentCategory string  `json:"sentiment_category"`
	SentimentStrength float64 `json:"sentiment_strength"`
	InvestmentScore   float64 `json:"investment_score"`
	NewsCount         int     `json:"news_count"`
	BullishCount      int     `json:"bullish_count"`
	NeutralCount      int     `json:"neutral_count"`
	BearishCount      int     `json:"bearish_count"`
}

// AISentimentResult is the structured sentiment verdict from the AI provider.
type AISentimentResult struct {
	Score     float64  `json:"score"`
	Category  string   `json:"category"`
	Reasoning string   `json:"reasoning"`
	Topics    []string `json:"topics"`
}

// ShockingPrediction is one outsized predicted move, surfaced on the
// dashboard and in notifications.
type ShockingPrediction struct {
	Company         string    `json:"company"`
	Symbol          string    `json:"symbol"`
	Prediction      float64   `json:"prediction"`
	Direction       string    `json:"direction"`
	Timeframe       string    `json:"timeframe"`
	Timestamp       time.Time `json:"timestamp"`
	CurrentPrice    float64   `json:"current_price"`
	PredictedPrice  float64   `json:"predicted_price"`
	SentimentScore  float64   `json:"sentiment_score"`
	InvestmentScore float64   `json:"investment_score"`
}

// ShockingPredictions groups the top moves in both directions.
type ShockingPredictions struct {
	TopIncreases []ShockingPrediction `json:"top_increases"`
	TopDecreases []ShockingPrediction `json:"top_decreases"`
	AllShocking  []ShockingPrediction `json:"all_shocking"`
}

// PipelineSummary describes one completed analyzer run.
type PipelineSummary struct {
	StartedAt      time.Time           `json:"started_at"`
	FinishedAt     time.Time           `json:"finished_at"`
	StocksAnalyzed int                 `json:"stocks_analyzed"`
	Failures       int                 `json:"failures"`
	TopInvestment  string              `json:"top_investment"`
	Shocking       ShockingPredictions `json:"shocking_predictions"`
}
