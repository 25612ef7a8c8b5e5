package dto

// Sentiment is the nested sentiment block returned for every stock.
type Sentiment struct {
	Score           float64 `json:"score"`
	Category        string  `json:"category"`
	InvestmentScore float64 `json:"investment_score"`
}

// PricePoint is one (date, price) pair of a historical or prediction series.
// Dates are calendar days formatted as 2006-01-02.
type PricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// PredictionSeries carries the projected prices and the two confidence-bound
// series. All three are index-aligned and share the same date sequence.
type PredictionSeries struct {
	Data       []PricePoint `json:"data"`
	UpperBound []PricePoint `json:"upper_bound"`
	LowerBound []PricePoint `json:"lower_bound"`
}

// StockListItem is one row of the ranked list response.
type StockListItem struct {
	Ticker           string    `json:"ticker"`
	Name             string    `json:"name"`
	Sentiment        Sentiment `json:"sentiment"`
	NewsCount        int       `json:"news_count"`
	Rank             int       `json:"rank"`
	InvestmentScore  float64   `json:"investment_score"`
	CurrentPrice     float64   `json:"current_price"`
	PredictionChange float64   `json:"prediction_change"`
}

// StockDetailResponse is the single-ticker detail response.
type StockDetailResponse struct {
	Ticker          string           `json:"ticker"`
	Name            string           `json:"name"`
	Sentiment       Sentiment        `json:"sentiment"`
	NewsCount       int              `json:"news_count"`
	Rank            int              `json:"rank"`
	InvestmentScore float64          `json:"investment_score"`
	LastUpdated     string           `json:"last_updated"`
	HistoricalData  []PricePoint     `json:"historical_data"`
	Prediction      PredictionSeries `json:"prediction"`
}
