package dto

// GetPriceHistoryParam selects the price window to fetch.
type GetPriceHistoryParam struct {
	Ticker string
	Days   int
}

// YahooChartResponse mirrors the Yahoo Finance chart API payload, reduced to
// the fields the analyzer reads.
type YahooChartResponse struct {
	Chart YahooChart `json:"chart"`
}

type YahooChart struct {
	Result []YahooChartResult `json:"result"`
	Error  *YahooChartError   `json:"error"`
}

type YahooChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type YahooChartResult struct {
	Timestamp  []int64         `json:"timestamp"`
	Indicators YahooIndicators `json:"indicators"`
}

type YahooIndicators struct {
	Quote []YahooQuote `json:"quote"`
}

type YahooQuote struct {
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}
