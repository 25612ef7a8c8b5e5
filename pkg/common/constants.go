package common

import "time"

const (
	RedisKeyStockList = "stocks.list"
	RedisKeyStockTop  = "stocks.top"

	DefaultStockListCacheTTL = 60 * time.Second

	SentimentBullish = "Bullish"
	SentimentNeutral = "Neutral"
	SentimentBearish = "Bearish"
)

// FallbackTickers is used by the analyzer when the ticker universe cannot be
// fetched from the database or scraped from the index constituents page.
var FallbackTickers = []string{
	"AAPL", "MSFT", "AMZN", "GOOGL", "META", "TSLA", "NVDA", "BRK-B", "JPM", "V",
	"JNJ", "UNH", "PG", "MA", "HD", "BAC", "XOM", "AVGO", "CVX", "COST",
	"ABBV", "MRK", "PEP", "KO", "LLY", "TMO", "CSCO", "ABT", "CRM", "MCD",
	"ACN", "WMT", "NKE", "DHR", "TXN", "UPS", "NEE", "PM", "ORCL", "IBM",
	"QCOM", "INTC", "NFLX", "ADBE", "AMD", "CMCSA", "HON", "PFE", "CAT", "UNP",
}
