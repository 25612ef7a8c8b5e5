package service

import (
	"errors"
	"math"
	"time"

	"golang-stock-insight/internal/entity"
)

// ErrInsufficientHistory is returned when a ticker has too few closes to
// project from.
var ErrInsufficientHistory = errors.New("insufficient price history for prediction")

const (
	minHistoryPoints = 5
	shortMAWindow    = 10
	longMAWindow     = 30
	// sentimentWeight converts a [-1,1] sentiment score into a drift
	// multiplier in [0.95, 1.05].
	sentimentWeight = 0.05
	// maxDailyDrop floors each projected step at 95% of the previous price.
	maxDailyDrop = 0.95
	// confidenceZ widens the bounds at ~95% confidence.
	confidenceZ = 1.96
)

// PredictTrend projects days daily prices beyond the last close, blending
// price momentum, the mean daily change, and the sentiment drift. The bounds
// widen with horizon proportionally to historical volatility. Prices must be
// ordered ascending by date.
func PredictTrend(ticker string, prices []entity.StockPrice, sentimentScore float64, days int) ([]entity.StockPrediction, error) {
	if len(prices) < minHistoryPoints {
		return nil, ErrInsufficientHistory
	}
	if days <= 0 {
		return nil, nil
	}

	closes := make([]float64, len(prices))
	for i, p := range prices {
		closes[i] = p.Price
	}

	lastClose := closes[len(closes)-1]
	shortMA := tailMean(closes, min(shortMAWindow, len(closes)))
	longMA := tailMean(closes, min(longMAWindow, len(closes)))

	returns := dailyReturns(closes)
	avgChange := mean(returns)
	volatility := stddev(returns)

	sentimentFactor := 1 + sentimentScore*sentimentWeight
	momentum := 0.0
	if longMA > 0 {
		momentum = shortMA/longMA - 1
	}
	dailyChange := (avgChange + momentum/float64(longMAWindow)) * sentimentFactor

	generatedAt := time.Now().UTC()
	startDate := prices[len(prices)-1].Date.AddDate(0, 0, 1)

	predictions := make([]entity.StockPrediction, 0, days)
	price := lastClose
	for i := 0; i < days; i++ {
		if i > 0 {
			next := price * (1 + dailyChange)
			price = math.Max(next, price*maxDailyDrop)
		}

		band := confidenceZ * volatility * math.Sqrt(float64(i+1))
		predictions = append(predictions, entity.StockPrediction{
			Ticker:      ticker,
			Date:        startDate.AddDate(0, 0, i),
			Price:       price,
			UpperBound:  price * (1 + band),
			LowerBound:  math.Max(0, price*(1-band)),
			GeneratedAt: generatedAt,
		})
	}

	return predictions, nil
}

// PredictionChangePercent is the percent move of the last projected price
// against the last close, or 0 with a zero close.
func PredictionChangePercent(lastClose, lastPredicted float64) float64 {
	if lastClose == 0 {
		return 0
	}
	return (lastPredicted - lastClose) / lastClose * 100
}

func dailyReturns(closes []float64) []float64 {
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	return returns
}

func tailMean(values []float64, window int) float64 {
	return mean(values[len(values)-window:])
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
