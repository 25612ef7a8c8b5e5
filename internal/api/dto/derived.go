package dto

// Derived display fields. The dashboard recomputes these from the detail
// payload, so the calculations here are the single source of truth for both
// the widgets and their tests.

// LastPrice returns the most recent observed price, or 0 when the series is
// empty.
func (d *StockDetailResponse) LastPrice() float64 {
	if len(d.HistoricalData) == 0 {
		return 0
	}
	return d.HistoricalData[len(d.HistoricalData)-1].Price
}

// QuoteChange is the difference between the last and second-to-last observed
// prices. With fewer than two points the previous price is treated as equal
// to the last one, so the change is 0.
func (d *StockDetailResponse) QuoteChange() float64 {
	last, prev := d.lastTwoPrices()
	return last - prev
}

// QuoteChangePercent is QuoteChange relative to the second-to-last price,
// as a percentage. A zero previous price yields 0.
func (d *StockDetailResponse) QuoteChangePercent() float64 {
	last, prev := d.lastTwoPrices()
	if prev == 0 {
		return 0
	}
	return (last - prev) / prev * 100
}

// PredictionChangePercent is the percent delta between the last predicted
// price and the last observed price. A zero or missing observed price yields
// 0, as does an empty prediction series.
func (d *StockDetailResponse) PredictionChangePercent() float64 {
	if len(d.Prediction.Data) == 0 {
		return 0
	}
	last := d.LastPrice()
	if last == 0 {
		return 0
	}
	predicted := d.Prediction.Data[len(d.Prediction.Data)-1].Price
	return (predicted - last) / last * 100
}

func (d *StockDetailResponse) lastTwoPrices() (last, prev float64) {
	n := len(d.HistoricalData)
	if n == 0 {
		return 0, 0
	}
	last = d.HistoricalData[n-1].Price
	prev = last
	if n > 1 {
		prev = d.HistoricalData[n-2].Price
	}
	return last, prev
}

// SentimentGaugeOffset maps a sentiment score in [-1, 1] to a gauge position
// in [0, 100].
func SentimentGaugeOffset(score float64) float64 {
	return (score + 1) / 2 * 100
}

// InvestmentGaugeOffset maps an investment score, already in [0, 100], to its
// gauge position.
func InvestmentGaugeOffset(score float64) float64 {
	return score
}
