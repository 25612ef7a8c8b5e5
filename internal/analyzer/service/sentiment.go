package service

import (
	"math"
	"strings"

	"golang-stock-insight/internal/analyzer/dto"
	"golang-stock-insight/pkg/common"
)

// financeLexicon weights finance-specific terms that generic sentiment
// lexicons miss or underweight.
var financeLexicon = map[string]float64{
	"bullish": 4.0, "bearish": -3.0,
	"outperform": 3.0, "underperform": -2.0,
	"buy": 3.0, "sell": -2.0,
	"upgrade": 3.5, "downgrade": -2.5,
	"beat": 3.0, "miss": -2.0,
	"exceeded": 3.0, "fell short": -2.0,
	"growth": 2.5, "decline": -1.5,
	"profit": 2.5, "loss": -1.5,
	"positive": 2.0, "negative": -1.0,
	"strong": 2.0, "weak": -1.0,
	"surge": 3.0, "plunge": -2.0,
	"rise": 2.0, "fall": -1.0,
	"rally": 3.0, "crash": -2.5,
	"breakthrough": 3.0, "breakdown": -2.0,
}

// normalizationAlpha matches the VADER compound normalization constant.
const normalizationAlpha = 15.0

// categoryThreshold separates Bullish/Bearish from Neutral.
const categoryThreshold = 0.05

// SentimentAnalyzer scores headlines with a finance lexicon. It is the
// fallback path when no AI provider is configured and the cross-check for
// AI-scored results.
type SentimentAnalyzer struct {
	lexicon map[string]float64
}

// NewSentimentAnalyzer creates an analyzer with the default finance lexicon.
func NewSentimentAnalyzer() *SentimentAnalyzer {
	return &SentimentAnalyzer{lexicon: financeLexicon}
}

// Score rates one text in [-1, 1].
func (a *SentimentAnalyzer) Score(text string) float64 {
	lowered := strings.ToLower(text)
	words := strings.FieldsFunc(lowered, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	var sum float64
	for _, w := range words {
		if v, ok := a.lexicon[w]; ok {
			sum += v
		}
	}
	// Multi-word phrases are matched as substrings.
	for term, v := range a.lexicon {
		if strings.Contains(term, " ") && strings.Contains(lowered, term) {
			sum += v
		}
	}

	if sum == 0 {
		return 0
	}
	return sum / math.Sqrt(sum*sum+normalizationAlpha)
}

// Categorize maps a score to its sentiment category.
func (a *SentimentAnalyzer) Categorize(score float64) string {
	switch {
	case score >= categoryThreshold:
		return common.SentimentBullish
	case score <= -categoryThreshold:
		return common.SentimentBearish
	default:
		return common.SentimentNeutral
	}
}

// Aggregate combines per-headline scores into one ticker summary, including
// the 0-100 investment score.
func (a *SentimentAnalyzer) Aggregate(scores []float64) dto.SentimentSummary {
	if len(scores) == 0 {
		return NeutralSentiment()
	}

	var sum float64
	summary := dto.SentimentSummary{NewsCount: len(scores)}
	for _, s := range scores {
		sum += s
		switch a.Categorize(s) {
		case common.SentimentBullish:
			summary.BullishCount++
		case common.SentimentBearish:
			summary.BearishCount++
		default:
			summary.NeutralCount++
		}
	}

	avg := sum / float64(len(scores))
	strength := math.Abs(avg)

	summary.AvgSentiment = avg
	summary.SentimentCategory = a.Categorize(avg)
	summary.SentimentStrength = strength
	summary.InvestmentScore = investmentScore(avg, strength)
	return summary
}

// investmentScore maps average sentiment to the 0-100 attractiveness scale,
// amplified by sentiment strength and clamped.
func investmentScore(avg, strength float64) float64 {
	normalized := (avg + 1) / 2
	score := 50 + (normalized-0.5)*100
	score = score * (1 + strength*0.5)
	return math.Min(100, math.Max(0, score))
}

// NeutralSentiment is the default applied when a ticker has no usable news.
func NeutralSentiment() dto.SentimentSummary {
	return dto.SentimentSummary{
		AvgSentiment:      0,
		SentimentCategory: common.SentimentNeutral,
		SentimentStrength: 0,
		InvestmentScore:   50,
		NewsCount:         0,
		NeutralCount:      1,
	}
}
