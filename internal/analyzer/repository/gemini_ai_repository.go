package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang-stock-insight/internal/analyzer/config"
	"golang-stock-insight/internal/analyzer/dto"
	"golang-stock-insight/pkg/logger"
	"golang-stock-insight/pkg/ratelimit"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// geminiAIRepository scores headline sentiment with the Google Gemini API.
type geminiAIRepository struct {
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (AIRepository, error) {
	perMinute := cfg.Gemini.MaxRequestPerMinute
	if perMinute <= 0 {
		perMinute = 10
	}
	secondsPerRequest := time.Minute / time.Duration(perMinute)

	return &geminiAIRepository{
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		tokenLimiter:   ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute),
		genAiClient:    genAiClient,
	}, nil
}

// ScoreSentiment asks the model for a structured sentiment verdict on one
// headline (optionally with extracted article content).
func (r *geminiAIRepository) ScoreSentiment(ctx context.Context, ticker, headline, content string) (*dto.AISentimentResult, error) {
	prompt := buildSentimentPrompt(ticker, headline, content)

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	tokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count tokens: %w", err)
	}

	r.logger.Debug("Gemini token count",
		logger.IntField("total_tokens", int(tokenResp.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)

	if err := r.tokenLimiter.Wait(ctx, int(tokenResp.TotalTokens)); err != nil {
		return nil, fmt.Errorf("failed to wait for token limit: %w", err)
	}
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	resp, err := r.genAiClient.Models.GenerateContent(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	return parseSentimentResponse(resp.Text())
}

func buildSentimentPrompt(ticker, headline, content string) string {
	var b strings.Builder
	b.WriteString("You are a financial news sentiment rater. Rate the sentiment of the following news about the stock ")
	b.WriteString(ticker)
	b.WriteString(" for an investor holding it.\n\n")
	b.WriteString("Headline: ")
	b.WriteString(headline)
	b.WriteString("\n")
	if content != "" {
		b.WriteString("Article: ")
		b.WriteString(content)
		b.WriteString("\n")
	}
	b.WriteString("\nRespond with JSON only, no prose, in this exact shape:\n")
	b.WriteString(`{"score": <float -1..1>, "category": "<Bullish|Neutral|Bearish>", "reasoning": "<one sentence>", "topics": ["<topic>", ...]}`)
	return b.String()
}

// parseSentimentResponse tolerates markdown fences around the JSON body.
func parseSentimentResponse(text string) (*dto.AISentimentResult, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var result dto.AISentimentResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("failed to parse sentiment response: %w", err)
	}
	if result.Score < -1 || result.Score > 1 {
		return nil, fmt.Errorf("sentiment score %f out of range", result.Score)
	}
	return &result, nil
}
