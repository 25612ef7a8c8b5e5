package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"golang-stock-insight/internal/analyzer/config"
	"golang-stock-insight/internal/analyzer/dto"
	"golang-stock-insight/internal/analyzer/repository"
	"golang-stock-insight/internal/entity"
	"golang-stock-insight/pkg/logger"
	"golang-stock-insight/pkg/telegram"
	"golang-stock-insight/pkg/utils"

	"github.com/robfig/cron/v3"
)

const shockingTopN = 5

// AnalyzerService runs the analysis pipeline: scrape news, score sentiment,
// fetch prices, project predictions, rank, persist, notify.
type AnalyzerService interface {
	// Start blocks, running the pipeline on the configured cron schedule
	// until the context is canceled.
	Start(ctx context.Context) error
	// RunOnce executes a single pipeline run.
	RunOnce(ctx context.Context) (*dto.PipelineSummary, error)
}

// NewAnalyzerService creates the pipeline orchestrator. aiRepo and notifier
// are optional.
func NewAnalyzerService(
	cfg *config.Config,
	log *logger.Logger,
	universeRepo repository.UniverseRepository,
	newsRepo repository.NewsRepository,
	priceRepo repository.PriceHistoryRepository,
	aiRepo repository.AIRepository,
	stocksWriter repository.StocksWriteRepository,
	pricesWriter repository.PricesWriteRepository,
	predictionsWriter repository.PredictionsWriteRepository,
	newsWriter repository.NewsWriteRepository,
	runRepo repository.AnalysisRunRepository,
	notifier telegram.Notifier,
) AnalyzerService {
	return &analyzerService{
		cfg:               cfg,
		logger:            log,
		universeRepo:      universeRepo,
		newsRepo:          newsRepo,
		priceRepo:         priceRepo,
		aiRepo:            aiRepo,
		stocksWriter:      stocksWriter,
		pricesWriter:      pricesWriter,
		predictionsWriter: predictionsWriter,
		newsWriter:        newsWriter,
		runRepo:           runRepo,
		notifier:          notifier,
		sentiment:         NewSentimentAnalyzer(),
	}
}

type analyzerService struct {
	cfg               *config.Config
	logger            *logger.Logger
	universeRepo      repository.UniverseRepository
	newsRepo          repository.NewsRepository
	priceRepo         repository.PriceHistoryRepository
	aiRepo            repository.AIRepository
	stocksWriter      repository.StocksWriteRepository
	pricesWriter      repository.PricesWriteRepository
	predictionsWriter repository.PredictionsWriteRepository
	newsWriter        repository.NewsWriteRepository
	runRepo           repository.AnalysisRunRepository
	notifier          telegram.Notifier
	sentiment         *SentimentAnalyzer
}

type tickerResult struct {
	info        dto.TickerInfo
	summary     dto.SentimentSummary
	news        []entity.StockNews
	prices      []entity.StockPrice
	predictions []entity.StockPrediction
	failed      bool
}

func (s *analyzerService) Start(ctx context.Context) error {
	if s.cfg.Analyzer.Schedule == "" {
		s.logger.Info("No schedule configured, analyzer idle until shutdown")
		<-ctx.Done()
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(s.cfg.Analyzer.Schedule, func() {
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("Scheduled analysis run failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid analyzer schedule: %w", err)
	}

	s.logger.Info("Analyzer scheduled", logger.StringField("schedule", s.cfg.Analyzer.Schedule))
	c.Start()
	<-ctx.Done()

	stopCtx := c.Stop()
	<-stopCtx.Done()
	return nil
}

func (s *analyzerService) RunOnce(ctx context.Context) (*dto.PipelineSummary, error) {
	startedAt := time.Now().UTC()
	s.logger.Info("Starting analysis run", logger.IntField("max_stocks", s.cfg.Analyzer.MaxStocks))

	universe, err := s.universeRepo.GetUniverse(ctx, s.cfg.Analyzer.MaxStocks)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ticker universe: %w", err)
	}
	if len(universe) == 0 {
		return nil, fmt.Errorf("ticker universe is empty")
	}

	results := make([]*tickerResult, len(universe))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, s.cfg.Analyzer.MaxConcurrent)

	for i, info := range universe {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		i, info := i, info
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			results[i] = s.analyzeTicker(ctx, info)
		})
	}
	wg.Wait()

	var ranked []*tickerResult
	failures := 0
	for _, res := range results {
		if res == nil || res.failed {
			failures++
			continue
		}
		ranked = append(ranked, res)
	}
	if len(ranked) == 0 {
		return nil, fmt.Errorf("no tickers analyzed successfully")
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].summary.InvestmentScore > ranked[j].summary.InvestmentScore
	})

	shocking := s.shockingPredictions(ranked)

	if err := s.persist(ctx, ranked, startedAt); err != nil {
		return nil, err
	}

	summary := &dto.PipelineSummary{
		StartedAt:      startedAt,
		FinishedAt:     time.Now().UTC(),
		StocksAnalyzed: len(ranked),
		Failures:       failures,
		TopInvestment:  ranked[0].info.Ticker,
		Shocking:       shocking,
	}

	s.recordRun(ctx, summary)
	s.notify(summary)

	if s.cfg.Analyzer.ExportDir != "" {
		if err := s.exportCorpus(ranked, startedAt); err != nil {
			s.logger.Error("Failed to export corpus", logger.ErrorField(err))
		}
	}

	s.logger.Info("Analysis run finished",
		logger.IntField("analyzed", summary.StocksAnalyzed),
		logger.IntField("failures", summary.Failures),
		logger.StringField("top_investment", summary.TopInvestment),
	)
	return summary, nil
}

func (s *analyzerService) analyzeTicker(ctx context.Context, info dto.TickerInfo) *tickerResult {
	res := &tickerResult{info: info}

	newsItems, err := s.newsRepo.FetchNews(ctx, info.Ticker, info.Name)
	if err != nil {
		s.logger.Warn("News fetch failed, using neutral sentiment",
			logger.StringField("ticker", info.Ticker), logger.ErrorField(err))
		newsItems = nil
	}
	newsItems = s.filterRecent(newsItems)

	scores := make([]float64, 0, len(newsItems))
	for _, item := range newsItems {
		score, category, topics := s.scoreHeadline(ctx, item)
		scores = append(scores, score)
		res.news = append(res.news, entity.StockNews{
			Ticker:            item.Ticker,
			Headline:          item.Headline,
			URL:               item.URL,
			Source:            item.Source,
			PublishedAt:       item.PublishedAt,
			SentimentScore:    score,
			SentimentCategory: category,
			Topics:            topics,
		})
	}
	res.summary = s.sentiment.Aggregate(scores)

	prices, err := s.priceRepo.GetDailyHistory(ctx, dto.GetPriceHistoryParam{
		Ticker: info.Ticker,
		Days:   s.cfg.Analyzer.HistoryDays,
	})
	if err != nil {
		s.logger.Warn("Price history fetch failed, skipping ticker",
			logger.StringField("ticker", info.Ticker), logger.ErrorField(err))
		res.failed = true
		return res
	}
	res.prices = prices

	predictions, err := PredictTrend(info.Ticker, prices, res.summary.AvgSentiment, s.cfg.Analyzer.PredictionDays)
	if err != nil {
		s.logger.Warn("Prediction skipped",
			logger.StringField("ticker", info.Ticker), logger.ErrorField(err))
	} else {
		res.predictions = predictions
	}

	return res
}

func (s *analyzerService) scoreHeadline(ctx context.Context, item dto.NewsItem) (float64, string, []string) {
	if s.aiRepo != nil {
		content := ""
		if s.cfg.Analyzer.FullTextSentiment && item.URL != "" {
			extracted, err := s.newsRepo.FetchArticleContent(ctx, item.URL)
			if err != nil {
				s.logger.Debug("Article extraction failed, scoring headline only",
					logger.StringField("url", item.URL), logger.ErrorField(err))
			} else {
				content = extracted
			}
		}
		result, err := s.aiRepo.ScoreSentiment(ctx, item.Ticker, item.Headline, content)
		if err == nil {
			return result.Score, result.Category, result.Topics
		}
		s.logger.Warn("AI sentiment failed, falling back to lexicon",
			logger.StringField("ticker", item.Ticker), logger.ErrorField(err))
	}

	score := s.sentiment.Score(item.Headline)
	return score, s.sentiment.Categorize(score), nil
}

func (s *analyzerService) filterRecent(items []dto.NewsItem) []dto.NewsItem {
	cutoff := time.Now().AddDate(0, 0, -s.cfg.Analyzer.DaysBack)
	var recent []dto.NewsItem
	for _, item := range items {
		if !item.PublishedAt.Before(cutoff) {
			recent = append(recent, item)
		}
	}
	// When nothing is recent enough, older news beats no news.
	if len(recent) == 0 {
		return items
	}
	return recent
}

func (s *analyzerService) persist(ctx context.Context, ranked []*tickerResult, startedAt time.Time) error {
	stocks := make([]entity.Stock, 0, len(ranked))
	for i, res := range ranked {
		stock := entity.Stock{
			Ticker:            res.info.Ticker,
			Name:              res.info.Name,
			Sector:            res.info.Sector,
			Rank:              i + 1,
			SentimentScore:    res.summary.AvgSentiment,
			SentimentCategory: res.summary.SentimentCategory,
			InvestmentScore:   res.summary.InvestmentScore,
			NewsCount:         res.summary.NewsCount,
			BullishCount:      res.summary.BullishCount,
			NeutralCount:      res.summary.NeutralCount,
			BearishCount:      res.summary.BearishCount,
			LastUpdated:       startedAt,
		}
		if len(res.prices) > 0 {
			stock.CurrentPrice = res.prices[len(res.prices)-1].Price
		}
		stocks = append(stocks, stock)
	}

	if err := s.stocksWriter.UpsertStocks(ctx, stocks); err != nil {
		return fmt.Errorf("failed to upsert stocks: %w", err)
	}

	for _, res := range ranked {
		if err := s.pricesWriter.UpsertPrices(ctx, res.prices); err != nil {
			return fmt.Errorf("failed to upsert prices for %s: %w", res.info.Ticker, err)
		}
		if err := s.predictionsWriter.ReplaceForTicker(ctx, res.info.Ticker, res.predictions); err != nil {
			return fmt.Errorf("failed to replace predictions for %s: %w", res.info.Ticker, err)
		}
		if err := s.newsWriter.CreateIgnoreConflict(ctx, res.news); err != nil {
			return fmt.Errorf("failed to store news for %s: %w", res.info.Ticker, err)
		}
	}
	return nil
}

// shockingPredictions surfaces the largest projected moves in each direction.
func (s *analyzerService) shockingPredictions(ranked []*tickerResult) dto.ShockingPredictions {
	now := time.Now().UTC()
	var all []dto.ShockingPrediction

	for _, res := range ranked {
		if len(res.prices) == 0 || len(res.predictions) == 0 {
			continue
		}
		lastClose := res.prices[len(res.prices)-1].Price
		lastPredicted := res.predictions[len(res.predictions)-1].Price
		changePct := PredictionChangePercent(lastClose, lastPredicted)

		// A flat projection counts as a decrease.
		direction := "decrease"
		if changePct > 0 {
			direction = "increase"
		}

		all = append(all, dto.ShockingPrediction{
			Company:         res.info.Name,
			Symbol:          res.info.Ticker,
			Prediction:      math.Abs(changePct),
			Direction:       direction,
			Timeframe:       timeframeForMagnitude(math.Abs(changePct)),
			Timestamp:       now,
			CurrentPrice:    lastClose,
			PredictedPrice:  lastPredicted,
			SentimentScore:  res.summary.AvgSentiment,
			InvestmentScore: res.summary.InvestmentScore,
		})
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Prediction > all[j].Prediction })

	out := dto.ShockingPredictions{}
	for _, p := range all {
		if p.Direction == "increase" && len(out.TopIncreases) < shockingTopN {
			out.TopIncreases = append(out.TopIncreases, p)
		}
		if p.Direction == "decrease" && len(out.TopDecreases) < shockingTopN {
			out.TopDecreases = append(out.TopDecreases, p)
		}
	}
	if len(all) > shockingTopN*2 {
		all = all[:shockingTopN*2]
	}
	out.AllShocking = all
	return out
}

func timeframeForMagnitude(absChange float64) string {
	switch {
	case absChange > 20:
		return "30 days"
	case absChange > 10:
		return "14 days"
	default:
		return "7 days"
	}
}

func (s *analyzerService) recordRun(ctx context.Context, summary *dto.PipelineSummary) {
	raw, err := json.Marshal(summary.Shocking)
	if err != nil {
		s.logger.Error("Failed to marshal run summary", logger.ErrorField(err))
		raw = []byte("{}")
	}
	run := &entity.AnalysisRun{
		StartedAt:      summary.StartedAt,
		FinishedAt:     summary.FinishedAt,
		StocksAnalyzed: summary.StocksAnalyzed,
		Failures:       summary.Failures,
		Summary:        raw,
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		s.logger.Error("Failed to record analysis run", logger.ErrorField(err))
	}
}

func (s *analyzerService) notify(summary *dto.PipelineSummary) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendMessage(telegram.FormatPipelineSummary(summary)); err != nil {
		s.logger.Error("Failed to send pipeline notification", logger.ErrorField(err))
	}
}
