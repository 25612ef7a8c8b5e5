package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang-stock-insight/internal/analyzer/config"
	"golang-stock-insight/internal/analyzer/dto"
	"golang-stock-insight/internal/entity"
	"golang-stock-insight/pkg/common"
	"golang-stock-insight/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"gorm.io/gorm"
)

// universeRepository resolves the analysis universe in order of preference:
// the stocks already in the database, then the scraped index constituents
// table, then the static fallback list.
type universeRepository struct {
	db     *gorm.DB
	cfg    *config.Config
	logger *logger.Logger
	client *http.Client
}

// NewUniverseRepository creates a new universe repository.
func NewUniverseRepository(db *gorm.DB, cfg *config.Config, log *logger.Logger) UniverseRepository {
	return &universeRepository{
		db:     db,
		cfg:    cfg,
		logger: log,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (r *universeRepository) GetUniverse(ctx context.Context, max int) ([]dto.TickerInfo, error) {
	if r.db != nil {
		var stocks []entity.Stock
		if err := r.db.WithContext(ctx).Order("rank ASC").Limit(max).Find(&stocks).Error; err == nil && len(stocks) > 0 {
			infos := make([]dto.TickerInfo, 0, len(stocks))
			for _, s := range stocks {
				infos = append(infos, dto.TickerInfo{Ticker: s.Ticker, Name: s.Name, Sector: s.Sector})
			}
			return infos, nil
		}
	}

	if infos, err := r.scrapeConstituents(ctx, max); err == nil && len(infos) > 0 {
		return infos, nil
	} else if err != nil {
		r.logger.Warn("Constituents scrape failed, using fallback tickers", logger.ErrorField(err))
	}

	infos := make([]dto.TickerInfo, 0, max)
	for _, ticker := range common.FallbackTickers {
		if len(infos) >= max {
			break
		}
		infos = append(infos, dto.TickerInfo{Ticker: ticker, Name: ticker})
	}
	return infos, nil
}

// scrapeConstituents reads the ticker/company columns of the configured index
// constituents page.
func (r *universeRepository) scrapeConstituents(ctx context.Context, max int) ([]dto.TickerInfo, error) {
	url := r.cfg.Universe.ConstituentsURL
	if url == "" {
		url = "https://www.slickcharts.com/sp500"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.107 Safari/537.36")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from constituents page", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse constituents page: %w", err)
	}

	var infos []dto.TickerInfo
	doc.Find("table tbody tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return true
		}
		name := strings.TrimSpace(cells.Eq(1).Text())
		ticker := strings.TrimSpace(cells.Eq(2).Text())
		if ticker == "" {
			return true
		}
		infos = append(infos, dto.TickerInfo{Ticker: ticker, Name: name})
		return len(infos) < max
	})

	return infos, nil
}
