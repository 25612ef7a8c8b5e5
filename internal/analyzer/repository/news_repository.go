package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang-stock-insight/internal/analyzer/config"
	"golang-stock-insight/internal/analyzer/dto"
	"golang-stock-insight/pkg/logger"
	"golang-stock-insight/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	newsFetchAttempts = 3
	retryDelay        = 5 * time.Second
)

// newsRepository scrapes headlines from the Finviz news table and the Yahoo
// Finance RSS feed. Results are cached per ticker so repeated enrichment of
// the same ticker within one run does not refetch.
type newsRepository struct {
	cfg            *config.Config
	logger         *logger.Logger
	client         *http.Client
	requestLimiter *rate.Limiter
	inmemoryCache  *cache.Cache
}

// NewNewsRepository creates a new scraping news repository.
func NewNewsRepository(cfg *config.Config, log *logger.Logger) NewsRepository {
	perMinute := cfg.News.MaxRequestPerMinute
	if perMinute <= 0 {
		perMinute = 30
	}
	cacheTTL := cfg.News.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &newsRepository{
		cfg:            cfg,
		logger:         log,
		client:         &http.Client{Timeout: 15 * time.Second},
		requestLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		inmemoryCache:  cache.New(cacheTTL, 10*time.Minute),
	}
}

// FetchNews combines both sources, retrying up to three times before giving
// up. An empty result with a nil error means no news, which the caller turns
// into a neutral default.
func (r *newsRepository) FetchNews(ctx context.Context, ticker, name string) ([]dto.NewsItem, error) {
	if cached, found := r.inmemoryCache.Get(ticker); found {
		return cached.([]dto.NewsItem), nil
	}

	var items []dto.NewsItem
	for attempt := 0; attempt < newsFetchAttempts; attempt++ {
		if attempt > 0 {
			r.logger.Info("Retrying news fetch",
				logger.StringField("ticker", ticker), logger.IntField("attempt", attempt+1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}

		finviz, err := r.scrapeFinviz(ctx, ticker)
		if err != nil {
			r.logger.Warn("Finviz scrape failed", logger.StringField("ticker", ticker), logger.ErrorField(err))
		}
		items = append(items, finviz...)

		yahoo, err := r.fetchYahooRSS(ctx, ticker)
		if err != nil {
			r.logger.Warn("Yahoo RSS fetch failed", logger.StringField("ticker", ticker), logger.ErrorField(err))
		}
		items = append(items, yahoo...)

		if len(items) > 0 {
			break
		}
	}

	r.inmemoryCache.Set(ticker, items, cache.DefaultExpiration)
	return items, nil
}

func (r *newsRepository) scrapeFinviz(ctx context.Context, ticker string) ([]dto.NewsItem, error) {
	baseURL := r.cfg.News.FinvizBaseURL
	if baseURL == "" {
		baseURL = "https://finviz.com"
	}
	url := fmt.Sprintf("%s/quote.ashx?t=%s", baseURL, ticker)

	body, err := r.get(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse finviz page: %w", err)
	}

	var items []dto.NewsItem
	lastDate := time.Now()
	doc.Find("table#news-table tr").Each(func(_ int, row *goquery.Selection) {
		link := row.Find("a.tab-link-news")
		headline := strings.TrimSpace(link.Text())
		if headline == "" {
			return
		}
		href, _ := link.Attr("href")
		source := strings.TrimSpace(row.Find("div.news-link-right, span").First().Text())

		// Finviz only prints the date on the first row of each day; later rows
		// carry the time alone and inherit the previous date.
		dateCell := strings.TrimSpace(row.Find("td").First().Text())
		published, hasDate := parseFinvizDate(dateCell, lastDate)
		if hasDate {
			lastDate = published
		}

		items = append(items, dto.NewsItem{
			Ticker:      ticker,
			Headline:    headline,
			URL:         href,
			Source:      source,
			PublishedAt: published,
		})
	})

	return items, nil
}

// parseFinvizDate handles "Jan-02-25 09:30AM" and bare "09:30AM" cells.
func parseFinvizDate(cell string, lastDate time.Time) (time.Time, bool) {
	fields := strings.Fields(cell)
	if len(fields) == 2 {
		if t, err := time.Parse("Jan-02-06 03:04PM", fields[0]+" "+fields[1]); err == nil {
			return t, true
		}
		if strings.EqualFold(fields[0], "Today") {
			now := time.Now()
			if clock, err := time.Parse("03:04PM", fields[1]); err == nil {
				return time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC), true
			}
			return now, true
		}
	}
	if len(fields) == 1 {
		if clock, err := time.Parse("03:04PM", fields[0]); err == nil {
			return time.Date(lastDate.Year(), lastDate.Month(), lastDate.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC), false
		}
	}
	return lastDate, false
}

func (r *newsRepository) fetchYahooRSS(ctx context.Context, ticker string) ([]dto.NewsItem, error) {
	baseURL := r.cfg.News.YahooRSSBaseURL
	if baseURL == "" {
		baseURL = "https://feeds.finance.yahoo.com/rss/2.0/headline"
	}
	url := fmt.Sprintf("%s?s=%s&region=US&lang=en-US", baseURL, ticker)

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	fp := gofeed.NewParser()
	feed, err := fp.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse yahoo rss feed: %w", err)
	}

	var items []dto.NewsItem
	for _, item := range feed.Items {
		published := time.Now()
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		}
		items = append(items, dto.NewsItem{
			Ticker:      ticker,
			Headline:    strings.TrimSpace(item.Title),
			URL:         item.Link,
			Source:      "Yahoo Finance",
			PublishedAt: published,
		})
	}
	return items, nil
}

// FetchArticleContent downloads one article and extracts its readable text.
func (r *newsRepository) FetchArticleContent(ctx context.Context, url string) (string, error) {
	body, err := r.get(ctx, url)
	if err != nil {
		return "", err
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse news content: %w", err)
	}
	content := doc.Content()

	docHTML, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(content)))
	if err != nil {
		return "", fmt.Errorf("failed to parse news content: %w", err)
	}

	content = strings.TrimSpace(docHTML.Text())
	content = strings.ReplaceAll(content, "\n", " ")
	content = strings.ReplaceAll(content, "\t", " ")
	return utils.SafeText(content), nil
}

func (r *newsRepository) get(ctx context.Context, url string) ([]byte, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
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
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}
