package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang-stock-insight/internal/api/dto"
	"golang-stock-insight/internal/api/service"
	"golang-stock-insight/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStockService struct {
	listRows  []dto.StockListItem
	listErr   error
	detail    *dto.StockDetailResponse
	detailErr error
	topRows   []dto.StockListItem
	topErr    error
	topLimit  int
}

func (s *stubStockService) ListStocks(context.Context) ([]dto.StockListItem, error) {
	return s.listRows, s.listErr
}

func (s *stubStockService) GetStockDetail(_ context.Context, ticker string) (*dto.StockDetailResponse, error) {
	return s.detail, s.detailErr
}

func (s *stubStockService) TopStocks(_ context.Context, limit int) ([]dto.StockListItem, error) {
	s.topLimit = limit
	return s.topRows, s.topErr
}

// newServer mirrors the route wiring of cmd/api-service: an /api group with
// a nested /stocks group handed to RegisterRoutes.
func newServer(handler *StockHandler) *echo.Echo {
	e := echo.New()
	apiGroup := e.Group("/api")
	handler.RegisterRoutes(apiGroup.Group("/stocks"))
	return e
}

func request(t *testing.T, handler *StockHandler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	newServer(handler).ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestRegisterRoutes_ServedPaths(t *testing.T) {
	svc := &stubStockService{}
	handler := NewStockHandler(svc, logger.NewNop())

	assert.Equal(t, http.StatusOK, request(t, handler, "/api/stocks").Code)
	assert.Equal(t, http.StatusOK, request(t, handler, "/api/stocks/top").Code)
	assert.Equal(t, http.StatusNotFound, request(t, handler, "/api").Code)
}

func TestGetStocks_ListMode(t *testing.T) {
	svc := &stubStockService{listRows: []dto.StockListItem{
		{Ticker: "AAPL", Rank: 1, CurrentPrice: 100},
		{Ticker: "MSFT", Rank: 2, CurrentPrice: 200},
	}}
	handler := NewStockHandler(svc, logger.NewNop())

	rec := request(t, handler, "/api/stocks")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []dto.StockListItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "AAPL", rows[0].Ticker)
}

func TestGetStocks_DetailMode(t *testing.T) {
	svc := &stubStockService{detail: &dto.StockDetailResponse{
		Ticker: "AAPL",
		HistoricalData: []dto.PricePoint{
			{Date: "2025-08-01", Price: 100},
		},
	}}
	handler := NewStockHandler(svc, logger.NewNop())

	rec := request(t, handler, "/api/stocks?ticker=AAPL")
	require.Equal(t, http.StatusOK, rec.Code)

	var detail dto.StockDetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "AAPL", detail.Ticker)
	assert.Len(t, detail.HistoricalData, 1)
}

func TestGetStocks_DetailNotFound(t *testing.T) {
	svc := &stubStockService{detailErr: service.ErrStockNotFound}
	handler := NewStockHandler(svc, logger.NewNop())

	rec := request(t, handler, "/api/stocks?ticker=QQQ")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Stock QQQ not found", errorBody(t, rec))
}

func TestGetStocks_DetailNoHistory(t *testing.T) {
	svc := &stubStockService{detailErr: service.ErrNoHistoricalData}
	handler := NewStockHandler(svc, logger.NewNop())

	rec := request(t, handler, "/api/stocks?ticker=ZZZ")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No historical data available for ZZZ", errorBody(t, rec))
}

func TestGetStocks_DetailInternalError(t *testing.T) {
	svc := &stubStockService{detailErr: errors.New("db down")}
	handler := NewStockHandler(svc, logger.NewNop())

	rec := request(t, handler, "/api/stocks?ticker=AAPL")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch stock data", errorBody(t, rec))
}

func TestGetStocks_ListInternalError(t *testing.T) {
	svc := &stubStockService{listErr: errors.New("db down")}
	handler := NewStockHandler(svc, logger.NewNop())

	rec := request(t, handler, "/api/stocks")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetTopStocks_DefaultLimit(t *testing.T) {
	svc := &stubStockService{topRows: []dto.StockListItem{{Ticker: "A"}}}
	handler := NewStockHandler(svc, logger.NewNop())

	rec := request(t, handler, "/api/stocks/top")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultTopLimit, svc.topLimit)
}

func TestGetTopStocks_CapsLimit(t *testing.T) {
	svc := &stubStockService{}
	handler := NewStockHandler(svc, logger.NewNop())

	rec := request(t, handler, "/api/stocks/top?limit=500")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, maxTopLimit, svc.topLimit)
}

func TestGetTopStocks_InvalidLimit(t *testing.T) {
	handler := NewStockHandler(&stubStockService{}, logger.NewNop())

	for _, raw := range []string{"abc", "0", "-5"} {
		rec := request(t, handler, "/api/stocks/top?limit="+raw)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", raw)
	}
}
