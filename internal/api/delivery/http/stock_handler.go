package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"golang-stock-insight/internal/api/service"
	"golang-stock-insight/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	defaultTopLimit = 50
	maxTopLimit     = 101
)

// StockHandler handles HTTP requests for stock reads.
type StockHandler struct {
	stockService service.StockService
	logger       *logger.Logger
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService service.StockService, logger *logger.Logger) *StockHandler {
	return &StockHandler{stockService: stockService, logger: logger}
}

// RegisterRoutes registers the stock routes to the Echo group.
func (h *StockHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetStocks)
	g.GET("/top", h.GetTopStocks)
}

// GetStocks godoc
// @Summary Get the ranked stock list or one stock's detail
// @Description Without a ticker, returns every stock ordered by rank with current price and prediction change. With ?ticker=T, returns that stock's full detail including historical and prediction series.
// @Tags stocks
// @Produce  json
// @Param   ticker  query   string  false   "Stock ticker for detail mode"
// @Success 200 {array} dto.StockListItem
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks [get]
func (h *StockHandler) GetStocks(c echo.Context) error {
	ticker := c.QueryParam("ticker")
	if ticker != "" {
		return h.getStockDetail(c, ticker)
	}

	stocks, err := h.stockService.ListStocks(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list stocks", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch stock data"})
	}
	return c.JSON(http.StatusOK, stocks)
}

func (h *StockHandler) getStockDetail(c echo.Context, ticker string) error {
	detail, err := h.stockService.GetStockDetail(c.Request().Context(), ticker)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStockNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": fmt.Sprintf("Stock %s not found", ticker)})
		case errors.Is(err, service.ErrNoHistoricalData):
			return c.JSON(http.StatusNotFound, echo.Map{"error": fmt.Sprintf("No historical data available for %s", ticker)})
		default:
			h.logger.Error("Failed to get stock detail", logger.StringField("ticker", ticker), logger.ErrorField(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch stock data"})
		}
	}
	return c.JSON(http.StatusOK, detail)
}

// GetTopStocks godoc
// @Summary Get the top stocks by investment score
// @Description Returns up to limit stocks ordered by investment score descending, enriched like the ranked list.
// @Tags stocks
// @Produce  json
// @Param   limit  query   int false   "Row limit (default 50, max 101)"
// @Success 200 {array} dto.StockListItem
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/top [get]
func (h *StockHandler) GetTopStocks(c echo.Context) error {
	limit := defaultTopLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid limit"})
		}
		limit = parsed
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}

	stocks, err := h.stockService.TopStocks(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to get top stocks", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch stock data"})
	}
	return c.JSON(http.StatusOK, stocks)
}
