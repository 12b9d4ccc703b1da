// Package handler はindicatorsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"stock_analysis/internal/api"
	"stock_analysis/internal/feature/indicators/domain"
	"stock_analysis/internal/feature/indicators/domain/entity"
)

// IndicatorsUsecase は指標計算操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type IndicatorsUsecase interface {
	// Compute は指定されたティッカーの全指標マップを計算します。
	Compute(ctx context.Context, ticker string, p float64, n int, rfAnnual float64) (entity.IndicatorResult, error)
}

// IndicatorsHandler handles the indicator computation endpoints.
type IndicatorsHandler struct {
	indicators IndicatorsUsecase
}

// NewIndicatorsHandler はIndicatorsHandlerの新しいインスタンスを生成します。
func NewIndicatorsHandler(indicators IndicatorsUsecase) *IndicatorsHandler {
	return &IndicatorsHandler{indicators: indicators}
}

// GetIndicators handles GET /ticker/:ticker.
// - binds and validates p, n, rf_ann query parameters (400 on violation)
// - 404 when the ticker has no data at all
// - 422 when the history is too short for any statistic
// - 502 when the provider is unreachable
// - 500 for any other computation failure
func (h *IndicatorsHandler) GetIndicators(c *gin.Context) {
	ticker := c.Param("ticker")

	var q api.IndicatorQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		slog.Warn("indicator query validation failed", "ticker", ticker, "error", err)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid query parameters"})
		return
	}

	result, err := h.indicators.Compute(c.Request.Context(), ticker, q.P, q.N, q.RFAnn)
	if err != nil {
		h.writeError(c, ticker, err)
		return
	}

	c.JSON(http.StatusOK, api.IndicatorResponse{
		Ticker:    strings.ToUpper(ticker),
		Timestamp: time.Now().Format(time.RFC3339),
		Data:      result,
	})
}

// GetMetric handles GET /ticker/:ticker/metric/:name, returning a single
// value out of the computed map.
func (h *IndicatorsHandler) GetMetric(c *gin.Context) {
	ticker := c.Param("ticker")
	metric := c.Param("name")

	var q api.IndicatorQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid query parameters"})
		return
	}

	result, err := h.indicators.Compute(c.Request.Context(), ticker, q.P, q.N, q.RFAnn)
	if err != nil {
		h.writeError(c, ticker, err)
		return
	}

	value, ok := result[metric]
	if !ok {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "metric not found: " + metric})
		return
	}

	c.JSON(http.StatusOK, api.MetricResponse{
		Ticker:    strings.ToUpper(ticker),
		Metric:    metric,
		Value:     value,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// writeError maps the domain error taxonomy onto HTTP status codes. No
// error is silently dropped; unexpected ones surface as 500 with the
// cause logged.
func (h *IndicatorsHandler) writeError(c *gin.Context, ticker string, err error) {
	switch {
	case errors.Is(err, domain.ErrTickerNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "ticker not found: " + ticker})
	case errors.Is(err, domain.ErrInsufficientHistory), errors.Is(err, domain.ErrInsufficientData):
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: "not enough price history for " + ticker})
	case errors.Is(err, domain.ErrDataUnavailable):
		slog.Error("market data unavailable", "ticker", ticker, "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "market data temporarily unavailable"})
	default:
		slog.Error("indicator computation failed", "ticker", ticker, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "indicator computation failed"})
	}
}
