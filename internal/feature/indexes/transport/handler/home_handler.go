// Package handler はindexesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_analysis/internal/api"
	"stock_analysis/internal/feature/indexes/domain/entity"
	"stock_analysis/internal/feature/indexes/usecase"
)

// IndexesUsecase は市場概況の参照ユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type IndexesUsecase interface {
	List(ctx context.Context) ([]entity.IndexMetric, error)
}

// HomeHandler は市場概況エンドポイントのHTTPリクエストを処理します。
type HomeHandler struct {
	indexes IndexesUsecase
}

// NewHomeHandler はHomeHandlerの新しいインスタンスを生成します。
func NewHomeHandler(indexes IndexesUsecase) *HomeHandler {
	return &HomeHandler{indexes: indexes}
}

// Home はGET /homeを処理します。
// indexesテーブルが空の場合は404を返します。
func (h *HomeHandler) Home(c *gin.Context) {
	metrics, err := h.indexes.List(c.Request.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrNoIndexData) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "no index data available"})
			return
		}
		slog.Error("failed to load index metrics", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}

	resp := make([]api.IndexMetricResponse, len(metrics))
	for i, m := range metrics {
		resp[i] = api.IndexMetricResponse{
			Ticker:      m.Ticker,
			FullName:    m.FullName,
			Price:       m.Price,
			Performance: m.Performance,
		}
	}
	c.JSON(http.StatusOK, resp)
}
