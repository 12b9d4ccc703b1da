// Package handler はwalletフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stock_analysis/internal/api"
	"stock_analysis/internal/feature/wallet/domain/entity"
	"stock_analysis/internal/feature/wallet/usecase"
	jwtmw "stock_analysis/internal/platform/jwt"
)

// WalletUsecase はウォレットとお気に入り操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type WalletUsecase interface {
	AddRow(ctx context.Context, userID uint, ticker, quantity string) (*entity.WalletRow, error)
	ListRows(ctx context.Context, userID uint) ([]entity.WalletRow, error)
	DeleteRow(ctx context.Context, userID, rowID uint) error
	AddFavorite(ctx context.Context, userID uint, ticker string) error
	RemoveFavorite(ctx context.Context, userID uint, ticker string) error
	ListFavorites(ctx context.Context, userID uint) ([]entity.Favorite, error)
}

// WalletHandler はウォレット操作のHTTPリクエストを処理します。
type WalletHandler struct {
	wallet WalletUsecase
}

// NewWalletHandler はWalletHandlerの新しいインスタンスを生成します。
func NewWalletHandler(wallet WalletUsecase) *WalletHandler {
	return &WalletHandler{wallet: wallet}
}

// currentUserID はJWTミドルウェアが設定したユーザーIDをコンテキストから取得します。
func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(jwtmw.ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// toRowResponse はエンティティをAPIレスポンスに変換します。
func toRowResponse(row entity.WalletRow) api.WalletRowResponse {
	return api.WalletRowResponse{
		ID:        row.ID,
		Ticker:    row.Ticker,
		Quantity:  row.Quantity.String(),
		CreatedAt: row.CreatedAt.Format(time.RFC3339),
	}
}

// ListRows はGET /api/me/walletを処理します。
func (h *WalletHandler) ListRows(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	rows, err := h.wallet.ListRows(c.Request.Context(), userID)
	if err != nil {
		slog.Error("failed to list wallet rows", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	resp := make([]api.WalletRowResponse, len(rows))
	for i, row := range rows {
		resp[i] = toRowResponse(row)
	}
	c.JSON(http.StatusOK, resp)
}

// AddRow はPOST /api/me/walletを処理します。
func (h *WalletHandler) AddRow(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	var req api.WalletCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	row, err := h.wallet.AddRow(c.Request.Context(), userID, req.Ticker, req.Quantity)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidQuantity) || errors.Is(err, usecase.ErrInvalidTicker) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("failed to add wallet row", "error", err, "user_id", userID, "ticker", req.Ticker)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, toRowResponse(*row))
}

// DeleteRow はDELETE /api/me/wallet/:idを処理します。
// 自ユーザーが所有する行のみ削除できます。
func (h *WalletHandler) DeleteRow(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	rowID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid row id"})
		return
	}
	if err := h.wallet.DeleteRow(c.Request.Context(), userID, uint(rowID)); err != nil {
		if errors.Is(err, usecase.ErrRowNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "wallet row not found"})
			return
		}
		slog.Error("failed to delete wallet row", "error", err, "user_id", userID, "row_id", rowID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "ok"})
}

// ListFavorites はGET /api/me/favoritesを処理します。
func (h *WalletHandler) ListFavorites(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	favs, err := h.wallet.ListFavorites(c.Request.Context(), userID)
	if err != nil {
		slog.Error("failed to list favorites", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	tickers := make([]string, len(favs))
	for i, f := range favs {
		tickers[i] = f.Ticker
	}
	c.JSON(http.StatusOK, gin.H{"favorites": tickers})
}

// AddFavorite はPOST /api/me/favorites/:tickerを処理します。
func (h *WalletHandler) AddFavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	if err := h.wallet.AddFavorite(c.Request.Context(), userID, c.Param("ticker")); err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidTicker):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, usecase.ErrAlreadyFavorite):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
		default:
			slog.Error("failed to add favorite", "error", err, "user_id", userID)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, api.MessageResponse{Message: "ok"})
}

// RemoveFavorite はDELETE /api/me/favorites/:tickerを処理します。
func (h *WalletHandler) RemoveFavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	if err := h.wallet.RemoveFavorite(c.Request.Context(), userID, c.Param("ticker")); err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidTicker):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, usecase.ErrFavoriteNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
		default:
			slog.Error("failed to remove favorite", "error", err, "user_id", userID)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "ok"})
}
