// Package router assembles the gin engine and the route table.
package router

import (
	authhandler "stock_analysis/internal/feature/auth/transport/handler"
	indexhandler "stock_analysis/internal/feature/indexes/transport/handler"
	indicatorhandler "stock_analysis/internal/feature/indicators/transport/handler"
	wallethandler "stock_analysis/internal/feature/wallet/transport/handler"
	platformhandler "stock_analysis/internal/platform/http/handler"
	jwtmw "stock_analysis/internal/platform/jwt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter は全ハンドラーを束ねたgin.Engineを生成します。
func NewRouter(
	auth *authhandler.AuthHandler,
	indicators *indicatorhandler.IndicatorsHandler,
	home *indexhandler.HomeHandler,
	wallet *wallethandler.WalletHandler,
) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	// 認証不要
	// 導通確認用
	r.GET("/healthz", platformhandler.Health)
	// 新規ユーザー登録
	r.POST("/signup", auth.Signup)
	// ログイン（トークンペア発行）
	r.POST("/login", auth.Login)
	// リフレッシュトークンのローテーション
	r.POST("/refresh", auth.Refresh)
	// 市場概況
	r.GET("/home", home.Home)
	// 指標一式
	r.GET("/ticker/:ticker", indicators.GetIndicators)
	// 単一指標
	r.GET("/ticker/:ticker/metric/:name", indicators.GetMetric)

	// 認証必須のルート
	api := r.Group("/api")
	api.Use(jwtmw.AuthRequired())
	{
		api.GET("/me", auth.Me)
		api.GET("/me/wallet", wallet.ListRows)
		api.POST("/me/wallet", wallet.AddRow)
		api.DELETE("/me/wallet/:id", wallet.DeleteRow)
		api.GET("/me/favorites", wallet.ListFavorites)
		api.POST("/me/favorites/:ticker", wallet.AddFavorite)
		api.DELETE("/me/favorites/:ticker", wallet.RemoveFavorite)
	}

	return r
}
