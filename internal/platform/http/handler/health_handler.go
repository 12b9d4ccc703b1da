// Package handler は機能に属さない共通HTTPハンドラーを提供します。
package handler

import "github.com/gin-gonic/gin"

// Health は /healthz の死活監視エンドポイントを処理します。
// キャッシュされないよう Cache-Control を付与します。
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case "HEAD":
		c.Status(200)
	case "OPTIONS":
		c.Status(204)
	default:
		c.JSON(200, gin.H{"status": "ok"})
	}
}
