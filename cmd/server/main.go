package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"stock_analysis/internal/app/di"
	"stock_analysis/internal/app/router"
	authadapters "stock_analysis/internal/feature/auth/adapters"
	authhandler "stock_analysis/internal/feature/auth/transport/handler"
	authusecase "stock_analysis/internal/feature/auth/usecase"
	indexadapters "stock_analysis/internal/feature/indexes/adapters"
	indexhandler "stock_analysis/internal/feature/indexes/transport/handler"
	indexusecase "stock_analysis/internal/feature/indexes/usecase"
	indicatorhandler "stock_analysis/internal/feature/indicators/transport/handler"
	indicatorusecase "stock_analysis/internal/feature/indicators/usecase"
	walletadapters "stock_analysis/internal/feature/wallet/adapters"
	wallethandler "stock_analysis/internal/feature/wallet/transport/handler"
	walletusecase "stock_analysis/internal/feature/wallet/usecase"
	"stock_analysis/internal/platform/cache"
	"stock_analysis/internal/platform/db"
	jwtmw "stock_analysis/internal/platform/jwt"
	platformredis "stock_analysis/internal/platform/redis"
)

func main() {
	// 開発環境用。ファイルが無ければ環境変数をそのまま使う
	_ = godotenv.Load()

	// db（マイグレーションはRUN_MIGRATIONS=trueのとき実行）
	gdb := db.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// 市場データゲートウェイ
	market, err := di.NewMarketGateway()
	if err != nil {
		log.Fatal("failed to build market gateway:", err)
	}

	// Repository
	userRepo := authadapters.NewUserPostgres(gdb)
	sessionRepo := di.NewSessionRepository(rdb, gdb)
	walletRepo := walletadapters.NewWalletPostgres(gdb)
	favoriteRepo := walletadapters.NewFavoritePostgres(gdb)
	indexRepo := indexadapters.NewIndexPostgres(gdb)

	// JWT_SECRETチェック（開発中の注意喚起）
	secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}
	jwtGen := jwtmw.NewGenerator(secret, 15*time.Minute)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, sessionRepo, jwtGen)
	indicatorsUC := indicatorusecase.NewIndicatorsUsecase(market)
	walletUC := walletusecase.NewWalletUsecase(walletRepo, favoriteRepo)
	indexesUC := indexusecase.NewIndexesUsecase(indexRepo, market)

	// Redisキャッシュでラップ
	cachedIndicators := cache.NewCachingIndicatorComputer(rdb, 15*time.Minute, indicatorsUC, "indicators")

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	indicatorsH := indicatorhandler.NewIndicatorsHandler(cachedIndicators)
	homeH := indexhandler.NewHomeHandler(indexesUC)
	walletH := wallethandler.NewWalletHandler(walletUC)

	// 定期ジョブ: 指数概況の更新と期限切れセッションの掃除
	c := cron.New()
	if _, err := c.AddFunc("15 6 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := indexesUC.Refresh(ctx); err != nil {
			log.Println("[ERROR] index refresh failed:", err)
		}
	}); err != nil {
		log.Fatal("failed to schedule index refresh:", err)
	}
	if _, err := c.AddFunc("45 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if n, err := sessionRepo.DeleteExpired(ctx); err != nil {
			log.Println("[ERROR] session cleanup failed:", err)
		} else if n > 0 {
			log.Printf("session cleanup removed %d sessions", n)
		}
	}); err != nil {
		log.Fatal("failed to schedule session cleanup:", err)
	}
	c.Start()
	defer c.Stop()

	// ルータ生成
	r := router.NewRouter(authH, indicatorsH, homeH, walletH)

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
