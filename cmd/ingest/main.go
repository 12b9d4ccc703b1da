package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"stock_analysis/internal/app/di"
	indexadapters "stock_analysis/internal/feature/indexes/adapters"
	indexusecase "stock_analysis/internal/feature/indexes/usecase"
	"stock_analysis/internal/platform/db"
)

func main() {
	_ = godotenv.Load()

	gdb := db.OpenDB()

	market, err := di.NewMarketGateway()
	if err != nil {
		log.Fatal("failed to build market gateway:", err)
	}

	uc := indexusecase.NewIndexesUsecase(indexadapters.NewIndexPostgres(gdb), market)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := uc.Refresh(ctx); err != nil {
		log.Fatal(err)
	}
	log.Println("index refresh ok")
}
