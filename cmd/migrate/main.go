package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"farmfresh-market/internal/config"
	"farmfresh-market/internal/db"
	"farmfresh-market/internal/migrate"
)

func main() {
	lg, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer lg.Sync()

	cfg, err := config.Load()
	if err != nil {
		lg.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		lg.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		lg.Fatal("apply migrations", zap.Error(err))
	}

	lg.Info("migrations applied")
}
