package main

import (
	"context"
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"farmfresh-market/internal/config"
	"farmfresh-market/internal/db"
	"farmfresh-market/internal/importer"
	productrepo "farmfresh-market/internal/repository/product"
	userrepo "farmfresh-market/internal/repository/user"
)

func main() {
	var (
		filePath    string
		farmerEmail string
	)
	flag.StringVar(&filePath, "file", "", "Path to listing CSV")
	flag.StringVar(&farmerEmail, "farmer", "", "Email of the farmer owning the listings")
	flag.Parse()

	if filePath == "" || farmerEmail == "" {
		flag.Usage()
		os.Exit(2)
	}

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

	farmer, err := userrepo.NewPostgres(pool, lg).GetByEmail(ctx, farmerEmail)
	if err != nil {
		lg.Fatal("lookup farmer", zap.String("email", farmerEmail), zap.Error(err))
	}

	f, err := os.Open(filePath)
	if err != nil {
		lg.Fatal("open file", zap.Error(err))
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, productrepo.NewPostgres(pool, lg), *farmer)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		lg.Fatal("import failed", zap.Int("imported", count), zap.Error(err))
	}

	lg.Info("import finished",
		zap.Int("imported", count),
		zap.String("farmer", farmer.Name),
		zap.Duration("took", time.Since(start).Truncate(time.Millisecond)),
	)
}
