package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"farmfresh-market/internal/config"
	"farmfresh-market/internal/db"
	"farmfresh-market/internal/httpserver"
	cartsnapshotrepo "farmfresh-market/internal/repository/cartsnapshot"
	orderrepo "farmfresh-market/internal/repository/order"
	productrepo "farmfresh-market/internal/repository/product"
	userrepo "farmfresh-market/internal/repository/user"
	analyticssvc "farmfresh-market/internal/service/analytics"
	ordersvc "farmfresh-market/internal/service/order"
	productsvc "farmfresh-market/internal/service/product"
	usersvc "farmfresh-market/internal/service/user"
)

func main() {
	lg, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer lg.Sync()

	if err := run(lg); err != nil {
		lg.Fatal("api exited", zap.Error(err))
	}
}

func run(lg *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "connect db")
	}
	defer pool.Close()

	userRepo := userrepo.NewPostgres(pool, lg)
	productRepo := productrepo.NewPostgres(pool, lg)
	orderRepo := orderrepo.NewPostgres(pool, lg)
	snapshotRepo := cartsnapshotrepo.NewPostgres(pool, lg)

	tokens := usersvc.NewTokenManager([]byte(cfg.JWTSecret), cfg.TokenTTL)
	userService := usersvc.New(userRepo, tokens)
	productService := productsvc.New(productRepo, userRepo)
	orderService := ordersvc.New(productRepo, orderRepo)
	analyticsService := analyticssvc.New(orderRepo)

	srv := httpserver.New(cfg.Addr, lg, pool, httpserver.Deps{
		Users:     userService,
		Products:  productService,
		Orders:    orderService,
		Analytics: analyticsService,
		Snapshots: snapshotRepo,
		Tokens:    tokens,
	}, httpserver.CORSOptions{
		Origins:          cfg.CORS.Origins,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	serverErr := make(chan error, 1)
	go func() {
		lg.Info("starting http server", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		lg.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		return errors.Wrap(err, "serve")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "graceful shutdown")
	}
	lg.Info("server stopped")
	return nil
}
