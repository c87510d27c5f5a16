package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront-cart/internal/blobstore"
	"storefront-cart/internal/config"
	"storefront-cart/internal/db"
	"storefront-cart/internal/httpserver"
	cartrepo "storefront-cart/internal/repository/cart"
	productrepo "storefront-cart/internal/repository/product"
	cartsvc "storefront-cart/internal/service/cart"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	store, err := blobstore.NewGCS(ctx, cfg.CartBucket, cfg.CredentialsFile)
	if err != nil {
		logger.Fatalf("connect to cart bucket: %v", err)
	}
	defer store.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewBlob(store, cfg.CartBucket, cfg.PublicBaseURL, logger)
	cartService := cartsvc.New(cartRepo, productRepo, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CartSvc: cartService,
	}, httpserver.Options{
		CORSOrigins:  cfg.CORSOrigins,
		SecureCookie: cfg.IsProduction(),
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
