package main

import (
	"context"
	"flag"
	"log"
	"os"

	"storefront-cart/internal/config"
	"storefront-cart/internal/db"
	"storefront-cart/internal/importer"
	productrepo "storefront-cart/internal/repository/product"
)

func main() {
	file := flag.String("file", "", "path to the product CSV export")
	flag.Parse()

	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if *file == "" {
		logger.Fatal("missing -file flag")
	}

	cfg := config.FromEnv()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(*file)
	if err != nil {
		logger.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	repo := productrepo.NewPostgres(pool, logger)
	imp := importer.NewCSVImporter(f, repo)

	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import failed after %d products: %v", count, err)
	}
	logger.Printf("imported %d products", count)
}
