package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/catalog"
	"github.com/ipiccardo/item-detail-ML-sub001/internal/infrastructure/config"
	"github.com/ipiccardo/item-detail-ML-sub001/internal/infrastructure/logger"
	"github.com/ipiccardo/item-detail-ML-sub001/internal/infrastructure/persistence"
)

func main() {
	var (
		driver   string
		dsn      string
		file     string
		logLevel string
	)

	flag.StringVar(&driver, "driver", "", "Database driver: sqlite or postgres (default: catalog.driver)")
	flag.StringVar(&dsn, "dsn", "", "Database DSN (default: catalog.dsn)")
	flag.StringVar(&file, "file", "", "Catalog file to import (.json, .yaml, .yml); empty imports the bundled catalog")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	dbCfg := cfg.Catalog
	if driver != "" {
		dbCfg.Driver = driver
	}
	if dsn != "" {
		dbCfg.DSN = dsn
	}
	if dbCfg.Driver == "" {
		dbCfg.Driver = "sqlite"
	}
	if dbCfg.DSN == "" {
		log.Fatal("Database DSN required. Set -dsn or STOREFRONT_CATALOG_DSN")
	}

	log.Info("Catalog CLI started",
		zap.String("command", command),
		zap.String("driver", dbCfg.Driver),
	)

	db, err := persistence.NewDatabase(dbCfg, log, logLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	ctx := context.Background()

	switch command {
	case "migrate":
		if err := persistence.MigrateCatalog(ctx, db.DB); err != nil {
			log.Fatal("Migration failed", zap.Error(err))
		}
		log.Info("Catalog schema is up to date")

	case "import":
		products, err := readProducts(file)
		if err != nil {
			log.Fatal("Failed to read catalog", zap.String("file", file), zap.Error(err))
		}
		if err := catalog.ValidateAll(products); err != nil {
			log.Fatal("Catalog is invalid", zap.Error(err))
		}
		if err := persistence.MigrateCatalog(ctx, db.DB); err != nil {
			log.Fatal("Migration failed", zap.Error(err))
		}
		if err := persistence.ImportProducts(ctx, db.DB, products); err != nil {
			log.Fatal("Import failed", zap.Error(err))
		}
		log.Info("Catalog imported", zap.Int("products", len(products)))

	case "count":
		products, err := persistence.LoadProductsFromDatabase(ctx, db.DB)
		if err != nil {
			log.Fatal("Failed to read catalog", zap.Error(err))
		}
		fmt.Printf("%d products\n", len(products))

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

func readProducts(file string) ([]catalog.Product, error) {
	if file == "" {
		return persistence.LoadSeedProducts()
	}
	return persistence.LoadProductsFromFile(file)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Catalog database tool

Usage:
  migrate [flags] <command>

Commands:
  migrate    Create or update the products table
  import     Upsert products from -file (or the bundled catalog)
  count      Print the number of stored products

Flags:
`)
	flag.PrintDefaults()
}
