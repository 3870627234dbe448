package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/catalog"
	"github.com/ipiccardo/item-detail-ML-sub001/internal/infrastructure/config"
)

// LoadCatalog reads the product snapshot from the configured source and
// returns a validated in-memory repository. The database source is read
// once and the connection closed afterwards.
func LoadCatalog(ctx context.Context, cfg config.CatalogConfig, zapLogger *zap.Logger, logLevel string) (*StaticProductRepository, error) {
	products, err := readCatalog(ctx, cfg, zapLogger, logLevel)
	if err != nil {
		return nil, err
	}

	repo, err := NewStaticProductRepository(products)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	zapLogger.Info("Catalog loaded",
		zap.String("source", cfg.Source),
		zap.Int("products", len(products)),
	)
	return repo, nil
}

func readCatalog(ctx context.Context, cfg config.CatalogConfig, zapLogger *zap.Logger, logLevel string) ([]catalog.Product, error) {
	switch cfg.Source {
	case config.CatalogSourceFile, "":
		if cfg.Path == "" {
			return LoadSeedProducts()
		}
		return LoadProductsFromFile(cfg.Path)

	case config.CatalogSourceDatabase:
		db, err := NewDatabase(cfg, zapLogger, logLevel)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := db.Close(); err != nil {
				zapLogger.Warn("Failed to close catalog database", zap.Error(err))
			}
		}()
		return LoadProductsFromDatabase(ctx, db.DB)

	default:
		return nil, fmt.Errorf("unsupported catalog source %q", cfg.Source)
	}
}
