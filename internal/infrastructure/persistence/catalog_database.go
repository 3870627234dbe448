package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/catalog"
	"github.com/ipiccardo/item-detail-ML-sub001/internal/infrastructure/persistence/models"
)

// MigrateCatalog creates or updates the products table
func MigrateCatalog(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&models.ProductModel{}); err != nil {
		return fmt.Errorf("migrate products table: %w", err)
	}
	return nil
}

// ImportProducts validates products and upserts them in catalog order
func ImportProducts(ctx context.Context, db *gorm.DB, products []catalog.Product) error {
	if err := catalog.ValidateAll(products); err != nil {
		return err
	}
	if len(products) == 0 {
		return nil
	}

	rows := make([]*models.ProductModel, len(products))
	for i := range products {
		rows[i] = models.ProductModelFromDomain(&products[i], i)
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(rows, 100).Error
	})
	if err != nil {
		return fmt.Errorf("import products: %w", err)
	}
	return nil
}

// LoadProductsFromDatabase reads the whole catalog once, ordered by
// sort_order and then id
func LoadProductsFromDatabase(ctx context.Context, db *gorm.DB) ([]catalog.Product, error) {
	var rows []models.ProductModel
	if err := db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = rows[i].ToDomain()
	}
	return products, nil
}
