package persistence

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/catalog"
)

//go:embed seed/products.json
var seedCatalog []byte

// catalogDocument is the object form of a catalog file. A bare list of
// products is accepted too.
type catalogDocument struct {
	Products []catalog.Product `json:"products"`
}

// LoadSeedProducts returns the catalog bundled with the binary
func LoadSeedProducts() ([]catalog.Product, error) {
	products, err := decodeJSONCatalog(seedCatalog)
	if err != nil {
		return nil, fmt.Errorf("decode bundled catalog: %w", err)
	}
	return products, nil
}

// LoadProductsFromFile reads a catalog from a .json, .yaml or .yml file
func LoadProductsFromFile(path string) ([]catalog.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var products []catalog.Product
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		products, err = decodeJSONCatalog(data)
	case ".yaml", ".yml":
		products, err = decodeYAMLCatalog(data)
	default:
		return nil, fmt.Errorf("unsupported catalog file extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode catalog file %s: %w", path, err)
	}
	return products, nil
}

func decodeJSONCatalog(data []byte) ([]catalog.Product, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var products []catalog.Product
		if err := json.Unmarshal(trimmed, &products); err != nil {
			return nil, err
		}
		return products, nil
	}

	var doc catalogDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	return doc.Products, nil
}

// decodeYAMLCatalog converts YAML into the JSON form so both formats share
// the product field names and the decimal price decoding.
func decodeYAMLCatalog(data []byte) ([]catalog.Product, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	asJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	return decodeJSONCatalog(asJSON)
}
