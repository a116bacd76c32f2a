package demo

import (
	_ "embed"
	"fmt"
	"os"

	"catalogdemo/models"

	"gopkg.in/yaml.v3"
)

//go:embed products.yaml
var defaultSeed []byte

// LoadSeed reads sample products from a YAML file, or the built-in catalog
// when path is empty.
func LoadSeed(path string) ([]models.Product, error) {
	data := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		data = b
	}

	var products []models.Product
	if err := yaml.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("seed has no products")
	}
	return products, nil
}
