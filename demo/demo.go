// Package demo walks through the catalog operations one call at a time:
// create, find, update, aggregate and delete.
package demo

import (
	"context"
	"fmt"

	"catalogdemo/models"
	"catalogdemo/odm"

	"github.com/sirupsen/logrus"
)

var (
	fields           = models.ProductFields
	chocolate        = "Chocolate"
	peanutBar        = "Peanut Bar"
	chocolateTruffle = "Chocolate Truffle"
)

type Script struct {
	Products *odm.Collection[models.Product]
	Seed     []models.Product
	Log      logrus.FieldLogger
}

func New(products *odm.Collection[models.Product], seed []models.Product, log logrus.FieldLogger) *Script {
	return &Script{Products: products, Seed: seed, Log: log}
}

// Run executes every step in order and stops at the first failure.
func (s *Script) Run(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"create", s.Create},
		{"find", s.Find},
		{"update", s.Update},
		{"aggregate", s.Aggregate},
		{"delete", s.Delete},
	}

	for _, step := range steps {
		s.Log.WithField("step", step.name).Info("Running step")
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}
