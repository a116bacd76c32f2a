package demo

import (
	"context"
	"fmt"

	"catalogdemo/models"

	"github.com/sirupsen/logrus"
)

// Create inserts the first seed product alone and the rest in one batch.
func (s *Script) Create(ctx context.Context) error {
	if len(s.Seed) == 0 {
		return fmt.Errorf("no seed products")
	}

	first := s.Seed[0]
	if err := s.Products.Insert(ctx, &first); err != nil {
		return err
	}
	s.Log.WithFields(logrus.Fields{"id": first.ID.Hex(), "name": first.Name}).Info("Inserted one product")

	batch := make([]*models.Product, 0, len(s.Seed)-1)
	for i := range s.Seed[1:] {
		p := s.Seed[i+1]
		batch = append(batch, &p)
	}
	if err := s.Products.InsertMany(ctx, batch); err != nil {
		return err
	}
	s.Log.WithField("count", len(batch)).Info("Inserted products in one batch")
	return nil
}
