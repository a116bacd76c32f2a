package demo

import (
	"context"
	"errors"

	"catalogdemo/models"
	"catalogdemo/odm"
)

func (s *Script) Aggregate(ctx context.Context) error {
	totals, err := odm.AggregateAs[models.TotalCountView](ctx, s.Products.All(), models.TotalPerCategory())
	if err != nil {
		return err
	}
	s.Log.WithField("totals", totals).Info("Quantity per category")

	subset, err := odm.AggregateAs[models.TotalCountView](ctx, s.Products.Find(fields.Price.Lt(10)), models.TotalPerCategory())
	if err != nil {
		return err
	}
	s.Log.WithField("totals", subset).Info("Quantity per category, price below 10")

	avg, err := s.Products.Find(fields.CategoryName.Eq(chocolate)).Avg(ctx, fields.Price)
	switch {
	case errors.Is(err, odm.ErrNotFound):
		s.Log.WithField("category", chocolate).Info("No products to average")
	case err != nil:
		return err
	default:
		s.Log.WithField("avg_price", avg).Info("Average price in category")
	}
	return nil
}
