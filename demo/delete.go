package demo

import (
	"context"
	"errors"

	"catalogdemo/odm"
)

func (s *Script) Delete(ctx context.Context) error {
	product, err := s.Products.FindOne(fields.Name.Eq(peanutBar)).Get(ctx)
	switch {
	case errors.Is(err, odm.ErrNotFound):
		s.Log.WithField("name", peanutBar).Info("No product to delete")
	case err != nil:
		return err
	default:
		if err := s.Products.DeleteDocument(ctx, product); err != nil {
			return err
		}
		s.Log.WithField("id", product.ID.Hex()).Info("Deleted fetched product")
	}

	n, err := s.Products.FindOne(fields.Name.Eq(chocolateTruffle)).Delete(ctx)
	if err != nil {
		return err
	}
	s.Log.WithField("deleted", n).Info("Deleted one product without fetching")

	n, err = s.Products.Find(fields.CategoryName.Eq(chocolate)).Delete(ctx)
	if err != nil {
		return err
	}
	s.Log.WithField("deleted", n).Info("Deleted products in category")
	return nil
}
