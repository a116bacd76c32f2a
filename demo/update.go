package demo

import (
	"context"
	"errors"

	"catalogdemo/odm"

	"go.mongodb.org/mongo-driver/bson"
)

func (s *Script) Update(ctx context.Context) error {
	res, err := s.Products.Find(fields.Name.Eq(peanutBar)).Update(ctx, odm.Set{fields.Price: 5})
	if err != nil {
		return err
	}
	s.Log.WithField("modified", res.ModifiedCount).Info("Set price on matching products")

	res, err = s.Products.FindOne(fields.Name.Eq(chocolateTruffle)).Update(ctx, odm.Set{fields.Price: 3})
	if err != nil {
		return err
	}
	s.Log.WithField("modified", res.ModifiedCount).Info("Set price on one product")

	product, err := s.Products.FindOne(fields.Name.Eq(peanutBar)).Get(ctx)
	switch {
	case errors.Is(err, odm.ErrNotFound):
		s.Log.WithField("name", peanutBar).Info("No product to decrement")
	case err != nil:
		return err
	default:
		if err := s.Products.UpdateDocument(ctx, product, odm.Inc{fields.Price: -1}); err != nil {
			return err
		}
		s.Log.WithField("price", product.Price).Info("Decremented fetched product price")
	}

	res, err = s.Products.Find(fields.Num.Lte(5)).Update(ctx, bson.M{"$set": bson.M{fields.Price.String(): 1}})
	if err != nil {
		return err
	}
	s.Log.WithField("modified", res.ModifiedCount).Info("Native update on low stock products")

	res, err = s.Products.Find(fields.CategoryName.Eq(chocolate)).Inc(ctx, odm.Inc{fields.Price: 2})
	if err != nil {
		return err
	}
	s.Log.WithField("modified", res.ModifiedCount).Info("Incremented prices in category")
	return nil
}
