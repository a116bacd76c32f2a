package demo

import (
	"context"
	"errors"

	"catalogdemo/models"
	"catalogdemo/odm"

	"go.mongodb.org/mongo-driver/bson"
)

func (s *Script) Find(ctx context.Context) error {
	all, err := s.Products.All().ToList(ctx)
	if err != nil {
		return err
	}
	s.Log.WithField("count", len(all)).Info("All products")

	byCategory, err := s.Products.Find(fields.CategoryName.Eq(chocolate)).ToList(ctx)
	if err != nil {
		return err
	}
	s.Log.WithField("count", len(byCategory)).Info("Products in category")

	matched, err := s.Products.Find(odm.Text(chocolate)).ToList(ctx)
	if err != nil {
		return err
	}
	s.Log.WithField("count", len(matched)).Info("Products matching text search")

	cheap := s.Products.
		Find(fields.CategoryName.Eq(chocolate), fields.Price.Lt(3.5)).
		Sort(fields.Price.Desc()).
		Limit(10)
	short, err := odm.ProjectTo[models.ProductShortView](ctx, cheap)
	if err != nil {
		return err
	}
	s.Log.WithField("products", short).Info("Cheap products, short view")

	custom, err := odm.ProjectTo[models.ProductCustomView](ctx, s.Products.All())
	if err != nil {
		return err
	}
	s.Log.WithField("products", custom).Info("Products, custom view")

	native, err := s.Products.Find(bson.M{"price": bson.M{"$gte": 2}}).ToList(ctx)
	if err != nil {
		return err
	}
	s.Log.WithField("count", len(native)).Info("Products from native filter")

	one, err := s.Products.FindOne(fields.Name.Eq(peanutBar)).Get(ctx)
	switch {
	case errors.Is(err, odm.ErrNotFound):
		s.Log.WithField("name", peanutBar).Info("No product found")
	case err != nil:
		return err
	default:
		s.Log.WithField("product", one.Name).Info("Found one product")
	}
	return nil
}
