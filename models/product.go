package models

import (
	"catalogdemo/odm"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Category struct {
	Name        string `bson:"name" json:"name" yaml:"name" binding:"required" validate:"required"`
	Description string `bson:"description" json:"description" yaml:"description" binding:"required" validate:"required"`
}

type Product struct {
	odm.Document `bson:",inline" yaml:",inline"`
	Name         string   `bson:"name" json:"name" yaml:"name" binding:"required" validate:"required" index:"text"`
	Description  *string  `bson:"description,omitempty" json:"description,omitempty" yaml:"description,omitempty" index:"text"`
	Price        float64  `bson:"price" json:"price" yaml:"price" index:"single,order:-1"`
	Category     Category `bson:"category" json:"category" yaml:"category" binding:"required" validate:"required"`
	Num          int      `bson:"num" json:"num" yaml:"num" validate:"gte=0"`
}

func (Product) CollectionName() string { return "products" }

// ProductFields names the document paths of Product for filters, sorts and updates.
var ProductFields = struct {
	ID           odm.Field
	Name         odm.Field
	Description  odm.Field
	Price        odm.Field
	Category     odm.Field
	CategoryName odm.Field
	Num          odm.Field
}{
	ID:           "_id",
	Name:         "name",
	Description:  "description",
	Price:        "price",
	Category:     "category",
	CategoryName: "category.name",
	Num:          "num",
}

type ProductShortView struct {
	Name  string  `bson:"name" json:"name"`
	Price float64 `bson:"price" json:"price"`
}

// ProductCustomView flattens the category to its name on the server.
type ProductCustomView struct {
	Name     string `bson:"name" json:"name"`
	Category string `bson:"category" json:"category"`
}

func (ProductCustomView) Projection() bson.D {
	return bson.D{
		{Key: "name", Value: 1},
		{Key: "category", Value: ProductFields.CategoryName.Ref()},
	}
}

// TotalCountView is one group of a per-category quantity sum.
type TotalCountView struct {
	Category string `bson:"_id" json:"category"`
	Total    int    `bson:"total" json:"total"`
}

// TotalPerCategory sums the quantity of each category.
func TotalPerCategory() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: ProductFields.CategoryName.Ref()},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: ProductFields.Num.Ref()}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}
