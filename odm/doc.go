// Package odm maps Go structs onto MongoDB collections.
//
// Models are plain structs with bson tags. They embed Document for the _id
// field and declare indexes with `index:"..."` tags, which Init creates when
// the model is registered:
//
//	type Product struct {
//		odm.Document `bson:",inline"`
//		Name  string  `bson:"name" index:"text"`
//		Price float64 `bson:"price" index:"single,order:-1"`
//	}
//
//	func (Product) CollectionName() string { return "products" }
//
//	if err := odm.Init(ctx, db, Product{}); err != nil { ... }
//	products, _ := odm.CollectionOf[Product]()
//	cheap, err := products.Find(price.Lt(3.5)).Sort(price.Desc()).ToList(ctx)
//
// Filters and updates accept the typed helpers in this package as well as
// native bson.M / bson.D documents.
package odm
