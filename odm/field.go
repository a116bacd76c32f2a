package odm

import "go.mongodb.org/mongo-driver/bson"

// Field is a dotted document path such as "price" or "category.name".
type Field string

func (f Field) String() string { return string(f) }

// Sub returns the path of an embedded field below f.
func (f Field) Sub(name string) Field { return Field(string(f) + "." + name) }

// Ref returns the aggregation expression that reads f ("$price").
func (f Field) Ref() string { return "$" + string(f) }

func (f Field) Eq(v any) bson.D { return bson.D{{Key: string(f), Value: v}} }

func (f Field) Ne(v any) bson.D { return f.op("$ne", v) }

func (f Field) Lt(v any) bson.D { return f.op("$lt", v) }

func (f Field) Lte(v any) bson.D { return f.op("$lte", v) }

func (f Field) Gt(v any) bson.D { return f.op("$gt", v) }

func (f Field) Gte(v any) bson.D { return f.op("$gte", v) }

func (f Field) In(values ...any) bson.D { return f.op("$in", bson.A(values)) }

func (f Field) op(name string, v any) bson.D {
	return bson.D{{Key: string(f), Value: bson.D{{Key: name, Value: v}}}}
}

// Asc and Desc build sort keys for FindMany.Sort.
func (f Field) Asc() bson.E { return bson.E{Key: string(f), Value: 1} }

func (f Field) Desc() bson.E { return bson.E{Key: string(f), Value: -1} }
