package odm

import (
	"context"
	"reflect"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// Projector lets a view declare its own projection, including server-side
// field remaps such as {"category": "$category.name"}.
type Projector interface {
	Projection() bson.D
}

// projectionOf returns the projection for view type V: its Projection method
// when present, otherwise one entry per bson field. Non-struct views get nil.
func projectionOf[V any]() bson.D {
	var v V
	if p, ok := any(v).(Projector); ok {
		return p.Projection()
	}
	if p, ok := any(&v).(Projector); ok {
		return p.Projection()
	}

	t := reflect.TypeOf(v)
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	return structProjection(t)
}

func structProjection(t reflect.Type) bson.D {
	var proj bson.D
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Anonymous && isInline(f) && f.Type.Kind() == reflect.Struct {
			proj = append(proj, structProjection(f.Type)...)
			continue
		}
		if name := bsonFieldName(f); name != "" {
			proj = append(proj, bson.E{Key: name, Value: 1})
		}
	}
	return proj
}

func isInline(f reflect.StructField) bool {
	_, opts, _ := strings.Cut(f.Tag.Get("bson"), ",")
	for _, o := range strings.Split(opts, ",") {
		if o == "inline" {
			return true
		}
	}
	return false
}

// ProjectTo runs q and returns each match reshaped into the view V.
func ProjectTo[V, T any](ctx context.Context, q *FindMany[T]) ([]V, error) {
	opts := q.findOptions()
	if proj := projectionOf[V](); len(proj) > 0 {
		opts.SetProjection(proj)
	}
	return find[V](ctx, q.coll.coll, q.Filter(), opts)
}
