package odm

import (
	"reflect"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document carries the _id of a stored model. Embed it with `bson:",inline"`.
type Document struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id" yaml:"-"`
}

func (d *Document) GetID() primitive.ObjectID { return d.ID }

func (d *Document) SetID(id primitive.ObjectID) { d.ID = id }

type identifiable interface {
	GetID() primitive.ObjectID
	SetID(primitive.ObjectID)
}

// Namer lets a model choose its collection name. Models without it are
// stored in a collection named after the Go type.
type Namer interface {
	CollectionName() string
}

func idOf(doc any) (primitive.ObjectID, error) {
	d, ok := doc.(identifiable)
	if !ok || d.GetID().IsZero() {
		return primitive.NilObjectID, ErrNoID
	}
	return d.GetID(), nil
}

func setID(doc any, id any) {
	d, ok := doc.(identifiable)
	if !ok {
		return
	}
	if oid, ok := id.(primitive.ObjectID); ok {
		d.SetID(oid)
	}
}

func modelType(model any) reflect.Type {
	t := reflect.TypeOf(model)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func collectionName(model any) string {
	if n, ok := model.(Namer); ok {
		return n.CollectionName()
	}
	t := modelType(model)
	if n, ok := reflect.New(t).Interface().(Namer); ok {
		return n.CollectionName()
	}
	return t.Name()
}
