package odm

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the typed entry point for one registered model.
type Collection[T any] struct {
	coll *mongo.Collection
}

func NewCollection[T any](coll *mongo.Collection) *Collection[T] {
	return &Collection[T]{coll: coll}
}

func (c *Collection[T]) Name() string { return c.coll.Name() }

// Raw exposes the driver collection for calls odm does not wrap.
func (c *Collection[T]) Raw() *mongo.Collection { return c.coll }

// Insert validates and stores doc, assigning its generated id.
func (c *Collection[T]) Insert(ctx context.Context, doc *T) error {
	if err := Validate(doc); err != nil {
		return err
	}

	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", c.coll.Name(), err)
	}
	setID(doc, res.InsertedID)
	return nil
}

// InsertMany stores docs in one batch call.
func (c *Collection[T]) InsertMany(ctx context.Context, docs []*T) error {
	if len(docs) == 0 {
		return nil
	}

	batch := make([]any, 0, len(docs))
	for _, doc := range docs {
		if err := Validate(doc); err != nil {
			return err
		}
		batch = append(batch, doc)
	}

	res, err := c.coll.InsertMany(ctx, batch)
	if err != nil {
		return fmt.Errorf("insert many into %s: %w", c.coll.Name(), err)
	}
	for i, id := range res.InsertedIDs {
		setID(docs[i], id)
	}
	return nil
}

func (c *Collection[T]) Get(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return c.FindOne(bson.D{{Key: "_id", Value: id}}).Get(ctx)
}

// Replace overwrites the stored document with doc.
func (c *Collection[T]) Replace(ctx context.Context, doc *T) error {
	id, err := idOf(doc)
	if err != nil {
		return err
	}
	if err := Validate(doc); err != nil {
		return err
	}

	res, err := c.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}}, doc)
	if err != nil {
		return fmt.Errorf("replace in %s: %w", c.coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateDocument applies updates to the stored copy of doc and reloads doc
// from the result.
func (c *Collection[T]) UpdateDocument(ctx context.Context, doc *T, updates ...any) error {
	id, err := idOf(doc)
	if err != nil {
		return err
	}
	update, err := buildUpdate(updates)
	if err != nil {
		return err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated T
	err = c.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, update, opts).Decode(&updated)
	if err != nil {
		return convertError(err)
	}
	*doc = updated
	return nil
}

func (c *Collection[T]) DeleteDocument(ctx context.Context, doc *T) error {
	id, err := idOf(doc)
	if err != nil {
		return err
	}

	res, err := c.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete from %s: %w", c.coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// All matches every document of the collection.
func (c *Collection[T]) All() *FindMany[T] {
	return &FindMany[T]{coll: c}
}

// Find matches the documents satisfying every filter.
func (c *Collection[T]) Find(filters ...any) *FindMany[T] {
	return &FindMany[T]{coll: c, filters: append([]any(nil), filters...)}
}

// FindOne targets the first document satisfying every filter.
func (c *Collection[T]) FindOne(filters ...any) *FindOne[T] {
	return &FindOne[T]{coll: c, filters: append([]any(nil), filters...)}
}
