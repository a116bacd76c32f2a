package odm

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindMany is a lazily evaluated query over many documents. Builder methods
// return a modified copy.
type FindMany[T any] struct {
	coll    *Collection[T]
	filters []any
	sort    bson.D
	skip    int64
	limit   int64
}

func (q *FindMany[T]) clone() *FindMany[T] {
	c := *q
	c.filters = append([]any(nil), q.filters...)
	c.sort = append(bson.D(nil), q.sort...)
	return &c
}

// Filter returns the filter document sent to the server.
func (q *FindMany[T]) Filter() any { return buildFilter(q.filters) }

// Find narrows the query with more filters.
func (q *FindMany[T]) Find(filters ...any) *FindMany[T] {
	c := q.clone()
	c.filters = append(c.filters, filters...)
	return c
}

func (q *FindMany[T]) Sort(keys ...bson.E) *FindMany[T] {
	c := q.clone()
	c.sort = append(c.sort, keys...)
	return c
}

func (q *FindMany[T]) Skip(n int64) *FindMany[T] {
	c := q.clone()
	c.skip = n
	return c
}

func (q *FindMany[T]) Limit(n int64) *FindMany[T] {
	c := q.clone()
	c.limit = n
	return c
}

func (q *FindMany[T]) findOptions() *options.FindOptions {
	opts := options.Find()
	if len(q.sort) > 0 {
		opts.SetSort(q.sort)
	}
	if q.skip > 0 {
		opts.SetSkip(q.skip)
	}
	if q.limit > 0 {
		opts.SetLimit(q.limit)
	}
	return opts
}

func (q *FindMany[T]) ToList(ctx context.Context) ([]T, error) {
	return find[T](ctx, q.coll.coll, q.Filter(), q.findOptions())
}

func (q *FindMany[T]) Count(ctx context.Context) (int64, error) {
	opts := options.Count()
	if q.skip > 0 {
		opts.SetSkip(q.skip)
	}
	if q.limit > 0 {
		opts.SetLimit(q.limit)
	}
	n, err := q.coll.coll.CountDocuments(ctx, q.Filter(), opts)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", q.coll.Name(), err)
	}
	return n, nil
}

// Update applies the update operators to every matching document without
// fetching them.
func (q *FindMany[T]) Update(ctx context.Context, updates ...any) (*mongo.UpdateResult, error) {
	update, err := buildUpdate(updates)
	if err != nil {
		return nil, err
	}
	res, err := q.coll.coll.UpdateMany(ctx, q.Filter(), update)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", q.coll.Name(), err)
	}
	return res, nil
}

func (q *FindMany[T]) Set(ctx context.Context, fields Set) (*mongo.UpdateResult, error) {
	return q.Update(ctx, fields)
}

func (q *FindMany[T]) Inc(ctx context.Context, fields Inc) (*mongo.UpdateResult, error) {
	return q.Update(ctx, fields)
}

// Delete removes every matching document and returns how many were removed.
func (q *FindMany[T]) Delete(ctx context.Context) (int64, error) {
	res, err := q.coll.coll.DeleteMany(ctx, q.Filter())
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", q.coll.Name(), err)
	}
	return res.DeletedCount, nil
}

// FindOne targets a single document.
type FindOne[T any] struct {
	coll    *Collection[T]
	filters []any
}

func (q *FindOne[T]) Filter() any { return buildFilter(q.filters) }

// Get fetches the document, or returns ErrNotFound.
func (q *FindOne[T]) Get(ctx context.Context) (*T, error) {
	var doc T
	if err := q.coll.coll.FindOne(ctx, q.Filter()).Decode(&doc); err != nil {
		return nil, convertError(err)
	}
	return &doc, nil
}

// Update modifies the first matching document without fetching it.
func (q *FindOne[T]) Update(ctx context.Context, updates ...any) (*mongo.UpdateResult, error) {
	update, err := buildUpdate(updates)
	if err != nil {
		return nil, err
	}
	res, err := q.coll.coll.UpdateOne(ctx, q.Filter(), update)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", q.coll.Name(), err)
	}
	return res, nil
}

// Delete removes the first matching document without fetching it.
func (q *FindOne[T]) Delete(ctx context.Context) (int64, error) {
	res, err := q.coll.coll.DeleteOne(ctx, q.Filter())
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", q.coll.Name(), err)
	}
	return res.DeletedCount, nil
}

func find[V any](ctx context.Context, coll *mongo.Collection, filter any, opts *options.FindOptions) ([]V, error) {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	results := []V{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return results, nil
}
