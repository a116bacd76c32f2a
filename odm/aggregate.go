package odm

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AggregateAs runs pipeline over the documents matched by q and decodes each
// output into V. q's filter, sort, skip and limit become the leading stages
// and a $project built from V is appended.
func AggregateAs[V, T any](ctx context.Context, q *FindMany[T], pipeline mongo.Pipeline) ([]V, error) {
	stages := q.stages()
	stages = append(stages, pipeline...)
	if proj := projectionOf[V](); len(proj) > 0 {
		stages = append(stages, bson.D{{Key: "$project", Value: proj}})
	}
	return aggregate[V](ctx, q.coll.coll, stages)
}

// Aggregate is AggregateAs with untyped results.
func (q *FindMany[T]) Aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]bson.M, error) {
	return AggregateAs[bson.M](ctx, q, pipeline)
}

func (q *FindMany[T]) stages() mongo.Pipeline {
	var stages mongo.Pipeline
	if filter := q.Filter(); !isEmptyDoc(filter) {
		stages = append(stages, bson.D{{Key: "$match", Value: filter}})
	}
	if len(q.sort) > 0 {
		stages = append(stages, bson.D{{Key: "$sort", Value: q.sort}})
	}
	if q.skip > 0 {
		stages = append(stages, bson.D{{Key: "$skip", Value: q.skip}})
	}
	if q.limit > 0 {
		stages = append(stages, bson.D{{Key: "$limit", Value: q.limit}})
	}
	return stages
}

// Avg returns the mean of field over the matched documents, or ErrNotFound
// when nothing matches.
func (q *FindMany[T]) Avg(ctx context.Context, field Field) (float64, error) {
	return q.accumulate(ctx, "$avg", field)
}

func (q *FindMany[T]) Max(ctx context.Context, field Field) (float64, error) {
	return q.accumulate(ctx, "$max", field)
}

func (q *FindMany[T]) Min(ctx context.Context, field Field) (float64, error) {
	return q.accumulate(ctx, "$min", field)
}

// Sum returns 0 when nothing matches.
func (q *FindMany[T]) Sum(ctx context.Context, field Field) (float64, error) {
	v, err := q.accumulate(ctx, "$sum", field)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	return v, err
}

type accumulated struct {
	Value *float64 `bson:"value"`
}

func (q *FindMany[T]) accumulate(ctx context.Context, op string, field Field) (float64, error) {
	stages := append(q.stages(), bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: nil},
		{Key: "value", Value: bson.D{{Key: op, Value: field.Ref()}}},
	}}})

	results, err := aggregate[accumulated](ctx, q.coll.coll, stages)
	if err != nil {
		return 0, err
	}
	if len(results) == 0 || results[0].Value == nil {
		return 0, ErrNotFound
	}
	return *results[0].Value, nil
}

func aggregate[V any](ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline) ([]V, error) {
	if pipeline == nil {
		pipeline = mongo.Pipeline{}
	}
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	results := []V{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode aggregate %s: %w", coll.Name(), err)
	}
	return results, nil
}
