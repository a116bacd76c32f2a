package odm

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"catalogdemo/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	registryMu sync.RWMutex
	registry   = map[reflect.Type]*mongo.Collection{}
)

// codeNamespaceExists is returned by create when another client won the race.
const codeNamespaceExists = 48

// Init binds each model to its collection in db: the collection is created
// when missing, the model's declared indexes are ensured and the model is
// registered for CollectionOf.
func Init(ctx context.Context, db *mongo.Database, models ...any) error {
	for _, model := range models {
		t := modelType(model)
		if t == nil || t.Kind() != reflect.Struct {
			return fmt.Errorf("odm: model %T is not a struct", model)
		}

		name := collectionName(model)
		if err := ensureCollection(ctx, db, name); err != nil {
			return err
		}

		specs, err := indexSpecs(t)
		if err != nil {
			return fmt.Errorf("odm: model %s: %w", t.Name(), err)
		}
		coll := db.Collection(name)
		if err := ensureIndexes(ctx, coll, specs); err != nil {
			return fmt.Errorf("odm: collection %s: %w", name, err)
		}

		register(t, coll)
		logger.Get().WithField("collection", name).Infof("Registered model %s", t.Name())
	}
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string) error {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return fmt.Errorf("odm: failed to list collections: %w", err)
	}
	if len(names) > 0 {
		return nil
	}

	if err := db.CreateCollection(ctx, name); err != nil {
		var cmdErr mongo.CommandError
		if errors.As(err, &cmdErr) && cmdErr.Code == codeNamespaceExists {
			return nil
		}
		return fmt.Errorf("odm: failed to create collection %s: %w", name, err)
	}
	logger.Get().WithField("collection", name).Info("Created collection")
	return nil
}

func register(t reflect.Type, coll *mongo.Collection) {
	registryMu.Lock()
	registry[t] = coll
	registryMu.Unlock()
}

// Register binds T to coll without touching the server.
func Register[T any](coll *mongo.Collection) *Collection[T] {
	register(reflect.TypeOf((*T)(nil)).Elem(), coll)
	return NewCollection[T](coll)
}

// CollectionOf returns the collection T was registered with by Init or Register.
func CollectionOf[T any]() (*Collection[T], error) {
	t := reflect.TypeOf((*T)(nil)).Elem()

	registryMu.RLock()
	coll, ok := registry[t]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, t)
	}
	return NewCollection[T](coll), nil
}
