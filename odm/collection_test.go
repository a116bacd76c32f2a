package odm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

type testCategory struct {
	Name        string `bson:"name" validate:"required"`
	Description string `bson:"description" validate:"required"`
}

type testProduct struct {
	Document `bson:",inline"`
	Name     string       `bson:"name" validate:"required" index:"text"`
	Price    float64      `bson:"price" index:"single,order:-1"`
	Category testCategory `bson:"category" validate:"required"`
	Num      int          `bson:"num"`
}

func (testProduct) CollectionName() string { return "test_products" }

func chocolate() testCategory {
	return testCategory{Name: "Chocolate", Description: "Cacao based sweets"}
}

func ns(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func productDoc(id primitive.ObjectID, name string, price float64, n int) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: name},
		{Key: "price", Value: price},
		{Key: "category", Value: bson.D{{Key: "name", Value: "Chocolate"}, {Key: "description", Value: "Cacao based sweets"}}},
		{Key: "num", Value: n},
	}
}

func TestCollection(t *testing.T) {
	ctx := context.Background()
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert assigns id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		products := NewCollection[testProduct](mt.Coll)

		p := &testProduct{Name: "Peanut Bar", Price: 4.44, Category: chocolate(), Num: 4}
		require.NoError(mt, products.Insert(ctx, p))
		assert.False(mt, p.ID.IsZero())
	})

	mt.Run("insert rejects partial category", func(mt *mtest.T) {
		products := NewCollection[testProduct](mt.Coll)

		p := &testProduct{Name: "Peanut Bar", Category: testCategory{Name: "Chocolate"}}
		err := products.Insert(ctx, p)
		assert.ErrorIs(mt, err, ErrInvalidDocument)
		assert.True(mt, p.ID.IsZero())
	})

	mt.Run("insert many assigns ids", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		products := NewCollection[testProduct](mt.Coll)

		batch := []*testProduct{
			{Name: "Peanut Bar", Price: 4.44, Category: chocolate(), Num: 4},
			{Name: "Chocolate Truffle", Price: 2.5, Category: chocolate(), Num: 40},
		}
		require.NoError(mt, products.InsertMany(ctx, batch))
		for _, p := range batch {
			assert.False(mt, p.ID.IsZero())
		}
		assert.NotEqual(mt, batch[0].ID, batch[1].ID)
	})

	mt.Run("insert many empty is a no-op", func(mt *mtest.T) {
		products := NewCollection[testProduct](mt.Coll)
		assert.NoError(mt, products.InsertMany(ctx, nil))
	})

	mt.Run("find to list", func(mt *mtest.T) {
		first, second := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch,
			productDoc(first, "Peanut Bar", 4.44, 4),
			productDoc(second, "Chocolate Truffle", 2.5, 40),
		))
		products := NewCollection[testProduct](mt.Coll)

		list, err := products.Find(categoryName.Eq("Chocolate")).ToList(ctx)
		require.NoError(mt, err)
		require.Len(mt, list, 2)
		assert.Equal(mt, first, list[0].ID)
		assert.Equal(mt, "Chocolate Truffle", list[1].Name)
		assert.Equal(mt, chocolate(), list[1].Category)
	})

	mt.Run("find to list empty is not nil", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))
		products := NewCollection[testProduct](mt.Coll)

		list, err := products.All().ToList(ctx)
		require.NoError(mt, err)
		assert.NotNil(mt, list)
		assert.Empty(mt, list)
	})

	mt.Run("find one", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch,
			productDoc(id, "Peanut Bar", 4.44, 4)))
		products := NewCollection[testProduct](mt.Coll)

		p, err := products.FindOne(name.Eq("Peanut Bar")).Get(ctx)
		require.NoError(mt, err)
		assert.Equal(mt, id, p.ID)
		assert.InDelta(mt, 4.44, p.Price, 1e-9)
	})

	mt.Run("find one not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))
		products := NewCollection[testProduct](mt.Coll)

		p, err := products.FindOne(name.Eq("Nothing")).Get(ctx)
		assert.ErrorIs(mt, err, ErrNotFound)
		assert.Nil(mt, p)
	})

	mt.Run("update many", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 2},
			bson.E{Key: "nModified", Value: 2},
		))
		products := NewCollection[testProduct](mt.Coll)

		res, err := products.Find(categoryName.Eq("Chocolate")).Inc(ctx, Inc{price: 2})
		require.NoError(mt, err)
		assert.EqualValues(mt, 2, res.MatchedCount)
		assert.EqualValues(mt, 2, res.ModifiedCount)
	})

	mt.Run("update one without fetching", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))
		products := NewCollection[testProduct](mt.Coll)

		res, err := products.FindOne(name.Eq("Chocolate Truffle")).Update(ctx, Set{price: 3})
		require.NoError(mt, err)
		assert.EqualValues(mt, 1, res.ModifiedCount)
	})

	mt.Run("update rejects replacement document", func(mt *mtest.T) {
		products := NewCollection[testProduct](mt.Coll)
		_, err := products.All().Update(ctx, bson.M{"price": 1})
		assert.ErrorIs(mt, err, ErrInvalidUpdate)
	})

	mt.Run("update document refreshes instance", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: productDoc(id, "Peanut Bar", 3.44, 4)},
		))
		products := NewCollection[testProduct](mt.Coll)

		p := &testProduct{Document: Document{ID: id}, Name: "Peanut Bar", Price: 4.44, Category: chocolate(), Num: 4}
		require.NoError(mt, products.UpdateDocument(ctx, p, Inc{price: -1}))
		assert.InDelta(mt, 3.44, p.Price, 1e-9)
		assert.Equal(mt, id, p.ID)
	})

	mt.Run("update document without id", func(mt *mtest.T) {
		products := NewCollection[testProduct](mt.Coll)
		err := products.UpdateDocument(ctx, &testProduct{}, Inc{price: -1})
		assert.ErrorIs(mt, err, ErrNoID)
	})

	mt.Run("update document not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))
		products := NewCollection[testProduct](mt.Coll)

		p := &testProduct{Document: Document{ID: primitive.NewObjectID()}}
		err := products.UpdateDocument(ctx, p, Inc{price: -1})
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("delete document", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)
		products := NewCollection[testProduct](mt.Coll)

		p := &testProduct{Document: Document{ID: primitive.NewObjectID()}}
		require.NoError(mt, products.DeleteDocument(ctx, p))
		assert.ErrorIs(mt, products.DeleteDocument(ctx, p), ErrNotFound)
		assert.ErrorIs(mt, products.DeleteDocument(ctx, &testProduct{}), ErrNoID)
	})

	mt.Run("delete many", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}))
		products := NewCollection[testProduct](mt.Coll)

		n, err := products.Find(categoryName.Eq("Chocolate")).Delete(ctx)
		require.NoError(mt, err)
		assert.EqualValues(mt, 3, n)
	})

	mt.Run("delete one without fetching", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		products := NewCollection[testProduct](mt.Coll)

		n, err := products.FindOne(name.Eq("Chocolate Truffle")).Delete(ctx)
		require.NoError(mt, err)
		assert.EqualValues(mt, 1, n)
	})

	mt.Run("replace", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))
		products := NewCollection[testProduct](mt.Coll)

		p := &testProduct{Document: Document{ID: primitive.NewObjectID()}, Name: "Peanut Bar", Category: chocolate()}
		assert.NoError(mt, products.Replace(ctx, p))
	})

	mt.Run("count", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch,
			bson.D{{Key: "n", Value: int32(3)}}))
		products := NewCollection[testProduct](mt.Coll)

		n, err := products.All().Count(ctx)
		require.NoError(mt, err)
		assert.EqualValues(mt, 3, n)
	})

	mt.Run("avg", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: nil}, {Key: "value", Value: 3.47}}))
		products := NewCollection[testProduct](mt.Coll)

		avg, err := products.Find(categoryName.Eq("Chocolate")).Avg(ctx, price)
		require.NoError(mt, err)
		assert.InDelta(mt, 3.47, avg, 1e-9)
	})

	mt.Run("avg over nothing", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch),
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch),
		)
		products := NewCollection[testProduct](mt.Coll)

		_, err := products.Find(categoryName.Eq("Nougat")).Avg(ctx, price)
		assert.ErrorIs(mt, err, ErrNotFound)

		sum, err := products.Find(categoryName.Eq("Nougat")).Sum(ctx, num)
		require.NoError(mt, err)
		assert.Zero(mt, sum)
	})

	mt.Run("aggregate into view", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "Chocolate"}, {Key: "total", Value: int32(44)}}))
		products := NewCollection[testProduct](mt.Coll)

		pipeline := mongo.Pipeline{{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: categoryName.Ref()},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: num.Ref()}}},
		}}}}
		groups, err := AggregateAs[groupView](ctx, products.Find(price.Lt(10)), pipeline)
		require.NoError(mt, err)
		assert.Equal(mt, []groupView{{Category: "Chocolate", Total: 44}}, groups)
	})

	mt.Run("projection", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "Chocolate Truffle"}, {Key: "price", Value: 2.5}}))
		products := NewCollection[testProduct](mt.Coll)

		views, err := ProjectTo[shortView](ctx, products.Find(price.Lt(3.5)).Sort(price.Desc()).Limit(10))
		require.NoError(mt, err)
		assert.Equal(mt, []shortView{{Name: "Chocolate Truffle", Price: 2.5}}, views)
	})

	mt.Run("init ensures collection and indexes", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, mt.DB.Name()+".$cmd.listCollections", mtest.FirstBatch,
				bson.D{{Key: "name", Value: "test_products"}, {Key: "type", Value: "collection"}}),
			mtest.CreateCursorResponse(0, mt.DB.Name()+".test_products", mtest.FirstBatch,
				bson.D{{Key: "v", Value: int32(2)}, {Key: "key", Value: bson.D{{Key: "_id", Value: int32(1)}}}, {Key: "name", Value: "_id_"}},
				bson.D{{Key: "v", Value: int32(2)}, {Key: "key", Value: bson.D{{Key: "price", Value: int32(-1)}}}, {Key: "name", Value: "price_-1"}}),
			mtest.CreateSuccessResponse(),
		)

		require.NoError(mt, Init(ctx, mt.DB, testProduct{}))
		products, err := CollectionOf[testProduct]()
		require.NoError(mt, err)
		assert.Equal(mt, "test_products", products.Name())
	})
}

func TestCollectionOf_NotRegistered(t *testing.T) {
	type unregistered struct{}
	_, err := CollectionOf[unregistered]()
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestRegister(t *testing.T) {
	type registered struct {
		Document `bson:",inline"`
	}
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("binds without server calls", func(mt *mtest.T) {
		bound := Register[registered](mt.Coll)
		assert.Nil(mt, mt.GetStartedEvent())

		got, err := CollectionOf[registered]()
		require.NoError(mt, err)
		assert.Equal(mt, bound.Name(), got.Name())
	})
}

func TestInit_RejectsNonStruct(t *testing.T) {
	assert.Error(t, Init(context.Background(), nil, 42))
}

func TestCollectionName(t *testing.T) {
	assert.Equal(t, "test_products", collectionName(testProduct{}))
	assert.Equal(t, "test_products", collectionName(&testProduct{}))
	assert.Equal(t, "shortView", collectionName(shortView{}))
}
