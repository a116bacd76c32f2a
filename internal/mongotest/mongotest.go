// Package mongotest starts a throwaway MongoDB server for integration tests.
package mongotest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const image = "mongo:7"

// Database returns a fresh database on a containerized server. The test is
// skipped under -short or when Docker is not available.
func Database(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MongoDB integration test in short mode")
	}

	ctx := context.Background()
	uri := start(t, ctx)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(10*time.Second))
	if err != nil {
		t.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	t.Cleanup(func() {
		if err := client.Disconnect(context.Background()); err != nil {
			t.Logf("Failed to disconnect MongoDB client: %v", err)
		}
	})

	name := fmt.Sprintf("test_%s_%d", sanitize(t.Name()), time.Now().UnixNano())
	return client.Database(name)
}

func start(t *testing.T, ctx context.Context) (uri string) {
	t.Helper()

	// testcontainers panics when the Docker daemon is unreachable.
	defer func() {
		if r := recover(); r != nil {
			t.Skipf("Docker daemon not available, skipping: %v", r)
		}
	}()

	container, err := mongodb.Run(ctx, image)
	if err != nil {
		t.Skipf("Failed to start MongoDB container (Docker not available?): %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("Failed to terminate MongoDB container: %v", err)
		}
	})

	uri, err = container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("Failed to get MongoDB connection string: %v", err)
	}
	return uri
}

func sanitize(name string) string {
	r := strings.NewReplacer("/", "_", " ", "_", ".", "_", "$", "_")
	name = r.Replace(name)
	if len(name) > 30 {
		name = name[:30]
	}
	return name
}
