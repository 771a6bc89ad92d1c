//go:build integration

package mongo

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/repository"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	testClient *mongo.Client
	testCfg    config.MongoDBConfig
)

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "6.0",
		Env: []string{
			"MONGO_INITDB_ROOT_USERNAME=root",
			"MONGO_INITDB_ROOT_PASSWORD=password",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start MongoDB resource: %s", err)
	}

	testCfg = config.MongoDBConfig{
		URI:      fmt.Sprintf("mongodb://%s/?authSource=admin", resource.GetHostPort("27017/tcp")),
		User:     "root",
		Password: "password",
		Database: "storefront_test",
	}

	if err := pool.Retry(func() error {
		var errRetry error
		testClient, errRetry = NewClient(context.Background(), testCfg)
		return errRetry
	}); err != nil {
		log.Fatalf("Could not connect to MongoDB: %s", err)
	}

	code := m.Run()

	_ = testClient.Disconnect(context.Background())
	if err := pool.Purge(resource); err != nil {
		log.Printf("Could not purge MongoDB resource: %s", err)
	}
	os.Exit(code)
}

func sampleItems() []entity.CartItem {
	return []entity.CartItem{
		{Product: entity.Product{ID: "product-1", Name: "Silk Saree", Description: "Handwoven", Price: 2500, Category: "Sarees", Stock: 3, ImageURL: "https://img/1.jpg"}, Quantity: 2},
		{Product: entity.Product{ID: "product-3", Name: "Kurta", Price: 749.5, Category: "General", ImageURL: "/placeholder.svg"}, Quantity: 1},
	}
}

func TestCartRepository_Integration(t *testing.T) {
	repo := NewCartRepository(testClient, testCfg)
	ctx := context.Background()
	slot := "cart-" + t.Name()

	_, err := repo.Load(ctx, slot)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Save(ctx, slot, sampleItems()))
	items, err := repo.Load(ctx, slot)
	require.NoError(t, err)
	assert.Equal(t, sampleItems(), items)

	require.NoError(t, repo.Save(ctx, slot, []entity.CartItem{}))
	items, err = repo.Load(ctx, slot)
	require.NoError(t, err)
	assert.Empty(t, items)

	count, err := testClient.Database(testCfg.Database).Collection(cartCollectionName).CountDocuments(ctx, bson.M{"_id": slot})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = testClient.Database(testCfg.Database).Collection(cartCollectionName).DeleteOne(ctx, bson.M{"_id": slot})
	require.NoError(t, err)
	_, err = repo.Load(ctx, slot)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCartRepository_FlatDocument(t *testing.T) {
	repo := NewCartRepository(testClient, testCfg)
	ctx := context.Background()
	slot := "cart-flat"

	require.NoError(t, repo.Save(ctx, slot, sampleItems()[:1]))

	raw, err := testClient.Database(testCfg.Database).Collection(cartCollectionName).FindOne(ctx, bson.M{"_id": slot}).Raw()
	require.NoError(t, err)
	assert.Equal(t, "product-1", raw.Lookup("items", "0", "id").StringValue())
	assert.Equal(t, "https://img/1.jpg", raw.Lookup("items", "0", "imageUrl").StringValue())
	assert.Equal(t, int32(2), raw.Lookup("items", "0", "quantity").Int32())
}
