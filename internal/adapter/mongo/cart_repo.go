package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	cartCollectionName = "carts"
)

// cartDocument is one slot: {_id: <slot>, items: [...]}.
type cartDocument struct {
	Slot      string            `bson:"_id"`
	Items     []entity.CartItem `bson:"items"`
	UpdatedAt time.Time         `bson:"updated_at"`
}

type cartRepository struct {
	collection *mongo.Collection
}

func NewCartRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.CartRepository {
	return &cartRepository{
		collection: client.Database(cfg.Database).Collection(cartCollectionName),
	}
}

func (r *cartRepository) Load(ctx context.Context, slot string) ([]entity.CartItem, error) {
	var doc cartDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": slot}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load cart slot %s from mongodb: %w", slot, err)
	}
	if doc.Items == nil {
		doc.Items = []entity.CartItem{}
	}
	return doc.Items, nil
}

func (r *cartRepository) Save(ctx context.Context, slot string, items []entity.CartItem) error {
	if slot == "" {
		return errors.New("cannot save cart to an empty slot name")
	}
	if items == nil {
		items = []entity.CartItem{}
	}

	doc := cartDocument{Slot: slot, Items: items, UpdatedAt: time.Now().UTC()}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": slot}, doc, opts); err != nil {
		return fmt.Errorf("failed to save cart slot %s to mongodb: %w", slot, err)
	}
	return nil
}
