package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/pantryshop/storefront/model"
	"github.com/pantryshop/storefront/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	statusChecksCollection = "status_checks"
	mongoConnectTimeout    = 10 * time.Second
)

// MongoStorage implements Storage on a MongoDB database.
type MongoStorage struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ Storage = (*MongoStorage)(nil)

// NewMongoStorage connects to uri and verifies the primary is reachable.
func NewMongoStorage(ctx context.Context, uri, dbName string) (*MongoStorage, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(mongoConnectTimeout).
		SetConnectTimeout(mongoConnectTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	utils.Debug("connected to mongo database %q", dbName)
	return &MongoStorage{client: client, db: client.Database(dbName)}, nil
}

func (s *MongoStorage) SaveStatusCheck(ctx context.Context, check *model.StatusCheck) error {
	if _, err := s.db.Collection(statusChecksCollection).InsertOne(ctx, check); err != nil {
		return fmt.Errorf("insert status check: %w", err)
	}
	return nil
}

func (s *MongoStorage) ListStatusChecks(ctx context.Context, limit int) ([]*model.StatusCheck, error) {
	opts := options.Find().
		SetLimit(int64(normalizeLimit(limit))).
		SetProjection(bson.M{"_id": 0})
	cur, err := s.db.Collection(statusChecksCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find status checks: %w", err)
	}
	out := []*model.StatusCheck{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode status checks: %w", err)
	}
	return out, nil
}

func (s *MongoStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStorage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
