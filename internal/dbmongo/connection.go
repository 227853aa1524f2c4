// Package dbmongo stores message media and diary images in GridFS.
package dbmongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"parallel/internal/config"
)

const (
	bucketName     = "media_files"
	connectTimeout = 10 * time.Second
)

// MongoClient bundles the connection with the media bucket built on it.
type MongoClient struct {
	Client   *mongo.Client
	Database *mongo.Database
	GridFS   *gridfs.Bucket
}

// NewMongoConnection dials the server described by cfg and gives up after
// connectTimeout.
func NewMongoConnection(cfg *config.Config) (*MongoClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return Dial(ctx, cfg.GetMongoURI(), cfg.MongoDB.Database)
}

// Dial connects, verifies the server answers a ping and opens the media bucket
// in database. ctx bounds both the connect and the ping.
func Dial(ctx context.Context, uri, database string) (*MongoClient, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetAppName("parallel")

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(database)
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(bucketName))
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to open %s bucket: %w", bucketName, err)
	}

	return &MongoClient{Client: client, Database: db, GridFS: bucket}, nil
}

func (mc *MongoClient) Close(ctx context.Context) error {
	return mc.Client.Disconnect(ctx)
}
