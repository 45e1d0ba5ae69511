package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewMongo establishes a new MongoDB client with a 10‑second connection timeout.
//
// Typical usage:
//
//	client, err := database.NewMongo(ctx, cfg.MongoURI)
//	if err != nil { … }
//	defer client.Disconnect(context.Background())
func NewMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, err
	}

	// Verify the connection with a ping.
	if err := client.Ping(ctx, nil); err != nil {
		// Disconnect in case of ping failure to avoid leaking sockets.
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}

// Ping reports whether the client can reach the primary within two seconds.
func Ping(ctx context.Context, client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return client.Ping(ctx, nil)
}
