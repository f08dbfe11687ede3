package migrations

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureCollections creates any of the named collections that do not exist
// yet, retrying each failed creation up to retries times.
func EnsureCollections(ctx context.Context, db *mongo.Database, retries int, names ...string) error {
	for _, name := range names {
		var err error
		for i := 0; i <= retries; i++ {
			if i > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(1 * time.Second):
				}
			}
			if err = ensureCollection(ctx, db, name); err == nil {
				break
			}
		}
		if err != nil {
			return errors.Wrapf(err, "creating collection %s", name)
		}
	}
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	err = db.CreateCollection(ctx, name)
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Name == "NamespaceExists" {
		return nil
	}
	return err
}
