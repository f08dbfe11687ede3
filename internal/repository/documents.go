package repository

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"recipe-service/internal/entity"
)

// ErrInvalidID is returned when a path id is not a 24 character hex ObjectID.
var ErrInvalidID = errors.New("invalid document id")

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errors.Wrapf(ErrInvalidID, "%q", id)
	}
	return oid, nil
}

func byID(oid primitive.ObjectID) bson.M {
	return bson.M{entity.IDField: oid}
}

// documents runs the single-call CRUD operations shared by every resource.
// A missing document is reported as a nil T with a nil error.
type documents[T ~map[string]interface{}] struct {
	coll *mongo.Collection
	kind string
}

func (d documents[T]) insert(ctx context.Context, doc T) (T, error) {
	stored := entity.Document(doc).WithoutID()
	stored[entity.IDField] = primitive.NewObjectID()

	if _, err := d.coll.InsertOne(ctx, stored); err != nil {
		return nil, errors.Wrapf(err, "inserting %s", d.kind)
	}
	return T(stored), nil
}

func (d documents[T]) findAll(ctx context.Context) ([]T, error) {
	cursor, err := d.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrapf(err, "finding %ss", d.kind)
	}

	var out []T
	if err = cursor.All(ctx, &out); err != nil {
		return nil, errors.Wrapf(err, "decoding %ss", d.kind)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (d documents[T]) findByID(ctx context.Context, id string) (T, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var out T
	err = d.coll.FindOne(ctx, byID(oid)).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "finding %s %s", d.kind, id)
	}
	return out, nil
}

func (d documents[T]) replace(ctx context.Context, id string, doc T) (T, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndReplace().SetReturnDocument(options.After)

	var out T
	err = d.coll.FindOneAndReplace(ctx, byID(oid), entity.Document(doc).WithoutID(), opts).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "replacing %s %s", d.kind, id)
	}
	return out, nil
}

func (d documents[T]) remove(ctx context.Context, id string) (T, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var out T
	err = d.coll.FindOneAndDelete(ctx, byID(oid)).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "deleting %s %s", d.kind, id)
	}
	return out, nil
}
