package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"recipe-service/internal/entity"
)

type UserRepository struct {
	docs documents[entity.User]
}

func NewUserRepository(coll *mongo.Collection) *UserRepository {
	return &UserRepository{docs: documents[entity.User]{coll: coll, kind: "user"}}
}

func (r *UserRepository) CreateUser(ctx context.Context, user entity.User) (entity.User, error) {
	return r.docs.insert(ctx, user)
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (entity.User, error) {
	return r.docs.findByID(ctx, id)
}

func (r *UserRepository) UpdateUser(ctx context.Context, id string, user entity.User) (entity.User, error) {
	return r.docs.replace(ctx, id, user)
}
