package entity

import "go.mongodb.org/mongo-driver/bson/primitive"

// Recipe is persisted exactly as the request body described it, e.g.
//
//	{"title": "Pasta", "level": "Easy", "ingredients": ["pasta"]}
type Recipe Document

func (r Recipe) ID() (primitive.ObjectID, bool) {
	return Document(r).ID()
}

// Stored for MongoDB in the "recipes" collection:
//
//	{ _id: ObjectId, ...fields from the request body }
