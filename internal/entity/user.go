package entity

import "go.mongodb.org/mongo-driver/bson/primitive"

// User has no enforced shape either; email, username and the like are
// whatever the client posted.
type User Document

func (u User) ID() (primitive.ObjectID, bool) {
	return Document(u).ID()
}
