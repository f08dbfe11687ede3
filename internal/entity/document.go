package entity

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDField is the key MongoDB stores the document identifier under.
const IDField = "_id"

// Document is a schema-free set of fields as sent by the client. The only key
// the service owns is _id.
type Document map[string]interface{}

// ID returns the store-assigned identifier, if the document has one.
func (d Document) ID() (primitive.ObjectID, bool) {
	id, ok := d[IDField].(primitive.ObjectID)
	return id, ok
}

// WithoutID returns a shallow copy of d minus any _id the client supplied.
func (d Document) WithoutID() Document {
	out := make(Document, len(d))
	for k, v := range d {
		if k == IDField {
			continue
		}
		out[k] = v
	}
	return out
}
