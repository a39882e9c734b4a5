package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Record is implemented by every entity persisted in the remote store.
type Record interface {
	RecordID() primitive.ObjectID
}

// FieldsOf converts a record into a flat field map suitable for a partial
// update. Keys follow the bson tags of the record.
func FieldsOf(v interface{}) (bson.M, error) {
	data, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal fields: %w", err)
	}
	var fields bson.M
	if err := bson.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal fields: %w", err)
	}
	return fields, nil
}
