package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Document is a schema-less record as stored in a collection.
type Document map[string]interface{}

// Field names the listing filter knows about.
const (
	FieldID           = "_id"
	FieldProductName  = "product_name"
	FieldProductBrand = "product_brand"
	FieldCurrentDate  = "currentDate"
)

// ListParams carries the optional query-string inputs of a listing request.
// An empty string means the parameter was not supplied.
type ListParams struct {
	Search string `form:"search"`
	Filter string `form:"filter"`
	Sort   string `form:"sort"`
}

// ListQuery is the storage-ready form of ListParams. A nil Sort leaves the
// natural order of the collection.
type ListQuery struct {
	Filter bson.M
	Sort   bson.D
}

// InsertAck mirrors the driver's insert result.
type InsertAck struct {
	Acknowledged bool        `json:"acknowledged"`
	InsertedID   interface{} `json:"insertedId"`
}

// UpdateAck mirrors the driver's update result.
type UpdateAck struct {
	Acknowledged  bool        `json:"acknowledged"`
	MatchedCount  int64       `json:"matchedCount"`
	ModifiedCount int64       `json:"modifiedCount"`
	UpsertedCount int64       `json:"upsertedCount"`
	UpsertedID    interface{} `json:"upsertedId"`
}

// DeleteAck mirrors the driver's delete result.
type DeleteAck struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// Event types published after a successful write.
const (
	EventDocumentCreated = "document_created"
	EventDocumentUpdated = "document_updated"
	EventDocumentDeleted = "document_deleted"
)

// DocumentEvent is published to the events topic after a write.
type DocumentEvent struct {
	EventType  string    `json:"event_type"`
	Collection string    `json:"collection"`
	DocumentID string    `json:"document_id"`
	Timestamp  time.Time `json:"timestamp"`
}
