package repository

import (
	"context"

	"query-hub/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentRepository is the storage-access interface for one collection.
// FindByID returns a nil document and a nil error when nothing matches.
type DocumentRepository interface {
	Find(ctx context.Context, query models.ListQuery) ([]models.Document, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Document, error)
	Insert(ctx context.Context, doc models.Document) (*models.InsertAck, error)
	Upsert(ctx context.Context, id primitive.ObjectID, fields models.Document) (*models.UpdateAck, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.DeleteAck, error)
}
