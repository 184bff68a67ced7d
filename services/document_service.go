package services

import (
	"context"
	"fmt"

	"query-hub/apperrors"
	"query-hub/models"
	"query-hub/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DocumentService defines the operations exposed for one collection.
type DocumentService interface {
	Collection() string
	List(ctx context.Context, params models.ListParams) ([]models.Document, error)
	Get(ctx context.Context, id string) (models.Document, error)
	Create(ctx context.Context, doc models.Document) (*models.InsertAck, error)
	Update(ctx context.Context, id string, fields models.Document) (*models.UpdateAck, error)
	Delete(ctx context.Context, id string) (*models.DeleteAck, error)
}

// ListCache is an optional read-through cache for listings. Get reports the
// collection version it looked under; SetAsync stores under that version so a
// write racing with the storage read invalidates the result.
type ListCache interface {
	Get(ctx context.Context, collection string, params models.ListParams) ([]models.Document, int64, bool)
	SetAsync(collection string, version int64, params models.ListParams, docs []models.Document)
	Invalidate(ctx context.Context, collection string) error
}

// EventPublisher is notified after every successful write.
type EventPublisher interface {
	PublishDocumentEvent(ctx context.Context, eventType, collection, documentID string)
}

// documentServiceImpl implements DocumentService.
type documentServiceImpl struct {
	collection string
	repo       repository.DocumentRepository
	cache      ListCache
	events     EventPublisher
	logger     *zap.Logger
}

// NewDocumentService creates a DocumentService for collection. cache and
// events may be nil.
func NewDocumentService(
	collection string,
	repo repository.DocumentRepository,
	cache ListCache,
	events EventPublisher,
	logger *zap.Logger,
) DocumentService {
	return &documentServiceImpl{
		collection: collection,
		repo:       repo,
		cache:      cache,
		events:     events,
		logger:     logger,
	}
}

func (s *documentServiceImpl) Collection() string {
	return s.collection
}

// List returns the documents matching params.
func (s *documentServiceImpl) List(ctx context.Context, params models.ListParams) ([]models.Document, error) {
	var version int64
	if s.cache != nil {
		docs, v, ok := s.cache.Get(ctx, s.collection, params)
		if ok {
			return docs, nil
		}
		version = v
	}

	docs, err := s.repo.Find(ctx, BuildListQuery(params))
	if err != nil {
		s.logger.Error("Failed to list documents",
			zap.String("collection", s.collection),
			zap.String("search", params.Search),
			zap.String("filter", params.Filter),
			zap.String("sort", params.Sort),
			zap.Error(err),
		)
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}

	if s.cache != nil {
		s.cache.SetAsync(s.collection, version, params, docs)
	}
	return docs, nil
}

// Get returns the document with the given id, or nil when there is none.
func (s *documentServiceImpl) Get(ctx context.Context, id string) (models.Document, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	doc, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		s.logger.Error("Failed to fetch document", zap.String("collection", s.collection), zap.String("id", id), zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}
	return doc, nil
}

// Create inserts doc, generating an _id when the caller did not supply one.
func (s *documentServiceImpl) Create(ctx context.Context, doc models.Document) (*models.InsertAck, error) {
	if doc == nil {
		return nil, apperrors.ErrInvalidBody
	}

	toInsert := make(models.Document, len(doc)+1)
	for k, v := range doc {
		toInsert[k] = v
	}
	if _, ok := toInsert[models.FieldID]; !ok {
		toInsert[models.FieldID] = primitive.NewObjectID()
	}

	ack, err := s.repo.Insert(ctx, toInsert)
	if err != nil {
		s.logger.Error("Failed to insert document", zap.String("collection", s.collection), zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}

	insertedID := idString(ack.InsertedID)
	s.logger.Info("Document created", zap.String("collection", s.collection), zap.String("id", insertedID))
	s.afterWrite(ctx, models.EventDocumentCreated, insertedID)
	return ack, nil
}

// Update merges fields into the document with the given id, creating it when
// absent. An _id in fields is ignored.
func (s *documentServiceImpl) Update(ctx context.Context, id string, fields models.Document) (*models.UpdateAck, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := make(models.Document, len(fields))
	for k, v := range fields {
		if k == models.FieldID {
			continue
		}
		set[k] = v
	}
	if len(set) == 0 {
		return nil, apperrors.ErrEmptyUpdate
	}

	ack, err := s.repo.Upsert(ctx, oid, set)
	if err != nil {
		s.logger.Error("Failed to update document", zap.String("collection", s.collection), zap.String("id", id), zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}

	eventType := models.EventDocumentUpdated
	if ack.UpsertedCount > 0 {
		eventType = models.EventDocumentCreated
	}
	s.logger.Info("Document upserted",
		zap.String("collection", s.collection),
		zap.String("id", id),
		zap.Int64("matched", ack.MatchedCount),
		zap.Int64("modified", ack.ModifiedCount),
		zap.Int64("upserted", ack.UpsertedCount),
	)
	s.afterWrite(ctx, eventType, oid.Hex())
	return ack, nil
}

// Delete removes the document with the given id. Deleting a missing document
// is not an error; the acknowledgment reports zero deletions.
func (s *documentServiceImpl) Delete(ctx context.Context, id string) (*models.DeleteAck, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ack, err := s.repo.Delete(ctx, oid)
	if err != nil {
		s.logger.Error("Failed to delete document", zap.String("collection", s.collection), zap.String("id", id), zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, err)
	}

	s.logger.Info("Document deleted", zap.String("collection", s.collection), zap.String("id", id), zap.Int64("deleted", ack.DeletedCount))
	if ack.DeletedCount > 0 {
		s.afterWrite(ctx, models.EventDocumentDeleted, oid.Hex())
	}
	return ack, nil
}

func (s *documentServiceImpl) afterWrite(ctx context.Context, eventType, id string) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, s.collection); err != nil {
			s.logger.Error("Failed to invalidate list cache", zap.String("collection", s.collection), zap.Error(err))
		}
	}
	if s.events != nil {
		s.events.PublishDocumentEvent(ctx, eventType, s.collection, id)
	}
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.Wrap(apperrors.ErrInvalidID, err)
	}
	return oid, nil
}

func idString(id interface{}) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(id)
}
