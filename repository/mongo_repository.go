package repository

import (
	"context"
	"errors"
	"fmt"

	"query-hub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository implements DocumentRepository on a MongoDB collection.
type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(collection *mongo.Collection) *MongoRepository {
	return &MongoRepository{collection: collection}
}

func (r *MongoRepository) Find(ctx context.Context, query models.ListQuery) ([]models.Document, error) {
	filter := query.Filter
	if filter == nil {
		filter = bson.M{}
	}

	findOptions := options.Find()
	if len(query.Sort) > 0 {
		findOptions.SetSort(query.Sort)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", r.collection.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := make([]models.Document, 0)
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode %s document: %w", r.collection.Name(), err)
		}
		docs = append(docs, models.Document(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", r.collection.Name(), err)
	}
	return docs, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Document, error) {
	var doc bson.M
	err := r.collection.FindOne(ctx, bson.M{models.FieldID: id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("findOne in %s: %w", r.collection.Name(), err)
	}
	return models.Document(doc), nil
}

func (r *MongoRepository) Insert(ctx context.Context, doc models.Document) (*models.InsertAck, error) {
	res, err := r.collection.InsertOne(ctx, bson.M(doc))
	if err != nil {
		return nil, fmt.Errorf("insertOne in %s: %w", r.collection.Name(), err)
	}
	return &models.InsertAck{Acknowledged: true, InsertedID: res.InsertedID}, nil
}

func (r *MongoRepository) Upsert(ctx context.Context, id primitive.ObjectID, fields models.Document) (*models.UpdateAck, error) {
	update := bson.M{"$set": bson.M(fields)}
	res, err := r.collection.UpdateOne(ctx, bson.M{models.FieldID: id}, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, fmt.Errorf("updateOne in %s: %w", r.collection.Name(), err)
	}
	return &models.UpdateAck{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.DeleteAck, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{models.FieldID: id})
	if err != nil {
		return nil, fmt.Errorf("deleteOne in %s: %w", r.collection.Name(), err)
	}
	return &models.DeleteAck{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}
