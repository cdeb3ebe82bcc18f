package mongo

import (
	"context"
	"errors"

	"github.com/sonoda80/coachlog/internal/domain"
	"github.com/sonoda80/coachlog/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const messageCollectionName = "messages"

// mongoMessageRepository implements repository.MessageRepository using MongoDB.
type mongoMessageRepository struct {
	collection *mongo.Collection
}

func NewMongoMessageRepository(db *mongo.Database) repository.MessageRepository {
	return &mongoMessageRepository{
		collection: db.Collection(messageCollectionName),
	}
}

// Append inserts a new message. Messages are never updated or deleted.
func (r *mongoMessageRepository) Append(ctx context.Context, msg *domain.Message) (primitive.ObjectID, error) {
	if msg.Text == "" || len(msg.Participants) != 2 {
		return primitive.NilObjectID, errors.New("message text and both participants are required")
	}

	msg.ID = primitive.NewObjectID()

	result, err := r.collection.InsertOne(ctx, msg)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByParticipant returns every message the user participates in, ascending
// by createdAt. _id is the secondary sort key so equal timestamps keep
// insertion order.
func (r *mongoMessageRepository) GetByParticipant(ctx context.Context, userID primitive.ObjectID) ([]domain.Message, error) {
	filter := bson.M{"participants": userID}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := []domain.Message{}
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// EnsureMessageIndexes creates necessary indexes for the messages collection.
func EnsureMessageIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Feed query: participants contains X, ordered by createdAt.
			Keys:    bson.D{{Key: "participants", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
