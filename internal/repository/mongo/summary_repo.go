package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/sonoda80/coachlog/internal/domain"
	"github.com/sonoda80/coachlog/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const summaryCollectionName = "weekly_summaries"

// mongoSummaryRepository implements repository.SummaryRepository using MongoDB.
type mongoSummaryRepository struct {
	collection *mongo.Collection
}

func NewMongoSummaryRepository(db *mongo.Database) repository.SummaryRepository {
	return &mongoSummaryRepository{
		collection: db.Collection(summaryCollectionName),
	}
}

// Upsert stores the summary for its (trainer, client, weekStart) key. A
// resubmission within the same window overwrites the comment.
func (r *mongoSummaryRepository) Upsert(ctx context.Context, summary *domain.WeeklySummary) error {
	if summary.TrainerID == primitive.NilObjectID || summary.ClientID == primitive.NilObjectID || summary.WeekStart == "" {
		return errors.New("summary trainer ID, client ID and week start are required")
	}

	summary.CreatedAt = time.Now().UTC()

	filter := bson.M{
		"trainerId": summary.TrainerID,
		"clientId":  summary.ClientID,
		"weekStart": summary.WeekStart,
	}
	update := bson.M{
		"$set": bson.M{
			"comment":   summary.Comment,
			"createdAt": summary.CreatedAt,
		},
		"$setOnInsert": filter,
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// Get returns the summary for the key, or ErrNotFound.
func (r *mongoSummaryRepository) Get(ctx context.Context, trainerID, clientID primitive.ObjectID, weekStart string) (*domain.WeeklySummary, error) {
	filter := bson.M{
		"trainerId": trainerID,
		"clientId":  clientID,
		"weekStart": weekStart,
	}

	var summary domain.WeeklySummary
	err := r.collection.FindOne(ctx, filter).Decode(&summary)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &summary, nil
}

// EnsureSummaryIndexes creates necessary indexes for the weekly_summaries collection.
func EnsureSummaryIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "trainerId", Value: 1},
				{Key: "clientId", Value: 1},
				{Key: "weekStart", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
