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

const goalCollectionName = "challenge_goals"

// mongoGoalRepository implements repository.GoalRepository using MongoDB.
// One "current" goals document per user.
type mongoGoalRepository struct {
	collection *mongo.Collection
}

func NewMongoGoalRepository(db *mongo.Database) repository.GoalRepository {
	return &mongoGoalRepository{
		collection: db.Collection(goalCollectionName),
	}
}

// Set replaces the user's current goal labels.
func (r *mongoGoalRepository) Set(ctx context.Context, goals *domain.ChallengeGoals) error {
	if goals.UserID == primitive.NilObjectID {
		return errors.New("goal user ID is required")
	}

	filter := bson.M{"userId": goals.UserID}
	update := bson.M{
		"$set": bson.M{
			"goal1": goals.Goal1,
			"goal2": goals.Goal2,
			"goal3": goals.Goal3,
		},
		"$setOnInsert": bson.M{"userId": goals.UserID},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// Get returns the user's current goal labels, or ErrNotFound if never set.
func (r *mongoGoalRepository) Get(ctx context.Context, userID primitive.ObjectID) (*domain.ChallengeGoals, error) {
	var goals domain.ChallengeGoals
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&goals)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &goals, nil
}

// EnsureGoalIndexes creates necessary indexes for the challenge_goals collection.
func EnsureGoalIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
