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

const surveyCollectionName = "surveys"

// mongoSurveyRepository implements repository.SurveyRepository using MongoDB.
// One "initial" survey document per user.
type mongoSurveyRepository struct {
	collection *mongo.Collection
}

func NewMongoSurveyRepository(db *mongo.Database) repository.SurveyRepository {
	return &mongoSurveyRepository{
		collection: db.Collection(surveyCollectionName),
	}
}

// Upsert stores the client's answers, preserving an existing trainerViewed
// flag on resubmission is intentionally NOT done: a fresh submission resets
// the read-receipt so the trainer sees the new answers.
func (r *mongoSurveyRepository) Upsert(ctx context.Context, survey *domain.Survey) error {
	if survey.UserID == primitive.NilObjectID {
		return errors.New("survey user ID is required")
	}

	survey.UpdatedAt = time.Now().UTC()
	survey.TrainerViewed = false

	filter := bson.M{"userId": survey.UserID}
	update := bson.M{
		"$set": bson.M{
			"breakfast":     survey.Breakfast,
			"mealsPerDay":   survey.MealsPerDay,
			"snacks":        survey.Snacks,
			"sweetDrink":    survey.SweetDrink,
			"eatingOut":     survey.EatingOut,
			"overeating":    survey.Overeating,
			"mealTimeFixed": survey.MealTimeFixed,
			"mealAwareness": survey.MealAwareness,
			"exerciseDays":  survey.ExerciseDays,
			"mainActivity":  survey.MainActivity,
			"exerciseTime":  survey.ExerciseTime,
			"postWorkout":   survey.PostWorkout,
			"tired":         survey.Tired,
			"sleep":         survey.Sleep,
			"concerns":      survey.Concerns,
			"goal":          survey.Goal,
			"trainerViewed": survey.TrainerViewed,
			"updatedAt":     survey.UpdatedAt,
		},
		"$setOnInsert": bson.M{"userId": survey.UserID},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// Get returns the user's survey, or ErrNotFound if never submitted.
func (r *mongoSurveyRepository) Get(ctx context.Context, userID primitive.ObjectID) (*domain.Survey, error) {
	var survey domain.Survey
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&survey)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &survey, nil
}

// MarkViewed flips the trainerViewed read-receipt. Repeated calls are no-ops.
func (r *mongoSurveyRepository) MarkViewed(ctx context.Context, userID primitive.ObjectID) error {
	filter := bson.M{"userId": userID}
	update := bson.M{"$set": bson.M{"trainerViewed": true}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureSurveyIndexes creates necessary indexes for the surveys collection.
func EnsureSurveyIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
