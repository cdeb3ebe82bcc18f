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

const recordCollectionName = "daily_records"

// mongoRecordRepository implements repository.RecordRepository using MongoDB.
// One document per (userId, kind, date); the backend's atomic single-document
// update gives the merge-write semantics.
type mongoRecordRepository struct {
	collection *mongo.Collection
}

func NewMongoRecordRepository(db *mongo.Database) repository.RecordRepository {
	return &mongoRecordRepository{
		collection: db.Collection(recordCollectionName),
	}
}

func recordKey(userID primitive.ObjectID, kind domain.RecordKind, date string) bson.M {
	return bson.M{"userId": userID, "kind": kind, "date": date}
}

// Upsert merges patch into the record field-by-field via $set on the nested
// field paths. Fields the patch does not mention survive.
func (r *mongoRecordRepository) Upsert(ctx context.Context, userID primitive.ObjectID, kind domain.RecordKind, date string, patch map[string]any) error {
	if len(patch) == 0 {
		return errors.New("patch must not be empty")
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range patch {
		set["fields."+k] = v
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": recordKey(userID, kind, date),
	}

	_, err := r.collection.UpdateOne(ctx, recordKey(userID, kind, date), update, options.Update().SetUpsert(true))
	return err
}

// Replace overwrites the record's whole field set (single-valued kinds).
func (r *mongoRecordRepository) Replace(ctx context.Context, userID primitive.ObjectID, kind domain.RecordKind, date string, fields map[string]any) error {
	if len(fields) == 0 {
		return errors.New("fields must not be empty")
	}

	update := bson.M{
		"$set": bson.M{
			"fields":    fields,
			"updatedAt": time.Now().UTC(),
		},
		"$setOnInsert": recordKey(userID, kind, date),
	}

	_, err := r.collection.UpdateOne(ctx, recordKey(userID, kind, date), update, options.Update().SetUpsert(true))
	return err
}

// Get returns the record for (user, kind, date), or ErrNotFound.
func (r *mongoRecordRepository) Get(ctx context.Context, userID primitive.ObjectID, kind domain.RecordKind, date string) (*domain.DailyRecord, error) {
	var record domain.DailyRecord
	err := r.collection.FindOne(ctx, recordKey(userID, kind, date)).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// GetRange returns records with from <= date <= to, ordered by date. The
// "YYYY-MM-DD" layout makes string order date order.
func (r *mongoRecordRepository) GetRange(ctx context.Context, userID primitive.ObjectID, kind domain.RecordKind, from, to string) ([]domain.DailyRecord, error) {
	filter := bson.M{
		"userId": userID,
		"kind":   kind,
		"date":   bson.M{"$gte": from, "$lte": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []domain.DailyRecord{}
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// EnsureRecordIndexes creates necessary indexes for the daily_records collection.
func EnsureRecordIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "kind", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
