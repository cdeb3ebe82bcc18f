package repository

import (
	"context"

	"github.com/sonoda80/coachlog/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound = RepositoryError("not found")
	ErrConflict = RepositoryError("conflict")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// SetTrainerForClient sets the client's trainer back-reference. The field
	// is settable once: a second attempt returns ErrConflict.
	SetTrainerForClient(ctx context.Context, clientID, trainerID primitive.ObjectID) error
	GetClientsByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)
}

// MessageRepository is the append-only conversation log.
type MessageRepository interface {
	Append(ctx context.Context, msg *domain.Message) (primitive.ObjectID, error)
	// GetByParticipant returns every message the user participates in, ordered
	// by createdAt ascending with ties broken by insertion order.
	GetByParticipant(ctx context.Context, userID primitive.ObjectID) ([]domain.Message, error)
}

// RecordRepository is the per-day aggregate store keyed by (user, kind, date).
type RecordRepository interface {
	// Upsert merges patch into the record field-by-field, creating the record
	// if absent. Patch fields win; unmentioned existing fields survive.
	Upsert(ctx context.Context, userID primitive.ObjectID, kind domain.RecordKind, date string, patch map[string]any) error
	// Replace overwrites the record's field set entirely (used for
	// single-valued kinds such as weights).
	Replace(ctx context.Context, userID primitive.ObjectID, kind domain.RecordKind, date string, fields map[string]any) error
	Get(ctx context.Context, userID primitive.ObjectID, kind domain.RecordKind, date string) (*domain.DailyRecord, error)
	// GetRange returns records with from <= date <= to, ordered by date.
	GetRange(ctx context.Context, userID primitive.ObjectID, kind domain.RecordKind, from, to string) ([]domain.DailyRecord, error)
}

// GoalRepository stores each client's current challenge goal labels.
type GoalRepository interface {
	Set(ctx context.Context, goals *domain.ChallengeGoals) error
	Get(ctx context.Context, userID primitive.ObjectID) (*domain.ChallengeGoals, error)
}

// SurveyRepository stores the per-user initial survey singleton.
type SurveyRepository interface {
	Upsert(ctx context.Context, survey *domain.Survey) error
	Get(ctx context.Context, userID primitive.ObjectID) (*domain.Survey, error)
	// MarkViewed flips the trainerViewed read-receipt. Idempotent.
	MarkViewed(ctx context.Context, userID primitive.ObjectID) error
}

// SummaryRepository stores weekly summaries keyed by (trainer, client, week start).
type SummaryRepository interface {
	Upsert(ctx context.Context, summary *domain.WeeklySummary) error
	Get(ctx context.Context, trainerID, clientID primitive.ObjectID, weekStart string) (*domain.WeeklySummary, error)
}
