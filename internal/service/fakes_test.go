package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sonoda80/coachlog/internal/domain"
	"github.com/sonoda80/coachlog/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository doubles used across the service tests.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*domain.User{}}
}

func (r *fakeUserRepo) add(u *domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	user.ID = primitive.NewObjectID()
	cp := *user
	r.users[cp.ID] = &cp
	return cp.ID, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) SetTrainerForClient(ctx context.Context, clientID, trainerID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[clientID]
	if !ok || !u.IsClient() {
		return repository.ErrNotFound
	}
	if u.TrainerID != nil {
		return repository.ErrConflict
	}
	u.TrainerID = &trainerID
	return nil
}

func (r *fakeUserRepo) GetClientsByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.users {
		if u.IsClient() && u.TrainerID != nil && *u.TrainerID == trainerID {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

type fakeMessageRepo struct {
	mu   sync.Mutex
	msgs []domain.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (r *fakeMessageRepo) Append(ctx context.Context, msg *domain.Message) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := *msg
	m.ID = primitive.NewObjectID()
	r.msgs = append(r.msgs, m)
	return m.ID, nil
}

func (r *fakeMessageRepo) GetByParticipant(ctx context.Context, userID primitive.ObjectID) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Message
	for _, m := range r.msgs {
		for _, p := range m.Participants {
			if p == userID {
				out = append(out, m)
				break
			}
		}
	}
	return out, nil
}

type fakeRecordRepo struct {
	mu      sync.Mutex
	records map[string]*domain.DailyRecord
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: map[string]*domain.DailyRecord{}}
}

func recordKey(userID primitive.ObjectID, kind domain.RecordKind, date string) string {
	return fmt.Sprintf("%s/%s/%s", userID.Hex(), kind, date)
}

func (r *fakeRecordRepo) Upsert(ctx context.Context, userID primitive.ObjectID, kind domain.RecordKind, date string, patch map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := recordKey(userID, kind, date)
	rec, ok := r.records[key]
	if !ok {
		rec = &domain.DailyRecord{UserID: userID, Kind: kind, Date: date}
		r.records[key] = rec
	}
	rec.ApplyPatch(patch)
	return nil
}

func (r *fakeRecordRepo) Replace(ctx context.Context, userID primitive.ObjectID, kind domain.RecordKind, date string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make(map[string]any, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	r.records[recordKey(userID, kind, date)] = &domain.DailyRecord{
		UserID: userID, Kind: kind, Date: date, Fields: cp,
	}
	return nil
}

func (r *fakeRecordRepo) Get(ctx context.Context, userID primitive.ObjectID, kind domain.RecordKind, date string) (*domain.DailyRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[recordKey(userID, kind, date)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeRecordRepo) GetRange(ctx context.Context, userID primitive.ObjectID, kind domain.RecordKind, from, to string) ([]domain.DailyRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.DailyRecord
	for _, rec := range r.records {
		if rec.UserID == userID && rec.Kind == kind && rec.Date >= from && rec.Date <= to {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

type fakeGoalRepo struct {
	mu    sync.Mutex
	goals map[primitive.ObjectID]*domain.ChallengeGoals
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{goals: map[primitive.ObjectID]*domain.ChallengeGoals{}}
}

func (r *fakeGoalRepo) Set(ctx context.Context, goals *domain.ChallengeGoals) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *goals
	r.goals[goals.UserID] = &cp
	return nil
}

func (r *fakeGoalRepo) Get(ctx context.Context, userID primitive.ObjectID) (*domain.ChallengeGoals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.goals[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

type fakeSurveyRepo struct {
	mu      sync.Mutex
	surveys map[primitive.ObjectID]*domain.Survey
}

func newFakeSurveyRepo() *fakeSurveyRepo {
	return &fakeSurveyRepo{surveys: map[primitive.ObjectID]*domain.Survey{}}
}

func (r *fakeSurveyRepo) Upsert(ctx context.Context, survey *domain.Survey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *survey
	cp.TrainerViewed = false
	r.surveys[survey.UserID] = &cp
	return nil
}

func (r *fakeSurveyRepo) Get(ctx context.Context, userID primitive.ObjectID) (*domain.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.surveys[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSurveyRepo) MarkViewed(ctx context.Context, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.surveys[userID]
	if !ok {
		return repository.ErrNotFound
	}
	s.TrainerViewed = true
	return nil
}

type fakeSummaryRepo struct {
	mu        sync.Mutex
	summaries map[string]*domain.WeeklySummary
}

func newFakeSummaryRepo() *fakeSummaryRepo {
	return &fakeSummaryRepo{summaries: map[string]*domain.WeeklySummary{}}
}

func summaryKey(trainerID, clientID primitive.ObjectID, weekStart string) string {
	return fmt.Sprintf("%s/%s/%s", trainerID.Hex(), clientID.Hex(), weekStart)
}

func (r *fakeSummaryRepo) Upsert(ctx context.Context, summary *domain.WeeklySummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *summary
	r.summaries[summaryKey(summary.TrainerID, summary.ClientID, summary.WeekStart)] = &cp
	return nil
}

func (r *fakeSummaryRepo) Get(ctx context.Context, trainerID, clientID primitive.ObjectID, weekStart string) (*domain.WeeklySummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.summaries[summaryKey(trainerID, clientID, weekStart)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

// recordingFeed captures broadcast events per user room.
type recordingFeed struct {
	mu     sync.Mutex
	events map[string][]FeedEvent
}

func newRecordingFeed() *recordingFeed {
	return &recordingFeed{events: map[string][]FeedEvent{}}
}

func (f *recordingFeed) Broadcast(userID string, event any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fe, ok := event.(FeedEvent); ok {
		f.events[userID] = append(f.events[userID], fe)
	}
}

func (f *recordingFeed) count(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events[userID])
}
