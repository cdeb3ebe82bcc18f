package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sonoda80/coachlog/internal/domain"
	"github.com/sonoda80/coachlog/internal/repository"
	"github.com/sonoda80/coachlog/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrNoTrainerAssigned  = errors.New("no trainer assigned")
	ErrTrainerNotFound    = errors.New("trainer not found")
	ErrTrainerAlreadySet  = errors.New("trainer already assigned")
	ErrInvalidWeight      = errors.New("invalid weight value")
	ErrInvalidMealSlot    = errors.New("invalid meal slot")
	ErrInvalidStatus      = errors.New("challenge status must be ○ or ×")
	ErrEmptySubmission    = errors.New("submission cannot be empty")
	ErrPhotoURLGeneration = errors.New("failed to generate photo upload URL")
)

// DayHistory is the per-day bundle shown on the history view. Absent records
// appear as empty maps / nil weight, not errors.
type DayHistory struct {
	Date       string            `json:"date"`
	Weight     *float64          `json:"weight,omitempty"`
	Meals      map[string]string `json:"meals"`
	Exercises  map[string]string `json:"exercises"`
	Challenges map[string]string `json:"challenges"`
}

// WeightPoint is one dated weight reading for the weight graph.
type WeightPoint struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

// PhotoUploadResponse carries a presigned PUT URL and the object key the
// client reports back when attaching the photo to a meal.
type PhotoUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// ClientService covers every client-side submission and read: the composer
// output is posted to the conversation feed and merged into the per-day
// aggregate store in one call.
type ClientService interface {
	SubmitMeal(ctx context.Context, clientID primitive.ObjectID, slot MealSlot, text, photoKey string) (*domain.Message, error)
	SubmitExercise(ctx context.Context, clientID primitive.ObjectID, name, detail string) (*domain.Message, error)
	SubmitWeight(ctx context.Context, clientID primitive.ObjectID, weight string) (*domain.Message, error)
	SubmitChallenge(ctx context.Context, clientID primitive.ObjectID, statuses map[string]string) (*domain.Message, error)

	SetChallengeGoals(ctx context.Context, clientID primitive.ObjectID, goals domain.ChallengeGoals) error
	ChallengeGoals(ctx context.Context, clientID primitive.ObjectID) (*domain.ChallengeGoals, error)

	AssignTrainer(ctx context.Context, clientID, trainerID primitive.ObjectID) error
	SubmitSurvey(ctx context.Context, clientID primitive.ObjectID, survey *domain.Survey) error

	History(ctx context.Context, clientID primitive.ObjectID, date string) (*DayHistory, error)
	WeightSeries(ctx context.Context, clientID primitive.ObjectID, from, to string) ([]WeightPoint, error)

	MealPhotoUploadURL(ctx context.Context, clientID primitive.ObjectID, contentType string) (*PhotoUploadResponse, error)
}

type clientService struct {
	userRepo   repository.UserRepository
	recordRepo repository.RecordRepository
	goalRepo   repository.GoalRepository
	surveyRepo repository.SurveyRepository
	chat       ChatService
	feed       Broadcaster
	photos     storage.FileStorage
	now        func() time.Time
}

// NewClientService creates a new instance of clientService. feed and photos
// may be nil when live delivery or object storage is not configured.
func NewClientService(
	userRepo repository.UserRepository,
	recordRepo repository.RecordRepository,
	goalRepo repository.GoalRepository,
	surveyRepo repository.SurveyRepository,
	chat ChatService,
	feed Broadcaster,
	photos storage.FileStorage,
) ClientService {
	return &clientService{
		userRepo:   userRepo,
		recordRepo: recordRepo,
		goalRepo:   goalRepo,
		surveyRepo: surveyRepo,
		chat:       chat,
		feed:       feed,
		photos:     photos,
		now:        time.Now,
	}
}

// trainerOf resolves the client's assigned trainer, the counterpart of every
// submission message.
func (s *clientService) trainerOf(ctx context.Context, clientID primitive.ObjectID) (primitive.ObjectID, error) {
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return primitive.NilObjectID, ErrUnknownUser
		}
		return primitive.NilObjectID, err
	}
	if client.TrainerID == nil || *client.TrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, ErrNoTrainerAssigned
	}
	return *client.TrainerID, nil
}

func (s *clientService) today() string {
	return s.now().UTC().Format(domain.DateLayout)
}

// submit posts the composed message and merges the patch into the day's record.
func (s *clientService) submit(ctx context.Context, clientID primitive.ObjectID, kind domain.RecordKind, text string, patch map[string]any, replace bool) (*domain.Message, error) {
	trainerID, err := s.trainerOf(ctx, clientID)
	if err != nil {
		return nil, err
	}

	msg, err := s.chat.Send(ctx, clientID, trainerID, text)
	if err != nil {
		return nil, err
	}

	date := s.today()
	if replace {
		err = s.recordRepo.Replace(ctx, clientID, kind, date, patch)
	} else {
		err = s.recordRepo.Upsert(ctx, clientID, kind, date, patch)
	}
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *clientService) SubmitMeal(ctx context.Context, clientID primitive.ObjectID, slot MealSlot, text, photoKey string) (*domain.Message, error) {
	if !ValidMealSlot(slot) {
		return nil, ErrInvalidMealSlot
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptySubmission
	}

	msgText, patch := ComposeMeal(slot, text)
	if photoKey != "" && s.photos != nil {
		url, err := s.photos.GeneratePresignedDownloadURL(ctx, photoKey, 0)
		if err == nil {
			msgText += "\nphoto: " + url
		}
		patch[string(slot)+"Photo"] = photoKey
	}

	return s.submit(ctx, clientID, domain.KindMeals, msgText, patch, false)
}

func (s *clientService) SubmitExercise(ctx context.Context, clientID primitive.ObjectID, name, detail string) (*domain.Message, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(detail) == "" {
		return nil, ErrEmptySubmission
	}

	msgText, patch := ComposeExercise(name, detail)
	return s.submit(ctx, clientID, domain.KindExercises, msgText, patch, false)
}

func (s *clientService) SubmitWeight(ctx context.Context, clientID primitive.ObjectID, weight string) (*domain.Message, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(weight), 64)
	if err != nil || value <= 0 {
		return nil, ErrInvalidWeight
	}

	msgText, patch := ComposeWeight(s.today(), value)
	return s.submit(ctx, clientID, domain.KindWeights, msgText, patch, true)
}

func (s *clientService) SubmitChallenge(ctx context.Context, clientID primitive.ObjectID, statuses map[string]string) (*domain.Message, error) {
	if len(statuses) == 0 {
		return nil, ErrEmptySubmission
	}
	for _, v := range statuses {
		if v != domain.StatusDone && v != domain.StatusMissed {
			return nil, ErrInvalidStatus
		}
	}

	goals, err := s.goalRepo.Get(ctx, clientID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	msgText, patch := ComposeChallenge(statuses, goals)
	return s.submit(ctx, clientID, domain.KindChallenges, msgText, patch, false)
}

func (s *clientService) SetChallengeGoals(ctx context.Context, clientID primitive.ObjectID, goals domain.ChallengeGoals) error {
	goals.UserID = clientID
	return s.goalRepo.Set(ctx, &goals)
}

func (s *clientService) ChallengeGoals(ctx context.Context, clientID primitive.ObjectID) (*domain.ChallengeGoals, error) {
	goals, err := s.goalRepo.Get(ctx, clientID)
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.ChallengeGoals{UserID: clientID}, nil
	}
	return goals, err
}

func (s *clientService) AssignTrainer(ctx context.Context, clientID, trainerID primitive.ObjectID) error {
	trainer, err := s.userRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTrainerNotFound
		}
		return err
	}
	if !trainer.IsTrainer() {
		return ErrTrainerNotFound
	}

	if err := s.userRepo.SetTrainerForClient(ctx, clientID, trainerID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrTrainerAlreadySet
		}
		return err
	}

	// Trainer dashboards subscribe to roster changes.
	if s.feed != nil {
		s.feed.Broadcast(trainerID.Hex(), FeedEvent{
			Type:    "client.assigned",
			Payload: map[string]string{"clientId": clientID.Hex()},
		})
	}
	return nil
}

func (s *clientService) SubmitSurvey(ctx context.Context, clientID primitive.ObjectID, survey *domain.Survey) error {
	survey.UserID = clientID
	return s.surveyRepo.Upsert(ctx, survey)
}

func (s *clientService) History(ctx context.Context, clientID primitive.ObjectID, date string) (*DayHistory, error) {
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	h := &DayHistory{
		Date:       date,
		Meals:      map[string]string{},
		Exercises:  map[string]string{},
		Challenges: map[string]string{},
	}

	if rec, err := s.getOrNil(ctx, clientID, domain.KindWeights, date); err != nil {
		return nil, err
	} else if w, ok := rec.Weight(); ok {
		h.Weight = &w
	}

	for kind, dst := range map[domain.RecordKind]map[string]string{
		domain.KindMeals:      h.Meals,
		domain.KindExercises:  h.Exercises,
		domain.KindChallenges: h.Challenges,
	} {
		rec, err := s.getOrNil(ctx, clientID, kind, date)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			continue
		}
		for k, v := range rec.Fields {
			if str, ok := v.(string); ok {
				dst[k] = str
			}
		}
	}

	return h, nil
}

func (s *clientService) WeightSeries(ctx context.Context, clientID primitive.ObjectID, from, to string) ([]WeightPoint, error) {
	records, err := s.recordRepo.GetRange(ctx, clientID, domain.KindWeights, from, to)
	if err != nil {
		return nil, err
	}

	points := make([]WeightPoint, 0, len(records))
	for i := range records {
		if w, ok := records[i].Weight(); ok {
			points = append(points, WeightPoint{Date: records[i].Date, Weight: w})
		}
	}
	return points, nil
}

func (s *clientService) MealPhotoUploadURL(ctx context.Context, clientID primitive.ObjectID, contentType string) (*PhotoUploadResponse, error) {
	if s.photos == nil {
		return nil, ErrPhotoURLGeneration
	}
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, errors.New("invalid or missing image content type")
	}

	objectKey := fmt.Sprintf("meal-photos/%s/%s", clientID.Hex(), uuid.NewString())
	url, err := s.photos.GeneratePresignedUploadURL(ctx, objectKey, contentType, 0)
	if err != nil {
		return nil, ErrPhotoURLGeneration
	}
	return &PhotoUploadResponse{UploadURL: url, ObjectKey: objectKey}, nil
}

// getOrNil reads a record, mapping ErrNotFound to nil (absent days are empty
// defaults, not errors).
func (s *clientService) getOrNil(ctx context.Context, userID primitive.ObjectID, kind domain.RecordKind, date string) (*domain.DailyRecord, error) {
	rec, err := s.recordRepo.Get(ctx, userID, kind, date)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return rec, err
}
