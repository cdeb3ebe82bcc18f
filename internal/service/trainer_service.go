package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sonoda80/coachlog/internal/domain"
	"github.com/sonoda80/coachlog/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrClientNotManaged = errors.New("client is not managed by this trainer")
	ErrSurveyNotFound   = errors.New("survey not submitted")
	ErrEmptyComment     = errors.New("summary comment cannot be empty")
)

// ClientOverview is one roster row on the trainer dashboard, with the two
// unread indicators.
type ClientOverview struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	// SurveyUnread is true while a submitted survey has not been opened by
	// the trainer.
	SurveyUnread bool `json:"surveyUnread"`
	// SummaryDue is true while no weekly summary exists for the current
	// 7-day window. It resets every time the window key rolls over.
	SummaryDue bool `json:"summaryDue"`
}

// TrainerService covers the trainer-side review flows: roster, survey reads,
// weekly aggregation and summary composition.
type TrainerService interface {
	ManagedClients(ctx context.Context, trainerID primitive.ObjectID) ([]ClientOverview, error)
	// ClientSurvey returns the client's survey and flips its read-receipt on
	// first read.
	ClientSurvey(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.Survey, error)
	// ComputeWeekly derives the rolling 7-day aggregate ending today. Pure
	// read path; recomputed on each request and tolerant of missing days.
	ComputeWeekly(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.WeeklyReport, error)
	// SubmitWeeklySummary stores the trainer's comment under the current
	// window key and posts the composed report to the conversation.
	SubmitWeeklySummary(ctx context.Context, trainerID, clientID primitive.ObjectID, comment string) (*domain.WeeklySummary, error)
}

type trainerService struct {
	userRepo    repository.UserRepository
	recordRepo  repository.RecordRepository
	goalRepo    repository.GoalRepository
	surveyRepo  repository.SurveyRepository
	summaryRepo repository.SummaryRepository
	chat        ChatService
	now         func() time.Time
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(
	userRepo repository.UserRepository,
	recordRepo repository.RecordRepository,
	goalRepo repository.GoalRepository,
	surveyRepo repository.SurveyRepository,
	summaryRepo repository.SummaryRepository,
	chat ChatService,
) TrainerService {
	return &trainerService{
		userRepo:    userRepo,
		recordRepo:  recordRepo,
		goalRepo:    goalRepo,
		surveyRepo:  surveyRepo,
		summaryRepo: summaryRepo,
		chat:        chat,
		now:         time.Now,
	}
}

// window returns the rolling 7-day span [today-6, today]. The start date is
// also the weekly summary's storage key.
func (s *trainerService) window() (start, end string) {
	today := s.now().UTC()
	return today.AddDate(0, 0, -6).Format(domain.DateLayout), today.Format(domain.DateLayout)
}

// requireManaged checks the client belongs to this trainer.
func (s *trainerService) requireManaged(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.User, error) {
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotManaged
		}
		return nil, err
	}
	if !client.IsClient() || client.TrainerID == nil || *client.TrainerID != trainerID {
		return nil, ErrClientNotManaged
	}
	return client, nil
}

func (s *trainerService) ManagedClients(ctx context.Context, trainerID primitive.ObjectID) ([]ClientOverview, error) {
	clients, err := s.userRepo.GetClientsByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	weekStart, _ := s.window()

	overviews := make([]ClientOverview, 0, len(clients))
	for i := range clients {
		o := ClientOverview{ID: clients[i].ID.Hex(), Email: clients[i].Email}

		survey, err := s.surveyRepo.Get(ctx, clients[i].ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		o.SurveyUnread = survey != nil && !survey.TrainerViewed

		_, err = s.summaryRepo.Get(ctx, trainerID, clients[i].ID, weekStart)
		if errors.Is(err, repository.ErrNotFound) {
			o.SummaryDue = true
		} else if err != nil {
			return nil, err
		}

		overviews = append(overviews, o)
	}
	return overviews, nil
}

func (s *trainerService) ClientSurvey(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.Survey, error) {
	if _, err := s.requireManaged(ctx, trainerID, clientID); err != nil {
		return nil, err
	}

	survey, err := s.surveyRepo.Get(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSurveyNotFound
		}
		return nil, err
	}

	// First read flips the receipt; the transition is one-way.
	if !survey.TrainerViewed {
		if err := s.surveyRepo.MarkViewed(ctx, clientID); err != nil {
			return nil, err
		}
		survey.TrainerViewed = true
	}
	return survey, nil
}

func (s *trainerService) ComputeWeekly(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.WeeklyReport, error) {
	if _, err := s.requireManaged(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	return s.computeWeekly(ctx, clientID)
}

func (s *trainerService) computeWeekly(ctx context.Context, clientID primitive.ObjectID) (*domain.WeeklyReport, error) {
	start, end := s.window()

	weights, err := s.recordRepo.GetRange(ctx, clientID, domain.KindWeights, start, end)
	if err != nil {
		return nil, err
	}
	challenges, err := s.recordRepo.GetRange(ctx, clientID, domain.KindChallenges, start, end)
	if err != nil {
		return nil, err
	}

	goals, err := s.goalRepo.Get(ctx, clientID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	report := &domain.WeeklyReport{
		StartLabel: start,
		EndLabel:   end,
	}

	// Earliest and latest present readings define the delta; sparse windows
	// are expected.
	readings := make([]float64, 0, len(weights))
	for i := range weights {
		if w, ok := weights[i].Weight(); ok {
			readings = append(readings, w)
		}
	}
	report.WeightDays = len(readings)
	if len(readings) >= 2 {
		report.WeightDiffText = WeightDiffText(readings[0], readings[len(readings)-1])
	} else {
		report.WeightDiffText = NoWeightData
	}

	counts := map[string]int{}
	for i := range challenges {
		for slot, v := range challenges[i].Fields {
			if v == domain.StatusDone {
				counts[slot]++
			}
		}
	}
	report.Goal1 = domain.GoalTally{Label: goals.Label("goal1"), Achieved: counts["goal1"]}
	report.Goal2 = domain.GoalTally{Label: goals.Label("goal2"), Achieved: counts["goal2"]}
	report.Goal3 = domain.GoalTally{Label: goals.Label("goal3"), Achieved: counts["goal3"]}

	return report, nil
}

func (s *trainerService) SubmitWeeklySummary(ctx context.Context, trainerID, clientID primitive.ObjectID, comment string) (*domain.WeeklySummary, error) {
	if strings.TrimSpace(comment) == "" {
		return nil, ErrEmptyComment
	}
	if _, err := s.requireManaged(ctx, trainerID, clientID); err != nil {
		return nil, err
	}

	report, err := s.computeWeekly(ctx, clientID)
	if err != nil {
		return nil, err
	}

	summary := &domain.WeeklySummary{
		TrainerID: trainerID,
		ClientID:  clientID,
		WeekStart: report.StartLabel,
		Comment:   comment,
	}
	if err := s.summaryRepo.Upsert(ctx, summary); err != nil {
		return nil, err
	}

	if _, err := s.chat.Send(ctx, trainerID, clientID, ComposeWeeklyReport(report, comment)); err != nil {
		return nil, err
	}
	return summary, nil
}
