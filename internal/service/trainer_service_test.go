package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sonoda80/coachlog/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trainerFixture struct {
	users     *fakeUserRepo
	records   *fakeRecordRepo
	goals     *fakeGoalRepo
	surveys   *fakeSurveyRepo
	summaries *fakeSummaryRepo
	msgs      *fakeMessageRepo
	svc       TrainerService
	trainer   *domain.User
	client    *domain.User
	clock     *time.Time
}

// Window under the fixture clock: 2026-08-26 .. 2026-09-01.
func newTrainerFixture(t *testing.T) *trainerFixture {
	t.Helper()
	f := &trainerFixture{
		users:     newFakeUserRepo(),
		records:   newFakeRecordRepo(),
		goals:     newFakeGoalRepo(),
		surveys:   newFakeSurveyRepo(),
		summaries: newFakeSummaryRepo(),
		msgs:      newFakeMessageRepo(),
	}

	f.trainer = f.users.add(&domain.User{Email: "coach@example.com", Role: domain.RoleTrainer})
	f.client = f.users.add(&domain.User{
		Email:     "client@example.com",
		Role:      domain.RoleClient,
		TrainerID: &f.trainer.ID,
	})

	chat := NewChatService(f.users, f.msgs, nil)
	f.svc = NewTrainerService(f.users, f.records, f.goals, f.surveys, f.summaries, chat)

	fixed := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	f.clock = &fixed
	f.svc.(*trainerService).now = func() time.Time { return *f.clock }
	return f
}

func TestManagedClients_RosterWithIndicators(t *testing.T) {
	f := newTrainerFixture(t)
	ctx := context.Background()

	require.NoError(t, f.surveys.Upsert(ctx, &domain.Survey{UserID: f.client.ID, Goal: "lose 3kg"}))

	overviews, err := f.svc.ManagedClients(ctx, f.trainer.ID)
	require.NoError(t, err)

	require.Len(t, overviews, 1)
	assert.Equal(t, f.client.ID.Hex(), overviews[0].ID)
	assert.Equal(t, "client@example.com", overviews[0].Email)
	assert.True(t, overviews[0].SurveyUnread)
	assert.True(t, overviews[0].SummaryDue)
}

func TestManagedClients_ExcludesOtherTrainers(t *testing.T) {
	f := newTrainerFixture(t)
	other := f.users.add(&domain.User{Email: "rival@example.com", Role: domain.RoleTrainer})
	f.users.add(&domain.User{Email: "theirs@example.com", Role: domain.RoleClient, TrainerID: &other.ID})

	overviews, err := f.svc.ManagedClients(context.Background(), f.trainer.ID)
	require.NoError(t, err)
	require.Len(t, overviews, 1)
	assert.Equal(t, "client@example.com", overviews[0].Email)
}

func TestClientSurvey_FlipsReadReceiptOnce(t *testing.T) {
	f := newTrainerFixture(t)
	ctx := context.Background()

	require.NoError(t, f.surveys.Upsert(ctx, &domain.Survey{UserID: f.client.ID, Goal: "lose 3kg"}))

	survey, err := f.svc.ClientSurvey(ctx, f.trainer.ID, f.client.ID)
	require.NoError(t, err)
	assert.True(t, survey.TrainerViewed)
	assert.Equal(t, "lose 3kg", survey.Goal)

	// Re-reading keeps the receipt set.
	survey, err = f.svc.ClientSurvey(ctx, f.trainer.ID, f.client.ID)
	require.NoError(t, err)
	assert.True(t, survey.TrainerViewed)

	overviews, err := f.svc.ManagedClients(ctx, f.trainer.ID)
	require.NoError(t, err)
	assert.False(t, overviews[0].SurveyUnread)
}

func TestClientSurvey_ResubmissionClearsReceipt(t *testing.T) {
	f := newTrainerFixture(t)
	ctx := context.Background()

	require.NoError(t, f.surveys.Upsert(ctx, &domain.Survey{UserID: f.client.ID, Goal: "v1"}))
	_, err := f.svc.ClientSurvey(ctx, f.trainer.ID, f.client.ID)
	require.NoError(t, err)

	require.NoError(t, f.surveys.Upsert(ctx, &domain.Survey{UserID: f.client.ID, Goal: "v2"}))

	overviews, err := f.svc.ManagedClients(ctx, f.trainer.ID)
	require.NoError(t, err)
	assert.True(t, overviews[0].SurveyUnread)
}

func TestClientSurvey_NotSubmitted(t *testing.T) {
	f := newTrainerFixture(t)

	_, err := f.svc.ClientSurvey(context.Background(), f.trainer.ID, f.client.ID)
	assert.ErrorIs(t, err, ErrSurveyNotFound)
}

func TestClientSurvey_ForeignClient(t *testing.T) {
	f := newTrainerFixture(t)
	other := f.users.add(&domain.User{Email: "rival@example.com", Role: domain.RoleTrainer})
	theirs := f.users.add(&domain.User{Email: "theirs@example.com", Role: domain.RoleClient, TrainerID: &other.ID})

	_, err := f.svc.ClientSurvey(context.Background(), f.trainer.ID, theirs.ID)
	assert.ErrorIs(t, err, ErrClientNotManaged)
}

func TestComputeWeekly_WeightDeltaAndGoalCounts(t *testing.T) {
	f := newTrainerFixture(t)
	ctx := context.Background()

	require.NoError(t, f.goals.Set(ctx, &domain.ChallengeGoals{UserID: f.client.ID, Goal1: "10k steps"}))

	require.NoError(t, f.records.Replace(ctx, f.client.ID, domain.KindWeights, "2026-08-26", map[string]any{"weight": 70.0}))
	require.NoError(t, f.records.Replace(ctx, f.client.ID, domain.KindWeights, "2026-08-29", map[string]any{"weight": 69.1}))
	require.NoError(t, f.records.Replace(ctx, f.client.ID, domain.KindWeights, "2026-09-01", map[string]any{"weight": 68.5}))
	// Outside the window; must not count.
	require.NoError(t, f.records.Replace(ctx, f.client.ID, domain.KindWeights, "2026-08-20", map[string]any{"weight": 75.0}))

	for _, date := range []string{"2026-08-26", "2026-08-28", "2026-08-31"} {
		require.NoError(t, f.records.Upsert(ctx, f.client.ID, domain.KindChallenges, date, map[string]any{
			"goal1": domain.StatusDone,
			"goal2": domain.StatusMissed,
		}))
	}

	report, err := f.svc.ComputeWeekly(ctx, f.trainer.ID, f.client.ID)
	require.NoError(t, err)

	assert.Equal(t, "2026-08-26", report.StartLabel)
	assert.Equal(t, "2026-09-01", report.EndLabel)
	assert.Equal(t, 3, report.WeightDays)
	assert.Equal(t, "-1.5kg (70.0kg → 68.5kg)", report.WeightDiffText)
	assert.Equal(t, domain.GoalTally{Label: "10k steps", Achieved: 3}, report.Goal1)
	assert.Equal(t, domain.GoalTally{Label: "goal2", Achieved: 0}, report.Goal2)
	assert.Equal(t, domain.GoalTally{Label: "goal3", Achieved: 0}, report.Goal3)
}

func TestComputeWeekly_SparseWindow(t *testing.T) {
	f := newTrainerFixture(t)
	ctx := context.Background()

	require.NoError(t, f.records.Replace(ctx, f.client.ID, domain.KindWeights, "2026-08-28", map[string]any{"weight": 69.0}))

	report, err := f.svc.ComputeWeekly(ctx, f.trainer.ID, f.client.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, report.WeightDays)
	assert.Equal(t, NoWeightData, report.WeightDiffText)
}

func TestSubmitWeeklySummary_StoresAndPostsReport(t *testing.T) {
	f := newTrainerFixture(t)
	ctx := context.Background()

	summary, err := f.svc.SubmitWeeklySummary(ctx, f.trainer.ID, f.client.ID, "solid week")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-26", summary.WeekStart)

	stored, err := f.summaries.Get(ctx, f.trainer.ID, f.client.ID, "2026-08-26")
	require.NoError(t, err)
	assert.Equal(t, "solid week", stored.Comment)

	require.Len(t, f.msgs.msgs, 1)
	assert.Equal(t, f.trainer.ID, f.msgs.msgs[0].UserID)
	assert.Equal(t, f.client.ID, f.msgs.msgs[0].PeerID)
	assert.True(t, strings.HasPrefix(f.msgs.msgs[0].Text, "weekly summary (2026-08-26 - 2026-09-01)"))
	assert.True(t, strings.HasSuffix(f.msgs.msgs[0].Text, "comment: solid week"))
}

func TestSubmitWeeklySummary_RejectsBlankComment(t *testing.T) {
	f := newTrainerFixture(t)

	_, err := f.svc.SubmitWeeklySummary(context.Background(), f.trainer.ID, f.client.ID, "  ")
	assert.ErrorIs(t, err, ErrEmptyComment)
}

func TestSummaryDue_ResetsWhenWindowRolls(t *testing.T) {
	f := newTrainerFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitWeeklySummary(ctx, f.trainer.ID, f.client.ID, "week one")
	require.NoError(t, err)

	overviews, err := f.svc.ManagedClients(ctx, f.trainer.ID)
	require.NoError(t, err)
	assert.False(t, overviews[0].SummaryDue)

	// Next day the window key changes and the summary is due again.
	*f.clock = f.clock.AddDate(0, 0, 1)
	overviews, err = f.svc.ManagedClients(ctx, f.trainer.ID)
	require.NoError(t, err)
	assert.True(t, overviews[0].SummaryDue)
}
