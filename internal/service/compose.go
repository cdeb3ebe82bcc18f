package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sonoda80/coachlog/internal/domain"
)

// The record composer: pure functions that turn a structured submission into
// (a) the chat message text and (b) the field patch written to the per-day
// record. Both outputs are produced together so the conversation feed and the
// aggregate store always agree.

// MealSlot is one of the four meal slots of a day.
type MealSlot string

const (
	SlotBreakfast MealSlot = "breakfast"
	SlotLunch     MealSlot = "lunch"
	SlotDinner    MealSlot = "dinner"
	SlotSnack     MealSlot = "snack"
)

// ValidMealSlot reports whether s names a known meal slot.
func ValidMealSlot(s MealSlot) bool {
	switch s {
	case SlotBreakfast, SlotLunch, SlotDinner, SlotSnack:
		return true
	}
	return false
}

// ComposeMeal builds the meal entry. The fullwidth colon is deliberate; it is
// the separator the mobile clients render.
func ComposeMeal(slot MealSlot, text string) (string, map[string]any) {
	return fmt.Sprintf("%s：%s", slot, text), map[string]any{string(slot): text}
}

// ComposeExercise builds the exercise entry keyed by exercise name.
func ComposeExercise(name, detail string) (string, map[string]any) {
	return fmt.Sprintf("exercise record\nitem: %s\ndetail: %s", name, detail), map[string]any{name: detail}
}

// ComposeWeight builds the weight entry for the given day. The weight patch
// replaces rather than merges, since weight is single-valued per day.
func ComposeWeight(date string, value float64) (string, map[string]any) {
	return fmt.Sprintf("%s weight: %skg", date, formatWeight(value)), map[string]any{"weight": value}
}

// ComposeChallenge builds the daily challenge entry: one line per goal slot
// with its ○/× status, labeled by the client's current goals.
func ComposeChallenge(statuses map[string]string, goals *domain.ChallengeGoals) (string, map[string]any) {
	slots := make([]string, 0, len(statuses))
	for slot := range statuses {
		slots = append(slots, slot)
	}
	sort.Strings(slots)

	var b strings.Builder
	b.WriteString("challenge record")
	patch := make(map[string]any, len(statuses))
	for _, slot := range slots {
		fmt.Fprintf(&b, "\n%s: %s", goals.Label(slot), statuses[slot])
		patch[slot] = statuses[slot]
	}
	return b.String(), patch
}

// ComposeWeeklyReport formats the trainer's weekly summary message from the
// derived 7-day aggregate and the trainer's comment.
func ComposeWeeklyReport(report *domain.WeeklyReport, comment string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "weekly summary (%s - %s)\n", report.StartLabel, report.EndLabel)
	fmt.Fprintf(&b, "weight: %s\n", report.WeightDiffText)
	fmt.Fprintf(&b, "weight entries: %d / 7 days\n", report.WeightDays)
	for _, g := range []domain.GoalTally{report.Goal1, report.Goal2, report.Goal3} {
		fmt.Fprintf(&b, "%s: %d / 7 days\n", g.Label, g.Achieved)
	}
	fmt.Fprintf(&b, "comment: %s", comment)
	return b.String()
}

// WeightDiffText describes the change between the earliest and latest present
// weight readings in a window, e.g. "-1.5kg (70.0kg → 68.5kg)".
func WeightDiffText(first, last float64) string {
	return fmt.Sprintf("%+.1fkg (%.1fkg → %.1fkg)", last-first, first, last)
}

// NoWeightData is the sentinel shown when a window has fewer than two
// weight readings.
const NoWeightData = "no data"

func formatWeight(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
