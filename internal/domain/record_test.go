package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPatch_MergesWithLastWriteWins(t *testing.T) {
	rec := &DailyRecord{}

	rec.ApplyPatch(map[string]any{"breakfast": "toast"})
	rec.ApplyPatch(map[string]any{"lunch": "salad"})
	rec.ApplyPatch(map[string]any{"breakfast": "pancakes"})

	assert.Equal(t, map[string]any{
		"breakfast": "pancakes",
		"lunch":     "salad",
	}, rec.Fields)
}

func TestWeight_NumericKinds(t *testing.T) {
	for _, tc := range []struct {
		name  string
		value any
		want  float64
	}{
		{"float64", 68.5, 68.5},
		{"int32", int32(70), 70},
		{"int64", int64(71), 71},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := &DailyRecord{Fields: map[string]any{"weight": tc.value}}
			w, ok := rec.Weight()
			require.True(t, ok)
			assert.Equal(t, tc.want, w)
		})
	}
}

func TestWeight_AbsentOrNonNumeric(t *testing.T) {
	var nilRec *DailyRecord
	_, ok := nilRec.Weight()
	assert.False(t, ok)

	_, ok = (&DailyRecord{}).Weight()
	assert.False(t, ok)

	_, ok = (&DailyRecord{Fields: map[string]any{"weight": "68.5"}}).Weight()
	assert.False(t, ok)
}

func TestChallengeGoals_Label(t *testing.T) {
	g := &ChallengeGoals{Goal1: "10k steps"}
	assert.Equal(t, "10k steps", g.Label("goal1"))
	assert.Equal(t, "goal2", g.Label("goal2"))

	var unset *ChallengeGoals
	assert.Equal(t, "goal1", unset.Label("goal1"))
}
