package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecordKind is a record category with its own per-day document.
type RecordKind string

const (
	KindMeals      RecordKind = "meals"
	KindExercises  RecordKind = "exercises"
	KindWeights    RecordKind = "weights"
	KindChallenges RecordKind = "challenges"
)

// Date layout used for record keys ("YYYY-MM-DD").
const DateLayout = "2006-01-02"

// Challenge status marks.
const (
	StatusDone   = "○"
	StatusMissed = "×"
)

// Challenge goal slots within a daily challenge record.
var GoalSlots = []string{"goal1", "goal2", "goal3"}

// DailyRecord is one per-day document keyed by (user, kind, date). Fields maps
// a record-specific key (meal slot, exercise name, goal slot) to its value.
// The record is the union of all patches applied to it: later patches
// overwrite only the keys they mention.
type DailyRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Kind      RecordKind         `bson:"kind" json:"kind"`
	Date      string             `bson:"date" json:"date"`
	Fields    map[string]any     `bson:"fields" json:"fields"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ApplyPatch overlays patch onto the record's fields: patch keys win, existing
// keys the patch does not mention survive. This mirrors the merge-upsert the
// store performs on write.
func (r *DailyRecord) ApplyPatch(patch map[string]any) {
	if r.Fields == nil {
		r.Fields = make(map[string]any, len(patch))
	}
	for k, v := range patch {
		r.Fields[k] = v
	}
}

// Weight returns the numeric weight reading from a weights record, if present.
func (r *DailyRecord) Weight() (float64, bool) {
	if r == nil || r.Fields == nil {
		return 0, false
	}
	switch v := r.Fields["weight"].(type) {
	case float64:
		return v, true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
