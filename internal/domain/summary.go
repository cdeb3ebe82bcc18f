package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChallengeGoals are the client's current three goal labels, a singleton per
// user. They are independent of the daily challenge-completion records, which
// store a ○/× status per goal slot per day.
type ChallengeGoals struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	Goal1  string             `bson:"goal1" json:"goal1"`
	Goal2  string             `bson:"goal2" json:"goal2"`
	Goal3  string             `bson:"goal3" json:"goal3"`
}

// Label returns the free-text label for a goal slot, falling back to the slot
// name when the client has not set one.
func (g *ChallengeGoals) Label(slot string) string {
	if g != nil {
		switch slot {
		case "goal1":
			if g.Goal1 != "" {
				return g.Goal1
			}
		case "goal2":
			if g.Goal2 != "" {
				return g.Goal2
			}
		case "goal3":
			if g.Goal3 != "" {
				return g.Goal3
			}
		}
	}
	return slot
}

// WeeklySummary is the trainer's free-text comment for one client and one
// rolling 7-day window, keyed by the window's start date.
type WeeklySummary struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	TrainerID primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	WeekStart string             `bson:"weekStart" json:"weekStart"`
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// GoalTally is one goal slot's completion count within a 7-day window.
type GoalTally struct {
	Label    string `json:"label"`
	Achieved int    `json:"achieved"`
}

// WeeklyReport is the derived aggregate over the rolling 7-day window ending
// "today". It is recomputed on each request and performs no writes.
type WeeklyReport struct {
	StartLabel     string    `json:"startLabel"`
	EndLabel       string    `json:"endLabel"`
	WeightDiffText string    `json:"weightDiffText"`
	WeightDays     int       `json:"weightDays"`
	Goal1          GoalTally `json:"goal1"`
	Goal2          GoalTally `json:"goal2"`
	Goal3          GoalTally `json:"goal3"`
}
