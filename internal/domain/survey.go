package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Survey is the client's initial intake questionnaire: a singleton per user
// with a fixed set of categorical answers. TrainerViewed is a simple
// read-receipt the trainer's first read flips to true; it never reverts.
type Survey struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"`

	// Eating habits
	Breakfast     string   `bson:"breakfast" json:"breakfast"`
	MealsPerDay   string   `bson:"mealsPerDay" json:"mealsPerDay"`
	Snacks        string   `bson:"snacks" json:"snacks"`
	SweetDrink    string   `bson:"sweetDrink" json:"sweetDrink"`
	EatingOut     string   `bson:"eatingOut" json:"eatingOut"`
	Overeating    string   `bson:"overeating" json:"overeating"`
	MealTimeFixed string   `bson:"mealTimeFixed" json:"mealTimeFixed"`
	MealAwareness []string `bson:"mealAwareness" json:"mealAwareness"`

	// Exercise habits
	ExerciseDays string `bson:"exerciseDays" json:"exerciseDays"`
	MainActivity string `bson:"mainActivity" json:"mainActivity"`
	ExerciseTime string `bson:"exerciseTime" json:"exerciseTime"`
	PostWorkout  string `bson:"postWorkout" json:"postWorkout"`
	Tired        string `bson:"tired" json:"tired"`
	Sleep        string `bson:"sleep" json:"sleep"`

	// Free text
	Concerns string `bson:"concerns" json:"concerns"`
	Goal     string `bson:"goal" json:"goal"`

	TrainerViewed bool      `bson:"trainerViewed" json:"trainerViewed"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}
