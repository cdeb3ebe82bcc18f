// Package nutrition holds the static food reference table shown to clients
// when they log meals. Pure data, no behavior beyond lookup.
package nutrition

// FoodItem is a single reference entry: calories, macro grams and vegetable
// grams per standard serving.
type FoodItem struct {
	Name       string  `json:"name"`
	Calories   int     `json:"cal"`
	ProteinG   float64 `json:"p"`
	FatG       float64 `json:"f"`
	CarbsG     float64 `json:"c"`
	VegetableG float64 `json:"veg"`
}

// CategoryOrder fixes the display order of categories.
var CategoryOrder = []string{
	"staples", "mains", "sides", "fruits", "drinks", "dairy", "sweets",
}

// Categories groups reference foods by category.
var Categories = map[string][]FoodItem{
	"staples": {
		{Name: "rice", Calories: 168, ProteinG: 3, FatG: 0.3, CarbsG: 37},
		{Name: "bread", Calories: 150, ProteinG: 5, FatG: 2, CarbsG: 28},
		{Name: "udon", Calories: 105, ProteinG: 3, FatG: 0.4, CarbsG: 21},
		{Name: "soba", Calories: 132, ProteinG: 5, FatG: 1, CarbsG: 24},
		{Name: "pasta", Calories: 165, ProteinG: 6, FatG: 1, CarbsG: 30},
	},
	"mains": {
		{Name: "grilled fish", Calories: 250, ProteinG: 20, FatG: 15},
		{Name: "fried chicken", Calories: 300, ProteinG: 20, FatG: 20, CarbsG: 10},
		{Name: "hamburger steak", Calories: 280, ProteinG: 15, FatG: 18, CarbsG: 14},
		{Name: "tofu steak", Calories: 200, ProteinG: 14, FatG: 10, CarbsG: 6},
		{Name: "rolled omelet", Calories: 180, ProteinG: 12, FatG: 12, CarbsG: 6},
	},
	"sides": {
		{Name: "salad", Calories: 50, ProteinG: 1, FatG: 2, CarbsG: 8, VegetableG: 80},
		{Name: "boiled spinach", Calories: 30, ProteinG: 3, CarbsG: 4, VegetableG: 60},
		{Name: "kinpira burdock", Calories: 120, ProteinG: 2, FatG: 6, CarbsG: 15, VegetableG: 50},
		{Name: "miso soup", Calories: 40, ProteinG: 2, FatG: 1, CarbsG: 6, VegetableG: 40},
		{Name: "stir-fried vegetables", Calories: 150, ProteinG: 4, FatG: 8, CarbsG: 12, VegetableG: 90},
	},
	"fruits": {
		{Name: "apple", Calories: 80, CarbsG: 21},
		{Name: "banana", Calories: 90, ProteinG: 1, CarbsG: 23},
		{Name: "mandarin", Calories: 40, CarbsG: 10},
		{Name: "grapes", Calories: 60, CarbsG: 15},
		{Name: "kiwi", Calories: 50, ProteinG: 1, CarbsG: 13},
	},
	"drinks": {
		{Name: "water"},
		{Name: "coffee", Calories: 5, CarbsG: 1},
		{Name: "milk", Calories: 130, ProteinG: 7, FatG: 7, CarbsG: 10},
		{Name: "juice", Calories: 110, CarbsG: 27},
		{Name: "green tea"},
	},
	"dairy": {
		{Name: "yogurt", Calories: 100, ProteinG: 4, FatG: 4, CarbsG: 12},
		{Name: "cheese", Calories: 120, ProteinG: 7, FatG: 10, CarbsG: 1},
		{Name: "butter", Calories: 150, FatG: 17},
		{Name: "milk", Calories: 130, ProteinG: 7, FatG: 7, CarbsG: 10},
		{Name: "ice cream", Calories: 200, ProteinG: 3, FatG: 12, CarbsG: 20},
	},
	"sweets": {
		{Name: "chocolate", Calories: 250, ProteinG: 3, FatG: 15, CarbsG: 30},
		{Name: "cookie", Calories: 180, ProteinG: 2, FatG: 10, CarbsG: 22},
		{Name: "cake", Calories: 300, ProteinG: 5, FatG: 18, CarbsG: 35},
		{Name: "potato chips", Calories: 290, ProteinG: 3, FatG: 17, CarbsG: 30},
		{Name: "candy", Calories: 150, CarbsG: 37},
	},
}

// Frequent is the shortlist of common picks shown before the full table.
var Frequent = []FoodItem{
	Categories["staples"][0],
	Categories["mains"][0],
	Categories["sides"][0],
	Categories["fruits"][0],
}
