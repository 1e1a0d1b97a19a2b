package prefs

import (
	"fmt"
	"strconv"
)

// StorePreference is the user's preferred grocery store, set via the
// place-search flow and read by the prompt builder for pricing context.
type StorePreference struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

// UserPreferences is the durable per-user record read at workflow start.
// Budget is a decimal amount kept as entered; empty means "flexible".
type UserPreferences struct {
	DietaryRestrictions []string `json:"dietary_restrictions"`
	CuisineTypes        []string `json:"cuisine_types"`
	MealTypes           []string `json:"meal_types"`
	Budget              string   `json:"budget"`
	DaysToPlan          int      `json:"days_to_plan"`
	AllowRepetition     bool     `json:"allow_repetition"`

	// SelectedMealTypes maps a day label (e.g. "MON") to the meal types
	// requested for that day, supporting partial week plans.
	SelectedDays      []string            `json:"selected_days"`
	SelectedMealTypes map[string][]string `json:"selected_meal_types"`

	SelectedUserRecipeIDs []string `json:"selected_user_recipe_ids"`

	PreferredStore *StorePreference `json:"preferred_store,omitempty"`
}

// Default returns the preferences used when a user has never saved any.
func Default() UserPreferences {
	return UserPreferences{
		DaysToPlan:        7,
		SelectedMealTypes: map[string][]string{},
	}
}

// ClampedDays returns DaysToPlan clamped to [1,7].
func (p UserPreferences) ClampedDays() int {
	if p.DaysToPlan < 1 {
		return 1
	}
	if p.DaysToPlan > 7 {
		return 7
	}
	return p.DaysToPlan
}

// BudgetAmount parses the budget. ok is false when the budget is unset
// (flexible); a set budget must be a positive decimal.
func (p UserPreferences) BudgetAmount() (amount float64, ok bool, err error) {
	if p.Budget == "" {
		return 0, false, nil
	}
	amount, err = strconv.ParseFloat(p.Budget, 64)
	if err != nil {
		return 0, false, fmt.Errorf("budget '%s' is not a decimal amount: %w", p.Budget, err)
	}
	if amount <= 0 {
		return 0, false, fmt.Errorf("budget must be positive, got %s", p.Budget)
	}
	return amount, true, nil
}
