package prefs

import (
	"testing"
)

func TestClampedDays(t *testing.T) {
	cases := []struct {
		days int
		want int
	}{
		{0, 1},
		{-3, 1},
		{1, 1},
		{7, 7},
		{9, 7},
		{4, 4},
	}
	for _, tc := range cases {
		p := UserPreferences{DaysToPlan: tc.days}
		if got := p.ClampedDays(); got != tc.want {
			t.Errorf("ClampedDays with %d = %d, want %d", tc.days, got, tc.want)
		}
	}
}

func TestBudgetAmount(t *testing.T) {
	t.Run("unset budget is flexible", func(t *testing.T) {
		amount, ok, err := UserPreferences{}.BudgetAmount()
		if err != nil || ok || amount != 0 {
			t.Errorf("Expected (0, false, nil), got (%f, %v, %v)", amount, ok, err)
		}
	})

	t.Run("valid budget", func(t *testing.T) {
		amount, ok, err := UserPreferences{Budget: "100.50"}.BudgetAmount()
		if err != nil || !ok || amount != 100.50 {
			t.Errorf("Expected (100.50, true, nil), got (%f, %v, %v)", amount, ok, err)
		}
	})

	t.Run("non-numeric budget", func(t *testing.T) {
		if _, _, err := (UserPreferences{Budget: "lots"}).BudgetAmount(); err == nil {
			t.Error("Expected an error for a non-numeric budget")
		}
	})

	t.Run("non-positive budget", func(t *testing.T) {
		if _, _, err := (UserPreferences{Budget: "-5"}).BudgetAmount(); err == nil {
			t.Error("Expected an error for a negative budget")
		}
		if _, _, err := (UserPreferences{Budget: "0"}).BudgetAmount(); err == nil {
			t.Error("Expected an error for a zero budget")
		}
	})
}

func TestDefault(t *testing.T) {
	p := Default()
	if p.DaysToPlan != 7 {
		t.Errorf("Expected 7 days by default, got %d", p.DaysToPlan)
	}
	if p.Budget != "" {
		t.Error("Expected a flexible budget by default")
	}
	if p.SelectedMealTypes == nil {
		t.Error("Expected an initialized meal-type map")
	}
}
