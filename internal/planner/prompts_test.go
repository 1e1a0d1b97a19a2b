package planner

import (
	"strings"
	"testing"
	"time"

	"grocery-planner/internal/fridge"
	"grocery-planner/internal/prefs"
	"grocery-planner/internal/recipe"
)

func TestBuildRecipesPrompt_FullPreferences(t *testing.T) {
	p := prefs.Default()
	p.DaysToPlan = 3
	p.DietaryRestrictions = []string{"Vegetarian"}
	p.CuisineTypes = []string{"Italian", "Thai"}
	p.MealTypes = []string{"dinner"}
	p.Budget = "100"
	p.SelectedDays = []string{"MON", "TUE"}
	p.SelectedMealTypes = map[string][]string{"MON": {"lunch", "dinner"}}

	prompt, err := buildRecipesPrompt(PromptInputs{Prefs: p})
	if err != nil {
		t.Fatalf("buildRecipesPrompt failed: %v", err)
	}

	expected := []string{
		"3-day",
		"Dietary Restrictions: Vegetarian",
		"Preferred Cuisines: Italian, Thai",
		"Weekly Budget: $100",
		"- MON: lunch, dinner",
		"- TUE: dinner", // no per-day entry, falls back to global meal types
		"Empty",         // no fridge items
	}
	for _, sub := range expected {
		if !strings.Contains(prompt, sub) {
			t.Errorf("Expected prompt to contain %q", sub)
		}
	}
}

func TestBuildRecipesPrompt_DaysClamped(t *testing.T) {
	cases := []struct {
		name string
		days int
		want string
	}{
		{"above range", 9, "7-day"},
		{"below range", 0, "1-day"},
		{"in range", 5, "5-day"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := prefs.Default()
			p.DaysToPlan = tc.days
			prompt, err := buildRecipesPrompt(PromptInputs{Prefs: p})
			if err != nil {
				t.Fatalf("buildRecipesPrompt failed: %v", err)
			}
			if !strings.Contains(prompt, tc.want) {
				t.Errorf("Expected prompt to contain %q", tc.want)
			}
		})
	}
}

func TestBuildRecipesPrompt_FlexibleBudget(t *testing.T) {
	p := prefs.Default()
	prompt, err := buildRecipesPrompt(PromptInputs{Prefs: p})
	if err != nil {
		t.Fatalf("buildRecipesPrompt failed: %v", err)
	}
	if !strings.Contains(prompt, "Flexible budget") {
		t.Error("Expected flexible budget line when no budget is set")
	}
	if strings.Contains(prompt, "Weekly Budget") {
		t.Error("Did not expect a budget amount when none is set")
	}
}

func TestBuildRecipesPrompt_FridgeInventory(t *testing.T) {
	p := prefs.Default()
	items := []fridge.Item{
		{
			Name:           "Eggs",
			Quantity:       12,
			Unit:           "count",
			ExpirationDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
			Category:       "Dairy & Eggs",
		},
		{Name: "Spinach", Quantity: 1, Unit: "bag"},
	}

	prompt, err := buildRecipesPrompt(PromptInputs{Prefs: p, Fridge: items})
	if err != nil {
		t.Fatalf("buildRecipesPrompt failed: %v", err)
	}

	if !strings.Contains(prompt, "- Eggs (12 count available, expires 2026-09-10) [Dairy & Eggs]") {
		t.Errorf("Fridge line not rendered as expected:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- Spinach (1 bag available)") {
		t.Error("Expected fridge item without expiration to omit the expires clause")
	}
	if strings.Contains(prompt, "Empty") {
		t.Error("Did not expect the empty-fridge marker with items present")
	}
}

func TestBuildRecipesPrompt_SavedRecipes(t *testing.T) {
	p := prefs.Default()
	saved := []recipe.UserRecipe{
		{
			Name:    "Pad Thai",
			Cuisine: "Thai",
			Ingredients: []recipe.Ingredient{
				{Item: "rice noodles", Amount: "8", Unit: "oz"},
			},
		},
	}

	prompt, err := buildRecipesPrompt(PromptInputs{Prefs: p, SavedRecipes: saved})
	if err != nil {
		t.Fatalf("buildRecipesPrompt failed: %v", err)
	}
	if !strings.Contains(prompt, "- Pad Thai (Thai): 8 oz rice noodles") {
		t.Errorf("Saved recipe line not rendered:\n%s", prompt)
	}
}

func TestBuildGroceryPrompt_EmbedsStage1Verbatim(t *testing.T) {
	stage1 := `{"recipes":[{"name":"Veggie Stir Fry","cuisine":"Thai"}]}`
	p := prefs.Default()
	p.Budget = "100"

	prompt, err := buildGroceryPrompt(PromptInputs{Prefs: p}, stage1)
	if err != nil {
		t.Fatalf("buildGroceryPrompt failed: %v", err)
	}

	if !strings.Contains(prompt, stage1) {
		t.Error("Expected the stage-1 JSON to appear verbatim in the stage-2 prompt")
	}
	if !strings.Contains(prompt, "staying within a budget of $100") {
		t.Error("Expected the budget clause")
	}
}

func TestBuildGroceryPrompt_StoreLine(t *testing.T) {
	t.Run("no store preference", func(t *testing.T) {
		prompt, err := buildGroceryPrompt(PromptInputs{Prefs: prefs.Default()}, "{}")
		if err != nil {
			t.Fatalf("buildGroceryPrompt failed: %v", err)
		}
		if !strings.Contains(prompt, "local stores") {
			t.Error("Expected generic store wording when no store is set")
		}
	})

	t.Run("with store preference", func(t *testing.T) {
		p := prefs.Default()
		p.PreferredStore = &prefs.StorePreference{Name: "Safeway", Address: "123 Main St"}
		prompt, err := buildGroceryPrompt(PromptInputs{Prefs: p}, "{}")
		if err != nil {
			t.Fatalf("buildGroceryPrompt failed: %v", err)
		}
		if !strings.Contains(prompt, "Store: Safeway, 123 Main St") {
			t.Error("Expected the preferred store on the store line")
		}
	})
}
