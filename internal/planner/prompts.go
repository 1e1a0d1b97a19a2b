package planner

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"grocery-planner/internal/fridge"
	"grocery-planner/internal/prefs"
	"grocery-planner/internal/recipe"
)

//go:embed recipes_prompt.md
var recipesPrompt string

//go:embed grocery_prompt.md
var groceryPrompt string

// PromptInputs bundles the read-once workflow inputs: preferences, the
// fridge snapshot, and any saved recipes the user selected.
type PromptInputs struct {
	Prefs        prefs.UserPreferences
	Fridge       []fridge.Item
	SavedRecipes []recipe.UserRecipe
}

type dayPlanData struct {
	Day   string
	Meals string
}

type recipesPromptData struct {
	Days                int
	DietaryRestrictions string
	Cuisines            string
	MealTypes           string
	BudgetLine          string
	AllowRepetition     bool
	DayPlans            []dayPlanData
	FridgeInventory     string
	SavedRecipes        string
}

type groceryPromptData struct {
	Budget      string
	StoreLine   string
	RecipesJSON string
}

// buildRecipesPrompt renders the stage-1 instruction block. Pure data->text;
// the full selected sets are enumerated, never sampled.
func buildRecipesPrompt(in PromptInputs) (string, error) {
	p := in.Prefs

	data := recipesPromptData{
		Days:                p.ClampedDays(),
		DietaryRestrictions: joinOrNone(p.DietaryRestrictions),
		Cuisines:            joinOrNone(p.CuisineTypes),
		MealTypes:           joinOrNone(p.MealTypes),
		BudgetLine:          budgetLine(p.Budget),
		AllowRepetition:     p.AllowRepetition,
		DayPlans:            dayPlans(p),
		FridgeInventory:     fridgeInventory(in.Fridge),
		SavedRecipes:        savedRecipeLines(in.SavedRecipes),
	}

	return render("recipes", recipesPrompt, data)
}

// buildGroceryPrompt renders the stage-2 instruction block. stage1JSON is
// embedded verbatim so the refinement stage sees exactly what stage 1
// produced.
func buildGroceryPrompt(in PromptInputs, stage1JSON string) (string, error) {
	data := groceryPromptData{
		Budget:      in.Prefs.Budget,
		StoreLine:   storeLine(in.Prefs.PreferredStore),
		RecipesJSON: stage1JSON,
	}
	return render("grocery", groceryPrompt, data)
}

func render(name, tmplText string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(tmplText)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "None"
	}
	return strings.Join(values, ", ")
}

func budgetLine(budget string) string {
	if budget == "" {
		return "Flexible budget"
	}
	return fmt.Sprintf("Weekly Budget: $%s", budget)
}

// dayPlans expands the selected-days-by-meal-type mapping. Days without an
// entry fall back to the globally selected meal types.
func dayPlans(p prefs.UserPreferences) []dayPlanData {
	var plans []dayPlanData
	for _, day := range p.SelectedDays {
		meals := p.SelectedMealTypes[day]
		if len(meals) == 0 {
			meals = p.MealTypes
		}
		plans = append(plans, dayPlanData{Day: day, Meals: joinOrNone(meals)})
	}
	if len(plans) == 0 {
		plans = append(plans, dayPlanData{Day: "each day", Meals: joinOrNone(p.MealTypes)})
	}
	return plans
}

func fridgeInventory(items []fridge.Item) string {
	if len(items) == 0 {
		return "Empty"
	}
	var sb strings.Builder
	for _, it := range items {
		fmt.Fprintf(&sb, "- %s (%g %s available", it.Name, it.Quantity, it.Unit)
		if !it.ExpirationDate.IsZero() {
			fmt.Fprintf(&sb, ", expires %s", it.ExpirationDate.Format("2006-01-02"))
		}
		sb.WriteString(")")
		if it.Category != "" {
			fmt.Fprintf(&sb, " [%s]", it.Category)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func savedRecipeLines(recipes []recipe.UserRecipe) string {
	if len(recipes) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, r := range recipes {
		ingredients := make([]string, 0, len(r.Ingredients))
		for _, ing := range r.Ingredients {
			ingredients = append(ingredients, fmt.Sprintf("%s %s %s", ing.Amount, ing.Unit, ing.Item))
		}
		fmt.Fprintf(&sb, "- %s (%s): %s\n", r.Name, r.Cuisine, strings.Join(ingredients, ", "))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func storeLine(store *prefs.StorePreference) string {
	if store == nil {
		return "local stores"
	}
	return fmt.Sprintf("Store: %s, %s", store.Name, store.Address)
}
