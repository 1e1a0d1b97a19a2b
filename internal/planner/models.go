package planner

// RecipeIngredient is one ingredient of a generated recipe. Source says
// whether it comes off the shopping list or out of the fridge.
type RecipeIngredient struct {
	Item   string `json:"item"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
	Source string `json:"source"` // "grocery" | "fridge"
}

// GeneratedRecipe is one recipe produced by the generation workflow. It is
// not persisted unless the user explicitly saves it.
type GeneratedRecipe struct {
	Name         string             `json:"name"`
	Cuisine      string             `json:"cuisine"`
	Ingredients  []RecipeIngredient `json:"ingredients"`
	Instructions string             `json:"instructions"`
	PrepTime     string             `json:"prep_time"`
	CookTime     string             `json:"cook_time"`
	Servings     int                `json:"servings"`
	Difficulty   string             `json:"difficulty"`
	Day          string             `json:"day"`
	MealType     string             `json:"meal_type"`
}

// ShoppingItem is one line of the final shopping list.
type ShoppingItem struct {
	Name       string  `json:"name"`
	Quantity   string  `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
	Note       string  `json:"note,omitempty"`
}

// ShoppingCategory groups shopping items by store section.
type ShoppingCategory struct {
	Category string         `json:"category"`
	Items    []ShoppingItem `json:"items"`
}

// FridgeItemUsed records how much of a fridge item the plan consumes.
type FridgeItemUsed struct {
	Item               string   `json:"item"`
	AmountNeeded       string   `json:"amount_needed"`
	RecipesReferencing []string `json:"recipes_referencing,omitempty"`
}

// GroceryListResult is the final aggregate of the generation workflow.
type GroceryListResult struct {
	Recipes           []GeneratedRecipe  `json:"recipes"`
	Categories        []ShoppingCategory `json:"items"`
	FridgeItemsUsed   []FridgeItemUsed   `json:"fridge_items_used,omitempty"`
	TotalCost         float64            `json:"total_cost"`
	RemainingBudget   *float64           `json:"remaining_budget,omitempty"` // nil when the budget is flexible
	OptimizationNotes string             `json:"optimization_notes,omitempty"`
}
