package planner

import (
	"encoding/json"
	"math"
	"strings"
)

// normalizeJSON converts raw provider text into a parseable JSON document.
// Providers are asked for JSON-only output but are not guaranteed to honor
// it, so the text is trimmed, any wrapping code fences are stripped, and the
// document is sliced from the first '{' to the last '}'.
func normalizeJSON(stage, raw string) ([]byte, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}

	var probe json.RawMessage
	if err := json.Unmarshal([]byte(s), &probe); err != nil {
		return nil, &MalformedResponseError{Stage: stage, Raw: raw, Err: err}
	}
	return []byte(s), nil
}

type recipesPayload struct {
	Recipes []GeneratedRecipe `json:"recipes"`
}

// validateRecipes parses and checks the stage-1 payload. A successful return
// guarantees every recipe has a name, cuisine, a non-empty ingredient list,
// and instructions, and every ingredient names its item.
func validateRecipes(stage, raw string) (*recipesPayload, []byte, error) {
	doc, err := normalizeJSON(stage, raw)
	if err != nil {
		return nil, nil, err
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(doc, &top); err != nil {
		return nil, nil, &MalformedResponseError{Stage: stage, Raw: raw, Err: err}
	}

	rawRecipes, ok := top["recipes"]
	if !ok {
		return nil, nil, &SchemaMismatchError{Stage: stage, Field: "recipes", Index: -1}
	}

	var recipes []GeneratedRecipe
	if err := json.Unmarshal(rawRecipes, &recipes); err != nil {
		return nil, nil, &SchemaMismatchError{Stage: stage, Field: "recipes", Index: -1}
	}

	for i, r := range recipes {
		switch {
		case r.Name == "":
			return nil, nil, &SchemaMismatchError{Stage: stage, Field: "name", Index: i}
		case r.Cuisine == "":
			return nil, nil, &SchemaMismatchError{Stage: stage, Field: "cuisine", Index: i}
		case len(r.Ingredients) == 0:
			return nil, nil, &SchemaMismatchError{Stage: stage, Field: "ingredients", Index: i}
		case r.Instructions == "":
			return nil, nil, &SchemaMismatchError{Stage: stage, Field: "instructions", Index: i}
		}
		for _, ing := range r.Ingredients {
			if ing.Item == "" {
				return nil, nil, &SchemaMismatchError{Stage: stage, Field: "ingredients.item", Index: i}
			}
		}
	}

	return &recipesPayload{Recipes: recipes}, doc, nil
}

type groceryPayload struct {
	Categories        []ShoppingCategory `json:"items"`
	FridgeItemsUsed   []FridgeItemUsed   `json:"fridge_items_used"`
	TotalCost         float64            `json:"total_cost"`
	RemainingBudget   float64            `json:"remaining_budget"`
	OptimizationNotes string             `json:"optimization_notes"`
}

// validateGrocery parses and checks the stage-2 payload. budget is nil when
// the user's budget is flexible. Provider-supplied totals are recomputed
// client-side; a sum that drifts more than one cent per item from total_cost
// is treated as a schema mismatch rather than passed downstream.
func validateGrocery(stage, raw string, budget *float64) (*groceryPayload, error) {
	doc, err := normalizeJSON(stage, raw)
	if err != nil {
		return nil, err
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(doc, &top); err != nil {
		return nil, &MalformedResponseError{Stage: stage, Raw: raw, Err: err}
	}

	for _, key := range []string{"items", "total_cost", "remaining_budget"} {
		if _, ok := top[key]; !ok {
			return nil, &SchemaMismatchError{Stage: stage, Field: key, Index: -1}
		}
	}

	var payload groceryPayload
	var categories []ShoppingCategory
	if err := json.Unmarshal(top["items"], &categories); err != nil {
		return nil, &SchemaMismatchError{Stage: stage, Field: "items", Index: -1}
	}
	payload.Categories = categories

	if err := json.Unmarshal(top["total_cost"], &payload.TotalCost); err != nil {
		return nil, &SchemaMismatchError{Stage: stage, Field: "total_cost", Index: -1}
	}
	if err := json.Unmarshal(top["remaining_budget"], &payload.RemainingBudget); err != nil {
		return nil, &SchemaMismatchError{Stage: stage, Field: "remaining_budget", Index: -1}
	}
	if rawUsed, ok := top["fridge_items_used"]; ok {
		if err := json.Unmarshal(rawUsed, &payload.FridgeItemsUsed); err != nil {
			return nil, &SchemaMismatchError{Stage: stage, Field: "fridge_items_used", Index: -1}
		}
	}
	if rawNotes, ok := top["optimization_notes"]; ok {
		_ = json.Unmarshal(rawNotes, &payload.OptimizationNotes)
	}

	itemCount := 0
	sum := 0.0
	for ci, cat := range payload.Categories {
		if cat.Category == "" {
			return nil, &SchemaMismatchError{Stage: stage, Field: "category", Index: ci}
		}
		for _, item := range cat.Items {
			if item.Name == "" {
				return nil, &SchemaMismatchError{Stage: stage, Field: "items.name", Index: ci}
			}
			if item.Quantity == "" {
				return nil, &SchemaMismatchError{Stage: stage, Field: "items.quantity", Index: ci}
			}
			sum += item.TotalPrice
			itemCount++
		}
	}

	// Arithmetic verification of provider-supplied totals, tolerant of
	// per-item cent rounding.
	tolerance := 0.01 * float64(itemCount)
	if tolerance < 0.01 {
		tolerance = 0.01
	}
	if math.Abs(sum-payload.TotalCost) > tolerance {
		return nil, &SchemaMismatchError{Stage: stage, Field: "total_cost", Index: -1}
	}
	if budget != nil && math.Abs((*budget-payload.TotalCost)-payload.RemainingBudget) > tolerance {
		return nil, &SchemaMismatchError{Stage: stage, Field: "remaining_budget", Index: -1}
	}

	return &payload, nil
}
