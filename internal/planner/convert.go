package planner

import (
	"fmt"
	"strings"
	"time"

	"grocery-planner/internal/recipe"
)

// ToUserRecipe converts a generated recipe into a saveable user recipe.
func ToUserRecipe(g GeneratedRecipe) recipe.UserRecipe {
	ingredients := make([]recipe.Ingredient, 0, len(g.Ingredients))
	for _, ing := range g.Ingredients {
		ingredients = append(ingredients, recipe.Ingredient{
			Item:   ing.Item,
			Amount: ing.Amount,
			Unit:   ing.Unit,
		})
	}

	var steps []string
	for _, line := range strings.Split(g.Instructions, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			steps = append(steps, line)
		}
	}

	return recipe.UserRecipe{
		ID:           fmt.Sprintf("gen-%d", time.Now().UnixNano()),
		Name:         g.Name,
		Cuisine:      g.Cuisine,
		PrepTime:     g.PrepTime,
		CookTime:     g.CookTime,
		Servings:     g.Servings,
		Difficulty:   g.Difficulty,
		Ingredients:  ingredients,
		Instructions: steps,
	}
}

