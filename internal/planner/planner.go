package planner

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"grocery-planner/internal/fridge"
	"grocery-planner/internal/llm"
	"grocery-planner/internal/prefs"
	"grocery-planner/internal/recipe"
	"grocery-planner/internal/shared"
)

const (
	stageRecipes = "recipes"
	stageGrocery = "grocery-list"

	recipesSystemInstruction = "You are a recipe generator that specializes in creating recipes using available ingredients when appropriate. You should incorporate ingredients from the user's fridge when they make sense for the recipe, but don't force their usage if they don't fit naturally. Return ONLY a valid JSON object."
	grocerySystemInstruction = "You are a grocery list generator that understands standard store packaging sizes. Convert recipe ingredient amounts to standard store packaging quantities. Return ONLY a valid JSON object. Do not include any markdown formatting, backticks, or additional text."

	stageTemperature = 0.7
	stageMaxTokens   = 4000
)

// Planner orchestrates the multi-stage grocery-plan generation workflow.
type Planner struct {
	prefsRepo  *prefs.Repository
	fridgeRepo *fridge.Repository
	recipeRepo *recipe.Repository
	textGen    llm.TextGenerator

	inFlight atomic.Bool
}

// NewPlanner creates a new Planner instance.
func NewPlanner(
	prefsRepo *prefs.Repository,
	fridgeRepo *fridge.Repository,
	recipeRepo *recipe.Repository,
	textGen llm.TextGenerator,
) *Planner {
	return &Planner{
		prefsRepo:  prefsRepo,
		fridgeRepo: fridgeRepo,
		recipeRepo: recipeRepo,
		textGen:    textGen,
	}
}

// Generate runs the full workflow for a user: read preferences and a fridge
// snapshot once, generate recipes (stage 1), then generate the grocery list
// from stage 1's validated output (stage 2). Any stage failure aborts the run
// immediately; retry is a fresh call starting again at stage 1. Concurrent
// calls are rejected with ErrPlanInFlight.
func (p *Planner) Generate(ctx context.Context, userID string) (*GroceryListResult, []shared.StageMeta, error) {
	if !p.inFlight.CompareAndSwap(false, true) {
		return nil, nil, ErrPlanInFlight
	}
	defer p.inFlight.Store(false)

	in, err := p.loadInputs(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	wf := NewWorkflow()
	var metas []shared.StageMeta

	// Stage 1: recipes
	if err := wf.StartStage(1); err != nil {
		return nil, nil, err
	}
	prompt, err := buildRecipesPrompt(in)
	if err != nil {
		wf.Fail(1, err)
		return nil, metas, err
	}
	resp, meta, err := p.runStage(ctx, stageRecipes, recipesSystemInstruction, prompt)
	metas = append(metas, meta)
	if err != nil {
		wf.Fail(1, err)
		return nil, metas, err
	}
	recipesResult, stage1JSON, err := validateRecipes(stageRecipes, resp.Content)
	if err != nil {
		wf.Fail(1, err)
		return nil, metas, err
	}
	if err := wf.CompleteStage(1); err != nil {
		return nil, metas, err
	}

	// Stage 2: grocery list, refined from stage 1's output
	if err := wf.StartStage(2); err != nil {
		return nil, metas, err
	}
	groceryPrompt, err := buildGroceryPrompt(in, string(stage1JSON))
	if err != nil {
		wf.Fail(2, err)
		return nil, metas, err
	}
	resp, meta, err = p.runStage(ctx, stageGrocery, grocerySystemInstruction, groceryPrompt)
	metas = append(metas, meta)
	if err != nil {
		wf.Fail(2, err)
		return nil, metas, err
	}
	budget := budgetPointer(in.Prefs)
	groceryResult, err := validateGrocery(stageGrocery, resp.Content, budget)
	if err != nil {
		wf.Fail(2, err)
		return nil, metas, err
	}
	if err := wf.CompleteStage(2); err != nil {
		return nil, metas, err
	}

	result := &GroceryListResult{
		Recipes:           recipesResult.Recipes,
		Categories:        groceryResult.Categories,
		FridgeItemsUsed:   groceryResult.FridgeItemsUsed,
		TotalCost:         groceryResult.TotalCost,
		OptimizationNotes: groceryResult.OptimizationNotes,
	}
	if budget != nil {
		remaining := groceryResult.RemainingBudget
		result.RemainingBudget = &remaining
	}
	if err := wf.Finish(result); err != nil {
		return nil, metas, err
	}

	return result, metas, nil
}

// loadInputs takes the read-once snapshot the whole run works from.
func (p *Planner) loadInputs(ctx context.Context, userID string) (PromptInputs, error) {
	userPrefs, err := p.prefsRepo.Get(ctx, userID)
	if err != nil {
		return PromptInputs{}, fmt.Errorf("failed to load preferences: %w", err)
	}

	snapshot, err := p.fridgeRepo.Snapshot(ctx, userID)
	if err != nil {
		return PromptInputs{}, fmt.Errorf("failed to snapshot fridge: %w", err)
	}

	var saved []recipe.UserRecipe
	if len(userPrefs.SelectedUserRecipeIDs) > 0 {
		saved, err = p.recipeRepo.GetByIDs(ctx, userID, userPrefs.SelectedUserRecipeIDs)
		if err != nil {
			return PromptInputs{}, fmt.Errorf("failed to load selected recipes: %w", err)
		}
	}

	return PromptInputs{Prefs: userPrefs, Fridge: snapshot, SavedRecipes: saved}, nil
}

func (p *Planner) runStage(ctx context.Context, stageName, system, prompt string) (llm.ContentResponse, shared.StageMeta, error) {
	start := time.Now()
	resp, err := p.textGen.GenerateContent(ctx, llm.Request{
		SystemInstruction: system,
		Prompt:            prompt,
		Temperature:       stageTemperature,
		MaxTokens:         stageMaxTokens,
	})
	meta := shared.StageMeta{
		StageName: stageName,
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}
	return resp, meta, err
}

func budgetPointer(p prefs.UserPreferences) *float64 {
	amount, ok, err := p.BudgetAmount()
	if err != nil || !ok {
		return nil
	}
	return &amount
}
