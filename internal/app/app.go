package app

import (
	"context"
	"fmt"
	"log"

	"grocery-planner/internal/clipper"
	"grocery-planner/internal/config"
	"grocery-planner/internal/database"
	"grocery-planner/internal/fridge"
	"grocery-planner/internal/metrics"
	"grocery-planner/internal/places"
	"grocery-planner/internal/planner"
	"grocery-planner/internal/prefs"
	"grocery-planner/internal/recipe"
)

// App holds the application's dependencies.
type App struct {
	cfg          *config.Config
	db           *database.DB
	prefsRepo    *prefs.Repository
	fridgeRepo   *fridge.Repository
	recipeRepo   *recipe.Repository
	planRepo     *planner.PlanRepository
	metricsStore *metrics.Store
	listPlanner  *planner.Planner
	clipper      *clipper.Clipper
	placesClient *places.Client
}

// NewApp creates and initializes a new App instance.
func NewApp(
	cfg *config.Config,
	db *database.DB,
	prefsRepo *prefs.Repository,
	fridgeRepo *fridge.Repository,
	recipeRepo *recipe.Repository,
	planRepo *planner.PlanRepository,
	metricsStore *metrics.Store,
	listPlanner *planner.Planner,
	recipeClipper *clipper.Clipper,
	placesClient *places.Client,
) *App {
	return &App{
		cfg:          cfg,
		db:           db,
		prefsRepo:    prefsRepo,
		fridgeRepo:   fridgeRepo,
		recipeRepo:   recipeRepo,
		planRepo:     planRepo,
		metricsStore: metricsStore,
		listPlanner:  listPlanner,
		clipper:      recipeClipper,
		placesClient: placesClient,
	}
}

// GenerateGroceryList runs the two-stage planning pipeline for a user,
// records per-stage metrics, persists the plan, and prints it.
func (a *App) GenerateGroceryList(ctx context.Context, userID string) (*planner.GroceryListResult, error) {
	fmt.Println("Generating recipes and grocery list...")

	result, metas, err := a.listPlanner.Generate(ctx, userID)

	// Record metrics for every stage that ran, even on failure.
	for _, meta := range metas {
		if recErr := a.metricsStore.RecordMeta(meta); recErr != nil {
			log.Printf("Warning: failed to record metrics for %s: %v", meta.StageName, recErr)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to generate grocery list: %w", err)
	}

	planID, err := a.planRepo.Save(ctx, userID, result)
	if err != nil {
		log.Printf("Warning: failed to save plan: %v", err)
	} else {
		log.Printf("Saved plan %d for user %s", planID, userID)
	}

	printResult(result)
	return result, nil
}

func printResult(result *planner.GroceryListResult) {
	fmt.Println("\n=== RECIPES ===")
	for _, r := range result.Recipes {
		fmt.Printf("%s / %s: %s (%s, prep %s)\n", r.Day, r.MealType, r.Name, r.Cuisine, r.PrepTime)
	}

	fmt.Println("\n=== GROCERY LIST ===")
	for _, cat := range result.Categories {
		fmt.Printf("\n%s\n", cat.Category)
		for _, item := range cat.Items {
			line := fmt.Sprintf("- %s (%s): $%.2f", item.Name, item.Quantity, item.TotalPrice)
			if item.Note != "" {
				line += " // " + item.Note
			}
			fmt.Println(line)
		}
	}

	if len(result.FridgeItemsUsed) > 0 {
		fmt.Println("\n=== FROM YOUR FRIDGE ===")
		for _, fi := range result.FridgeItemsUsed {
			fmt.Printf("- %s (%s)\n", fi.Item, fi.AmountNeeded)
		}
	}

	fmt.Printf("\nTotal: $%.2f", result.TotalCost)
	if result.RemainingBudget != nil {
		fmt.Printf(" (remaining budget: $%.2f)", *result.RemainingBudget)
	}
	fmt.Println()
	if result.OptimizationNotes != "" {
		fmt.Printf("Notes: %s\n", result.OptimizationNotes)
	}
}

// SaveGeneratedRecipe promotes a recipe from a generated plan into the user's
// saved collection so later plans can reuse it.
func (a *App) SaveGeneratedRecipe(ctx context.Context, userID string, g planner.GeneratedRecipe) (*recipe.UserRecipe, error) {
	saved := planner.ToUserRecipe(g)
	if err := a.recipeRepo.Save(ctx, userID, saved); err != nil {
		return nil, fmt.Errorf("failed to save recipe: %w", err)
	}
	return &saved, nil
}

// ClipRecipe imports a recipe from a web page into the user's collection.
func (a *App) ClipRecipe(ctx context.Context, userID string, url string) (*recipe.UserRecipe, error) {
	return a.clipper.ClipURL(ctx, userID, url)
}

// FindNearbyStores resolves a free-text location and lists grocery stores
// around it, closest first.
func (a *App) FindNearbyStores(ctx context.Context, location string) ([]places.GroceryStore, error) {
	predictions, err := a.placesClient.SearchPlaces(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to search location: %w", err)
	}
	if len(predictions) == 0 {
		return nil, fmt.Errorf("no places found for %q", location)
	}

	lat, lng, err := a.placesClient.GetPlaceDetails(ctx, predictions[0].PlaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve location: %w", err)
	}

	return a.placesClient.NearbyGroceryStores(ctx, lat, lng, 5000)
}

// SetPreferredStore saves a store choice into the user's preferences.
func (a *App) SetPreferredStore(ctx context.Context, userID string, store places.GroceryStore) error {
	pref := prefs.StorePreference{
		ID:      store.ID,
		Name:    store.Name,
		Address: store.Address,
		Lat:     &store.Lat,
		Lng:     &store.Lng,
	}
	if err := a.prefsRepo.SetStore(ctx, userID, pref); err != nil {
		return fmt.Errorf("failed to save store preference: %w", err)
	}
	return nil
}

// Close releases the application's resources.
func (a *App) Close() error {
	return a.db.Close()
}
