package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"grocery-planner/internal/app"
	"grocery-planner/internal/clipper"
	"grocery-planner/internal/config"
	"grocery-planner/internal/database"
	"grocery-planner/internal/fridge"
	"grocery-planner/internal/llm"
	"grocery-planner/internal/metrics"
	"grocery-planner/internal/places"
	"grocery-planner/internal/planner"
	"grocery-planner/internal/prefs"
	"grocery-planner/internal/recipe"
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	textGen, closer, err := newTextGenerator(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	prefsRepo := prefs.NewRepository(db.SQL)
	fridgeRepo := fridge.NewRepository(db.SQL)
	recipeRepo := recipe.NewRepository(db.SQL)
	planRepo := planner.NewPlanRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	listPlanner := planner.NewPlanner(prefsRepo, fridgeRepo, recipeRepo, textGen)
	recipeClipper := clipper.NewClipper(recipeRepo, textGen)
	placesClient := places.NewClient(cfg)

	application := app.NewApp(
		cfg,
		db,
		prefsRepo,
		fridgeRepo,
		recipeRepo,
		planRepo,
		metricsStore,
		listPlanner,
		recipeClipper,
		placesClient,
	)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "generate":
		genCmd := flag.NewFlagSet("generate", flag.ExitOnError)
		user := genCmd.String("user", "default", "User ID to plan for")
		genCmd.Parse(os.Args[2:])

		if _, err := application.GenerateGroceryList(ctx, *user); err != nil {
			log.Fatalf("Generation failed: %v", err)
		}
	case "clip":
		clipCmd := flag.NewFlagSet("clip", flag.ExitOnError)
		user := clipCmd.String("user", "default", "User ID to save the recipe for")
		clipCmd.Parse(os.Args[2:])
		if clipCmd.NArg() < 1 {
			log.Fatal("Usage: grocery-planner clip [-user id] <url>")
		}

		saved, err := application.ClipRecipe(ctx, *user, clipCmd.Arg(0))
		if err != nil {
			log.Fatalf("Clipping failed: %v", err)
		}
		fmt.Printf("Saved recipe %q (%d ingredients).\n", saved.Name, len(saved.Ingredients))
	case "stores":
		if len(os.Args) < 3 {
			log.Fatal("Usage: grocery-planner stores <location>")
		}
		stores, err := application.FindNearbyStores(ctx, os.Args[2])
		if err != nil {
			log.Fatalf("Store search failed: %v", err)
		}
		for _, s := range stores {
			fmt.Printf("%-30s %8s  %s\n", s.Name, s.Distance, s.Address)
		}
	case "fridge":
		if err := runFridgeCommand(ctx, fridgeRepo, os.Args[2:]); err != nil {
			log.Fatalf("Fridge command failed: %v", err)
		}
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		affected, err := metricsStore.Cleanup(*days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func newTextGenerator(ctx context.Context, cfg *config.Config) (llm.TextGenerator, llm.Closer, error) {
	if cfg.LLMProvider == "gemini" {
		return llm.NewGeminiClient(ctx, cfg)
	}
	return llm.NewOpenAIClient(cfg), nil, nil
}

func runFridgeCommand(ctx context.Context, repo *fridge.Repository, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: grocery-planner fridge <add|list|remove> [arguments]")
	}

	switch args[0] {
	case "add":
		addCmd := flag.NewFlagSet("fridge add", flag.ExitOnError)
		user := addCmd.String("user", "default", "User ID")
		qty := addCmd.Float64("qty", 1, "Quantity available")
		unit := addCmd.String("unit", "unit", "Quantity unit")
		category := addCmd.String("category", "", "Item category")
		expires := addCmd.String("expires", "", "Expiration date (YYYY-MM-DD)")
		addCmd.Parse(args[1:])
		if addCmd.NArg() < 1 {
			return fmt.Errorf("usage: grocery-planner fridge add [flags] <name>")
		}

		item := fridge.Item{
			ID:       fmt.Sprintf("fr-%d", time.Now().UnixNano()),
			Name:     addCmd.Arg(0),
			Quantity: *qty,
			Unit:     *unit,
			Category: *category,
		}
		if *expires != "" {
			t, err := time.Parse("2006-01-02", *expires)
			if err != nil {
				return fmt.Errorf("invalid expiration date: %w", err)
			}
			item.ExpirationDate = t
		}
		if err := repo.Add(ctx, *user, item); err != nil {
			return err
		}
		fmt.Printf("Added %s to the fridge.\n", item.Name)
		return nil
	case "list":
		listCmd := flag.NewFlagSet("fridge list", flag.ExitOnError)
		user := listCmd.String("user", "default", "User ID")
		listCmd.Parse(args[1:])

		items, err := repo.Snapshot(ctx, *user)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("The fridge is empty.")
			return nil
		}
		for _, it := range items {
			line := fmt.Sprintf("%-12s %-25s %g %s", it.ID, it.Name, it.Quantity, it.Unit)
			if !it.ExpirationDate.IsZero() {
				line += " (expires " + it.ExpirationDate.Format("2006-01-02") + ")"
			}
			fmt.Println(line)
		}
		return nil
	case "remove":
		removeCmd := flag.NewFlagSet("fridge remove", flag.ExitOnError)
		user := removeCmd.String("user", "default", "User ID")
		removeCmd.Parse(args[1:])
		if removeCmd.NArg() < 1 {
			return fmt.Errorf("usage: grocery-planner fridge remove [-user id] <item-id>")
		}
		return repo.Delete(ctx, *user, removeCmd.Arg(0))
	default:
		return fmt.Errorf("unknown fridge command: %s", args[0])
	}
}

func printUsage() {
	fmt.Println("Usage: grocery-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  generate           Generate recipes and a grocery list for a user")
	fmt.Println("  clip               Import a recipe from a URL")
	fmt.Println("  stores             Find grocery stores near a location")
	fmt.Println("  fridge             Manage fridge inventory (add, list, remove)")
	fmt.Println("  metrics-cleanup    Remove old metric records")
}
