package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
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
	"grocery-planner/internal/telegram"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. Initialize Infrastructure
	var textGen llm.TextGenerator
	if cfg.LLMProvider == "gemini" {
		gen, closer, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		defer closer.Close()
		textGen = gen
	} else {
		textGen = llm.NewOpenAIClient(cfg)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// 3. Initialize Repositories
	prefsRepo := prefs.NewRepository(db.SQL)
	fridgeRepo := fridge.NewRepository(db.SQL)
	recipeRepo := recipe.NewRepository(db.SQL)
	planRepo := planner.NewPlanRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	// 4. Initialize Services
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

	// 5. Initialize Telegram Bot
	bot, err := telegram.NewBot(cfg, application, metricsStore)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	// 6. Start Server with Graceful Shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: nil,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
