package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// Repository is a database-backed repository for saved recipes.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save inserts or updates a recipe.
func (r *Repository) Save(ctx context.Context, userID string, rec UserRecipe) error {
	recipeJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe to JSON: %w", err)
	}

	favorite := 0
	if rec.IsFavorite {
		favorite = 1
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO user_recipes (id, user_id, data, is_favorite, created_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, is_favorite = excluded.is_favorite`,
		rec.ID, userID, string(recipeJSON), favorite, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save recipe '%s': %w", rec.Name, err)
	}
	return nil
}

// Get retrieves a recipe by its ID, or nil when not found.
func (r *Repository) Get(ctx context.Context, userID, id string) (*UserRecipe, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM user_recipes WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}

	var rec UserRecipe
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe JSON: %w", err)
	}
	return &rec, nil
}

// GetByIDs retrieves multiple recipes. Missing or corrupt rows are skipped.
func (r *Repository) GetByIDs(ctx context.Context, userID string, ids []string) ([]UserRecipe, error) {
	var recipes []UserRecipe
	for _, id := range ids {
		rec, err := r.Get(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			log.Printf("Warning: selected recipe %s not found, skipping", id)
			continue
		}
		recipes = append(recipes, *rec)
	}
	return recipes, nil
}

// List retrieves all of a user's saved recipes, newest first.
func (r *Repository) List(ctx context.Context, userID string) ([]UserRecipe, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT data FROM user_recipes WHERE user_id = ? ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []UserRecipe
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan recipe row: %w", err)
		}
		var rec UserRecipe
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			log.Printf("Warning: failed to unmarshal recipe JSON: %v", err)
			continue
		}
		recipes = append(recipes, rec)
	}
	return recipes, rows.Err()
}

// Delete removes a saved recipe.
func (r *Repository) Delete(ctx context.Context, userID, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_recipes WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete recipe %s: %w", id, err)
	}
	return nil
}
