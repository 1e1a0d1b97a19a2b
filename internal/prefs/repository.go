package prefs

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Repository is a database-backed repository for user preferences.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Get retrieves the preferences for a user. A user that never saved
// preferences gets the defaults.
func (r *Repository) Get(ctx context.Context, userID string) (UserPreferences, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM user_preferences WHERE user_id = ?`, userID,
	).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return Default(), nil
		}
		return UserPreferences{}, fmt.Errorf("failed to get preferences for user %s: %w", userID, err)
	}

	var p UserPreferences
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return UserPreferences{}, fmt.Errorf("failed to unmarshal preferences JSON: %w", err)
	}
	if p.SelectedMealTypes == nil {
		p.SelectedMealTypes = map[string][]string{}
	}
	return p, nil
}

// Save upserts the full preferences record for a user.
func (r *Repository) Save(ctx context.Context, userID string, p UserPreferences) error {
	if _, _, err := p.BudgetAmount(); err != nil {
		return err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO user_preferences (user_id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		userID, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save preferences for user %s: %w", userID, err)
	}
	return nil
}

// SetStore updates only the preferred store, merge-style, preserving the
// rest of the record.
func (r *Repository) SetStore(ctx context.Context, userID string, store StorePreference) error {
	p, err := r.Get(ctx, userID)
	if err != nil {
		return err
	}
	p.PreferredStore = &store
	return r.Save(ctx, userID, p)
}
