package fridge

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository is a database-backed repository for fridge items.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Add inserts a new fridge item for a user.
func (r *Repository) Add(ctx context.Context, userID string, item Item) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO fridge_items (id, user_id, name, quantity, unit, expiration_date, category, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, userID, item.Name, item.Quantity, item.Unit, item.ExpirationDate, item.Category, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to add fridge item '%s': %w", item.Name, err)
	}
	return nil
}

// Update overwrites the mutable fields of an existing item.
func (r *Repository) Update(ctx context.Context, userID string, item Item) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE fridge_items SET name = ?, quantity = ?, unit = ?, expiration_date = ?, category = ?
		 WHERE id = ? AND user_id = ?`,
		item.Name, item.Quantity, item.Unit, item.ExpirationDate, item.Category, item.ID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update fridge item %s: %w", item.ID, err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("fridge item %s not found", item.ID)
	}
	return nil
}

// Delete removes an item.
func (r *Repository) Delete(ctx context.Context, userID, itemID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM fridge_items WHERE id = ? AND user_id = ?`, itemID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete fridge item %s: %w", itemID, err)
	}
	return nil
}

// Snapshot returns the user's current fridge contents, newest first. The
// workflow takes this once per run; concurrent edits are invisible to a run
// already in flight.
func (r *Repository) Snapshot(ctx context.Context, userID string) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, quantity, unit, expiration_date, category
		 FROM fridge_items WHERE user_id = ? ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list fridge items for user %s: %w", userID, err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		var expiration sql.NullTime
		if err := rows.Scan(&it.ID, &it.Name, &it.Quantity, &it.Unit, &expiration, &it.Category); err != nil {
			return nil, fmt.Errorf("failed to scan fridge item: %w", err)
		}
		if expiration.Valid {
			it.ExpirationDate = expiration.Time
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
