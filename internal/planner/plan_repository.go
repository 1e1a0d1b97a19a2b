package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// StoredPlan is a completed grocery plan as persisted.
type StoredPlan struct {
	ID        int64
	UserID    string
	Result    GroceryListResult
	CreatedAt time.Time
}

// PlanRepository is a database-backed repository for completed plans.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{db: d}
}

// Save inserts a completed plan and returns its ID.
func (r *PlanRepository) Save(ctx context.Context, userID string, result *GroceryListResult) (int64, error) {
	planJSON, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal grocery plan: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO grocery_plans (user_id, plan_data, created_at) VALUES (?, ?, ?)`,
		userID, string(planJSON), time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert grocery plan: %w", err)
	}
	return res.LastInsertId()
}

// ListRecent retrieves the N most recent plans for a user.
func (r *PlanRepository) ListRecent(ctx context.Context, userID string, limit int) ([]StoredPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, plan_data, created_at FROM grocery_plans
		 WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent plans for user %s: %w", userID, err)
	}
	defer rows.Close()

	var plans []StoredPlan
	for rows.Next() {
		var p StoredPlan
		var data string
		if err := rows.Scan(&p.ID, &p.UserID, &data, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan row: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &p.Result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal plan %d: %w", p.ID, err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}
