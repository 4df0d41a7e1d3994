package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"meal-planner/internal/database"
	"meal-planner/internal/planner"
)

// Repository handles persistence of the user's working copy of a shopping
// list. The engine itself never reads from it.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new shopping list repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save stores the list, replacing the previous copy for the same user and week.
func (r *Repository) Save(ctx context.Context, list *List) error {
	itemsJSON, err := json.Marshal(list.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal shopping list items: %w", err)
	}

	updatedAt := list.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO shopping_lists (user_id, week_start, items, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, week_start) DO UPDATE SET items = excluded.items, updated_at = excluded.updated_at`,
		list.UserID, planner.FormatWeek(list.WeekStart), string(itemsJSON), database.FormatTime(updatedAt))
	if err != nil {
		return fmt.Errorf("failed to save shopping list: %w", err)
	}
	return nil
}

// Get retrieves the list of a user for a week. It returns nil without an
// error when no list has been generated yet.
func (r *Repository) Get(ctx context.Context, userID string, weekStart time.Time) (*List, error) {
	var items, updatedAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT items, updated_at FROM shopping_lists WHERE user_id = ? AND week_start = ?`,
		userID, planner.FormatWeek(weekStart)).Scan(&items, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shopping list by user and week: %w", err)
	}

	list := &List{UserID: userID, WeekStart: planner.WeekStart(weekStart), Items: []Item{}}
	if err := json.Unmarshal([]byte(items), &list.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list items: %w", err)
	}
	if list.UpdatedAt, err = database.ParseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse shopping list timestamp: %w", err)
	}
	return list, nil
}

// Delete removes the list of a user for a week.
func (r *Repository) Delete(ctx context.Context, userID string, weekStart time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM shopping_lists WHERE user_id = ? AND week_start = ?`,
		userID, planner.FormatWeek(weekStart))
	if err != nil {
		return fmt.Errorf("failed to delete shopping list: %w", err)
	}
	return nil
}
