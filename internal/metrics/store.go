package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"meal-planner/internal/database"
)

// Operation names recorded in execution_metrics.
const (
	OpRefreshShoppingList = "refresh_shopping_list"
	OpImportRecipe        = "import_recipe"
)

// ExecutionMetric records a single run of a shopping list refresh or import.
type ExecutionMetric struct {
	Operation string
	UserID    string
	Meals     int
	Recipes   int
	Items     int
	LatencyMS int64
	Timestamp time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m ExecutionMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO execution_metrics (operation, user_id, meals, recipes, items, latency_ms, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.Operation, m.UserID, m.Meals, m.Recipes, m.Items, m.LatencyMS, database.FormatTime(ts))
	if err != nil {
		return fmt.Errorf("failed to record %s metric: %w", m.Operation, err)
	}
	return nil
}

// DailyUsage represents totals for a single day.
type DailyUsage struct {
	Date           string
	Refreshes      int
	Imports        int
	TotalItems     int
	AvgLatencyMS   int64
	TotalExecution int
}

// GetDailyUsage retrieves usage for the last N days, oldest first.
func (s *Store) GetDailyUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	since := database.FormatTime(time.Now().AddDate(0, 0, -days))
	rows, err := s.db.QueryContext(ctx,
		`SELECT substr(timestamp, 1, 10) AS day,
		        SUM(CASE WHEN operation = ? THEN 1 ELSE 0 END),
		        SUM(CASE WHEN operation = ? THEN 1 ELSE 0 END),
		        COALESCE(SUM(items), 0),
		        CAST(COALESCE(AVG(latency_ms), 0) AS INTEGER),
		        COUNT(*)
		 FROM execution_metrics
		 WHERE timestamp >= ?
		 GROUP BY day
		 ORDER BY day`,
		OpRefreshShoppingList, OpImportRecipe, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var u DailyUsage
		if err := rows.Scan(&u.Date, &u.Refreshes, &u.Imports, &u.TotalItems, &u.AvgLatencyMS, &u.TotalExecution); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage: %w", err)
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days and
// returns how many were removed.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := database.FormatTime(time.Now().AddDate(0, 0, -olderThanDays))
	res, err := s.db.ExecContext(ctx, `DELETE FROM execution_metrics WHERE timestamp < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up metrics: %w", err)
	}
	return res.RowsAffected()
}
