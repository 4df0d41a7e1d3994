package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"meal-planner/internal/database"
)

// PlanRepository is a database-backed repository for weekly meal plans.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{db: d}
}

// Save stores the plan of a user for the week containing weekStart,
// replacing any previous version.
func (r *PlanRepository) Save(ctx context.Context, userID string, weekStart time.Time, plan WeeklyPlan) error {
	if plan == nil {
		plan = WeeklyPlan{}
	}
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal meal plan: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO meal_plans (user_id, week_start, data, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, week_start) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		userID, FormatWeek(weekStart), string(data), database.FormatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to save meal plan for user %s: %w", userID, err)
	}
	return nil
}

// Get returns the plan of a user for the week containing weekStart. A week
// with nothing planned yields an empty plan.
func (r *PlanRepository) Get(ctx context.Context, userID string, weekStart time.Time) (WeeklyPlan, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM meal_plans WHERE user_id = ? AND week_start = ?`,
		userID, FormatWeek(weekStart)).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return WeeklyPlan{}, nil
		}
		return nil, fmt.Errorf("failed to get meal plan for user %s: %w", userID, err)
	}

	plan := WeeklyPlan{}
	if err := json.Unmarshal([]byte(data), &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meal plan: %w", err)
	}
	return plan, nil
}

// ExistsForWeek reports whether the user has a stored plan for the week.
func (r *PlanRepository) ExistsForWeek(ctx context.Context, userID string, weekStart time.Time) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM meal_plans WHERE user_id = ? AND week_start = ?`,
		userID, FormatWeek(weekStart)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check meal plan for user %s: %w", userID, err)
	}
	return n > 0, nil
}

// AssignMeal adds or replaces a single meal in the user's weekly plan.
func (r *PlanRepository) AssignMeal(ctx context.Context, userID string, weekStart time.Time, meal PlannedMeal) (WeeklyPlan, error) {
	if !IsValidDay(meal.Day) {
		return nil, fmt.Errorf("unknown day %q", meal.Day)
	}
	if !IsValidMealType(meal.Meal) {
		return nil, fmt.Errorf("unknown meal type %q", meal.Meal)
	}
	if meal.ID == "" {
		return nil, fmt.Errorf("meal id is required")
	}

	plan, err := r.Get(ctx, userID, weekStart)
	if err != nil {
		return nil, err
	}
	plan.Assign(meal)
	if err := r.Save(ctx, userID, weekStart, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// RemoveMeal deletes a meal from the user's weekly plan. It reports whether
// the meal existed.
func (r *PlanRepository) RemoveMeal(ctx context.Context, userID string, weekStart time.Time, mealID string) (bool, error) {
	plan, err := r.Get(ctx, userID, weekStart)
	if err != nil {
		return false, err
	}
	if !plan.Remove(mealID) {
		return false, nil
	}
	if err := r.Save(ctx, userID, weekStart, plan); err != nil {
		return false, err
	}
	return true, nil
}
