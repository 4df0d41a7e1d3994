package planner

import (
	"context"
	"testing"
	"time"

	"meal-planner/internal/database/dbtest"

	"github.com/google/go-cmp/cmp"
)

func TestPlanRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPlanRepository(dbtest.New(t))
	week := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	t.Run("empty week", func(t *testing.T) {
		plan, err := repo.Get(ctx, "u1", week)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if plan == nil || len(plan) != 0 {
			t.Errorf("Expected empty plan, got %#v", plan)
		}
		if exists, _ := repo.ExistsForWeek(ctx, "u1", week); exists {
			t.Error("Expected no stored plan")
		}
	})

	t.Run("assign meals", func(t *testing.T) {
		if _, err := repo.AssignMeal(ctx, "u1", week, PlannedMeal{ID: "m1", Day: Monday, Meal: MealLunch, RecipeID: "r1"}); err != nil {
			t.Fatalf("AssignMeal failed: %v", err)
		}
		// Any day of the week addresses the same plan.
		thursday := week.AddDate(0, 0, 3)
		if _, err := repo.AssignMeal(ctx, "u1", thursday, PlannedMeal{ID: "m2", Day: Thursday, Meal: MealDinner, CustomName: "Pizza"}); err != nil {
			t.Fatalf("AssignMeal failed: %v", err)
		}

		got, err := repo.Get(ctx, "u1", week)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		want := WeeklyPlan{
			Monday:   {{ID: "m1", Day: Monday, Meal: MealLunch, RecipeID: "r1"}},
			Thursday: {{ID: "m2", Day: Thursday, Meal: MealDinner, CustomName: "Pizza"}},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Get() mismatch (-want +got):\n%s", diff)
		}
		if exists, _ := repo.ExistsForWeek(ctx, "u1", week); !exists {
			t.Error("Expected stored plan")
		}
	})

	t.Run("assign validates", func(t *testing.T) {
		bad := []PlannedMeal{
			{ID: "x", Day: "someday", Meal: MealLunch},
			{ID: "x", Day: Monday, Meal: "supper"},
			{Day: Monday, Meal: MealLunch},
		}
		for _, m := range bad {
			if _, err := repo.AssignMeal(ctx, "u1", week, m); err == nil {
				t.Errorf("Expected error for %+v", m)
			}
		}
	})

	t.Run("remove meal", func(t *testing.T) {
		removed, err := repo.RemoveMeal(ctx, "u1", week, "m1")
		if err != nil || !removed {
			t.Fatalf("RemoveMeal = %v, %v", removed, err)
		}
		removed, err = repo.RemoveMeal(ctx, "u1", week, "m1")
		if err != nil || removed {
			t.Errorf("Second RemoveMeal = %v, %v", removed, err)
		}

		got, _ := repo.Get(ctx, "u1", week)
		if _, ok := got[Monday]; ok || len(got[Thursday]) != 1 {
			t.Errorf("Unexpected plan after removal: %+v", got)
		}
	})

	t.Run("save replaces", func(t *testing.T) {
		if err := repo.Save(ctx, "u1", week, nil); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		got, _ := repo.Get(ctx, "u1", week)
		if len(got) != 0 {
			t.Errorf("Expected plan to be cleared, got %+v", got)
		}
	})
}
