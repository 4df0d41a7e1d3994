package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"meal-planner/internal/database/dbtest"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	store := NewStore(dbtest.New(t))

	now := time.Now().UTC()
	yesterday := now.AddDate(0, 0, -1)
	records := []ExecutionMetric{
		{Operation: OpRefreshShoppingList, UserID: "u1", Meals: 5, Recipes: 3, Items: 12, LatencyMS: 10, Timestamp: yesterday},
		{Operation: OpRefreshShoppingList, UserID: "u1", Meals: 5, Recipes: 3, Items: 8, LatencyMS: 30, Timestamp: yesterday},
		{Operation: OpImportRecipe, Recipes: 1, Items: 7, LatencyMS: 200, Timestamp: now},
		{Operation: OpRefreshShoppingList, UserID: "u1", Items: 1, LatencyMS: 5, Timestamp: now.AddDate(0, 0, -40)},
	}
	for _, m := range records {
		if err := store.Record(ctx, m); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	t.Run("daily usage", func(t *testing.T) {
		usage, err := store.GetDailyUsage(ctx, 7)
		if err != nil {
			t.Fatalf("GetDailyUsage failed: %v", err)
		}
		if len(usage) != 2 {
			t.Fatalf("Expected 2 days, got %+v", usage)
		}

		first := usage[0]
		if first.Date != yesterday.Format("2006-01-02") {
			t.Errorf("Expected oldest day first, got %s", first.Date)
		}
		if first.Refreshes != 2 || first.Imports != 0 || first.TotalItems != 20 || first.AvgLatencyMS != 20 || first.TotalExecution != 2 {
			t.Errorf("Unexpected totals for %s: %+v", first.Date, first)
		}
		if usage[1].Imports != 1 || usage[1].TotalItems != 7 {
			t.Errorf("Unexpected totals for today: %+v", usage[1])
		}
	})

	t.Run("default timestamp", func(t *testing.T) {
		if err := store.Record(ctx, ExecutionMetric{Operation: OpImportRecipe}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		usage, _ := store.GetDailyUsage(ctx, 1)
		if len(usage) == 0 || usage[len(usage)-1].Imports != 2 {
			t.Errorf("Expected the record to land today, got %+v", usage)
		}
	})

	t.Run("cleanup", func(t *testing.T) {
		removed, err := store.Cleanup(ctx, 30)
		if err != nil {
			t.Fatalf("Cleanup failed: %v", err)
		}
		if removed != 1 {
			t.Errorf("Expected 1 old record removed, got %d", removed)
		}
		if removed, _ := store.Cleanup(ctx, 30); removed != 0 {
			t.Errorf("Second cleanup removed %d records", removed)
		}
	})
}

func TestGetSysHealth(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.db"), make([]byte, 2048), 0o644); err != nil {
		t.Fatal(err)
	}

	h := GetSysHealth(dir)
	if h.DataDiskSize != "2.0 KiB" {
		t.Errorf("Expected 2.0 KiB, got %q", h.DataDiskSize)
	}
	if h.Goroutines == 0 || h.SysMB == 0 {
		t.Errorf("Expected runtime stats, got %+v", h)
	}

	if missing := GetSysHealth(filepath.Join(dir, "nope")); missing.DataDiskSize != "0 B" {
		t.Errorf("Expected 0 B for a missing dir, got %q", missing.DataDiskSize)
	}
}
