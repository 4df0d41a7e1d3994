package app_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"meal-planner/internal/storage"

	"github.com/google/go-cmp/cmp"
)

func TestBackupAndIngestRecipes(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	source := newTestApp(t)
	seed(t, source)

	store, err := storage.NewRecipeStore(dir)
	if err != nil {
		t.Fatalf("NewRecipeStore failed: %v", err)
	}
	n, err := source.BackupRecipes(ctx, store)
	if err != nil {
		t.Fatalf("BackupRecipes failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 recipes backed up, got %d", n)
	}

	if err := os.WriteFile(filepath.Join(dir, "broken_0.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	target := newTestApp(t)
	res, err := target.IngestRecipes(ctx, store)
	if err != nil {
		t.Fatalf("IngestRecipes failed: %v", err)
	}
	if res.Imported != 2 || res.Skipped != 1 {
		t.Errorf("IngestRecipes() = %+v, want 2 imported and 1 skipped", res)
	}

	want, _ := source.Recipes(ctx)
	got, _ := target.Recipes(ctx)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Restored catalog mismatch (-want +got):\n%s", diff)
	}

	usage, _ := target.Metrics().GetDailyUsage(ctx, 1)
	if len(usage) == 0 || usage[len(usage)-1].Imports != 1 {
		t.Errorf("Expected one import run recorded, got %+v", usage)
	}
}
