package app

import (
	"context"
	"fmt"
	"time"

	"meal-planner/internal/metrics"
	"meal-planner/internal/storage"

	"go.uber.org/zap"
)

// IngestionResult summarizes a bulk recipe import.
type IngestionResult struct {
	Imported int
	Skipped  int
}

// BackupRecipes writes every catalog recipe to the file store. It returns
// the number of recipes written.
func (a *App) BackupRecipes(ctx context.Context, store *storage.RecipeStore) (int, error) {
	recipes, err := a.recipeRepo.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, rec := range recipes {
		if err := store.Save(rec); err != nil {
			return 0, fmt.Errorf("failed to back up recipe %s: %w", rec.ID, err)
		}
	}
	a.logger.Info("recipes backed up", zap.Int("count", len(recipes)))
	return len(recipes), nil
}

// IngestRecipes loads every recipe file from the store into the catalog,
// replacing recipes with the same id. Unreadable or invalid files are
// logged and skipped.
func (a *App) IngestRecipes(ctx context.Context, store *storage.RecipeStore) (IngestionResult, error) {
	start := time.Now()
	var res IngestionResult

	files, err := store.Files()
	if err != nil {
		return res, err
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		rec, err := store.ReadFile(path)
		if err == nil {
			err = a.recipeRepo.Save(ctx, *rec)
		}
		if err != nil {
			a.logger.Warn("skipping recipe file", zap.String("path", path), zap.Error(err))
			res.Skipped++
			continue
		}
		res.Imported++
	}

	a.logger.Info("recipe ingestion finished",
		zap.Int("imported", res.Imported),
		zap.Int("skipped", res.Skipped),
		zap.Duration("latency", time.Since(start)))
	a.recordMetric(ctx, metrics.ExecutionMetric{
		Operation: metrics.OpImportRecipe,
		Recipes:   res.Imported,
		LatencyMS: time.Since(start).Milliseconds(),
	})
	return res, nil
}
