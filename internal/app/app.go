package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"meal-planner/internal/clipper"
	"meal-planner/internal/export"
	"meal-planner/internal/metrics"
	"meal-planner/internal/planner"
	"meal-planner/internal/recipe"
	"meal-planner/internal/shopping"

	"go.uber.org/zap"
)

// App holds the application's dependencies.
type App struct {
	recipeRepo   *recipe.Repository
	planRepo     *planner.PlanRepository
	listRepo     *shopping.Repository
	metricsStore *metrics.Store
	clipper      *clipper.Clipper
	logger       *zap.Logger

	newID shopping.IDGenerator
	weeks weekLocks
}

// Option customizes an App.
type Option func(*App)

// WithIDGenerator overrides how shopping list item ids are minted.
func WithIDGenerator(gen shopping.IDGenerator) Option {
	return func(a *App) { a.newID = gen }
}

// NewApp creates and initializes a new App instance.
func NewApp(
	recipeRepo *recipe.Repository,
	planRepo *planner.PlanRepository,
	listRepo *shopping.Repository,
	metricsStore *metrics.Store,
	recipeClipper *clipper.Clipper,
	logger *zap.Logger,
	opts ...Option,
) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{
		recipeRepo:   recipeRepo,
		planRepo:     planRepo,
		listRepo:     listRepo,
		metricsStore: metricsStore,
		clipper:      recipeClipper,
		logger:       logger,
		newID:        shopping.NewUUID,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RefreshShoppingList recomputes the shopping list of a week from the
// current plan and recipes and replaces the stored copy. Checked states and
// manual edits on the previous copy are discarded.
func (a *App) RefreshShoppingList(ctx context.Context, userID string, week time.Time) (*shopping.List, error) {
	defer a.weeks.lock(userID, week)()
	return a.refresh(ctx, userID, week)
}

func (a *App) refresh(ctx context.Context, userID string, week time.Time) (*shopping.List, error) {
	start := time.Now()
	week = planner.WeekStart(week)

	plan, err := a.planRepo.Get(ctx, userID, week)
	if err != nil {
		return nil, fmt.Errorf("failed to load meal plan: %w", err)
	}

	recipes, err := a.recipeRepo.GetByIDs(ctx, plan.RecipeIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}

	items := shopping.SortForDisplay(shopping.Aggregate(plan, recipe.NewCatalog(recipes), a.newID))
	list := shopping.NewList(userID, week, items)
	if err := a.listRepo.Save(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to store shopping list: %w", err)
	}

	latency := time.Since(start)
	meals := len(plan.Meals())
	a.logger.Info("shopping list refreshed",
		zap.String("user_id", userID),
		zap.String("week", planner.FormatWeek(week)),
		zap.Int("meals", meals),
		zap.Int("recipes", len(recipes)),
		zap.Int("items", len(items)),
		zap.Duration("latency", latency))

	a.recordMetric(ctx, metrics.ExecutionMetric{
		Operation: metrics.OpRefreshShoppingList,
		UserID:    userID,
		Meals:     meals,
		Recipes:   len(recipes),
		Items:     len(items),
		LatencyMS: latency.Milliseconds(),
	})
	return list, nil
}

// ShoppingList returns the stored list of a week, generating it on first use.
// Items come back in display order, manual additions included.
func (a *App) ShoppingList(ctx context.Context, userID string, week time.Time) (*shopping.List, error) {
	defer a.weeks.lock(userID, week)()
	return a.loadList(ctx, userID, week)
}

// loadList expects the week lock to be held.
func (a *App) loadList(ctx context.Context, userID string, week time.Time) (*shopping.List, error) {
	list, err := a.listRepo.Get(ctx, userID, week)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return a.refresh(ctx, userID, week)
	}
	list.Items = shopping.SortForDisplay(list.Items)
	return list, nil
}

// ToggleItem flips the checked state of an item on the stored list.
func (a *App) ToggleItem(ctx context.Context, userID string, week time.Time, itemID string) (shopping.Item, error) {
	return a.editList(ctx, userID, week, func(l *shopping.List) (shopping.Item, error) {
		return l.Toggle(itemID)
	})
}

// AddItem appends a manual item to the stored list.
func (a *App) AddItem(ctx context.Context, userID string, week time.Time, name, quantity, unit, category string) (shopping.Item, error) {
	return a.editList(ctx, userID, week, func(l *shopping.List) (shopping.Item, error) {
		return l.Add(name, quantity, unit, category, a.newID)
	})
}

// UpdateItem edits an item on the stored list.
func (a *App) UpdateItem(ctx context.Context, userID string, week time.Time, itemID string, patch shopping.ItemPatch) (shopping.Item, error) {
	return a.editList(ctx, userID, week, func(l *shopping.List) (shopping.Item, error) {
		return l.Update(itemID, patch)
	})
}

// RemoveItem deletes an item from the stored list.
func (a *App) RemoveItem(ctx context.Context, userID string, week time.Time, itemID string) error {
	_, err := a.editList(ctx, userID, week, func(l *shopping.List) (shopping.Item, error) {
		return shopping.Item{}, l.Remove(itemID)
	})
	return err
}

// editList runs load, edit and save under the week lock so concurrent edits
// of the same list never overwrite each other.
func (a *App) editList(ctx context.Context, userID string, week time.Time, edit func(*shopping.List) (shopping.Item, error)) (shopping.Item, error) {
	defer a.weeks.lock(userID, week)()

	list, err := a.loadList(ctx, userID, week)
	if err != nil {
		return shopping.Item{}, err
	}
	item, err := edit(list)
	if err != nil {
		return shopping.Item{}, err
	}
	if err := a.listRepo.Save(ctx, list); err != nil {
		return shopping.Item{}, fmt.Errorf("failed to store shopping list: %w", err)
	}
	return item, nil
}

// ExportShoppingList writes the stored list of a week as an XLSX workbook.
func (a *App) ExportShoppingList(ctx context.Context, userID string, week time.Time, w io.Writer) error {
	list, err := a.ShoppingList(ctx, userID, week)
	if err != nil {
		return err
	}
	return export.WriteXLSX(w, list.Items)
}

// WeekPlan returns the meal plan of a week.
func (a *App) WeekPlan(ctx context.Context, userID string, week time.Time) (planner.WeeklyPlan, error) {
	return a.planRepo.Get(ctx, userID, week)
}

// PlanMeal assigns a meal to a calendar slot. The recipe, when given, must
// exist at planning time; it may disappear later, in which case the meal no
// longer contributes to the shopping list.
func (a *App) PlanMeal(ctx context.Context, userID string, week time.Time, meal planner.PlannedMeal) (planner.WeeklyPlan, error) {
	if meal.HasRecipe() {
		rec, err := a.recipeRepo.Get(ctx, meal.RecipeID)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, fmt.Errorf("recipe %s not found", meal.RecipeID)
		}
	}
	if meal.ID == "" {
		meal.ID = shopping.NewUUID()
	}

	defer a.weeks.lock(userID, week)()
	return a.planRepo.AssignMeal(ctx, userID, week, meal)
}

// UnplanMeal removes a meal from the calendar. It reports whether the meal
// existed.
func (a *App) UnplanMeal(ctx context.Context, userID string, week time.Time, mealID string) (bool, error) {
	defer a.weeks.lock(userID, week)()
	return a.planRepo.RemoveMeal(ctx, userID, week, mealID)
}

// Recipes lists the catalog.
func (a *App) Recipes(ctx context.Context) ([]recipe.Recipe, error) {
	return a.recipeRepo.List(ctx)
}

// SaveRecipe stores a recipe in the catalog, assigning an id to new recipes.
func (a *App) SaveRecipe(ctx context.Context, rec recipe.Recipe) (*recipe.Recipe, error) {
	if rec.ID == "" {
		rec.ID = shopping.NewUUID()
	}
	if err := a.recipeRepo.Save(ctx, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ImportRecipe clips a recipe page and stores the result in the catalog.
func (a *App) ImportRecipe(ctx context.Context, url string) (*recipe.Recipe, error) {
	start := time.Now()
	rec, err := a.clipper.ClipURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to clip recipe: %w", err)
	}
	if err := a.recipeRepo.Save(ctx, *rec); err != nil {
		return nil, fmt.Errorf("failed to save recipe: %w", err)
	}

	a.logger.Info("recipe imported",
		zap.String("recipe_id", rec.ID),
		zap.String("title", rec.Title),
		zap.Int("ingredients", len(rec.Ingredients)),
		zap.String("url", url))
	a.recordMetric(ctx, metrics.ExecutionMetric{
		Operation: metrics.OpImportRecipe,
		Recipes:   1,
		Items:     len(rec.Ingredients),
		LatencyMS: time.Since(start).Milliseconds(),
	})
	return rec, nil
}

// Metrics exposes the metrics store for reporting surfaces.
func (a *App) Metrics() *metrics.Store {
	return a.metricsStore
}

func (a *App) recordMetric(ctx context.Context, m metrics.ExecutionMetric) {
	if a.metricsStore == nil {
		return
	}
	if err := a.metricsStore.Record(ctx, m); err != nil {
		a.logger.Warn("failed to record metric", zap.String("operation", m.Operation), zap.Error(err))
	}
}
