package app

import (
	"fmt"

	"meal-planner/internal/clipper"
	"meal-planner/internal/config"
	"meal-planner/internal/database"
	"meal-planner/internal/metrics"
	"meal-planner/internal/planner"
	"meal-planner/internal/recipe"
	"meal-planner/internal/shopping"

	"go.uber.org/zap"
)

// Runtime is a fully wired App together with the resources it owns.
type Runtime struct {
	App    *App
	DB     *database.DB
	Logger *zap.Logger
	Config *config.Config
}

// Bootstrap opens the database and wires repositories, stores and the
// clipper into an App.
func Bootstrap(cfg *config.Config, logger *zap.Logger, opts ...Option) (*Runtime, error) {
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	application := NewApp(
		recipe.NewRepository(db.SQL, logger),
		planner.NewPlanRepository(db.SQL),
		shopping.NewRepository(db.SQL),
		metrics.NewStore(db.SQL),
		clipper.NewClipper(nil),
		logger,
		opts...,
	)

	return &Runtime{App: application, DB: db, Logger: logger, Config: cfg}, nil
}

// Close releases the database and flushes the logger.
func (r *Runtime) Close() {
	if err := r.DB.Close(); err != nil {
		r.Logger.Warn("failed to close database", zap.Error(err))
	}
	_ = r.Logger.Sync()
}
