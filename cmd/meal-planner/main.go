package main

import (
	"fmt"
	"os"
	"time"

	"meal-planner/internal/app"
	"meal-planner/internal/config"
	"meal-planner/internal/logging"
	"meal-planner/internal/planner"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	weekFlag string
	rt       *app.Runtime
)

var rootCmd = &cobra.Command{
	Use:   "meal-planner",
	Short: "Household meal planner with weekly shopping lists",
	Long: `meal-planner keeps a recipe catalog and a weekly meal calendar, and
consolidates the ingredients of planned meals into a shopping list.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		godotenv.Load()

		cfg, err := config.NewFromEnv()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger, err := logging.New(cfg.LogLevel)
		if err != nil {
			return err
		}
		rt, err = app.Bootstrap(cfg, logger)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if rt != nil {
			rt.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&weekFlag, "week", "", "week to operate on, as the date of any day in it (YYYY-MM-DD); defaults to the current week")

	rootCmd.AddCommand(serveCmd, shoppingListCmd, exportCmd, importRecipeCmd, metricsCleanupCmd,
		recipesBackupCmd, recipesRestoreCmd)
}

// selectedWeek resolves the --week flag to the Monday of that week.
func selectedWeek() (time.Time, error) {
	if weekFlag == "" {
		return planner.WeekStart(time.Now()), nil
	}
	return planner.ParseWeek(weekFlag)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
