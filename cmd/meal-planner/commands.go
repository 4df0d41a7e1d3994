package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"meal-planner/internal/planner"
	"meal-planner/internal/shopping"
	"meal-planner/internal/storage"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	refreshFlag bool
	outFlag     string
	daysFlag    int
	dirFlag     string
)

var shoppingListCmd = &cobra.Command{
	Use:   "shopping-list",
	Short: "Print the shopping list of a week",
	RunE: func(cmd *cobra.Command, args []string) error {
		week, err := selectedWeek()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		userID := rt.Config.DefaultUserID

		var list *shopping.List
		if refreshFlag {
			list, err = rt.App.RefreshShoppingList(ctx, userID, week)
		} else {
			list, err = rt.App.ShoppingList(ctx, userID, week)
		}
		if err != nil {
			return err
		}
		return printList(cmd.OutOrStdout(), list)
	},
}

func printList(out io.Writer, list *shopping.List) error {
	fmt.Fprintf(out, "Lista zakupów, tydzień od %s (zaktualizowano %s)\n\n",
		planner.FormatWeek(list.WeekStart), humanize.Time(list.UpdatedAt))

	if len(list.Items) == 0 {
		fmt.Fprintln(out, "Lista jest pusta.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	category := ""
	for i, it := range list.Items {
		if i == 0 || it.CategoryName != category {
			category = it.CategoryName
			fmt.Fprintf(tw, "%s\t\t\t\n", strings.ToUpper(category))
		}
		mark := "[ ]"
		if it.Checked {
			mark = "[x]"
		}
		fmt.Fprintf(tw, "  %s %s\t%s\t%s\n", mark, it.Name,
			strings.TrimSpace(it.Quantity+" "+it.Unit), strings.Join(it.RecipeSources, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nDo kupienia: %s z %s pozycji\n",
		humanize.Comma(int64(len(list.Remaining()))), humanize.Comma(int64(len(list.Items))))
	return nil
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the shopping list of a week as an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		week, err := selectedWeek()
		if err != nil {
			return err
		}

		path := outFlag
		if path == "" {
			path = "zakupy-" + planner.FormatWeek(week) + ".xlsx"
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()

		if err := rt.App.ExportShoppingList(cmd.Context(), rt.Config.DefaultUserID, week, f); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
		return nil
	},
}

var importRecipeCmd = &cobra.Command{
	Use:   "import-recipe <url>",
	Short: "Clip a recipe from a web page into the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := rt.App.ImportRecipe(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %q (%s) with %d ingredients\n", rec.Title, rec.ID, len(rec.Ingredients))
		return nil
	},
}

var metricsCleanupCmd = &cobra.Command{
	Use:   "metrics-cleanup",
	Short: "Remove old metric records",
	RunE: func(cmd *cobra.Command, args []string) error {
		affected, err := rt.App.Metrics().Cleanup(cmd.Context(), daysFlag)
		if err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Successfully removed %d old metric records.\n", affected)
		return nil
	},
}

var recipesBackupCmd = &cobra.Command{
	Use:   "recipes-backup",
	Short: "Write the recipe catalog to a directory of JSON files",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.NewRecipeStore(dirFlag)
		if err != nil {
			return err
		}
		n, err := rt.App.BackupRecipes(cmd.Context(), store)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Backed up %d recipes to %s\n", n, dirFlag)
		return nil
	},
}

var recipesRestoreCmd = &cobra.Command{
	Use:   "recipes-restore",
	Short: "Load recipes from a directory of JSON files into the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.NewRecipeStore(dirFlag)
		if err != nil {
			return err
		}
		res, err := rt.App.IngestRecipes(cmd.Context(), store)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d recipes, skipped %d\n", res.Imported, res.Skipped)
		return nil
	},
}

func init() {
	shoppingListCmd.Flags().BoolVar(&refreshFlag, "refresh", false, "recompute the list from the meal plan first")
	exportCmd.Flags().StringVarP(&outFlag, "out", "o", "", "output file (default zakupy-<week>.xlsx)")
	metricsCleanupCmd.Flags().IntVar(&daysFlag, "days", 30, "keep records for the last N days")
	for _, c := range []*cobra.Command{recipesBackupCmd, recipesRestoreCmd} {
		c.Flags().StringVar(&dirFlag, "dir", "data/recipes", "recipe directory")
	}
}
