package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"meal-planner/internal/recipe"
)

// RecipeStore keeps catalog recipes as versioned JSON files, one per
// recipe and modification time. It backs catalog backups and restores.
type RecipeStore struct {
	basePath string
}

// NewRecipeStore creates a new RecipeStore and ensures the base directory exists.
func NewRecipeStore(basePath string) (*RecipeStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &RecipeStore{basePath: basePath}, nil
}

// sanitizeTimestamp makes the timestamp safe for filenames.
func sanitizeTimestamp(ts string) string {
	if ts == "" {
		return "0"
	}
	return strings.ReplaceAll(ts, ":", "-")
}

// getVersionedPath returns the full path for a given recipe ID and version.
func (s *RecipeStore) getVersionedPath(recipeID, updatedAt string) string {
	filename := fmt.Sprintf("%s_%s.json", recipeID, sanitizeTimestamp(updatedAt))
	return filepath.Join(s.basePath, filename)
}

// Save writes the recipe under its current version, dropping older
// versions of the same recipe.
func (s *RecipeStore) Save(rec recipe.Recipe) error {
	if strings.ContainsAny(rec.ID, `/\_`) {
		return fmt.Errorf("recipe id %q cannot be used as a file name", rec.ID)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}

	if err := s.RemoveStaleVersions(rec.ID); err != nil {
		return err
	}
	filePath := s.getVersionedPath(rec.ID, rec.UpdatedAt)
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write recipe file: %w", err)
	}
	return nil
}

// Load retrieves a recipe from a specific version file.
func (s *RecipeStore) Load(recipeID, updatedAt string) (*recipe.Recipe, error) {
	return readRecipe(s.getVersionedPath(recipeID, updatedAt))
}

// Exists checks if a specific version of a recipe file exists.
func (s *RecipeStore) Exists(recipeID, updatedAt string) bool {
	filePath := s.getVersionedPath(recipeID, updatedAt)
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

// RemoveStaleVersions removes all files associated with a recipeID.
func (s *RecipeStore) RemoveStaleVersions(recipeID string) error {
	pattern := filepath.Join(s.basePath, fmt.Sprintf("%s_*.json", recipeID))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("failed to glob stale files: %w", err)
	}

	for _, match := range matches {
		if err := os.Remove(match); err != nil {
			return fmt.Errorf("failed to remove stale file %s: %w", match, err)
		}
	}
	return nil
}

// Files lists the recipe files in the store in name order.
func (s *RecipeStore) Files() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.basePath, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list recipe files: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

// ReadFile loads a recipe file returned by Files.
func (s *RecipeStore) ReadFile(path string) (*recipe.Recipe, error) {
	return readRecipe(path)
}

func readRecipe(path string) (*recipe.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe file: %w", err)
	}

	var rec recipe.Recipe
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe %s: %w", filepath.Base(path), err)
	}
	return &rec, nil
}
