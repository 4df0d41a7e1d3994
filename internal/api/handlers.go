package api

import (
	"bytes"
	"errors"
	"strings"
	"time"

	"meal-planner/internal/app"
	"meal-planner/internal/planner"
	"meal-planner/internal/recipe"
	"meal-planner/internal/shopping"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Handler holds all handler dependencies
type Handler struct {
	app    *app.App
	userID string
	logger *zap.Logger
}

// New creates a new Handler instance. All requests act on behalf of userID:
// the planner is a single-household tool without its own authentication.
func New(a *app.App, userID string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{app: a, userID: userID, logger: logger}
}

// APIResponse is a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success returns a successful response
func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(APIResponse{Success: true, Data: data})
}

// Error returns an error response
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{Success: false, Error: message})
}

// ErrorHandler is a custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	return Error(c, code, message)
}

// NewServer builds the fiber app with all routes registered. Middleware runs
// before every route.
func NewServer(h *Handler, middleware ...fiber.Handler) *fiber.App {
	server := fiber.New(fiber.Config{
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})
	server.Use(recover.New())
	for _, m := range middleware {
		server.Use(m)
	}
	h.Register(server)
	return server
}

// Register mounts the routes on a fiber router.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	weeks := r.Group("/api/weeks/:week")
	weeks.Get("/shopping-list", h.GetShoppingList)
	weeks.Post("/shopping-list/refresh", h.RefreshShoppingList)
	weeks.Get("/shopping-list/export.xlsx", h.ExportShoppingList)
	weeks.Post("/shopping-list/items", h.AddItem)
	weeks.Patch("/shopping-list/items/:id", h.UpdateItem)
	weeks.Post("/shopping-list/items/:id/toggle", h.ToggleItem)
	weeks.Delete("/shopping-list/items/:id", h.RemoveItem)
	weeks.Get("/plan", h.GetPlan)
	weeks.Post("/plan/meals", h.PlanMeal)
	weeks.Delete("/plan/meals/:id", h.UnplanMeal)

	r.Get("/api/recipes", h.ListRecipes)
	r.Post("/api/recipes", h.SaveRecipe)
	r.Post("/api/recipes/import", h.ImportRecipe)
}

// week resolves the :week path parameter; "current" means this week.
func week(c *fiber.Ctx) (time.Time, error) {
	w := c.Params("week")
	if w == "current" {
		return planner.WeekStart(time.Now()), nil
	}
	return planner.ParseWeek(w)
}

// GetShoppingList returns the stored list of a week, generating it if needed.
func (h *Handler) GetShoppingList(c *fiber.Ctx) error {
	wk, err := week(c)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}
	list, err := h.app.ShoppingList(c.UserContext(), h.userID, wk)
	if err != nil {
		return h.internal(c, "failed to get shopping list", err)
	}
	return Success(c, list)
}

// RefreshShoppingList recomputes the list of a week from the current plan.
func (h *Handler) RefreshShoppingList(c *fiber.Ctx) error {
	wk, err := week(c)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}
	list, err := h.app.RefreshShoppingList(c.UserContext(), h.userID, wk)
	if err != nil {
		return h.internal(c, "failed to refresh shopping list", err)
	}
	return Success(c, list)
}

// ExportShoppingList streams the list as an XLSX workbook.
func (h *Handler) ExportShoppingList(c *fiber.Ctx) error {
	wk, err := week(c)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}
	var buf bytes.Buffer
	if err := h.app.ExportShoppingList(c.UserContext(), h.userID, wk, &buf); err != nil {
		return h.internal(c, "failed to export shopping list", err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="zakupy-`+planner.FormatWeek(wk)+`.xlsx"`)
	return c.Send(buf.Bytes())
}

type addItemRequest struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Category string `json:"category"`
}

// AddItem adds a manual item to the list.
func (h *Handler) AddItem(c *fiber.Ctx) error {
	wk, err := week(c)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}
	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return Error(c, fiber.StatusBadRequest, "name is required")
	}
	item, err := h.app.AddItem(c.UserContext(), h.userID, wk, req.Name, req.Quantity, req.Unit, req.Category)
	if err != nil {
		return h.itemError(c, "failed to add item", err)
	}
	return c.Status(fiber.StatusCreated).JSON(APIResponse{Success: true, Data: item})
}

// UpdateItem edits an item on the list.
func (h *Handler) UpdateItem(c *fiber.Ctx) error {
	wk, err := week(c)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}
	var patch shopping.ItemPatch
	if err := c.BodyParser(&patch); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	item, err := h.app.UpdateItem(c.UserContext(), h.userID, wk, c.Params("id"), patch)
	if err != nil {
		return h.itemError(c, "failed to update item", err)
	}
	return Success(c, item)
}

// ToggleItem flips the checked state of an item.
func (h *Handler) ToggleItem(c *fiber.Ctx) error {
	wk, err := week(c)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}
	item, err := h.app.ToggleItem(c.UserContext(), h.userID, wk, c.Params("id"))
	if err != nil {
		return h.itemError(c, "failed to toggle item", err)
	}
	return Success(c, item)
}

// RemoveItem deletes an item from the list.
func (h *Handler) RemoveItem(c *fiber.Ctx) error {
	wk, err := week(c)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}
	if err := h.app.RemoveItem(c.UserContext(), h.userID, wk, c.Params("id")); err != nil {
		return h.itemError(c, "failed to remove item", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetPlan returns the meal plan of a week.
func (h *Handler) GetPlan(c *fiber.Ctx) error {
	wk, err := week(c)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}
	plan, err := h.app.WeekPlan(c.UserContext(), h.userID, wk)
	if err != nil {
		return h.internal(c, "failed to get meal plan", err)
	}
	return Success(c, plan)
}

// PlanMeal assigns a meal to a day and slot.
func (h *Handler) PlanMeal(c *fiber.Ctx) error {
	wk, err := week(c)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}
	var meal planner.PlannedMeal
	if err := c.BodyParser(&meal); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !planner.IsValidDay(meal.Day) || !planner.IsValidMealType(meal.Meal) {
		return Error(c, fiber.StatusBadRequest, "invalid day or meal type")
	}
	plan, err := h.app.PlanMeal(c.UserContext(), h.userID, wk, meal)
	if err != nil {
		return Error(c, fiber.StatusUnprocessableEntity, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(APIResponse{Success: true, Data: plan})
}

// UnplanMeal removes a meal from the plan.
func (h *Handler) UnplanMeal(c *fiber.Ctx) error {
	wk, err := week(c)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}
	removed, err := h.app.UnplanMeal(c.UserContext(), h.userID, wk, c.Params("id"))
	if err != nil {
		return h.internal(c, "failed to remove meal", err)
	}
	if !removed {
		return Error(c, fiber.StatusNotFound, "meal not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListRecipes returns the recipe catalog.
func (h *Handler) ListRecipes(c *fiber.Ctx) error {
	recipes, err := h.app.Recipes(c.UserContext())
	if err != nil {
		return h.internal(c, "failed to list recipes", err)
	}
	if recipes == nil {
		recipes = []recipe.Recipe{}
	}
	return Success(c, recipes)
}

// SaveRecipe creates or replaces a recipe.
func (h *Handler) SaveRecipe(c *fiber.Ctx) error {
	var rec recipe.Recipe
	if err := c.BodyParser(&rec); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	saved, err := h.app.SaveRecipe(c.UserContext(), rec)
	if err != nil {
		return Error(c, fiber.StatusUnprocessableEntity, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(APIResponse{Success: true, Data: saved})
}

type importRequest struct {
	URL string `json:"url"`
}

// ImportRecipe clips a recipe from a web page.
func (h *Handler) ImportRecipe(c *fiber.Ctx) error {
	var req importRequest
	if err := c.BodyParser(&req); err != nil || req.URL == "" {
		return Error(c, fiber.StatusBadRequest, "url is required")
	}
	rec, err := h.app.ImportRecipe(c.UserContext(), req.URL)
	if err != nil {
		return Error(c, fiber.StatusBadGateway, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(APIResponse{Success: true, Data: rec})
}

func (h *Handler) itemError(c *fiber.Ctx, message string, err error) error {
	if errors.Is(err, shopping.ErrItemNotFound) {
		return Error(c, fiber.StatusNotFound, "item not found")
	}
	if errors.Is(err, shopping.ErrInvalidItem) {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}
	return h.internal(c, message, err)
}

func (h *Handler) internal(c *fiber.Ctx, message string, err error) error {
	h.logger.Error(message, zap.String("path", c.Path()), zap.Error(err))
	return Error(c, fiber.StatusInternalServerError, message)
}
