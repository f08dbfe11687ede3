package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"recipe-service/internal/entity"
	"recipe-service/internal/service"
)

type RecipeHandler struct {
	recipeService *service.RecipeService
}

// NewRecipeHandler creates a new instance of RecipeHandler
func NewRecipeHandler(recipeService *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

// CreateRecipe creates a recipe from the request body --> POST /recipes
func (h *RecipeHandler) CreateRecipe(c echo.Context) error {
	body, err := bindDocument(c)
	if err != nil {
		log.Error().Err(err).Msg("Invalid recipe payload")
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to create the recipe"))
	}

	created, err := h.recipeService.CreateRecipe(c.Request().Context(), entity.Recipe(body))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to create the recipe"))
	}

	return c.JSON(http.StatusCreated, created)
}

// GetRecipes lists all recipes --> GET /recipes
func (h *RecipeHandler) GetRecipes(c echo.Context) error {
	recipes, err := h.recipeService.GetRecipes(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to retrieve recipes"))
	}
	if recipes == nil {
		recipes = []entity.Recipe{}
	}

	return c.JSON(http.StatusOK, recipes)
}

// GetRecipeByID returns one recipe, or null if none matches --> GET /recipes/:id
func (h *RecipeHandler) GetRecipeByID(c echo.Context) error {
	recipe, err := h.recipeService.GetRecipeByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to retrieve recipe"))
	}

	return c.JSON(http.StatusOK, recipe)
}

// UpdateRecipe replaces a recipe --> PUT /recipes/:id
//
// The updated recipe is not written back: a 204 response has no body.
func (h *RecipeHandler) UpdateRecipe(c echo.Context) error {
	body, err := bindDocument(c)
	if err != nil {
		log.Error().Err(err).Msg("Invalid recipe payload")
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to edit recipe"))
	}

	_, err = h.recipeService.UpdateRecipe(c.Request().Context(), c.Param("id"), entity.Recipe(body))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to edit recipe"))
	}

	return c.NoContent(http.StatusNoContent)
}

// DeleteRecipe deletes a recipe --> DELETE /recipes/:id
func (h *RecipeHandler) DeleteRecipe(c echo.Context) error {
	if err := h.recipeService.DeleteRecipe(c.Request().Context(), c.Param("id")); err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to delete recipe"))
	}

	return c.NoContent(http.StatusNoContent)
}
