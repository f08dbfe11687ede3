package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const serviceName = "recipe-service"

// RegisterRoutes mounts the resource routes plus the landing and health pages.
func RegisterRoutes(e *echo.Echo, recipes *RecipeHandler, users *UserHandler) {
	e.GET("/", Home)
	e.GET("/health", Health)

	e.POST("/recipes", recipes.CreateRecipe)
	e.GET("/recipes", recipes.GetRecipes)
	e.GET("/recipes/:id", recipes.GetRecipeByID)
	e.PUT("/recipes/:id", recipes.UpdateRecipe)
	e.DELETE("/recipes/:id", recipes.DeleteRecipe)

	e.POST("/users", users.CreateUser)
	e.GET("/users/:id", users.GetUserByID)
	e.PUT("/users/:id", users.UpdateUser)
}

func Home(c echo.Context) error {
	return c.HTML(http.StatusOK, "<h1>LAB | Express Mongoose Recipes</h1>")
}

func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"service": serviceName,
		"time":    time.Now().Format(time.RFC3339),
	})
}
