package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"recipe-service/internal/entity"
	"recipe-service/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new instance of UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser creates a new user --> POST /users
func (h *UserHandler) CreateUser(c echo.Context) error {
	body, err := bindDocument(c)
	if err != nil {
		log.Error().Err(err).Msg("Invalid user payload")
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to create the user"))
	}

	created, err := h.userService.CreateUser(c.Request().Context(), entity.User(body))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to create the user"))
	}

	return c.JSON(http.StatusCreated, created)
}

// GetUserByID retrieves a user by ID --> GET /users/:id
func (h *UserHandler) GetUserByID(c echo.Context) error {
	user, err := h.userService.GetUserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to retrieve user"))
	}

	return c.JSON(http.StatusOK, user)
}

// UpdateUser replaces a user --> PUT /users/:id
func (h *UserHandler) UpdateUser(c echo.Context) error {
	body, err := bindDocument(c)
	if err != nil {
		log.Error().Err(err).Msg("Invalid user payload")
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to edit user"))
	}

	_, err = h.userService.UpdateUser(c.Request().Context(), c.Param("id"), entity.User(body))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to edit user"))
	}

	return c.NoContent(http.StatusNoContent)
}
