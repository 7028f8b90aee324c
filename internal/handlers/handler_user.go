package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mantrahq/mantra_journal_app/internal/apperrors"
	"github.com/mantrahq/mantra_journal_app/internal/core/domain"
	portssvc "github.com/mantrahq/mantra_journal_app/internal/core/ports/services"
	"github.com/mantrahq/mantra_journal_app/internal/dto"
	"github.com/mantrahq/mantra_journal_app/internal/middleware"
)

// userHandler handles HTTP requests for the unified user snapshot and
// preference updates.
type userHandler struct {
	authService portssvc.AuthSvcFacade
}

// newUserHandler creates a new userHandler.
func newUserHandler(as portssvc.AuthSvcFacade) *userHandler {
	return &userHandler{
		authService: as,
	}
}

// registerUserRoutes registers all user-related routes.
func registerUserRoutes(rg *gin.RouterGroup, authService portssvc.AuthSvcFacade) {
	h := newUserHandler(authService)

	users := rg.Group("/users")
	{
		users.GET("/me", h.getCurrentUser)
		users.PUT("/me/preferences", h.updatePreferences)
		users.GET("/options/categories", h.listCategories)
		users.GET("/options/categories/:id/focus", h.listFocusOptions)
	}
}

// getCurrentUser godoc
// @Summary Get the current user
// @Description Returns the identity provider user merged with stored preferences.
// @Tags users
// @Produce json
// @Success 200 {object} dto.IdentityResponse
// @Failure 401 {object} ErrorResponse "No active session"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/me [get]
func (h *userHandler) getCurrentUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	identity, err := h.authService.CheckAuthStatus(c.Request.Context())
	if err != nil {
		logger.Error("Failed to check auth status", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve user"})
		return
	}
	if identity == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "No active session"})
		return
	}

	c.JSON(http.StatusOK, dto.ToIdentityResponse(identity))
}

// updatePreferences godoc
// @Summary Update user preferences
// @Description Shallow-merges the given preference fields; omitted fields are left untouched.
// @Tags users
// @Accept json
// @Produce json
// @Param preferences body dto.UpdatePreferencesRequest true "Preference fields to update"
// @Success 200 {object} dto.IdentityResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "No active session"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/me/preferences [put]
func (h *userHandler) updatePreferences(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	identity, err := h.authService.UpdatePreferences(c.Request.Context(), req.ToPatch())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotAuthenticated) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "No active session"})
			return
		}
		logger.Error("Failed to update preferences", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update preferences"})
		return
	}

	c.JSON(http.StatusOK, dto.ToIdentityResponse(identity))
}

// listCategories godoc
// @Summary List motivation categories
// @Tags users
// @Produce json
// @Success 200 {array} domain.MotivationCategory
// @Security BearerAuth
// @Router /users/options/categories [get]
func (h *userHandler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, domain.MotivationCategories())
}

// listFocusOptions godoc
// @Summary List focus options for a category
// @Tags users
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {array} domain.FocusOption
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/options/categories/{id}/focus [get]
func (h *userHandler) listFocusOptions(c *gin.Context) {
	categoryID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid category ID"})
		return
	}
	c.JSON(http.StatusOK, domain.FocusOptionsFor(categoryID))
}
