package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/mantrahq/mantra_journal_app/internal/apperrors"
	portssvc "github.com/mantrahq/mantra_journal_app/internal/core/ports/services"
	"github.com/mantrahq/mantra_journal_app/internal/dto"
	"github.com/mantrahq/mantra_journal_app/internal/middleware"
)

// mantraHandler handles HTTP requests for mantra generation and favorites.
type mantraHandler struct {
	mantraService portssvc.MantraSvcFacade
}

// newMantraHandler creates a new mantraHandler.
func newMantraHandler(ms portssvc.MantraSvcFacade) *mantraHandler {
	return &mantraHandler{
		mantraService: ms,
	}
}

// registerMantraRoutes registers all mantra-related routes.
func registerMantraRoutes(rg *gin.RouterGroup, mantraService portssvc.MantraSvcFacade) {
	h := newMantraHandler(mantraService)

	// Define rate limit: 10 requests per minute on generation
	rate, _ := limiter.NewRateFromFormatted("10-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	mantras := rg.Group("/mantras")
	{
		mantras.GET("/categories", h.listCategories)
		mantras.POST("/generate", limitMiddleware, h.generate)
		mantras.GET("/remaining", h.remainingToday)
		mantras.GET("/favorites", h.listFavorites)
		mantras.POST("/favorites", h.addFavorite)
		mantras.DELETE("/favorites/:id", h.removeFavorite)
	}
}

// listCategories godoc
// @Summary List mantra categories
// @Tags mantras
// @Produce json
// @Success 200 {object} dto.CategoriesResponse
// @Security BearerAuth
// @Router /mantras/categories [get]
func (h *mantraHandler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, dto.CategoriesResponse{
		Categories: h.mantraService.Categories(c.Request.Context()),
	})
}

// generate godoc
// @Summary Generate mantras
// @Description Generates one mantra from a category (count omitted), or a batch of random ones.
// @Tags mantras
// @Accept json
// @Produce json
// @Param request body dto.GenerateMantraRequest true "Generation parameters"
// @Success 200 {object} dto.GenerateMantrasResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse "Daily generation limit reached"
// @Security BearerAuth
// @Router /mantras/generate [post]
func (h *mantraHandler) generate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.GenerateMantraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	var responses []dto.MantraResponse
	if req.Count > 1 {
		mantras, err := h.mantraService.GenerateMantras(c.Request.Context(), req.Count)
		if err != nil {
			h.writeGenerateError(c, logger, err)
			return
		}
		responses = dto.ToMantraResponses(mantras)
	} else {
		mantra, err := h.mantraService.GenerateMantra(c.Request.Context(), req.Category)
		if err != nil {
			h.writeGenerateError(c, logger, err)
			return
		}
		responses = []dto.MantraResponse{dto.ToMantraResponse(*mantra)}
	}

	c.JSON(http.StatusOK, dto.GenerateMantrasResponse{
		Mantras:        responses,
		RemainingToday: h.mantraService.RemainingToday(),
	})
}

func (h *mantraHandler) writeGenerateError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrDailyLimitReached):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("Failed to generate mantra", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate mantra"})
	}
}

// remainingToday godoc
// @Summary Remaining daily generations
// @Tags mantras
// @Produce json
// @Success 200 {object} map[string]int
// @Security BearerAuth
// @Router /mantras/remaining [get]
func (h *mantraHandler) remainingToday(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"remainingToday": h.mantraService.RemainingToday()})
}

// listFavorites godoc
// @Summary List favorited mantras
// @Tags mantras
// @Produce json
// @Success 200 {array} dto.MantraResponse
// @Security BearerAuth
// @Router /mantras/favorites [get]
func (h *mantraHandler) listFavorites(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToMantraResponses(h.mantraService.Favorites()))
}

// addFavorite godoc
// @Summary Favorite a mantra
// @Description Adds the mantra to favorites; favoriting twice is a no-op.
// @Tags mantras
// @Accept json
// @Produce json
// @Param mantra body dto.MantraResponse true "Mantra to favorite"
// @Success 201 {array} dto.MantraResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /mantras/favorites [post]
func (h *mantraHandler) addFavorite(c *gin.Context) {
	var req dto.MantraResponse
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	if req.MantraID == "" || req.Text == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "MantraID and text are required"})
		return
	}

	h.mantraService.AddFavorite(dto.ToDomainMantra(req))
	c.JSON(http.StatusCreated, dto.ToMantraResponses(h.mantraService.Favorites()))
}

// removeFavorite godoc
// @Summary Unfavorite a mantra
// @Tags mantras
// @Produce json
// @Param id path string true "Mantra ID"
// @Success 200 {array} dto.MantraResponse
// @Security BearerAuth
// @Router /mantras/favorites/{id} [delete]
func (h *mantraHandler) removeFavorite(c *gin.Context) {
	h.mantraService.RemoveFavorite(c.Param("id"))
	c.JSON(http.StatusOK, dto.ToMantraResponses(h.mantraService.Favorites()))
}
