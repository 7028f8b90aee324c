package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mantrahq/mantra_journal_app/internal/apperrors"
	"github.com/mantrahq/mantra_journal_app/internal/core/domain"
	portssvc "github.com/mantrahq/mantra_journal_app/internal/core/ports/services"
	"github.com/mantrahq/mantra_journal_app/internal/dto"
	"github.com/mantrahq/mantra_journal_app/internal/middleware"
)

// journalHandler handles HTTP requests related to journal entries and the
// active filter spec.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: js,
	}
}

// registerJournalRoutes registers all journal-related routes.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	journal := rg.Group("/journal")
	{
		journal.GET("/entries", h.listEntries)
		journal.POST("/entries", h.saveEntry)
		journal.DELETE("/entries/:id", h.deleteEntry)

		journal.PUT("/filters/search", h.setSearchFilter)
		journal.PUT("/filters/mood", h.setMoodFilter)
		journal.PUT("/filters/daterange", h.setDateRangeFilter)
		journal.POST("/filters/tags/:tag", h.addTagFilter)
		journal.DELETE("/filters/tags/:tag", h.removeTagFilter)
		journal.DELETE("/filters", h.clearFilters)

		journal.GET("/options/moods", h.listMoodOptions)
	}
}

// listEntries godoc
// @Summary List journal entries
// @Description Returns the filtered view together with the active filter spec and the unfiltered total.
// @Tags journal
// @Produce json
// @Success 200 {object} dto.ListEntriesResponse
// @Security BearerAuth
// @Router /journal/entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	filtered := h.journalService.FilteredEntries()
	filters := h.journalService.Filters()
	total := len(h.journalService.Entries())
	c.JSON(http.StatusOK, dto.ToListEntriesResponse(filtered, filters, total))
}

// saveEntry godoc
// @Summary Save a journal entry
// @Description Inserts a new entry (no matching ID) or updates an existing one in place.
// @Tags journal
// @Accept json
// @Produce json
// @Param entry body dto.SaveEntryRequest true "Entry details"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /journal/entries [post]
func (h *journalHandler) saveEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SaveEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.journalService.SaveEntry(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save entry"})
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(*entry))
}

// deleteEntry godoc
// @Summary Delete a journal entry
// @Description Removes the entry with the given ID. Deleting an absent ID succeeds.
// @Tags journal
// @Produce json
// @Param id path string true "Entry ID"
// @Success 204
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /journal/entries/{id} [delete]
func (h *journalHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	if err := h.journalService.DeleteEntry(c.Request.Context(), entryID); err != nil {
		logger.Error("Failed to delete journal entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete entry"})
		return
	}

	c.Status(http.StatusNoContent)
}

// setSearchFilter godoc
// @Summary Set the search filter
// @Description Sets the free-text search dimension and returns the recomputed view.
// @Tags journal
// @Accept json
// @Produce json
// @Param filter body dto.SearchFilterRequest true "Search text"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /journal/filters/search [put]
func (h *journalHandler) setSearchFilter(c *gin.Context) {
	var req dto.SearchFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	h.journalService.SetSearchFilter(req.Text)
	h.listEntries(c)
}

// setMoodFilter godoc
// @Summary Set the mood filter
// @Description Sets or clears the mood dimension and returns the recomputed view.
// @Tags journal
// @Accept json
// @Produce json
// @Param filter body dto.MoodFilterRequest true "Mood (null clears)"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /journal/filters/mood [put]
func (h *journalHandler) setMoodFilter(c *gin.Context) {
	var req dto.MoodFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	if req.Mood == nil {
		h.journalService.SetMoodFilter(nil)
		h.listEntries(c)
		return
	}

	mood := domain.Mood(*req.Mood)
	if !mood.IsValid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unknown mood: " + *req.Mood})
		return
	}
	h.journalService.SetMoodFilter(&mood)
	h.listEntries(c)
}

// setDateRangeFilter godoc
// @Summary Set the date range filter
// @Description Sets or clears the date range dimension and returns the recomputed view.
// @Tags journal
// @Accept json
// @Produce json
// @Param filter body dto.DateRangeFilterRequest true "Date range (nulls clear)"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /journal/filters/daterange [put]
func (h *journalHandler) setDateRangeFilter(c *gin.Context) {
	var req dto.DateRangeFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	if req.Start == nil && req.End == nil {
		h.journalService.SetDateRangeFilter(nil)
		h.listEntries(c)
		return
	}

	dateRange := domain.DateRange{}
	if req.Start != nil {
		dateRange.Start = *req.Start
	}
	if req.End != nil {
		dateRange.End = *req.End
	}
	h.journalService.SetDateRangeFilter(&dateRange)
	h.listEntries(c)
}

// addTagFilter godoc
// @Summary Add a tag to the tag filter
// @Tags journal
// @Produce json
// @Param tag path string true "Tag"
// @Success 200 {object} dto.ListEntriesResponse
// @Security BearerAuth
// @Router /journal/filters/tags/{tag} [post]
func (h *journalHandler) addTagFilter(c *gin.Context) {
	h.journalService.AddTagFilter(c.Param("tag"))
	h.listEntries(c)
}

// removeTagFilter godoc
// @Summary Remove a tag from the tag filter
// @Tags journal
// @Produce json
// @Param tag path string true "Tag"
// @Success 200 {object} dto.ListEntriesResponse
// @Security BearerAuth
// @Router /journal/filters/tags/{tag} [delete]
func (h *journalHandler) removeTagFilter(c *gin.Context) {
	h.journalService.RemoveTagFilter(c.Param("tag"))
	h.listEntries(c)
}

// clearFilters godoc
// @Summary Clear all filters
// @Description Resets every filter dimension; the view becomes the full collection.
// @Tags journal
// @Produce json
// @Success 200 {object} dto.ListEntriesResponse
// @Security BearerAuth
// @Router /journal/filters [delete]
func (h *journalHandler) clearFilters(c *gin.Context) {
	h.journalService.ClearFilters()
	h.listEntries(c)
}

// listMoodOptions godoc
// @Summary List selectable moods
// @Tags journal
// @Produce json
// @Success 200 {array} domain.MoodOption
// @Security BearerAuth
// @Router /journal/options/moods [get]
func (h *journalHandler) listMoodOptions(c *gin.Context) {
	c.JSON(http.StatusOK, domain.MoodOptions())
}
