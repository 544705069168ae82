package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ritmoapp/ritmo-engine/internal/adapters/handler/http/middleware"
	"github.com/ritmoapp/ritmo-engine/internal/core/domain"
	"github.com/ritmoapp/ritmo-engine/internal/core/services"
)

type EntryHandler struct {
	svc *services.EntryService
}

func NewEntryHandler(svc *services.EntryService) *EntryHandler {
	return &EntryHandler{svc: svc}
}

type setStatusRequest struct {
	Day    time.Time     `json:"day" binding:"required"`
	Status domain.Status `json:"status" binding:"required"`
	Notes  string        `json:"notes"`
}

type addCompletionRequest struct {
	Day    time.Time     `json:"day" binding:"required"`
	Status domain.Status `json:"status"`
	Notes  string        `json:"notes"`
}

type updateCompletionRequest struct {
	Day    time.Time     `json:"day" binding:"required"`
	Status domain.Status `json:"status" binding:"required"`
	Notes  string        `json:"notes"`
}

type addCompletionResponse struct {
	Entry      *domain.Entry      `json:"entry"`
	Completion *domain.Completion `json:"completion"`
}

func (h *EntryHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits/:id")
	{
		habits.GET("/entries", h.List)
		habits.PUT("/entries/status", h.SetStatus)
		habits.POST("/entries/completions", h.AddCompletion)
		habits.PUT("/entries/completions/:completionId", h.UpdateCompletion)
		habits.DELETE("/entries/completions/:completionId", h.RemoveCompletion)
	}
}

// SetStatus godoc
// @Summary  Set the status for a habit on one day
// @Tags     entries
// @Accept   json
// @Produce  json
// @Param    id    path  string            true  "Habit ID"
// @Param    body  body  setStatusRequest  true  "Day status"
// @Success  200  {object}  domain.Entry
// @Router   /habits/{id}/entries/status [put]
func (h *EntryHandler) SetStatus(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	entry, err := h.svc.SetStatus(c.Request.Context(), services.SetStatusInput{
		HabitID: c.Param("id"),
		UserID:  userID,
		Day:     req.Day,
		Status:  req.Status,
		Notes:   req.Notes,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// AddCompletion godoc
// @Summary  Log one completion for a habit on one day
// @Tags     entries
// @Accept   json
// @Produce  json
// @Param    id    path  string                true  "Habit ID"
// @Param    body  body  addCompletionRequest  true  "Completion"
// @Success  201  {object}  addCompletionResponse
// @Router   /habits/{id}/entries/completions [post]
func (h *EntryHandler) AddCompletion(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req addCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	entry, completion, err := h.svc.AddCompletion(c.Request.Context(), services.AddCompletionInput{
		HabitID: c.Param("id"),
		UserID:  userID,
		Day:     req.Day,
		Status:  req.Status,
		Notes:   req.Notes,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, addCompletionResponse{Entry: entry, Completion: completion})
}

// UpdateCompletion godoc
// @Summary  Update a logged completion's status or notes
// @Tags     entries
// @Accept   json
// @Param    id            path  string                   true  "Habit ID"
// @Param    completionId  path  string                   true  "Completion ID"
// @Param    body          body  updateCompletionRequest  true  "New status"
// @Success  204
// @Router   /habits/{id}/entries/completions/{completionId} [put]
func (h *EntryHandler) UpdateCompletion(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req updateCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	err := h.svc.UpdateCompletion(c.Request.Context(), services.UpdateCompletionInput{
		HabitID:      c.Param("id"),
		UserID:       userID,
		CompletionID: c.Param("completionId"),
		Day:          req.Day,
		Status:       req.Status,
		Notes:        req.Notes,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveCompletion godoc
// @Summary  Remove a logged completion
// @Tags     entries
// @Param    id            path   string  true  "Habit ID"
// @Param    completionId  path   string  true  "Completion ID"
// @Param    day           query  string  true  "Day (YYYY-MM-DD)"
// @Success  204
// @Router   /habits/{id}/entries/completions/{completionId} [delete]
func (h *EntryHandler) RemoveCompletion(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	day, ok := parseDayQuery(c, "day")
	if !ok {
		return
	}

	err := h.svc.RemoveCompletion(c.Request.Context(), c.Param("id"), userID, c.Param("completionId"), day)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// List godoc
// @Summary  List a habit's entries in a date range
// @Tags     entries
// @Produce  json
// @Param    id    path   string  true   "Habit ID"
// @Param    from  query  string  false  "Range start (YYYY-MM-DD)"
// @Param    to    query  string  false  "Range end (YYYY-MM-DD)"
// @Success  200  {array}  domain.Entry
// @Router   /habits/{id}/entries [get]
func (h *EntryHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	from, to, ok := parseRangeQuery(c)
	if !ok {
		return
	}

	entries, err := h.svc.ListByHabitID(c.Request.Context(), c.Param("id"), userID, from, to)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}
