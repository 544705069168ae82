package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ritmoapp/ritmo-engine/internal/adapters/handler/http/middleware"
	"github.com/ritmoapp/ritmo-engine/internal/core/services"
)

type HabitHandler struct {
	svc *services.HabitService
}

func NewHabitHandler(svc *services.HabitService) *HabitHandler {
	return &HabitHandler{svc: svc}
}

type createHabitRequest struct {
	Title        string    `json:"title" binding:"required"`
	Description  string    `json:"description"`
	Polarity     string    `json:"polarity"`
	Color        string    `json:"color"`
	Icon         string    `json:"icon"`
	TargetPerDay int       `json:"target_per_day"`
	DurationDays int       `json:"duration_days"`
	StartDate    time.Time `json:"start_date"`
}

type updateHabitRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Polarity     string `json:"polarity"`
	Color        string `json:"color"`
	Icon         string `json:"icon"`
	TargetPerDay int    `json:"target_per_day"`
	DurationDays int    `json:"duration_days"`
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.POST("", h.Create)
		habits.GET("", h.List)
		habits.GET("/:id", h.Get)
		habits.PUT("/:id", h.Update)
		habits.DELETE("/:id", h.Delete)
	}
}

// Create godoc
// @Summary  Create a habit
// @Tags     habits
// @Accept   json
// @Produce  json
// @Param    body  body  createHabitRequest  true  "Habit definition"
// @Success  201  {object}  domain.Habit
// @Router   /habits [post]
func (h *HabitHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	habit, err := h.svc.Create(c.Request.Context(), services.CreateHabitInput{
		UserID:       userID,
		Title:        req.Title,
		Description:  req.Description,
		Polarity:     req.Polarity,
		Color:        req.Color,
		Icon:         req.Icon,
		TargetPerDay: req.TargetPerDay,
		DurationDays: req.DurationDays,
		StartDate:    req.StartDate,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, habit)
}

// List godoc
// @Summary  List the authenticated user's habits
// @Tags     habits
// @Produce  json
// @Success  200  {array}  domain.Habit
// @Router   /habits [get]
func (h *HabitHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	habits, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, habits)
}

// Get godoc
// @Summary  Fetch one habit
// @Tags     habits
// @Produce  json
// @Param    id  path  string  true  "Habit ID"
// @Success  200  {object}  domain.Habit
// @Router   /habits/{id} [get]
func (h *HabitHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	habit, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

// Update godoc
// @Summary  Update a habit's attributes
// @Tags     habits
// @Accept   json
// @Produce  json
// @Param    id    path  string              true  "Habit ID"
// @Param    body  body  updateHabitRequest  true  "Fields to change"
// @Success  200  {object}  domain.Habit
// @Router   /habits/{id} [put]
func (h *HabitHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req updateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	habit, err := h.svc.Update(c.Request.Context(), services.UpdateHabitInput{
		ID:           c.Param("id"),
		UserID:       userID,
		Title:        req.Title,
		Description:  req.Description,
		Polarity:     req.Polarity,
		Color:        req.Color,
		Icon:         req.Icon,
		TargetPerDay: req.TargetPerDay,
		DurationDays: req.DurationDays,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

// Delete godoc
// @Summary  Delete a habit and all of its entries
// @Tags     habits
// @Param    id  path  string  true  "Habit ID"
// @Success  204
// @Router   /habits/{id} [delete]
func (h *HabitHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
