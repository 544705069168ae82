package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ritmoapp/ritmo-engine/internal/adapters/handler/http/middleware"
	"github.com/ritmoapp/ritmo-engine/internal/core/domain"
	"github.com/ritmoapp/ritmo-engine/internal/core/services"
)

const maxRangeDays = 366

type StatsHandler struct {
	svc *services.StatsService
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits/:id")
	{
		habits.GET("/statistics", h.GetStatistics)
		habits.GET("/progress", h.GetDayProgress)
		habits.GET("/progress/overall", h.GetOverallProgress)
	}
}

// GetStatistics godoc
// @Summary  Habit statistics over a date range
// @Tags     stats
// @Produce  json
// @Param    id    path   string  true   "Habit ID"
// @Param    from  query  string  false  "Range start (YYYY-MM-DD), default 30 days ago"
// @Param    to    query  string  false  "Range end (YYYY-MM-DD), default today"
// @Success  200  {object}  domain.HabitStatistics
// @Router   /habits/{id}/statistics [get]
func (h *StatsHandler) GetStatistics(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	from, to, ok := parseRangeQuery(c)
	if !ok {
		return
	}

	if to.Sub(from).Hours()/24 > maxRangeDays {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date range too large, max 1 year allowed"})
		return
	}

	stats, err := h.svc.GetStatistics(c.Request.Context(), domain.StatsInput{
		UserID:    userID,
		HabitID:   c.Param("id"),
		StartDate: from,
		EndDate:   to,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetDayProgress godoc
// @Summary  Completion progress for one day
// @Tags     stats
// @Produce  json
// @Param    id   path   string  true   "Habit ID"
// @Param    day  query  string  false  "Day (YYYY-MM-DD), default today"
// @Success  200  {object}  domain.DayProgress
// @Router   /habits/{id}/progress [get]
func (h *StatsHandler) GetDayProgress(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	day := time.Now().UTC()
	if q := c.Query("day"); q != "" {
		parsed, err := time.Parse("2006-01-02", q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day format, expected YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	progress, err := h.svc.GetDayProgress(c.Request.Context(), c.Param("id"), userID, day)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// GetOverallProgress godoc
// @Summary  Lifetime progress of a fixed-duration habit
// @Tags     stats
// @Produce  json
// @Param    id  path  string  true  "Habit ID"
// @Success  200  {object}  map[string]float64
// @Router   /habits/{id}/progress/overall [get]
func (h *StatsHandler) GetOverallProgress(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	progress, err := h.svc.GetOverallProgress(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": progress})
}
