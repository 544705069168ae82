package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ritmoapp/ritmo-engine/internal/adapters/handler/http/middleware"
	"github.com/ritmoapp/ritmo-engine/internal/core/services"
)

type InsightHandler struct {
	svc *services.InsightService
}

func NewInsightHandler(svc *services.InsightService) *InsightHandler {
	return &InsightHandler{svc: svc}
}

func (h *InsightHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/insights", h.List)
}

// List godoc
// @Summary  Correlation insights between the user's habits
// @Tags     insights
// @Produce  json
// @Param    from  query  string  false  "Range start (YYYY-MM-DD), default 30 days ago"
// @Param    to    query  string  false  "Range end (YYYY-MM-DD), default today"
// @Success  200  {array}  domain.Insight
// @Router   /insights [get]
func (h *InsightHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	from, to, ok := parseRangeQuery(c)
	if !ok {
		return
	}

	insights, err := h.svc.Correlations(c.Request.Context(), userID, from, to)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, insights)
}
