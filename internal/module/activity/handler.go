package activity

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/st4cksup/server/internal/shared/middleware"
)

// Handler handles activity feed HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates an activity handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers feed routes on an authenticated group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/activities", h.ListFeed)
}

// ListFeed handles GET /activities. The caller only ever sees their own
// feed; the optional q parameter filters by message substring.
func (h *Handler) ListFeed(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	activities, err := h.service.ListFeed(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	resp := ListFeedResponse{Activities: make([]ActivityResponse, 0, len(activities))}
	for i := range activities {
		resp.Activities = append(resp.Activities, activities[i].ToResponse())
	}
	c.JSON(http.StatusOK, resp)
}
