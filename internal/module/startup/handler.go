package startup

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/st4cksup/server/internal/shared/middleware"
)

// Handler handles startup HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a startup handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers startup routes on an authenticated group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	startups := r.Group("/startups")
	{
		startups.POST("", h.Create)
		startups.GET("", h.List)
		startups.GET("/:id", h.Get)
		startups.PUT("/:id", h.Update)
		startups.DELETE("/:id", h.Delete)
		startups.PUT("/:id/members/remove", h.RemoveMembers)
	}
}

// Create handles POST /startups.
func (h *Handler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var req CreateStartupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.service.Create(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st.ToResponse())
}

// List handles GET /startups.
func (h *Handler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	startups, total, err := h.service.List(c.Request.Context(), offset, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	resp := ListStartupsResponse{
		Startups: make([]StartupResponse, 0, len(startups)),
		Total:    total,
	}
	for i := range startups {
		resp.Startups = append(resp.Startups, startups[i].ToResponse())
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /startups/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startup id"})
		return
	}
	st, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, st.ToResponse())
}

// Update handles PUT /startups/:id.
func (h *Handler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startup id"})
		return
	}
	var req UpdateStartupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.service.Update(c.Request.Context(), userID, id, req.Name, req.Description)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, st.ToResponse())
}

// Delete handles DELETE /startups/:id.
func (h *Handler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startup id"})
		return
	}
	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Startup successfully deleted!"})
}

// RemoveMembers handles PUT /startups/:id/members/remove.
func (h *Handler) RemoveMembers(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startup id"})
		return
	}
	var req RemoveMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.service.RemoveMembers(c.Request.Context(), userID, id, req.Emails)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, st.ToResponse())
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrStartupNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Startup not found!"})
	case errors.Is(err, ErrMemberNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found!"})
	case errors.Is(err, ErrNameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Startup name already in use!"})
	case errors.Is(err, ErrAlreadyMember):
		c.JSON(http.StatusConflict, gin.H{"error": "User is already a member!"})
	case errors.Is(err, ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the startup owner may do this!"})
	case errors.Is(err, ErrCannotRemoveOwner):
		c.JSON(http.StatusConflict, gin.H{"error": "The startup owner cannot be removed!"})
	case errors.Is(err, ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member role!"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
