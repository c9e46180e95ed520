package network

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/st4cksup/server/internal/module/startup"
	"github.com/st4cksup/server/internal/module/user"
	"github.com/st4cksup/server/internal/shared/middleware"
)

// Handler handles workflow request HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a network handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers workflow routes on an authenticated group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	requests := r.Group("/network/requests")
	{
		requests.POST("", h.Raise)
		requests.GET("", h.ListPending)
		requests.PUT("/:id/accept", h.Accept)
		requests.PUT("/:id/reject", h.Reject)
	}
	r.POST("/users/invite", h.InviteUsers)
	r.PUT("/startups/:id/members/invite", h.InviteMembers)
}

// Raise handles POST /network/requests.
func (h *Handler) Raise(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var req RaiseRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	startupID := uuid.Nil
	if req.StartupID != nil {
		startupID = *req.StartupID
	}
	raised, err := h.service.RaiseRequest(c.Request.Context(), userID, req.Kind, req.TargetID, startupID, req.Role)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, raised.ToResponse())
}

// ListPending handles GET /network/requests.
func (h *Handler) ListPending(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	requests, err := h.service.ListPending(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	resp := ListRequestsResponse{Requests: make([]RequestResponse, 0, len(requests))}
	for i := range requests {
		resp.Requests = append(resp.Requests, requests[i].ToResponse())
	}
	c.JSON(http.StatusOK, resp)
}

// Accept handles PUT /network/requests/:id/accept.
func (h *Handler) Accept(c *gin.Context) {
	h.resolve(c, h.service.Accept, "Request accepted!")
}

// Reject handles PUT /network/requests/:id/reject.
func (h *Handler) Reject(c *gin.Context) {
	h.resolve(c, h.service.Reject, "Request rejected!")
}

func (h *Handler) resolve(c *gin.Context, fn func(ctx context.Context, userID, requestID uuid.UUID) error, message string) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}
	if err := fn(c.Request.Context(), userID, requestID); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// InviteUsers handles POST /users/invite. Registered addresses get a
// connection request; unknown ones get an email.
func (h *Handler) InviteUsers(c *gin.Context) {
	h.invite(c, uuid.Nil)
}

// InviteMembers handles PUT /startups/:id/members/invite.
func (h *Handler) InviteMembers(c *gin.Context) {
	startupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startup id"})
		return
	}
	h.invite(c, startupID)
}

func (h *Handler) invite(c *gin.Context, startupID uuid.UUID) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var req BatchInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	results, err := h.service.BatchInvite(c.Request.Context(), userID, req.Emails, startupID, req.Role)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, BatchInviteResponse{Results: results})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found!"})
	case errors.Is(err, user.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found!"})
	case errors.Is(err, startup.ErrStartupNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Startup not found!"})
	case errors.Is(err, ErrDuplicateRequest):
		c.JSON(http.StatusConflict, gin.H{"error": "Request already pending!"})
	case errors.Is(err, user.ErrAlreadyConnected):
		c.JSON(http.StatusConflict, gin.H{"error": "Users are already connected!"})
	case errors.Is(err, startup.ErrAlreadyMember):
		c.JSON(http.StatusConflict, gin.H{"error": "User is already a member!"})
	case errors.Is(err, ErrSelfRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot raise a request against yourself!"})
	case errors.Is(err, ErrUnknownKind):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown request kind!"})
	case errors.Is(err, ErrKindNotImplemented):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request kind not implemented!"})
	case errors.Is(err, ErrStartupRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "This request kind requires a startup!"})
	case errors.Is(err, ErrStartupNotAllowed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "This request kind does not carry a startup!"})
	case errors.Is(err, startup.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member role!"})
	case errors.Is(err, ErrNotStartupMember):
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this startup!"})
	case errors.Is(err, ErrNotTarget):
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the request target may resolve it!"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
