package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yardline/service-rental/internal/application"
	"github.com/yardline/service-rental/internal/auth"
	bookingDomain "github.com/yardline/service-rental/internal/domain/booking"
	"github.com/yardline/service-rental/internal/middleware"
	"github.com/yardline/service-rental/internal/response"
)

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers the booking routes.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	staffRole := middleware.RequireRole(auth.RoleStaff, auth.RoleAdmin)

	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW)
	{
		bookings.POST("", middleware.RequireRole(auth.RoleCustomer), h.Create)
		bookings.GET("", h.List)
		bookings.GET(":id", h.Get)
		bookings.PATCH(":id/status", staffRole, h.UpdateStatus)
		bookings.POST(":id/cancel", h.Cancel)
		bookings.GET(":id/release-check", staffRole, h.ReleaseCheck)
	}
}

// Create handles POST /api/v1/bookings.
func (h *BookingHandler) Create(c *gin.Context) {
	customerID, ok := middleware.GetUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "authentication required"}})
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	dto, err := h.service.CreateBooking(c.Request.Context(), customerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto)
}

// List handles GET /api/v1/bookings, scoped to the authenticated customer.
func (h *BookingHandler) List(c *gin.Context) {
	customerID, ok := middleware.GetUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "authentication required"}})
		return
	}

	page, limit := parsePagination(c)
	dtos, total, err := h.service.GetCustomerBookings(c.Request.Context(), customerID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, dtos, total, page, limit)
}

// Get handles GET /api/v1/bookings/:id. Customers only see their own
// bookings; staff and admin see any.
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}
	caller, ok := callerFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "authentication required"}})
		return
	}

	dto, err := h.service.GetBooking(c.Request.Context(), id, caller)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /api/v1/bookings/:id/status (staff).
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	target, err := bookingDomain.ParseStatus(req.Status)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.service.UpdateStatus(c.Request.Context(), id, target)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

type cancelRequest struct {
	Reason   string `json:"reason" binding:"required"`
	FeeCents int64  `json:"fee_cents"`
}

// Cancel handles POST /api/v1/bookings/:id/cancel.
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	caller, ok := callerFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "authentication required"}})
		return
	}

	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	dto, err := h.service.Cancel(c.Request.Context(), id, caller, req.Reason, req.FeeCents)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// ReleaseCheck handles GET /api/v1/bookings/:id/release-check (staff). It is
// advisory: yard staff consult it before handing equipment over.
func (h *BookingHandler) ReleaseCheck(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	decision, err := h.service.CanReleaseEquipment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, decision)
}

// callerFrom builds the service-level caller identity from the request
// context. Staff and admin bypass ownership checks.
func callerFrom(c *gin.Context) (application.Caller, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return application.Caller{}, false
	}
	role, _ := middleware.GetUserRole(c)
	return application.Caller{
		UserID:     userID,
		Privileged: role == auth.RoleStaff || role == auth.RoleAdmin,
	}, true
}

// parsePagination reads page/limit query params with sane bounds.
func parsePagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
