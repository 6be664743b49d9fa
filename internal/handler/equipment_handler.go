package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yardline/service-rental/internal/application"
	"github.com/yardline/service-rental/internal/auth"
	"github.com/yardline/service-rental/internal/middleware"
	"github.com/yardline/service-rental/internal/response"
)

// EquipmentHandler exposes the equipment catalog, availability checks and
// price quotes over HTTP.
type EquipmentHandler struct {
	equipment *application.EquipmentService
	bookings  *application.BookingService
}

// NewEquipmentHandler creates a new EquipmentHandler.
func NewEquipmentHandler(equipment *application.EquipmentService, bookings *application.BookingService) *EquipmentHandler {
	return &EquipmentHandler{equipment: equipment, bookings: bookings}
}

// RegisterRoutes registers the equipment catalog routes. Browsing,
// availability and quotes are open to any authenticated caller.
func (h *EquipmentHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	equipment := r.Group("/api/v1/equipment")
	equipment.Use(authMW)
	{
		equipment.POST("", middleware.RequireRole(auth.RoleStaff, auth.RoleAdmin), h.Create)
		equipment.GET("", h.List)
		equipment.GET(":id", h.Get)
		equipment.GET(":id/availability", h.Availability)
		equipment.GET(":id/quote", h.Quote)
	}
}

// Create handles POST /api/v1/equipment (staff).
func (h *EquipmentHandler) Create(c *gin.Context) {
	var req application.CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	dto, err := h.equipment.CreateEquipment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto)
}

// List handles GET /api/v1/equipment.
func (h *EquipmentHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	dtos, total, err := h.equipment.ListEquipment(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, dtos, total, page, limit)
}

// Get handles GET /api/v1/equipment/:id.
func (h *EquipmentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid equipment ID")
		return
	}

	dto, err := h.equipment.GetEquipment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// Availability handles GET /api/v1/equipment/:id/availability.
func (h *EquipmentHandler) Availability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid equipment ID")
		return
	}
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}

	available, err := h.bookings.CheckAvailability(c.Request.Context(), id, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{
		"equipment_id": id,
		"start_date":   start,
		"end_date":     end,
		"available":    available,
	})
}

// Quote handles GET /api/v1/equipment/:id/quote. It prices the range without
// creating anything.
func (h *EquipmentHandler) Quote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid equipment ID")
		return
	}
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}
	bookingType := c.DefaultQuery("booking_type", "pickup")

	breakdown, err := h.bookings.CalculatePricing(c.Request.Context(), id, start, end, bookingType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, breakdown)
}

// parseDateRange reads start_date/end_date RFC 3339 query params, writing a
// 400 itself when they are missing or malformed.
func parseDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	start, err := time.Parse(time.RFC3339, c.Query("start_date"))
	if err != nil {
		response.BadRequest(c, "start_date must be RFC 3339")
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(time.RFC3339, c.Query("end_date"))
	if err != nil {
		response.BadRequest(c, "end_date must be RFC 3339")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
