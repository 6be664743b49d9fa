package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yardline/service-rental/internal/application"
	"github.com/yardline/service-rental/internal/auth"
	"github.com/yardline/service-rental/internal/domain"
	insuranceDomain "github.com/yardline/service-rental/internal/domain/insurance"
	"github.com/yardline/service-rental/internal/middleware"
	"github.com/yardline/service-rental/internal/response"
)

// InsuranceHandler exposes certificate submission and review over HTTP.
type InsuranceHandler struct {
	service *application.InsuranceService
}

// NewInsuranceHandler creates a new InsuranceHandler.
func NewInsuranceHandler(service *application.InsuranceService) *InsuranceHandler {
	return &InsuranceHandler{service: service}
}

// RegisterRoutes registers the insurance routes.
func (h *InsuranceHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW)
	{
		bookings.POST(":id/insurance", h.Submit)
		bookings.GET(":id/insurance", h.List)
	}

	records := r.Group("/api/v1/insurance")
	records.Use(authMW, middleware.RequireRole(auth.RoleStaff, auth.RoleAdmin))
	{
		records.PATCH(":recordId", h.Review)
	}
}

// Submit handles POST /api/v1/bookings/:id/insurance.
func (h *InsuranceHandler) Submit(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	var req application.SubmitInsuranceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	dto, err := h.service.SubmitRecord(c.Request.Context(), bookingID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto)
}

// List handles GET /api/v1/bookings/:id/insurance.
func (h *InsuranceHandler) List(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	dtos, err := h.service.ListRecords(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dtos)
}

type reviewRequest struct {
	Status string `json:"status" binding:"required"`
}

// Review handles PATCH /api/v1/insurance/:recordId (staff).
func (h *InsuranceHandler) Review(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("recordId"))
	if err != nil {
		response.BadRequest(c, "invalid record ID")
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	status := insuranceDomain.RecordStatus(req.Status)
	if !status.IsValid() {
		response.Error(c, domain.NewValidationError("invalid insurance record status: "+req.Status))
		return
	}

	if err := h.service.ReviewRecord(c.Request.Context(), recordID, status); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"record_id": recordID, "status": string(status)})
}
