package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/HusseinMoukalled/meetingroom/internal/bookings/domain"
	"github.com/HusseinMoukalled/meetingroom/internal/bookings/dto"
	"github.com/HusseinMoukalled/meetingroom/internal/bookings/service"
	"github.com/HusseinMoukalled/meetingroom/pkg/breaker"
	"github.com/HusseinMoukalled/meetingroom/pkg/logger"
	"github.com/HusseinMoukalled/meetingroom/pkg/middleware"
	"github.com/HusseinMoukalled/meetingroom/pkg/response"
	"github.com/HusseinMoukalled/meetingroom/pkg/telemetry"
)

// BookingHandler serves the booking HTTP surface.
type BookingHandler struct {
	service  service.BookingService
	breakers *breaker.Registry
	log      *logger.Logger
}

// NewBookingHandler creates a booking handler.
func NewBookingHandler(svc service.BookingService, breakers *breaker.Registry) *BookingHandler {
	return &BookingHandler{
		service:  svc,
		breakers: breakers,
		log:      logger.Get(),
	}
}

// RegisterRoutes mounts the booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r gin.IRouter, authn gin.HandlerFunc) {
	bookings := r.Group("/bookings")
	bookings.Use(authn)
	{
		bookings.POST("/create", h.Create)
		bookings.GET("/check", h.CheckAvailability)
		bookings.GET("/", h.ListAll)
		bookings.GET("/user/:username", h.ListByUser)
		bookings.GET("/:id", h.Get)
		bookings.PUT("/:id", h.Update)
		bookings.DELETE("/:id", h.Cancel)
	}
	r.GET("/circuit-breakers", h.BreakerStatus)
}

// Create handles POST /bookings/create
func (h *BookingHandler) Create(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.create")
	defer span.End()

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	booking, err := h.service.Create(ctx, identity(c), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, dto.FromDomain(booking))
}

// CheckAvailability handles GET /bookings/check
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.check")
	defer span.End()

	var query dto.AvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query parameters: "+err.Error())
		return
	}

	available, err := h.service.CheckAvailability(ctx, query.RoomID, query.Date, query.StartTime, query.EndTime)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, dto.AvailabilityResponse{Available: available})
}

// Get handles GET /bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.get")
	defer span.End()

	booking, err := h.service.Get(ctx, identity(c), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, dto.FromDomain(booking))
}

// ListByUser handles GET /bookings/user/:username
func (h *BookingHandler) ListByUser(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.list_by_user")
	defer span.End()

	bookings, err := h.service.ListByUser(ctx, identity(c), c.Param("username"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, dto.FromDomainList(bookings))
}

// ListAll handles GET /bookings/
func (h *BookingHandler) ListAll(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.list_all")
	defer span.End()

	bookings, err := h.service.ListAll(ctx, identity(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, dto.FromDomainList(bookings))
}

// Update handles PUT /bookings/:id
func (h *BookingHandler) Update(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.update")
	defer span.End()

	var req dto.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	booking, err := h.service.Update(ctx, identity(c), c.Param("id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, dto.FromDomain(booking))
}

// Cancel handles DELETE /bookings/:id
func (h *BookingHandler) Cancel(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.cancel")
	defer span.End()

	id := c.Param("id")
	if err := h.service.Cancel(ctx, identity(c), id); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, dto.DeleteResponse{Detail: "booking " + id + " cancelled"})
}

// BreakerStatus handles GET /circuit-breakers
func (h *BookingHandler) BreakerStatus(c *gin.Context) {
	response.Success(c, h.breakers.States())
}

func (h *BookingHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidTimeRange):
		response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrTimeConflict):
		response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrRoomUnavailable):
		response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		response.Forbidden(c, "you do not have permission to perform this action")
	case domain.IsNotFoundError(err):
		response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrServiceUnavailable):
		response.ServiceUnavailable(c, err.Error())
	default:
		h.log.Error("unhandled booking error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err))
		response.InternalError(c)
	}
}

func identity(c *gin.Context) domain.Identity {
	username, role := middleware.Identity(c)
	return domain.Identity{Username: username, Role: role}
}
