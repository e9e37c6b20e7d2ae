package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/HusseinMoukalled/meetingroom/internal/rooms/domain"
	"github.com/HusseinMoukalled/meetingroom/internal/rooms/dto"
	"github.com/HusseinMoukalled/meetingroom/internal/rooms/service"
	"github.com/HusseinMoukalled/meetingroom/pkg/logger"
	"github.com/HusseinMoukalled/meetingroom/pkg/middleware"
	"github.com/HusseinMoukalled/meetingroom/pkg/response"
	"github.com/HusseinMoukalled/meetingroom/pkg/telemetry"
)

// RoomHandler serves the rooms HTTP surface.
type RoomHandler struct {
	service service.RoomService
	log     *logger.Logger
}

// NewRoomHandler creates a room handler.
func NewRoomHandler(svc service.RoomService) *RoomHandler {
	return &RoomHandler{
		service: svc,
		log:     logger.Get(),
	}
}

// RegisterRoutes mounts the room routes on the given router group.
// Mutations require an administrator; the status endpoint is the public
// directory lookup consumed by the bookings and reviews services.
func (h *RoomHandler) RegisterRoutes(r gin.IRouter, authn gin.HandlerFunc) {
	rooms := r.Group("/rooms")
	{
		rooms.GET("/available", h.ListAvailable)
		rooms.GET("/status/:id", h.Status)

		admin := rooms.Group("")
		admin.Use(authn, middleware.RequireAdmin())
		{
			admin.POST("/add", h.Add)
			admin.PUT("/update/:id", h.Update)
			admin.DELETE("/delete/:id", h.Delete)
		}
	}
}

// Add handles POST /rooms/add
func (h *RoomHandler) Add(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.add")
	defer span.End()

	var req dto.AddRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	room, err := h.service.Add(ctx, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, dto.FromDomain(room))
}

// ListAvailable handles GET /rooms/available
func (h *RoomHandler) ListAvailable(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.list_available")
	defer span.End()

	var query dto.AvailableQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query parameters: "+err.Error())
		return
	}

	rooms, err := h.service.ListAvailable(ctx, &query)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, dto.FromDomainList(rooms))
}

// Status handles GET /rooms/status/:id
func (h *RoomHandler) Status(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.status")
	defer span.End()

	id, err := roomID(c)
	if err != nil {
		response.BadRequest(c, "invalid room id")
		return
	}

	room, err := h.service.Get(ctx, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, dto.StatusResponse{RoomID: room.ID, IsAvailable: room.IsAvailable})
}

// Update handles PUT /rooms/update/:id
func (h *RoomHandler) Update(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.update")
	defer span.End()

	id, err := roomID(c)
	if err != nil {
		response.BadRequest(c, "invalid room id")
		return
	}

	var req dto.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	room, err := h.service.Update(ctx, id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, dto.FromDomain(room))
}

// Delete handles DELETE /rooms/delete/:id
func (h *RoomHandler) Delete(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.delete")
	defer span.End()

	id, err := roomID(c)
	if err != nil {
		response.BadRequest(c, "invalid room id")
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, dto.DeleteResponse{Detail: "room " + c.Param("id") + " deleted"})
}

func (h *RoomHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		response.Forbidden(c, "you do not have permission to perform this action")
	case errors.Is(err, domain.ErrRoomNotFound):
		response.NotFound(c, err.Error())
	default:
		h.log.Error("unhandled room error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err))
		response.InternalError(c)
	}
}

func roomID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
