package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/HusseinMoukalled/meetingroom/internal/reviews/domain"
	"github.com/HusseinMoukalled/meetingroom/internal/reviews/dto"
	"github.com/HusseinMoukalled/meetingroom/internal/reviews/service"
	"github.com/HusseinMoukalled/meetingroom/pkg/logger"
	"github.com/HusseinMoukalled/meetingroom/pkg/middleware"
	"github.com/HusseinMoukalled/meetingroom/pkg/response"
	"github.com/HusseinMoukalled/meetingroom/pkg/telemetry"
)

// ReviewHandler serves the reviews HTTP surface.
type ReviewHandler struct {
	service service.ReviewService
	log     *logger.Logger
}

// NewReviewHandler creates a review handler.
func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		log:     logger.Get(),
	}
}

// RegisterRoutes mounts the review routes on the given router group.
// Reads are public, mutations require authentication.
func (h *ReviewHandler) RegisterRoutes(r gin.IRouter, authn gin.HandlerFunc) {
	reviews := r.Group("/reviews")
	{
		reviews.GET("/room/:room_id", h.ListByRoom)
		reviews.GET("/user/:username", h.ListByUser)
		reviews.GET("/:id", h.Get)

		reviews.POST("/create", authn, h.Create)
		reviews.PUT("/:id", authn, h.Update)
		reviews.POST("/:id/flag", authn, h.Flag)
		reviews.DELETE("/:id", authn, h.Delete)
	}
}

// Create handles POST /reviews/create
func (h *ReviewHandler) Create(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.review.create")
	defer span.End()

	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	review, err := h.service.Create(ctx, identity(c), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, dto.FromDomain(review))
}

// Get handles GET /reviews/:id
func (h *ReviewHandler) Get(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.review.get")
	defer span.End()

	id, err := reviewID(c)
	if err != nil {
		response.BadRequest(c, "invalid review id")
		return
	}

	review, err := h.service.Get(ctx, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, dto.FromDomain(review))
}

// ListByRoom handles GET /reviews/room/:room_id
func (h *ReviewHandler) ListByRoom(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.review.list_by_room")
	defer span.End()

	roomID, err := strconv.ParseInt(c.Param("room_id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid room id")
		return
	}

	reviews, err := h.service.ListByRoom(ctx, roomID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, dto.FromDomainList(reviews))
}

// ListByUser handles GET /reviews/user/:username
func (h *ReviewHandler) ListByUser(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.review.list_by_user")
	defer span.End()

	reviews, err := h.service.ListByUser(ctx, c.Param("username"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, dto.FromDomainList(reviews))
}

// Update handles PUT /reviews/:id
func (h *ReviewHandler) Update(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.review.update")
	defer span.End()

	id, err := reviewID(c)
	if err != nil {
		response.BadRequest(c, "invalid review id")
		return
	}

	var req dto.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	review, err := h.service.Update(ctx, identity(c), id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, dto.FromDomain(review))
}

// Flag handles POST /reviews/:id/flag
func (h *ReviewHandler) Flag(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.review.flag")
	defer span.End()

	id, err := reviewID(c)
	if err != nil {
		response.BadRequest(c, "invalid review id")
		return
	}

	var req dto.FlagReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	review, err := h.service.Flag(ctx, identity(c), id, req.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, dto.FromDomain(review))
}

// Delete handles DELETE /reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.review.delete")
	defer span.End()

	id, err := reviewID(c)
	if err != nil {
		response.BadRequest(c, "invalid review id")
		return
	}

	if err := h.service.Delete(ctx, identity(c), id); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, dto.DeleteResponse{Detail: "review " + c.Param("id") + " deleted"})
}

func (h *ReviewHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		response.Forbidden(c, "you do not have permission to perform this action")
	case errors.Is(err, domain.ErrReviewNotFound),
		errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrServiceUnavailable):
		response.ServiceUnavailable(c, err.Error())
	default:
		h.log.Error("unhandled review error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err))
		response.InternalError(c)
	}
}

func identity(c *gin.Context) domain.Identity {
	username, role := middleware.Identity(c)
	return domain.Identity{Username: username, Role: role}
}

func reviewID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
