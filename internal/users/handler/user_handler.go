package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/HusseinMoukalled/meetingroom/internal/users/domain"
	"github.com/HusseinMoukalled/meetingroom/internal/users/dto"
	"github.com/HusseinMoukalled/meetingroom/internal/users/service"
	"github.com/HusseinMoukalled/meetingroom/pkg/logger"
	"github.com/HusseinMoukalled/meetingroom/pkg/middleware"
	"github.com/HusseinMoukalled/meetingroom/pkg/response"
	"github.com/HusseinMoukalled/meetingroom/pkg/telemetry"
)

// UserHandler serves the users HTTP surface.
type UserHandler struct {
	service service.UserService
	log     *logger.Logger
}

// NewUserHandler creates a user handler.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{
		service: svc,
		log:     logger.Get(),
	}
}

// RegisterRoutes mounts the user routes on the given router group.
// Register, login and the username lookup are public; the lookup doubles
// as the directory endpoint consumed by the other services.
func (h *UserHandler) RegisterRoutes(r gin.IRouter, authn gin.HandlerFunc) {
	users := r.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.GET("/:username", h.Get)

		users.GET("/", authn, h.List)
		users.PUT("/:username", authn, h.Update)
		users.DELETE("/:username", authn, h.Delete)
		users.GET("/:username/history", authn, h.History)
	}
}

// Register handles POST /users/register
func (h *UserHandler) Register(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.user.register")
	defer span.End()

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, err := h.service.Register(ctx, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, dto.FromDomain(user))
}

// Login handles POST /users/login
func (h *UserHandler) Login(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.user.login")
	defer span.End()

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	token, err := h.service.Login(ctx, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, token)
}

// List handles GET /users/
func (h *UserHandler) List(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.user.list")
	defer span.End()

	users, err := h.service.List(ctx, identity(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, dto.FromDomainList(users))
}

// Get handles GET /users/:username
func (h *UserHandler) Get(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.user.get")
	defer span.End()

	user, err := h.service.Get(ctx, c.Param("username"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, dto.FromDomain(user))
}

// Update handles PUT /users/:username
func (h *UserHandler) Update(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.user.update")
	defer span.End()

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, err := h.service.Update(ctx, identity(c), c.Param("username"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, dto.FromDomain(user))
}

// Delete handles DELETE /users/:username
func (h *UserHandler) Delete(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.user.delete")
	defer span.End()

	username := c.Param("username")
	if err := h.service.Delete(ctx, identity(c), username); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, dto.DeleteResponse{Detail: "user " + username + " deleted"})
}

// History handles GET /users/:username/history
func (h *UserHandler) History(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.user.history")
	defer span.End()

	history, err := h.service.History(ctx, identity(c), c.Param("username"),
		c.GetHeader("Authorization"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, history)
}

func (h *UserHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrDuplicateUsername):
		response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.Error(c, http.StatusBadRequest, "INVALID_CREDENTIALS", err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidInput):
		response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		response.Forbidden(c, "you do not have permission to perform this action")
	case errors.Is(err, domain.ErrUserNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrServiceUnavailable):
		response.ServiceUnavailable(c, err.Error())
	default:
		h.log.Error("unhandled user error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err))
		response.InternalError(c)
	}
}

func identity(c *gin.Context) domain.Identity {
	username, role := middleware.Identity(c)
	return domain.Identity{Username: username, Role: role}
}
