package auth

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"

	"github.com/farmconnect/harvest/internal/dto"
	"github.com/farmconnect/harvest/internal/entity"
	"github.com/farmconnect/harvest/internal/presentation/http/response"
	service "github.com/farmconnect/harvest/internal/service/user"
	"github.com/farmconnect/harvest/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/farmconnect/harvest/transport/http/auth")

// Handler exposes registration, login, and public profile lookup.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an auth Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo group.
func Register(api *echo.Group, h *Handler) {
	g := api.Group("/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.GET("/profile/:id", h.profile)
}

func (h *Handler) register(c echo.Context) error {
	b := response.New(c)

	var payload dto.RegisterRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "auth.register")
	defer span.End()

	user, token, err := h.svc.Register(ctx, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).
		WithMessage("user registered successfully").
		WithData(dto.AuthResponse{Token: token, User: toUserDTO(user)}).
		Build()
}

func (h *Handler) login(c echo.Context) error {
	b := response.New(c)

	var payload dto.LoginRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "auth.login")
	defer span.End()

	user, token, err := h.svc.Login(ctx, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithMessage("login successful").
		WithData(dto.AuthResponse{Token: token, User: toUserDTO(user)}).
		Build()
}

func (h *Handler) profile(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "auth.profile")
	defer span.End()

	user, err := h.svc.Profile(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toUserDTO(user)).Build()
}

func toUserDTO(user *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Phone:     user.Phone,
		FullName:  user.FullName,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
