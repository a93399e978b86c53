package farmer

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/farmconnect/harvest/internal/auth"
	"github.com/farmconnect/harvest/internal/dto"
	"github.com/farmconnect/harvest/internal/entity"
	"github.com/farmconnect/harvest/internal/presentation/http/response"
	service "github.com/farmconnect/harvest/internal/service/farmer"
	usersvc "github.com/farmconnect/harvest/internal/service/user"
	"github.com/farmconnect/harvest/internal/transport/http/middleware"
	"github.com/farmconnect/harvest/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/farmconnect/harvest/transport/http/farmer")

// Handler exposes the farmer dashboard and profile endpoints.
type Handler struct {
	svc   *service.Service
	users *usersvc.Service
}

// NewHandler constructs a farmer Handler.
func NewHandler(svc *service.Service, users *usersvc.Service) *Handler {
	return &Handler{svc: svc, users: users}
}

// Register routes with the provided Echo group. Stats are farmer-only;
// profile updates are open to any authenticated user.
func Register(api *echo.Group, h *Handler, tokens *auth.TokenManager) {
	authed := middleware.Authenticate(tokens)

	g := api.Group("/farmer")
	g.GET("/stats", h.stats, authed, middleware.RequireRoles(entity.RoleFarmer))
	g.PUT("/profile", h.updateProfile, authed)
}

func (h *Handler) stats(c echo.Context) error {
	b := response.New(c)

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return b.WithError(errorbank.Unauthorized("missing authorization token")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "farmer.stats", trace.WithAttributes(attribute.Int64("farmer.id", identity.UserID)))
	defer span.End()

	stats, err := h.svc.Stats(ctx, identity.UserID)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(stats).Build()
}

func (h *Handler) updateProfile(c echo.Context) error {
	b := response.New(c)

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return b.WithError(errorbank.Unauthorized("missing authorization token")).Build()
	}

	var payload dto.UpdateProfileRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "farmer.updateProfile", trace.WithAttributes(attribute.Int64("user.id", identity.UserID)))
	defer span.End()

	user, err := h.users.UpdateProfile(ctx, identity.UserID, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithMessage("profile updated successfully").
		WithData(dto.UserResponse{
			ID:        user.ID,
			Email:     user.Email,
			Phone:     user.Phone,
			FullName:  user.FullName,
			Role:      string(user.Role),
			CreatedAt: user.CreatedAt,
			UpdatedAt: user.UpdatedAt,
		}).
		Build()
}
