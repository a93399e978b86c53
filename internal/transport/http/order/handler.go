package order

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/farmconnect/harvest/internal/auth"
	"github.com/farmconnect/harvest/internal/dto"
	"github.com/farmconnect/harvest/internal/entity"
	"github.com/farmconnect/harvest/internal/presentation/http/response"
	service "github.com/farmconnect/harvest/internal/service/order"
	"github.com/farmconnect/harvest/internal/transport/http/middleware"
	"github.com/farmconnect/harvest/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/farmconnect/harvest/transport/http/order")

// Handler exposes order lifecycle endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo group. Every route requires a
// bearer token; farmer routes additionally require the FARMER role.
func Register(api *echo.Group, h *Handler, tokens *auth.TokenManager) {
	authed := middleware.Authenticate(tokens)
	farmerOnly := middleware.RequireRoles(entity.RoleFarmer)

	g := api.Group("/orders")
	g.POST("", h.create, authed)
	g.GET("/buyer", h.buyerOrders, authed)
	g.GET("/farmer", h.farmerOrders, authed, farmerOnly)
	g.PUT("/:id/accept", h.accept, authed, farmerOnly)
	g.PUT("/:id/reject", h.reject, authed, farmerOnly)
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return b.WithError(errorbank.Unauthorized("missing authorization token")).Build()
	}

	var payload dto.CreateOrderRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create", trace.WithAttributes(
		attribute.Int64("buyer.id", identity.UserID),
		attribute.Int64("product.id", payload.ProductID),
	))
	defer span.End()

	order, err := h.svc.Place(ctx, identity.UserID, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).
		WithMessage("order placed successfully").
		WithData(toDTO(order)).
		Build()
}

func (h *Handler) buyerOrders(c echo.Context) error {
	b := response.New(c)

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return b.WithError(errorbank.Unauthorized("missing authorization token")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.buyerOrders", trace.WithAttributes(attribute.Int64("buyer.id", identity.UserID)))
	defer span.End()

	orders, err := h.svc.BuyerOrders(ctx, identity.UserID)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithCount(len(orders)).WithData(toDTOs(orders)).Build()
}

func (h *Handler) farmerOrders(c echo.Context) error {
	b := response.New(c)

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return b.WithError(errorbank.Unauthorized("missing authorization token")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.farmerOrders", trace.WithAttributes(attribute.Int64("farmer.id", identity.UserID)))
	defer span.End()

	status := entity.OrderStatus(c.QueryParam("status"))
	orders, err := h.svc.FarmerOrders(ctx, identity.UserID, status)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithCount(len(orders)).WithData(toDTOs(orders)).Build()
}

func (h *Handler) accept(c echo.Context) error {
	b := response.New(c)

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return b.WithError(errorbank.Unauthorized("missing authorization token")).Build()
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.accept", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.Accept(ctx, identity.UserID, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithMessage("order accepted successfully").WithData(toDTO(order)).Build()
}

func (h *Handler) reject(c echo.Context) error {
	b := response.New(c)

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return b.WithError(errorbank.Unauthorized("missing authorization token")).Build()
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	var payload dto.RejectOrderRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.reject", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.Reject(ctx, identity.UserID, id, payload.Reason)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithMessage("order rejected").WithData(toDTO(order)).Build()
}

func toDTO(order *entity.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:              order.ID,
		BuyerID:         order.BuyerID,
		FarmerID:        order.FarmerID,
		ProductID:       order.ProductID,
		Quantity:        order.Quantity,
		UnitPrice:       order.UnitPrice,
		TotalAmount:     order.TotalAmount,
		DeliveryAddress: order.DeliveryAddress,
		Notes:           order.Notes,
		Status:          string(order.Status),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
	if order.Buyer != nil {
		resp.Buyer = &dto.UserProfile{
			ID:       order.Buyer.ID,
			FullName: order.Buyer.FullName,
			Email:    order.Buyer.Email,
			Phone:    order.Buyer.Phone,
		}
	}
	if order.Farmer != nil {
		resp.Farmer = &dto.UserProfile{
			ID:       order.Farmer.ID,
			FullName: order.Farmer.FullName,
			Phone:    order.Farmer.Phone,
		}
	}
	if order.Product != nil {
		resp.Product = &dto.ProductSummary{
			ID:       order.Product.ID,
			Name:     order.Product.Name,
			Unit:     order.Product.Unit,
			ImageURL: order.Product.ImageURL,
		}
	}
	return resp
}

func toDTOs(orders []entity.Order) []dto.OrderResponse {
	out := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toDTO(&orders[i]))
	}
	return out
}
