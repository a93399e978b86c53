package product

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
	service "github.com/farmconnect/harvest/internal/service/product"
	"github.com/farmconnect/harvest/internal/transport/http/middleware"
	"github.com/farmconnect/harvest/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/farmconnect/harvest/transport/http/product")

// Handler exposes catalog endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a product Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo group. Reads are public; writes
// require an authenticated farmer.
func Register(api *echo.Group, h *Handler, tokens *auth.TokenManager) {
	g := api.Group("/products")
	g.GET("", h.list)
	g.GET("/:id", h.getByID)

	farmerOnly := []echo.MiddlewareFunc{
		middleware.Authenticate(tokens),
		middleware.RequireRoles(entity.RoleFarmer),
	}
	g.POST("", h.create, farmerOnly...)
	g.PUT("/:id", h.update, farmerOnly...)
	g.DELETE("/:id", h.delete, farmerOnly...)
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	filter := dto.ProductFilter{Category: c.QueryParam("category")}
	if raw := c.QueryParam("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return b.WithError(errorbank.BadRequest("invalid min_price", errorbank.WithCause(err))).Build()
		}
		filter.MinPrice = &v
	}
	if raw := c.QueryParam("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return b.WithError(errorbank.BadRequest("invalid max_price", errorbank.WithCause(err))).Build()
		}
		filter.MaxPrice = &v
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "products.list")
	defer span.End()

	products, err := h.svc.List(ctx, filter)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithCount(len(products)).WithData(toDTOs(products)).Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "products.getByID", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	product, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toDTO(product)).Build()
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return b.WithError(errorbank.Unauthorized("missing authorization token")).Build()
	}

	var payload dto.CreateProductRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "products.create", trace.WithAttributes(attribute.Int64("farmer.id", identity.UserID)))
	defer span.End()

	product, err := h.svc.Create(ctx, identity.UserID, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).
		WithMessage("product created successfully").
		WithData(toDTO(product)).
		Build()
}

func (h *Handler) update(c echo.Context) error {
	b := response.New(c)

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return b.WithError(errorbank.Unauthorized("missing authorization token")).Build()
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	var payload dto.UpdateProductRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "products.update", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	product, err := h.svc.Update(ctx, identity.UserID, id, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithMessage("product updated successfully").WithData(toDTO(product)).Build()
}

func (h *Handler) delete(c echo.Context) error {
	b := response.New(c)

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return b.WithError(errorbank.Unauthorized("missing authorization token")).Build()
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "products.delete", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	if err := h.svc.Delete(ctx, identity.UserID, id); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithMessage("product deleted successfully").Build()
}

func toDTO(product *entity.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:          product.ID,
		FarmerID:    product.FarmerID,
		Name:        product.Name,
		Category:    product.Category,
		Price:       product.Price,
		Unit:        product.Unit,
		Quantity:    product.Quantity,
		Description: product.Description,
		ImageURL:    product.ImageURL,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	if product.Farmer != nil {
		resp.Farmer = &dto.UserProfile{
			ID:       product.Farmer.ID,
			FullName: product.Farmer.FullName,
			Email:    product.Farmer.Email,
			Phone:    product.Farmer.Phone,
		}
	}
	return resp
}

func toDTOs(products []entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, toDTO(&products[i]))
	}
	return out
}
