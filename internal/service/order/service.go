package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/farmconnect/harvest/internal/config"
	"github.com/farmconnect/harvest/internal/dto"
	"github.com/farmconnect/harvest/internal/entity"
	"github.com/farmconnect/harvest/internal/messaging"
	repo "github.com/farmconnect/harvest/internal/repository/order"
	productrepo "github.com/farmconnect/harvest/internal/repository/product"
	productsvc "github.com/farmconnect/harvest/internal/service/product"
	"github.com/farmconnect/harvest/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/farmconnect/harvest/service/order")

// Service drives the order lifecycle: PENDING orders placed by buyers,
// accepted or rejected by the owning farmer.
//
// Stock handling is deliberately loose: placing an order checks stock
// without reserving it, and acceptance writes the status change and the
// stock decrement as two independent statements. Concurrent accepts against
// the same product can oversell. See DESIGN.md for the full discussion.
type Service struct {
	repo      *repo.Repository
	products  *productrepo.Repository
	catalog   *productsvc.Service
	logger    *zap.Logger
	publisher messaging.Client
	messaging messagingConfig
}

// messagingConfig contains messaging specific knobs we care about.
type messagingConfig struct {
	enabled bool
	topic   string
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	Products   *productrepo.Repository
	Catalog    *productsvc.Service
	Config     config.Config
	Logger     *zap.Logger
	Publisher  messaging.Client
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:      p.Repository,
		products:  p.Products,
		catalog:   p.Catalog,
		logger:    p.Logger,
		publisher: p.Publisher,
		messaging: messagingConfig{
			enabled: p.Config.Messaging.Enabled,
			topic:   p.Config.Messaging.Kafka.Topic,
		},
	}
}

// Place creates a PENDING order for the buyer. The product's unit price and
// the computed total are snapshotted at this instant; later price edits do
// not affect existing orders. Stock is checked but not decremented.
func (s *Service) Place(ctx context.Context, buyerID int64, req dto.CreateOrderRequest) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Place", trace.WithAttributes(
		attribute.Int64("buyer.id", buyerID),
		attribute.Int64("product.id", req.ProductID),
	))
	defer span.End()

	if req.ProductID == 0 || req.Quantity <= 0 {
		return nil, errorbank.BadRequest("product_id and quantity are required")
	}

	product, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, productrepo.ErrNotFound) {
			return nil, errorbank.NotFound("product not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load product", errorbank.WithCause(err))
	}

	if product.Quantity < req.Quantity {
		return nil, errorbank.BadRequest(fmt.Sprintf("not enough stock. available: %g %s", product.Quantity, product.Unit))
	}

	now := time.Now().UTC()
	order := &entity.Order{
		BuyerID:         buyerID,
		FarmerID:        product.FarmerID,
		ProductID:       product.ID,
		Quantity:        req.Quantity,
		UnitPrice:       product.Price,
		TotalAmount:     product.Price * req.Quantity,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
		Status:          entity.OrderPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create order", errorbank.WithCause(err))
	}

	s.publishEvent(ctx, eventOrderPlaced, order)
	return order, nil
}

// Accept transitions a PENDING order to ACCEPTED and decrements the product
// stock by the order quantity. Ownership is enforced by loading the order
// filtered on the farmer id. The two writes are not atomic.
func (s *Service) Accept(ctx context.Context, farmerID, orderID int64) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Accept", trace.WithAttributes(
		attribute.Int64("farmer.id", farmerID),
		attribute.Int64("order.id", orderID),
	))
	defer span.End()

	order, err := s.loadOwned(ctx, span, farmerID, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != entity.OrderPending {
		return nil, errorbank.BadRequest(fmt.Sprintf("cannot accept order with status: %s", order.Status))
	}

	updated, err := s.repo.SetStatus(ctx, orderID, entity.OrderAccepted, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to accept order", errorbank.WithCause(err))
	}

	if order.Product != nil {
		if err := s.products.SetQuantity(ctx, order.ProductID, order.Product.Quantity-order.Quantity); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "stock update failed")
			return nil, errorbank.Internal("failed to update product stock", errorbank.WithCause(err))
		}
		s.catalog.Invalidate(ctx, order.ProductID)
	}

	s.publishEvent(ctx, eventOrderAccepted, updated)
	return updated, nil
}

// Reject transitions a PENDING order to REJECTED. A non-empty reason
// overwrites the order notes. Stock is untouched.
func (s *Service) Reject(ctx context.Context, farmerID, orderID int64, reason string) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Reject", trace.WithAttributes(
		attribute.Int64("farmer.id", farmerID),
		attribute.Int64("order.id", orderID),
	))
	defer span.End()

	order, err := s.loadOwned(ctx, span, farmerID, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != entity.OrderPending {
		return nil, errorbank.BadRequest(fmt.Sprintf("cannot reject order with status: %s", order.Status))
	}

	var notes *string
	if reason != "" {
		notes = &reason
	}

	updated, err := s.repo.SetStatus(ctx, orderID, entity.OrderRejected, notes)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to reject order", errorbank.WithCause(err))
	}

	s.publishEvent(ctx, eventOrderRejected, updated)
	return updated, nil
}

// FarmerOrders lists the farmer's orders, optionally filtered by status.
func (s *Service) FarmerOrders(ctx context.Context, farmerID int64, status entity.OrderStatus) ([]entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.FarmerOrders", trace.WithAttributes(attribute.Int64("farmer.id", farmerID)))
	defer span.End()

	orders, err := s.repo.ListForFarmer(ctx, farmerID, status)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list orders", errorbank.WithCause(err))
	}
	return orders, nil
}

// BuyerOrders lists the buyer's orders.
func (s *Service) BuyerOrders(ctx context.Context, buyerID int64) ([]entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.BuyerOrders", trace.WithAttributes(attribute.Int64("buyer.id", buyerID)))
	defer span.End()

	orders, err := s.repo.ListForBuyer(ctx, buyerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list orders", errorbank.WithCause(err))
	}
	return orders, nil
}

func (s *Service) loadOwned(ctx context.Context, span trace.Span, farmerID, orderID int64) (*entity.Order, error) {
	order, err := s.repo.GetForFarmer(ctx, orderID, farmerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}
	return order, nil
}

// Event types published on the order topic.
const (
	eventOrderPlaced   = "order.placed"
	eventOrderAccepted = "order.accepted"
	eventOrderRejected = "order.rejected"
)

// OrderEvent is emitted on every order lifecycle change.
type OrderEvent struct {
	Type        string    `json:"type"`
	ID          int64     `json:"id"`
	BuyerID     int64     `json:"buyer_id"`
	FarmerID    int64     `json:"farmer_id"`
	ProductID   int64     `json:"product_id"`
	Quantity    float64   `json:"quantity"`
	TotalAmount float64   `json:"total_amount"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (s *Service) publishEvent(ctx context.Context, eventType string, order *entity.Order) {
	if !s.messaging.enabled || s.publisher == nil {
		return
	}
	event := OrderEvent{
		Type:        eventType,
		ID:          order.ID,
		BuyerID:     order.BuyerID,
		FarmerID:    order.FarmerID,
		ProductID:   order.ProductID,
		Quantity:    order.Quantity,
		TotalAmount: order.TotalAmount,
		Status:      string(order.Status),
		OccurredAt:  time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("marshal order event", zap.Error(err))
		}
		return
	}
	if err := s.publisher.Publish(ctx, []byte(fmt.Sprintf("order-%d", order.ID)), payload); err != nil {
		if s.logger != nil {
			s.logger.Error("publish order event", zap.String("type", eventType), zap.Error(err))
		}
	}
}
