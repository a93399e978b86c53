package farmer

import (
	"context"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/farmconnect/harvest/internal/dto"
	"github.com/farmconnect/harvest/internal/entity"
	orderrepo "github.com/farmconnect/harvest/internal/repository/order"
	productrepo "github.com/farmconnect/harvest/internal/repository/product"
	"github.com/farmconnect/harvest/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/farmconnect/harvest/service/farmer")

// Stock below this level counts as low on the dashboard.
const lowStockThreshold = 20

// Service computes dashboard aggregates for farmers.
type Service struct {
	products *productrepo.Repository
	orders   *orderrepo.Repository
	logger   *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Products *productrepo.Repository
	Orders   *orderrepo.Repository
	Logger   *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		products: p.Products,
		orders:   p.Orders,
		logger:   p.Logger,
	}
}

// Stats fetches the farmer's full product and order sets and aggregates them
// in memory. Revenue counts ACCEPTED and COMPLETED orders.
func (s *Service) Stats(ctx context.Context, farmerID int64) (dto.FarmerStats, error) {
	ctx, span := serviceTracer.Start(ctx, "FarmerService.Stats", trace.WithAttributes(attribute.Int64("farmer.id", farmerID)))
	defer span.End()

	products, err := s.products.ListByFarmer(ctx, farmerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return dto.FarmerStats{}, errorbank.Internal("failed to load products", errorbank.WithCause(err))
	}

	orders, err := s.orders.ListByFarmer(ctx, farmerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return dto.FarmerStats{}, errorbank.Internal("failed to load orders", errorbank.WithCause(err))
	}

	stats := dto.FarmerStats{
		TotalProducts: len(products),
		TotalOrders:   len(orders),
	}

	var inventoryValue float64
	for _, product := range products {
		inventoryValue += product.Price * product.Quantity
		if product.Quantity < lowStockThreshold {
			stats.LowStockProducts++
		}
	}

	var revenue float64
	for _, order := range orders {
		switch order.Status {
		case entity.OrderPending:
			stats.PendingOrders++
		case entity.OrderAccepted:
			stats.AcceptedOrders++
		}
		if order.Status == entity.OrderAccepted || order.Status == entity.OrderCompleted {
			revenue += order.TotalAmount
		}
	}

	stats.TotalInventoryValue = round2(inventoryValue)
	stats.TotalRevenue = round2(revenue)
	return stats, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
