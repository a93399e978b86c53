package product

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

	"github.com/farmconnect/harvest/internal/cache"
	"github.com/farmconnect/harvest/internal/config"
	"github.com/farmconnect/harvest/internal/dto"
	"github.com/farmconnect/harvest/internal/entity"
	repo "github.com/farmconnect/harvest/internal/repository/product"
	"github.com/farmconnect/harvest/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/farmconnect/harvest/service/product")

// Service encapsulates catalog business logic around product listings.
type Service struct {
	repo     *repo.Repository
	cache    cache.Store
	cacheTTL time.Duration
	logger   *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:     p.Repository,
		cache:    p.Cache,
		cacheTTL: p.Config.Cache.DefaultTTL,
		logger:   p.Logger,
	}
}

// Create adds a listing owned by the calling farmer.
func (s *Service) Create(ctx context.Context, farmerID int64, req dto.CreateProductRequest) (*entity.Product, error) {
	ctx, span := serviceTracer.Start(ctx, "ProductService.Create", trace.WithAttributes(attribute.Int64("farmer.id", farmerID)))
	defer span.End()

	if req.Name == "" || req.Category == "" || req.Unit == "" || req.Price <= 0 || req.Quantity <= 0 {
		return nil, errorbank.BadRequest("name, category, price, unit, and quantity are required")
	}

	now := time.Now().UTC()
	product := &entity.Product{
		FarmerID:    farmerID,
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Unit:        req.Unit,
		Quantity:    req.Quantity,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create product", errorbank.WithCause(err))
	}

	if err := s.storeInCache(ctx, product); err != nil {
		if s.logger != nil {
			s.logger.Warn("products cache write failed", zap.Int64("id", product.ID), zap.Error(err))
		}
	}

	return product, nil
}

// List returns the full set of listings matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter dto.ProductFilter) ([]entity.Product, error) {
	ctx, span := serviceTracer.Start(ctx, "ProductService.List")
	defer span.End()

	products, err := s.repo.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list products", errorbank.WithCause(err))
	}
	return products, nil
}

// Get retrieves a listing by id, consulting cache when available.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Product, error) {
	ctx, span := serviceTracer.Start(ctx, "ProductService.Get", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	if product, err := s.getFromCache(ctx, id); err == nil {
		return product, nil
	} else if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		if s.logger != nil {
			s.logger.Warn("products cache read failed", zap.Int64("id", id), zap.Error(err))
		}
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("product not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load product", errorbank.WithCause(err))
	}

	if err := s.storeInCache(ctx, product); err != nil {
		if s.logger != nil {
			s.logger.Warn("products cache write failed", zap.Int64("id", id), zap.Error(err))
		}
	}

	return product, nil
}

// Update applies a partial change set to a listing owned by the farmer.
func (s *Service) Update(ctx context.Context, farmerID, id int64, req dto.UpdateProductRequest) (*entity.Product, error) {
	ctx, span := serviceTracer.Start(ctx, "ProductService.Update", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	if req.Empty() {
		return nil, errorbank.BadRequest("no fields to update")
	}

	product, err := s.repo.Update(ctx, id, farmerID, req)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("product not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to update product", errorbank.WithCause(err))
	}

	s.invalidate(ctx, id)
	return product, nil
}

// Delete removes a listing owned by the farmer.
func (s *Service) Delete(ctx context.Context, farmerID, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "ProductService.Delete", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	if err := s.repo.Delete(ctx, id, farmerID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errorbank.NotFound("product not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to delete product", errorbank.WithCause(err))
	}

	s.invalidate(ctx, id)
	return nil
}

// Invalidate drops the cached copy of a listing. Called by the order flow
// after stock changes.
func (s *Service) Invalidate(ctx context.Context, id int64) {
	s.invalidate(ctx, id)
}

func (s *Service) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.cacheKey(id)); err != nil {
		if s.logger != nil {
			s.logger.Warn("products cache delete failed", zap.Int64("id", id), zap.Error(err))
		}
	}
}

func (s *Service) cacheKey(id int64) string {
	return fmt.Sprintf("products:%d", id)
}

func (s *Service) getFromCache(ctx context.Context, id int64) (*entity.Product, error) {
	if s.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	bytes, err := s.cache.Get(ctx, s.cacheKey(id))
	if err != nil {
		return nil, err
	}
	var product entity.Product
	if err := json.Unmarshal(bytes, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *Service) storeInCache(ctx context.Context, product *entity.Product) error {
	if s.cache == nil || product == nil {
		return nil
	}
	bytes, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, s.cacheKey(product.ID), bytes, s.cacheTTL)
}
