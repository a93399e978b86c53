package product

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/farmconnect/harvest/internal/database"
	"github.com/farmconnect/harvest/internal/dto"
	"github.com/farmconnect/harvest/internal/entity"
)

var repoTracer = otel.Tracer("github.com/farmconnect/harvest/repository/product")

// ErrNotFound is returned when a product is missing, or when an ownership
// filter matched no row.
var ErrNotFound = errors.New("product not found")

// Repository encapsulates read/write access for product listings.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// Create persists a new listing using the write connection.
func (r *Repository) Create(ctx context.Context, product *entity.Product) error {
	if product == nil {
		return errors.New("nil product")
	}
	ctx, span := repoTracer.Start(ctx, "ProductRepository.Create", trace.WithAttributes(attribute.String("product.name", product.Name)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(product).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// GetByID fetches a listing joined with the owning farmer's minimal profile.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	ctx, span := repoTracer.Start(ctx, "ProductRepository.GetByID", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	product := new(entity.Product)
	err := r.reader.NewSelect().Model(product).
		Relation("Farmer", farmerProfileColumns).
		Where("product.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return product, nil
}

// List returns listings matching the filter, newest first, each joined with
// the owning farmer's minimal profile. The full result set is returned.
func (r *Repository) List(ctx context.Context, filter dto.ProductFilter) ([]entity.Product, error) {
	ctx, span := repoTracer.Start(ctx, "ProductRepository.List")
	defer span.End()

	var products []entity.Product
	q := r.reader.NewSelect().Model(&products).
		Relation("Farmer", farmerProfileColumns)

	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}

	if err := q.OrderExpr("?TableAlias.created_at DESC").Scan(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return products, nil
}

// ListByFarmer returns every listing owned by the farmer.
func (r *Repository) ListByFarmer(ctx context.Context, farmerID int64) ([]entity.Product, error) {
	ctx, span := repoTracer.Start(ctx, "ProductRepository.ListByFarmer", trace.WithAttributes(attribute.Int64("farmer.id", farmerID)))
	defer span.End()

	var products []entity.Product
	err := r.reader.NewSelect().Model(&products).
		Where("farmer_id = ?", farmerID).
		OrderExpr("?TableAlias.created_at DESC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return products, nil
}

// Update applies the supplied partial changes to a listing owned by the
// farmer. ErrNotFound is returned when no owned row matched.
func (r *Repository) Update(ctx context.Context, id, farmerID int64, changes dto.UpdateProductRequest) (*entity.Product, error) {
	ctx, span := repoTracer.Start(ctx, "ProductRepository.Update", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	q := r.writer.NewUpdate().Model((*entity.Product)(nil)).
		Where("id = ?", id).
		Where("farmer_id = ?", farmerID)

	if changes.Name != nil {
		q = q.Set("name = ?", *changes.Name)
	}
	if changes.Category != nil {
		q = q.Set("category = ?", *changes.Category)
	}
	if changes.Price != nil {
		q = q.Set("price = ?", *changes.Price)
	}
	if changes.Unit != nil {
		q = q.Set("unit = ?", *changes.Unit)
	}
	if changes.Quantity != nil {
		q = q.Set("quantity = ?", *changes.Quantity)
	}
	if changes.Description != nil {
		q = q.Set("description = ?", *changes.Description)
	}
	if changes.ImageURL != nil {
		q = q.Set("image_url = ?", *changes.ImageURL)
	}
	q = q.Set("updated_at = ?", time.Now().UTC())

	res, err := q.Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// SetQuantity overwrites the stock level of a listing. The caller computes
// the new level; no floor is enforced here.
func (r *Repository) SetQuantity(ctx context.Context, id int64, quantity float64) error {
	ctx, span := repoTracer.Start(ctx, "ProductRepository.SetQuantity", trace.WithAttributes(
		attribute.Int64("product.id", id),
		attribute.Float64("product.quantity", quantity),
	))
	defer span.End()

	_, err := r.writer.NewUpdate().Model((*entity.Product)(nil)).
		Set("quantity = ?", quantity).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
	}
	return err
}

// Delete removes a listing owned by the farmer.
func (r *Repository) Delete(ctx context.Context, id, farmerID int64) error {
	ctx, span := repoTracer.Start(ctx, "ProductRepository.Delete", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	res, err := r.writer.NewDelete().Model((*entity.Product)(nil)).
		Where("id = ?", id).
		Where("farmer_id = ?", farmerID).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		span.SetStatus(codes.Error, "not found")
		return ErrNotFound
	}
	return nil
}

func farmerProfileColumns(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Column("id", "full_name", "email", "phone")
}
