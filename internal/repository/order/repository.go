package order

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
	"github.com/farmconnect/harvest/internal/entity"
)

var repoTracer = otel.Tracer("github.com/farmconnect/harvest/repository/order")

// ErrNotFound is returned when an order is missing, or when an ownership
// filter matched no row.
var ErrNotFound = errors.New("order not found")

// Repository encapsulates read/write access for orders.
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

// Create persists a new order using the write connection.
func (r *Repository) Create(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Create", trace.WithAttributes(attribute.Int64("order.product_id", order.ProductID)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(order).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// GetByID fetches an order by primary key using the read replica when available.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.GetByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order := new(entity.Order)
	err := r.reader.NewSelect().Model(order).Where("?TableAlias.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return order, nil
}

// GetForFarmer fetches an order filtered by both id and the owning farmer,
// joined with the current product so callers can see live stock.
func (r *Repository) GetForFarmer(ctx context.Context, id, farmerID int64) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.GetForFarmer", trace.WithAttributes(
		attribute.Int64("order.id", id),
		attribute.Int64("farmer.id", farmerID),
	))
	defer span.End()

	order := new(entity.Order)
	err := r.reader.NewSelect().Model(order).
		Relation("Product").
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.farmer_id = ?", farmerID).
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
	return order, nil
}

// SetStatus transitions an order and stamps the update time. A non-nil notes
// pointer overwrites the stored notes. The updated row is returned.
func (r *Repository) SetStatus(ctx context.Context, id int64, status entity.OrderStatus, notes *string) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.SetStatus", trace.WithAttributes(
		attribute.Int64("order.id", id),
		attribute.String("order.status", string(status)),
	))
	defer span.End()

	q := r.writer.NewUpdate().Model((*entity.Order)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id)
	if notes != nil {
		q = q.Set("notes = ?", *notes)
	}

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

// ListForFarmer returns the farmer's orders, optionally filtered by status,
// newest first, joined with the buyer profile and minimal product fields.
func (r *Repository) ListForFarmer(ctx context.Context, farmerID int64, status entity.OrderStatus) ([]entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.ListForFarmer", trace.WithAttributes(attribute.Int64("farmer.id", farmerID)))
	defer span.End()

	var orders []entity.Order
	q := r.reader.NewSelect().Model(&orders).
		Relation("Buyer", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column("id", "full_name", "email", "phone")
		}).
		Relation("Product", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column("id", "name", "unit")
		}).
		Where("?TableAlias.farmer_id = ?", farmerID)
	if status != "" {
		q = q.Where("?TableAlias.status = ?", status)
	}

	if err := q.OrderExpr("?TableAlias.created_at DESC").Scan(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return orders, nil
}

// ListForBuyer returns the buyer's orders, newest first, joined with the
// farmer profile and product fields.
func (r *Repository) ListForBuyer(ctx context.Context, buyerID int64) ([]entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.ListForBuyer", trace.WithAttributes(attribute.Int64("buyer.id", buyerID)))
	defer span.End()

	var orders []entity.Order
	err := r.reader.NewSelect().Model(&orders).
		Relation("Farmer", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column("id", "full_name", "phone")
		}).
		Relation("Product", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column("id", "name", "unit", "image_url")
		}).
		Where("?TableAlias.buyer_id = ?", buyerID).
		OrderExpr("?TableAlias.created_at DESC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return orders, nil
}

// ListByFarmer returns every order addressed to the farmer, without joins.
// Used by dashboard aggregation, which works over the full set in memory.
func (r *Repository) ListByFarmer(ctx context.Context, farmerID int64) ([]entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.ListByFarmer", trace.WithAttributes(attribute.Int64("farmer.id", farmerID)))
	defer span.End()

	var orders []entity.Order
	err := r.reader.NewSelect().Model(&orders).
		Where("farmer_id = ?", farmerID).
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return orders, nil
}
