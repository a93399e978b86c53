package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/farmconnect/harvest/internal/database"
	"github.com/farmconnect/harvest/internal/entity"
)

var repoTracer = otel.Tracer("github.com/farmconnect/harvest/repository/user")

// ErrNotFound is returned when no matching user exists.
var ErrNotFound = errors.New("user not found")

// ErrEmailTaken is returned when the unique email constraint is violated.
var ErrEmailTaken = errors.New("email already exists")

// Repository encapsulates read/write access for users.
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

// Create persists a new user. Unique email violations map to ErrEmailTaken.
func (r *Repository) Create(ctx context.Context, user *entity.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	ctx, span := repoTracer.Start(ctx, "UserRepository.Create", trace.WithAttributes(attribute.String("user.email", user.Email)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			span.SetStatus(codes.Error, "duplicate email")
			return ErrEmailTaken
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// GetByID fetches a user by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	ctx, span := repoTracer.Start(ctx, "UserRepository.GetByID", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()

	user := new(entity.User)
	err := r.reader.NewSelect().Model(user).Where("id = ?", id).Scan(ctx)
	return checkFetch(span, user, err)
}

// GetByEmail fetches a user by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	ctx, span := repoTracer.Start(ctx, "UserRepository.GetByEmail")
	defer span.End()

	user := new(entity.User)
	err := r.reader.NewSelect().Model(user).Where("email = ?", email).Scan(ctx)
	return checkFetch(span, user, err)
}

// GetByPhone fetches a user by phone number.
func (r *Repository) GetByPhone(ctx context.Context, phone string) (*entity.User, error) {
	ctx, span := repoTracer.Start(ctx, "UserRepository.GetByPhone")
	defer span.End()

	user := new(entity.User)
	err := r.reader.NewSelect().Model(user).Where("phone = ?", phone).Scan(ctx)
	return checkFetch(span, user, err)
}

// UpdateProfile changes full name and/or phone, stamping the update time.
// Empty arguments leave the corresponding column untouched.
func (r *Repository) UpdateProfile(ctx context.Context, id int64, fullName, phone string) (*entity.User, error) {
	ctx, span := repoTracer.Start(ctx, "UserRepository.UpdateProfile", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()

	q := r.writer.NewUpdate().Model((*entity.User)(nil)).Where("id = ?", id)
	if fullName != "" {
		q = q.Set("full_name = ?", fullName)
	}
	if phone != "" {
		q = q.Set("phone = ?", phone)
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

func checkFetch(span trace.Span, user *entity.User, err error) (*entity.User, error) {
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return user, nil
}

// isUniqueViolation recognizes duplicate-key failures across the supported
// drivers (postgres 23505, mysql 1062, sqlite constraint errors).
func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.Code == sqlite3.ErrConstraint {
		return true
	}
	return false
}
