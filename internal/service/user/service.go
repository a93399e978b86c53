package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/farmconnect/harvest/internal/auth"
	"github.com/farmconnect/harvest/internal/dto"
	"github.com/farmconnect/harvest/internal/entity"
	repo "github.com/farmconnect/harvest/internal/repository/user"
	"github.com/farmconnect/harvest/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/farmconnect/harvest/service/user")

// Service encapsulates registration, login, and profile management.
type Service struct {
	repo   *repo.Repository
	tokens *auth.TokenManager
	hasher *auth.Hasher
	logger *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	Tokens     *auth.TokenManager
	Hasher     *auth.Hasher
	Logger     *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:   p.Repository,
		tokens: p.Tokens,
		hasher: p.Hasher,
		logger: p.Logger,
	}
}

// Register creates an account and returns it with a signed token.
func (s *Service) Register(ctx context.Context, req dto.RegisterRequest) (*entity.User, string, error) {
	ctx, span := serviceTracer.Start(ctx, "UserService.Register")
	defer span.End()

	if req.Email == "" || req.FullName == "" || req.Role == "" || req.Password == "" {
		return nil, "", errorbank.BadRequest("email, full_name, role, and password are required")
	}

	role := entity.Role(req.Role)
	if !role.Valid() {
		return nil, "", errorbank.BadRequest(fmt.Sprintf("role must be one of: %s", joinRoles()))
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "hash failed")
		return nil, "", errorbank.Internal("failed to register user", errorbank.WithCause(err))
	}

	user := &entity.User{
		Email:    req.Email,
		Phone:    req.Phone,
		FullName: req.FullName,
		Role:     role,
		Password: hashed,
	}
	stampNew(user)

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return nil, "", errorbank.Conflict("email already exists")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, "", errorbank.Internal("failed to register user", errorbank.WithCause(err))
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "token issue failed")
		return nil, "", errorbank.Internal("failed to issue token", errorbank.WithCause(err))
	}

	s.logger.Info("user registered", zap.Int64("id", user.ID), zap.String("role", string(user.Role)))
	return user, token, nil
}

// Login authenticates by email or phone. Identifiers containing "@" are
// treated as emails. Missing accounts and wrong passwords produce the same
// generic failure so callers cannot enumerate users.
func (s *Service) Login(ctx context.Context, req dto.LoginRequest) (*entity.User, string, error) {
	ctx, span := serviceTracer.Start(ctx, "UserService.Login")
	defer span.End()

	if req.Identifier == "" || req.Password == "" {
		return nil, "", errorbank.BadRequest("please provide email/phone and password")
	}

	var (
		user *entity.User
		err  error
	)
	if strings.Contains(req.Identifier, "@") {
		user, err = s.repo.GetByEmail(ctx, req.Identifier)
	} else {
		user, err = s.repo.GetByPhone(ctx, req.Identifier)
	}
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "repository error")
			return nil, "", errorbank.Internal("failed to log in", errorbank.WithCause(err))
		}
		return nil, "", errorbank.Unauthorized("invalid credentials")
	}

	if !s.hasher.Compare(user.Password, req.Password) {
		return nil, "", errorbank.Unauthorized("invalid credentials")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "token issue failed")
		return nil, "", errorbank.Internal("failed to issue token", errorbank.WithCause(err))
	}

	return user, token, nil
}

// Profile fetches a sanitized account record by id.
func (s *Service) Profile(ctx context.Context, id int64) (*entity.User, error) {
	ctx, span := serviceTracer.Start(ctx, "UserService.Profile", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("user not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load user", errorbank.WithCause(err))
	}
	return user, nil
}

// UpdateProfile changes full name and/or phone for the calling user.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, req dto.UpdateProfileRequest) (*entity.User, error) {
	ctx, span := serviceTracer.Start(ctx, "UserService.UpdateProfile", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()

	if req.FullName == "" && req.Phone == "" {
		return nil, errorbank.BadRequest("no fields to update")
	}

	user, err := s.repo.UpdateProfile(ctx, userID, req.FullName, req.Phone)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("user not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to update profile", errorbank.WithCause(err))
	}
	return user, nil
}

func stampNew(user *entity.User) {
	if user.CreatedAt.IsZero() {
		now := time.Now().UTC()
		user.CreatedAt = now
		user.UpdatedAt = now
	}
}

func joinRoles() string {
	names := make([]string, 0, len(entity.Roles))
	for _, role := range entity.Roles {
		names = append(names, string(role))
	}
	return strings.Join(names, ", ")
}
