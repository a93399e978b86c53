package seeder

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/farmconnect/harvest/internal/auth"
	"github.com/farmconnect/harvest/internal/database"
	"github.com/farmconnect/harvest/internal/entity"
)

// Module provides the seeder to Fx.
var Module = fx.Provide(New)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db     *bun.DB
	hasher *auth.Hasher
	logger *zap.Logger
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, hasher *auth.Hasher, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, hasher: hasher, logger: logger}
}

// Run seeds a demo farmer, a demo buyer, and a handful of listings if they
// are missing.
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.users(ctx); err != nil {
		return err
	}
	return s.products(ctx)
}

func (s *Seeder) users(ctx context.Context) error {
	password, err := s.hasher.Hash("changeme")
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	samples := []entity.User{
		{Email: "farmer@harvest.local", Phone: "0700000001", FullName: "Demo Farmer", Role: entity.RoleFarmer, Password: password, CreatedAt: now, UpdatedAt: now},
		{Email: "buyer@harvest.local", Phone: "0700000002", FullName: "Demo Buyer", Role: entity.RoleRetailer, Password: password, CreatedAt: now, UpdatedAt: now},
	}

	for _, sample := range samples {
		user := sample
		_, err := s.db.NewInsert().Model(&user).
			On("CONFLICT (email) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded users", zap.Int("count", len(samples)))
	}
	return nil
}

func (s *Seeder) products(ctx context.Context) error {
	farmer := new(entity.User)
	err := s.db.NewSelect().Model(farmer).
		Where("email = ?", "farmer@harvest.local").
		Scan(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	samples := []entity.Product{
		{FarmerID: farmer.ID, Name: "Tomatoes", Category: "Vegetables", Price: 3.50, Unit: "kg", Quantity: 120, Description: "Field grown tomatoes", CreatedAt: now, UpdatedAt: now},
		{FarmerID: farmer.ID, Name: "Maize", Category: "Grains", Price: 1.20, Unit: "kg", Quantity: 500, CreatedAt: now, UpdatedAt: now},
		{FarmerID: farmer.ID, Name: "Free-range Eggs", Category: "Poultry", Price: 0.25, Unit: "piece", Quantity: 15, CreatedAt: now, UpdatedAt: now},
	}

	for _, sample := range samples {
		exists, err := s.db.NewSelect().Model((*entity.Product)(nil)).
			Where("farmer_id = ?", sample.FarmerID).
			Where("name = ?", sample.Name).
			Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		product := sample
		if _, err := s.db.NewInsert().Model(&product).Exec(ctx); err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded products", zap.Int("count", len(samples)))
	}
	return nil
}
