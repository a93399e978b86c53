package product

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmconnect/harvest/internal/database"
	"github.com/farmconnect/harvest/internal/dto"
	"github.com/farmconnect/harvest/internal/entity"
	"github.com/farmconnect/harvest/internal/testutil"
)

func seedFarmer(t *testing.T, conns *database.Connections, email string) *entity.User {
	t.Helper()
	farmer := &entity.User{
		Email:    email,
		FullName: "Farmer " + email,
		Role:     entity.RoleFarmer,
		Password: "hashed",
	}
	_, err := conns.Writer.NewInsert().Model(farmer).Exec(context.Background())
	require.NoError(t, err)
	return farmer
}

func seedProduct(t *testing.T, repo *Repository, farmerID int64, name, category string, price, quantity float64, createdAt time.Time) *entity.Product {
	t.Helper()
	product := &entity.Product{
		FarmerID:  farmerID,
		Name:      name,
		Category:  category,
		Price:     price,
		Unit:      "kg",
		Quantity:  quantity,
		CreatedAt: createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), product))
	return product
}

func TestGetByIDJoinsFarmerProfile(t *testing.T) {
	conns := testutil.OpenDB(t)
	repo := NewRepository(conns)
	farmer := seedFarmer(t, conns, "grower@harvest.local")
	created := seedProduct(t, repo, farmer.ID, "Tomatoes", "vegetables", 120, 50, time.Now())

	got, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tomatoes", got.Name)
	require.NotNil(t, got.Farmer)
	assert.Equal(t, "grower@harvest.local", got.Farmer.Email)
	assert.Empty(t, got.Farmer.Password, "joined profile carries no password hash")
}

func TestGetByIDMissing(t *testing.T) {
	repo := NewRepository(testutil.OpenDB(t))
	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFilters(t *testing.T) {
	conns := testutil.OpenDB(t)
	repo := NewRepository(conns)
	farmer := seedFarmer(t, conns, "grower@harvest.local")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seedProduct(t, repo, farmer.ID, "Tomatoes", "vegetables", 120, 50, base)
	seedProduct(t, repo, farmer.ID, "Mangoes", "fruits", 250, 30, base.Add(time.Minute))
	seedProduct(t, repo, farmer.ID, "Kale", "vegetables", 40, 80, base.Add(2*time.Minute))

	ctx := context.Background()

	all, err := repo.List(ctx, dto.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Kale", all[0].Name, "newest listing first")

	vegetables, err := repo.List(ctx, dto.ProductFilter{Category: "vegetables"})
	require.NoError(t, err)
	assert.Len(t, vegetables, 2)

	min := 100.0
	pricey, err := repo.List(ctx, dto.ProductFilter{MinPrice: &min})
	require.NoError(t, err)
	assert.Len(t, pricey, 2)

	max := 200.0
	mid, err := repo.List(ctx, dto.ProductFilter{MinPrice: &min, MaxPrice: &max})
	require.NoError(t, err)
	require.Len(t, mid, 1)
	assert.Equal(t, "Tomatoes", mid[0].Name)
}

func TestUpdateEnforcesOwnership(t *testing.T) {
	conns := testutil.OpenDB(t)
	repo := NewRepository(conns)
	owner := seedFarmer(t, conns, "owner@harvest.local")
	other := seedFarmer(t, conns, "other@harvest.local")
	product := seedProduct(t, repo, owner.ID, "Tomatoes", "vegetables", 120, 50, time.Now())

	ctx := context.Background()
	newPrice := 150.0

	_, err := repo.Update(ctx, product.ID, other.ID, dto.UpdateProductRequest{Price: &newPrice})
	assert.ErrorIs(t, err, ErrNotFound, "another farmer's update matches no row")

	updated, err := repo.Update(ctx, product.ID, owner.ID, dto.UpdateProductRequest{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 150.0, updated.Price)
	assert.Equal(t, "Tomatoes", updated.Name, "untouched fields survive")
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	conns := testutil.OpenDB(t)
	repo := NewRepository(conns)
	owner := seedFarmer(t, conns, "owner@harvest.local")
	other := seedFarmer(t, conns, "other@harvest.local")
	product := seedProduct(t, repo, owner.ID, "Tomatoes", "vegetables", 120, 50, time.Now())

	ctx := context.Background()

	assert.ErrorIs(t, repo.Delete(ctx, product.ID, other.ID), ErrNotFound)

	require.NoError(t, repo.Delete(ctx, product.ID, owner.ID))
	_, err := repo.GetByID(ctx, product.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetQuantity(t *testing.T) {
	conns := testutil.OpenDB(t)
	repo := NewRepository(conns)
	farmer := seedFarmer(t, conns, "grower@harvest.local")
	product := seedProduct(t, repo, farmer.ID, "Tomatoes", "vegetables", 120, 50, time.Now())

	ctx := context.Background()
	require.NoError(t, repo.SetQuantity(ctx, product.ID, 4))

	got, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.Quantity)

	// No floor: callers may drive stock negative.
	require.NoError(t, repo.SetQuantity(ctx, product.ID, -2))
	got, err = repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, -2.0, got.Quantity)
}
