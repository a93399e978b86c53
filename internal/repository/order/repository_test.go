package order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmconnect/harvest/internal/database"
	"github.com/farmconnect/harvest/internal/entity"
	"github.com/farmconnect/harvest/internal/testutil"
)

type fixture struct {
	conns  *database.Connections
	repo   *Repository
	farmer *entity.User
	buyer  *entity.User
	tomato *entity.Product
}

func setup(t *testing.T) *fixture {
	t.Helper()
	conns := testutil.OpenDB(t)
	ctx := context.Background()

	farmer := &entity.User{Email: "farmer@harvest.local", FullName: "Farmer", Role: entity.RoleFarmer, Password: "hashed"}
	buyer := &entity.User{Email: "buyer@harvest.local", FullName: "Buyer", Role: entity.RoleRetailer, Password: "hashed"}
	for _, u := range []*entity.User{farmer, buyer} {
		_, err := conns.Writer.NewInsert().Model(u).Exec(ctx)
		require.NoError(t, err)
	}

	tomato := &entity.Product{FarmerID: farmer.ID, Name: "Tomatoes", Category: "vegetables", Price: 120, Unit: "kg", Quantity: 50}
	_, err := conns.Writer.NewInsert().Model(tomato).Exec(ctx)
	require.NoError(t, err)

	return &fixture{conns: conns, repo: NewRepository(conns), farmer: farmer, buyer: buyer, tomato: tomato}
}

func (f *fixture) placeOrder(t *testing.T, quantity float64, status entity.OrderStatus, createdAt time.Time) *entity.Order {
	t.Helper()
	order := &entity.Order{
		BuyerID:     f.buyer.ID,
		FarmerID:    f.farmer.ID,
		ProductID:   f.tomato.ID,
		Quantity:    quantity,
		UnitPrice:   f.tomato.Price,
		TotalAmount: f.tomato.Price * quantity,
		Status:      status,
		CreatedAt:   createdAt,
	}
	require.NoError(t, f.repo.Create(context.Background(), order))
	return order
}

func TestCreateAndGetByID(t *testing.T) {
	f := setup(t)
	order := f.placeOrder(t, 5, entity.OrderPending, time.Now())

	got, err := f.repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderPending, got.Status)
	assert.Equal(t, 600.0, got.TotalAmount)
}

func TestGetForFarmerScopesOwnership(t *testing.T) {
	f := setup(t)
	order := f.placeOrder(t, 5, entity.OrderPending, time.Now())
	ctx := context.Background()

	got, err := f.repo.GetForFarmer(ctx, order.ID, f.farmer.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Product, "product joined for stock checks")
	assert.Equal(t, 50.0, got.Product.Quantity)

	_, err = f.repo.GetForFarmer(ctx, order.ID, f.buyer.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetStatus(t *testing.T) {
	f := setup(t)
	order := f.placeOrder(t, 5, entity.OrderPending, time.Now())
	ctx := context.Background()

	reason := "quality concerns"
	updated, err := f.repo.SetStatus(ctx, order.ID, entity.OrderRejected, &reason)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderRejected, updated.Status)
	assert.Equal(t, "quality concerns", updated.Notes)
	assert.False(t, updated.UpdatedAt.IsZero())

	_, err = f.repo.SetStatus(ctx, 9999, entity.OrderAccepted, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListForFarmerFiltersByStatus(t *testing.T) {
	f := setup(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	f.placeOrder(t, 1, entity.OrderPending, base)
	f.placeOrder(t, 2, entity.OrderAccepted, base.Add(time.Minute))
	f.placeOrder(t, 3, entity.OrderPending, base.Add(2*time.Minute))
	ctx := context.Background()

	all, err := f.repo.ListForFarmer(ctx, f.farmer.ID, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 3.0, all[0].Quantity, "newest first")
	require.NotNil(t, all[0].Buyer)
	assert.Equal(t, "buyer@harvest.local", all[0].Buyer.Email)
	require.NotNil(t, all[0].Product)
	assert.Equal(t, "Tomatoes", all[0].Product.Name)

	pending, err := f.repo.ListForFarmer(ctx, f.farmer.ID, entity.OrderPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestListForBuyer(t *testing.T) {
	f := setup(t)
	f.placeOrder(t, 4, entity.OrderPending, time.Now())
	ctx := context.Background()

	orders, err := f.repo.ListForBuyer(ctx, f.buyer.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.NotNil(t, orders[0].Farmer)
	assert.Equal(t, "Farmer", orders[0].Farmer.FullName)

	none, err := f.repo.ListForBuyer(ctx, f.farmer.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}
