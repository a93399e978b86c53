package product

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/farmconnect/harvest/internal/cache"
	"github.com/farmconnect/harvest/internal/config"
	"github.com/farmconnect/harvest/internal/database"
	"github.com/farmconnect/harvest/internal/dto"
	"github.com/farmconnect/harvest/internal/entity"
	repo "github.com/farmconnect/harvest/internal/repository/product"
	"github.com/farmconnect/harvest/internal/testutil"
	"github.com/farmconnect/harvest/pkg/errorbank"
)

// memoryStore is a map-backed cache.Store for observing cache traffic.
type memoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string][]byte)}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return value, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memoryStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

func newService(t *testing.T, store cache.Store) (*Service, *database.Connections) {
	t.Helper()
	conns := testutil.OpenDB(t)
	svc := NewService(Params{
		Repository: repo.NewRepository(conns),
		Cache:      store,
		Config:     config.Config{},
		Logger:     zap.NewNop(),
	})
	return svc, conns
}

func seedFarmer(t *testing.T, conns *database.Connections) *entity.User {
	t.Helper()
	farmer := &entity.User{Email: "farmer@harvest.local", FullName: "Farmer", Role: entity.RoleFarmer, Password: "hashed"}
	_, err := conns.Writer.NewInsert().Model(farmer).Exec(context.Background())
	require.NoError(t, err)
	return farmer
}

func validCreate() dto.CreateProductRequest {
	return dto.CreateProductRequest{
		Name:     "Tomatoes",
		Category: "vegetables",
		Price:    120,
		Unit:     "kg",
		Quantity: 50,
	}
}

func TestCreateValidation(t *testing.T) {
	svc, conns := newService(t, nil)
	farmer := seedFarmer(t, conns)
	ctx := context.Background()

	cases := []func(*dto.CreateProductRequest){
		func(r *dto.CreateProductRequest) { r.Name = "" },
		func(r *dto.CreateProductRequest) { r.Category = "" },
		func(r *dto.CreateProductRequest) { r.Unit = "" },
		func(r *dto.CreateProductRequest) { r.Price = 0 },
		func(r *dto.CreateProductRequest) { r.Quantity = -1 },
	}
	for _, mutate := range cases {
		req := validCreate()
		mutate(&req)
		_, err := svc.Create(ctx, farmer.ID, req)
		appErr := errorbank.From(err)
		assert.Equal(t, errorbank.KindBadRequest, appErr.Kind())
		assert.Equal(t, "name, category, price, unit, and quantity are required", appErr.Message())
	}

	product, err := svc.Create(ctx, farmer.ID, validCreate())
	require.NoError(t, err)
	assert.Equal(t, farmer.ID, product.FarmerID)
	assert.NotZero(t, product.ID)
}

func TestGetUsesCache(t *testing.T) {
	store := newMemoryStore()
	svc, conns := newService(t, store)
	farmer := seedFarmer(t, conns)
	ctx := context.Background()

	product, err := svc.Create(ctx, farmer.ID, validCreate())
	require.NoError(t, err)
	key := svc.cacheKey(product.ID)
	assert.True(t, store.has(key), "create warms the cache")

	// Serve from cache even after the row is gone.
	_, err = conns.Writer.NewDelete().Model((*entity.Product)(nil)).Where("id = ?", product.ID).Exec(ctx)
	require.NoError(t, err)

	cached, err := svc.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tomatoes", cached.Name)
}

func TestUpdateInvalidatesCache(t *testing.T) {
	store := newMemoryStore()
	svc, conns := newService(t, store)
	farmer := seedFarmer(t, conns)
	ctx := context.Background()

	product, err := svc.Create(ctx, farmer.ID, validCreate())
	require.NoError(t, err)

	newPrice := 99.0
	updated, err := svc.Update(ctx, farmer.ID, product.ID, dto.UpdateProductRequest{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 99.0, updated.Price)
	assert.False(t, store.has(svc.cacheKey(product.ID)), "update drops the cached copy")
}

func TestUpdateRejectsEmptyChangeSet(t *testing.T) {
	svc, conns := newService(t, nil)
	farmer := seedFarmer(t, conns)
	ctx := context.Background()

	product, err := svc.Create(ctx, farmer.ID, validCreate())
	require.NoError(t, err)

	_, err = svc.Update(ctx, farmer.ID, product.ID, dto.UpdateProductRequest{})
	appErr := errorbank.From(err)
	assert.Equal(t, errorbank.KindBadRequest, appErr.Kind())
	assert.Equal(t, "no fields to update", appErr.Message())
}

func TestUpdateForeignListingReadsAsMissing(t *testing.T) {
	svc, conns := newService(t, nil)
	farmer := seedFarmer(t, conns)
	ctx := context.Background()

	product, err := svc.Create(ctx, farmer.ID, validCreate())
	require.NoError(t, err)

	newPrice := 99.0
	_, err = svc.Update(ctx, farmer.ID+1, product.ID, dto.UpdateProductRequest{Price: &newPrice})
	appErr := errorbank.From(err)
	assert.Equal(t, errorbank.KindNotFound, appErr.Kind())
	assert.Equal(t, "product not found", appErr.Message())
}

func TestDelete(t *testing.T) {
	svc, conns := newService(t, nil)
	farmer := seedFarmer(t, conns)
	ctx := context.Background()

	product, err := svc.Create(ctx, farmer.ID, validCreate())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, farmer.ID, product.ID))

	_, err = svc.Get(ctx, product.ID)
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
}
