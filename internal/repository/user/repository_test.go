package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmconnect/harvest/internal/entity"
	"github.com/farmconnect/harvest/internal/testutil"
)

func newUser(email, phone string, role entity.Role) *entity.User {
	return &entity.User{
		Email:    email,
		Phone:    phone,
		FullName: "Test User",
		Role:     role,
		Password: "hashed",
	}
}

func TestCreateAndGet(t *testing.T) {
	repo := NewRepository(testutil.OpenDB(t))
	ctx := context.Background()

	user := newUser("amina@harvest.local", "+254700000001", entity.RoleFarmer)
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "amina@harvest.local", byID.Email)

	byEmail, err := repo.GetByEmail(ctx, "amina@harvest.local")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byPhone, err := repo.GetByPhone(ctx, "+254700000001")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byPhone.ID)
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	repo := NewRepository(testutil.OpenDB(t))
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetByEmail(ctx, "ghost@harvest.local")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDuplicateEmailMapsToErrEmailTaken(t *testing.T) {
	repo := NewRepository(testutil.OpenDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("dup@harvest.local", "", entity.RoleCustomer)))

	err := repo.Create(ctx, newUser("dup@harvest.local", "", entity.RoleRetailer))
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUpdateProfile(t *testing.T) {
	repo := NewRepository(testutil.OpenDB(t))
	ctx := context.Background()

	user := newUser("update@harvest.local", "+254700000002", entity.RoleWholesaler)
	require.NoError(t, repo.Create(ctx, user))

	updated, err := repo.UpdateProfile(ctx, user.ID, "New Name", "")
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.FullName)
	assert.Equal(t, "+254700000002", updated.Phone, "empty phone argument keeps the stored value")
	assert.False(t, updated.UpdatedAt.IsZero())
}

func TestUpdateProfileMissingUser(t *testing.T) {
	repo := NewRepository(testutil.OpenDB(t))

	_, err := repo.UpdateProfile(context.Background(), 12345, "Nobody", "")
	assert.ErrorIs(t, err, ErrNotFound)
}
