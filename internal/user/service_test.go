package user

import (
	"context"
	"testing"

	"fleetops-backend/internal/constants"
	"fleetops-backend/internal/middleware"
	"fleetops-backend/internal/models"
	"fleetops-backend/internal/user/policies"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserService(t *testing.T) (*Service, *redis.Client) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return &Service{DB: db, Rdb: rdb}, rdb
}

func createAccount(t *testing.T, s *Service, role string, active bool) *models.User {
	u := &models.User{
		UserID:       uuid.New(),
		Fullname:     "Account",
		UserName:     uuid.NewString(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Role:         role,
		Active:       active,
	}
	require.NoError(t, s.DB.Create(u).Error)
	return u
}

func TestListAndGet(t *testing.T) {
	ctx := context.Background()
	s, _ := setupUserService(t)
	a := createAccount(t, s, constants.Admin, true)
	createAccount(t, s, constants.Viewer, true)

	users, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	got, err := s.Get(ctx, a.UserID.String())
	require.NoError(t, err)
	assert.Equal(t, a.Email, got.Email)

	_, err = s.Get(ctx, uuid.NewString())
	assert.Equal(t, policies.ErrTargetUserNotFound, err)
}

func TestUpdateRole(t *testing.T) {
	ctx := context.Background()
	s, rdb := setupUserService(t)
	actor := createAccount(t, s, constants.Admin, true)
	target := createAccount(t, s, constants.Viewer, true)

	// seed a live session for the target so we can watch it die
	sessionID := uuid.NewString()
	require.NoError(t, rdb.Set(ctx, middleware.SessionRedisPrefix+sessionID, "{}", 0).Err())
	require.NoError(t, rdb.SAdd(ctx, "user_sessions:"+target.UserID.String(), sessionID).Err())

	got, err := s.UpdateRole(ctx, actor.UserID.String(), constants.Admin, target.UserID.String(), constants.Analyst)
	require.NoError(t, err)
	assert.Equal(t, constants.Analyst, got.Role)

	// role change invalidates the target's sessions
	n, err := rdb.Exists(ctx, middleware.SessionRedisPrefix+sessionID).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateRole_PolicyRejected(t *testing.T) {
	ctx := context.Background()
	s, _ := setupUserService(t)
	actor := createAccount(t, s, constants.Viewer, true)
	target := createAccount(t, s, constants.Viewer, true)

	_, err := s.UpdateRole(ctx, actor.UserID.String(), constants.Viewer, target.UserID.String(), constants.Admin)
	assert.Equal(t, policies.ErrOnlyAdminsCanAssignRoles, err)
}

func TestDeactivate(t *testing.T) {
	ctx := context.Background()
	s, _ := setupUserService(t)
	actor := createAccount(t, s, constants.Admin, true)
	target := createAccount(t, s, constants.Viewer, true)

	require.NoError(t, s.Deactivate(ctx, actor.UserID.String(), target.UserID.String()))

	got, err := s.Get(ctx, target.UserID.String())
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestDeactivate_LastAdmin(t *testing.T) {
	ctx := context.Background()
	s, _ := setupUserService(t)
	admin := createAccount(t, s, constants.Admin, true)
	actor := createAccount(t, s, constants.Viewer, true)

	err := s.Deactivate(ctx, actor.UserID.String(), admin.UserID.String())
	assert.Equal(t, policies.ErrMustHaveAtLeastOneAdmin, err)
}
