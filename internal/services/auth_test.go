package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barangaylink/barangaylink-backend/internal/repos"
	"github.com/barangaylink/barangaylink-backend/internal/repos/testutil"
	"github.com/barangaylink/barangaylink-backend/internal/requestdata"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

func newAuthService(t *testing.T) (AuthService, context.Context) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	svc := NewAuthService(tx, log,
		repos.NewUserRepo(tx, log),
		repos.NewUserTokenRepo(tx, log),
		"test-secret", time.Hour, 24*time.Hour)
	return svc, context.Background()
}

func registerUser(t *testing.T, svc AuthService, ctx context.Context, email, role string) *types.User {
	t.Helper()
	user := &types.User{
		Email:     email,
		Password:  "hunter22",
		FirstName: "Maria",
		LastName:  "Reyes",
		Role:      role,
	}
	require.NoError(t, svc.RegisterUser(ctx, user))
	return user
}

func TestRegisterAndLogin(t *testing.T) {
	svc, ctx := newAuthService(t)
	registerUser(t, svc, ctx, "maria@barangay.test", "")

	access, refresh, err := svc.LoginUser(ctx, "maria@barangay.test", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	authed, err := svc.SetContextFromToken(ctx, access)
	require.NoError(t, err)
	rd := requestdata.GetRequestData(authed)
	require.NotNil(t, rd)
	assert.Equal(t, types.RoleStaff, rd.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, ctx := newAuthService(t)
	registerUser(t, svc, ctx, "ana@barangay.test", "")

	_, _, err := svc.LoginUser(ctx, "ana@barangay.test", "wrong")
	assert.Error(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, ctx := newAuthService(t)
	registerUser(t, svc, ctx, "dup@barangay.test", "")

	err := svc.RegisterUser(ctx, &types.User{
		Email:     "dup@barangay.test",
		Password:  "hunter22",
		FirstName: "Jose",
		LastName:  "Reyes",
	})
	assert.Error(t, err)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc, ctx := newAuthService(t)

	err := svc.RegisterUser(ctx, &types.User{
		Email:     "mayor@barangay.test",
		Password:  "hunter22",
		FirstName: "Jose",
		LastName:  "Reyes",
		Role:      "mayor",
	})
	assert.Error(t, err)
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	svc, ctx := newAuthService(t)
	registerUser(t, svc, ctx, "worker@barangay.test", types.RoleHealth)

	access, _, err := svc.LoginUser(ctx, "worker@barangay.test", "hunter22")
	require.NoError(t, err)

	authed, err := svc.SetContextFromToken(ctx, access)
	require.NoError(t, err)
	require.NoError(t, svc.LogoutUser(authed))

	_, err = svc.SetContextFromToken(ctx, access)
	assert.Error(t, err)
}
