package auth

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-for-jwt"

type fakeUserRepo struct {
	user.UserRepository
	users     map[string]user.User
	lastLogin []string
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (user.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id string) error {
	r.lastLogin = append(r.lastLogin, id)
	return nil
}

func newTestAuthService(t *testing.T) (*fakeUserRepo, jwt.Service, auth.AuthService) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeUserRepo{users: map[string]user.User{
		"u1": {ID: "u1", Username: "hr.admin", Email: "hr@example.com", PasswordHash: string(hash), Role: user.RoleHR, IsActive: true},
		"u2": {ID: "u2", Username: "former", Email: "former@example.com", PasswordHash: string(hash), Role: user.RoleManager},
	}}
	jwtService, err := jwt.NewJWTService(testSecret, "1h")
	require.NoError(t, err)

	return repo, jwtService, NewAuthService(repo, jwtService)
}

func TestAuthService_Login_Success(t *testing.T) {
	repo, _, svc := newTestAuthService(t)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{Username: "hr.admin", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.InDelta(t, 3600, resp.ExpiresIn, 5)
	assert.Equal(t, "hr", resp.User.Role)
	assert.Equal(t, []string{"u1"}, repo.lastLogin)
}

func TestAuthService_Login_Failures(t *testing.T) {
	_, _, svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, auth.LoginRequest{Username: "hr.admin", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(ctx, auth.LoginRequest{Username: "nobody", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(ctx, auth.LoginRequest{Username: "former", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrAccountInactive)

	_, err = svc.Login(ctx, auth.LoginRequest{})
	assert.Error(t, err)
}

func TestAuthService_Me(t *testing.T) {
	_, jwtService, svc := newTestAuthService(t)

	token, _, err := jwtService.GenerateAccessToken("u1", "hr.admin", user.RoleHR)
	require.NoError(t, err)
	parsed, err := jwtService.JWTAuth().Decode(token)
	require.NoError(t, err)

	ctx := jwtauth.NewContext(context.Background(), parsed, nil)
	me, err := svc.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hr.admin", me.Username)

	_, err = svc.Me(context.Background())
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
