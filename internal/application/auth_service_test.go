package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-events-service/internal/infrastructure/memory"
	"github.com/oksasatya/user-events-service/pkg/apperror"
	"github.com/oksasatya/user-events-service/pkg/helpers"
)

func newTestAuthService(pub *recordingPublisher) *AuthService {
	users, _ := newTestUserService(pub)
	return NewAuthService(users, memory.NewSessionRepository(), helpers.NewJWTManager("test-secret", time.Hour), helpers.NewNopLogger())
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := newTestAuthService(pub)

	u, tok, err := svc.Register(ctx, "New User", "new@example.com", "secret123")

	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.Type)
	assert.Equal(t, 3600, tok.ExpiresIn)
	assert.NotEmpty(t, tok.AccessToken)
	require.Len(t, pub.calls(), 1)
	assert.Equal(t, u.UUID, pub.calls()[0].UUID)

	claims, err := svc.ValidateToken(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.UserID)

	_, _, err = svc.Register(ctx, "Other", "new@example.com", "secret123")
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	_, _, err = svc.Register(ctx, "No Pass", "nopass@example.com", "")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(&recordingPublisher{})
	_, _, err := svc.Register(ctx, "Login User", "login@example.com", "secret123")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		u, tok, err := svc.Login(ctx, "LOGIN@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "login@example.com", u.Email)
		assert.NotEmpty(t, tok.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "login@example.com", "nope")
		assert.Equal(t, apperror.KindAuth, apperror.KindOf(err))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "ghost@example.com", "secret123")
		assert.Equal(t, apperror.KindAuth, apperror.KindOf(err))
	})

	t.Run("user created without password cannot log in", func(t *testing.T) {
		_, err := svc.Users.Create(ctx, CreateUserInput{Name: "No Creds", Email: "nocreds@example.com"})
		require.NoError(t, err)
		_, _, err = svc.Login(ctx, "nocreds@example.com", "")
		assert.Equal(t, apperror.KindAuth, apperror.KindOf(err))
	})
}

func TestAuthService_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(&recordingPublisher{})
	_, first, err := svc.Register(ctx, "Session User", "session@example.com", "secret123")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, first.AccessToken)
	require.NoError(t, err)

	u, err := svc.CurrentUser(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, "session@example.com", u.Email)

	_, second, err := svc.Refresh(ctx, claims)
	require.NoError(t, err)
	assert.NotEqual(t, first.AccessToken, second.AccessToken)

	_, err = svc.ValidateToken(ctx, first.AccessToken)
	assert.Equal(t, apperror.KindAuth, apperror.KindOf(err), "refreshed token must be rejected")

	claims, err = svc.ValidateToken(ctx, second.AccessToken)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, claims))

	_, err = svc.ValidateToken(ctx, second.AccessToken)
	assert.Equal(t, apperror.KindAuth, apperror.KindOf(err), "logged out token must be rejected")
}

func TestAuthService_ValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(&recordingPublisher{})

	for _, raw := range []string{"", "not-a-jwt"} {
		_, err := svc.ValidateToken(context.Background(), raw)
		assert.Equal(t, apperror.KindAuth, apperror.KindOf(err))
	}

	other := helpers.NewJWTManager("other-secret", time.Hour)
	forged, _, err := other.Generate("1", "sid")
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), forged)
	assert.Equal(t, apperror.KindAuth, apperror.KindOf(err))
}

func TestAuthService_CurrentUserDeleted(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(&recordingPublisher{})
	u, tok, err := svc.Register(ctx, "Gone User", "gone@example.com", "secret123")
	require.NoError(t, err)
	claims, err := svc.ValidateToken(ctx, tok.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Users.Delete(ctx, u.ID))

	_, err = svc.CurrentUser(ctx, claims)
	assert.Equal(t, apperror.KindAuth, apperror.KindOf(err))
}
