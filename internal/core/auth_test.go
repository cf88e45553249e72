package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/crypto"
	"github.com/edvin/easybudget/internal/model"
)

const testSecret = "test-secret-with-enough-entropy"

func userRow(t *testing.T, password string, active bool) *mockRow {
	t.Helper()
	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)
	return &mockRow{scanFunc: func(dest ...any) error {
		*(dest[0].(*string)) = "u1"
		*(dest[1].(*string)) = "t1"
		*(dest[3].(*string)) = "owner@example.com"
		*(dest[4].(*string)) = hash
		*(dest[5].(*string)) = model.RoleProvider
		*(dest[6].(*bool)) = active
		return nil
	}}
}

func newAuth(db *mockDB) *AuthService {
	return NewAuthService(db, LogDispatcher{}, testSecret, time.Hour, TrialPolicy{PlanSlug: "trial", Days: 30})
}

func TestLogin_IssuesTokenCarryingScope(t *testing.T) {
	db := &mockDB{}
	svc := newAuth(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContains("FROM users u JOIN tenants"), []any{"owner@example.com"}).
		Return(userRow(t, "correct horse", true))

	res := svc.Login(ctx, request.Login{Email: " owner@example.com ", Password: "correct horse"})
	require.True(t, res.IsSuccess(), res.Message)
	require.NotEmpty(t, res.Data.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.Data.ExpiresAt, time.Minute)

	claims, err := svc.ValidateToken(res.Data.Token)
	require.NoError(t, err)
	sc := claims.Scope()
	assert.Equal(t, "t1", sc.TenantID)
	assert.Equal(t, "u1", sc.UserID)
	assert.Equal(t, model.RoleProvider, sc.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	db := &mockDB{}
	ctx := context.Background()
	db.On("QueryRow", ctx, mock.Anything, mock.Anything).Return(userRow(t, "correct horse", true))

	res := newAuth(db).Login(ctx, request.Login{Email: "owner@example.com", Password: "battery staple"})
	assert.Equal(t, StatusInvalidData, res.Status)
	assert.Equal(t, "invalid credentials", res.Message)
}

func TestLogin_UnknownEmailLooksLikeWrongPassword(t *testing.T) {
	db := &mockDB{}
	ctx := context.Background()
	db.On("QueryRow", ctx, mock.Anything, mock.Anything).Return(errRow(pgx.ErrNoRows))

	res := newAuth(db).Login(ctx, request.Login{Email: "nobody@example.com", Password: "whatever1"})
	assert.Equal(t, StatusInvalidData, res.Status)
	assert.Equal(t, "invalid credentials", res.Message)
}

func TestLogin_InactiveAccount(t *testing.T) {
	db := &mockDB{}
	ctx := context.Background()
	db.On("QueryRow", ctx, mock.Anything, mock.Anything).Return(userRow(t, "correct horse", false))

	res := newAuth(db).Login(ctx, request.Login{Email: "owner@example.com", Password: "correct horse"})
	assert.Equal(t, StatusForbidden, res.Status)
}

func TestValidateToken_Rejects(t *testing.T) {
	svc := newAuth(&mockDB{})
	sess, err := svc.issue(&model.User{ID: "u1", TenantID: "t1", Role: model.RoleProvider})
	require.NoError(t, err)

	other := NewAuthService(&mockDB{}, LogDispatcher{}, "another-secret", time.Hour, TrialPolicy{})
	_, err = other.ValidateToken(sess.Token)
	assert.Error(t, err, "foreign signature")

	_, err = svc.ValidateToken(sess.Token + "x")
	assert.Error(t, err, "tampered token")

	now = func() time.Time { return time.Now().UTC().Add(-2 * time.Hour) }
	t.Cleanup(func() { now = func() time.Time { return time.Now().UTC() } })
	expired, err := svc.issue(&model.User{ID: "u1", TenantID: "t1"})
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired.Token)
	assert.Error(t, err, "expired token")
}

func TestValidateToken_RequiresTenant(t *testing.T) {
	svc := newAuth(&mockDB{})
	sess, err := svc.issue(&model.User{ID: "u1"})
	require.NoError(t, err)
	_, err = svc.ValidateToken(sess.Token)
	assert.Error(t, err)
}

func TestRegister_EmailTaken(t *testing.T) {
	db := &mockDB{}
	ctx := context.Background()
	db.On("QueryRow", ctx, sqlContains("FROM users"), []any{"owner@example.com"}).
		Return(&mockRow{scanFunc: func(dest ...any) error {
			*(dest[0].(*bool)) = true
			return nil
		}})

	res := newAuth(db).Register(ctx, request.Register{
		FirstName: "Ana", LastName: "Souza", Email: "Owner@Example.com", Password: "correct horse", TermsAccepted: true,
	})
	assert.Equal(t, StatusInvalidData, res.Status)
	assert.Empty(t, db.txs)
}

func TestCheckActive(t *testing.T) {
	claims := &Claims{TenantID: "t1", RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"}}
	activeRow := func(active bool) *mockRow {
		return &mockRow{scanFunc: func(dest ...any) error {
			*(dest[0].(*bool)) = active
			return nil
		}}
	}

	t.Run("active", func(t *testing.T) {
		db := &mockDB{}
		ctx := context.Background()
		db.On("QueryRow", ctx, sqlContains("u.is_active AND t.is_active", "u.id = $1"), []any{"u1", "t1"}).Return(activeRow(true))
		assert.NoError(t, newAuth(db).CheckActive(ctx, claims))
		db.AssertExpectations(t)
	})

	t.Run("deactivated", func(t *testing.T) {
		db := &mockDB{}
		ctx := context.Background()
		db.On("QueryRow", ctx, mock.Anything, mock.Anything).Return(activeRow(false))
		assert.ErrorIs(t, newAuth(db).CheckActive(ctx, claims), ErrInactiveAccount)
	})

	t.Run("user gone", func(t *testing.T) {
		db := &mockDB{}
		ctx := context.Background()
		db.On("QueryRow", ctx, mock.Anything, mock.Anything).Return(errRow(pgx.ErrNoRows))
		assert.ErrorIs(t, newAuth(db).CheckActive(ctx, claims), ErrInactiveAccount)
	})

	t.Run("lookup failed", func(t *testing.T) {
		db := &mockDB{}
		ctx := context.Background()
		db.On("QueryRow", ctx, mock.Anything, mock.Anything).Return(errRow(errors.New("connection refused")))
		err := newAuth(db).CheckActive(ctx, claims)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInactiveAccount)
	})
}
