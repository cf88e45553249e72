package tenancy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithScope_FromContext(t *testing.T) {
	ctx := WithScope(context.Background(), Scope{TenantID: "t1", UserID: "u1"})

	s, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "t1", s.TenantID)
	assert.Equal(t, "u1", *s.UserIDPtr())
}

func TestFromContext_Missing(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	_, err := Require(context.Background())
	assert.ErrorIs(t, err, ErrNoScope)
}

func TestFromContext_EmptyTenantIsNotAScope(t *testing.T) {
	ctx := WithScope(context.Background(), Scope{UserID: "u1"})
	_, ok := FromContext(ctx)
	assert.False(t, ok)
}

func TestUserIDPtr_System(t *testing.T) {
	assert.Nil(t, Scope{TenantID: "t1"}.UserIDPtr())
}
