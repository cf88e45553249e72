package platform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_RoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 30, 15, 123456000, time.UTC)
	token := Cursor{CreatedAt: at, ID: "abc"}.Encode()

	c, err := DecodeCursor(token)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.True(t, at.Equal(c.CreatedAt))
	assert.Equal(t, "abc", c.ID)
}

func TestDecodeCursor_Empty(t *testing.T) {
	c, err := DecodeCursor("")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestDecodeCursor_Malformed(t *testing.T) {
	_, err := DecodeCursor("!!!")
	require.Error(t, err)

	_, err = DecodeCursor(Cursor{ID: ""}.Encode())
	require.Error(t, err)
}
