package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCursor(t *testing.T) {
	createdAt := time.Date(2026, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeCursor(createdAt, "auth-123|with-pipe")
	assert.NotEmpty(t, token)

	cursor, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(cursor.CreatedAt))
	assert.Equal(t, "auth-123|with-pipe", cursor.ID)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	_, err := DecodeCursor("!!not base64!!")
	assert.Error(t, err)

	_, err = DecodeCursor(EncodeCursor(time.Now(), "")) // empty id
	assert.Error(t, err)
}

func TestCursor_Before(t *testing.T) {
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := Cursor{CreatedAt: at, ID: "m"}

	assert.True(t, c.Before(at.Add(-time.Second), "z"))
	assert.False(t, c.Before(at.Add(time.Second), "a"))
	assert.True(t, c.Before(at, "a"))
	assert.False(t, c.Before(at, "m"))
	assert.False(t, c.Before(at, "z"))
}
