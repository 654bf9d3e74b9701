package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONMapValueScanRoundTrip(t *testing.T) {
	m := JSONMap{"purpose": "login", "booking_id": int64(42)}

	v, err := m.Value()
	require.NoError(t, err)

	var got JSONMap
	require.NoError(t, got.Scan(v))

	assert.Equal(t, "login", got.GetString("purpose"))
	assert.Equal(t, int64(42), got.GetInt64("booking_id"))
}

func TestJSONMapScan(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		var m JSONMap
		require.NoError(t, m.Scan(nil))
		assert.Empty(t, m)
	})

	t.Run("String", func(t *testing.T) {
		var m JSONMap
		require.NoError(t, m.Scan(`{"status":"confirmed"}`))
		assert.Equal(t, "confirmed", m.GetString("status"))
	})

	t.Run("DecodedMap", func(t *testing.T) {
		var m JSONMap
		require.NoError(t, m.Scan(map[string]any{"status": "confirmed"}))
		assert.Equal(t, "confirmed", m.GetString("status"))
	})

	t.Run("UnsupportedType", func(t *testing.T) {
		var m JSONMap
		assert.ErrorIs(t, m.Scan(42), ErrScanValueNotBytes)
	})
}

func TestJSONMapGetters(t *testing.T) {
	m := JSONMap{"n": float64(7), "s": "x"}

	assert.Equal(t, int64(7), m.GetInt64("n"))
	assert.Equal(t, "x", m.GetString("s"))
	assert.Zero(t, m.GetInt64("missing"))
	assert.Empty(t, m.GetString("n"))
}
