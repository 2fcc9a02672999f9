package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_Symmetric(t *testing.T) {
	pairs := [][2]int64{{1, 2}, {2, 1}, {7, 7}, {100, 3}, {3, 100}}
	for _, p := range pairs {
		assert.Equal(t, Key(p[0], p[1]), Key(p[1], p[0]))
	}
}

func TestKey_Canonical(t *testing.T) {
	assert.Equal(t, "1_2", Key(1, 2))
	assert.Equal(t, "1_2", Key(2, 1))
	assert.Equal(t, "3_100", Key(100, 3))
}

func TestParseKey(t *testing.T) {
	a, b, err := ParseKey("1_2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), a)
	assert.Equal(t, int64(2), b)
}

func TestParseKey_Malformed(t *testing.T) {
	for _, key := range []string{"", "12", "a_b", "1_"} {
		_, _, err := ParseKey(key)
		assert.Error(t, err, "key %q", key)
	}
}

func TestKeyRoundTrip(t *testing.T) {
	a, b, err := ParseKey(Key(42, 7))
	require.NoError(t, err)
	assert.Equal(t, int64(7), a)
	assert.Equal(t, int64(42), b)
}
