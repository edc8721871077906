package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRecordLocator(t *testing.T) {
	t.Run("uses the phonetic alphabet", func(t *testing.T) {
		for i := 0; i < 2000; i++ {
			locator := GenerateRecordLocator()
			require.Len(t, locator, 6)
			for _, c := range locator {
				assert.Contains(t, locatorChars, string(c))
			}
		}
	})

	t.Run("first character never shadows a retrieve lookup verb", func(t *testing.T) {
		// RTF, RTP, RTT and RTM win longest-prefix resolution over RT, so
		// a locator starting with one of those letters could not be typed
		// as RT<locator>.
		for i := 0; i < 2000; i++ {
			locator := GenerateRecordLocator()
			assert.NotContains(t, "FPTM", locator[:1], "locator %s collides with a lookup verb", locator)
		}
	})
}

func TestHashTokenIsStable(t *testing.T) {
	a := HashToken("token-one")
	b := HashToken("token-one")
	c := HashToken("token-two")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
	assert.Equal(t, strings.ToLower(a), a)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("verdon-st-4")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("verdon-st-4", hash))
	assert.False(t, CheckPasswordHash("verdon-st-5", hash))
}
