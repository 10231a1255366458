package quotations

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := NewToken()
		require.NoError(t, err)
		assert.Len(t, token, tokenBytes*2)
		_, err = hex.DecodeString(token)
		assert.NoError(t, err)
		assert.False(t, seen[token], "token collision")
		seen[token] = true
	}
}
