package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	t.Run("rejects non-positive sizes", func(t *testing.T) {
		_, err := GenerateToken(0)
		require.Error(t, err)

		_, err = GenerateToken(-4)
		require.Error(t, err)
	})

	t.Run("produces url-safe output of expected length", func(t *testing.T) {
		token, err := GenerateToken(TokenSize256)
		require.NoError(t, err)
		require.Len(t, token, 43) // 32 bytes -> 43 chars base64url, no padding
		require.NotContains(t, token, "+")
		require.NotContains(t, token, "/")
		require.NotContains(t, token, "=")
	})

	t.Run("tokens are unique", func(t *testing.T) {
		seen := make(map[string]struct{})
		for range 64 {
			token, err := GenerateToken(TokenSize128)
			require.NoError(t, err)
			_, dup := seen[token]
			require.False(t, dup, "generated a duplicate token")
			seen[token] = struct{}{}
		}
	})
}

func TestFingerprintToken(t *testing.T) {
	t.Parallel()

	a := FingerprintToken("invite-token")
	b := FingerprintToken("invite-token")
	c := FingerprintToken("other-token")

	require.Equal(t, a, b, "fingerprints must be deterministic")
	require.NotEqual(t, a, c)
	require.Len(t, a, 43)
	require.NotEqual(t, "invite-token", a, "fingerprint must not echo the token")
}
