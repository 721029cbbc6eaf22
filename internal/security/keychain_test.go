package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestKeychainSecrets(t *testing.T) {
	keyring.MockInit()
	k := NewKeychain()

	secret, err := k.MarketToken()
	require.NoError(t, err)
	assert.Empty(t, secret)

	require.NoError(t, k.StoreSecret(MarketTokenAccount, "ghp_test"))
	secret, err = k.MarketToken()
	require.NoError(t, err)
	assert.Equal(t, "ghp_test", secret)

	require.NoError(t, k.StoreSecret(MarketTokenAccount, ""))
	secret, err = k.MarketToken()
	require.NoError(t, err)
	assert.Empty(t, secret)

	require.NoError(t, k.DeleteSecret("never-set"))
}
