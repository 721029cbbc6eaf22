package security

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	// KeychainService is the service name secrets are stored under
	KeychainService = "oTools"

	// MarketTokenAccount holds the GitHub token used by the plugin market
	MarketTokenAccount = "plugin-market-token"
)

// Keychain provides secret storage backed by the OS keychain
type Keychain struct {
	service string
}

// NewKeychain creates a new keychain instance
func NewKeychain() *Keychain {
	return &Keychain{service: KeychainService}
}

// StoreSecret stores a secret for an account. An empty secret deletes it.
func (k *Keychain) StoreSecret(account string, secret string) error {
	if secret == "" {
		return k.DeleteSecret(account)
	}
	if err := keyring.Set(k.service, account, secret); err != nil {
		return fmt.Errorf("failed to store secret in keychain: %w", err)
	}
	return nil
}

// GetSecret returns the secret for an account, or "" when none is stored
func (k *Keychain) GetSecret(account string) (string, error) {
	secret, err := keyring.Get(k.service, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get secret from keychain: %w", err)
	}
	return secret, nil
}

// DeleteSecret removes the secret for an account
func (k *Keychain) DeleteSecret(account string) error {
	if err := keyring.Delete(k.service, account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to delete secret from keychain: %w", err)
	}
	return nil
}

// MarketToken returns the stored plugin market token
func (k *Keychain) MarketToken() (string, error) {
	return k.GetSecret(MarketTokenAccount)
}
