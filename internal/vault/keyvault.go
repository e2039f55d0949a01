package vault

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	serviceName = "com.sskys18.telegram-korean-search"
	accountName = "session-key"
)

// GetOrCreateKey returns the AES-256 key stored in the OS keyring, creating
// and persisting a fresh random one on first use.
func GetOrCreateKey() ([KeySize]byte, error) {
	var key [KeySize]byte

	encoded, err := keyring.Get(serviceName, accountName)
	switch {
	case err == nil:
		raw, decodeErr := base64.StdEncoding.DecodeString(encoded)
		if decodeErr != nil || len(raw) != KeySize {
			return key, fmt.Errorf("vault: stored key has invalid length %d (want %d)", len(raw), KeySize)
		}
		copy(key[:], raw)
		return key, nil

	case errors.Is(err, keyring.ErrNotFound):
		generated, genErr := generateKey()
		if genErr != nil {
			return key, genErr
		}
		if setErr := keyring.Set(serviceName, accountName, base64.StdEncoding.EncodeToString(generated[:])); setErr != nil {
			return key, fmt.Errorf("vault: saving new key to keyring: %w", setErr)
		}
		return generated, nil

	default:
		return key, fmt.Errorf("vault: reading key from keyring: %w", err)
	}
}

// DeleteKey removes the session key from the OS keyring. Deleting an
// already-absent key is not an error, matching logout/reset semantics.
func DeleteKey() error {
	err := keyring.Delete(serviceName, accountName)
	if err == nil || errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("vault: deleting key from keyring: %w", err)
}

func generateKey() ([KeySize]byte, error) {
	var key [KeySize]byte
	if _, err := rand.Read(key[:]); err != nil {
		return key, fmt.Errorf("vault: generating key: %w", err)
	}
	return key, nil
}
