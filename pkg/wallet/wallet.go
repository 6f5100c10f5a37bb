package wallet

/**
 * Wallet Service
 *
 * What is my purpose?
 * - You store keys
 * - You sign things for me
 */

import (
	"github.com/pkg/errors"
)

// Wallet owns the key store and is the unit handed to components that need
// signing capability.
type Wallet struct {
	KeyStore *KeyStore
}

func New() *Wallet {
	return &Wallet{
		KeyStore: NewKeyStore(),
	}
}

// NewFromMasterSeed creates a wallet that derives keys from one seed.
func NewFromMasterSeed(seed []byte) (*Wallet, error) {
	ks, err := NewKeyStoreFromMasterSeed(seed)
	if err != nil {
		return nil, err
	}
	return &Wallet{KeyStore: ks}, nil
}

// Register derives a key from a check-encoded seed and puts it in the key
// store. Returns the key's account address.
func (w *Wallet) Register(seed string) (string, error) {
	if len(seed) == 0 {
		return "", errors.New("Register failed: missing seed")
	}

	key, err := KeyFromSeed(seed)
	if err != nil {
		return "", err
	}

	w.KeyStore.Add(key)
	return key.Address(), nil
}

// Signer returns the signing capability for the given account address.
func (w *Wallet) Signer(address string) (Signer, error) {
	return w.KeyStore.Get(address)
}
