package wallet

import (
	"sync"

	"github.com/btcsuite/btcd/btcec"
	"github.com/pkg/errors"
	bip32 "github.com/tyler-smith/go-bip32"
)

var (
	ErrKeyNotFound = errors.New("Key not found")
)

// KeyStore holds signing keys indexed by account address. When initialized
// with a master seed it can also derive child keys on demand, so one seed
// covers the issuer and any operator accounts.
type KeyStore struct {
	keys   map[string]*Key
	master *bip32.Key
	lock   sync.RWMutex
}

func NewKeyStore() *KeyStore {
	return &KeyStore{
		keys: make(map[string]*Key),
	}
}

// NewKeyStoreFromMasterSeed creates a KeyStore with a BIP32 master key so
// child keys can be derived.
func NewKeyStoreFromMasterSeed(seed []byte) (*KeyStore, error) {
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, errors.Wrap(err, "master key")
	}

	return &KeyStore{
		keys:   make(map[string]*Key),
		master: master,
	}, nil
}

// Add registers a key with the store.
func (ks *KeyStore) Add(key *Key) {
	ks.lock.Lock()
	defer ks.lock.Unlock()
	ks.keys[key.Address()] = key
}

// Remove drops a key from the store.
func (ks *KeyStore) Remove(key *Key) {
	ks.lock.Lock()
	defer ks.lock.Unlock()
	delete(ks.keys, key.Address())
}

// Get returns the key corresponding to the specified address.
func (ks *KeyStore) Get(address string) (*Key, error) {
	ks.lock.RLock()
	defer ks.lock.RUnlock()

	key, ok := ks.keys[address]
	if !ok {
		return nil, ErrKeyNotFound
	}

	return key, nil
}

// Addresses returns the addresses of all registered keys.
func (ks *KeyStore) Addresses() []string {
	ks.lock.RLock()
	defer ks.lock.RUnlock()

	result := make([]string, 0, len(ks.keys))
	for address := range ks.keys {
		result = append(result, address)
	}
	return result
}

// Derive derives the child key at index from the master key, registers it,
// and returns it.
func (ks *KeyStore) Derive(index uint32) (*Key, error) {
	ks.lock.Lock()
	defer ks.lock.Unlock()

	if ks.master == nil {
		return nil, errors.New("KeyStore has no master key")
	}

	child, err := ks.master.NewChildKey(index)
	if err != nil {
		return nil, errors.Wrapf(err, "derive child %d", index)
	}

	priv, _ := btcec.PrivKeyFromBytes(btcec.S256(), child.Key)
	key := NewKey(priv)
	ks.keys[key.Address()] = key

	return key, nil
}
