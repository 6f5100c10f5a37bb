package wallet

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec"
	"github.com/btcsuite/btcutil/base58"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ripemd160"
)

const (
	// AddressPrefix marks ledger account addresses.
	AddressPrefix = "r"

	// AddressVersion is the version byte used when check-encoding the
	// account ID.
	AddressVersion = 0x00

	// SeedLength is the number of entropy bytes in a check-encoded seed.
	SeedLength = 16

	// SeedVersion is the version byte used when check-encoding seeds.
	SeedVersion = 0x21
)

var (
	ErrBadSeed    = errors.New("Malformed seed")
	ErrBadAddress = errors.New("Malformed address")
)

// Signer is the capability the transaction submitter requires from a
// wallet: an account address and the ability to sign a message.
type Signer interface {
	Address() string
	PublicKeyHex() string
	Sign(message []byte) ([]byte, error)
}

// Key is a single signing key and its derived account address.
type Key struct {
	PrivateKey *btcec.PrivateKey
	PublicKey  *btcec.PublicKey
}

// NewKey wraps a secp256k1 private key.
func NewKey(priv *btcec.PrivateKey) *Key {
	return &Key{
		PrivateKey: priv,
		PublicKey:  priv.PubKey(),
	}
}

// KeyFromSeed derives a key from a check-encoded 16 byte seed, the form
// wallets are distributed in.
func KeyFromSeed(seed string) (*Key, error) {
	entropy, version, err := base58.CheckDecode(seed)
	if err != nil {
		return nil, errors.Wrap(ErrBadSeed, err.Error())
	}
	if version != SeedVersion || len(entropy) != SeedLength {
		return nil, ErrBadSeed
	}

	return keyFromEntropy(entropy), nil
}

// GenerateSeed returns a new check-encoded seed from the supplied entropy.
func GenerateSeed(entropy []byte) (string, error) {
	if len(entropy) != SeedLength {
		return "", ErrBadSeed
	}
	return base58.CheckEncode(entropy, SeedVersion), nil
}

// keyFromEntropy stretches seed entropy into a private key.
func keyFromEntropy(entropy []byte) *Key {
	digest := sha512.Sum512(entropy)
	priv, _ := btcec.PrivKeyFromBytes(btcec.S256(), digest[:32])
	return NewKey(priv)
}

// Address returns the account address for the key. The account ID is
// RIPEMD160(SHA256(compressed public key)).
func (k *Key) Address() string {
	return AddressFromPublicKey(k.PublicKey)
}

// PublicKeyHex returns the compressed public key as hex, the form it takes
// in a signed transaction's SigningPubKey field.
func (k *Key) PublicKeyHex() string {
	return hex.EncodeToString(k.PublicKey.SerializeCompressed())
}

// Sign signs the SHA256 digest of the message and returns the DER encoded
// signature.
func (k *Key) Sign(message []byte) ([]byte, error) {
	digest := sha256.Sum256(message)
	sig, err := k.PrivateKey.Sign(digest[:])
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return sig.Serialize(), nil
}

// AddressFromPublicKey derives the account address for a public key.
func AddressFromPublicKey(pub *btcec.PublicKey) string {
	hash256 := sha256.Sum256(pub.SerializeCompressed())
	hash160 := ripemd160.New()
	hash160.Write(hash256[:])

	return AddressPrefix + base58.CheckEncode(hash160.Sum(nil), AddressVersion)
}

// ValidAddress reports whether s is a well formed account address.
func ValidAddress(s string) bool {
	if len(s) < 2 || s[:1] != AddressPrefix {
		return false
	}

	accountID, version, err := base58.CheckDecode(s[1:])
	if err != nil {
		return false
	}

	return version == AddressVersion && len(accountID) == ripemd160.Size
}
