package tests

import (
	"encoding/hex"
	"math/rand"

	"github.com/greenasset/tokend/pkg/wallet"
)

var testHelperRand = rand.New(rand.NewSource(184958751))

// RandomSeed returns a check-encoded wallet seed from deterministic test
// entropy.
func RandomSeed() string {
	data := make([]byte, wallet.SeedLength)
	for i := range data {
		data[i] = byte(testHelperRand.Intn(256))
	}
	seed, err := wallet.GenerateSeed(data)
	if err != nil {
		panic(err)
	}
	return seed
}

// RandomKey returns a key derived from a random seed.
func RandomKey() *wallet.Key {
	key, err := wallet.KeyFromSeed(RandomSeed())
	if err != nil {
		panic(err)
	}
	return key
}

// RandomAddress returns a valid ledger account address.
func RandomAddress() string {
	return RandomKey().Address()
}

// RandomIssuanceID returns a well-formed 192 bit issuance identifier.
func RandomIssuanceID() string {
	data := make([]byte, 24)
	for i := range data {
		data[i] = byte(testHelperRand.Intn(256))
	}
	return hex.EncodeToString(data)
}
