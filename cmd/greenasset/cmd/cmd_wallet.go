package cmd

import (
	"crypto/rand"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/greenasset/tokend/pkg/wallet"
)

var cmdWallet = &cobra.Command{
	Use:   "wallet [seed]",
	Short: "Generate a wallet seed, or show the address for an existing one",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) > 1 {
			return errors.New("Invalid parameter count")
		}

		return runWallet(c, args)
	},
}

func runWallet(c *cobra.Command, args []string) error {
	if len(args) == 1 {
		key, err := wallet.KeyFromSeed(args[0])
		if err != nil {
			fmt.Printf("Invalid seed : %s\n", err)
			return nil
		}

		fmt.Printf("Address : %s\n", key.Address())
		fmt.Printf("Public key : %s\n", key.PublicKeyHex())
		return nil
	}

	entropy := make([]byte, wallet.SeedLength)
	if _, err := rand.Read(entropy); err != nil {
		return errors.Wrap(err, "generate entropy")
	}

	seed, err := wallet.GenerateSeed(entropy)
	if err != nil {
		return errors.Wrap(err, "encode seed")
	}

	key, err := wallet.KeyFromSeed(seed)
	if err != nil {
		return errors.Wrap(err, "derive key")
	}

	fmt.Printf("Seed : %s\n", seed)
	fmt.Printf("Address : %s\n", key.Address())
	fmt.Printf("Public key : %s\n", key.PublicKeyHex())
	return nil
}
