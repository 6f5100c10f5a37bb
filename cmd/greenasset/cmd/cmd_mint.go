package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cmdMint = &cobra.Command{
	Use:   "mint <holderAddress> <issuanceID> <amount>",
	Short: "Mint tokens of an issuance to a holder",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 3 {
			return errors.New("Invalid parameter count")
		}

		return mintTokens(c, args)
	},
}

func mintTokens(c *cobra.Command, args []string) error {
	ctx := Context()

	env, err := buildEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Client.Disconnect(ctx)

	ctx, cancel := env.requestContext(ctx)
	defer cancel()

	issuer, err := env.issuerSigner()
	if err != nil {
		return err
	}

	result := env.Service.MintTokens(ctx, issuer, args[0], args[1], args[2])
	if !result.Success {
		fmt.Printf("Mint failed : %s\n", result.Error)
		return nil
	}

	fmt.Printf("Minted %d of %s to %s\n", result.Amount, result.IssuanceID, result.HolderAddress)
	return nil
}
