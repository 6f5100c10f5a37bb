package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cmdAuthorize = &cobra.Command{
	Use:   "authorize <holderAddress> <issuanceID>",
	Short: "Authorize a holder for an issuance",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 2 {
			return errors.New("Invalid parameter count")
		}

		return authorizeHolder(c, args)
	},
}

func authorizeHolder(c *cobra.Command, args []string) error {
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

	result, err := env.Client.AuthorizeHolder(ctx, issuer, args[0], args[1])
	if err != nil {
		fmt.Printf("Authorize failed : %s\n", err)
		return nil
	}

	fmt.Printf("Holder authorized in ledger %d : %s\n", result.LedgerIndex, result.Hash)
	return nil
}
