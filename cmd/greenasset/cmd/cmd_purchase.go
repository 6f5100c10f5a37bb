package cmd

import (
	"fmt"
	"strconv"

	"github.com/greenasset/tokend/pkg/wallet"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cmdPurchase = &cobra.Command{
	Use:   "purchase <buyerSeed> <issuanceID> <amount>",
	Short: "Purchase tokens of an issuance for a buyer",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 3 {
			return errors.New("Invalid parameter count")
		}

		return purchaseTokens(c, args)
	},
}

func purchaseTokens(c *cobra.Command, args []string) error {
	ctx := Context()

	env, err := buildEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Client.Disconnect(ctx)

	ctx, cancel := env.requestContext(ctx)
	defer cancel()

	buyer, err := wallet.KeyFromSeed(args[0])
	if err != nil {
		fmt.Printf("Invalid buyer seed : %s\n", err)
		return nil
	}

	amount, err := strconv.ParseUint(args[2], 10, 64)
	if err != nil {
		fmt.Printf("Invalid amount : %s\n", err)
		return nil
	}

	issuer, err := env.issuerSigner()
	if err != nil {
		return err
	}

	result := env.Service.PurchaseTokens(ctx, buyer, args[1], issuer, amount)
	if !result.Success {
		fmt.Printf("Purchase failed : %s\n", result.Error)
		return nil
	}

	fmt.Printf("Purchased %d of %s for %s\n", result.Amount, result.IssuanceID, result.BuyerAddress)
	return nil
}
