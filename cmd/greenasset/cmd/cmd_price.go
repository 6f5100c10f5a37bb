package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cmdPrice = &cobra.Command{
	Use:   "price [issuanceID]",
	Short: "Show the current token price",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) > 1 {
			return errors.New("Invalid parameter count")
		}

		return showPrice(c, args)
	},
}

func showPrice(c *cobra.Command, args []string) error {
	ctx := Context()

	env, err := buildEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Client.Disconnect(ctx)

	issuanceID := ""
	if len(args) == 1 {
		issuanceID = args[0]
	}

	result := env.Service.GetTokenPrice(ctx, issuanceID)
	if !result.Success {
		fmt.Printf("Price lookup failed : %s\n", result.Error)
		return nil
	}

	fmt.Printf("Token : %s\n", result.TokenCode)
	fmt.Printf("Price (base) : %f\n", result.PriceBase)
	fmt.Printf("Price (USD) : %f\n", result.PriceUSD)
	if result.Cached {
		fmt.Printf("Served from cache\n")
	}
	return nil
}
