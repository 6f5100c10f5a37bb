package cmd

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cmdHoldings = &cobra.Command{
	Use:   "holdings <account> [issuanceID]",
	Short: "Show an account's token holdings",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) < 1 || len(args) > 2 {
			return errors.New("Invalid parameter count")
		}

		return showHoldings(c, args)
	},
}

func showHoldings(c *cobra.Command, args []string) error {
	ctx := Context()

	env, err := buildEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Client.Disconnect(ctx)

	ctx, cancel := env.requestContext(ctx)
	defer cancel()

	issuanceID := ""
	if len(args) == 2 {
		issuanceID = args[1]
	}

	record, err := env.Service.GetHoldings(ctx, args[0], issuanceID)
	if err != nil {
		fmt.Printf("Holdings query failed : %s\n", err)
		return nil
	}

	if len(record.Node) == 0 {
		fmt.Printf("No holdings for %s\n", args[0])
		return nil
	}

	fmt.Printf("Holdings for %s\n", args[0])
	spew.Dump(record)
	return nil
}
