package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/greenasset/tokend/internal/token"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cmdIssue = &cobra.Command{
	Use:   "issue <tokenDataJsonFile>",
	Short: "Create a green asset token issuance from certified token data",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("Invalid parameter count")
		}

		return issueToken(c, args)
	},
}

func issueToken(c *cobra.Command, args []string) error {
	ctx := Context()

	env, err := buildEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Client.Disconnect(ctx)

	ctx, cancel := env.requestContext(ctx)
	defer cancel()

	path := filepath.FromSlash(args[0])
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Failed to read token data file : %s\n", err)
		return nil
	}

	var tokenData token.TokenData
	if err := json.Unmarshal(data, &tokenData); err != nil {
		fmt.Printf("Failed to unmarshal token data : %s\n", err)
		return nil
	}

	issuer, err := env.issuerSigner()
	if err != nil {
		return err
	}

	result := env.Service.CreateGreenAssetToken(ctx, tokenData, issuer)
	if !result.Success {
		fmt.Printf("Token creation failed : %s\n", result.Error)
		return nil
	}

	fmt.Printf("Issuance ID : %s\n", result.IssuanceID)
	fmt.Printf("Issuer      : %s\n", result.IssuerAddress)
	fmt.Printf("Supply      : %d (%d available)\n", result.TotalSupply, result.AvailableSupply)
	fmt.Printf("Price       : %f\n", result.Price)
	return nil
}
