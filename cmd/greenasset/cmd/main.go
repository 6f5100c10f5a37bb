package cmd

import (
	"context"
	"time"

	"github.com/greenasset/tokend/internal/oracle"
	"github.com/greenasset/tokend/internal/platform/config"
	"github.com/greenasset/tokend/internal/platform/db"
	"github.com/greenasset/tokend/internal/platform/logger"
	"github.com/greenasset/tokend/internal/token"
	"github.com/greenasset/tokend/pkg/ledger"
	"github.com/greenasset/tokend/pkg/wallet"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var gaCmd = &cobra.Command{
	Use:   "greenasset",
	Short: "Green Asset Token CLI",
}

func Execute() {
	gaCmd.AddCommand(cmdIssue)
	gaCmd.AddCommand(cmdAuthorize)
	gaCmd.AddCommand(cmdMint)
	gaCmd.AddCommand(cmdPurchase)
	gaCmd.AddCommand(cmdHoldings)
	gaCmd.AddCommand(cmdPrice)
	gaCmd.AddCommand(cmdWallet)
	gaCmd.AddCommand(cmdAgent)
	gaCmd.Execute()
}

// Context returns a logging context for one CLI invocation.
func Context() context.Context {
	return logger.NewContext()
}

// environment assembles the pieces a command needs from env config.
type environment struct {
	Config   *config.Config
	MasterDB *db.DB
	Client   *ledger.Client
	Service  *token.Service
	Oracle   *oracle.Oracle
	Wallet   *wallet.Wallet
}

func buildEnvironment(ctx context.Context) (*environment, error) {
	cfg, err := config.Environment()
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}

	masterDB, err := db.New(&db.StorageConfig{
		Bucket:    cfg.Storage.Bucket,
		Root:      cfg.Storage.Root,
		Region:    cfg.AWS.Region,
		AccessKey: cfg.AWS.AccessKeyID,
		Secret:    cfg.AWS.SecretAccessKey,
	})
	if err != nil {
		return nil, errors.Wrap(err, "storage")
	}

	clientConfig := ledger.NewConfig(cfg.Ledger.Endpoint)
	clientConfig.HandshakeTimeout = time.Duration(cfg.Ledger.HandshakeWait) * time.Second
	clientConfig.PollInterval = time.Duration(cfg.Ledger.PollInterval) * time.Millisecond
	clientConfig.ExpiryLedgers = cfg.Ledger.ExpiryLedgers
	clientConfig.BaseFee = cfg.Ledger.BaseFeeDrops
	client := ledger.NewClient(clientConfig)

	priceOracle := oracle.New(
		oracle.StaticSource{Quote: oracle.Quote{PriceBase: cfg.Oracle.DefaultPrice, PriceUSD: cfg.Oracle.DefaultPrice}},
		"GREEN",
		time.Duration(cfg.Oracle.RefreshMinutes)*time.Minute,
		cfg.Oracle.DefaultPrice,
		cfg.Oracle.HistoryLimit,
	)

	w := wallet.New()
	if len(cfg.Agent.IssuerSeed) > 0 {
		if _, err := w.Register(cfg.Agent.IssuerSeed); err != nil {
			return nil, errors.Wrap(err, "issuer seed")
		}
	}

	return &environment{
		Config:   cfg,
		MasterDB: masterDB,
		Client:   client,
		Service:  token.NewService(client, masterDB, priceOracle),
		Oracle:   priceOracle,
		Wallet:   w,
	}, nil
}

// requestContext bounds one ledger operation with the configured request
// timeout so a stalled node cannot hang a command indefinitely.
func (e *environment) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(e.Config.Agent.RequestTimeout))
}

// issuerSigner returns the signer for the configured issuer seed.
func (e *environment) issuerSigner() (wallet.Signer, error) {
	if len(e.Config.Agent.IssuerSeed) == 0 {
		return nil, errors.New("AGENT_ISSUER_SEED not configured")
	}
	return wallet.KeyFromSeed(e.Config.Agent.IssuerSeed)
}
