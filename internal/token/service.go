package token

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/greenasset/tokend/internal/oracle"
	"github.com/greenasset/tokend/internal/platform/db"
	"github.com/greenasset/tokend/internal/platform/logger"
	"github.com/greenasset/tokend/internal/project"
	"github.com/greenasset/tokend/internal/supply"
	"github.com/greenasset/tokend/pkg/ledger"
	"github.com/greenasset/tokend/pkg/wallet"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

var (
	// ErrProjectNotTokenized occurs when a purchase references an issuance
	// no local project record knows about.
	ErrProjectNotTokenized = errors.New("No tokenized project for issuance")
)

// LedgerClient is the slice of the ledger client this service uses. Tests
// inject doubles.
type LedgerClient interface {
	CreateIssuance(ctx context.Context, signer wallet.Signer,
		spec ledger.IssuanceSpec) (string, *ledger.SubmissionResult, error)
	AuthorizeHolder(ctx context.Context, signer wallet.Signer,
		holder, issuanceID string) (*ledger.SubmissionResult, error)
	MintToHolder(ctx context.Context, issuer wallet.Signer,
		holder, issuanceID, amount string) (*ledger.SubmissionResult, error)
	GetHoldings(ctx context.Context, query ledger.HoldingsQuery) (*ledger.HoldingsRecord, error)
}

// Service is the operation surface the controller layer consumes. It owns
// no connection state itself; the ledger client and the document store are
// injected.
type Service struct {
	Ledger   LedgerClient
	MasterDB *db.DB
	Oracle   *oracle.Oracle
}

// NewService assembles the token service.
func NewService(ledgerClient LedgerClient, masterDB *db.DB, priceOracle *oracle.Oracle) *Service {
	return &Service{
		Ledger:   ledgerClient,
		MasterDB: masterDB,
		Oracle:   priceOracle,
	}
}

// CreateGreenAssetToken creates the on-chain issuance for a certified
// project and initializes the local supply record. Issuance requires holder
// authorization so distribution stays under the issuer's control.
//
// The result always has the uniform shape: Success false carries the reason
// instead of an error crossing the boundary.
func (s *Service) CreateGreenAssetToken(ctx context.Context, data TokenData,
	issuer wallet.Signer) *CreateResult {

	ctx, span := trace.StartSpan(ctx, "internal.token.CreateGreenAssetToken")
	defer span.End()

	totalSupply, err := parseSupply(data.MaximumAmount)
	if err != nil {
		return &CreateResult{Success: false, Error: err.Error()}
	}

	metadata, err := json.Marshal(Metadata{
		Name:              data.Name,
		Description:       data.Description,
		Company:           data.Company,
		SDGs:              data.SDGs,
		VerificationScore: data.VerificationScore,
		Price:             data.Price,
	})
	if err != nil {
		return &CreateResult{Success: false, Error: err.Error()}
	}

	spec := ledger.IssuanceSpec{
		AssetScale:    data.AssetScale,
		MaximumAmount: data.MaximumAmount,
		TransferFee:   data.TransferFee,
		Metadata:      metadata,
		Flags:         ledger.FlagRequireAuth | ledger.FlagCanTransfer,
	}

	issuanceID, _, err := s.Ledger.CreateIssuance(ctx, issuer, spec)
	if err != nil {
		logger.Error(ctx, "Issuance create failed : %s", err)
		return &CreateResult{Success: false, Error: err.Error()}
	}

	now := time.Now()

	if _, err := supply.Create(ctx, s.MasterDB, &supply.NewRecord{
		ProjectID:   data.ProjectID,
		IssuanceID:  issuanceID,
		TotalSupply: totalSupply,
		Price:       data.Price,
	}, now); err != nil {
		// The issuance landed on chain. Surface the bookkeeping failure
		// rather than pretending the token doesn't exist.
		logger.Error(ctx, "Supply record create failed for %s : %s", issuanceID, err)
		return &CreateResult{Success: false, IssuanceID: issuanceID, Error: err.Error()}
	}

	if len(data.ProjectID) > 0 {
		if _, err := project.UpdateTokenInfo(ctx, s.MasterDB, data.ProjectID, &project.TokenInfo{
			IssuanceID:    issuanceID,
			IssuerAddress: issuer.Address(),
			AssetScale:    data.AssetScale,
			MaximumAmount: data.MaximumAmount,
			Price:         data.Price,
		}, now); err != nil && err != project.ErrNotFound {
			logger.Warn(ctx, "Token info update failed for %s : %s", data.ProjectID, err)
		}
	}

	return &CreateResult{
		Success:         true,
		IssuanceID:      issuanceID,
		IssuerAddress:   issuer.Address(),
		TotalSupply:     totalSupply,
		AvailableSupply: totalSupply, // Full supply unminted at creation
		Price:           data.Price,
	}
}

// PurchaseTokens authorizes the buyer for the issuance, mints the amount to
// them, and decrements the local available supply. The supply pre-check
// runs before any on-chain action so an oversized purchase fails fast and
// leaves no log entry.
func (s *Service) PurchaseTokens(ctx context.Context, buyer wallet.Signer,
	issuanceID string, issuer wallet.Signer, amount uint64) *PurchaseResult {

	ctx, span := trace.StartSpan(ctx, "internal.token.PurchaseTokens")
	defer span.End()

	p, err := s.projectForIssuance(ctx, issuanceID)
	if err != nil {
		return &PurchaseResult{Success: false, Error: err.Error()}
	}

	// Cheap local pre-check before touching the ledger.
	record, err := supply.Retrieve(ctx, s.MasterDB, p.ID)
	if err != nil {
		return &PurchaseResult{Success: false, Error: err.Error()}
	}
	if record.AvailableSupply < amount {
		return &PurchaseResult{Success: false, Error: supply.ErrInsufficientSupply.Error()}
	}

	// The buyer self-authorizes, then the issuer mints to them.
	if _, err := s.Ledger.AuthorizeHolder(ctx, buyer, "", issuanceID); err != nil {
		logger.Error(ctx, "Holder authorize failed : %s", err)
		return &PurchaseResult{Success: false, Error: err.Error()}
	}

	amountValue := strconv.FormatUint(amount, 10)
	if _, err := s.Ledger.MintToHolder(ctx, issuer, buyer.Address(), issuanceID, amountValue); err != nil {
		logger.Error(ctx, "Mint failed : %s", err)
		return &PurchaseResult{Success: false, Error: err.Error()}
	}

	if _, err := supply.Purchase(ctx, s.MasterDB, p.ID, amount, time.Now()); err != nil {
		// The tokens moved on chain. Surface the bookkeeping failure so the
		// operator reconciles rather than silently diverging.
		logger.Error(ctx, "Supply decrement failed for %s : %s", p.ID, err)
		return &PurchaseResult{Success: false, Error: err.Error()}
	}

	return &PurchaseResult{
		Success:      true,
		Amount:       amount,
		IssuanceID:   issuanceID,
		BuyerAddress: buyer.Address(),
	}
}

// MintTokens mints an amount of an issuance to a holder and records the
// mint in the local supply ledger. The amount must be expressible within
// the token's asset scale, and local bookkeeping counts whole tokens, so a
// fractional amount is rejected even when the scale allows it on chain.
func (s *Service) MintTokens(ctx context.Context, issuer wallet.Signer,
	holder, issuanceID, amount string) *MintResult {

	ctx, span := trace.StartSpan(ctx, "internal.token.MintTokens")
	defer span.End()

	p, err := s.projectForIssuance(ctx, issuanceID)
	if err != nil {
		return &MintResult{Success: false, Error: err.Error()}
	}

	var assetScale uint8
	if p.TokenInfo != nil {
		assetScale = p.TokenInfo.AssetScale
	}
	if !ledger.ValidAmountForScale(amount, assetScale) {
		return &MintResult{Success: false,
			Error: errors.Wrap(ledger.ErrBadAmount, amount).Error()}
	}

	supplyAmount, err := strconv.ParseUint(amount, 10, 64)
	if err != nil {
		return &MintResult{Success: false,
			Error: errors.Wrap(ledger.ErrBadAmount, amount).Error()}
	}

	if _, err := s.Ledger.MintToHolder(ctx, issuer, holder, issuanceID, amount); err != nil {
		logger.Error(ctx, "Mint failed : %s", err)
		return &MintResult{Success: false, Error: err.Error()}
	}

	if _, err := supply.Mint(ctx, s.MasterDB, p.ID, supplyAmount, time.Now()); err != nil {
		// The tokens exist on chain. Surface the bookkeeping failure so the
		// operator reconciles rather than silently diverging.
		logger.Error(ctx, "Supply increment failed for %s : %s", p.ID, err)
		return &MintResult{Success: false, IssuanceID: issuanceID, Error: err.Error()}
	}

	return &MintResult{
		Success:       true,
		Amount:        supplyAmount,
		IssuanceID:    issuanceID,
		HolderAddress: holder,
	}
}

// GetHoldings returns the raw ledger entry for an account's holdings. An
// account holding nothing yields an empty record, not an error.
func (s *Service) GetHoldings(ctx context.Context, account, issuanceID string) (*ledger.HoldingsRecord, error) {
	ctx, span := trace.StartSpan(ctx, "internal.token.GetHoldings")
	defer span.End()

	return s.Ledger.GetHoldings(ctx, ledger.BuildHoldingsQuery(account, issuanceID))
}

// GetTokenPrice returns the current token price from the oracle, degrading
// to cached or default prices so a purchase flow never dies on oracle
// unavailability.
func (s *Service) GetTokenPrice(ctx context.Context, issuanceID string) *oracle.PriceResult {
	result := s.Oracle.TokenPrice(ctx)
	if len(issuanceID) > 0 {
		result.TokenCode = issuanceID
	}
	return result
}

// projectForIssuance finds the tokenized project holding an issuance.
func (s *Service) projectForIssuance(ctx context.Context, issuanceID string) (*project.Project, error) {
	projects, err := project.List(ctx, s.MasterDB, project.Filters{HasTokens: true})
	if err != nil {
		return nil, err
	}

	for _, p := range projects {
		if p.TokenInfo != nil && p.TokenInfo.IssuanceID == issuanceID {
			return p, nil
		}
	}

	return nil, ErrProjectNotTokenized
}

// parseSupply parses a string-encoded maximum amount into the local supply
// counter. Local bookkeeping is capped at uint64; the on-chain field keeps
// its full precision as a string.
func parseSupply(maximumAmount string) (uint64, error) {
	if len(maximumAmount) == 0 {
		return 0, errors.New("Maximum amount required for a green asset token")
	}

	value, err := strconv.ParseUint(maximumAmount, 10, 64)
	if err != nil {
		return 0, errors.Wrap(ledger.ErrBadAmount, maximumAmount)
	}

	return value, nil
}
