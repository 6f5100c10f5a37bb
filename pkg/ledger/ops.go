package ledger

import (
	"context"

	"github.com/greenasset/tokend/internal/platform/logger"
	"github.com/greenasset/tokend/pkg/wallet"

	"github.com/pkg/errors"
)

// CreateIssuance builds, signs, and submits an issuance create for the
// signer's account, and returns the ledger-synthesized issuance ID along
// with the full result envelope.
func (c *Client) CreateIssuance(ctx context.Context, signer wallet.Signer,
	spec IssuanceSpec) (string, *SubmissionResult, error) {

	tx, err := BuildIssuanceCreate(signer.Address(), spec)
	if err != nil {
		return "", nil, errors.Wrap(err, "build issuance create")
	}

	result, err := c.Submit(ctx, tx, signer)
	if err != nil {
		return "", nil, err
	}

	issuanceID, err := result.IssuanceID()
	if err != nil {
		return "", result, err
	}

	logger.Info(ctx, "Issuance created : %s", issuanceID)
	return issuanceID, result, nil
}

// AuthorizeHolder grants holder permission for an issuance. An empty holder
// address self-authorizes the signer.
func (c *Client) AuthorizeHolder(ctx context.Context, signer wallet.Signer,
	holder, issuanceID string) (*SubmissionResult, error) {

	tx, err := BuildAuthorize(signer.Address(), holder, issuanceID)
	if err != nil {
		return nil, errors.Wrap(err, "build authorize")
	}

	return c.Submit(ctx, tx, signer)
}

// MintToHolder moves amount of an issuance from the issuer to the holder.
// The holder must already be authorized if the issuance requires it.
func (c *Client) MintToHolder(ctx context.Context, issuer wallet.Signer,
	holder, issuanceID, amount string) (*SubmissionResult, error) {

	tx, err := BuildMint(issuer.Address(), holder, issuanceID, amount)
	if err != nil {
		return nil, errors.Wrap(err, "build mint")
	}

	return c.Submit(ctx, tx, issuer)
}
