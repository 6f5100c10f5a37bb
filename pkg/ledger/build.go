package ledger

import (
	"encoding/hex"
	"strings"
)

// IssuanceSpec is the input to issuance creation. MaximumAmount is a
// string-encoded integer because ledger precision exceeds native numeric
// types; empty means uncapped.
type IssuanceSpec struct {
	AssetScale    uint8
	MaximumAmount string
	TransferFee   uint16 // Units of 0.001%, at most MaxTransferFee
	Metadata      []byte // Opaque UTF-8 blob, usually JSON
	Flags         uint32
}

// BuildIssuanceCreate constructs an unsigned issuance create transaction.
// Pure: no I/O, no signing. Optional fields are absent rather than empty so
// the node never rejects unknown-but-empty fields.
func BuildIssuanceCreate(account string, spec IssuanceSpec) (*IssuanceCreateTx, error) {
	tx := &IssuanceCreateTx{
		BaseTx: BaseTx{
			TransactionType: TxTypeIssuanceCreate,
			Account:         account,
		},
		AssetScale:    spec.AssetScale,
		MaximumAmount: spec.MaximumAmount,
		TransferFee:   spec.TransferFee,
		Flags:         spec.Flags,
	}

	if len(spec.Metadata) > 0 {
		tx.Metadata = strings.ToUpper(hex.EncodeToString(spec.Metadata))
	}

	if err := tx.Validate(); err != nil {
		return nil, err
	}

	return tx, nil
}

// BuildAuthorize constructs an unsigned holder authorization. An empty
// holder is the self-authorize variant: the signer is the holder.
func BuildAuthorize(account, holder, issuanceID string) (*AuthorizeTx, error) {
	tx := &AuthorizeTx{
		BaseTx: BaseTx{
			TransactionType: TxTypeAuthorize,
			Account:         account,
		},
		IssuanceID: issuanceID,
		Holder:     holder,
	}

	if err := tx.Validate(); err != nil {
		return nil, err
	}

	return tx, nil
}

// BuildMint constructs the payment-shaped transaction that moves amount of
// an issuance from the issuer to a destination. The structured amount is
// duplicated into SendMax and DeliverMin to pin the exact quantity.
func BuildMint(issuer, destination, issuanceID, amount string) (*PaymentTx, error) {
	mptAmount := MPTAmount{
		IssuanceID: issuanceID,
		Value:      amount,
	}

	tx := &PaymentTx{
		BaseTx: BaseTx{
			TransactionType: TxTypePayment,
			Account:         issuer,
		},
		Destination: destination,
		Amount:      mptAmount,
		SendMax:     &mptAmount,
		DeliverMin:  &mptAmount,
	}

	if err := tx.Validate(); err != nil {
		return nil, err
	}

	return tx, nil
}

// HoldingsQuery is a read-only ledger entry request for an account's token
// holdings. With an issuance ID it keys the specific entry; without one it
// lists all token entries for the account.
type HoldingsQuery struct {
	Account    string
	IssuanceID string
}

// BuildHoldingsQuery constructs the read-only holdings request.
func BuildHoldingsQuery(account, issuanceID string) HoldingsQuery {
	return HoldingsQuery{
		Account:    account,
		IssuanceID: issuanceID,
	}
}
