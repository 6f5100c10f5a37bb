package ledger

import (
	"encoding/hex"
	"strings"

	"github.com/greenasset/tokend/pkg/wallet"

	"github.com/pkg/errors"
)

// Transaction type tags, as they appear on the wire.
const (
	TxTypeIssuanceCreate = "MPTokenIssuanceCreate"
	TxTypeAuthorize      = "MPTokenAuthorize"
	TxTypePayment        = "Payment"
)

// Issuance create flags.
const (
	FlagCanLock     uint32 = 0x0002
	FlagRequireAuth uint32 = 0x0004
	FlagCanEscrow   uint32 = 0x0008
	FlagCanTrade    uint32 = 0x0010
	FlagCanTransfer uint32 = 0x0020
	FlagCanClawback uint32 = 0x0040
)

const (
	// MaxAssetScale is the most decimal places an issuance may carry.
	MaxAssetScale = 9

	// IssuanceIDLength is the length in hex characters of the 192 bit
	// issuance identifier the ledger synthesizes.
	IssuanceIDLength = 48

	// MaxTransferFee is the largest transfer fee an issuance may carry, in
	// units of 0.001%. The ledger caps the fee at 50%.
	MaxTransferFee = 50000
)

var (
	ErrBadAssetScale  = errors.New("Asset scale out of range")
	ErrBadAmount      = errors.New("Malformed amount")
	ErrBadIssuanceID  = errors.New("Malformed issuance ID")
	ErrBadAddress     = errors.New("Malformed address")
	ErrBadTransferFee = errors.New("Transfer fee out of range")
)

// Transaction is the tagged union over the transaction kinds this agent
// submits. Concrete types carry their own validated field sets so a
// malformed construction fails before it reaches the node.
type Transaction interface {
	TxType() string
	TxAccount() string
	Validate() error

	// autofill hooks used by the submitter.
	baseTx() *BaseTx
}

// BaseTx holds the fields common to every transaction. Sequence, Fee, and
// LastLedgerSequence are left zero by the builders and filled from live
// ledger state by the submitter. Zero values marshal as absent so the node
// never sees unknown-but-empty fields.
type BaseTx struct {
	TransactionType    string `json:"TransactionType"`
	Account            string `json:"Account"`
	Sequence           uint32 `json:"Sequence,omitempty"`
	Fee                string `json:"Fee,omitempty"`
	LastLedgerSequence uint32 `json:"LastLedgerSequence,omitempty"`
	SigningPubKey      string `json:"SigningPubKey,omitempty"`
	TxnSignature       string `json:"TxnSignature,omitempty"`
}

func (b *BaseTx) TxType() string    { return b.TransactionType }
func (b *BaseTx) TxAccount() string { return b.Account }
func (b *BaseTx) baseTx() *BaseTx   { return b }

// IssuanceCreateTx declares a new token type. The ledger responds with a
// synthesized issuance identifier in the result metadata.
type IssuanceCreateTx struct {
	BaseTx
	AssetScale    uint8  `json:"AssetScale"`
	MaximumAmount string `json:"MaximumAmount,omitempty"`
	TransferFee   uint16 `json:"TransferFee,omitempty"`
	Metadata      string `json:"MPTokenMetadata,omitempty"` // hex encoded UTF-8
	Flags         uint32 `json:"Flags,omitempty"`
}

func (tx *IssuanceCreateTx) Validate() error {
	if !wallet.ValidAddress(tx.Account) {
		return errors.Wrap(ErrBadAddress, tx.Account)
	}
	if tx.AssetScale > MaxAssetScale {
		return ErrBadAssetScale
	}
	if tx.TransferFee > MaxTransferFee {
		return ErrBadTransferFee
	}
	if len(tx.MaximumAmount) > 0 && !isDecimalInteger(tx.MaximumAmount) {
		return errors.Wrap(ErrBadAmount, tx.MaximumAmount)
	}
	if len(tx.Metadata) > 0 {
		if _, err := hex.DecodeString(tx.Metadata); err != nil {
			return errors.Wrap(err, "metadata not hex")
		}
	}
	return nil
}

// AuthorizeTx grants (or requests) permission for an account to hold an
// issuance. When Holder is empty the signer authorizes itself.
type AuthorizeTx struct {
	BaseTx
	IssuanceID string `json:"MPTokenIssuanceID"`
	Holder     string `json:"Holder,omitempty"`
}

func (tx *AuthorizeTx) Validate() error {
	if !wallet.ValidAddress(tx.Account) {
		return errors.Wrap(ErrBadAddress, tx.Account)
	}
	if !ValidIssuanceID(tx.IssuanceID) {
		return errors.Wrap(ErrBadIssuanceID, tx.IssuanceID)
	}
	if len(tx.Holder) > 0 && !wallet.ValidAddress(tx.Holder) {
		return errors.Wrap(ErrBadAddress, tx.Holder)
	}
	return nil
}

// MPTAmount is the structured amount of a specific issuance.
type MPTAmount struct {
	IssuanceID string `json:"mpt_issuance_id"`
	Value      string `json:"value"`
}

// PaymentTx moves tokens of one issuance to a destination account. Minting
// is a payment from the issuer. The same structured amount is pinned into
// SendMax and DeliverMin so exactly the stated quantity moves.
type PaymentTx struct {
	BaseTx
	Destination string     `json:"Destination"`
	Amount      MPTAmount  `json:"Amount"`
	SendMax     *MPTAmount `json:"SendMax,omitempty"`
	DeliverMin  *MPTAmount `json:"DeliverMin,omitempty"`
}

func (tx *PaymentTx) Validate() error {
	if !wallet.ValidAddress(tx.Account) {
		return errors.Wrap(ErrBadAddress, tx.Account)
	}
	if !wallet.ValidAddress(tx.Destination) {
		return errors.Wrap(ErrBadAddress, tx.Destination)
	}
	if !ValidIssuanceID(tx.Amount.IssuanceID) {
		return errors.Wrap(ErrBadIssuanceID, tx.Amount.IssuanceID)
	}
	if !isDecimalAmount(tx.Amount.Value) {
		return errors.Wrap(ErrBadAmount, tx.Amount.Value)
	}
	return nil
}

// ValidIssuanceID reports whether s is a 192 bit hex issuance identifier.
func ValidIssuanceID(s string) bool {
	if len(s) != IssuanceIDLength {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// ValidAmountForScale reports whether a decimal amount can be represented
// within an issuance's asset scale.
func ValidAmountForScale(amount string, assetScale uint8) bool {
	if !isDecimalAmount(amount) {
		return false
	}
	dot := strings.IndexByte(amount, '.')
	if dot < 0 {
		return true
	}
	return len(amount)-dot-1 <= int(assetScale)
}

// isDecimalInteger matches non-negative base 10 integers of arbitrary
// precision. Ledger amounts exceed native numeric types so they stay
// strings end to end.
func isDecimalInteger(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isDecimalAmount matches non-negative decimal amounts with an optional
// fractional part.
func isDecimalAmount(s string) bool {
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return isDecimalInteger(s)
	}
	return isDecimalInteger(s[:dot]) && isDecimalInteger(s[dot+1:])
}
