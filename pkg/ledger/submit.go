package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/greenasset/tokend/internal/platform/logger"
	"github.com/greenasset/tokend/pkg/wallet"

	"github.com/pkg/errors"
)

// SubmissionResult is the node's full result envelope for a validated
// submission.
type SubmissionResult struct {
	EngineResult        string          `json:"engine_result"`
	EngineResultMessage string          `json:"engine_result_message"`
	Hash                string          `json:"hash"`
	Validated           bool            `json:"validated"`
	LedgerIndex         uint32          `json:"ledger_index"`
	Meta                *TxMeta         `json:"meta"`
	TxJSON              json.RawMessage `json:"tx_json"`
}

// txSuccessCode is the engine result of a transaction that applied.
const txSuccessCode = "tesSUCCESS"

// Submit autofills, signs, submits, and awaits validated inclusion of a
// transaction. It blocks until the node reports the transaction validated,
// finally rejected, or expired.
//
// Submissions from the same signing account are serialized so a fresh
// sequence number is fetched per transaction and never reused while one is
// in flight.
//
// Failure modes: *ConnectionError (transport, not retried here),
// *TransactionError (ledger rejection, surfaced verbatim), and
// *ConfirmationTimeoutError (ambiguous; the caller must re-query ledger
// state before considering a retry).
func (c *Client) Submit(ctx context.Context, tx Transaction, signer wallet.Signer) (*SubmissionResult, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	if err := c.Connect(ctx); err != nil {
		return nil, err
	}

	lock := c.lockAccount(tx.TxAccount())
	defer lock.Unlock()

	if err := c.autofill(ctx, tx); err != nil {
		return nil, err
	}

	blob, hash, err := c.sign(tx, signer)
	if err != nil {
		return nil, err
	}

	ctx = logger.ContextWithTxHash(ctx, hash)

	var submitResult struct {
		EngineResult        string          `json:"engine_result"`
		EngineResultMessage string          `json:"engine_result_message"`
		TxJSON              json.RawMessage `json:"tx_json"`
	}

	err = c.request(ctx, "submit", map[string]interface{}{
		"tx_blob": blob,
	}, &submitResult)
	if err != nil {
		var ne *nodeError
		if errors.As(err, &ne) {
			return nil, &TransactionError{Code: ne.Code, Message: ne.Message, Hash: hash}
		}
		return nil, err
	}

	// A terminal rejection at submission never makes it into a ledger.
	if strings.HasPrefix(submitResult.EngineResult, "tem") {
		return nil, &TransactionError{
			Code:    submitResult.EngineResult,
			Message: submitResult.EngineResultMessage,
			Hash:    hash,
		}
	}

	logger.Verbose(ctx, "Submitted, awaiting validation : %s", submitResult.EngineResult)

	return c.awaitValidation(ctx, tx, hash)
}

// autofill populates the ledger-required fields the builders leave blank:
// a fresh sequence number, the current fee, and the expiry ledger index.
func (c *Client) autofill(ctx context.Context, tx Transaction) error {
	base := tx.baseTx()

	if base.Sequence == 0 {
		info, err := c.AccountInfo(ctx, base.Account)
		if err != nil {
			return errors.Wrap(err, "autofill sequence")
		}
		base.Sequence = info.Sequence
	}

	if len(base.Fee) == 0 {
		fee, err := c.Fee(ctx)
		if err != nil {
			return errors.Wrap(err, "autofill fee")
		}
		base.Fee = fee
	}

	if base.LastLedgerSequence == 0 {
		current, err := c.CurrentLedgerIndex(ctx)
		if err != nil {
			return errors.Wrap(err, "autofill expiry")
		}
		base.LastLedgerSequence = current + c.config.ExpiryLedgers
	}

	return nil
}

// sign fills the signature fields and returns the hex blob the node accepts
// plus the transaction hash used to poll for validation. Binary
// serialization beyond canonical JSON is the ledger SDK's concern; this
// core stops at producing the correct logical fields.
func (c *Client) sign(tx Transaction, signer wallet.Signer) (string, string, error) {
	base := tx.baseTx()
	base.SigningPubKey = strings.ToUpper(signer.PublicKeyHex())

	unsigned, err := json.Marshal(tx)
	if err != nil {
		return "", "", errors.Wrap(err, "marshal unsigned")
	}

	sig, err := signer.Sign(unsigned)
	if err != nil {
		return "", "", errors.Wrap(err, "sign")
	}
	base.TxnSignature = strings.ToUpper(hex.EncodeToString(sig))

	signed, err := json.Marshal(tx)
	if err != nil {
		return "", "", errors.Wrap(err, "marshal signed")
	}

	digest := sha256.Sum256(signed)
	hash := strings.ToUpper(hex.EncodeToString(digest[:]))

	return strings.ToUpper(hex.EncodeToString(signed)), hash, nil
}

// awaitValidation polls the node until the transaction is validated, the
// expiry ledger passes, or the context deadline hits. The last two leave
// the outcome ambiguous.
func (c *Client) awaitValidation(ctx context.Context, tx Transaction, hash string) (*SubmissionResult, error) {
	base := tx.baseTx()

	interval := c.config.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, &ConfirmationTimeoutError{Hash: hash, LastLedger: base.LastLedgerSequence}
		case <-ticker.C:
		}

		record, err := c.Tx(ctx, hash)
		if err != nil {
			var ne *nodeError
			if errors.As(err, &ne) && ne.Code == "txnNotFound" {
				// Not in a ledger yet. Expired only once a validated ledger
				// passed the expiry without including it.
				current, err := c.CurrentLedgerIndex(ctx)
				if err != nil {
					return nil, err
				}
				if current > base.LastLedgerSequence {
					return nil, &ConfirmationTimeoutError{Hash: hash, LastLedger: base.LastLedgerSequence}
				}
				continue
			}
			return nil, err
		}

		if !record.Validated {
			continue
		}

		result := &SubmissionResult{
			Hash:        record.Hash,
			Validated:   true,
			LedgerIndex: record.LedgerIndex,
			Meta:        record.Meta,
			TxJSON:      record.TxJSON,
		}
		if len(result.Hash) == 0 {
			result.Hash = hash
		}

		if record.Meta != nil {
			result.EngineResult = record.Meta.TransactionResult
			if record.Meta.TransactionResult != txSuccessCode {
				return nil, &TransactionError{
					Code: record.Meta.TransactionResult,
					Hash: result.Hash,
				}
			}
		}

		logger.Info(ctx, "Transaction validated in ledger %d", record.LedgerIndex)
		return result, nil
	}
}
