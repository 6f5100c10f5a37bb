package ledger

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotConnected occurs when an operation is attempted on a client
	// whose session is not established.
	ErrNotConnected = errors.New("Not connected")

	// ErrMissingIssuanceID occurs when an issuance create result carries no
	// synthesized issuance identifier. The node's result shape changed or
	// the transaction was not an issuance create. Always fatal to the
	// operation.
	ErrMissingIssuanceID = errors.New("Issuance ID missing from result")

	// ErrAccountNotFound occurs when the ledger has no entry for the
	// requested account.
	ErrAccountNotFound = errors.New("Account not found")
)

// ConnectionError wraps transport and handshake failures. The client never
// retries these. Callers may retry after backoff.
type ConnectionError struct {
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("Connection failed : %s : %v", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// TransactionError is a ledger level rejection. It carries the node's
// reported engine result code verbatim and is never retried here.
type TransactionError struct {
	Code    string
	Message string
	Hash    string
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("Transaction failed : %s : %s", e.Code, e.Message)
}

// ConfirmationTimeoutError means the transaction's fate is unknown: it was
// submitted but not observed as validated before its expiry ledger passed or
// the deadline hit. The caller must re-query ledger state before retrying;
// blind resubmission risks a double send if the original landed.
type ConfirmationTimeoutError struct {
	Hash       string
	LastLedger uint32
}

func (e *ConfirmationTimeoutError) Error() string {
	return fmt.Sprintf("Confirmation timed out : %s : expiry ledger %d", e.Hash, e.LastLedger)
}

// IsConnectionError reports whether err is a transport failure.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// IsConfirmationTimeout reports whether err left the transaction's outcome
// ambiguous.
func IsConfirmationTimeout(err error) bool {
	var te *ConfirmationTimeoutError
	return errors.As(err, &te)
}
