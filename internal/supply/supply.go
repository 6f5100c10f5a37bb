package supply

import (
	"context"
	"sync"
	"time"

	"github.com/greenasset/tokend/internal/platform/db"
	"github.com/greenasset/tokend/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

var (
	// ErrNotFound abstracts the standard not found error.
	ErrNotFound = errors.New("Supply record not found")

	// ErrInsufficientSupply occurs when a purchase would drive available
	// supply negative. Checked before any ledger call is attempted.
	ErrInsufficientSupply = errors.New("Insufficient supply")

	// ErrAlreadyExists occurs when creating a record for a project that has
	// one.
	ErrAlreadyExists = errors.New("Supply record already exists")

	// ErrSupplyExceeded occurs when a mint would push available supply past
	// the total supply. Checking against the gap also keeps an oversized
	// amount from wrapping the counter.
	ErrSupplyExceeded = errors.New("Mint exceeds total supply")
)

// Every read-modify-write for a project goes through its lock so concurrent
// mints and purchases can't race the available supply counter.
var (
	locks    = make(map[string]*sync.Mutex)
	locksMtx sync.Mutex
)

func projectLock(projectID string) *sync.Mutex {
	locksMtx.Lock()
	defer locksMtx.Unlock()

	lock, exists := locks[projectID]
	if !exists {
		lock = &sync.Mutex{}
		locks[projectID] = lock
	}
	return lock
}

// Create initializes the supply record for a project whose token was just
// issued. The full supply is unminted at creation, so available equals
// total.
func Create(ctx context.Context, dbConn *db.DB, nu *NewRecord, now time.Time) (*Record, error) {
	ctx, span := trace.StartSpan(ctx, "internal.supply.Create")
	defer span.End()

	lock := projectLock(nu.ProjectID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := Fetch(ctx, dbConn, nu.ProjectID); err == nil {
		return nil, ErrAlreadyExists
	} else if err != ErrNotFound {
		return nil, err
	}

	record := &Record{
		ProjectID:       nu.ProjectID,
		IssuanceID:      nu.IssuanceID,
		TotalSupply:     nu.TotalSupply,
		AvailableSupply: nu.TotalSupply,
		Price:           nu.Price,
		Transactions:    make([]Transaction, 0),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := Save(ctx, dbConn, record); err != nil {
		return nil, err
	}

	return record, nil
}

// Mint increases a project's available supply and appends a mint entry to
// the transaction log. Available supply is capped at the total supply, so a
// mint that would exceed it is rejected with ErrSupplyExceeded before
// anything is mutated.
func Mint(ctx context.Context, dbConn *db.DB, projectID string, amount uint64,
	now time.Time) (*Record, error) {

	ctx, span := trace.StartSpan(ctx, "internal.supply.Mint")
	defer span.End()

	return adjust(ctx, dbConn, projectID, amount, TxTypeMint, now)
}

// Purchase decreases a project's available supply and appends a purchase
// entry to the transaction log. A decrement that would go negative is
// rejected with ErrInsufficientSupply before anything is mutated, so no log
// entry is written for a rejected purchase.
func Purchase(ctx context.Context, dbConn *db.DB, projectID string, amount uint64,
	now time.Time) (*Record, error) {

	ctx, span := trace.StartSpan(ctx, "internal.supply.Purchase")
	defer span.End()

	return adjust(ctx, dbConn, projectID, amount, TxTypePurchase, now)
}

func adjust(ctx context.Context, dbConn *db.DB, projectID string, amount uint64,
	txType string, now time.Time) (*Record, error) {

	lock := projectLock(projectID)
	lock.Lock()
	defer lock.Unlock()

	record, err := Fetch(ctx, dbConn, projectID)
	if err != nil {
		return nil, err
	}

	switch txType {
	case TxTypeMint:
		if amount > record.TotalSupply-record.AvailableSupply {
			logger.Warn(ctx, "Rejected mint of %d : %d of %d available for %s",
				amount, record.AvailableSupply, record.TotalSupply, projectID)
			return nil, ErrSupplyExceeded
		}
		record.AvailableSupply += amount
	case TxTypePurchase:
		if record.AvailableSupply < amount {
			logger.Warn(ctx, "Rejected purchase of %d : %d available for %s",
				amount, record.AvailableSupply, projectID)
			return nil, ErrInsufficientSupply
		}
		record.AvailableSupply -= amount
	default:
		return nil, errors.Errorf("Unknown supply tx type : %s", txType)
	}

	record.UpdatedAt = now

	uid, _ := uuid.NewRandom()
	record.Transactions = append(record.Transactions, Transaction{
		ID:        uid.String(),
		Type:      txType,
		Amount:    amount,
		Timestamp: now,
	})

	if err := Save(ctx, dbConn, record); err != nil {
		return nil, err
	}

	logger.Verbose(ctx, "Supply %s %d for %s : %d available",
		txType, amount, projectID, record.AvailableSupply)

	return record, nil
}

// Retrieve gets the specified supply record from the database.
func Retrieve(ctx context.Context, dbConn *db.DB, projectID string) (*Record, error) {
	ctx, span := trace.StartSpan(ctx, "internal.supply.Retrieve")
	defer span.End()

	lock := projectLock(projectID)
	lock.Lock()
	defer lock.Unlock()

	return Fetch(ctx, dbConn, projectID)
}
