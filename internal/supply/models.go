package supply

import "time"

// Transaction types recorded in the supply log.
const (
	TxTypeMint     = "mint"
	TxTypePurchase = "purchase"
)

// Record tracks the local view of one project's token supply. It is an
// off-chain cross-check against on-chain state: minting increases the
// available supply, purchases decrease it, and it never goes negative.
type Record struct {
	ProjectID       string        `json:"project_id"`
	IssuanceID      string        `json:"issuance_id"`
	TotalSupply     uint64        `json:"total_supply"`
	AvailableSupply uint64        `json:"available_supply"`
	Price           float64       `json:"price"`
	Transactions    []Transaction `json:"transactions"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Transaction is one append-only supply log entry.
type Transaction struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Amount    uint64    `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRecord defines what we require when creating a supply record.
type NewRecord struct {
	ProjectID   string  `json:"project_id"`
	IssuanceID  string  `json:"issuance_id"`
	TotalSupply uint64  `json:"total_supply"`
	Price       float64 `json:"price"`
}
