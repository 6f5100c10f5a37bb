package token

// TokenData is the certified token specification supplied by the project
// workflow when a token is created.
type TokenData struct {
	ProjectID         string   `json:"project_id"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Company           string   `json:"company"`
	SDGs              []string `json:"sdgs"`
	VerificationScore float64  `json:"verification_score"`
	MaximumAmount     string   `json:"maximum_amount"` // String-encoded integer
	AssetScale        uint8    `json:"asset_scale"`
	TransferFee       uint16   `json:"transfer_fee"`
	Price             float64  `json:"price"`
}

// Metadata is the opaque blob hex-encoded into the issuance create
// transaction. Decoding the on-chain metadata reproduces it exactly.
type Metadata struct {
	Name              string   `json:"name"`
	Description       string   `json:"description,omitempty"`
	Company           string   `json:"company,omitempty"`
	SDGs              []string `json:"sdgs,omitempty"`
	VerificationScore float64  `json:"verification_score,omitempty"`
	Price             float64  `json:"price,omitempty"`
}

// CreateResult is the uniform result shape for token creation. Callers
// always inspect Success rather than handling errors across the boundary.
type CreateResult struct {
	Success         bool    `json:"success"`
	IssuanceID      string  `json:"issuance_id,omitempty"`
	IssuerAddress   string  `json:"issuer_address,omitempty"`
	TotalSupply     uint64  `json:"total_supply"`
	AvailableSupply uint64  `json:"available_supply"`
	Price           float64 `json:"price"`
	Error           string  `json:"error,omitempty"`
}

// MintResult is the uniform result shape for mints.
type MintResult struct {
	Success       bool   `json:"success"`
	Amount        uint64 `json:"amount"`
	IssuanceID    string `json:"issuance_id,omitempty"`
	HolderAddress string `json:"holder_address,omitempty"`
	Error         string `json:"error,omitempty"`
}

// PurchaseResult is the uniform result shape for purchases.
type PurchaseResult struct {
	Success      bool   `json:"success"`
	Amount       uint64 `json:"amount"`
	IssuanceID   string `json:"issuance_id,omitempty"`
	BuyerAddress string `json:"buyer_address,omitempty"`
	Error        string `json:"error,omitempty"`
}
