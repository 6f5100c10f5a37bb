package project

import "time"

// Project statuses.
const (
	StatusPending   = "pending"
	StatusCertified = "certified"
	StatusTokenized = "tokenized"
)

// Project is one company's sustainability project and, once tokenized, its
// token information.
type Project struct {
	ID                string     `json:"id"`
	CompanyName       string     `json:"company_name"`
	ProjectName       string     `json:"project_name"`
	Description       string     `json:"description"`
	SDGs              []string   `json:"sdgs"`
	VerificationScore float64    `json:"verification_score"`
	Status            string     `json:"status"`
	TokenInfo         *TokenInfo `json:"token_info,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TokenInfo records the on-chain identity of a project's token.
type TokenInfo struct {
	IssuanceID    string    `json:"issuance_id"`
	IssuerAddress string    `json:"issuer_address"`
	AssetScale    uint8     `json:"asset_scale"`
	MaximumAmount string    `json:"maximum_amount,omitempty"`
	Price         float64   `json:"price"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewProject defines what we require when creating a Project record.
type NewProject struct {
	CompanyName       string   `json:"company_name"`
	ProjectName       string   `json:"project_name"`
	Description       string   `json:"description"`
	SDGs              []string `json:"sdgs"`
	VerificationScore float64  `json:"verification_score"`
}

// Filters narrows List results.
type Filters struct {
	Status      string
	CompanyName string
	HasTokens   bool
}
