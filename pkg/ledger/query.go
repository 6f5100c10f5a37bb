package ledger

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// AccountData is the subset of the account root entry the agent uses.
type AccountData struct {
	Account  string `json:"Account"`
	Balance  string `json:"Balance"`
	Sequence uint32 `json:"Sequence"`
}

// AccountInfo returns the validated account root for an account, or
// ErrAccountNotFound when the ledger has no entry for it.
func (c *Client) AccountInfo(ctx context.Context, account string) (*AccountData, error) {
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}

	var result struct {
		AccountData AccountData `json:"account_data"`
	}

	err := c.request(ctx, "account_info", map[string]interface{}{
		"account":      account,
		"ledger_index": "validated",
	}, &result)
	if err != nil {
		var ne *nodeError
		if errors.As(err, &ne) && ne.Code == "actNotFound" {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return &result.AccountData, nil
}

// CurrentLedgerIndex returns the node's in-progress ledger index.
func (c *Client) CurrentLedgerIndex(ctx context.Context) (uint32, error) {
	if err := c.Connect(ctx); err != nil {
		return 0, err
	}

	var result struct {
		LedgerCurrentIndex uint32 `json:"ledger_current_index"`
	}

	if err := c.request(ctx, "ledger_current", nil, &result); err != nil {
		return 0, err
	}

	return result.LedgerCurrentIndex, nil
}

// Fee returns the node's current base fee in drops, preferring the open
// ledger fee. When the node reports neither, the configured base fee is
// used.
func (c *Client) Fee(ctx context.Context) (string, error) {
	if err := c.Connect(ctx); err != nil {
		return "", err
	}

	var result struct {
		Drops struct {
			BaseFee       string `json:"base_fee"`
			OpenLedgerFee string `json:"open_ledger_fee"`
		} `json:"drops"`
	}

	if err := c.request(ctx, "fee", nil, &result); err != nil {
		return "", err
	}

	if len(result.Drops.OpenLedgerFee) > 0 {
		return result.Drops.OpenLedgerFee, nil
	}
	if len(result.Drops.BaseFee) > 0 {
		return result.Drops.BaseFee, nil
	}
	return c.config.BaseFee, nil
}

// HoldingsRecord is the raw ledger entry node for an account's holdings of
// one issuance. Empty (no node) means the account simply holds none, which
// is not an error.
type HoldingsRecord struct {
	Account    string          `json:"account"`
	IssuanceID string          `json:"mpt_issuance_id,omitempty"`
	Amount     string          `json:"mpt_amount,omitempty"`
	Node       json.RawMessage `json:"node,omitempty"`
}

// GetHoldings issues the read-only holdings query. With an issuance ID it
// keys a single ledger entry; without one it lists every token entry held
// by the account.
func (c *Client) GetHoldings(ctx context.Context, query HoldingsQuery) (*HoldingsRecord, error) {
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}

	record := &HoldingsRecord{
		Account:    query.Account,
		IssuanceID: query.IssuanceID,
	}

	if len(query.IssuanceID) > 0 {
		var result struct {
			Node json.RawMessage `json:"node"`
		}

		err := c.request(ctx, "ledger_entry", map[string]interface{}{
			"mptoken": map[string]interface{}{
				"account":         query.Account,
				"mpt_issuance_id": query.IssuanceID,
			},
			"ledger_index": "validated",
		}, &result)
		if err != nil {
			var ne *nodeError
			if errors.As(err, &ne) && ne.Code == "entryNotFound" {
				return record, nil // Holding zero of a token needs no entry.
			}
			return nil, err
		}

		record.Node = result.Node
		record.Amount = amountFromNode(result.Node)
		return record, nil
	}

	var result struct {
		AccountObjects json.RawMessage `json:"account_objects"`
	}

	err := c.request(ctx, "account_objects", map[string]interface{}{
		"account":      query.Account,
		"type":         "mptoken",
		"ledger_index": "validated",
	}, &result)
	if err != nil {
		var ne *nodeError
		if errors.As(err, &ne) && ne.Code == "actNotFound" {
			return record, nil
		}
		return nil, err
	}

	record.Node = result.AccountObjects
	return record, nil
}

// amountFromNode pulls the balance field out of a raw holdings node.
func amountFromNode(node json.RawMessage) string {
	if len(node) == 0 {
		return ""
	}

	var fields struct {
		MPTAmount string `json:"MPTAmount"`
	}
	if err := json.Unmarshal(node, &fields); err != nil {
		return ""
	}
	return fields.MPTAmount
}

// TxRecord is the node's report of a submitted transaction's standing.
type TxRecord struct {
	Hash        string          `json:"hash"`
	Validated   bool            `json:"validated"`
	LedgerIndex uint32          `json:"ledger_index"`
	Meta        *TxMeta         `json:"meta"`
	TxJSON      json.RawMessage `json:"tx_json"`
}

// TxMeta is the transaction metadata the ledger attaches at validation.
type TxMeta struct {
	TransactionResult string          `json:"TransactionResult"`
	IssuanceID        string          `json:"mpt_issuance_id,omitempty"`
	DeliveredAmount   json.RawMessage `json:"delivered_amount,omitempty"`
}

// Tx fetches a transaction by hash. Used to poll for validation and for
// caller-driven reconciliation after an ambiguous outcome.
func (c *Client) Tx(ctx context.Context, hash string) (*TxRecord, error) {
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}

	var record TxRecord
	err := c.request(ctx, "tx", map[string]interface{}{
		"transaction": hash,
	}, &record)
	if err != nil {
		return nil, err
	}

	return &record, nil
}
