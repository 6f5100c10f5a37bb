package ledger

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// fakeNode is a websocket server speaking the node's flat request envelope.
// Each incoming command is routed to the test's handler, which returns
// either a result object or a node error code.
type fakeNode struct {
	server   *httptest.Server
	upgrader websocket.Upgrader

	mu         sync.Mutex
	handshakes int
	handler    func(command string, req map[string]interface{}) (interface{}, string)
}

func newFakeNode(t *testing.T) *fakeNode {
	t.Helper()

	node := &fakeNode{}
	node.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := node.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		node.mu.Lock()
		node.handshakes++
		node.mu.Unlock()

		defer conn.Close()
		for {
			var req map[string]interface{}
			if err := conn.ReadJSON(&req); err != nil {
				return
			}

			command, _ := req["command"].(string)

			node.mu.Lock()
			handler := node.handler
			node.mu.Unlock()

			resp := map[string]interface{}{
				"id":   req["id"],
				"type": "response",
			}

			var result interface{}
			errCode := "unknownCmd"
			if handler != nil {
				result, errCode = handler(command, req)
			}

			if len(errCode) > 0 {
				resp["status"] = "error"
				resp["error"] = errCode
				resp["error_message"] = errCode
			} else {
				resp["status"] = "success"
				resp["result"] = result
			}

			if err := conn.WriteJSON(resp); err != nil {
				return
			}
		}
	}))

	t.Cleanup(node.server.Close)
	return node
}

func (node *fakeNode) url() string {
	return "ws" + strings.TrimPrefix(node.server.URL, "http")
}

func (node *fakeNode) handle(handler func(command string, req map[string]interface{}) (interface{}, string)) {
	node.mu.Lock()
	node.handler = handler
	node.mu.Unlock()
}

func (node *fakeNode) handshakeCount() int {
	node.mu.Lock()
	defer node.mu.Unlock()
	return node.handshakes
}

func newTestClient(t *testing.T, node *fakeNode) *Client {
	t.Helper()

	config := NewConfig(node.url())
	config.HandshakeTimeout = 5 * time.Second
	config.PollInterval = 5 * time.Millisecond
	config.ExpiryLedgers = 20

	client := NewClient(config)
	t.Cleanup(func() { client.Disconnect(context.Background()) })
	return client
}

func TestConnect_idempotent(t *testing.T) {
	ctx := context.Background()
	node := newFakeNode(t)
	client := newTestClient(t, node)

	if client.IsConnected() {
		t.Fatal("Expected unconnected client")
	}

	if err := client.Connect(ctx); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if err := client.Connect(ctx); err != nil {
		t.Fatalf("want nil, got %v", err)
	}

	if !client.IsConnected() {
		t.Fatal("Expected connected client")
	}

	// A second Connect on a live session never re-dials.
	if got := node.handshakeCount(); got != 1 {
		t.Errorf("Got %v handshakes, want 1", got)
	}

	if err := client.Disconnect(ctx); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if client.IsConnected() {
		t.Fatal("Expected disconnected client")
	}

	// Disconnect twice is a no-op.
	if err := client.Disconnect(ctx); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
}

func TestConnect_refused(t *testing.T) {
	ctx := context.Background()

	config := NewConfig("ws://127.0.0.1:1")
	config.HandshakeTimeout = 100 * time.Millisecond
	client := NewClient(config)

	err := client.Connect(ctx)
	if err == nil {
		t.Fatal("want error, got nil")
	}
	if !IsConnectionError(err) {
		t.Errorf("Got %T, want *ConnectionError", err)
	}
}

func TestAccountInfo(t *testing.T) {
	ctx := context.Background()
	node := newFakeNode(t)
	client := newTestClient(t, node)

	account := testKey(t, 0x01).Address()

	node.handle(func(command string, req map[string]interface{}) (interface{}, string) {
		if command != "account_info" {
			return nil, "unknownCmd"
		}
		if req["account"] != account {
			return nil, "actNotFound"
		}
		return map[string]interface{}{
			"account_data": map[string]interface{}{
				"Account":  account,
				"Balance":  "99999988",
				"Sequence": 42,
			},
		}, ""
	})

	info, err := client.AccountInfo(ctx, account)
	if err != nil {
		t.Fatalf("want nil, got %v", err)
	}

	if info.Sequence != 42 {
		t.Errorf("Got %v, want %v", info.Sequence, 42)
	}
	if info.Balance != "99999988" {
		t.Errorf("Got %v, want %v", info.Balance, "99999988")
	}

	if _, err := client.AccountInfo(ctx, testKey(t, 0x02).Address()); err != ErrAccountNotFound {
		t.Errorf("Got %v, want %v", err, ErrAccountNotFound)
	}
}

func TestGetHoldings(t *testing.T) {
	ctx := context.Background()
	node := newFakeNode(t)
	client := newTestClient(t, node)

	holder := testKey(t, 0x03).Address()

	node.handle(func(command string, req map[string]interface{}) (interface{}, string) {
		if command != "ledger_entry" {
			return nil, "unknownCmd"
		}

		mptoken, _ := req["mptoken"].(map[string]interface{})
		if mptoken["account"] != holder {
			return nil, "entryNotFound"
		}

		return map[string]interface{}{
			"node": map[string]interface{}{
				"Account":   holder,
				"MPTAmount": "500",
			},
		}, ""
	})

	record, err := client.GetHoldings(ctx, BuildHoldingsQuery(holder, testIssuanceID))
	if err != nil {
		t.Fatalf("want nil, got %v", err)
	}

	if record.Amount != "500" {
		t.Errorf("Got %v, want %v", record.Amount, "500")
	}
	if len(record.Node) == 0 {
		t.Error("Expected raw node to be retained")
	}

	// An account with no entry holds zero. Not an error.
	other := testKey(t, 0x04).Address()
	record, err = client.GetHoldings(ctx, BuildHoldingsQuery(other, testIssuanceID))
	if err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if len(record.Amount) != 0 || len(record.Node) != 0 {
		t.Errorf("Got %+v, want empty record", record)
	}
}

func TestFee_fallback(t *testing.T) {
	ctx := context.Background()
	node := newFakeNode(t)
	client := newTestClient(t, node)

	node.handle(func(command string, req map[string]interface{}) (interface{}, string) {
		if command != "fee" {
			return nil, "unknownCmd"
		}
		return map[string]interface{}{
			"drops": map[string]interface{}{},
		}, ""
	})

	// A node that reports no fee falls back to the configured base fee.
	fee, err := client.Fee(ctx)
	if err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if fee != "10" {
		t.Errorf("Got %v, want %v", fee, "10")
	}
}

// decodeBlob unpacks the hex tx_blob a submit request carries. Runs on the
// server goroutine, so failures are reported with Errorf.
func decodeBlob(t *testing.T, req map[string]interface{}) map[string]interface{} {
	blobHex, _ := req["tx_blob"].(string)
	raw, err := hex.DecodeString(blobHex)
	if err != nil {
		t.Errorf("tx_blob not hex : %v", err)
		return nil
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Errorf("tx_blob not JSON : %v", err)
		return nil
	}
	return fields
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	node := newFakeNode(t)
	client := newTestClient(t, node)

	issuer := testKey(t, 0x01)

	var mu sync.Mutex
	var signed map[string]interface{}
	polls := 0

	node.handle(func(command string, req map[string]interface{}) (interface{}, string) {
		mu.Lock()
		defer mu.Unlock()

		switch command {
		case "account_info":
			return map[string]interface{}{
				"account_data": map[string]interface{}{
					"Account":  issuer.Address(),
					"Sequence": 42,
				},
			}, ""

		case "fee":
			return map[string]interface{}{
				"drops": map[string]interface{}{
					"base_fee":        "10",
					"open_ledger_fee": "12",
				},
			}, ""

		case "ledger_current":
			return map[string]interface{}{"ledger_current_index": 100}, ""

		case "submit":
			signed = decodeBlob(t, req)
			return map[string]interface{}{
				"engine_result":         "tesSUCCESS",
				"engine_result_message": "The transaction was applied.",
			}, ""

		case "tx":
			polls++
			if polls == 1 {
				return nil, "txnNotFound"
			}
			return map[string]interface{}{
				"hash":         req["transaction"],
				"validated":    true,
				"ledger_index": 101,
				"meta": map[string]interface{}{
					"TransactionResult": "tesSUCCESS",
					"mpt_issuance_id":   testIssuanceID,
				},
			}, ""
		}

		return nil, "unknownCmd"
	})

	issuanceID, result, err := client.CreateIssuance(ctx, issuer, IssuanceSpec{
		AssetScale:    0,
		MaximumAmount: "1000",
		Metadata:      []byte(`{"name":"Solar Farm A"}`),
		Flags:         FlagRequireAuth | FlagCanTransfer,
	})
	if err != nil {
		t.Fatalf("want nil, got %v", err)
	}

	if issuanceID != testIssuanceID {
		t.Errorf("Got %v, want %v", issuanceID, testIssuanceID)
	}
	if !result.Validated {
		t.Error("Expected validated result")
	}
	if result.LedgerIndex != 101 {
		t.Errorf("Got %v, want %v", result.LedgerIndex, 101)
	}
	if result.EngineResult != txSuccessCode {
		t.Errorf("Got %v, want %v", result.EngineResult, txSuccessCode)
	}

	// The blob carries autofilled and signed fields.
	mu.Lock()
	defer mu.Unlock()

	if signed == nil {
		t.Fatal("Node never saw a submit")
	}
	if got := signed["Sequence"].(float64); got != 42 {
		t.Errorf("Got sequence %v, want 42", got)
	}
	if got := signed["Fee"]; got != "12" {
		t.Errorf("Got fee %v, want 12", got)
	}
	if got := signed["LastLedgerSequence"].(float64); got != 120 {
		t.Errorf("Got expiry %v, want 120", got)
	}
	if got, _ := signed["SigningPubKey"].(string); got != strings.ToUpper(issuer.PublicKeyHex()) {
		t.Errorf("Got signing key %v, want %v", got, strings.ToUpper(issuer.PublicKeyHex()))
	}
	if sig, _ := signed["TxnSignature"].(string); len(sig) == 0 {
		t.Error("Expected a signature")
	}
}

func TestSubmit_rejected(t *testing.T) {
	ctx := context.Background()
	node := newFakeNode(t)
	client := newTestClient(t, node)

	issuer := testKey(t, 0x01)
	holder := testKey(t, 0x03)

	node.handle(func(command string, req map[string]interface{}) (interface{}, string) {
		switch command {
		case "account_info":
			return map[string]interface{}{
				"account_data": map[string]interface{}{"Sequence": 7},
			}, ""
		case "fee":
			return map[string]interface{}{
				"drops": map[string]interface{}{"base_fee": "10"},
			}, ""
		case "ledger_current":
			return map[string]interface{}{"ledger_current_index": 50}, ""
		case "submit":
			return map[string]interface{}{
				"engine_result":         "temMALFORMED",
				"engine_result_message": "The transaction was malformed.",
			}, ""
		}
		return nil, "unknownCmd"
	})

	_, err := client.MintToHolder(ctx, issuer, holder.Address(), testIssuanceID, "10")
	if err == nil {
		t.Fatal("want error, got nil")
	}

	txErr, ok := err.(*TransactionError)
	if !ok {
		t.Fatalf("Got %T, want *TransactionError", err)
	}
	if txErr.Code != "temMALFORMED" {
		t.Errorf("Got %v, want temMALFORMED", txErr.Code)
	}
}

func TestSubmit_expired(t *testing.T) {
	ctx := context.Background()
	node := newFakeNode(t)
	client := newTestClient(t, node)

	issuer := testKey(t, 0x01)

	var mu sync.Mutex
	current := 100

	node.handle(func(command string, req map[string]interface{}) (interface{}, string) {
		mu.Lock()
		defer mu.Unlock()

		switch command {
		case "account_info":
			return map[string]interface{}{
				"account_data": map[string]interface{}{"Sequence": 7},
			}, ""
		case "fee":
			return map[string]interface{}{
				"drops": map[string]interface{}{"base_fee": "10"},
			}, ""
		case "ledger_current":
			// Ledgers close fast enough that the expiry passes while the
			// transaction never lands.
			current += 15
			return map[string]interface{}{"ledger_current_index": current}, ""
		case "submit":
			return map[string]interface{}{"engine_result": "terQUEUED"}, ""
		case "tx":
			return nil, "txnNotFound"
		}
		return nil, "unknownCmd"
	})

	_, err := client.AuthorizeHolder(ctx, issuer, "", testIssuanceID)
	if err == nil {
		t.Fatal("want error, got nil")
	}
	if !IsConfirmationTimeout(err) {
		t.Fatalf("Got %T, want *ConfirmationTimeoutError", err)
	}
}

func TestSubmit_deadline(t *testing.T) {
	// A node that stops closing ledgers never trips the expiry check, so the
	// context deadline is the only way out of the confirmation poll.
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	node := newFakeNode(t)
	client := newTestClient(t, node)

	issuer := testKey(t, 0x01)

	node.handle(func(command string, req map[string]interface{}) (interface{}, string) {
		switch command {
		case "account_info":
			return map[string]interface{}{
				"account_data": map[string]interface{}{"Sequence": 7},
			}, ""
		case "fee":
			return map[string]interface{}{
				"drops": map[string]interface{}{"base_fee": "10"},
			}, ""
		case "ledger_current":
			return map[string]interface{}{"ledger_current_index": 100}, ""
		case "submit":
			return map[string]interface{}{"engine_result": "tesSUCCESS"}, ""
		case "tx":
			return map[string]interface{}{
				"hash":      req["transaction"],
				"validated": false,
			}, ""
		}
		return nil, "unknownCmd"
	})

	_, err := client.AuthorizeHolder(ctx, issuer, "", testIssuanceID)
	if err == nil {
		t.Fatal("want error, got nil")
	}
	if !IsConfirmationTimeout(err) {
		t.Fatalf("Got %T, want *ConfirmationTimeoutError", err)
	}
}
