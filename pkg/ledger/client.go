package ledger

/**
 * Ledger Client
 *
 * What is my purpose?
 * - You hold one session to a ledger node
 * - You make JSON-RPC calls for me
 */

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/greenasset/tokend/internal/platform/logger"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// Config holds client configuration.
type Config struct {
	Endpoint         string
	HandshakeTimeout time.Duration // Dial deadline
	PollInterval     time.Duration // Between confirmation polls
	ExpiryLedgers    uint32        // Ledgers until a submitted tx expires
	BaseFee          string        // Drops, used when the node reports no fee
}

// NewConfig returns a Config with defaults suitable for a test network.
func NewConfig(endpoint string) Config {
	return Config{
		Endpoint:         endpoint,
		HandshakeTimeout: 10 * time.Second,
		PollInterval:     time.Second,
		ExpiryLedgers:    20,
		BaseFee:          "10",
	}
}

// Client owns a single logical session to one ledger node. Connect and
// Disconnect are idempotent. The client never reconnects on its own: after
// an unexpected drop the next operation fails with a ConnectionError and
// the caller decides how to recover.
type Client struct {
	config Config

	mu      sync.Mutex
	conn    *websocket.Conn
	pending map[uint64]chan *rpcResponse
	nextID  uint64

	// Serializes submissions per signing account so an in-flight sequence
	// number is never reused.
	accountMu    sync.Mutex
	accountLocks map[string]*sync.Mutex
}

// NewClient returns an unconnected client for the endpoint.
func NewClient(config Config) *Client {
	return &Client{
		config:       config,
		pending:      make(map[uint64]chan *rpcResponse),
		accountLocks: make(map[string]*sync.Mutex),
	}
}

// IsConnected reports whether the session is established.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Connect establishes the session if it isn't already. A second call on a
// live session is a no-op; there is never more than one underlying
// handshake. Failures are not retried here.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: c.config.HandshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, c.config.Endpoint, nil)
	if err != nil {
		return &ConnectionError{Endpoint: c.config.Endpoint, Err: err}
	}

	c.conn = conn
	go c.readLoop(conn)

	logger.Info(ctx, "Connected to ledger node : %s", c.config.Endpoint)
	return nil
}

// Disconnect tears down the session if established, otherwise no-op.
// Reconnect is permitted afterwards.
func (c *Client) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn == nil {
		return nil
	}

	logger.Info(ctx, "Disconnected from ledger node : %s", c.config.Endpoint)
	return conn.Close()
}

// rpcResponse is the node's envelope around every reply.
type rpcResponse struct {
	ID           uint64          `json:"id"`
	Status       string          `json:"status"`
	Type         string          `json:"type"`
	Result       json.RawMessage `json:"result"`
	ErrorCode    string          `json:"error"`
	ErrorMessage string          `json:"error_message"`
}

// readLoop dispatches replies to waiting requests. On a read failure the
// session is dead: drop the connection and fail everything in flight.
func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.failPending(conn, err)
			return
		}

		var resp rpcResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			continue // Not a reply we understand. Subscriptions stream here too.
		}

		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		if ok {
			delete(c.pending, resp.ID)
		}
		c.mu.Unlock()

		if ok {
			ch <- &resp
		}
	}
}

func (c *Client) failPending(conn *websocket.Conn, err error) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	pending := c.pending
	c.pending = make(map[uint64]chan *rpcResponse)
	c.mu.Unlock()

	for _, ch := range pending {
		close(ch)
	}

	_ = err // The next operation reports a fresh ConnectionError.
}

// request sends one command and waits for its reply. params are merged into
// the request object alongside id and command, which is the node's flat
// request shape.
func (c *Client) request(ctx context.Context, command string, params map[string]interface{},
	result interface{}) error {

	c.mu.Lock()
	conn := c.conn
	if conn == nil {
		c.mu.Unlock()
		return &ConnectionError{Endpoint: c.config.Endpoint, Err: ErrNotConnected}
	}

	c.nextID++
	id := c.nextID
	ch := make(chan *rpcResponse, 1)
	c.pending[id] = ch

	msg := map[string]interface{}{
		"id":      id,
		"command": command,
	}
	for k, v := range params {
		msg[k] = v
	}

	err := conn.WriteJSON(msg)
	if err != nil {
		delete(c.pending, id)
		c.mu.Unlock()
		return &ConnectionError{Endpoint: c.config.Endpoint, Err: err}
	}
	c.mu.Unlock()

	var resp *rpcResponse
	select {
	case resp = <-ch:
		if resp == nil {
			// Channel closed by failPending: the session dropped under us.
			return &ConnectionError{Endpoint: c.config.Endpoint, Err: ErrNotConnected}
		}
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return errors.Wrap(ctx.Err(), command)
	}

	if resp.Status == "error" {
		return &nodeError{Code: resp.ErrorCode, Message: resp.ErrorMessage}
	}

	if result != nil {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return errors.Wrapf(err, "decode %s result", command)
		}
	}

	return nil
}

// nodeError is a request-level error reported by the node, like an unknown
// account or ledger entry. Distinct from a transaction rejection.
type nodeError struct {
	Code    string
	Message string
}

func (e *nodeError) Error() string {
	return e.Code + " : " + e.Message
}

// lockAccount acquires the per-account submission lock.
func (c *Client) lockAccount(account string) *sync.Mutex {
	c.accountMu.Lock()
	lock, ok := c.accountLocks[account]
	if !ok {
		lock = &sync.Mutex{}
		c.accountLocks[account] = lock
	}
	c.accountMu.Unlock()

	lock.Lock()
	return lock
}
