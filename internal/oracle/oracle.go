package oracle

import (
	"context"
	"sync"
	"time"

	"github.com/greenasset/tokend/internal/platform/logger"

	"go.opencensus.io/trace"
)

// Quote is one price observation for the token: the base-asset price the
// purchase flow settles in and the display-currency price the UI shows.
type Quote struct {
	TokenCode string    `json:"token_code"`
	PriceBase float64   `json:"price_base"` // In the ledger's base asset
	PriceUSD  float64   `json:"price_usd"`
	Timestamp time.Time `json:"timestamp"`
}

// PriceResult is the uniform shape callers get. Success false still carries
// a usable price when one was cached: oracle unavailability must not fail a
// purchase flow outright.
type PriceResult struct {
	Success   bool    `json:"success"`
	TokenCode string  `json:"token_code"`
	PriceBase float64 `json:"price_base"`
	PriceUSD  float64 `json:"price_usd"`
	Cached    bool    `json:"cached"`
	Error     string  `json:"error,omitempty"`
}

// Source fetches a fresh quote. The production source talks to an external
// price feed; tests inject doubles.
type Source interface {
	FetchQuote(ctx context.Context) (*Quote, error)
}

// Oracle caches quotes from a Source with a TTL, degrading to the last
// known quote when the source is unavailable and to a configured default
// when nothing was ever cached.
type Oracle struct {
	source       Source
	tokenCode    string
	ttl          time.Duration
	defaultPrice float64
	historyLimit int

	mu      sync.Mutex
	last    *Quote
	history []Quote
}

// New returns an Oracle over the supplied source.
func New(source Source, tokenCode string, ttl time.Duration, defaultPrice float64,
	historyLimit int) *Oracle {

	if historyLimit <= 0 {
		historyLimit = 100
	}

	return &Oracle{
		source:       source,
		tokenCode:    tokenCode,
		ttl:          ttl,
		defaultPrice: defaultPrice,
		historyLimit: historyLimit,
	}
}

// TokenPrice returns the current price, refreshing from the source when the
// cache is stale. Source failure degrades to the cached quote, then to the
// default price; it never returns an error because callers must be able to
// proceed with a purchase on a previously cached price.
func (o *Oracle) TokenPrice(ctx context.Context) *PriceResult {
	ctx, span := trace.StartSpan(ctx, "internal.oracle.TokenPrice")
	defer span.End()

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.last != nil && time.Since(o.last.Timestamp) < o.ttl {
		return o.resultFromQuote(o.last, true, "")
	}

	quote, err := o.source.FetchQuote(ctx)
	if err != nil {
		logger.Warn(ctx, "Price source unavailable : %s", err)

		if o.last != nil {
			return o.resultFromQuote(o.last, true, err.Error())
		}

		// Nothing ever cached. Degrade to the default rather than failing
		// the caller's flow.
		return &PriceResult{
			Success:   false,
			TokenCode: o.tokenCode,
			PriceBase: o.defaultPrice,
			PriceUSD:  o.defaultPrice,
			Error:     err.Error(),
		}
	}

	quote.TokenCode = o.tokenCode
	if quote.Timestamp.IsZero() {
		quote.Timestamp = time.Now()
	}

	o.last = quote
	o.history = append(o.history, *quote)
	if len(o.history) > o.historyLimit {
		o.history = o.history[len(o.history)-o.historyLimit:]
	}

	return o.resultFromQuote(quote, false, "")
}

// Refresh fetches a fresh quote regardless of the cache's age. Used by the
// background refresh job so interactive calls mostly hit a warm cache.
func (o *Oracle) Refresh(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	quote, err := o.source.FetchQuote(ctx)
	if err != nil {
		return err
	}

	quote.TokenCode = o.tokenCode
	if quote.Timestamp.IsZero() {
		quote.Timestamp = time.Now()
	}

	o.last = quote
	o.history = append(o.history, *quote)
	if len(o.history) > o.historyLimit {
		o.history = o.history[len(o.history)-o.historyLimit:]
	}

	return nil
}

// History returns the retained quote history, oldest first.
func (o *Oracle) History() []Quote {
	o.mu.Lock()
	defer o.mu.Unlock()

	result := make([]Quote, len(o.history))
	copy(result, o.history)
	return result
}

func (o *Oracle) resultFromQuote(q *Quote, cached bool, errMessage string) *PriceResult {
	return &PriceResult{
		Success:   true,
		TokenCode: o.tokenCode,
		PriceBase: q.PriceBase,
		PriceUSD:  q.PriceUSD,
		Cached:    cached,
		Error:     errMessage,
	}
}

// StaticSource returns a fixed quote. It stands in for a real price feed
// until one is wired up.
type StaticSource struct {
	Quote Quote
}

func (s StaticSource) FetchQuote(ctx context.Context) (*Quote, error) {
	q := s.Quote
	q.Timestamp = time.Now()
	return &q, nil
}
