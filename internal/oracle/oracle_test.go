package oracle

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
)

// countingSource hands out scripted quotes and counts fetches.
type countingSource struct {
	quotes  []Quote
	errs    []error
	fetches int
}

func (s *countingSource) FetchQuote(ctx context.Context) (*Quote, error) {
	i := s.fetches
	s.fetches++

	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i < len(s.quotes) {
		q := s.quotes[i]
		return &q, nil
	}
	return nil, errors.New("Source exhausted")
}

func TestTokenPrice(t *testing.T) {
	ctx := context.Background()

	source := &countingSource{
		quotes: []Quote{{PriceBase: 2.5, PriceUSD: 1.25}},
	}
	o := New(source, "GREEN", 30*time.Minute, 1.0, 10)

	result := o.TokenPrice(ctx)
	if !result.Success {
		t.Fatalf("Got failure %v, want success", result.Error)
	}
	if result.PriceBase != 2.5 {
		t.Errorf("Got %v, want %v", result.PriceBase, 2.5)
	}
	if result.TokenCode != "GREEN" {
		t.Errorf("Got %v, want GREEN", result.TokenCode)
	}
	if result.Cached {
		t.Error("Expected a fresh quote")
	}

	// Within the TTL the cached quote is served without a fetch.
	result = o.TokenPrice(ctx)
	if !result.Success || !result.Cached {
		t.Errorf("Got %+v, want cached success", result)
	}
	if source.fetches != 1 {
		t.Errorf("Got %v fetches, want 1", source.fetches)
	}
}

func TestTokenPrice_staleRefreshes(t *testing.T) {
	ctx := context.Background()

	source := &countingSource{
		quotes: []Quote{
			{PriceBase: 2.5},
			{PriceBase: 3.0},
		},
	}
	o := New(source, "GREEN", 30*time.Minute, 1.0, 10)

	o.TokenPrice(ctx)

	// Age the cached quote past the TTL.
	o.last.Timestamp = time.Now().Add(-time.Hour)

	result := o.TokenPrice(ctx)
	if result.PriceBase != 3.0 {
		t.Errorf("Got %v, want %v", result.PriceBase, 3.0)
	}
	if result.Cached {
		t.Error("Expected a fresh quote")
	}
	if source.fetches != 2 {
		t.Errorf("Got %v fetches, want 2", source.fetches)
	}
}

func TestTokenPrice_degradesToCache(t *testing.T) {
	ctx := context.Background()

	source := &countingSource{
		quotes: []Quote{{PriceBase: 2.5}},
		errs:   []error{nil, errors.New("Feed down")},
	}
	o := New(source, "GREEN", 30*time.Minute, 1.0, 10)

	o.TokenPrice(ctx)
	o.last.Timestamp = time.Now().Add(-time.Hour)

	// The source fails. The stale cached quote is still served.
	result := o.TokenPrice(ctx)
	if !result.Success {
		t.Fatal("Expected degraded success from cache")
	}
	if result.PriceBase != 2.5 {
		t.Errorf("Got %v, want %v", result.PriceBase, 2.5)
	}
	if !result.Cached {
		t.Error("Expected cached result")
	}
	if len(result.Error) == 0 {
		t.Error("Expected the source error to be reported")
	}
}

func TestTokenPrice_degradesToDefault(t *testing.T) {
	ctx := context.Background()

	source := &countingSource{
		errs: []error{errors.New("Feed down")},
	}
	o := New(source, "GREEN", 30*time.Minute, 1.0, 10)

	// Nothing ever cached. The default price is served, flagged unsuccessful.
	result := o.TokenPrice(ctx)
	if result.Success {
		t.Error("Expected Success false with no cache")
	}
	if result.PriceBase != 1.0 {
		t.Errorf("Got %v, want default %v", result.PriceBase, 1.0)
	}
	if len(result.Error) == 0 {
		t.Error("Expected the source error to be reported")
	}
}

func TestHistory(t *testing.T) {
	ctx := context.Background()

	source := &countingSource{
		quotes: []Quote{
			{PriceBase: 1.0},
			{PriceBase: 2.0},
			{PriceBase: 3.0},
		},
	}
	o := New(source, "GREEN", 30*time.Minute, 1.0, 2)

	for i := 0; i < 3; i++ {
		o.TokenPrice(ctx)
		o.last.Timestamp = time.Now().Add(-time.Hour)
	}

	history := o.History()
	if len(history) != 2 {
		t.Fatalf("Got %v entries, want 2", len(history))
	}

	// Oldest entries fall off first.
	if history[0].PriceBase != 2.0 || history[1].PriceBase != 3.0 {
		t.Errorf("Got %v then %v, want 2 then 3", history[0].PriceBase, history[1].PriceBase)
	}
}

func TestStaticSource(t *testing.T) {
	ctx := context.Background()

	o := New(StaticSource{Quote: Quote{PriceBase: 1.5, PriceUSD: 0.75}}, "GREEN",
		30*time.Minute, 1.0, 10)

	result := o.TokenPrice(ctx)
	if !result.Success {
		t.Fatalf("Got failure %v, want success", result.Error)
	}
	if result.PriceBase != 1.5 {
		t.Errorf("Got %v, want %v", result.PriceBase, 1.5)
	}
}
