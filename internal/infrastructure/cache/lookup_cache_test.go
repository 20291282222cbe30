package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"homestock/internal/domain/product"
)

type countingLookup struct {
	calls   int
	product *product.Product
	err     error
}

func (l *countingLookup) ByBarcode(ctx context.Context, barcode string) (*product.Product, error) {
	l.calls++
	return l.product, l.err
}

func (l *countingLookup) Search(ctx context.Context, term string) ([]product.Product, error) {
	l.calls++
	return nil, nil
}

func TestCachedLookup_HitSkipsUpstream(t *testing.T) {
	upstream := &countingLookup{product: &product.Product{Code: "1", Name: "Milk"}}
	cached := NewCachedLookup(upstream, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		p, err := cached.ByBarcode(ctx, "1")
		if err != nil {
			t.Fatalf("ByBarcode failed: %v", err)
		}
		if p == nil || p.Name != "Milk" {
			t.Fatalf("unexpected product: %+v", p)
		}
	}

	if upstream.calls != 1 {
		t.Errorf("upstream calls = %d, want 1", upstream.calls)
	}
}

func TestCachedLookup_CachesMisses(t *testing.T) {
	upstream := &countingLookup{}
	cached := NewCachedLookup(upstream, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		p, err := cached.ByBarcode(ctx, "unknown")
		if err != nil {
			t.Fatalf("ByBarcode failed: %v", err)
		}
		if p != nil {
			t.Fatalf("expected nil product, got %+v", p)
		}
	}

	if upstream.calls != 1 {
		t.Errorf("upstream calls = %d, want 1 (misses must be cached)", upstream.calls)
	}
}

func TestCachedLookup_ErrorsNotCached(t *testing.T) {
	upstream := &countingLookup{err: errors.New("catalog unreachable")}
	cached := NewCachedLookup(upstream, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := cached.ByBarcode(ctx, "1"); err == nil {
			t.Fatal("expected error")
		}
	}

	if upstream.calls != 2 {
		t.Errorf("upstream calls = %d, want 2 (errors must not be cached)", upstream.calls)
	}
}

func TestCachedLookup_SearchBypassesCache(t *testing.T) {
	upstream := &countingLookup{}
	cached := NewCachedLookup(upstream, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := cached.Search(ctx, "milk"); err != nil {
			t.Fatalf("Search failed: %v", err)
		}
	}

	if upstream.calls != 2 {
		t.Errorf("upstream calls = %d, want 2", upstream.calls)
	}
}
