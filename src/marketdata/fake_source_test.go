package marketdata

import (
	"context"
	"errors"
	"sync"

	"wealthsync/src/model"
)

var errBoom = errors.New("boom")

type fakeSource struct {
	mu       sync.Mutex
	quotes   map[string]*model.MarketMetadata
	charts   map[string]*model.MarketMetadata
	searches map[string][]model.SearchResult
	block    map[string]bool
	calls    map[string][]string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		quotes:   map[string]*model.MarketMetadata{},
		charts:   map[string]*model.MarketMetadata{},
		searches: map[string][]model.SearchResult{},
		block:    map[string]bool{},
		calls:    map[string][]string{},
	}
}

func (f *fakeSource) record(kind, symbol string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[kind] = append(f.calls[kind], symbol)
}

func (f *fakeSource) wait(ctx context.Context, symbol string) error {
	if f.block[symbol] {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (f *fakeSource) Quote(ctx context.Context, symbol string) (*model.MarketMetadata, error) {
	f.record("quote", symbol)
	if err := f.wait(ctx, symbol); err != nil {
		return nil, err
	}
	if md, ok := f.quotes[symbol]; ok {
		return md, nil
	}
	return nil, errBoom
}

func (f *fakeSource) Chart(ctx context.Context, symbol string) (*model.MarketMetadata, error) {
	f.record("chart", symbol)
	if err := f.wait(ctx, symbol); err != nil {
		return nil, err
	}
	if md, ok := f.charts[symbol]; ok {
		return md, nil
	}
	return nil, errBoom
}

func (f *fakeSource) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	f.record("search", query)
	if err := f.wait(ctx, query); err != nil {
		return nil, err
	}
	if res, ok := f.searches[query]; ok {
		return res, nil
	}
	return nil, errBoom
}

func str(s string) *string { return &s }

func num(v float64) *float64 { return &v }
