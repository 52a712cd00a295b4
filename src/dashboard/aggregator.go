package dashboard

import (
	"sync"

	"wealthsync/src/model"
)

// Subscriber receives every new breakdown.
type Subscriber func(items []model.BreakdownItem)

// Aggregator keeps the last breakdown and the last performance figures.
// A platform change rebuilds the breakdown; new performance figures are
// merged into the last breakdown without the platform list.
type Aggregator struct {
	mu          sync.RWMutex
	items       []model.BreakdownItem
	perf        []model.PlatformPerformance
	subscribers []Subscriber
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

func (a *Aggregator) Subscribe(s Subscriber) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.subscribers = append(a.subscribers, s)
}

// Update rebuilds the breakdown from platforms and the last performance
// figures. Its signature matches store.Listener.
func (a *Aggregator) Update(platforms []model.Platform) {
	a.mu.Lock()
	a.items = BuildBreakdown(platforms, a.perf)
	items, subs := copyItems(a.items), a.subscribers
	a.mu.Unlock()
	publish(subs, items)
}

func (a *Aggregator) ApplyPerformance(perf []model.PlatformPerformance) {
	a.mu.Lock()
	a.perf = append([]model.PlatformPerformance(nil), perf...)
	a.items = MergePerformance(a.items, a.perf)
	items, subs := copyItems(a.items), a.subscribers
	a.mu.Unlock()
	publish(subs, items)
}

func (a *Aggregator) Breakdown() []model.BreakdownItem {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return copyItems(a.items)
}

func copyItems(items []model.BreakdownItem) []model.BreakdownItem {
	out := make([]model.BreakdownItem, len(items))
	copy(out, items)
	return out
}

func publish(subs []Subscriber, items []model.BreakdownItem) {
	for _, s := range subs {
		s(copyItems(items))
	}
}
