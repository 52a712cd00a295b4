package marketdata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wealthsync/src/model"
)

func TestResolveQuoteFirst(t *testing.T) {
	src := newFakeSource()
	src.quotes["AAPL"] = &model.MarketMetadata{Symbol: "AAPL", Name: str("Apple Inc."), Currency: str("USD"), RegularMarketPrice: num(190)}

	res := NewResolver(src).Resolve(context.Background(), []string{"AAPL"})

	md, ok := res.Lookup("AAPL")
	require.True(t, ok)
	assert.Equal(t, model.MetadataSourceQuote, md.Source)
	assert.Equal(t, "Apple Inc.", *md.Name)
	assert.Empty(t, src.calls["chart"])
}

func TestResolveFallsBackToChart(t *testing.T) {
	src := newFakeSource()
	src.quotes["VWRL.L"] = &model.MarketMetadata{Symbol: "VWRL.L", Name: str("")}
	src.charts["VWRL.L"] = &model.MarketMetadata{Symbol: "VWRL.L", Name: str("Vanguard FTSE All-World"), Currency: str("GBP")}

	res := NewResolver(src).Resolve(context.Background(), []string{"VWRL.L"})

	md, ok := res.Lookup("VWRL.L")
	require.True(t, ok)
	assert.Equal(t, model.MetadataSourceChart, md.Source)
	assert.Equal(t, "Vanguard FTSE All-World", *md.Name)
	assert.Equal(t, "GBP", *md.Currency)
}

func TestResolveFallsBackToSearchWithDifferentSymbol(t *testing.T) {
	src := newFakeSource()
	src.searches["TWTR"] = []model.SearchResult{{Symbol: "X", Name: "X Holdings", CurrentPrice: num(10)}}

	res := NewResolver(src).Resolve(context.Background(), []string{"TWTR"})

	md, ok := res.Lookup("TWTR")
	require.True(t, ok)
	assert.Equal(t, model.MetadataSourceSearch, md.Source)
	assert.Equal(t, "X", md.Symbol)
	assert.Equal(t, "X Holdings", *md.Name)
	assert.Nil(t, md.Currency)
}

func TestResolveLegacyRemap(t *testing.T) {
	src := newFakeSource()
	src.quotes["META"] = &model.MarketMetadata{Symbol: "META", Name: str("Meta Platforms")}

	res := NewResolver(src).Resolve(context.Background(), []string{"FB", "META"})

	assert.Equal(t, []string{"META"}, src.calls["quote"])
	_, ok := res.BySymbol["FB"]
	assert.False(t, ok)

	md, ok := res.Lookup("FB")
	require.True(t, ok)
	assert.Equal(t, "Meta Platforms", *md.Name)
}

func TestResolveIsolatesFailures(t *testing.T) {
	src := newFakeSource()
	src.quotes["BBB"] = &model.MarketMetadata{Symbol: "BBB", Name: str("Bravo")}

	res := NewResolver(src).Resolve(context.Background(), []string{"AAA", "BBB"})

	aaa, ok := res.Lookup("AAA")
	require.True(t, ok)
	assert.Equal(t, model.MetadataSourceUnknown, aaa.Source)
	assert.Nil(t, aaa.Name)
	assert.Nil(t, aaa.Currency)
	assert.Nil(t, aaa.RegularMarketPrice)

	bbb, ok := res.Lookup("BBB")
	require.True(t, ok)
	assert.Equal(t, "Bravo", *bbb.Name)
	assert.Equal(t, []string{"AAA"}, res.Unknown())
}

func TestResolveTimeoutDegradesToUnknown(t *testing.T) {
	src := newFakeSource()
	src.block["SLOW"] = true
	src.quotes["FAST"] = &model.MarketMetadata{Symbol: "FAST", Name: str("Fast Co")}

	start := time.Now()
	res := NewResolver(src, WithFetchTimeout(20*time.Millisecond)).Resolve(context.Background(), []string{"SLOW", "FAST"})
	assert.Less(t, time.Since(start), 2*time.Second)

	slow, _ := res.Lookup("SLOW")
	assert.False(t, slow.Known())
	fast, _ := res.Lookup("FAST")
	assert.True(t, fast.Known())
}

func TestSearchFallbackRemaps(t *testing.T) {
	src := newFakeSource()
	src.searches["META"] = []model.SearchResult{{Symbol: "META", Name: "Meta Platforms"}}

	md, ok := NewResolver(src).SearchFallback(context.Background(), "FB")
	require.True(t, ok)
	assert.Equal(t, "Meta Platforms", *md.Name)
	assert.Equal(t, []string{"META"}, src.calls["search"])
}

func TestResolveEmptyInput(t *testing.T) {
	res := NewResolver(newFakeSource()).Resolve(context.Background(), nil)
	assert.Empty(t, res.BySymbol)
	assert.Empty(t, res.Unknown())
}
