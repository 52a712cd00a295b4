package reconciler

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wealthsync/src/connectors"
	"wealthsync/src/marketdata"
	"wealthsync/src/model"
	"wealthsync/src/store"
)

var errBoom = errors.New("boom")

type fakeMarket struct {
	quotes   map[string]string
	searches map[string]model.SearchResult
}

func (f fakeMarket) Quote(_ context.Context, symbol string) (*model.MarketMetadata, error) {
	if name, ok := f.quotes[symbol]; ok {
		return &model.MarketMetadata{Symbol: symbol, Name: &name}, nil
	}
	return nil, errBoom
}

func (f fakeMarket) Chart(context.Context, string) (*model.MarketMetadata, error) {
	return nil, errBoom
}

func (f fakeMarket) Search(_ context.Context, query string) ([]model.SearchResult, error) {
	if r, ok := f.searches[query]; ok {
		return []model.SearchResult{r}, nil
	}
	return nil, nil
}

type fakeFetcher struct {
	positions []model.RawBrokerPosition
	err       error
}

func (f fakeFetcher) FetchPortfolio(context.Context, connectors.Credentials) ([]model.RawBrokerPosition, error) {
	return f.positions, f.err
}

type catalogueFetcher struct {
	fakeFetcher
	instruments []model.BrokerInstrument
	err         error
}

func (f catalogueFetcher) FetchInstruments(context.Context, connectors.Credentials) ([]model.BrokerInstrument, error) {
	return f.instruments, f.err
}

type fixedRate struct{ rate marketdata.FXRate }

func (f fixedRate) Rate(context.Context) marketdata.FXRate { return f.rate }

type fakePersister struct {
	saved []model.Platform
	err   error
}

func (f *fakePersister) SavePlatform(_ context.Context, p model.Platform) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, p.Clone())
	return nil
}

type fakeRuns struct{ runs []model.ImportRun }

func (f *fakeRuns) Record(_ context.Context, run *model.ImportRun) error {
	f.runs = append(f.runs, *run)
	return nil
}

func rawPositions() []model.RawBrokerPosition {
	return []model.RawBrokerPosition{
		{Ticker: "AAPL_US_EQ", Quantity: 2, AveragePrice: 100, CurrentPrice: 200},
		{Ticker: "RRl_EQ", Quantity: 10, AveragePrice: 250, CurrentPrice: 300},
		{Ticker: "FB_US_EQ", Quantity: 1, AveragePrice: 300, CurrentPrice: 500},
		{Ticker: "ZZZ_EQ", Quantity: 3, AveragePrice: 100, CurrentPrice: 100},
	}
}

func newResolver() *marketdata.Resolver {
	return marketdata.NewResolver(fakeMarket{
		quotes: map[string]string{"AAPL": "Apple Inc.", "RR.L": "Rolls-Royce Holdings"},
		searches: map[string]model.SearchResult{
			"META": {Symbol: "META", Name: "Meta Platforms"},
		},
	})
}

func TestReconcile(t *testing.T) {
	r := New(nil, newResolver(), nil, nil, nil, nil)

	positions, unknown := r.Reconcile(context.Background(), rawPositions(), 0.8)
	require.Len(t, positions, 4)

	apple := positions[0]
	assert.Equal(t, "Apple Inc.", apple.Name)
	assert.Equal(t, "AAPL", *apple.Symbol)
	assert.InDelta(t, 80.0, apple.AveragePrice, 1e-9)
	assert.InDelta(t, 160.0, apple.CurrentPrice, 1e-9)
	assert.Nil(t, apple.AmountSpent)

	rr := positions[1]
	assert.Equal(t, "Rolls-Royce Holdings", rr.Name)
	assert.Equal(t, "RR.L", *rr.Symbol)
	assert.InDelta(t, 2.5, rr.AveragePrice, 1e-9)
	assert.InDelta(t, 3.0, rr.CurrentPrice, 1e-9)

	meta := positions[2]
	assert.Equal(t, "Meta Platforms", meta.Name)
	assert.Equal(t, "META", *meta.Symbol)

	zzz := positions[3]
	assert.Equal(t, "ZZZ", zzz.Name)
	assert.Equal(t, "ZZZ", *zzz.Symbol)
	assert.InDelta(t, 1.0, zzz.CurrentPrice, 1e-9)

	assert.Equal(t, []string{"ZZZ"}, unknown)
}

func TestMergeIntoExistingKeepsCash(t *testing.T) {
	existing := model.Platform{
		ID:          uuid.New(),
		Name:        TargetPlatformName,
		ColorHex:    "#000000",
		CashBalance: 123.45,
		Investments: []model.Position{{ID: uuid.New(), Name: "Old"}},
	}
	other := model.Platform{ID: uuid.New(), Name: "ISA", CashBalance: 10}
	investments := []model.Position{{ID: uuid.New(), Name: "New"}}

	merged, created := Merge([]model.Platform{other, existing}, investments)
	assert.False(t, created)
	assert.Equal(t, existing.ID, merged.ID)
	assert.Equal(t, 123.45, merged.CashBalance)
	assert.Equal(t, "#000000", merged.ColorHex)
	require.Len(t, merged.Investments, 1)
	assert.Equal(t, "New", merged.Investments[0].Name)
	assert.Equal(t, existing.ID, merged.Investments[0].PlatformID)
	assert.Equal(t, "Old", existing.Investments[0].Name)
}

func TestMergeCreatesPlatform(t *testing.T) {
	merged, created := Merge(nil, []model.Position{{ID: uuid.New(), Name: "New"}})
	assert.True(t, created)
	assert.Equal(t, TargetPlatformName, merged.Name)
	assert.Equal(t, TargetPlatformColor, merged.ColorHex)
	assert.Equal(t, 0.0, merged.CashBalance)
	assert.NotEqual(t, uuid.Nil, merged.ID)
	assert.Equal(t, merged.ID, merged.Investments[0].PlatformID)
	assert.Equal(t, model.PlatformOriginImport, merged.Origin)
}

func TestImportPublishesAndRecords(t *testing.T) {
	s := store.New()
	persister := &fakePersister{}
	runs := &fakeRuns{}
	r := New(fakeFetcher{positions: rawPositions()}, newResolver(),
		fixedRate{rate: marketdata.FXRate{Pair: "USDGBP=X", Rate: 0.77, Fallback: true}}, s, persister, runs)

	res, err := r.Import(context.Background(), connectors.Credentials{APIKey: "k", APISecret: "s"})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.True(t, res.FX.Fallback)

	got, ok := s.FindByName(TargetPlatformName)
	require.True(t, ok)
	assert.Len(t, got.Investments, 4)
	require.Len(t, persister.saved, 1)

	require.Len(t, runs.runs, 1)
	run := runs.runs[0]
	assert.Equal(t, model.ImportRunStatusSucceeded, run.Status)
	assert.Equal(t, 4, run.Positions)
	assert.Equal(t, 1, run.UnknownSymbols)
	assert.True(t, run.FxFallback)
}

func TestImportUnauthorizedLeavesStoreUntouched(t *testing.T) {
	s := store.New()
	existing := model.Platform{ID: uuid.New(), Name: TargetPlatformName, CashBalance: 50, Investments: []model.Position{{ID: uuid.New(), Name: "Old"}}}
	s.Put(existing)
	persister := &fakePersister{}
	runs := &fakeRuns{}

	r := New(fakeFetcher{err: connectors.ErrUnauthorized}, newResolver(), fixedRate{}, s, persister, runs)
	_, err := r.Import(context.Background(), connectors.Credentials{})
	require.ErrorIs(t, err, connectors.ErrUnauthorized)

	got, _ := s.FindByName(TargetPlatformName)
	assert.Equal(t, "Old", got.Investments[0].Name)
	assert.Empty(t, persister.saved)
	require.Len(t, runs.runs, 1)
	assert.Equal(t, model.ImportRunStatusFailed, runs.runs[0].Status)
}

func TestImportPersistFailureLeavesStoreUntouched(t *testing.T) {
	s := store.New()
	existing := model.Platform{ID: uuid.New(), Name: TargetPlatformName, Investments: []model.Position{{ID: uuid.New(), Name: "Old"}}}
	s.Put(existing)

	r := New(fakeFetcher{positions: rawPositions()}, newResolver(), fixedRate{rate: marketdata.FXRate{Rate: 0.8}},
		s, &fakePersister{err: errBoom}, &fakeRuns{})
	_, err := r.Import(context.Background(), connectors.Credentials{})
	require.ErrorIs(t, err, errBoom)

	got, _ := s.FindByName(TargetPlatformName)
	require.Len(t, got.Investments, 1)
	assert.Equal(t, "Old", got.Investments[0].Name)
}

func TestApplyCatalogueNamesUnknownSymbols(t *testing.T) {
	zzz, aapl := "ZZZ", "AAPL"
	positions := []model.Position{
		{ID: uuid.New(), Name: "Apple Inc.", Symbol: &aapl},
		{ID: uuid.New(), Name: "ZZZ", Symbol: &zzz},
	}
	instruments := []model.BrokerInstrument{
		{Ticker: "ZZZ_EQ", Name: "Zeta Holdings", CurrencyCode: "GBX"},
		{Ticker: "AAPL_US_EQ", Name: "Apple"},
	}

	named, still := ApplyCatalogue(positions, []string{"ZZZ", "QQQ"}, instruments)
	assert.Equal(t, "Apple Inc.", named[0].Name)
	assert.Equal(t, "Zeta Holdings", named[1].Name)
	assert.Equal(t, []string{"QQQ"}, still)
	assert.Equal(t, "ZZZ", positions[1].Name)
}

func TestImportFallsBackToInstrumentCatalogue(t *testing.T) {
	s := store.New()
	runs := &fakeRuns{}
	fetcher := catalogueFetcher{
		fakeFetcher: fakeFetcher{positions: rawPositions()},
		instruments: []model.BrokerInstrument{{Ticker: "ZZZ_EQ", Name: "Zeta Holdings"}},
	}
	r := New(fetcher, newResolver(), fixedRate{rate: marketdata.FXRate{Rate: 0.8}}, s, &fakePersister{}, runs)

	res, err := r.Import(context.Background(), connectors.Credentials{})
	require.NoError(t, err)
	assert.Empty(t, res.UnknownSymbols)
	assert.Equal(t, "Zeta Holdings", res.Platform.Investments[3].Name)
	assert.Equal(t, 0, runs.runs[0].UnknownSymbols)
}

func TestImportIgnoresCatalogueFailure(t *testing.T) {
	fetcher := catalogueFetcher{fakeFetcher: fakeFetcher{positions: rawPositions()}, err: errBoom}
	r := New(fetcher, newResolver(), fixedRate{rate: marketdata.FXRate{Rate: 0.8}}, store.New(), &fakePersister{}, &fakeRuns{})

	res, err := r.Import(context.Background(), connectors.Credentials{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ZZZ"}, res.UnknownSymbols)
}
