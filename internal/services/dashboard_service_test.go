package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txdash/internal/cache"
	"txdash/internal/core"
	"txdash/internal/dataset"
	"txdash/internal/sources"
)

func testDataset() core.Dataset {
	return core.Dataset{
		Customers: []core.Customer{
			{ID: core.NewID(1), Name: "Alice"},
			{ID: core.ParseID("2"), Name: "Bob"},
		},
		Transactions: []core.Transaction{
			{ID: core.NewID(10), CustomerID: core.NewID(1), Date: "2024-01-02", Amount: 50},
			{ID: core.NewID(11), CustomerID: core.NewID(2), Date: "2024-01-01", Amount: 20},
			{ID: core.NewID(12), CustomerID: core.NewID(1), Date: "2024-01-01", Amount: 5},
			{ID: core.NewID(13), CustomerID: core.NewID(1), Date: "2024-01-02", Amount: 7.5},
			{ID: core.NewID(14), CustomerID: core.NewID(3), Date: "2024-01-03", Amount: 100},
		},
	}
}

func loadedStore(t *testing.T, ds core.Dataset) *dataset.Store {
	t.Helper()
	store := dataset.NewStore()
	_, err := store.Load(context.Background(), sources.SourceFunc{
		Label: "test",
		Fn:    func(context.Context) (core.Dataset, error) { return ds, nil },
	})
	require.NoError(t, err)
	return store
}

func ids(txs []core.Transaction) []string {
	out := make([]string, len(txs))
	for i, t := range txs {
		out[i] = t.ID.String()
	}
	return out
}

func customer(n int64) *core.ID {
	id := core.NewID(n)
	return &id
}

func amount(f float64) *float64 { return &f }

func TestDashboardServiceNotReady(t *testing.T) {
	svc := NewDashboardService(dataset.NewStore(), core.ModeLastWriter, nil, nil, nil)

	_, err := svc.Rows(context.Background(), core.FilterState{})
	assert.ErrorIs(t, err, dataset.ErrNotReady)

	_, err = svc.Series(context.Background(), customer(1))
	assert.ErrorIs(t, err, dataset.ErrNotReady)

	st := svc.Status()
	assert.Equal(t, dataset.StateLoading, st.State)
	assert.Zero(t, st.Customers)
}

func TestDashboardServiceLoadError(t *testing.T) {
	store := dataset.NewStore()
	boom := errors.New("boom")
	_, _ = store.Load(context.Background(), sources.SourceFunc{
		Label: "test",
		Fn:    func(context.Context) (core.Dataset, error) { return core.Dataset{}, boom },
	})
	svc := NewDashboardService(store, "", nil, nil, nil)

	_, err := svc.Customers()
	assert.ErrorIs(t, err, boom)

	st := svc.Status()
	assert.Equal(t, dataset.StateError, st.State)
	assert.ErrorIs(t, st.Err, boom)
	assert.Equal(t, core.ModeLastWriter, svc.Mode())
}

func TestDashboardServiceTransactions(t *testing.T) {
	svc := NewDashboardService(loadedStore(t, testDataset()), core.ModeLastWriter, nil, nil, nil)
	ctx := context.Background()

	all, err := svc.Transactions(ctx, core.FilterState{})
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "11", "12", "13", "14"}, ids(all))

	byCustomer, err := svc.Transactions(ctx, core.FilterState{}.WithCustomer(customer(1)))
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "12", "13"}, ids(byCustomer))

	// The amount control replaces the customer predicate.
	state := core.FilterState{}.WithCustomer(customer(1)).WithMinAmount(amount(20))
	replaced, err := svc.Transactions(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "11", "14"}, ids(replaced))

	nan, err := svc.Transactions(ctx, core.FilterState{}.WithMinAmount(core.ParseAmountThreshold("abc")))
	require.NoError(t, err)
	assert.Empty(t, nan)
}

func TestDashboardServiceIntersectMode(t *testing.T) {
	svc := NewDashboardService(loadedStore(t, testDataset()), core.ModeIntersect, nil, nil, nil)

	state := core.FilterState{}.WithCustomer(customer(1)).WithMinAmount(amount(7.5))
	got, err := svc.Transactions(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "13"}, ids(got))
}

func TestDashboardServiceCachesViews(t *testing.T) {
	views := cache.NewLRUCache[[]core.Transaction](8, 0)
	svc := NewDashboardService(loadedStore(t, testDataset()), core.ModeLastWriter, views, nil, nil)
	ctx := context.Background()
	state := core.FilterState{}.WithCustomer(customer(2))

	first, err := svc.Transactions(ctx, state)
	require.NoError(t, err)
	second, err := svc.Transactions(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	stats := svc.CacheStats()["views"]
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
}

func TestDashboardServiceRows(t *testing.T) {
	svc := NewDashboardService(loadedStore(t, testDataset()), core.ModeLastWriter, nil, nil, nil)

	rows, err := svc.Rows(context.Background(), core.FilterState{})
	require.NoError(t, err)
	require.Len(t, rows, 5)

	assert.Equal(t, "Alice", rows[0].CustomerName)
	assert.True(t, rows[0].NameFound)

	// Customer "2" is stored as a string and still matches numeric 2.
	assert.Equal(t, "Bob", rows[1].CustomerName)
	assert.True(t, rows[1].NameFound)

	assert.Empty(t, rows[4].CustomerName)
	assert.False(t, rows[4].NameFound)
	assert.Equal(t, "2024-01-03", rows[4].Date)
	assert.Equal(t, 100.0, rows[4].Amount)
}

func TestDashboardServiceSeries(t *testing.T) {
	svc := NewDashboardService(loadedStore(t, testDataset()), core.ModeLastWriter, nil, nil, nil)
	ctx := context.Background()

	s, err := svc.Series(ctx, customer(1))
	require.NoError(t, err)
	assert.Equal(t, core.SeriesLabel, s.Label)
	assert.Equal(t, []string{"2024-01-02", "2024-01-01"}, s.Labels)
	assert.Equal(t, []float64{57.5, 5}, s.Values)

	none, err := svc.Series(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none.Labels)
	assert.Empty(t, none.Values)

	nan := core.NaNID()
	empty, err := svc.Series(ctx, &nan)
	require.NoError(t, err)
	assert.Empty(t, empty.Labels)

	_, err = svc.Series(ctx, customer(1))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), svc.CacheStats()["series"].Hits)
}

func TestSeriesKey(t *testing.T) {
	nan := core.NaNID()
	str := core.ParseID("abc")
	assert.Equal(t, "none", seriesKey(nil))
	assert.Equal(t, "nan", seriesKey(&nan))
	assert.Equal(t, "n:1", seriesKey(customer(1)))
	assert.Equal(t, "s:abc", seriesKey(&str))
}
