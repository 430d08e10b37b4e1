package services

import (
	"context"
	"strconv"
	"time"

	"txdash/internal/cache"
	"txdash/internal/core"
	"txdash/internal/dataset"
	applog "txdash/internal/log"
)

// Row is one table line: a transaction joined with its customer's name.
// NameFound is false when no customer matches; the name then renders blank.
type Row struct {
	TransactionID core.ID `json:"transaction_id"`
	CustomerID    core.ID `json:"customer_id"`
	CustomerName  string  `json:"customer_name"`
	NameFound     bool    `json:"-"`
	Date          string  `json:"date"`
	Amount        float64 `json:"amount"`
}

type Status struct {
	State        dataset.State
	Err          error
	LoadedAt     time.Time
	Customers    int
	Transactions int
}

// DashboardService derives every view the pages and API render from the
// loaded dataset. Views are cached by their filter key; cached slices are
// shared and must not be modified.
type DashboardService struct {
	store  *dataset.Store
	mode   core.FilterMode
	views  cache.Cache[[]core.Transaction]
	series cache.Cache[core.Series]
	log    *applog.StructuredLogger
}

// NewDashboardService wires the store to its caches. Nil caches get a
// small default.
func NewDashboardService(store *dataset.Store, mode core.FilterMode, views cache.Cache[[]core.Transaction], series cache.Cache[core.Series], logger *applog.Logger) *DashboardService {
	if views == nil {
		views = cache.NewLRUCache[[]core.Transaction](64, 0)
	}
	if series == nil {
		series = cache.NewLRUCache[core.Series](64, 0)
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	if mode == "" {
		mode = core.ModeLastWriter
	}
	return &DashboardService{
		store:  store,
		mode:   mode,
		views:  views,
		series: series,
		log:    applog.NewStructuredLogger(logger.WithComponent(applog.ComponentDashboard)),
	}
}

func (s *DashboardService) Mode() core.FilterMode { return s.mode }

func (s *DashboardService) Status() Status {
	st := Status{
		State:    s.store.State(),
		Err:      s.store.Err(),
		LoadedAt: s.store.LoadedAt(),
	}
	if ds, err := s.store.Snapshot(); err == nil {
		st.Customers = len(ds.Customers)
		st.Transactions = len(ds.Transactions)
	}
	return st
}

// Customers lists customers in dataset order, for the selector.
func (s *DashboardService) Customers() ([]core.Customer, error) {
	ds, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return ds.Customers, nil
}

// Transactions returns the filtered view for state.
func (s *DashboardService) Transactions(ctx context.Context, state core.FilterState) ([]core.Transaction, error) {
	ds, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	key := state.Key(s.mode)
	if view, ok := s.views.Get(key); ok {
		s.log.LogViewComputed(ctx, applog.OpFilter, filterFields(state, s.mode), len(view), true)
		return view, nil
	}
	view := state.View(ds.Transactions, s.mode)
	s.views.Set(key, view)
	s.log.LogViewComputed(ctx, applog.OpFilter, filterFields(state, s.mode), len(view), false)
	return view, nil
}

// Rows is the filtered view with each customer name resolved.
func (s *DashboardService) Rows(ctx context.Context, state core.FilterState) ([]Row, error) {
	view, err := s.Transactions(ctx, state)
	if err != nil {
		return nil, err
	}
	names := s.store.Names()
	rows := make([]Row, len(view))
	for i, t := range view {
		name, ok := names.Lookup(t.CustomerID)
		rows[i] = Row{
			TransactionID: t.ID,
			CustomerID:    t.CustomerID,
			CustomerName:  name,
			NameFound:     ok,
			Date:          t.Date,
			Amount:        t.Amount,
		}
	}
	return rows, nil
}

// Series is the chart data for customer over the full dataset. A nil
// customer yields an empty series.
func (s *DashboardService) Series(ctx context.Context, customer *core.ID) (core.Series, error) {
	ds, err := s.store.Snapshot()
	if err != nil {
		return core.Series{}, err
	}
	key := seriesKey(customer)
	if out, ok := s.series.Get(key); ok {
		s.log.LogViewComputed(ctx, applog.OpAggregate, applog.NewFields(), len(out.Labels), true)
		return out, nil
	}
	out := core.SeriesOf(core.DailyTotals(ds.Transactions, customer))
	s.series.Set(key, out)
	s.log.LogViewComputed(ctx, applog.OpAggregate, applog.NewFields(), len(out.Labels), false)
	return out, nil
}

// CacheStats reports both view caches by name.
func (s *DashboardService) CacheStats() map[string]cache.Stats {
	return map[string]cache.Stats{
		"views":  s.views.Stats(),
		"series": s.series.Stats(),
	}
}

func seriesKey(customer *core.ID) string {
	switch {
	case customer == nil:
		return "none"
	case customer.IsNaN():
		return "nan"
	case customer.IsNumber():
		return "n:" + customer.Key()
	default:
		return "s:" + customer.Key()
	}
}

func filterFields(state core.FilterState, mode core.FilterMode) applog.LogFields {
	customer, minAmount := "", ""
	if state.Customer != nil {
		customer = state.Customer.String()
	}
	if state.MinAmount != nil {
		minAmount = formatFloat(*state.MinAmount)
	}
	return applog.NewFields().WithFilter(customer, minAmount, state.Last.String(), string(mode))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
