package core

import "github.com/shopspring/decimal"

// SeriesLabel is the dataset label shown on the chart legend.
const SeriesLabel = "Total Transaction Amount"

// Series is the chart-ready shape of a list of daily totals: parallel label
// and value sequences.
type Series struct {
	Label  string    `json:"label"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// DailyTotals sums the transactions of one customer per literal date
// string. Dates are emitted in the order they are first seen, never sorted.
// A nil customer (no selection) yields an empty result.
//
// Amounts are summed as decimals so that grouping cannot change the total
// through float rounding. Amounts must be finite (see Dataset.Validate).
func DailyTotals(txs []Transaction, customer *ID) []DailyTotal {
	if customer == nil {
		return []DailyTotal{}
	}

	var order []string
	sums := make(map[string]decimal.Decimal)
	for _, t := range FilterByCustomer(txs, *customer) {
		sum, seen := sums[t.Date]
		if !seen {
			order = append(order, t.Date)
		}
		sums[t.Date] = sum.Add(decimal.NewFromFloat(t.Amount))
	}

	out := make([]DailyTotal, 0, len(order))
	for _, date := range order {
		out = append(out, DailyTotal{Date: date, Amount: sums[date].InexactFloat64()})
	}
	return out
}

// SeriesOf splits daily totals into chart labels and values.
func SeriesOf(totals []DailyTotal) Series {
	s := Series{
		Label:  SeriesLabel,
		Labels: make([]string, 0, len(totals)),
		Values: make([]float64, 0, len(totals)),
	}
	for _, t := range totals {
		s.Labels = append(s.Labels, t.Date)
		s.Values = append(s.Values, t.Amount)
	}
	return s
}
