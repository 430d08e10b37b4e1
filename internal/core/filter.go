package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FilterField names the predicate a user interaction touched.
type FilterField int

const (
	FieldNone FilterField = iota
	FieldCustomer
	FieldAmount
)

func (f FilterField) String() string {
	switch f {
	case FieldCustomer:
		return "customer"
	case FieldAmount:
		return "min_amount"
	default:
		return "none"
	}
}

// FilterMode decides how the two predicates of a FilterState combine.
type FilterMode string

const (
	// ModeLastWriter applies only the predicate changed most recently; the
	// other one is kept in the state but ignored by View.
	ModeLastWriter FilterMode = "last"
	// ModeIntersect applies every predicate that is set.
	ModeIntersect FilterMode = "intersect"
)

// ParseFilterMode validates a configured filter mode.
func ParseFilterMode(s string) (FilterMode, error) {
	switch m := FilterMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeLastWriter, ModeIntersect:
		return m, nil
	case "":
		return ModeLastWriter, nil
	default:
		return "", fmt.Errorf("invalid filter mode %q: must be one of [last intersect]", s)
	}
}

// FilterByCustomer returns, in source order, the transactions whose customer
// id strictly equals id. A NaN id matches nothing.
func FilterByCustomer(txs []Transaction, id ID) []Transaction {
	out := make([]Transaction, 0)
	for _, t := range txs {
		if t.CustomerID.StrictEqual(id) {
			out = append(out, t)
		}
	}
	return out
}

// FilterByMinAmount returns, in source order, the transactions with
// amount >= min. A NaN threshold matches nothing.
func FilterByMinAmount(txs []Transaction, min float64) []Transaction {
	out := make([]Transaction, 0)
	for _, t := range txs {
		if t.Amount >= min {
			out = append(out, t)
		}
	}
	return out
}

// ParseCustomerSelection turns the raw value of the customer selector into a
// predicate. Empty text and "all" select every customer (nil). Anything that
// is not an integer becomes a NaN id.
func ParseCustomerSelection(text string) *ID {
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, "all") {
		return nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		id := NaNID()
		return &id
	}
	id := NewID(n)
	return &id
}

// ParseAmountThreshold turns the raw value of the amount input into a
// predicate. Empty text means no lower bound (nil); malformed text is NaN.
func ParseAmountThreshold(text string) *float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		f = math.NaN()
	}
	return &f
}

// FilterState is the transient page state derived from user input. It is a
// value: every With/Clear method returns a new state.
type FilterState struct {
	Customer  *ID
	MinAmount *float64
	Last      FilterField
}

func (s FilterState) WithCustomer(id *ID) FilterState {
	s.Customer = cloneID(id)
	s.Last = FieldCustomer
	return s
}

func (s FilterState) WithMinAmount(min *float64) FilterState {
	s.MinAmount = cloneFloat(min)
	s.Last = FieldAmount
	return s
}

func (s FilterState) ClearCustomer() FilterState {
	return s.WithCustomer(nil)
}

func (s FilterState) ClearMinAmount() FilterState {
	return s.WithMinAmount(nil)
}

// View computes the filtered view of txs. The result is always a fresh
// slice and a subsequence of txs.
//
// In ModeLastWriter only the predicate named by Last is applied, matching
// the page where each control recomputes from the full list. When Last is
// FieldNone (no interaction recorded) every set predicate is applied.
func (s FilterState) View(txs []Transaction, mode FilterMode) []Transaction {
	applyCustomer := s.Customer != nil
	applyAmount := s.MinAmount != nil
	if mode != ModeIntersect {
		switch s.Last {
		case FieldCustomer:
			applyAmount = false
		case FieldAmount:
			applyCustomer = false
		}
	}

	out := append(make([]Transaction, 0, len(txs)), txs...)
	if applyCustomer {
		out = FilterByCustomer(out, *s.Customer)
	}
	if applyAmount {
		out = FilterByMinAmount(out, *s.MinAmount)
	}
	return out
}

// Key returns a stable string for caching the view of this state.
func (s FilterState) Key(mode FilterMode) string {
	customer := "-"
	if s.Customer != nil {
		customer = s.Customer.String()
		if !s.Customer.IsNumber() {
			customer = "s:" + customer
		}
	}
	amount := "-"
	if s.MinAmount != nil {
		amount = strconv.FormatFloat(*s.MinAmount, 'g', -1, 64)
	}
	return string(mode) + "|" + s.Last.String() + "|" + customer + "|" + amount
}

func cloneID(id *ID) *ID {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}
