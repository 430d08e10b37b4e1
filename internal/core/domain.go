package core

import (
	"errors"
	"fmt"
	"math"
)

type (
	Customer struct {
		ID   ID     `json:"id"`
		Name string `json:"name"`
	}

	// Transaction is one row of the dataset. Date is an opaque grouping key
	// and is never parsed into a calendar type.
	Transaction struct {
		ID         ID      `json:"id"`
		CustomerID ID      `json:"customer_id"`
		Date       string  `json:"date"`
		Amount     float64 `json:"amount"`
	}

	// Dataset is the immutable pair of lists loaded once at startup.
	Dataset struct {
		Customers    []Customer    `json:"customers"`
		Transactions []Transaction `json:"transactions"`
	}

	// DailyTotal is the summed amount of one customer's transactions for a
	// single literal date string.
	DailyTotal struct {
		Date   string  `json:"date"`
		Amount float64 `json:"amount"`
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidTransaction  = errors.New("invalid transaction")
	ErrMissingCustomers    = errors.New("dataset payload missing customers")
	ErrMissingTransactions = errors.New("dataset payload missing transactions")
)

func (t Transaction) Validate() error {
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return fmt.Errorf("%w %s: %w", ErrInvalidTransaction, t.ID, ErrInvalidAmount)
	}
	return nil
}

// Validate checks the invariants the pure functions rely on.
func (d Dataset) Validate() error {
	for _, t := range d.Transactions {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a copy whose slices do not alias d.
func (d Dataset) Clone() Dataset {
	return Dataset{
		Customers:    append(make([]Customer, 0, len(d.Customers)), d.Customers...),
		Transactions: append(make([]Transaction, 0, len(d.Transactions)), d.Transactions...),
	}
}
