package core

import (
	"encoding/json"
	"fmt"
	"io"
)

type datasetPayload struct {
	Customers    *[]Customer    `json:"customers"`
	Transactions *[]Transaction `json:"transactions"`
}

// DecodeDataset reads the {customers, transactions} JSON document. Both keys
// must be present; an empty list is fine.
func DecodeDataset(r io.Reader) (Dataset, error) {
	var p datasetPayload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	if p.Customers == nil {
		return Dataset{}, ErrMissingCustomers
	}
	if p.Transactions == nil {
		return Dataset{}, ErrMissingTransactions
	}
	ds := Dataset{Customers: *p.Customers, Transactions: *p.Transactions}
	if err := ds.Validate(); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

// EncodeDataset writes ds in the same shape DecodeDataset reads.
func EncodeDataset(w io.Writer, ds Dataset) error {
	if ds.Customers == nil {
		ds.Customers = []Customer{}
	}
	if ds.Transactions == nil {
		ds.Transactions = []Transaction{}
	}
	return json.NewEncoder(w).Encode(ds)
}
