package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type CustomerRow struct {
	Position   int64
	ID         string
	IDIsNumber bool
	Name       string
}

type TransactionRow struct {
	Position           int64
	ID                 string
	IDIsNumber         bool
	CustomerID         string
	CustomerIDIsNumber bool
	Date               string
	Amount             float64
}

const listCustomers = `SELECT position, id, id_is_number, name FROM customers ORDER BY position`

func (q *Queries) ListCustomers(ctx context.Context) ([]CustomerRow, error) {
	rows, err := q.db.QueryContext(ctx, listCustomers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []CustomerRow{}
	for rows.Next() {
		var i CustomerRow
		if err := rows.Scan(&i.Position, &i.ID, &i.IDIsNumber, &i.Name); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listTransactions = `SELECT position, id, id_is_number, customer_id, customer_id_is_number, date, amount
FROM transactions ORDER BY position`

func (q *Queries) ListTransactions(ctx context.Context) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []TransactionRow{}
	for rows.Next() {
		var i TransactionRow
		if err := rows.Scan(&i.Position, &i.ID, &i.IDIsNumber, &i.CustomerID,
			&i.CustomerIDIsNumber, &i.Date, &i.Amount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertCustomer = `INSERT INTO customers (position, id, id_is_number, name) VALUES (?, ?, ?, ?)`

func (q *Queries) InsertCustomer(ctx context.Context, arg CustomerRow) error {
	_, err := q.db.ExecContext(ctx, insertCustomer, arg.Position, arg.ID, arg.IDIsNumber, arg.Name)
	return err
}

const insertTransaction = `INSERT INTO transactions
(position, id, id_is_number, customer_id, customer_id_is_number, date, amount)
VALUES (?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertTransaction(ctx context.Context, arg TransactionRow) error {
	_, err := q.db.ExecContext(ctx, insertTransaction, arg.Position, arg.ID, arg.IDIsNumber,
		arg.CustomerID, arg.CustomerIDIsNumber, arg.Date, arg.Amount)
	return err
}

const deleteCustomers = `DELETE FROM customers`

func (q *Queries) DeleteCustomers(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteCustomers)
	return err
}

const deleteTransactions = `DELETE FROM transactions`

func (q *Queries) DeleteTransactions(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteTransactions)
	return err
}
