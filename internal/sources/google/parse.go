package google

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"txdash/internal/core"
)

// parseCustomers converts a values matrix with an id/name header row.
func parseCustomers(values [][]interface{}) ([]core.Customer, error) {
	if len(values) == 0 {
		return []core.Customer{}, nil
	}
	headers := toStrings(values[0])
	colID := indexOf(headers, "id")
	colName := indexOf(headers, "name")
	if err := requireColumns(headers, map[string]int{"id": colID, "name": colName}); err != nil {
		return nil, fmt.Errorf("customers sheet: %w", err)
	}

	out := make([]core.Customer, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		row := values[i]
		if blankRow(row) {
			continue
		}
		out = append(out, core.Customer{
			ID:   cellID(safeCell(row, colID)),
			Name: strings.TrimSpace(cellString(safeCell(row, colName))),
		})
	}
	return out, nil
}

// parseTransactions converts a values matrix with an
// id/customer_id/date/amount header row.
func parseTransactions(values [][]interface{}) ([]core.Transaction, error) {
	if len(values) == 0 {
		return []core.Transaction{}, nil
	}
	headers := toStrings(values[0])
	cols := map[string]int{
		"id":          indexOf(headers, "id"),
		"customer_id": indexOf(headers, "customer_id"),
		"date":        indexOf(headers, "date"),
		"amount":      indexOf(headers, "amount"),
	}
	if err := requireColumns(headers, cols); err != nil {
		return nil, fmt.Errorf("transactions sheet: %w", err)
	}

	out := make([]core.Transaction, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		row := values[i]
		if blankRow(row) {
			continue
		}
		amount, ok := cellAmount(safeCell(row, cols["amount"]))
		if !ok {
			return nil, fmt.Errorf("transactions sheet row %d: %w", i+1, core.ErrInvalidAmount)
		}
		out = append(out, core.Transaction{
			ID:         cellID(safeCell(row, cols["id"])),
			CustomerID: cellID(safeCell(row, cols["customer_id"])),
			Date:       cellString(safeCell(row, cols["date"])),
			Amount:     amount,
		})
	}
	return out, nil
}

func requireColumns(headers []string, cols map[string]int) error {
	var missing []string
	for _, name := range []string{"id", "customer_id", "name", "date", "amount"} {
		if idx, ok := cols[name]; ok && idx == -1 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("unexpected header: missing %s; got headers=%v", strings.Join(missing, ","), headers)
	}
	return nil
}

// cellID keeps numeric cells as numeric ids so they compare strictly with
// the parsed customer selection.
func cellID(v interface{}) core.ID {
	switch x := v.(type) {
	case float64:
		return core.NumberID(x)
	case int:
		return core.NewID(int64(x))
	case int64:
		return core.NewID(x)
	case nil:
		return core.NaNID()
	default:
		return core.ParseID(cellString(v))
	}
}

func cellAmount(v interface{}) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	default:
		s := strings.TrimSpace(cellString(v))
		if s == "" {
			return 0, false
		}
		s = strings.ReplaceAll(s, ",", ".")
		var err error
		f, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func cellString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func blankRow(row []interface{}) bool {
	for _, v := range row {
		if strings.TrimSpace(cellString(v)) != "" {
			return false
		}
	}
	return true
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return i
		}
	}
	return -1
}

func safeCell(row []interface{}, idx int) interface{} {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}
