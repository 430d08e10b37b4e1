package http

import (
	"errors"
	"strconv"
	"strings"

	"txdash/internal/dataset"
)

// formatAmount renders an amount the way the dataset spells it: shortest
// decimal form, no grouping, no currency.
func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

// loadErrorMessage is the text shown after "Error fetching data: ". It is the
// cause of the failed fetch without the source prefix.
func loadErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var fe *dataset.FetchError
	if errors.As(err, &fe) && fe.Err != nil {
		return fe.Err.Error()
	}
	return err.Error()
}
