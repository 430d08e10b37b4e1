// Package http serves the dashboard page, its htmx partials and a small JSON
// API over the loaded dataset.
//
// This file turns query strings into filter state.

package http

import (
	"net/http"
	"net/url"
	"strings"

	"txdash/internal/core"
)

// Query parameter names shared by the page controls and the JSON API. The
// customer and amount names match core.FilterField.String, so the "last"
// field reported by the API can be sent back as "changed".
const (
	ParamCustomer = "customer"
	ParamAmount   = "min_amount"
	ParamChanged  = "changed"
)

// FilterParams is the raw, sanitized text of the two page controls plus the
// name of the control the user touched last.
type FilterParams struct {
	Customer string
	Amount   string
	Changed  string
}

// ParseFilterParams reads the filter controls from the query string. The
// changed control comes from htmx's HX-Trigger-Name header, or from the
// "changed" parameter for plain links and API callers.
func ParseFilterParams(r *http.Request) FilterParams {
	q := r.URL.Query()
	changed := sanitizeInput(r.Header.Get("HX-Trigger-Name"))
	if changed == "" {
		changed = sanitizeInput(q.Get(ParamChanged))
	}
	return FilterParams{
		Customer: sanitizeInput(q.Get(ParamCustomer)),
		Amount:   sanitizeInput(q.Get(ParamAmount)),
		Changed:  strings.ToLower(changed),
	}
}

// State builds the filter state. The changed control is applied last so
// that it becomes the state's last writer; with no changed control the
// state records no interaction.
func (p FilterParams) State() core.FilterState {
	customer := core.ParseCustomerSelection(p.Customer)
	amount := core.ParseAmountThreshold(p.Amount)

	switch p.Changed {
	case ParamCustomer:
		return core.FilterState{}.WithMinAmount(amount).WithCustomer(customer)
	case ParamAmount:
		return core.FilterState{}.WithCustomer(customer).WithMinAmount(amount)
	default:
		return core.FilterState{Customer: customer, MinAmount: amount}
	}
}

// ChartCustomer is the customer whose daily totals the chart shows.
func (p FilterParams) ChartCustomer() *core.ID {
	return core.ParseCustomerSelection(p.Customer)
}

// Values encodes the params back into a query string.
func (p FilterParams) Values() url.Values {
	v := url.Values{}
	if p.Customer != "" {
		v.Set(ParamCustomer, p.Customer)
	}
	if p.Amount != "" {
		v.Set(ParamAmount, p.Amount)
	}
	if p.Changed != "" {
		v.Set(ParamChanged, p.Changed)
	}
	return v
}

// ParseCustomerParam reads the customer parameter of the daily totals API.
func ParseCustomerParam(query url.Values) *core.ID {
	return core.ParseCustomerSelection(sanitizeInput(query.Get(ParamCustomer)))
}

// RequireMethod checks the request method, returning a ready 405 response
// when it does not match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequireGET accepts GET and HEAD.
func RequireGET(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodGet, http.MethodHead)
}
