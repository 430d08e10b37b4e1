package http

import (
	"bytes"
	"errors"
	"net/http"

	"txdash/internal/core"
	"txdash/internal/dataset"
	applog "txdash/internal/log"
	"txdash/internal/services"
)

// Messages rendered when the dataset cannot serve a view.
const (
	loadingMessage  = "Loading data..."
	loadErrorPrefix = "Error fetching data: "
)

type customerOption struct {
	Value    string
	Name     string
	Selected bool
}

type tableData struct {
	Rows     []services.Row
	RowCount int
}

type pageData struct {
	State     string
	Error     string
	Customers []customerOption
	Customer  string
	Amount    string
	Mode      string
	Table     tableData
}

// handleDashboard renders the whole page in its loading, error or ready state.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		NotFoundError("Page not found").Write(w)
		return
	}
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	if s.templates == nil {
		s.templateMissing(w, r)
		return
	}
	s.appMetrics.pageViews.Add(1)

	params := ParseFilterParams(r)
	data := pageData{
		State:    dataset.StateLoading.String(),
		Customer: params.Customer,
		Amount:   params.Amount,
		Mode:     string(s.dashboard.Mode()),
	}
	status := http.StatusOK

	rows, err := s.dashboard.Rows(r.Context(), params.State())
	switch {
	case errors.Is(err, dataset.ErrNotReady):
	case err != nil:
		data.State = dataset.StateError.String()
		data.Error = loadErrorPrefix + loadErrorMessage(err)
		status = http.StatusServiceUnavailable
	default:
		data.State = dataset.StateReady.String()
		data.Table = tableData{Rows: rows, RowCount: len(rows)}
		customers, _ := s.dashboard.Customers()
		data.Customers = customerOptions(customers, params.Customer)
	}

	s.render(w, r, "dashboard_page", data, NewHTMXResponse().Status(status))
}

// handleTransactionsTable renders the table partial swapped in by htmx on
// every control change, and asks the page to refresh the chart.
func (s *Server) handleTransactionsTable(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	if s.templates == nil {
		s.templateMissing(w, r)
		return
	}
	s.appMetrics.partialRenders.Add(1)

	params := ParseFilterParams(r)
	rows, err := s.dashboard.Rows(r.Context(), params.State())
	if err != nil {
		ServiceUnavailableError(unavailableMessage(err)).Write(w)
		return
	}

	chartCustomer := ""
	if params.ChartCustomer() != nil {
		chartCustomer = params.Customer
	}
	resp := NewHTMXResponse().
		TriggerFiltersApplied(len(rows)).
		TriggerChartRefresh(chartCustomer)
	s.render(w, r, "transactions_table", tableData{Rows: rows, RowCount: len(rows)}, resp)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any, resp *HTMXResponseBuilder) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.appMetrics.renderErrors.Add(1)
		s.events.LogError(r.Context(), "Template execution failed", err,
			applog.ComponentTemplate, applog.OpRender,
			applog.NewFields().WithErrorType(applog.ErrorTypeInternal))
		InternalServerError("Error rendering page").Write(w)
		return
	}
	resp.BodyHTML(buf.String()).Write(w)
}

func (s *Server) templateMissing(w http.ResponseWriter, r *http.Request) {
	s.logger.ErrorContext(r.Context(), "Templates not loaded",
		applog.FieldPath, r.URL.Path,
		applog.FieldComponent, applog.ComponentTemplate,
		applog.FieldErrorType, applog.ErrorTypeConfiguration)
	InternalServerError("templates not loaded").Write(w)
}

func customerOptions(customers []core.Customer, selected string) []customerOption {
	sel := core.ParseCustomerSelection(selected)
	out := make([]customerOption, len(customers))
	for i, c := range customers {
		out[i] = customerOption{
			Value:    c.ID.String(),
			Name:     c.Name,
			Selected: sel != nil && sel.Equal(c.ID),
		}
	}
	return out
}

func unavailableMessage(err error) string {
	if errors.Is(err, dataset.ErrNotReady) {
		return loadingMessage
	}
	return loadErrorPrefix + loadErrorMessage(err)
}

// transactionsResponse is the body of GET /api/transactions.
type transactionsResponse struct {
	Mode  string         `json:"mode"`
	Last  string         `json:"last"`
	Count int            `json:"count"`
	Rows  []services.Row `json:"rows"`
}

func (s *Server) handleTransactionsAPI(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	s.appMetrics.apiRequests.Add(1)

	state := ParseFilterParams(r).State()
	rows, err := s.dashboard.Rows(r.Context(), state)
	if err != nil {
		JSONError(http.StatusServiceUnavailable, unavailableMessage(err)).Write(w)
		return
	}
	NewHTMXResponse().BodyJSON(transactionsResponse{
		Mode:  string(s.dashboard.Mode()),
		Last:  state.Last.String(),
		Count: len(rows),
		Rows:  rows,
	}).Write(w)
}

func (s *Server) handleCustomersAPI(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	s.appMetrics.apiRequests.Add(1)

	customers, err := s.dashboard.Customers()
	if err != nil {
		JSONError(http.StatusServiceUnavailable, unavailableMessage(err)).Write(w)
		return
	}
	NewHTMXResponse().BodyJSON(customers).Write(w)
}

// handleDailyTotalsAPI returns the chart series for ?customer=. No customer
// yields an empty series.
func (s *Server) handleDailyTotalsAPI(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	s.appMetrics.apiRequests.Add(1)

	series, err := s.dashboard.Series(r.Context(), ParseCustomerParam(r.URL.Query()))
	if err != nil {
		JSONError(http.StatusServiceUnavailable, unavailableMessage(err)).Write(w)
		return
	}
	NewHTMXResponse().BodyJSON(series).Write(w)
}
