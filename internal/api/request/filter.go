package request

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/edvin/easybudget/internal/model"
	"github.com/edvin/easybudget/internal/platform"
	"github.com/edvin/easybudget/internal/store"
)

// ListParams holds pagination, search and status filter parameters.
type ListParams struct {
	Limit  int
	Cursor string
	Search string
	Status string
}

// ParseListParams extracts list parameters from the query string.
func ParseListParams(r *http.Request) ListParams {
	pg := ParsePagination(r)
	return ListParams{
		Limit:  pg.Limit,
		Cursor: pg.Cursor,
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Status: r.URL.Query().Get("status"),
	}
}

// Page converts the pagination part into a store page, decoding the cursor.
func (p ListParams) Page() (store.Page, error) {
	cursor, err := platform.DecodeCursor(p.Cursor)
	if err != nil {
		return store.Page{}, err
	}
	return store.Page{Limit: p.Limit, Cursor: cursor}, nil
}

// Values of the customer "active" query parameter.
const (
	ActiveYes = "1"
	ActiveNo  = "0"
	ActiveAll = "all"
)

// CustomerFilter is the typed customer list query.
type CustomerFilter struct {
	Active      string
	Search      string
	Type        string
	City        string
	State       string
	CreatedFrom string
	CreatedTo   string
	ListParams
}

// CustomerFilterFromQuery reads a CustomerFilter from query values. A
// missing active parameter means all customers.
func CustomerFilterFromQuery(q url.Values) CustomerFilter {
	f := CustomerFilter{
		Active:      strings.TrimSpace(q.Get("active")),
		Search:      strings.TrimSpace(q.Get("search")),
		Type:        q.Get("type"),
		City:        strings.TrimSpace(q.Get("city")),
		State:       strings.ToUpper(strings.TrimSpace(q.Get("state"))),
		CreatedFrom: q.Get("created_from"),
		CreatedTo:   q.Get("created_to"),
	}
	if f.Active == "" {
		f.Active = ActiveAll
	}
	return f
}

// ParseCustomerFilter reads the filter and pagination from r.
func ParseCustomerFilter(r *http.Request) CustomerFilter {
	f := CustomerFilterFromQuery(r.URL.Query())
	f.ListParams = ParseListParams(r)
	return f
}

// ToFilterMap returns the store filter keys. active=1 maps to status
// "active", active=0 to "inactive", anything else adds no status key.
func (f CustomerFilter) ToFilterMap() map[string]string {
	m := make(map[string]string)
	switch f.Active {
	case ActiveYes:
		m[store.FilterStatus] = model.StatusActive
	case ActiveNo:
		m[store.FilterStatus] = model.StatusInactive
	}
	if f.Search != "" {
		m[store.FilterSearch] = f.Search
	}
	if f.Type == store.CustomerIndividual || f.Type == store.CustomerCompany {
		m[store.FilterType] = f.Type
	}
	if f.City != "" {
		m[store.FilterCity] = f.City
	}
	if f.State != "" {
		m[store.FilterState] = f.State
	}
	if f.CreatedFrom != "" {
		m[store.FilterCreatedFrom] = f.CreatedFrom
	}
	if f.CreatedTo != "" {
		m[store.FilterCreatedTo] = f.CreatedTo
	}
	return m
}
