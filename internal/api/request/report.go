package request

import "net/http"

// ExportReport selects what to export and in which format.
type ExportReport struct {
	Entity string `validate:"required,oneof=customers budgets invoices"`
	Format string `validate:"required,oneof=pdf excel csv json xml html"`
	Upload bool
}

// ParseExportReport reads an export request from the path entity and the
// format and upload query parameters, then validates it.
func ParseExportReport(r *http.Request, entity string) (ExportReport, error) {
	q := r.URL.Query()
	e := ExportReport{
		Entity: entity,
		Format: q.Get("format"),
		Upload: q.Get("upload") == "true" || q.Get("upload") == "1",
	}
	if e.Format == "" {
		e.Format = "json"
	}
	if err := Validate(e); err != nil {
		return ExportReport{}, err
	}
	return e, nil
}
