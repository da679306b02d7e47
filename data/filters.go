package data

// Filters holds the pagination parameters supplied on list endpoints.
// Values are taken from the query string as-is: the original service never
// bounds-checked page or limit, and this port keeps that behaviour.
type Filters struct {
	Page  int
	Limit int
}

// Offset returns the row offset for the current page.
func (f Filters) Offset() int {
	return (f.Page - 1) * f.Limit
}

// Metadata describes the pagination of a result page.
type Metadata struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// CalculateMetadata computes pagination metadata for a total record count.
// TotalPages is ceil(total/limit); a zero total yields zero pages.
func CalculateMetadata(total int, filters Filters) Metadata {
	if filters.Limit < 1 {
		return Metadata{Page: filters.Page, Limit: filters.Limit, Total: total}
	}
	return Metadata{
		Page:       filters.Page,
		Limit:      filters.Limit,
		Total:      total,
		TotalPages: (total + filters.Limit - 1) / filters.Limit,
	}
}
