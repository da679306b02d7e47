// Package dto defines the request-body and query-string shapes accepted by
// the API. Field names follow the JSON casing the web client sends.
package dto

import "github.com/sdsdc/bibliotheque/data"

// QsListBooks defines the query strings used for listing books.
type QsListBooks struct {
	Search    string
	Section   string
	Author    string
	Theme     string
	Geography string
	Filters   data.Filters
}

// AddBookRequestBody defines the request body for the catalog add operation.
type AddBookRequestBody struct {
	Title            string `json:"title"`
	Subtitle         string `json:"subtitle"`
	Author1          string `json:"author1"`
	Author2          string `json:"author2"`
	Publisher        string `json:"publisher"`
	PublicationDate  string `json:"publicationDate"`
	ISBN             string `json:"isbn"`
	Format           string `json:"format"`
	PageCount        int32  `json:"pageCount"`
	Summary          string `json:"summary"`
	Section          string `json:"section"`
	Location         string `json:"location"`
	HistoricalPeriod string `json:"historicalPeriod"`
	GeneralTheme     string `json:"generalTheme"`
	MajorEvent       string `json:"majorEvent"`
	Geography        string `json:"geography"`
	GroupsActors     string `json:"groupsActors"`
	Sources          string `json:"sources"`
}

// UpdateBookRequestBody defines the partial-update body. Fields are pointers
// so that an absent field and an explicit zero value can be told apart; only
// non-nil fields end up in the UPDATE statement. The row id, entry number and
// creation timestamp are deliberately not updatable.
type UpdateBookRequestBody struct {
	Title            *string `json:"title"`
	Subtitle         *string `json:"subtitle"`
	Author1          *string `json:"author1"`
	Author2          *string `json:"author2"`
	Publisher        *string `json:"publisher"`
	PublicationDate  *string `json:"publicationDate"`
	ISBN             *string `json:"isbn"`
	Format           *string `json:"format"`
	PageCount        *int32  `json:"pageCount"`
	Summary          *string `json:"summary"`
	Section          *string `json:"section"`
	Location         *string `json:"location"`
	HistoricalPeriod *string `json:"historicalPeriod"`
	GeneralTheme     *string `json:"generalTheme"`
	MajorEvent       *string `json:"majorEvent"`
	Geography        *string `json:"geography"`
	GroupsActors     *string `json:"groupsActors"`
	Sources          *string `json:"sources"`
}
