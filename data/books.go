package data

import (
	"encoding/json"
	"time"

	"github.com/sdsdc/bibliotheque/internal/validator"
)

// Book defines a catalog entry. The entry number (EntryID) is the society's
// external inventory identifier, distinct from the row id and unique when
// present. The enriched fields at the bottom are populated by an out-of-band
// enrichment job and are never written by the regular catalog operations,
// with the exception of CoverImageURL.
type Book struct {
	ID               int64           `json:"id"`
	EntryID          int64           `json:"entry_id"`
	Location         string          `json:"location,omitempty"`
	Section          string          `json:"section"`
	Title            string          `json:"title"`
	Subtitle         string          `json:"subtitle,omitempty"`
	Author1          string          `json:"author_1,omitempty"`
	Author2          string          `json:"author_2,omitempty"`
	Publisher        string          `json:"publisher,omitempty"`
	PublicationDate  *time.Time      `json:"publication_date,omitempty"`
	ISBN             string          `json:"isbn,omitempty"`
	Format           string          `json:"format,omitempty"`
	PageCount        int32           `json:"page_count,omitempty"`
	Summary          string          `json:"summary,omitempty"`
	HistoricalPeriod string          `json:"historical_period,omitempty"`
	GeneralTheme     string          `json:"general_theme,omitempty"`
	MajorEvent       string          `json:"major_event,omitempty"`
	Geography        string          `json:"geography,omitempty"`
	GroupsActors     string          `json:"groups_actors,omitempty"`
	Sources          string          `json:"sources,omitempty"`
	EnrichedSummary  string          `json:"enriched_summary,omitempty"`
	Subjects         json.RawMessage `json:"subjects,omitempty"`
	Genres           json.RawMessage `json:"genres,omitempty"`
	AuthorBio        string          `json:"author_bio,omitempty"`
	CoverImageURL    string          `json:"cover_image_url,omitempty"`
	ExternalLinks    json.RawMessage `json:"external_links,omitempty"`
	SearchKeywords   []string        `json:"search_keywords,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// BookSuggestion is the trimmed shape returned by the typeahead lookup.
type BookSuggestion struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Author1 string `json:"author_1,omitempty"`
	Author2 string `json:"author_2,omitempty"`
}

// BookStats aggregates catalog-wide counts. TotalAuthors sums the distinct
// values of author_1 and author_2 separately, so an author appearing in both
// columns is counted twice. The society knows; nobody has minded yet.
type BookStats struct {
	Overview struct {
		TotalBooks    int `json:"total_books"`
		TotalSections int `json:"total_sections"`
		TotalAuthors  int `json:"total_authors"`
		TotalThemes   int `json:"total_themes"`
	} `json:"overview"`
	Sections []SectionCount `json:"sections"`
}

// SectionCount is one row of the per-section breakdown.
type SectionCount struct {
	Section string `json:"section"`
	Count   int    `json:"count"`
}

// BookFilter carries the catalog search and filter parameters. A zero-value
// field means the corresponding predicate is omitted entirely, not matched
// against everything.
type BookFilter struct {
	Search    string
	Section   string
	Author    string
	Theme     string
	Geography string
	Filters   Filters
}

func ValidateBook(v *validator.Validator, book *Book) {
	v.Check(book.Title != "", "title", "must be provided")
	v.Check(len(book.Title) <= 500, "title", "must not be more than 500 bytes long")
	v.Check(book.Section != "", "section", "must be provided")
	v.Check(len(book.Section) <= 100, "section", "must not be more than 100 bytes long")
	v.Check(len(book.Author1) <= 200, "author1", "must not be more than 200 bytes long")
	v.Check(len(book.Author2) <= 200, "author2", "must not be more than 200 bytes long")
	v.Check(len(book.ISBN) <= 20, "isbn", "must not be more than 20 bytes long")
	v.Check(book.PageCount >= 0, "pageCount", "must not be negative")
}
