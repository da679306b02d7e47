package service

import (
	"errors"
	"net/http"
	"time"

	"github.com/sdsdc/bibliotheque/clients"
	"github.com/sdsdc/bibliotheque/data"
	"github.com/sdsdc/bibliotheque/data/dto"
	"github.com/sdsdc/bibliotheque/internal/validator"
	"github.com/sdsdc/bibliotheque/repository"
)

type books interface {
	ListBooks(filter data.BookFilter) ([]*data.Book, data.Metadata, error)
	GetBook(bookID int64) (*data.Book, error)
	GetBookSuggestions(search string) ([]*data.BookSuggestion, error)
	GetBookStats() (*data.BookStats, error)
	AddBook(requestBody dto.AddBookRequestBody) (*data.Book, error)
	UpdateBook(bookID int64, requestBody dto.UpdateBookRequestBody) (*data.Book, error)
	UpdateBookCover(bookID int64, r *http.Request) (*data.Book, error)
}

// ListBooks retrieves one page of catalog entries matching the filter, plus
// pagination metadata.
func (s *service) ListBooks(filter data.BookFilter) ([]*data.Book, data.Metadata, error) {
	return s.repo.GetAllBooks(filter)
}

// GetBook retrieves the details of a single catalog entry.
func (s *service) GetBook(bookID int64) (*data.Book, error) {
	book, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return book, nil
}

// GetBookSuggestions retrieves typeahead matches for the given text. An
// empty query short-circuits to an empty list without touching the store.
func (s *service) GetBookSuggestions(search string) ([]*data.BookSuggestion, error) {
	if search == "" {
		return []*data.BookSuggestion{}, nil
	}
	return s.repo.GetBookSuggestions(search)
}

// GetBookStats retrieves the catalog-wide aggregate counts.
func (s *service) GetBookStats() (*data.BookStats, error) {
	return s.repo.GetBookStats()
}

// AddBook creates a new catalog entry. The entry number is assigned as the
// current maximum plus one; with two concurrent adds both can read the same
// maximum. Bulk imports are rare and single-operator, so the race is kept
// rather than guarded (the unique index on entry_id turns a collision into
// an error instead of silent duplication).
func (s *service) AddBook(requestBody dto.AddBookRequestBody) (*data.Book, error) {
	book := &data.Book{
		Title:            requestBody.Title,
		Subtitle:         requestBody.Subtitle,
		Author1:          requestBody.Author1,
		Author2:          requestBody.Author2,
		Publisher:        requestBody.Publisher,
		ISBN:             requestBody.ISBN,
		Format:           requestBody.Format,
		PageCount:        requestBody.PageCount,
		Summary:          requestBody.Summary,
		Section:          requestBody.Section,
		Location:         requestBody.Location,
		HistoricalPeriod: requestBody.HistoricalPeriod,
		GeneralTheme:     requestBody.GeneralTheme,
		MajorEvent:       requestBody.MajorEvent,
		Geography:        requestBody.Geography,
		GroupsActors:     requestBody.GroupsActors,
		Sources:          requestBody.Sources,
	}
	v := validator.New()
	if requestBody.PublicationDate != "" {
		t, err := time.Parse("2006-01-02", requestBody.PublicationDate)
		if err != nil {
			v.AddError("publicationDate", "must be a valid date in YYYY-MM-DD format")
		} else {
			book.PublicationDate = &t
		}
	}
	if data.ValidateBook(v, book); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	maxEntryID, err := s.repo.GetMaxEntryID()
	if err != nil {
		return nil, err
	}
	book.EntryID = maxEntryID + 1
	err = s.repo.CreateBook(book)
	if err != nil {
		return nil, err
	}
	return book, nil
}

// bookUpdateColumns translates a partial-update body into the column names
// and bound values for the UPDATE statement. Only non-nil fields appear; the
// mapping is fixed here, so request input can never name a column.
func bookUpdateColumns(requestBody dto.UpdateBookRequestBody) ([]string, []interface{}, error) {
	var columns []string
	var values []interface{}
	set := func(column string, value interface{}) {
		columns = append(columns, column)
		values = append(values, value)
	}
	if requestBody.Title != nil {
		set("title", *requestBody.Title)
	}
	if requestBody.Subtitle != nil {
		set("subtitle", *requestBody.Subtitle)
	}
	if requestBody.Author1 != nil {
		set("author_1", *requestBody.Author1)
	}
	if requestBody.Author2 != nil {
		set("author_2", *requestBody.Author2)
	}
	if requestBody.Publisher != nil {
		set("publisher", *requestBody.Publisher)
	}
	if requestBody.PublicationDate != nil {
		t, err := time.Parse("2006-01-02", *requestBody.PublicationDate)
		if err != nil {
			return nil, nil, err
		}
		set("publication_date", t)
	}
	if requestBody.ISBN != nil {
		set("isbn", *requestBody.ISBN)
	}
	if requestBody.Format != nil {
		set("format", *requestBody.Format)
	}
	if requestBody.PageCount != nil {
		set("page_count", *requestBody.PageCount)
	}
	if requestBody.Summary != nil {
		set("summary", *requestBody.Summary)
	}
	if requestBody.Section != nil {
		set("section", *requestBody.Section)
	}
	if requestBody.Location != nil {
		set("location", *requestBody.Location)
	}
	if requestBody.HistoricalPeriod != nil {
		set("historical_period", *requestBody.HistoricalPeriod)
	}
	if requestBody.GeneralTheme != nil {
		set("general_theme", *requestBody.GeneralTheme)
	}
	if requestBody.MajorEvent != nil {
		set("major_event", *requestBody.MajorEvent)
	}
	if requestBody.Geography != nil {
		set("geography", *requestBody.Geography)
	}
	if requestBody.GroupsActors != nil {
		set("groups_actors", *requestBody.GroupsActors)
	}
	if requestBody.Sources != nil {
		set("sources", *requestBody.Sources)
	}
	return columns, values, nil
}

// UpdateBook applies a partial update to a catalog entry. A body carrying no
// updatable field is a validation failure.
func (s *service) UpdateBook(bookID int64, requestBody dto.UpdateBookRequestBody) (*data.Book, error) {
	columns, values, err := bookUpdateColumns(requestBody)
	if err != nil {
		v := validator.New()
		v.AddError("publicationDate", "must be a valid date in YYYY-MM-DD format")
		return nil, failedValidation(v.Errors)
	}
	if len(columns) == 0 {
		v := validator.New()
		v.AddError("fields", "no valid fields to update")
		return nil, failedValidation(v.Errors)
	}
	book, err := s.repo.UpdateBookFields(bookID, columns, values)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return book, nil
}

// UpdateBookCover uploads a cover image for a catalog entry and records its
// public URL.
func (s *service) UpdateBookCover(bookID int64, r *http.Request) (*data.Book, error) {
	_, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	err = r.ParseMultipartForm(5000)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesError):
			return nil, ErrContentTooLarge
		default:
			return nil, ErrBadRequest
		}
	}
	file, fileHeader, err := r.FormFile("cover")
	if err != nil {
		return nil, ErrBadRequest
	}
	defer file.Close()
	buffer, mtype, err := s.detectMimeType(file, fileHeader)
	if err != nil {
		return nil, err
	}
	if ok := validator.Mime(mtype, "image/jpeg", "image/png"); !ok {
		return nil, ErrUnsupportedMediaType
	}
	s3Client, err := clients.NewS3Client(s.config)
	if err != nil {
		return nil, err
	}
	coverURL, err := s.uploadCoverToS3(s3Client, buffer, mtype, fileHeader)
	if err != nil {
		return nil, err
	}
	book, err := s.repo.SetBookCover(bookID, coverURL)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return book, nil
}
