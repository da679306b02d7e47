package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/sdsdc/bibliotheque/data"
)

type books interface {
	CreateBook(book *data.Book) error
	GetBook(bookID int64) (*data.Book, error)
	GetAllBooks(filter data.BookFilter) ([]*data.Book, data.Metadata, error)
	GetBookSuggestions(search string) ([]*data.BookSuggestion, error)
	GetBookStats() (*data.BookStats, error)
	GetMaxEntryID() (int64, error)
	UpdateBookFields(bookID int64, columns []string, values []interface{}) (*data.Book, error)
	SetBookCover(bookID int64, coverURL string) (*data.Book, error)
}

// bookColumns is the select list shared by every query returning full book
// records. Nullable text columns are coalesced so they scan into plain
// strings.
const bookColumns = `
	id, COALESCE(entry_id, 0), COALESCE(location, ''), COALESCE(section, ''), title,
	COALESCE(subtitle, ''), COALESCE(author_1, ''), COALESCE(author_2, ''),
	COALESCE(publisher, ''), publication_date, COALESCE(isbn, ''), COALESCE(format, ''),
	COALESCE(page_count, 0), COALESCE(summary, ''), COALESCE(historical_period, ''),
	COALESCE(general_theme, ''), COALESCE(major_event, ''), COALESCE(geography, ''),
	COALESCE(groups_actors, ''), COALESCE(sources, ''), COALESCE(enriched_summary, ''),
	subjects, genres, COALESCE(author_bio, ''), COALESCE(cover_image_url, ''),
	external_links, search_keywords, created_at, updated_at`

// scanBook scans one row produced with bookColumns into book.
func scanBook(row interface{ Scan(dest ...interface{}) error }, book *data.Book) error {
	return row.Scan(
		&book.ID,
		&book.EntryID,
		&book.Location,
		&book.Section,
		&book.Title,
		&book.Subtitle,
		&book.Author1,
		&book.Author2,
		&book.Publisher,
		&book.PublicationDate,
		&book.ISBN,
		&book.Format,
		&book.PageCount,
		&book.Summary,
		&book.HistoricalPeriod,
		&book.GeneralTheme,
		&book.MajorEvent,
		&book.Geography,
		&book.GroupsActors,
		&book.Sources,
		&book.EnrichedSummary,
		&book.Subjects,
		&book.Genres,
		&book.AuthorBio,
		&book.CoverImageURL,
		&book.ExternalLinks,
		pq.Array(&book.SearchKeywords),
		&book.CreatedAt,
		&book.UpdatedAt,
	)
}

// buildBookPredicate translates a BookFilter into a parameterized WHERE
// clause and its bound argument list. Filter values are always bound, never
// interpolated; only the clause shape varies with which filters are set. An
// empty filter yields an empty clause.
//
// The free-text search is one compound predicate: french full-text over title
// and summary, or a case-insensitive partial match on either author column.
// The structured filters are independent ILIKE partials combined with AND.
func buildBookPredicate(filter data.BookFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		args = append(args, filter.Search, "%"+filter.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(`(
			to_tsvector('french', title) @@ plainto_tsquery('french', $%d) OR
			to_tsvector('french', COALESCE(summary, '')) @@ plainto_tsquery('french', $%d) OR
			author_1 ILIKE $%d OR
			author_2 ILIKE $%d
		)`, n-1, n-1, n, n))
	}
	if filter.Section != "" {
		args = append(args, "%"+filter.Section+"%")
		conditions = append(conditions, fmt.Sprintf("section ILIKE $%d", len(args)))
	}
	if filter.Author != "" {
		args = append(args, "%"+filter.Author+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(author_1 ILIKE $%d OR author_2 ILIKE $%d)", n, n))
	}
	if filter.Theme != "" {
		args = append(args, "%"+filter.Theme+"%")
		conditions = append(conditions, fmt.Sprintf("general_theme ILIKE $%d", len(args)))
	}
	if filter.Geography != "" {
		args = append(args, "%"+filter.Geography+"%")
		conditions = append(conditions, fmt.Sprintf("geography ILIKE $%d", len(args)))
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// CreateBook inserts a new catalog entry.
func (r *repository) CreateBook(book *data.Book) error {
	query := `
		INSERT INTO books (
			entry_id, title, subtitle, author_1, author_2, publisher,
			publication_date, isbn, format, page_count, summary, section,
			location, historical_period, general_theme, major_event,
			geography, groups_actors, sources
		)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''),
			$7, NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, 0), NULLIF($11, ''), $12,
			NULLIF($13, ''), NULLIF($14, ''), NULLIF($15, ''), NULLIF($16, ''),
			NULLIF($17, ''), NULLIF($18, ''), NULLIF($19, ''))
		RETURNING id, created_at, updated_at`
	args := []interface{}{
		book.EntryID,
		book.Title,
		book.Subtitle,
		book.Author1,
		book.Author2,
		book.Publisher,
		book.PublicationDate,
		book.ISBN,
		book.Format,
		book.PageCount,
		book.Summary,
		book.Section,
		book.Location,
		book.HistoricalPeriod,
		book.GeneralTheme,
		book.MajorEvent,
		book.Geography,
		book.GroupsActors,
		book.Sources,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return r.db.QueryRowContext(ctx, query, args...).Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt)
}

// GetBook retrieves a catalog entry by its row id.
func (r *repository) GetBook(bookID int64) (*data.Book, error) {
	if bookID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE id = $1`
	var book data.Book
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := scanBook(r.db.QueryRowContext(ctx, query, bookID), &book)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &book, nil
}

// GetAllBooks retrieves one page of catalog entries matching the filter,
// ordered by title, plus pagination metadata. The count and page queries are
// two separate round trips with no enclosing transaction, so the total can
// drift from the page under concurrent writes; the catalog promises no
// stronger consistency than that.
func (r *repository) GetAllBooks(filter data.BookFilter) ([]*data.Book, data.Metadata, error) {
	where, args := buildBookPredicate(filter)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var total int
	countQuery := "SELECT COUNT(*) FROM books " + where
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, data.Metadata{}, err
	}

	pageQuery := fmt.Sprintf(`
		SELECT `+bookColumns+`
		FROM books
		%s
		ORDER BY title ASC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, pageQuery, append(args, filter.Filters.Limit, filter.Filters.Offset())...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()

	books := []*data.Book{}
	for rows.Next() {
		var book data.Book
		if err := scanBook(rows, &book); err != nil {
			return nil, data.Metadata{}, err
		}
		books = append(books, &book)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	return books, data.CalculateMetadata(total, filter.Filters), nil
}

// GetBookSuggestions retrieves up to ten distinct typeahead matches on title
// or either author column.
func (r *repository) GetBookSuggestions(search string) ([]*data.BookSuggestion, error) {
	query := `
		SELECT DISTINCT id, title, COALESCE(author_1, ''), COALESCE(author_2, '')
		FROM books
		WHERE title ILIKE $1 OR author_1 ILIKE $1 OR author_2 ILIKE $1
		LIMIT 10`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, "%"+search+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	suggestions := []*data.BookSuggestion{}
	for rows.Next() {
		var s data.BookSuggestion
		if err := rows.Scan(&s.ID, &s.Title, &s.Author1, &s.Author2); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, &s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// GetBookStats retrieves the catalog-wide aggregate counts plus the
// per-section breakdown ordered by descending count.
func (r *repository) GetBookStats() (*data.BookStats, error) {
	var stats data.BookStats
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	overviewQuery := `
		SELECT
			COUNT(*),
			COUNT(DISTINCT section),
			COUNT(DISTINCT author_1) + COUNT(DISTINCT author_2),
			COUNT(DISTINCT general_theme)
		FROM books`
	err := r.db.QueryRowContext(ctx, overviewQuery).Scan(
		&stats.Overview.TotalBooks,
		&stats.Overview.TotalSections,
		&stats.Overview.TotalAuthors,
		&stats.Overview.TotalThemes,
	)
	if err != nil {
		return nil, err
	}

	sectionsQuery := `
		SELECT section, COUNT(*) AS count
		FROM books
		WHERE section IS NOT NULL
		GROUP BY section
		ORDER BY count DESC`
	rows, err := r.db.QueryContext(ctx, sectionsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	stats.Sections = []data.SectionCount{}
	for rows.Next() {
		var sc data.SectionCount
		if err := rows.Scan(&sc.Section, &sc.Count); err != nil {
			return nil, err
		}
		stats.Sections = append(stats.Sections, sc)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetMaxEntryID returns the highest assigned entry number, or zero when the
// catalog is empty.
func (r *repository) GetMaxEntryID() (int64, error) {
	query := `SELECT COALESCE(MAX(entry_id), 0) FROM books`
	var maxID int64
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query).Scan(&maxID)
	if err != nil {
		return 0, err
	}
	return maxID, nil
}

// UpdateBookFields executes a single dynamic UPDATE over the given columns.
// Column names come from the service layer's fixed field mapping, never from
// request input; only the values are caller-supplied and they are always
// bound.
func (r *repository) UpdateBookFields(bookID int64, columns []string, values []interface{}) (*data.Book, error) {
	if bookID < 1 {
		return nil, ErrRecordNotFound
	}
	setClauses := make([]string, 0, len(columns))
	for i, col := range columns {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i+2))
	}
	query := fmt.Sprintf(`
		UPDATE books
		SET %s, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING `+bookColumns, strings.Join(setClauses, ", "))
	args := append([]interface{}{bookID}, values...)
	var book data.Book
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := scanBook(r.db.QueryRowContext(ctx, query, args...), &book)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &book, nil
}

// SetBookCover records the public URL of an uploaded cover image.
func (r *repository) SetBookCover(bookID int64, coverURL string) (*data.Book, error) {
	return r.UpdateBookFields(bookID, []string{"cover_image_url"}, []interface{}{coverURL})
}
