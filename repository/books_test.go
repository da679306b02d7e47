package repository

import (
	"strings"
	"testing"

	"github.com/sdsdc/bibliotheque/data"
	"github.com/stretchr/testify/assert"
)

func TestBuildBookPredicateEmpty(t *testing.T) {
	where, args := buildBookPredicate(data.BookFilter{})
	assert.Empty(t, where, "an empty filter must produce no WHERE clause at all")
	assert.Empty(t, args)
}

func TestBuildBookPredicateSearchOnly(t *testing.T) {
	where, args := buildBookPredicate(data.BookFilter{Search: "commune"})

	assert.True(t, strings.HasPrefix(where, "WHERE "))
	assert.Contains(t, where, "plainto_tsquery('french', $1)")
	assert.Contains(t, where, "author_1 ILIKE $2")
	assert.Contains(t, where, "author_2 ILIKE $2")
	// The search is one compound predicate, not independent clauses.
	assert.NotContains(t, where, ") AND (")
	assert.Equal(t, []interface{}{"commune", "%commune%"}, args)
}

func TestBuildBookPredicateStructuredFilters(t *testing.T) {
	where, args := buildBookPredicate(data.BookFilter{
		Section:   "Histoire",
		Author:    "Michelet",
		Theme:     "Révolution",
		Geography: "Paris",
	})

	assert.Contains(t, where, "section ILIKE $1")
	assert.Contains(t, where, "(author_1 ILIKE $2 OR author_2 ILIKE $2)")
	assert.Contains(t, where, "general_theme ILIKE $3")
	assert.Contains(t, where, "geography ILIKE $4")
	assert.Equal(t, 3, strings.Count(where, " AND "), "supplied filters combine with AND")
	assert.Equal(t, []interface{}{"%Histoire%", "%Michelet%", "%Révolution%", "%Paris%"}, args)
}

func TestBuildBookPredicateOmitsEmptyFilters(t *testing.T) {
	where, args := buildBookPredicate(data.BookFilter{Theme: "Guerre"})

	assert.Equal(t, "WHERE general_theme ILIKE $1", where)
	assert.Equal(t, []interface{}{"%Guerre%"}, args)
	assert.NotContains(t, where, "section")
	assert.NotContains(t, where, "author")
	assert.NotContains(t, where, "geography")
	assert.NotContains(t, where, "tsvector")
}

func TestBuildBookPredicateSearchPlusFilter(t *testing.T) {
	where, args := buildBookPredicate(data.BookFilter{Search: "guerre", Section: "Histoire"})

	// Search binds two parameters, so the section filter is $3.
	assert.Contains(t, where, "section ILIKE $3")
	assert.Len(t, args, 3)
	assert.Equal(t, "%Histoire%", args[2])
}

func TestBuildBookPredicateNeverInterpolatesValues(t *testing.T) {
	hostile := "'; DROP TABLE books; --"
	where, args := buildBookPredicate(data.BookFilter{Section: hostile})

	assert.NotContains(t, where, hostile, "filter values must only appear as bound arguments")
	assert.Equal(t, []interface{}{"%" + hostile + "%"}, args)
}
