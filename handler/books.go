package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jellydator/ttlcache/v3"
	"github.com/julienschmidt/httprouter"

	"github.com/sdsdc/bibliotheque/data"
	"github.com/sdsdc/bibliotheque/data/dto"
	"github.com/sdsdc/bibliotheque/internal/validator"
	"github.com/sdsdc/bibliotheque/service"
)

func (h *Handler) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	var qsInput dto.QsListBooks
	v := validator.New()
	qs := r.URL.Query()
	qsInput.Search = h.readString(qs, "search", "")
	qsInput.Section = h.readString(qs, "section", "")
	qsInput.Author = h.readString(qs, "author", "")
	qsInput.Theme = h.readString(qs, "theme", "")
	qsInput.Geography = h.readString(qs, "geography", "")
	qsInput.Filters.Page = h.readInt(qs, "page", 1, v)
	qsInput.Filters.Limit = h.readInt(qs, "limit", 20, v)
	if !v.Valid() {
		h.badRequestResponse(w, r, fmt.Errorf("page and limit must be integer values"))
		return
	}
	filter := data.BookFilter{
		Search:    qsInput.Search,
		Section:   qsInput.Section,
		Author:    qsInput.Author,
		Theme:     qsInput.Theme,
		Geography: qsInput.Geography,
		Filters:   qsInput.Filters,
	}
	books, metadata, err := h.service.ListBooks(filter)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"books": books, "pagination": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// showBookHandler also dispatches the suggestions and stats routes. The
// router cannot register /api/books/suggestions and /api/books/:id side by
// side, so the two reserved words are peeled off the :id segment here.
func (h *Handler) showBookHandler(w http.ResponseWriter, r *http.Request) {
	params := httprouter.ParamsFromContext(r.Context())
	switch params.ByName("id") {
	case "suggestions":
		h.bookSuggestionsHandler(w, r)
		return
	case "stats":
		h.bookStatsHandler(w, r)
		return
	}
	bookID, err := h.readIDParam(r, "id")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	book, err := h.service.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, book, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) bookSuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	query := h.readString(r.URL.Query(), "query", "")
	suggestions, err := h.service.GetBookSuggestions(query)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, suggestions, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) bookStatsHandler(w http.ResponseWriter, r *http.Request) {
	var stats *data.BookStats
	item := h.cache.Get("bookStats")
	if item != nil {
		stats = item.Value()
	} else {
		var err error
		stats, err = h.service.GetBookStats()
		if err != nil {
			h.serverErrorResponse(w, r, err)
			return
		}
		h.cache.Set("bookStats", stats, ttlcache.DefaultTTL)
	}
	err := h.encodeJSON(w, http.StatusOK, stats, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) createBookHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.AddBookRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	book, err := h.service.AddBook(requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/api/books/%d", book.ID))
	err = h.encodeJSON(w, http.StatusCreated, envelope{"message": "Book added successfully", "book": book}, headers)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.UpdateBookRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	bookID, err := h.readIDParam(r, "id")
	if err != nil || bookID < 1 {
		h.notFoundResponse(w, r)
		return
	}
	book, err := h.service.UpdateBook(bookID, requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "Book updated successfully", "book": book}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) updateBookCoverHandler(w http.ResponseWriter, r *http.Request) {
	// Cover images are capped at 10MB.
	maxBytes := int64(10_485_760)
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	bookID, err := h.readIDParam(r, "id")
	if err != nil || bookID < 1 {
		h.notFoundResponse(w, r)
		return
	}
	book, err := h.service.UpdateBookCover(bookID, r)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrContentTooLarge):
			h.contentTooLargeResponse(w, r)
		case errors.Is(err, service.ErrBadRequest):
			h.badRequestResponse(w, r, err)
		case errors.Is(err, service.ErrUnsupportedMediaType):
			h.unsupportedMediaTypeResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "Cover updated successfully", "book": book}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
