package service

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdsdc/bibliotheque/config"
	"github.com/sdsdc/bibliotheque/data"
	"github.com/sdsdc/bibliotheque/data/dto"
	"github.com/sdsdc/bibliotheque/internal/jsonlog"
	"github.com/sdsdc/bibliotheque/internal/token"
	"github.com/sdsdc/bibliotheque/repository"
)

// stubRepo embeds the Repository interface so each test only overrides the
// methods it exercises. Calling anything else panics, which is what we want.
type stubRepo struct {
	repository.Repository

	getBook            func(bookID int64) (*data.Book, error)
	getMaxEntryID      func() (int64, error)
	createBook         func(book *data.Book) error
	updateBookFields   func(bookID int64, columns []string, values []interface{}) (*data.Book, error)
	slotTaken          func(bookID int64, requestedDate time.Time, requestedTimeSlot string) (bool, error)
	createConsultation func(request *data.ConsultationRequest) error
	updateConsultation func(requestID int64, status, adminNotes string) (*data.ConsultationRequest, error)
	getUserByID        func(userID int64) (*data.User, error)
	getUserByEmail     func(email string) (*data.User, error)
}

func (r *stubRepo) GetBook(bookID int64) (*data.Book, error) {
	return r.getBook(bookID)
}

func (r *stubRepo) GetMaxEntryID() (int64, error) {
	return r.getMaxEntryID()
}

func (r *stubRepo) CreateBook(book *data.Book) error {
	return r.createBook(book)
}

func (r *stubRepo) UpdateBookFields(bookID int64, columns []string, values []interface{}) (*data.Book, error) {
	return r.updateBookFields(bookID, columns, values)
}

func (r *stubRepo) SlotTaken(bookID int64, requestedDate time.Time, requestedTimeSlot string) (bool, error) {
	return r.slotTaken(bookID, requestedDate, requestedTimeSlot)
}

func (r *stubRepo) CreateConsultation(request *data.ConsultationRequest) error {
	return r.createConsultation(request)
}

func (r *stubRepo) UpdateConsultationStatus(requestID int64, status, adminNotes string) (*data.ConsultationRequest, error) {
	return r.updateConsultation(requestID, status, adminNotes)
}

func (r *stubRepo) GetUserByID(userID int64) (*data.User, error) {
	return r.getUserByID(userID)
}

func (r *stubRepo) GetUserByEmail(email string) (*data.User, error) {
	return r.getUserByEmail(email)
}

func newTestService(repo repository.Repository) *service {
	return &service{
		config: config.Config{},
		wg:     &sync.WaitGroup{},
		logger: jsonlog.New(io.Discard, jsonlog.LevelOff),
		repo:   repo,
		tokens: token.NewService("test-secret", "bibliotheque"),
	}
}

func TestAddBookAssignsNextEntryID(t *testing.T) {
	var created *data.Book
	repo := &stubRepo{
		getMaxEntryID: func() (int64, error) { return 4211, nil },
		createBook: func(book *data.Book) error {
			book.ID = 1
			created = book
			return nil
		},
	}
	s := newTestService(repo)

	book, err := s.AddBook(dto.AddBookRequestBody{
		Title:           "Histoire de la vallée",
		Section:         "Histoire locale",
		PublicationDate: "1987-06-01",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4212), book.EntryID)
	assert.Equal(t, created, book)
	require.NotNil(t, book.PublicationDate)
	assert.Equal(t, 1987, book.PublicationDate.Year())
}

func TestAddBookValidation(t *testing.T) {
	s := newTestService(&stubRepo{})

	_, err := s.AddBook(dto.AddBookRequestBody{Title: "", Section: ""})
	assert.ErrorIs(t, err, ErrFailedValidation)

	_, err = s.AddBook(dto.AddBookRequestBody{
		Title:           "Archives",
		Section:         "Fonds",
		PublicationDate: "juin 1987",
	})
	assert.ErrorIs(t, err, ErrFailedValidation)
}

func TestUpdateBookNoFields(t *testing.T) {
	s := newTestService(&stubRepo{})

	_, err := s.UpdateBook(7, dto.UpdateBookRequestBody{})
	assert.ErrorIs(t, err, ErrFailedValidation)
}

func TestUpdateBookColumnMapping(t *testing.T) {
	var gotColumns []string
	var gotValues []interface{}
	repo := &stubRepo{
		updateBookFields: func(bookID int64, columns []string, values []interface{}) (*data.Book, error) {
			gotColumns = columns
			gotValues = values
			return &data.Book{ID: bookID}, nil
		},
	}
	s := newTestService(repo)

	title := "Nouvelle édition"
	pageCount := int32(212)
	period := "XIXe siècle"
	_, err := s.UpdateBook(7, dto.UpdateBookRequestBody{
		Title:            &title,
		PageCount:        &pageCount,
		HistoricalPeriod: &period,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "page_count", "historical_period"}, gotColumns)
	assert.Equal(t, []interface{}{"Nouvelle édition", int32(212), "XIXe siècle"}, gotValues)
}

func TestUpdateBookNotFound(t *testing.T) {
	repo := &stubRepo{
		updateBookFields: func(bookID int64, columns []string, values []interface{}) (*data.Book, error) {
			return nil, repository.ErrRecordNotFound
		},
	}
	s := newTestService(repo)

	title := "x"
	_, err := s.UpdateBook(404, dto.UpdateBookRequestBody{Title: &title})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestGetBookSuggestionsEmptyQuery(t *testing.T) {
	// No repo methods wired: an empty query must not reach the store.
	s := newTestService(&stubRepo{})

	suggestions, err := s.GetBookSuggestions("")
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestCreateConsultationSlotTaken(t *testing.T) {
	repo := &stubRepo{
		getBook: func(bookID int64) (*data.Book, error) {
			return &data.Book{ID: bookID}, nil
		},
		slotTaken: func(bookID int64, requestedDate time.Time, requestedTimeSlot string) (bool, error) {
			return true, nil
		},
	}
	s := newTestService(repo)

	_, err := s.CreateConsultation(1, dto.CreateConsultationRequestBody{
		BookID:            12,
		RequestedDate:     "2026-09-15",
		RequestedTimeSlot: "14:00",
	})
	assert.ErrorIs(t, err, ErrDuplicateRecord)
}

func TestCreateConsultationUnknownBook(t *testing.T) {
	repo := &stubRepo{
		getBook: func(bookID int64) (*data.Book, error) {
			return nil, repository.ErrRecordNotFound
		},
	}
	s := newTestService(repo)

	_, err := s.CreateConsultation(1, dto.CreateConsultationRequestBody{
		BookID:            9999,
		RequestedDate:     "2026-09-15",
		RequestedTimeSlot: "14:00",
	})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestCreateConsultationValidation(t *testing.T) {
	s := newTestService(&stubRepo{})

	tests := []struct {
		name string
		body dto.CreateConsultationRequestBody
	}{
		{
			name: "missing book",
			body: dto.CreateConsultationRequestBody{RequestedDate: "2026-09-15", RequestedTimeSlot: "14:00"},
		},
		{
			name: "bad date",
			body: dto.CreateConsultationRequestBody{BookID: 1, RequestedDate: "15/09/2026", RequestedTimeSlot: "14:00"},
		},
		{
			name: "slot outside the daily set",
			body: dto.CreateConsultationRequestBody{BookID: 1, RequestedDate: "2026-09-15", RequestedTimeSlot: "12:00"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateConsultation(1, tt.body)
			assert.ErrorIs(t, err, ErrFailedValidation)
		})
	}
}

func TestCreateConsultationStoresRequest(t *testing.T) {
	repo := &stubRepo{
		getBook: func(bookID int64) (*data.Book, error) {
			return &data.Book{ID: bookID}, nil
		},
		slotTaken: func(bookID int64, requestedDate time.Time, requestedTimeSlot string) (bool, error) {
			return false, nil
		},
		createConsultation: func(request *data.ConsultationRequest) error {
			request.ID = 41
			request.Status = data.StatusPending
			return nil
		},
	}
	s := newTestService(repo)

	request, err := s.CreateConsultation(8, dto.CreateConsultationRequestBody{
		BookID:            12,
		RequestedDate:     "2026-09-15",
		RequestedTimeSlot: "09:00",
		Notes:             "Recherche généalogique",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(41), request.ID)
	assert.Equal(t, int64(8), request.UserID)
	assert.Equal(t, data.StatusPending, request.Status)
	assert.Equal(t, "09:00", request.RequestedTimeSlot)
}

func TestUpdateConsultationStatusRejectsUnknownStatus(t *testing.T) {
	s := newTestService(&stubRepo{})

	_, err := s.UpdateConsultationStatus(41, dto.UpdateConsultationRequestBody{Status: "archived"})
	assert.ErrorIs(t, err, ErrFailedValidation)
}

func TestUpdateConsultationStatusCompleted(t *testing.T) {
	repo := &stubRepo{
		updateConsultation: func(requestID int64, status, adminNotes string) (*data.ConsultationRequest, error) {
			return &data.ConsultationRequest{ID: requestID, Status: status, AdminNotes: adminNotes}, nil
		},
	}
	s := newTestService(repo)

	request, err := s.UpdateConsultationStatus(41, dto.UpdateConsultationRequestBody{
		Status:     data.StatusCompleted,
		AdminNotes: "Consultation effectuée",
	})
	require.NoError(t, err)
	assert.Equal(t, data.StatusCompleted, request.Status)
	assert.Equal(t, "Consultation effectuée", request.AdminNotes)
}

func TestUpdateConsultationStatusDecisionSurvivesEmailFailure(t *testing.T) {
	repo := &stubRepo{
		updateConsultation: func(requestID int64, status, adminNotes string) (*data.ConsultationRequest, error) {
			return &data.ConsultationRequest{ID: requestID, UserID: 8, BookID: 12, Status: status}, nil
		},
		getUserByID: func(userID int64) (*data.User, error) {
			return nil, errors.New("user lookup failed")
		},
	}
	s := newTestService(repo)

	request, err := s.UpdateConsultationStatus(41, dto.UpdateConsultationRequestBody{Status: data.StatusApproved})
	require.NoError(t, err)
	assert.Equal(t, data.StatusApproved, request.Status)
}

func TestLoginUserInvalidCredentials(t *testing.T) {
	repo := &stubRepo{
		getUserByEmail: func(email string) (*data.User, error) {
			return nil, repository.ErrRecordNotFound
		},
	}
	s := newTestService(repo)

	_, _, err := s.LoginUser(dto.LoginRequestBody{Email: "nobody@example.com", Password: "pa55word1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUserWrongPassword(t *testing.T) {
	stored := &data.User{ID: 3, Email: "marie@example.com", Role: data.RoleUser}
	err := stored.Password.Set("correcthorse1")
	require.NoError(t, err)

	repo := &stubRepo{
		getUserByEmail: func(email string) (*data.User, error) {
			return stored, nil
		},
	}
	s := newTestService(repo)

	_, _, err = s.LoginUser(dto.LoginRequestBody{Email: "marie@example.com", Password: "wrongwrong1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUserSignsToken(t *testing.T) {
	stored := &data.User{ID: 3, Email: "marie@example.com", Role: data.RoleLibrarian}
	err := stored.Password.Set("correcthorse1")
	require.NoError(t, err)

	repo := &stubRepo{
		getUserByEmail: func(email string) (*data.User, error) {
			return stored, nil
		},
	}
	s := newTestService(repo)

	user, accessToken, err := s.LoginUser(dto.LoginRequestBody{Email: "marie@example.com", Password: "correcthorse1"})
	require.NoError(t, err)
	assert.Equal(t, stored, user)

	claims, err := s.tokens.Parse(accessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(3), claims.UserID)
	assert.Equal(t, "librarian", claims.Role)
}

func TestGetUserFromToken(t *testing.T) {
	stored := &data.User{ID: 3, Email: "marie@example.com", Role: data.RoleUser}
	repo := &stubRepo{
		getUserByID: func(userID int64) (*data.User, error) {
			if userID == 3 {
				return stored, nil
			}
			return nil, repository.ErrRecordNotFound
		},
	}
	s := newTestService(repo)

	accessToken, err := s.tokens.Sign(3, "marie@example.com", "user")
	require.NoError(t, err)

	user, err := s.GetUserFromToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, stored, user)

	_, err = s.GetUserFromToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	orphaned, err := s.tokens.Sign(99, "gone@example.com", "user")
	require.NoError(t, err)
	_, err = s.GetUserFromToken(orphaned)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
