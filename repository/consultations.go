package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sdsdc/bibliotheque/data"
)

type consultations interface {
	CreateConsultation(request *data.ConsultationRequest) error
	SlotTaken(bookID int64, requestedDate time.Time, requestedTimeSlot string) (bool, error)
	GetAllConsultationsForUser(userID int64) ([]*data.ConsultationRequest, error)
	GetAllConsultations() ([]*data.ConsultationRequest, error)
	UpdateConsultationStatus(requestID int64, status, adminNotes string) (*data.ConsultationRequest, error)
}

// CreateConsultation inserts a new consultation request with status pending.
func (r *repository) CreateConsultation(request *data.ConsultationRequest) error {
	query := `
		INSERT INTO consultation_requests (user_id, book_id, requested_date, requested_time_slot, notes)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING id, status, created_at, updated_at`
	args := []interface{}{
		request.UserID,
		request.BookID,
		request.RequestedDate,
		request.RequestedTimeSlot,
		request.Notes,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return r.db.QueryRowContext(ctx, query, args...).Scan(
		&request.ID,
		&request.Status,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
}

// SlotTaken reports whether a non-terminal (pending or approved) request
// already holds the given (book, date, slot) triple. Rejected and completed
// requests do not block. Note this is only an existence check: the caller's
// subsequent insert is a separate statement with no enclosing transaction, so
// two concurrent requests can both pass the check. That race exists in the
// service this replaces and is deliberately kept.
func (r *repository) SlotTaken(bookID int64, requestedDate time.Time, requestedTimeSlot string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM consultation_requests
			WHERE book_id = $1 AND requested_date = $2 AND requested_time_slot = $3
			AND status IN ('pending', 'approved')
		)`
	var taken bool
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, bookID, requestedDate, requestedTimeSlot).Scan(&taken)
	if err != nil {
		return false, err
	}
	return taken, nil
}

// GetAllConsultationsForUser retrieves a member's own requests joined with
// the book fields needed for display, newest first.
func (r *repository) GetAllConsultationsForUser(userID int64) ([]*data.ConsultationRequest, error) {
	query := `
		SELECT cr.id, cr.user_id, cr.book_id, cr.requested_date,
			to_char(cr.requested_time_slot, 'HH24:MI'), cr.status,
			COALESCE(cr.notes, ''), COALESCE(cr.admin_notes, ''), cr.created_at, cr.updated_at,
			b.title, COALESCE(b.author_1, ''), COALESCE(b.author_2, ''), COALESCE(b.location, '')
		FROM consultation_requests cr
		JOIN books b ON cr.book_id = b.id
		WHERE cr.user_id = $1
		ORDER BY cr.created_at DESC`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	requests := []*data.ConsultationRequest{}
	for rows.Next() {
		var cr data.ConsultationRequest
		err := rows.Scan(
			&cr.ID,
			&cr.UserID,
			&cr.BookID,
			&cr.RequestedDate,
			&cr.RequestedTimeSlot,
			&cr.Status,
			&cr.Notes,
			&cr.AdminNotes,
			&cr.CreatedAt,
			&cr.UpdatedAt,
			&cr.Title,
			&cr.Author1,
			&cr.Author2,
			&cr.Location,
		)
		if err != nil {
			return nil, err
		}
		requests = append(requests, &cr)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}

// GetAllConsultations retrieves every request joined with book and requester
// identity fields, newest first. Intended for the librarian triage view.
func (r *repository) GetAllConsultations() ([]*data.ConsultationRequest, error) {
	query := `
		SELECT cr.id, cr.user_id, cr.book_id, cr.requested_date,
			to_char(cr.requested_time_slot, 'HH24:MI'), cr.status,
			COALESCE(cr.notes, ''), COALESCE(cr.admin_notes, ''), cr.created_at, cr.updated_at,
			b.title, COALESCE(b.author_1, ''), COALESCE(b.author_2, ''), COALESCE(b.location, ''),
			u.first_name, u.last_name, u.email
		FROM consultation_requests cr
		JOIN books b ON cr.book_id = b.id
		JOIN users u ON cr.user_id = u.id
		ORDER BY cr.created_at DESC`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	requests := []*data.ConsultationRequest{}
	for rows.Next() {
		var cr data.ConsultationRequest
		err := rows.Scan(
			&cr.ID,
			&cr.UserID,
			&cr.BookID,
			&cr.RequestedDate,
			&cr.RequestedTimeSlot,
			&cr.Status,
			&cr.Notes,
			&cr.AdminNotes,
			&cr.CreatedAt,
			&cr.UpdatedAt,
			&cr.Title,
			&cr.Author1,
			&cr.Author2,
			&cr.Location,
			&cr.FirstName,
			&cr.LastName,
			&cr.Email,
		)
		if err != nil {
			return nil, err
		}
		requests = append(requests, &cr)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}

// UpdateConsultationStatus overwrites a request's status and admin note and
// bumps the update timestamp. The overwrite is unconditional: no
// transition-legality check is applied beyond the closed status set the
// service layer validates.
func (r *repository) UpdateConsultationStatus(requestID int64, status, adminNotes string) (*data.ConsultationRequest, error) {
	if requestID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		UPDATE consultation_requests
		SET status = $1, admin_notes = NULLIF($2, ''), updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
		RETURNING id, user_id, book_id, requested_date, to_char(requested_time_slot, 'HH24:MI'),
			status, COALESCE(notes, ''), COALESCE(admin_notes, ''), created_at, updated_at`
	var request data.ConsultationRequest
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, status, adminNotes, requestID).Scan(
		&request.ID,
		&request.UserID,
		&request.BookID,
		&request.RequestedDate,
		&request.RequestedTimeSlot,
		&request.Status,
		&request.Notes,
		&request.AdminNotes,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &request, nil
}
