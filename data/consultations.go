package data

import (
	"time"

	"github.com/sdsdc/bibliotheque/internal/validator"
)

// Consultation request statuses. Pending and approved are the non-terminal
// states: they block other requests for the same (book, date, slot) triple.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
)

// Statuses is the closed set of values accepted on status updates.
var Statuses = []string{StatusPending, StatusApproved, StatusRejected, StatusCompleted}

// NonTerminalStatuses are the statuses that keep a slot occupied.
var NonTerminalStatuses = []string{StatusPending, StatusApproved}

// TimeSlots is the fixed set of daily consultation windows the reading room
// offers. Requests outside this set are rejected.
var TimeSlots = []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00", "17:00"}

// ConsultationRequest reserves a time slot to view a specific book on site.
// The book and user fields after AdminNotes are denormalized join columns
// populated only on list queries, for display.
type ConsultationRequest struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	BookID            int64     `json:"book_id"`
	RequestedDate     time.Time `json:"requested_date"`
	RequestedTimeSlot string    `json:"requested_time_slot"`
	Status            string    `json:"status"`
	Notes             string    `json:"notes,omitempty"`
	AdminNotes        string    `json:"admin_notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Title     string `json:"title,omitempty"`
	Author1   string `json:"author_1,omitempty"`
	Author2   string `json:"author_2,omitempty"`
	Location  string `json:"location,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
}

func ValidateConsultationRequest(v *validator.Validator, bookID int64, requestedDate, requestedTimeSlot string) {
	v.Check(bookID > 0, "bookId", "must be provided")
	v.Check(requestedDate != "", "requestedDate", "must be provided")
	if requestedDate != "" {
		if _, err := time.Parse("2006-01-02", requestedDate); err != nil {
			v.AddError("requestedDate", "must be a valid date in YYYY-MM-DD format")
		}
	}
	v.Check(requestedTimeSlot != "", "requestedTimeSlot", "must be provided")
	if requestedTimeSlot != "" {
		v.Check(validator.In(requestedTimeSlot, TimeSlots...), "requestedTimeSlot", "must be one of the daily consultation slots")
	}
}

func ValidateConsultationStatus(v *validator.Validator, status string) {
	v.Check(validator.In(status, Statuses...), "status", "must be one of pending, approved, rejected or completed")
}
