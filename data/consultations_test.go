package data

import (
	"testing"

	"github.com/sdsdc/bibliotheque/internal/validator"
	"github.com/stretchr/testify/assert"
)

func TestValidateConsultationRequest(t *testing.T) {
	tests := []struct {
		name    string
		bookID  int64
		date    string
		slot    string
		wantKey string
	}{
		{"valid", 5, "2025-03-01", "09:00", ""},
		{"missing book", 0, "2025-03-01", "09:00", "bookId"},
		{"missing date", 5, "", "09:00", "requestedDate"},
		{"malformed date", 5, "01/03/2025", "09:00", "requestedDate"},
		{"missing slot", 5, "2025-03-01", "", "requestedTimeSlot"},
		{"slot outside the daily set", 5, "2025-03-01", "12:00", "requestedTimeSlot"},
		{"afternoon slot", 5, "2025-03-01", "16:00", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			ValidateConsultationRequest(v, tt.bookID, tt.date, tt.slot)
			if tt.wantKey == "" {
				assert.True(t, v.Valid(), "unexpected errors: %v", v.Errors)
			} else {
				assert.Contains(t, v.Errors, tt.wantKey)
			}
		})
	}
}

func TestValidateConsultationStatus(t *testing.T) {
	for _, status := range Statuses {
		v := validator.New()
		ValidateConsultationStatus(v, status)
		assert.True(t, v.Valid(), "status %q should be accepted", status)
	}
	for _, status := range []string{"", "cancelled", "PENDING", "done"} {
		v := validator.New()
		ValidateConsultationStatus(v, status)
		assert.False(t, v.Valid(), "status %q should be rejected", status)
	}
}

func TestRoleMembership(t *testing.T) {
	assert.True(t, RoleAdmin.In(RoleAdmin, RoleLibrarian))
	assert.True(t, RoleLibrarian.In(RoleAdmin, RoleLibrarian))
	assert.False(t, RoleUser.In(RoleAdmin, RoleLibrarian))

	assert.True(t, RoleUser.IsValid())
	assert.False(t, Role("superuser").IsValid())
	assert.False(t, Role("").IsValid())
}
