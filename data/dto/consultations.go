package dto

// CreateConsultationRequestBody defines the request body for a new
// consultation request.
type CreateConsultationRequestBody struct {
	BookID            int64  `json:"bookId"`
	RequestedDate     string `json:"requestedDate"`
	RequestedTimeSlot string `json:"requestedTimeSlot"`
	Notes             string `json:"notes"`
}

// UpdateConsultationRequestBody defines the request body for the triage
// (status update) operation.
type UpdateConsultationRequestBody struct {
	Status     string `json:"status"`
	AdminNotes string `json:"adminNotes"`
}
