package service

import (
	"errors"
	"time"

	"github.com/sdsdc/bibliotheque/data"
	"github.com/sdsdc/bibliotheque/data/dto"
	"github.com/sdsdc/bibliotheque/internal/validator"
	"github.com/sdsdc/bibliotheque/repository"
)

type consultations interface {
	CreateConsultation(userID int64, requestBody dto.CreateConsultationRequestBody) (*data.ConsultationRequest, error)
	ListUserConsultations(userID int64) ([]*data.ConsultationRequest, error)
	ListAllConsultations() ([]*data.ConsultationRequest, error)
	UpdateConsultationStatus(requestID int64, requestBody dto.UpdateConsultationRequestBody) (*data.ConsultationRequest, error)
}

// CreateConsultation books a reading-room slot for the given user. The slot
// availability check and the insert are two separate statements; two
// requests racing for the same slot can both pass the check. Accepted as-is
// for a single-room archive where staff triage every request anyway.
func (s *service) CreateConsultation(userID int64, requestBody dto.CreateConsultationRequestBody) (*data.ConsultationRequest, error) {
	v := validator.New()
	if data.ValidateConsultationRequest(v, requestBody.BookID, requestBody.RequestedDate, requestBody.RequestedTimeSlot); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	requestedDate, err := time.Parse("2006-01-02", requestBody.RequestedDate)
	if err != nil {
		return nil, ErrBadRequest
	}
	_, err = s.repo.GetBook(requestBody.BookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	taken, err := s.repo.SlotTaken(requestBody.BookID, requestedDate, requestBody.RequestedTimeSlot)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateRecord
	}
	request := &data.ConsultationRequest{
		UserID:            userID,
		BookID:            requestBody.BookID,
		RequestedDate:     requestedDate,
		RequestedTimeSlot: requestBody.RequestedTimeSlot,
		Notes:             requestBody.Notes,
	}
	err = s.repo.CreateConsultation(request)
	if err != nil {
		return nil, err
	}
	return request, nil
}

// ListUserConsultations retrieves the requesting user's own consultation
// requests, newest first.
func (s *service) ListUserConsultations(userID int64) ([]*data.ConsultationRequest, error) {
	return s.repo.GetAllConsultationsForUser(userID)
}

// ListAllConsultations retrieves every consultation request with book and
// requester details, for the staff triage view.
func (s *service) ListAllConsultations() ([]*data.ConsultationRequest, error) {
	return s.repo.GetAllConsultations()
}

// UpdateConsultationStatus records a staff decision on a request. Any status
// in the closed set is accepted regardless of the current one, so staff can
// correct a mistaken decision by setting the status again. The requester is
// notified by email in the background.
func (s *service) UpdateConsultationStatus(requestID int64, requestBody dto.UpdateConsultationRequestBody) (*data.ConsultationRequest, error) {
	v := validator.New()
	if data.ValidateConsultationStatus(v, requestBody.Status); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	request, err := s.repo.UpdateConsultationStatus(requestID, requestBody.Status, requestBody.AdminNotes)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if request.Status == data.StatusApproved || request.Status == data.StatusRejected {
		user, err := s.repo.GetUserByID(request.UserID)
		if err != nil {
			s.logger.PrintError(err, map[string]string{"context": "consultation status email"})
			return request, nil
		}
		book, err := s.repo.GetBook(request.BookID)
		if err != nil {
			s.logger.PrintError(err, map[string]string{"context": "consultation status email"})
			return request, nil
		}
		emailData := map[string]interface{}{
			"FirstName":         user.FirstName,
			"Title":             book.Title,
			"RequestedDate":     request.RequestedDate.Format("2006-01-02"),
			"RequestedTimeSlot": request.RequestedTimeSlot,
			"Status":            request.Status,
			"AdminNotes":        request.AdminNotes,
		}
		s.background(func() {
			err := s.mailer.Send(user.Email, "consultation_update.tmpl", emailData)
			if err != nil {
				s.logger.PrintError(err, nil)
			}
		})
	}
	return request, nil
}
