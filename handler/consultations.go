package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sdsdc/bibliotheque/data/dto"
	"github.com/sdsdc/bibliotheque/service"
)

func (h *Handler) createConsultationHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.CreateConsultationRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	user := h.contextGetUser(r)
	request, err := h.service.CreateConsultation(user.ID, requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrDuplicateRecord):
			h.slotConflictResponse(w, r)
		case errors.Is(err, service.ErrBadRequest):
			h.badRequestResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/api/consultations/%d", request.ID))
	err = h.encodeJSON(w, http.StatusCreated, envelope{"message": "Consultation request created successfully", "request": request}, headers)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) listUserConsultationsHandler(w http.ResponseWriter, r *http.Request) {
	user := h.contextGetUser(r)
	requests, err := h.service.ListUserConsultations(user.ID)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, requests, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) listAllConsultationsHandler(w http.ResponseWriter, r *http.Request) {
	requests, err := h.service.ListAllConsultations()
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, requests, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) updateConsultationHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.UpdateConsultationRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	requestID, err := h.readIDParam(r, "id")
	if err != nil || requestID < 1 {
		h.notFoundResponse(w, r)
		return
	}
	request, err := h.service.UpdateConsultationStatus(requestID, requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "Consultation request updated successfully", "request": request}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
