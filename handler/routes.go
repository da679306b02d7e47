package handler

import (
	"expvar"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/sdsdc/bibliotheque/data"
)

func (h *Handler) Routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(h.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(h.methodNotAllowed)

	// The suggestions and stats routes are served through showBookHandler:
	// the router rejects a static path registered alongside the :id wildcard.
	router.HandlerFunc(http.MethodGet, "/api/books", h.listBooksHandler)
	router.HandlerFunc(http.MethodGet, "/api/books/:id", h.showBookHandler)
	router.HandlerFunc(http.MethodPost, "/api/books", h.requireAuthenticatedUser(h.createBookHandler))
	router.HandlerFunc(http.MethodPut, "/api/books/:id", h.requireRole(h.updateBookHandler, data.RoleLibrarian, data.RoleAdmin))
	router.HandlerFunc(http.MethodPatch, "/api/books/:id/cover", h.requireRole(h.updateBookCoverHandler, data.RoleLibrarian, data.RoleAdmin))

	router.HandlerFunc(http.MethodPost, "/api/consultations", h.requireAuthenticatedUser(h.createConsultationHandler))
	router.HandlerFunc(http.MethodGet, "/api/consultations/my-requests", h.requireAuthenticatedUser(h.listUserConsultationsHandler))
	router.HandlerFunc(http.MethodGet, "/api/consultations", h.requireRole(h.listAllConsultationsHandler, data.RoleLibrarian, data.RoleAdmin))
	router.HandlerFunc(http.MethodPut, "/api/consultations/:id", h.requireRole(h.updateConsultationHandler, data.RoleLibrarian, data.RoleAdmin))

	router.HandlerFunc(http.MethodPost, "/api/auth/register", h.registerUserHandler)
	router.HandlerFunc(http.MethodPost, "/api/auth/login", h.loginUserHandler)
	router.HandlerFunc(http.MethodGet, "/api/auth/profile", h.requireAuthenticatedUser(h.showUserProfileHandler))

	router.HandlerFunc(http.MethodGet, "/api/health", h.healthcheckHandler)
	router.HandlerFunc(http.MethodGet, "/debug/vars", h.basicAuth(expvar.Handler().ServeHTTP))

	return h.metrics(h.recoverPanic(h.enableCORS(h.rateLimit(h.authenticate(router)))))
}
