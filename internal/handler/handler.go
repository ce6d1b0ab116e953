package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Dan9191/contacts-service/internal/httpx"
	"github.com/Dan9191/contacts-service/internal/middleware"
	"github.com/Dan9191/contacts-service/internal/models"
	"github.com/Dan9191/contacts-service/internal/service"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// appHandler returns its failure instead of writing it; wrap turns the error into a response.
type appHandler func(w http.ResponseWriter, r *http.Request) error

func (h *Handler) wrap(fn appHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			httpx.WriteError(w, r, h.log, err)
		}
	}
}

// NotFound answers unknown routes
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusNotFound, httpx.Message{Message: "Not found"})
}

// MethodNotAllowed answers known routes hit with the wrong method
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusMethodNotAllowed, httpx.Message{Message: "Method not allowed"})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return httpx.BadRequest("Body must not be empty")
		}
		return httpx.BadRequest("Invalid JSON body")
	}
	return nil
}

func currentUser(r *http.Request) (*models.User, error) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return nil, httpx.Unauthorized("Not authorized")
	}
	return user, nil
}
