package handler

import (
	"net/http"
	"strconv"

	"github.com/Dan9191/contacts-service/internal/httpx"
	"github.com/Dan9191/contacts-service/internal/models"
	"github.com/gorilla/mux"
)

type contactRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Favorite bool   `json:"favorite"`
}

func (c contactRequest) validate() error {
	if err := validateRequired("name", c.Name); err != nil {
		return err
	}
	if err := validateEmail(c.Email); err != nil {
		return err
	}
	return validateRequired("phone", c.Phone)
}

type favoriteRequest struct {
	Favorite *bool `json:"favorite"`
}

func parseFilter(r *http.Request) (models.ContactFilter, error) {
	var f models.ContactFilter
	q := r.URL.Query()

	for name, dst := range map[string]*int{"page": &f.Page, "limit": &f.Limit} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return f, httpx.BadRequest(`"` + name + `" must be a positive integer`)
		}
		*dst = n
	}

	if raw := q.Get("favorite"); raw != "" {
		fav, err := strconv.ParseBool(raw)
		if err != nil {
			return f, httpx.BadRequest(`"favorite" must be a boolean`)
		}
		f.Favorite = &fav
	}
	return f, nil
}

// ListContacts returns the user's contacts
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}
	filter, err := parseFilter(r)
	if err != nil {
		return err
	}

	contacts, err := h.svc.ListContacts(r.Context(), user, filter)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, http.StatusOK, contacts)
	return nil
}

// GetContact returns one contact
func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}

	contact, err := h.svc.GetContact(r.Context(), user, mux.Vars(r)["id"])
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, http.StatusOK, contact)
	return nil
}

// CreateContact adds a contact
func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if err := req.validate(); err != nil {
		return err
	}

	contact, err := h.svc.CreateContact(r.Context(), user, models.Contact{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Favorite: req.Favorite,
	})
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, http.StatusCreated, contact)
	return nil
}

// UpdateContact applies a partial update
func (h *Handler) UpdateContact(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}
	var req models.ContactUpdate
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if req.Email != nil {
		if err := validateEmail(*req.Email); err != nil {
			return err
		}
	}

	contact, err := h.svc.UpdateContact(r.Context(), user, mux.Vars(r)["id"], req)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, http.StatusOK, contact)
	return nil
}

// UpdateFavorite sets the favorite flag
func (h *Handler) UpdateFavorite(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}
	var req favoriteRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if req.Favorite == nil {
		return httpx.BadRequest(`"favorite" is required`)
	}

	contact, err := h.svc.UpdateFavorite(r.Context(), user, mux.Vars(r)["id"], *req.Favorite)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, http.StatusOK, contact)
	return nil
}

// DeleteContact removes a contact
func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteContact(r.Context(), user, mux.Vars(r)["id"]); err != nil {
		return err
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Message{Message: "Delete success"})
	return nil
}
