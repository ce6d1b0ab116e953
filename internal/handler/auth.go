package handler

import (
	"net/http"

	"github.com/Dan9191/contacts-service/internal/httpx"
	"github.com/Dan9191/contacts-service/internal/models"
	"github.com/gorilla/mux"
)

const maxAvatarBytes = 5 << 20

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c credentialsRequest) validate() error {
	if err := validateEmail(c.Email); err != nil {
		return err
	}
	return validatePassword(c.Password)
}

// validatePresence is all signin checks; any other credential problem is a 401.
func (c credentialsRequest) validatePresence() error {
	if err := validateRequired("email", c.Email); err != nil {
		return err
	}
	if c.Password == "" {
		return httpx.BadRequest(`"password" is required`)
	}
	return nil
}

type emailRequest struct {
	Email string `json:"email"`
}

type subscriptionRequest struct {
	Subscription models.Subscription `json:"subscription"`
}

type avatarResponse struct {
	AvatarURL string `json:"avatarURL"`
}

// Signup handles user registration
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) error {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if err := req.validate(); err != nil {
		return err
	}

	user, err := h.svc.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, http.StatusCreated, user)
	return nil
}

// Verify handles the link from the verification email
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) error {
	if err := h.svc.Verify(r.Context(), mux.Vars(r)["verificationCode"]); err != nil {
		return err
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Message{Message: "Verification successful"})
	return nil
}

// ResendVerify sends the verification email again
func (h *Handler) ResendVerify(w http.ResponseWriter, r *http.Request) error {
	var req emailRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if err := validateEmail(req.Email); err != nil {
		return err
	}

	if err := h.svc.ResendVerifyEmail(r.Context(), req.Email); err != nil {
		return err
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Message{Message: "Verification email sent"})
	return nil
}

// Signin handles user authentication
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) error {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if err := req.validatePresence(); err != nil {
		return err
	}

	res, err := h.svc.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, http.StatusOK, res)
	return nil
}

// Current returns the authenticated user
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, http.StatusOK, h.svc.GetCurrent(user))
	return nil
}

// Signout ends the current session
func (h *Handler) Signout(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}
	if err := h.svc.Signout(r.Context(), user); err != nil {
		return err
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Message{Message: "Signout success"})
	return nil
}

// UpdateAvatar replaces the avatar with an uploaded image
func (h *Handler) UpdateAvatar(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes)
	file, header, err := r.FormFile("avatar")
	if err != nil {
		return httpx.BadRequest("Avatar file is required")
	}
	defer file.Close()

	avatarURL, err := h.svc.UpdateAvatar(r.Context(), user, file, header.Filename)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, http.StatusOK, avatarResponse{AvatarURL: avatarURL})
	return nil
}

// UpdateSubscription changes the plan of the authenticated user
func (h *Handler) UpdateSubscription(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}
	var req subscriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	res, err := h.svc.UpdateSubscription(r.Context(), user, req.Subscription)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, http.StatusOK, res)
	return nil
}
