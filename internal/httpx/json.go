package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Message is the body of every error and plain acknowledgement.
type Message struct {
	Message string `json:"message"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates err into a response. Anything that is not an *Error
// is logged and reported as a 500 without details.
func WriteError(w http.ResponseWriter, r *http.Request, log *logrus.Logger, err error) {
	if e, ok := AsError(err); ok {
		WriteJSON(w, e.Status, Message{Message: e.Message})
		return
	}
	log.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}).Errorf("Request failed: %v", err)
	WriteJSON(w, http.StatusInternalServerError, Message{Message: "Server error"})
}
