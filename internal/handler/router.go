package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RouterOptions carries the middleware and static paths NewRouter wires in
type RouterOptions struct {
	Auth mux.MiddlewareFunc
	// Middleware wraps the whole router, unmatched routes included. The first entry is outermost.
	Middleware []mux.MiddlewareFunc
	// AvatarsDir is served under /avatars/ when set
	AvatarsDir string
}

// NewRouter registers every route of the API
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(h.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(h.MethodNotAllowed)

	// Public routes
	authRouter := r.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/signup", h.wrap(h.Signup)).Methods(http.MethodPost)
	authRouter.HandleFunc("/verify/{verificationCode}", h.wrap(h.Verify)).Methods(http.MethodGet)
	authRouter.HandleFunc("/verify", h.wrap(h.ResendVerify)).Methods(http.MethodPost)
	authRouter.HandleFunc("/signin", h.wrap(h.Signin)).Methods(http.MethodPost)

	// Protected routes
	sessionRouter := r.PathPrefix("/auth").Subrouter()
	sessionRouter.Use(opts.Auth)
	sessionRouter.HandleFunc("/current", h.wrap(h.Current)).Methods(http.MethodGet)
	sessionRouter.HandleFunc("/signout", h.wrap(h.Signout)).Methods(http.MethodPost)
	sessionRouter.HandleFunc("/avatars", h.wrap(h.UpdateAvatar)).Methods(http.MethodPatch)
	sessionRouter.HandleFunc("/subscription", h.wrap(h.UpdateSubscription)).Methods(http.MethodPatch)

	contactsRouter := r.PathPrefix("/contacts").Subrouter()
	contactsRouter.Use(opts.Auth)
	contactsRouter.HandleFunc("", h.wrap(h.ListContacts)).Methods(http.MethodGet)
	contactsRouter.HandleFunc("", h.wrap(h.CreateContact)).Methods(http.MethodPost)
	contactsRouter.HandleFunc("/{id}", h.wrap(h.GetContact)).Methods(http.MethodGet)
	contactsRouter.HandleFunc("/{id}", h.wrap(h.UpdateContact)).Methods(http.MethodPut)
	contactsRouter.HandleFunc("/{id}", h.wrap(h.DeleteContact)).Methods(http.MethodDelete)
	contactsRouter.HandleFunc("/{id}/favorite", h.wrap(h.UpdateFavorite)).Methods(http.MethodPatch)

	if opts.AvatarsDir != "" {
		r.PathPrefix("/avatars/").Handler(
			http.StripPrefix("/avatars/", http.FileServer(http.Dir(opts.AvatarsDir))),
		).Methods(http.MethodGet)
	}

	// mux skips Use middleware for NotFound and MethodNotAllowed, so wrap from outside
	var next http.Handler = r
	for i := len(opts.Middleware) - 1; i >= 0; i-- {
		next = opts.Middleware[i](next)
	}
	return next
}
