package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/naazbookdepot/shopauth"
	"github.com/naazbookdepot/shopauth/middleware"
)

type middlewareFunc = func(http.Handler) http.Handler

func chain(h http.HandlerFunc, mws ...middlewareFunc) http.Handler {
	var out http.Handler = h
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// requireReviewer answers 401 "Authentication required" without a session.
func requireReviewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.SessionFromContext(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NewRouter builds the full route table.
func NewRouter(h *Handler) *mux.Router {
	e := h.engine
	csrf := middleware.CSRF(e)
	// Every stored role passes; a token naming any other role is refused.
	session := middleware.RequireRole(shopauth.RoleUser)
	userLimit := middleware.RateLimit(e, shopauth.ScopeUser, middleware.BySessionUser)

	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(h.log), middleware.ClientContext, middleware.Guard(e))

	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	if h.metrics != nil {
		r.Handle("/metrics", h.metrics).Methods(http.MethodGet)
	}

	a := r.PathPrefix("/api/auth").Subrouter()
	a.HandleFunc("/csrf", h.csrfToken).Methods(http.MethodGet)
	a.Handle("/register", chain(h.register, csrf,
		middleware.RateLimit(e, shopauth.ScopeRegister, middleware.ByClientIP))).Methods(http.MethodPost)
	a.Handle("/login", chain(h.login, csrf,
		middleware.RateLimit(e, shopauth.ScopeLogin, middleware.ByClientIP))).Methods(http.MethodPost)
	a.Handle("/logout", chain(h.logout, csrf)).Methods(http.MethodPost)
	a.HandleFunc("/session", h.session).Methods(http.MethodGet)

	r.Handle("/api/user", chain(h.deleteAccount, csrf, session, userLimit)).Methods(http.MethodDelete)

	u := r.PathPrefix("/api/user").Subrouter()
	u.HandleFunc("/addresses", h.listAddresses).Methods(http.MethodGet)
	u.Handle("/addresses", chain(h.createAddress, csrf, session, userLimit)).Methods(http.MethodPost)
	u.Handle("/addresses", chain(h.updateAddress, csrf, session, userLimit)).Methods(http.MethodPut)
	u.Handle("/addresses", chain(h.deleteAddress, csrf, session, userLimit)).Methods(http.MethodDelete)

	u.Handle("/profile", chain(h.updateProfile, csrf, session, userLimit)).Methods(http.MethodPatch)

	u.Handle("/mfa", chain(h.beginMFA, csrf, session, userLimit)).Methods(http.MethodPost)
	u.Handle("/mfa", chain(h.verifyMFA, csrf, session, userLimit)).Methods(http.MethodPut)
	u.Handle("/mfa", chain(h.disableMFA, csrf, session, userLimit)).Methods(http.MethodDelete)

	u.Handle("/cart", chain(h.getCart, session)).Methods(http.MethodGet)
	u.Handle("/cart", chain(h.replaceCart, csrf, session, userLimit)).Methods(http.MethodPost)
	u.Handle("/cart", chain(h.mergeCart, csrf, session, userLimit)).Methods(http.MethodPatch)
	u.Handle("/cart", chain(h.clearCart, csrf, session, userLimit)).Methods(http.MethodDelete)

	p := r.PathPrefix("/api/products/{slug}").Subrouter()
	p.HandleFunc("/reviews", h.listReviews).Methods(http.MethodGet)
	p.Handle("/reviews", chain(h.createReview, csrf, requireReviewer,
		middleware.RateLimit(e, shopauth.ScopeReview, middleware.BySessionUser))).Methods(http.MethodPost)

	return r
}
