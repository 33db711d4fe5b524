// Package httpapi is the thin HTTP adapter used by the local development
// server: it parses request bodies, calls into the auth core and maps domain
// errors to status codes. It contains no state machine of its own.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/flado/awareness/internal/common"
	"github.com/flado/awareness/internal/logging"
	"github.com/flado/awareness/internal/server/auth"
	"github.com/flado/awareness/internal/server/services"
)

type ctxKey string

const subjectKey ctxKey = "subject"

// SubjectFromContext returns the authenticated subject id placed on the
// request context by the auth middleware.
func SubjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey).(string)
	return s
}

type Handler struct {
	users      *services.Service
	authorizer *auth.Authorizer
	log        logging.Logger
}

// NewHandler wires the operation surface onto a chi router.
func NewHandler(users *services.Service, authorizer *auth.Authorizer, log logging.Logger) http.Handler {
	h := &Handler{users: users, authorizer: authorizer, log: log}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Get("/activate/{id}", h.activate)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Get("/me", h.me)
		r.Get("/users/{id}", h.getUser)
	})

	return r
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, r, common.NewValidationError("body", "request body must be valid JSON"))
		return
	}

	session, err := h.users.Register(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, session)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, r, common.NewValidationError("body", "request body must be valid JSON"))
		return
	}

	session, err := h.users.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, session)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Profile(r.Context(), SubjectFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Profile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

func (h *Handler) activate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	token := r.URL.Query().Get("token")

	user, err := h.users.Activate(r.Context(), id, token)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ActivationPage(user.Email))
}

// requireAuth is the request authorizer in HTTP-middleware form: a missing or
// invalid bearer token produces the same 401.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.BearerFromHeader(r.Header.Get("Authorization"))
		decision := h.authorizer.Authorize(token)
		if !decision.Allowed {
			h.writeError(w, r, common.ErrUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), subjectKey, decision.SubjectID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActivationPage renders the human-readable confirmation shown after a
// successful activation.
func ActivationPage(email string) string {
	return fmt.Sprintf("<html><body><center>The account <b>%s</b> has been activated. Enjoy The Awareness Meditation!</center></body></html>", email)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error(context.Background(), "encoding response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := common.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.log.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	h.writeJSON(w, status, map[string]string{"message": common.PublicMessage(err)})
}
