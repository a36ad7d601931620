// File: internal/handlers/auth_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ampersand-labs/homework/internal/domain"
	"github.com/ampersand-labs/homework/internal/middleware"
	"github.com/ampersand-labs/homework/internal/services"
	"github.com/ampersand-labs/homework/internal/services/account"
	statesync "github.com/ampersand-labs/homework/internal/sync"
)

type AuthHandler struct {
	Accounts *account.Service
	State    *statesync.Coordinator
	Logger   services.Logger
}

func NewAuthHandler(accounts *account.Service, state *statesync.Coordinator, logger services.Logger) *AuthHandler {
	return &AuthHandler{Accounts: accounts, State: state, Logger: logger}
}

// LocalLogin starts a device-only session: no credentials, no cloud sync.
func (h *AuthHandler) LocalLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Local User"
	}

	user := domain.NewLocalUser(name)
	h.State.Login(r.Context(), user)
	writeJSON(w, http.StatusOK, user)
}

// Register creates a cloud account and signs it in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if _, err := h.Accounts.Register(r.Context(), req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, account.ErrInvalidEmail), errors.Is(err, account.ErrWeakPassword):
			writeError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, account.ErrEmailTaken):
			writeError(w, "An account with this email already exists", http.StatusConflict)
		default:
			h.Logger.Error("registration failed", "error", err)
			writeError(w, "Could not create account", http.StatusInternalServerError)
		}
		return
	}
	h.signIn(w, r, req.Email, req.Password)
}

// SignIn authenticates a cloud account. Invalid credentials surface as an
// inline form error and never disturb an existing session.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	h.signIn(w, r, req.Email, req.Password)
}

func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request, email, password string) {
	user, token, err := h.Accounts.SignIn(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			writeError(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		h.Logger.Error("sign-in failed", "error", err)
		writeError(w, "Could not sign in", http.StatusInternalServerError)
		return
	}

	middleware.SetAuthCookie(w, token)
	h.State.Login(r.Context(), user)
	writeJSON(w, http.StatusOK, user)
}

// Logout ends the session. Local chat snapshots stay on disk; only the
// cached user record and the in-memory view are cleared.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearAuthCookie(w)
	h.State.Logout()
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// CurrentUser returns the active session's user, or 204 when none.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user := h.State.CurrentUser()
	if user == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
