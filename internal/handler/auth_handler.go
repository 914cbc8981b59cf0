package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"ir-portal/internal/auth"
	"ir-portal/internal/data"
	"ir-portal/internal/logger"
	"ir-portal/internal/middleware"
	"ir-portal/internal/service"
	"ir-portal/internal/session"
	"net/http"

	"golang.org/x/oauth2"
)

// SSO is the single sign-on provider.
type SSO interface {
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	Exchange(ctx context.Context, code string) (*auth.Claims, error)
}

var _ SSO = (*auth.Authenticator)(nil)

// AuthHandler holds the dependencies for the authentication handlers.
type AuthHandler struct {
	auth    *service.AuthService
	session session.Manager
	sso     SSO
	log     logger.Logger
}

// NewAuthHandler creates a new AuthHandler. sso may be nil when single sign-on is not configured.
func NewAuthHandler(a *service.AuthService, sm session.Manager, sso SSO, log logger.Logger) *AuthHandler {
	return &AuthHandler{auth: a, session: sm, sso: sso, log: log}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`
}

// signIn renews the session token before storing the admin, so a pre-login token cannot be reused.
func signIn(ctx context.Context, sm session.Manager, u *data.AdminUser) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	sm.Put(ctx, session.KeyAdminID, u.ID)
	sm.Put(ctx, session.KeyAdminEmail, u.Email)
	return nil
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var req loginRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		return appErr
	}
	u, err := h.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		return serviceError(err, "Admin")
	}
	if err := signIn(r.Context(), h.session, u); err != nil {
		return serviceError(err, "Session")
	}
	h.log.With(map[string]interface{}{"admin": u.Email}).Info("admin logged in")
	return ok(w, sessionResponse{Authenticated: true, Email: u.Email, Name: u.Name})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.session.Destroy(r.Context()); err != nil {
		return serviceError(err, "Session")
	}
	return message(w, "Logged out")
}

func (h *AuthHandler) currentSession(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userInfo := middleware.GetUserInfo(r.Context())
	if !userInfo.IsAdmin() {
		return ok(w, sessionResponse{Authenticated: false})
	}
	return ok(w, sessionResponse{Authenticated: true, Email: userInfo.Email})
}

// oidcLogin redirects the user to the OIDC provider to log in.
// A random state kept in the session protects the callback against CSRF.
func (h *AuthHandler) oidcLogin(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if h.sso == nil {
		return &middleware.AppError{Error: errors.New("oidc not configured"), Message: "Single sign-on is not enabled", Code: http.StatusNotFound}
	}
	state, err := randString(16)
	if err != nil {
		return serviceError(err, "Session")
	}
	h.session.Put(r.Context(), session.KeyOIDCState, state)
	http.Redirect(w, r, h.sso.AuthCodeURL(state), http.StatusFound)
	return nil
}

// oidcCallback finishes single sign-on. Only emails registered as admins may log in.
func (h *AuthHandler) oidcCallback(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if h.sso == nil {
		return &middleware.AppError{Error: errors.New("oidc not configured"), Message: "Single sign-on is not enabled", Code: http.StatusNotFound}
	}
	state := h.session.PopString(r.Context(), session.KeyOIDCState)
	if state == "" || r.URL.Query().Get("state") != state {
		return badRequest("State did not match")
	}

	claims, err := h.sso.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Single sign-on failed", Code: http.StatusUnauthorized}
	}
	u, err := h.auth.ByEmail(r.Context(), claims.Email)
	if errors.Is(err, service.ErrNotFound) {
		return &middleware.AppError{Error: err, Message: "This account is not an administrator", Code: http.StatusForbidden}
	}
	if err != nil {
		return serviceError(err, "Admin")
	}
	if err := signIn(r.Context(), h.session, u); err != nil {
		return serviceError(err, "Session")
	}
	http.Redirect(w, r, "/admin", http.StatusFound)
	return nil
}

// randString is a helper function to generate a random string for the 'state' parameter.
func randString(nByte int) (string, error) {
	b := make([]byte, nByte)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
