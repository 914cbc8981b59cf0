package session

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
)

// Keys stored in the session.
const (
	KeyAdminID    = "admin_id"
	KeyAdminEmail = "admin_email"
	KeyOIDCState  = "oidc_state"
)

// Manager is an interface that abstracts the session management implementation.
// *scs.SessionManager satisfies it; tests substitute their own.
type Manager interface {
	LoadAndSave(next http.Handler) http.Handler
	Put(ctx context.Context, key string, val interface{})
	GetString(ctx context.Context, key string) string
	GetBytes(ctx context.Context, key string) []byte
	PopString(ctx context.Context, key string) string
	Exists(ctx context.Context, key string) bool
	Remove(ctx context.Context, key string)
	RenewToken(ctx context.Context) error
	Destroy(ctx context.Context) error
}

var _ Manager = (*scs.SessionManager)(nil)

// Options configure the session cookie.
type Options struct {
	Lifetime   time.Duration
	CookieName string
	Secure     bool
}

// New creates a session manager persisting sessions in store.
func New(store scs.Store, opts Options) *scs.SessionManager {
	sm := scs.New()
	sm.Store = store
	if opts.Lifetime > 0 {
		sm.Lifetime = opts.Lifetime
	}
	if opts.CookieName != "" {
		sm.Cookie.Name = opts.CookieName
	}
	sm.Cookie.HttpOnly = true
	sm.Cookie.Persist = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = opts.Secure
	return sm
}
