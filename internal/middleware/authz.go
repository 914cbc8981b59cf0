package middleware

import (
	"ir-portal/internal/auth"
	"ir-portal/internal/logger"
	"ir-portal/internal/session"
	"net/http"
	"net/url"
	"strings"

	"github.com/casbin/casbin/v2"
)

// AdminLoginPath is where unauthenticated visitors of admin pages are sent.
const AdminLoginPath = "/admin/login"

// Authorizer creates a new middleware for authorization.
// The subject is "admin" when the session holds an admin id and "anonymous" otherwise;
// Casbin then decides on the request path and method.
func Authorizer(e casbin.IEnforcer, sm session.Manager, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userInfo := &UserInfo{Subject: auth.SubjectAnonymous}
			if id := sm.GetString(r.Context(), session.KeyAdminID); id != "" {
				userInfo = &UserInfo{
					Subject: auth.SubjectAdmin,
					AdminID: id,
					Email:   sm.GetString(r.Context(), session.KeyAdminEmail),
				}
			}
			r = r.WithContext(SetUserInfo(r.Context(), userInfo))

			allowed, err := e.Enforce(userInfo.Subject, r.URL.Path, r.Method)
			if err != nil {
				log.Error(err, "authorization check failed")
				deny(w, r, http.StatusInternalServerError, "Authorization error")
				return
			}
			if !allowed {
				if userInfo.IsAdmin() {
					deny(w, r, http.StatusForbidden, "Forbidden")
				} else {
					deny(w, r, http.StatusUnauthorized, "Authentication required")
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// deny answers API calls with JSON and sends anonymous visitors of admin pages to the login form.
func deny(w http.ResponseWriter, r *http.Request, code int, message string) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		WriteJSONError(w, code, message)
		return
	}
	if code == http.StatusUnauthorized {
		http.Redirect(w, r, AdminLoginPath+"?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
		return
	}
	http.Error(w, message, code)
}
