package shared

import (
	"net/http"
	"strconv"
)

// Roles recognised by the role middleware.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleViewer  = "viewer"
)

const roleSessionKey = "role"

// Principal is the authenticated actor attached to a request. The domain
// layer takes it as an input and never derives it itself.
type Principal struct {
	UserID int64
	Role   string
}

// PrincipalFromRequest resolves the authenticated principal from the session.
// The second return is false when the request is anonymous.
func PrincipalFromRequest(r *http.Request) (Principal, bool) {
	sess := SessionFromContext(r.Context())
	if sess == nil || sess.User() == "" {
		return Principal{}, false
	}
	id, err := strconv.ParseInt(sess.User(), 10, 64)
	if err != nil || id <= 0 {
		return Principal{}, false
	}
	return Principal{UserID: id, Role: sess.Get(roleSessionKey)}, true
}

// StorePrincipal writes the principal into the session.
func StorePrincipal(sess *Session, p Principal) {
	if sess == nil {
		return
	}
	sess.SetUser(strconv.FormatInt(p.UserID, 10))
	sess.Set(roleSessionKey, p.Role)
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := PrincipalFromRequest(r); !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole rejects requests whose principal holds none of the given roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromRequest(r)
			if !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			if _, ok := allowed[p.Role]; !ok {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
