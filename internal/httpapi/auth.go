package httpapi

import (
	"context"
	"net"
	"net/http"
	"time"

	"portico/internal/audit"
	"portico/internal/authz"
	userdomain "portico/internal/user/domain"
)

type authContextKey struct{}

type authInfo struct {
	SessionID string
	ExpiresAt time.Time
	User      *userdomain.User
	Principal authz.Principal
}

// sessionMiddleware resolves the session cookie on every request and stashes
// the principal in the request context. Requests without a valid session pass
// through with no auth info; handlers that need one reject them. Validation
// may slide the session's expiry forward, in which case the refreshed cookie
// is set on the response.
func (h *Handler) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(audit.WithClientIP(r.Context(), clientIP(r)))

		cookie, err := r.Cookie(h.cookies.Name())
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		session, user, err := h.sessions.Validate(r.Context(), cookie.Value)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		if session == nil || user == nil {
			// Stale cookie; clear it and continue unauthenticated.
			w.Header().Set("Set-Cookie", h.cookies.Blank())
			next.ServeHTTP(w, r)
			return
		}
		if user.Status != userdomain.UserStatusActive {
			writeError(w, http.StatusForbidden, "access_denied", "account disabled")
			return
		}

		w.Header().Set("Set-Cookie", h.cookies.Serialize(cookie.Value))
		ctx := context.WithValue(r.Context(), authContextKey{}, authInfo{
			SessionID: session.SessionID,
			ExpiresAt: session.ExpiresAt,
			User:      user,
			Principal: authz.Principal{UserID: user.ID, OrgID: user.OrgID, RoleID: user.RoleID},
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func authFromContext(ctx context.Context) (authInfo, bool) {
	value := ctx.Value(authContextKey{})
	if value == nil {
		return authInfo{}, false
	}
	info, ok := value.(authInfo)
	if !ok {
		return authInfo{}, false
	}
	return info, true
}
