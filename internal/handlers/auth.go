package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"
)

var (
	sessionStore *sessions.CookieStore
	sessionName  = "marketplace-session"
)

// ConfigureSessions sets up the cookie store with the secret shared with the
// marketplace app. Sessions are issued there; this service only reads them to
// attribute subscriptions to a user.
func ConfigureSessions(secret string) {
	sessionStore = sessions.NewCookieStore([]byte(secret))
}

// AuthMiddleware checks if user is authenticated
func AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUserID(r); !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// CurrentUserID returns the session user, if any.
func CurrentUserID(r *http.Request) (string, bool) {
	session, _ := sessionStore.Get(r, sessionName)
	userID, ok := session.Values["user_id"].(string)
	return userID, ok && userID != ""
}
