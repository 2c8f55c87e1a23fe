package common

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/matst80/slask-facets/pkg/types"
)

const SessionCookieName = "sid"

func generateSessionId() string {
	return uuid.NewString()
}

func setSessionCookie(w http.ResponseWriter, sessionId string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionId,
		SameSite: http.SameSiteNoneMode,
		Secure:   true,
		HttpOnly: true,
		MaxAge:   2592000,
		Path:     "/",
	})
}

// HandleSessionCookie returns the session id of the request, issuing a new
// one when the cookie is missing or not a valid id.
func HandleSessionCookie(tracking types.Tracking, w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err == nil {
		if _, parseErr := uuid.Parse(c.Value); parseErr == nil {
			return c.Value
		}
	}
	sessionId := generateSessionId()
	if tracking != nil {
		tracking.TrackSession(sessionId, r)
	}
	setSessionCookie(w, sessionId)
	return sessionId
}
