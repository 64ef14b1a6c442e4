package http

import (
	"net/http"

	applog "lcgrants/internal/log"
	"lcgrants/internal/middleware/trace"
	"lcgrants/internal/session"
)

// SessionCookieName holds the dashboard session id.
const SessionCookieName = "lcgrants_session"

// session returns the caller's dashboard session, starting a new one (and
// setting the cookie) when the cookie is missing or the session expired.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(SessionCookieName); err == nil {
		id = c.Value
	}

	sess, created := s.sessions.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})
		applog.FromContext(r.Context()).WithComponent(applog.ComponentSession).DebugContext(r.Context(),
			"Session started", applog.FieldSessionID, sess.ID, "replaced", id != "")
	}
	return sess
}

func requestID(r *http.Request) string {
	return trace.GetRequestID(r.Context())
}
