package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/toriana04/fraudintel/session"
)

// SessionCookie holds the session id.
const SessionCookie = "fraudintel_session"

const historyKey = "history"

// session attaches the caller's search history, issuing a new session
// cookie when the request carries none or an invalid one.
func (s *Server) session(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := ""
		if ck, err := c.Cookie(SessionCookie); err == nil && session.ValidID(ck.Value) {
			id = ck.Value
		}
		if id == "" {
			id = session.NewID()
			c.SetCookie(&http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Set(historyKey, s.engine.Sessions().Get(id))
		return next(c)
	}
}

func historyOf(c echo.Context) *session.History {
	return c.Get(historyKey).(*session.History)
}
