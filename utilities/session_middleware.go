package utilities

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"antibias-assessment/internal/model"
)

const SessionContextKey = "session"

// SessionSource starts new sessions and rebuilds sessions from cookies.
type SessionSource interface {
	StartSession() (*model.Session, error)
	RestoreSession(sessionID string, seed uint64) (*model.Session, error)
}

// SessionMiddleware ensures each request carries a session, issuing a new
// signed cookie when the request has none or an invalid one.
func SessionMiddleware(sessions SessionSource, tokens *SessionTokens, cookieName string, maxAge int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(cookieName); err == nil && raw != "" {
			if sid, seed, err := tokens.Validate(raw); err == nil {
				session, err := sessions.RestoreSession(sid, seed)
				if err == nil {
					c.Set(SessionContextKey, session)
					c.Next()
					return
				}
				Warn("restore session %s: %v", sid, err)
			}
		}

		session, err := sessions.StartSession()
		if err != nil {
			Error("start session: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "could not start session"})
			return
		}
		if err := IssueSessionCookie(c, tokens, session, cookieName, maxAge); err != nil {
			Error("sign session token: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "could not start session"})
			return
		}
		c.Set(SessionContextKey, session)
		c.Next()
	}
}

// IssueSessionCookie writes the signed cookie for session.
func IssueSessionCookie(c *gin.Context, tokens *SessionTokens, session *model.Session, cookieName string, maxAge int) error {
	token, err := tokens.Generate(session.ID, session.Seed)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, token, maxAge, "/", "", false, true)
	return nil
}

// CurrentSession returns the session stored by SessionMiddleware.
func CurrentSession(c *gin.Context) (*model.Session, bool) {
	v, exists := c.Get(SessionContextKey)
	if !exists {
		return nil, false
	}
	session, ok := v.(*model.Session)
	return session, ok
}
