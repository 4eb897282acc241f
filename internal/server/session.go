package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"blog/internal/models"
)

const sessionTTL = 7 * 24 * time.Hour

// currentUser resolves the request's identity. nil means anonymous: no
// cookie, an expired or revoked session, or a session pointing at a user
// that no longer exists.
func (s *Server) currentUser(r *http.Request) *models.User {
	cookie, err := r.Cookie(s.CookieName)
	if err != nil {
		return nil
	}
	sess, err := models.GetSession(s.DB, cookie.Value)
	if err != nil || sess.RevokedAt != nil || sess.ExpiresAt.Before(time.Now()) {
		return nil
	}
	user, err := models.GetUserByID(s.DB, sess.UserID)
	if err != nil {
		return nil
	}
	return user
}

func (s *Server) startSession(w http.ResponseWriter, userID int) error {
	sid := uuid.NewString()
	expires := time.Now().Add(sessionTTL)
	if err := models.CreateSession(s.DB, userID, sid, expires); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.CookieName,
		Value:    sid,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(s.CookieName)
	if err != nil {
		return
	}
	if err := models.RevokeSession(s.DB, cookie.Value); err != nil {
		s.log.Error().Err(err).Msg("revoke session")
	}
	http.SetCookie(w, &http.Cookie{Name: s.CookieName, Path: "/", MaxAge: -1, HttpOnly: true})
}
