package server

import (
	"net/http"
	"net/url"

	"blog/internal/models"
)

type userHandler func(http.ResponseWriter, *http.Request, *models.User)

// requireAuth redirects anonymous callers to the login page and otherwise
// invokes next with the resolved user.
func (s *Server) requireAuth(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := s.currentUser(r)
		if user == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r, user)
	}
}

// requireAdmin guards the post-management routes. Anonymous callers are sent
// to login with the original path so they can be returned there afterwards;
// authenticated non-admins get a bare 403.
func (s *Server) requireAdmin(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := s.currentUser(r)
		if user == nil {
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}
		if !user.IsAdmin() {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next(w, r, user)
	}
}
