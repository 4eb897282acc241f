package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"blog/internal/auth"
	"blog/internal/models"
)

const postDateLayout = "January 02, 2006"

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	posts, err := models.ListPosts(s.DB)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, "index", map[string]any{"Posts": posts})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "register", map[string]any{"Name": "", "Email": ""})
	case http.MethodPost:
		name := strings.TrimSpace(r.FormValue("name"))
		email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
		password := r.FormValue("password")
		if name == "" || email == "" || password == "" {
			s.render(w, r, "register", map[string]any{
				"Name": name, "Email": email,
				"Error": "All fields are required.",
			})
			return
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		role := models.RoleReader
		if s.AdminEmail != "" && email == strings.ToLower(s.AdminEmail) {
			role = models.RoleAdmin
		}
		id, err := models.CreateUser(s.DB, name, email, hash, role)
		if errors.Is(err, models.ErrDuplicateEmail) {
			s.setFlash(w, "Possible duplicate. Try logging in.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		if err := s.startSession(w, id); err != nil {
			s.serverError(w, r, err)
			return
		}
		s.setFlash(w, "Registration successful.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "login", map[string]any{"Email": "", "Next": r.URL.Query().Get("next")})
	case http.MethodPost:
		email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
		password := r.FormValue("password")
		next := r.FormValue("next")

		user, err := models.GetUserByEmail(s.DB, email)
		if errors.Is(err, models.ErrNotFound) {
			// Same message as a wrong password so the response never
			// reveals whether the account exists.
			s.render(w, r, "login", map[string]any{
				"Email": "", "Next": next,
				"Error": "Credentials not accurate.",
			})
			return
		}
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		if !auth.CheckPassword(password, user.PasswordHash) {
			s.render(w, r, "login", map[string]any{
				"Email": user.Email, "Next": next,
				"Error": "Credentials not accurate.",
			})
			return
		}
		if err := s.startSession(w, user.ID); err != nil {
			s.serverError(w, r, err)
			return
		}
		http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/"
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, _ *models.User) {
	s.endSession(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleShowPost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	post, err := models.GetPost(s.DB, id)
	if errors.Is(err, models.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	if r.Method == http.MethodPost {
		user := s.currentUser(r)
		if user == nil {
			s.setFlash(w, "You need to log in to comment.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		text := strings.TrimSpace(r.FormValue("comment"))
		if text == "" {
			comments, err := models.ListCommentsForPost(s.DB, id)
			if err != nil {
				s.serverError(w, r, err)
				return
			}
			s.render(w, r, "post", map[string]any{
				"Post": post, "Comments": comments, "User": user,
				"Error": "Comment text is required.",
			})
			return
		}
		if err := models.CreateComment(s.DB, id, user.ID, text); err != nil {
			s.serverError(w, r, err)
			return
		}
		// Redirect clears the form and makes refresh safe.
		http.Redirect(w, r, "/post/"+itoa(id), http.StatusSeeOther)
		return
	}

	comments, err := models.ListCommentsForPost(s.DB, id)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, "post", map[string]any{"Post": post, "Comments": comments})
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "about", nil)
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "contact", nil)
}

func (s *Server) handleNewPost(w http.ResponseWriter, r *http.Request, user *models.User) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "make_post", map[string]any{
			"Heading": "New Post", "Action": "/new-post",
			"Post": models.BlogPost{}, "User": user,
		})
	case http.MethodPost:
		form, msg := postForm(r)
		if msg == "" {
			date := time.Now().Format(postDateLayout)
			_, err := models.CreatePost(s.DB, user.ID, form.Title, form.Subtitle, date, form.Body, form.ImgURL)
			if err == nil {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			if !errors.Is(err, models.ErrDuplicateTitle) {
				s.serverError(w, r, err)
				return
			}
			msg = "A post with that title already exists."
		}
		s.render(w, r, "make_post", map[string]any{
			"Heading": "New Post", "Action": "/new-post",
			"Post": form, "User": user, "Error": msg,
		})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleEditPost(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, ok := postID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	post, err := models.GetPost(s.DB, id)
	if errors.Is(err, models.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "make_post", map[string]any{
			"Heading": "Edit Post", "Action": "/edit-post/" + itoa(id),
			"Post": *post, "User": user,
		})
	case http.MethodPost:
		form, msg := postForm(r)
		if msg == "" {
			err := models.UpdatePost(s.DB, id, form.Title, form.Subtitle, form.Body, form.ImgURL)
			if err == nil {
				http.Redirect(w, r, "/post/"+itoa(id), http.StatusSeeOther)
				return
			}
			if errors.Is(err, models.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			if !errors.Is(err, models.ErrDuplicateTitle) {
				s.serverError(w, r, err)
				return
			}
			msg = "A post with that title already exists."
		}
		s.render(w, r, "make_post", map[string]any{
			"Heading": "Edit Post", "Action": "/edit-post/" + itoa(id),
			"Post": form, "User": user, "Error": msg,
		})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request, _ *models.User) {
	id, ok := postID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	err := models.DeletePost(s.DB, id)
	if errors.Is(err, models.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// postForm reads the shared new/edit post fields. msg is a validation
// message, empty when the form is complete.
func postForm(r *http.Request) (models.BlogPost, string) {
	form := models.BlogPost{
		Title:    strings.TrimSpace(r.FormValue("title")),
		Subtitle: strings.TrimSpace(r.FormValue("subtitle")),
		Body:     r.FormValue("body"),
		ImgURL:   strings.TrimSpace(r.FormValue("img_url")),
	}
	if form.Title == "" || form.Subtitle == "" || strings.TrimSpace(form.Body) == "" || form.ImgURL == "" {
		return form, "All fields are required."
	}
	return form, ""
}
