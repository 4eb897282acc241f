package server

import (
	"database/sql"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"blog/web"
)

type Config struct {
	// AdminEmail marks which registration is granted the admin role. Empty
	// means no admin is ever minted.
	AdminEmail   string
	CookieSecure bool
	Logger       zerolog.Logger
}

type Server struct {
	DB *sql.DB

	tmpl map[string]*template.Template
	log  zerolog.Logger

	CookieName   string
	AdminEmail   string
	CookieSecure bool
}

func New(db *sql.DB, cfg Config) (*Server, error) {
	funcs := template.FuncMap{"avatar": avatarURL}
	pages, err := fs.Glob(web.Templates, "templates/*.html")
	if err != nil {
		return nil, err
	}
	templates := map[string]*template.Template{}
	for _, page := range pages {
		if path.Base(page) == "layout.html" {
			continue
		}
		t, err := template.New(path.Base(page)).Funcs(funcs).ParseFS(web.Templates, "templates/layout.html", page)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(path.Base(page), ".html")
		templates[name] = t
	}
	return &Server{
		DB:           db,
		tmpl:         templates,
		log:          cfg.Logger,
		CookieName:   "session_id",
		AdminEmail:   cfg.AdminEmail,
		CookieSecure: cfg.CookieSecure,
	}, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.handleIndex)
	r.HandleFunc("/register", s.handleRegister)
	r.HandleFunc("/login", s.handleLogin)
	r.Post("/logout", s.requireAuth(s.handleLogout))
	r.HandleFunc("/post/{postID}", s.handleShowPost)
	r.Get("/about", s.handleAbout)
	r.Get("/contact", s.handleContact)
	r.HandleFunc("/new-post", s.requireAdmin(s.handleNewPost))
	r.HandleFunc("/edit-post/{postID}", s.requireAdmin(s.handleEditPost))
	r.Post("/delete/{postID}", s.requireAdmin(s.handleDeletePost))
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.routes().ServeHTTP(w, r)
}

// render executes the named page inside the layout. User and Flash are
// always present in the view data; handlers may pre-set them.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	t, ok := s.tmpl[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["User"]; !ok {
		data["User"] = s.currentUser(r)
	}
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = s.popFlash(w, r)
	}
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		s.log.Error().Err(err).Str("template", name).Msg("render failed")
	}
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error().Err(err).Str("path", r.URL.Path).Msg("internal error")
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// postID pulls the {postID} path parameter; ok is false when it is not a
// positive integer.
func postID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "postID"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
