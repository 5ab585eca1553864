// Package web serves the site: the single-document page with every section,
// its static assets, and the per-tab page session socket that drives
// navigation, the admin panel and the project list.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/innovation-earth/iepsite/internal/contact"
	"github.com/innovation-earth/iepsite/internal/localstore"
	"github.com/innovation-earth/iepsite/internal/logging"
	"github.com/innovation-earth/iepsite/internal/projects"
	"github.com/innovation-earth/iepsite/internal/render"
	"github.com/innovation-earth/iepsite/internal/sections"
)

//go:embed templates/index.html
var indexTemplate string

//go:embed static
var staticFS embed.FS

// Options configures a Site.
type Options struct {
	Title          string
	TagSuggestions []string
	Projects       *projects.Repository
	Contact        *contact.Service
	Local          *localstore.Store
	Views          *render.Views
	Logger         logging.Logger
}

// Site renders the page and hosts page sessions.
type Site struct {
	opts  Options
	log   logging.Logger
	index *template.Template
}

// New creates a Site.
func New(opts Options) (*Site, error) {
	tmpl, err := template.New("index").Parse(indexTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing index template: %w", err)
	}
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}
	return &Site{
		opts:  opts,
		log:   log.With(logging.String("component", "web")),
		index: tmpl,
	}, nil
}

// RegisterRoutes mounts the page and static asset routes.
func (s *Site) RegisterRoutes(r chi.Router) {
	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	r.Get("/", s.handlePage)
	r.Get("/{section}", s.handlePage)
	r.Get("/{section}/", s.handlePage)
}

// RegisterSocket mounts the page session socket. It must be mounted on a
// router without a request deadline.
func (s *Site) RegisterSocket(r chi.Router) {
	r.Get("/ws/session", s.handleSession)
}

type sectionView struct {
	ID      sections.ID
	Title   string
	Visible bool
	Path    string
}

type option struct {
	Value string
	Label string
}

type pageData struct {
	Title          string
	Sections       []sectionView
	Loading        template.HTML
	Initiatives    template.HTML
	Roles          template.HTML
	Competitions   template.HTML
	Statuses       []option
	Priorities     []option
	TagSuggestions []string
}

// handlePage renders the whole document with the section named by the path
// visible. Unknown paths render home.
func (s *Site) handlePage(w http.ResponseWriter, r *http.Request) {
	visible, ok := sections.Resolve(sections.Location{Path: r.URL.Path})
	if !ok {
		visible = sections.Home
	}

	data, err := s.buildPage(visible)
	if err != nil {
		s.log.Error("building page failed", logging.Err(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := s.index.Execute(&buf, data); err != nil {
		s.log.Error("rendering page failed", logging.Err(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Site) buildPage(visible sections.ID) (pageData, error) {
	data := pageData{
		Title:          s.opts.Title,
		Loading:        template.HTML(s.opts.Views.Loading()),
		TagSuggestions: s.opts.TagSuggestions,
	}
	for _, id := range sections.All() {
		data.Sections = append(data.Sections, sectionView{
			ID: id, Title: id.Title(), Visible: id == visible, Path: sections.Path(id),
		})
	}
	for _, st := range projects.AllStatuses() {
		data.Statuses = append(data.Statuses, option{Value: string(st), Label: st.Badge().Label})
	}
	for _, p := range projects.AllPriorities() {
		data.Priorities = append(data.Priorities, option{Value: string(p), Label: p.Badge().Label})
	}

	initiatives, err := s.opts.Views.Initiatives()
	if err != nil {
		return data, err
	}
	roles, err := s.opts.Views.Roles()
	if err != nil {
		return data, err
	}
	competitions, err := s.opts.Views.Competitions()
	if err != nil {
		return data, err
	}
	data.Initiatives = template.HTML(initiatives)
	data.Roles = template.HTML(roles)
	data.Competitions = template.HTML(competitions)
	return data, nil
}
