// Package render turns projects and catalog content into the HTML fragments
// shown in the page.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/innovation-earth/iepsite/internal/catalog"
	"github.com/innovation-earth/iepsite/internal/projects"
)

//go:embed templates/*.html
var templateFS embed.FS

// Views renders page fragments from the embedded templates.
type Views struct {
	tmpl    *template.Template
	md      *Markdown
	catalog *catalog.Catalog
}

// NewViews parses the templates. cat supplies the tabbed section content.
func NewViews(cat *catalog.Catalog) (*Views, error) {
	tmpl, err := template.New("render").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Views{tmpl: tmpl, md: NewMarkdown(), catalog: cat}, nil
}

func (v *Views) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := v.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}

// Loading is the placeholder shown while a list is fetched.
func (v *Views) Loading() string {
	out, err := v.execute("loading", nil)
	if err != nil {
		return ""
	}
	return out
}

type listData struct {
	Cards []ProjectCard
	Err   string
}

// ProjectList renders the project list region: the error state when
// loadErr is set, the empty state when items is empty, otherwise one card per
// project in the given order.
func (v *Views) ProjectList(items []projects.Project, loadErr error) (string, error) {
	data := listData{}
	if loadErr != nil {
		data.Err = loadErr.Error()
	} else {
		data.Cards = make([]ProjectCard, 0, len(items))
		for _, p := range items {
			data.Cards = append(data.Cards, NewProjectCard(p, v.md))
		}
	}
	return v.execute("project_list", data)
}

type tab[T any] struct {
	Key   string
	Name  string
	Items []T
}

func tabs[T any](cat *catalog.Catalog, groups []catalog.Group[T]) []tab[T] {
	out := make([]tab[T], 0, len(groups))
	for _, g := range groups {
		out = append(out, tab[T]{Key: g.Key, Name: cat.DisplayName(g.Key), Items: g.Items})
	}
	return out
}

// Initiatives renders the initiatives tabs.
func (v *Views) Initiatives() (string, error) {
	return v.execute("initiatives", tabs(v.catalog, v.catalog.Initiatives))
}

// Roles renders the open roles tabs.
func (v *Views) Roles() (string, error) {
	return v.execute("roles", tabs(v.catalog, v.catalog.Roles))
}

// Competitions renders the competitions tabs.
func (v *Views) Competitions() (string, error) {
	return v.execute("competitions", tabs(v.catalog, v.catalog.Competitions))
}
