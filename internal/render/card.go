package render

import (
	"html/template"
	"net/url"
	"strings"

	"github.com/innovation-earth/iepsite/internal/projects"
)

// ProjectCard is the view model for one project in the list.
type ProjectCard struct {
	ID          string
	Title       string
	Description template.HTML
	Status      projects.Badge
	Priority    projects.Badge
	Progress    int
	Tags        []string
	ImageURL    template.URL
	Link        string
	Created     string
}

// NewProjectCard builds the card for p. Link and image URLs that are not
// plain http(s), or for images an inline base64 image, are dropped.
func NewProjectCard(p projects.Project, md *Markdown) ProjectCard {
	title := p.Title
	if strings.TrimSpace(title) == "" {
		title = "Untitled Project"
	}
	card := ProjectCard{
		ID:       p.ID,
		Title:    title,
		Status:   p.Status.Badge(),
		Priority: p.Priority.Badge(),
		Progress: projects.ClampProgress(p.Progress),
		Tags:     p.Tags,
		ImageURL: template.URL(safeImageURL(p.ImageURL)),
		Link:     safeLinkURL(p.URL),
	}
	if strings.TrimSpace(p.Description) == "" {
		card.Description = template.HTML("<p>No description provided.</p>")
	} else {
		card.Description = md.Render(p.Description)
	}
	if !p.CreatedAt.IsZero() {
		card.Created = p.CreatedAt.UTC().Format("Jan 2, 2006")
	}
	return card
}

func safeLinkURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}

func safeImageURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "data:image/") && strings.Contains(raw, ";base64,") {
		if strings.ContainsAny(raw, "\"'<> ") {
			return ""
		}
		return raw
	}
	return safeLinkURL(raw)
}
