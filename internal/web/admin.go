package web

import (
	"strings"

	"github.com/innovation-earth/iepsite/internal/projects"
)

// PanelState is the visibility of the admin panel.
type PanelState int

const (
	PanelClosed PanelState = iota
	PanelOpen
)

func (s PanelState) String() string {
	if s == PanelOpen {
		return "open"
	}
	return "closed"
}

// FormInput is the admin form as posted by the page. Tags and the image are
// held server-side by the panel and are not part of the form.
type FormInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Progress    *int   `json:"progress,omitempty"`
}

// FormState is what the page should show in the admin form.
type FormState struct {
	Status   projects.Status   `json:"status"`
	Priority projects.Priority `json:"priority"`
	Progress int               `json:"progress"`
	Tags     []string          `json:"tags"`
	Image    string            `json:"image"`
}

// AdminPanel is the create-project panel of one page session. It moves
// between closed and open; a successful submit closes it and resets the
// form to its defaults.
type AdminPanel struct {
	state    PanelState
	status   projects.Status
	priority projects.Priority
	progress int
	Tags     projects.TagSet
	Image    projects.ImageUpload
}

// NewAdminPanel returns a closed panel with a default form.
func NewAdminPanel() *AdminPanel {
	a := &AdminPanel{}
	a.Reset()
	return a
}

// State returns the current panel state.
func (a *AdminPanel) State() PanelState { return a.state }

// IsOpen reports whether the panel is visible.
func (a *AdminPanel) IsOpen() bool { return a.state == PanelOpen }

// Toggle flips the panel and returns the new state.
func (a *AdminPanel) Toggle() PanelState {
	if a.state == PanelOpen {
		a.state = PanelClosed
	} else {
		a.state = PanelOpen
	}
	return a.state
}

// Close hides the panel. It reports whether the state changed.
func (a *AdminPanel) Close() bool {
	if a.state == PanelClosed {
		return false
	}
	a.state = PanelClosed
	return true
}

// Reset restores the form defaults: status idea, priority medium, progress
// 0, no tags and no image.
func (a *AdminPanel) Reset() {
	a.status = projects.StatusIdea
	a.priority = projects.PriorityMedium
	a.progress = 0
	a.Tags.Clear()
	a.Image.Remove()
}

// SetStatus records a status change in the form and moves the progress
// field to the status' derived value.
func (a *AdminPanel) SetStatus(raw string) error {
	st, err := projects.ParseStatus(raw)
	if err != nil {
		return err
	}
	a.status = st
	a.progress = st.DefaultProgress()
	return nil
}

// Form returns the form values the page should display.
func (a *AdminPanel) Form() FormState {
	return FormState{
		Status:   a.status,
		Priority: a.priority,
		Progress: a.progress,
		Tags:     a.Tags.Tags(),
		Image:    a.Image.Current(),
	}
}

// Fields merges the posted form with the panel's tags and image.
func (a *AdminPanel) Fields(in FormInput) projects.Fields {
	f := projects.Fields{
		Title:       in.Title,
		Description: in.Description,
		URL:         in.URL,
		Status:      in.Status,
		Priority:    in.Priority,
		Progress:    in.Progress,
		Tags:        a.Tags.Tags(),
		ImageURL:    a.Image.Current(),
	}
	if strings.TrimSpace(f.Status) == "" {
		f.Status = string(a.status)
	}
	if strings.TrimSpace(f.Priority) == "" {
		f.Priority = string(a.priority)
	}
	return f
}
