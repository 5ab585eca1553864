package projects

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError lists the form fields that prevented a create.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "please fill in "+strings.Join(e.Missing, " and "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid "+strings.Join(e.Invalid, ", "))
	}
	return strings.Join(parts, "; ")
}

// Build validates f and produces a Project stamped with now. The ID is left
// for the store to assign.
func (f Fields) Build(now time.Time) (Project, error) {
	verr := &ValidationError{}
	title := strings.TrimSpace(f.Title)
	description := strings.TrimSpace(f.Description)
	if title == "" {
		verr.Missing = append(verr.Missing, "title")
	}
	if description == "" {
		verr.Missing = append(verr.Missing, "description")
	}
	status, err := ParseStatus(f.Status)
	if err != nil {
		verr.Invalid = append(verr.Invalid, fmt.Sprintf("status %q", f.Status))
	}
	priority, err := ParsePriority(f.Priority)
	if err != nil {
		verr.Invalid = append(verr.Invalid, fmt.Sprintf("priority %q", f.Priority))
	}
	if len(verr.Missing) > 0 || len(verr.Invalid) > 0 {
		return Project{}, verr
	}

	progress := status.DefaultProgress()
	if f.Progress != nil {
		progress = ClampProgress(*f.Progress)
	}

	return Project{
		Title:       title,
		Description: description,
		URL:         strings.TrimSpace(f.URL),
		Status:      status,
		Priority:    priority,
		Progress:    progress,
		Tags:        NormalizeTags(f.Tags),
		ImageURL:    strings.TrimSpace(f.ImageURL),
		CreatedAt:   now.UTC(),
	}, nil
}

// ClampProgress limits p to [0, 100].
func ClampProgress(p int) int {
	return min(max(p, 0), 100)
}
