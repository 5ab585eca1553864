package projects

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle stage of a project.
type Status string

const (
	StatusIdea        Status = "idea"
	StatusPlanning    Status = "planning"
	StatusDevelopment Status = "development"
	StatusTesting     Status = "testing"
	StatusCompleted   Status = "completed"
)

// Priority is the urgency of a project.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Badge is the display label and color for a status or priority.
type Badge struct {
	Label string
	Color string
}

var statusInfo = map[Status]struct {
	Badge
	Progress int
}{
	StatusIdea:        {Badge{"Idea", "#6c757d"}, 10},
	StatusPlanning:    {Badge{"Planning", "#17a2b8"}, 30},
	StatusDevelopment: {Badge{"In Development", "#007bff"}, 60},
	StatusTesting:     {Badge{"Testing", "#ffc107"}, 80},
	StatusCompleted:   {Badge{"Completed", "#28a745"}, 100},
}

var priorityInfo = map[Priority]Badge{
	PriorityLow:      {"Low", "#6c757d"},
	PriorityMedium:   {"Medium", "#17a2b8"},
	PriorityHigh:     {"High", "#fd7e14"},
	PriorityCritical: {"Critical", "#dc3545"},
}

// AllStatuses returns every status in lifecycle order.
func AllStatuses() []Status {
	return []Status{StatusIdea, StatusPlanning, StatusDevelopment, StatusTesting, StatusCompleted}
}

// AllPriorities returns every priority from lowest to highest.
func AllPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
}

// ParseStatus parses s case-insensitively. Empty input yields StatusIdea.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if st == "" {
		return StatusIdea, nil
	}
	if _, ok := statusInfo[st]; !ok {
		return StatusIdea, fmt.Errorf("invalid status: %q", s)
	}
	return st, nil
}

// ParsePriority parses s case-insensitively. Empty input yields PriorityMedium.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return PriorityMedium, nil
	}
	if _, ok := priorityInfo[p]; !ok {
		return PriorityMedium, fmt.Errorf("invalid priority: %q", s)
	}
	return p, nil
}

// DefaultProgress is the progress implied by a status. Unknown statuses
// yield 0.
func (s Status) DefaultProgress() int {
	return statusInfo[s].Progress
}

// Badge returns the display label and color. Unknown statuses are shown
// verbatim in grey.
func (s Status) Badge() Badge {
	if info, ok := statusInfo[s]; ok {
		return info.Badge
	}
	return Badge{Label: string(s), Color: "#6c757d"}
}

// Badge returns the display label and color.
func (p Priority) Badge() Badge {
	if b, ok := priorityInfo[p]; ok {
		return b
	}
	return Badge{Label: string(p), Color: "#6c757d"}
}

// Project is the single persisted entity of the site.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	Progress    int       `json:"progress"`
	Tags        []string  `json:"tags"`
	ImageURL    string    `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Fields are the raw values collected by the admin form. A nil Progress
// means "derive it from the status".
type Fields struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	Progress    *int     `json:"progress,omitempty"`
	Tags        []string `json:"tags"`
	ImageURL    string   `json:"imageUrl"`
}
