package projects

import (
	"time"

	"github.com/innovation-earth/iepsite/internal/remote"
)

// toDocument converts p into the field map written to the remote store. The
// ID is not stored; the store assigns it.
func toDocument(p Project) map[string]any {
	tags := make([]string, len(p.Tags))
	copy(tags, p.Tags)
	return map[string]any{
		"title":       p.Title,
		"description": p.Description,
		"url":         p.URL,
		"status":      string(p.Status),
		"priority":    string(p.Priority),
		"progress":    int64(p.Progress),
		"tags":        tags,
		"imageUrl":    p.ImageURL,
		"createdAt":   p.CreatedAt,
	}
}

// fromDocument converts a stored document back into a Project. Values written
// by other clients may use different numeric and list types, so each field is
// read leniently.
func fromDocument(doc remote.Document) Project {
	d := doc.Data
	p := Project{
		ID:          doc.ID,
		Title:       stringField(d, "title"),
		Description: stringField(d, "description"),
		URL:         stringField(d, "url"),
		Status:      Status(stringField(d, "status")),
		Priority:    Priority(stringField(d, "priority")),
		Progress:    intField(d, "progress"),
		Tags:        stringsField(d, "tags"),
		ImageURL:    stringField(d, "imageUrl"),
		CreatedAt:   timeField(d, "createdAt"),
	}
	if p.Status == "" {
		p.Status = StatusIdea
	}
	if p.Priority == "" {
		p.Priority = PriorityMedium
	}
	return p
}

func stringField(d map[string]any, key string) string {
	s, _ := d[key].(string)
	return s
}

func intField(d map[string]any, key string) int {
	switch v := d[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func stringsField(d map[string]any, key string) []string {
	switch v := d[key].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

func timeField(d map[string]any, key string) time.Time {
	switch v := d[key].(type) {
	case time.Time:
		return v.UTC()
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
