// Package sections resolves which page section is visible and keeps the
// navigation highlight, address bar and persisted choice in step with it.
package sections

import "strings"

// ID names a page section.
type ID string

const (
	Home         ID = "home"
	About        ID = "about"
	Projects     ID = "projects"
	Competitions ID = "competitions"
	Join         ID = "join"
	Contact      ID = "contact"
	Initiatives  ID = "initiatives"
)

var titles = map[ID]string{
	Home:         "Home",
	About:        "About",
	Projects:     "Projects",
	Competitions: "Competitions",
	Join:         "Get Involved",
	Contact:      "Contact",
	Initiatives:  "Initiatives",
}

// All returns every section in page order.
func All() []ID {
	return []ID{Home, About, Projects, Competitions, Join, Contact, Initiatives}
}

// Known reports whether id is one of All.
func (id ID) Known() bool {
	_, ok := titles[id]
	return ok
}

// Title is the navigation label for id.
func (id ID) Title() string {
	if t, ok := titles[id]; ok {
		return t
	}
	return string(id)
}

// Parse normalizes a raw section reference. It accepts "projects",
// "#projects", "/projects" and "/projects/". Empty references ("", "#", "/")
// name Home. The result may be unknown; check with Known.
func Parse(raw string) ID {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "#")
	s = strings.Trim(s, "/")
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return Home
	}
	return ID(strings.ToLower(s))
}

// Path is the canonical address-bar path for id.
func Path(id ID) string {
	if id == Home {
		return "/"
	}
	return "/" + string(id)
}

// Location is the part of the address bar that can name a section.
type Location struct {
	Path     string
	Fragment string
}

// Resolve returns the section named by loc. A fragment naming a known
// section wins over the path; any other fragment, such as an in-page anchor,
// falls through to the path. ok is false when neither names a known section.
func Resolve(loc Location) (id ID, ok bool) {
	frag := strings.TrimPrefix(strings.TrimSpace(loc.Fragment), "#")
	if frag != "" {
		id = Parse(frag)
		if id.Known() {
			return id, true
		}
	}
	path := strings.Trim(strings.TrimSpace(loc.Path), "/")
	if path == "" {
		return id, false
	}
	if pid := Parse(path); pid.Known() || id == "" {
		return pid, pid.Known()
	}
	return id, false
}
