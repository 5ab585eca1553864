package sections

import (
	"context"
	"sync"

	"github.com/innovation-earth/iepsite/internal/localstore"
	"github.com/innovation-earth/iepsite/internal/logging"
)

// Trigger says what caused a show and therefore how history is updated.
type Trigger int

const (
	// Programmatic navigation replaces the current history entry.
	Programmatic Trigger = iota
	// UserClick navigation pushes a new history entry.
	UserClick
	// HistoryPop navigation leaves history untouched.
	HistoryPop
)

func (t Trigger) String() string {
	switch t {
	case UserClick:
		return "click"
	case HistoryPop:
		return "popstate"
	default:
		return "programmatic"
	}
}

// HistoryOp is the address-bar update a transition asks for.
type HistoryOp string

const (
	HistoryNone    HistoryOp = ""
	HistoryReplace HistoryOp = "replace"
	HistoryPush    HistoryOp = "push"
)

// Transition describes the page changes produced by one show.
type Transition struct {
	// Requested is the reference passed to Show, after normalization.
	Requested ID
	// Section is the section made visible. Empty when none could be shown.
	Section ID
	// Highlight is the nav link marked active. Empty when Section has none.
	Highlight ID
	URL       string
	History   HistoryOp
	ScrollTop bool
	// Loaded is set when Section has a loader and it ran.
	Loaded  bool
	LoadErr error
}

// Shown reports whether a section was made visible.
func (t Transition) Shown() bool { return t.Section != "" }

// Fallback reports whether the requested section was replaced by another.
func (t Transition) Fallback() bool { return t.Section != t.Requested }

// Loader fills a section's side-loaded content.
type Loader func(ctx context.Context) error

// StateStore persists the last active section.
type StateStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Controller is the state machine deciding which section is visible. Exactly
// one section is visible after the first successful show, and the
// highlighted nav link always matches it.
type Controller struct {
	mu        sync.Mutex
	state     StateStore
	available []ID
	present   map[ID]bool
	nav       map[ID]bool
	loaders   map[ID]Loader
	current   ID
	highlight ID
	log       logging.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithSections limits the controller to the sections present in the page,
// in page order. The default is All.
func WithSections(ids ...ID) Option {
	return func(c *Controller) { c.available = ids }
}

// WithNav sets the sections that have a navigation link. The default is
// every available section.
func WithNav(ids ...ID) Option {
	return func(c *Controller) {
		c.nav = make(map[ID]bool, len(ids))
		for _, id := range ids {
			c.nav[id] = true
		}
	}
}

// WithLoader registers the content loader run whenever id is shown.
func WithLoader(id ID, l Loader) Option {
	return func(c *Controller) { c.loaders[id] = l }
}

// NewController creates a Controller. state may be nil to disable
// persistence.
func NewController(state StateStore, log logging.Logger, opts ...Option) *Controller {
	c := &Controller{
		state:     state,
		available: All(),
		loaders:   make(map[ID]Loader),
		log:       log.With(logging.String("component", "sections")),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.present = make(map[ID]bool, len(c.available))
	for _, id := range c.available {
		c.present[id] = true
	}
	if c.nav == nil {
		c.nav = c.present
	}
	return c
}

// Current returns the visible section, or "" before the first show.
func (c *Controller) Current() ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Highlighted returns the nav link currently marked active.
func (c *Controller) Highlighted() ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.highlight
}

// Sections returns the sections present in the page.
func (c *Controller) Sections() []ID {
	out := make([]ID, len(c.available))
	copy(out, c.available)
	return out
}

// Show makes the section named by raw visible. Unknown or absent sections
// fall back to Home, then to the first available section. Show never fails;
// problems are logged and reported in the returned Transition.
func (c *Controller) Show(ctx context.Context, raw string, trig Trigger) Transition {
	requested := Parse(raw)
	target := c.pick(requested)

	tr := Transition{Requested: requested, Section: target}
	if target == "" {
		c.log.Error("no section available to show", logging.String("requested", string(requested)))
		return tr
	}

	c.mu.Lock()
	c.current = target
	c.highlight = ""
	if c.nav[target] {
		c.highlight = target
	}
	tr.Highlight = c.highlight
	c.mu.Unlock()

	tr.URL = Path(target)
	tr.ScrollTop = true
	switch trig {
	case UserClick:
		tr.History = HistoryPush
	case HistoryPop:
		tr.History = HistoryNone
	default:
		tr.History = HistoryReplace
	}

	if c.state != nil {
		if err := c.state.Set(ctx, localstore.KeyLastActiveSection, string(target)); err != nil {
			c.log.Warn("persisting active section failed", logging.Err(err))
		}
	}

	if load, ok := c.loaders[target]; ok {
		tr.Loaded = true
		if err := load(ctx); err != nil {
			tr.LoadErr = err
			c.log.Error("loading section content failed",
				logging.String("section", string(target)), logging.Err(err))
		}
	}

	c.log.Debug("section shown",
		logging.String("section", string(target)),
		logging.String("trigger", trig.String()))
	return tr
}

// pick chooses the section to show for requested without recursing.
func (c *Controller) pick(requested ID) ID {
	if c.present[requested] {
		return requested
	}
	c.log.Warn("unknown section, falling back", logging.String("requested", string(requested)))
	if c.present[Home] {
		return Home
	}
	if len(c.available) > 0 {
		return c.available[0]
	}
	return ""
}

// Init picks the starting section: the one named by loc if known, else the
// persisted last active section, else Home. It shows exactly once.
func (c *Controller) Init(ctx context.Context, loc Location) Transition {
	if id, ok := Resolve(loc); ok && c.present[id] {
		return c.Show(ctx, string(id), Programmatic)
	}
	if saved := c.saved(ctx); saved != "" {
		return c.Show(ctx, string(saved), Programmatic)
	}
	return c.Show(ctx, string(Home), Programmatic)
}

func (c *Controller) saved(ctx context.Context) ID {
	if c.state == nil {
		return ""
	}
	raw, ok, err := c.state.Get(ctx, localstore.KeyLastActiveSection)
	if err != nil {
		c.log.Warn("reading last active section failed", logging.Err(err))
		return ""
	}
	if !ok {
		return ""
	}
	id := Parse(raw)
	if !c.present[id] {
		return ""
	}
	return id
}

// PopState re-displays the section named by the address bar after a
// back/forward navigation without touching history.
func (c *Controller) PopState(ctx context.Context, loc Location) Transition {
	id, ok := Resolve(loc)
	if !ok && id == "" {
		id = Home
	}
	return c.Show(ctx, string(id), HistoryPop)
}
