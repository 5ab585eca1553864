package render

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/innovation-earth/iepsite/internal/logging"
	"github.com/innovation-earth/iepsite/internal/projects"
)

// Source lists projects, newest first.
type Source interface {
	List(ctx context.Context) ([]projects.Project, error)
}

// Region is a replaceable block of the page.
type Region interface {
	Replace(ctx context.Context, html string) error
}

// RegionFunc adapts a function to Region.
type RegionFunc func(ctx context.Context, html string) error

func (f RegionFunc) Replace(ctx context.Context, html string) error { return f(ctx, html) }

// ListRenderer re-renders the whole project list on demand. Each refresh
// takes a token; a result whose token is no longer the newest is dropped, so
// a slow earlier load never overwrites a later one.
type ListRenderer struct {
	src    Source
	region Region
	views  *Views
	log    logging.Logger

	token atomic.Uint64
	mu    sync.Mutex
}

// NewListRenderer creates a ListRenderer writing into region.
func NewListRenderer(src Source, region Region, views *Views, log logging.Logger) *ListRenderer {
	return &ListRenderer{
		src:    src,
		region: region,
		views:  views,
		log:    log.With(logging.String("component", "list")),
	}
}

// Refresh shows the loading state, fetches every project and replaces the
// region with the empty state, the error state or one card per project. The
// returned error is the load error, if any, after the error state has been
// shown.
func (l *ListRenderer) Refresh(ctx context.Context) error {
	tok, err := l.Begin(ctx)
	if err != nil {
		return err
	}
	return l.Load(ctx, tok)
}

// Begin takes a new token and shows the loading state. Any refresh still in
// flight is superseded.
func (l *ListRenderer) Begin(ctx context.Context) (uint64, error) {
	tok := l.token.Add(1)
	if err := l.replace(ctx, tok, l.views.Loading()); err != nil {
		return tok, err
	}
	return tok, nil
}

// Load fetches the projects and renders them for the refresh started with
// tok. It does nothing if a newer refresh has begun in the meantime.
func (l *ListRenderer) Load(ctx context.Context, tok uint64) error {
	items, loadErr := l.src.List(ctx)
	if l.token.Load() != tok {
		l.log.Debug("dropping stale project list", logging.Uint64("token", tok))
		return nil
	}
	if loadErr != nil {
		l.log.Error("loading projects failed", logging.Err(loadErr))
	}

	html, err := l.views.ProjectList(items, loadErr)
	if err != nil {
		return err
	}
	if err := l.replace(ctx, tok, html); err != nil {
		return err
	}
	l.log.Debug("project list rendered", logging.Int("count", len(items)))
	return loadErr
}

func (l *ListRenderer) replace(ctx context.Context, tok uint64, html string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.token.Load() != tok {
		l.log.Debug("dropping stale project list", logging.Uint64("token", tok))
		return nil
	}
	if err := l.region.Replace(ctx, html); err != nil {
		return fmt.Errorf("replacing project list: %w", err)
	}
	return nil
}
