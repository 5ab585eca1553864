package projects

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strconv"
	"time"

	"github.com/innovation-earth/iepsite/internal/localstore"
	"github.com/innovation-earth/iepsite/internal/logging"
	"github.com/innovation-earth/iepsite/internal/notify"
	"github.com/innovation-earth/iepsite/internal/remote"
)

// DefaultRemoteTimeout bounds each call to the remote store.
const DefaultRemoteTimeout = 10 * time.Second

var (
	// ErrNoRemote is returned by SyncLocal when no remote store is configured.
	ErrNoRemote = errors.New("no remote store configured")
	// ErrNotDeleted is returned by Delete when the remote store could not be
	// reached and the project is not held locally either.
	ErrNotDeleted = errors.New("remote store unavailable, project not deleted")
)

// Repository stores projects in the remote store when it is reachable and in
// the local fallback store otherwise.
//
// Reads try the remote store first and fall back to the local store on any
// failure. Writes do the same and additionally tell the user, through the
// notifier carried by ctx, that the change was kept locally.
type Repository struct {
	remote  remote.Collection
	local   *localstore.Store
	log     logging.Logger
	timeout time.Duration
	now     func() time.Time
}

// NewRepository creates a Repository. rc may be nil, in which case only the
// local store is used.
func NewRepository(rc remote.Collection, local *localstore.Store, log logging.Logger, timeout time.Duration) *Repository {
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	return &Repository{
		remote:  rc,
		local:   local,
		log:     log.With(logging.String("component", "projects")),
		timeout: timeout,
		now:     time.Now,
	}
}

// RemoteAvailable reports whether a remote store is configured.
func (r *Repository) RemoteAvailable() bool {
	return r.remote != nil
}

// Create validates f and stores the resulting project. It returns a
// *ValidationError when required fields are missing.
func (r *Repository) Create(ctx context.Context, f Fields) (*Project, error) {
	p, err := f.Build(r.now())
	if err != nil {
		return nil, err
	}

	if r.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, r.timeout)
		id, err := r.remote.Add(rctx, toDocument(p))
		cancel()
		if err == nil {
			p.ID = id
			r.log.Info("project created", logging.String("id", id), logging.String("store", "remote"))
			return &p, nil
		}
		r.log.Warn("remote create failed, saving locally", logging.Err(err))
		notify.FromContext(ctx).Notify("Remote store unavailable: project saved locally.", notify.KindWarning)
	}

	p.ID = newLocalID(p.CreatedAt)
	err = localstore.UpdateList(ctx, r.local, localstore.KeyProjects, func(items []Project) []Project {
		return append(items, p)
	})
	if err != nil {
		return nil, fmt.Errorf("saving project locally: %w", err)
	}
	r.log.Info("project created", logging.String("id", p.ID), logging.String("store", "local"))
	return &p, nil
}

// List returns every project, newest first. An empty store yields an empty,
// non-nil slice.
func (r *Repository) List(ctx context.Context) ([]Project, error) {
	if r.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, r.timeout)
		docs, err := r.remote.All(rctx)
		cancel()
		if err == nil {
			items := make([]Project, 0, len(docs))
			for _, doc := range docs {
				items = append(items, fromDocument(doc))
			}
			sortNewestFirst(items)
			return items, nil
		}
		r.log.Warn("remote list failed, reading local store", logging.Err(err))
	}

	items, err := r.listLocal(ctx)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(items)
	return items, nil
}

func (r *Repository) listLocal(ctx context.Context) ([]Project, error) {
	items, err := localstore.LoadList[Project](ctx, r.local, localstore.KeyProjects)
	if errors.Is(err, localstore.ErrMalformed) {
		r.log.Warn("local projects unreadable, treating as empty", logging.Err(err))
		return []Project{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading local projects: %w", err)
	}
	return items, nil
}

// Delete removes the project with the given id from whichever store holds
// it. Unknown ids are ignored. When the remote store is unreachable only a
// locally held project can be removed; any other id yields ErrNotDeleted.
func (r *Repository) Delete(ctx context.Context, id string) error {
	var remoteErr error
	if r.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, r.timeout)
		remoteErr = r.remote.Delete(rctx, id)
		cancel()
		if remoteErr != nil {
			r.log.Warn("remote delete failed, trying local store", logging.String("id", id), logging.Err(remoteErr))
		}
	}

	found := false
	err := localstore.UpdateList(ctx, r.local, localstore.KeyProjects, func(items []Project) []Project {
		n := len(items)
		items = slices.DeleteFunc(items, func(p Project) bool { return p.ID == id })
		found = len(items) != n
		return items
	})
	if err != nil {
		return fmt.Errorf("deleting local project: %w", err)
	}

	if remoteErr != nil {
		if !found {
			return fmt.Errorf("%w: %v", ErrNotDeleted, remoteErr)
		}
		notify.FromContext(ctx).Notify("Remote store unavailable: deleted the locally saved project only.", notify.KindWarning)
	}
	r.log.Info("project deleted", logging.String("id", id), logging.Bool("local", found))
	return nil
}

// SyncLocal copies every project held in the local fallback store into the
// remote store, removing each one locally once it has been written. progress,
// if non-nil, is called after each project. It returns the number of
// projects moved.
func (r *Repository) SyncLocal(ctx context.Context, progress func(done, total int, title string)) (int, error) {
	if r.remote == nil {
		return 0, ErrNoRemote
	}
	items, err := r.listLocal(ctx)
	if err != nil {
		return 0, err
	}

	moved := 0
	for i, p := range items {
		rctx, cancel := context.WithTimeout(ctx, r.timeout)
		_, err := r.remote.Add(rctx, toDocument(p))
		cancel()
		if err != nil {
			return moved, fmt.Errorf("syncing project %s: %w", p.ID, err)
		}
		localID := p.ID
		err = localstore.UpdateList(ctx, r.local, localstore.KeyProjects, func(items []Project) []Project {
			return slices.DeleteFunc(items, func(p Project) bool { return p.ID == localID })
		})
		if err != nil {
			return moved, fmt.Errorf("removing synced project %s: %w", localID, err)
		}
		moved++
		if progress != nil {
			progress(i+1, len(items), p.Title)
		}
	}

	if rest, err := r.listLocal(ctx); err == nil && len(rest) == 0 {
		if err := r.local.Delete(ctx, localstore.KeyProjects); err != nil {
			r.log.Warn("clearing local projects failed", logging.Err(err))
		}
	}
	return moved, nil
}

func sortNewestFirst(items []Project) {
	slices.SortStableFunc(items, func(a, b Project) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newLocalID builds project_<unix millis>_<9 random base36 chars>.
func newLocalID(t time.Time) string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return "project_" + strconv.FormatInt(t.UnixMilli(), 10) + "_" + string(suffix)
}
