package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// restoreTimeout bounds the background silent reauth of a new workspace.
const restoreTimeout = 30 * time.Second

// Registry holds the console's workspaces, one per browser.
type Registry struct {
	deps Deps

	mu    sync.Mutex
	items map[string]*Workspace
}

func NewRegistry(d Deps) *Registry {
	return &Registry{deps: d, items: map[string]*Workspace{}}
}

// Get returns a live workspace and marks it active.
func (r *Registry) Get(id string) (*Workspace, bool) {
	r.mu.Lock()
	w, ok := r.items[id]
	r.mu.Unlock()
	if ok {
		w.Touch()
	}
	return w, ok
}

// Create starts a workspace under a fresh id.
func (r *Registry) Create() (*Workspace, error) {
	return r.create(uuid.NewString())
}

// GetOrCreate returns the workspace for id, recreating it under the same id
// when the process no longer holds it so its vault entries still apply.
// An empty id always creates a new workspace.
func (r *Registry) GetOrCreate(id string) (w *Workspace, created bool, err error) {
	if id == "" {
		w, err = r.Create()
		return w, err == nil, err
	}
	if w, ok := r.Get(id); ok {
		return w, false, nil
	}
	w, err = r.create(id)
	return w, err == nil, err
}

func (r *Registry) create(id string) (*Workspace, error) {
	r.mu.Lock()
	if w, ok := r.items[id]; ok {
		r.mu.Unlock()
		return w, nil
	}
	w, err := NewWorkspace(id, r.deps)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.items[id] = w
	n := len(r.items)
	r.mu.Unlock()

	if r.deps.Metrics != nil {
		r.deps.Metrics.SetWorkspaces(n)
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), restoreTimeout)
		defer cancel()
		if err := w.Restore(ctx); err != nil {
			slog.Warn("workspace restore", "workspace", id, "error", err)
		}
	}()
	return w, nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Purge drops workspaces idle for longer than ttl and returns how many went.
func (r *Registry) Purge(now time.Time, ttl time.Duration) int {
	r.mu.Lock()
	removed := 0
	for id, w := range r.items {
		if now.Sub(w.LastSeen()) > ttl {
			delete(r.items, id)
			removed++
		}
	}
	n := len(r.items)
	r.mu.Unlock()

	if r.deps.Metrics != nil {
		r.deps.Metrics.SetWorkspaces(n)
	}
	return removed
}

// StartPurge runs Purge every interval until ctx is done.
func (r *Registry) StartPurge(ctx context.Context, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := r.Purge(now, ttl); n > 0 {
					slog.Info("purged idle workspaces", "count", n, "remaining", r.Len())
				}
			}
		}
	}()
}
