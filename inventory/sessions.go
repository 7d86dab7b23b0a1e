/*
sessions.go - Session registry

PURPOSE:
  Manages the list of counting sessions and cascades deletion to every
  related document. The whole session list lives in one document
  ("sessions" key in the sessions namespace), newest first.

CASCADE RULE:
  Deleting a session removes it from the list, then walks the counts,
  destructions and mapping namespaces deleting every key that contains
  the session id. Related keys are the bare session id today, but the
  contains-check also catches composite keys from older layouts.

SEE ALSO:
  - counts.go, destructions.go, mappingstore.go: Owners of the related keys
*/
package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sharbatly/count-engine/kvstore"
)

const sessionsKey = "sessions"

// Registry manages counting sessions.
type Registry struct {
	store kvstore.Store
	now   func() time.Time
}

// NewRegistry creates a registry over the given store.
func NewRegistry(store kvstore.Store) *Registry {
	return &Registry{store: store, now: time.Now}
}

// List returns all sessions, most recently created first.
func (r *Registry) List(ctx context.Context) ([]Session, error) {
	ns := r.store.Namespace(NamespaceSessions)
	return kvstore.ReadJSON(ctx, ns, sessionsKey, []Session{})
}

// Create adds a new session with a fresh id and prepends it to the list.
func (r *Registry) Create(ctx context.Context, name, city string) (Session, error) {
	if strings.TrimSpace(name) == "" {
		return Session{}, &ValidationError{Field: "name"}
	}

	ns := r.store.Namespace(NamespaceSessions)
	sessions, err := kvstore.ReadJSON(ctx, ns, sessionsKey, []Session{})
	if err != nil {
		return Session{}, err
	}

	session := Session{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		City:      city,
		CreatedAt: r.now().UTC(),
	}
	sessions = append([]Session{session}, sessions...)

	if err := kvstore.WriteJSON(ctx, ns, sessionsKey, sessions); err != nil {
		return Session{}, err
	}
	return session, nil
}

// DeleteResult summarizes a single-session cascade delete.
type DeleteResult struct {
	SessionID         string
	DeletedRelated    int
	SessionsRemaining int
}

// Delete removes the session from the list and deletes every related
// key (counts, destructions, mapping) whose key contains the id.
func (r *Registry) Delete(ctx context.Context, id string) (DeleteResult, error) {
	if id == "" {
		return DeleteResult{}, &ValidationError{Field: "id"}
	}

	ns := r.store.Namespace(NamespaceSessions)
	sessions, err := kvstore.ReadJSON(ctx, ns, sessionsKey, []Session{})
	if err != nil {
		return DeleteResult{}, err
	}

	remaining := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		if s.ID != id {
			remaining = append(remaining, s)
		}
	}
	if err := kvstore.WriteJSON(ctx, ns, sessionsKey, remaining); err != nil {
		return DeleteResult{}, err
	}

	deleted := 0
	for _, name := range []string{NamespaceCounts, NamespaceDestructions, NamespaceMapping} {
		related := r.store.Namespace(name)
		keys, err := related.List(ctx)
		if err != nil {
			return DeleteResult{}, err
		}
		for _, key := range keys {
			if !strings.Contains(key, id) {
				continue
			}
			if err := related.Delete(ctx, key); err != nil {
				return DeleteResult{}, err
			}
			deleted++
		}
	}

	return DeleteResult{
		SessionID:         id,
		DeletedRelated:    deleted,
		SessionsRemaining: len(remaining),
	}, nil
}

// NamespaceWipe reports the outcome of wiping one namespace.
type NamespaceWipe struct {
	Before  int    `json:"before"`
	Deleted int    `json:"deleted"`
	Error   string `json:"error,omitempty"`
}

// DeleteAll clears every key in every known namespace. A failing
// namespace is recorded in the summary and does not abort the others.
func (r *Registry) DeleteAll(ctx context.Context) map[string]NamespaceWipe {
	summary := make(map[string]NamespaceWipe, len(Namespaces()))

	for _, name := range Namespaces() {
		ns := r.store.Namespace(name)
		keys, err := ns.List(ctx)
		if err != nil {
			summary[name] = NamespaceWipe{Error: err.Error()}
			continue
		}
		wipe := NamespaceWipe{Before: len(keys)}
		for _, key := range keys {
			if err := ns.Delete(ctx, key); err != nil {
				wipe.Error = err.Error()
				break
			}
			wipe.Deleted++
		}
		summary[name] = wipe
	}
	return summary
}
