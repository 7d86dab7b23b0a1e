package inventory

import (
	"context"

	"github.com/sharbatly/count-engine/kvstore"
)

// MappingStore persists the chosen column mapping per session so an
// operator reloading the page does not re-map the upload by hand.
type MappingStore struct {
	ns kvstore.Namespace
}

// NewMappingStore creates a mapping store over the given store's
// mapping namespace.
func NewMappingStore(store kvstore.Store) *MappingStore {
	return &MappingStore{ns: store.Namespace(NamespaceMapping)}
}

// Get returns the stored mapping, or nil when none has been saved.
func (s *MappingStore) Get(ctx context.Context, sessionID string) (*ColumnMapping, error) {
	if sessionID == "" {
		return nil, &ValidationError{Field: "sessionId"}
	}
	return kvstore.ReadJSON[*ColumnMapping](ctx, s.ns, sessionID, nil)
}

// Put stores the mapping for a session, replacing any previous one.
func (s *MappingStore) Put(ctx context.Context, sessionID string, mapping *ColumnMapping) error {
	if sessionID == "" {
		return &ValidationError{Field: "sessionId"}
	}
	if mapping == nil {
		return &ValidationError{Field: "mapping"}
	}
	return kvstore.WriteJSON(ctx, s.ns, sessionID, mapping)
}
