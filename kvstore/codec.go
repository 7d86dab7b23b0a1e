/*
codec.go - Typed JSON document access over a Namespace

PURPOSE:
  Every stored value in this system is a JSON document. ReadJSON returns
  a typed default when the key is absent (an absent counts document is an
  empty row list, not an error); WriteJSON overwrites the previous
  document in full.
*/
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ReadJSON reads key from ns and unmarshals it into a value of type T.
// When the key is absent the fallback is returned unchanged.
func ReadJSON[T any](ctx context.Context, ns Namespace, key string, fallback T) (T, error) {
	raw, err := ns.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return fallback, nil
	}
	if err != nil {
		return fallback, err
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return fallback, fmt.Errorf("decode document %q: %w", key, err)
	}
	return v, nil
}

// WriteJSON marshals v and stores it under key, replacing any previous
// document.
func WriteJSON(ctx context.Context, ns Namespace, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode document %q: %w", key, err)
	}
	return ns.Set(ctx, key, raw)
}
