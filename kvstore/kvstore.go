/*
kvstore.go - Namespaced key-value store abstraction

PURPOSE:
  Defines the interface between the counting domain and durable storage.
  The store is partitioned into named namespaces; each namespace holds
  key -> JSON document entries. Every domain operation reads a full
  document, mutates a copy, and writes the full document back.

KEY INTERFACES:
  Store:     Root handle. Hands out Namespace handles, reports its driver,
             and answers a one-time capability probe (Ping).
  Namespace: List / Get / Set / Delete over opaque byte values.

DOCUMENT GRANULARITY:
  There is no partial update and no optimistic-concurrency token. Two
  concurrent writers to the same key race and the last full-document
  write wins. The domain accepts this (single operator per session).

IMPLEMENTATIONS:
  - memory.go: In-memory, for tests.
  - fs.go:     Local filesystem, the development default.
  - sqlite.go: Single-file SQLite database.
  - s3.go:     S3-compatible object storage, for deployments.

SELECTION:
  factory.go picks one backend from configuration at process startup.
  Ping is called once after construction; a backend that cannot reach
  its storage fails startup instead of failing per request.

SEE ALSO:
  - codec.go: Typed JSON document read/write on top of Namespace
  - factory.go: Driver selection
*/
package kvstore

import (
	"context"
	"errors"
)

// Driver identifies a concrete storage backend implementation.
type Driver string

const (
	// DriverMemory is the in-memory backend (tests).
	DriverMemory Driver = "memory"
	// DriverFS is the local filesystem backend (default, dev).
	DriverFS Driver = "fs"
	// DriverSQLite is the single-file SQLite backend.
	DriverSQLite Driver = "sqlite"
	// DriverS3 is the S3 / MinIO compatible backend.
	DriverS3 Driver = "s3"
)

// ErrKeyNotFound is returned by Get when the key has no stored value.
// Callers that want a typed default should go through codec.ReadJSON.
var ErrKeyNotFound = errors.New("kvstore: key not found")

// Namespace is one partition of the store holding related keys.
type Namespace interface {
	// List returns every key currently stored in the namespace.
	List(ctx context.Context) ([]string, error)

	// Get returns the stored value, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the full value for a key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Store is the root handle to a storage backend.
type Store interface {
	// Namespace returns a handle for the named partition. Handles are
	// cheap and may be constructed per call.
	Namespace(name string) Namespace

	// Ping verifies the backend is reachable and credentials work.
	// Called once at startup, never per request.
	Ping(ctx context.Context) error

	// Driver reports which backend this store is.
	Driver() Driver

	// Close releases backend resources.
	Close() error
}
