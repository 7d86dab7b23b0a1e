package kvstore

import (
	"context"
	"fmt"
)

// Options selects and configures a storage backend.
type Options struct {
	Driver     Driver
	FSRoot     string   // driver=fs
	SQLitePath string   // driver=sqlite
	S3         S3Config // driver=s3
}

// Open constructs the configured backend. Called once at process startup;
// callers should follow up with Ping to verify reachability before
// serving traffic.
func Open(ctx context.Context, opts Options) (Store, error) {
	driver := opts.Driver
	if driver == "" {
		driver = DriverFS
	}
	switch driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFS:
		return NewFS(opts.FSRoot)
	case DriverSQLite:
		return NewSQLite(opts.SQLitePath)
	case DriverS3:
		return NewS3(ctx, opts.S3)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
