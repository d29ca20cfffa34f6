package store

import (
	"context"
	"fmt"
)

// Options selects and locates the persistence backends.
type Options struct {
	Backend     string // "memory" or "redis"
	Redis       RedisOptions
	PostgresDSN string // Empty disables run history
}

// Open connects the configured backends. The recorder is a NopRecorder when
// no DSN is set; close it with CloseRecorder.
func Open(ctx context.Context, opts Options) (Backend, RunRecorder, error) {
	var backend Backend
	switch opts.Backend {
	case "", "memory":
		backend = NewMemory()
	case "redis":
		r, err := NewRedis(ctx, opts.Redis)
		if err != nil {
			return nil, nil, err
		}
		backend = r
	default:
		return nil, nil, fmt.Errorf("store: unknown backend %q", opts.Backend)
	}

	if opts.PostgresDSN == "" {
		return backend, NopRecorder{}, nil
	}
	runs, err := OpenPostgresRuns(ctx, opts.PostgresDSN)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	return backend, runs, nil
}

// CloseRecorder closes rec if it holds a connection.
func CloseRecorder(rec RunRecorder) error {
	if c, ok := rec.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
