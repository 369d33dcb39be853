package storage

import (
	"context"
	"fmt"
)

// Store is the durable key-value store the journal keeps all of its state
// in. Values are JSON documents; Get reports absence explicitly instead of
// returning an error.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Error wraps a storage failure with the operation and key it happened on.
// Callers can detect storage trouble with errors.As and decide whether to
// retry; nothing below this layer retries on its own.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
