// Package storage persists learner progress as JSON documents in a key-value store.
package storage

import (
	"context"
	"errors"
)

// ErrCorruptRecord reports a stored document that exists but cannot be used,
// such as a missing or malformed date
var ErrCorruptRecord = errors.New("corrupt stored record")

// Store is a string key-value store. Get reports ok == false for an absent key.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Checker is implemented by stores that can report their health
type Checker interface {
	Check(ctx context.Context) error
}
