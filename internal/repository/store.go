package repository

import (
	"context"
	"fmt"
	"log"

	"spellstory/internal/database"
	"spellstory/internal/storage"
)

// OpenStore picks the progress backend by name. The returned func releases any
// connection the backend opened and is never nil.
func OpenStore(ctx context.Context, backend, redisURL string, db *database.DB) (storage.Store, func() error, error) {
	noop := func() error { return nil }

	switch backend {
	case "sql", "":
		log.Println("Progress store: database")
		return NewKVRepository(db), noop, nil
	case "redis":
		rdb, err := storage.OpenRedis(ctx, redisURL)
		if err != nil {
			return nil, noop, err
		}
		log.Println("Progress store: redis")
		return storage.NewRedisStore(rdb), rdb.Close, nil
	case "memory":
		log.Println("Warning: progress store is in memory, progress is lost on restart")
		return storage.NewMemoryStore(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown store backend %q", backend)
	}
}
