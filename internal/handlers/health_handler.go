package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"spellstory/internal/storage"
)

const healthCheckTimeout = 3 * time.Second

// CheckFunc adapts a function to storage.Checker
type CheckFunc func(ctx context.Context) error

// Check calls f(ctx)
func (f CheckFunc) Check(ctx context.Context) error {
	return f(ctx)
}

type checkResult struct {
	Status string `json:"status"`
}

// Health reports the status of every named backend; 503 if any of them fails
func Health(checkers map[string]storage.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		checks := make(map[string]checkResult, len(checkers))
		status := http.StatusOK

		for name, checker := range checkers {
			if err := checker.Check(ctx); err != nil {
				log.Printf("Health check failed: %s: %v", name, err)
				checks[name] = checkResult{Status: "error"}
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = checkResult{Status: "ok"}
		}

		respondJSON(w, status, checks)
	}
}
