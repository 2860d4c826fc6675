package database

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// SeedBlockedWords downloads a newline-separated word list into blocked_words.
// It does nothing when the table already has entries or url is empty.
func (db *DB) SeedBlockedWords(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM blocked_words").Scan(&count); err != nil {
		return fmt.Errorf("failed to check blocked words count: %w", err)
	}
	if count > 0 {
		log.Printf("Blocked word filter already populated with %d words", count)
		return nil
	}

	log.Println("Downloading blocked word list...")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build blocked words request: %w", err)
	}
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download blocked words list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status code from blocked words URL: %d", resp.StatusCode)
	}

	added := 0
	err = db.WithTx(func(tx *Tx) error {
		stmt, err := tx.Prepare(db.Dialect.RewriteQuery(db.Dialect.InsertIgnore("blocked_words", "word")))
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			word := normalizeBlocked(scanner.Text())
			if word == "" || strings.HasPrefix(word, "#") {
				continue
			}
			res, err := stmt.Exec(word)
			if err != nil {
				return fmt.Errorf("failed to insert blocked word %q: %w", word, err)
			}
			if n, err := res.RowsAffected(); err == nil {
				added += int(n)
			}
		}
		return scanner.Err()
	})
	if err != nil {
		return fmt.Errorf("failed to seed blocked words: %w", err)
	}

	log.Printf("Blocked word filter populated with %d words", added)
	return nil
}

// IsBlockedWord checks a single word against the filter
func (db *DB) IsBlockedWord(word string) (bool, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM blocked_words WHERE word = ?", normalizeBlocked(word)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check blocked word: %w", err)
	}
	if count > 0 {
		log.Printf("Blocked word detected: %q", word)
	}
	return count > 0, nil
}

// BlockedWords returns the subset of words present in the filter
func (db *DB) BlockedWords(words []string) ([]string, error) {
	var blocked []string
	for _, word := range words {
		isBlocked, err := db.IsBlockedWord(word)
		if err != nil {
			return nil, err
		}
		if isBlocked {
			blocked = append(blocked, word)
		}
	}
	return blocked, nil
}

func normalizeBlocked(word string) string {
	return strings.TrimSpace(strings.ToLower(word))
}
