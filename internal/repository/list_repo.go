package repository

import (
	"database/sql"
	"fmt"
	"time"

	"spellstory/internal/database"
	"spellstory/internal/models"
)

// ListRepository handles database operations for word lists and words
type ListRepository struct {
	db *database.DB
}

// NewListRepository creates a new list repository
func NewListRepository(db *database.DB) *ListRepository {
	return &ListRepository{db: db}
}

// CreateList creates a word list together with its words
func (r *ListRepository) CreateList(name, description string, words []string) (*models.WordList, error) {
	var listID int64
	err := r.db.WithTx(func(tx *database.Tx) error {
		id, err := tx.ExecReturningID(
			"INSERT INTO word_lists (name, description) VALUES (?, ?)",
			name, description,
		)
		if err != nil {
			return fmt.Errorf("failed to create list: %w", err)
		}
		listID = id
		return insertWords(tx, listID, words, 0)
	})
	if err != nil {
		return nil, err
	}

	return r.GetListByID(listID)
}

// GetListByID retrieves a word list with its words in order. Returns nil when not found.
func (r *ListRepository) GetListByID(listID int64) (*models.WordList, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM word_lists
		WHERE id = ?
	`
	list := &models.WordList{}
	err := r.db.QueryRow(query, listID).Scan(
		&list.ID,
		&list.Name,
		&list.Description,
		&list.CreatedAt,
		&list.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}

	words, err := r.GetListWords(listID)
	if err != nil {
		return nil, err
	}
	list.Words = make([]string, 0, len(words))
	for _, w := range words {
		list.Words = append(list.Words, w.Text)
	}

	return list, nil
}

// GetAllLists retrieves every list with its word count, most recently updated first
func (r *ListRepository) GetAllLists() ([]models.ListSummary, error) {
	query := `
		SELECT wl.id, wl.name, wl.description, wl.updated_at, COUNT(w.id) AS word_count
		FROM word_lists wl
		LEFT JOIN words w ON w.word_list_id = wl.id
		GROUP BY wl.id, wl.name, wl.description, wl.updated_at
		ORDER BY wl.updated_at DESC, wl.id DESC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}
	defer rows.Close()

	lists := []models.ListSummary{}
	for rows.Next() {
		var list models.ListSummary
		if err := rows.Scan(
			&list.ID,
			&list.Name,
			&list.Description,
			&list.UpdatedAt,
			&list.WordCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, list)
	}

	return lists, rows.Err()
}

// UpdateList updates a list's name and description
func (r *ListRepository) UpdateList(listID int64, name, description string) error {
	query := "UPDATE word_lists SET name = ?, description = ?, updated_at = ? WHERE id = ?"
	_, err := r.db.Exec(query, name, description, time.Now().UTC(), listID)
	if err != nil {
		return fmt.Errorf("failed to update list: %w", err)
	}
	return nil
}

// DeleteList deletes a list; its words go with it
func (r *ListRepository) DeleteList(listID int64) error {
	err := r.db.WithTx(func(tx *database.Tx) error {
		if _, err := tx.Exec("DELETE FROM words WHERE word_list_id = ?", listID); err != nil {
			return err
		}
		_, err := tx.Exec("DELETE FROM word_lists WHERE id = ?", listID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return nil
}

// AddWords appends words after the current last position
func (r *ListRepository) AddWords(listID int64, words []string) error {
	return r.db.WithTx(func(tx *database.Tx) error {
		var next int
		err := tx.QueryRow("SELECT COALESCE(MAX(position) + 1, 0) FROM words WHERE word_list_id = ?", listID).Scan(&next)
		if err != nil {
			return fmt.Errorf("failed to read word positions: %w", err)
		}
		if err := insertWords(tx, listID, words, next); err != nil {
			return err
		}
		return touchList(tx, listID)
	})
}

// ReplaceWords swaps the whole word sequence of a list
func (r *ListRepository) ReplaceWords(listID int64, words []string) error {
	return r.db.WithTx(func(tx *database.Tx) error {
		if _, err := tx.Exec("DELETE FROM words WHERE word_list_id = ?", listID); err != nil {
			return fmt.Errorf("failed to clear words: %w", err)
		}
		if err := insertWords(tx, listID, words, 0); err != nil {
			return err
		}
		return touchList(tx, listID)
	})
}

// GetListWords retrieves all words for a list in position order
func (r *ListRepository) GetListWords(listID int64) ([]models.Word, error) {
	query := `
		SELECT id, word_list_id, word_text, position, audio_filename, created_at
		FROM words
		WHERE word_list_id = ?
		ORDER BY position ASC, id ASC
	`
	rows, err := r.db.Query(query, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to query words: %w", err)
	}
	defer rows.Close()

	var words []models.Word
	for rows.Next() {
		var word models.Word
		var audioFilename sql.NullString
		if err := rows.Scan(
			&word.ID,
			&word.WordListID,
			&word.Text,
			&word.Position,
			&audioFilename,
			&word.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		if audioFilename.Valid {
			word.AudioFilename = audioFilename.String
		}
		words = append(words, word)
	}

	return words, rows.Err()
}

// UpdateWordAudio records the pronunciation file for a word
func (r *ListRepository) UpdateWordAudio(wordID int64, audioFilename string) error {
	query := "UPDATE words SET audio_filename = ? WHERE id = ?"
	_, err := r.db.Exec(query, audioFilename, wordID)
	if err != nil {
		return fmt.Errorf("failed to update word audio: %w", err)
	}
	return nil
}

func insertWords(tx database.DBTX, listID int64, words []string, startPosition int) error {
	for i, text := range words {
		_, err := tx.Exec(
			"INSERT INTO words (word_list_id, word_text, position) VALUES (?, ?, ?)",
			listID, text, startPosition+i,
		)
		if err != nil {
			return fmt.Errorf("failed to add word %q: %w", text, err)
		}
	}
	return nil
}

func touchList(tx database.DBTX, listID int64) error {
	_, err := tx.Exec("UPDATE word_lists SET updated_at = ? WHERE id = ?", time.Now().UTC(), listID)
	if err != nil {
		return fmt.Errorf("failed to touch list: %w", err)
	}
	return nil
}
