package models

import "time"

// WordList represents a named list of words to practice
type WordList struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Words       []string  `json:"words"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Word represents a single word in a list
type Word struct {
	ID            int64     `json:"id"`
	WordListID    int64     `json:"word_list_id"`
	Text          string    `json:"text"`
	Position      int       `json:"position"`
	AudioFilename string    `json:"audio_filename,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListSummary is a word list without its words, for listings
type ListSummary struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	WordCount   int       `json:"word_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}
