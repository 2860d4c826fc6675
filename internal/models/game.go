package models

import "time"

// GameType identifies a mini-game mechanic
type GameType string

const (
	GameDefinitionMatch GameType = "definition-match"
	GameMissingLetter   GameType = "missing-letter"
	GameHangman         GameType = "hangman"
	GameLetterScramble  GameType = "letter-scramble"
)

// GameResult is one completed game attempt. Results are append-only.
type GameResult struct {
	ID          string    `json:"id"`
	Word        string    `json:"word"`
	GameType    GameType  `json:"game_type"`
	Correct     bool      `json:"correct"`
	LatencyMs   int64     `json:"latency_ms"`
	CompletedAt time.Time `json:"completed_at"`
}

// WordStats is the per-word aggregate derived from game results
type WordStats struct {
	Word       string  `json:"word"`
	Attempts   int     `json:"attempts"`
	Correct    int     `json:"correct"`
	Confidence float64 `json:"confidence"`
}

// SessionStats is a read-only snapshot of a play session
type SessionStats struct {
	TotalGames    int           `json:"total_games"`
	Accuracy      float64       `json:"accuracy"`
	Elapsed       time.Duration `json:"elapsed_ns"`
	MasteredWords int           `json:"mastered_words"`
}
