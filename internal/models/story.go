package models

import "time"

// WordInfo is metadata about a word provided by the text generator
type WordInfo struct {
	Meaning      string   `json:"meaning"`
	Hint         string   `json:"hint"`
	SimilarWords []string `json:"similar_words"`
	Difficulty   int      `json:"difficulty"`
}

// BeatType tags a story beat as narrative or game
type BeatType string

const (
	BeatNarrative BeatType = "narrative"
	BeatGame      BeatType = "game"
)

// Beat is one unit of a generated story
type Beat struct {
	Type          BeatType  `json:"type"`
	Text          string    `json:"text"`
	Choices       []string  `json:"choices,omitempty"`
	TargetWord    string    `json:"target_word,omitempty"`
	GameType      GameType  `json:"game_type,omitempty"`
	ExtraWordInfo *WordInfo `json:"extra_word_info,omitempty"`
	Puzzle        *Puzzle   `json:"puzzle,omitempty"`
}

// Puzzle is the prepared challenge for a game beat. Only the fields of its
// mechanic are set.
type Puzzle struct {
	GameType        GameType `json:"game_type"`
	Display         string   `json:"display,omitempty"`
	MissingIndices  []int    `json:"missing_indices,omitempty"`
	Letters         []string `json:"letters,omitempty"`
	Options         []string `json:"options,omitempty"`
	Clue            string   `json:"clue,omitempty"`
	MaxWrongGuesses int      `json:"max_wrong_guesses,omitempty"`
}

// IsGame reports whether the beat is a game challenge
func (b Beat) IsGame() bool {
	return b.Type == BeatGame
}

// Story is a generated narrative with game beats
type Story struct {
	Title string `json:"title"`
	Beats []Beat `json:"beats"`
}

// PlaySession is one story playthrough for a learner
type PlaySession struct {
	ID        string               `json:"id"`
	Learner   string               `json:"learner"`
	ListID    int64                `json:"list_id"`
	Words     []string             `json:"words"`
	Story     Story                `json:"story"`
	StartedAt time.Time            `json:"started_at"`
	Results   []GameResult         `json:"results"`
	WordStats map[string]WordStats `json:"word_stats"`
	FinaleAt  *time.Time           `json:"finale_at,omitempty"`
}
