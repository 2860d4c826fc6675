package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"spellstory/internal/learning"
	"spellstory/internal/models"
	"spellstory/internal/puzzle"
	"spellstory/internal/storage"
	"spellstory/internal/validation"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrEmptyList        = errors.New("list has no words")
	ErrWordNotInSession = errors.New("word is not part of this session")
	ErrUnknownGameType  = errors.New("unknown game type")
	ErrNotGameBeat      = errors.New("beat is not a game")
)

// ListSource looks up word lists by ID
type ListSource interface {
	GetList(listID int64) (*models.WordList, error)
}

// StoryGenerator produces a prepared story for a set of words
type StoryGenerator interface {
	Generate(ctx context.Context, words []string) (*models.Story, error)
}

// ReportSender delivers the progress report sent when a session reaches its finale
type ReportSender interface {
	SendSessionReport(ctx context.Context, report SessionReport) error
}

// ResultInput is one finished game as reported by the client
type ResultInput struct {
	Word      string          `json:"word"`
	GameType  models.GameType `json:"game_type"`
	Correct   bool            `json:"correct"`
	LatencyMs int64           `json:"latency_ms"`
	// Quality optionally grades the answer 0-5 for review scheduling
	Quality *int `json:"quality,omitempty"`
}

// ResultOutcome is what recording a result changed
type ResultOutcome struct {
	Result    models.GameResult     `json:"result"`
	WordStats models.WordStats      `json:"word_stats"`
	Review    models.WordReviewData `json:"review"`
	Stats     models.SessionStats   `json:"session_stats"`
	Finale    bool                  `json:"finale"`
}

// SessionView is a play session together with its current statistics
type SessionView struct {
	models.PlaySession
	Stats models.SessionStats `json:"session_stats"`
}

// SessionService runs story play sessions and records their results.
// Sessions live in memory; learner progress is persisted through storage.Progress.
type SessionService struct {
	lists    ListSource
	stories  StoryGenerator
	progress *storage.Progress
	reports  ReportSender
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*models.PlaySession
}

// NewSessionService creates a session service. reports may be nil; ttl <= 0 keeps sessions forever.
func NewSessionService(lists ListSource, stories StoryGenerator, progress *storage.Progress, reports ReportSender, ttl time.Duration) *SessionService {
	return &SessionService{
		lists:    lists,
		stories:  stories,
		progress: progress,
		reports:  reports,
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
		sessions: make(map[string]*models.PlaySession),
	}
}

// StartSession generates a story over a list's words and opens a session for learner.
// Words due for review come first so the story leans on them.
func (s *SessionService) StartSession(ctx context.Context, learner string, listID int64) (*SessionView, error) {
	if err := validation.ValidateLearner(learner); err != nil {
		return nil, err
	}

	list, err := s.lists.GetList(listID)
	if err != nil {
		return nil, err
	}
	words := uniqueWords(list.Words)
	if len(words) == 0 {
		return nil, ErrEmptyList
	}

	progress, err := s.progress.Load(ctx, learner)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	words = prioritizeDue(words, progress.Reviews, s.now())

	st, err := s.stories.Generate(ctx, words)
	if err != nil {
		return nil, err
	}
	attachPuzzles(st, rand.New(rand.NewSource(s.now().UnixNano())))

	// every session word is tracked from the start so the finale needs all of them mastered
	stats := make(map[string]models.WordStats, len(words))
	for _, w := range words {
		stats[w] = models.WordStats{Word: w}
	}

	session := &models.PlaySession{
		ID:        uuid.NewString(),
		Learner:   learner,
		ListID:    list.ID,
		Words:     words,
		Story:     *st,
		StartedAt: s.now(),
		Results:   []models.GameResult{},
		WordStats: stats,
	}

	s.mu.Lock()
	s.expireLocked()
	s.sessions[session.ID] = session
	view := s.viewLocked(session)
	s.mu.Unlock()

	log.Printf("Started session %s for %s on list %d (%d words, %d beats)",
		session.ID, learner, list.ID, len(words), len(st.Beats))
	return view, nil
}

// GetSession returns a session with freshly computed statistics
func (s *SessionService) GetSession(sessionID string) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.viewLocked(session), nil
}

// EndSession drops a session from the registry
func (s *SessionService) EndSession(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

// RecordResult appends a game result to a session, updates the learner's stored
// results, review schedule and learning profile, and checks for the finale.
func (s *SessionService) RecordResult(ctx context.Context, sessionID string, in ResultInput) (*ResultOutcome, error) {
	if !knownGameType(in.GameType) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGameType, in.GameType)
	}
	if in.LatencyMs < 0 {
		return nil, validation.ValidationError{Field: "latency_ms", Message: "latency cannot be negative"}
	}
	if in.Quality != nil && (*in.Quality < 0 || *in.Quality > 5) {
		return nil, validation.ValidationError{Field: "quality", Message: "quality must be between 0 and 5"}
	}

	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	word, ok := sessionWord(session.Words, in.Word)
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrWordNotInSession, in.Word)
	}
	learner := session.Learner
	s.mu.Unlock()

	now := s.now()
	result := models.GameResult{
		ID:          uuid.NewString(),
		Word:        word,
		GameType:    in.GameType,
		Correct:     in.Correct,
		LatencyMs:   in.LatencyMs,
		CompletedAt: now,
	}

	// the registry lock is not held across storage I/O
	var review models.WordReviewData
	err := s.progress.Update(ctx, learner, func(p *storage.LearnerProgress) error {
		p.Results = append(p.Results, result)

		var prev *models.WordReviewData
		if r, ok := p.Reviews[word]; ok {
			prev = &r
		}
		review = learning.ScheduleReview(prev, word, learning.ReviewOutcome{Correct: in.Correct, Quality: in.Quality}, now)
		p.Reviews[word] = review

		p.Profile = learning.UpdateLearningProfile(p.Profile, result)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}

	s.mu.Lock()
	session, ok = s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		log.Printf("Warning: Session %s ended while recording %q; result kept in progress only", sessionID, word)
		return nil, ErrSessionNotFound
	}

	prevStats := session.WordStats[word]
	stats := learning.UpdateWordStats(&prevStats, result)
	session.Results = append(session.Results, result)
	session.WordStats[word] = stats

	finale := false
	if session.FinaleAt == nil && learning.ShouldTriggerFinale(session.WordStats) {
		session.FinaleAt = &now
		finale = true
	}

	outcome := &ResultOutcome{
		Result:    result,
		WordStats: stats,
		Review:    review,
		Stats:     learning.CalculateSessionStats(session.WordStats, session.Results, session.StartedAt, now),
		Finale:    finale,
	}

	var report SessionReport
	if finale {
		report = newSessionReport(session, outcome.Stats, now)
	}
	s.mu.Unlock()

	if finale {
		log.Printf("Session %s reached its finale: %d games, accuracy %.2f", sessionID, outcome.Stats.TotalGames, outcome.Stats.Accuracy)
		s.sendReport(ctx, report)
	}

	return outcome, nil
}

// SubmitAnswer checks an answer to one game beat of the session's story and records the result
func (s *SessionService) SubmitAnswer(ctx context.Context, sessionID string, beatIndex int, answer string, latencyMs int64) (*ResultOutcome, error) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if beatIndex < 0 || beatIndex >= len(session.Story.Beats) || !session.Story.Beats[beatIndex].IsGame() {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: beat %d", ErrNotGameBeat, beatIndex)
	}
	beat := session.Story.Beats[beatIndex]
	s.mu.Unlock()

	return s.RecordResult(ctx, sessionID, ResultInput{
		Word:      beat.TargetWord,
		GameType:  beat.GameType,
		Correct:   puzzle.Check(beat.Puzzle, beat.TargetWord, answer),
		LatencyMs: latencyMs,
	})
}

// attachPuzzles prepares the challenge of every game beat
func attachPuzzles(st *models.Story, rng *rand.Rand) {
	for i, beat := range st.Beats {
		if !beat.IsGame() {
			continue
		}
		p, err := puzzle.Build(beat, rng)
		if err != nil {
			log.Printf("Warning: No puzzle for beat %d (%s): %v", i, beat.TargetWord, err)
			continue
		}
		st.Beats[i].Puzzle = p
	}
}

func (s *SessionService) sendReport(ctx context.Context, report SessionReport) {
	if s.reports == nil {
		return
	}
	if err := s.reports.SendSessionReport(ctx, report); err != nil {
		log.Printf("Warning: Failed to send session report for %s: %v", report.Learner, err)
	}
}

func (s *SessionService) viewLocked(session *models.PlaySession) *SessionView {
	cp := *session
	cp.Words = append([]string(nil), session.Words...)
	cp.Results = append([]models.GameResult{}, session.Results...)
	cp.WordStats = make(map[string]models.WordStats, len(session.WordStats))
	for k, v := range session.WordStats {
		cp.WordStats[k] = v
	}
	if session.FinaleAt != nil {
		at := *session.FinaleAt
		cp.FinaleAt = &at
	}

	return &SessionView{
		PlaySession: cp,
		Stats:       learning.CalculateSessionStats(cp.WordStats, cp.Results, cp.StartedAt, s.now()),
	}
}

func (s *SessionService) expireLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, session := range s.sessions {
		if session.StartedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

func knownGameType(t models.GameType) bool {
	switch t {
	case models.GameDefinitionMatch, models.GameMissingLetter, models.GameHangman, models.GameLetterScramble:
		return true
	}
	return false
}

// sessionWord resolves a reported word to the session's spelling of it
func sessionWord(words []string, word string) (string, bool) {
	word = strings.TrimSpace(word)
	for _, w := range words {
		if strings.EqualFold(w, word) {
			return w, true
		}
	}
	return "", false
}

// uniqueWords drops repeated words, keeping the first occurrence
func uniqueWords(words []string) []string {
	seen := make(map[string]bool, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		key := strings.ToLower(w)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, w)
	}
	return out
}

// prioritizeDue moves words due for review to the front, most overdue first
func prioritizeDue(words []string, reviews map[string]models.WordReviewData, now time.Time) []string {
	candidates := make([]models.WordReviewData, 0, len(words))
	for _, w := range words {
		if r, ok := reviews[w]; ok {
			candidates = append(candidates, r)
		}
	}
	due := learning.DueForReview(candidates, now)
	if len(due) == 0 {
		return words
	}

	rank := make(map[string]int, len(due))
	for i, r := range due {
		rank[r.Word] = i
	}

	out := append([]string(nil), words...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, iDue := rank[out[i]]
		rj, jDue := rank[out[j]]
		switch {
		case iDue && jDue:
			return ri < rj
		case iDue != jDue:
			return iDue
		}
		return false
	})
	return out
}
