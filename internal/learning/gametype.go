package learning

import (
	"strings"

	"spellstory/internal/models"
)

// DefaultRotation is the set of mechanics handed out when no override applies
var DefaultRotation = []models.GameType{
	models.GameMissingLetter,
	models.GameHangman,
	models.GameLetterScramble,
}

// minSimilarForDefinitionMatch is the distractor count definition-match needs
const minSimilarForDefinitionMatch = 2

// Selector assigns mechanics to game beats
type Selector struct {
	rotation []models.GameType
}

// NewSelector creates a selector over the given rotation; an empty rotation uses DefaultRotation
func NewSelector(rotation []models.GameType) *Selector {
	r := make([]models.GameType, 0, len(rotation))
	for _, m := range rotation {
		if m == "" || m == models.GameDefinitionMatch {
			continue
		}
		r = append(r, m)
	}
	if len(r) == 0 {
		r = DefaultRotation
	}
	return &Selector{rotation: r}
}

// SelectMechanic maps a 1-based index onto the rotation
func (s *Selector) SelectMechanic(index int) models.GameType {
	if index < 1 {
		index = 1
	}
	return s.rotation[(index-1)%len(s.rotation)]
}

// AssignGameTypes returns a copy of beats with every game beat given a mechanic.
// Beats whose word has two or more similar words get definition-match; the rest
// rotate, and only those advance the rotation index.
func (s *Selector) AssignGameTypes(beats []models.Beat, info map[string]models.WordInfo) []models.Beat {
	out := make([]models.Beat, len(beats))
	index := 1

	for i, beat := range beats {
		out[i] = beat
		if !beat.IsGame() {
			continue
		}

		wi, ok := LookupWordInfo(info, beat.TargetWord)
		if !ok && beat.ExtraWordInfo != nil {
			wi, ok = *beat.ExtraWordInfo, true
		}

		if ok && len(wi.SimilarWords) >= minSimilarForDefinitionMatch {
			out[i].GameType = models.GameDefinitionMatch
			continue
		}

		out[i].GameType = s.SelectMechanic(index)
		index++
	}

	return out
}

// SelectMechanic uses the default rotation
func SelectMechanic(index int) models.GameType {
	return NewSelector(nil).SelectMechanic(index)
}

// AssignGameTypes uses the default rotation
func AssignGameTypes(beats []models.Beat, info map[string]models.WordInfo) []models.Beat {
	return NewSelector(nil).AssignGameTypes(beats, info)
}

// LookupWordInfo finds metadata for a word, falling back to a case-insensitive match
func LookupWordInfo(info map[string]models.WordInfo, word string) (models.WordInfo, bool) {
	if wi, ok := info[word]; ok {
		return wi, true
	}
	for k, wi := range info {
		if strings.EqualFold(strings.TrimSpace(k), strings.TrimSpace(word)) {
			return wi, true
		}
	}
	return models.WordInfo{}, false
}
