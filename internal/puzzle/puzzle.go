// Package puzzle prepares the concrete challenge shown for each game beat:
// which letters are hidden, how a word is scrambled, which options a
// definition match offers. It also checks submitted answers.
package puzzle

import (
	"errors"
	"math/rand"
	"sort"
	"strings"
	"unicode"

	"spellstory/internal/models"
)

// MaxWrongGuesses is how many wrong letters a hangman game allows
const MaxWrongGuesses = 6

var ErrNotGameBeat = errors.New("beat is not a game beat")

// Build prepares the puzzle for a game beat. Mechanics are expected to be assigned already.
func Build(beat models.Beat, rng *rand.Rand) (*models.Puzzle, error) {
	if !beat.IsGame() || beat.TargetWord == "" {
		return nil, ErrNotGameBeat
	}

	word := beat.TargetWord
	level := level(beat.ExtraWordInfo)
	p := &models.Puzzle{GameType: beat.GameType}
	if beat.ExtraWordInfo != nil {
		p.Clue = beat.ExtraWordInfo.Hint
	}

	switch beat.GameType {
	case models.GameMissingLetter:
		p.MissingIndices = MissingIndices(word, level, rng)
		p.Display = Display(word, p.MissingIndices)
	case models.GameHangman:
		p.Display = Mask(word, nil)
		p.MaxWrongGuesses = MaxWrongGuesses
	case models.GameLetterScramble:
		p.Letters = Scramble(word, rng)
	case models.GameDefinitionMatch:
		if beat.ExtraWordInfo != nil {
			p.Clue = beat.ExtraWordInfo.Meaning
		}
		p.Options = Options(word, beat.ExtraWordInfo, rng)
	default:
		return nil, errors.New("unknown game type " + string(beat.GameType))
	}

	return p, nil
}

// level maps the 1-10 word difficulty onto five puzzle levels
func level(info *models.WordInfo) int {
	if info == nil || info.Difficulty < 1 {
		return 2
	}
	l := (info.Difficulty + 1) / 2
	if l > 5 {
		return 5
	}
	return l
}

// MissingIndices picks the rune positions to hide. Harder levels hide more
// letters and may hide the first and last; at most half the word is hidden.
func MissingIndices(word string, level int, rng *rand.Rand) []int {
	runes := []rune(word)
	n := len(runes)

	var numMissing int
	switch {
	case n <= 4:
		numMissing = 1
		if level >= 4 {
			numMissing = 2
		}
	case n <= 6:
		numMissing = 2
		if level >= 4 {
			numMissing = 3
		}
	case n <= 8:
		numMissing = []int{2, 3, 3, 4, 5}[clampLevel(level)-1]
	default:
		numMissing = []int{2, 3, 4, 5, 6}[clampLevel(level)-1]
	}

	maxMissing := n / 2
	if maxMissing < 1 {
		maxMissing = 1
	}
	if numMissing > maxMissing {
		numMissing = maxMissing
	}

	start, end := 0, n
	if level <= 1 && n > 3 {
		start, end = 1, n-1
	} else if level <= 3 && n > 2 {
		start = 1
	}

	available := make([]int, 0, n)
	for i := start; i < end; i++ {
		if unicode.IsLetter(runes[i]) {
			available = append(available, i)
		}
	}
	rng.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})
	if numMissing > len(available) {
		numMissing = len(available)
	}

	picked := append([]int(nil), available[:numMissing]...)
	sort.Ints(picked)
	return picked
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 5 {
		return 5
	}
	return level
}

// Display renders word with blanks at the missing positions
func Display(word string, missing []int) string {
	hidden := make(map[int]bool, len(missing))
	for _, i := range missing {
		hidden[i] = true
	}

	var b strings.Builder
	for i, r := range []rune(word) {
		if hidden[i] {
			b.WriteRune('_')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Mask renders a hangman board: guessed letters shown, others blank, spaces kept
func Mask(word string, guessed []string) string {
	found := make(map[rune]bool, len(guessed))
	for _, g := range guessed {
		for _, r := range strings.ToLower(g) {
			found[r] = true
		}
	}

	parts := make([]string, 0, len(word))
	for _, r := range strings.ToLower(word) {
		switch {
		case r == ' ':
			parts = append(parts, " ")
		case !unicode.IsLetter(r) || found[r]:
			parts = append(parts, string(r))
		default:
			parts = append(parts, "_")
		}
	}
	return strings.Join(parts, " ")
}

// Scramble shuffles the letters of word, avoiding the original order when another exists
func Scramble(word string, rng *rand.Rand) []string {
	runes := []rune(strings.ToLower(word))
	letters := make([]string, 0, len(runes))
	for _, r := range runes {
		if r != ' ' {
			letters = append(letters, string(r))
		}
	}
	original := strings.Join(letters, "")

	for attempt := 0; attempt < 10; attempt++ {
		rng.Shuffle(len(letters), func(i, j int) {
			letters[i], letters[j] = letters[j], letters[i]
		})
		if strings.Join(letters, "") != original {
			break
		}
	}
	return letters
}

// Options returns the definition-match choices: the word plus its similar words, shuffled
func Options(word string, info *models.WordInfo, rng *rand.Rand) []string {
	options := []string{word}
	if info != nil {
		for _, s := range info.SimilarWords {
			if !strings.EqualFold(s, word) {
				options = append(options, s)
			}
		}
	}
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// Check reports whether answer solves the puzzle for word. Missing-letter
// answers may be either the whole word or just the hidden letters in order.
func Check(p *models.Puzzle, word, answer string) bool {
	answer = strings.TrimSpace(answer)
	if strings.EqualFold(answer, word) {
		return true
	}
	if p == nil || p.GameType != models.GameMissingLetter || len(p.MissingIndices) == 0 {
		return false
	}
	return strings.EqualFold(FillGuess(word, p.MissingIndices, answer), word)
}

// FillGuess inserts the guessed letters into the missing positions of word
func FillGuess(word string, missing []int, guess string) string {
	result := []rune(strings.ToLower(word))
	guessRunes := []rune(strings.ToLower(guess))
	if len(guessRunes) != len(missing) {
		return ""
	}
	for i, idx := range missing {
		if idx < len(result) {
			result[idx] = guessRunes[i]
		}
	}
	return string(result)
}
