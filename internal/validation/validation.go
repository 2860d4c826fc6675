package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	MaxListNameLength    = 100
	MaxDescriptionLength = 500
	MaxWordLength        = 40
	MaxWordsPerList      = 200
	MaxLearnerLength     = 64
)

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	learnerRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidateListName checks a word list name
func ValidateListName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len([]rune(name)) > MaxListNameLength {
		return ValidationError{Field: "name", Message: fmt.Sprintf("name must be at most %d characters", MaxListNameLength)}
	}
	return nil
}

// ValidateDescription checks an optional list description
func ValidateDescription(description string) error {
	if len([]rune(description)) > MaxDescriptionLength {
		return ValidationError{Field: "description", Message: fmt.Sprintf("description must be at most %d characters", MaxDescriptionLength)}
	}
	return nil
}

// ValidateWord checks a single spelling word: letters with optional inner spaces, hyphens or apostrophes
func ValidateWord(word string) error {
	word = strings.TrimSpace(word)
	if word == "" {
		return ValidationError{Field: "words", Message: "words cannot be blank"}
	}
	if len([]rune(word)) > MaxWordLength {
		return ValidationError{Field: "words", Message: fmt.Sprintf("%q is longer than %d characters", word, MaxWordLength)}
	}
	for _, r := range word {
		if unicode.IsLetter(r) || r == ' ' || r == '-' || r == '\'' {
			continue
		}
		return ValidationError{Field: "words", Message: fmt.Sprintf("%q may only contain letters", word)}
	}
	return nil
}

// ValidateWords checks a word sequence. Duplicates are allowed.
func ValidateWords(words []string, allowEmpty bool) error {
	if len(words) == 0 && !allowEmpty {
		return ValidationError{Field: "words", Message: "at least one word is required"}
	}
	if len(words) > MaxWordsPerList {
		return ValidationError{Field: "words", Message: fmt.Sprintf("a list can hold at most %d words", MaxWordsPerList)}
	}
	for _, w := range words {
		if err := ValidateWord(w); err != nil {
			return err
		}
	}
	return nil
}

// ValidateLearner checks a learner identifier used to namespace progress
func ValidateLearner(learner string) error {
	if learner == "" {
		return ValidationError{Field: "learner", Message: "learner is required"}
	}
	if len(learner) > MaxLearnerLength || !learnerRegex.MatchString(learner) {
		return ValidationError{Field: "learner", Message: "learner may only contain letters, digits, '-' and '_'"}
	}
	return nil
}

// NormalizeWords trims surrounding whitespace from every word, keeping order
func NormalizeWords(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.TrimSpace(w)
	}
	return out
}
