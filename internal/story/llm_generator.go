package story

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"spellstory/internal/llm"
	"spellstory/internal/models"
)

const (
	maxSimilarWords = 5
	minDifficulty   = 1
	maxDifficulty   = 10
)

const storySystemPrompt = `You write short interactive stories for young children learning to spell.
Reply with a single JSON object and nothing else.`

const wordInfoSystemPrompt = `You describe words for young children learning to spell.
Reply with a single JSON object and nothing else.`

// LLMGenerator implements Generator on top of a chat model
type LLMGenerator struct {
	client llm.Client
}

// NewLLMGenerator creates a generator backed by client
func NewLLMGenerator(client llm.Client) *LLMGenerator {
	return &LLMGenerator{client: client}
}

type beatPayload struct {
	Type       string   `json:"type"`
	Text       string   `json:"text"`
	TargetWord string   `json:"target_word"`
	Choices    []string `json:"choices"`
}

type storyPayload struct {
	Title string        `json:"title"`
	Beats []beatPayload `json:"beats"`
}

type wordInfoPayload struct {
	Words map[string]models.WordInfo `json:"words"`
}

// GenerateStory asks the model for a story whose game beats cover the requested words
func (g *LLMGenerator) GenerateStory(ctx context.Context, req StoryRequest) (*models.Story, error) {
	resp, err := g.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskStory,
		SystemPrompt: storySystemPrompt,
		UserPrompt:   storyPrompt(req),
		JSONMode:     true,
	})
	if err != nil {
		return nil, err
	}

	payload, err := llm.ExtractJSON[storyPayload](resp.Text, validateStory(req.Words))
	if err != nil {
		return nil, err
	}

	story := &models.Story{Title: strings.TrimSpace(payload.Title)}
	for _, b := range payload.Beats {
		beat := models.Beat{
			Type:    models.BeatNarrative,
			Text:    strings.TrimSpace(b.Text),
			Choices: b.Choices,
		}
		if strings.EqualFold(b.Type, string(models.BeatGame)) {
			beat.Type = models.BeatGame
			beat.TargetWord = canonicalWord(req.Words, b.TargetWord)
		}
		story.Beats = append(story.Beats, beat)
	}

	return story, nil
}

// GenerateWordInfo asks the model for meaning, hint, similar words and difficulty per word
func (g *LLMGenerator) GenerateWordInfo(ctx context.Context, words []string) (map[string]models.WordInfo, error) {
	resp, err := g.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskWordInfo,
		SystemPrompt: wordInfoSystemPrompt,
		UserPrompt:   wordInfoPrompt(words),
		JSONMode:     true,
	})
	if err != nil {
		return nil, err
	}

	payload, err := llm.ExtractJSON[wordInfoPayload](resp.Text, func(p wordInfoPayload) error {
		if len(p.Words) == 0 {
			return errors.New("no word entries")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	info := make(map[string]models.WordInfo, len(payload.Words))
	for word, wi := range payload.Words {
		info[canonicalWord(words, word)] = normalizeWordInfo(word, wi)
	}
	return info, nil
}

func storyPrompt(req StoryRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a story about %s for readers %s.\n", req.Theme, req.ReadingLevel)
	fmt.Fprintf(&b, "Use about %d beats. Each beat is either narrative text or a game challenge.\n", req.BeatCount)
	fmt.Fprintf(&b, "Include one game beat for each of these words, in any order: %s.\n", strings.Join(req.Words, ", "))
	b.WriteString(`Return {"title": string, "beats": [{"type": "narrative"|"game", "text": string, "target_word": string, "choices": [string]}]}.`)
	b.WriteString("\nGame beats must set target_word to one of the listed words, and every listed word needs at least one game beat. Narrative beats may offer up to three choices.")
	return b.String()
}

func wordInfoPrompt(words []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "For each of these words: %s\n", strings.Join(words, ", "))
	b.WriteString(`Return {"words": {"<word>": {"meaning": string, "hint": string, "similar_words": [3 to 5 strings], "difficulty": 1-10}}}.`)
	b.WriteString("\nSimilar words should look or sound alike so they work as distractors.")
	return b.String()
}

// validateStory requires at least one beat, every game beat to target a
// requested word and every requested word to have a game beat
func validateStory(words []string) llm.Validator[storyPayload] {
	return func(p storyPayload) error {
		if len(p.Beats) == 0 {
			return errors.New("story has no beats")
		}
		covered := make(map[string]bool, len(words))
		for i, b := range p.Beats {
			if !strings.EqualFold(b.Type, string(models.BeatGame)) {
				continue
			}
			if !containsFold(words, b.TargetWord) {
				return fmt.Errorf("beat %d targets unknown word %q", i, b.TargetWord)
			}
			covered[strings.ToLower(strings.TrimSpace(canonicalWord(words, b.TargetWord)))] = true
		}
		if len(covered) == 0 {
			return errors.New("story has no game beats")
		}

		var missing []string
		for _, w := range words {
			if !covered[strings.ToLower(strings.TrimSpace(w))] {
				missing = append(missing, w)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("story has no game beat for %s", strings.Join(missing, ", "))
		}
		return nil
	}
}

func normalizeWordInfo(word string, wi models.WordInfo) models.WordInfo {
	similar := make([]string, 0, len(wi.SimilarWords))
	for _, s := range wi.SimilarWords {
		s = strings.TrimSpace(s)
		if s == "" || strings.EqualFold(s, word) || containsFold(similar, s) {
			continue
		}
		similar = append(similar, s)
		if len(similar) == maxSimilarWords {
			break
		}
	}
	wi.SimilarWords = similar
	wi.Meaning = strings.TrimSpace(wi.Meaning)
	wi.Hint = strings.TrimSpace(wi.Hint)
	wi.Difficulty = max(minDifficulty, min(maxDifficulty, wi.Difficulty))
	return wi
}

// canonicalWord maps a model-provided spelling onto the list's spelling
func canonicalWord(words []string, word string) string {
	word = strings.TrimSpace(word)
	for _, w := range words {
		if strings.EqualFold(w, word) {
			return w
		}
	}
	return word
}

func containsFold(list []string, s string) bool {
	s = strings.TrimSpace(s)
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), s) {
			return true
		}
	}
	return false
}
