package llm

// TaskType identifies the kind of generation call being made.
type TaskType string

const (
	TaskStory    TaskType = "story"
	TaskWordInfo TaskType = "word_info"
)

// TaskConfig holds per-task generation parameters.
type TaskConfig struct {
	Model       string // overrides the global model if set
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides the global timeout if > 0
}

// Config holds all configuration for the text generation client.
type Config struct {
	Endpoint   string
	APIKey     string
	Model      string
	TimeoutMs  int
	MaxRetries int
	LogCalls   bool
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns a Config pointed at the OpenAI API.
func DefaultConfig() Config {
	return Config{
		Endpoint:   "https://api.openai.com/v1",
		Model:      "gpt-4o-mini",
		TimeoutMs:  30000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskStory:    {Temperature: 0.8, MaxTokens: 2048},
			TaskWordInfo: {Temperature: 0.2, MaxTokens: 1024, TimeoutMs: 20000},
		},
	}
}

// TaskTimeout returns the effective timeout for a task.
func (c Config) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

// TaskModel returns the effective model for a task.
func (c Config) TaskModel(task TaskType) string {
	if tc, ok := c.Tasks[task]; ok && tc.Model != "" {
		return tc.Model
	}
	return c.Model
}
