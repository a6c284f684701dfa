package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // id > After
	Before int64     // id < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	// Purpose restricts LLM events to one purpose label.
	Purpose string
}

// User is an entry in the local user registry.
type User struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

// TopicProgress records how far a user got with a topic.
type TopicProgress struct {
	Topic       string     `json:"topic"`
	Completed   bool       `json:"completed"`
	QuizScore   int        `json:"quiz_score"`
	QuizTotal   int        `json:"quiz_total"`
	LastAttempt *time.Time `json:"last_attempt,omitempty"`
}

// AnswerRecord is one answered quiz question.
type AnswerRecord struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Expected string `json:"expected"`
	Correct  bool   `json:"correct"`
}

// QuizAttempt is a completed topic quiz.
type QuizAttempt struct {
	ID        string         `json:"id"`
	Topic     string         `json:"topic"`
	Score     int            `json:"score"`
	Total     int            `json:"total"`
	Passed    bool           `json:"passed"`
	Answers   []AnswerRecord `json:"answers"`
	CreatedAt time.Time      `json:"created_at"`
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request.
type LLMRequestEvent struct {
	ID        int64
	CreatedAt time.Time
	LLMRequestEventData
}

// EventRepo provides append access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}
