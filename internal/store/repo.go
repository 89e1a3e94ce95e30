package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	After     int64     // sequence > After
	Before    int64     // sequence < Before
	From      time.Time // timestamp >= From
	To        time.Time // timestamp <= To
	SessionID string    // exact match when set
	Purpose   string    // LLM events only, exact match when set
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	SessionID    string
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

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats aggregates LLM calls for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates token usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// TurnEventData records one lesson turn handled by the gateway.
type TurnEventData struct {
	SessionID      string
	Topic          string
	Event          string // begin, continue, select, command, exit, restart
	Command        string // classified learner command, empty if none
	PhaseFrom      string
	PhaseTo        string
	Directive      string
	QuestionIndex  int
	Score          int
	TotalQuestions int
	NeedsAttention bool
	Attempts       int    // generation attempts used
	Outcome        string // "committed" or the failure kind
	ErrorMessage   string
	LatencyMs      int64
	Title          string
}

// TurnEventRecord is a stored turn event.
type TurnEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	TurnEventData
}

// SessionSummary is the latest known position of one lesson session.
type SessionSummary struct {
	SessionID      string
	Topic          string
	Turns          int
	Phase          string
	Score          int
	TotalQuestions int
	NeedsAttention bool
	StartedAt      time.Time
	LastTurnAt     time.Time
}

// EventRepo provides append and query access to events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns a single event by ID, or nil if not found.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	// LLMUsageByPurpose aggregates calls and tokens per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)

	// LLMUsageByModel aggregates calls and tokens per model, for costing.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)

	// AppendTurn records a lesson turn.
	AppendTurn(ctx context.Context, data TurnEventData) error

	// QueryTurns returns turn events in sequence order.
	QueryTurns(ctx context.Context, opts QueryOpts) ([]TurnEventRecord, error)

	// SessionSummaries returns one summary per session, most recent first.
	SessionSummaries(ctx context.Context, limit int) ([]SessionSummary, error)
}
