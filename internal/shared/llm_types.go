// Package shared holds types passed between the model clients and the
// metrics store.
package shared

import (
	"time"
)

// TokenUsage tracks the tokens consumed by a request.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// Add accumulates other into u. Model is kept unless u has none.
func (u TokenUsage) Add(other TokenUsage) TokenUsage {
	out := TokenUsage{
		PromptTokens:     u.PromptTokens + other.PromptTokens,
		CompletionTokens: u.CompletionTokens + other.CompletionTokens,
		TotalTokens:      u.TotalTokens + other.TotalTokens,
		Model:            u.Model,
	}
	if out.Model == "" {
		out.Model = other.Model
	}
	return out
}

// AgentMeta holds operational metadata for one outbound call: a model
// request or a risk prediction.
type AgentMeta struct {
	AgentName string
	Usage     TokenUsage
	Latency   time.Duration
	Failed    bool
}
