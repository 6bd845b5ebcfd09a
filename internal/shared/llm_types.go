package shared

import (
	"time"
)

// TokenUsage tracks the tokens consumed by a request.
type TokenUsage struct {
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
	Model            string `json:"model"`
}

// CallMeta holds operational metadata for one model call.
type CallMeta struct {
	Feature  string        `json:"feature"`
	Provider string        `json:"provider"`
	Usage    TokenUsage    `json:"usage"`
	Latency  time.Duration `json:"-"`
	// LatencyMS mirrors Latency for the event log.
	LatencyMS int64 `json:"latency_ms"`
	Fallback  bool  `json:"fallback"`
}

// NewCallMeta fills LatencyMS from latency.
func NewCallMeta(feature, provider string, usage TokenUsage, latency time.Duration, fallback bool) CallMeta {
	return CallMeta{
		Feature:   feature,
		Provider:  provider,
		Usage:     usage,
		Latency:   latency,
		LatencyMS: latency.Milliseconds(),
		Fallback:  fallback,
	}
}
