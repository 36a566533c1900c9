// Package tokens estimates prompt size in tokens so a prompt that will not fit
// the model's context window can be flagged before it is sent.
package tokens

import (
	"fmt"
	"math"
)

// charsPerToken is the divisor for the byte-based estimator (roughly 4 bytes
// per token for English and code).
const charsPerToken = 4

const (
	// DefaultContextLimit is Ollama's default context window (num_ctx).
	DefaultContextLimit = 4096
	// DefaultResponseReserve covers a one-line commit message.
	DefaultResponseReserve = 64
	// DefaultWarnThreshold is the share of the context that triggers a warning.
	DefaultWarnThreshold = 0.9
)

// Estimate returns (len(prompt)+3)/4, so 1-4 bytes are one token. Empty
// string returns 0.
func Estimate(prompt string) int {
	n := len(prompt)
	if n == 0 {
		return 0
	}
	return (n + charsPerToken - 1) / charsPerToken
}

// WarnIfOver returns a warning when promptTokens+responseReserve reaches
// warnThreshold of contextLimit, else "". contextLimit <= 0 disables the check.
func WarnIfOver(promptTokens, responseReserve, contextLimit int, warnThreshold float64) string {
	if contextLimit <= 0 || promptTokens < 0 || responseReserve < 0 {
		return ""
	}
	if responseReserve > math.MaxInt-promptTokens {
		return fmt.Sprintf("token estimate overflow (prompt %d + reserve %d)", promptTokens, responseReserve)
	}
	total := promptTokens + responseReserve
	threshold := int(math.Ceil(float64(contextLimit) * warnThreshold))
	if total < threshold {
		return ""
	}
	return fmt.Sprintf("estimated tokens %d (prompt %d + reserve %d) exceeds %.0f%% of context limit %d; the model may ignore the start of the diff",
		total, promptTokens, responseReserve, warnThreshold*100, contextLimit)
}
