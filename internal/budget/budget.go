package budget

import (
	"math"
	"strings"
)

// DefaultReservedOutput is the output reservation used when callers pass zero,
// capped by ReservedOutputFor at a quarter of small context windows.
const DefaultReservedOutput = 4096

// EstimateTokensFromChars converts a character count into an estimated token
// count (~4 chars per token, rounded up).
func EstimateTokensFromChars(charCount int) int {
	if charCount <= 0 {
		return 0
	}
	return int(math.Ceil(float64(charCount) / 4.0))
}

// EstimateTokens returns the estimated token count of a string.
func EstimateTokens(s string) int {
	return EstimateTokensFromChars(len(s))
}

// EstimatePromptTokens estimates the tokens of a system plus user message pair.
func EstimatePromptTokens(system string, user string) int {
	return EstimateTokens(system) + EstimateTokens(user)
}

// ModelContextTokens returns an estimated context window for modelName.
// Unknown models fall back to 8192.
func ModelContextTokens(modelName string) int {
	name := strings.ToLower(strings.TrimSpace(modelName))
	name = strings.TrimPrefix(name, "models/")
	if name == "" {
		return 8192
	}
	if v, ok := knownModelMax[name]; ok {
		return v
	}
	switch {
	case strings.HasPrefix(name, "gemini-"):
		return 1_000_000
	case strings.HasSuffix(name, "1m"):
		return 1_000_000
	case strings.HasSuffix(name, "200k"):
		return 200_000
	case strings.HasSuffix(name, "128k"):
		return 128_000
	case strings.Contains(name, "-mini"):
		return 128_000
	}
	return 8192
}

// HeadroomTokens is the larger of 5% of the context window or 512 tokens,
// covering tokenizer and message framing overheads.
func HeadroomTokens(modelName string) int {
	dyn := int(math.Ceil(float64(ModelContextTokens(modelName)) * 0.05))
	if dyn < 512 {
		return 512
	}
	return dyn
}

// RemainingContext computes the input tokens left after reserving output and
// headroom. The result is never negative.
func RemainingContext(modelName string, reservedForOutput int, promptTokens int) int {
	if reservedForOutput < 0 {
		reservedForOutput = 0
	}
	remaining := ModelContextTokens(modelName) - reservedForOutput - HeadroomTokens(modelName) - promptTokens
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ReservedOutputFor returns requested when positive, otherwise the smaller of
// DefaultReservedOutput and a quarter of the model's context window.
func ReservedOutputFor(modelName string, requested int) int {
	if requested > 0 {
		return requested
	}
	if q := ModelContextTokens(modelName) / 4; q < DefaultReservedOutput {
		return q
	}
	return DefaultReservedOutput
}

// FitsInContext reports whether a prompt fits the model window with the
// requested output reservation.
func FitsInContext(modelName string, reservedForOutput int, promptTokens int) bool {
	return RemainingContext(modelName, reservedForOutput, promptTokens) > 0
}

var knownModelMax = map[string]int{
	"gpt-4o":           128_000,
	"gpt-4o-mini":      128_000,
	"gpt-4-turbo":      128_000,
	"gpt-3.5-turbo":    16_384,
	"gemini-1.5-flash": 1_000_000,
	"gemini-1.5-pro":   2_000_000,
	"gemini-2.0-flash": 1_000_000,
	"llama-3":          8_192,
	"llama-3.1":        128_000,
	"gpt-oss-20b":      131_072,
}
