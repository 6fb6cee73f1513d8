package synth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/plainlegal/internal/budget"
	"github.com/hyperifyio/plainlegal/internal/cache"
	"github.com/hyperifyio/plainlegal/internal/llm"
	"github.com/hyperifyio/plainlegal/internal/simplify"
)

// DefaultSystemPrompt frames the model as a plain-language legal assistant.
const DefaultSystemPrompt = "Act as a helpful legal assistant. Simplify legal text into plain, easy-to-understand English for someone without a legal background."

// ErrNoSubstantiveBody indicates the model returned no usable text.
var ErrNoSubstantiveBody = errors.New("no substantive body")

// ErrPromptTooLarge indicates the document does not fit the model's context
// window with the configured output reservation.
var ErrPromptTooLarge = errors.New("document too large for model context")

// Simplifier asks a chat model for a plain-language rendition. It satisfies
// simplify.Simplifier.
type Simplifier struct {
	Client llm.Client
	Model  string
	Cache  *cache.LLMCache
	// SystemPrompt, when non-empty, overrides DefaultSystemPrompt.
	SystemPrompt string
	// ReservedOutputTokens is kept free in the context window for the reply.
	// Zero uses budget.ReservedOutputFor the model.
	ReservedOutputTokens int
	// CacheOnly returns from cache and fails fast on a miss.
	CacheOnly bool
}

var _ simplify.Simplifier = (*Simplifier)(nil)

// Simplify returns the model's rendition of text. Empty input short-circuits
// to simplify.NoText without calling the model.
func (s *Simplifier) Simplify(ctx context.Context, text string) (string, error) {
	if text == "" {
		return simplify.NoText, nil
	}
	if s == nil || s.Client == nil || strings.TrimSpace(s.Model) == "" {
		return "", errors.New("model simplifier not configured")
	}
	system := DefaultSystemPrompt
	if strings.TrimSpace(s.SystemPrompt) != "" {
		system = s.SystemPrompt
	}
	user := BuildUserMessage(text)

	reserve := budget.ReservedOutputFor(s.Model, s.ReservedOutputTokens)
	promptTokens := budget.EstimatePromptTokens(system, user)
	if !budget.FitsInContext(s.Model, reserve, promptTokens) {
		return "", fmt.Errorf("%w: ~%d prompt tokens, model %s", ErrPromptTooLarge, promptTokens, s.Model)
	}

	key := cache.KeyFrom(s.Model, system+"\n\n"+user)
	if s.Cache != nil {
		if r, ok := s.Cache.LoadReply(ctx, key); ok {
			log.Debug().Str("model", s.Model).Msg("simplification served from cache")
			return r.Text, nil
		}
	}
	if s.CacheOnly {
		return "", ErrNoSubstantiveBody
	}

	req := openai.ChatCompletionRequest{
		Model: s.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.1,
		N:           1,
	}
	start := time.Now()
	resp, err := s.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.Warn().Err(err).Msg("model call failed, retrying once")
		sleep(100 * time.Millisecond)
		resp, err = s.Client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", fmt.Errorf("simplification call (after retry): %w", err)
		}
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoSubstantiveBody
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", ErrNoSubstantiveBody
	}
	log.Debug().
		Str("model", s.Model).
		Int("prompt_tokens_est", promptTokens).
		Dur("took", time.Since(start)).
		Msg("model simplification done")
	if s.Cache != nil {
		if err := s.Cache.StoreReply(ctx, key, cache.Reply{Model: s.Model, Text: out}); err != nil {
			log.Warn().Err(err).Msg("cache save failed")
		}
	}
	return out, nil
}

// BuildUserMessage lays out the rewriting rules followed by the document.
func BuildUserMessage(text string) string {
	var sb strings.Builder
	sb.WriteString("Simplify the following legal text into plain, easy-to-understand English for someone without a legal background.")
	sb.WriteString("\n\nSTRICT RULES:")
	sb.WriteString("\n1. Replace all complex legal jargon (e.g., \"hereinafter,\" \"indemnification\") with simple synonyms.")
	sb.WriteString("\n2. Break down long, complex sentences into short, clear ones.")
	sb.WriteString("\n3. Summarize dense paragraphs into their core meaning.")
	sb.WriteString("\n4. Use bullet points or numbered lists for obligations, rights, and key terms.")
	sb.WriteString("\n5. DO NOT add any information not present in the original text. Do not provide legal advice.")
	sb.WriteString("\n6. At the end, provide a simple list of \"Key Takeaways\".")
	sb.WriteString("\n\nTEXT TO SIMPLIFY:\n")
	sb.WriteString(text)
	return sb.String()
}

// sleep is swapped in tests.
var sleep = time.Sleep
