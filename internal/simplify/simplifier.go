package simplify

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
)

// Simplifier produces a plain-language rendition of a legal document.
// Implementations can swap strategies (static table, chat model) without
// changing callers.
type Simplifier interface {
	Simplify(ctx context.Context, text string) (string, error)
}

// Func adapts a plain function to the Simplifier interface.
type Func func(ctx context.Context, text string) (string, error)

func (f Func) Simplify(ctx context.Context, text string) (string, error) { return f(ctx, text) }

// TableBased exposes an Engine as a Simplifier. It never returns an error.
type TableBased struct {
	Engine *Engine
}

// NewTableBased returns a TableBased simplifier over t.
func NewTableBased(t Table) *TableBased {
	return &TableBased{Engine: NewEngine(t)}
}

func (s *TableBased) Simplify(_ context.Context, text string) (string, error) {
	if s == nil || s.Engine == nil {
		return NewEngine(DefaultTable()).Simplify(text), nil
	}
	return s.Engine.Simplify(text), nil
}

// Fallback tries Primary first and uses Secondary when Primary fails.
// Context cancellation is returned as-is without falling back.
type Fallback struct {
	Primary   Simplifier
	Secondary Simplifier
}

func (f *Fallback) Simplify(ctx context.Context, text string) (string, error) {
	if f.Primary == nil && f.Secondary == nil {
		return "", errors.New("fallback simplifier not configured")
	}
	if f.Primary != nil {
		out, err := f.Primary.Simplify(ctx, text)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil || f.Secondary == nil {
			return "", err
		}
		log.Warn().Err(err).Msg("primary simplifier failed, using fallback")
	}
	return f.Secondary.Simplify(ctx, text)
}
