package simplify

import (
	"context"
	"errors"
	"testing"
)

func TestTableBased_Simplify(t *testing.T) {
	s := NewTableBased(DefaultTable())
	out, err := s.Simplify(context.Background(), "Whereas")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != wrap("Because") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	var zero *TableBased
	if out, _ := zero.Simplify(context.Background(), ""); out != NoText {
		t.Fatalf("nil TableBased should use default table, got %q", out)
	}
}

func TestFallback_UsesSecondaryOnError(t *testing.T) {
	primary := Func(func(ctx context.Context, text string) (string, error) {
		return "", errors.New("model unavailable")
	})
	f := &Fallback{Primary: primary, Secondary: NewTableBased(DefaultTable())}
	out, err := f.Simplify(context.Background(), "shall")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != wrap("will") {
		t.Fatalf("expected table output, got:\n%s", out)
	}
}

func TestFallback_PrimaryWins(t *testing.T) {
	primary := Func(func(ctx context.Context, text string) (string, error) { return "plain", nil })
	secondaryCalled := false
	secondary := Func(func(ctx context.Context, text string) (string, error) {
		secondaryCalled = true
		return "", nil
	})
	out, err := (&Fallback{Primary: primary, Secondary: secondary}).Simplify(context.Background(), "x")
	if err != nil || out != "plain" || secondaryCalled {
		t.Fatalf("out=%q err=%v secondaryCalled=%v", out, err, secondaryCalled)
	}
}

func TestFallback_CanceledContextDoesNotFallBack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	primary := Func(func(ctx context.Context, text string) (string, error) { return "", ctx.Err() })
	secondary := Func(func(ctx context.Context, text string) (string, error) {
		t.Fatalf("secondary must not run after cancellation")
		return "", nil
	})
	_, err := (&Fallback{Primary: primary, Secondary: secondary}).Simplify(ctx, "x")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFallback_NotConfigured(t *testing.T) {
	if _, err := (&Fallback{}).Simplify(context.Background(), "x"); err == nil {
		t.Fatalf("expected error")
	}
}
