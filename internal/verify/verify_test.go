package verify

import (
	"strings"
	"testing"

	"github.com/hyperifyio/plainlegal/internal/simplify"
)

func TestCheck_FindsResidualJargon(t *testing.T) {
	text := "The Tenant Shall pay. NOTWITHSTANDING the lease, the mayor may visit."
	got := Check(text, simplify.DefaultTable())
	want := []string{"may", "notwithstanding", "shall"}
	if strings.Join(got.Residual, ",") != strings.Join(want, ",") {
		t.Fatalf("residual=%v, want %v", got.Residual, want)
	}
	if got.Clean() {
		t.Fatalf("expected report to be unclean")
	}
	if got.Sentences != 2 {
		t.Fatalf("sentences=%d, want 2", got.Sentences)
	}
}

func TestCheck_TableOutputIsClean(t *testing.T) {
	eng := simplify.NewEngine(simplify.DefaultTable())
	out := eng.Simplify("Whereas the Lessee shall, pursuant to this clause, pay damages.")
	rep := Check(out, eng.Table())
	if !rep.Clean() {
		t.Fatalf("expected clean report, got %v", rep.Residual)
	}
	if !strings.Contains(rep.Summary, "no legal jargon left") {
		t.Fatalf("unexpected summary %q", rep.Summary)
	}
}

func TestCheck_LongSentences(t *testing.T) {
	long := strings.Repeat("word ", LongSentenceWords+1) + "."
	rep := Check(long+" Short one.", simplify.NewTable([]simplify.Entry{{Term: "x", Plain: "y"}}))
	if rep.Sentences != 2 || rep.LongSentences != 1 {
		t.Fatalf("unexpected counts: %+v", rep)
	}
}

func TestCheck_Empty(t *testing.T) {
	rep := Check("", simplify.DefaultTable())
	if rep.Sentences != 0 || rep.Summary != "No sentences found." {
		t.Fatalf("unexpected report: %+v", rep)
	}
}
