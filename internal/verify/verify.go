package verify

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/hyperifyio/plainlegal/internal/simplify"
)

// LongSentenceWords is the word count above which a sentence counts as long.
const LongSentenceWords = 25

// Report describes how plain a simplified document reads.
type Report struct {
	// Residual lists table terms still present as whole words, lowercase,
	// sorted.
	Residual      []string `json:"residual"`
	Sentences     int      `json:"sentences"`
	LongSentences int      `json:"longSentences"`
	Summary       string   `json:"summary"`
}

// Clean reports whether no jargon survived.
func (r Report) Clean() bool { return len(r.Residual) == 0 }

// Check scans simplified text for jargon from table and for long sentences.
// It is a read-only pass; the text is not changed.
func Check(text string, table simplify.Table) Report {
	var rep Report
	seen := map[string]struct{}{}
	for _, e := range table.Entries() {
		if _, ok := seen[e.Term]; ok {
			continue
		}
		if termRe(e.Term).MatchString(text) {
			seen[e.Term] = struct{}{}
			rep.Residual = append(rep.Residual, e.Term)
		}
	}
	sort.Strings(rep.Residual)

	for _, s := range splitIntoSentences(text) {
		n := countWords(s)
		if n == 0 {
			continue
		}
		rep.Sentences++
		if n > LongSentenceWords {
			rep.LongSentences++
		}
	}
	rep.Summary = summarize(rep)
	return rep
}

func termRe(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
}

func splitIntoSentences(s string) []string {
	sep := func(r rune) bool {
		return r == '.' || r == '\n' || r == '?' || r == '!' || r == ';'
	}
	raw := strings.FieldsFunc(s, sep)
	out := make([]string, 0, len(raw))
	for _, part := range raw {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// countWords counts whitespace-separated runs that contain a letter.
func countWords(s string) int {
	words := 0
	for _, f := range strings.Fields(s) {
		for _, r := range f {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || r > 0x7f {
				words++
				break
			}
		}
	}
	return words
}

func summarize(r Report) string {
	if r.Sentences == 0 {
		return "No sentences found."
	}
	jargon := "no legal jargon left"
	if len(r.Residual) > 0 {
		jargon = fmt.Sprintf("jargon left: %s", strings.Join(r.Residual, ", "))
	}
	return fmt.Sprintf("%d sentences; %d long; %s.", r.Sentences, r.LongSentences, jargon)
}
