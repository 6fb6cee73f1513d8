package budget

import "testing"

func TestEstimateTokensFromChars(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, 0},
		{-3, 0},
		{1, 1},
		{4, 1},
		{5, 2},
		{400, 100},
	}
	for _, c := range cases {
		if got := EstimateTokensFromChars(c.in); got != c.want {
			t.Fatalf("EstimateTokensFromChars(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestEstimatePromptTokens(t *testing.T) {
	// system(6)->2, user(12)->3
	if got := EstimatePromptTokens("system", "user message"); got != 5 {
		t.Fatalf("EstimatePromptTokens() = %d, want 5", got)
	}
}

func TestModelContextTokens(t *testing.T) {
	cases := map[string]int{
		"":                        8192,
		"unknown-model":           8192,
		"gpt-4o":                  128_000,
		"GPT-4o-mini":             128_000,
		"gemini-1.5-flash":        1_000_000,
		"models/gemini-1.5-flash": 1_000_000,
		"gemini-2.5-pro":          1_000_000,
		"my-finetune-200k":        200_000,
	}
	for name, want := range cases {
		if got := ModelContextTokens(name); got != want {
			t.Fatalf("ModelContextTokens(%q) = %d, want %d", name, got, want)
		}
	}
}

func TestHeadroomTokens(t *testing.T) {
	if got := HeadroomTokens("llama-3"); got != 512 {
		t.Fatalf("small window headroom = %d, want 512", got)
	}
	if got := HeadroomTokens("gpt-4o"); got != 6400 {
		t.Fatalf("gpt-4o headroom = %d, want 6400", got)
	}
}

func TestFitsInContext(t *testing.T) {
	// 8192 - 4096 - 512 = 3584 usable
	if !FitsInContext("llama-3", 4096, 3000) {
		t.Fatalf("expected prompt to fit")
	}
	if FitsInContext("llama-3", 4096, 3584) {
		t.Fatalf("expected prompt to overflow at the boundary")
	}
	if RemainingContext("llama-3", -1, 100_000) != 0 {
		t.Fatalf("remaining must clamp at zero")
	}
}

func TestFitsInContext_OneTokenFitsKnownModels(t *testing.T) {
	for name := range knownModelMax {
		if !FitsInContext(name, ReservedOutputFor(name, 0), 1) {
			t.Fatalf("one-token prompt should fit %s", name)
		}
	}
	if !FitsInContext("gpt-oss-20b", DefaultReservedOutput, 100) {
		t.Fatalf("gpt-oss-20b should fit a short prompt with the default reservation")
	}
}

func TestReservedOutputFor(t *testing.T) {
	cases := []struct {
		model     string
		requested int
		want      int
	}{
		{"gpt-4o", 0, DefaultReservedOutput},
		{"llama-3", 0, 2048},
		{"unknown-model", 0, 2048},
		{"gpt-4o", 1000, 1000},
	}
	for _, tc := range cases {
		if got := ReservedOutputFor(tc.model, tc.requested); got != tc.want {
			t.Fatalf("ReservedOutputFor(%q, %d) = %d, want %d", tc.model, tc.requested, got, tc.want)
		}
	}
}
