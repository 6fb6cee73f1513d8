package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigFile_YAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "system.txt"), []byte("Be plain."), 0o644); err != nil {
		t.Fatalf("write prompt: %v", err)
	}
	yml := `mode: model
table: terms.yaml
llm:
  base: http://localhost:8080/v1
  model: gemini-1.5-flash
  timeout: 30s
prompts:
  systemFile: system.txt
cache:
  dir: /tmp/c
  maxAge: 1h
  maxEntries: 5
pdfOut: out.pdf
`
	path := filepath.Join(dir, "plainlegal.yaml")
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fc.Table != filepath.Join(dir, "terms.yaml") {
		t.Fatalf("table not resolved against config dir: %q", fc.Table)
	}
	if time.Duration(fc.LLM.Timeout) != 30*time.Second || time.Duration(fc.Cache.MaxAge) != time.Hour {
		t.Fatalf("durations not parsed: %+v", fc)
	}

	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.Mode != ModeModel || cfg.LLMModel != "gemini-1.5-flash" || cfg.LLMTimeout != 30*time.Second {
		t.Fatalf("llm fields not applied: %+v", cfg)
	}
	if cfg.SystemPrompt != "Be plain." {
		t.Fatalf("system prompt file not read: %q", cfg.SystemPrompt)
	}
	if cfg.CacheDir != "/tmp/c" || cfg.CacheMaxEntries != 5 || cfg.OutputPDFPath != "out.pdf" {
		t.Fatalf("cache/pdf fields not applied: %+v", cfg)
	}
}

func TestLoadConfigFile_JSONInlineTerms(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "c.json")
	js := `{"terms":[{"term":"lessor","plain":"landlord"}],"verbose":true,
		"llm":{"timeout":"30s"},"cache":{"maxAge":3600000000000}}`
	if err := os.WriteFile(path, []byte(js), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(cfg.Terms) != 1 || cfg.Terms[0].Plain != "landlord" || !cfg.Verbose {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.LLMTimeout != 30*time.Second || cfg.CacheMaxAge != time.Hour {
		t.Fatalf("json durations not applied: timeout=%v maxAge=%v", cfg.LLMTimeout, cfg.CacheMaxAge)
	}
}

func TestLoadConfigFile_BadDuration(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"c.json": `{"llm":{"timeout":"soon"}}`,
		"c.yaml": "llm:\n  timeout: soon\n",
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Fatalf("%s: expected error for invalid duration", name)
		}
	}
}

func TestApplyFileConfig_DoesNotOverrideExplicit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLMModel = "explicit"
	cfg.CacheDir = "/explicit"
	var fc FileConfig
	fc.LLM.Model = "file"
	fc.Cache.Dir = "/file"
	if err := ApplyFileConfig(&cfg, fc); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.LLMModel != "explicit" || cfg.CacheDir != "/explicit" {
		t.Fatalf("explicit values overridden: %+v", cfg)
	}
}

func TestApplyFileConfig_MissingPromptFile(t *testing.T) {
	cfg := DefaultConfig()
	var fc FileConfig
	fc.Prompts.SystemFile = filepath.Join(t.TempDir(), "nope.txt")
	if err := ApplyFileConfig(&cfg, fc); err == nil {
		t.Fatalf("expected error for missing prompt file")
	}
}

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"auto without model", func(c *Config) { c.Mode = ModeAuto }, ""},
		{"model without model name", func(c *Config) { c.Mode = ModeModel }, "llm.model"},
		{"unknown mode", func(c *Config) { c.Mode = "fancy" }, "unknown mode"},
		{"negative", func(c *Config) { c.CacheMaxEntries = -1 }, "negative"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := ValidateConfig(cfg)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestConfigUsesModel(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.usesModel() {
		t.Fatalf("table mode should not use the model")
	}
	cfg.Mode = ModeAuto
	if cfg.usesModel() {
		t.Fatalf("auto without a model name should stay on the table")
	}
	cfg.LLMModel = "m"
	if !cfg.usesModel() {
		t.Fatalf("auto with a model name should use the model")
	}
}
