package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/plainlegal/internal/simplify"
)

// FileConfig is the single-file configuration schema (YAML or JSON).
type FileConfig struct {
	Input string           `yaml:"input" json:"input"`
	Mode  string           `yaml:"mode" json:"mode"`
	Table string           `yaml:"table" json:"table"`
	Terms []simplify.Entry `yaml:"terms" json:"terms"`

	LLM struct {
		BaseURL       string        `yaml:"base" json:"base"`
		Model         string        `yaml:"model" json:"model"`
		APIKey        string        `yaml:"key" json:"key"`
		Timeout       Duration      `yaml:"timeout" json:"timeout"`
		ReserveTokens int           `yaml:"reserveTokens" json:"reserveTokens"`
	} `yaml:"llm" json:"llm"`

	Prompts struct {
		System     string `yaml:"system" json:"system"`
		SystemFile string `yaml:"systemFile" json:"systemFile"`
	} `yaml:"prompts" json:"prompts"`

	Cache struct {
		Dir         string        `yaml:"dir" json:"dir"`
		MaxAge      Duration      `yaml:"maxAge" json:"maxAge"`
		MaxEntries  int           `yaml:"maxEntries" json:"maxEntries"`
		Clear       bool          `yaml:"clear" json:"clear"`
		StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
		Only        bool          `yaml:"only" json:"only"`
	} `yaml:"cache" json:"cache"`

	PDFOut  string `yaml:"pdfOut" json:"pdfOut"`
	Verbose bool   `yaml:"verbose" json:"verbose"`
}

// Duration reads "30s"-style strings from YAML and JSON alike. Bare integers
// are nanoseconds, as time.Duration encodes them.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return d.set(s)
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("duration: want string like \"30s\": %w", err)
	}
	*d = Duration(n)
	return nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.set(s)
}

func (d *Duration) set(s string) error {
	s = strings.TrimSpace(s)
	if v, err := time.ParseDuration(s); err == nil {
		*d = Duration(v)
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	*d = Duration(n)
	return nil
}

// LoadConfigFile reads YAML or JSON into FileConfig. Relative table and
// prompt paths are resolved against the config file's directory.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	base := filepath.Dir(path)
	fc.Table = resolveAgainst(base, fc.Table)
	fc.Prompts.SystemFile = resolveAgainst(base, fc.Prompts.SystemFile)
	return fc, nil
}

func resolveAgainst(base, p string) string {
	if strings.TrimSpace(p) == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// ApplyFileConfig overlays file values onto cfg wherever cfg still holds a
// zero or default value.
func ApplyFileConfig(cfg *Config, fc FileConfig) error {
	if cfg == nil {
		return nil
	}
	if cfg.InputPath == "" && fc.Input != "" {
		cfg.InputPath = fc.Input
	}
	if (cfg.Mode == "" || cfg.Mode == modeDefault) && fc.Mode != "" {
		cfg.Mode = strings.ToLower(strings.TrimSpace(fc.Mode))
	}
	if cfg.TablePath == "" && fc.Table != "" {
		cfg.TablePath = fc.Table
	}
	if len(cfg.Terms) == 0 && len(fc.Terms) > 0 {
		cfg.Terms = append([]simplify.Entry{}, fc.Terms...)
	}

	if cfg.LLMBaseURL == "" && fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" && fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" && fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if (cfg.LLMTimeout == 0 || cfg.LLMTimeout == llmTimeoutDefault) && fc.LLM.Timeout > 0 {
		cfg.LLMTimeout = time.Duration(fc.LLM.Timeout)
	}
	if cfg.ReservedOutputTokens == 0 && fc.LLM.ReserveTokens > 0 {
		cfg.ReservedOutputTokens = fc.LLM.ReserveTokens
	}

	if cfg.SystemPrompt == "" {
		switch {
		case strings.TrimSpace(fc.Prompts.SystemFile) != "":
			b, err := os.ReadFile(fc.Prompts.SystemFile)
			if err != nil {
				return fmt.Errorf("read system prompt file: %w", err)
			}
			cfg.SystemPrompt = string(b)
		case fc.Prompts.System != "":
			cfg.SystemPrompt = fc.Prompts.System
		}
	}

	if (cfg.CacheDir == "" || cfg.CacheDir == cacheDirDefault) && fc.Cache.Dir != "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = time.Duration(fc.Cache.MaxAge)
	}
	if cfg.CacheMaxEntries == 0 && fc.Cache.MaxEntries > 0 {
		cfg.CacheMaxEntries = fc.Cache.MaxEntries
	}
	if !cfg.CacheClear && fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if !cfg.CacheStrictPerms && fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}
	if !cfg.CacheOnly && fc.Cache.Only {
		cfg.CacheOnly = true
	}

	if cfg.OutputPDFPath == "" && fc.PDFOut != "" {
		cfg.OutputPDFPath = fc.PDFOut
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
	return nil
}

// ValidateConfig rejects settings the app cannot run with.
func ValidateConfig(cfg Config) error {
	switch cfg.Mode {
	case ModeTable, ModeAuto:
	case ModeModel:
		if strings.TrimSpace(cfg.LLMModel) == "" {
			return errors.New("config: llm.model is required in model mode (or set LLM_MODEL)")
		}
	default:
		return fmt.Errorf("config: unknown mode %q (want %s, %s or %s)", cfg.Mode, ModeTable, ModeModel, ModeAuto)
	}
	if cfg.LLMTimeout < 0 || cfg.CacheMaxAge < 0 || cfg.CacheMaxEntries < 0 || cfg.ReservedOutputTokens < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	return nil
}
