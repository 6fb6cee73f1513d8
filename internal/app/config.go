package app

import (
	"time"

	"github.com/hyperifyio/plainlegal/internal/simplify"
)

// Simplification modes.
const (
	ModeTable = "table"
	ModeModel = "model"
	// ModeAuto tries the model and falls back to the table on failure.
	ModeAuto = "auto"
)

const (
	modeDefault       = ModeTable
	cacheDirDefault   = ".plainlegal-cache"
	llmTimeoutDefault = 2 * time.Minute
)

// Config holds runtime configuration for the application.
type Config struct {
	// InputPath, when set, replaces reading the path from stdin.
	InputPath string

	Mode string
	// TablePath points at a YAML replacement table; Terms is the inline form
	// from a config file. TablePath wins when both are set.
	TablePath string
	Terms     []simplify.Entry

	// LLM
	LLMBaseURL           string
	LLMModel             string
	LLMAPIKey            string
	LLMTimeout           time.Duration
	ReservedOutputTokens int
	SystemPrompt         string

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheMaxEntries  int
	CacheClear       bool
	CacheStrictPerms bool
	CacheOnly        bool

	// OutputPDFPath, when set, also renders the result to this PDF file.
	OutputPDFPath string

	Verbose bool
}

// DefaultConfig returns the built-in defaults before file, env and flags.
func DefaultConfig() Config {
	return Config{
		Mode:       modeDefault,
		LLMTimeout: llmTimeoutDefault,
		CacheDir:   cacheDirDefault,
	}
}

// usesModel reports whether the configured mode may call the chat model.
func (c Config) usesModel() bool {
	return c.Mode == ModeModel || (c.Mode == ModeAuto && c.LLMModel != "")
}
