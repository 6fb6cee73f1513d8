package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides overrides cfg fields with environment variables that are
// set. It runs after the config file and before flags, so env beats the file
// and flags beat env.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if v := os.Getenv("SIMPLIFY_MODE"); v != "" {
		cfg.Mode = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("SIMPLIFY_TABLE"); v != "" {
		cfg.TablePath = v
	}

	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLMBaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLMModel = v
	}
	// GOOGLE_API_KEY only fills a key nothing else supplied.
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" && cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLMAPIKey = v
	}
	if s := os.Getenv("LLM_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			cfg.LLMTimeout = d
		}
	}
	if s := strings.TrimSpace(os.Getenv("LLM_RESERVE_TOKENS")); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			cfg.ReservedOutputTokens = n
		}
	}

	if v := os.Getenv("CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if s := os.Getenv("CACHE_MAX_AGE"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			cfg.CacheMaxAge = d
		}
	}
	if s := strings.TrimSpace(os.Getenv("CACHE_MAX_ENTRIES")); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			cfg.CacheMaxEntries = n
		}
	}

	setBool := func(dst *bool, envKey string) {
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			switch s {
			case "1", "true", "yes", "on":
				*dst = true
			case "0", "false", "no", "off":
				*dst = false
			}
		}
	}
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.CacheClear, "CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
	setBool(&cfg.CacheOnly, "LLM_CACHE_ONLY")
}
