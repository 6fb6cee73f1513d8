package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/plainlegal/internal/app"
)

func main() {
	// Logging setup; stdout carries the document only.
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	opts, err := parseConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(2)
	}
	if opts.version {
		fmt.Println(app.VersionString())
		return
	}
	if opts.cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, opts.cfg, os.Stdin, os.Stdout)
	stop()
	os.Exit(code)
}

type options struct {
	cfg     app.Config
	version bool
}

// parseConfig layers defaults, config file, environment and explicitly set
// flags, in that order of increasing precedence.
func parseConfig(args []string) (options, error) {
	var (
		opts           options
		inputPath      string
		mode           string
		tablePath      string
		configPath     string
		envFiles       string
		llmBaseURL     string
		llmModel       string
		llmKey         string
		llmTimeout     time.Duration
		reserveTokens  int
		cacheDir       string
		cacheMaxAge    time.Duration
		cacheMaxItems  int
		cacheClear     bool
		cacheStrict    bool
		cacheOnly      bool
		systemPrompt   string
		systemPromptFn string
		pdfOut         string
		verbose        bool
	)
	defaults := app.DefaultConfig()

	fs := flag.NewFlagSet("plainlegal", flag.ContinueOnError)
	fs.StringVar(&inputPath, "input", "", "Path to a .pdf or .txt document; read from stdin when empty")
	fs.StringVar(&mode, "mode", defaults.Mode, "Simplifier: table, model or auto (model with table fallback)")
	fs.StringVar(&tablePath, "table", "", "YAML replacement table replacing the built-in one")
	fs.StringVar(&configPath, "config", os.Getenv("PLAINLEGAL_CONFIG"), "Path to YAML or JSON config file")
	fs.StringVar(&envFiles, "env", ".env", "Comma-separated dotenv files to load (missing files are skipped)")
	fs.StringVar(&llmBaseURL, "llm.base", "", "OpenAI-compatible base URL (env LLM_BASE_URL)")
	fs.StringVar(&llmModel, "llm.model", "", "Model name (env LLM_MODEL)")
	fs.StringVar(&llmKey, "llm.key", "", "API key (env LLM_API_KEY or GOOGLE_API_KEY)")
	fs.DurationVar(&llmTimeout, "llm.timeout", defaults.LLMTimeout, "Deadline for the model call")
	fs.IntVar(&reserveTokens, "llm.reserveTokens", 0, "Context tokens reserved for the reply (0 uses the default)")
	fs.StringVar(&cacheDir, "cache.dir", defaults.CacheDir, "Cache directory path; empty disables the reply cache")
	fs.DurationVar(&cacheMaxAge, "cache.maxAge", 0, "Max age for cache entries before purge (e.g. 24h); 0 disables")
	fs.IntVar(&cacheMaxItems, "cache.maxEntries", 0, "Keep at most this many cached replies; 0 disables")
	fs.BoolVar(&cacheClear, "cache.clear", false, "Clear cache directory before run")
	fs.BoolVar(&cacheStrict, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	fs.BoolVar(&cacheOnly, "cache.only", false, "Serve model replies from cache only; fail on a miss")
	fs.StringVar(&systemPrompt, "system.prompt", "", "Override the model system prompt (inline string)")
	fs.StringVar(&systemPromptFn, "system.promptFile", "", "Path to file containing the model system prompt")
	fs.StringVar(&pdfOut, "pdf.out", "", "Also render the simplified document to this PDF file")
	fs.BoolVar(&verbose, "v", false, "Verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.version {
		return opts, nil
	}

	if err := app.LoadEnvFiles(splitList(envFiles)...); err != nil {
		return opts, fmt.Errorf("load env files: %w", err)
	}

	cfg := defaults
	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return opts, fmt.Errorf("load config %s: %w", configPath, err)
		}
		if err := app.ApplyFileConfig(&cfg, fc); err != nil {
			return opts, err
		}
	}
	app.ApplyEnvOverrides(&cfg)

	var visitErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.InputPath = inputPath
		case "mode":
			cfg.Mode = strings.ToLower(strings.TrimSpace(mode))
		case "table":
			cfg.TablePath = tablePath
		case "llm.base":
			cfg.LLMBaseURL = llmBaseURL
		case "llm.model":
			cfg.LLMModel = llmModel
		case "llm.key":
			cfg.LLMAPIKey = llmKey
		case "llm.timeout":
			cfg.LLMTimeout = llmTimeout
		case "llm.reserveTokens":
			cfg.ReservedOutputTokens = reserveTokens
		case "cache.dir":
			cfg.CacheDir = cacheDir
		case "cache.maxAge":
			cfg.CacheMaxAge = cacheMaxAge
		case "cache.maxEntries":
			cfg.CacheMaxEntries = cacheMaxItems
		case "cache.clear":
			cfg.CacheClear = cacheClear
		case "cache.strictPerms":
			cfg.CacheStrictPerms = cacheStrict
		case "cache.only":
			cfg.CacheOnly = cacheOnly
		case "system.prompt":
			cfg.SystemPrompt = systemPrompt
		case "system.promptFile":
			// Visit is lexical, so the file lands after -system.prompt.
			b, err := os.ReadFile(systemPromptFn)
			if err != nil {
				visitErr = fmt.Errorf("read system prompt file: %w", err)
				return
			}
			cfg.SystemPrompt = string(b)
		case "pdf.out":
			cfg.OutputPDFPath = pdfOut
		case "v":
			cfg.Verbose = verbose
		}
	})
	if visitErr != nil {
		return opts, visitErr
	}

	opts.cfg = cfg
	return opts, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// execute runs one simplification and reports failures on out, the way the
// document itself is reported. It returns the process exit code: 2 when the
// app cannot be built from cfg, 0 otherwise.
func execute(ctx context.Context, cfg app.Config, in io.Reader, out io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered")
			fmt.Fprintf(out, "Unexpected error: %v\n", r)
			code = 0
		}
	}()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("init app")
		return 2
	}
	defer a.Close()
	a.In = in
	a.Out = out

	if err := a.Run(ctx); err != nil {
		log.Debug().Err(err).Msg("run failed")
		if msg := app.UserMessage(err); msg != "" {
			fmt.Fprintln(out, msg)
		}
	}
	return 0
}
