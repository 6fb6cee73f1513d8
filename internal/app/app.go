package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/plainlegal/internal/cache"
	"github.com/hyperifyio/plainlegal/internal/extract"
	"github.com/hyperifyio/plainlegal/internal/llm"
	"github.com/hyperifyio/plainlegal/internal/simplify"
	"github.com/hyperifyio/plainlegal/internal/synth"
	"github.com/hyperifyio/plainlegal/internal/verify"
)

// App reads one document, simplifies it and writes the result to Out.
type App struct {
	cfg        Config
	table      simplify.Table
	simplifier simplify.Simplifier
	httpClient *http.Client

	// In supplies the input path when Config.InputPath is empty.
	In io.Reader
	// Out receives the simplified document.
	Out io.Writer
}

// New builds an App, connecting to an OpenAI-compatible endpoint when the
// mode needs a model.
func New(ctx context.Context, cfg Config) (*App, error) {
	var (
		client     llm.Client
		httpClient *http.Client
	)
	if cfg.usesModel() {
		httpClient = newLLMHTTPClient()
		client = llm.NewOpenAIProvider(llm.Options{
			BaseURL:    cfg.LLMBaseURL,
			APIKey:     cfg.LLMAPIKey,
			HTTPClient: httpClient,
		})
	}
	a, err := NewWithClient(ctx, cfg, client)
	if err != nil {
		return nil, err
	}
	a.httpClient = httpClient
	return a, nil
}

// NewWithClient is New with an explicit model client; tests pass a fake.
func NewWithClient(ctx context.Context, cfg Config, client llm.Client) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	table, err := loadTable(cfg)
	if err != nil {
		return nil, err
	}
	tableBased := simplify.NewTableBased(table)

	a := &App{cfg: cfg, table: table, In: os.Stdin, Out: os.Stdout}
	if !cfg.usesModel() {
		a.simplifier = tableBased
		log.Debug().Int("terms", table.Len()).Msg("using table simplifier")
		return a, nil
	}
	if client == nil {
		return nil, errors.New("model client not configured")
	}

	model := &synth.Simplifier{
		Client:               client,
		Model:                cfg.LLMModel,
		Cache:                openCache(cfg),
		SystemPrompt:         cfg.SystemPrompt,
		ReservedOutputTokens: cfg.ReservedOutputTokens,
		CacheOnly:            cfg.CacheOnly,
	}
	preflight(ctx, client)

	if cfg.Mode == ModeAuto {
		a.simplifier = &simplify.Fallback{Primary: model, Secondary: tableBased}
	} else {
		a.simplifier = model
	}
	log.Debug().Str("mode", cfg.Mode).Str("model", cfg.LLMModel).Msg("using model simplifier")
	return a, nil
}

// Close releases idle connections held for model calls.
func (a *App) Close() {
	if a.httpClient != nil {
		a.httpClient.CloseIdleConnections()
	}
}

func loadTable(cfg Config) (simplify.Table, error) {
	switch {
	case strings.TrimSpace(cfg.TablePath) != "":
		t, err := simplify.LoadTableFile(cfg.TablePath)
		if err != nil {
			return simplify.Table{}, fmt.Errorf("load table %s: %w", cfg.TablePath, err)
		}
		return t, nil
	case len(cfg.Terms) > 0:
		t := simplify.NewTable(cfg.Terms)
		if t.Len() == 0 {
			return simplify.Table{}, simplify.ErrEmptyTable
		}
		return t, nil
	default:
		return simplify.DefaultTable(), nil
	}
}

// openCache applies invalidation controls and returns the reply cache, or nil
// when caching is disabled.
func openCache(cfg Config) *cache.LLMCache {
	if strings.TrimSpace(cfg.CacheDir) == "" {
		return nil
	}
	if cfg.CacheClear {
		if err := cache.ClearDir(cfg.CacheDir); err != nil {
			log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
		}
	}
	if n, err := cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge); err != nil {
		log.Warn().Err(err).Msg("cache purge failed")
	} else if n > 0 {
		log.Debug().Int("removed", n).Msg("purged expired cache entries")
	}
	if n, err := cache.EnforceLimits(cfg.CacheDir, cfg.CacheMaxEntries); err != nil {
		log.Warn().Err(err).Msg("cache eviction failed")
	} else if n > 0 {
		log.Debug().Int("removed", n).Msg("evicted cache entries")
	}
	return &cache.LLMCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
}

// preflight lists models as a best-effort connectivity check. Failures only
// warn; the simplification call surfaces real errors.
func preflight(ctx context.Context, client llm.Client) {
	lister, ok := client.(llm.ModelLister)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	models, err := lister.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("LLM model list failed; continuing")
		return
	}
	log.Debug().Int("count", len(models.Models)).Msg("LLM models available")
}

// Run resolves the input path, extracts its text, simplifies it and writes
// the result followed by a newline.
func (a *App) Run(ctx context.Context) error {
	raw := a.cfg.InputPath
	if raw == "" {
		line, err := readPathLine(a.In)
		if err != nil {
			return err
		}
		raw = line
	}
	path, err := ResolvePath(raw)
	if err != nil {
		return err
	}

	doc, err := readDocument(path)
	if err != nil {
		return err
	}

	sctx := ctx
	if a.cfg.usesModel() && a.cfg.LLMTimeout > 0 {
		var cancel context.CancelFunc
		sctx, cancel = context.WithTimeout(ctx, a.cfg.LLMTimeout)
		defer cancel()
	}
	out, err := a.simplifier.Simplify(sctx, doc.Text)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSimplification, err)
	}
	a.report(out)

	if _, err := fmt.Fprintln(a.Out, out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if a.cfg.OutputPDFPath != "" {
		if err := writeSimplePDF(out, a.cfg.OutputPDFPath); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("out", a.cfg.OutputPDFPath).Msg("wrote pdf")
	}
	return nil
}

// report logs a plainness check of the output. Model replies are free text,
// so leftover jargon is worth a warning there.
func (a *App) report(out string) {
	rep := verify.Check(out, a.table)
	ev := log.Debug()
	if a.cfg.usesModel() && !rep.Clean() {
		ev = log.Warn()
	}
	ev.Strs("residual", rep.Residual).
		Int("sentences", rep.Sentences).
		Int("long", rep.LongSentences).
		Msg(rep.Summary)
}

// readPathLine reads the first line of r. A final line without a newline is
// accepted.
func readPathLine(r io.Reader) (string, error) {
	if r == nil {
		return "", ErrNoInputPath
	}
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input path: %w", err)
	}
	if strings.TrimSpace(line) == "" {
		return "", ErrNoInputPath
	}
	return line, nil
}

// CleanPath strips surrounding whitespace, then surrounding double quotes.
func CleanPath(raw string) string {
	return strings.Trim(strings.TrimSpace(raw), `"`)
}

// ResolvePath cleans raw and makes it absolute against the working directory.
func ResolvePath(raw string) (string, error) {
	p := CleanPath(raw)
	if p == "" {
		return "", ErrNoInputPath
	}
	if filepath.IsAbs(p) {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	return filepath.Join(wd, p), nil
}

// readDocument checks existence, dispatches on extension and extracts text.
func readDocument(path string) (extract.Document, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return extract.Document{}, &FileError{Kind: ErrFileNotFound, Path: path}
		}
		return extract.Document{}, &FileError{Kind: ErrUnreadableFile, Path: path, Err: err}
	}
	ex, err := extract.ForPath(path)
	if err != nil {
		return extract.Document{}, err
	}
	doc, err := ex.Extract(path)
	if _, isPDF := ex.(extract.PDFExtractor); isPDF {
		if err != nil {
			log.Debug().Err(err).Str("path", path).Msg("pdf extraction failed")
			return extract.Document{}, &FileError{Kind: ErrPDFExtraction, Path: path, Err: err}
		}
		// Every page contributes a newline, so "" means no pages at all.
		// Whitespace-only text from blank pages is still simplified.
		if doc.Text == "" {
			return extract.Document{}, &FileError{Kind: ErrPDFExtraction, Path: path}
		}
		if strings.TrimSpace(doc.Text) == "" {
			log.Warn().Str("path", path).Int("pages", doc.Pages).Msg("pdf has no extractable text")
		}
		return doc, nil
	}
	if err != nil {
		return extract.Document{}, &FileError{Kind: ErrUnreadableFile, Path: path, Err: err}
	}
	if doc.Text == "" {
		log.Warn().Str("path", path).Msg("text file is empty; nothing to simplify")
		return extract.Document{}, &FileError{Kind: ErrEmptyDocument, Path: path}
	}
	return doc, nil
}
