package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Reply is one cached model answer for a simplification prompt.
type Reply struct {
	Model   string    `json:"model"`
	Text    string    `json:"text"`
	SavedAt time.Time `json:"saved_at"`
}

// LLMCache stores model replies on disk as <key>.json, keyed by a digest of
// the model name and the full prompt.
type LLMCache struct {
	Dir string
	// StrictPerms enforces 0700 on the directory and 0600 on entries.
	StrictPerms bool
}

func (c *LLMCache) ensureDir() error {
	if c == nil || strings.TrimSpace(c.Dir) == "" {
		return errors.New("cache dir not configured")
	}
	perm := os.FileMode(0o755)
	if c.StrictPerms {
		perm = 0o700
	}
	if err := os.MkdirAll(c.Dir, perm); err != nil {
		return err
	}
	if c.StrictPerms {
		if info, err := os.Stat(c.Dir); err == nil && info.Mode()&0o777 != 0o700 {
			_ = os.Chmod(c.Dir, 0o700)
		}
	}
	return nil
}

// KeyFrom builds a cache key from model and prompt.
func KeyFrom(model string, prompt string) string {
	h := sha256.Sum256([]byte(model + "\n\n" + prompt))
	return hex.EncodeToString(h[:])
}

func (c *LLMCache) pathFor(key string) string {
	return filepath.Join(c.Dir, key+".json")
}

// Get returns cached bytes if present. A miss is not an error.
func (c *LLMCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := c.ensureDir(); err != nil {
		return nil, false, err
	}
	p := c.pathFor(key)
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false, nil
	}
	// mtime doubles as last-access time for EnforceLimits
	now := time.Now()
	_ = os.Chtimes(p, now, now)
	return b, true, nil
}

// Save writes bytes to cache.
func (c *LLMCache) Save(_ context.Context, key string, data []byte) error {
	if err := c.ensureDir(); err != nil {
		return err
	}
	mode := os.FileMode(0o644)
	if c.StrictPerms {
		mode = 0o600
	}
	return os.WriteFile(c.pathFor(key), data, mode)
}

// LoadReply returns the cached reply for key. Malformed or empty entries are
// treated as misses.
func (c *LLMCache) LoadReply(ctx context.Context, key string) (Reply, bool) {
	raw, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return Reply{}, false
	}
	var r Reply
	if err := json.Unmarshal(raw, &r); err != nil || strings.TrimSpace(r.Text) == "" {
		return Reply{}, false
	}
	return r, true
}

// StoreReply saves a reply under key, stamping SavedAt when unset.
func (c *LLMCache) StoreReply(ctx context.Context, key string, r Reply) error {
	if r.SavedAt.IsZero() {
		r.SavedAt = time.Now().UTC()
	}
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return c.Save(ctx, key, b)
}
