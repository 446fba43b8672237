package ledger

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/contentforge/contentforge/pkg/domain"
)

// Ledger tracks which keywords already produced an article. The cache file is
// the fast-path signal; the article store remains the durable source of truth
// and the pending computation diffs against both.
type Ledger struct {
	path  string
	state domain.CacheState
	known map[string]struct{} // normalized generated keywords
}

// Load reads the ledger cache from disk. A missing file means first run and
// yields an empty ledger.
func Load(path string) (*Ledger, error) {
	l := &Ledger{path: path, known: make(map[string]struct{})}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from config
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("read cache file: %w", err)
	}

	if err := json.Unmarshal(data, &l.state); err != nil {
		// a broken cache is recoverable, the article store still has the truth
		lgr.Printf("[WARN] cache file %s is corrupt, treating as empty: %v", path, err)
		l.state = domain.CacheState{}
		return l, nil
	}

	for _, kw := range l.state.GeneratedKeywords {
		l.known[domain.NormalizeKeyword(kw)] = struct{}{}
	}
	return l, nil
}

// Save writes the ledger cache to disk atomically
func (l *Ledger) Save() error {
	if l.state.GeneratedKeywords == nil {
		l.state.GeneratedKeywords = []string{}
	}

	data, err := json.MarshalIndent(l.state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create cache directory: %w", err)
		}
	}

	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}

// Pending computes the keywords that still need generation: the input list
// minus everything already in the cache or in the store, compared
// case-insensitively on trimmed text. Order is preserved, repeated calls
// with the same inputs return the same result.
func (l *Ledger) Pending(keywords []string, storeKeywords map[string]struct{}) []string {
	var pending []string
	for _, kw := range keywords {
		key := domain.NormalizeKeyword(kw)
		if key == "" {
			continue
		}
		if _, ok := l.known[key]; ok {
			continue
		}
		if _, ok := storeKeywords[key]; ok {
			continue
		}
		pending = append(pending, kw)
	}
	return pending
}

// MarkGenerated records a keyword as generated, de-duplicating on the
// normalized form. The caller is responsible for calling Save.
func (l *Ledger) MarkGenerated(keyword string) {
	key := domain.NormalizeKeyword(keyword)
	if key == "" {
		return
	}
	if _, ok := l.known[key]; ok {
		return
	}
	l.known[key] = struct{}{}
	l.state.GeneratedKeywords = append(l.state.GeneratedKeywords, key)
}

// Generated returns the number of keywords the ledger knows about
func (l *Ledger) Generated() int { return len(l.known) }

// Unchanged reports whether the keyword file content is byte-identical to the
// last observed version. Used as a cheap short-circuit, skipped on forced runs.
func (l *Ledger) Unchanged(raw []byte) bool {
	return l.state.LastHash != "" && l.state.LastHash == Hash(raw)
}

// SetHash records the hash of the current keyword file content
func (l *Ledger) SetHash(raw []byte) {
	l.state.LastHash = Hash(raw)
}

// Hash returns the FNV-1a checksum of the raw bytes, hex-encoded
func Hash(raw []byte) string {
	h := fnv.New64a()
	_, _ = h.Write(raw)
	return fmt.Sprintf("%016x", h.Sum64())
}

// LoadKeywords reads the newline-delimited keyword list. Lines are trimmed,
// blanks dropped and duplicates collapsed on the normalized form, keeping
// the first spelling and the file order.
func LoadKeywords(path string) ([]string, []byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from config
	if err != nil {
		return nil, nil, fmt.Errorf("read keywords file: %w", err)
	}

	seen := make(map[string]struct{})
	var keywords []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key := domain.NormalizeKeyword(line)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keywords = append(keywords, line)
	}

	return keywords, data, nil
}
