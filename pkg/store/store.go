package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pkgz/lgr"

	"github.com/contentforge/contentforge/pkg/domain"
)

// Store is the append-only article persistence layer. The backing file is a
// plain JSON array because it doubles as the contract with the site builder,
// which consumes it directly. The full array is flushed to disk after every
// successful append so a crash loses at most the in-flight keyword.
type Store struct {
	path     string
	articles []domain.Article
	keywords map[string]int // normalized keyword -> index into articles
}

// Load reads the article store from disk. A missing file is a first run and
// yields an empty store; a corrupt file is an error the caller must surface.
func Load(path string) (*Store, error) {
	s := &Store{path: path, keywords: make(map[string]int)}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from config
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read article store: %w", err)
	}

	if err := json.Unmarshal(data, &s.articles); err != nil {
		return nil, fmt.Errorf("parse article store %s: %w", path, err)
	}

	for i, a := range s.articles {
		s.keywords[domain.NormalizeKeyword(a.Keyword)] = i
	}

	lgr.Printf("[INFO] loaded %d articles from %s", len(s.articles), path)
	return s, nil
}

// Append adds an article and flushes the store to disk immediately.
// Duplicate keywords (by normalized text) are rejected rather than silently
// overwritten, the ledger should have filtered them out already.
func (s *Store) Append(article domain.Article) error {
	key := domain.NormalizeKeyword(article.Keyword)
	if _, ok := s.keywords[key]; ok {
		return fmt.Errorf("duplicate keyword %q in article store", article.Keyword)
	}

	s.articles = append(s.articles, article)
	s.keywords[key] = len(s.articles) - 1

	if err := s.Flush(); err != nil {
		return fmt.Errorf("flush after append: %w", err)
	}
	return nil
}

// Flush writes the full article array to disk atomically (tmp + rename).
// Output is indented so the site tooling can diff consecutive versions.
func (s *Store) Flush() error {
	articles := s.articles
	if articles == nil {
		articles = []domain.Article{}
	}

	data, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal articles: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create store directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write article store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace article store: %w", err)
	}
	return nil
}

// Has reports whether an article for the keyword exists, matching on
// normalized keyword text.
func (s *Store) Has(keyword string) bool {
	_, ok := s.keywords[domain.NormalizeKeyword(keyword)]
	return ok
}

// Keywords returns the set of normalized keywords present in the store
func (s *Store) Keywords() map[string]struct{} {
	res := make(map[string]struct{}, len(s.keywords))
	for k := range s.keywords {
		res[k] = struct{}{}
	}
	return res
}

// Len returns the number of stored articles
func (s *Store) Len() int { return len(s.articles) }

// Articles returns a copy of the stored articles
func (s *Store) Articles() []domain.Article {
	res := make([]domain.Article, len(s.articles))
	copy(res, s.articles)
	return res
}

// SetImage fills in the image URL for the article with the given slug and
// flushes. This is the single sanctioned mutation of a persisted record,
// used by the backfill pass for legacy entries.
func (s *Store) SetImage(slug, url string) error {
	for i := range s.articles {
		if s.articles[i].Slug == slug {
			s.articles[i].ImageURL = url
			return s.Flush()
		}
	}
	return fmt.Errorf("article with slug %q not found", slug)
}
