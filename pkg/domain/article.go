package domain

import "strings"

// Article represents one generated blog post as persisted in the article store.
// Records are append-only; the only mutation after creation is the image
// backfill for legacy entries missing ImageURL.
type Article struct {
	Keyword      string     `json:"keyword"`
	Term         string     `json:"term"`
	Slug         string     `json:"slug"`
	Date         string     `json:"date"` // ISO date, may be back- or forward-dated
	Category     string     `json:"category"`
	CategorySlug string     `json:"categorySlug"`
	Tags         []string   `json:"tags"`
	IsPopular    bool       `json:"isPopular"`
	Summary      string     `json:"summary"`
	DeepDive     string     `json:"deepDive"`
	Importance   string     `json:"importance"`
	ProsCons     []string   `json:"prosCons"`
	FAQ          []FAQEntry `json:"faq"`
	ImageURL     string     `json:"imageUrl,omitempty"`
}

// FAQEntry represents a single question/answer pair in an article
type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Strategy represents the AI-produced content plan for a keyword
type Strategy struct {
	Term      string   `json:"term"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags"`
	IsPopular bool     `json:"isPopular"`
	Persona   string   `json:"persona"`
	Angle     string   `json:"angle"`
}

// Draft holds the long-form content fields produced by the draft step
type Draft struct {
	Summary    string     `json:"summary"`
	DeepDive   string     `json:"deepDive"`
	Importance string     `json:"importance"`
	ProsCons   []string   `json:"prosCons"`
	FAQ        []FAQEntry `json:"faq"`
}

// NormalizeKeyword returns the canonical identity of a keyword, used for
// ledger matching and store de-duplication. The slug is derived output only
// and never an identity.
func NormalizeKeyword(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
