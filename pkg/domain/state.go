package domain

import "time"

// Batch progress statuses
const (
	StatusIdle       = "idle"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
)

// BatchProgress is the persisted state of the incremental generation run,
// re-read at the start of every invocation.
type BatchProgress struct {
	TotalKeywords     int        `json:"totalKeywords"`
	ProcessedKeywords []string   `json:"processedKeywords"`
	CurrentBatch      int        `json:"currentBatch"`
	TotalBatches      int        `json:"totalBatches"`
	LastRun           *time.Time `json:"lastRun"`
	Status            string     `json:"status"`
	StartedAt         time.Time  `json:"startedAt"`
}

// CacheState is the keyword ledger cache file payload. Every keyword listed
// in GeneratedKeywords should have a corresponding article in the store,
// best-effort. Keywords are stored normalized (lower-cased, trimmed).
type CacheState struct {
	GeneratedKeywords []string `json:"generatedKeywords"`
	LastHash          string   `json:"lastHash"`
}
