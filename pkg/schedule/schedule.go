package schedule

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/contentforge/contentforge/pkg/domain"
)

// Scheduler gates generation into fixed-size, time-boxed batches and tracks
// overall progress across runs. All state lives in the progress file and the
// transient batch file, nothing survives in memory between invocations.
type Scheduler struct {
	progressPath string
	batchPath    string
	batchSize    int
	interval     time.Duration
	progress     domain.BatchProgress

	nowFn func() time.Time // injectable for tests
}

// Status is a read-only projection of batch progress
type Status struct {
	Processed           int        `json:"processed"`
	Pending             int        `json:"pending"`
	Total               int        `json:"total"`
	CurrentBatch        int        `json:"currentBatch"`
	TotalBatches        int        `json:"totalBatches"`
	Percent             float64    `json:"percent"`
	State               string     `json:"state"`
	LastRun             *time.Time `json:"lastRun,omitempty"`
	EstimatedCompletion *time.Time `json:"estimatedCompletion,omitempty"`
}

// Load reads the progress file and returns a scheduler over it. A missing
// file is a first run and yields an idle zero state.
func Load(progressPath, batchPath string, batchSize int, interval time.Duration) (*Scheduler, error) {
	s := &Scheduler{
		progressPath: progressPath,
		batchPath:    batchPath,
		batchSize:    batchSize,
		interval:     interval,
		nowFn:        time.Now,
	}
	s.progress.Status = domain.StatusIdle

	data, err := os.ReadFile(progressPath) //nolint:gosec // path comes from config
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read progress file: %w", err)
	}

	if err := json.Unmarshal(data, &s.progress); err != nil {
		lgr.Printf("[WARN] progress file %s is corrupt, starting fresh: %v", progressPath, err)
		s.progress = domain.BatchProgress{Status: domain.StatusIdle}
	}
	if s.progress.Status == "" {
		s.progress.Status = domain.StatusIdle
	}
	return s, nil
}

// ShouldRun reports whether a new batch may start: false once everything is
// completed or while the configured interval since the last run has not
// elapsed yet.
func (s *Scheduler) ShouldRun() bool {
	if s.progress.Status == domain.StatusCompleted {
		return false
	}
	if s.progress.LastRun != nil && s.nowFn().Sub(*s.progress.LastRun) < s.interval {
		return false
	}
	return true
}

// Prepare slices the next batch off the pending set, writes it to the
// transient batch file and flips status to processing. Returns the batch.
func (s *Scheduler) Prepare(pending []string) ([]string, error) {
	if len(pending) == 0 {
		return nil, nil
	}

	size := s.batchSize
	if size > len(pending) {
		size = len(pending)
	}
	batch := pending[:size]

	if err := s.writeBatchFile(batch); err != nil {
		return nil, err
	}

	now := s.nowFn()
	if s.progress.CurrentBatch == 0 {
		s.progress.StartedAt = now
	}
	s.progress.CurrentBatch++
	// completed batches plus whatever the remaining pending set still needs
	s.progress.TotalBatches = s.progress.CurrentBatch - 1 + (len(pending)+s.batchSize-1)/s.batchSize
	s.progress.TotalKeywords = len(s.progress.ProcessedKeywords) + len(pending)
	s.progress.Status = domain.StatusProcessing

	if err := s.save(); err != nil {
		return nil, err
	}

	lgr.Printf("[INFO] prepared batch %d/%d with %d keywords", s.progress.CurrentBatch, s.progress.TotalBatches, len(batch))
	return batch, nil
}

// ResumeBatch returns the keywords of an interrupted batch: non-empty only
// when the previous run died while status was processing and the transient
// batch file is still around.
func (s *Scheduler) ResumeBatch() []string {
	if s.progress.Status != domain.StatusProcessing {
		return nil
	}

	data, err := os.ReadFile(s.batchPath) //nolint:gosec // path comes from config
	if err != nil {
		return nil
	}

	var keywords []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			keywords = append(keywords, line)
		}
	}
	return keywords
}

// Complete records the processed keywords, stamps the run time and removes
// the transient batch file. Status flips to completed once nothing is
// pending, back to idle otherwise.
func (s *Scheduler) Complete(done []string, pendingLeft int) error {
	seen := make(map[string]struct{}, len(s.progress.ProcessedKeywords))
	for _, kw := range s.progress.ProcessedKeywords {
		seen[kw] = struct{}{}
	}
	for _, kw := range done {
		key := domain.NormalizeKeyword(kw)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		s.progress.ProcessedKeywords = append(s.progress.ProcessedKeywords, key)
	}

	now := s.nowFn()
	s.progress.LastRun = &now
	if pendingLeft == 0 {
		s.progress.Status = domain.StatusCompleted
	} else {
		s.progress.Status = domain.StatusIdle
	}

	if err := os.Remove(s.batchPath); err != nil && !os.IsNotExist(err) {
		lgr.Printf("[WARN] failed to remove batch file %s: %v", s.batchPath, err)
	}

	return s.save()
}

// MarkCompleted flips status to completed without processing anything, used
// when the pending set drains outside a batch run.
func (s *Scheduler) MarkCompleted() error {
	s.progress.Status = domain.StatusCompleted
	if err := os.Remove(s.batchPath); err != nil && !os.IsNotExist(err) {
		lgr.Printf("[WARN] failed to remove batch file %s: %v", s.batchPath, err)
	}
	return s.save()
}

// GetStatus returns the read-only progress projection
func (s *Scheduler) GetStatus(pendingLeft int) Status {
	st := Status{
		Processed:    len(s.progress.ProcessedKeywords),
		Pending:      pendingLeft,
		Total:        len(s.progress.ProcessedKeywords) + pendingLeft,
		CurrentBatch: s.progress.CurrentBatch,
		TotalBatches: s.progress.TotalBatches,
		State:        s.progress.Status,
		LastRun:      s.progress.LastRun,
	}
	if st.Total > 0 {
		st.Percent = float64(st.Processed) / float64(st.Total) * 100
	}
	if pendingLeft > 0 {
		batchesLeft := (pendingLeft + s.batchSize - 1) / s.batchSize
		eta := s.nowFn().Add(time.Duration(batchesLeft) * s.interval)
		st.EstimatedCompletion = &eta
	}
	return st
}

// Progress exposes the underlying persisted record
func (s *Scheduler) Progress() domain.BatchProgress { return s.progress }

func (s *Scheduler) writeBatchFile(batch []string) error {
	if dir := filepath.Dir(s.batchPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create batch directory: %w", err)
		}
	}
	content := strings.Join(batch, "\n") + "\n"
	if err := os.WriteFile(s.batchPath, []byte(content), 0o600); err != nil {
		return fmt.Errorf("write batch file: %w", err)
	}
	return nil
}

func (s *Scheduler) save() error {
	if s.progress.ProcessedKeywords == nil {
		s.progress.ProcessedKeywords = []string{}
	}

	data, err := json.MarshalIndent(s.progress, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	if dir := filepath.Dir(s.progressPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create progress directory: %w", err)
		}
	}

	tmp := s.progressPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write progress file: %w", err)
	}
	if err := os.Rename(tmp, s.progressPath); err != nil {
		return fmt.Errorf("replace progress file: %w", err)
	}
	return nil
}
