package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/contentforge/contentforge/pkg/domain"
	"github.com/contentforge/contentforge/pkg/ledger"
	"github.com/contentforge/contentforge/pkg/pipeline"
	"github.com/contentforge/contentforge/pkg/schedule"
	"github.com/contentforge/contentforge/pkg/store"
)

//go:generate moq -out mocks/generator.go -pkg mocks -skip-ensure -fmt goimports . Generator
//go:generate moq -out mocks/searcher.go -pkg mocks -skip-ensure -fmt goimports . Searcher
//go:generate moq -out mocks/builder.go -pkg mocks -skip-ensure -fmt goimports . Builder
//go:generate moq -out mocks/feed_emitter.go -pkg mocks -skip-ensure -fmt goimports . FeedEmitter
//go:generate moq -out mocks/sitemap_emitter.go -pkg mocks -skip-ensure -fmt goimports . SitemapEmitter

// Generator runs the per-keyword generation pipeline over a batch
type Generator interface {
	GenerateBatch(ctx context.Context, keywords []string, backlogStart, backlog int) pipeline.BatchResult
}

// Searcher finds an illustration image, used by the backfill pass
type Searcher interface {
	FirstLandscape(ctx context.Context, query string) (string, error)
}

// Builder triggers the external static-site build
type Builder interface {
	Build(ctx context.Context) error
}

// FeedEmitter writes the RSS feed after a successful batch
type FeedEmitter interface {
	EmitFeed(articles []domain.Article) error
}

// SitemapEmitter writes the sitemap after a successful batch
type SitemapEmitter interface {
	EmitSitemap(articles []domain.Article) error
}

// Run outcome reason codes
const (
	ReasonBatch     = "batch"      // a batch was executed
	ReasonUnchanged = "unchanged"  // keyword file identical to last observed
	ReasonInterval  = "interval"   // batch interval has not elapsed yet
	ReasonCompleted = "completed"  // overall status already completed
	ReasonUpToDate  = "up-to-date" // nothing pending
)

// Result reports a run to the caller. The caller translates setup failures
// into process exit codes; the result itself never aborts anything.
type Result struct {
	Generated      int      `json:"generated"`
	Skipped        int      `json:"skipped"`
	Failed         int      `json:"failed"`
	FailedKeywords []string `json:"failedKeywords,omitempty"`
	Reason         string   `json:"reason"`
}

// Orchestrator is the top-level driver: it consults the ledger and the batch
// scheduler, invokes the generation pipeline for new keywords, and hands off
// to the post-build collaborators. All state components are re-read from
// disk by the caller on every invocation, nothing survives between runs.
type Orchestrator struct {
	keywordsPath string
	ledger       *ledger.Ledger
	scheduler    *schedule.Scheduler
	store        *store.Store
	pipeline     Generator
	searcher     Searcher       // nil disables backfill
	builder      Builder        // nil disables site build
	feed         FeedEmitter    // nil disables feed emission
	sitemap      SitemapEmitter // nil disables sitemap emission
	delay        time.Duration
}

// Params holds orchestrator dependencies; collaborators left nil are
// explicitly disabled rather than guarded at call sites
type Params struct {
	KeywordsPath string
	Ledger       *ledger.Ledger
	Scheduler    *schedule.Scheduler
	Store        *store.Store
	Pipeline     Generator
	Searcher     Searcher
	Builder      Builder
	Feed         FeedEmitter
	Sitemap      SitemapEmitter
	Delay        time.Duration
}

// New creates an orchestrator from params
func New(p Params) *Orchestrator {
	return &Orchestrator{
		keywordsPath: p.KeywordsPath,
		ledger:       p.Ledger,
		scheduler:    p.Scheduler,
		store:        p.Store,
		pipeline:     p.Pipeline,
		searcher:     p.Searcher,
		builder:      p.Builder,
		feed:         p.Feed,
		sitemap:      p.Sitemap,
		delay:        p.Delay,
	}
}

// Run executes at most one batch. Force bypasses the unchanged-hash
// short-circuit and the interval gate, it does not bypass the ledger diff.
func (o *Orchestrator) Run(ctx context.Context, force bool) (*Result, error) {
	keywords, raw, err := ledger.LoadKeywords(o.keywordsPath)
	if err != nil {
		return nil, fmt.Errorf("load keywords: %w", err)
	}

	if !force && o.ledger.Unchanged(raw) {
		lgr.Printf("[INFO] keyword file unchanged, nothing to do")
		return &Result{Skipped: len(keywords), Reason: ReasonUnchanged}, nil
	}

	if !force && !o.scheduler.ShouldRun() {
		reason := ReasonInterval
		if o.scheduler.Progress().Status == domain.StatusCompleted {
			reason = ReasonCompleted
		}
		lgr.Printf("[INFO] batch gate closed (%s)", reason)
		return &Result{Skipped: len(keywords), Reason: reason}, nil
	}

	pending := o.ledger.Pending(keywords, o.store.Keywords())
	if len(pending) == 0 {
		o.ledger.SetHash(raw)
		if err := o.ledger.Save(); err != nil {
			lgr.Printf("[WARN] failed to save ledger: %v", err)
		}
		if err := o.scheduler.MarkCompleted(); err != nil {
			lgr.Printf("[WARN] failed to save progress: %v", err)
		}
		lgr.Printf("[INFO] all %d keywords already generated", len(keywords))
		return &Result{Skipped: len(keywords), Reason: ReasonUpToDate}, nil
	}

	lgr.Printf("[INFO] %d of %d keywords pending", len(pending), len(keywords))

	// an interrupted batch on disk takes precedence over slicing a new one;
	// keywords generated before the crash are filtered back out
	batch := o.scheduler.ResumeBatch()
	if len(batch) > 0 {
		batch = o.ledger.Pending(batch, o.store.Keywords())
		lgr.Printf("[INFO] resuming interrupted batch with %d keywords left", len(batch))
	}
	if len(batch) == 0 {
		if batch, err = o.scheduler.Prepare(pending); err != nil {
			return nil, fmt.Errorf("prepare batch: %w", err)
		}
	}

	// ordinals span the full backlog so publish dates keep spreading evenly
	backlogStart := o.store.Len() + 1
	backlog := o.store.Len() + len(pending)
	batchRes := o.pipeline.GenerateBatch(ctx, batch, backlogStart, backlog)

	done := make([]string, 0, len(batchRes.Generated))
	for _, a := range batchRes.Generated {
		o.ledger.MarkGenerated(a.Keyword)
		done = append(done, a.Keyword)
	}

	// the hash is recorded only once the pending set drains, it marks the
	// file content as fully processed rather than merely observed
	pendingLeft := len(o.ledger.Pending(keywords, o.store.Keywords()))
	if pendingLeft == 0 {
		o.ledger.SetHash(raw)
	}
	if err := o.ledger.Save(); err != nil {
		lgr.Printf("[ERROR] failed to save ledger: %v", err)
	}
	if err := o.scheduler.Complete(done, pendingLeft); err != nil {
		lgr.Printf("[ERROR] failed to save progress: %v", err)
	}

	res := &Result{
		Generated:      len(batchRes.Generated),
		Skipped:        len(keywords) - len(pending),
		Failed:         len(batchRes.Failed),
		FailedKeywords: batchRes.Failed,
		Reason:         ReasonBatch,
	}

	lgr.Printf("[INFO] batch finished: %d generated, %d skipped, %d failed", res.Generated, res.Skipped, res.Failed)
	for _, kw := range res.FailedKeywords {
		lgr.Printf("[WARN] failed keyword: %q", kw)
	}

	if res.Generated > 0 {
		o.postBuild(ctx)
	}

	return res, nil
}

// postBuild hands off to the downstream collaborators. Their failures are
// logged and swallowed, the generated articles are already safe on disk.
func (o *Orchestrator) postBuild(ctx context.Context) {
	articles := o.store.Articles()

	if o.builder != nil {
		if err := o.builder.Build(ctx); err != nil {
			lgr.Printf("[WARN] site build failed: %v", err)
		}
	}
	if o.sitemap != nil {
		if err := o.sitemap.EmitSitemap(articles); err != nil {
			lgr.Printf("[WARN] sitemap emission failed: %v", err)
		}
	}
	if o.feed != nil {
		if err := o.feed.EmitFeed(articles); err != nil {
			lgr.Printf("[WARN] feed emission failed: %v", err)
		}
	}
}

// BackfillImages fills in images for legacy records persisted without one.
// This is the single out-of-band mutation of stored articles and only runs
// when explicitly requested.
func (o *Orchestrator) BackfillImages(ctx context.Context) (int, error) {
	if o.searcher == nil {
		return 0, fmt.Errorf("image search is disabled")
	}

	filled := 0
	for _, a := range o.store.Articles() {
		if a.ImageURL != "" {
			continue
		}
		if ctx.Err() != nil {
			return filled, ctx.Err()
		}

		url, err := o.searcher.FirstLandscape(ctx, a.Keyword)
		if err != nil {
			lgr.Printf("[WARN] backfill image search for %q failed: %v", a.Keyword, err)
			continue
		}
		if url == "" {
			continue
		}

		if err := o.store.SetImage(a.Slug, url); err != nil {
			lgr.Printf("[WARN] backfill update for %q failed: %v", a.Slug, err)
			continue
		}
		filled++
		lgr.Printf("[INFO] backfilled image for %q", a.Keyword)

		if o.delay > 0 {
			select {
			case <-ctx.Done():
				return filled, ctx.Err()
			case <-time.After(o.delay):
			}
		}
	}
	return filled, nil
}

// Status returns the read-only progress projection for the current state
func (o *Orchestrator) Status() (schedule.Status, error) {
	keywords, _, err := ledger.LoadKeywords(o.keywordsPath)
	if err != nil {
		return schedule.Status{}, fmt.Errorf("load keywords: %w", err)
	}
	pending := o.ledger.Pending(keywords, o.store.Keywords())
	return o.scheduler.GetStatus(len(pending)), nil
}
