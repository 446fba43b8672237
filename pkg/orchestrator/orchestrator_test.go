package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentforge/contentforge/pkg/domain"
	"github.com/contentforge/contentforge/pkg/ledger"
	"github.com/contentforge/contentforge/pkg/orchestrator/mocks"
	"github.com/contentforge/contentforge/pkg/pipeline"
	"github.com/contentforge/contentforge/pkg/schedule"
	"github.com/contentforge/contentforge/pkg/store"
)

type testEnv struct {
	dir          string
	keywordsPath string
	ledger       *ledger.Ledger
	scheduler    *schedule.Scheduler
	store        *store.Store
}

func newTestEnv(t *testing.T, keywords []string, batchSize int, interval time.Duration) *testEnv {
	t.Helper()
	dir := t.TempDir()

	e := &testEnv{dir: dir, keywordsPath: filepath.Join(dir, "keywords.txt")}
	require.NoError(t, os.WriteFile(e.keywordsPath, []byte(strings.Join(keywords, "\n")+"\n"), 0o600))

	var err error
	e.ledger, err = ledger.Load(filepath.Join(dir, "cache.json"))
	require.NoError(t, err)
	e.store, err = store.Load(filepath.Join(dir, "articles.json"))
	require.NoError(t, err)
	e.scheduler, err = schedule.Load(filepath.Join(dir, "progress.json"), filepath.Join(dir, "batch.txt"), batchSize, interval)
	require.NoError(t, err)
	return e
}

// reload re-opens the state components from disk, simulating a fresh process
func (e *testEnv) reload(t *testing.T, batchSize int, interval time.Duration) {
	t.Helper()
	var err error
	e.ledger, err = ledger.Load(filepath.Join(e.dir, "cache.json"))
	require.NoError(t, err)
	e.store, err = store.Load(filepath.Join(e.dir, "articles.json"))
	require.NoError(t, err)
	e.scheduler, err = schedule.Load(filepath.Join(e.dir, "progress.json"), filepath.Join(e.dir, "batch.txt"), batchSize, interval)
	require.NoError(t, err)
}

func (e *testEnv) orchestrator(p Params) *Orchestrator {
	p.KeywordsPath = e.keywordsPath
	p.Ledger = e.ledger
	p.Scheduler = e.scheduler
	p.Store = e.store
	return New(p)
}

// appendingGenerator mimics the real pipeline: commits each successful
// keyword to the store and reports the rest as failed
func appendingGenerator(t *testing.T, st *store.Store, fail map[string]bool) *mocks.GeneratorMock {
	t.Helper()
	return &mocks.GeneratorMock{
		GenerateBatchFunc: func(_ context.Context, keywords []string, backlogStart, _ int) pipeline.BatchResult {
			var res pipeline.BatchResult
			for i, kw := range keywords {
				if fail[kw] {
					res.Failed = append(res.Failed, kw)
					continue
				}
				a := domain.Article{
					Keyword: kw,
					Term:    kw,
					Slug:    strings.ReplaceAll(strings.ToLower(kw), " ", "-"),
					Date:    fmt.Sprintf("2026-08-%02d", 20+backlogStart+i),
					Summary: "summary of " + kw,
				}
				require.NoError(t, st.Append(a))
				res.Generated = append(res.Generated, a)
			}
			return res
		},
	}
}

func TestOrchestrator_Run_EndToEnd(t *testing.T) {
	e := newTestEnv(t, []string{"first keyword", "second keyword"}, 5, 0)
	gen := appendingGenerator(t, e.store, nil)
	builder := &mocks.BuilderMock{BuildFunc: func(context.Context) error { return nil }}
	feed := &mocks.FeedEmitterMock{EmitFeedFunc: func([]domain.Article) error { return nil }}
	sitemap := &mocks.SitemapEmitterMock{EmitSitemapFunc: func([]domain.Article) error { return nil }}

	o := e.orchestrator(Params{Pipeline: gen, Builder: builder, Feed: feed, Sitemap: sitemap})

	res, err := o.Run(t.Context(), false)
	require.NoError(t, err)
	assert.Equal(t, &Result{Generated: 2, Reason: ReasonBatch}, res)

	// both articles committed and visible to the collaborators
	assert.Equal(t, 2, e.store.Len())
	require.Len(t, builder.BuildCalls(), 1)
	require.Len(t, feed.EmitFeedCalls(), 1)
	assert.Len(t, feed.EmitFeedCalls()[0].Articles, 2)
	require.Len(t, sitemap.EmitSitemapCalls(), 1)

	// progress drained to completed
	assert.Equal(t, domain.StatusCompleted, e.scheduler.Progress().Status)
	assert.Equal(t, []string{"first keyword", "second keyword"}, e.scheduler.Progress().ProcessedKeywords)

	// identical keyword file short-circuits the next run
	res, err = o.Run(t.Context(), false)
	require.NoError(t, err)
	assert.Equal(t, ReasonUnchanged, res.Reason)
	assert.Equal(t, 2, res.Skipped)
	assert.Len(t, gen.GenerateBatchCalls(), 1)
}

func TestOrchestrator_Run_MultiBatchDrain(t *testing.T) {
	keywords := []string{"kw one", "kw two", "kw three", "kw four", "kw five", "kw six", "kw seven"}
	e := newTestEnv(t, keywords, 3, 0)
	gen := appendingGenerator(t, e.store, nil)
	o := e.orchestrator(Params{Pipeline: gen})

	for i := 0; i < 3; i++ {
		res, err := o.Run(t.Context(), false)
		require.NoError(t, err)
		require.Equal(t, ReasonBatch, res.Reason, "run %d", i+1)
	}

	calls := gen.GenerateBatchCalls()
	require.Len(t, calls, 3)
	assert.Equal(t, []string{"kw one", "kw two", "kw three"}, calls[0].Keywords)
	assert.Equal(t, []string{"kw four", "kw five", "kw six"}, calls[1].Keywords)
	assert.Equal(t, []string{"kw seven"}, calls[2].Keywords)

	// ordinals keep spanning the full backlog across batches
	assert.Equal(t, 1, calls[0].BacklogStart)
	assert.Equal(t, 7, calls[0].Backlog)
	assert.Equal(t, 4, calls[1].BacklogStart)
	assert.Equal(t, 7, calls[1].Backlog)
	assert.Equal(t, 7, calls[2].BacklogStart)

	assert.Equal(t, domain.StatusCompleted, e.scheduler.Progress().Status)
	assert.Equal(t, 3, e.scheduler.Progress().TotalBatches)

	res, err := o.Run(t.Context(), false)
	require.NoError(t, err)
	assert.Equal(t, ReasonUnchanged, res.Reason)
}

func TestOrchestrator_Run_IntervalGate(t *testing.T) {
	e := newTestEnv(t, []string{"kw one", "kw two", "kw three"}, 2, time.Hour)
	gen := appendingGenerator(t, e.store, nil)
	o := e.orchestrator(Params{Pipeline: gen})

	res, err := o.Run(t.Context(), false)
	require.NoError(t, err)
	require.Equal(t, ReasonBatch, res.Reason)
	require.Equal(t, 2, res.Generated)

	// one keyword still pending but the hour has not elapsed
	res, err = o.Run(t.Context(), false)
	require.NoError(t, err)
	assert.Equal(t, ReasonInterval, res.Reason)
	assert.Len(t, gen.GenerateBatchCalls(), 1)

	// force bypasses the gate
	res, err = o.Run(t.Context(), true)
	require.NoError(t, err)
	assert.Equal(t, ReasonBatch, res.Reason)
	assert.Equal(t, 1, res.Generated)
}

func TestOrchestrator_Run_CompletedGate(t *testing.T) {
	e := newTestEnv(t, []string{"kw one"}, 5, 0)
	gen := appendingGenerator(t, e.store, nil)
	o := e.orchestrator(Params{Pipeline: gen})

	res, err := o.Run(t.Context(), false)
	require.NoError(t, err)
	require.Equal(t, ReasonBatch, res.Reason)
	require.Equal(t, domain.StatusCompleted, e.scheduler.Progress().Status)

	// a new keyword changes the hash, but completed status still gates the run
	require.NoError(t, os.WriteFile(e.keywordsPath, []byte("kw one\nkw two\n"), 0o600))
	res, err = o.Run(t.Context(), false)
	require.NoError(t, err)
	assert.Equal(t, ReasonCompleted, res.Reason)

	// forced run picks the new keyword up
	res, err = o.Run(t.Context(), true)
	require.NoError(t, err)
	assert.Equal(t, ReasonBatch, res.Reason)
	assert.Equal(t, 1, res.Generated)
	assert.Equal(t, 1, res.Skipped)
}

func TestOrchestrator_Run_UpToDate(t *testing.T) {
	e := newTestEnv(t, []string{"kw one"}, 5, 0)
	require.NoError(t, e.store.Append(domain.Article{Keyword: "kw one", Slug: "kw-one", Date: "2026-08-01"}))

	gen := appendingGenerator(t, e.store, nil)
	o := e.orchestrator(Params{Pipeline: gen})

	// nothing pending even though the hash is unknown
	res, err := o.Run(t.Context(), false)
	require.NoError(t, err)
	assert.Equal(t, ReasonUpToDate, res.Reason)
	assert.Equal(t, 1, res.Skipped)
	assert.Empty(t, gen.GenerateBatchCalls())
	assert.Equal(t, domain.StatusCompleted, e.scheduler.Progress().Status)
}

func TestOrchestrator_Run_PartialFailure(t *testing.T) {
	e := newTestEnv(t, []string{"good one", "bad one", "good two"}, 5, 0)
	gen := appendingGenerator(t, e.store, map[string]bool{"bad one": true})
	builder := &mocks.BuilderMock{BuildFunc: func(context.Context) error { return nil }}
	o := e.orchestrator(Params{Pipeline: gen, Builder: builder})

	res, err := o.Run(t.Context(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Generated)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []string{"bad one"}, res.FailedKeywords)

	// failed keyword stays pending and the hash stays unset, so the next
	// run retries exactly it
	assert.Equal(t, domain.StatusIdle, e.scheduler.Progress().Status)

	gen.GenerateBatchFunc = appendingGenerator(t, e.store, nil).GenerateBatchFunc
	res, err = o.Run(t.Context(), false)
	require.NoError(t, err)
	assert.Equal(t, ReasonBatch, res.Reason)
	assert.Equal(t, 1, res.Generated)
	require.Len(t, gen.GenerateBatchCalls(), 2)
	assert.Equal(t, []string{"bad one"}, gen.GenerateBatchCalls()[1].Keywords)
	assert.Equal(t, domain.StatusCompleted, e.scheduler.Progress().Status)

	// collaborators ran after both batches, articles were produced each time
	assert.Len(t, builder.BuildCalls(), 2)
}

func TestOrchestrator_Run_CrashResume(t *testing.T) {
	keywords := []string{"kw one", "kw two", "kw three"}
	e := newTestEnv(t, keywords, 3, 0)

	// simulate a crash mid-batch: batch prepared, one keyword committed,
	// progress never completed
	batch, err := e.scheduler.Prepare(keywords)
	require.NoError(t, err)
	require.Equal(t, keywords, batch)
	require.NoError(t, e.store.Append(domain.Article{Keyword: "kw one", Slug: "kw-one", Date: "2026-08-01"}))

	// fresh process picks the interrupted batch up, minus the committed keyword
	e.reload(t, 3, 0)
	gen := appendingGenerator(t, e.store, nil)
	o := e.orchestrator(Params{Pipeline: gen})

	res, err := o.Run(t.Context(), false)
	require.NoError(t, err)
	assert.Equal(t, ReasonBatch, res.Reason)
	assert.Equal(t, 2, res.Generated)
	assert.Equal(t, 1, res.Skipped)

	require.Len(t, gen.GenerateBatchCalls(), 1)
	assert.Equal(t, []string{"kw two", "kw three"}, gen.GenerateBatchCalls()[0].Keywords)

	// resuming did not open a second batch
	assert.Equal(t, 1, e.scheduler.Progress().CurrentBatch)
	assert.Equal(t, domain.StatusCompleted, e.scheduler.Progress().Status)
	assert.NoFileExists(t, filepath.Join(e.dir, "batch.txt"))
}

func TestOrchestrator_Run_MissingKeywordsFile(t *testing.T) {
	e := newTestEnv(t, []string{"kw one"}, 5, 0)
	require.NoError(t, os.Remove(e.keywordsPath))

	o := e.orchestrator(Params{Pipeline: appendingGenerator(t, e.store, nil)})
	_, err := o.Run(t.Context(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load keywords")
}

func TestOrchestrator_Run_CollaboratorFailureIsSoft(t *testing.T) {
	e := newTestEnv(t, []string{"kw one"}, 5, 0)
	builder := &mocks.BuilderMock{BuildFunc: func(context.Context) error { return fmt.Errorf("npm exploded") }}
	o := e.orchestrator(Params{Pipeline: appendingGenerator(t, e.store, nil), Builder: builder})

	res, err := o.Run(t.Context(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Generated)
	assert.Len(t, builder.BuildCalls(), 1)
}

func TestOrchestrator_BackfillImages(t *testing.T) {
	e := newTestEnv(t, []string{"kw one"}, 5, 0)
	require.NoError(t, e.store.Append(domain.Article{Keyword: "has image", Slug: "has-image", Date: "2026-08-01", ImageURL: "https://img.example.com/a.jpg"}))
	require.NoError(t, e.store.Append(domain.Article{Keyword: "no match", Slug: "no-match", Date: "2026-08-02"}))
	require.NoError(t, e.store.Append(domain.Article{Keyword: "gets image", Slug: "gets-image", Date: "2026-08-03"}))

	searcher := &mocks.SearcherMock{
		FirstLandscapeFunc: func(_ context.Context, query string) (string, error) {
			if query == "gets image" {
				return "https://img.example.com/b.jpg", nil
			}
			return "", nil
		},
	}
	o := e.orchestrator(Params{Searcher: searcher})

	filled, err := o.BackfillImages(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, filled)

	// only the articles without an image were searched
	require.Len(t, searcher.FirstLandscapeCalls(), 2)

	// the update is persisted
	e.reload(t, 5, 0)
	for _, a := range e.store.Articles() {
		if a.Slug == "gets-image" {
			assert.Equal(t, "https://img.example.com/b.jpg", a.ImageURL)
		}
	}
}

func TestOrchestrator_BackfillImages_Disabled(t *testing.T) {
	e := newTestEnv(t, []string{"kw one"}, 5, 0)
	o := e.orchestrator(Params{})
	_, err := o.BackfillImages(t.Context())
	require.Error(t, err)
}

func TestOrchestrator_Status(t *testing.T) {
	e := newTestEnv(t, []string{"kw one", "kw two", "kw three"}, 2, time.Hour)
	o := e.orchestrator(Params{Pipeline: appendingGenerator(t, e.store, nil)})

	res, err := o.Run(t.Context(), false)
	require.NoError(t, err)
	require.Equal(t, 2, res.Generated)

	st, err := o.Status()
	require.NoError(t, err)
	assert.Equal(t, 2, st.Processed)
	assert.Equal(t, 1, st.Pending)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, domain.StatusIdle, st.State)
	assert.InDelta(t, 66.6, st.Percent, 0.1)
	require.NotNil(t, st.EstimatedCompletion)
}
