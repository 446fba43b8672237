package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/gosimple/slug"

	"github.com/contentforge/contentforge/pkg/domain"
	"github.com/contentforge/contentforge/pkg/llm"
)

//go:generate moq -out mocks/generator.go -pkg mocks -skip-ensure -fmt goimports . Generator
//go:generate moq -out mocks/searcher.go -pkg mocks -skip-ensure -fmt goimports . Searcher
//go:generate moq -out mocks/committer.go -pkg mocks -skip-ensure -fmt goimports . Committer

// Generator produces raw model output for a prompt, the credential rotator
// in production
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Searcher finds an illustration image for a keyword
type Searcher interface {
	FirstLandscape(ctx context.Context, query string) (string, error)
}

// Committer persists a finished article, the article store in production.
// Append is expected to flush to disk before returning.
type Committer interface {
	Append(article domain.Article) error
}

// Pipeline runs the per-keyword generation state machine: strategy, draft,
// uniqueness rewrite, image enrichment, commit. Steps are strictly
// sequential with a fixed throttle delay after every external call, there is
// never more than one request in flight.
type Pipeline struct {
	gen       Generator
	searcher  Searcher // nil means image enrichment is disabled
	committer Committer

	delay        time.Duration
	backdateDays int
	futureDays   int

	nowFn func() time.Time
}

// Params holds pipeline dependencies and settings
type Params struct {
	Generator    Generator
	Searcher     Searcher
	Committer    Committer
	Delay        time.Duration
	BackdateDays int
	FutureDays   int
	NowFn        func() time.Time
}

// BatchResult reports the outcome of one batch run
type BatchResult struct {
	Generated []domain.Article
	Failed    []string
}

// New creates a pipeline from params
func New(p Params) *Pipeline {
	if p.NowFn == nil {
		p.NowFn = time.Now
	}
	return &Pipeline{
		gen:          p.Generator,
		searcher:     p.Searcher,
		committer:    p.Committer,
		delay:        p.Delay,
		backdateDays: p.BackdateDays,
		futureDays:   p.FutureDays,
		nowFn:        p.NowFn,
	}
}

// GenerateBatch runs the pipeline for each keyword in order. Per-keyword
// failures are collected and the batch continues, an aborted context stops
// between keywords. Each successful article is committed before the next
// keyword starts, so an interrupted batch keeps everything finished so far.
func (p *Pipeline) GenerateBatch(ctx context.Context, keywords []string, backlogStart, backlog int) BatchResult {
	var res BatchResult

	for i, keyword := range keywords {
		if ctx.Err() != nil {
			lgr.Printf("[INFO] batch aborted after %d of %d keywords", i, len(keywords))
			break
		}

		lgr.Printf("[INFO] generating article %d/%d: %q", i+1, len(keywords), keyword)

		article, err := p.GenerateOne(ctx, keyword, backlogStart+i, backlog)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			lgr.Printf("[ERROR] keyword %q failed: %v", keyword, err)
			res.Failed = append(res.Failed, keyword)
			_ = p.wait(ctx) // inter-keyword throttle applies to failures too
			continue
		}

		if err := p.committer.Append(*article); err != nil {
			lgr.Printf("[ERROR] failed to persist article for %q: %v", keyword, err)
			res.Failed = append(res.Failed, keyword)
			_ = p.wait(ctx)
			continue
		}

		res.Generated = append(res.Generated, *article)
		lgr.Printf("[INFO] committed %q (slug %s, dated %s)", keyword, article.Slug, article.Date)

		if err := p.wait(ctx); err != nil {
			break
		}
	}

	return res
}

// GenerateOne produces a single article for a keyword. The ordinal is the
// keyword's 1-based position across the full backlog (existing plus new) and
// drives the publish-date slot. No partial article ever escapes a failure:
// the record is assembled only after every step has finished.
func (p *Pipeline) GenerateOne(ctx context.Context, keyword string, ordinal, backlog int) (*domain.Article, error) {
	// step 1: strategy
	strat, err := p.runStrategy(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("strategy: %w", err)
	}

	// step 2: draft, dated by the scheduling formula
	date := PublishDate(p.nowFn(), ordinal, backlog, p.backdateDays, p.futureDays).Format("2006-01-02")
	draft, err := p.runDraft(ctx, keyword, strat, date)
	if err != nil {
		return nil, fmt.Errorf("draft: %w", err)
	}

	// step 3: uniqueness rewrite, non-fatal per field
	draft.Summary = p.rewrite(ctx, "summary", draft.Summary)
	draft.DeepDive = p.rewrite(ctx, "deep dive", draft.DeepDive)

	// step 4: image enrichment, non-fatal
	imageURL := p.findImage(ctx, keyword)

	// step 5: assemble
	term := strings.TrimSpace(strat.Term)
	if term == "" {
		term = keyword
	}

	article := &domain.Article{
		Keyword:      keyword,
		Term:         term,
		Slug:         slug.Make(keyword),
		Date:         date,
		Category:     strat.Category,
		CategorySlug: slug.Make(strat.Category),
		Tags:         strat.Tags,
		IsPopular:    strat.IsPopular,
		Summary:      draft.Summary,
		DeepDive:     draft.DeepDive,
		Importance:   draft.Importance,
		ProsCons:     draft.ProsCons,
		FAQ:          draft.FAQ,
		ImageURL:     imageURL,
	}
	return article, nil
}

func (p *Pipeline) runStrategy(ctx context.Context, keyword string) (*domain.Strategy, error) {
	raw, err := p.gen.Generate(ctx, strategyPrompt(keyword))
	if err != nil {
		return nil, err
	}
	if err := p.wait(ctx); err != nil {
		return nil, err
	}

	span, err := llm.ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var strat domain.Strategy
	if err := json.Unmarshal([]byte(span), &strat); err != nil {
		return nil, fmt.Errorf("parse strategy json: %w", err)
	}
	return &strat, nil
}

func (p *Pipeline) runDraft(ctx context.Context, keyword string, strat *domain.Strategy, date string) (*domain.Draft, error) {
	raw, err := p.gen.Generate(ctx, draftPrompt(keyword, strat, date))
	if err != nil {
		return nil, err
	}
	if err := p.wait(ctx); err != nil {
		return nil, err
	}

	span, err := llm.ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var draft domain.Draft
	if err := json.Unmarshal([]byte(span), &draft); err != nil {
		return nil, fmt.Errorf("parse draft json: %w", err)
	}
	return &draft, nil
}

// rewrite runs the uniqueness pass over one field. Any failure keeps the
// original text, a weaker article beats a lost one.
func (p *Pipeline) rewrite(ctx context.Context, field, text string) string {
	if text == "" {
		return text
	}

	raw, err := p.gen.Generate(ctx, rewritePrompt(field, text))
	_ = p.wait(ctx) // throttle applies to failed calls too
	if err != nil {
		lgr.Printf("[WARN] uniqueness rewrite of %s failed, keeping original: %v", field, err)
		return text
	}

	if rewritten := strings.TrimSpace(raw); rewritten != "" {
		return rewritten
	}
	return text
}

// findImage queries the image searcher, empty on any failure
func (p *Pipeline) findImage(ctx context.Context, keyword string) string {
	if p.searcher == nil {
		return ""
	}

	url, err := p.searcher.FirstLandscape(ctx, keyword)
	_ = p.wait(ctx) // throttle applies to failed calls too
	if err != nil {
		lgr.Printf("[WARN] image search for %q failed: %v", keyword, err)
		return ""
	}
	return url
}

// wait applies the throttle delay, honoring context cancellation
func (p *Pipeline) wait(ctx context.Context) error {
	if p.delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.delay):
		return nil
	}
}
