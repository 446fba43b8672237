package sitegen

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/contentforge/contentforge/pkg/config"
	"github.com/contentforge/contentforge/pkg/domain"
)

// RSS represents the root RSS 2.0 element
type RSS struct {
	XMLName xml.Name    `xml:"rss"`
	Version string      `xml:"version,attr"`
	Atom    string      `xml:"xmlns:atom,attr"`
	Channel *RSSChannel `xml:"channel"`
}

// RSSChannel represents an RSS channel
type RSSChannel struct {
	XMLName       xml.Name   `xml:"channel"`
	Title         string     `xml:"title"`
	Link          string     `xml:"link"`
	Description   string     `xml:"description"`
	AtomLink      *AtomLink  `xml:"http://www.w3.org/2005/Atom link"`
	LastBuildDate string     `xml:"lastBuildDate"`
	Items         []*RSSItem `xml:"item"`
}

// AtomLink represents an Atom link element within RSS
type AtomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

// RSSItem represents an item in an RSS feed
type RSSItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        string   `xml:"guid"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate"`
	Categories  []string `xml:"category"`
}

// FeedEmitter writes an RSS 2.0 feed over the generated articles. It is one
// of the post-build collaborators the orchestrator invokes after a batch.
type FeedEmitter struct {
	baseURL     string
	title       string
	description string
	outPath     string
	nowFn       func() time.Time
}

// NewFeedEmitter creates a feed emitter writing to outputDir/rss.xml
func NewFeedEmitter(cfg config.SiteConfig) *FeedEmitter {
	return &FeedEmitter{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		title:       cfg.Title,
		description: cfg.Description,
		outPath:     filepath.Join(cfg.OutputDir, "rss.xml"),
		nowFn:       time.Now,
	}
}

// EmitFeed renders and writes the feed. Future-dated articles are excluded,
// forward-scheduled posts are not public yet.
func (e *FeedEmitter) EmitFeed(articles []domain.Article) error {
	xmlStr, err := e.render(articles)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(e.outPath), 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(e.outPath, []byte(xmlStr), 0o600); err != nil {
		return fmt.Errorf("write rss feed: %w", err)
	}
	return nil
}

func (e *FeedEmitter) render(articles []domain.Article) (string, error) {
	today := e.nowFn().Format("2006-01-02")

	items := make([]*RSSItem, 0, len(articles))
	for _, a := range articles {
		if a.Date > today {
			continue
		}
		items = append(items, e.convertItem(a))
	}

	feed := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:         e.title,
			Link:          e.baseURL + "/",
			Description:   e.description,
			AtomLink:      &AtomLink{Href: e.baseURL + "/rss.xml", Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: e.nowFn().Format(time.RFC1123Z),
			Items:         items,
		},
	}

	output, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}

	return xml.Header + string(output), nil
}

func (e *FeedEmitter) convertItem(a domain.Article) *RSSItem {
	pubDate, err := time.Parse("2006-01-02", a.Date)
	if err != nil {
		pubDate = e.nowFn()
	}

	return &RSSItem{
		Title:       a.Term,
		Link:        e.articleURL(a),
		GUID:        e.articleURL(a),
		Description: a.Summary,
		PubDate:     pubDate.Format(time.RFC1123Z),
		Categories:  append([]string{a.Category}, a.Tags...),
	}
}

func (e *FeedEmitter) articleURL(a domain.Article) string {
	return fmt.Sprintf("%s/blog/%s", e.baseURL, a.Slug)
}
