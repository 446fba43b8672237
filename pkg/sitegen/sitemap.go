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

// URLSet represents the sitemap root element per sitemaps.org
type URLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapURL represents a single sitemap entry
type SitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
}

// SitemapEmitter writes a sitemap over the site root and article routes
type SitemapEmitter struct {
	baseURL string
	outPath string
	nowFn   func() time.Time
}

// NewSitemapEmitter creates a sitemap emitter writing to outputDir/sitemap.xml
func NewSitemapEmitter(cfg config.SiteConfig) *SitemapEmitter {
	return &SitemapEmitter{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		outPath: filepath.Join(cfg.OutputDir, "sitemap.xml"),
		nowFn:   time.Now,
	}
}

// EmitSitemap renders and writes the sitemap, skipping future-dated articles
func (e *SitemapEmitter) EmitSitemap(articles []domain.Article) error {
	xmlStr, err := e.render(articles)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(e.outPath), 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(e.outPath, []byte(xmlStr), 0o600); err != nil {
		return fmt.Errorf("write sitemap: %w", err)
	}
	return nil
}

func (e *SitemapEmitter) render(articles []domain.Article) (string, error) {
	today := e.nowFn().Format("2006-01-02")

	urls := []SitemapURL{
		{Loc: e.baseURL + "/", LastMod: today, ChangeFreq: "daily"},
	}
	for _, a := range articles {
		if a.Date > today {
			continue
		}
		urls = append(urls, SitemapURL{
			Loc:        fmt.Sprintf("%s/blog/%s", e.baseURL, a.Slug),
			LastMod:    a.Date,
			ChangeFreq: "monthly",
		})
	}

	set := &URLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}

	output, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal sitemap: %w", err)
	}

	return xml.Header + string(output), nil
}
