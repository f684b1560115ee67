// Package linkpreview fetches landing pages and extracts Open Graph
// metadata. The orchestrator uses it to backfill creative imagery when a
// selected variant carries no image URL.
package linkpreview

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

type Preview struct {
	URL         string    `json:"url"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	SiteName    string    `json:"site_name,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
}

type Fetcher struct {
	httpClient *http.Client
	log        *zap.Logger
	maxRetries int
}

func NewFetcher(timeout time.Duration, maxRetries int, log *zap.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
		maxRetries: maxRetries,
	}
}

// Fetch downloads the page and extracts og: tags, falling back to <title>
// and the meta description.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Preview, error) {
	var doc *goquery.Document
	var lastErr error

	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; AdWizardBot/1.0)")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")

		resp, err := f.httpClient.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d for %s", resp.StatusCode, pageURL)
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}

		doc, err = goquery.NewDocumentFromReader(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		lastErr = nil
		break
	}

	if doc == nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, lastErr)
	}

	p := &Preview{URL: pageURL, FetchedAt: time.Now()}

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		prop, _ := s.Attr("property")
		name, _ := s.Attr("name")
		content, _ := s.Attr("content")
		content = strings.TrimSpace(content)
		if content == "" {
			return
		}
		switch {
		case prop == "og:title" && p.Title == "":
			p.Title = content
		case prop == "og:description" && p.Description == "":
			p.Description = content
		case prop == "og:image" && p.ImageURL == "":
			p.ImageURL = content
		case prop == "og:site_name" && p.SiteName == "":
			p.SiteName = content
		case name == "description" && p.Description == "":
			p.Description = content
		}
	})

	if p.Title == "" {
		p.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	return p, nil
}
