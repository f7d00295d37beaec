// Package audit crawls the site's own sitemap and checks each page for the
// on-page problems the quality dashboard tracks: unreachable URLs, missing
// titles, missing meta descriptions.
package audit

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/propertyscope/content-engine/internal/models"
	"github.com/propertyscope/content-engine/internal/quality"
)

const IssueUnreachable = "Unreachable"

type Config struct {
	SitemapURL     string
	UserAgent      string
	AllowedDomains []string
	MaxPages       int
	Parallelism    int
}

// PageIssue reports the problems found on one page.
type PageIssue struct {
	URL    string   `json:"url"`
	Issues []string `json:"issues"`
}

type Auditor struct {
	collector  *colly.Collector
	config     *Config
	httpClient *http.Client

	mutex   sync.Mutex
	results []PageIssue
}

func NewAuditor(config *Config) *Auditor {
	if config.MaxPages <= 0 {
		config.MaxPages = 200
	}
	if config.Parallelism <= 0 {
		config.Parallelism = 2
	}

	c := colly.NewCollector(
		colly.UserAgent(config.UserAgent),
		colly.MaxDepth(1),
		colly.AllowedDomains(config.AllowedDomains...),
		colly.Async(true),
	)

	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: config.Parallelism,
		RandomDelay: 1 * time.Second,
	})

	a := &Auditor{
		collector:  c,
		config:     config,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}

	c.OnHTML("html", func(e *colly.HTMLElement) {
		var issues []string

		title := strings.TrimSpace(e.DOM.Find("title").First().Text())
		if title == "" {
			issues = append(issues, quality.IssueMissingTitle)
		}

		meta, _ := e.DOM.Find("meta[name='description']").Attr("content")
		if strings.TrimSpace(meta) == "" {
			issues = append(issues, quality.IssueMissingMetaDesc)
		}

		if len(issues) > 0 {
			a.record(e.Request.URL.String(), issues)
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		a.record(r.Request.URL.String(), []string{IssueUnreachable})
	})

	return a
}

// Run fetches the sitemap and audits up to MaxPages of its URLs. The result
// lists only pages with problems.
func (a *Auditor) Run(ctx context.Context) ([]PageIssue, error) {
	urls, err := a.fetchSitemapURLs(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch sitemap: %w", err)
	}

	if len(urls) > a.config.MaxPages {
		urls = urls[:a.config.MaxPages]
	}

	for _, u := range urls {
		if ctx.Err() != nil {
			break
		}
		// Visit fails synchronously for URLs colly refuses to schedule
		// (disallowed domain, malformed); the OnError callback never sees
		// those, so they are recorded here.
		if err := a.collector.Visit(u); err != nil {
			a.record(u, []string{IssueUnreachable})
		}
	}
	a.collector.Wait()

	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.results, nil
}

func (a *Auditor) fetchSitemapURLs(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.config.SitemapURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", a.config.UserAgent)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sitemap returned status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var sm models.Sitemap
	if err := xml.Unmarshal(body, &sm); err != nil {
		return nil, fmt.Errorf("parse sitemap XML: %w", err)
	}

	urls := make([]string, 0, len(sm.URLs))
	for _, u := range sm.URLs {
		if u.Loc != "" {
			urls = append(urls, u.Loc)
		}
	}
	return urls, nil
}

func (a *Auditor) record(url string, issues []string) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.results = append(a.results, PageIssue{URL: url, Issues: issues})
}
