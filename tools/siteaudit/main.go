// Crawls the site's own sitemap and reports pages with on-page problems
// (unreachable, missing title, missing meta description).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/propertyscope/content-engine/config"
	"github.com/propertyscope/content-engine/internal/audit"
)

func main() {
	var sitemapURL string
	var maxPages int
	flag.StringVar(&sitemapURL, "url", "", "sitemap URL to audit")
	flag.IntVar(&maxPages, "max-pages", 200, "maximum pages to fetch")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if sitemapURL == "" {
		sitemapURL = strings.TrimRight(cfg.Site.BaseURL, "/") + "/sitemap.xml"
	}

	parsed, err := url.Parse(sitemapURL)
	if err != nil {
		log.Fatalf("Invalid sitemap URL: %v", err)
	}

	auditor := audit.NewAuditor(&audit.Config{
		SitemapURL:     sitemapURL,
		UserAgent:      cfg.Audit.UserAgent,
		AllowedDomains: []string{parsed.Hostname()},
		MaxPages:       maxPages,
	})

	results, err := auditor.Run(context.Background())
	if err != nil {
		log.Fatalf("Audit failed: %v", err)
	}

	if len(results) == 0 {
		fmt.Println("No page issues found")
		return
	}

	fmt.Printf("Pages with issues: %d\n\n", len(results))
	for _, page := range results {
		fmt.Printf("%s\n", page.URL)
		for _, issue := range page.Issues {
			fmt.Printf("  - %s\n", issue)
		}
	}
}
