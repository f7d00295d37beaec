package audit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertyscope/content-engine/internal/quality"
)

func TestRun_ReportsPageAndSchedulingIssues(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/good", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Fine</title><meta name="description" content="All good."></head><body>ok</body></html>`)
	})
	mux.HandleFunc("/bare", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head></head><body>No head metadata.</body></html>`)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>%s/good</loc></url>
  <url><loc>%s/bare</loc></url>
  <url><loc>http://blocked.example/page</loc></url>
</urlset>`, server.URL, server.URL)
	})

	parsed, err := url.Parse(server.URL)
	require.NoError(t, err)

	auditor := NewAuditor(&Config{
		SitemapURL:     server.URL + "/sitemap.xml",
		UserAgent:      "audit-test",
		AllowedDomains: []string{parsed.Hostname(), parsed.Host},
		MaxPages:       10,
	})

	results, err := auditor.Run(context.Background())
	require.NoError(t, err)

	byURL := make(map[string][]string, len(results))
	for _, page := range results {
		byURL[page.URL] = page.Issues
	}

	assert.NotContains(t, byURL, server.URL+"/good", "a healthy page must not be reported")
	assert.Contains(t, byURL[server.URL+"/bare"], quality.IssueMissingTitle)
	assert.Contains(t, byURL[server.URL+"/bare"], quality.IssueMissingMetaDesc)

	// URLs colly refuses to schedule must still show up in the report.
	assert.Contains(t, byURL["http://blocked.example/page"], IssueUnreachable)
}
