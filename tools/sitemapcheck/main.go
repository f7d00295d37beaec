// Fetches a live sitemap and validates it against the sitemap protocol:
// priorities in [0,1], known change frequencies, parseable lastmod dates.
// A sample of the listed pages is fetched and checked for a <title>.
package main

import (
	"encoding/xml"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

type Sitemap struct {
	XMLName xml.Name `xml:"urlset"`
	URLs    []URL    `xml:"url"`
}

type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

var validFrequencies = map[string]bool{
	"always": true, "hourly": true, "daily": true, "weekly": true,
	"monthly": true, "yearly": true, "never": true,
}

func main() {
	var sitemapURL string
	var samples int
	flag.StringVar(&sitemapURL, "url", "", "sitemap URL to validate")
	flag.IntVar(&samples, "samples", 3, "number of listed pages to spot-check")
	flag.Parse()

	if sitemapURL == "" {
		log.Fatal("Usage: sitemapcheck -url https://example.com/sitemap.xml")
	}

	sitemap, err := fetchSitemap(sitemapURL)
	if err != nil {
		log.Fatalf("Error fetching sitemap: %v", err)
	}

	fmt.Printf("Total URLs found: %d\n\n", len(sitemap.URLs))

	problems := 0
	lastPriority := 2.0
	sorted := true
	for i, u := range sitemap.URLs {
		if u.Loc == "" {
			fmt.Printf("Entry %d: empty <loc>\n", i+1)
			problems++
		}
		if u.Priority != "" {
			p, err := strconv.ParseFloat(u.Priority, 64)
			if err != nil || p < 0 || p > 1 {
				fmt.Printf("Entry %d (%s): invalid priority %q\n", i+1, u.Loc, u.Priority)
				problems++
			} else {
				if p > lastPriority {
					sorted = false
				}
				lastPriority = p
			}
		}
		if u.ChangeFreq != "" && !validFrequencies[u.ChangeFreq] {
			fmt.Printf("Entry %d (%s): invalid changefreq %q\n", i+1, u.Loc, u.ChangeFreq)
			problems++
		}
	}

	if !sorted {
		fmt.Println("Warning: entries are not in descending priority order")
	}
	fmt.Printf("Validation problems: %d\n", problems)

	for i := 0; i < samples && i < len(sitemap.URLs); i++ {
		sampleURL := sitemap.URLs[i].Loc
		fmt.Printf("\n=== Spot-checking %d/%d: %s ===\n", i+1, samples, sampleURL)

		doc, err := fetchAndParseHTML(sampleURL)
		if err != nil {
			log.Printf("Error fetching page: %v", err)
			continue
		}

		if title := findTitle(doc); title != "" {
			fmt.Printf("Title: %s\n", title)
		} else {
			fmt.Println("Missing <title> element")
		}
	}
}

func fetchSitemap(url string) (*Sitemap, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var sitemap Sitemap
	if err := xml.Unmarshal(body, &sitemap); err != nil {
		return nil, err
	}
	return &sitemap, nil
}

func fetchAndParseHTML(url string) (*html.Node, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return html.Parse(resp.Body)
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		var sb strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
		}
		return strings.TrimSpace(sb.String())
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := findTitle(c); title != "" {
			return title
		}
	}
	return ""
}
