// internal/models/sitemap.go
package models

import "encoding/xml"

// Sitemap represents the structure of an XML sitemap.
type Sitemap struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// URL represents a single URL entry in the sitemap.
type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// SitemapXMLNamespace is the urlset namespace required by the sitemap protocol.
const SitemapXMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"
