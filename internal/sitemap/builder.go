package sitemap

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/propertyscope/content-engine/internal/metrics"
	"github.com/propertyscope/content-engine/internal/models"
)

// Entry is one URL in the generated sitemap.
type Entry struct {
	URL          string
	LastModified time.Time
	ChangeFreq   ChangeFreq
	Priority     float64
}

// StaticRoute is a hand-maintained marketing route emitted for every locale.
type StaticRoute struct {
	Path  string
	Route RouteType
}

// Record is one dynamic URL produced by a Source.
type Record struct {
	Path         string
	Route        RouteType
	Featured     bool
	IsNew        bool
	LastModified time.Time
}

// Source supplies dynamic sitemap records from one content table. Sources
// are independent; a failing source never affects the others.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Record, error)
}

// Config holds the site-shape inputs for sitemap generation.
type Config struct {
	BaseURL       string
	Locales       []string
	DefaultLocale string
	SourceTimeout time.Duration
	BuildTimeout  time.Duration
}

type Builder struct {
	cfg     Config
	static  []StaticRoute
	sources []Source
	logger  *log.Logger
}

func NewBuilder(cfg Config, sources []Source, logger *log.Logger) *Builder {
	if cfg.SourceTimeout <= 0 {
		cfg.SourceTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{
		cfg:     cfg,
		static:  DefaultStaticRoutes(),
		sources: sources,
		logger:  logger,
	}
}

// DefaultStaticRoutes lists the hand-maintained marketing routes.
func DefaultStaticRoutes() []StaticRoute {
	return []StaticRoute{
		{Path: "/", Route: RouteHomepage},
		{Path: "/properties", Route: RouteCornerstone},
		{Path: "/guides/buying", Route: RouteCornerstone},
		{Path: "/guides/investment", Route: RouteCornerstone},
		{Path: "/blog", Route: RouteHub},
		{Path: "/news", Route: RouteHub},
		{Path: "/areas", Route: RouteHub},
		{Path: "/about", Route: RoutePage},
		{Path: "/contact", Route: RoutePage},
	}
}

// Build assembles the full sitemap: static routes plus every dynamic source,
// across all locales, sorted by descending priority. It never fails: a
// source error drops that source's entries and is logged, and an exhausted
// build deadline returns whatever has accumulated. Static routes are always
// present.
func (b *Builder) Build(ctx context.Context) []Entry {
	metrics.SitemapBuilds.Inc()

	if b.cfg.BuildTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.BuildTimeout)
		defer cancel()
	}

	now := time.Now()
	entries := make([]Entry, 0, 128)

	for _, route := range b.static {
		entries = append(entries, b.localized(route.Path, route.Route, false, false, now)...)
	}

	for _, source := range b.sources {
		if ctx.Err() != nil {
			b.logger.Printf("sitemap: build deadline reached, returning %d entries", len(entries))
			break
		}

		records, err := b.fetchSource(ctx, source)
		if err != nil {
			metrics.SitemapSourceFailures.WithLabelValues(source.Name()).Inc()
			b.logger.Printf("sitemap: source %s failed, contributing zero entries: %v", source.Name(), err)
			continue
		}

		for _, rec := range records {
			lastMod := rec.LastModified
			if lastMod.IsZero() {
				lastMod = now
			}
			entries = append(entries, b.localized(rec.Path, rec.Route, rec.Featured, rec.IsNew, lastMod)...)
		}
	}

	b.warnDuplicates(entries)

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Priority > entries[j].Priority
	})

	metrics.SitemapEntries.Set(float64(len(entries)))
	return entries
}

func (b *Builder) fetchSource(ctx context.Context, source Source) ([]Record, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, b.cfg.SourceTimeout)
	defer cancel()
	return source.Fetch(fetchCtx)
}

func (b *Builder) localized(path string, route RouteType, featured, isNew bool, lastMod time.Time) []Entry {
	priority := CalculatePriority(route, featured, isNew)
	freq := ChangeFrequency(route)

	locales := b.cfg.Locales
	if len(locales) == 0 {
		locales = []string{b.cfg.DefaultLocale}
	}

	entries := make([]Entry, 0, len(locales))
	for _, locale := range locales {
		entries = append(entries, Entry{
			URL:          LocalizeURL(b.cfg.BaseURL, b.cfg.DefaultLocale, locale, path),
			LastModified: lastMod,
			ChangeFreq:   freq,
			Priority:     priority,
		})
	}
	return entries
}

// Duplicate URLs across sources signal bad upstream data. They are reported
// but kept in the output rather than silently collapsed.
func (b *Builder) warnDuplicates(entries []Entry) {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.URL] {
			b.logger.Printf("sitemap: duplicate URL in output: %s", e.URL)
		}
		seen[e.URL] = true
	}
}

// LocalizeURL builds the absolute URL for a path in a locale. The default
// locale is served unprefixed; other locales get a path prefix.
func LocalizeURL(baseURL, defaultLocale, locale, path string) string {
	base := strings.TrimRight(baseURL, "/")
	if path == "/" {
		path = ""
	}
	if locale == "" || locale == defaultLocale {
		if path == "" {
			return base + "/"
		}
		return base + path
	}
	return base + "/" + locale + path
}

// Fallback returns the minimal static sitemap served when the store cannot
// be constructed at all: home plus the two top category pages, per locale.
func Fallback(cfg Config) []Entry {
	b := &Builder{cfg: cfg, static: nil, logger: log.Default()}
	now := time.Now()

	entries := make([]Entry, 0, 3*len(cfg.Locales))
	entries = append(entries, b.localized("/", RouteHomepage, false, false, now)...)
	entries = append(entries, b.localized("/properties", RouteCornerstone, false, false, now)...)
	entries = append(entries, b.localized("/blog", RouteHub, false, false, now)...)

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Priority > entries[j].Priority
	})
	return entries
}

// ToXML projects entries onto the sitemap protocol's urlset document.
func ToXML(entries []Entry) models.Sitemap {
	urls := make([]models.URL, 0, len(entries))
	for _, e := range entries {
		urls = append(urls, models.URL{
			Loc:        e.URL,
			LastMod:    e.LastModified.UTC().Format("2006-01-02"),
			ChangeFreq: string(e.ChangeFreq),
			Priority:   fmt.Sprintf("%.2f", e.Priority),
		})
	}
	return models.Sitemap{
		Xmlns: models.SitemapXMLNamespace,
		URLs:  urls,
	}
}
