// Package sitemap builds the site's sitemap: static marketing routes plus
// database-backed entries (listings, editorial content, neighborhoods,
// property-type pages) across every supported locale, priority-ranked for
// crawlers.
package sitemap

// RouteType classifies a URL for priority and change-frequency assignment.
type RouteType string

const (
	RouteHomepage     RouteType = "homepage"
	RouteCornerstone  RouteType = "cornerstone"
	RouteHub          RouteType = "hub"
	RouteListing      RouteType = "listing"
	RouteArticle      RouteType = "article"
	RouteNews         RouteType = "news"
	RouteNeighborhood RouteType = "neighborhood"
	RoutePage         RouteType = "page"
)

// ChangeFreq is the sitemap protocol's change-frequency hint.
type ChangeFreq string

const (
	FreqAlways  ChangeFreq = "always"
	FreqHourly  ChangeFreq = "hourly"
	FreqDaily   ChangeFreq = "daily"
	FreqWeekly  ChangeFreq = "weekly"
	FreqMonthly ChangeFreq = "monthly"
	FreqYearly  ChangeFreq = "yearly"
	FreqNever   ChangeFreq = "never"
)

// defaultPriority is used for route types the table does not know about.
// Sitemap generation must never fail on one entry, so unknown types fail
// closed to a mid-range value.
const defaultPriority = 0.5

const (
	featuredBoost = 0.10
	newBoost      = 0.05
)

// Base priorities rank SEO importance: homepage first, cornerstone and hub
// landing pages next, transactional listings high, editorial medium, static
// informational pages low.
var basePriorities = map[RouteType]float64{
	RouteHomepage:     1.0,
	RouteCornerstone:  0.9,
	RouteHub:          0.85,
	RouteListing:      0.8,
	RouteNeighborhood: 0.7,
	RouteArticle:      0.6,
	RouteNews:         0.6,
	RoutePage:         0.4,
}

var changeFrequencies = map[RouteType]ChangeFreq{
	RouteHomepage:     FreqDaily,
	RouteListing:      FreqDaily,
	RouteNews:         FreqDaily,
	RouteCornerstone:  FreqWeekly,
	RouteHub:          FreqWeekly,
	RouteArticle:      FreqWeekly,
	RouteNeighborhood: FreqMonthly,
	RoutePage:         FreqMonthly,
}

// CalculatePriority returns the sitemap priority for a route. Featured and
// recently-published entries are nudged upward; the result is always within
// [0, 1]. The function is pure and total over all inputs.
func CalculatePriority(route RouteType, featured, isNew bool) float64 {
	priority, ok := basePriorities[route]
	if !ok {
		priority = defaultPriority
	}

	if featured {
		priority += featuredBoost
	}
	if isNew {
		priority += newBoost
	}

	if priority > 1.0 {
		priority = 1.0
	}
	return priority
}

// ChangeFrequency returns the fixed change-frequency hint for a route type.
// Unknown types report monthly.
func ChangeFrequency(route RouteType) ChangeFreq {
	if freq, ok := changeFrequencies[route]; ok {
		return freq
	}
	return FreqMonthly
}
