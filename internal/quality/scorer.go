// Package quality provides content quality scoring for articles and news
// posts. Scores (0-100) measure publication readiness and feed the admin
// content-quality dashboard.
package quality

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/propertyscope/content-engine/internal/models"
)

// Issue codes appended when a scoring criterion fails.
const (
	IssueMissingTitle      = "MissingTitle"
	IssueTitleTooShort     = "TitleTooShort"
	IssueTitleTooLong      = "TitleTooLong"
	IssueMissingBody       = "MissingBody"
	IssueBodyTooShort      = "BodyTooShort"
	IssueNoImages          = "NoImages"
	IssueMissingMetaDesc   = "MissingMetaDescription"
	IssueMetaDescLength    = "MetaDescriptionLength"
	IssueNoKeywords        = "NoKeywords"
	IssueKeywordsNotInBody = "KeywordsNotInBody"
	IssueKeywordStuffing   = "KeywordStuffing"
	IssuePlaceholderText   = "PlaceholderText"
)

const (
	titleMinLen = 30
	titleMaxLen = 65

	metaMinLen = 70
	metaMaxLen = 160

	bodyWordsGood = 1000
	bodyWordsOK   = 600
	bodyWordsMin  = 300

	// Keyword occurrences above this share of total words count as stuffing.
	keywordDensityMax = 0.03
)

var placeholderMarkers = []string{
	"lorem ipsum",
	"placeholder",
	"coming soon",
	"[tbd]",
	"to be written",
}

// Score computes a quality score (0-100) for a content item along with the
// list of issue codes for every failed criterion.
//
// Scoring factors:
//   - Title present, 30-65 chars: 15
//   - Body word count (>=1000: 25, >=600: 20, >=300: 12)
//   - Images attached or inline (>=3: 15, >=1: 10)
//   - Meta description present, 70-160 chars: 15
//   - Keywords present and covered in body at healthy density: 20
//   - No placeholder/lorem text: 10
//
// The function is pure: same item always yields the same score and issues.
// Missing or malformed fields degrade the score, they never error.
func Score(item *models.ContentItem) (float64, []string) {
	var score float64
	issues := make([]string, 0, 4)

	text, inlineImages := extractBody(item.Body)
	words := strings.Fields(text)

	score += scoreTitle(item.Title, &issues)
	score += scoreBody(len(words), text, &issues)
	score += scoreImages(len(item.Images)+inlineImages, text, &issues)
	score += scoreMeta(item.MetaDescription, &issues)
	score += scoreKeywords(item.Keywords, text, len(words), &issues)

	if text != "" {
		if containsPlaceholder(text) {
			issues = append(issues, IssuePlaceholderText)
		} else {
			score += 10
		}
	}

	if score > 100 {
		score = 100
	}
	return score, issues
}

func scoreTitle(title string, issues *[]string) float64 {
	title = strings.TrimSpace(title)
	if title == "" {
		*issues = append(*issues, IssueMissingTitle)
		return 0
	}
	n := len([]rune(title))
	switch {
	case n < titleMinLen:
		*issues = append(*issues, IssueTitleTooShort)
		return 8
	case n > titleMaxLen:
		*issues = append(*issues, IssueTitleTooLong)
		return 8
	default:
		return 15
	}
}

func scoreBody(wordCount int, text string, issues *[]string) float64 {
	if text == "" {
		*issues = append(*issues, IssueMissingBody)
		return 0
	}
	switch {
	case wordCount >= bodyWordsGood:
		return 25
	case wordCount >= bodyWordsOK:
		return 20
	case wordCount >= bodyWordsMin:
		return 12
	case wordCount >= 100:
		*issues = append(*issues, IssueBodyTooShort)
		return 6
	default:
		*issues = append(*issues, IssueBodyTooShort)
		return 0
	}
}

func scoreImages(imageCount int, text string, issues *[]string) float64 {
	switch {
	case imageCount >= 3:
		return 15
	case imageCount >= 1:
		return 10
	default:
		// An empty item already reports MissingBody; a missing-images issue
		// on top of that is noise for the review queue.
		if text != "" {
			*issues = append(*issues, IssueNoImages)
		}
		return 0
	}
}

func scoreMeta(meta string, issues *[]string) float64 {
	meta = strings.TrimSpace(meta)
	if meta == "" {
		*issues = append(*issues, IssueMissingMetaDesc)
		return 0
	}
	n := len([]rune(meta))
	if n < metaMinLen || n > metaMaxLen {
		*issues = append(*issues, IssueMetaDescLength)
		return 8
	}
	return 15
}

func scoreKeywords(keywords []string, text string, wordCount int, issues *[]string) float64 {
	if len(keywords) == 0 {
		*issues = append(*issues, IssueNoKeywords)
		return 0
	}
	if text == "" || wordCount == 0 {
		*issues = append(*issues, IssueKeywordsNotInBody)
		return 4
	}

	lower := strings.ToLower(text)
	covered := 0
	occurrences := 0
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if n := strings.Count(lower, kw); n > 0 {
			covered++
			occurrences += n
		}
	}

	if covered == 0 {
		*issues = append(*issues, IssueKeywordsNotInBody)
		return 4
	}
	if float64(occurrences)/float64(wordCount) > keywordDensityMax {
		*issues = append(*issues, IssueKeywordStuffing)
		return 5
	}
	if covered == len(keywords) {
		return 20
	}
	return 12
}

// extractBody strips HTML from the body, returning plain text and the number
// of inline <img> elements. Falls back to the raw string when the body does
// not parse as HTML.
func extractBody(body string) (string, int) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", 0
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return body, 0
	}
	text := strings.TrimSpace(doc.Text())
	images := doc.Find("img").Length()
	return text, images
}

func containsPlaceholder(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range placeholderMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
