package quality

import "github.com/propertyscope/content-engine/internal/models"

// Tier buckets a score for the admin dashboard.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// Classification thresholds. Scores at or above HighThreshold are high
// quality; below LowThreshold they need review before publication.
const (
	HighThreshold = 70.0
	LowThreshold  = 50.0
)

// Classify maps a score to its tier: high >= 70, medium [50, 70), low < 50.
func Classify(score float64) Tier {
	switch {
	case score >= HighThreshold:
		return TierHigh
	case score >= LowThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

// Aggregate folds a collection of content items into a QualityBucket.
// Unscored items count toward Total and NeedsReview, bucket as low, and are
// excluded from the average. An empty collection yields the zero bucket with
// AverageScore 0, never NaN.
func Aggregate(items []*models.ContentItem) models.QualityBucket {
	bucket := models.QualityBucket{Total: len(items)}

	var sum float64
	scored := 0

	for _, item := range items {
		if item.QualityScore == nil {
			bucket.LowQuality++
			bucket.NeedsReview++
			continue
		}

		score := *item.QualityScore
		sum += score
		scored++

		switch Classify(score) {
		case TierHigh:
			bucket.HighQuality++
		case TierMedium:
			bucket.MediumQuality++
		default:
			bucket.LowQuality++
			bucket.NeedsReview++
		}
	}

	if scored > 0 {
		bucket.AverageScore = sum / float64(scored)
	}

	return bucket
}
