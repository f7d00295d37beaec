package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/propertyscope/content-engine/internal/models"
)

func scored(score float64) *models.ContentItem {
	item := models.NewContentItem(models.ContentTypeArticle)
	item.QualityScore = &score
	return item
}

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  Tier
	}{
		{100, TierHigh},
		{70, TierHigh},
		{69.9, TierMedium},
		{50, TierMedium},
		{49.9, TierLow},
		{0, TierLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.score), "score %.1f", tt.score)
	}
}

func TestAggregate_Empty(t *testing.T) {
	bucket := Aggregate(nil)

	assert.Equal(t, models.QualityBucket{}, bucket)
	assert.Equal(t, 0.0, bucket.AverageScore, "empty collection must average 0, not NaN")
}

func TestAggregate_SumInvariant(t *testing.T) {
	items := []*models.ContentItem{
		scored(85),
		scored(72),
		scored(60),
		scored(45),
		scored(10),
		models.NewContentItem(models.ContentTypeNews), // unscored
	}

	bucket := Aggregate(items)

	assert.Equal(t, bucket.Total, bucket.HighQuality+bucket.MediumQuality+bucket.LowQuality)
	assert.Equal(t, 6, bucket.Total)
	assert.Equal(t, 2, bucket.HighQuality)
	assert.Equal(t, 1, bucket.MediumQuality)
	assert.Equal(t, 3, bucket.LowQuality)
}

func TestAggregate_AverageExcludesUnscored(t *testing.T) {
	items := []*models.ContentItem{
		scored(80),
		scored(40),
		models.NewContentItem(models.ContentTypeArticle), // unscored
	}

	bucket := Aggregate(items)

	assert.Equal(t, 60.0, bucket.AverageScore)
	assert.GreaterOrEqual(t, bucket.AverageScore, 0.0)
	assert.LessOrEqual(t, bucket.AverageScore, 100.0)
}

func TestAggregate_NeedsReview(t *testing.T) {
	items := []*models.ContentItem{
		scored(90),
		scored(30),
		models.NewContentItem(models.ContentTypeArticle), // unscored counts too
	}

	bucket := Aggregate(items)

	assert.Equal(t, 2, bucket.NeedsReview)
}
