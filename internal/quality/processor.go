package quality

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/propertyscope/content-engine/internal/metrics"
	"github.com/propertyscope/content-engine/internal/models"
	"github.com/propertyscope/content-engine/internal/storage"
	"github.com/propertyscope/content-engine/internal/utils"
)

// lowQualityListLimit caps the review list returned with dashboard stats.
const lowQualityListLimit = 25

// Processor is the side-effecting shell around the pure scoring core: it
// loads items, scores them, and persists the results.
type Processor struct {
	store     storage.Store
	batchSize int
	logger    *log.Logger
}

func NewProcessor(store storage.Store, batchSize int, logger *log.Logger) *Processor {
	if batchSize <= 0 {
		batchSize = 50
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Processor{store: store, batchSize: batchSize, logger: logger}
}

// ProcessBatch scores up to batchSize unscored items and persists the
// results. A failure on one item is logged and skipped; it never aborts the
// batch. Returns how many items were scored and how many writes succeeded.
func (p *Processor) ProcessBatch(ctx context.Context) (processed, updated int, err error) {
	start := time.Now()
	defer func() {
		metrics.BatchDuration.Observe(time.Since(start).Seconds())
	}()

	items, err := p.store.ListUnscoredContentItems(ctx, p.batchSize)
	if err != nil {
		return 0, 0, err
	}

	for _, item := range items {
		p.attachImages(ctx, item)

		score, issues := Score(item)
		processed++
		metrics.ItemsScored.Inc()
		metrics.ScoreDistribution.Observe(score)

		if err := p.store.UpdateQualityScore(ctx, item.ID, score, issues); err != nil {
			p.logger.Printf("quality: failed to persist score for %s: %v", item.ID, err)
			continue
		}
		updated++
	}

	return processed, updated, nil
}

// Stats aggregates the dashboard bucket over every content item plus the
// low-quality review list.
func (p *Processor) Stats(ctx context.Context) (models.QualityBucket, []*models.ContentItem, error) {
	items, err := p.store.ListContentItems(ctx, storage.ContentFilter{})
	if err != nil {
		return models.QualityBucket{}, nil, err
	}

	bucket := Aggregate(items)

	maxScore := LowThreshold
	lowItems, err := p.store.ListContentItems(ctx, storage.ContentFilter{
		MaxScore: &maxScore,
		Limit:    lowQualityListLimit,
	})
	if err != nil {
		// The bucket is still good; serve it with an empty review list.
		p.logger.Printf("quality: failed to list low-quality items: %v", err)
		lowItems = nil
	}

	return bucket, lowItems, nil
}

// RunJob executes one scheduled batch run with ScoreJob bookkeeping and a
// per-run log file, mirroring how operators audit batch history.
func (p *Processor) RunJob(ctx context.Context, interval time.Duration) {
	jobLogger, err := utils.NewJobLogger("quality_score")
	if err != nil {
		p.logger.Printf("quality: failed to create job logger: %v", err)
		return
	}
	defer jobLogger.Close()

	job, err := p.store.GetScoreJob(ctx)
	if err != nil {
		jobLogger.LogError("Failed to load score job record: %v", err)
	}
	if job == nil {
		now := time.Now()
		job = &models.ScoreJob{
			ID:        uuid.New(),
			Interval:  interval.String(),
			BatchSize: p.batchSize,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	job.Status = "Running"
	job.UpdatedAt = time.Now()
	if err := p.store.SaveScoreJob(ctx, job); err != nil {
		jobLogger.LogError("Failed to update job status: %v", err)
	}

	jobLogger.LogInfo("Starting batch scoring run (batch size %d)", p.batchSize)
	processed, updated, err := p.ProcessBatch(ctx)
	now := time.Now()

	if err != nil {
		job.Status = "Error"
		job.Errors = append(job.Errors, err.Error())
		jobLogger.LogError("Batch scoring failed: %v", err)
	} else {
		job.Status = "Completed"
		job.Processed += processed
		job.LastRun = &now
		nextRun := now.Add(interval)
		job.NextRun = &nextRun
		jobLogger.LogInfo("Batch scoring completed: %d processed, %d updated", processed, updated)
	}

	job.UpdatedAt = now
	if saveErr := p.store.SaveScoreJob(ctx, job); saveErr != nil {
		jobLogger.LogError("Failed to save job record: %v", saveErr)
	}
}

// attachImages loads the stored image refs so the scorer can see them. A
// fetch failure degrades to scoring without record images; inline <img>
// elements in the body still count.
func (p *Processor) attachImages(ctx context.Context, item *models.ContentItem) {
	if len(item.Images) > 0 {
		return
	}
	images, err := p.store.ListImagesForContent(ctx, item.ID)
	if err != nil {
		p.logger.Printf("quality: failed to load images for %s: %v", item.ID, err)
		return
	}
	item.Images = images
}
