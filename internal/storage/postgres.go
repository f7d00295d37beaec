package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/propertyscope/content-engine/internal/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromDB wraps an existing connection. Used by tests.
func NewPostgresStoreFromDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS content_items (
            id UUID PRIMARY KEY,
            title VARCHAR(512) NOT NULL,
            slug VARCHAR(512) UNIQUE NOT NULL,
            type VARCHAR(32) NOT NULL,
            body TEXT,
            meta_description TEXT,
            keywords TEXT[],
            quality_score DOUBLE PRECISION,
            issues TEXT[],
            featured BOOLEAN NOT NULL DEFAULT FALSE,
            published BOOLEAN NOT NULL DEFAULT FALSE,
            published_at TIMESTAMP,
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS content_images (
            id UUID PRIMARY KEY,
            content_id UUID REFERENCES content_items(id),
            url VARCHAR(2048) NOT NULL,
            alt_text TEXT,
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS listings (
            id UUID PRIMARY KEY,
            slug VARCHAR(512) UNIQUE NOT NULL,
            title VARCHAR(512) NOT NULL,
            property_type VARCHAR(64),
            neighborhood VARCHAR(255),
            featured BOOLEAN NOT NULL DEFAULT FALSE,
            published BOOLEAN NOT NULL DEFAULT FALSE,
            published_at TIMESTAMP,
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS neighborhoods (
            id UUID PRIMARY KEY,
            slug VARCHAR(255) UNIQUE NOT NULL,
            name VARCHAR(255) NOT NULL,
            description TEXT,
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS property_types (
            slug VARCHAR(64) PRIMARY KEY,
            label VARCHAR(255) NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS score_jobs (
            id UUID PRIMARY KEY,
            status VARCHAR(32) NOT NULL,
            run_interval VARCHAR(32),
            batch_size INT,
            processed INT NOT NULL DEFAULT 0,
            last_run TIMESTAMP,
            next_run TIMESTAMP,
            errors TEXT[],
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE INDEX IF NOT EXISTS idx_content_items_type ON content_items(type)`,
		`CREATE INDEX IF NOT EXISTS idx_content_items_published ON content_items(published)`,
		`CREATE INDEX IF NOT EXISTS idx_content_items_score ON content_items(quality_score)`,
		`CREATE INDEX IF NOT EXISTS idx_content_images_content_id ON content_images(content_id)`,
		`CREATE INDEX IF NOT EXISTS idx_listings_published ON listings(published)`,
		`CREATE INDEX IF NOT EXISTS idx_content_items_body_fts ON content_items USING GIN (to_tsvector('english', body))`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return nil
}

const contentColumns = `id, title, slug, type, body, meta_description, keywords, quality_score, issues, featured, published, published_at, created_at, updated_at`

const listingColumns = `id, slug, title, property_type, neighborhood, featured, published, published_at, created_at, updated_at`

func (s *PostgresStore) CreateContentItem(ctx context.Context, item *models.ContentItem) error {
	query := `
        INSERT INTO content_items (id, title, slug, type, body, meta_description, keywords, quality_score, issues, featured, published, published_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        ON CONFLICT (slug) DO UPDATE SET
            title = EXCLUDED.title,
            type = EXCLUDED.type,
            body = EXCLUDED.body,
            meta_description = EXCLUDED.meta_description,
            keywords = EXCLUDED.keywords,
            featured = EXCLUDED.featured,
            published = EXCLUDED.published,
            published_at = EXCLUDED.published_at,
            updated_at = CURRENT_TIMESTAMP
    `

	var score sql.NullFloat64
	if item.QualityScore != nil {
		score = sql.NullFloat64{Float64: *item.QualityScore, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		item.ID,
		item.Title,
		item.Slug,
		item.Type,
		item.Body,
		item.MetaDescription,
		pq.Array(item.Keywords),
		score,
		pq.Array(item.Issues),
		item.Featured,
		item.Published,
		item.PublishedAt,
		item.CreatedAt,
		item.UpdatedAt,
	)

	return err
}

func (s *PostgresStore) GetContentItem(ctx context.Context, id uuid.UUID) (*models.ContentItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM content_items WHERE id = $1`, contentColumns)

	row := s.db.QueryRowContext(ctx, query, id)
	item, err := scanContentItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (s *PostgresStore) GetContentItemBySlug(ctx context.Context, slug string) (*models.ContentItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM content_items WHERE slug = $1`, contentColumns)

	row := s.db.QueryRowContext(ctx, query, slug)
	item, err := scanContentItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (s *PostgresStore) ListContentItems(ctx context.Context, filter ContentFilter) ([]*models.ContentItem, error) {
	builder := sq.Select(contentColumns).
		From("content_items").
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if filter.Type != nil {
		builder = builder.Where(sq.Eq{"type": *filter.Type})
	}
	if filter.Published != nil {
		builder = builder.Where(sq.Eq{"published": *filter.Published})
	}
	if filter.MaxScore != nil {
		// Unscored rows belong in the review queue together with low scores.
		builder = builder.Where(sq.Or{
			sq.Lt{"quality_score": *filter.MaxScore},
			sq.Eq{"quality_score": nil},
		})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building content query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanContentItems(rows)
}

func (s *PostgresStore) ListUnscoredContentItems(ctx context.Context, limit int) ([]*models.ContentItem, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM content_items
        WHERE quality_score IS NULL
        ORDER BY created_at ASC
        LIMIT $1
    `, contentColumns)

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanContentItems(rows)
}

func (s *PostgresStore) SearchContentItems(ctx context.Context, query string, limit, offset int) ([]*models.ContentItem, error) {
	sqlQuery := fmt.Sprintf(`
        SELECT %s FROM content_items
        WHERE to_tsvector('english', body) @@ plainto_tsquery('english', $1)
        ORDER BY ts_rank(to_tsvector('english', body), plainto_tsquery('english', $1)) DESC
        LIMIT $2 OFFSET $3
    `, contentColumns)

	rows, err := s.db.QueryContext(ctx, sqlQuery, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanContentItems(rows)
}

func (s *PostgresStore) UpdateQualityScore(ctx context.Context, id uuid.UUID, score float64, issues []string) error {
	query := `
        UPDATE content_items
        SET quality_score = $2, issues = $3, updated_at = CURRENT_TIMESTAMP
        WHERE id = $1
    `

	_, err := s.db.ExecContext(ctx, query, id, score, pq.Array(issues))
	return err
}

func (s *PostgresStore) CreateListing(ctx context.Context, listing *models.Listing) error {
	query := `
        INSERT INTO listings (id, slug, title, property_type, neighborhood, featured, published, published_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (slug) DO UPDATE SET
            title = EXCLUDED.title,
            property_type = EXCLUDED.property_type,
            neighborhood = EXCLUDED.neighborhood,
            featured = EXCLUDED.featured,
            published = EXCLUDED.published,
            published_at = EXCLUDED.published_at,
            updated_at = CURRENT_TIMESTAMP
    `

	_, err := s.db.ExecContext(ctx, query,
		listing.ID,
		listing.Slug,
		listing.Title,
		listing.PropertyType,
		listing.Neighborhood,
		listing.Featured,
		listing.Published,
		listing.PublishedAt,
		listing.CreatedAt,
		listing.UpdatedAt,
	)

	return err
}

func (s *PostgresStore) ListPublishedListings(ctx context.Context) ([]*models.Listing, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM listings
        WHERE published = TRUE
        ORDER BY created_at DESC
    `, listingColumns)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanListings(rows)
}

func (s *PostgresStore) ListListingsByTypeAndArea(ctx context.Context, propertyType, area string) ([]*models.Listing, error) {
	builder := sq.Select(listingColumns).
		From("listings").
		Where(sq.Eq{"published": true}).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if propertyType != "" {
		builder = builder.Where(sq.Eq{"property_type": propertyType})
	}
	if area != "" {
		builder = builder.Where(sq.Eq{"neighborhood": area})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building listings query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanListings(rows)
}

func (s *PostgresStore) CreateNeighborhood(ctx context.Context, neighborhood *models.Neighborhood) error {
	query := `
        INSERT INTO neighborhoods (id, slug, name, description, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (slug) DO UPDATE SET
            name = EXCLUDED.name,
            description = EXCLUDED.description,
            updated_at = CURRENT_TIMESTAMP
    `

	_, err := s.db.ExecContext(ctx, query,
		neighborhood.ID,
		neighborhood.Slug,
		neighborhood.Name,
		neighborhood.Description,
		neighborhood.CreatedAt,
		neighborhood.UpdatedAt,
	)

	return err
}

func (s *PostgresStore) ListNeighborhoods(ctx context.Context) ([]*models.Neighborhood, error) {
	query := `
        SELECT id, slug, name, description, created_at, updated_at
        FROM neighborhoods
        ORDER BY name
    `

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var neighborhoods []*models.Neighborhood
	for rows.Next() {
		n := &models.Neighborhood{}
		err := rows.Scan(
			&n.ID,
			&n.Slug,
			&n.Name,
			&n.Description,
			&n.CreatedAt,
			&n.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		neighborhoods = append(neighborhoods, n)
	}

	return neighborhoods, rows.Err()
}

func (s *PostgresStore) ListPropertyTypes(ctx context.Context) ([]models.PropertyType, error) {
	query := `SELECT slug, label FROM property_types ORDER BY slug`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []models.PropertyType
	for rows.Next() {
		var pt models.PropertyType
		if err := rows.Scan(&pt.Slug, &pt.Label); err != nil {
			return nil, err
		}
		types = append(types, pt)
	}

	return types, rows.Err()
}

func (s *PostgresStore) CreateImageRef(ctx context.Context, image *models.ImageRef) error {
	query := `
        INSERT INTO content_images (id, content_id, url, alt_text, created_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id) DO UPDATE SET
            url = EXCLUDED.url,
            alt_text = EXCLUDED.alt_text
    `

	_, err := s.db.ExecContext(ctx, query,
		image.ID,
		image.ContentID,
		image.URL,
		image.AltText,
		image.CreatedAt,
	)

	return err
}

func (s *PostgresStore) ListImagesForContent(ctx context.Context, contentID uuid.UUID) ([]models.ImageRef, error) {
	query := `
        SELECT id, content_id, url, alt_text, created_at
        FROM content_images
        WHERE content_id = $1
        ORDER BY created_at
    `

	rows, err := s.db.QueryContext(ctx, query, contentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []models.ImageRef
	for rows.Next() {
		var img models.ImageRef
		var altText sql.NullString
		err := rows.Scan(&img.ID, &img.ContentID, &img.URL, &altText, &img.CreatedAt)
		if err != nil {
			return nil, err
		}
		img.AltText = altText.String
		images = append(images, img)
	}

	return images, rows.Err()
}

func (s *PostgresStore) GetScoreJob(ctx context.Context) (*models.ScoreJob, error) {
	query := `
        SELECT id, status, run_interval, batch_size, processed, last_run, next_run, errors, created_at, updated_at
        FROM score_jobs
        ORDER BY updated_at DESC
        LIMIT 1
    `

	job := &models.ScoreJob{}
	var lastRun, nextRun sql.NullTime
	var errs []string

	err := s.db.QueryRowContext(ctx, query).Scan(
		&job.ID,
		&job.Status,
		&job.Interval,
		&job.BatchSize,
		&job.Processed,
		&lastRun,
		&nextRun,
		pq.Array(&errs),
		&job.CreatedAt,
		&job.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if lastRun.Valid {
		job.LastRun = &lastRun.Time
	}
	if nextRun.Valid {
		job.NextRun = &nextRun.Time
	}
	job.Errors = errs

	return job, nil
}

func (s *PostgresStore) SaveScoreJob(ctx context.Context, job *models.ScoreJob) error {
	query := `
        INSERT INTO score_jobs (id, status, run_interval, batch_size, processed, last_run, next_run, errors, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (id) DO UPDATE SET
            status = EXCLUDED.status,
            run_interval = EXCLUDED.run_interval,
            batch_size = EXCLUDED.batch_size,
            processed = EXCLUDED.processed,
            last_run = EXCLUDED.last_run,
            next_run = EXCLUDED.next_run,
            errors = EXCLUDED.errors,
            updated_at = CURRENT_TIMESTAMP
    `

	_, err := s.db.ExecContext(ctx, query,
		job.ID,
		job.Status,
		job.Interval,
		job.BatchSize,
		job.Processed,
		job.LastRun,
		job.NextRun,
		pq.Array(job.Errors),
		job.CreatedAt,
		job.UpdatedAt,
	)

	return err
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanContentItem(row rowScanner) (*models.ContentItem, error) {
	item := &models.ContentItem{}
	var keywords, issues []string
	var body, metaDescription sql.NullString
	var score sql.NullFloat64
	var publishedAt sql.NullTime

	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Slug,
		&item.Type,
		&body,
		&metaDescription,
		pq.Array(&keywords),
		&score,
		pq.Array(&issues),
		&item.Featured,
		&item.Published,
		&publishedAt,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Body = body.String
	item.MetaDescription = metaDescription.String
	item.Keywords = keywords
	item.Issues = issues
	if score.Valid {
		item.QualityScore = &score.Float64
	}
	if publishedAt.Valid {
		item.PublishedAt = &publishedAt.Time
	}

	return item, nil
}

func scanListings(rows *sql.Rows) ([]*models.Listing, error) {
	var listings []*models.Listing
	for rows.Next() {
		listing := &models.Listing{}
		var publishedAt sql.NullTime

		err := rows.Scan(
			&listing.ID,
			&listing.Slug,
			&listing.Title,
			&listing.PropertyType,
			&listing.Neighborhood,
			&listing.Featured,
			&listing.Published,
			&publishedAt,
			&listing.CreatedAt,
			&listing.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if publishedAt.Valid {
			listing.PublishedAt = &publishedAt.Time
		}
		listings = append(listings, listing)
	}

	return listings, rows.Err()
}

func scanContentItems(rows *sql.Rows) ([]*models.ContentItem, error) {
	var items []*models.ContentItem
	for rows.Next() {
		item, err := scanContentItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
