package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/propertyscope/content-engine/internal/models"
)

// SQLiteStore mirrors the Postgres schema for local development. Array
// columns are stored as JSON text and search degrades to LIKE matching.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS content_items (
            id TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            slug TEXT UNIQUE NOT NULL,
            type TEXT NOT NULL,
            body TEXT,
            meta_description TEXT,
            keywords TEXT,
            quality_score REAL,
            issues TEXT,
            featured INTEGER NOT NULL DEFAULT 0,
            published INTEGER NOT NULL DEFAULT 0,
            published_at DATETIME,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS content_images (
            id TEXT PRIMARY KEY,
            content_id TEXT REFERENCES content_items(id),
            url TEXT NOT NULL,
            alt_text TEXT,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS listings (
            id TEXT PRIMARY KEY,
            slug TEXT UNIQUE NOT NULL,
            title TEXT NOT NULL,
            property_type TEXT,
            neighborhood TEXT,
            featured INTEGER NOT NULL DEFAULT 0,
            published INTEGER NOT NULL DEFAULT 0,
            published_at DATETIME,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS neighborhoods (
            id TEXT PRIMARY KEY,
            slug TEXT UNIQUE NOT NULL,
            name TEXT NOT NULL,
            description TEXT,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS property_types (
            slug TEXT PRIMARY KEY,
            label TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS score_jobs (
            id TEXT PRIMARY KEY,
            status TEXT NOT NULL,
            run_interval TEXT,
            batch_size INTEGER,
            processed INTEGER NOT NULL DEFAULT 0,
            last_run DATETIME,
            next_run DATETIME,
            errors TEXT,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE INDEX IF NOT EXISTS idx_content_items_type ON content_items(type)`,
		`CREATE INDEX IF NOT EXISTS idx_content_items_score ON content_items(quality_score)`,
		`CREATE INDEX IF NOT EXISTS idx_content_images_content_id ON content_images(content_id)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return nil
}

func (s *SQLiteStore) CreateContentItem(ctx context.Context, item *models.ContentItem) error {
	query := `
        INSERT INTO content_items (id, title, slug, type, body, meta_description, keywords, quality_score, issues, featured, published, published_at, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (slug) DO UPDATE SET
            title = excluded.title,
            type = excluded.type,
            body = excluded.body,
            meta_description = excluded.meta_description,
            keywords = excluded.keywords,
            featured = excluded.featured,
            published = excluded.published,
            published_at = excluded.published_at,
            updated_at = CURRENT_TIMESTAMP
    `

	var score sql.NullFloat64
	if item.QualityScore != nil {
		score = sql.NullFloat64{Float64: *item.QualityScore, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		item.ID.String(),
		item.Title,
		item.Slug,
		item.Type,
		item.Body,
		item.MetaDescription,
		encodeJSON(item.Keywords),
		score,
		encodeJSON(item.Issues),
		item.Featured,
		item.Published,
		item.PublishedAt,
		item.CreatedAt,
		item.UpdatedAt,
	)

	return err
}

func (s *SQLiteStore) GetContentItem(ctx context.Context, id uuid.UUID) (*models.ContentItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM content_items WHERE id = ?`, contentColumns)

	row := s.db.QueryRowContext(ctx, query, id.String())
	item, err := scanSQLiteContentItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (s *SQLiteStore) GetContentItemBySlug(ctx context.Context, slug string) (*models.ContentItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM content_items WHERE slug = ?`, contentColumns)

	row := s.db.QueryRowContext(ctx, query, slug)
	item, err := scanSQLiteContentItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (s *SQLiteStore) ListContentItems(ctx context.Context, filter ContentFilter) ([]*models.ContentItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM content_items WHERE 1=1`, contentColumns)
	args := []interface{}{}

	if filter.Type != nil {
		query += ` AND type = ?`
		args = append(args, *filter.Type)
	}
	if filter.Published != nil {
		query += ` AND published = ?`
		args = append(args, *filter.Published)
	}
	if filter.MaxScore != nil {
		query += ` AND (quality_score < ? OR quality_score IS NULL)`
		args = append(args, *filter.MaxScore)
	}

	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSQLiteContentItems(rows)
}

func (s *SQLiteStore) ListUnscoredContentItems(ctx context.Context, limit int) ([]*models.ContentItem, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM content_items
        WHERE quality_score IS NULL
        ORDER BY created_at ASC
        LIMIT ?
    `, contentColumns)

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSQLiteContentItems(rows)
}

func (s *SQLiteStore) SearchContentItems(ctx context.Context, query string, limit, offset int) ([]*models.ContentItem, error) {
	sqlQuery := fmt.Sprintf(`
        SELECT %s FROM content_items
        WHERE body LIKE ? OR title LIKE ?
        ORDER BY created_at DESC
        LIMIT ? OFFSET ?
    `, contentColumns)

	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, sqlQuery, pattern, pattern, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSQLiteContentItems(rows)
}

func (s *SQLiteStore) UpdateQualityScore(ctx context.Context, id uuid.UUID, score float64, issues []string) error {
	query := `
        UPDATE content_items
        SET quality_score = ?, issues = ?, updated_at = CURRENT_TIMESTAMP
        WHERE id = ?
    `

	_, err := s.db.ExecContext(ctx, query, score, encodeJSON(issues), id.String())
	return err
}

func (s *SQLiteStore) CreateListing(ctx context.Context, listing *models.Listing) error {
	query := `
        INSERT INTO listings (id, slug, title, property_type, neighborhood, featured, published, published_at, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (slug) DO UPDATE SET
            title = excluded.title,
            property_type = excluded.property_type,
            neighborhood = excluded.neighborhood,
            featured = excluded.featured,
            published = excluded.published,
            published_at = excluded.published_at,
            updated_at = CURRENT_TIMESTAMP
    `

	_, err := s.db.ExecContext(ctx, query,
		listing.ID.String(),
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

func (s *SQLiteStore) ListPublishedListings(ctx context.Context) ([]*models.Listing, error) {
	query := `
        SELECT id, slug, title, property_type, neighborhood, featured, published, published_at, created_at, updated_at
        FROM listings
        WHERE published = 1
        ORDER BY created_at DESC
    `

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSQLiteListings(rows)
}

func (s *SQLiteStore) ListListingsByTypeAndArea(ctx context.Context, propertyType, area string) ([]*models.Listing, error) {
	query := `
        SELECT id, slug, title, property_type, neighborhood, featured, published, published_at, created_at, updated_at
        FROM listings
        WHERE published = 1
    `
	args := []interface{}{}

	if propertyType != "" {
		query += ` AND property_type = ?`
		args = append(args, propertyType)
	}
	if area != "" {
		query += ` AND neighborhood = ?`
		args = append(args, area)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSQLiteListings(rows)
}

func (s *SQLiteStore) CreateNeighborhood(ctx context.Context, neighborhood *models.Neighborhood) error {
	query := `
        INSERT INTO neighborhoods (id, slug, name, description, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT (slug) DO UPDATE SET
            name = excluded.name,
            description = excluded.description,
            updated_at = CURRENT_TIMESTAMP
    `

	_, err := s.db.ExecContext(ctx, query,
		neighborhood.ID.String(),
		neighborhood.Slug,
		neighborhood.Name,
		neighborhood.Description,
		neighborhood.CreatedAt,
		neighborhood.UpdatedAt,
	)

	return err
}

func (s *SQLiteStore) ListNeighborhoods(ctx context.Context) ([]*models.Neighborhood, error) {
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
		var id string
		err := rows.Scan(&id, &n.Slug, &n.Name, &n.Description, &n.CreatedAt, &n.UpdatedAt)
		if err != nil {
			return nil, err
		}
		n.ID, _ = uuid.Parse(id)
		neighborhoods = append(neighborhoods, n)
	}

	return neighborhoods, rows.Err()
}

func (s *SQLiteStore) ListPropertyTypes(ctx context.Context) ([]models.PropertyType, error) {
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

func (s *SQLiteStore) CreateImageRef(ctx context.Context, image *models.ImageRef) error {
	query := `
        INSERT INTO content_images (id, content_id, url, alt_text, created_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT (id) DO UPDATE SET
            url = excluded.url,
            alt_text = excluded.alt_text
    `

	_, err := s.db.ExecContext(ctx, query,
		image.ID.String(),
		image.ContentID.String(),
		image.URL,
		image.AltText,
		image.CreatedAt,
	)

	return err
}

func (s *SQLiteStore) ListImagesForContent(ctx context.Context, contentID uuid.UUID) ([]models.ImageRef, error) {
	query := `
        SELECT id, content_id, url, alt_text, created_at
        FROM content_images
        WHERE content_id = ?
        ORDER BY created_at
    `

	rows, err := s.db.QueryContext(ctx, query, contentID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []models.ImageRef
	for rows.Next() {
		var img models.ImageRef
		var id, cid string
		var altText sql.NullString
		err := rows.Scan(&id, &cid, &img.URL, &altText, &img.CreatedAt)
		if err != nil {
			return nil, err
		}
		img.ID, _ = uuid.Parse(id)
		img.ContentID, _ = uuid.Parse(cid)
		img.AltText = altText.String
		images = append(images, img)
	}

	return images, rows.Err()
}

func (s *SQLiteStore) GetScoreJob(ctx context.Context) (*models.ScoreJob, error) {
	query := `
        SELECT id, status, run_interval, batch_size, processed, last_run, next_run, errors, created_at, updated_at
        FROM score_jobs
        ORDER BY updated_at DESC
        LIMIT 1
    `

	job := &models.ScoreJob{}
	var id string
	var lastRun, nextRun sql.NullTime
	var errsJSON sql.NullString

	err := s.db.QueryRowContext(ctx, query).Scan(
		&id,
		&job.Status,
		&job.Interval,
		&job.BatchSize,
		&job.Processed,
		&lastRun,
		&nextRun,
		&errsJSON,
		&job.CreatedAt,
		&job.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	job.ID, _ = uuid.Parse(id)
	if lastRun.Valid {
		job.LastRun = &lastRun.Time
	}
	if nextRun.Valid {
		job.NextRun = &nextRun.Time
	}
	if errsJSON.Valid {
		job.Errors = decodeJSONStrings(errsJSON.String)
	}

	return job, nil
}

func (s *SQLiteStore) SaveScoreJob(ctx context.Context, job *models.ScoreJob) error {
	query := `
        INSERT INTO score_jobs (id, status, run_interval, batch_size, processed, last_run, next_run, errors, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (id) DO UPDATE SET
            status = excluded.status,
            run_interval = excluded.run_interval,
            batch_size = excluded.batch_size,
            processed = excluded.processed,
            last_run = excluded.last_run,
            next_run = excluded.next_run,
            errors = excluded.errors,
            updated_at = CURRENT_TIMESTAMP
    `

	_, err := s.db.ExecContext(ctx, query,
		job.ID.String(),
		job.Status,
		job.Interval,
		job.BatchSize,
		job.Processed,
		job.LastRun,
		job.NextRun,
		encodeJSON(job.Errors),
		job.CreatedAt,
		job.UpdatedAt,
	)

	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanSQLiteContentItem(row rowScanner) (*models.ContentItem, error) {
	item := &models.ContentItem{}
	var id string
	var body, metaDescription, keywordsJSON, issuesJSON sql.NullString
	var score sql.NullFloat64
	var publishedAt sql.NullTime

	err := row.Scan(
		&id,
		&item.Title,
		&item.Slug,
		&item.Type,
		&body,
		&metaDescription,
		&keywordsJSON,
		&score,
		&issuesJSON,
		&item.Featured,
		&item.Published,
		&publishedAt,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.ID, _ = uuid.Parse(id)
	item.Body = body.String
	item.MetaDescription = metaDescription.String
	if keywordsJSON.Valid {
		item.Keywords = decodeJSONStrings(keywordsJSON.String)
	}
	if issuesJSON.Valid {
		item.Issues = decodeJSONStrings(issuesJSON.String)
	}
	if score.Valid {
		item.QualityScore = &score.Float64
	}
	if publishedAt.Valid {
		item.PublishedAt = &publishedAt.Time
	}

	return item, nil
}

func scanSQLiteListings(rows *sql.Rows) ([]*models.Listing, error) {
	var listings []*models.Listing
	for rows.Next() {
		listing := &models.Listing{}
		var id string
		var publishedAt sql.NullTime

		err := rows.Scan(
			&id,
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

		listing.ID, _ = uuid.Parse(id)
		if publishedAt.Valid {
			listing.PublishedAt = &publishedAt.Time
		}
		listings = append(listings, listing)
	}

	return listings, rows.Err()
}

func scanSQLiteContentItems(rows *sql.Rows) ([]*models.ContentItem, error) {
	var items []*models.ContentItem
	for rows.Next() {
		item, err := scanSQLiteContentItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func encodeJSON(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func decodeJSONStrings(raw string) []string {
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}
