// Bulk-imports image references from a CSV of "content_id,url" rows.
// Each URL is verified with a GET before the reference is recorded; alt text
// comes from the configured LLM when available, with a filename-derived
// fallback otherwise.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/propertyscope/content-engine/config"
	"github.com/propertyscope/content-engine/internal/ai"
	"github.com/propertyscope/content-engine/internal/models"
	"github.com/propertyscope/content-engine/internal/storage"
)

func main() {
	var csvPath string
	flag.StringVar(&csvPath, "file", "", "path to CSV file with content_id,url rows")
	flag.Parse()

	if csvPath == "" {
		log.Fatal("Usage: imageimport -file images.csv")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := storage.NewPostgresStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to storage: %v", err)
	}
	defer store.Close()

	generator := ai.Pick(
		ai.NewOpenAIClient(cfg.AI.OpenAIKey, cfg.AI.OpenAIModel, cfg.AI.SystemPrompt),
		ai.NewGeminiClient(cfg.AI.GeminiKey, cfg.AI.GeminiModel),
	)

	file, err := os.Open(csvPath)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", csvPath, err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		log.Fatalf("Failed to parse CSV: %v", err)
	}

	client := &http.Client{Timeout: 15 * time.Second}
	ctx := context.Background()

	imported := 0
	for i, row := range rows {
		if len(row) < 2 {
			log.Printf("Row %d: expected content_id,url, skipping", i+1)
			continue
		}

		contentID, err := uuid.Parse(row[0])
		if err != nil {
			log.Printf("Row %d: invalid content ID %q, skipping", i+1, row[0])
			continue
		}
		imageURL := row[1]

		if !urlReachable(client, imageURL) {
			log.Printf("Row %d: %s is not reachable, skipping", i+1, imageURL)
			continue
		}

		item, err := store.GetContentItem(ctx, contentID)
		if err != nil || item == nil {
			log.Printf("Row %d: content %s not found, skipping", i+1, contentID)
			continue
		}

		image := &models.ImageRef{
			ID:        uuid.New(),
			ContentID: contentID,
			URL:       imageURL,
			AltText:   ai.AltText(ctx, generator, imageURL, item.Title),
			CreatedAt: time.Now(),
		}

		if err := store.CreateImageRef(ctx, image); err != nil {
			log.Printf("Row %d: failed to save image ref: %v", i+1, err)
			continue
		}
		imported++
	}

	log.Printf("Done: %d of %d images imported", imported, len(rows))
}

func urlReachable(client *http.Client, url string) bool {
	resp, err := client.Get(url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
