// Batch-generates draft neighborhood guide articles with a hosted LLM.
// Drafts are saved unpublished so editors review them before they go live.
// Without an API key the tool exits early instead of writing filler content.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/propertyscope/content-engine/config"
	"github.com/propertyscope/content-engine/internal/ai"
	"github.com/propertyscope/content-engine/internal/models"
	"github.com/propertyscope/content-engine/internal/storage"
)

func main() {
	var limit int
	flag.IntVar(&limit, "limit", 10, "maximum number of guides to generate")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	generator := ai.Pick(
		ai.NewOpenAIClient(cfg.AI.OpenAIKey, cfg.AI.OpenAIModel, cfg.AI.SystemPrompt),
		ai.NewGeminiClient(cfg.AI.GeminiKey, cfg.AI.GeminiModel),
	)
	if generator == nil {
		log.Println("No LLM provider configured (OPENAI_API_KEY / GEMINI_API_KEY), nothing to do")
		return
	}

	store, err := storage.NewPostgresStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to storage: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	neighborhoods, err := store.ListNeighborhoods(ctx)
	if err != nil {
		log.Fatalf("Failed to list neighborhoods: %v", err)
	}

	generated := 0
	for _, n := range neighborhoods {
		if generated >= limit {
			break
		}

		prompt := fmt.Sprintf(
			"Write an 800-word buyer's guide for the %s neighborhood, formatted as HTML paragraphs. Cover lifestyle, property types, and investment outlook. Do not invent prices.",
			n.Name,
		)

		genCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
		body, err := generator.Generate(genCtx, prompt)
		cancel()
		if err != nil {
			log.Printf("Generation failed for %s, skipping: %v", n.Slug, err)
			continue
		}

		item := models.NewContentItem(models.ContentTypeArticle)
		item.Title = fmt.Sprintf("Living in %s: A Complete Buyer's Guide", n.Name)
		item.Slug = "living-in-" + n.Slug
		item.Body = body
		item.Keywords = []string{n.Name, "buy property " + strings.ToLower(n.Name), "neighborhood guide"}
		item.Published = false

		if err := store.CreateContentItem(ctx, item); err != nil {
			log.Printf("Failed to save draft for %s: %v", n.Slug, err)
			continue
		}

		generated++
		log.Printf("Generated draft %s", item.Slug)
	}

	log.Printf("Done: %d drafts generated", generated)
}
