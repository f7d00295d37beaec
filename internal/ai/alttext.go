package ai

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// AltText produces alt text for an image. With an enabled generator it asks
// the model for a short description; without one, or on any provider error,
// it derives a deterministic default from the image filename or the owning
// content's title.
func AltText(ctx context.Context, gen Generator, imageURL, contentTitle string) string {
	if gen != nil && gen.Enabled() {
		prompt := fmt.Sprintf(
			"Write concise alt text (under 120 characters, no quotes) for a real-estate website image. Image URL: %s. Page title: %s.",
			imageURL, contentTitle,
		)
		if text, err := gen.Generate(ctx, prompt); err == nil && text != "" {
			return text
		}
	}
	return fallbackAltText(imageURL, contentTitle)
}

func fallbackAltText(imageURL, contentTitle string) string {
	if parsed, err := url.Parse(imageURL); err == nil {
		name := path.Base(parsed.Path)
		if ext := path.Ext(name); ext != "" {
			name = strings.TrimSuffix(name, ext)
		}
		name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
		name = strings.TrimSpace(name)
		if name != "" && name != "/" && name != "." {
			return name
		}
	}
	if contentTitle != "" {
		return contentTitle
	}
	return "Property image"
}
