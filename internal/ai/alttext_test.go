package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubGenerator struct {
	enabled bool
	text    string
	err     error
}

func (s *stubGenerator) Enabled() bool { return s.enabled }

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return s.text, s.err
}

func TestAltText_UsesGenerator(t *testing.T) {
	gen := &stubGenerator{enabled: true, text: "Waterfront villa at dusk"}

	got := AltText(context.Background(), gen, "https://cdn.example.com/img/villa.jpg", "Villa Listing")
	assert.Equal(t, "Waterfront villa at dusk", got)
}

func TestAltText_ProviderErrorFallsBackToFilename(t *testing.T) {
	gen := &stubGenerator{enabled: true, err: errors.New("rate limited")}

	got := AltText(context.Background(), gen, "https://cdn.example.com/img/palm-jumeirah_sunset.jpg", "Villa Listing")
	assert.Equal(t, "palm jumeirah sunset", got)
}

func TestAltText_NoGeneratorFallsBackToFilename(t *testing.T) {
	got := AltText(context.Background(), nil, "https://cdn.example.com/img/dubai-marina-view.webp", "")
	assert.Equal(t, "dubai marina view", got)
}

func TestAltText_UnusableFilenameFallsBackToTitle(t *testing.T) {
	got := AltText(context.Background(), nil, "https://cdn.example.com/", "Marina Apartment")
	assert.Equal(t, "Marina Apartment", got)
}

func TestAltText_LastResortDefault(t *testing.T) {
	got := AltText(context.Background(), nil, "https://cdn.example.com/", "")
	assert.Equal(t, "Property image", got)
}

func TestPick(t *testing.T) {
	disabled := &stubGenerator{enabled: false}
	enabled := &stubGenerator{enabled: true}

	assert.Nil(t, Pick())
	assert.Nil(t, Pick(nil, disabled))
	assert.Equal(t, Generator(enabled), Pick(disabled, enabled))
}
