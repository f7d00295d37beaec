package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDurationGettersFallBackOnBadValues(t *testing.T) {
	var cfg Config
	cfg.Quality.Interval = "not-a-duration"
	cfg.Sitemap.SourceTimeout = ""
	cfg.Sitemap.BuildTimeout = "45s"
	cfg.Cache.TTL = "2m"

	assert.Equal(t, 6*time.Hour, cfg.GetQualityInterval())
	assert.Equal(t, 5*time.Second, cfg.GetSitemapSourceTimeout())
	assert.Equal(t, 45*time.Second, cfg.GetSitemapBuildTimeout())
	assert.Equal(t, 2*time.Minute, cfg.GetCacheTTL())
}

func TestGetCacheTTLDefault(t *testing.T) {
	var cfg Config
	assert.Equal(t, 15*time.Minute, cfg.GetCacheTTL())
}
