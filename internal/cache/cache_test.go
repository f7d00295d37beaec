package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_EmptyAddress(t *testing.T) {
	c, err := New("", "", 0, 0, nil)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrEmptyAddress)
}

func TestNilCache_FailsOpen(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	value, ok := c.Get(ctx, "sitemap:xml")
	assert.False(t, ok)
	assert.Empty(t, value)

	// Set and Close on a nil cache are no-ops.
	c.Set(ctx, "sitemap:xml", "<urlset/>")
	assert.NoError(t, c.Close())
}
