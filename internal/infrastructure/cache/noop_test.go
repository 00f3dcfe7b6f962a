package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoop(t *testing.T) {
	c := NewNoop()
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "products", []string{"a"}))
	var dst []string
	slot, found, err := c.Get(ctx, "products", &dst)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "products", slot)
	assert.Empty(t, dst)
	assert.NoError(t, c.Invalidate(ctx))
}
