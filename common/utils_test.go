package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 5, Coalesce(0, 5))
	assert.Equal(t, 3, Coalesce(3, 5))
	assert.Equal(t, "fallback", Coalesce("", "fallback"))
	assert.Equal(t, "value", Coalesce("value", "fallback"))
	assert.Equal(t, float32(2.5), Coalesce(float32(0), 2.5))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(1), Clamp(0.5, 1, 10))
	assert.Equal(t, float32(10), Clamp(42, 1, 10))
	assert.Equal(t, float32(7), Clamp(7, 1, 10))
	assert.Equal(t, float32(-3), Clamp(-8, -3, 3), "negative bounds clamp symmetrically")
	assert.Equal(t, float32(1), Clamp(1, 1, 10), "bounds are inclusive")
}
