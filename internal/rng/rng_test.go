package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeterministicForSeed(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
	assert.Equal(t, int64(42), a.Seed())
}

func TestRangeBounds(t *testing.T) {
	g := New(1)
	for i := 0; i < 200; i++ {
		v := g.Range(3, 7)
		assert.GreaterOrEqual(t, v, 3)
		assert.LessOrEqual(t, v, 7)
	}
	assert.Equal(t, 5, g.Range(5, 5))
	assert.Equal(t, 5, g.Range(5, 2))
}

func TestPercentExtremes(t *testing.T) {
	g := New(1)
	assert.False(t, g.Percent(0))
	assert.False(t, g.Percent(-5))
	assert.True(t, g.Percent(100))
	assert.True(t, g.Percent(150))
}
