package random

import (
	"sync"
	"testing"

	"github.com/gamerbot/gamerbot/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeed(t *testing.T) {
	a, err := NewSeed()
	require.NoError(t, err)
	b, err := NewSeed()
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "two crypto seeds should differ")
}

func TestSourceDomainAndUniformity(t *testing.T) {
	src := NewSeeded(17)
	counts := make(map[engine.Face]int)
	for i := 0; i < 8000; i++ {
		f := src.NextFace()
		require.True(t, f.Valid(), "face %d out of domain", f)
		counts[f]++
	}
	assert.Len(t, counts, engine.NumFaces)
	for f, n := range counts {
		assert.InDelta(t, 2000, n, 300, "face %d drawn %d times", f, n)
	}
}

func TestSourceDeterministic(t *testing.T) {
	a, b := NewSeeded(5), NewSeeded(5)
	for i := 0; i < 64; i++ {
		require.Equal(t, a.NextFace(), b.NextFace())
	}
}

// TestSourceConcurrent runs under -race to check the mutex guards the generator.
func TestSourceConcurrent(t *testing.T) {
	src, err := New()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				hands := engine.Deal(src)
				assert.True(t, hands[0].Valid() && hands[1].Valid())
			}
		}()
	}
	wg.Wait()
}

func TestFixedHandsDeal(t *testing.T) {
	h0 := engine.Hand{1, 2, 3, 4}
	h1 := engine.Hand{1, 1, 2, 3}
	hands := engine.Deal(NewFixedHands(h0, h1))
	assert.Equal(t, h0, hands[0])
	assert.Equal(t, h1, hands[1])
}

func TestFixedWraps(t *testing.T) {
	f := NewFixed(2, 3)
	got := []engine.Face{f.NextFace(), f.NextFace(), f.NextFace()}
	assert.Equal(t, []engine.Face{2, 3, 2}, got)
	assert.Panics(t, func() { NewFixed() })
}
