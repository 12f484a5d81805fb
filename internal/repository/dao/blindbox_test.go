package dao

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawFromPool(t *testing.T) {
	pool := []string{"a.png", "a.png", "b.png"}

	t.Run("picks by pool position", func(t *testing.T) {
		picks := []int{0, 1, 2, 0}
		i := 0
		pick := func(n int) int {
			assert.Equal(t, len(pool), n)
			v := picks[i]
			i++
			return v
		}

		drawn := drawFromPool(pool, 4, pick)

		assert.Equal(t, []string{"a.png", "a.png", "b.png", "a.png"}, drawn)
	})

	t.Run("duplicate entries weight the odds", func(t *testing.T) {
		// Cycling through every position must yield the pool's own ratio.
		i := 0
		pick := func(n int) int {
			v := i % n
			i++
			return v
		}

		drawn := drawFromPool(pool, 300, pick)

		counts := map[string]int{}
		for _, image := range drawn {
			counts[image]++
		}
		assert.Equal(t, 200, counts["a.png"])
		assert.Equal(t, 100, counts["b.png"])
	})

	t.Run("single draw", func(t *testing.T) {
		drawn := drawFromPool([]string{"only.png"}, 1, func(n int) int { return 0 })

		assert.Equal(t, []string{"only.png"}, drawn)
	})
}

func TestTallyDrawn(t *testing.T) {
	t.Run("groups by image keeping first-appearance order", func(t *testing.T) {
		tallies := tallyDrawn([]string{"b.png", "a.png", "b.png", "c.png", "b.png"})

		assert.Equal(t, []drawTally{
			{Image: "b.png", Count: 3},
			{Image: "a.png", Count: 1},
			{Image: "c.png", Count: 1},
		}, tallies)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, tallyDrawn(nil))
	})
}

func TestContentImagesRoundTrip(t *testing.T) {
	encoded, err := EncodeContentImages([]string{"a.png", "b.png"})
	require.NoError(t, err)
	assert.Equal(t, `["a.png","b.png"]`, encoded)

	decoded, err := DecodeContentImages(encoded)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.png"}, decoded)

	_, err = DecodeContentImages("not json")
	assert.Error(t, err)
}
