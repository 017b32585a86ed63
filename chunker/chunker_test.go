package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "mot%d", i)
	}
	return sb.String()
}

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := New()
		require.NoError(t, err)
		assert.Equal(t, DefaultChunkSize, c.ChunkSize())
		assert.Equal(t, DefaultOverlap, c.Overlap())
	})

	t.Run("custom window", func(t *testing.T) {
		c, err := New(WithChunkSize(10), WithOverlap(3))
		require.NoError(t, err)
		assert.Equal(t, 10, c.ChunkSize())
		assert.Equal(t, 3, c.Overlap())
	})

	t.Run("zero chunk size rejected", func(t *testing.T) {
		_, err := New(WithChunkSize(0))
		assert.Error(t, err)
	})

	t.Run("negative overlap rejected", func(t *testing.T) {
		_, err := New(WithChunkSize(10), WithOverlap(-1))
		assert.Error(t, err)
	})

	t.Run("overlap equal to chunk size rejected", func(t *testing.T) {
		// A zero stride would loop forever.
		_, err := New(WithChunkSize(10), WithOverlap(10))
		assert.Error(t, err)
	})

	t.Run("overlap above chunk size rejected", func(t *testing.T) {
		_, err := New(WithChunkSize(10), WithOverlap(15))
		assert.Error(t, err)
	})
}

func TestChunk_ShortText(t *testing.T) {
	c, err := New(WithChunkSize(10), WithOverlap(2))
	require.NoError(t, err)

	t.Run("at most chunkSize words returns one chunk", func(t *testing.T) {
		text := "  Les enfants doivent faire la sieste.  "
		chunks := c.Chunk(text)
		require.Len(t, chunks, 1)
		assert.Equal(t, strings.TrimSpace(text), chunks[0])
	})

	t.Run("exactly chunkSize words returns one chunk", func(t *testing.T) {
		text := words(10)
		chunks := c.Chunk(text)
		require.Len(t, chunks, 1)
		assert.Equal(t, text, chunks[0])
	})

	t.Run("empty input yields no chunks", func(t *testing.T) {
		assert.Empty(t, c.Chunk(""))
	})

	t.Run("whitespace-only input yields no chunks", func(t *testing.T) {
		assert.Empty(t, c.Chunk(" \n\t  "))
	})
}

func TestChunk_SlidingWindow(t *testing.T) {
	c, err := New(WithChunkSize(4), WithOverlap(1))
	require.NoError(t, err)

	chunks := c.Chunk("a b c d e f g h i j")
	require.Equal(t, []string{
		"a b c d",
		"d e f g",
		"g h i j",
	}, chunks)
}

func TestChunk_CountAndCoverage(t *testing.T) {
	tests := []struct {
		n, size, overlap int
	}{
		{10, 4, 1},
		{11, 4, 1},
		{12, 4, 1},
		{100, 7, 0},
		{100, 7, 3},
		{100, 7, 6},
		{501, 500, 100},
		{1201, 500, 100},
		{2, 1, 0},
	}

	for _, tt := range tests {
		name := fmt.Sprintf("n=%d size=%d overlap=%d", tt.n, tt.size, tt.overlap)
		t.Run(name, func(t *testing.T) {
			c, err := New(WithChunkSize(tt.size), WithOverlap(tt.overlap))
			require.NoError(t, err)

			chunks := c.Chunk(words(tt.n))

			// ceil((N - overlap) / (size - overlap))
			stride := tt.size - tt.overlap
			wantCount := (tt.n - tt.overlap + stride - 1) / stride
			assert.Len(t, chunks, wantCount)

			// Every word appears in at least one chunk.
			seen := make(map[string]bool)
			for _, chunk := range chunks {
				for _, w := range strings.Fields(chunk) {
					seen[w] = true
				}
			}
			assert.Len(t, seen, tt.n)
		})
	}
}

func TestChunk_Deterministic(t *testing.T) {
	c, err := New(WithChunkSize(5), WithOverlap(2))
	require.NoError(t, err)

	text := words(37)
	assert.Equal(t, c.Chunk(text), c.Chunk(text))
}

func TestChunk_RejoinsWithSingleSpaces(t *testing.T) {
	c, err := New(WithChunkSize(3), WithOverlap(1))
	require.NoError(t, err)

	chunks := c.Chunk("un  deux\n trois\tquatre   cinq")
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.NotContains(t, chunk, "  ")
		assert.NotContains(t, chunk, "\n")
		assert.NotContains(t, chunk, "\t")
	}
}
