package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_Empty(t *testing.T) {
	assert.Nil(t, Split("", 1000, 100))
}

func TestSplit_ShorterThanChunk(t *testing.T) {
	chunks := Split("short text", 1000, 100)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0])
}

func TestSplit_ExactBoundaries(t *testing.T) {
	text := strings.Repeat("a", 10)
	chunks := Split(text, 4, 1)
	// step 3: [0:4] [3:7] [6:10]
	require.Len(t, chunks, 3)
	assert.Equal(t, "aaaa", chunks[0])
	assert.Equal(t, "aaaa", chunks[1])
	assert.Equal(t, "aaaa", chunks[2])
}

func TestSplit_OverlapShared(t *testing.T) {
	text := "abcdefghij"
	chunks := Split(text, 4, 2)
	require.GreaterOrEqual(t, len(chunks), 2)
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		curr := []rune(chunks[i])
		assert.Equal(t, string(prev[len(prev)-2:]), string(curr[:2]),
			"chunk %d must start with the last 2 runes of chunk %d", i, i-1)
	}
}

func TestSplit_Deterministic(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 100)
	first := Split(text, 1000, 100)
	second := Split(text, 1000, 100)
	assert.Equal(t, first, second)
}

func TestSplit_MaxSize(t *testing.T) {
	text := strings.Repeat("x", 2500)
	chunks := Split(text, 1000, 100)
	for i, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 1000, "chunk %d exceeds size", i)
	}
}

func TestSplit_RoundTrip(t *testing.T) {
	texts := []string{
		"short",
		strings.Repeat("b", 999),
		strings.Repeat("c", 1000),
		strings.Repeat("d", 1001),
		strings.Repeat("e", 5555),
		strings.Repeat("héllo wörld ", 500), // multi-byte runes
	}
	for _, text := range texts {
		chunks := Split(text, 1000, 100)
		var sb strings.Builder
		for i, c := range chunks {
			runes := []rune(c)
			if i == 0 {
				sb.WriteString(c)
			} else {
				sb.WriteString(string(runes[100:]))
			}
		}
		require.Equal(t, text, sb.String(), "reassembly must be lossless for len %d", len([]rune(text)))
	}
}

func TestSplit_GuardsBadParams(t *testing.T) {
	text := strings.Repeat("z", 50)

	// overlap >= size falls back to size/2 instead of looping forever
	chunks := Split(text, 10, 10)
	require.NotEmpty(t, chunks)

	chunks = Split(text, 10, 50)
	require.NotEmpty(t, chunks)

	// non-positive size uses the default
	chunks = Split(text, 0, 10)
	require.Len(t, chunks, 1)

	// negative overlap treated as zero
	chunks = Split(text, 10, -5)
	require.Len(t, chunks, 5)
}

func TestSplit_RuneSafety(t *testing.T) {
	text := strings.Repeat("日本語テキスト", 300)
	chunks := Split(text, 100, 10)
	for i, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 100, "chunk %d", i)
		// every chunk must itself be valid text cut on rune boundaries
		assert.Equal(t, c, string([]rune(c)))
	}
}
