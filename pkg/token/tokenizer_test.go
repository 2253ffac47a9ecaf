package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetTokenizer() {
	codecMu.Lock()
	defaultCodec = nil
	initialized = false
	codecMu.Unlock()
}

func TestInit(t *testing.T) {
	resetTokenizer()

	err := Init("cl100k_base")
	require.NoError(t, err)
	assert.True(t, IsInitialized())
}

func TestInit_DefaultEncoding(t *testing.T) {
	resetTokenizer()

	err := Init("")
	require.NoError(t, err)
	assert.True(t, IsInitialized())
}

func TestCount_Initialized(t *testing.T) {
	resetTokenizer()

	err := Init("cl100k_base")
	require.NoError(t, err)

	// Test with known text
	text := "Hello, world!"
	count := Count(text)
	assert.Positive(t, count)
	// "Hello, world!" should be about 3-4 tokens
	assert.LessOrEqual(t, count, 10)
}

func TestCount_Uninitialized(t *testing.T) {
	resetTokenizer()

	// Without initialization, Count signals unavailability
	assert.Equal(t, -1, Count("Hello, world!"))
}

func TestEstimate_Fallback(t *testing.T) {
	resetTokenizer()

	tests := []struct {
		text     string
		expected int
	}{
		{"", 0},
		{"test", 1},             // 4 chars / 4 = 1
		{"hello world", 2},      // 11 chars / 4 = 2
		{"12345678", 2},         // 8 chars / 4 = 2
		{"1234567890123456", 4}, // 16 chars / 4 = 4
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			result := Estimate(tt.text)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestEstimate_UsesCodecWhenAvailable(t *testing.T) {
	resetTokenizer()
	require.NoError(t, Init(""))

	// With a real codec the estimate is the exact count, not len/4.
	text := "The quick brown fox jumps over the lazy dog."
	assert.Equal(t, Count(text), Estimate(text))
}
