package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText_NormalizeWhitespace(t *testing.T) {
	input := "Line    with  \t  multiple    spaces   "
	assert.Equal(t, "Line with multiple spaces", CleanText(input))
}

func TestCleanText_RemoveExcessiveBlankLines(t *testing.T) {
	result := CleanText("Line 1\n\n\n\n\nLine 2")
	assert.Equal(t, "Line 1\n\nLine 2", result)
}

func TestCleanText_NormalizeLineEndings(t *testing.T) {
	result := CleanText("Line 1\r\nLine 2\rLine 3\nLine 4")
	assert.Equal(t, "Line 1\nLine 2\nLine 3\nLine 4", result)
}

func TestCleanText_PreservesBullets(t *testing.T) {
	result := CleanText("Skills\n  • Python\n  • SQL")
	assert.Equal(t, "Skills\n• Python\n• SQL", result)
}

func TestCleanText_EmptyInput(t *testing.T) {
	assert.Equal(t, "", CleanText(""))
	assert.Equal(t, "", CleanText("   \n\n\t  \n"))
}

func TestDecodeText(t *testing.T) {
	utf, err := decodeText([]byte("Café résumé"))
	require.NoError(t, err)
	assert.Equal(t, "Café résumé", utf)

	// "Café" in Latin-1 is not valid UTF-8
	latin, err := decodeText([]byte{'C', 'a', 'f', 0xE9})
	require.NoError(t, err)
	assert.Equal(t, "Café", latin)
}
