package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindHighlightsSimple(t *testing.T) {
	ranges := FindHighlights("Hello World", []string{"hello"})
	require.Equal(t, []Range{{Start: 0, End: 5}}, ranges)
}

func TestFindHighlightsMultipleTokens(t *testing.T) {
	ranges := FindHighlights("Hello World", []string{"hello", "world"})
	require.Equal(t, []Range{{Start: 0, End: 5}, {Start: 6, End: 11}}, ranges)
}

func TestFindHighlightsOverlappingRangesMerged(t *testing.T) {
	// "abc" at 0..3 and 3..6, "bca" at 1..4 -> merges to 0..6.
	ranges := FindHighlights("abcabc", []string{"abc", "bca"})
	require.Equal(t, []Range{{Start: 0, End: 6}}, ranges)
}

func TestFindHighlightsKorean(t *testing.T) {
	text := "삼성전자 주가가 상승했다"
	ranges := FindHighlights(text, []string{"삼성"})
	require.Len(t, ranges, 1)
	require.Equal(t, 0, ranges[0].Start)
	require.Equal(t, 6, ranges[0].End) // "삼성" is 6 bytes in UTF-8
}

func TestFindHighlightsNoMatch(t *testing.T) {
	require.Empty(t, FindHighlights("Hello World", []string{"xyz"}))
}

func TestFindHighlightsEmptyText(t *testing.T) {
	require.Empty(t, FindHighlights("", []string{"hello"}))
}

func TestFindHighlightsEmptyTokens(t *testing.T) {
	require.Empty(t, FindHighlights("Hello World", nil))
}

func TestFindHighlightsMultipleOccurrences(t *testing.T) {
	ranges := FindHighlights("hello hello hello", []string{"hello"})
	require.Len(t, ranges, 3)
}

func TestFindHighlightsCaseInsensitive(t *testing.T) {
	ranges := FindHighlights("HELLO hello Hello", []string{"hello"})
	require.Len(t, ranges, 3)
}
