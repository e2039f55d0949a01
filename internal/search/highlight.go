// Package search plans and executes full-text queries against the store
// and highlights the matched spans in returned messages.
package search

import (
	"sort"
	"strings"
)

// Range is a byte offset span, end-exclusive, into a message's text_plain.
type Range struct {
	Start int
	End   int
}

// FindHighlights returns non-overlapping byte ranges covering every
// case-insensitive occurrence of every token in text. Occurrences of the
// same token never overlap themselves (the scan advances past each match),
// and ranges from different tokens that touch or overlap are merged.
func FindHighlights(text string, tokens []string) []Range {
	lower := strings.ToLower(text)

	var ranges []Range
	for _, token := range tokens {
		tokenLower := strings.ToLower(token)
		if tokenLower == "" {
			continue
		}
		searchFrom := 0
		for {
			idx := strings.Index(lower[searchFrom:], tokenLower)
			if idx < 0 {
				break
			}
			start := searchFrom + idx
			end := start + len(tokenLower)
			ranges = append(ranges, Range{Start: start, End: end})
			searchFrom = end
		}
	}

	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })
	return mergeOverlapping(ranges)
}

func mergeOverlapping(ranges []Range) []Range {
	if len(ranges) <= 1 {
		return ranges
	}
	merged := make([]Range, 0, len(ranges))
	merged = append(merged, ranges[0])
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		if r.Start <= last.End {
			if r.End > last.End {
				last.End = r.End
			}
		} else {
			merged = append(merged, r)
		}
	}
	return merged
}
