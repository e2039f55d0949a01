// Package text normalizes raw message text and tokenizes it for indexing
// and search: whitespace stripping, Korean morpheme analysis, and the
// character-bigram fallback used when the analyzer yields nothing.
package text

import "sync"

// tokenSlicePool reduces allocation churn in the hot tokenize path, where
// every ingested message and every search query produces a short-lived
// []string of tokens.
var tokenSlicePool = sync.Pool{
	New: func() interface{} {
		return make([]string, 0, 16)
	},
}

func getTokenSlice() []string {
	s := tokenSlicePool.Get().([]string)
	return s[:0]
}

func putTokenSlice(s []string) {
	tokenSlicePool.Put(s) //nolint:staticcheck // intentional reuse, caller gives up ownership
}
