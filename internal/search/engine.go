package search

import (
	"strings"
	"unicode/utf8"

	"github.com/sskys18/telegram-korean-search/internal/store"
	"github.com/sskys18/telegram-korean-search/internal/text"
)

// DefaultPageSize is used when Search is called with limit <= 0.
const DefaultPageSize = 30

// minFTSTermRunes is the shortest term length the trigram tokenizer can
// produce trigrams for; shorter terms fall back to a LIKE scan.
const minFTSTermRunes = 3

// Search runs a query against st, following the query plan: trim, split on
// whitespace, decide FTS-trigram vs LIKE-substring by term length, fetch
// one extra row to detect a next page, and highlight every returned
// message against the raw query terms plus their analyzed forms (see
// expandHighlightTokens).
func Search(st *store.Store, query string, scope Scope, cursor *Cursor, limit int) (*Result, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return &Result{}, nil
	}

	tokens := strings.Fields(trimmed)
	if len(tokens) == 0 {
		return &Result{}, nil
	}

	useFTS := true
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) < minFTSTermRunes {
			useFTS = false
			break
		}
	}

	var rows []store.MessageWithDialog
	var err error
	fetchLimit := limit + 1

	if useFTS {
		ftsQuery := buildFTSQuery(trimmed)
		if scope.All {
			rows, err = st.SearchMessagesFTS(ftsQuery, cursor, fetchLimit)
		} else {
			rows, err = st.SearchMessagesFTSInDialog(ftsQuery, scope.DialogID, cursor, fetchLimit)
		}
	} else {
		if scope.All {
			rows, err = st.SearchMessagesLike(tokens, cursor, fetchLimit)
		} else {
			rows, err = st.SearchMessagesLikeInDialog(tokens, scope.DialogID, cursor, fetchLimit)
		}
	}
	if err != nil {
		return nil, err
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	var next *Cursor
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		next = &Cursor{Timestamp: last.Timestamp, DialogID: last.DialogID, MessageID: last.MessageID}
	}

	highlightTokens := expandHighlightTokens(tokens, trimmed)

	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, Item{
			MessageID:   row.MessageID,
			DialogID:    row.DialogID,
			Timestamp:   row.Timestamp,
			Text:        row.TextPlain,
			Link:        row.Link,
			DialogTitle: row.DialogTitle,
			Highlights:  FindHighlights(row.TextPlain, highlightTokens),
		})
	}

	return &Result{Items: items, NextCursor: next}, nil
}

// expandHighlightTokens adds the query's morpheme-analyzed lowercase
// surface forms (falling back to character bigrams when the analyzer
// turns up nothing) to the raw whitespace-split terms, deduplicated, so
// a Korean query carrying a trailing particle still highlights the bare
// noun it resolves to. The query-planning decision above stays on the
// raw terms; this only widens what gets highlighted.
func expandHighlightTokens(tokens []string, rawQuery string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	add := func(tok string) {
		lower := strings.ToLower(tok)
		if lower == "" {
			return
		}
		if _, ok := seen[lower]; ok {
			return
		}
		seen[lower] = struct{}{}
		out = append(out, tok)
	}

	for _, tok := range tokens {
		add(tok)
	}
	for _, morph := range text.TokenizeQuery(rawQuery) {
		add(morph)
	}
	return out
}

// buildFTSQuery quotes each whitespace-split term for exact substring
// matching against the trigram index; FTS5 ANDs bare phrase queries
// together by default.
func buildFTSQuery(query string) string {
	terms := strings.Fields(query)
	quoted := make([]string, len(terms))
	for i, term := range terms {
		quoted[i] = `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
	}
	return strings.Join(quoted, " ")
}
