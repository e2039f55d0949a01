package text

import (
	"strings"
	"sync"

	kodict "github.com/ikawaha/kagome-dict/ko"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// keepPOS is the set of part-of-speech prefixes kept from the morpheme
// stream: common noun, proper noun, dependent noun, numeral, foreign word
// (Latin), number. Everything else — particles, endings, punctuation — is
// dropped as non content-bearing.
var keepPOS = map[string]bool{
	"NNG": true,
	"NNP": true,
	"NNB": true,
	"NR":  true,
	"SL":  true,
	"SN":  true,
}

var (
	tokenizerOnce sync.Once
	sharedTok     *tokenizer.Tokenizer
	tokenizerErr  error
)

// morphTokenizer lazily builds the ko-dic-backed tokenizer once per process;
// the dictionary load is expensive, so every caller shares one instance.
func morphTokenizer() (*tokenizer.Tokenizer, error) {
	tokenizerOnce.Do(func() {
		sharedTok, tokenizerErr = tokenizer.New(kodict.Dict(), tokenizer.OmitBosEos())
	})
	return sharedTok, tokenizerErr
}

// Tokenize runs Korean morpheme analysis over s and returns the lowercase
// surface form of every morpheme worth indexing. Morphemes tagged unknown
// fall back to a lowercased, alphanumeric/CJK-stripped surface. If the
// analyzer itself fails, the whole input falls back to whitespace-split,
// lowercased, punctuation-stripped tokens.
func Tokenize(s string) []string {
	tok, err := morphTokenizer()
	if err != nil {
		return wordFallback(s)
	}

	morphemes := tok.Analyze(s, tokenizer.Normal)

	out := getTokenSlice()
	for _, m := range morphemes {
		if m.Class == tokenizer.DUMMY {
			continue
		}
		if m.Class == tokenizer.UNKNOWN {
			if cleaned := stripToAlphanumericOrCJK(m.Surface); cleaned != "" {
				out = append(out, cleaned)
			}
			continue
		}

		pos := m.POS()
		if len(pos) == 0 {
			continue
		}
		if !keepPOS[pos[0]] {
			continue
		}
		out = append(out, strings.ToLower(m.Surface))
	}

	return out
}

// wordFallback is the whitespace-split, lowercase, punctuation-stripped
// tokenizer used when the morpheme analyzer cannot be built. An analysis
// that runs but keeps no morphemes returns an empty slice instead.
func wordFallback(s string) []string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		cleaned := stripToAlphanumericOrCJK(f)
		if cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
