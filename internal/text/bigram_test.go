package text

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBigramsSplitsOverlappingPairs(t *testing.T) {
	require.Equal(t, []string{"삼성", "성전", "전자"}, Bigrams("삼성전자"))
}

func TestBigramsSingleRuneYieldsNone(t *testing.T) {
	require.Nil(t, Bigrams("a"))
}

func TestBigramsEmptyYieldsNone(t *testing.T) {
	require.Nil(t, Bigrams(""))
}

func TestBigramsTwoRunes(t *testing.T) {
	require.Equal(t, []string{"ab"}, Bigrams("ab"))
}
