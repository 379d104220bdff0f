package shellwords

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitBasic(t *testing.T) {
	tokens, err := Split("python3 align.py --in seq.fa")
	require.NoError(t, err)
	assert.Equal(t, []string{"python3", "align.py", "--in", "seq.fa"}, tokens)
}

func TestSplitQuoting(t *testing.T) {
	tokens, err := Split(`cmd --name "a b c" --other 'x y'`)
	require.NoError(t, err)
	assert.Equal(t, []string{"cmd", "--name", "a b c", "--other", "x y"}, tokens)
}

func TestSplitEscapes(t *testing.T) {
	tokens, err := Split(`echo foo\ bar`)
	require.NoError(t, err)
	assert.Equal(t, []string{"echo", "foo bar"}, tokens)
}

func TestSplitUnterminatedQuote(t *testing.T) {
	_, err := Split(`cmd "unterminated`)
	assert.Error(t, err)
}

func TestSplitTrailingBackslash(t *testing.T) {
	_, err := Split(`cmd \`)
	assert.Error(t, err)
}

func TestSplitEmpty(t *testing.T) {
	tokens, err := Split("")
	require.NoError(t, err)
	assert.Empty(t, tokens)
}
