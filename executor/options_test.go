package executor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleOptionsSubstitutesAndTokenizes(t *testing.T) {
	options := []CommandOption{
		{Name: "input", Param: "--in ${value}"},
		{Name: "threads", Param: "--threads ${value}", Default: "4"},
	}
	tokens, err := assembleOptions(options, map[string]string{"input": "seq.fa"})
	require.NoError(t, err)
	assert.Equal(t, []string{"--in", "seq.fa", "--threads", "4"}, tokens)
}

func TestAssembleOptionsSkipsMissingWithoutDefault(t *testing.T) {
	options := []CommandOption{{Name: "optional", Param: "--flag ${value}"}}
	tokens, err := assembleOptions(options, nil)
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestLiteralFileResultPaths(t *testing.T) {
	fr := LiteralFileResult{Path: "out.txt"}
	paths, err := fr.Paths("/work/abc")
	require.NoError(t, err)
	assert.Equal(t, []string{"/work/abc/out.txt"}, paths)
}

func TestPatternFileResultPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "result_1.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "result_2.txt"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.log"), []byte("c"), 0o644))

	fr := PatternFileResult{Pattern: "result_*.txt"}
	paths, err := fr.Paths(dir)
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}
