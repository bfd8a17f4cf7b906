package compile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnippets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "trance-buildup.strudel", `// @name: trance-buildup
// @desc: 140 BPM trance buildup with filtered supersaw
// @tags: trance, buildup, supersaw

setcpm(140/4)
s("supersaw")
`)
	writeFile(t, dir, "ambient-pad.str", `// @name: ambient-pad
// @desc: Slow ambient pad

note("<c eb g>").s("sawtooth").slow(4)
`)

	records, failures, err := Snippets(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, records, 2)

	// Both extensions match; order is lexicographic by filename.
	first := records[0]
	assert.Equal(t, "ambient-pad", first.Name)
	assert.Equal(t, "ambient-pad.str", first.File)
	assert.Nil(t, first.Tags)

	second := records[1]
	assert.Equal(t, "trance-buildup", second.Name)
	assert.Equal(t, "trance-buildup.strudel", second.File)
	assert.Equal(t, "140 BPM trance buildup with filtered supersaw", second.Desc)
	assert.Equal(t, []string{"trance", "buildup", "supersaw"}, second.Tags)
}

func TestSnippetsMissingDesc(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "nameless.strudel", "// @tags: broken\n\ns(\"bd\")\n")
	writeFile(t, dir, "ok.strudel", "// @name: ok\n// @desc: fine\n\ns(\"bd\")\n")

	records, failures, err := Snippets(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ok", records[0].Name)

	require.Len(t, failures, 1)
	assert.Equal(t, "nameless.strudel", failures[0].File)
	assert.Contains(t, failures[0].Err.Error(), "@name")
	assert.Contains(t, failures[0].Err.Error(), "@desc")
}

func TestSnippetsDuplicateName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.strudel", "// @name: pad\n// @desc: first\n\ncode\n")
	writeFile(t, dir, "b.str", "// @name: pad\n// @desc: second\n\ncode\n")

	_, _, err := Snippets(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate identifier "pad"`)
}

func TestSnippetsIgnoreOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.md", "# not a snippet\n")
	writeFile(t, dir, "ok.strudel", "// @name: ok\n// @desc: fine\n\ncode\n")

	records, failures, err := Snippets(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, records, 1)
}
