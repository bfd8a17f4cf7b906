package compile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestIdioms(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "beat-switcher.strudel", `// @name: beat-switcher
// @cat: live-performance
// @desc: Array of beat variations for live switching
// @notes: Change the beat index live.
// @tags: live, performance
// @functions: s, stack

const beat = 0
stack(s("bd*4"))
`)
	writeFile(t, dir, "euclid-groove.strudel", `// @name: euclid-groove
// @cat: rhythm
// @desc: Euclidean rhythm groove

s("bd(3,8)")
`)

	records, failures, err := Idioms(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, records, 2)

	// Lexicographic by filename.
	first := records[0]
	assert.Equal(t, "beat-switcher", first.Name)
	assert.Equal(t, "live-performance", first.Cat)
	assert.Equal(t, "Array of beat variations for live switching", first.Desc)
	assert.Equal(t, "Change the beat index live.", first.Notes)
	assert.Equal(t, []string{"live", "performance"}, first.Tags)
	assert.Equal(t, []string{"s", "stack"}, first.Functions)
	assert.Equal(t, "const beat = 0\nstack(s(\"bd*4\"))", first.Code)

	second := records[1]
	assert.Equal(t, "euclid-groove", second.Name)
	assert.Empty(t, second.Notes)
	assert.Nil(t, second.Tags)
}

func TestIdiomsMissingRequiredField(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.strudel", "// @name: bad\n\ns(\"bd\")\n")
	writeFile(t, dir, "good.strudel", "// @name: good\n// @cat: rhythm\n// @desc: fine\n\ns(\"bd\")\n")

	records, failures, err := Idioms(context.Background(), dir)
	require.NoError(t, err)

	// The bad file is rejected; the good one still compiles.
	require.Len(t, records, 1)
	assert.Equal(t, "good", records[0].Name)

	require.Len(t, failures, 1)
	assert.Equal(t, "bad.strudel", failures[0].File)
	assert.Contains(t, failures[0].Err.Error(), "@cat")
	assert.Contains(t, failures[0].Err.Error(), "@desc")
}

func TestIdiomsEmptyBody(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.strudel", "// @name: empty\n// @cat: rhythm\n// @desc: header only\n")

	records, failures, err := Idioms(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, records)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Err.Error(), "no code")
}

func TestIdiomsDuplicateName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.strudel", "// @name: groove\n// @cat: rhythm\n// @desc: first\n\ns(\"bd\")\n")
	writeFile(t, dir, "b.strudel", "// @name: groove\n// @cat: rhythm\n// @desc: second\n\ns(\"sd\")\n")

	records, failures, err := Idioms(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate identifier "groove"`)
	assert.Contains(t, err.Error(), "a.strudel")
	assert.Contains(t, err.Error(), "b.strudel")
	assert.Nil(t, records)
	assert.Nil(t, failures)
}

func TestIdiomsMissingSourceDir(t *testing.T) {
	_, _, err := Idioms(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestIdiomsEmptyDir(t *testing.T) {
	records, failures, err := Idioms(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, failures)
}
