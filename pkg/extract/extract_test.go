package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strudel-skill/strudelref/pkg/jsonl"
	"github.com/strudel-skill/strudelref/pkg/refdata"
)

const functionsJSON = `{
  "categories": {
    "Effects": [
      {"name": "lpf", "description": "low-pass filter", "synonyms": ["cutoff", "ctf"]},
      {"name": "hpf", "description": "high-pass filter", "examples": ["s(\"bd\").hpf(2000)"]}
    ],
    "Core": [
      {"name": "s", "description": "select a sound", "parameters": [{"name": "sound", "type": "string", "description": "sound name"}]},
      {"description": "entry without a name"},
      "not an object"
    ]
  }
}`

const soundsJSON = `{
  "categories": {
    "synths": {"description": "built-in synths", "names": ["sawtooth", "square"], "aliases": {"saw": "sawtooth"}},
    "pianos": {"description": "sampled pianos", "sampleCounts": {"piano": 29}},
    "drumMachines": {
      "description": "drum machine samples",
      "machines": ["RolandTR808", "RolandTR909"],
      "suffixes": ["bd", "sd"],
      "names": ["RolandTR808_bd", "RolandTR808_sd", "RolandTR909_bd"],
      "sampleCounts": {"RolandTR808_bd": 25, "RolandTR909_bd": 3}
    },
    "drumMachineAliases": {
      "description": "short aliases",
      "aliasMap": {"tr808": "RolandTR808"},
      "generatedNames": ["tr808_bd"]
    }
  }
}`

const patternsJSON = `{
  "miniNotation": {
    "tokens": [
      {"token": "!", "meaning": "Replicate", "description": "repeat an event", "example": "a!2"},
      {"token": "~", "meaning": "Rest"},
      {"meaning": "missing token symbol"}
    ]
  }
}`

func writeDocsTree(t *testing.T) string {
	t.Helper()
	docsDir := t.TempDir()
	for path, content := range map[string]string{
		functionsSource: functionsJSON,
		soundsSource:    soundsJSON,
		patternsSource:  patternsJSON,
	} {
		full := filepath.Join(docsDir, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return docsDir
}

func TestBuild(t *testing.T) {
	docsDir := writeDocsTree(t)

	tables, err := Build(context.Background(), docsDir)
	require.NoError(t, err)

	t.Run("functions", func(t *testing.T) {
		require.Len(t, tables.Functions, 3)
		// Categories are sorted; entries keep source order within one.
		assert.Equal(t, "s", tables.Functions[0].Name)
		assert.Equal(t, "Core", tables.Functions[0].Cat)
		assert.Equal(t, "lpf", tables.Functions[1].Name)
		assert.Equal(t, "hpf", tables.Functions[2].Name)

		assert.Equal(t, []string{"cutoff", "ctf"}, tables.Functions[1].Synonyms)
		require.Len(t, tables.Functions[0].Params, 1)
		assert.Equal(t, "sound", tables.Functions[0].Params[0].Name)
		assert.Equal(t, []string{`s("bd").hpf(2000)`}, tables.Functions[2].Examples)
	})

	t.Run("sounds", func(t *testing.T) {
		// Sorted cats: drumMachineAliases, drumMachines (header + 2
		// machines), pianos, synths.
		require.Len(t, tables.Sounds, 6)

		assert.Equal(t, "drumMachineAliases", tables.Sounds[0].Cat)
		assert.Equal(t, map[string]string{"tr808": "RolandTR808"}, tables.Sounds[0].AliasMap)

		hdr := tables.Sounds[1]
		assert.Equal(t, "drumMachines", hdr.Cat)
		assert.Equal(t, []string{"RolandTR808", "RolandTR909"}, hdr.Machines)
		assert.Equal(t, []string{"bd", "sd"}, hdr.Suffixes)

		tr808 := tables.Sounds[2]
		assert.Equal(t, "RolandTR808", tr808.Machine)
		// Missing sample count defaults to 1.
		assert.Equal(t, map[string]int{"RolandTR808_bd": 25, "RolandTR808_sd": 1}, tr808.Sounds)

		tr909 := tables.Sounds[3]
		assert.Equal(t, "RolandTR909", tr909.Machine)
		assert.Equal(t, map[string]int{"RolandTR909_bd": 3}, tr909.Sounds)

		assert.Equal(t, "pianos", tables.Sounds[4].Cat)
		assert.Equal(t, map[string]int{"piano": 29}, tables.Sounds[4].SampleCounts)
		assert.Equal(t, "synths", tables.Sounds[5].Cat)
		assert.Equal(t, []string{"sawtooth", "square"}, tables.Sounds[5].Names)
	})

	t.Run("tokens", func(t *testing.T) {
		require.Len(t, tables.Tokens, 2)
		assert.Equal(t, "!", tables.Tokens[0].Token)
		assert.Equal(t, "Replicate", tables.Tokens[0].Meaning)
		assert.Equal(t, "a!2", tables.Tokens[0].Example)
		assert.Equal(t, "~", tables.Tokens[1].Token)
	})

	t.Run("skipped tally", func(t *testing.T) {
		// One nameless function, one non-object entry, one token
		// without a symbol.
		assert.Equal(t, 3, tables.Skipped)
	})
}

func TestBuildDeterministic(t *testing.T) {
	docsDir := writeDocsTree(t)
	ctx := context.Background()

	first, err := Build(ctx, docsDir)
	require.NoError(t, err)
	second, err := Build(ctx, docsDir)
	require.NoError(t, err)

	for _, pair := range []struct {
		name string
		a, b any
	}{
		{"functions", first.Functions, second.Functions},
		{"sounds", first.Sounds, second.Sounds},
		{"tokens", first.Tokens, second.Tokens},
	} {
		t.Run(pair.name, func(t *testing.T) {
			a, err := marshal(pair.a)
			require.NoError(t, err)
			b, err := marshal(pair.b)
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(string(a), string(b)))
		})
	}
}

func marshal(v any) ([]byte, error) {
	switch records := v.(type) {
	case []refdata.FunctionRecord:
		return jsonl.MarshalTable(records)
	case []refdata.SoundRecord:
		return jsonl.MarshalTable(records)
	case []refdata.TokenRecord:
		return jsonl.MarshalTable(records)
	}
	panic("unsupported record type")
}

func TestBuildMissingRoot(t *testing.T) {
	_, err := Build(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "docs root")
}

func TestBuildMissingSourceFile(t *testing.T) {
	docsDir := writeDocsTree(t)
	require.NoError(t, os.Remove(filepath.Join(docsDir, soundsSource)))

	_, err := Build(context.Background(), docsDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), soundsSource)
}
