package semantic

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strudel-skill/strudelref/pkg/jsonl"
	"github.com/strudel-skill/strudelref/pkg/refdata"
)

func writeTables(t *testing.T, dataDir string, entries []refdata.SemanticMapRecord) {
	t.Helper()
	require.NoError(t, jsonl.WriteTable(filepath.Join(dataDir, refdata.FunctionsTable), []refdata.FunctionRecord{
		{Name: "lpf", Cat: "Effects", Synonyms: []string{"cutoff"}},
		{Name: "s", Cat: "Core"},
	}))
	require.NoError(t, jsonl.WriteTable(filepath.Join(dataDir, refdata.IdiomsTable), []refdata.IdiomRecord{
		{Name: "beat-switcher", Cat: "live-performance", Desc: "x", Code: "c"},
	}))
	require.NoError(t, jsonl.WriteTable(filepath.Join(dataDir, refdata.AntiPatternsTable), []refdata.AntiPatternRecord{
		{ID: "verbose-rests", Bad: "b", Why: "w", Good: "g"},
	}))
	require.NoError(t, jsonl.WriteTable(filepath.Join(dataDir, refdata.SoundsTable), []refdata.SoundRecord{
		{Cat: "synths", Names: []string{"sawtooth"}, Aliases: map[string]string{"saw": "sawtooth"}},
		{Cat: "drumMachines", Machine: "RolandTR808", Sounds: map[string]int{"RolandTR808_bd": 25}},
		{Cat: "drumMachineAliases", AliasMap: map[string]string{"tr808": "RolandTR808"}, GeneratedNames: []string{"tr808_bd"}},
	}))
	require.NoError(t, jsonl.WriteTable(filepath.Join(dataDir, refdata.SemanticMapTable), entries))
}

func TestCheckValid(t *testing.T) {
	dataDir := t.TempDir()
	writeTables(t, dataDir, []refdata.SemanticMapRecord{
		{
			Terms:        []string{"filter", "cutoff"},
			GrepCat:      "Effects",
			KeyFunctions: []string{"lpf", "cutoff"}, // synonyms resolve too
			Idioms:       []string{"beat-switcher"},
			Sounds:       []string{"sawtooth", "saw", "RolandTR808_bd", "tr808", "tr808_bd"},
			AntiPatterns: []string{"verbose-rests"},
		},
	})

	entries, err := Check(dataDir)
	require.NoError(t, err)
	assert.Equal(t, 1, entries)
}

func TestCheckViolations(t *testing.T) {
	dataDir := t.TempDir()
	writeTables(t, dataDir, []refdata.SemanticMapRecord{
		{
			Terms:        []string{"filter"},
			GrepCat:      "NoSuchCategory",
			KeyFunctions: []string{"lpf", "nosuchfn"},
			Idioms:       []string{"missing-idiom"},
			Sounds:       []string{"nosuchsound"},
			AntiPatterns: []string{"missing-ap"},
		},
		{
			GrepCat: "Effects",
		},
	})

	_, err := Check(dataDir)
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, `unknown category "NoSuchCategory"`)
	assert.Contains(t, msg, `unknown function "nosuchfn"`)
	assert.NotContains(t, msg, `"lpf"`)
	assert.Contains(t, msg, `unknown idiom "missing-idiom"`)
	assert.Contains(t, msg, `unknown sound "nosuchsound"`)
	assert.Contains(t, msg, `unknown anti-pattern "missing-ap"`)
	assert.Contains(t, msg, "entry 2: no terms")
}

func TestCheckMissingBaseTable(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, jsonl.WriteTable(filepath.Join(dataDir, refdata.SemanticMapTable), []refdata.SemanticMapRecord{
		{Terms: []string{"x"}, GrepCat: "Effects"},
	}))

	_, err := Check(dataDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run `strudelref extract` first")
}

func TestCheckMissingMap(t *testing.T) {
	_, err := Check(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "semantic map")
}
