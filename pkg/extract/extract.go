// Package extract compresses a strudel-docs documentation tree into the
// functions, sounds, and mini-notation reference tables. Extraction is a
// pure batch transform: the whole table set is built in memory first and the
// caller decides whether to write it, so re-running against unchanged docs
// yields byte-identical output.
//
// Individual malformed entries inside the docs are skipped and tallied
// rather than aborting the run; a missing docs root or missing source file
// is fatal and produces no output at all.
package extract

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/strudel-skill/strudelref/pkg/logger"
	"github.com/strudel-skill/strudelref/pkg/refdata"
)

// Source file locations inside a strudel-docs checkout.
const (
	functionsSource = "api/output/functions.json"
	soundsSource    = "soundbank/output/sounds.json"
	patternsSource  = "patterns/output/patterns.json"
)

// Tables holds the full in-memory result of one extraction run.
type Tables struct {
	Functions []refdata.FunctionRecord
	Sounds    []refdata.SoundRecord
	Tokens    []refdata.TokenRecord

	// Skipped counts entries that could not be parsed and were left out.
	Skipped int
}

// Build reads the docs tree rooted at docsDir and produces all three tables.
// Categories are emitted in sorted order; entries within a category keep the
// source's own ordering.
func Build(ctx context.Context, docsDir string) (*Tables, error) {
	if _, err := os.Stat(docsDir); err != nil {
		return nil, errors.Wrapf(err, "docs root %s not found", docsDir)
	}
	for _, sub := range []string{functionsSource, soundsSource, patternsSource} {
		if _, err := os.Stat(filepath.Join(docsDir, sub)); err != nil {
			return nil, errors.Errorf("missing source file %s in %s", sub, docsDir)
		}
	}

	tables := &Tables{}
	if err := tables.buildFunctions(ctx, filepath.Join(docsDir, functionsSource)); err != nil {
		return nil, err
	}
	if err := tables.buildSounds(ctx, filepath.Join(docsDir, soundsSource)); err != nil {
		return nil, err
	}
	if err := tables.buildTokens(ctx, filepath.Join(docsDir, patternsSource)); err != nil {
		return nil, err
	}
	return tables, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "failed to parse %s", path)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type functionEntry struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Synonyms    []string        `json:"synonyms"`
	Parameters  []refdata.Param `json:"parameters"`
	Examples    []string        `json:"examples"`
}

func (t *Tables) buildFunctions(ctx context.Context, path string) error {
	var doc struct {
		Categories map[string][]json.RawMessage `json:"categories"`
	}
	if err := readJSON(path, &doc); err != nil {
		return err
	}

	log := logger.G(ctx)
	for _, cat := range sortedKeys(doc.Categories) {
		for i, raw := range doc.Categories[cat] {
			var fn functionEntry
			if err := json.Unmarshal(raw, &fn); err != nil || fn.Name == "" {
				t.Skipped++
				log.WithField("cat", cat).WithField("index", i).Warn("skipping malformed function entry")
				continue
			}
			t.Functions = append(t.Functions, refdata.FunctionRecord{
				Name:     fn.Name,
				Cat:      cat,
				Desc:     fn.Description,
				Synonyms: fn.Synonyms,
				Params:   fn.Parameters,
				Examples: fn.Examples,
			})
		}
	}
	return nil
}

type soundCategory struct {
	Description    string            `json:"description"`
	Names          []string          `json:"names"`
	Aliases        map[string]string `json:"aliases"`
	SampleCounts   map[string]int    `json:"sampleCounts"`
	NoteCount      int               `json:"noteCount"`
	Machines       []string          `json:"machines"`
	Suffixes       []string          `json:"suffixes"`
	AliasMap       map[string]string `json:"aliasMap"`
	GeneratedNames []string          `json:"generatedNames"`
}

func (t *Tables) buildSounds(ctx context.Context, path string) error {
	var doc struct {
		Categories map[string]json.RawMessage `json:"categories"`
	}
	if err := readJSON(path, &doc); err != nil {
		return err
	}

	log := logger.G(ctx)
	for _, cat := range sortedKeys(doc.Categories) {
		var info soundCategory
		if err := json.Unmarshal(doc.Categories[cat], &info); err != nil {
			t.Skipped++
			log.WithField("cat", cat).Warn("skipping malformed sound category")
			continue
		}
		switch cat {
		case "drumMachines":
			t.appendDrumMachines(cat, info)
		case "drumMachineAliases":
			t.Sounds = append(t.Sounds, refdata.SoundRecord{
				Cat:            cat,
				Desc:           info.Description,
				AliasMap:       info.AliasMap,
				GeneratedNames: info.GeneratedNames,
			})
		default:
			t.Sounds = append(t.Sounds, refdata.SoundRecord{
				Cat:          cat,
				Desc:         info.Description,
				Names:        info.Names,
				Aliases:      info.Aliases,
				SampleCounts: info.SampleCounts,
				NoteCount:    info.NoteCount,
			})
		}
	}
	return nil
}

// appendDrumMachines splits the drum machine category into a header record
// plus one record per machine prefix, keeping each output line small. Sound
// names follow the Machine_suffix convention; a name without a recorded
// sample count defaults to 1.
func (t *Tables) appendDrumMachines(cat string, info soundCategory) {
	t.Sounds = append(t.Sounds, refdata.SoundRecord{
		Cat:      cat,
		Desc:     info.Description,
		Machines: info.Machines,
		Suffixes: info.Suffixes,
	})

	machineSounds := make(map[string]map[string]int)
	for _, name := range info.Names {
		machine, _, _ := strings.Cut(name, "_")
		if machineSounds[machine] == nil {
			machineSounds[machine] = make(map[string]int)
		}
		count := 1
		if c, ok := info.SampleCounts[name]; ok {
			count = c
		}
		machineSounds[machine][name] = count
	}

	for _, machine := range info.Machines {
		if sounds := machineSounds[machine]; len(sounds) > 0 {
			t.Sounds = append(t.Sounds, refdata.SoundRecord{
				Cat:     cat,
				Machine: machine,
				Sounds:  sounds,
			})
		}
	}
}

func (t *Tables) buildTokens(ctx context.Context, path string) error {
	var doc struct {
		MiniNotation struct {
			Tokens []json.RawMessage `json:"tokens"`
		} `json:"miniNotation"`
	}
	if err := readJSON(path, &doc); err != nil {
		return err
	}

	log := logger.G(ctx)
	for i, raw := range doc.MiniNotation.Tokens {
		var tok struct {
			Token       string `json:"token"`
			Meaning     string `json:"meaning"`
			Description string `json:"description"`
			Example     string `json:"example"`
		}
		if err := json.Unmarshal(raw, &tok); err != nil || tok.Token == "" || tok.Meaning == "" {
			t.Skipped++
			log.WithField("index", i).Warn("skipping malformed mini-notation token")
			continue
		}
		t.Tokens = append(t.Tokens, refdata.TokenRecord{
			Token:   tok.Token,
			Meaning: tok.Meaning,
			Desc:    tok.Description,
			Example: tok.Example,
		})
	}
	return nil
}
