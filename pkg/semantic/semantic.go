// Package semantic validates the hand-authored semantic map against the
// generated reference tables. The map translates free-form user terms into
// pointers across the other tables; since nothing regenerates it, a rename
// in the docs or a deleted idiom file silently strands its references until
// a check run catches them.
package semantic

import (
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/strudel-skill/strudelref/pkg/jsonl"
	"github.com/strudel-skill/strudelref/pkg/refdata"
)

// Referents holds the identifier sets the semantic map may point at.
type Referents struct {
	Categories   map[string]bool
	Functions    map[string]bool // names plus synonyms
	Idioms       map[string]bool
	Sounds       map[string]bool
	AntiPatterns map[string]bool
}

// LoadReferents reads every generated table under dataDir and collects the
// identifiers a semantic map entry may legally reference.
func LoadReferents(dataDir string) (*Referents, error) {
	r := &Referents{
		Categories:   make(map[string]bool),
		Functions:    make(map[string]bool),
		Idioms:       make(map[string]bool),
		Sounds:       make(map[string]bool),
		AntiPatterns: make(map[string]bool),
	}

	functions, err := jsonl.ReadTable[refdata.FunctionRecord](filepath.Join(dataDir, refdata.FunctionsTable))
	if err != nil {
		return nil, errors.Wrap(err, "functions table (run `strudelref extract` first)")
	}
	for _, fn := range functions {
		r.Categories[fn.Cat] = true
		r.Functions[fn.Name] = true
		for _, syn := range fn.Synonyms {
			r.Functions[syn] = true
		}
	}

	idioms, err := jsonl.ReadTable[refdata.IdiomRecord](filepath.Join(dataDir, refdata.IdiomsTable))
	if err != nil {
		return nil, errors.Wrap(err, "idioms table (run `strudelref idioms` first)")
	}
	for _, idiom := range idioms {
		r.Idioms[idiom.Name] = true
	}

	antiPatterns, err := jsonl.ReadTable[refdata.AntiPatternRecord](filepath.Join(dataDir, refdata.AntiPatternsTable))
	if err != nil {
		return nil, errors.Wrap(err, "anti-patterns table (run `strudelref antipatterns` first)")
	}
	for _, ap := range antiPatterns {
		r.AntiPatterns[ap.ID] = true
	}

	sounds, err := jsonl.ReadTable[refdata.SoundRecord](filepath.Join(dataDir, refdata.SoundsTable))
	if err != nil {
		return nil, errors.Wrap(err, "sounds table (run `strudelref extract` first)")
	}
	for _, snd := range sounds {
		for _, name := range snd.Names {
			r.Sounds[name] = true
		}
		for alias := range snd.Aliases {
			r.Sounds[alias] = true
		}
		for name := range snd.SampleCounts {
			r.Sounds[name] = true
		}
		for name := range snd.Sounds {
			r.Sounds[name] = true
		}
		for alias := range snd.AliasMap {
			r.Sounds[alias] = true
		}
		for _, name := range snd.GeneratedNames {
			r.Sounds[name] = true
		}
	}

	return r, nil
}

// Check validates every record of the semantic map at dataDir against the
// generated tables, collecting all violations instead of stopping at the
// first so the map can be fixed in one pass. The returned count is the
// number of map entries examined.
func Check(dataDir string) (int, error) {
	mapPath := filepath.Join(dataDir, refdata.SemanticMapTable)
	records, err := jsonl.ReadTable[refdata.SemanticMapRecord](mapPath)
	if err != nil {
		return 0, errors.Wrap(err, "semantic map")
	}

	refs, err := LoadReferents(dataDir)
	if err != nil {
		return 0, err
	}

	var result *multierror.Error
	for i, rec := range records {
		entry := entryLabel(i, rec)
		if len(rec.Terms) == 0 {
			result = multierror.Append(result, errors.Errorf("%s: no terms", entry))
		}
		if rec.GrepCat == "" {
			result = multierror.Append(result, errors.Errorf("%s: missing grep_cat", entry))
		} else if !refs.Categories[rec.GrepCat] {
			result = multierror.Append(result, errors.Errorf("%s: unknown category %q", entry, rec.GrepCat))
		}
		for _, fn := range rec.KeyFunctions {
			if !refs.Functions[fn] {
				result = multierror.Append(result, errors.Errorf("%s: unknown function %q", entry, fn))
			}
		}
		for _, idiom := range rec.Idioms {
			if !refs.Idioms[idiom] {
				result = multierror.Append(result, errors.Errorf("%s: unknown idiom %q", entry, idiom))
			}
		}
		for _, sound := range rec.Sounds {
			if !refs.Sounds[sound] {
				result = multierror.Append(result, errors.Errorf("%s: unknown sound %q", entry, sound))
			}
		}
		for _, ap := range rec.AntiPatterns {
			if !refs.AntiPatterns[ap] {
				result = multierror.Append(result, errors.Errorf("%s: unknown anti-pattern %q", entry, ap))
			}
		}
	}

	return len(records), result.ErrorOrNil()
}

func entryLabel(i int, rec refdata.SemanticMapRecord) string {
	if len(rec.Terms) > 0 {
		return fmt.Sprintf("entry %d (%s)", i+1, rec.Terms[0])
	}
	return fmt.Sprintf("entry %d", i+1)
}
