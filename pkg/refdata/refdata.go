// Package refdata defines the record schemas for the line-delimited JSON
// reference tables under data/. Each table holds one JSON object per line so
// that agents can answer lookups with a single grep instead of loading the
// whole file. Optional fields carry omitempty so absent values are omitted
// rather than serialized as null.
package refdata

// Table file names, relative to the data directory.
const (
	FunctionsTable      = "functions.jsonl"
	SoundsTable         = "sounds.jsonl"
	MiniNotationTable   = "mini-notation.jsonl"
	AntiPatternsTable   = "anti-patterns.jsonl"
	IdiomsTable         = "idioms.jsonl"
	SnippetsTable       = "snippets.jsonl"
	FunctionsIndexTable = "functions-index.jsonl"
	SemanticMapTable    = "semantic-map.jsonl"

	// RewritesOverlay is the hand-authored overlay merged into the
	// mini-notation table by `strudelref rewrites`.
	RewritesOverlay = "mini-notation-rewrites.json"
)

// FunctionRecord is one line of functions.jsonl. Name is the unique key.
type FunctionRecord struct {
	Name     string   `json:"name"`
	Cat      string   `json:"cat"`
	Desc     string   `json:"desc,omitempty"`
	Synonyms []string `json:"synonyms,omitempty"`
	Params   []Param  `json:"params,omitempty"`
	Examples []string `json:"examples,omitempty"`
}

// Param describes one function parameter.
type Param struct {
	Name        string `json:"name,omitempty"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// SoundRecord is one line of sounds.jsonl. Most categories produce a single
// record; the drum machine category is split into a header record (Machines,
// Suffixes) plus one record per machine (Machine, Sounds) to keep individual
// lines small enough for line-oriented search.
type SoundRecord struct {
	Cat            string            `json:"cat"`
	Machine        string            `json:"machine,omitempty"`
	Desc           string            `json:"desc,omitempty"`
	Names          []string          `json:"names,omitempty"`
	Aliases        map[string]string `json:"aliases,omitempty"`
	SampleCounts   map[string]int    `json:"sampleCounts,omitempty"`
	NoteCount      int               `json:"noteCount,omitempty"`
	Machines       []string          `json:"machines,omitempty"`
	Suffixes       []string          `json:"suffixes,omitempty"`
	Sounds         map[string]int    `json:"sounds,omitempty"`
	AliasMap       map[string]string `json:"aliasMap,omitempty"`
	GeneratedNames []string          `json:"generatedNames,omitempty"`
}

// TokenRecord is one line of mini-notation.jsonl, exactly one per documented
// mini-notation token. Rewrites holds human-readable before/after hints and
// is populated by the rewrites overlay, not the extractor.
type TokenRecord struct {
	Token    string   `json:"token"`
	Meaning  string   `json:"meaning"`
	Desc     string   `json:"desc,omitempty"`
	Example  string   `json:"example,omitempty"`
	Rewrites []string `json:"rewrites,omitempty"`
}

// AntiPatternRecord is one line of anti-patterns.jsonl. ID is derived from
// the source filename minus its extension.
type AntiPatternRecord struct {
	ID   string `json:"id"`
	Bad  string `json:"bad"`
	Why  string `json:"why"`
	Good string `json:"good"`
}

// IdiomRecord is one line of idioms.jsonl. The code body is captured
// verbatim from the source file, after the metadata header.
type IdiomRecord struct {
	Name      string   `json:"name"`
	Cat       string   `json:"cat"`
	Desc      string   `json:"desc"`
	Notes     string   `json:"notes,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Functions []string `json:"functions,omitempty"`
	Code      string   `json:"code"`
}

// SnippetRecord is one line of snippets.jsonl. Unlike idioms the snippet
// index never duplicates the code; File points at the authoritative source.
type SnippetRecord struct {
	Name string   `json:"name"`
	File string   `json:"file"`
	Desc string   `json:"desc"`
	Tags []string `json:"tags,omitempty"`
}

// CategoryIndexRecord is one line of functions-index.jsonl: a derived,
// lossless grouping of the functions table by category. Never hand-edited.
type CategoryIndexRecord struct {
	Cat   string   `json:"cat"`
	Names []string `json:"names"`
}

// SemanticMapRecord is one line of semantic-map.jsonl. The semantic map is
// the only hand-authored table: it translates free-form user terminology
// into pointers across the generated tables and is validated, not
// regenerated, by this tool.
type SemanticMapRecord struct {
	Terms        []string `json:"terms"`
	GrepCat      string   `json:"grep_cat"`
	KeyFunctions []string `json:"key_functions,omitempty"`
	Idioms       []string `json:"idioms,omitempty"`
	Sounds       []string `json:"sounds,omitempty"`
	AntiPatterns []string `json:"anti_patterns,omitempty"`
}
