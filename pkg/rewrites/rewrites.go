// Package rewrites merges the hand-authored mini-notation rewrite overlay
// into the existing mini-notation table. This is the one generator that
// patches a table instead of regenerating it: each overlay entry replaces
// the rewrites list on the matching token record and touches nothing else,
// so applying the overlay twice yields the same result as applying it once.
//
// The overlay may only annotate tokens that already exist in the base table.
// An unmatched overlay key is fatal and leaves the base file unmodified.
package rewrites

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/tailscale/hujson"

	"github.com/strudel-skill/strudelref/pkg/jsonl"
	"github.com/strudel-skill/strudelref/pkg/refdata"
)

// LoadOverlay reads a rewrite overlay file. The file is hand-authored, so it
// is parsed as HuJSON: comments and trailing commas are permitted.
func LoadOverlay(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read overlay %s", path)
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid overlay %s", path)
	}
	var doc struct {
		Rewrites map[string][]string `json:"rewrites"`
	}
	if err := json.Unmarshal(std, &doc); err != nil {
		return nil, errors.Wrapf(err, "invalid overlay %s", path)
	}
	if len(doc.Rewrites) == 0 {
		return nil, errors.Errorf("overlay %s contains no rewrites", path)
	}
	return doc.Rewrites, nil
}

// Merge applies the overlay to the token records, returning the updated
// records and the number of tokens annotated. Overlay keys with no matching
// token record make the whole merge fail.
func Merge(tokens []refdata.TokenRecord, overlay map[string][]string) ([]refdata.TokenRecord, int, error) {
	known := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		known[tok.Token] = true
	}
	var unmatched []string
	for token := range overlay {
		if !known[token] {
			unmatched = append(unmatched, token)
		}
	}
	if len(unmatched) > 0 {
		sort.Strings(unmatched)
		return nil, 0, errors.Errorf("overlay references unknown tokens: %s", strings.Join(unmatched, ", "))
	}

	merged := make([]refdata.TokenRecord, len(tokens))
	copy(merged, tokens)
	count := 0
	for i := range merged {
		if hints, ok := overlay[merged[i].Token]; ok {
			merged[i].Rewrites = hints
			count++
		}
	}
	return merged, count, nil
}

// Apply loads the base table and overlay and returns the merged records.
// Nothing is written; the caller owns the atomic table swap.
func Apply(basePath, overlayPath string) ([]refdata.TokenRecord, int, error) {
	if _, err := os.Stat(basePath); err != nil {
		if os.IsNotExist(err) {
			return nil, 0, errors.Errorf("no mini-notation table at %s; run `strudelref extract` first", basePath)
		}
		return nil, 0, errors.Wrapf(err, "failed to stat %s", basePath)
	}
	overlay, err := LoadOverlay(overlayPath)
	if err != nil {
		return nil, 0, err
	}
	tokens, err := jsonl.ReadTable[refdata.TokenRecord](basePath)
	if err != nil {
		return nil, 0, err
	}
	return Merge(tokens, overlay)
}
