package compile

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/strudel-skill/strudelref/pkg/logger"
	"github.com/strudel-skill/strudelref/pkg/refdata"
)

// AntiPatterns compiles the .yaml files under srcDir into anti-pattern
// records. Each document requires non-empty bad, why, and good fields; the
// record id is the filename minus its extension, which makes collisions
// impossible within a single directory but still checked for safety.
func AntiPatterns(ctx context.Context, srcDir string) ([]refdata.AntiPatternRecord, []FileError, error) {
	files, err := sourceFiles(srcDir, "*.{yaml,yml}")
	if err != nil {
		return nil, nil, err
	}

	log := logger.G(ctx)
	seen := make(map[string]string)
	var records []refdata.AntiPatternRecord
	var failures []FileError

	for _, path := range files {
		name := filepath.Base(path)
		rec, err := parseAntiPatternFile(path)
		if err != nil {
			log.WithField("file", name).WithError(err).Warn("rejecting anti-pattern file")
			failures = append(failures, FileError{File: name, Err: err})
			continue
		}
		if err := checkDuplicate(seen, rec.ID, name); err != nil {
			return nil, nil, err
		}
		records = append(records, rec)
	}

	return records, failures, nil
}

func parseAntiPatternFile(path string) (refdata.AntiPatternRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return refdata.AntiPatternRecord{}, errors.Wrap(err, "failed to read file")
	}

	var doc struct {
		Bad  string `yaml:"bad"`
		Why  string `yaml:"why"`
		Good string `yaml:"good"`
	}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return refdata.AntiPatternRecord{}, errors.Wrap(err, "invalid YAML")
	}

	var missing []string
	for _, f := range []struct{ key, value string }{
		{"bad", doc.Bad}, {"why", doc.Why}, {"good", doc.Good},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.key)
		}
	}
	if len(missing) > 0 {
		return refdata.AntiPatternRecord{}, errors.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	base := filepath.Base(path)
	id := strings.TrimSuffix(base, filepath.Ext(base))

	// Block scalars keep a trailing newline; strip it so records stay
	// single-line friendly.
	return refdata.AntiPatternRecord{
		ID:   id,
		Bad:  strings.TrimRight(doc.Bad, "\n"),
		Why:  strings.TrimRight(doc.Why, "\n"),
		Good: strings.TrimRight(doc.Good, "\n"),
	}, nil
}
