// Package skills loads and validates the workspace's agent skill files.
// A skill lives in its own directory under skills/ as a SKILL.md file with
// YAML frontmatter (name and description) followed by markdown instructions.
// Skill bodies refer to the reference tables by path (data/*.jsonl);
// validation cross-checks those references against the data directory so a
// renamed table cannot silently orphan an instruction.
package skills

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

const skillFileName = "SKILL.md"

var dataRefRe = regexp.MustCompile(`\bdata/[\w./-]+\.jsonl\b`)

// Skill is a loaded skill file.
type Skill struct {
	Name        string
	Description string
	Path        string // path to the SKILL.md file
	Content     string // markdown body without frontmatter
}

// DataRefs returns the data-table paths the skill body mentions, sorted and
// deduplicated.
func (s *Skill) DataRefs() []string {
	seen := make(map[string]bool)
	var refs []string
	for _, ref := range dataRefRe.FindAllString(s.Content, -1) {
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	sort.Strings(refs)
	return refs
}

// Discover loads every skill under dir, one per subdirectory containing a
// SKILL.md. Results are sorted by name. A directory without a SKILL.md is
// ignored; a SKILL.md that fails to parse is an error, since this tool
// exists to keep the workspace consistent.
func Discover(dir string) ([]*Skill, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "skills directory %s not found", dir)
	}

	var result *multierror.Error
	var found []*Skill
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name(), skillFileName)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		skill, err := load(path)
		if err != nil {
			result = multierror.Append(result, errors.Wrap(err, path))
			continue
		}
		found = append(found, skill)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found, nil
}

func load(path string) (*Skill, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read skill file")
	}

	md := goldmark.New(goldmark.WithExtensions(meta.Meta))
	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, errors.New("missing frontmatter")
	}

	name, _ := metaData["name"].(string)
	description, _ := metaData["description"].(string)
	if name == "" {
		return nil, errors.New("skill name is required in frontmatter")
	}
	if description == "" {
		return nil, errors.New("skill description is required in frontmatter")
	}

	return &Skill{
		Name:        name,
		Description: description,
		Path:        path,
		Content:     stripFrontmatter(string(content)),
	}, nil
}

// stripFrontmatter removes the leading YAML block and returns the body.
func stripFrontmatter(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}
	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
		}
	}
	return content
}

// Validate discovers all skills under skillsDir and checks that skill names
// are unique and that every data table a skill body references exists under
// the workspace root. All violations are collected.
func Validate(skillsDir, workspaceRoot string) ([]*Skill, error) {
	found, err := Discover(skillsDir)
	if err != nil {
		return nil, err
	}

	var result *multierror.Error
	byName := make(map[string]string)
	for _, skill := range found {
		if first, ok := byName[skill.Name]; ok {
			result = multierror.Append(result, errors.Errorf(
				"duplicate skill name %q in %s (already defined in %s)", skill.Name, skill.Path, first))
		} else {
			byName[skill.Name] = skill.Path
		}

		for _, ref := range skill.DataRefs() {
			target := filepath.Join(workspaceRoot, filepath.FromSlash(ref))
			if _, err := os.Stat(target); err != nil {
				result = multierror.Append(result, errors.Errorf(
					"%s: references missing table %s", skill.Path, ref))
			}
		}
	}

	return found, result.ErrorOrNil()
}

// Summary renders a one-line description for listings.
func (s *Skill) Summary() string {
	return fmt.Sprintf("%s\t%s\t%s", s.Name, s.Description, s.Path)
}
