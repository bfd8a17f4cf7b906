// Package header parses the `// @key: value` metadata block that idiom and
// snippet source files carry at the top, ahead of their code body. The
// grammar is deliberately line-oriented: plain comments and blank lines may
// precede the metadata, and the first non-comment line (or a plain comment
// after metadata has started) terminates the header. The body is never
// mistaken for metadata.
package header

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var keyValueRe = regexp.MustCompile(`^//\s*@(\w+):\s*(.+)$`)

// Header is the parsed result: metadata fields (keys lowercased) and the
// remaining code body with leading and trailing blank lines trimmed.
type Header struct {
	Fields map[string]string
	Body   string
}

// Parse scans content for the metadata block. It never fails; callers
// enforce required keys with Require.
func Parse(content string) Header {
	fields := make(map[string]string)
	lines := strings.Split(content, "\n")
	bodyStart := 0

	for i, line := range lines {
		stripped := strings.TrimSpace(line)

		if stripped == "" && len(fields) == 0 {
			bodyStart = i + 1
			continue
		}

		if m := keyValueRe.FindStringSubmatch(stripped); m != nil {
			fields[strings.ToLower(m[1])] = strings.TrimSpace(m[2])
			bodyStart = i + 1
			continue
		}

		if strings.HasPrefix(stripped, "//") && len(fields) == 0 {
			// Plain comment before any metadata.
			bodyStart = i + 1
			continue
		}

		// Plain comment after metadata started, or the first code line.
		bodyStart = i
		break
	}

	body := lines[bodyStart:]
	for len(body) > 0 && strings.TrimSpace(body[0]) == "" {
		body = body[1:]
	}
	for len(body) > 0 && strings.TrimSpace(body[len(body)-1]) == "" {
		body = body[:len(body)-1]
	}

	return Header{Fields: fields, Body: strings.Join(body, "\n")}
}

// Require checks that every key is present and non-empty, reporting all
// missing keys at once so a source file can be fixed in a single pass.
func (h Header) Require(keys ...string) error {
	var missing []string
	for _, key := range keys {
		if h.Fields[key] == "" {
			missing = append(missing, "@"+key)
		}
	}
	if len(missing) > 0 {
		return errors.Errorf("missing required header fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// List splits a comma-separated header value into trimmed, non-empty items.
// Returns nil for an empty value so omitempty drops the field entirely.
func List(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var items []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
