// Package jsonl reads and writes line-delimited JSON tables. Writers always
// marshal the full table into memory and swap it in with a temp-file-plus-
// rename write, so a run that dies partway can never leave a half-written
// table behind. Records marshal compactly, in UTF-8, without HTML escaping.
package jsonl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/aymanbagabas/go-udiff"
	"github.com/natefinch/atomic"
	"github.com/pkg/errors"
)

// MarshalTable renders records as one compact JSON object per line. The
// output is deterministic for a given input: struct fields keep declaration
// order and map keys marshal sorted.
func MarshalTable[T any](records []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return nil, errors.Wrapf(err, "failed to marshal record %d", i)
		}
	}
	return buf.Bytes(), nil
}

// WriteTable atomically replaces the table at path with the given records,
// creating the parent directory if needed.
func WriteTable[T any](path string, records []T) error {
	data, err := MarshalTable(records)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// ReadTable decodes every non-blank line of the table at path.
func ReadTable[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	var records []T
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, errors.Wrapf(err, "%s:%d: invalid record", path, line)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return records, nil
}

// Diff returns a unified diff between the current content of path and the
// updated table bytes. A missing file diffs against empty content. An empty
// string means no change.
func Diff(path string, updated []byte) (string, error) {
	old, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", errors.Wrapf(err, "failed to read %s", path)
		}
		old = nil
	}
	if bytes.Equal(old, updated) {
		return "", nil
	}
	return udiff.Unified(path, path, string(old), string(updated)), nil
}
