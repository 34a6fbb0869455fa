// Package jsonfile contains the file primitives used by the expectation store: reading a JSON
// document that may not exist yet, and merging top-level properties into a JSON object file.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/launchdarkly/go-expectations/framework/helpers"
	"github.com/launchdarkly/go-expectations/framework/opt"
)

const indent = "    "

// Read parses the JSON file at path. It returns None if the file does not exist or contains
// nothing but whitespace. Read and parse errors are returned as-is, wrapped with the path.
func Read(path string) (opt.Maybe[ldvalue.Value], error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return opt.None[ldvalue.Value](), nil
		}
		return opt.None[ldvalue.Value](), fmt.Errorf("failed to read %q: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return opt.None[ldvalue.Value](), nil
	}
	var value ldvalue.Value
	if err := json.Unmarshal(data, &value); err != nil {
		return opt.None[ldvalue.Value](), fmt.Errorf("malformed JSON in %q: %w", path, err)
	}
	return opt.Some(value), nil
}

// Exists returns true if something exists at the path. Any stat error other than "not found"
// counts as existing, so that callers never treat an unreadable file as brand new.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

// MergeTopLevel sets each of the given properties on the JSON object stored at path, replacing
// any existing property of the same name wholesale and leaving all other properties alone. The
// file and its parent directories are created if they do not exist yet. A file whose root is not
// an object, or that is empty, is treated as an empty object.
//
// The new content is written to a temporary file in the same directory and then renamed over
// the target, so the file is never left partially written.
func MergeTopLevel(path string, properties map[string]ldvalue.Value) error {
	existing, err := Read(path)
	if err != nil {
		return err
	}
	builder := ldvalue.ObjectBuild()
	if current := existing.Value(); current.Type() == ldvalue.ObjectType {
		for _, k := range current.Keys(nil) {
			builder.Set(k, current.GetByKey(k))
		}
	}
	names := maps.Keys(properties)
	slices.Sort(names)
	for _, k := range names {
		builder.Set(k, properties[k])
	}
	return Write(path, builder.Build())
}

// Write replaces the file at path with the canonical, indented JSON form of value.
func Write(path string, value ldvalue.Value) error {
	data, err := helpers.IndentedCanonicalJSON(value, indent)
	if err != nil {
		return fmt.Errorf("failed to serialize JSON for %q: %w", path, err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %q: %w", path, err)
	}
	temp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	tempPath := temp.Name()
	defer func() { _ = os.Remove(tempPath) }() // no-op once the rename has happened

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	if err := temp.Close(); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	if err := os.Chmod(tempPath, 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}
