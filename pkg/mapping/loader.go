package mapping

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// FilePattern selects mapping files below a mappings directory.
const FilePattern = "**/*.{json,yaml,yml}"

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("mapping.schema.json", bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("adding mapping schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("mapping.schema.json")
	})
	return schema, schemaErr
}

// LoadDir loads every mapping file below dir, in lexical path order. A
// missing directory yields no mappings and no error.
func LoadDir(dir string) ([]*Mapping, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading mappings dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("mappings dir %s is not a directory", dir)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), FilePattern)
	if err != nil {
		return nil, fmt.Errorf("expanding glob pattern: %w", err)
	}
	sort.Strings(matches)

	var result []*Mapping
	for _, match := range matches {
		mappings, err := LoadFile(filepath.Join(dir, filepath.FromSlash(match)))
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", match, err)
		}
		result = append(result, mappings...)
	}
	return result, nil
}

// LoadFile loads a mapping file holding a single mapping or a list of
// mappings. JSON files are read with the YAML decoder, which accepts them.
// Mappings without a GUID get a generated one.
func LoadFile(path string) ([]*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("file is empty: %s", path)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	var docs []any
	if list, ok := doc.([]any); ok {
		docs = list
	} else {
		docs = []any{doc}
	}

	out := make([]*Mapping, 0, len(docs))
	for i, d := range docs {
		m, err := decodeMapping(d)
		if err != nil {
			if len(docs) > 1 {
				return nil, fmt.Errorf("mapping[%d]: %w", i, err)
			}
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// decodeMapping validates one decoded document against the mapping schema
// and converts it. The document is normalised through JSON so schema
// validation sees JSON types.
func decodeMapping(doc any) (*Mapping, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("converting mapping: %w", err)
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("converting mapping: %w", err)
	}

	s, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(generic); err != nil {
		var vErr *jsonschema.ValidationError
		if errors.As(err, &vErr) {
			return nil, schemaError(vErr)
		}
		return nil, err
	}

	var m Mapping
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decoding mapping: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.GUID == "" {
		m.GUID = uuid.NewString()
	}
	return &m, nil
}

// schemaError reduces a schema failure to its first leaf cause.
func schemaError(err *jsonschema.ValidationError) *ValidationError {
	leaf := err
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	field := strings.ReplaceAll(strings.TrimPrefix(leaf.InstanceLocation, "/"), "/", ".")
	if field == "" {
		field = "mapping"
	}
	return &ValidationError{Field: field, Message: leaf.Message}
}

// SaveFile writes m as indented JSON to <dir>/<guid>.json, creating dir as
// needed, and returns the file path.
func SaveFile(dir string, m *Mapping) (string, error) {
	if m.GUID == "" {
		m.GUID = uuid.NewString()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating mappings dir: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding mapping: %w", err)
	}

	path := filepath.Join(dir, m.GUID+".json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("writing mapping: %w", err)
	}
	return path, nil
}

// SaveAll writes every mapping with SaveFile.
func SaveAll(dir string, mappings []*Mapping) error {
	for _, m := range mappings {
		if _, err := SaveFile(dir, m); err != nil {
			return fmt.Errorf("saving %s: %w", m.GUID, err)
		}
	}
	return nil
}
