package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-fieldset/pkg/fields"
)

// Store holds the normalized field schema per content type.
type Store struct {
	types map[string]Declaration
}

// Declaration is one content type's canonical field tree plus its source
// file, kept for error reporting.
type Declaration struct {
	Type   string
	Source string
	Schema []fields.Field
}

// LoadFS walks the provided filesystem and parses JSON/YAML declaration
// files. When fsys is nil or no declaration files are present, the returned
// store is empty. A content type declared in two files is a configuration
// error.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{types: make(map[string]Declaration)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDeclarationFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for typeName, raw := range doc.Types {
			name := strings.TrimSpace(typeName)
			if name == "" {
				return fmt.Errorf("config: file %s declares an empty content type", path)
			}
			if existing, dup := store.types[name]; dup {
				return fmt.Errorf("config: content type %q declared in both %s and %s", name, existing.Source, path)
			}

			schema, err := fields.Normalize(raw.Fields, "")
			if err != nil {
				return fmt.Errorf("config: content type %q (file %s): %w", name, path, err)
			}
			store.types[name] = Declaration{Type: name, Source: path, Schema: schema}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

// Type returns the declaration for the supplied content type.
func (s *Store) Type(name string) (Declaration, bool) {
	if s == nil {
		return Declaration{}, false
	}
	decl, ok := s.types[name]
	return decl, ok
}

// Names returns the declared content types in sorted order.
func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.types))
	for name := range s.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether the store holds any declarations.
func (s *Store) Empty() bool {
	return s == nil || len(s.types) == 0
}

type documentFile struct {
	Types map[string]typeFile `json:"types" yaml:"types"`
}

type typeFile struct {
	Fields []map[string]any `json:"fields" yaml:"fields"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("config: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("config: parse %s: invalid JSON or YAML", source)
}

func isDeclarationFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
