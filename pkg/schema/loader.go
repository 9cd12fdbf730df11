package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/model"
)

// Form is a named form tree loaded from a document.
type Form struct {
	ID          string
	Source      Source
	ClassName   string
	SubmitLabel string
	Root        model.Node
}

// Store indexes loaded forms by id.
type Store struct {
	forms map[string]Form
}

// Form returns the form registered under id.
func (s *Store) Form(id string) (Form, bool) {
	if s == nil {
		return Form{}, false
	}
	f, ok := s.forms[id]
	return f, ok
}

// IDs lists form ids in lexical order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

// LoadFS walks fsys and parses every JSON/YAML document. Form ids must be
// unique across files.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{forms: make(map[string]Form)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", path, err)
		}
		forms, err := Parse(data, SourceFromFS(path))
		if err != nil {
			return err
		}
		return store.add(forms)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// LoadFile parses a single document from disk.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	forms, err := Parse(data, SourceFromFile(path))
	if err != nil {
		return nil, err
	}
	store := &Store{forms: make(map[string]Form)}
	if err := store.add(forms); err != nil {
		return nil, err
	}
	return store, nil
}

// Parse decodes a JSON or YAML document into its forms.
func Parse(data []byte, src Source) ([]Form, error) {
	if src == nil {
		return nil, errors.New("schema: source is required")
	}
	location := src.Location()
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("schema: file %s is empty", location)
	}

	raw, err := parseRaw(data)
	if err != nil {
		return nil, fmt.Errorf("schema: parse %s: invalid JSON or YAML", location)
	}
	doc, err := decodeDocument(raw, location)
	if err != nil {
		return nil, err
	}
	if len(doc.Forms) == 0 {
		return nil, fmt.Errorf("schema: file %s defines no forms", location)
	}

	ids := make([]string, 0, len(doc.Forms))
	for id := range doc.Forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	forms := make([]Form, 0, len(ids))
	for _, rawID := range ids {
		id := strings.TrimSpace(rawID)
		if id == "" {
			return nil, fmt.Errorf("schema: file %s defines an empty form id", location)
		}
		spec := doc.Forms[rawID]
		root, err := spec.node(location + ":" + id)
		if err != nil {
			return nil, err
		}
		forms = append(forms, Form{
			ID:          id,
			Source:      src,
			ClassName:   strings.TrimSpace(spec.ClassName),
			SubmitLabel: spec.SubmitLabel,
			Root:        root,
		})
	}
	return forms, nil
}

func (s *Store) add(forms []Form) error {
	for _, f := range forms {
		if existing, exists := s.forms[f.ID]; exists {
			return fmt.Errorf("schema: duplicate form %q (%s and %s)", f.ID, existing.Source.Location(), f.Source.Location())
		}
		s.forms[f.ID] = f
	}
	return nil
}

func parseRaw(data []byte) (map[string]any, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err == nil {
		return raw, nil
	}
	raw = nil
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("document is not a mapping")
	}
	return raw, nil
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
