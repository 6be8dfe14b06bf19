package uischema

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-autoform/pkg/dependency"
	"github.com/goliatone/go-autoform/pkg/dependency/expr"
)

// LoadFS walks fsys and parses every JSON/YAML file as a UI schema
// document. A nil fsys yields an empty store.
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
			return fmt.Errorf("uischema: read %s: %w", path, err)
		}
		return store.add(data, path)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Parse reads a single document.
func Parse(data []byte, source string) (*Store, error) {
	store := &Store{forms: make(map[string]Form)}
	if err := store.add(data, source); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) add(data []byte, source string) error {
	doc, err := parseDocument(data, source)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(doc.Forms))
	for id := range doc.Forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, rawID := range ids {
		id := strings.TrimSpace(rawID)
		if id == "" {
			return fmt.Errorf("uischema: file %s defines an empty form id", source)
		}
		if _, exists := s.forms[id]; exists {
			return fmt.Errorf("uischema: duplicate form %q (file %s)", id, source)
		}
		form, err := normaliseForm(doc.Forms[rawID], id, source)
		if err != nil {
			return err
		}
		s.forms[id] = form
	}
	return nil
}

// Form returns the configuration for id.
func (s *Store) Form(id string) (Form, bool) {
	if s == nil {
		return Form{}, false
	}
	form, ok := s.forms[strings.TrimSpace(id)]
	return form, ok
}

// IDs lists the loaded form ids sorted.
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

type documentFile struct {
	Forms map[string]formFile `json:"forms" yaml:"forms"`
}

type formFile struct {
	Title        string                     `json:"title" yaml:"title"`
	Description  string                     `json:"description" yaml:"description"`
	SubmitLabel  string                     `json:"submitLabel" yaml:"submitLabel"`
	Fields       map[string]FieldConfigItem `json:"fields" yaml:"fields"`
	Dependencies []dependencyFile           `json:"dependencies" yaml:"dependencies"`
}

type dependencyFile struct {
	Source  string `json:"source" yaml:"source"`
	Target  string `json:"target" yaml:"target"`
	Type    string `json:"type" yaml:"type"`
	When    string `json:"when" yaml:"when"`
	Options []any  `json:"options" yaml:"options"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("uischema: file %s is empty", source)
	}
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return documentFile{}, fmt.Errorf("uischema: parse %s: invalid JSON or YAML", source)
}

func normaliseForm(raw formFile, id, source string) (Form, error) {
	form := Form{
		ID:          id,
		Source:      source,
		Title:       strings.TrimSpace(raw.Title),
		Description: strings.TrimSpace(raw.Description),
		SubmitLabel: strings.TrimSpace(raw.SubmitLabel),
		Fields:      make(FieldConfig, len(raw.Fields)),
	}

	for key, item := range raw.Fields {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" {
			return Form{}, fmt.Errorf("uischema: form %q (file %s) has an empty field key", id, source)
		}
		if _, exists := form.Fields[trimmed]; exists {
			return Form{}, fmt.Errorf("uischema: form %q (file %s) defines field %q twice", id, source, trimmed)
		}
		form.Fields[trimmed] = item
	}
	form.Fields = form.Fields.Clone()

	for idx, rawDep := range raw.Dependencies {
		dep, err := normaliseDependency(rawDep)
		if err != nil {
			return Form{}, fmt.Errorf("uischema: form %q (file %s) dependency %d: %w", id, source, idx, err)
		}
		form.Dependencies = append(form.Dependencies, dep)
	}
	return form, nil
}

func normaliseDependency(raw dependencyFile) (dependency.Dependency, error) {
	kind, err := dependency.ParseType(raw.Type)
	if err != nil {
		return dependency.Dependency{}, err
	}
	dep := dependency.Dependency{
		Source: strings.TrimSpace(raw.Source),
		Target: strings.TrimSpace(raw.Target),
		Type:   kind,
	}
	if strings.TrimSpace(raw.When) != "" {
		program, err := expr.Compile(raw.When)
		if err != nil {
			return dependency.Dependency{}, err
		}
		dep.Expr = program
	}
	if kind == dependency.SetsOptions {
		if raw.Options == nil {
			return dependency.Dependency{}, fmt.Errorf("uischema: setsOptions rule %s -> %s needs options", dep.Source, dep.Target)
		}
		dep.Options = append([]any(nil), raw.Options...)
	}
	if err := dep.Validate(); err != nil {
		return dependency.Dependency{}, err
	}
	return dep, nil
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
