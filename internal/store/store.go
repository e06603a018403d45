package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/stripscript/internal/script"
)

// ErrInvalidName is returned for script names that are empty or reach
// outside the store.
var ErrInvalidName = errors.New("store: invalid script name")

// ErrNotFound is returned when no script has the name.
var ErrNotFound = errors.New("store: script not found")

// Store keeps script documents as files under <dir>/script.
type Store struct {
	dir string
}

func New(dir string) *Store { return &Store{dir: filepath.Join(dir, "script")} }

func (s *Store) Dir() string { return s.dir }

// clean maps a script name to a file stem. Only letters, digits, '-', '_'
// and '.' survive; spaces become '_'.
func clean(name string) (string, error) {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, ".json")
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		default:
			return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	stem := b.String()
	if stem == "" || strings.Trim(stem, ".") == "" || strings.HasPrefix(stem, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return stem, nil
}

func (s *Store) path(name string) (string, error) {
	stem, err := clean(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, stem+".json"), nil
}

// Read returns the decoded document stored under name. JSON and YAML text
// are both accepted.
func (s *Store) Read(name string) (map[string]any, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	doc, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return doc, nil
}

// Load parses the script stored under name against env.
func (s *Store) Load(name string, env *script.Env) (*script.Script, error) {
	doc, err := s.Read(name)
	if err != nil {
		return nil, err
	}
	if _, ok := doc["name"]; !ok {
		doc["name"] = name
	}
	return script.Parse(doc, env)
}

// Save writes doc as indented JSON under name, replacing any existing file.
func (s *Store) Save(name string, doc map[string]any) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return s.write(name, b)
}

// SaveText validates text as a script document and stores it as JSON.
func (s *Store) SaveText(name string, text []byte) error {
	doc, err := Decode(text)
	if err != nil {
		return err
	}
	return s.Save(name, doc)
}

func (s *Store) write(name string, b []byte) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Delete removes the script. Deleting a missing script is not an error.
func (s *Store) Delete(name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// List returns the stored script names in order.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Decode reads a script document from JSON or YAML text.
func Decode(b []byte) (map[string]any, error) {
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		if yerr := yaml.Unmarshal(b, &doc); yerr != nil {
			return nil, fmt.Errorf("decode script: %w", err)
		}
		doc = normalize(doc)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, script.ErrNotObject
	}
	return obj, nil
}

// normalize converts YAML scalars to the types encoding/json produces.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = normalize(e)
		}
		return m
	case []any:
		for i, e := range t {
			t[i] = normalize(e)
		}
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	}
	return v
}
