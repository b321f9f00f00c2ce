// Package prompts holds the versioned prompt builders for each prompt
// family. Building a prompt is a pure function of the sample.
package prompts

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/voicejournal/promptlab/internal/models"
	"github.com/voicejournal/promptlab/internal/template"
	"github.com/voicejournal/promptlab/internal/validation"
	"gopkg.in/yaml.v3"
)

// Version is one named prompt for a family.
type Version struct {
	Name   string
	Family models.Family
	tmpl   *template.Template
	vars   map[string]string
}

// Build renders the prompt for a transcript.
func (v Version) Build(transcript string) (string, error) {
	return v.BuildFor(models.Sample{Transcript: transcript})
}

// BuildFor renders the prompt with every sample field available to the
// template.
func (v Version) BuildFor(s models.Sample) (string, error) {
	return v.tmpl.Execute(&template.Context{
		Transcript:    s.Transcript,
		SampleID:      s.ID,
		Role:          s.Role,
		PromptVersion: v.Name,
		Vars:          v.vars,
	})
}

// Text returns the prompt template source.
func (v Version) Text() string {
	return v.tmpl.Text()
}

// Library keeps prompt versions per family in registration order.
type Library struct {
	mu       sync.RWMutex
	versions map[models.Family][]Version
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{versions: make(map[models.Family][]Version)}
}

// Default returns a library holding the built-in prompt versions.
func Default() *Library {
	l := NewLibrary()
	for _, b := range builtins {
		if err := l.Register(b.family, b.name, b.text); err != nil {
			panic(fmt.Sprintf("built-in prompt %s/%s: %v", b.family, b.name, err))
		}
	}
	return l
}

// Register adds a version or replaces an existing one with the same name,
// keeping its position. The template is checked by rendering it once.
func (l *Library) Register(family models.Family, name, text string) error {
	return l.RegisterWithVars(family, name, text, nil)
}

// RegisterWithVars is Register with user variables exposed to the template
// as {{.Vars.name}}.
func (l *Library) RegisterWithVars(family models.Family, name, text string, vars map[string]string) error {
	if _, err := models.ParseFamily(string(family)); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("prompt version name is required")
	}

	tmpl, err := template.Parse(string(family)+"/"+name, text)
	if err != nil {
		return err
	}
	if _, err := tmpl.Execute(&template.Context{PromptVersion: name, Vars: vars}); err != nil {
		return fmt.Errorf("prompt %s/%s: %w", family, name, err)
	}

	v := Version{Name: name, Family: family, tmpl: tmpl, vars: vars}

	l.mu.Lock()
	defer l.mu.Unlock()

	list := l.versions[family]
	for i := range list {
		if list[i].Name == name {
			list[i] = v
			return nil
		}
	}
	l.versions[family] = append(list, v)
	return nil
}

// Versions returns the family's versions in registration order.
func (l *Library) Versions(family models.Family) []Version {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Version, len(l.versions[family]))
	copy(out, l.versions[family])
	return out
}

// Names returns the family's version names in registration order.
func (l *Library) Names(family models.Family) []string {
	versions := l.Versions(family)
	names := make([]string, len(versions))
	for i, v := range versions {
		names[i] = v.Name
	}
	return names
}

// Lookup finds a version by name.
func (l *Library) Lookup(family models.Family, name string) (Version, bool) {
	for _, v := range l.Versions(family) {
		if v.Name == name {
			return v, true
		}
	}
	return Version{}, false
}

// Build renders the named version for a transcript.
func (l *Library) Build(family models.Family, name, transcript string) (string, error) {
	v, ok := l.Lookup(family, name)
	if !ok {
		return "", fmt.Errorf("unknown %s prompt version %q (available: %s)", family, name, strings.Join(l.Names(family), ", "))
	}
	return v.Build(transcript)
}

// Only drops every version of family whose name is not listed. An unknown
// name is an error and leaves the library untouched.
func (l *Library) Only(family models.Family, names []string) error {
	if len(names) == 0 {
		return nil
	}

	keep := make([]Version, 0, len(names))
	for _, name := range names {
		v, ok := l.Lookup(family, name)
		if !ok {
			return fmt.Errorf("unknown %s prompt version %q", family, name)
		}
		keep = append(keep, v)
	}

	l.mu.Lock()
	l.versions[family] = keep
	l.mu.Unlock()
	return nil
}

// FileEntry is one prompt in a YAML prompt file.
type FileEntry struct {
	Family   models.Family     `yaml:"family"`
	Name     string            `yaml:"name"`
	Template string            `yaml:"template"`
	Vars     map[string]string `yaml:"vars,omitempty"`
}

// LoadFile reads a YAML prompt file (a list of family/name/template
// entries with optional vars) and registers every entry.
func (l *Library) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading prompt file: %w", err)
	}

	if errs := validation.ValidatePromptsBytes(data); len(errs) > 0 {
		return fmt.Errorf("prompt file %s is invalid:\n  %s", path, strings.Join(errs, "\n  "))
	}

	var entries []FileEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parsing prompt file %s: %w", path, err)
	}

	for _, e := range entries {
		if err := l.RegisterWithVars(e.Family, e.Name, e.Template, e.Vars); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}
