/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed profiles/*.yaml
var builtinProfiles embed.FS

// ErrUnknownProfile is returned when a profile name is not registered.
var ErrUnknownProfile = errors.New("unknown profile")

// Skill is one entry of a subject's skill table.
type Skill struct {
	Code        string `yaml:"code" json:"code"`
	Skill       string `yaml:"skill" json:"skill"`
	Description string `yaml:"description" json:"description"`
}

// Profile carries the subject-specific reference material of a rubric battery.
type Profile struct {
	Name  string `yaml:"name" json:"name"`
	Title string `yaml:"title" json:"title"`

	// ExamplesFromRequest takes the worked examples from each question
	// (goodqs and badqs) instead of the profile's own banks.
	ExamplesFromRequest bool `yaml:"examples_from_request" json:"examples_from_request"`

	Skills       []Skill `yaml:"skills" json:"skills"`
	GoodExamples string  `yaml:"good_examples" json:"-"`
	BadExamples  string  `yaml:"bad_examples" json:"-"`
}

func (p *Profile) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("profile name is required")
	}
	if len(p.Skills) == 0 {
		return fmt.Errorf("profile %s: at least one skill is required", p.Name)
	}
	for i, s := range p.Skills {
		if s.Code == "" || s.Skill == "" {
			return fmt.Errorf("profile %s: skill %d needs a code and a name", p.Name, i)
		}
	}
	return nil
}

// examples returns the worked good and bad examples for q.
func (p *Profile) examples(q *Question) (good, bad string) {
	if p.ExamplesFromRequest {
		return q.GoodQs, q.BadQs
	}
	return p.GoodExamples, p.BadExamples
}

// Registry holds the profiles loaded at startup. It is read-only afterwards.
type Registry struct {
	profiles map[string]*Profile
}

// LoadRegistry loads the built-in profiles plus every *.yaml file in dir.
// An empty dir loads only the built-ins.
func LoadRegistry(dir string) (*Registry, error) {
	r := &Registry{profiles: make(map[string]*Profile)}

	sub, err := fs.Sub(builtinProfiles, "profiles")
	if err != nil {
		return nil, err
	}
	if err := r.load(sub); err != nil {
		return nil, fmt.Errorf("loading built-in profiles: %w", err)
	}

	if dir != "" {
		if err := r.load(os.DirFS(dir)); err != nil {
			return nil, fmt.Errorf("loading profiles from %s: %w", dir, err)
		}
	}
	return r, nil
}

func (r *Registry) load(fsys fs.FS) error {
	files, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return err
	}
	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		if err := r.Add(name, data); err != nil {
			return err
		}
	}
	return nil
}

// Add decodes one YAML profile and registers it. source names the profile
// in errors. It must not be called once the registry is serving requests.
func (r *Registry) Add(source string, data []byte) error {
	p, err := decodeProfile(data)
	if err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}
	if _, dup := r.profiles[p.Name]; dup {
		return fmt.Errorf("%s: duplicate profile %q", source, p.Name)
	}
	r.profiles[p.Name] = p
	return nil
}

func decodeProfile(data []byte) (*Profile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Profile
	if err := dec.Decode(&p); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Get returns the named profile.
func (r *Registry) Get(name string) (*Profile, error) {
	p, ok := r.profiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// Profiles returns every profile sorted by name.
func (r *Registry) Profiles() []*Profile {
	out := make([]*Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b *Profile) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
