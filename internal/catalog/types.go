// ============================================================================
// VibeScript (vbs) - Interpreter & Playground
// ============================================================================
//
// Package:     catalog
// Description: Example program types, metadata and validation
// Author:      Mike Stoffels
// Created:     2026-09-22
// License:     MIT
// ============================================================================

package catalog

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"
)

var (
	ErrExampleNotFound = errors.New("example not found")
	ErrInvalidName     = errors.New("invalid example name")
	ErrInvalidYAML     = errors.New("invalid YAML syntax")
	ErrEmptyExample    = errors.New("example source is empty")
)

// SourceExt is the file extension of VibeScript sources
const SourceExt = ".vs"

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidName reports whether name may be used as an example name. Names map
// directly to file names, so path separators and dots are rejected.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Metadata is the optional name.yaml sidecar of an example
type Metadata struct {
	Title       string            `yaml:"title" json:"title"`
	Description string            `yaml:"description" json:"description,omitempty"`
	Tags        []string          `yaml:"tags" json:"tags,omitempty"`
	Inputs      map[string]string `yaml:"inputs" json:"inputs,omitempty"`
}

// Example is one program of the catalog
type Example struct {
	Name string `json:"name"`
	Metadata
	Code string `json:"code"`

	SourceFile string    `json:"-"`
	MetaFile   string    `json:"-"`
	LoadedAt   time.Time `json:"loaded_at"`
}

// Summary is the listing form of an example, without code
type Summary struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	HasInputs   bool     `json:"has_inputs"`
}

// Summary returns the listing form of the example
func (e *Example) Summary() Summary {
	return Summary{
		Name:        e.Name,
		Title:       e.Title,
		Description: e.Description,
		Tags:        e.Tags,
		HasInputs:   len(e.Inputs) > 0 || strings.Contains(e.Code, "vibe_check"),
	}
}

// Defaults fills metadata fields the sidecar left empty
func (e *Example) Defaults() {
	if e.Title == "" {
		e.Title = titleFromName(e.Name)
	}
	sort.Strings(e.Tags)
}

// titleFromName turns "hello_world" into "Hello World"
func titleFromName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' })
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
