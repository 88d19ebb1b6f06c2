// ============================================================================
// VibeScript (vbs) - Interpreter & Playground
// ============================================================================
//
// Package:     catalog
// Description: Example catalog loader with hot-reload support
// Author:      Mike Stoffels
// Created:     2026-09-22
// License:     MIT
// ============================================================================

package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tevino/abool/v2"
	"gopkg.in/yaml.v3"

	"github.com/msto63/vibescript/pkg/core/logging"
)

// Catalog manages the example programs of a directory
type Catalog struct {
	mu       sync.RWMutex
	examples map[string]*Example
	dir      string
	watcher  *fsnotify.Watcher
	logger   *logging.Logger
	onChange func(name string, example *Example)
	onDelete func(name string)
	stopCh   chan struct{}
	stopOnce sync.Once
	running  *abool.AtomicBool
}

// New creates a catalog for dir
func New(dir string, logger *logging.Logger) *Catalog {
	if logger == nil {
		logger = logging.New("catalog")
	}
	return &Catalog{
		examples: make(map[string]*Example),
		dir:      dir,
		logger:   logger,
		stopCh:   make(chan struct{}),
		running:  abool.NewBool(false),
	}
}

// Dir returns the catalog directory
func (c *Catalog) Dir() string {
	return c.dir
}

// SetOnChange sets the callback for when an example is loaded or updated
func (c *Catalog) SetOnChange(fn func(name string, example *Example)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// SetOnDelete sets the callback for when an example is removed
func (c *Catalog) SetOnDelete(fn func(name string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDelete = fn
}

// LoadAll replaces the catalog contents with the examples found in the directory
func (c *Catalog) LoadAll() error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(c.dir, "*"+SourceExt))
	if err != nil {
		return fmt.Errorf("failed to list example files: %w", err)
	}

	examples := make(map[string]*Example, len(files))
	for _, file := range files {
		example, err := c.loadExample(nameOf(file))
		if err != nil {
			c.logger.Warn("Failed to load example", "file", filepath.Base(file), "error", err.Error())
			continue
		}
		examples[example.Name] = example
	}

	c.mu.Lock()
	c.examples = examples
	c.mu.Unlock()

	c.logger.Info("Examples loaded", "count", len(examples), "dir", c.dir)
	return nil
}

// loadExample reads name.vs and its optional name.yaml / name.yml sidecar
func (c *Catalog) loadExample(name string) (*Example, error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	sourceFile := filepath.Join(c.dir, name+SourceExt)
	code, err := os.ReadFile(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	if strings.TrimSpace(string(code)) == "" {
		return nil, ErrEmptyExample
	}

	example := &Example{
		Name:       name,
		Code:       string(code),
		SourceFile: sourceFile,
		LoadedAt:   time.Now(),
	}

	for _, ext := range []string{".yaml", ".yml"} {
		metaFile := filepath.Join(c.dir, name+ext)
		data, err := os.ReadFile(metaFile)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read metadata: %w", err)
		}
		if err := yaml.Unmarshal(data, &example.Metadata); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
		}
		example.MetaFile = metaFile
		break
	}

	example.Defaults()
	return example, nil
}

// Get returns an example by name
func (c *Catalog) Get(name string) (*Example, error) {
	if !ValidName(name) {
		return nil, ErrInvalidName
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	example, ok := c.examples[name]
	if !ok {
		return nil, ErrExampleNotFound
	}
	return example, nil
}

// List returns summaries of all examples sorted by name
func (c *Catalog) List() []Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	summaries := make([]Summary, 0, len(c.examples))
	for _, example := range c.examples {
		summaries = append(summaries, example.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries
}

// Names returns all example names sorted
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.examples))
	for name := range c.examples {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of loaded examples
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.examples)
}

// Save writes an example source (and metadata when a title is set) to disk
func (c *Catalog) Save(example *Example) error {
	if !ValidName(example.Name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, example.Name)
	}
	if strings.TrimSpace(example.Code) == "" {
		return ErrEmptyExample
	}
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	sourceFile := filepath.Join(c.dir, example.Name+SourceExt)
	if err := os.WriteFile(sourceFile, []byte(example.Code), 0644); err != nil {
		return fmt.Errorf("failed to write example: %w", err)
	}

	if example.Title != "" || example.Description != "" || len(example.Inputs) > 0 {
		data, err := yaml.Marshal(&example.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metaFile := filepath.Join(c.dir, example.Name+".yaml")
		if err := os.WriteFile(metaFile, data, 0644); err != nil {
			return fmt.Errorf("failed to write metadata: %w", err)
		}
		example.MetaFile = metaFile
	}

	example.SourceFile = sourceFile
	example.LoadedAt = time.Now()
	example.Defaults()

	c.mu.Lock()
	c.examples[example.Name] = example
	c.mu.Unlock()

	c.logger.Info("Example saved", "name", example.Name)
	return nil
}

// StartWatching starts the file watcher for hot-reload
func (c *Catalog) StartWatching(ctx context.Context) error {
	if c.running.IsSet() {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(c.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	c.watcher = watcher
	c.running.Set()
	c.logger.Info("Started watching for example changes", "dir", c.dir)

	go c.watchLoop(ctx)
	return nil
}

// IsWatching reports whether the watcher is active
func (c *Catalog) IsWatching() bool {
	return c.running.IsSet()
}

// watchLoop handles file system events
func (c *Catalog) watchLoop(ctx context.Context) {
	defer func() {
		c.running.UnSet()
		c.watcher.Close()
	}()

	// Editors emit bursts of events per save; each file settles before reload.
	pending := make(map[string]*time.Timer)
	debounceDelay := 150 * time.Millisecond
	defer func() {
		for _, timer := range pending {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Stopping example watcher (context cancelled)")
			return

		case <-c.stopCh:
			c.logger.Info("Stopping example watcher (stop signal)")
			return

		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if !isCatalogFile(event.Name) {
				continue
			}

			if timer, seen := pending[event.Name]; seen {
				timer.Reset(debounceDelay)
				continue
			}
			ev := event
			pending[event.Name] = time.AfterFunc(debounceDelay, func() {
				c.handleFileEvent(ev)
			})

		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			c.logger.Error("Watcher error", "error", err.Error())
		}
	}
}

// handleFileEvent reloads or removes the example a file belongs to
func (c *Catalog) handleFileEvent(event fsnotify.Event) {
	name := nameOf(event.Name)
	if !ValidName(name) {
		return
	}

	// A removed sidecar reloads the example; a removed source deletes it.
	sourceGone := false
	if _, err := os.Stat(filepath.Join(c.dir, name+SourceExt)); os.IsNotExist(err) {
		sourceGone = true
	}

	if sourceGone {
		c.mu.Lock()
		_, existed := c.examples[name]
		delete(c.examples, name)
		onDelete := c.onDelete
		c.mu.Unlock()

		if existed {
			c.logger.Info("Example removed", "name", name)
			if onDelete != nil {
				onDelete(name)
			}
		}
		return
	}

	example, err := c.loadExample(name)
	if err != nil {
		c.logger.Warn("Failed to reload example", "name", name, "error", err.Error())
		return
	}

	c.mu.Lock()
	c.examples[name] = example
	onChange := c.onChange
	c.mu.Unlock()

	c.logger.Info("Example reloaded", "name", name, "op", event.Op.String())
	if onChange != nil {
		onChange(name, example)
	}
}

// Stop stops the file watcher
func (c *Catalog) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}

func nameOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isCatalogFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case SourceExt, ".yaml", ".yml":
		return true
	default:
		return false
	}
}
