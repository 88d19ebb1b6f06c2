// ============================================================================
// VibeScript (vbs) - Interpreter & Playground
// ============================================================================
//
// Package:     cache
// Description: Parsed program cache keyed by BLAKE3 source digests
// Author:      Mike Stoffels
// Created:     2026-09-21
// License:     MIT
// ============================================================================

package cache

import (
	"encoding/hex"
	"time"

	"github.com/msto63/vibescript/foundation/vibe/ast"
	"github.com/zeebo/blake3"
)

// ProgramCache stores parse trees so repeated runs of the same source skip
// lexing and parsing. It satisfies engine.ProgramCache.
type ProgramCache struct {
	cache *Cache[*ast.Program]
}

// ProgramConfig holds configuration for the program cache
type ProgramConfig struct {
	MaxPrograms int           // default: 512
	TTL         time.Duration // default: 30m
}

// NewProgramCache creates a new program cache
func NewProgramCache(cfg ProgramConfig) *ProgramCache {
	if cfg.MaxPrograms <= 0 {
		cfg.MaxPrograms = 512
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}

	return &ProgramCache{
		cache: New[*ast.Program](Config{MaxItems: cfg.MaxPrograms, TTL: cfg.TTL}),
	}
}

// SourceHash returns the hex BLAKE3 digest of src
func SourceHash(src string) string {
	sum := blake3.Sum256([]byte(src))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached program for src
func (p *ProgramCache) Get(src string) (*ast.Program, bool) {
	return p.cache.Get(SourceHash(src))
}

// Put stores the program parsed from src
func (p *ProgramCache) Put(src string, program *ast.Program) {
	if program == nil {
		return
	}
	p.cache.Set(SourceHash(src), program)
}

// Len returns the number of cached programs
func (p *ProgramCache) Len() int {
	return p.cache.Size()
}

// Stats returns hit/miss statistics
func (p *ProgramCache) Stats() (hits, misses int64, hitRate float64) {
	return p.cache.Stats()
}

// Close releases the cleanup goroutine
func (p *ProgramCache) Close() {
	p.cache.Close()
}
