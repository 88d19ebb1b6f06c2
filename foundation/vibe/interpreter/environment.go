// File: environment.go
// Title: Lexical Environments
// Description: Chained name-to-value scopes. A child is only ever created
//              from an existing parent and the link cannot be changed
//              afterwards, so the chain stays acyclic and strictly nested.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-18
// Modified: 2026-09-18
//
// Change History:
// - 2026-09-18 v0.1.0: Initial environment chain

package interpreter

import (
	"sort"
)

// Environment is one scope in the chain
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a scope enclosed by parent; nil creates a global scope
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{values: make(map[string]Value), parent: parent}
}

// Parent returns the enclosing scope, nil for the global scope
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Define binds name in this scope, shadowing any outer binding
func (e *Environment) Define(name string, v Value) {
	e.values[name] = v
}

// Get resolves name by walking outward from this scope
func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Assign rebinds name in the nearest scope that defines it. It reports false
// if no scope in the chain defines name.
func (e *Environment) Assign(name string, v Value) bool {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = v
			return true
		}
	}
	return false
}

// Depth returns the number of enclosing scopes
func (e *Environment) Depth() int {
	depth := 0
	for env := e.parent; env != nil; env = env.parent {
		depth++
	}
	return depth
}

// Names returns the names bound directly in this scope, sorted
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
