// Package models provides the model plugin system.
// Models are interchangeable units that a pipeline chains over lists of inputs.
package models

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"co2js-plugin/core/types"
)

// ModelPlugin defines the lifecycle every model plugin implements
type ModelPlugin interface {
	// Configure validates and stores static parameters and returns the
	// plugin ready to execute
	Configure(ctx context.Context, staticParams types.KeyValuePair) (ModelPlugin, error)

	// Execute computes outputs for a list of inputs, one output per input
	// in the same order
	Execute(ctx context.Context, inputs []types.ModelParams) ([]types.ModelParams, error)
}

// Constructor creates a fresh, unconfigured plugin instance
type Constructor func() ModelPlugin

// Registry manages model plugin registration
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewRegistry creates a new plugin registry
func NewRegistry() *Registry {
	return &Registry{
		constructors: make(map[string]Constructor),
	}
}

// Register adds a plugin constructor under a model name
func (r *Registry) Register(name string, constructor Constructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		return fmt.Errorf("plugin name must not be empty")
	}
	if _, exists := r.constructors[name]; exists {
		return fmt.Errorf("plugin already registered: %s", name)
	}

	r.constructors[name] = constructor
	return nil
}

// New creates a fresh plugin instance by model name
func (r *Registry) New(name string) (ModelPlugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	constructor, ok := r.constructors[name]
	if !ok {
		return nil, false
	}
	return constructor(), true
}

// Names returns all registered model names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Global default registry
var defaultRegistry = NewRegistry()

// RegisterPlugin adds a plugin constructor to the default registry
func RegisterPlugin(name string, constructor Constructor) error {
	return defaultRegistry.Register(name, constructor)
}

// GetDefaultRegistry returns the default registry
func GetDefaultRegistry() *Registry {
	return defaultRegistry
}
