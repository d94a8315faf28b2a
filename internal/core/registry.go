package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	sources   = make(map[string]SourceDefinition)
	sourcesMu sync.RWMutex
)

// RegisterSource adds a source definition to the registry.
// Panics if a source with the same key is already registered.
func RegisterSource(def SourceDefinition) {
	sourcesMu.Lock()
	defer sourcesMu.Unlock()

	if _, exists := sources[def.Info.Key]; exists {
		panic(fmt.Sprintf("source already registered: %s", def.Info.Key))
	}
	if def.BuildRecord == nil {
		panic(fmt.Sprintf("source %s has no record builder", def.Info.Key))
	}

	sources[def.Info.Key] = def
}

// Source returns a source definition by key.
// Returns false if not found.
func Source(key string) (SourceDefinition, bool) {
	sourcesMu.RLock()
	defer sourcesMu.RUnlock()

	def, ok := sources[key]
	return def, ok
}

// Sources returns all registered source definitions sorted by key.
func Sources() []SourceDefinition {
	sourcesMu.RLock()
	defer sourcesMu.RUnlock()

	result := make([]SourceDefinition, 0, len(sources))
	for _, def := range sources {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}
