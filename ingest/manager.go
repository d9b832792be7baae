package ingest

import (
	"fmt"
	"io"
	"sync"
)

// SourceManager routes uploads to the registered source for their
// format
type SourceManager struct {
	sources map[string]Source
	mu      sync.RWMutex
}

// NewSourceManager creates an empty source registry
func NewSourceManager() *SourceManager {
	return &SourceManager{
		sources: make(map[string]Source),
	}
}

// RegisterSource registers a source under a name
func (sm *SourceManager) RegisterSource(name string, source Source) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.sources[name] = source
	fmt.Printf("📦 Registered ingest source: %s (format: %s)\n", name, source.Format())
}

// UnregisterSource removes a source
func (sm *SourceManager) UnregisterSource(name string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.sources, name)
}

// GetSource looks up a source by name
func (sm *SourceManager) GetSource(name string) (Source, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	source, exists := sm.sources[name]
	return source, exists
}

// Parse parses input with the named source
func (sm *SourceManager) Parse(name string, r io.Reader) ([]Record, []string, error) {
	source, exists := sm.GetSource(name)
	if !exists {
		return nil, nil, fmt.Errorf("source '%s' not found", name)
	}
	return source.Parse(r)
}

// ListSources returns the registered source names
func (sm *SourceManager) ListSources() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	names := make([]string, 0, len(sm.sources))
	for name := range sm.sources {
		names = append(names, name)
	}
	return names
}
