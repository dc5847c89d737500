// Package storage serializes access to the trait values of a running
// application so that concurrent readers and writers observe consistent state.
package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/eugenenazirov/traitconf/internal/application"
	"github.com/eugenenazirov/traitconf/internal/component"
	"github.com/eugenenazirov/traitconf/internal/trait"
)

// SourceAPI labels values written through the store.
const SourceAPI = "api"

// ErrNotConfigurable indicates an attempt to write a trait that is not
// externally configurable.
var ErrNotConfigurable = errors.New("trait is not configurable")

// Storage provides access to trait values.
type Storage interface {
	Describe() []application.HelpEntry
	Values() map[string]map[string]any
	Get(path component.Path) (any, error)
	Set(path component.Path, raw any) (any, error)
}

// MemoryStorage guards an application with a RWMutex. Observers run while
// the write lock is held and must not call back into the store.
type MemoryStorage struct {
	mu  sync.RWMutex
	app *application.Application
}

// NewMemoryStorage wraps app. The application must not be mutated elsewhere
// once wrapped.
func NewMemoryStorage(app *application.Application) *MemoryStorage {
	return &MemoryStorage{app: app}
}

// Describe returns the application's help entries.
func (s *MemoryStorage) Describe() []application.HelpEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.app.Describe()
}

// Values returns a copy of every component's current values.
func (s *MemoryStorage) Values() map[string]map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]map[string]any)
	for _, c := range s.app.Components() {
		out[c.Name()] = c.Values()
	}
	return out
}

// Get returns the current value of a trait.
func (s *MemoryStorage) Get(path component.Path) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.app.Get(path.Component, path.Trait)
}

// Set validates and stores raw for a configurable trait and returns the
// canonical stored value. A rejected value returns a nil value and the
// *trait.ValidationError. An observer failure is returned together with the
// value, which has been stored regardless.
func (s *MemoryStorage) Set(path component.Path, raw any) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.app.Component(path.Component)
	if err != nil {
		return nil, err
	}
	d, ok := c.Class().Trait(path.Trait)
	if !ok {
		return nil, fmt.Errorf("%w: %s", component.ErrUnknownTrait, path)
	}
	if !d.Configurable() {
		return nil, fmt.Errorf("%w: %s", ErrNotConfigurable, path)
	}

	setErr := c.SetFrom(path.Trait, raw, SourceAPI)
	var verr *trait.ValidationError
	if errors.As(setErr, &verr) {
		return nil, setErr
	}
	value, err := c.Get(path.Trait)
	if err != nil {
		return nil, err
	}
	return value, setErr
}
