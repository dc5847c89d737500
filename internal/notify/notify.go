// Package notify dispatches trait change notifications to observers.
//
// Observers run synchronously on the caller's goroutine in registration
// order. Dispatch iterates over a snapshot of the observer list taken when it
// starts, so observers may subscribe or unsubscribe while being notified.
package notify

import (
	"fmt"
	"slices"
)

// Change describes a trait value transition.
type Change struct {
	// Component is the owning component name.
	Component string
	// Trait is the trait name.
	Trait string
	// OldValue is the value before the change.
	OldValue any
	// NewValue is the value after the change.
	NewValue any
	// Source identifies what triggered the change (empty for direct sets).
	Source string
}

// Callback is invoked for each change. A returned error stops delivery to the
// remaining observers and is reported to whoever triggered the change.
type Callback func(change Change) error

// Subscription is a handle to a registered observer.
type Subscription struct {
	id         uint64
	dispatcher *Dispatcher
}

// Unsubscribe removes the observer. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.dispatcher == nil {
		return
	}
	s.dispatcher.remove(s.id)
	s.dispatcher = nil
}

type observer struct {
	id       uint64
	trait    string
	all      bool
	callback Callback
}

// Dispatcher keeps an ordered list of observers. It is not safe for
// concurrent use.
type Dispatcher struct {
	observers []observer
	nextID    uint64
}

// New creates an empty Dispatcher.
func New() *Dispatcher {
	return &Dispatcher{}
}

// Observe registers cb for changes of a single trait.
func (d *Dispatcher) Observe(trait string, cb Callback) *Subscription {
	return d.add(observer{trait: trait, callback: cb})
}

// ObserveAll registers cb for changes of every trait.
func (d *Dispatcher) ObserveAll(cb Callback) *Subscription {
	return d.add(observer{all: true, callback: cb})
}

// Len returns the number of registered observers.
func (d *Dispatcher) Len() int {
	return len(d.observers)
}

// Dispatch delivers change to every matching observer.
func (d *Dispatcher) Dispatch(change Change) error {
	snapshot := slices.Clone(d.observers)
	for _, obs := range snapshot {
		if !obs.all && obs.trait != change.Trait {
			continue
		}
		if err := obs.callback(change); err != nil {
			return fmt.Errorf("observer of %s.%s: %w", change.Component, change.Trait, err)
		}
	}
	return nil
}

func (d *Dispatcher) add(obs observer) *Subscription {
	d.nextID++
	obs.id = d.nextID
	d.observers = append(d.observers, obs)
	return &Subscription{id: obs.id, dispatcher: d}
}

func (d *Dispatcher) remove(id uint64) {
	d.observers = slices.DeleteFunc(d.observers, func(obs observer) bool {
		return obs.id == id
	})
}
