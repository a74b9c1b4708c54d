// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package usermod

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Registry holds the loaded modules and fans the host callbacks out to them
// in registration order.
type Registry struct {
	logger hclog.Logger

	mu   sync.RWMutex
	mods []Usermod
	byID map[ID]Usermod
}

// NewRegistry returns an empty registry. A nil logger discards output.
func NewRegistry(logger hclog.Logger) *Registry {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Registry{
		logger: logger.Named("usermods"),
		byID:   map[ID]Usermod{},
	}
}

// Register adds m. Two modules can't share an ID.
func (r *Registry) Register(m Usermod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := m.ID()
	if _, ok := r.byID[id]; ok {
		return fmt.Errorf("usermod: %s already registered", id)
	}
	r.byID[id] = m
	r.mods = append(r.mods, m)
	r.logger.Debug("registered", "id", id)
	return nil
}

// Get returns the module with the given ID.
func (r *Registry) Get(id ID) (Usermod, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id]
	return m, ok
}

// List returns the modules in registration order.
func (r *Registry) List() []Usermod {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Usermod(nil), r.mods...)
}

// Setup calls Setup on every module.
func (r *Registry) Setup() {
	for _, m := range r.List() {
		m.Setup()
	}
}

// Loop runs one iteration of every module.
func (r *Registry) Loop(s State) {
	for _, m := range r.List() {
		m.Loop(s)
	}
}

// OnUpdateBegin notifies every module that a firmware update starts.
func (r *Registry) OnUpdateBegin(init bool) {
	for _, m := range r.List() {
		m.OnUpdateBegin(init)
	}
}

// Connected notifies every module that the network came up.
func (r *Registry) Connected() {
	for _, m := range r.List() {
		m.Connected()
	}
}

// AddToJSONInfo lets every module add its entries to the info object.
func (r *Registry) AddToJSONInfo(root Object) {
	for _, m := range r.List() {
		m.AddToJSONInfo(root)
	}
}

// AddToConfig lets every module write its configuration section.
func (r *Registry) AddToConfig(root Object) {
	for _, m := range r.List() {
		m.AddToConfig(root)
	}
}

// ReadFromConfig feeds root to every module, even after one reported an
// incomplete section. It returns true only if all of them were complete.
func (r *Registry) ReadFromConfig(root Object) bool {
	complete := true
	for _, m := range r.List() {
		if !m.ReadFromConfig(root) {
			r.logger.Info("incomplete configuration, defaults will be written back", "id", m.ID())
			complete = false
		}
	}
	return complete
}
