/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package builder assembles registries from facet stacks and migrates
// user-added definitions from a previous registry instance.
package builder

import (
	"dirpx.dev/unitx/apis"
	"dirpx.dev/unitx/facet"
	"dirpx.dev/unitx/registry"
)

type regBuilder struct {
	facets []apis.Facet
}

var _ apis.Builder = (*regBuilder)(nil)

// New returns a builder using the default facet stack.
func New() apis.Builder {
	return &regBuilder{facets: facet.Default()}
}

// NewWith returns a builder using a custom facet stack, most-specific first.
func NewWith(facets ...apis.Facet) apis.Builder {
	return &regBuilder{facets: facets}
}

// BuildRegistry constructs a registry for cfg. When prev is non-nil, unit
// definitions present there but missing from the fresh registry are carried
// over; carry-over conflicts follow the configured redefinition policy.
func (b *regBuilder) BuildRegistry(cfg apis.Config, prev apis.Registry) (apis.Registry, error) {
	reg, err := registry.New(cfg, b.facets)
	if err != nil {
		return nil, err
	}
	if prev != nil {
		for _, name := range prev.Names() {
			if reg.Contains(name) {
				continue
			}
			if def, ok := prev.Lookup(name); ok {
				if err := reg.Define(def); err != nil {
					return nil, err
				}
			}
		}
	}
	return reg, nil
}
