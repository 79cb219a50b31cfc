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

package facet

import (
	"errors"

	"dirpx.dev/unitx/apis"
)

// Stash keys for context state. The registry's AddContext/EnableContext/
// DisableContext operations maintain these; the context facet consumes them
// during conversion.
const (
	// StashContextDefs holds map[string][]apis.Definition: context name to
	// bridging definitions.
	StashContextDefs = "context.defs"
	// StashContextActive holds []string: enabled context names, in order.
	StashContextActive = "context.active"
)

// NewContext creates the context-scoped conversion facet. An enabled context
// contributes bridging definitions that let conversions cross dimensions
// (e.g. frequency to length through a named rate); ordinary conversions are
// delegated untouched.
func NewContext() apis.Facet {
	return contextFacet{}
}

type contextFacet struct{}

var _ apis.Facet = contextFacet{}
var _ apis.Converter = contextFacet{}
var _ apis.Initializer = contextFacet{}

func (contextFacet) Name() string       { return "context" }
func (contextFacet) Requires() []string { return []string{"plain"} }

// Init seeds empty context state so the registry's context operations work.
func (contextFacet) Init(reg apis.RegistryState) error {
	reg.Stash(StashContextDefs, map[string][]apis.Definition{})
	reg.Stash(StashContextActive, []string{})
	return nil
}

// Convert lets the rest of the chain try first and only steps in when the
// target dimensionality is unreachable; then it searches the active contexts
// for a bridging definition spanning exactly the dimensional gap.
func (contextFacet) Convert(next apis.ConvertFunc, reg apis.RegistryState, q *apis.Quantity, to *apis.Unit) (*apis.Quantity, error) {
	out, err := next(q, to)
	if err == nil || !errors.Is(err, ErrDimensionMismatch) {
		return out, err
	}

	defsAny, ok := reg.Stashed(StashContextDefs)
	if !ok {
		return nil, err
	}
	activeAny, _ := reg.Stashed(StashContextActive)
	defs, _ := defsAny.(map[string][]apis.Definition)
	active, _ := activeAny.([]string)
	if len(active) == 0 {
		return nil, err
	}

	dq, derr := reg.Dimensionality(q.Units())
	if derr != nil {
		return nil, derr
	}
	dt, derr := reg.Dimensionality(to.Units())
	if derr != nil {
		return nil, derr
	}
	diff := make(map[string]int)
	for k, v := range dq {
		diff[k] = v
	}
	for k, v := range dt {
		diff[k] -= v
		if diff[k] == 0 {
			delete(diff, k)
		}
	}

	fq, ferr := exprFactor(reg, q.Units())
	if ferr != nil {
		return nil, ferr
	}
	ft, ferr := exprFactor(reg, to.Units())
	if ferr != nil {
		return nil, ferr
	}

	for _, name := range active {
		for _, def := range defs[name] {
			var ratio float64
			switch {
			case dimsEqual(def.Dimensions, diff):
				// dividing by the bridge closes the gap
				ratio = fq / (def.Factor * ft)
			case dimsEqual(negDims(def.Dimensions), diff):
				ratio = fq * def.Factor / ft
			default:
				continue
			}
			m, merr := scaleMag(q.Magnitude(), ratio)
			if merr != nil {
				return nil, merr
			}
			return apis.NewQuantity(reg, m, to.Units()), nil
		}
	}
	return nil, err
}

func negDims(d map[string]int) map[string]int {
	out := make(map[string]int, len(d))
	for k, v := range d {
		out[k] = -v
	}
	return out
}
