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

package unitx

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"dirpx.dev/unitx/apis"
	"dirpx.dev/unitx/lazy"
	"dirpx.dev/unitx/registry"
)

// InvalidTargetError is returned by Set when the candidate is not a registry
// the application handle can point at.
type InvalidTargetError struct {
	// Type is the rejected candidate's dynamic type.
	Type string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("unitx: expected a registry target, got %s", e.Type)
}

type target struct {
	reg apis.Registry
}

// ApplicationRegistry is a process-wide indirection layer over one current
// registry. Reads are a single atomic load; Set serializes writers, so the
// handle is safe for concurrent use from any goroutine.
type ApplicationRegistry struct {
	mu      sync.Mutex
	current atomic.Pointer[target]
	log     *slog.Logger
}

var _ apis.Registry = (*ApplicationRegistry)(nil)

// NewApplicationRegistry creates a handle pointing at reg. The target must be
// a valid candidate for Set; an invalid one is a programming error and
// panics.
func NewApplicationRegistry(reg any) *ApplicationRegistry {
	a := &ApplicationRegistry{log: slog.Default()}
	if err := a.Set(reg); err != nil {
		panic(err)
	}
	return a
}

// Get returns the current target registry.
func (a *ApplicationRegistry) Get() apis.Registry {
	return a.current.Load().reg
}

// Set swaps the current target. Accepted candidates: a composed
// *registry.Registry, a deferred *lazy.Registry, or another
// *ApplicationRegistry (unwrapped to its current target, so handles never
// nest). Anything else is rejected with InvalidTargetError and the current
// target is left untouched. The swap is logged without forcing a pending
// deferred handle.
func (a *ApplicationRegistry) Set(candidate any) error {
	if other, ok := candidate.(*ApplicationRegistry); ok {
		candidate = other.Get()
	}
	var reg apis.Registry
	switch c := candidate.(type) {
	case *registry.Registry:
		reg = c
	case *lazy.Registry:
		reg = c
	default:
		return &InvalidTargetError{Type: fmt.Sprintf("%T", candidate)}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	from := "none"
	if old := a.current.Load(); old != nil {
		from = old.reg.Tag()
	}
	a.current.Store(&target{reg: reg})
	a.log.Debug("application registry changed", "from", from, "to", reg.Tag())
	return nil
}

// Tag returns the current target's tag.
func (a *ApplicationRegistry) Tag() string { return a.Get().Tag() }

func (a *ApplicationRegistry) Quantity(value any, units string) (*apis.Quantity, error) {
	return a.Get().Quantity(value, units)
}

func (a *ApplicationRegistry) Unit(expr string) (*apis.Unit, error) {
	return a.Get().Unit(expr)
}

func (a *ApplicationRegistry) Define(def apis.Definition) error {
	return a.Get().Define(def)
}

func (a *ApplicationRegistry) Lookup(name string) (apis.Definition, bool) {
	return a.Get().Lookup(name)
}

func (a *ApplicationRegistry) Contains(name string) bool {
	return a.Get().Contains(name)
}

func (a *ApplicationRegistry) Names() []string {
	return a.Get().Names()
}

func (a *ApplicationRegistry) Dimensionality(e apis.Expression) (map[string]int, error) {
	return a.Get().Dimensionality(e)
}

func (a *ApplicationRegistry) Add(x, y *apis.Quantity) (*apis.Quantity, error) {
	return a.Get().Add(x, y)
}

func (a *ApplicationRegistry) Sub(x, y *apis.Quantity) (*apis.Quantity, error) {
	return a.Get().Sub(x, y)
}

func (a *ApplicationRegistry) Mul(x, y *apis.Quantity) (*apis.Quantity, error) {
	return a.Get().Mul(x, y)
}

func (a *ApplicationRegistry) Div(x, y *apis.Quantity) (*apis.Quantity, error) {
	return a.Get().Div(x, y)
}

func (a *ApplicationRegistry) Convert(q *apis.Quantity, to *apis.Unit) (*apis.Quantity, error) {
	return a.Get().Convert(q, to)
}

func (a *ApplicationRegistry) Format(q *apis.Quantity) (string, error) {
	return a.Get().Format(q)
}

func (a *ApplicationRegistry) BaseUnits(u *apis.Unit) (*apis.Unit, error) {
	return a.Get().BaseUnits(u)
}

func (a *ApplicationRegistry) PiTheorem(vars map[string]string) ([]map[string]float64, error) {
	return a.Get().PiTheorem(vars)
}

func (a *ApplicationRegistry) AddContext(name string, defs []apis.Definition) error {
	return a.Get().AddContext(name, defs)
}

func (a *ApplicationRegistry) EnableContext(names ...string) error {
	return a.Get().EnableContext(names...)
}

func (a *ApplicationRegistry) DisableContext(names ...string) {
	a.Get().DisableContext(names...)
}

func (a *ApplicationRegistry) Config() apis.Config {
	return a.Get().Config()
}

func (a *ApplicationRegistry) SetOnRedefinition(p apis.Policy) {
	a.Get().SetOnRedefinition(p)
}

var application *ApplicationRegistry

func init() {
	application = NewApplicationRegistry(lazy.New())
}

// GetApplicationRegistry returns the process-wide registry handle. Importers
// that hold the handle rather than its target observe registry swaps.
func GetApplicationRegistry() *ApplicationRegistry {
	return application
}

// SetApplicationRegistry points the process-wide handle at a new target. See
// ApplicationRegistry.Set for accepted candidates.
func SetApplicationRegistry(candidate any) error {
	return application.Set(candidate)
}

// Q builds a quantity on the process-wide registry.
func Q(value any, units string) (*apis.Quantity, error) {
	return application.Quantity(value, units)
}

// U builds a unit on the process-wide registry.
func U(expr string) (*apis.Unit, error) {
	return application.Unit(expr)
}
