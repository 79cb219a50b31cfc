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

// Package registry implements the composed unit registry: the owner of unit
// definitions and configuration, and the sole factory for quantities and
// units bound to it. Behavior is dispatched through the facet chains built by
// package compose; which capabilities exist is decided entirely by the facet
// list the registry is constructed with.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"dirpx.dev/unitx/apis"
	"dirpx.dev/unitx/compose"
	"dirpx.dev/unitx/facet"
	"dirpx.dev/unitx/utils/dim"
)

var (
	// ErrEmptyName is returned when defining a unit without a name.
	ErrEmptyName = errors.New("unitx(registry): empty unit name")
	// ErrUndefinedUnit is returned when an expression names an unknown unit.
	ErrUndefinedUnit = errors.New("unitx(registry): undefined unit")
	// ErrRedefinition is returned under the Raise policy when a unit is
	// defined twice.
	ErrRedefinition = errors.New("unitx(registry): unit already defined")
	// ErrNoContexts is returned from context operations when the context
	// facet is not composed into this registry.
	ErrNoContexts = errors.New("unitx(registry): context facet not composed")
	// ErrUnknownContext is returned when enabling an unregistered context.
	ErrUnknownContext = errors.New("unitx(registry): unknown context")
)

// Registry is the composed registry. Safe for concurrent reads; writes
// (Define, context changes, reconfiguration) are serialized internally.
type Registry struct {
	tag  string
	comp *compose.Composition
	log  *slog.Logger

	mu    sync.Mutex
	cfg   apis.Config
	defs  map[string]apis.Definition // canonical name -> definition
	index map[string]string          // lookup key (incl. aliases) -> canonical name
	stash map[string]any
	exprs *gocache.Cache // parsed expressions; nil when caching is disabled
}

var _ apis.Registry = (*Registry)(nil)
var _ apis.RegistryState = (*Registry)(nil)

// New constructs a registry for cfg composed from the given facets, runs
// facet setup, and logs a construction summary. Composition problems and
// setup failures are fatal.
func New(cfg apis.Config, facets []apis.Facet) (*Registry, error) {
	comp, err := compose.New(facets...)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		tag:   "registry-" + uuid.NewString()[:8],
		comp:  comp,
		log:   logger,
		cfg:   cfg,
		defs:  make(map[string]apis.Definition),
		index: make(map[string]string),
		stash: make(map[string]any),
	}
	if cfg.CacheTTL > 0 {
		r.exprs = gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	if err := comp.Setup(r); err != nil {
		return nil, err
	}
	r.log.Debug("registry constructed",
		"registry", r.tag,
		"facets", comp.Facets(),
		"units", len(r.defs),
		"on_redefinition", cfg.OnRedefinition.String(),
	)
	return r, nil
}

// Tag returns the identity tag used in logs and cross-registry errors.
func (r *Registry) Tag() string { return r.tag }

// Composition exposes the linearization for diagnostics (operation coverage
// and shadowing documentation).
func (r *Registry) Composition() *compose.Composition { return r.comp }

// key normalizes a lookup key according to case sensitivity.
func (r *Registry) key(name string) string {
	if r.cfg.CaseSensitive {
		return name
	}
	return strings.ToLower(name)
}

// Define adds a unit definition, honoring the redefinition policy: Warn logs
// and keeps the newer definition, Raise rejects it, Ignore keeps the older
// one silently.
func (r *Registry) Define(def apis.Definition) error {
	if def.Name == "" {
		return ErrEmptyName
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, 1+len(def.Aliases))
	keys = append(keys, r.key(def.Name))
	for _, a := range def.Aliases {
		keys = append(keys, r.key(a))
	}

	conflict := ""
	for _, k := range keys {
		if old, ok := r.index[k]; ok && old != def.Name {
			conflict = old
			break
		}
	}
	if _, ok := r.defs[def.Name]; ok {
		conflict = def.Name
	}
	if conflict != "" {
		switch r.cfg.OnRedefinition {
		case apis.Raise:
			return fmt.Errorf("%w: %q", ErrRedefinition, def.Name)
		case apis.Ignore:
			return nil
		case apis.Warn:
			r.log.Warn("redefining unit",
				"registry", r.tag, "unit", def.Name, "previous", conflict)
		}
	}

	r.defs[def.Name] = def
	for _, k := range keys {
		r.index[k] = def.Name
	}
	if r.exprs != nil {
		r.exprs.Flush()
	}
	return nil
}

// Lookup returns the definition for a canonical name or alias.
func (r *Registry) Lookup(name string) (apis.Definition, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	canonical, ok := r.index[r.key(name)]
	if !ok {
		return apis.Definition{}, false
	}
	def, ok := r.defs[canonical]
	return def, ok
}

// Contains reports whether a unit name or alias is defined.
func (r *Registry) Contains(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns the sorted canonical unit names.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.defs))
	for name := range r.defs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Dimensionality resolves an expression to dimension exponents.
func (r *Registry) Dimensionality(e apis.Expression) (map[string]int, error) {
	out := make(map[string]int)
	for name, exp := range e {
		def, ok := r.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUndefinedUnit, name)
		}
		for d, de := range def.Dimensions {
			out[d] += de * exp
			if out[d] == 0 {
				delete(out, d)
			}
		}
	}
	return out, nil
}

// Quantity normalizes the four accepted input kinds — raw scalar, slice of
// scalars, string expression, existing quantity — into a quantity bound to
// this registry.
func (r *Registry) Quantity(value any, units string) (*apis.Quantity, error) {
	switch v := value.(type) {
	case *apis.Quantity:
		if err := r.owned("rebind", v.Registry()); err != nil {
			return nil, err
		}
		if units == "" {
			return apis.NewQuantity(r, v.Magnitude(), v.Units()), nil
		}
		u, err := r.Unit(units)
		if err != nil {
			return nil, err
		}
		return r.Convert(v, u)
	case string:
		q, err := r.parseQuantity(v)
		if err != nil {
			return nil, err
		}
		if units == "" {
			return q, nil
		}
		u, err := r.Unit(units)
		if err != nil {
			return nil, err
		}
		return r.Convert(q, u)
	default:
		m, err := r.comp.Coerce(r, value)
		if err != nil {
			return nil, err
		}
		e := apis.Expression{}
		if units != "" {
			u, err := r.Unit(units)
			if err != nil {
				return nil, err
			}
			e = u.Units()
		}
		return apis.NewQuantity(r, m, e), nil
	}
}

// Unit builds a unit bound to this registry from an expression string.
func (r *Registry) Unit(expr string) (*apis.Unit, error) {
	e, err := r.parseExpression(expr)
	if err != nil {
		return nil, err
	}
	return apis.NewUnit(r, e), nil
}

// owned rejects values bound to a different registry, naming both sides.
func (r *Registry) owned(op string, owner apis.Registry) error {
	if owner == apis.Registry(r) {
		return nil
	}
	return &apis.CrossRegistryError{Op: op, Left: r.tag, Right: owner.Tag()}
}

func (r *Registry) binary(op string, a, b *apis.Quantity,
	dispatch func(a, b *apis.Quantity) (*apis.Quantity, error),
) (*apis.Quantity, error) {
	if err := r.owned(op, a.Registry()); err != nil {
		return nil, err
	}
	if err := r.owned(op, b.Registry()); err != nil {
		return nil, err
	}
	return dispatch(a, b)
}

// Add returns a + b through the facet chain.
func (r *Registry) Add(a, b *apis.Quantity) (*apis.Quantity, error) {
	return r.binary("add", a, b, func(a, b *apis.Quantity) (*apis.Quantity, error) {
		return r.comp.Add(r, a, b)
	})
}

// Sub returns a - b through the facet chain.
func (r *Registry) Sub(a, b *apis.Quantity) (*apis.Quantity, error) {
	return r.binary("subtract", a, b, func(a, b *apis.Quantity) (*apis.Quantity, error) {
		return r.comp.Sub(r, a, b)
	})
}

// Mul returns a * b through the facet chain.
func (r *Registry) Mul(a, b *apis.Quantity) (*apis.Quantity, error) {
	return r.binary("multiply", a, b, func(a, b *apis.Quantity) (*apis.Quantity, error) {
		return r.comp.Mul(r, a, b)
	})
}

// Div returns a / b through the facet chain.
func (r *Registry) Div(a, b *apis.Quantity) (*apis.Quantity, error) {
	return r.binary("divide", a, b, func(a, b *apis.Quantity) (*apis.Quantity, error) {
		return r.comp.Div(r, a, b)
	})
}

// Convert re-expresses q in the target unit through the facet chain.
func (r *Registry) Convert(q *apis.Quantity, to *apis.Unit) (*apis.Quantity, error) {
	if err := r.owned("convert", q.Registry()); err != nil {
		return nil, err
	}
	if err := r.owned("convert", to.Registry()); err != nil {
		return nil, err
	}
	return r.comp.Convert(r, q, to)
}

// Format renders q through the facet chain.
func (r *Registry) Format(q *apis.Quantity) (string, error) {
	if err := r.owned("format", q.Registry()); err != nil {
		return "", err
	}
	return r.comp.Format(r, q)
}

// BaseUnits reduces u through the facet chain.
func (r *Registry) BaseUnits(u *apis.Unit) (*apis.Unit, error) {
	if err := r.owned("reduce", u.Registry()); err != nil {
		return nil, err
	}
	return r.comp.BaseUnits(r, u)
}

// PiTheorem builds dimensionless groups from the given variable -> unit
// expression mapping using the Buckingham pi theorem. Results are
// deterministic: variables are processed in sorted order and exponents are
// normalized to the smallest integer form.
func (r *Registry) PiTheorem(vars map[string]string) ([]map[string]float64, error) {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	dimSet := make(map[string]struct{})
	byVar := make([]map[string]int, len(names))
	for i, name := range names {
		u, err := r.Unit(vars[name])
		if err != nil {
			return nil, err
		}
		d, err := r.Dimensionality(u.Units())
		if err != nil {
			return nil, err
		}
		byVar[i] = d
		for dn := range d {
			dimSet[dn] = struct{}{}
		}
	}
	dimNames := make([]string, 0, len(dimSet))
	for dn := range dimSet {
		dimNames = append(dimNames, dn)
	}
	sort.Strings(dimNames)

	matrix := make([][]int, len(dimNames))
	for i, dn := range dimNames {
		row := make([]int, len(names))
		for j := range names {
			row[j] = byVar[j][dn]
		}
		matrix[i] = row
	}

	basis := dim.Nullspace(matrix, len(names))
	out := make([]map[string]float64, 0, len(basis))
	for _, vec := range basis {
		group := make(map[string]float64, len(names))
		for j, name := range names {
			if vec[j] != 0 {
				group[name] = vec[j]
			}
		}
		out = append(out, group)
	}
	return out, nil
}

// AddContext registers a named conversion context. Requires the context
// facet.
func (r *Registry) AddContext(name string, defs []apis.Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctxAny, ok := r.stash[facet.StashContextDefs]
	if !ok {
		return ErrNoContexts
	}
	contexts := ctxAny.(map[string][]apis.Definition)
	contexts[name] = append([]apis.Definition(nil), defs...)
	r.log.Debug("context registered", "registry", r.tag, "context", name, "definitions", len(defs))
	return nil
}

// EnableContext activates registered contexts for conversions.
func (r *Registry) EnableContext(names ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctxAny, ok := r.stash[facet.StashContextDefs]
	if !ok {
		return ErrNoContexts
	}
	contexts := ctxAny.(map[string][]apis.Definition)
	active, _ := r.stash[facet.StashContextActive].([]string)
	for _, name := range names {
		if _, ok := contexts[name]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownContext, name)
		}
		already := false
		for _, a := range active {
			if a == name {
				already = true
				break
			}
		}
		if !already {
			active = append(active, name)
		}
	}
	r.stash[facet.StashContextActive] = active
	r.log.Info("contexts enabled", "registry", r.tag, "active", active)
	return nil
}

// DisableContext deactivates contexts. Unknown names are ignored.
func (r *Registry) DisableContext(names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	active, _ := r.stash[facet.StashContextActive].([]string)
	out := active[:0]
	for _, a := range active {
		drop := false
		for _, name := range names {
			if a == name {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, a)
		}
	}
	r.stash[facet.StashContextActive] = append([]string(nil), out...)
}

// Config returns the active configuration.
func (r *Registry) Config() apis.Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg
}

// SetOnRedefinition changes the redefinition policy after construction and
// logs the change.
func (r *Registry) SetOnRedefinition(p apis.Policy) {
	r.mu.Lock()
	old := r.cfg.OnRedefinition
	r.cfg.OnRedefinition = p
	r.mu.Unlock()
	r.log.Info("redefinition policy changed",
		"registry", r.tag, "from", old.String(), "to", p.String())
}

// Stash stores facet-private state under the facet name.
func (r *Registry) Stash(facetName string, state any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stash[facetName] = state
}

// Stashed returns facet-private state stored under the facet name.
func (r *Registry) Stashed(facetName string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.stash[facetName]
	return v, ok
}
