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

package apis

// Definition is a single named unit definition owned by a registry.
type Definition struct {
	// Name is the canonical unit name (e.g. "meter").
	Name string
	// Aliases are alternate lookup names (e.g. "m", "metre").
	Aliases []string
	// Dimensions maps dimension names to exponents (e.g. length: 1, time: -2).
	Dimensions map[string]int
	// Factor scales one of this unit to base units of its dimensions.
	Factor float64
	// Offset is the additive shift to base units for non-multiplicative
	// units (e.g. 273.15 for celsius). Zero for multiplicative units.
	Offset float64
	// IsBase marks the defining unit of a dimension.
	IsBase bool
	// System optionally names the unit system the definition belongs to.
	System string
}

// Registry is the finite operation surface a registry-shaped object must
// support. The composed registry implements it directly; the deferred and
// process-wide handles implement it by forwarding, so collaborator code
// written against Registry works unmodified against either.
type Registry interface {
	// Tag returns a stable identity tag for logs and cross-registry errors.
	Tag() string

	// Quantity builds a quantity bound to this registry from a raw scalar,
	// a []float64, a string expression (e.g. "10 meter"), or an existing
	// *Quantity, plus an optional unit specifier.
	Quantity(value any, units string) (*Quantity, error)
	// Unit builds a unit bound to this registry from an expression string.
	Unit(expr string) (*Unit, error)

	// Define adds or replaces a unit definition subject to the configured
	// redefinition policy.
	Define(def Definition) error
	// Lookup returns the definition for a unit name or alias.
	Lookup(name string) (Definition, bool)
	// Contains reports whether a unit name or alias is defined.
	Contains(name string) bool
	// Names returns the sorted canonical unit names.
	Names() []string
	// Dimensionality resolves a unit expression to dimension exponents.
	Dimensionality(e Expression) (map[string]int, error)

	// Add, Sub, Mul, and Div combine two quantities owned by this registry.
	Add(a, b *Quantity) (*Quantity, error)
	Sub(a, b *Quantity) (*Quantity, error)
	Mul(a, b *Quantity) (*Quantity, error)
	Div(a, b *Quantity) (*Quantity, error)
	// Convert re-expresses a quantity in the target unit.
	Convert(q *Quantity, to *Unit) (*Quantity, error)
	// Format renders a quantity for display.
	Format(q *Quantity) (string, error)
	// BaseUnits reduces a unit to the preferred units of the active system.
	BaseUnits(u *Unit) (*Unit, error)

	// PiTheorem builds dimensionless groups from named unit expressions
	// using the Buckingham pi theorem. Each result maps variable names to
	// exponents of one dimensionless product.
	PiTheorem(vars map[string]string) ([]map[string]float64, error)

	// AddContext registers a named conversion context.
	AddContext(name string, defs []Definition) error
	// EnableContext activates registered contexts for conversions.
	EnableContext(names ...string) error
	// DisableContext deactivates contexts.
	DisableContext(names ...string)

	// Config returns the active configuration.
	Config() Config
	// SetOnRedefinition changes the redefinition policy after construction.
	// The change is logged.
	SetOnRedefinition(p Policy)
}

// RegistryState extends Registry with per-facet state storage. The composed
// registry passes itself as RegistryState into facet dispatch; handles never
// need to implement it.
type RegistryState interface {
	Registry

	// Stash stores facet-private state under the facet name.
	Stash(facet string, state any)
	// Stashed returns facet-private state stored under the facet name.
	Stashed(facet string) (any, bool)
}

// Builder composes a Registry from a Config. Implementations may migrate
// definitions from a previous instance, or ignore it.
type Builder interface {
	// BuildRegistry constructs a registry for cfg. When prev is non-nil its
	// definitions are carried over, subject to cfg's redefinition policy.
	BuildRegistry(cfg Config, prev Registry) (Registry, error)
}
