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
	"fmt"

	"dirpx.dev/unitx/apis"
)

// StashSystems holds map[string]map[string]string: system name to
// (dimension -> preferred unit name).
const StashSystems = "system.table"

// knownSystems lists the built-in unit systems by preferred unit per
// dimension. Entries referring to undefined units are dropped at setup.
var knownSystems = map[string]map[string]string{
	"mks": {
		DimLength: "meter", DimMass: "kilogram", DimTime: "second",
		DimCurrent: "ampere", DimTemperature: "kelvin",
	},
	"cgs": {
		DimLength: "centimeter", DimMass: "gram", DimTime: "second",
		DimCurrent: "ampere", DimTemperature: "kelvin",
	},
	"imperial": {
		DimLength: "foot", DimMass: "pound", DimTime: "second",
		DimCurrent: "ampere", DimTemperature: "fahrenheit",
	},
}

// NewSystem creates the unit-system facet: base-unit reduction targets the
// preferred units of the configured system instead of the defining bases.
func NewSystem() apis.Facet {
	return systemFacet{}
}

type systemFacet struct{}

var _ apis.Facet = systemFacet{}
var _ apis.Reducer = systemFacet{}
var _ apis.Initializer = systemFacet{}

func (systemFacet) Name() string       { return "system" }
func (systemFacet) Requires() []string { return []string{"plain"} }

// Init builds the system table from the units actually defined and validates
// the configured default system. Runs after the plain setup, so the
// dimension index it falls back on already exists.
func (systemFacet) Init(reg apis.RegistryState) error {
	table := make(map[string]map[string]string, len(knownSystems))
	for sys, prefs := range knownSystems {
		entry := make(map[string]string, len(prefs))
		for dim, unit := range prefs {
			if reg.Contains(unit) {
				entry[dim] = unit
			}
		}
		table[sys] = entry
	}
	reg.Stash(StashSystems, table)

	if sys := reg.Config().DefaultSystem; sys != "" {
		if _, ok := table[sys]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownSystem, sys)
		}
	}
	return nil
}

// BaseUnits reduces to the preferred units of the configured system,
// delegating to the defining-base reduction when no system is configured or
// a dimension has no preference.
func (systemFacet) BaseUnits(next apis.ReduceFunc, reg apis.RegistryState, u *apis.Unit) (*apis.Unit, error) {
	sys := reg.Config().DefaultSystem
	if sys == "" {
		return next(u)
	}
	tableAny, ok := reg.Stashed(StashSystems)
	if !ok {
		return next(u)
	}
	prefs := tableAny.(map[string]map[string]string)[sys]

	dims, err := reg.Dimensionality(u.Units())
	if err != nil {
		return nil, err
	}
	baseAny, _ := reg.Stashed(stashPlainBase)
	fallback, _ := baseAny.(map[string]string)

	out := make(apis.Expression, len(dims))
	for dim, exp := range dims {
		name, ok := prefs[dim]
		if !ok {
			name, ok = fallback[dim]
			if !ok {
				return nil, fmt.Errorf("unitx(facet): no base unit for dimension %q in system %q", dim, sys)
			}
		}
		out[name] = exp
	}
	return apis.NewUnit(reg, out), nil
}
