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

// Package unitx provides a process-wide handle over a unit registry: a
// system for defining physical units, building quantities against them, and
// combining, converting, and formatting those quantities with their units
// carried through every operation.
//
// # Design
//
// The core object is the composed registry (package registry). A registry
// owns three things:
//
//   - Definitions: named units with dimensions, conversion factors, and
//     optional additive offsets ("celsius is kelvin shifted by 273.15").
//     Definitions can be added at runtime (Define), subject to a
//     configurable redefinition policy (warn, raise, ignore).
//
//   - Configuration: an immutable-by-convention apis.Config assembled from
//     functional options (package config) covering numerics, parsing,
//     offset-unit strictness, locale, and logging.
//
//   - A facet composition (package compose): an ordered stack of behavior
//     units (package facet), each owning one concern. The plain facet does
//     multiplicative unit algebra; the nonmultiplicative facet layers
//     offset-unit rules on top; measurement propagates uncertainties; array
//     handles elementwise numerics; lazyarray defers materializing array
//     data; context allows cross-dimension conversion through enabled
//     bridging definitions; system redirects base-unit reduction toward a
//     preferred unit system.
//
// Every registry operation (coerce, add, subtract, multiply, divide,
// convert, format, reduce) is dispatched through a per-operation chain built
// at composition time. The first facet in precedence order that implements
// the operation runs first; it may handle the operand shapes it owns or
// cooperatively delegate to the rest of the chain. Which behaviors a
// registry has is therefore decided entirely by its facet list, validated
// once at construction: declared facet requirements must be satisfied
// further down the stack, and the core operations must be covered by at
// least one facet.
//
// Quantities and units are bound to the registry that created them. Mixing
// values from two registries is rejected with an error naming both
// registries rather than producing silently wrong arithmetic.
//
// # Handles
//
// Two registry-shaped handles implement the same apis.Registry surface by
// forwarding, so collaborator code written against apis.Registry works
// unmodified against either:
//
//   - lazy.Registry defers the (comparatively expensive) registry build
//     until the first operation that needs it. Construction happens exactly
//     once, even under racing first touches, and runs under the Raise
//     redefinition policy so queued definitions surface conflicts loudly.
//
//   - ApplicationRegistry (this package) is the process-wide indirection
//     layer. Reads are a single atomic pointer load; Set validates the
//     candidate, serializes writers, unwraps nested handles, and logs the
//     swap without forcing a pending lazy target.
//
// The package initializes the application handle to a pending lazy registry,
// so importing unitx costs nothing until the first quantity is built.
//
// # Usage pattern in a binary
//
// A typical component does:
//
//  1. Let the default application registry materialize on first use:
//
//     q, err := unitx.Q(10, "meter")
//     v, err := unitx.Q("3.5 newton*meter", "")
//
//  2. Or build a custom registry up front and install it:
//
//     cfg := config.New(config.WithDefaultSystem("cgs"))
//     reg, err := builder.New().BuildRegistry(cfg, nil)
//     err = unitx.SetApplicationRegistry(reg)
//
//  3. Hold the handle, not its target, wherever swaps should be observed:
//
//     app := unitx.GetApplicationRegistry()
//
// # Scope
//
// unitx is intentionally small. It solves one job: unit-aware quantities
// with composable behavior and safe process-wide access. Everything else
// (persistence, serialization formats, plotting) belongs to higher layers.
package unitx
