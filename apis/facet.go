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

// Facet is a self-contained capability contributed to the composed Quantity,
// Unit, and Registry types. Facets are stateless at the type level; per-
// registry state lives in the registry's facet stash.
//
// A facet declares behavior by additionally implementing one or more of the
// capability interfaces below (Coercer, Arithmetic, Converter, Formatter,
// Reducer, Initializer). For any operation, the composed dispatch chain
// invokes the earliest facet in precedence order that implements it; that
// facet either handles the operation fully (shadowing later facets) or
// cooperatively delegates by calling next.
type Facet interface {
	// Name identifies the facet (e.g. "plain", "array").
	Name() string
	// Requires names facets this facet delegates to. Composition fails
	// unless each appears later in the precedence order.
	Requires() []string
}

// CoerceFunc continues a coercion chain.
type CoerceFunc func(value any) (Magnitude, error)

// BinaryFunc continues a two-operand arithmetic chain.
type BinaryFunc func(a, b *Quantity) (*Quantity, error)

// ConvertFunc continues a conversion chain.
type ConvertFunc func(q *Quantity, to *Unit) (*Quantity, error)

// FormatFunc continues a formatting chain.
type FormatFunc func(q *Quantity) (string, error)

// ReduceFunc continues a base-unit reduction chain.
type ReduceFunc func(u *Unit) (*Unit, error)

// Coercer normalizes a raw construction input into a Magnitude.
// Implementations decline unfamiliar inputs by calling next.
type Coercer interface {
	Coerce(next CoerceFunc, reg RegistryState, value any) (Magnitude, error)
}

// Arithmetic contributes the two-operand operations. Operands are guaranteed
// to belong to the dispatching registry before any facet runs.
type Arithmetic interface {
	Add(next BinaryFunc, reg RegistryState, a, b *Quantity) (*Quantity, error)
	Sub(next BinaryFunc, reg RegistryState, a, b *Quantity) (*Quantity, error)
	Mul(next BinaryFunc, reg RegistryState, a, b *Quantity) (*Quantity, error)
	Div(next BinaryFunc, reg RegistryState, a, b *Quantity) (*Quantity, error)
}

// Converter contributes unit conversion.
type Converter interface {
	Convert(next ConvertFunc, reg RegistryState, q *Quantity, to *Unit) (*Quantity, error)
}

// Formatter contributes display rendering.
type Formatter interface {
	Format(next FormatFunc, reg RegistryState, q *Quantity) (string, error)
}

// Reducer contributes base-unit reduction.
type Reducer interface {
	BaseUnits(next ReduceFunc, reg RegistryState, u *Unit) (*Unit, error)
}

// Initializer contributes registry-side setup. Setups run least-specific
// first, so a more-specific facet observes what less-specific facets already
// initialized.
type Initializer interface {
	Init(reg RegistryState) error
}

// Operation names used in composition diagnostics.
const (
	OpCoerce     = "coerce"
	OpArithmetic = "arithmetic"
	OpConvert    = "convert"
	OpFormat     = "format"
	OpReduce     = "reduce"
	OpInit       = "init"
)
