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

// Package compose linearizes an ordered facet list into the dispatch chains
// behind a composed registry. Facet order is most-specific first: for every
// operation the earliest facet implementing it runs first, and either handles
// the operation fully or delegates to the rest of the chain through the next
// continuation it receives.
//
// Structural problems are detected here, at composition time, not at call
// time: duplicate facet names, delegation requirements that no later facet
// satisfies, and core operations no facet covers are all fatal. Two facets
// defining the same operation without delegation is not an error; the earlier
// one shadows the later one, and Shadowed reports such pairs for the composed
// type's documentation.
package compose

import (
	"errors"
	"fmt"

	"dirpx.dev/unitx/apis"
)

var (
	// ErrNoFacets is returned when composing an empty facet list.
	ErrNoFacets = errors.New("unitx(compose): no facets provided")
	// ErrDuplicateFacet is returned when two facets share a name.
	ErrDuplicateFacet = errors.New("unitx(compose): duplicate facet name")
	// ErrUnsatisfiedRequire is returned when a facet's delegation target is
	// missing or does not appear later in the precedence order.
	ErrUnsatisfiedRequire = errors.New("unitx(compose): delegation requirement not satisfied")
	// ErrUncoveredOperation is returned when no facet covers a core operation.
	ErrUncoveredOperation = errors.New("unitx(compose): core operation covered by no facet")
	// ErrChainExhausted is returned when every facet in a chain delegated and
	// none handled the operation.
	ErrChainExhausted = errors.New("unitx(compose): facet chain exhausted")
)

// Composition is an immutable linearization of an ordered facet list.
type Composition struct {
	facets []apis.Facet

	coercers   []apis.Coercer
	arith      []apis.Arithmetic
	converters []apis.Converter
	formatters []apis.Formatter
	reducers   []apis.Reducer
	inits      []apis.Initializer

	// capability name -> implementing facet names, precedence order.
	byOp map[string][]string
}

// New linearizes facets, most-specific first. Nil entries are ignored.
func New(facets ...apis.Facet) (*Composition, error) {
	ordered := make([]apis.Facet, 0, len(facets))
	for _, f := range facets {
		if f != nil {
			ordered = append(ordered, f)
		}
	}
	if len(ordered) == 0 {
		return nil, ErrNoFacets
	}

	pos := make(map[string]int, len(ordered))
	for i, f := range ordered {
		if _, dup := pos[f.Name()]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateFacet, f.Name())
		}
		pos[f.Name()] = i
	}
	for i, f := range ordered {
		for _, req := range f.Requires() {
			j, ok := pos[req]
			if !ok || j <= i {
				return nil, fmt.Errorf("%w: %q requires %q later in the order",
					ErrUnsatisfiedRequire, f.Name(), req)
			}
		}
	}

	c := &Composition{facets: ordered, byOp: make(map[string][]string)}
	for _, f := range ordered {
		if x, ok := f.(apis.Coercer); ok {
			c.coercers = append(c.coercers, x)
			c.byOp[apis.OpCoerce] = append(c.byOp[apis.OpCoerce], f.Name())
		}
		if x, ok := f.(apis.Arithmetic); ok {
			c.arith = append(c.arith, x)
			c.byOp[apis.OpArithmetic] = append(c.byOp[apis.OpArithmetic], f.Name())
		}
		if x, ok := f.(apis.Converter); ok {
			c.converters = append(c.converters, x)
			c.byOp[apis.OpConvert] = append(c.byOp[apis.OpConvert], f.Name())
		}
		if x, ok := f.(apis.Formatter); ok {
			c.formatters = append(c.formatters, x)
			c.byOp[apis.OpFormat] = append(c.byOp[apis.OpFormat], f.Name())
		}
		if x, ok := f.(apis.Reducer); ok {
			c.reducers = append(c.reducers, x)
			c.byOp[apis.OpReduce] = append(c.byOp[apis.OpReduce], f.Name())
		}
		if x, ok := f.(apis.Initializer); ok {
			c.inits = append(c.inits, x)
			c.byOp[apis.OpInit] = append(c.byOp[apis.OpInit], f.Name())
		}
	}

	for op, n := range map[string]int{
		apis.OpCoerce:     len(c.coercers),
		apis.OpArithmetic: len(c.arith),
		apis.OpConvert:    len(c.converters),
		apis.OpFormat:     len(c.formatters),
		apis.OpReduce:     len(c.reducers),
	} {
		if n == 0 {
			return nil, fmt.Errorf("%w: %s", ErrUncoveredOperation, op)
		}
	}
	return c, nil
}

// Facets returns the facet names in precedence order.
func (c *Composition) Facets() []string {
	out := make([]string, len(c.facets))
	for i, f := range c.facets {
		out[i] = f.Name()
	}
	return out
}

// Operations returns the capability names at least one facet implements.
func (c *Composition) Operations() []string {
	out := make([]string, 0, len(c.byOp))
	for op := range c.byOp {
		out = append(out, op)
	}
	return out
}

// Shadowed maps each operation implemented by more than one facet to the
// facets that only run if every earlier implementer delegates. This is
// documentation of intentional precedence, not an error condition.
func (c *Composition) Shadowed() map[string][]string {
	out := make(map[string][]string)
	for op, names := range c.byOp {
		if op != apis.OpInit && len(names) > 1 {
			out[op] = append([]string(nil), names[1:]...)
		}
	}
	return out
}

// Setup runs facet initializers least-specific first, so more-specific
// facets observe already-initialized less-specific state.
func (c *Composition) Setup(reg apis.RegistryState) error {
	for i := len(c.inits) - 1; i >= 0; i-- {
		if err := c.inits[i].Init(reg); err != nil {
			return err
		}
	}
	return nil
}

// Coerce dispatches magnitude coercion through the facet chain.
func (c *Composition) Coerce(reg apis.RegistryState, value any) (apis.Magnitude, error) {
	var step func(i int, v any) (apis.Magnitude, error)
	step = func(i int, v any) (apis.Magnitude, error) {
		if i >= len(c.coercers) {
			return nil, fmt.Errorf("%w: coerce %T", ErrChainExhausted, v)
		}
		next := func(v any) (apis.Magnitude, error) { return step(i+1, v) }
		return c.coercers[i].Coerce(next, reg, v)
	}
	return step(0, value)
}

// binary dispatches one of the two-operand operations.
func (c *Composition) binary(
	reg apis.RegistryState, a, b *apis.Quantity,
	call func(f apis.Arithmetic, next apis.BinaryFunc, a, b *apis.Quantity) (*apis.Quantity, error),
) (*apis.Quantity, error) {
	var step func(i int, a, b *apis.Quantity) (*apis.Quantity, error)
	step = func(i int, a, b *apis.Quantity) (*apis.Quantity, error) {
		if i >= len(c.arith) {
			return nil, fmt.Errorf("%w: arithmetic", ErrChainExhausted)
		}
		next := func(a, b *apis.Quantity) (*apis.Quantity, error) { return step(i+1, a, b) }
		return call(c.arith[i], next, a, b)
	}
	return step(0, a, b)
}

// Add dispatches addition through the facet chain.
func (c *Composition) Add(reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	return c.binary(reg, a, b,
		func(f apis.Arithmetic, next apis.BinaryFunc, a, b *apis.Quantity) (*apis.Quantity, error) {
			return f.Add(next, reg, a, b)
		})
}

// Sub dispatches subtraction through the facet chain.
func (c *Composition) Sub(reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	return c.binary(reg, a, b,
		func(f apis.Arithmetic, next apis.BinaryFunc, a, b *apis.Quantity) (*apis.Quantity, error) {
			return f.Sub(next, reg, a, b)
		})
}

// Mul dispatches multiplication through the facet chain.
func (c *Composition) Mul(reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	return c.binary(reg, a, b,
		func(f apis.Arithmetic, next apis.BinaryFunc, a, b *apis.Quantity) (*apis.Quantity, error) {
			return f.Mul(next, reg, a, b)
		})
}

// Div dispatches division through the facet chain.
func (c *Composition) Div(reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	return c.binary(reg, a, b,
		func(f apis.Arithmetic, next apis.BinaryFunc, a, b *apis.Quantity) (*apis.Quantity, error) {
			return f.Div(next, reg, a, b)
		})
}

// Convert dispatches unit conversion through the facet chain.
func (c *Composition) Convert(reg apis.RegistryState, q *apis.Quantity, to *apis.Unit) (*apis.Quantity, error) {
	var step func(i int, q *apis.Quantity, to *apis.Unit) (*apis.Quantity, error)
	step = func(i int, q *apis.Quantity, to *apis.Unit) (*apis.Quantity, error) {
		if i >= len(c.converters) {
			return nil, fmt.Errorf("%w: convert", ErrChainExhausted)
		}
		next := func(q *apis.Quantity, to *apis.Unit) (*apis.Quantity, error) { return step(i+1, q, to) }
		return c.converters[i].Convert(next, reg, q, to)
	}
	return step(0, q, to)
}

// Format dispatches rendering through the facet chain.
func (c *Composition) Format(reg apis.RegistryState, q *apis.Quantity) (string, error) {
	var step func(i int, q *apis.Quantity) (string, error)
	step = func(i int, q *apis.Quantity) (string, error) {
		if i >= len(c.formatters) {
			return "", fmt.Errorf("%w: format", ErrChainExhausted)
		}
		next := func(q *apis.Quantity) (string, error) { return step(i+1, q) }
		return c.formatters[i].Format(next, reg, q)
	}
	return step(0, q)
}

// BaseUnits dispatches base-unit reduction through the facet chain.
func (c *Composition) BaseUnits(reg apis.RegistryState, u *apis.Unit) (*apis.Unit, error) {
	var step func(i int, u *apis.Unit) (*apis.Unit, error)
	step = func(i int, u *apis.Unit) (*apis.Unit, error) {
		if i >= len(c.reducers) {
			return nil, fmt.Errorf("%w: reduce", ErrChainExhausted)
		}
		next := func(u *apis.Unit) (*apis.Unit, error) { return step(i+1, u) }
		return c.reducers[i].BaseUnits(next, reg, u)
	}
	return step(0, u)
}
