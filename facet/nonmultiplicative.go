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

// NewNonMultiplicative creates the offset-unit facet. It owns conversions
// involving offset units (celsius, fahrenheit), guards multiplicative use of
// them, and defines linear delta_* counterparts during setup.
func NewNonMultiplicative() apis.Facet {
	return nonMultFacet{}
}

type nonMultFacet struct{}

var _ apis.Facet = nonMultFacet{}
var _ apis.Arithmetic = nonMultFacet{}
var _ apis.Converter = nonMultFacet{}
var _ apis.Initializer = nonMultFacet{}

func (nonMultFacet) Name() string       { return "nonmultiplicative" }
func (nonMultFacet) Requires() []string { return []string{"plain"} }

// Init defines a linear delta counterpart for every offset unit, so
// differences of offset quantities have an expressible unit.
func (nonMultFacet) Init(reg apis.RegistryState) error {
	for _, name := range reg.Names() {
		def, ok := reg.Lookup(name)
		if !ok || def.Offset == 0 {
			continue
		}
		delta := "delta_" + def.Name
		if reg.Contains(delta) {
			continue
		}
		if err := reg.Define(apis.Definition{
			Name:       delta,
			Dimensions: def.Dimensions,
			Factor:     def.Factor,
		}); err != nil {
			return err
		}
	}
	return nil
}

// hasOffset reports whether any unit in e is non-multiplicative.
func hasOffset(reg apis.Registry, e apis.Expression) bool {
	for name := range e {
		if def, ok := reg.Lookup(name); ok && def.Offset != 0 {
			return true
		}
	}
	return false
}

// simpleOffset returns the definition when e is exactly one offset unit with
// exponent 1 — the only shape an offset conversion is defined for.
func simpleOffset(reg apis.Registry, e apis.Expression) (apis.Definition, bool) {
	if len(e) != 1 {
		return apis.Definition{}, false
	}
	for name, exp := range e {
		if exp != 1 {
			return apis.Definition{}, false
		}
		def, ok := reg.Lookup(name)
		if !ok || def.Offset == 0 {
			return apis.Definition{}, false
		}
		return def, true
	}
	return apis.Definition{}, false
}

// Convert handles conversions where either side involves an offset unit,
// going through base units with the affine rule. Purely multiplicative
// conversions delegate to the rest of the chain.
func (nonMultFacet) Convert(next apis.ConvertFunc, reg apis.RegistryState, q *apis.Quantity, to *apis.Unit) (*apis.Quantity, error) {
	srcOff := hasOffset(reg, q.Units())
	dstOff := hasOffset(reg, to.Units())
	if !srcOff && !dstOff {
		return next(q, to)
	}
	same, err := sameDims(reg, q.Units(), to.Units())
	if err != nil {
		return nil, err
	}
	if !same {
		return nil, fmt.Errorf("%w: cannot convert %s to %s",
			ErrDimensionMismatch, q.Units(), to.Units())
	}

	// To base units.
	var base apis.Magnitude
	if srcOff {
		def, ok := simpleOffset(reg, q.Units())
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrOffsetUnit, q.Units())
		}
		base, err = affineMag(q.Magnitude(), def.Factor, def.Offset)
	} else {
		var f float64
		f, err = exprFactor(reg, q.Units())
		if err == nil {
			base, err = scaleMag(q.Magnitude(), f)
		}
	}
	if err != nil {
		return nil, err
	}

	// From base units.
	var out apis.Magnitude
	if dstOff {
		def, ok := simpleOffset(reg, to.Units())
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrOffsetUnit, to.Units())
		}
		out, err = affineMag(base, 1/def.Factor, -def.Offset/def.Factor)
	} else {
		var f float64
		f, err = exprFactor(reg, to.Units())
		if err == nil {
			out, err = scaleMag(base, 1/f)
		}
	}
	if err != nil {
		return nil, err
	}
	return apis.NewQuantity(reg, out, to.Units()), nil
}

// additive reconciles units before letting the rest of the chain combine
// magnitudes. A linear (delta) operand is scaled into the offset operand's
// unit without the affine shift; two absolute offset operands are ambiguous
// unless DefaultAsDelta interprets the right side as a delta.
func (f nonMultFacet) additive(next apis.BinaryFunc, reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	aOff := hasOffset(reg, a.Units())
	bOff := hasOffset(reg, b.Units())
	if !aOff && !bOff {
		return next(a, b)
	}
	same, err := sameDims(reg, a.Units(), b.Units())
	if err != nil {
		return nil, err
	}
	if !same {
		return nil, fmt.Errorf("%w: cannot combine %s and %s",
			ErrDimensionMismatch, a.Units(), b.Units())
	}

	switch {
	case aOff && bOff:
		if !a.Units().Equal(b.Units()) {
			conv, err := reg.Convert(b, apis.NewUnit(reg, a.Units()))
			if err != nil {
				return nil, err
			}
			b = conv
		}
		if !reg.Config().DefaultAsDelta {
			return nil, fmt.Errorf("%w: additive use of %s", ErrOffsetUnit, a.Units())
		}
		return next(a, b)

	case aOff:
		// b is delta-like: scale linearly into a's unit.
		def, ok := simpleOffset(reg, a.Units())
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrOffsetUnit, a.Units())
		}
		fb, err := exprFactor(reg, b.Units())
		if err != nil {
			return nil, err
		}
		m, err := scaleMag(b.Magnitude(), fb/def.Factor)
		if err != nil {
			return nil, err
		}
		return next(a, apis.NewQuantity(reg, m, a.Units()))

	default: // bOff
		if !reg.Config().DefaultAsDelta {
			return nil, fmt.Errorf("%w: additive use of %s", ErrOffsetUnit, b.Units())
		}
		def, ok := simpleOffset(reg, b.Units())
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrOffsetUnit, b.Units())
		}
		fa, err := exprFactor(reg, a.Units())
		if err != nil {
			return nil, err
		}
		m, err := scaleMag(b.Magnitude(), def.Factor/fa)
		if err != nil {
			return nil, err
		}
		return next(a, apis.NewQuantity(reg, m, a.Units()))
	}
}

func (f nonMultFacet) Add(next apis.BinaryFunc, reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	return f.additive(next, reg, a, b)
}

func (f nonMultFacet) Sub(next apis.BinaryFunc, reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	return f.additive(next, reg, a, b)
}

// toBaseIfOffset rewrites an operand carrying offset units into base units.
func toBaseIfOffset(reg apis.RegistryState, q *apis.Quantity) (*apis.Quantity, error) {
	if !hasOffset(reg, q.Units()) {
		return q, nil
	}
	bu, err := reg.BaseUnits(apis.NewUnit(reg, q.Units()))
	if err != nil {
		return nil, err
	}
	return reg.Convert(q, bu)
}

// multiplicative rejects offset operands unless the registry autoconverts
// them to base units first.
func (f nonMultFacet) multiplicative(next apis.BinaryFunc, reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	if !hasOffset(reg, a.Units()) && !hasOffset(reg, b.Units()) {
		return next(a, b)
	}
	if !reg.Config().AutoconvertOffset {
		return nil, fmt.Errorf("%w: multiplicative use of %s and %s",
			ErrOffsetUnit, a.Units(), b.Units())
	}
	var err error
	if a, err = toBaseIfOffset(reg, a); err != nil {
		return nil, err
	}
	if b, err = toBaseIfOffset(reg, b); err != nil {
		return nil, err
	}
	return next(a, b)
}

func (f nonMultFacet) Mul(next apis.BinaryFunc, reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	return f.multiplicative(next, reg, a, b)
}

func (f nonMultFacet) Div(next apis.BinaryFunc, reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	return f.multiplicative(next, reg, a, b)
}
