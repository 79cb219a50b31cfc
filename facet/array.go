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
	"strings"

	"dirpx.dev/unitx/apis"
)

// NewArray creates the array-backed storage facet: elementwise arithmetic
// with scalar broadcasting. Scalar math and unit algebra stay with the rest
// of the chain.
func NewArray() apis.Facet {
	return arrayFacet{}
}

type arrayFacet struct{}

var _ apis.Facet = arrayFacet{}
var _ apis.Coercer = arrayFacet{}
var _ apis.Arithmetic = arrayFacet{}
var _ apis.Formatter = arrayFacet{}

func (arrayFacet) Name() string       { return "array" }
func (arrayFacet) Requires() []string { return []string{"plain"} }

// Coerce owns []float64 inputs. Anything else goes down the chain; when the
// registry forces arrays, scalar results coming back up are wrapped.
func (arrayFacet) Coerce(next apis.CoerceFunc, reg apis.RegistryState, value any) (apis.Magnitude, error) {
	switch v := value.(type) {
	case apis.Array:
		return v.Clone(), nil
	case []float64:
		return apis.Array(v).Clone(), nil
	}
	m, err := next(value)
	if err != nil {
		return nil, err
	}
	if s, ok := m.(apis.Scalar); ok && reg.Config().ForceArray {
		return apis.Array{float64(s)}, nil
	}
	return m, nil
}

// elementwise applies op over two arrays or an array and a broadcast scalar.
func elementwise(ma, mb apis.Magnitude, op func(x, y float64) float64) (apis.Array, bool, error) {
	xa, aIsArr := ma.(apis.Array)
	xb, bIsArr := mb.(apis.Array)
	switch {
	case aIsArr && bIsArr:
		if len(xa) != len(xb) {
			return nil, true, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(xa), len(xb))
		}
		out := make(apis.Array, len(xa))
		for i := range xa {
			out[i] = op(xa[i], xb[i])
		}
		return out, true, nil
	case aIsArr:
		s, ok := mb.(apis.Scalar)
		if !ok {
			return nil, true, fmt.Errorf("%w: array with %T", ErrUnsupportedMagnitude, mb)
		}
		out := make(apis.Array, len(xa))
		for i := range xa {
			out[i] = op(xa[i], float64(s))
		}
		return out, true, nil
	case bIsArr:
		s, ok := ma.(apis.Scalar)
		if !ok {
			return nil, true, fmt.Errorf("%w: array with %T", ErrUnsupportedMagnitude, ma)
		}
		out := make(apis.Array, len(xb))
		for i := range xb {
			out[i] = op(float64(s), xb[i])
		}
		return out, true, nil
	default:
		return nil, false, nil
	}
}

// additive reconciles units through the registry chain, then combines
// elementwise.
func (arrayFacet) additive(next apis.BinaryFunc, reg apis.RegistryState, a, b *apis.Quantity, op func(x, y float64) float64) (*apis.Quantity, error) {
	_, aIsArr := a.Magnitude().(apis.Array)
	_, bIsArr := b.Magnitude().(apis.Array)
	if !aIsArr && !bIsArr {
		return next(a, b)
	}
	b, err := reconcile(reg, a, b)
	if err != nil {
		return nil, err
	}
	out, handled, err := elementwise(a.Magnitude(), b.Magnitude(), op)
	if err != nil {
		return nil, err
	}
	if !handled {
		return next(a, b)
	}
	return apis.NewQuantity(reg, out, a.Units()), nil
}

func (f arrayFacet) Add(next apis.BinaryFunc, reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	return f.additive(next, reg, a, b, func(x, y float64) float64 { return x + y })
}

func (f arrayFacet) Sub(next apis.BinaryFunc, reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	return f.additive(next, reg, a, b, func(x, y float64) float64 { return x - y })
}

// multiplicative combines elementwise and merges units with sign.
func (arrayFacet) multiplicative(next apis.BinaryFunc, reg apis.RegistryState, a, b *apis.Quantity, sign int, op func(x, y float64) float64) (*apis.Quantity, error) {
	out, handled, err := elementwise(a.Magnitude(), b.Magnitude(), op)
	if err != nil {
		return nil, err
	}
	if !handled {
		return next(a, b)
	}
	return apis.NewQuantity(reg, out, a.Units().Combine(b.Units(), sign)), nil
}

func (f arrayFacet) Mul(next apis.BinaryFunc, reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	return f.multiplicative(next, reg, a, b, +1, func(x, y float64) float64 { return x * y })
}

func (f arrayFacet) Div(next apis.BinaryFunc, reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	return f.multiplicative(next, reg, a, b, -1, func(x, y float64) float64 { return x / y })
}

// Format renders "[v1 v2 ...] units".
func (arrayFacet) Format(next apis.FormatFunc, reg apis.RegistryState, q *apis.Quantity) (string, error) {
	arr, ok := q.Magnitude().(apis.Array)
	if !ok {
		return next(q)
	}
	loc := reg.Config().Locale
	parts := make([]string, len(arr))
	for i, v := range arr {
		parts[i] = formatFloat(loc, v)
	}
	s := "[" + strings.Join(parts, " ") + "]"
	if units := q.Units(); len(units) > 0 {
		s += " " + units.String()
	}
	return s, nil
}
