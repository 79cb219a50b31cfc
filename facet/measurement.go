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
	"math"

	"dirpx.dev/unitx/apis"
)

// Measurement builds a value-with-uncertainty construction input.
func Measurement(value, err float64) apis.Measure {
	return apis.Measure{Value: value, Err: math.Abs(err)}
}

// NewMeasurement creates the uncertainty-propagation facet.
func NewMeasurement() apis.Facet {
	return measurementFacet{}
}

type measurementFacet struct{}

var _ apis.Facet = measurementFacet{}
var _ apis.Coercer = measurementFacet{}
var _ apis.Arithmetic = measurementFacet{}
var _ apis.Formatter = measurementFacet{}

func (measurementFacet) Name() string       { return "measurement" }
func (measurementFacet) Requires() []string { return []string{"plain"} }

func (measurementFacet) Coerce(next apis.CoerceFunc, _ apis.RegistryState, value any) (apis.Magnitude, error) {
	if m, ok := value.(apis.Measure); ok {
		return m, nil
	}
	return next(value)
}

// asMeasure promotes scalar magnitudes to exact measurements.
func asMeasure(m apis.Magnitude) (apis.Measure, bool) {
	switch v := m.(type) {
	case apis.Measure:
		return v, true
	case apis.Scalar:
		return apis.Measure{Value: float64(v)}, true
	default:
		return apis.Measure{}, false
	}
}

// reconcile converts b into a's units when they differ, delegating the
// conversion itself to the full registry chain.
func reconcile(reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	if a.Units().Equal(b.Units()) {
		return b, nil
	}
	return reg.Convert(b, apis.NewUnit(reg, a.Units()))
}

// additive combines measurements with uncertainty added in quadrature.
func (measurementFacet) additive(next apis.BinaryFunc, reg apis.RegistryState, a, b *apis.Quantity, sign float64) (*apis.Quantity, error) {
	_, aOK := a.Magnitude().(apis.Measure)
	_, bOK := b.Magnitude().(apis.Measure)
	if !aOK && !bOK {
		return next(a, b)
	}
	b, err := reconcile(reg, a, b)
	if err != nil {
		return nil, err
	}
	x, ok := asMeasure(a.Magnitude())
	if !ok {
		return next(a, b)
	}
	y, ok := asMeasure(b.Magnitude())
	if !ok {
		return next(a, b)
	}
	out := apis.Measure{
		Value: x.Value + sign*y.Value,
		Err:   math.Hypot(x.Err, y.Err),
	}
	return apis.NewQuantity(reg, out, a.Units()), nil
}

func (f measurementFacet) Add(next apis.BinaryFunc, reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	return f.additive(next, reg, a, b, +1)
}

func (f measurementFacet) Sub(next apis.BinaryFunc, reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	return f.additive(next, reg, a, b, -1)
}

// multiplicative combines measurements with first-order error propagation.
func (measurementFacet) multiplicative(next apis.BinaryFunc, reg apis.RegistryState, a, b *apis.Quantity, div bool) (*apis.Quantity, error) {
	_, aOK := a.Magnitude().(apis.Measure)
	_, bOK := b.Magnitude().(apis.Measure)
	if !aOK && !bOK {
		return next(a, b)
	}
	x, ok := asMeasure(a.Magnitude())
	if !ok {
		return next(a, b)
	}
	y, ok := asMeasure(b.Magnitude())
	if !ok {
		return next(a, b)
	}

	var out apis.Measure
	var units apis.Expression
	if div {
		out = apis.Measure{
			Value: x.Value / y.Value,
			Err:   math.Hypot(x.Err/y.Value, x.Value*y.Err/(y.Value*y.Value)),
		}
		units = a.Units().Combine(b.Units(), -1)
	} else {
		out = apis.Measure{
			Value: x.Value * y.Value,
			Err:   math.Hypot(x.Err*y.Value, x.Value*y.Err),
		}
		units = a.Units().Combine(b.Units(), +1)
	}
	out.Err = math.Abs(out.Err)
	return apis.NewQuantity(reg, out, units), nil
}

func (f measurementFacet) Mul(next apis.BinaryFunc, reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	return f.multiplicative(next, reg, a, b, false)
}

func (f measurementFacet) Div(next apis.BinaryFunc, reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	return f.multiplicative(next, reg, a, b, true)
}

// Format renders "(value ± err) units".
func (measurementFacet) Format(next apis.FormatFunc, reg apis.RegistryState, q *apis.Quantity) (string, error) {
	m, ok := q.Magnitude().(apis.Measure)
	if !ok {
		return next(q)
	}
	loc := reg.Config().Locale
	s := "(" + formatFloat(loc, m.Value) + " ± " + formatFloat(loc, m.Err) + ")"
	if units := q.Units(); len(units) > 0 {
		s += " " + units.String()
	}
	return s, nil
}
