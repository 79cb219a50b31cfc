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

package facet_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"dirpx.dev/unitx/apis"
	"dirpx.dev/unitx/builder"
	"dirpx.dev/unitx/config"
	"dirpx.dev/unitx/facet"
)

func newRegistry(t *testing.T, opts ...config.Option) apis.Registry {
	t.Helper()
	reg, err := builder.New().BuildRegistry(config.New(opts...), nil)
	require.NoError(t, err)
	return reg
}

func quantity(t *testing.T, reg apis.Registry, value any, units string) *apis.Quantity {
	t.Helper()
	q, err := reg.Quantity(value, units)
	require.NoError(t, err)
	return q
}

func scalarOf(t *testing.T, q *apis.Quantity) float64 {
	t.Helper()
	s, ok := q.Magnitude().(apis.Scalar)
	require.True(t, ok, "want scalar magnitude, got %T", q.Magnitude())
	return float64(s)
}

func TestScalarAdditionReconcilesUnits(t *testing.T) {
	reg := newRegistry(t)
	a := quantity(t, reg, "1 kilometer", "")
	b := quantity(t, reg, "500 meter", "")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, scalarOf(t, sum), 1e-12)
	assert.True(t, sum.Units().Equal(apis.Expression{"kilometer": 1}),
		"result keeps the left operand's units")
}

func TestScalarConversion(t *testing.T) {
	reg := newRegistry(t)
	q := quantity(t, reg, 10, "meter")

	cm, err := q.To("centimeter")
	require.NoError(t, err)
	assert.InDelta(t, 1000, scalarOf(t, cm), 1e-9)

	back, err := cm.To("meter")
	require.NoError(t, err)
	assert.InDelta(t, 10, scalarOf(t, back), 1e-9)
}

func TestMultiplicationMergesUnits(t *testing.T) {
	reg := newRegistry(t)
	d := quantity(t, reg, 2, "meter")
	s := quantity(t, reg, 3, "second")

	p, err := d.Mul(s)
	require.NoError(t, err)
	assert.InDelta(t, 6, scalarOf(t, p), 1e-12)
	assert.True(t, p.Units().Equal(apis.Expression{"meter": 1, "second": 1}))

	ratio, err := p.Div(quantity(t, reg, 2, "meter*second"))
	require.NoError(t, err)
	assert.InDelta(t, 3, scalarOf(t, ratio), 1e-12)
	assert.Empty(t, ratio.Units(), "fully cancelled units are dimensionless")
}

func TestAdditionDimensionMismatch(t *testing.T) {
	reg := newRegistry(t)
	a := quantity(t, reg, 1, "meter")
	b := quantity(t, reg, 1, "second")

	_, err := a.Add(b)
	assert.ErrorIs(t, err, facet.ErrDimensionMismatch)
}

func TestScalarFormat(t *testing.T) {
	reg := newRegistry(t)
	q := quantity(t, reg, "1.5 kilometer", "")
	assert.Equal(t, "1.5 kilometer", q.String())

	bare := quantity(t, reg, 3, "")
	assert.Equal(t, "3", bare.String())
}

func TestLocaleFormat(t *testing.T) {
	reg := newRegistry(t, config.WithLocale(language.German))
	q := quantity(t, reg, 1234.5, "meter")

	out, err := reg.Format(q)
	require.NoError(t, err)
	assert.Equal(t, "1.234,5 meter", out)
}

func TestOffsetConversion(t *testing.T) {
	reg := newRegistry(t)

	k, err := quantity(t, reg, 25, "celsius").To("kelvin")
	require.NoError(t, err)
	assert.InDelta(t, 298.15, scalarOf(t, k), 1e-9)

	f, err := quantity(t, reg, 100, "celsius").To("fahrenheit")
	require.NoError(t, err)
	assert.InDelta(t, 212, scalarOf(t, f), 1e-9)

	c, err := quantity(t, reg, 32, "fahrenheit").To("celsius")
	require.NoError(t, err)
	assert.InDelta(t, 0, scalarOf(t, c), 1e-9)
}

func TestDeltaUnitsDefinedAtSetup(t *testing.T) {
	reg := newRegistry(t)
	assert.True(t, reg.Contains("delta_celsius"))
	assert.True(t, reg.Contains("delta_fahrenheit"))

	def, ok := reg.Lookup("delta_celsius")
	require.True(t, ok)
	assert.Zero(t, def.Offset, "delta counterparts are purely linear")
	assert.Equal(t, 1.0, def.Factor)
}

func TestDeltaAddition(t *testing.T) {
	reg := newRegistry(t)

	sum, err := quantity(t, reg, "10 celsius", "").Add(quantity(t, reg, "5 delta_celsius", ""))
	require.NoError(t, err)
	assert.InDelta(t, 15, scalarOf(t, sum), 1e-9)
	assert.True(t, sum.Units().Equal(apis.Expression{"celsius": 1}))

	abs, err := quantity(t, reg, "300 kelvin", "").Add(quantity(t, reg, "5 delta_celsius", ""))
	require.NoError(t, err)
	assert.InDelta(t, 305, scalarOf(t, abs), 1e-9)
}

func TestOffsetAdditionAsDelta(t *testing.T) {
	reg := newRegistry(t)
	sum, err := quantity(t, reg, 10, "celsius").Add(quantity(t, reg, 10, "celsius"))
	require.NoError(t, err)
	assert.InDelta(t, 20, scalarOf(t, sum), 1e-9)

	strict := newRegistry(t, config.WithDefaultAsDelta(false))
	_, err = quantity(t, strict, 10, "celsius").Add(quantity(t, strict, 10, "celsius"))
	assert.ErrorIs(t, err, facet.ErrOffsetUnit)
}

func TestOffsetMultiplicationGuard(t *testing.T) {
	reg := newRegistry(t)
	_, err := quantity(t, reg, 2, "celsius").Mul(quantity(t, reg, 3, "second"))
	assert.ErrorIs(t, err, facet.ErrOffsetUnit)

	auto := newRegistry(t, config.WithAutoconvertOffset(true))
	p, err := quantity(t, auto, 2, "celsius").Mul(quantity(t, auto, 3, "second"))
	require.NoError(t, err)
	assert.InDelta(t, 275.15*3, scalarOf(t, p), 1e-9)
	assert.True(t, p.Units().Equal(apis.Expression{"kelvin": 1, "second": 1}),
		"offset operand is rewritten in base units before multiplying")
}

func TestMeasurementPropagation(t *testing.T) {
	reg := newRegistry(t)
	a := quantity(t, reg, facet.Measurement(10, 1), "meter")
	b := quantity(t, reg, facet.Measurement(5, 2), "meter")

	sum, err := a.Add(b)
	require.NoError(t, err)
	m, ok := sum.Magnitude().(apis.Measure)
	require.True(t, ok)
	assert.InDelta(t, 15, m.Value, 1e-12)
	assert.InDelta(t, math.Sqrt(5), m.Err, 1e-12, "additive uncertainty adds in quadrature")

	p, err := a.Mul(quantity(t, reg, 2, "second"))
	require.NoError(t, err)
	pm, ok := p.Magnitude().(apis.Measure)
	require.True(t, ok)
	assert.InDelta(t, 20, pm.Value, 1e-12)
	assert.InDelta(t, 2, pm.Err, 1e-12)
	assert.True(t, p.Units().Equal(apis.Expression{"meter": 1, "second": 1}))
}

func TestMeasurementConversionScalesUncertainty(t *testing.T) {
	reg := newRegistry(t)
	q := quantity(t, reg, facet.Measurement(10, 1), "meter")

	cm, err := q.To("centimeter")
	require.NoError(t, err)
	m, ok := cm.Magnitude().(apis.Measure)
	require.True(t, ok)
	assert.InDelta(t, 1000, m.Value, 1e-9)
	assert.InDelta(t, 100, m.Err, 1e-9)
}

func TestMeasurementFormat(t *testing.T) {
	reg := newRegistry(t)
	q := quantity(t, reg, facet.Measurement(10, 1), "meter")
	assert.Equal(t, "(10 ± 1) meter", q.String())
}

func TestArrayElementwiseArithmetic(t *testing.T) {
	reg := newRegistry(t)
	a := quantity(t, reg, []float64{1, 2, 3}, "meter")
	b := quantity(t, reg, []float64{10, 20, 30}, "meter")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, apis.Array{11, 22, 33}, sum.Magnitude())

	p, err := a.Mul(quantity(t, reg, []float64{2, 2, 2}, "second"))
	require.NoError(t, err)
	assert.Equal(t, apis.Array{2, 4, 6}, p.Magnitude())
	assert.True(t, p.Units().Equal(apis.Expression{"meter": 1, "second": 1}))
}

func TestArrayScalarBroadcast(t *testing.T) {
	reg := newRegistry(t)
	a := quantity(t, reg, []float64{1, 2, 3}, "meter")

	sum, err := a.Add(quantity(t, reg, 1, "meter"))
	require.NoError(t, err)
	assert.Equal(t, apis.Array{2, 3, 4}, sum.Magnitude())

	scaled, err := quantity(t, reg, 2, "").Mul(a)
	require.NoError(t, err)
	assert.Equal(t, apis.Array{2, 4, 6}, scaled.Magnitude())
}

func TestArrayLengthMismatch(t *testing.T) {
	reg := newRegistry(t)
	a := quantity(t, reg, []float64{1, 2}, "meter")
	b := quantity(t, reg, []float64{1, 2, 3}, "meter")

	_, err := a.Add(b)
	assert.ErrorIs(t, err, facet.ErrLengthMismatch)
}

func TestArrayConversion(t *testing.T) {
	reg := newRegistry(t)
	a := quantity(t, reg, []float64{1, 2}, "meter")

	cm, err := a.To("centimeter")
	require.NoError(t, err)
	assert.Equal(t, apis.Array{100, 200}, cm.Magnitude())
}

func TestArrayFormat(t *testing.T) {
	reg := newRegistry(t)
	a := quantity(t, reg, []float64{1, 2.5}, "meter")
	assert.Equal(t, "[1 2.5] meter", a.String())
}

func TestArrayInputIsCopied(t *testing.T) {
	reg := newRegistry(t)
	in := []float64{1, 2}
	a := quantity(t, reg, in, "meter")
	in[0] = 99
	assert.Equal(t, apis.Array{1, 2}, a.Magnitude())
}

func TestForceArrayPromotesScalars(t *testing.T) {
	reg := newRegistry(t, config.WithForceArray(true))
	q := quantity(t, reg, 5, "meter")
	assert.Equal(t, apis.Array{5}, q.Magnitude())
}

func TestLazyArrayRealizesOnDemand(t *testing.T) {
	reg := newRegistry(t)
	runs := 0
	q := quantity(t, reg, func() []float64 {
		runs++
		return []float64{1, 2}
	}, "meter")
	assert.Equal(t, 0, runs, "construction must not realize the thunk")

	sum, err := q.Add(quantity(t, reg, []float64{10, 10}, "meter"))
	require.NoError(t, err)
	assert.Equal(t, apis.Array{11, 12}, sum.Magnitude())
	assert.Equal(t, 1, runs)

	// second use hits the cached realization
	out, err := reg.Format(q)
	require.NoError(t, err)
	assert.Equal(t, "[1 2] meter", out)
	assert.Equal(t, 1, runs)
}

func TestContextBridgesDimensions(t *testing.T) {
	reg := newRegistry(t)
	q := quantity(t, reg, 100, "hertz")

	_, err := q.To("meter")
	assert.ErrorIs(t, err, facet.ErrDimensionMismatch,
		"without an active context the dimensions stay incompatible")

	bridge := apis.Definition{
		Name:       "wave_rate",
		Dimensions: map[string]int{"length": 1, "time": 1},
		Factor:     2,
	}
	require.NoError(t, reg.AddContext("waves", []apis.Definition{bridge}))
	require.NoError(t, reg.EnableContext("waves"))

	m, err := q.To("meter")
	require.NoError(t, err)
	assert.InDelta(t, 200, scalarOf(t, m), 1e-9)
	assert.True(t, m.Units().Equal(apis.Expression{"meter": 1}))

	reg.DisableContext("waves")
	_, err = q.To("meter")
	assert.ErrorIs(t, err, facet.ErrDimensionMismatch)
}

func TestSystemBaseUnits(t *testing.T) {
	mks := newRegistry(t, config.WithDefaultSystem("mks"))
	u, err := mks.Unit("newton")
	require.NoError(t, err)
	base, err := mks.BaseUnits(u)
	require.NoError(t, err)
	assert.True(t, base.Units().Equal(apis.Expression{"kilogram": 1, "meter": 1, "second": -2}))

	cgs := newRegistry(t, config.WithDefaultSystem("cgs"))
	u, err = cgs.Unit("newton")
	require.NoError(t, err)
	base, err = cgs.BaseUnits(u)
	require.NoError(t, err)
	assert.True(t, base.Units().Equal(apis.Expression{"gram": 1, "centimeter": 1, "second": -2}))
}

func TestNoSystemReducesToDefiningBases(t *testing.T) {
	reg := newRegistry(t)
	u, err := reg.Unit("newton")
	require.NoError(t, err)
	base, err := reg.BaseUnits(u)
	require.NoError(t, err)
	assert.True(t, base.Units().Equal(apis.Expression{"gram": 1, "meter": 1, "second": -2}))
}

func TestUnknownSystemFailsConstruction(t *testing.T) {
	_, err := builder.New().BuildRegistry(config.New(config.WithDefaultSystem("nope")), nil)
	assert.ErrorIs(t, err, facet.ErrUnknownSystem)
}

func TestDefaultStackOrder(t *testing.T) {
	facets := facet.Default()
	names := make([]string, len(facets))
	for i, f := range facets {
		names[i] = f.Name()
	}
	assert.Equal(t, []string{
		"system", "context", "lazyarray", "array",
		"measurement", "nonmultiplicative", "plain",
	}, names)
}
