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
	"errors"
	"fmt"
	"math"

	"github.com/cockroachdb/apd/v3"

	"dirpx.dev/unitx/apis"
)

var (
	// ErrUnsupportedValue is returned when no facet can coerce a
	// construction input.
	ErrUnsupportedValue = errors.New("unitx(facet): unsupported value")
	// ErrUnsupportedMagnitude is returned when an operation meets a
	// magnitude kind no composed facet handles.
	ErrUnsupportedMagnitude = errors.New("unitx(facet): unsupported magnitude kind")
	// ErrDimensionMismatch is returned when operands or conversion targets
	// have incompatible dimensionality.
	ErrDimensionMismatch = errors.New("unitx(facet): dimension mismatch")
	// ErrOffsetUnit is returned for ambiguous operations on offset
	// (non-multiplicative) units.
	ErrOffsetUnit = errors.New("unitx(facet): ambiguous operation on offset unit")
	// ErrLengthMismatch is returned when two array magnitudes differ in length.
	ErrLengthMismatch = errors.New("unitx(facet): array length mismatch")
	// ErrUnknownSystem is returned for an unknown unit-system name.
	ErrUnknownSystem = errors.New("unitx(facet): unknown unit system")
)

// apdCtx is the shared decimal arithmetic context for decimal magnitudes.
var apdCtx = apd.BaseContext.WithPrecision(28)

// exprFactor computes the linear scale of a unit expression to base units,
// ignoring offsets.
func exprFactor(reg apis.Registry, e apis.Expression) (float64, error) {
	f := 1.0
	for name, exp := range e {
		def, ok := reg.Lookup(name)
		if !ok {
			return 0, fmt.Errorf("unitx(facet): undefined unit %q", name)
		}
		f *= math.Pow(def.Factor, float64(exp))
	}
	return f, nil
}

// sameDims reports whether two expressions share dimensionality.
func sameDims(reg apis.Registry, a, b apis.Expression) (bool, error) {
	da, err := reg.Dimensionality(a)
	if err != nil {
		return false, err
	}
	db, err := reg.Dimensionality(b)
	if err != nil {
		return false, err
	}
	return dimsEqual(da, db), nil
}

func dimsEqual(a, b map[string]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// scaleMag multiplies a magnitude by a linear factor, realizing lazy arrays.
func scaleMag(m apis.Magnitude, f float64) (apis.Magnitude, error) {
	switch v := m.(type) {
	case apis.Scalar:
		return apis.Scalar(float64(v) * f), nil
	case apis.Decimal:
		fd := new(apd.Decimal)
		if _, err := fd.SetFloat64(f); err != nil {
			return nil, err
		}
		out := new(apd.Decimal)
		if _, err := apdCtx.Mul(out, v.D, fd); err != nil {
			return nil, err
		}
		return apis.Decimal{D: out}, nil
	case apis.Array:
		out := v.Clone()
		for i := range out {
			out[i] *= f
		}
		return out, nil
	case *apis.Lazy:
		return scaleMag(v.Realize().Clone(), f)
	case apis.Measure:
		return apis.Measure{Value: v.Value * f, Err: v.Err * math.Abs(f)}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedMagnitude, m)
	}
}

// affineMag applies base = m*f + off, the offset-unit path to base units.
func affineMag(m apis.Magnitude, f, off float64) (apis.Magnitude, error) {
	switch v := m.(type) {
	case apis.Scalar:
		return apis.Scalar(float64(v)*f + off), nil
	case apis.Decimal:
		fd, offd := new(apd.Decimal), new(apd.Decimal)
		if _, err := fd.SetFloat64(f); err != nil {
			return nil, err
		}
		if _, err := offd.SetFloat64(off); err != nil {
			return nil, err
		}
		out := new(apd.Decimal)
		if _, err := apdCtx.Mul(out, v.D, fd); err != nil {
			return nil, err
		}
		if _, err := apdCtx.Add(out, out, offd); err != nil {
			return nil, err
		}
		return apis.Decimal{D: out}, nil
	case apis.Array:
		out := v.Clone()
		for i := range out {
			out[i] = out[i]*f + off
		}
		return out, nil
	case *apis.Lazy:
		return affineMag(v.Realize().Clone(), f, off)
	case apis.Measure:
		return apis.Measure{Value: v.Value*f + off, Err: v.Err * math.Abs(f)}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedMagnitude, m)
	}
}

// decimalOf promotes a magnitude to a decimal, used when mixing scalar and
// decimal operands.
func decimalOf(m apis.Magnitude) (*apd.Decimal, bool) {
	switch v := m.(type) {
	case apis.Decimal:
		return v.D, true
	case apis.Scalar:
		d := new(apd.Decimal)
		if _, err := d.SetFloat64(float64(v)); err != nil {
			return nil, false
		}
		return d, true
	default:
		return nil, false
	}
}
