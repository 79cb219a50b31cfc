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
	"strconv"

	"github.com/cockroachdb/apd/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"dirpx.dev/unitx/apis"
)

// ErrNoLoader is returned when a registry is configured with a definition
// file source but no Loader to parse it.
var ErrNoLoader = errors.New("unitx(facet): definition source given but no loader configured")

// stashPlainBase is the stash key for the dimension -> base unit name index
// the plain facet builds during setup. More-specific facets read it.
const stashPlainBase = "plain.base"

// NewPlain creates the baseline facet. It covers every core operation for
// scalar and decimal magnitudes and loads unit definitions at setup.
func NewPlain() apis.Facet {
	return plainFacet{}
}

type plainFacet struct{}

var _ apis.Facet = plainFacet{}
var _ apis.Coercer = plainFacet{}
var _ apis.Arithmetic = plainFacet{}
var _ apis.Converter = plainFacet{}
var _ apis.Formatter = plainFacet{}
var _ apis.Reducer = plainFacet{}
var _ apis.Initializer = plainFacet{}

func (plainFacet) Name() string       { return "plain" }
func (plainFacet) Requires() []string { return nil }

// Init loads unit definitions according to the configured source and indexes
// base units per dimension for the reducers above it.
func (plainFacet) Init(reg apis.RegistryState) error {
	cfg := reg.Config()
	switch cfg.Definitions {
	case apis.NoDefinitions:
		// start empty
	case apis.DefaultDefinitions:
		for _, def := range DefaultDefinitions() {
			if err := reg.Define(def); err != nil {
				return err
			}
		}
	default:
		if cfg.Loader == nil {
			return fmt.Errorf("%w: %q", ErrNoLoader, cfg.Definitions)
		}
		defs, err := cfg.Loader(string(cfg.Definitions))
		if err != nil {
			return err
		}
		for _, def := range defs {
			if err := reg.Define(def); err != nil {
				return err
			}
		}
	}

	base := make(map[string]string)
	for _, name := range reg.Names() {
		def, ok := reg.Lookup(name)
		if !ok || !def.IsBase || len(def.Dimensions) != 1 {
			continue
		}
		for dim, exp := range def.Dimensions {
			if exp == 1 {
				base[dim] = def.Name
			}
		}
	}
	reg.Stash(stashPlainBase, base)
	return nil
}

// Coerce handles scalar inputs. Non-integer floats become decimals when the
// registry runs in decimal mode.
func (plainFacet) Coerce(_ apis.CoerceFunc, reg apis.RegistryState, value any) (apis.Magnitude, error) {
	decimalMode := reg.Config().Numeric == apis.NumericDecimal
	switch v := value.(type) {
	case apis.Scalar:
		return v, nil
	case apis.Decimal:
		return v, nil
	case *apd.Decimal:
		return apis.Decimal{D: v}, nil
	case float64:
		if decimalMode && v != math.Trunc(v) {
			d := new(apd.Decimal)
			if _, err := d.SetFloat64(v); err != nil {
				return nil, err
			}
			return apis.Decimal{D: d}, nil
		}
		return apis.Scalar(v), nil
	case float32:
		return apis.Scalar(v), nil
	case int:
		return apis.Scalar(v), nil
	case int64:
		return apis.Scalar(v), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, value)
	}
}

// plainBinary reconciles units, then combines magnitudes with op.
func plainBinary(
	reg apis.RegistryState, a, b *apis.Quantity, name string,
	op func(x, y *apd.Decimal, out *apd.Decimal) error,
	scalarOp func(x, y float64) float64,
) (*apis.Quantity, error) {
	if !a.Units().Equal(b.Units()) {
		same, err := sameDims(reg, a.Units(), b.Units())
		if err != nil {
			return nil, err
		}
		if !same {
			return nil, fmt.Errorf("%w: cannot %s %s and %s",
				ErrDimensionMismatch, name, a.Units(), b.Units())
		}
		conv, err := reg.Convert(b, apis.NewUnit(reg, a.Units()))
		if err != nil {
			return nil, err
		}
		b = conv
	}

	ma, mb := a.Magnitude(), b.Magnitude()
	if x, ok := ma.(apis.Scalar); ok {
		if y, ok := mb.(apis.Scalar); ok {
			return apis.NewQuantity(reg, apis.Scalar(scalarOp(float64(x), float64(y))), a.Units()), nil
		}
	}
	if x, ok := decimalOf(ma); ok {
		if y, ok := decimalOf(mb); ok {
			out := new(apd.Decimal)
			if err := op(x, y, out); err != nil {
				return nil, err
			}
			return apis.NewQuantity(reg, apis.Decimal{D: out}, a.Units()), nil
		}
	}
	return nil, fmt.Errorf("%w: %s on %T and %T", ErrUnsupportedMagnitude, name, ma, mb)
}

func (plainFacet) Add(_ apis.BinaryFunc, reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	return plainBinary(reg, a, b, "add",
		func(x, y, out *apd.Decimal) error { _, err := apdCtx.Add(out, x, y); return err },
		func(x, y float64) float64 { return x + y })
}

func (plainFacet) Sub(_ apis.BinaryFunc, reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	return plainBinary(reg, a, b, "subtract",
		func(x, y, out *apd.Decimal) error { _, err := apdCtx.Sub(out, x, y); return err },
		func(x, y float64) float64 { return x - y })
}

// plainProduct combines magnitudes multiplicatively and merges units with sign.
func plainProduct(
	reg apis.RegistryState, a, b *apis.Quantity, name string, sign int,
	op func(x, y *apd.Decimal, out *apd.Decimal) error,
	scalarOp func(x, y float64) float64,
) (*apis.Quantity, error) {
	units := a.Units().Combine(b.Units(), sign)
	ma, mb := a.Magnitude(), b.Magnitude()
	if x, ok := ma.(apis.Scalar); ok {
		if y, ok := mb.(apis.Scalar); ok {
			return apis.NewQuantity(reg, apis.Scalar(scalarOp(float64(x), float64(y))), units), nil
		}
	}
	if x, ok := decimalOf(ma); ok {
		if y, ok := decimalOf(mb); ok {
			out := new(apd.Decimal)
			if err := op(x, y, out); err != nil {
				return nil, err
			}
			return apis.NewQuantity(reg, apis.Decimal{D: out}, units), nil
		}
	}
	return nil, fmt.Errorf("%w: %s on %T and %T", ErrUnsupportedMagnitude, name, ma, mb)
}

func (plainFacet) Mul(_ apis.BinaryFunc, reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	return plainProduct(reg, a, b, "multiply", +1,
		func(x, y, out *apd.Decimal) error { _, err := apdCtx.Mul(out, x, y); return err },
		func(x, y float64) float64 { return x * y })
}

func (plainFacet) Div(_ apis.BinaryFunc, reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	return plainProduct(reg, a, b, "divide", -1,
		func(x, y, out *apd.Decimal) error { _, err := apdCtx.Quo(out, x, y); return err },
		func(x, y float64) float64 { return x / y })
}

// Convert applies the linear base-factor ratio between source and target
// units. Offsets are not its concern; the nonmultiplicative facet intercepts
// those before the chain reaches here.
func (plainFacet) Convert(_ apis.ConvertFunc, reg apis.RegistryState, q *apis.Quantity, to *apis.Unit) (*apis.Quantity, error) {
	same, err := sameDims(reg, q.Units(), to.Units())
	if err != nil {
		return nil, err
	}
	if !same {
		return nil, fmt.Errorf("%w: cannot convert %s to %s",
			ErrDimensionMismatch, q.Units(), to.Units())
	}
	fFrom, err := exprFactor(reg, q.Units())
	if err != nil {
		return nil, err
	}
	fTo, err := exprFactor(reg, to.Units())
	if err != nil {
		return nil, err
	}
	m, err := scaleMag(q.Magnitude(), fFrom/fTo)
	if err != nil {
		return nil, err
	}
	return apis.NewQuantity(reg, m, to.Units()), nil
}

// Format renders "<magnitude> <units>", localizing numbers when a locale is
// configured.
func (plainFacet) Format(_ apis.FormatFunc, reg apis.RegistryState, q *apis.Quantity) (string, error) {
	var mag string
	switch v := q.Magnitude().(type) {
	case apis.Scalar:
		mag = formatFloat(reg.Config().Locale, float64(v))
	case apis.Decimal:
		mag = v.D.String()
	default:
		return "", fmt.Errorf("%w: format %T", ErrUnsupportedMagnitude, q.Magnitude())
	}
	units := q.Units()
	if len(units) == 0 {
		return mag, nil
	}
	return mag + " " + units.String(), nil
}

// formatFloat renders a float for the given locale; language.Und falls back
// to Go's shortest representation.
func formatFloat(loc language.Tag, v float64) string {
	if loc == language.Und {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return message.NewPrinter(loc).Sprintf("%v", number.Decimal(v))
}

// BaseUnits reduces to the defining base unit of each dimension.
func (plainFacet) BaseUnits(_ apis.ReduceFunc, reg apis.RegistryState, u *apis.Unit) (*apis.Unit, error) {
	dims, err := reg.Dimensionality(u.Units())
	if err != nil {
		return nil, err
	}
	base, _ := reg.Stashed(stashPlainBase)
	index, _ := base.(map[string]string)
	out := make(apis.Expression, len(dims))
	for dim, exp := range dims {
		name, ok := index[dim]
		if !ok {
			return nil, fmt.Errorf("unitx(facet): no base unit for dimension %q", dim)
		}
		out[name] = exp
	}
	return apis.NewUnit(reg, out), nil
}
