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

import "dirpx.dev/unitx/apis"

// NewLazyArray creates the deferred-array facet. It owns thunk inputs and
// realizes lazy operands on demand; all actual numerics are cooperatively
// delegated to the array facet below it.
func NewLazyArray() apis.Facet {
	return lazyArrayFacet{}
}

type lazyArrayFacet struct{}

var _ apis.Facet = lazyArrayFacet{}
var _ apis.Coercer = lazyArrayFacet{}
var _ apis.Arithmetic = lazyArrayFacet{}
var _ apis.Converter = lazyArrayFacet{}
var _ apis.Formatter = lazyArrayFacet{}

func (lazyArrayFacet) Name() string       { return "lazyarray" }
func (lazyArrayFacet) Requires() []string { return []string{"array", "plain"} }

func (lazyArrayFacet) Coerce(next apis.CoerceFunc, _ apis.RegistryState, value any) (apis.Magnitude, error) {
	switch v := value.(type) {
	case *apis.Lazy:
		return v, nil
	case func() []float64:
		return apis.NewLazy(v), nil
	}
	return next(value)
}

// realized rewrites a lazy operand as a realized array quantity.
func realized(reg apis.RegistryState, q *apis.Quantity) *apis.Quantity {
	if l, ok := q.Magnitude().(*apis.Lazy); ok {
		return apis.NewQuantity(reg, l.Realize().Clone(), q.Units())
	}
	return q
}

func (lazyArrayFacet) Add(next apis.BinaryFunc, reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	return next(realized(reg, a), realized(reg, b))
}

func (lazyArrayFacet) Sub(next apis.BinaryFunc, reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	return next(realized(reg, a), realized(reg, b))
}

func (lazyArrayFacet) Mul(next apis.BinaryFunc, reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	return next(realized(reg, a), realized(reg, b))
}

func (lazyArrayFacet) Div(next apis.BinaryFunc, reg apis.RegistryState, a, b *apis.Quantity) (*apis.Quantity, error) {
	return next(realized(reg, a), realized(reg, b))
}

func (lazyArrayFacet) Convert(next apis.ConvertFunc, reg apis.RegistryState, q *apis.Quantity, to *apis.Unit) (*apis.Quantity, error) {
	return next(realized(reg, q), to)
}

func (lazyArrayFacet) Format(next apis.FormatFunc, reg apis.RegistryState, q *apis.Quantity) (string, error) {
	return next(realized(reg, q))
}
