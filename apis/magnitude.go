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

import (
	"sync"

	"github.com/cockroachdb/apd/v3"
)

// Magnitude is the closed set of magnitude representations a quantity can
// carry. Which kinds participate in which operations is decided by the
// facets composed into the owning registry.
type Magnitude interface {
	magnitude()
}

// Scalar is a plain float64 magnitude.
type Scalar float64

func (Scalar) magnitude() {}

// Decimal is an arbitrary-precision decimal magnitude, used when the
// registry is configured with NumericDecimal.
type Decimal struct {
	D *apd.Decimal
}

func (Decimal) magnitude() {}

// Array is an array-backed magnitude.
type Array []float64

func (Array) magnitude() {}

// Clone returns an independent copy of a.
func (a Array) Clone() Array {
	out := make(Array, len(a))
	copy(out, a)
	return out
}

// Measure is a magnitude with an associated measurement uncertainty.
type Measure struct {
	Value float64
	Err   float64
}

func (Measure) magnitude() {}

// Lazy is a deferred array magnitude. The thunk runs at most once, on first
// realization; afterwards the realized array is returned directly.
type Lazy struct {
	once  sync.Once
	thunk func() []float64
	out   Array
}

func (*Lazy) magnitude() {}

// NewLazy wraps a thunk producing the eventual array values.
func NewLazy(thunk func() []float64) *Lazy {
	return &Lazy{thunk: thunk}
}

// Realize runs the thunk if it has not run yet and returns the array.
func (l *Lazy) Realize() Array {
	l.once.Do(func() {
		l.out = Array(l.thunk())
		l.thunk = nil
	})
	return l.out
}
