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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpressionCombine(t *testing.T) {
	speed := Expression{"meter": 1, "second": -1}
	dur := Expression{"second": 1}

	dist := speed.Combine(dur, +1)
	assert.True(t, dist.Equal(Expression{"meter": 1}), "cancelled exponent should be dropped")

	accel := speed.Combine(dur, -1)
	assert.True(t, accel.Equal(Expression{"meter": 1, "second": -2}))

	// operands untouched
	assert.True(t, speed.Equal(Expression{"meter": 1, "second": -1}))
	assert.True(t, dur.Equal(Expression{"second": 1}))
}

func TestExpressionPow(t *testing.T) {
	area := Expression{"meter": 1}.Pow(2)
	assert.True(t, area.Equal(Expression{"meter": 2}))
	assert.Empty(t, Expression{"meter": 3}.Pow(0))
}

func TestExpressionString(t *testing.T) {
	assert.Equal(t, "dimensionless", Expression{}.String())
	assert.Equal(t, "meter", Expression{"meter": 1}.String())
	assert.Equal(t, "meter*second**-2", Expression{"second": -2, "meter": 1}.String())
	assert.Equal(t, "gram**2*meter", Expression{"meter": 1, "gram": 2}.String())
}

func TestExpressionClone(t *testing.T) {
	e := Expression{"meter": 1}
	c := e.Clone()
	c["meter"] = 5
	assert.Equal(t, 1, e["meter"])
}

func TestLazyRealizesOnce(t *testing.T) {
	runs := 0
	l := NewLazy(func() []float64 {
		runs++
		return []float64{1, 2, 3}
	})
	first := l.Realize()
	second := l.Realize()
	require.Equal(t, 1, runs, "thunk must run at most once")
	assert.Equal(t, Array{1, 2, 3}, first)
	assert.Equal(t, first, second)
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "warn", Warn.String())
	assert.Equal(t, "raise", Raise.String())
	assert.Equal(t, "ignore", Ignore.String())
	assert.Equal(t, "unknown", Policy(42).String())
}

func TestCrossRegistryErrorNamesBothSides(t *testing.T) {
	err := &CrossRegistryError{Op: "add", Left: "registry-aaaa", Right: "registry-bbbb"}
	assert.Contains(t, err.Error(), "registry-aaaa")
	assert.Contains(t, err.Error(), "registry-bbbb")
	assert.Contains(t, err.Error(), "add")
}
