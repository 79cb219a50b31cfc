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

package dim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/unitx/utils/dim"
)

func TestNullspaceFullRank(t *testing.T) {
	basis := dim.Nullspace([][]int{{1, 0}, {0, 1}}, 2)
	assert.Empty(t, basis, "a full-rank matrix has a trivial nullspace")
}

func TestNullspaceSingleFreeColumn(t *testing.T) {
	// pendulum: rows are length and time, columns L, T, g
	basis := dim.Nullspace([][]int{
		{1, 0, 1},
		{0, 1, -2},
	}, 3)
	require.Len(t, basis, 1)
	assert.Equal(t, []float64{1, -2, -1}, basis[0],
		"smallest integer form with a positive leading entry")
}

func TestNullspaceZeroMatrix(t *testing.T) {
	basis := dim.Nullspace([][]int{{0, 0}}, 2)
	require.Len(t, basis, 2)
	assert.Equal(t, []float64{1, 0}, basis[0])
	assert.Equal(t, []float64{0, 1}, basis[1])
}

func TestNullspaceRationalPivots(t *testing.T) {
	// elimination passes through fractional pivots; the result scales back
	// to integers
	basis := dim.Nullspace([][]int{
		{2, 0, 3},
		{0, 2, -1},
	}, 3)
	require.Len(t, basis, 1)
	assert.Equal(t, []float64{3, -1, -2}, basis[0])
}
