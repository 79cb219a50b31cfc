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

// Package dim provides exact linear algebra over dimension-exponent matrices.
package dim

import "math/big"

// Nullspace returns a basis for the nullspace of the integer matrix m with n
// columns, one vector per free column. Elimination is exact over rationals;
// each basis vector is scaled to the smallest integer form with a positive
// leading entry, then returned as float64.
func Nullspace(m [][]int, n int) [][]float64 {
	rows := len(m)
	a := make([][]*big.Rat, rows)
	for i := range m {
		a[i] = make([]*big.Rat, n)
		for j := 0; j < n; j++ {
			a[i][j] = new(big.Rat).SetInt64(int64(m[i][j]))
		}
	}

	// Reduced row echelon form, tracking pivot columns.
	pivotCols := make([]int, 0, n)
	row := 0
	for col := 0; col < n && row < rows; col++ {
		pivot := -1
		for i := row; i < rows; i++ {
			if a[i][col].Sign() != 0 {
				pivot = i
				break
			}
		}
		if pivot < 0 {
			continue
		}
		a[row], a[pivot] = a[pivot], a[row]

		inv := new(big.Rat).Inv(a[row][col])
		for j := col; j < n; j++ {
			a[row][j].Mul(a[row][j], inv)
		}
		for i := 0; i < rows; i++ {
			if i == row || a[i][col].Sign() == 0 {
				continue
			}
			f := new(big.Rat).Set(a[i][col])
			for j := col; j < n; j++ {
				t := new(big.Rat).Mul(f, a[row][j])
				a[i][j].Sub(a[i][j], t)
			}
		}
		pivotCols = append(pivotCols, col)
		row++
	}

	isPivot := make([]bool, n)
	for _, c := range pivotCols {
		isPivot[c] = true
	}

	var basis [][]float64
	for free := 0; free < n; free++ {
		if isPivot[free] {
			continue
		}
		vec := make([]*big.Rat, n)
		for j := range vec {
			vec[j] = new(big.Rat)
		}
		vec[free].SetInt64(1)
		for i, c := range pivotCols {
			vec[c].Neg(a[i][free])
		}
		basis = append(basis, normalize(vec))
	}
	return basis
}

// normalize scales a rational vector to coprime integers with a positive
// first nonzero entry.
func normalize(vec []*big.Rat) []float64 {
	lcm := big.NewInt(1)
	for _, v := range vec {
		if v.Sign() != 0 {
			lcm = lcmInt(lcm, v.Denom())
		}
	}
	ints := make([]*big.Int, len(vec))
	gcd := new(big.Int)
	for j, v := range vec {
		scaled := new(big.Rat).Mul(v, new(big.Rat).SetInt(lcm))
		ints[j] = new(big.Int).Set(scaled.Num())
		gcd.GCD(nil, nil, gcd, new(big.Int).Abs(ints[j]))
	}
	if gcd.Sign() == 0 {
		gcd.SetInt64(1)
	}

	sign := int64(1)
	for _, iv := range ints {
		if iv.Sign() != 0 {
			if iv.Sign() < 0 {
				sign = -1
			}
			break
		}
	}

	out := make([]float64, len(vec))
	for j, iv := range ints {
		q := new(big.Int).Quo(iv, gcd)
		out[j] = float64(sign * q.Int64())
	}
	return out
}

func lcmInt(a, b *big.Int) *big.Int {
	g := new(big.Int).GCD(nil, nil, a, b)
	out := new(big.Int).Mul(a, b)
	return out.Div(out, g)
}
