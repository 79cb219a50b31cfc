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
	"sort"
	"strconv"
	"strings"
)

// Expression is a unit expression: canonical unit names mapped to integer
// exponents. The empty expression is dimensionless.
type Expression map[string]int

// Clone returns an independent copy of e.
func (e Expression) Clone() Expression {
	out := make(Expression, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Combine merges other into a copy of e with the given sign (+1 for
// multiplication, -1 for division). Entries that cancel are dropped.
func (e Expression) Combine(other Expression, sign int) Expression {
	out := e.Clone()
	for k, v := range other {
		out[k] += sign * v
		if out[k] == 0 {
			delete(out, k)
		}
	}
	return out
}

// Pow raises every exponent by n. Pow(0) yields the dimensionless expression.
func (e Expression) Pow(n int) Expression {
	out := make(Expression, len(e))
	if n == 0 {
		return out
	}
	for k, v := range e {
		out[k] = v * n
	}
	return out
}

// Equal reports whether e and other carry identical exponents.
func (e Expression) Equal(other Expression) bool {
	if len(e) != len(other) {
		return false
	}
	for k, v := range e {
		if other[k] != v {
			return false
		}
	}
	return true
}

// String renders the expression canonically: names sorted, "**" exponents,
// e.g. "meter*second**-2". The dimensionless expression renders as
// "dimensionless".
func (e Expression) String() string {
	if len(e) == 0 {
		return "dimensionless"
	}
	names := make([]string, 0, len(e))
	for k := range e {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, n := range names {
		if i > 0 {
			b.WriteByte('*')
		}
		b.WriteString(n)
		if exp := e[n]; exp != 1 {
			b.WriteString("**")
			b.WriteString(strconv.Itoa(exp))
		}
	}
	return b.String()
}
