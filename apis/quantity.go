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

// Quantity is a magnitude with units, permanently bound to the registry that
// created it. All behavior flows through the owning registry's facet chain;
// a quantity never reassigns its owner.
type Quantity struct {
	mag   Magnitude
	units Expression
	reg   Registry
}

// NewQuantity binds a magnitude and unit expression to an owning registry.
// Intended for registry and facet implementations; application code builds
// quantities through Registry.Quantity.
func NewQuantity(reg Registry, mag Magnitude, units Expression) *Quantity {
	return &Quantity{mag: mag, units: units.Clone(), reg: reg}
}

// Magnitude returns the magnitude.
func (q *Quantity) Magnitude() Magnitude { return q.mag }

// Units returns a copy of the unit expression.
func (q *Quantity) Units() Expression { return q.units.Clone() }

// Registry returns the owning registry.
func (q *Quantity) Registry() Registry { return q.reg }

// Add returns q + other via the owning registry.
func (q *Quantity) Add(other *Quantity) (*Quantity, error) { return q.reg.Add(q, other) }

// Sub returns q - other via the owning registry.
func (q *Quantity) Sub(other *Quantity) (*Quantity, error) { return q.reg.Sub(q, other) }

// Mul returns q * other via the owning registry.
func (q *Quantity) Mul(other *Quantity) (*Quantity, error) { return q.reg.Mul(q, other) }

// Div returns q / other via the owning registry.
func (q *Quantity) Div(other *Quantity) (*Quantity, error) { return q.reg.Div(q, other) }

// To converts q to the unit named by expr.
func (q *Quantity) To(expr string) (*Quantity, error) {
	u, err := q.reg.Unit(expr)
	if err != nil {
		return nil, err
	}
	return q.reg.Convert(q, u)
}

// String renders q through the owning registry's formatting chain.
func (q *Quantity) String() string {
	s, err := q.reg.Format(q)
	if err != nil {
		return "<quantity " + q.units.String() + ">"
	}
	return s
}

// Unit is a unit expression bound to the registry that created it.
type Unit struct {
	units Expression
	reg   Registry
}

// NewUnit binds a unit expression to an owning registry.
func NewUnit(reg Registry, units Expression) *Unit {
	return &Unit{units: units.Clone(), reg: reg}
}

// Units returns a copy of the unit expression.
func (u *Unit) Units() Expression { return u.units.Clone() }

// Registry returns the owning registry.
func (u *Unit) Registry() Registry { return u.reg }

// String renders the canonical expression.
func (u *Unit) String() string { return u.units.String() }
