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

package compose_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/unitx/apis"
	"dirpx.dev/unitx/compose"
)

// recorder collects the order in which fake facets run.
type recorder struct {
	calls []string
}

type fakeBase struct {
	name string
	reqs []string
	rec  *recorder
}

func (f fakeBase) Name() string       { return f.name }
func (f fakeBase) Requires() []string { return f.reqs }

// terminal implements every capability and handles float64 coercion itself;
// other inputs are delegated.
type terminal struct{ fakeBase }

func (f terminal) Coerce(next apis.CoerceFunc, _ apis.RegistryState, value any) (apis.Magnitude, error) {
	f.rec.calls = append(f.rec.calls, f.name+".coerce")
	if v, ok := value.(float64); ok {
		return apis.Scalar(v), nil
	}
	return next(value)
}

func (f terminal) Add(_ apis.BinaryFunc, _ apis.RegistryState, a, _ *apis.Quantity) (*apis.Quantity, error) {
	f.rec.calls = append(f.rec.calls, f.name+".add")
	return a, nil
}

func (f terminal) Sub(_ apis.BinaryFunc, _ apis.RegistryState, a, _ *apis.Quantity) (*apis.Quantity, error) {
	return a, nil
}

func (f terminal) Mul(_ apis.BinaryFunc, _ apis.RegistryState, a, _ *apis.Quantity) (*apis.Quantity, error) {
	return a, nil
}

func (f terminal) Div(_ apis.BinaryFunc, _ apis.RegistryState, a, _ *apis.Quantity) (*apis.Quantity, error) {
	return a, nil
}

func (f terminal) Convert(_ apis.ConvertFunc, _ apis.RegistryState, q *apis.Quantity, _ *apis.Unit) (*apis.Quantity, error) {
	return q, nil
}

func (f terminal) Format(_ apis.FormatFunc, _ apis.RegistryState, _ *apis.Quantity) (string, error) {
	f.rec.calls = append(f.rec.calls, f.name+".format")
	return f.name, nil
}

func (f terminal) BaseUnits(_ apis.ReduceFunc, _ apis.RegistryState, u *apis.Unit) (*apis.Unit, error) {
	return u, nil
}

func (f terminal) Init(apis.RegistryState) error {
	f.rec.calls = append(f.rec.calls, f.name+".init")
	return nil
}

// passthrough implements coercion and formatting but always delegates.
type passthrough struct{ fakeBase }

func (f passthrough) Coerce(next apis.CoerceFunc, _ apis.RegistryState, value any) (apis.Magnitude, error) {
	f.rec.calls = append(f.rec.calls, f.name+".coerce")
	return next(value)
}

func (f passthrough) Format(next apis.FormatFunc, _ apis.RegistryState, q *apis.Quantity) (string, error) {
	f.rec.calls = append(f.rec.calls, f.name+".format")
	return next(q)
}

func (f passthrough) Init(apis.RegistryState) error {
	f.rec.calls = append(f.rec.calls, f.name+".init")
	return nil
}

func TestNewRejectsEmptyList(t *testing.T) {
	_, err := compose.New()
	assert.ErrorIs(t, err, compose.ErrNoFacets)

	_, err = compose.New(nil, nil)
	assert.ErrorIs(t, err, compose.ErrNoFacets)
}

func TestNewRejectsDuplicateNames(t *testing.T) {
	rec := &recorder{}
	_, err := compose.New(
		terminal{fakeBase{name: "core", rec: rec}},
		terminal{fakeBase{name: "core", rec: rec}},
	)
	assert.ErrorIs(t, err, compose.ErrDuplicateFacet)
}

func TestNewRejectsUnsatisfiedRequires(t *testing.T) {
	rec := &recorder{}

	// requirement names a missing facet
	_, err := compose.New(
		terminal{fakeBase{name: "top", reqs: []string{"missing"}, rec: rec}},
	)
	assert.ErrorIs(t, err, compose.ErrUnsatisfiedRequire)

	// requirement appears earlier, not later
	_, err = compose.New(
		terminal{fakeBase{name: "core", rec: rec}},
		passthrough{fakeBase{name: "top", reqs: []string{"core"}, rec: rec}},
	)
	assert.ErrorIs(t, err, compose.ErrUnsatisfiedRequire)

	// self-requirement is never satisfiable
	_, err = compose.New(
		terminal{fakeBase{name: "core", reqs: []string{"core"}, rec: rec}},
	)
	assert.ErrorIs(t, err, compose.ErrUnsatisfiedRequire)
}

func TestNewRejectsUncoveredOperations(t *testing.T) {
	rec := &recorder{}
	// passthrough alone covers coerce and format but no arithmetic,
	// conversion, or reduction.
	_, err := compose.New(passthrough{fakeBase{name: "only", rec: rec}})
	assert.ErrorIs(t, err, compose.ErrUncoveredOperation)
}

func TestDispatchPrecedence(t *testing.T) {
	rec := &recorder{}
	c, err := compose.New(
		passthrough{fakeBase{name: "top", reqs: []string{"core"}, rec: rec}},
		terminal{fakeBase{name: "core", rec: rec}},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"top", "core"}, c.Facets())

	m, err := c.Coerce(nil, 4.5)
	require.NoError(t, err)
	assert.Equal(t, apis.Scalar(4.5), m)
	assert.Equal(t, []string{"top.coerce", "core.coerce"}, rec.calls,
		"earlier facet runs first and delegates down the chain")
}

func TestDispatchChainExhausted(t *testing.T) {
	rec := &recorder{}
	c, err := compose.New(terminal{fakeBase{name: "core", rec: rec}})
	require.NoError(t, err)

	_, err = c.Coerce(nil, struct{}{})
	assert.ErrorIs(t, err, compose.ErrChainExhausted)
}

func TestShadowedReportsLaterImplementers(t *testing.T) {
	rec := &recorder{}
	c, err := compose.New(
		terminal{fakeBase{name: "first", rec: rec}},
		terminal{fakeBase{name: "second", rec: rec}},
	)
	require.NoError(t, err)

	shadowed := c.Shadowed()
	assert.Equal(t, []string{"second"}, shadowed[apis.OpFormat])
	assert.NotContains(t, shadowed, apis.OpInit,
		"setup is not shadowed; every initializer runs")

	// first shadows second: format never reaches it
	out, err := c.Format(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "first", out)
}

func TestSetupRunsLeastSpecificFirst(t *testing.T) {
	rec := &recorder{}
	c, err := compose.New(
		passthrough{fakeBase{name: "top", reqs: []string{"core"}, rec: rec}},
		terminal{fakeBase{name: "core", rec: rec}},
	)
	require.NoError(t, err)

	require.NoError(t, c.Setup(nil))
	assert.Equal(t, []string{"core.init", "top.init"}, rec.calls,
		"the facet delegated to initializes before the facet depending on it")
}
