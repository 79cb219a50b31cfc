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

package lazy_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/unitx/apis"
	"dirpx.dev/unitx/builder"
	"dirpx.dev/unitx/config"
	"dirpx.dev/unitx/lazy"
	"dirpx.dev/unitx/registry"
)

func TestHandleStartsPending(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	l := lazy.New(config.WithLogger(logger))
	assert.False(t, l.Touched())
	assert.Equal(t, "lazy(pending)", l.Tag())
	assert.False(t, l.Touched(), "Tag must not force materialization")
	assert.Empty(t, buf.String(), "an untouched handle does no construction work")
}

func TestFirstTouchMaterializes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	l := lazy.New(config.WithLogger(logger))

	q, err := l.Quantity("10 meter", "")
	require.NoError(t, err)
	assert.NotNil(t, q)
	assert.True(t, l.Touched())
	assert.True(t, strings.HasPrefix(l.Tag(), "registry-"))
	assert.Contains(t, buf.String(), "lazy registry materialized")
}

func TestMaterializationForcesRaisePolicy(t *testing.T) {
	// even when the options ask for a laxer policy
	l := lazy.New(config.WithOnRedefinition(apis.Ignore))
	l.Contains("meter") // touch

	assert.Equal(t, apis.Raise, l.Config().OnRedefinition)

	err := l.Define(apis.Definition{
		Name: "meter", Dimensions: map[string]int{"length": 1}, Factor: 2,
	})
	assert.ErrorIs(t, err, registry.ErrRedefinition)

	// relaxable afterwards
	l.SetOnRedefinition(apis.Ignore)
	assert.Equal(t, apis.Ignore, l.Config().OnRedefinition)
}

func TestOptionsReachTheBackingRegistry(t *testing.T) {
	l := lazy.New(config.WithDefaultSystem("cgs"))

	u, err := l.Unit("newton")
	require.NoError(t, err)
	base, err := l.BaseUnits(u)
	require.NoError(t, err)
	assert.True(t, base.Units().Equal(apis.Expression{"gram": 1, "centimeter": 1, "second": -2}))
}

func TestAllTouchPathsShareOneRegistry(t *testing.T) {
	l := lazy.New()

	_ = l.Names()
	tag1 := l.Tag()
	_, err := l.Quantity("1 meter", "")
	require.NoError(t, err)
	_, err = l.PiTheorem(map[string]string{"L": "meter", "T": "second", "g": "meter/second**2"})
	require.NoError(t, err)

	assert.Equal(t, tag1, l.Tag(), "every forwarded operation hits the same instance")
}

func TestPiTheoremParityWithEagerRegistry(t *testing.T) {
	vars := map[string]string{"L": "meter", "T": "second", "g": "meter/second**2"}

	eager, err := builder.New().BuildRegistry(config.New(), nil)
	require.NoError(t, err)
	want, err := eager.PiTheorem(vars)
	require.NoError(t, err)

	got, err := lazy.New().PiTheorem(vars)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
