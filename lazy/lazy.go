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

// Package lazy provides a registry handle that defers the expensive registry
// construction until the first operation that needs it. Constructing the
// handle is free; the backing registry is built exactly once, on first touch,
// under the Raise redefinition policy so that definitions queued before the
// build surface conflicts loudly instead of silently replacing defaults.
package lazy

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"dirpx.dev/unitx/apis"
	"dirpx.dev/unitx/builder"
	"dirpx.dev/unitx/config"
)

// Registry is the deferred-construction handle. The zero value is not usable;
// create handles with New. Safe for concurrent use: racing first touches
// build the backing registry exactly once.
type Registry struct {
	opts []config.Option

	once    sync.Once
	touched atomic.Bool
	target  apis.Registry
	err     error
}

var _ apis.Registry = (*Registry)(nil)

// New creates a pending handle. The options are applied when the backing
// registry is materialized; a redefinition policy option is overridden to
// Raise for the build and can be relaxed afterwards with SetOnRedefinition.
func New(opts ...config.Option) *Registry {
	return &Registry{opts: opts}
}

// Touched reports whether the backing registry has been materialized. It
// never triggers materialization itself.
func (l *Registry) Touched() bool { return l.touched.Load() }

func (l *Registry) registry() (apis.Registry, error) {
	l.once.Do(func() {
		opts := make([]config.Option, 0, len(l.opts)+1)
		opts = append(opts, l.opts...)
		opts = append(opts, config.WithOnRedefinition(apis.Raise))
		cfg := config.New(opts...)

		reg, err := builder.New().BuildRegistry(cfg, nil)
		if err != nil {
			l.err = err
			return
		}
		l.target = reg
		l.touched.Store(true)

		logger := cfg.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Debug("lazy registry materialized", "registry", reg.Tag())
	})
	return l.target, l.err
}

// Tag identifies the handle without forcing construction: "lazy(pending)"
// until the first touch, the backing registry's tag afterwards.
func (l *Registry) Tag() string {
	if !l.touched.Load() {
		return "lazy(pending)"
	}
	return l.target.Tag()
}

func (l *Registry) Quantity(value any, units string) (*apis.Quantity, error) {
	r, err := l.registry()
	if err != nil {
		return nil, err
	}
	return r.Quantity(value, units)
}

func (l *Registry) Unit(expr string) (*apis.Unit, error) {
	r, err := l.registry()
	if err != nil {
		return nil, err
	}
	return r.Unit(expr)
}

func (l *Registry) Define(def apis.Definition) error {
	r, err := l.registry()
	if err != nil {
		return err
	}
	return r.Define(def)
}

func (l *Registry) Lookup(name string) (apis.Definition, bool) {
	r, err := l.registry()
	if err != nil {
		return apis.Definition{}, false
	}
	return r.Lookup(name)
}

func (l *Registry) Contains(name string) bool {
	r, err := l.registry()
	if err != nil {
		return false
	}
	return r.Contains(name)
}

func (l *Registry) Names() []string {
	r, err := l.registry()
	if err != nil {
		return nil
	}
	return r.Names()
}

func (l *Registry) Dimensionality(e apis.Expression) (map[string]int, error) {
	r, err := l.registry()
	if err != nil {
		return nil, err
	}
	return r.Dimensionality(e)
}

func (l *Registry) Add(a, b *apis.Quantity) (*apis.Quantity, error) {
	r, err := l.registry()
	if err != nil {
		return nil, err
	}
	return r.Add(a, b)
}

func (l *Registry) Sub(a, b *apis.Quantity) (*apis.Quantity, error) {
	r, err := l.registry()
	if err != nil {
		return nil, err
	}
	return r.Sub(a, b)
}

func (l *Registry) Mul(a, b *apis.Quantity) (*apis.Quantity, error) {
	r, err := l.registry()
	if err != nil {
		return nil, err
	}
	return r.Mul(a, b)
}

func (l *Registry) Div(a, b *apis.Quantity) (*apis.Quantity, error) {
	r, err := l.registry()
	if err != nil {
		return nil, err
	}
	return r.Div(a, b)
}

func (l *Registry) Convert(q *apis.Quantity, to *apis.Unit) (*apis.Quantity, error) {
	r, err := l.registry()
	if err != nil {
		return nil, err
	}
	return r.Convert(q, to)
}

func (l *Registry) Format(q *apis.Quantity) (string, error) {
	r, err := l.registry()
	if err != nil {
		return "", err
	}
	return r.Format(q)
}

func (l *Registry) BaseUnits(u *apis.Unit) (*apis.Unit, error) {
	r, err := l.registry()
	if err != nil {
		return nil, err
	}
	return r.BaseUnits(u)
}

func (l *Registry) PiTheorem(vars map[string]string) ([]map[string]float64, error) {
	r, err := l.registry()
	if err != nil {
		return nil, err
	}
	return r.PiTheorem(vars)
}

func (l *Registry) AddContext(name string, defs []apis.Definition) error {
	r, err := l.registry()
	if err != nil {
		return err
	}
	return r.AddContext(name, defs)
}

func (l *Registry) EnableContext(names ...string) error {
	r, err := l.registry()
	if err != nil {
		return err
	}
	return r.EnableContext(names...)
}

func (l *Registry) DisableContext(names ...string) {
	r, err := l.registry()
	if err != nil {
		return
	}
	r.DisableContext(names...)
}

func (l *Registry) Config() apis.Config {
	r, err := l.registry()
	if err != nil {
		return apis.Config{}
	}
	return r.Config()
}

func (l *Registry) SetOnRedefinition(p apis.Policy) {
	r, err := l.registry()
	if err != nil {
		return
	}
	r.SetOnRedefinition(p)
}
