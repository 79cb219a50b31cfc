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

// Package config builds registry configurations from functional options on
// top of sensible defaults.
package config

import (
	"log/slog"
	"time"

	"golang.org/x/text/language"

	"dirpx.dev/unitx/apis"
)

// Option mutates a configuration under construction.
type Option func(*apis.Config)

// Default returns the baseline configuration: built-in definitions, float
// numerics, warn-and-replace on redefinition, case-sensitive lookups, strict
// offset handling with bare offset units treated as deltas in addition, no
// unit system, no locale, expression caching disabled.
func Default() apis.Config {
	return apis.Config{
		Definitions:    apis.DefaultDefinitions,
		Numeric:        apis.NumericFloat,
		OnRedefinition: apis.Warn,
		DefaultAsDelta: true,
		CaseSensitive:  true,
		Locale:         language.Und,
	}
}

// New applies options over Default.
func New(opts ...Option) apis.Config {
	cfg := Default()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithoutDefinitions starts the registry empty.
func WithoutDefinitions() Option {
	return func(c *apis.Config) { c.Definitions = apis.NoDefinitions }
}

// WithLoader supplies the unit definitions instead of the built-in set.
func WithLoader(l apis.Loader) Option {
	return func(c *apis.Config) { c.Loader = l }
}

// WithNumeric selects the numeric mode for parsed non-integer literals.
func WithNumeric(m apis.NumericMode) Option {
	return func(c *apis.Config) { c.Numeric = m }
}

// WithOnRedefinition sets the policy applied when a unit is defined twice.
func WithOnRedefinition(p apis.Policy) Option {
	return func(c *apis.Config) { c.OnRedefinition = p }
}

// WithAutoconvertOffset converts offset-unit operands to base units in
// multiplication and division instead of rejecting them.
func WithAutoconvertOffset(v bool) Option {
	return func(c *apis.Config) { c.AutoconvertOffset = v }
}

// WithDefaultAsDelta controls whether bare offset units act as deltas in
// addition and subtraction.
func WithDefaultAsDelta(v bool) Option {
	return func(c *apis.Config) { c.DefaultAsDelta = v }
}

// WithCaseSensitive controls case sensitivity of unit lookups.
func WithCaseSensitive(v bool) Option {
	return func(c *apis.Config) { c.CaseSensitive = v }
}

// WithDefaultSystem selects the unit system targeted by base-unit reduction.
func WithDefaultSystem(name string) Option {
	return func(c *apis.Config) { c.DefaultSystem = name }
}

// WithPreprocessor appends a string rewrite applied before parsing.
func WithPreprocessor(p apis.Preprocessor) Option {
	return func(c *apis.Config) { c.Preprocessors = append(c.Preprocessors, p) }
}

// WithLocale sets the locale used for number formatting.
func WithLocale(tag language.Tag) Option {
	return func(c *apis.Config) { c.Locale = tag }
}

// WithLocaleString parses a BCP 47 tag ("de", "en-US") and sets the locale.
// Unparseable input leaves the locale unset.
func WithLocaleString(s string) Option {
	return func(c *apis.Config) {
		if tag, err := language.Parse(s); err == nil {
			c.Locale = tag
		}
	}
}

// WithCacheTTL enables parsed-expression caching with the given lifetime.
func WithCacheTTL(d time.Duration) Option {
	return func(c *apis.Config) { c.CacheTTL = d }
}

// WithForceArray promotes scalar inputs to single-element arrays.
func WithForceArray(v bool) Option {
	return func(c *apis.Config) { c.ForceArray = v }
}

// WithLogger routes registry logging to the given logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *apis.Config) { c.Logger = l }
}
