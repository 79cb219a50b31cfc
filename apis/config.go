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
	"log/slog"
	"time"

	"golang.org/x/text/language"
)

// Policy selects what a registry does when a unit is defined twice.
type Policy int

const (
	// Warn logs the redefinition and keeps the newer definition.
	Warn Policy = iota
	// Raise rejects the redefinition with an error and keeps the older definition.
	Raise
	// Ignore keeps the older definition silently.
	Ignore
)

// String returns the lowercase policy name.
func (p Policy) String() string {
	switch p {
	case Warn:
		return "warn"
	case Raise:
		return "raise"
	case Ignore:
		return "ignore"
	default:
		return "unknown"
	}
}

// NumericMode selects the representation used for non-integer magnitudes.
type NumericMode int

const (
	// NumericFloat stores non-integer magnitudes as float64.
	NumericFloat NumericMode = iota
	// NumericDecimal stores non-integer magnitudes as arbitrary-precision decimals.
	NumericDecimal
)

// DefinitionsSource names where a registry's unit definitions come from.
type DefinitionsSource string

const (
	// DefaultDefinitions loads the embedded default definition table.
	DefaultDefinitions DefinitionsSource = ""
	// NoDefinitions starts the registry empty.
	NoDefinitions DefinitionsSource = "none"
)

// Preprocessor rewrites a textual input before it reaches expression parsing.
type Preprocessor func(string) string

// Loader parses an external definition source. Definition file formats are a
// collaborator concern; a registry given a file source without a Loader
// fails construction.
type Loader func(source string) ([]Definition, error)

// Config carries the construction-time knobs of a composed registry.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// Definitions selects the unit-definition source: DefaultDefinitions,
	// NoDefinitions, or any other value passed verbatim to Loader.
	Definitions DefinitionsSource

	// Loader parses non-default definition sources. Nil unless the
	// surrounding application supplies a definition-file parser.
	Loader Loader

	// Numeric selects the representation for non-integer magnitudes.
	Numeric NumericMode

	// OnRedefinition selects the redefinition-conflict policy.
	OnRedefinition Policy

	// AutoconvertOffset converts offset units to their base units in
	// multiplicative context instead of rejecting the operation.
	AutoconvertOffset bool

	// DefaultAsDelta interprets offset units in additive context as their
	// delta counterparts.
	DefaultAsDelta bool

	// CaseSensitive controls unit-name lookup. When false, lookups go
	// through a canonical lowercase index.
	CaseSensitive bool

	// DefaultSystem names the unit system used for base-unit reduction
	// when the system facet is present (e.g. "mks").
	DefaultSystem string

	// Preprocessors run in order on every textual input before parsing.
	Preprocessors []Preprocessor

	// Locale formats magnitudes for the named locale. The zero value
	// (language.Und) formats with Go defaults.
	Locale language.Tag

	// CacheTTL bounds the parsed-expression cache. Zero disables caching.
	CacheTTL time.Duration

	// ForceArray coerces scalar construction inputs to single-element arrays.
	ForceArray bool

	// Logger receives construction, redefinition, and reconfiguration events.
	// Nil falls back to slog.Default().
	Logger *slog.Logger
}
