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

package facet

import (
	"math"

	"dirpx.dev/unitx/apis"
)

// Dimension names used by the default definitions.
const (
	DimLength      = "length"
	DimMass        = "mass"
	DimTime        = "time"
	DimCurrent     = "current"
	DimTemperature = "temperature"
)

// DefaultDefinitions returns the embedded starter definition table loaded
// when a registry is configured with DefaultDefinitions. Full definition
// files are parsed by a collaborator-supplied Loader instead.
func DefaultDefinitions() []apis.Definition {
	dims := func(pairs ...any) map[string]int {
		m := make(map[string]int, len(pairs)/2)
		for i := 0; i < len(pairs); i += 2 {
			m[pairs[i].(string)] = pairs[i+1].(int)
		}
		return m
	}

	return []apis.Definition{
		// base units
		{Name: "meter", Aliases: []string{"m", "metre", "meters"}, Dimensions: dims(DimLength, 1), Factor: 1, IsBase: true},
		{Name: "gram", Aliases: []string{"g", "grams"}, Dimensions: dims(DimMass, 1), Factor: 1, IsBase: true},
		{Name: "second", Aliases: []string{"s", "sec", "seconds"}, Dimensions: dims(DimTime, 1), Factor: 1, IsBase: true},
		{Name: "ampere", Aliases: []string{"A", "amp"}, Dimensions: dims(DimCurrent, 1), Factor: 1, IsBase: true},
		{Name: "kelvin", Aliases: []string{"K"}, Dimensions: dims(DimTemperature, 1), Factor: 1, IsBase: true},

		// length
		{Name: "kilometer", Aliases: []string{"km"}, Dimensions: dims(DimLength, 1), Factor: 1000},
		{Name: "centimeter", Aliases: []string{"cm"}, Dimensions: dims(DimLength, 1), Factor: 0.01},
		{Name: "millimeter", Aliases: []string{"mm"}, Dimensions: dims(DimLength, 1), Factor: 0.001},
		{Name: "inch", Aliases: []string{"in", "inches"}, Dimensions: dims(DimLength, 1), Factor: 0.0254, System: "imperial"},
		{Name: "foot", Aliases: []string{"ft", "feet"}, Dimensions: dims(DimLength, 1), Factor: 0.3048, System: "imperial"},
		{Name: "yard", Aliases: []string{"yd"}, Dimensions: dims(DimLength, 1), Factor: 0.9144, System: "imperial"},
		{Name: "mile", Aliases: []string{"mi"}, Dimensions: dims(DimLength, 1), Factor: 1609.344, System: "imperial"},

		// mass
		{Name: "kilogram", Aliases: []string{"kg"}, Dimensions: dims(DimMass, 1), Factor: 1000},
		{Name: "tonne", Aliases: []string{"t"}, Dimensions: dims(DimMass, 1), Factor: 1e6},
		{Name: "pound", Aliases: []string{"lb", "lbs"}, Dimensions: dims(DimMass, 1), Factor: 453.59237, System: "imperial"},
		{Name: "ounce", Aliases: []string{"oz"}, Dimensions: dims(DimMass, 1), Factor: 28.349523125, System: "imperial"},

		// time
		{Name: "minute", Aliases: []string{"min"}, Dimensions: dims(DimTime, 1), Factor: 60},
		{Name: "hour", Aliases: []string{"h", "hr"}, Dimensions: dims(DimTime, 1), Factor: 3600},
		{Name: "day", Dimensions: dims(DimTime, 1), Factor: 86400},

		// temperature (offset units)
		{Name: "celsius", Aliases: []string{"degC", "centigrade"}, Dimensions: dims(DimTemperature, 1), Factor: 1, Offset: 273.15},
		{Name: "fahrenheit", Aliases: []string{"degF"}, Dimensions: dims(DimTemperature, 1), Factor: 5.0 / 9.0, Offset: 459.67 * 5.0 / 9.0},

		// derived
		{Name: "hertz", Aliases: []string{"Hz"}, Dimensions: dims(DimTime, -1), Factor: 1},
		{Name: "newton", Aliases: []string{"N"}, Dimensions: dims(DimMass, 1, DimLength, 1, DimTime, -2), Factor: 1000},
		{Name: "joule", Aliases: []string{"J"}, Dimensions: dims(DimMass, 1, DimLength, 2, DimTime, -2), Factor: 1000},
		{Name: "watt", Aliases: []string{"W"}, Dimensions: dims(DimMass, 1, DimLength, 2, DimTime, -3), Factor: 1000},
		{Name: "liter", Aliases: []string{"L", "litre"}, Dimensions: dims(DimLength, 3), Factor: 0.001},

		// dimensionless angles
		{Name: "radian", Aliases: []string{"rad"}, Dimensions: dims(), Factor: 1},
		{Name: "degree", Aliases: []string{"deg"}, Dimensions: dims(), Factor: math.Pi / 180},
	}
}
