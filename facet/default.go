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

import "dirpx.dev/unitx/apis"

// Default returns the full facet stack in precedence order, most-specific
// first. When two facets define the same operation, the earlier one wins
// unless it cooperatively delegates.
func Default() []apis.Facet {
	return []apis.Facet{
		NewSystem(),
		NewContext(),
		NewLazyArray(),
		NewArray(),
		NewMeasurement(),
		NewNonMultiplicative(),
		NewPlain(),
	}
}
