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

import "fmt"

// CrossRegistryError reports an operation mixing values bound to different
// registries. Both registry tags are named; the operation never silently
// picks one side.
type CrossRegistryError struct {
	// Op is the attempted operation ("add", "convert", ...).
	Op string
	// Left and Right are the tags of the two registries involved.
	Left, Right string
}

// Error implements the error interface.
func (e *CrossRegistryError) Error() string {
	return fmt.Sprintf("unitx: cannot %s quantities from different registries (%s vs %s)",
		e.Op, e.Left, e.Right)
}
