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

// Package facet holds the capability facets composed into a unit registry.
//
// Each facet contributes behavior to the Quantity, Unit, and Registry sides
// of the composed type by implementing a subset of the capability interfaces
// in package apis. The full stack, most-specific first, is:
//
//	system > context > lazyarray > array > measurement > nonmultiplicative > plain
//
// The plain facet is the baseline: it covers every core operation for scalar
// and decimal magnitudes and loads unit definitions during registry setup.
// More-specific facets either shadow it for the inputs they own (arrays,
// measurements, offset units) or cooperatively delegate the parts they do
// not care about by calling the next continuation they receive.
package facet
