/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package entropy

import "github.com/arnegard/comprs"

// ppmContext is one node of the PPM context tree: a frequency table over the
// full alphabet (symbols 0..255 plus the escape marker) plus lazily created
// children, one per symbol observed in this context so far. Grounded on
// original_source's ppm/context.rs: the escape count starts at 1 so that a
// freshly created context always assigns a non-zero probability to escape,
// and children are created on first sight of a symbol, never pre-allocated.
type ppmContext struct {
	freqs    *SimpleFrequencyTable
	children map[byte]*ppmContext
}

func newPPMContext() *ppmContext {
	freqs, _ := NewSimpleFrequencyTableOfSize(comprs.SymbolLimit)
	freqs.Set(comprs.Escape, 1)
	return &ppmContext{freqs: freqs, children: make(map[byte]*ppmContext)}
}

// child returns the child context for sym, creating it if necessary.
func (this *ppmContext) child(sym byte) *ppmContext {
	c, ok := this.children[sym]

	if !ok {
		c = newPPMContext()
		this.children[sym] = c
	}

	return c
}

// lookup walks history (oldest first) from this context, returning the
// context reached, or nil if any step of the walk has not been observed yet.
func (this *ppmContext) lookup(history []byte) *ppmContext {
	c := this

	for _, sym := range history {
		next, ok := c.children[sym]

		if !ok {
			return nil
		}

		c = next
	}

	return c
}
