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

// PPMModel is a variable-order PPM model using the "method A" escape scheme
// (the escape symbol is always counted as a single observation). It descends
// from the maximum order down through shorter contexts on escape, falling
// back to a flat order -1 table that assigns every symbol equal probability.
//
// Grounded on original_source/encodings/ppm/{context,model}.rs and
// original_source/ppm/{context,mod}.rs; the Go shape (struct plus 'this'
// receivers) follows the teacher's entropy predictor conventions.
type PPMModel struct {
	order   int
	root    *ppmContext
	flat    *FlatFrequencyTable
	history []byte
}

// NewPPMModel creates a model with the given maximum context order.
func NewPPMModel(order int) (*PPMModel, error) {
	flat, err := NewFlatFrequencyTable(comprs.SymbolLimit)

	if err != nil {
		return nil, err
	}

	return &PPMModel{
		order: order,
		root:  newPPMContext(),
		flat:  flat,
	}, nil
}

// contextsForOrders returns, for orders k, k-1, ..., 0 (k = len(history)),
// the context reached by walking the corresponding history suffix from the
// root, or nil for an order whose suffix has not been observed yet.
func (this *PPMModel) contextsForOrders() []*ppmContext {
	k := len(this.history)

	if k > this.order {
		k = this.order
	}

	contexts := make([]*ppmContext, k+1)

	for o := 0; o <= k; o++ {
		suffix := this.history[len(this.history)-o:]
		contexts[o] = this.root.lookup(suffix)
	}

	return contexts
}

// EncodeSymbol codes symbol sym (a byte value, or comprs.Escape for EOF)
// against enc, descending from the highest available order to the flat
// order -1 table on escape, then updates the model.
func (this *PPMModel) EncodeSymbol(enc *ArithmeticEncoder, sym int) error {
	contexts := this.contextsForOrders()

	for o := len(contexts) - 1; o >= 0; o-- {
		ctx := contexts[o]

		if ctx == nil {
			continue
		}

		if sym != comprs.Escape && ctx.freqs.Get(sym) > 0 {
			if err := enc.EncodeSymbol(ctx.freqs, sym); err != nil {
				return err
			}

			this.update(sym)
			return nil
		}

		if err := enc.EncodeSymbol(ctx.freqs, comprs.Escape); err != nil {
			return err
		}
	}

	if err := enc.EncodeSymbol(this.flat, sym); err != nil {
		return err
	}

	this.update(sym)
	return nil
}

// DecodeSymbol decodes one symbol from dec, mirroring EncodeSymbol's order
// descent, then updates the model.
func (this *PPMModel) DecodeSymbol(dec *ArithmeticDecoder) (int, error) {
	contexts := this.contextsForOrders()

	for o := len(contexts) - 1; o >= 0; o-- {
		ctx := contexts[o]

		if ctx == nil {
			continue
		}

		sym, err := dec.DecodeSymbol(ctx.freqs)

		if err != nil {
			return 0, err
		}

		if sym != comprs.Escape {
			this.update(sym)
			return sym, nil
		}
	}

	sym, err := dec.DecodeSymbol(this.flat)

	if err != nil {
		return 0, err
	}

	this.update(sym)
	return sym, nil
}

// update increments frequencies[sym] in every context from order 0 up to the
// current maximum order, creating contexts lazily, then appends sym to the
// rolling history. Performed after coding, never before, so encoder and
// decoder observe identical tables at every step.
func (this *PPMModel) update(sym int) {
	k := len(this.history)

	if k > this.order {
		k = this.order
	}

	for o := 0; o <= k; o++ {
		ctx := this.root
		suffix := this.history[len(this.history)-o:]

		for _, s := range suffix {
			ctx = ctx.child(s)
		}

		ctx.freqs.Increment(sym)
	}

	if sym >= comprs.Escape || this.order == 0 {
		return
	}

	this.history = append(this.history, byte(sym))

	if len(this.history) > this.order {
		this.history = this.history[len(this.history)-this.order:]
	}
}
