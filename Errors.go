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

package comprs

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers should use errors.Is against these rather than
// matching error strings.
var (
	// ErrIO wraps a failure from an underlying io.Reader/io.Writer.
	ErrIO = errors.New("i/o error")

	// ErrCorruptInput is returned by Decode when the envelope, a BWT chunk
	// header or a decoded symbol is outside its valid range.
	ErrCorruptInput = errors.New("corrupt input")

	// ErrInvariant is returned when an internal coder invariant is violated;
	// this indicates a defect in the implementation, not bad input.
	ErrInvariant = errors.New("internal invariant violated")
)

// WrapIO wraps err as an ErrIO, or returns nil if err is nil.
func WrapIO(err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%w: %v", ErrIO, err)
}

// WrapCorrupt wraps a description as an ErrCorruptInput.
func WrapCorrupt(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrCorruptInput, fmt.Sprintf(format, args...))
}

// WrapInvariant wraps a description as an ErrInvariant.
func WrapInvariant(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
}
