// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package sourcefile

import "fmt"

// UnrecognizedFileTypeError is returned by [Open] for files without a known
// license style.
type UnrecognizedFileTypeError struct {
	Path string
}

func (e *UnrecognizedFileTypeError) Error() string {
	return fmt.Sprintf("%s is not recognized as a source file.", e.Path)
}

// CorruptHeaderError is returned when only one of the two license markers is
// present in a file.
type CorruptHeaderError struct {
	Path string
	// MissingEnd is true when the begin marker was found without an end
	// marker, and false for the opposite case.
	MissingEnd bool
}

func (e *CorruptHeaderError) Error() string {
	if e.MissingEnd {
		return fmt.Sprintf("'begin license' marker found without matching 'end license' in file %s", e.Path)
	}
	return fmt.Sprintf("'end license' marker found without matching 'begin license' in file %s", e.Path)
}
