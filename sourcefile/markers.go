// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package sourcefile

import (
	"strings"
	"unicode"
)

// Region is a range of lines holding a license block, or the place where a
// new block goes.
//
// End is inclusive. A Region with End == Start-1 covers no lines: the block
// is inserted before line Start.
type Region struct {
	Start, End int
	// Found is true when both markers are present. EndMarker is then the
	// index of the end marker line; End may go one further to cover the
	// blank line after it.
	Found     bool
	EndMarker int
}

// Empty reports whether r covers no lines.
func (r Region) Empty() bool { return r.End < r.Start }

// Locate finds the license block of style in lines. The first begin marker
// and the first end marker in the file are used, independently of each
// other. Without markers, Locate returns the insertion point: after a
// shebang or PHP open tag and after an encoding declaration. A blank line at
// the insertion point is included in the region.
//
// The returned error is a [*CorruptHeaderError] without a path.
func Locate(lines []string, style Style) (Region, error) {
	begin, end := -1, -1
	for i, line := range lines {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if begin < 0 && line == style.Begin {
			begin = i
		}
		if line == style.End {
			end = i
			break
		}
	}

	switch {
	case begin < 0 && end < 0:
		return insertionPoint(lines), nil
	case begin < 0:
		return Region{}, &CorruptHeaderError{}
	case end < 0:
		return Region{}, &CorruptHeaderError{MissingEnd: true}
	}

	r := Region{Start: begin, End: end, Found: true, EndMarker: end}
	if end+1 < len(lines) && isBlank(lines[end+1]) {
		r.End++
	}
	return r, nil
}

func insertionPoint(lines []string) Region {
	at := func(i int) string {
		if i < len(lines) {
			return lines[i]
		}
		return ""
	}

	i := 0
	if l := at(i); strings.HasPrefix(l, "#!") || strings.HasPrefix(l, "<?php") {
		i++
	}
	if isEncodingLine(at(i)) {
		i++
	}
	end := i
	if i < len(lines) && isBlank(lines[i]) {
		end++
	}
	return Region{Start: i, End: end - 1}
}

// isEncodingLine reports whether line is a Python source encoding
// declaration (PEP 263).
func isEncodingLine(line string) bool {
	return strings.HasPrefix(line, "#") &&
		(strings.Contains(line, "coding:") || strings.Contains(line, "coding="))
}

func isBlank(line string) bool { return strings.TrimSpace(line) == "" }
