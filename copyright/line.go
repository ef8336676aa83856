// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package copyright

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.astrophena.name/applylicense/years"
)

// ErrMalformedLine is returned by [ParseLine] when the input does not follow
// the copyright line grammar.
var ErrMalformedLine = errors.New("malformed copyright line")

// Prefix starts every copyright line.
const Prefix = "Copyright (C)"

var lineRe = regexp.MustCompile(`(?s)^\s*Copyright \(C\)\s+` +
	`(?P<years>\d{4}(?:(?:-|,\s*)\d{4})*)\s+` +
	`(?P<name>\S.*?\S)\s+` +
	`(?P<url>https?://\S+)` +
	`(?:\s+(?P<text>.+))?$`)

// LineMatch holds the raw fields of a copyright line.
type LineMatch struct {
	Years string
	Name  string
	URL   string
	Text  string // empty when the line has no trailing text
}

// MatchLine splits a copyright line into its fields. The trailing text may
// span several lines and is kept verbatim apart from surrounding space.
func MatchLine(line string) (LineMatch, bool) {
	m := lineRe.FindStringSubmatch(line)
	if m == nil {
		return LineMatch{}, false
	}
	return LineMatch{
		Years: m[lineRe.SubexpIndex("years")],
		Name:  m[lineRe.SubexpIndex("name")],
		URL:   m[lineRe.SubexpIndex("url")],
		Text:  strings.TrimSpace(m[lineRe.SubexpIndex("text")]),
	}, true
}

// ParseLine parses a line like
//
//	Copyright (C) 2003, 2007-2009 Some Holder https://example.com optional text
//
// into a [Record].
func ParseLine(line string) (Record, error) {
	lm, ok := MatchLine(line)
	if !ok {
		return Record{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}
	ys, err := years.Parse(lm.Years)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrMalformedLine, err)
	}
	return Record{
		Name:  lm.Name,
		URL:   lm.URL,
		Years: ys,
		Text:  lm.Text,
	}, nil
}
