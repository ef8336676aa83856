// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package copyright parses, merges and renders copyright lines.
package copyright

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/go-wordwrap"

	"go.astrophena.name/applylicense/years"
)

const (
	textWidth  = 79
	textIndent = "    "
)

// Record is a single copyright holder.
type Record struct {
	Name  string
	URL   string
	Years years.Set
	Text  string // optional free text rendered below the copyright line
}

func (r Record) clone() Record {
	r.Years = r.Years.Clone()
	return r
}

// Equal reports whether r and other describe the same holder with the same
// attributes and years. Texts are compared without whitespace, which wrapping
// adds and moves.
func (r Record) Equal(other Record) bool {
	return r.Name == other.Name &&
		r.URL == other.URL &&
		strings.Join(strings.Fields(r.Text), "") == strings.Join(strings.Fields(other.Text), "") &&
		r.Years.Equal(other.Years)
}

// Line renders the copyright line of r, without the text and the trailing
// newline.
func (r Record) Line() string {
	return Prefix + " " + years.Format(r.Years) + " " + r.Name + " " + r.URL
}

// Registry is a collection of copyright records keyed by holder name.
//
// Records with the same name are merged on insertion: years are joined, and
// the URL and text are taken from the record with the latest year. When the
// latest years are equal, the record added later wins.
type Registry struct {
	order  []string
	byName map[string]*Record
}

// NewRegistry builds a registry from records, in order.
func NewRegistry(records ...Record) *Registry {
	r := &Registry{byName: make(map[string]*Record, len(records))}
	for _, rec := range records {
		r.add(rec)
	}
	return r
}

func (r *Registry) add(rec Record) {
	cur, ok := r.byName[rec.Name]
	if !ok {
		c := rec.clone()
		if c.Years == nil {
			c.Years = years.Of()
		}
		r.byName[rec.Name] = &c
		r.order = append(r.order, rec.Name)
		return
	}
	if rec.Years.Max() >= cur.Years.Max() {
		cur.URL = rec.URL
		cur.Text = rec.Text
	}
	cur.Years.Union(rec.Years)
}

// Len returns the number of holders in the registry.
func (r *Registry) Len() int { return len(r.order) }

// Records returns copies of the records in insertion order.
func (r *Registry) Records() []Record {
	recs := make([]Record, 0, len(r.order))
	for _, name := range r.order {
		recs = append(recs, r.byName[name].clone())
	}
	return recs
}

// Lookup returns the record for name.
func (r *Registry) Lookup(name string) (Record, bool) {
	rec, ok := r.byName[name]
	if !ok {
		return Record{}, false
	}
	return rec.clone(), true
}

// Merge returns a new registry with the records of r followed by the records
// of other.
func (r *Registry) Merge(other *Registry) *Registry {
	return NewRegistry(append(r.Records(), other.Records()...)...)
}

// Equal reports whether r and other hold the same records, regardless of
// insertion order.
func (r *Registry) Equal(other *Registry) bool {
	if len(r.byName) != len(other.byName) {
		return false
	}
	for name, rec := range r.byName {
		o, ok := other.byName[name]
		if !ok || !rec.Equal(*o) {
			return false
		}
	}
	return true
}

// Render returns the copyright lines of all records ordered by first year
// and then name. Text is wrapped to 79 columns and indented by four spaces.
func (r *Registry) Render() string {
	recs := r.Records()
	slices.SortFunc(recs, func(a, b Record) int {
		return cmp.Or(
			cmp.Compare(a.Years.Min(), b.Years.Min()),
			strings.Compare(a.Name, b.Name),
		)
	})

	var sb strings.Builder
	for _, rec := range recs {
		sb.WriteString(rec.Line())
		sb.WriteByte('\n')
		if strings.TrimSpace(rec.Text) != "" {
			sb.WriteString(wrapText(rec.Text))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (r *Registry) String() string { return r.Render() }

// wrapText collapses whitespace in text and wraps it, indenting every line.
// Words longer than the line are broken after their last hyphen that fits, or
// at the line width when there is none.
func wrapText(text string) string {
	const width = textWidth - len(textIndent)
	flat := strings.Join(strings.Fields(text), " ")
	var lines []string
	for _, l := range strings.Split(wordwrap.WrapString(flat, uint(width)), "\n") {
		for utf8.RuneCountInString(l) > width {
			r := []rune(l)
			cut := width
			for i := width - 1; i > 0; i-- {
				if r[i] == '-' {
					cut = i + 1
					break
				}
			}
			lines = append(lines, textIndent+strings.TrimRight(string(r[:cut]), " "))
			l = strings.TrimLeft(string(r[cut:]), " ")
		}
		lines = append(lines, textIndent+l)
	}
	return strings.Join(lines, "\n")
}
