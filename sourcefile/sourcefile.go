// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package sourcefile finds, parses and rewrites license blocks in source
// files.
//
// A license block is delimited by a begin and an end marker line that depend
// on the comment syntax of the file (see [Style]):
//
//	## begin license ##
//	#
//	# All rights reserved.
//	#
//	# Copyright (C) 2007 CQ2 http://cq2.nl
//	#
//	## end license ##
package sourcefile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/natefinch/atomic"

	"go.astrophena.name/applylicense/copyright"
	"go.astrophena.name/applylicense/license"
	"go.astrophena.name/applylicense/logger"
)

// File is a source file loaded into memory.
type File struct {
	Path  string // absolute
	Style Style

	lines []string
}

// Open reads the file at path. It returns an [*UnrecognizedFileTypeError] if
// no license style is known for the file.
func Open(path string) (*File, error) {
	style, ok, err := ResolveStyle(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &UnrecognizedFileTypeError{Path: filepath.ToSlash(path)}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	return &File{
		Path:  abs,
		Style: style,
		lines: strings.Split(string(data), "\n"),
	}, nil
}

// Lines returns a copy of the lines of the file.
func (f *File) Lines() []string { return slices.Clone(f.lines) }

// FindMarkers locates the license block, see [Locate].
func (f *File) FindMarkers() (Region, error) {
	r, err := Locate(f.lines, f.Style)
	var che *CorruptHeaderError
	if errors.As(err, &che) {
		che.Path = f.Path
	}
	return r, err
}

// ReplaceLines replaces lines start through end (inclusive) with repl. An
// end of start-1 inserts repl before line start.
func (f *File) ReplaceLines(start, end int, repl []string) {
	f.lines = replaceLines(f.lines, start, end, repl)
}

func replaceLines(lines []string, start, end int, repl []string) []string {
	out := make([]string, 0, len(lines)-(end-start+1)+len(repl))
	out = append(out, lines[:start]...)
	out = append(out, repl...)
	return append(out, lines[end+1:]...)
}

// Copyrights returns the copyright records in the license block of the file.
// Lines that are not valid copyright lines are skipped.
func (f *File) Copyrights(ctx context.Context) ([]copyright.Record, error) {
	r, err := f.FindMarkers()
	if err != nil {
		return nil, err
	}
	var recs []copyright.Record
	for _, line := range joinContinuations(f.blockLines(r)) {
		rec, err := copyright.ParseLine(line)
		if err != nil {
			logger.Warn(ctx, "Dropping malformed copyright line", slog.String("file", f.Path), slog.Any("err", err))
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// blockLines returns the contents of the license block in r with the style
// prefix removed. The marker lines and the separator lines next to them are
// left out.
func (f *File) blockLines(r Region) []string {
	if !r.Found {
		return nil
	}
	inner := f.lines[r.Start+1 : r.EndMarker]
	if len(inner) > 0 && isBlank(f.stripPrefix(inner[0])) {
		inner = inner[1:]
	}
	if len(inner) > 0 && isBlank(f.stripPrefix(inner[len(inner)-1])) {
		inner = inner[:len(inner)-1]
	}
	out := make([]string, len(inner))
	for i, line := range inner {
		out[i] = f.stripPrefix(line)
	}
	return out
}

// stripPrefix cuts as many bytes as the style prefix is long.
func (f *File) stripPrefix(line string) string {
	if n := len(f.Style.Prefix); len(line) > n {
		return line[n:]
	}
	return ""
}

// joinContinuations groups each copyright line with the indented lines that
// follow it. A blank line ends the copyright lines; an unindented line ends
// the continuation of the current one.
func joinContinuations(lines []string) []string {
	var (
		out    []string
		indent int
		open   bool
	)
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		ind := len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
		switch {
		case strings.HasPrefix(trimmed, copyright.Prefix):
			out = append(out, trimmed)
			indent, open = ind, true
		case len(out) == 0:
		case trimmed == "":
			return out
		case open && ind > indent:
			out[len(out)-1] += " " + trimmed
		default:
			open = false
		}
	}
	return out
}

// UpdateOptions control [File.MaybeUpdateLicense].
type UpdateOptions struct {
	// Force rewrites the block even if the copyrights did not change.
	Force bool
	// DryRun reports the update without touching the file.
	DryRun bool
}

// MaybeUpdateLicense merges the copyrights found in the file with
// configured and rewrites the license block if the result differs from what
// the file has, or if opts.Force is set. It reports whether the file was (or,
// in a dry run, would be) updated.
func (f *File) MaybeUpdateLicense(ctx context.Context, tmpl license.Template, configured *copyright.Registry, opts UpdateOptions) (bool, error) {
	recs, err := f.Copyrights(ctx)
	if err != nil {
		return false, err
	}
	current := copyright.NewRegistry(recs...)
	merged := current.Merge(configured)
	if merged.Equal(current) && !opts.Force {
		return false, nil
	}
	if opts.DryRun {
		return true, nil
	}
	return true, f.UpdateLicense(tmpl, merged)
}

// UpdateLicense replaces the license block of the file, or inserts one, with
// tmpl filled with the copyrights of reg, and writes the file.
func (f *File) UpdateLicense(tmpl license.Template, reg *copyright.Registry) error {
	r, err := f.FindMarkers()
	if err != nil {
		return err
	}
	lines := replaceLines(f.lines, r.Start, r.End, f.block(tmpl, reg))
	if err := f.write(lines); err != nil {
		return fmt.Errorf("writing %s: %w", f.Path, err)
	}
	f.lines = lines
	return nil
}

// block renders a complete license block followed by an empty line.
func (f *File) block(tmpl license.Template, reg *copyright.Registry) []string {
	body := strings.Split(tmpl.Fill(reg.Render()), "\n")
	block := make([]string, 0, len(body)+3)
	block = append(block, f.Style.Begin)
	for _, l := range body {
		block = append(block, f.Style.Prefix+l)
	}
	block = append(block, f.Style.End, "")
	for i, l := range block {
		block[i] = strings.TrimRightFunc(l, unicode.IsSpace)
	}
	return block
}

// write stores lines in a temporary file next to the original, copies the
// mode and owner of the original onto it and moves it into place.
func (f *File) write(lines []string) error {
	info, err := os.Stat(f.Path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.Path), "."+filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op after a successful replace

	if _, err := tmp.WriteString(strings.Join(lines, "\n")); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(info.Mode()); err != nil {
		tmp.Close()
		return err
	}
	if err := copyOwner(tmp, info); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return atomic.ReplaceFile(tmp.Name(), f.Path)
}
