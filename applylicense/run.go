// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package applylicense applies license blocks to files and directory trees.
package applylicense

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go4org/hashtriemap"

	"go.astrophena.name/applylicense/copyright"
	"go.astrophena.name/applylicense/internal/git"
	"go.astrophena.name/applylicense/license"
	"go.astrophena.name/applylicense/logger"
	"go.astrophena.name/applylicense/sourcefile"
)

// IgnoredDirs are directory names that are never descended into.
var IgnoredDirs = []string{".git", ".svn", "deps.d", "__pycache__"}

// Options control a [Runner].
type Options struct {
	// Force rewrites license blocks even if their copyrights are up to date.
	Force bool
	// DryRun reports updates without writing files.
	DryRun bool
	// ChangedOnly restricts the run to files Git reports as modified.
	ChangedOnly bool
	// Year stamps the configured holders. Zero means the current year.
	Year int
	// Select is a comma-separated list of holder keys, see [Config.Holders].
	Select string
}

// Skip is a path that was left alone, with the message printed for it.
type Skip struct {
	Path    string
	Message string
}

// Summary describes the outcome of a run.
type Summary struct {
	License    string
	Copyrights []copyright.Record
	DryRun     bool
	Updated    []string
	Skipped    []Skip
}

// Runner applies a configured license to files.
type Runner struct {
	out        io.Writer
	licenseKey string
	tmpl       license.Template
	configured *copyright.Registry
	opts       Options
	exclude    []string

	seen    hashtriemap.HashTrieMap[string, struct{}]
	summary Summary

	gitStatus func(ctx context.Context, dir string) (map[string][]string, error) // replaced in tests
}

// NewRunner returns a Runner for cfg that prints progress to out.
func NewRunner(out io.Writer, cfg *Config, opts Options) (*Runner, error) {
	tmpl, err := cfg.Template()
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "Using license %s\n", cfg.License)

	year := opts.Year
	if year == 0 {
		year = time.Now().Year()
	}
	reg, err := cfg.Registry(year, opts.Select)
	if err != nil {
		return nil, err
	}

	for _, pat := range cfg.Exclude {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pat)
		}
	}

	return &Runner{
		out:        out,
		licenseKey: cfg.License,
		tmpl:       tmpl,
		configured: reg,
		opts:       opts,
		exclude:    cfg.Exclude,
		gitStatus:  git.Status,
	}, nil
}

// Summary returns what the runner did so far.
func (r *Runner) Summary() Summary {
	return Summary{
		License:    r.licenseKey,
		Copyrights: r.configured.Records(),
		DryRun:     r.opts.DryRun,
		Updated:    slices.Clone(r.summary.Updated),
		Skipped:    slices.Clone(r.summary.Skipped),
	}
}

// Run processes each of paths. Directories are walked recursively. A corrupt
// license block in any file stops the run.
func (r *Runner) Run(ctx context.Context, paths []string) error {
	if r.opts.ChangedOnly {
		changed, err := r.changedFiles(ctx, paths)
		if err != nil {
			return err
		}
		paths = changed
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		info, err := os.Stat(path)
		switch {
		case err == nil && info.Mode().IsRegular():
			err := r.process(ctx, path)
			var ute *sourcefile.UnrecognizedFileTypeError
			if errors.As(err, &ute) {
				r.skip(path, fmt.Sprintf("Skipped '%s', filetype not recognized.", path))
				continue
			}
			if err != nil {
				return err
			}
		case err == nil && info.IsDir():
			if err := r.walk(ctx, path); err != nil {
				return err
			}
		default:
			r.skip(path, fmt.Sprintf("Skipped '%s', it can not be recognized as either a file or a directory.", path))
		}
	}
	return nil
}

func (r *Runner) walk(ctx context.Context, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if shouldSkipDir(path) {
				r.skip(path, fmt.Sprintf("Skipped '%s'", filepath.Base(path)))
				return filepath.SkipDir
			}
			if rel != "." && r.excluded(rel) {
				logger.Debug(ctx, "Excluded", slog.String("path", path))
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()
		if strings.HasPrefix(name, ".") && strings.HasSuffix(name, ".swp") {
			return nil
		}
		if r.excluded(rel) {
			logger.Debug(ctx, "Excluded", slog.String("path", path))
			return nil
		}
		if !d.Type().IsRegular() {
			// Symlinks are followed to files, never to directories.
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				return nil
			}
		}

		err = r.process(ctx, path)
		var ute *sourcefile.UnrecognizedFileTypeError
		if errors.As(err, &ute) {
			return nil
		}
		return err
	})
}

func (r *Runner) process(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, loaded := r.seen.LoadOrStore(abs, struct{}{}); loaded {
		return nil
	}

	f, err := sourcefile.Open(abs)
	if err != nil {
		return err
	}
	logger.Debug(ctx, "Examining", slog.String("path", path))

	updated, err := f.MaybeUpdateLicense(ctx, r.tmpl, r.configured, sourcefile.UpdateOptions{
		Force:  r.opts.Force,
		DryRun: r.opts.DryRun,
	})
	if err != nil {
		return err
	}
	if updated {
		fmt.Fprintf(r.out, "Updated %s\n", f.Path)
		r.summary.Updated = append(r.summary.Updated, f.Path)
	}
	return nil
}

func (r *Runner) skip(path, msg string) {
	fmt.Fprintln(r.out, msg)
	r.summary.Skipped = append(r.summary.Skipped, Skip{Path: path, Message: msg})
}

func (r *Runner) excluded(rel string) bool {
	for _, pat := range r.exclude {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

// changedFiles returns the modified files Git reports that lie within paths.
func (r *Runner) changedFiles(ctx context.Context, paths []string) ([]string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	changes, err := r.gitStatus(ctx, wd)
	if err != nil {
		return nil, fmt.Errorf("querying changed files: %w", err)
	}

	roots := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		roots = append(roots, abs)
	}

	var changed []string
	for _, p := range git.Modified(changes) {
		if slices.ContainsFunc(roots, func(root string) bool { return within(root, p) }) {
			changed = append(changed, p)
		}
	}
	slices.Sort(changed)
	logger.Debug(ctx, "Changed files", slog.Int("count", len(changed)))
	return changed, nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	return err == nil && filepath.IsLocal(rel)
}

func shouldSkipDir(dir string) bool {
	if slices.Contains(IgnoredDirs, filepath.Base(dir)) {
		return true
	}
	info, err := os.Lstat(filepath.Join(dir, "pyvenv.cfg"))
	return err == nil && !info.IsDir()
}
