// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"

	"go.astrophena.name/applylicense/applylicense"
	"go.astrophena.name/applylicense/applylicense/report"
	"go.astrophena.name/applylicense/cli"
	"go.astrophena.name/applylicense/logger"
)

func main() { cli.Main(new(app)) }

type app struct {
	force       bool
	changedOnly bool
	dryRun      bool
	year        int
	selection   string
	report      string
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.BoolVar(&a.force, "force", false, "Rewrite license blocks even if their copyrights are up to date. "+
		"Use this to update the project name and description in files moved from other projects.")
	fs.BoolVar(&a.changedOnly, "changed-only", false, "Only process files that Git reports as modified.")
	fs.BoolVar(&a.dryRun, "dry-run", false, "Show what would be changed without writing files.")
	fs.IntVar(&a.year, "year", 0, "Use `year` in copyright lines instead of the current year.")
	fs.StringVar(&a.selection, "select", "", "Comma-separated `keys` of the copyright holders to apply, e.g. \"seecr,cq2\".")
	fs.StringVar(&a.report, "report", "", "Write an HTML summary of the run to `file`.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)

	if len(env.Args) < 2 {
		return fmt.Errorf("%w: want a config file and at least one file or directory", cli.ErrInvalidArgs)
	}
	if a.year < 0 {
		return fmt.Errorf("%w: invalid year %d", cli.ErrInvalidArgs, a.year)
	}

	cfg, err := applylicense.LoadConfig(env.Args[0])
	if err != nil {
		return err
	}
	r, err := applylicense.NewRunner(env.Stdout, cfg, applylicense.Options{
		Force:       a.force,
		DryRun:      a.dryRun,
		ChangedOnly: a.changedOnly,
		Year:        a.year,
		Select:      a.selection,
	})
	if err != nil {
		return err
	}
	if err := r.Run(ctx, env.Args[1:]); err != nil {
		return err
	}
	if a.dryRun {
		env.Logf("Dry run: %d file(s) would be updated, nothing was written.", len(r.Summary().Updated))
	}

	if a.report == "" {
		return nil
	}
	if err := report.Write(ctx, a.report, r.Summary()); err != nil {
		return err
	}
	logger.Info(ctx, "Wrote report", slog.String("path", a.report))
	return nil
}
