// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package cli_test

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.astrophena.name/applylicense/cli"
	"go.astrophena.name/applylicense/license"
	"go.astrophena.name/applylicense/logger"
	"go.astrophena.name/applylicense/testutil"
	"go.astrophena.name/applylicense/version"
	"go.astrophena.name/applylicense/years"
)

func runTest(t *testing.T, app cli.App, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errb bytes.Buffer
	env := &cli.Env{
		Args:   args,
		Stdin:  strings.NewReader(""),
		Stdout: &out,
		Stderr: &errb,
		Getenv: func(s string) string { return "" },
	}
	err = cli.Run(cli.WithEnv(t.Context(), env), app)
	return out.String(), errb.String(), err
}

// yearsApp merges the year lists given as arguments, adds -year when set and
// prints the result in copyright line form.
type yearsApp struct {
	year int
}

func (a *yearsApp) Flags(fs *flag.FlagSet) {
	fs.IntVar(&a.year, "year", 0, "Add `year` to the set.")
}

func (a *yearsApp) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	if len(env.Args) == 0 && a.year == 0 {
		return fmt.Errorf("%w: want at least one list of years", cli.ErrInvalidArgs)
	}
	set := years.Of()
	for _, arg := range env.Args {
		logger.Debug(ctx, "Parsing years", slog.String("arg", arg))
		ys, err := years.Parse(arg)
		if err != nil {
			return err
		}
		set.Union(ys)
	}
	if a.year != 0 {
		set.Add(a.year)
	}
	fmt.Fprintln(env.Stdout, set)
	return nil
}

// licenseApp prints the catalog keys, or fills the template named by its
// argument.
var licenseApp = cli.AppFunc(func(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	if len(env.Args) == 0 {
		fmt.Fprintln(env.Stdout, strings.Join(license.Names(), " "))
		return nil
	}
	tmpl, err := license.New(env.Args[0], "Some Project", "A project.")
	if err != nil {
		return err
	}
	logger.Info(ctx, "Using license", slog.String("key", env.Args[0]))
	fmt.Fprint(env.Stdout, tmpl.Fill("Copyright (C) 2024 Seecr https://seecr.nl"))
	return nil
})

// verifyApp defines its own -v and -version flags.
type verifyApp struct {
	verify      bool
	showCatalog bool
}

func (a *verifyApp) Flags(fs *flag.FlagSet) {
	fs.BoolVar(&a.verify, "v", false, "Only verify license blocks.")
	fs.BoolVar(&a.showCatalog, "version", false, "Show the license catalog.")
}

func (a *verifyApp) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	if a.showCatalog {
		fmt.Fprintf(env.Stdout, "%d licenses", len(license.Names()))
	}
	if a.verify {
		env.Logf("Verifying only.")
	}
	return nil
}

func TestRun(t *testing.T) {
	t.Run("years", func(t *testing.T) {
		cases := map[string]struct {
			args []string
			want string
		}{
			"single list":   {args: []string{"2003,2007-2009, 2011"}, want: "2003, 2007-2009, 2011\n"},
			"merged lists":  {args: []string{"2003, 2007-2009", "2010"}, want: "2003, 2007-2010\n"},
			"year flag":     {args: []string{"-year", "2012", "2010-2011"}, want: "2010-2012\n"},
			"only the flag": {args: []string{"-year", "2024"}, want: "2024\n"},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				stdout, stderr, err := runTest(t, &yearsApp{}, tc.args...)
				testutil.AssertEqual(t, err, nil)
				testutil.AssertEqual(t, stderr, "")
				testutil.AssertEqual(t, stdout, tc.want)
			})
		}
	})

	t.Run("app error", func(t *testing.T) {
		_, stderr, err := runTest(t, &yearsApp{}, "2003, nineteen")
		var pe *years.ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("want *years.ParseError, got %v", err)
		}
		testutil.AssertEqual(t, pe.Token, "nineteen")
		testutil.AssertEqual(t, stderr, "") // Run itself doesn't print the error.
	})

	t.Run("invalid args", func(t *testing.T) {
		_, _, err := runTest(t, &yearsApp{})
		if !errors.Is(err, cli.ErrInvalidArgs) {
			t.Fatalf("want err to wrap cli.ErrInvalidArgs, got %v", err)
		}
		testutil.AssertEqual(t, err.Error(), "invalid arguments: want at least one list of years")
	})

	t.Run("invalid flag value", func(t *testing.T) {
		_, stderr, err := runTest(t, &yearsApp{}, "-year", "last")
		if err == nil {
			t.Fatal("expected an error, got nil")
		}
		// The flag package prints its own message.
		wantInStderr := "invalid value \"last\" for flag -year: parse error"
		if !strings.Contains(stderr, wantInStderr) {
			t.Errorf("stderr must contain %q, got: %q", wantInStderr, stderr)
		}
	})

	t.Run("license catalog", func(t *testing.T) {
		stdout, _, err := runTest(t, licenseApp)
		testutil.AssertEqual(t, err, nil)
		testutil.AssertEqual(t, stdout, strings.Join(license.Names(), " ")+"\n")

		stdout, stderr, err := runTest(t, licenseApp, "GPLv2")
		testutil.AssertEqual(t, err, nil)
		for _, want := range []string{"Some Project", "Copyright (C) 2024 Seecr https://seecr.nl"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("stdout must contain %q, got: %q", want, stdout)
			}
		}
		if !strings.Contains(stderr, "Using license") {
			t.Errorf("stderr must contain the info message, got: %q", stderr)
		}

		_, _, err = runTest(t, licenseApp, "Beerware")
		var ule *license.UnknownLicenseError
		if !errors.As(err, &ule) || ule.Key != "Beerware" {
			t.Fatalf("want *license.UnknownLicenseError for Beerware, got %v", err)
		}
	})

	t.Run("version flag", func(t *testing.T) {
		_, stderr, err := runTest(t, &yearsApp{}, "-version")
		if !errors.Is(err, cli.ErrExitVersion) {
			t.Fatalf("want err %v, got %v", cli.ErrExitVersion, err)
		}
		testutil.AssertEqual(t, stderr, version.Version().String())
	})

	t.Run("app with own -v and -version", func(t *testing.T) {
		app := &verifyApp{}
		stdout, stderr, err := runTest(t, app, "-v", "-version")
		testutil.AssertEqual(t, err, nil)
		testutil.AssertEqual(t, app.verify, true)
		testutil.AssertEqual(t, stdout, fmt.Sprintf("%d licenses", len(license.Names())))
		testutil.AssertEqual(t, stderr, "Verifying only.\n")
	})

	t.Run("verbose flag", func(t *testing.T) {
		_, stderr, err := runTest(t, &yearsApp{}, "-v", "2024")
		testutil.AssertEqual(t, err, nil)
		if !strings.Contains(stderr, "Parsing years") || !strings.Contains(stderr, "arg=2024") {
			t.Errorf("stderr must contain the debug message, got: %q", stderr)
		}

		_, stderr, err = runTest(t, &yearsApp{}, "2024")
		testutil.AssertEqual(t, err, nil)
		if strings.Contains(stderr, "Parsing years") {
			t.Errorf("stderr must not contain debug messages without -v, got: %q", stderr)
		}
	})

	t.Run("help flag", func(t *testing.T) {
		_, stderr, err := runTest(t, &yearsApp{}, "-h")
		if !errors.Is(err, flag.ErrHelp) {
			t.Fatalf("expected error to wrap flag.ErrHelp, but it didn't: %v", err)
		}
		for _, want := range []string{
			"Available flags:",
			"-year year",
			"To disable the pager, set the NO_PAGER environment variable.",
		} {
			if !strings.Contains(stderr, want) {
				t.Errorf("stderr must contain %q, got: %q", want, stderr)
			}
		}
	})

	t.Run("doc comment", func(t *testing.T) {
		cli.SetDocComment([]byte("/*\nYears merges lists of copyright years.\n\nIt prints them in copyright line form.\n*/\npackage main"))
		t.Cleanup(func() { cli.SetDocComment(nil) })

		_, stderr, err := runTest(t, &yearsApp{}, "-h")
		if !errors.Is(err, flag.ErrHelp) {
			t.Fatalf("expected error to wrap flag.ErrHelp, but it didn't: %v", err)
		}
		wantDoc := "Years merges lists of copyright years.\n\nIt prints them in copyright line form.\n"
		if !strings.Contains(stderr, wantDoc) {
			t.Errorf("stderr must contain doc comment %q, got: %q", wantDoc, stderr)
		}
	})

	t.Run("profiling flags", func(t *testing.T) {
		dir := t.TempDir()
		cases := map[string]struct {
			flag    string
			path    string
			wantErr string
		}{
			"cpu":          {flag: "-cpuprofile", path: filepath.Join(dir, "cpu.prof")},
			"memory":       {flag: "-memprofile", path: filepath.Join(dir, "mem.prof")},
			"cpu bad path": {flag: "-cpuprofile", path: filepath.Join(dir, "missing", "cpu.prof"), wantErr: "could not create CPU profile"},
			"mem bad path": {flag: "-memprofile", path: filepath.Join(dir, "missing", "mem.prof"), wantErr: "could not create memory profile"},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				_, _, err := runTest(t, &yearsApp{}, tc.flag, tc.path, "2024")
				if tc.wantErr != "" {
					if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
						t.Fatalf("want error containing %q, got %v", tc.wantErr, err)
					}
					return
				}
				testutil.AssertEqual(t, err, nil)
				if _, err := os.Stat(tc.path); err != nil {
					t.Errorf("profile was not written: %v", err)
				}
			})
		}
	})
}

func TestPager(t *testing.T) {
	oldIsTerminal := cli.IsTerminal
	cli.IsTerminal = func(fd int) bool { return true }
	t.Cleanup(func() { cli.IsTerminal = oldIsTerminal })

	runWithTerminal := func(t *testing.T, vars map[string]string) (stderr string, err error) {
		t.Helper()

		r, w, err := os.Pipe()
		if err != nil {
			t.Fatal(err)
		}
		env := &cli.Env{
			Args:   []string{"-h"},
			Stdin:  strings.NewReader(""),
			Stdout: io.Discard,
			Stderr: w,
			Getenv: func(s string) string { return vars[s] },
		}

		var b []byte
		var wg sync.WaitGroup
		wg.Go(func() { b, _ = io.ReadAll(r) })

		err = cli.Run(cli.WithEnv(t.Context(), env), &yearsApp{})
		w.Close()
		wg.Wait()
		r.Close()
		return string(b), err
	}

	cases := map[string]struct {
		vars     map[string]string
		wantHelp bool
	}{
		"pager is used":         {vars: map[string]string{"PAGER": "true"}},
		"NO_PAGER disables it":  {vars: map[string]string{"PAGER": "true", "NO_PAGER": "1"}, wantHelp: true},
		"no pager configured":   {vars: map[string]string{}, wantHelp: true},
		"failing pager":         {vars: map[string]string{"PAGER": "false"}, wantHelp: true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			stderr, err := runWithTerminal(t, tc.vars)
			if !errors.Is(err, flag.ErrHelp) {
				t.Fatalf("expected ErrHelp, got %v", err)
			}
			testutil.AssertEqual(t, strings.Contains(stderr, "Available flags:"), tc.wantHelp)
		})
	}
}
