// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"testing"

	"go.astrophena.name/applylicense/testutil"
)

func TestParseStatus(t *testing.T) {
	root := filepath.FromSlash("/src/project")
	cases := map[string]struct {
		out  string
		want map[string][]string
	}{
		"empty": {
			out:  "",
			want: map[string][]string{},
		},
		"modified and untracked": {
			out: " M a.py\nM  lib/b.py\n?? new.py\nMM c.sh\n",
			want: map[string][]string{
				" M": {filepath.Join(root, "a.py")},
				"M ": {filepath.Join(root, "lib", "b.py")},
				"??": {filepath.Join(root, "new.py")},
				"MM": {filepath.Join(root, "c.sh")},
			},
		},
		"rename": {
			out: "R  old.py -> new.py\n",
			want: map[string][]string{
				"R ": {filepath.Join(root, "new.py")},
			},
		},
		"quoted path": {
			out: " M \"with space.py\"\n",
			want: map[string][]string{
				" M": {filepath.Join(root, "with space.py")},
			},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, ParseStatus([]byte(tc.out), root), tc.want)
		})
	}
}

func TestModified(t *testing.T) {
	changes := map[string][]string{
		" M": {"/a"},
		"MM": {"/b"},
		"??": {"/c"},
		"A ": {"/d"},
	}
	got := Modified(changes)
	slices.Sort(got)
	testutil.AssertEqual(t, got, []string{"/a", "/b"})
}

func TestStatus(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not installed")
	}
	dir := t.TempDir()
	git := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	git("init", "-q")
	write("tracked.py", "print(1)\n")
	git("add", "tracked.py")
	git("commit", "-q", "-m", "initial")
	write("tracked.py", "print(2)\n")
	write("untracked.py", "print(3)\n")

	changes, err := Status(t.Context(), dir)
	if err != nil {
		t.Fatal(err)
	}
	root, err := Root(t.Context(), dir)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, Modified(changes), []string{filepath.Join(root, "tracked.py")})
}
