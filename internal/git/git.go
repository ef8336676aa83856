// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package git queries the state of a Git working tree.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Root returns the top-level directory of the working tree containing dir.
func Root(ctx context.Context, dir string) (string, error) {
	out, err := run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Status returns the paths reported by "git status --porcelain" in dir,
// grouped by their two-letter status code. Paths are absolute.
func Status(ctx context.Context, dir string) (map[string][]string, error) {
	root, err := Root(ctx, dir)
	if err != nil {
		return nil, err
	}
	out, err := run(ctx, dir, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	return ParseStatus(out, root), nil
}

// ParseStatus parses porcelain status output. Paths are joined onto root.
// For renames only the new path is kept.
func ParseStatus(out []byte, root string) map[string][]string {
	changes := make(map[string][]string)
	for line := range strings.Lines(string(out)) {
		line = strings.TrimRight(line, "\r\n")
		if len(line) < 3 {
			continue
		}
		code, path := line[:2], strings.TrimSpace(line[2:])
		if _, to, ok := strings.Cut(path, " -> "); ok {
			path = to
		}
		path = strings.Trim(path, `"`)
		changes[code] = append(changes[code], filepath.Join(root, filepath.FromSlash(path)))
	}
	return changes
}

// Modified returns the paths from changes whose status code contains M.
func Modified(changes map[string][]string) []string {
	var paths []string
	for code, p := range changes {
		if strings.Contains(code, "M") {
			paths = append(paths, p...)
		}
	}
	return paths
}

func run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git %s failed: %w:\n%s", strings.Join(args, " "), err, stderr.String())
	}
	return stdout.Bytes(), nil
}
