// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package sourcefile

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
)

// Style describes how a license block is marked in a file.
type Style struct {
	Begin  string // first line of the block
	End    string // last line of the block
	Prefix string // prepended to every line in between
}

// Known styles.
var (
	Hash  = Style{Begin: "## begin license ##", End: "## end license ##", Prefix: "# "}
	C     = Style{Begin: "/* begin license *", End: " * end license */", Prefix: " * "}
	Jinja = Style{Begin: "{# begin license ##", End: "## end license #}", Prefix: "# "}
)

var byExtension = map[string]Style{
	".c":     C,
	".cpp":   C,
	".css":   C,
	".scss":  C,
	".h":     C,
	".java":  C,
	".js":    C,
	".j2":    Jinja,
	".php":   Hash,
	".py":    Hash,
	".pyx":   Hash,
	".rules": Hash,
	".sf":    Hash,
	".sh":    Hash,
}

var byBasename = map[string]Style{
	"Makefile": Hash,
}

// Extensions returns the file extensions with a known style, sorted.
func Extensions() []string { return slices.Sorted(maps.Keys(byExtension)) }

// Basenames returns the file names with a known style, sorted.
func Basenames() []string { return slices.Sorted(maps.Keys(byBasename)) }

// sniffLines is how many lines are searched for a shebang.
const sniffLines = 6

// ResolveStyle returns the style for the named file. It looks at the
// extension, then at the file name, and finally reads the first lines of the
// file looking for a "#!" line.
func ResolveStyle(path string) (Style, bool, error) {
	// A dotfile such as ".py" has no extension.
	if base, ext := filepath.Base(path), filepath.Ext(path); ext != base {
		if s, ok := byExtension[ext]; ok {
			return s, true, nil
		}
	}
	if s, ok := byBasename[filepath.Base(path)]; ok {
		return s, true, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Style{}, false, err
	}
	defer f.Close()

	ok, err := hasShebang(f)
	if err != nil {
		return Style{}, false, err
	}
	if ok {
		return Hash, true, nil
	}
	return Style{}, false, nil
}

func hasShebang(r io.Reader) (bool, error) {
	br := bufio.NewReader(r)
	atLineStart := true
	for n := 0; n < sniffLines; {
		chunk, isPrefix, err := br.ReadLine()
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if atLineStart && bytes.HasPrefix(chunk, []byte("#!")) {
			return true, nil
		}
		atLineStart = !isPrefix
		if !isPrefix {
			n++
		}
	}
	return false, nil
}
