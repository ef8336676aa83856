// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

//go:build !unix

package sourcefile

import (
	"io/fs"
	"os"
)

func copyOwner(*os.File, fs.FileInfo) error { return nil }
