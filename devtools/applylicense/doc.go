// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Applylicense applies a license block to one or more files or directories.

Usage:

	applylicense [flags] <config file> <file|directory>...

The license is applied to the following files:

	*.c; *.cpp; *.css; *.h; *.j2; *.java; *.js; *.php; *.py; *.pyx;
	*.rules; *.scss; *.sf; *.sh; Makefile

and to any file starting with a #! line.

Licenses available:

	AGPLv3; GPLv2; GPLv3; arr

If a license block is present, it is replaced, with the copyright lines
merged with what is specified in the config file. Files whose copyrights are
already up to date are left alone unless -force is given.

If not present, the license block is inserted at the first line, unless the
first line starts with #! or <?php, then at the second line, unless the next
line declares a source encoding ("# -*- coding: ... -*-").

Directories named .git, .svn, deps.d or __pycache__ and Python virtual
environments are skipped.

The config file is JSON, or YAML or TOML if its name ends in .yaml, .yml or
.toml. Example:

	{
	    "project": "Some Project",
	    "description": "This is just a\ndummy project\nfor testing purposes,\nwith 'all rights reserved' license.",
	    "license": "arr",
	    "copyrights": {
	        "seecr": {"name": "Seecr (Seek You Too B.V.)", "url": "http://seecr.nl"},
	        "cq2": {"name": "Seek You Too B.V. (CQ2)", "url": "http://www.cq2.nl",
	             "text": "Some optional text"}
	    },
	    "exclude": ["vendor/**"]
	}

With copyrights given as an object, -select picks the holders to apply
("seecr" by default). With copyrights given as a list, every holder applies.
Exclude holds glob patterns, with ** matching any number of directories, of
paths relative to each given directory.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/applylicense/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
