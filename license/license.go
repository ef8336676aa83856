// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package license holds license header templates.
//
// A template is plain text with three placeholders:
//
//	%(project)s        the project name
//	%(description)s    a free-form project description
//	%(copyrightlines)s the rendered copyright lines
//
// Templates are shipped in an embedded catalog and looked up by key with
// [New].
package license

import (
	_ "embed"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.astrophena.name/applylicense/syncx"
	"go.astrophena.name/applylicense/txtar"
)

// Template is a license template bound to a project.
type Template struct {
	Body        string
	Project     string
	Description string
}

// Fill substitutes the placeholders of t. The result starts and ends with
// exactly one newline.
func (t Template) Fill(copyrightLines string) string {
	r := strings.NewReplacer(
		"%(project)s", t.Project,
		"%(description)s", t.Description,
		"%(copyrightlines)s", copyrightLines,
		"%%", "%",
	)
	return "\n" + strings.Trim(r.Replace(t.Body), "\n") + "\n"
}

// UnknownLicenseError is returned when a license key is not in the catalog.
type UnknownLicenseError struct {
	Key string
}

func (e *UnknownLicenseError) Error() string {
	return fmt.Sprintf("no such license: %s", e.Key)
}

//go:embed licenses.txtar
var catalogData []byte

var catalog syncx.Lazy[map[string]string]

func templates() map[string]string {
	return catalog.Get(func() map[string]string {
		ar := txtar.Parse(catalogData)
		m := make(map[string]string, len(ar.Files))
		for _, f := range ar.Files {
			key, ok := strings.CutSuffix(f.Name, ".header")
			if !ok {
				continue
			}
			m[key] = strings.TrimSpace(string(f.Data))
		}
		return m
	})
}

// Names returns the keys of the catalog, sorted.
func Names() []string {
	return slices.Sorted(maps.Keys(templates()))
}

// New returns the catalog template key bound to project and description.
func New(key, project, description string) (Template, error) {
	body, ok := templates()[key]
	if !ok {
		return Template{}, &UnknownLicenseError{Key: key}
	}
	return Template{Body: body, Project: project, Description: description}, nil
}
