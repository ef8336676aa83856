// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package license

import (
	"errors"
	"strings"
	"testing"

	"go.astrophena.name/applylicense/testutil"
)

func TestFill(t *testing.T) {
	cases := map[string]struct {
		tmpl Template
		want string
	}{
		"all fields": {
			tmpl: Template{
				Body:        "This is project: %(project)s.\n%(description)s\n\n%(copyrightlines)s\n",
				Project:     "Seecr License",
				Description: "Some description.",
			},
			want: "\nThis is project: Seecr License.\nSome description.\n\nCopyright (C) 2009, 2011 Seecr http://seecr.nl\n",
		},
		"no description": {
			tmpl: Template{Body: "All rights reserved.\n\n%(copyrightlines)s\n"},
			want: "\nAll rights reserved.\n\nCopyright (C) 2009, 2011 Seecr http://seecr.nl\n",
		},
		"missing description at the top is trimmed": {
			tmpl: Template{Body: "%(description)s\n\nAll rights reserved.\n\n%(copyrightlines)s"},
			want: "\nAll rights reserved.\n\nCopyright (C) 2009, 2011 Seecr http://seecr.nl\n",
		},
		"escaped percent": {
			tmpl: Template{Body: "100%% %(project)s\n\n%(copyrightlines)s", Project: "P"},
			want: "\n100% P\n\nCopyright (C) 2009, 2011 Seecr http://seecr.nl\n",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, tc.tmpl.Fill("Copyright (C) 2009, 2011 Seecr http://seecr.nl"), tc.want)
		})
	}
}

func TestCatalog(t *testing.T) {
	testutil.AssertEqual(t, Names(), []string{"AGPLv3", "GPLv2", "GPLv3", "arr"})

	tmpl, err := New("arr", "Some Project", "")
	if err != nil {
		t.Fatal(err)
	}
	want := "\nAll rights reserved.\n\nCopyright (C) 2007 CQ2 http://cq2.nl\n\nThis file is part of \"Some Project\"\n"
	testutil.AssertEqual(t, tmpl.Fill("Copyright (C) 2007 CQ2 http://cq2.nl\n"), want)

	gpl, err := New("GPLv2", "Some Project", "dummy project")
	if err != nil {
		t.Fatal(err)
	}
	filled := gpl.Fill("Copyright (C) 2034 CQ2 http://cq2.nl\n")
	for _, s := range []string{"Some Project", "dummy project", "2034", "GNU General Public License"} {
		if !strings.Contains(filled, s) {
			t.Errorf("GPLv2 template does not contain %q:\n%s", s, filled)
		}
	}
}

func TestUnknownLicense(t *testing.T) {
	_, err := New("WTFPL", "", "")
	var ule *UnknownLicenseError
	if !errors.As(err, &ule) {
		t.Fatalf("want *UnknownLicenseError, got %v", err)
	}
	testutil.AssertEqual(t, ule.Key, "WTFPL")
	testutil.AssertEqual(t, err.Error(), "no such license: WTFPL")
}
