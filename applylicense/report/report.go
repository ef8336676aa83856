// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package report renders a summary of a license run as an HTML page.
package report

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"github.com/a-h/templ"
	"github.com/natefinch/atomic"

	"go.astrophena.name/applylicense/applylicense"
	"go.astrophena.name/applylicense/copyright"
)

var (
	//go:embed templates/report.html
	reportTemplateStr string
	reportTemplate    = template.Must(template.New("report").Parse(reportTemplateStr))
)

// Page returns the report for sum. Generated is shown as the time of the run.
func Page(sum applylicense.Summary, generated time.Time) templ.Component {
	return templ.Join(
		section("head", struct {
			License   string
			Generated string
			DryRun    bool
		}{sum.License, generated.Format(time.RFC1123), sum.DryRun}),
		holders(sum.Copyrights),
		pathList("Updated", sum.Updated),
		section("skipped", sum.Skipped),
		section("foot", nil),
	)
}

// section renders the named template from templates/report.html.
func section(name string, data any) templ.Component {
	return templ.FromGoHTML(reportTemplate.Lookup(name), data)
}

type holderRow struct {
	Name  string
	Years string
	URL   string
}

func holders(recs []copyright.Record) templ.Component {
	rows := make([]holderRow, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, holderRow{Name: rec.Name, Years: rec.Years.String(), URL: rec.URL})
	}
	return section("holders", rows)
}

func pathList(title string, paths []string) templ.Component {
	return section("paths", struct {
		Title string
		Paths []string
	}{title, paths})
}

// Write renders the report for sum and atomically replaces the file at path
// with it.
func Write(ctx context.Context, path string, sum applylicense.Summary) error {
	var buf bytes.Buffer
	if err := Page(sum, time.Now()).Render(ctx, &buf); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
