package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"loto-mcp/internal/checker"
	"loto-mcp/internal/stats"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
)

// Data is everything a report page renders. Check is optional.
type Data struct {
	Stats       *stats.Statistics
	Check       *checker.Report
	GeneratedAt time.Time
}

// The script sorts the frequency table by any column when its header is clicked.
const tableScript = `
document.querySelectorAll("table.sortable").forEach(function (table) {
	var headers = table.querySelectorAll("th");
	headers.forEach(function (header, column) {
		header.addEventListener("click", function () {
			var body = table.tBodies[0];
			var rows = Array.prototype.slice.call(body.rows);
			var descending = header.getAttribute("data-order") !== "desc";
			rows.sort(function (a, b) {
				var left = parseFloat(a.cells[column].textContent);
				var right = parseFloat(b.cells[column].textContent);
				return descending ? right - left : left - right;
			});
			headers.forEach(function (h) { h.removeAttribute("data-order"); });
			header.setAttribute("data-order", descending ? "desc" : "asc");
			rows.forEach(function (row) { body.appendChild(row); });
		});
	});
});
`

var page = template.Must(template.New("report").Funcs(template.FuncMap{
	"join": joinInts,
	"pct":  func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
	"f2":   func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Stats.Game}} report</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; margin-bottom: 2rem; }
th, td { border: 1px solid #ccc; padding: 0.25rem 0.6rem; text-align: right; }
th { cursor: pointer; background: #f4f4f4; }
</style>
</head>
<body>
<h1>{{.Stats.Game}}</h1>
<p>{{.Stats.TotalDraws}} draws analysed, generated {{.GeneratedAt.Format "2006-01-02 15:04:05"}}.</p>

<h2>Numbers</h2>
<p>Hot: {{join .Stats.Hot}}</p>
<p>Cold: {{join .Stats.Cold}}</p>
<p>Delayed: {{join .Stats.Delayed}}</p>
<table class="sortable">
<thead><tr><th>Number</th><th>Frequency</th><th>Delay</th></tr></thead>
<tbody>
{{range .Rows}}<tr><td>{{.Number}}</td><td>{{.Frequency}}</td><td>{{.Delay}}</td></tr>
{{end}}</tbody>
</table>

<h2>Buckets</h2>
<table>
<thead><tr><th>Bucket</th><th>Range</th><th>Average</th></tr></thead>
<tbody>
{{range .Stats.Buckets}}<tr><td>{{.Name}}</td><td>{{.Low}}-{{.High}}</td><td>{{f2 .Average}}</td></tr>
{{end}}</tbody>
</table>
<p>Average even/odd per draw: {{f2 .Stats.Parity.Even}} / {{f2 .Stats.Parity.Odd}}</p>

{{with .Check}}
<h2>Checked combinations</h2>
<table class="sortable">
<thead><tr><th>#</th><th>Latest hits</th><th>Latest %</th><th>Average</th><th>Max</th><th>Min (non-zero)</th></tr></thead>
<tbody>
{{range $i, $h := .History}}{{$l := index $.Check.Latest $i}}<tr><td>{{$h.Index}}</td><td>{{$l.Count}}</td><td>{{pct $l.Percentage}}</td><td>{{f2 $h.Average}}</td><td>{{$h.Max}}</td><td>{{$h.MinNonZero}}</td></tr>
{{end}}</tbody>
</table>
{{end}}

<script>{{.Script}}</script>
</body>
</html>
`))

type numberRow struct {
	Number    int
	Frequency int
	Delay     int
}

type view struct {
	Data
	Rows   []numberRow
	Script template.JS
}

func joinInts(nums []int) string {
	if len(nums) == 0 {
		return "-"
	}
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%02d", n)
	}
	return strings.Join(parts, " ")
}

// MinifyScript shrinks inline JavaScript with esbuild.
func MinifyScript(code string) (string, error) {
	result := api.Transform(code, api.TransformOptions{
		Loader:            api.LoaderJS,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
	})
	if len(result.Errors) > 0 {
		return "", fmt.Errorf("failed to minify report script: %s", result.Errors[0].Text)
	}
	return string(result.Code), nil
}

// Render writes the HTML report into buf.
func Render(buf *bytes.Buffer, d Data) error {
	if d.Stats == nil {
		return fmt.Errorf("report needs statistics")
	}
	if d.GeneratedAt.IsZero() {
		d.GeneratedAt = time.Now()
	}

	script, err := MinifyScript(tableScript)
	if err != nil {
		return err
	}

	p := d.Stats.Profile
	rows := make([]numberRow, 0, p.RangeSize())
	for n := p.NumberMin; n <= p.NumberMax; n++ {
		rows = append(rows, numberRow{Number: n, Frequency: d.Stats.Frequency[n], Delay: d.Stats.Delay[n]})
	}

	return page.Execute(buf, view{Data: d, Rows: rows, Script: template.JS(script)})
}

// Write renders the report into dir and returns the file path. A JSON copy of
// the data is written next to it.
func Write(dir string, d Data) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, d); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports dir: %w", err)
	}

	stamp := time.Now().Format("20060102-150405")
	base := filepath.Join(dir, fmt.Sprintf("%s-%s", d.Stats.Game, stamp))
	htmlPath := base + ".html"
	if err := os.WriteFile(htmlPath, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report data: %w", err)
	}
	if err := os.WriteFile(base+".json", raw, 0644); err != nil {
		return "", fmt.Errorf("failed to write report data: %w", err)
	}

	log.Info().Str("path", htmlPath).Msg("Report written")
	return htmlPath, nil
}

// Open shows a written report in the default browser.
func Open(path string) error {
	return browser.OpenFile(path)
}
