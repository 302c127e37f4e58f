package report

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"loto-mcp/internal/checker"
	"loto-mcp/internal/game"
	"loto-mcp/internal/stats"
)

func sample(t *testing.T) Data {
	t.Helper()
	p := game.Lotofacil()
	h := game.History{
		{Sequence: 1, Numbers: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}},
		{Sequence: 2, Numbers: []int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25}},
	}
	rep, err := checker.New(p, 1).Check(context.Background(), [][]int{{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 16}}, h)
	if err != nil {
		t.Fatal(err)
	}
	return Data{Stats: stats.Compute(h, p, stats.DefaultOptions()), Check: &rep}
}

func TestMinifyScript(t *testing.T) {
	out, err := MinifyScript(tableScript)
	if err != nil {
		t.Fatalf("MinifyScript failed: %v", err)
	}
	if len(out) >= len(tableScript) {
		t.Errorf("Expected minified script to be shorter, got %d >= %d", len(out), len(tableScript))
	}

	if _, err := MinifyScript("function ("); err == nil {
		t.Error("Expected error for invalid JavaScript")
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sample(t)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	html := buf.String()

	for _, want := range []string{"<h1>lotofacil</h1>", "2 draws analysed", "Checked combinations", "<td>Q1</td>"} {
		if !strings.Contains(html, want) {
			t.Errorf("Expected %q in report", want)
		}
	}

	if err := Render(&buf, Data{}); err == nil {
		t.Error("Expected error without statistics")
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	path, err := Write(dir, sample(t))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.HasSuffix(path, ".html") {
		t.Errorf("Expected html path, got %s", path)
	}
	if _, err := os.Stat(strings.TrimSuffix(path, ".html") + ".json"); err != nil {
		t.Errorf("Expected JSON companion file: %v", err)
	}
}
