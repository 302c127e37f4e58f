package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInit_WritesBothSinks(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	if err := Init(Options{Verbose: true, Dir: dir, Console: &console}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	log.Debug().Str("game", "lotofacil").Msg("hello")

	if !strings.Contains(console.String(), "hello") {
		t.Errorf("Expected debug line on console, got %q", console.String())
	}
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("Expected log file: %v", err)
	}
	if !strings.Contains(string(data), `"game":"lotofacil"`) {
		t.Errorf("Expected structured JSON in file, got %q", string(data))
	}
}

func TestInit_UnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := Init(Options{Dir: file, Console: &bytes.Buffer{}}); err == nil {
		t.Error("Expected error when log dir is a file")
	}
}
