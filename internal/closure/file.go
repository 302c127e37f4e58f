package closure

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"loto-mcp/internal/game"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/rs/zerolog/log"
)

var (
	gameLine   = regexp.MustCompile(`(?i)Jogo\s+\d+(?:\s*\([^)]+\))?:\s*(.+)`)
	numberWord = regexp.MustCompile(`\b\d{1,2}\b`)
	headerWord = []string{"JOGOS GERADOS", "TOTAL", "GERADO", "QUANTIDADE", "ESTRAT"}
)

// WriteText renders a closure in the "Jogo 01: 01 - 02 - ..." layout.
// Combinations larger than the draw size carry their size in the label.
func WriteText(w io.Writer, c Closure, p game.Profile) error {
	bw := bufio.NewWriter(w)
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(bw, rule)
	fmt.Fprintf(bw, "JOGOS GERADOS - %s\n", strings.ToUpper(c.Game))
	fmt.Fprintf(bw, "Estratégia: %s\n", c.Strategy)
	fmt.Fprintf(bw, "Gerado em: %s\n", c.CreatedAt)
	fmt.Fprintf(bw, "Total de jogos: %d\n", len(c.Combinations))
	fmt.Fprintln(bw, rule)

	for i, combo := range c.Combinations {
		parts := make([]string, len(combo))
		for j, n := range combo {
			parts[j] = fmt.Sprintf("%02d", n)
		}
		label := fmt.Sprintf("Jogo %02d", i+1)
		if len(combo) != p.DrawSize {
			label = fmt.Sprintf("Jogo %02d (%d números)", i+1, len(combo))
		}
		fmt.Fprintf(bw, "%s: %s\n", label, strings.Join(parts, " - "))
	}
	return bw.Flush()
}

// ParseText extracts combinations from an exported text file. Lines without a
// "Jogo NN:" label are accepted when they hold a plausible combination.
// Out-of-range numbers are dropped, repeats collapsed and duplicate
// combinations skipped.
func ParseText(r io.Reader, p game.Profile) ([]Combination, error) {
	var out []Combination
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "=") || isHeader(line) {
			continue
		}

		body := line
		if m := gameLine.FindStringSubmatch(line); m != nil {
			body = m[1]
		}

		combo := extractNumbers(body, p)
		if len(combo) < p.MinComboSize || len(combo) > p.MaxComboSize {
			continue
		}
		key := game.Key(combo)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, combo)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read combinations: %w", err)
	}
	return out, nil
}

func isHeader(line string) bool {
	upper := strings.ToUpper(line)
	for _, h := range headerWord {
		if strings.Contains(upper, h) {
			return true
		}
	}
	return false
}

func extractNumbers(s string, p game.Profile) Combination {
	seen := make(map[int]bool)
	var combo Combination
	for _, tok := range numberWord.FindAllString(s, -1) {
		n, err := strconv.Atoi(tok)
		if err != nil || !p.InRange(n) || seen[n] {
			continue
		}
		seen[n] = true
		combo = append(combo, n)
	}
	slices.Sort(combo)
	return combo
}

// Schema returns the JSON Schema closure files must satisfy.
func Schema() (*jsonschema.Schema, error) {
	return jsonschema.For[Closure](nil)
}

// WriteFile persists a closure as indented JSON, replacing the target atomically.
func WriteFile(path string, c Closure) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode closure: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp closure file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename closure file: %w", err)
	}

	log.Info().Str("id", c.ID).Str("path", path).Int("count", len(c.Combinations)).Msg("Closure saved")
	return nil
}

// ReadFile loads a closure file, validating it against Schema and every
// combination against the profile named in the file.
func ReadFile(path string, registry *game.Registry) (Closure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Closure{}, fmt.Errorf("failed to read closure file: %w", err)
	}

	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return Closure{}, fmt.Errorf("closure file is not valid JSON: %w", err)
	}

	schema, err := Schema()
	if err != nil {
		return Closure{}, fmt.Errorf("failed to build closure schema: %w", err)
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return Closure{}, fmt.Errorf("failed to resolve closure schema: %w", err)
	}
	if err := resolved.Validate(instance); err != nil {
		return Closure{}, fmt.Errorf("%w: closure file %s: %v", ErrInvalidArgument, path, err)
	}

	var c Closure
	if err := json.Unmarshal(data, &c); err != nil {
		return Closure{}, fmt.Errorf("failed to decode closure: %w", err)
	}

	p, err := registry.Get(c.Game)
	if err != nil {
		return Closure{}, err
	}
	for i, combo := range c.Combinations {
		if err := game.ValidateCombination(p, combo); err != nil {
			return Closure{}, fmt.Errorf("%w: combination %d: %v", ErrInvalidArgument, i+1, err)
		}
		slices.Sort(c.Combinations[i])
	}
	return c, nil
}

// LoadCombinations reads combinations for p from a closure JSON file or a
// text export, choosing by extension.
func LoadCombinations(path string, p game.Profile, registry *game.Registry) ([]Combination, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		c, err := ReadFile(path, registry)
		if err != nil {
			return nil, err
		}
		if c.Game != p.Name {
			return nil, fmt.Errorf("%w: closure file is for %s, not %s", ErrInvalidArgument, c.Game, p.Name)
		}
		return c.Combinations, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open closure file: %w", err)
	}
	defer f.Close()
	return ParseText(f, p)
}
