package history

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"loto-mcp/internal/game"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// Field aliases used by the lottery result providers.
var (
	sequenceFields = []string{"numero", "nuConcurso", "numeroConcurso", "concurso"}
	numbersFields  = []string{"dezenas", "listaDezenas", "dezenasSorteadasOrdemSorteio", "resultadoOrdenado", "numeros"}
	dateFields     = []string{"dataApuracao", "data"}
	listFields     = []string{"resultados", "data", "lista", "concursos"}

	digits = regexp.MustCompile(`\d+`)
)

// ImportResult reports what an import accepted and skipped.
type ImportResult struct {
	Draws   []game.Draw `json:"-"`
	Read    int         `json:"read"`
	Skipped int         `json:"skipped"`
}

// ImportFile parses draws from a file, choosing the format by extension:
// .jsonl (one Draw per line), .csv (concurso,data,numeros) or any other
// extension as a provider JSON payload. Invalid draws are skipped and logged.
func ImportFile(path string, p game.Profile) (ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl":
		return ParseJSONL(f, p)
	case ".csv":
		return ParseCSV(f, p)
	default:
		data, err := io.ReadAll(f)
		if err != nil {
			return ImportResult{}, fmt.Errorf("failed to read import file: %w", err)
		}
		return ParsePayload(data, p)
	}
}

// ParsePayload reads a provider response: a single result object, an array
// of them, or an object wrapping the array under a list field.
func ParsePayload(data []byte, p game.Profile) (ImportResult, error) {
	if !gjson.ValidBytes(data) {
		return ImportResult{}, fmt.Errorf("%w: payload is not valid JSON", game.ErrInvalidArgument)
	}

	root := gjson.ParseBytes(data)
	var items []gjson.Result
	switch {
	case root.IsArray():
		items = root.Array()
	case firstOf(root, sequenceFields).Exists():
		items = []gjson.Result{root}
	default:
		for _, f := range listFields {
			if list := root.Get(f); list.IsArray() {
				items = list.Array()
				break
			}
		}
	}

	var res ImportResult
	for _, item := range items {
		res.Read++
		d, err := drawFromResult(item)
		if err == nil {
			err = game.ValidateDraw(p, d)
		}
		if err != nil {
			res.Skipped++
			log.Debug().Err(err).Msg("Skipping provider record")
			continue
		}
		res.Draws = append(res.Draws, d)
	}
	return res, nil
}

func firstOf(r gjson.Result, fields []string) gjson.Result {
	for _, f := range fields {
		if v := r.Get(f); v.Exists() && v.String() != "" {
			return v
		}
	}
	return gjson.Result{}
}

func drawFromResult(r gjson.Result) (game.Draw, error) {
	seq := firstOf(r, sequenceFields)
	if !seq.Exists() {
		return game.Draw{}, errors.New("record has no sequence field")
	}
	d := game.Draw{Sequence: int(seq.Int()), Date: firstOf(r, dateFields).String()}

	nums := firstOf(r, numbersFields)
	if nums.IsArray() {
		for _, v := range nums.Array() {
			n, err := strconv.Atoi(strings.TrimSpace(v.String()))
			if err != nil {
				return game.Draw{}, fmt.Errorf("draw %d: bad number %q", d.Sequence, v.String())
			}
			d.Numbers = append(d.Numbers, n)
		}
	} else {
		var err error
		if d.Numbers, err = parseNumberList(nums.String()); err != nil {
			return game.Draw{}, fmt.Errorf("draw %d: %w", d.Sequence, err)
		}
	}
	return d, nil
}

func parseNumberList(s string) ([]int, error) {
	var out []int
	for _, tok := range digits.FindAllString(s, -1) {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, errors.New("no numbers found")
	}
	return out, nil
}

// ParseJSONL reads one game.Draw JSON object per line.
func ParseJSONL(r io.Reader, p game.Profile) (ImportResult, error) {
	var res ImportResult
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		res.Read++
		var d game.Draw
		err := json.Unmarshal(line, &d)
		if err == nil {
			err = game.ValidateDraw(p, d)
		}
		if err != nil {
			res.Skipped++
			log.Debug().Err(err).Msg("Skipping JSONL draw")
			continue
		}
		res.Draws = append(res.Draws, d)
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("failed to read draws: %w", err)
	}
	return res, nil
}

// ParseCSV reads rows of concurso,data,numeros with an optional header row.
// The numbers column may use any separator.
func ParseCSV(r io.Reader, p game.Profile) (ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var res ImportResult
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, fmt.Errorf("failed to read csv: %w", err)
		}
		if len(row) < 3 {
			continue
		}
		seq, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			// header or comment row
			continue
		}
		res.Read++
		nums, err := parseNumberList(strings.Join(row[2:], ","))
		d := game.Draw{Sequence: seq, Date: strings.TrimSpace(row[1]), Numbers: nums}
		if err == nil {
			err = game.ValidateDraw(p, d)
		}
		if err != nil {
			res.Skipped++
			log.Debug().Err(err).Int("sequence", seq).Msg("Skipping CSV draw")
			continue
		}
		res.Draws = append(res.Draws, d)
	}
	return res, nil
}
