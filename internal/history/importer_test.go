package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"loto-mcp/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayload_Shapes(t *testing.T) {
	p := game.Lotofacil()
	tests := []struct {
		name    string
		payload string
		count   int
	}{
		{
			name:    "SingleObject",
			payload: `{"numero": 3001, "dataApuracao": "02/01/2024", "listaDezenas": ["01","02","03","04","05","06","07","08","09","10","11","12","13","14","15"]}`,
			count:   1,
		},
		{
			name: "Array",
			payload: `[
				{"concurso": 1, "data": "2003-09-29", "dezenas": [2,3,5,6,9,10,11,13,14,16,18,20,23,24,25]},
				{"nuConcurso": 2, "resultadoOrdenado": "01-04-05-06-07-09-11-12-13-15-16-19-20-23-24"}
			]`,
			count: 2,
		},
		{
			name:    "Wrapped",
			payload: `{"resultados": [{"numeroConcurso": 7, "numeros": "1,2,3,4,5,6,7,8,9,10,11,12,13,14,15"}]}`,
			count:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ParsePayload([]byte(tt.payload), p)
			require.NoError(t, err)
			assert.Equal(t, tt.count, len(res.Draws))
			assert.Zero(t, res.Skipped)
		})
	}
}

func TestParsePayload_SkipsInvalid(t *testing.T) {
	payload := `[
		{"concurso": 1, "dezenas": [1,2,3]},
		{"concurso": 2, "dezenas": [1,2,3,4,5,6,7,8,9,10,11,12,13,14,26]},
		{"dezenas": [1,2,3,4,5,6,7,8,9,10,11,12,13,14,15]},
		{"concurso": 4, "dezenas": [1,2,3,4,5,6,7,8,9,10,11,12,13,14,15]}
	]`
	res, err := ParsePayload([]byte(payload), game.Lotofacil())
	require.NoError(t, err)
	assert.Equal(t, 4, res.Read)
	assert.Equal(t, 3, res.Skipped)
	require.Len(t, res.Draws, 1)
	assert.Equal(t, 4, res.Draws[0].Sequence)

	_, err = ParsePayload([]byte(`{not json`), game.Lotofacil())
	assert.ErrorIs(t, err, game.ErrInvalidArgument)
}

func TestParseCSV(t *testing.T) {
	input := `concurso,data,numeros
1,2024-01-01,"01,02,03,04,05,06,07,08,09,10,11,12,13,14,15"
2,2024-01-02,11-12-13-14-15-16-17-18-19-20-21-22-23-24-25
3,2024-01-03,"1,2,3"
`
	res, err := ParseCSV(strings.NewReader(input), game.Lotofacil())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Read)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Draws, 2)
	assert.Equal(t, "2024-01-02", res.Draws[1].Date)
}

func TestImportFile_JSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draws.jsonl")
	content := `{"sequence":1,"numbers":[1,2,3,4,5,6,7,8,9,10,11,12,13,14,15]}
not-json
{"sequence":2,"numbers":[11,12,13,14,15,16,17,18,19,20,21,22,23,24,25]}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	res, err := ImportFile(path, game.Lotofacil())
	require.NoError(t, err)
	assert.Len(t, res.Draws, 2)
	assert.Equal(t, 1, res.Skipped)
}
