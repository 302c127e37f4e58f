package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"loto-mcp/internal/checker"
	"loto-mcp/internal/closure"
	"loto-mcp/internal/config"
	"loto-mcp/internal/game"
	"loto-mcp/internal/history"
	"loto-mcp/internal/stats"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func span(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for n := from; n <= to; n++ {
		out = append(out, n)
	}
	return out
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := history.NewJSONLStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewJSONLStore failed: %v", err)
	}
	draws := []game.Draw{
		{Sequence: 1, Date: "01/01/2024", Numbers: span(1, 15)},
		{Sequence: 2, Date: "02/01/2024", Numbers: span(11, 25)},
		{Sequence: 3, Date: "03/01/2024", Numbers: append(span(1, 14), 16)},
	}
	if _, err := store.Append(context.Background(), "lotofacil", draws); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	cfg := &config.AppConfig{
		DefaultGame:         "lotofacil",
		ReportsDir:          t.TempDir(),
		Stats:               stats.DefaultOptions(),
		MaxRebalance:        closure.DefaultMaxRebalance,
		CheckWorkers:        2,
		EnableMermaidCharts: true,
	}
	return NewServer(cfg, game.NewRegistry(), store, "test")
}

func connect(t *testing.T, s *Server) *sdk.ClientSession {
	t.Helper()
	ctx := context.Background()
	serverTransport, clientTransport := sdk.NewInMemoryTransports()
	if _, err := s.Connect(ctx, serverTransport); err != nil {
		t.Fatalf("server connect failed: %v", err)
	}
	client := sdk.NewClient(&sdk.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect failed: %v", err)
	}
	t.Cleanup(func() { cs.Close() })
	return cs
}

func call(t *testing.T, cs *sdk.ClientSession, name string, args map[string]any) (*sdk.CallToolResult, string) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &sdk.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("CallTool %s failed: %v", name, err)
	}
	if len(res.Content) == 0 {
		t.Fatalf("Expected content from %s", name)
	}
	text, ok := res.Content[0].(*sdk.TextContent)
	if !ok {
		t.Fatalf("Expected text content from %s, got %T", name, res.Content[0])
	}
	return res, text.Text
}

func TestListTools(t *testing.T) {
	cs := connect(t, newTestServer(t))
	res, err := cs.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	for _, want := range []string{"list_games", "get_statistics", "generate_closure", "check_combinations", "get_repeated_combinations"} {
		if !slices.Contains(names, want) {
			t.Errorf("Expected tool %s, got %v", want, names)
		}
	}
}

func TestListTools_ComboSizeDescribesProfileDefault(t *testing.T) {
	cs := connect(t, newTestServer(t))
	res, err := cs.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}
	for _, tool := range res.Tools {
		if tool.Name != "generate_closure" {
			continue
		}
		schema, err := json.Marshal(tool.InputSchema)
		if err != nil {
			t.Fatalf("Marshal schema failed: %v", err)
		}
		if !strings.Contains(string(schema), "standard combination size") {
			t.Errorf("Expected combo_size to describe the combination size default, got %s", schema)
		}
		return
	}
	t.Errorf("Expected generate_closure to be listed")
}

func TestGenerateClosure_OverStdioSession(t *testing.T) {
	cs := connect(t, newTestServer(t))
	args := map[string]any{"strategy": "balanced", "count": 4, "seed": 7}

	decode := func(text string) closure.Closure {
		var out struct {
			Closure closure.Closure `json:"closure"`
		}
		if err := json.Unmarshal([]byte(text), &out); err != nil {
			t.Fatalf("failed to decode result: %v", err)
		}
		return out.Closure
	}

	res, text := call(t, cs, "generate_closure", args)
	if res.IsError {
		t.Fatalf("Expected success, got %s", text)
	}
	first := decode(text)
	if len(first.Combinations) != 4 {
		t.Fatalf("Expected 4 combinations, got %d", len(first.Combinations))
	}
	for _, c := range first.Combinations {
		if len(c) != 15 {
			t.Errorf("Expected 15 numbers, got %v", c)
		}
	}

	_, text = call(t, cs, "generate_closure", args)
	second := decode(text)
	if !slices.EqualFunc(first.Combinations, second.Combinations, slices.Equal[[]int]) {
		t.Error("Expected identical combinations for the same seed")
	}
}

func TestCheckCombinations_AgainstLatestDraw(t *testing.T) {
	cs := connect(t, newTestServer(t))

	res, text := call(t, cs, "check_combinations", map[string]any{
		"combinations": [][]int{span(1, 15)},
	})
	if res.IsError {
		t.Fatalf("Expected success, got %s", text)
	}

	var out struct {
		Report struct {
			Latest []struct {
				Count      int     `json:"count"`
				Percentage float64 `json:"percentage"`
			} `json:"latest"`
		} `json:"report"`
		Visual string `json:"visual_average_hits"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if len(out.Report.Latest) != 1 {
		t.Fatalf("Expected 1 latest entry, got %d", len(out.Report.Latest))
	}
	if out.Report.Latest[0].Count != 14 || out.Report.Latest[0].Percentage != 93.33 {
		t.Errorf("Expected 14 hits at 93.33%%, got %+v", out.Report.Latest[0])
	}
	if out.Visual == "" {
		t.Error("Expected mermaid chart when charts are enabled")
	}
}

func TestCheckCombinations_InvalidIsToolError(t *testing.T) {
	cs := connect(t, newTestServer(t))

	res, _ := call(t, cs, "check_combinations", map[string]any{
		"combinations": [][]int{append(span(1, 14), 26)},
	})
	if !res.IsError {
		t.Error("Expected tool error for out-of-range number")
	}
}

func TestHandleRepeatedCombinations(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleRepeatedCombinations(ctx, repeatedInput{SubsetSize: 14})
	if err != nil {
		t.Fatalf("handleRepeatedCombinations failed: %v", err)
	}
	subset := res.(map[string]interface{})["most_frequent_subset"].(stats.RepeatedCombination)
	if subset.Count != 2 || !slices.Equal(subset.Numbers, span(1, 14)) {
		t.Errorf("Expected 1..14 shared by 2 draws, got %+v", subset)
	}

	if _, err := s.handleRepeatedCombinations(ctx, repeatedInput{SubsetSize: 16}); !errors.Is(err, game.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestHandleGenerateClosure_SaveAndCheckFile(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleGenerateClosure(ctx, closureInput{Strategy: "frequency", Count: 3, Seed: 3, Save: true})
	if err != nil {
		t.Fatalf("handleGenerateClosure failed: %v", err)
	}
	out := res.(map[string]interface{})
	generated := out["closure"].(closure.Closure)
	path := out["file"].(string)

	checked, err := s.handleCheckCombinations(ctx, checkInput{ClosureFile: path})
	if err != nil {
		t.Fatalf("handleCheckCombinations failed: %v", err)
	}
	rep := checked.(map[string]interface{})["report"].(checker.Report)
	if rep.TotalCombinations != len(generated.Combinations) || rep.TotalDraws != 3 {
		t.Errorf("Expected %d combinations over 3 draws, got %d over %d", len(generated.Combinations), rep.TotalCombinations, rep.TotalDraws)
	}
}

func TestHandleImportHistory(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "draws.csv")
	content := "concurso,data,numeros\n4,04/01/2024,01 02 03 04 05 06 07 08 09 10 11 12 13 14 15\n5,05/01/2024,01 02 03\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	res, err := s.handleImportHistory(ctx, importInput{Path: path})
	if err != nil {
		t.Fatalf("handleImportHistory failed: %v", err)
	}
	out := res.(map[string]interface{})
	if out["added"] != 1 || out["skipped"] != 1 {
		t.Errorf("Expected 1 added and 1 skipped, got %v", out)
	}
	summary := out["summary"].(history.Summary)
	if summary.Count != 4 || summary.LastSequence != 4 {
		t.Errorf("Expected 4 draws up to sequence 4, got %+v", summary)
	}
}

func TestHandleGetStatistics_LastN(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleGetStatistics(context.Background(), statisticsInput{LastN: 1})
	if err != nil {
		t.Fatalf("handleGetStatistics failed: %v", err)
	}
	st := res.(map[string]interface{})["statistics"].(*stats.Statistics)
	if st.TotalDraws != 1 {
		t.Errorf("Expected 1 draw analysed, got %d", st.TotalDraws)
	}
	if st.Frequency[16] != 1 || st.Frequency[15] != 0 {
		t.Errorf("Expected only the latest draw counted, got 15=%d 16=%d", st.Frequency[15], st.Frequency[16])
	}

	guidance := res.(map[string]interface{})["_guidance"].([]string)
	if !slices.ContainsFunc(guidance, func(g string) bool { return strings.Contains(g, "under 30% of the last 10") }) {
		t.Errorf("Expected cold-number guidance to state the 30%% threshold, got %v", guidance)
	}

	if _, err := s.handleGetStatistics(context.Background(), statisticsInput{Game: "megasena"}); !errors.Is(err, game.ErrUnknownProfile) {
		t.Errorf("Expected ErrUnknownProfile, got %v", err)
	}
}
