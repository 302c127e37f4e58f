package mcp

import (
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool inputs. Fields tagged omitempty are optional in the generated schema.

type gameInput struct {
	Game string `json:"game,omitempty" jsonschema:"game name such as lotofacil or timemania; defaults to the configured game"`
}

type statisticsInput struct {
	Game  string `json:"game,omitempty" jsonschema:"game name; defaults to the configured game"`
	LastN int    `json:"last_n,omitempty" jsonschema:"restrict the analysis to the most recent N draws"`
}

type closureInput struct {
	Game      string `json:"game,omitempty" jsonschema:"game name; defaults to the configured game"`
	Strategy  string `json:"strategy,omitempty" jsonschema:"frequency, delay, balanced or blended (default)"`
	Count     int    `json:"count" jsonschema:"number of combinations to generate"`
	ComboSize int    `json:"combo_size,omitempty" jsonschema:"numbers per combination; defaults to the game's standard combination size (50 for lotomania)"`
	Fixed     []int  `json:"fixed,omitempty" jsonschema:"numbers that must appear in every combination"`
	Seed      int64  `json:"seed,omitempty" jsonschema:"random seed for reproducible output"`
	Save      bool   `json:"save,omitempty" jsonschema:"write the closure as JSON into the reports directory"`
}

type checkInput struct {
	Game         string  `json:"game,omitempty" jsonschema:"game name; defaults to the configured game"`
	Combinations [][]int `json:"combinations,omitempty" jsonschema:"combinations to check"`
	ClosureFile  string  `json:"closure_file,omitempty" jsonschema:"path to a closure JSON or text file to check instead"`
}

type repeatedInput struct {
	Game       string `json:"game,omitempty" jsonschema:"game name; defaults to the configured game"`
	SubsetSize int    `json:"subset_size,omitempty" jsonschema:"also find the most frequent subset of this size"`
}

type importInput struct {
	Game string `json:"game,omitempty" jsonschema:"game name; defaults to the configured game"`
	Path string `json:"path" jsonschema:"file to import: provider JSON, .jsonl or .csv"`
}

type reportInput struct {
	Game         string  `json:"game,omitempty" jsonschema:"game name; defaults to the configured game"`
	Combinations [][]int `json:"combinations,omitempty" jsonschema:"optional combinations to include a check section"`
	Open         bool    `json:"open,omitempty" jsonschema:"open the report in the default browser"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.sdk, &sdk.Tool{
		Name:        "list_games",
		Description: "List the configured lottery games with their number range, draw size and buckets.",
	}, wrap("list_games", s.handleListGames))

	sdk.AddTool(s.sdk, &sdk.Tool{
		Name:        "get_history_summary",
		Description: "Show how many draws are stored for a game, the first/last sequence and the latest draws.",
	}, wrap("get_history_summary", s.handleHistorySummary))

	sdk.AddTool(s.sdk, &sdk.Tool{
		Name:        "import_history",
		Description: "Import draws from a local file into the history store. Existing sequences are replaced, new ones appended.",
	}, wrap("import_history", s.handleImportHistory))

	sdk.AddTool(s.sdk, &sdk.Tool{
		Name: "get_statistics",
		Description: "Descriptive statistics over the stored draws: frequency, delay since last appearance, hot/cold/delayed numbers, " +
			"bucket averages, parity and consecutive pairs.",
	}, wrap("get_statistics", s.handleGetStatistics))

	sdk.AddTool(s.sdk, &sdk.Tool{
		Name: "generate_closure",
		Description: "Generate distinct combinations using a statistical strategy (frequency, delay, balanced, blended). " +
			"Fixed numbers are kept in every combination and the rest is filled at random.",
	}, wrap("generate_closure", s.handleGenerateClosure))

	sdk.AddTool(s.sdk, &sdk.Tool{
		Name: "check_combinations",
		Description: "Check combinations against the latest draw and the whole history. " +
			"Returns hits, percentages, averages, medians, hit distributions and a ranking by average hits.",
	}, wrap("check_combinations", s.handleCheckCombinations))

	sdk.AddTool(s.sdk, &sdk.Tool{
		Name:        "get_repeated_combinations",
		Description: "Find the full drawn set that repeated most often and, optionally, the most frequent subset of a given size.",
	}, wrap("get_repeated_combinations", s.handleRepeatedCombinations))

	sdk.AddTool(s.sdk, &sdk.Tool{
		Name:        "generate_report",
		Description: "Write an HTML report of the statistics (and optionally a check) into the reports directory.",
	}, wrap("generate_report", s.handleGenerateReport))
}
