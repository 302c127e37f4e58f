package visuals

import (
	"fmt"
	"math"
	"strings"

	"loto-mcp/internal/checker"
	"loto-mcp/internal/stats"
)

// maxAxisPoints is where Mermaid's xychart starts overlapping labels.
const maxAxisPoints = 60

func barChart(title, yLabel string, labels, values []string, maxVal float64) string {
	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"%s\"\n", title))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"%s\" 0 --> %d\n", yLabel, int(math.Ceil(math.Max(1, maxVal*1.1)))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

func numberSeries(s *stats.Statistics, m map[int]int) ([]string, []string, float64) {
	p := s.Profile
	step := 1
	if p.RangeSize() > maxAxisPoints {
		step = int(math.Ceil(float64(p.RangeSize()) / maxAxisPoints))
	}

	var labels, values []string
	maxVal := 0.0
	for n := p.NumberMin; n <= p.NumberMax; n += step {
		// Wide ranges are grouped so the chart stays readable.
		total := 0
		for k := n; k < n+step && k <= p.NumberMax; k++ {
			total += m[k]
		}
		label := fmt.Sprintf("\"%02d\"", n)
		if step > 1 {
			label = fmt.Sprintf("\"%02d-%02d\"", n, min(n+step-1, p.NumberMax))
		}
		labels = append(labels, label)
		values = append(values, fmt.Sprintf("%d", total))
		maxVal = math.Max(maxVal, float64(total))
	}
	return labels, values, maxVal
}

// GenerateFrequencyChart creates a Mermaid bar chart of draws per number.
func GenerateFrequencyChart(s *stats.Statistics) string {
	if s == nil || s.TotalDraws == 0 {
		return ""
	}
	labels, values, maxVal := numberSeries(s, s.Frequency)
	return barChart(fmt.Sprintf("Number Frequency (%d draws)", s.TotalDraws), "Draws", labels, values, maxVal)
}

// GenerateDelayChart creates a Mermaid bar chart of draws since each number last appeared.
func GenerateDelayChart(s *stats.Statistics) string {
	if s == nil || s.TotalDraws == 0 {
		return ""
	}
	labels, values, maxVal := numberSeries(s, s.Delay)
	return barChart("Delay Since Last Draw", "Draws", labels, values, maxVal)
}

// GenerateBucketChart creates a Mermaid bar chart of the mean numbers drawn per bucket.
func GenerateBucketChart(s *stats.Statistics) string {
	if s == nil || len(s.Buckets) == 0 || s.TotalDraws == 0 {
		return ""
	}

	var labels, values []string
	maxVal := 0.0
	for _, b := range s.Buckets {
		labels = append(labels, fmt.Sprintf("\"%s\"", b.Name))
		values = append(values, fmt.Sprintf("%.2f", b.Average))
		maxVal = math.Max(maxVal, b.Average)
	}
	return barChart("Average Numbers per Bucket", "Numbers per Draw", labels, values, maxVal)
}

// GenerateParityPie creates a Mermaid pie chart of the even/odd split.
func GenerateParityPie(s *stats.Statistics) string {
	if s == nil || s.TotalDraws == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("pie title Even / Odd Split (average per draw)\n")
	sb.WriteString(fmt.Sprintf("    \"Even\" : %.2f\n", s.Parity.Even))
	sb.WriteString(fmt.Sprintf("    \"Odd\" : %.2f\n", s.Parity.Odd))
	sb.WriteString("```")
	return sb.String()
}

// GenerateMatchDistributionChart creates a Mermaid bar chart of how many draws
// produced each hit count for one combination.
func GenerateMatchDistributionChart(m checker.HistoryMatch) string {
	if m.TotalDraws == 0 {
		return ""
	}

	var labels, values []string
	maxVal := 0.0
	for hits, draws := range m.Distribution {
		labels = append(labels, fmt.Sprintf("\"%d\"", hits))
		values = append(values, fmt.Sprintf("%d", draws))
		maxVal = math.Max(maxVal, float64(draws))
	}
	return barChart(fmt.Sprintf("Hit Distribution (combination %d)", m.Index), "Draws", labels, values, maxVal)
}

// GenerateAverageHitsChart creates a Mermaid bar chart of the ranked average hits.
func GenerateAverageHitsChart(r checker.Report) string {
	if r.TotalDraws == 0 || len(r.History) == 0 {
		return ""
	}

	limit := min(len(r.History), 20)
	var labels, values []string
	maxVal := 0.0
	for _, m := range r.History[:limit] {
		labels = append(labels, fmt.Sprintf("\"#%d\"", m.Index))
		values = append(values, fmt.Sprintf("%.2f", m.Average))
		maxVal = math.Max(maxVal, m.Average)
	}
	return barChart("Average Hits per Draw (Top 20)", "Hits", labels, values, maxVal)
}
