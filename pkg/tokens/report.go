package tokens

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// DefaultReportPath is where `tokens --report` writes its output.
const DefaultReportPath = ".uicanvas/token-report.json"

// maxRanked caps the most-used list in the report.
const maxRanked = 10

// UsageReport is the structured summary written on request after a
// token validation run.
type UsageReport struct {
	Generated   time.Time           `json:"generated"`
	Stylesheet  string              `json:"stylesheet"`
	TotalTokens int                 `json:"totalTokens"`
	Categories  map[Category]int    `json:"categories"`
	MostUsed    []Token             `json:"mostUsed"`
	RarelyUsed  []Token             `json:"rarelyUsed"`
	ByCategory  map[Category][]Token `json:"byCategory"`
}

// BuildReport summarizes a counted token set. "Rarely used" means at
// most one recorded use; it is a reporting nuance only — the validator
// warns strictly on zero uses.
func BuildReport(set *Set, stylesheet string, now time.Time) *UsageReport {
	report := &UsageReport{
		Generated:   now,
		Stylesheet:  stylesheet,
		TotalTokens: set.Len(),
		Categories:  make(map[Category]int),
		ByCategory:  make(map[Category][]Token),
	}

	ranked := make([]Token, 0, set.Len())
	for _, tok := range set.All() {
		report.Categories[tok.Category]++
		report.ByCategory[tok.Category] = append(report.ByCategory[tok.Category], *tok)
		ranked = append(ranked, *tok)
		if tok.UsageCount <= 1 {
			report.RarelyUsed = append(report.RarelyUsed, *tok)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].UsageCount > ranked[j].UsageCount
	})
	if len(ranked) > maxRanked {
		ranked = ranked[:maxRanked]
	}
	report.MostUsed = ranked

	return report
}

// WriteReport writes the report pretty-printed, creating parent
// directories as needed.
func WriteReport(path string, report *UsageReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token report: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write token report %q: %w", path, err)
	}
	return nil
}
