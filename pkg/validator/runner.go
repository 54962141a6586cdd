package validator

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/sati-bodhi/ui-canvas-framework/pkg/registry"
	"github.com/sati-bodhi/ui-canvas-framework/pkg/tokens"
	"github.com/sati-bodhi/ui-canvas-framework/pkg/util"
)

// Runner executes every validation pass in sequence and aggregates
// their results. Passes share one file cache; most files are read by
// both the architecture and token validators.
type Runner struct {
	cfg    Config
	cache  *util.FileCache
	logger *slog.Logger

	// VisualTestCommand, when non-empty, is run after the static passes
	// as an external check. Only its exit status matters.
	VisualTestCommand string
}

// RunReport aggregates all validation passes.
type RunReport struct {
	Architecture *Result         `json:"architecture"`
	Tokens       *Result         `json:"tokens"`
	Registry     *RegistryReport `json:"registry"`
	VisualTests  *Result         `json:"visualTests,omitempty"`
	Passed       bool            `json:"passed"`

	// TokenSet carries the counted tokens for optional report output.
	TokenSet *tokens.Set `json:"-"`
}

// NewRunner creates a runner with its own file cache.
func NewRunner(cfg Config, logger *slog.Logger) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := util.NewFileCache(util.DefaultMaxCachedFiles, logger)
	if err != nil {
		return nil, fmt.Errorf("create file cache: %w", err)
	}
	return &Runner{cfg: cfg, cache: cache, logger: logger}, nil
}

// Run executes architecture, tokens, and registry validation in
// sequence, then the optional visual-test command. The report passes
// only when every pass does.
func (r *Runner) Run(store *registry.Store) (*RunReport, error) {
	report := &RunReport{}

	arch, err := NewArchitectureValidator(r.cfg, r.cache, r.logger).Validate()
	if err != nil {
		return nil, err
	}
	report.Architecture = arch

	tokResult, set, err := NewTokenValidator(r.cfg, r.cache, r.logger).Validate()
	if err != nil {
		return nil, err
	}
	report.Tokens = tokResult
	report.TokenSet = set

	report.Registry = NewRegistryValidator(r.cfg, r.logger).Validate(store)

	if r.VisualTestCommand != "" {
		report.VisualTests = r.runVisualTests()
	}

	report.Passed = arch.Passed && tokResult.Passed && report.Registry.Result.Passed &&
		(report.VisualTests == nil || report.VisualTests.Passed)

	stats := r.cache.Stats()
	r.logger.Info("validation run complete", "passed", report.Passed,
		"cache_hits", stats.Hits, "cache_misses", stats.Misses)
	return report, nil
}

// Close releases the shared file cache.
func (r *Runner) Close() error {
	return r.cache.Close()
}

// runVisualTests shells out to the configured command. The command is
// an external collaborator: only pass/fail crosses the boundary.
func (r *Runner) runVisualTests() *Result {
	fields := strings.Fields(r.VisualTestCommand)
	cmd := exec.Command(fields[0], fields[1:]...)
	cmd.Dir = r.cfg.ProjectRoot

	output, err := cmd.CombinedOutput()
	if err != nil {
		r.logger.Warn("visual tests failed", "command", r.VisualTestCommand, "error", err)
		return newResult("visual-tests", []Violation{{
			Type:     "VISUAL_TEST_FAILED",
			Message:  fmt.Sprintf("Visual test command failed: %v", err),
			Severity: SeverityError,
			Details:  strings.TrimSpace(string(output)),
		}})
	}

	r.logger.Info("visual tests passed", "command", r.VisualTestCommand)
	return newResult("visual-tests", nil)
}
