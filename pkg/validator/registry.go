package validator

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sati-bodhi/ui-canvas-framework/pkg/registry"
)

// RegistryReport extends the pass result with record counts.
type RegistryReport struct {
	Result *Result `json:"result"`
	Total  int     `json:"total"`
	Valid  int     `json:"valid"`
	Stale  int     `json:"stale"`
}

// RegistryValidator checks every manifest record against the
// filesystem and the naming/layout rules.
type RegistryValidator struct {
	cfg    Config
	logger *slog.Logger
}

// NewRegistryValidator creates a registry validator.
func NewRegistryValidator(cfg Config, logger *slog.Logger) *RegistryValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &RegistryValidator{cfg: cfg, logger: logger}
}

// Validate walks every record: the referenced file must exist, the
// name must contain a hyphen (custom-element requirement), and the
// stored layer must agree with the layer implied by the path prefix.
func (rv *RegistryValidator) Validate(store *registry.Store) *RegistryReport {
	var violations []Violation
	records := store.List()

	valid := 0
	for _, rec := range records {
		recordOK := true

		if _, err := os.Stat(filepath.Join(rv.cfg.ProjectRoot, rec.Path)); err != nil {
			recordOK = false
			violations = append(violations, Violation{
				Type:       TypeFileNotFound,
				File:       rec.Path,
				Message:    fmt.Sprintf("File not found: %s", rec.Path),
				Severity:   SeverityError,
				Suggestion: fmt.Sprintf("Restore the file or remove the %q record", rec.Name),
				Details:    rec.Name,
			})
		}

		if !strings.Contains(rec.Name, "-") {
			recordOK = false
			violations = append(violations, Violation{
				Type:       TypeInvalidName,
				File:       rec.Path,
				Message:    fmt.Sprintf("Component name %q has no hyphen", rec.Name),
				Severity:   SeverityError,
				Suggestion: "Custom element names require at least one hyphen",
			})
		}

		if implied, ok := layerOf(rv.cfg, rec.Path); ok && implied != rec.Layer {
			recordOK = false
			violations = append(violations, Violation{
				Type:       TypeLayerMismatch,
				File:       rec.Path,
				Message:    fmt.Sprintf("Record %q stored as %s but its path implies %s", rec.Name, rec.Layer, implied),
				Severity:   SeverityError,
				Suggestion: "Re-run the scan to refresh the record",
			})
		}

		if recordOK {
			valid++
		}
	}

	report := &RegistryReport{
		Result: newResult("registry", violations),
		Total:  len(records),
		Valid:  valid,
		Stale:  len(records) - valid,
	}
	rv.logger.Info("registry validation complete",
		"total", report.Total, "valid", report.Valid, "stale", report.Stale)
	return report
}
