package reportfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dappnode/validator-status/internal/application/domain"
	"github.com/dappnode/validator-status/internal/logger"
)

// ReportFileAdapter writes each report histogram to <Dir>/<report name>.json.
type ReportFileAdapter struct {
	Dir string
}

func NewReportFileAdapter(dir string) *ReportFileAdapter {
	return &ReportFileAdapter{Dir: dir}
}

// SaveReport writes the histogram as 2-space indented JSON. The file is written
// to a temporary name first and renamed, so a report is either complete or absent.
func (r *ReportFileAdapter) SaveReport(_ context.Context, report domain.StatusReport) error {
	data, err := json.MarshalIndent(report.Histogram, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create results dir %s: %w", r.Dir, err)
	}

	path := r.Path(report.Name)
	tmp, err := os.CreateTemp(r.Dir, "."+report.Name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("error writing file %s: %w", path, err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing file %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("error syncing file %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error writing file %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("error writing file %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("error writing file %s: %w", path, err)
	}

	logger.Info("Results written to: %s", path)
	return nil
}

// Path returns where the report with the given name is written.
func (r *ReportFileAdapter) Path(name string) string {
	return filepath.Join(r.Dir, name+".json")
}
