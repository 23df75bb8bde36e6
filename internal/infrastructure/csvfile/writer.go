package csvfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	domain "github.com/mohammadpnp/mollie-import/internal/domain/billing"
)

var reportHeader = []string{
	"email",
	"customer_id", "customer_idempotency",
	"mandate_id", "mandate_idempotency",
	"subscription_id", "subscription_idempotency",
	"status", "error",
}

// Writer persists the import report next to the export it was produced from,
// one record per input row, in input order.
type Writer struct {
	source *LocalSource
}

func NewWriter(source *LocalSource) *Writer {
	return &Writer{source: source}
}

// Write creates imported_<base>.csv beside the source file and returns its
// path.
func (w *Writer) Write(sourcePath string, outcomes []domain.RowOutcome) (string, error) {
	resolved := w.source.Resolve(sourcePath)
	base := strings.TrimSuffix(filepath.Base(resolved), filepath.Ext(resolved))
	outputPath := filepath.Join(filepath.Dir(resolved), "imported_"+base+".csv")

	file, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("create report %s: %w", outputPath, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(reportHeader); err != nil {
		return "", fmt.Errorf("write report header: %w", err)
	}

	for _, outcome := range outcomes {
		record := []string{
			outcome.Email,
			outcome.Customer.ResourceID, keyColumn(outcome.Customer),
			outcome.Mandate.ResourceID, keyColumn(outcome.Mandate),
			outcome.Subscription.ResourceID, keyColumn(outcome.Subscription),
			string(outcome.Status), outcome.Err,
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("write report record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flush report: %w", err)
	}
	return outputPath, nil
}

func keyColumn(step domain.StepResult) string {
	return step.Key.Digest
}
