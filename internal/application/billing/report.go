package billing

import (
	"strings"

	domain "github.com/mohammadpnp/mollie-import/internal/domain/billing"
)

// ResultAccumulator collects row outcomes in input order, so the results file
// lines up positionally with the export it was produced from.
type ResultAccumulator struct {
	outcomes []domain.RowOutcome
}

func NewResultAccumulator() *ResultAccumulator {
	return &ResultAccumulator{}
}

func (a *ResultAccumulator) Record(outcome domain.RowOutcome) {
	a.outcomes = append(a.outcomes, outcome)
}

// Finalize returns a read-only snapshot of the recorded outcomes.
func (a *ResultAccumulator) Finalize() []domain.RowOutcome {
	snapshot := make([]domain.RowOutcome, len(a.outcomes))
	copy(snapshot, a.outcomes)
	return snapshot
}

type RunSummary struct {
	Processed int
	Succeeded int
	Failed    int
}

func (a *ResultAccumulator) Summary() RunSummary {
	summary := RunSummary{Processed: len(a.outcomes)}
	for _, outcome := range a.outcomes {
		if outcome.Status == domain.StatusOK {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}
	return summary
}

func truncateReason(reason string) string {
	const maxLen = 1000
	reason = strings.TrimSpace(reason)
	if len(reason) <= maxLen {
		return reason
	}
	return reason[:maxLen]
}
