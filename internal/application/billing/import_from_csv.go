package billing

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/mohammadpnp/mollie-import/internal/domain/billing"
)

type ImportFromCSVInput struct {
	SourcePath string
}

type ImportFromCSVOutput struct {
	RunID      string `json:"run_id"`
	OutputPath string `json:"output_path"`
	Processed  int    `json:"processed"`
	Succeeded  int    `json:"succeeded"`
	Failed     int    `json:"failed"`
}

type ImportFromCSV interface {
	Execute(ctx context.Context, in ImportFromCSVInput) (ImportFromCSVOutput, error)
}

type rowSource interface {
	Read(ctx context.Context, sourcePath string) ([]domain.RowRecord, error)
}

type rowProcessor interface {
	ProcessRow(ctx context.Context, row domain.ImportRow, today time.Time) domain.RowOutcome
}

type reportWriter interface {
	Write(sourcePath string, outcomes []domain.RowOutcome) (string, error)
}

type importFromCSV struct {
	source   rowSource
	pipeline rowProcessor
	writer   reportWriter
	now      func() time.Time
	log      Logger
}

func NewImportFromCSV(source rowSource, pipeline rowProcessor, writer reportWriter, now func() time.Time, logger Logger) ImportFromCSV {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &importFromCSV{
		source:   source,
		pipeline: pipeline,
		writer:   writer,
		now:      now,
		log:      logger,
	}
}

// Execute runs a complete import: parse the export, process each row
// strictly in order, write the results file. Row failures are recorded, not
// propagated; only source/report problems fail the run.
func (uc *importFromCSV) Execute(ctx context.Context, in ImportFromCSVInput) (ImportFromCSVOutput, error) {
	sourcePath := strings.TrimSpace(in.SourcePath)
	if sourcePath == "" || strings.ToLower(filepath.Ext(sourcePath)) != ".csv" {
		return ImportFromCSVOutput{}, ErrInvalidImportSource
	}

	runID := uuid.NewString()
	log := uc.log
	log.Info("starting import", "run_id", runID, "source", sourcePath)

	records, err := uc.source.Read(ctx, sourcePath)
	if err != nil {
		return ImportFromCSVOutput{}, fmt.Errorf("%w: %v", ErrReadSource, err)
	}

	today := domain.DateOnly(uc.now())
	accumulator := NewResultAccumulator()

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return ImportFromCSVOutput{}, err
		}

		if record.Err != "" {
			log.Warn("row rejected by validation", "run_id", runID, "line", record.Line, "email", record.Email, "reason", record.Err)
			accumulator.Record(domain.PreFailedOutcome(record.Email, record.Err))
			continue
		}

		log.Info("processing row", "run_id", runID, "line", record.Line, "email", record.Email)
		accumulator.Record(uc.pipeline.ProcessRow(ctx, *record.Row, today))
	}

	outputPath, err := uc.writer.Write(sourcePath, accumulator.Finalize())
	if err != nil {
		return ImportFromCSVOutput{}, fmt.Errorf("%w: %v", ErrWriteReport, err)
	}

	summary := accumulator.Summary()
	log.Info("import finished", "run_id", runID, "processed", summary.Processed, "succeeded", summary.Succeeded, "failed", summary.Failed, "report", outputPath)

	return ImportFromCSVOutput{
		RunID:      runID,
		OutputPath: outputPath,
		Processed:  summary.Processed,
		Succeeded:  summary.Succeeded,
		Failed:     summary.Failed,
	}, nil
}
