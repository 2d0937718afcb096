package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmaffei/arbdesk/internal/domain"
)

// SettledLister provides read access to settled operations for export. The
// Postgres OperationStore satisfies it; the exporter needs nothing else from
// the full store interface.
type SettledLister interface {
	ListClosed(ctx context.Context, since, until *time.Time) ([]domain.Operation, error)
}

// Exporter implements domain.Exporter by querying settled operations,
// serializing them to JSONL, and uploading the result to object storage.
//
// Deleting exported rows from the primary store is intentionally not done
// here; cold storage is an archive, not a migration.
type Exporter struct {
	writer domain.BlobWriter
	ops    SettledLister
}

// NewExporter creates an Exporter writing through the given BlobWriter.
func NewExporter(writer domain.BlobWriter, ops SettledLister) *Exporter {
	return &Exporter{
		writer: writer,
		ops:    ops,
	}
}

// ExportSettled serializes all settled operations in the window to a JSONL
// object and uploads it. It returns the number of operations exported; a
// window with no settled operations uploads nothing and returns 0.
func (e *Exporter) ExportSettled(ctx context.Context, since, until *time.Time) (int64, error) {
	ops, err := e.ops.ListClosed(ctx, since, until)
	if err != nil {
		return 0, fmt.Errorf("s3blob: export settled: %w", err)
	}
	if len(ops) == 0 {
		return 0, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, op := range ops {
		if err := enc.Encode(op); err != nil {
			return 0, fmt.Errorf("s3blob: encode operation %s: %w", op.ID, err)
		}
	}

	path := exportPath(since, until, time.Now().UTC())
	if err := e.writer.Put(ctx, path, &buf, "application/x-ndjson"); err != nil {
		return 0, fmt.Errorf("s3blob: export settled: %w", err)
	}

	return int64(len(ops)), nil
}

// exportPath builds a deterministic-per-run object key under exports/,
// partitioned by the run's year and month so listings stay manageable.
func exportPath(since, until *time.Time, now time.Time) string {
	window := "all"
	switch {
	case since != nil && until != nil:
		window = since.UTC().Format("20060102") + "-" + until.UTC().Format("20060102")
	case since != nil:
		window = "from-" + since.UTC().Format("20060102")
	case until != nil:
		window = "to-" + until.UTC().Format("20060102")
	}
	return fmt.Sprintf("exports/operations/%s/operations_%s_%d.jsonl",
		now.Format("2006/01"), window, now.Unix())
}

// Compile-time interface check.
var _ domain.Exporter = (*Exporter)(nil)
