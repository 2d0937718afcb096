package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmaffei/arbdesk/internal/domain"
)

type fakeWriter struct {
	path        string
	contentType string
	body        []byte
}

func (w *fakeWriter) Put(_ context.Context, path string, data io.Reader, contentType string) error {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(data); err != nil {
		return err
	}
	w.path = path
	w.contentType = contentType
	w.body = buf.Bytes()
	return nil
}

func (w *fakeWriter) PutMultipart(_ context.Context, _ string, _ io.Reader, _ int64) error {
	return nil
}

type fakeLister struct {
	ops []domain.Operation
}

func (l *fakeLister) ListClosed(_ context.Context, _, _ *time.Time) ([]domain.Operation, error) {
	return l.ops, nil
}

func TestExportSettledWritesJSONL(t *testing.T) {
	ops := []domain.Operation{
		{ID: "op-1", Name: "derby", Status: domain.OperationSettled, Profit: 12.5},
		{ID: "op-2", Name: "clasico", Status: domain.OperationSettled, Profit: -3},
	}
	w := &fakeWriter{}
	e := NewExporter(w, &fakeLister{ops: ops})

	n, err := e.ExportSettled(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("ExportSettled: %v", err)
	}
	if n != 2 {
		t.Fatalf("exported %d, want 2", n)
	}
	if w.contentType != "application/x-ndjson" {
		t.Fatalf("content type %q", w.contentType)
	}
	if !strings.HasPrefix(w.path, "exports/operations/") || !strings.HasSuffix(w.path, ".jsonl") {
		t.Fatalf("unexpected path %q", w.path)
	}

	lines := strings.Split(strings.TrimSpace(string(w.body)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	var first domain.Operation
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("unmarshal line: %v", err)
	}
	if first.ID != "op-1" || first.Profit != 12.5 {
		t.Fatalf("first line %+v", first)
	}
}

func TestExportSettledEmptyWindow(t *testing.T) {
	w := &fakeWriter{}
	e := NewExporter(w, &fakeLister{})

	n, err := e.ExportSettled(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("ExportSettled: %v", err)
	}
	if n != 0 {
		t.Fatalf("exported %d, want 0", n)
	}
	if w.path != "" {
		t.Fatalf("uploaded %q for empty window", w.path)
	}
}

func TestExportPathWindow(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	got := exportPath(&since, &until, now)
	want := "exports/operations/2026/08/operations_20260801-20260901_"
	if !strings.HasPrefix(got, want) {
		t.Fatalf("path %q, want prefix %q", got, want)
	}

	if got := exportPath(nil, nil, now); !strings.Contains(got, "_all_") {
		t.Fatalf("open window path %q", got)
	}
	if got := exportPath(&since, nil, now); !strings.Contains(got, "from-20260801") {
		t.Fatalf("since-only path %q", got)
	}
}
