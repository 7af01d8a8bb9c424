package store

import (
	"errors"
	"io"
	"testing"
)

func TestTraceWriteRead(t *testing.T) {
	dir := t.TempDir()

	tw, err := NewTraceWriter(dir, "run-1")
	if err != nil {
		t.Fatalf("NewTraceWriter failed: %v", err)
	}

	history := [][]float64{
		{126, 0},
		{14, 0},
		{1.5555, 0},
	}
	if err := tw.WriteHistory(history); err != nil {
		t.Fatalf("WriteHistory failed: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	tr, err := NewTraceReader(dir, "run-1")
	if err != nil {
		t.Fatalf("NewTraceReader failed: %v", err)
	}
	defer tr.Close()

	entries, err := tr.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}

	for i, entry := range entries {
		if entry.Iteration != i {
			t.Errorf("Entry %d: expected iteration %d, got %d", i, i, entry.Iteration)
		}
		if len(entry.Objective) != 2 {
			t.Errorf("Entry %d: expected 2 objective columns, got %d", i, len(entry.Objective))
		}
		if entry.Total != entry.Objective[0]+entry.Objective[1] {
			t.Errorf("Entry %d: total %f does not match objective sum", i, entry.Total)
		}
	}

	if entries[0].Total != 126 {
		t.Errorf("Expected initial total 126, got %f", entries[0].Total)
	}
}

func TestTraceReaderEOF(t *testing.T) {
	dir := t.TempDir()

	tw, err := NewTraceWriter(dir, "run-1")
	if err != nil {
		t.Fatalf("NewTraceWriter failed: %v", err)
	}
	if err := tw.Write(TraceEntry{Iteration: 0, Objective: []float64{1}, Total: 1}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	tr, err := NewTraceReader(dir, "run-1")
	if err != nil {
		t.Fatalf("NewTraceReader failed: %v", err)
	}
	defer tr.Close()

	if _, err := tr.Read(); err != nil {
		t.Fatalf("First read failed: %v", err)
	}
	if _, err := tr.Read(); err != io.EOF {
		t.Errorf("Expected io.EOF, got %v", err)
	}
}

func TestTraceReaderMissingRun(t *testing.T) {
	_, err := NewTraceReader(t.TempDir(), "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestTraceWriterTruncatesPreviousTrace(t *testing.T) {
	dir := t.TempDir()

	tw, err := NewTraceWriter(dir, "run-1")
	if err != nil {
		t.Fatalf("NewTraceWriter failed: %v", err)
	}
	if err := tw.WriteHistory([][]float64{{1}, {2}}); err != nil {
		t.Fatalf("WriteHistory failed: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	tw, err = NewTraceWriter(dir, "run-1")
	if err != nil {
		t.Fatalf("Second NewTraceWriter failed: %v", err)
	}
	if err := tw.WriteHistory([][]float64{{3}}); err != nil {
		t.Fatalf("WriteHistory failed: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	tr, err := NewTraceReader(dir, "run-1")
	if err != nil {
		t.Fatalf("NewTraceReader failed: %v", err)
	}
	defer tr.Close()

	entries, err := tr.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected 1 entry after truncation, got %d", len(entries))
	}
}
