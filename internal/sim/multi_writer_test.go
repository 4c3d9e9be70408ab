package sim

import (
	"errors"
	"testing"
)

type collectWriter struct{ rows []CurveRow }

func (c *collectWriter) Write(r CurveRow) error {
	c.rows = append(c.rows, r)
	return nil
}

type batchCollector struct {
	collectWriter
	batches int
	result  *Result
}

func (b *batchCollector) WriteBatch(rows []CurveRow) error {
	b.batches++
	b.rows = append(b.rows, rows...)
	return nil
}

func (b *batchCollector) WriteResult(r *Result) error {
	b.result = r
	return nil
}

type failingWriter struct{}

func (failingWriter) Write(CurveRow) error { return errors.New("boom") }

func TestMultiWriterFanOut(t *testing.T) {
	plain := &collectWriter{}
	batched := &batchCollector{}
	mw := NewMultiWriter(plain, batched)

	res := sampleResult()
	if err := Emit(mw, res); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	want := len(res.Rows())
	if len(plain.rows) != want || len(batched.rows) != want {
		t.Fatalf("expected %d rows each, got %d and %d", want, len(plain.rows), len(batched.rows))
	}
	if batched.batches != 1 {
		t.Fatalf("expected a single batch, got %d", batched.batches)
	}
	if batched.result != res {
		t.Fatalf("result not forwarded")
	}
}

func TestMultiWriterStopsOnError(t *testing.T) {
	after := &collectWriter{}
	mw := NewMultiWriter(failingWriter{}, after)
	if err := mw.Write(CurveRow{}); err == nil {
		t.Fatalf("expected error")
	}
	if len(after.rows) != 0 {
		t.Fatalf("writer after failure should not receive rows")
	}
}

func TestEmitEmptyResult(t *testing.T) {
	c := &batchCollector{}
	if err := Emit(c, &Result{RunID: "r"}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if c.batches != 0 || len(c.rows) != 0 {
		t.Fatalf("expected no rows for empty result")
	}
	if c.result == nil {
		t.Fatalf("empty result should still be forwarded")
	}
}
