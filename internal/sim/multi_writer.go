package sim

// MultiWriter fan-outs curve rows to multiple writers.
type MultiWriter struct {
	writers []CurveWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(ws ...CurveWriter) *MultiWriter {
	return &MultiWriter{writers: ws}
}

// Write sends a curve row to all writers.
func (mw *MultiWriter) Write(row CurveRow) error {
	for _, w := range mw.writers {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch sends multiple rows to all writers, using batch if supported.
func (mw *MultiWriter) WriteBatch(rows []CurveRow) error {
	for _, w := range mw.writers {
		if bw, ok := w.(batchWriter); ok {
			if err := bw.WriteBatch(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.Write(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// resultWriter is implemented by writers that persist the whole result.
type resultWriter interface {
	WriteResult(*Result) error
}

// WriteResult forwards the full result to every writer that accepts it.
func (mw *MultiWriter) WriteResult(r *Result) error {
	for _, w := range mw.writers {
		if rw, ok := w.(resultWriter); ok {
			if err := rw.WriteResult(r); err != nil {
				return err
			}
		}
	}
	return nil
}
