package sim

// CurveWriter is an interface to support different output writers.
type CurveWriter interface {
	Write(CurveRow) error
}

// Optional: Writers can also support batch mode
type batchWriter interface {
	WriteBatch([]CurveRow) error
}

// Emit sends every row of r to w, in one batch when w supports it, then hands
// the whole result to writers that keep it.
func Emit(w CurveWriter, r *Result) error {
	rows := r.Rows()
	if bw, ok := w.(batchWriter); ok && len(rows) > 0 {
		if err := bw.WriteBatch(rows); err != nil {
			return err
		}
	} else {
		for _, row := range rows {
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	if rw, ok := w.(resultWriter); ok {
		return rw.WriteResult(r)
	}
	return nil
}
