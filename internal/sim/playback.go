package sim

import (
	"encoding/json"
	"io"
	"os"
)

// ReplayLog streams curve rows from r into writer, in batches of batchSize
// rows when the writer supports batching. A batchSize <= 0 sends the whole
// log as a single batch.
func ReplayLog(r io.Reader, writer CurveWriter, batchSize int) (int, error) {
	dec := json.NewDecoder(r)
	bw, batching := writer.(batchWriter)
	var pending []CurveRow
	count := 0

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		err := bw.WriteBatch(pending)
		pending = pending[:0]
		return err
	}

	for {
		var row CurveRow
		if err := dec.Decode(&row); err != nil {
			if err == io.EOF {
				break
			}
			return count, err
		}
		count++
		if !batching {
			if err := writer.Write(row); err != nil {
				return count, err
			}
			continue
		}
		pending = append(pending, row)
		if batchSize > 0 && len(pending) >= batchSize {
			if err := flush(); err != nil {
				return count, err
			}
		}
	}
	if batching {
		if err := flush(); err != nil {
			return count, err
		}
	}
	return count, nil
}

// ReplayLogFile opens a file and replays its curve rows.
func ReplayLogFile(path string, writer CurveWriter, batchSize int) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return ReplayLog(f, writer, batchSize)
}
