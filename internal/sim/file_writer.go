package sim

import (
	"encoding/json"
	"os"
)

// FileWriter writes curve rows to a JSONL file and, optionally, the full
// run result to a companion JSON document.
type FileWriter struct {
	rowFile    *os.File
	rowEnc     *json.Encoder
	resultPath string
}

// NewFileWriter creates a FileWriter. Either path may be empty to skip that
// output.
func NewFileWriter(rowsPath, resultPath string) (*FileWriter, error) {
	if rowsPath == "" {
		return &FileWriter{resultPath: resultPath}, nil
	}
	f, err := os.Create(rowsPath)
	if err != nil {
		return nil, err
	}
	return &FileWriter{rowFile: f, rowEnc: json.NewEncoder(f), resultPath: resultPath}, nil
}

// Write logs a single curve row.
func (f *FileWriter) Write(row CurveRow) error {
	if f.rowEnc == nil {
		return nil
	}
	return f.rowEnc.Encode(row)
}

// WriteBatch logs multiple curve rows.
func (f *FileWriter) WriteBatch(rows []CurveRow) error {
	for _, r := range rows {
		if err := f.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteResult stores the complete result as indented JSON, if enabled.
func (f *FileWriter) WriteResult(r *Result) error {
	if f.resultPath == "" {
		return nil
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.resultPath, data, 0o644)
}

// Close closes the row file.
func (f *FileWriter) Close() error {
	if f.rowFile == nil {
		return nil
	}
	return f.rowFile.Close()
}
