package staging

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
)

// Reader reads records back from a staged artifact.
type Reader struct {
	f      *os.File
	csv    *csv.Reader
	header []string
	line   int
}

// OpenArtifact opens a staged file and checks that its header matches the
// expected columns exactly.
func OpenArtifact(path string, columns []string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	r := &Reader{f: f, csv: csv.NewReader(f)}
	r.csv.FieldsPerRecord = len(columns)
	r.csv.ReuseRecord = false

	header, err := r.csv.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: reading header: %w", path, err)
	}
	if !slices.Equal(header, columns) {
		f.Close()
		return nil, fmt.Errorf("%s: header %v does not match columns %v", path, header, columns)
	}
	r.header = header
	r.line = 1
	return r, nil
}

// Header returns the artifact's header row.
func (r *Reader) Header() []string {
	return r.header
}

// Next returns the next record, or io.EOF when the artifact is exhausted.
func (r *Reader) Next() ([]string, error) {
	rec, err := r.csv.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	r.line++
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", r.line, err)
	}
	return rec, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}

// ReadAll reads every record of a staged artifact.
func ReadAll(path string, columns []string) ([][]string, error) {
	r, err := OpenArtifact(path, columns)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var rows [][]string
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		rows = append(rows, rec)
	}
}
