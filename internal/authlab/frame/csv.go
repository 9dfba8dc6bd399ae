package frame

import (
	"encoding/csv"
	"io"
)

// WriteCSV writes a header row then every row. NULL is written as an empty
// field, so it is indistinguishable from "" once exported.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Columns); err != nil {
		return err
	}

	record := make([]string, len(f.Columns))
	for _, row := range f.Rows {
		for i, v := range row {
			record[i] = v.String
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
