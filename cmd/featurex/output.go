package main

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/RyanBlaney/sonido-features/extraction"
)

// writeCSV writes a header row then one row per input. Missing cells are empty.
func writeCSV(w io.Writer, layout *extraction.Layout, results []extraction.RowResult) error {
	cw := csv.NewWriter(w)

	header := append([]string{"file"}, layout.Names()...)
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for _, r := range results {
		record[0] = r.ID
		cells := r.Cells
		if cells == nil {
			cells = layout.MissingRow()
		}
		for i, cell := range cells {
			if cell.Missing {
				record[i+1] = ""
			} else {
				record[i+1] = strconv.FormatFloat(cell.Value, 'g', -1, 64)
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

type jsonRow struct {
	File   string     `json:"file"`
	Values []*float64 `json:"values"`
	Error  string     `json:"error,omitempty"`
}

type jsonDocument struct {
	Columns []string  `json:"columns"`
	Rows    []jsonRow `json:"rows"`
}

// writeJSON writes the column names once and each row's values in column order.
// Missing cells are null.
func writeJSON(w io.Writer, layout *extraction.Layout, results []extraction.RowResult) error {
	doc := jsonDocument{Columns: layout.Names(), Rows: make([]jsonRow, len(results))}

	for i, r := range results {
		row := jsonRow{File: r.ID}
		if r.Err != nil {
			row.Error = r.Err.Error()
		}
		cells := r.Cells
		if cells == nil {
			cells = layout.MissingRow()
		}
		row.Values = make([]*float64, len(cells))
		for j, cell := range cells {
			if !cell.Missing {
				v := cell.Value
				row.Values[j] = &v
			}
		}
		doc.Rows[i] = row
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
