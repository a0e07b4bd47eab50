package agg

import (
	"fmt"
	"strconv"
)

// RawTable is one tab of upstream values as delivered by a row source.
// Row 0 is conventionally the header row; column 0 holds the date.
type RawTable struct {
	Source string
	Range  string
	Format DateFormat
	Values [][]any
}

// ColumnSelection maps a source name to the zero-based column indices to
// retain. Indices refer to positions in the original row and apply to header
// and data rows alike. A source absent from the selection passes through
// unprojected.
type ColumnSelection map[string][]int

// ProjectedTable is a RawTable narrowed to its declared columns, with the
// header row split off and all cells normalized to strings.
type ProjectedTable struct {
	Source  string
	Range   string
	Format  DateFormat
	Headers []string
	Rows    [][]string
}

// Project narrows a table to the columns declared for its source. Rows
// shorter than the index list project to empty strings for the missing
// cells; spreadsheets routinely have ragged rows and that must never panic.
func Project(table RawTable, sel ColumnSelection) ProjectedTable {
	keep, selected := sel[table.Source]
	if len(keep) == 0 {
		selected = false
	}

	rows := make([][]string, 0, len(table.Values))
	for _, r := range table.Values {
		if !selected {
			out := make([]string, len(r))
			for i, cell := range r {
				out[i] = CellString(cell)
			}
			rows = append(rows, out)
			continue
		}
		out := make([]string, len(keep))
		for j, idx := range keep {
			if idx >= 0 && idx < len(r) {
				out[j] = CellString(r[idx])
			}
		}
		rows = append(rows, out)
	}

	p := ProjectedTable{
		Source: table.Source,
		Range:  table.Range,
		Format: table.Format,
	}
	if len(rows) > 0 {
		p.Headers = rows[0]
		p.Rows = rows[1:]
	}
	return p
}

// CellString normalizes a spreadsheet cell (string or number on the wire)
// to its string form.
func CellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
