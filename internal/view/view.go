package view

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/noah-isme/sma-adp-console/internal/schema"
)

// Row is one render-ready table row: ordered display strings matching the
// schema's field order, prefixed by the entity id.
type Row struct {
	ID    string
	Cells []string
}

// Project converts entities into plain rows so any presentation layer
// (terminal table here, a web or mobile view elsewhere) can consume them
// without knowing the entity shape.
func Project(s schema.Schema, items []schema.Entity) []Row {
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		row := Row{ID: item.ID(), Cells: make([]string, 0, len(s.Fields))}
		for _, f := range s.Fields {
			row.Cells = append(row.Cells, formatCell(f, item))
		}
		rows = append(rows, row)
	}
	return rows
}

func formatCell(f schema.Field, item schema.Entity) string {
	switch f.Kind {
	case schema.KindBoolean:
		if item.Bool(f.Key) {
			return "yes"
		}
		return "no"
	case schema.KindDate:
		if ts, ok := item.Date(f.Key); ok {
			return ts.Format("2006-01-02")
		}
		return "-"
	case schema.KindNumber:
		if _, present := item[f.Key]; !present {
			return "-"
		}
		return strconv.FormatFloat(item.Number(f.Key), 'f', -1, 64)
	default:
		if v := item.String(f.Key); v != "" {
			return v
		}
		return "-"
	}
}

// Table writes rows as an aligned text table with a header line. An empty
// row set renders a single "no data" line, matching the list screens'
// empty-state row.
func Table(w io.Writer, s schema.Schema, rows []Row) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprint(tw, "#\tID")
	for _, f := range s.Fields {
		fmt.Fprintf(tw, "\t%s", f.Label)
	}
	fmt.Fprintln(tw)

	if len(rows) == 0 {
		fmt.Fprintf(tw, "-\tno %s found\n", s.Name)
		tw.Flush() //nolint:errcheck
		return
	}

	for i, row := range rows {
		fmt.Fprintf(tw, "%d\t%s", i+1, row.ID)
		for _, cell := range row.Cells {
			fmt.Fprintf(tw, "\t%s", cell)
		}
		fmt.Fprintln(tw)
	}
	tw.Flush() //nolint:errcheck
}
