package memhost

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultMarker is appended to the header line of a collapsed region.
const DefaultMarker = " ..."

// Row is one line as displayed by a view.
type Row struct {
	Line      int
	Text      string
	Collapsed bool
}

// Rows returns the rows the view currently shows, starting at its top
// line and limited to its height.
func (v *View) Rows() []Row {
	var rows []Row
	for _, n := range v.doc.VisibleLines() {
		if n < v.top {
			continue
		}
		if len(rows) >= v.height {
			break
		}
		r := Row{Line: n, Text: v.doc.Line(n)}
		if reg, ok := v.doc.RegionAt(n); ok && reg.Collapsed {
			r.Collapsed = true
		}
		rows = append(rows, r)
	}
	return rows
}

// CaretCell returns the display cell the caret column maps to on its line,
// accounting for wide characters.
func (v *View) CaretCell() int {
	return ColumnToCell(v.doc.Line(v.line), v.col)
}

// ColumnToCell converts a rune column into a display cell offset.
func ColumnToCell(s string, col int) int {
	var cells, i int
	for _, r := range s {
		if i >= col {
			break
		}
		cells += runewidth.RuneWidth(r)
		i++
	}
	return cells
}

// Render writes the visible rows, each prefixed with its line number.
// Collapsed headers get marker appended, and a caret line follows the row
// holding the caret.
func (v *View) Render(w io.Writer, marker string) error {
	rows := v.Rows()
	width := len(fmt.Sprint(v.doc.LineCount()))

	if _, err := fmt.Fprintf(w, "== %s (caret %d:%d)\n", v.doc.Name(), v.line+1, v.col+1); err != nil {
		return err
	}
	for _, r := range rows {
		text := r.Text
		if r.Collapsed {
			text += marker
		}
		if _, err := fmt.Fprintf(w, "%*d | %s\n", width, r.Line+1, text); err != nil {
			return err
		}
		if r.Line == v.line {
			pad := strings.Repeat(" ", width+3+v.CaretCell())
			if _, err := fmt.Fprintf(w, "%s^\n", pad); err != nil {
				return err
			}
		}
	}
	return nil
}
