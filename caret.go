package outlining

import (
	"strconv"

	"github.com/pkg/errors"
)

// snapshotCaret reads the caret position of v.
func snapshotCaret(v View) (Position, error) {
	line, col, err := v.CaretPos()
	if err != nil {
		return Position{}, errors.Wrap(err, "failed to read caret position")
	}
	return Position{Line: line, Column: col}, nil
}

// restoreCaret puts the caret back at p and centers the view around its
// line so that it stays in context after the folding layout changed.
func restoreCaret(v View, p Position, margin int) error {
	if err := v.SetCaretPos(p.Line, p.Column); err != nil {
		return errors.Wrapf(err, "failed to move caret to %d:%d", p.Line, p.Column)
	}
	if err := v.CenterLines(p.Line, margin); err != nil {
		return errors.Wrapf(err, "failed to center view on line %d", p.Line)
	}
	return nil
}

// String renders the position as LINE:COLUMN.
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}
