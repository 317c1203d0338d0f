// Package termview paints memhost views onto a terminal screen.
package termview

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/lestrrat-go/pdebug"
	"github.com/mattn/go-runewidth"
	"github.com/peco/outlining/internal/memhost"
)

var (
	headerStyle    = tcell.StyleDefault.Reverse(true)
	gutterStyle    = tcell.StyleDefault.Dim(true)
	collapsedStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// Print writes s starting at (x, y) and returns the x following the last
// cell written. Wide runes take two cells.
func Print(s tcell.Screen, x, y int, style tcell.Style, msg string) int {
	for _, r := range msg {
		s.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	return x
}

// Draw paints v onto s: a header row, then the view's visible rows with a
// line number gutter, and places the cursor on the caret.
func Draw(s tcell.Screen, v *memhost.View, marker string) {
	if pdebug.Enabled {
		g := pdebug.Marker("termview.Draw %s", v.Document().Name())
		defer g.End()
	}

	s.Clear()
	width, height := s.Size()

	line, col, _ := v.CaretPos()
	header := fmt.Sprintf(" %s  %d:%d ", v.Document().Name(), line+1, col+1)
	Print(s, 0, 0, headerStyle, runewidth.FillRight(header, width))

	gutter := len(fmt.Sprint(v.Document().LineCount()))
	s.HideCursor()
	for i, row := range v.Rows() {
		y := i + 1
		if y >= height {
			break
		}
		x := Print(s, 0, y, gutterStyle, fmt.Sprintf("%*d ", gutter, row.Line+1))
		textX := x
		x = Print(s, x, y, tcell.StyleDefault, row.Text)
		if row.Collapsed {
			Print(s, x, y, collapsedStyle, marker)
		}
		if row.Line == line {
			s.ShowCursor(textX+v.CaretCell(), y)
		}
	}
	s.Show()
}

// Show draws each view in turn. Any key moves to the next view; Esc, q
// or a canceled ctx stop early.
func Show(ctx context.Context, s tcell.Screen, views []*memhost.View, marker string) error {
	if len(views) == 0 {
		return nil
	}

	events := make(chan tcell.Event)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		defer close(events)
		for {
			ev := s.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	i := 0
	for {
		Draw(s, views[i], marker)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				s.Sync()
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
					return nil
				}
				i++
				if i >= len(views) {
					return nil
				}
			}
		}
	}
}
