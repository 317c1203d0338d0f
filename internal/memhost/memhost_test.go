package memhost

import (
	"bytes"
	"strings"
	"testing"

	"github.com/peco/outlining"
	"github.com/peco/outlining/enum"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const sample = `package main

import "fmt"

func a() {
	fmt.Println("a {")
}

func b() {
	for i := 0; i < 3; i++ {
		if i > 1 {
			fmt.Println(i)
		}
	}
}

#region helpers
func c() {
	// not a } brace
	return
}
#endregion`

func regionSpans(d *Document) [][2]int {
	var spans [][2]int
	for _, r := range d.Regions() {
		spans = append(spans, [2]int{r.Start, r.End})
	}
	return spans
}

func TestParseRegions(t *testing.T) {
	t.Parallel()

	d := NewDocument("sample.go", sample)
	require.Equal(t, 22, d.LineCount())
	require.Equal(t, [][2]int{
		{4, 6},
		{8, 14},
		{9, 13},
		{10, 12},
		{16, 21},
		{17, 20},
	}, regionSpans(d))

	depths := map[int]int{}
	for _, r := range d.Regions() {
		depths[r.Start] = r.Depth
	}
	require.Equal(t, 0, depths[8])
	require.Equal(t, 1, depths[9])
	require.Equal(t, 2, depths[10])
	require.Equal(t, 1, depths[17], "function inside #region")
}

func TestParseRegionsSingleLine(t *testing.T) {
	t.Parallel()

	d := NewDocument("one.go", "func x() { return }\n")
	require.Empty(t, d.Regions(), "single line braces do not fold")
	require.Equal(t, 1, d.LineCount())
}

func TestEnclosingAndRegionAt(t *testing.T) {
	t.Parallel()

	d := NewDocument("sample.go", sample)
	var starts []int
	for _, r := range d.Enclosing(11) {
		starts = append(starts, r.Start)
	}
	require.Equal(t, []int{8, 9, 10}, starts, "outermost first")

	r, ok := d.RegionAt(9)
	require.True(t, ok)
	require.Equal(t, 13, r.End)

	_, ok = d.RegionAt(11)
	require.False(t, ok)
}

func TestCollapseAllKeepsAncestorsExpanded(t *testing.T) {
	t.Parallel()

	d := NewDocument("sample.go", sample)
	d.CollapseAll(11)

	collapsed := map[int]bool{}
	for _, r := range d.Regions() {
		collapsed[r.Start] = r.Collapsed
	}
	require.Equal(t, map[int]bool{4: true, 8: false, 9: false, 10: false, 16: true, 17: true}, collapsed)

	require.True(t, d.Hidden(5))
	require.False(t, d.Hidden(11))
	require.True(t, d.Hidden(18))
	require.False(t, d.Hidden(16), "region header stays visible")

	d.ExpandAll()
	require.Len(t, d.VisibleLines(), d.LineCount())
}

func TestViewCaretAndCenter(t *testing.T) {
	t.Parallel()

	h := New()
	v := h.Open("sample.go", sample)
	v.SetHeight(4)

	require.NoError(t, v.SetCaretPos(11, 3))
	line, col, err := v.CaretPos()
	require.NoError(t, err)
	require.Equal(t, 11, line)
	require.Equal(t, 3, col)

	var serr *outlining.StatusError
	require.True(t, errors.As(v.SetCaretPos(99, 0), &serr))
	require.Equal(t, outlining.StatusInvalidArg, serr.Code)
	require.Error(t, v.SetCaretPos(0, 500))
	require.Error(t, v.CenterLines(-1, 0))

	require.NoError(t, v.CenterLines(11, 10))
	require.Equal(t, 9, v.Top(), "margin is clamped to half the height")
}

func TestExecCollapseAll(t *testing.T) {
	t.Parallel()

	h := New()
	v := h.Open("sample.go", sample)
	require.NoError(t, v.SetCaretPos(11, 4))
	require.NoError(t, v.CenterLines(11, 2))

	require.NoError(t, h.Exec(outlining.CmdCollapseAllOutlining, v))
	line, col, _ := v.CaretPos()
	require.Equal(t, 11, line)
	require.Equal(t, 0, col, "host moves the caret when the layout changes")
	require.Equal(t, 0, v.Top())

	var serr *outlining.StatusError
	require.True(t, errors.As(h.Exec("Edit.Bogus", v), &serr))
	require.Equal(t, outlining.StatusNotSupported, serr.Code)
}

func TestWindowEnumeration(t *testing.T) {
	t.Parallel()

	h := New()
	var opened []*View
	for i := range 7 {
		opened = append(opened, h.Open(strings.Repeat("x", i+1), "line"))
	}
	h.OpenBroken(errors.New("no doc view"))

	windows := h.Windows()
	require.Len(t, windows, 8)
	for i, v := range opened {
		require.Same(t, v, windows[i].View())
	}
	require.Nil(t, windows[7].View(), "broken window has no view")

	src, err := h.DocumentWindows()
	require.NoError(t, err)
	it, err := enum.New(src, 3)
	require.NoError(t, err)

	var count int
	for range it.All() {
		count++
	}
	require.Equal(t, 8, count)
	require.NoError(t, it.Reset(), "host enumeration is restartable")

	count = 0
	for w := range it.All() {
		count++
		if count == 8 {
			_, err := w.TextView()
			require.Error(t, err)
		}
	}
	require.Equal(t, 8, count)
}

func TestCollapserAgainstHost(t *testing.T) {
	t.Parallel()

	h := New()
	first := h.Open("a.go", sample)
	second := h.Open("b.go", sample)
	require.NoError(t, first.SetCaretPos(11, 5))
	require.NoError(t, second.SetCaretPos(5, 2))

	c, err := outlining.New(h.Services(nil), outlining.WithBatchSize(1))
	require.NoError(t, err)

	rep := c.CollapseAllViews()
	require.True(t, rep.OK())

	line, col, _ := first.CaretPos()
	require.Equal(t, []int{11, 5}, []int{line, col})
	line, col, _ = second.CaretPos()
	require.Equal(t, []int{5, 2}, []int{line, col})

	r, _ := second.Document().RegionAt(4)
	require.False(t, r.Collapsed, "region holding the caret stays open")
	r, _ = second.Document().RegionAt(8)
	require.True(t, r.Collapsed)
}

func TestRender(t *testing.T) {
	t.Parallel()

	h := New()
	v := h.Open("wide.txt", "日本 {\n  x {\n    z\n  }\n}\ntail {\n  t\n}")
	require.NoError(t, v.SetCaretPos(0, 2))
	require.NoError(t, h.Exec(outlining.CmdCollapseAllOutlining, v))
	require.NoError(t, v.SetCaretPos(0, 2))

	var buf bytes.Buffer
	require.NoError(t, v.Render(&buf, DefaultMarker))
	require.Equal(t, strings.Join([]string{
		"== wide.txt (caret 1:3)",
		"1 | 日本 {",
		"        ^",
		"2 |   x { ...",
		"5 | }",
		"6 | tail { ...",
		"",
	}, "\n"), buf.String())

	require.Equal(t, 6, ColumnToCell("  日本 {", 4))
}
