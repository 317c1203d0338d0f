// Package memhost is an in-memory editor host. It implements every
// collaborator the outlining package needs, with documents whose folding
// regions come from braces and #region markers.
package memhost

import (
	"math"
	"strings"

	"github.com/google/btree"
)

// Region is a foldable line range. Start is the line that stays visible
// when the region is collapsed; lines Start+1 through End are hidden.
type Region struct {
	Start     int
	End       int
	Depth     int
	Collapsed bool
}

// Less orders regions by start line, outer regions first.
func (r *Region) Less(than btree.Item) bool {
	o := than.(*Region)
	if r.Start != o.Start {
		return r.Start < o.Start
	}
	return r.End > o.End
}

// Contains reports whether line is within the region, header included.
func (r *Region) Contains(line int) bool {
	return line >= r.Start && line <= r.End
}

// Hides reports whether line is hidden when the region is collapsed.
func (r *Region) Hides(line int) bool {
	return line > r.Start && line <= r.End
}

// Document is a named text buffer with its folding regions.
type Document struct {
	name    string
	lines   []string
	regions *btree.BTree
}

// NewDocument splits text into lines and computes its regions.
func NewDocument(name, text string) *Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	d := &Document{
		name:    name,
		lines:   strings.Split(text, "\n"),
		regions: btree.New(32),
	}
	for _, r := range parseRegions(d.lines) {
		d.regions.ReplaceOrInsert(r)
	}
	return d
}

func (d *Document) Name() string {
	return d.name
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// Line returns line n, or "" if it is out of range.
func (d *Document) Line(n int) string {
	if n < 0 || n >= len(d.lines) {
		return ""
	}
	return d.lines[n]
}

// Regions returns the regions ordered by start line.
func (d *Document) Regions() []*Region {
	list := make([]*Region, 0, d.regions.Len())
	d.regions.Ascend(func(it btree.Item) bool {
		list = append(list, it.(*Region))
		return true
	})
	return list
}

// RegionAt returns the region starting at line, if any. With several
// regions on one line the outermost is returned.
func (d *Document) RegionAt(line int) (*Region, bool) {
	var found *Region
	d.regions.AscendGreaterOrEqual(&Region{Start: line, End: math.MaxInt}, func(it btree.Item) bool {
		r := it.(*Region)
		if r.Start == line {
			found = r
		}
		return false
	})
	return found, found != nil
}

// Enclosing returns the regions that contain line, outermost first.
func (d *Document) Enclosing(line int) []*Region {
	var list []*Region
	d.regions.AscendLessThan(&Region{Start: line + 1, End: math.MaxInt}, func(it btree.Item) bool {
		if r := it.(*Region); r.Contains(line) {
			list = append(list, r)
		}
		return true
	})
	return list
}

// CollapseAll collapses every region, then expands the ones holding line so
// that it stays visible.
func (d *Document) CollapseAll(line int) {
	d.regions.Ascend(func(it btree.Item) bool {
		r := it.(*Region)
		r.Collapsed = !r.Contains(line)
		return true
	})
}

// ExpandAll expands every region.
func (d *Document) ExpandAll() {
	d.regions.Ascend(func(it btree.Item) bool {
		it.(*Region).Collapsed = false
		return true
	})
}

// Hidden reports whether line is inside a collapsed region.
func (d *Document) Hidden(line int) bool {
	hidden := false
	d.regions.AscendLessThan(&Region{Start: line, End: math.MaxInt}, func(it btree.Item) bool {
		if r := it.(*Region); r.Collapsed && r.Hides(line) {
			hidden = true
			return false
		}
		return true
	})
	return hidden
}

// VisibleLines returns the numbers of the lines that are not folded away.
func (d *Document) VisibleLines() []int {
	visible := make([]int, 0, len(d.lines))
	for n := range d.lines {
		if !d.Hidden(n) {
			visible = append(visible, n)
		}
	}
	return visible
}

const (
	regionOpen  = "#region"
	regionClose = "#endregion"
)

// parseRegions pairs "{" with "}" and "#region" with "#endregion". A
// region is only kept when it spans more than one line.
func parseRegions(lines []string) []*Region {
	type open struct {
		line   int
		marker bool
	}

	var (
		stack   []open
		regions []*Region
	)

	closeTop := func(end int, marker bool) {
		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i].marker != marker {
				continue
			}
			start := stack[i].line
			stack = append(stack[:i], stack[i+1:]...)
			if end > start {
				regions = append(regions, &Region{Start: start, End: end})
			}
			return
		}
	}

	for n, l := range lines {
		trimmed := strings.TrimSpace(l)
		switch {
		case strings.HasPrefix(trimmed, regionClose):
			closeTop(n, true)
			continue
		case strings.HasPrefix(trimmed, regionOpen):
			stack = append(stack, open{line: n, marker: true})
			continue
		}

		for _, c := range stripStrings(l) {
			switch c {
			case '{':
				stack = append(stack, open{line: n})
			case '}':
				closeTop(n, false)
			}
		}
	}

	for _, r := range regions {
		for _, o := range regions {
			if o != r && o.Start <= r.Start && o.End >= r.End && (o.Start != r.Start || o.End != r.End) {
				r.Depth++
			}
		}
	}
	return regions
}

// stripStrings blanks out quoted strings and line comments so braces in
// them are ignored.
func stripStrings(l string) string {
	var (
		sb    strings.Builder
		quote rune
		esc   bool
	)
	for i, c := range l {
		if quote != 0 {
			switch {
			case esc:
				esc = false
			case c == '\\':
				esc = true
			case c == quote:
				quote = 0
			}
			sb.WriteByte(' ')
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
			sb.WriteByte(' ')
			continue
		case '/':
			if strings.HasPrefix(l[i:], "//") {
				return sb.String()
			}
		}
		sb.WriteRune(c)
	}
	return sb.String()
}
