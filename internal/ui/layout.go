package ui

// Cell is one panel's bounds within the grid, in terminal cells.
type Cell struct {
	X, Y, W, H int
}

// GridLayout arranges n panels in one column when there is exactly one
// panel and two columns otherwise.
type GridLayout struct {
	Count  int
	Width  int
	Height int
}

// minCellHeight keeps a panel tall enough for its title, toggles and a few
// rows of map.
const minCellHeight = 8

// Columns returns the number of grid columns.
func (g GridLayout) Columns() int {
	if g.Count == 1 {
		return 1
	}
	return 2
}

// Rows returns the number of grid rows.
func (g GridLayout) Rows() int {
	if g.Count <= 0 {
		return 0
	}
	cols := g.Columns()
	return (g.Count + cols - 1) / cols
}

// Cells returns the bounds of every panel in insertion order. The last
// column absorbs leftover width.
func (g GridLayout) Cells() []Cell {
	if g.Count <= 0 {
		return nil
	}
	cols := g.Columns()
	colW := max(g.Width/cols, 1)
	rowH := g.RowHeight()

	cells := make([]Cell, g.Count)
	for i := range cells {
		col, row := i%cols, i/cols
		w := colW
		if col == cols-1 {
			w = max(g.Width-colW*(cols-1), 1)
		}
		cells[i] = Cell{X: col * colW, Y: row * rowH, W: w, H: rowH}
	}
	return cells
}

// RowHeight returns the height of every row. Rows never shrink below
// minCellHeight, so a tall grid can overflow Height.
func (g GridLayout) RowHeight() int {
	rows := g.Rows()
	if rows == 0 {
		return 0
	}
	return max(g.Height/rows, minCellHeight)
}

// VisibleRows returns how many whole rows fit in Height, at least one.
func (g GridLayout) VisibleRows() int {
	rowH := g.RowHeight()
	if rowH == 0 {
		return 0
	}
	return min(max(g.Height/rowH, 1), g.Rows())
}

// RowOf returns the row holding panel index i.
func (g GridLayout) RowOf(i int) int {
	return i / g.Columns()
}

// ScrollTop returns the first row to draw so that row focus is visible,
// moving as little as possible from top.
func (g GridLayout) ScrollTop(top, focus int) int {
	visible := g.VisibleRows()
	if focus >= 0 {
		if focus < top {
			top = focus
		} else if focus >= top+visible {
			top = focus - visible + 1
		}
	}
	return max(min(top, g.Rows()-visible), 0)
}
