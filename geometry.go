package hd44780

import "fmt"

// Geometry is the character grid of a display.
type Geometry int

// Supported geometries, named columns x rows.
const (
	Size16x2 Geometry = iota
	Size8x2
	Size16x1
	Size16x4
	Size20x2
	Size20x4
	Size40x2
)

type layout struct {
	name     string
	cols     int
	rowBases []byte // DD RAM address of column 0 of each row
}

var layouts = map[Geometry]layout{
	Size16x2: {"16x2", 16, []byte{0x00, 0x40}},
	Size8x2:  {"8x2", 8, []byte{0x00, 0x40}},
	Size16x1: {"16x1", 16, []byte{0x00}},
	Size16x4: {"16x4", 16, []byte{0x00, 0x40, 0x10, 0x50}},
	Size20x2: {"20x2", 20, []byte{0x00, 0x40}},
	Size20x4: {"20x4", 20, []byte{0x00, 0x40, 0x14, 0x54}},
	Size40x2: {"40x2", 40, []byte{0x00, 0x40}},
}

func (g Geometry) valid() bool {
	_, ok := layouts[g]
	return ok
}

// Rows returns the number of character rows, or 0 for an unknown geometry.
func (g Geometry) Rows() int {
	return len(layouts[g].rowBases)
}

// Cols returns the number of character columns, or 0 for an unknown geometry.
func (g Geometry) Cols() int {
	return layouts[g].cols
}

func (g Geometry) String() string {
	if l, ok := layouts[g]; ok {
		return l.name
	}
	return fmt.Sprintf("Geometry(%d)", int(g))
}

// address returns the DD RAM address of the given cell.
func (g Geometry) address(col, row int) (byte, error) {
	l, ok := layouts[g]
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrGeometry, g)
	}
	if row < 0 || row >= len(l.rowBases) || col < 0 || col >= l.cols {
		return 0, fmt.Errorf("%w: (%d,%d) on %s", ErrOutOfRange, col, row, l.name)
	}
	return l.rowBases[row] + byte(col), nil
}
