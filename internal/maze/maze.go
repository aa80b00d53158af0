// Package maze holds the fixed maze layout and the ball physics for the
// tilt game. Coordinates are display pixels on the 128x64 screen; the maze
// is a 16x8 grid of 8-pixel blocks.
package maze

// Cell is one block of the maze grid.
type Cell byte

const (
	Corridor Cell = 0
	Wall     Cell = 1
	Goal     Cell = 2
)

// Grid geometry, in cells and pixels.
const (
	Width     = 16
	Height    = 8
	BlockSize = 8

	ScreenWidth  = Width * BlockSize
	ScreenHeight = Height * BlockSize

	BallRadius = 3
)

// Grid is the maze layout.
type Grid [Height][Width]Cell

// Default returns the shipped maze: walled border, one winding corridor,
// goal in the lower right.
func Default() *Grid {
	return &Grid{
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		{1, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1},
		{1, 0, 1, 0, 1, 0, 1, 1, 1, 1, 1, 0, 1, 1, 0, 1},
		{1, 0, 1, 0, 0, 0, 0, 0, 0, 0, 1, 0, 1, 0, 0, 1},
		{1, 0, 1, 1, 1, 1, 1, 0, 1, 0, 1, 0, 1, 0, 1, 1},
		{1, 0, 0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 1, 0, 0, 1},
		{1, 1, 1, 1, 1, 0, 1, 1, 1, 1, 1, 1, 1, 1, 2, 1},
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	}
}

// cellAt maps a pixel position to its grid cell. Positions outside the
// grid read as Corridor; the screen-bounds check in Collides handles them.
func (g *Grid) cellAt(x, y float64) Cell {
	cx := int(x / BlockSize)
	cy := int(y / BlockSize)
	if cx < 0 || cx >= Width || cy < 0 || cy >= Height {
		return Corridor
	}
	return g[cy][cx]
}

// Collides reports whether a ball centered at (x, y) hits the screen edge
// or sits in a wall cell.
func (g *Grid) Collides(x, y float64) bool {
	if x-BallRadius < 0 || x+BallRadius > ScreenWidth ||
		y-BallRadius < 0 || y+BallRadius > ScreenHeight {
		return true
	}
	return g.cellAt(x, y) == Wall
}

// AtGoal reports whether (x, y) is inside the goal cell.
func (g *Grid) AtGoal(x, y float64) bool {
	return g.cellAt(x, y) == Goal
}
