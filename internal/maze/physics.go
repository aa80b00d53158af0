package maze

// Tuning constants for the ball integration.
const (
	GravitySensitivity = 0.15
	Damping            = 0.95
	BounceFactor       = 0.6
)

// Ball start position, just inside the upper-left corridor.
const (
	startX = 12.0
	startY = 12.0
)

// Game is the ball state rolling through one maze.
type Game struct {
	grid *Grid

	x, y   float64
	vx, vy float64
	won    bool
}

// NewGame places a ball at the start of the given maze.
func NewGame(grid *Grid) *Game {
	return &Game{grid: grid, x: startX, y: startY}
}

// Reset puts the ball back at the start with zero velocity.
func (g *Game) Reset() {
	g.x, g.y = startX, startY
	g.vx, g.vy = 0, 0
	g.won = false
}

// Step advances the simulation by one frame using the tilt acceleration in
// g units. X and Y are resolved separately so the ball slides along walls
// instead of sticking to them. Once won, the state freezes until Reset.
func (g *Game) Step(axG, ayG float64) {
	if g.won {
		return
	}

	g.vx += axG * GravitySensitivity
	g.vy -= ayG * GravitySensitivity

	g.vx *= Damping
	g.vy *= Damping

	nextX := g.x + g.vx
	nextY := g.y + g.vy

	if g.grid.Collides(nextX, g.y) {
		g.vx = -g.vx * BounceFactor
	} else {
		g.x = nextX
	}

	if g.grid.Collides(g.x, nextY) {
		g.vy = -g.vy * BounceFactor
	} else {
		g.y = nextY
	}

	if g.grid.AtGoal(g.x, g.y) {
		g.won = true
	}
}

// Position returns the ball center in pixels.
func (g *Game) Position() (x, y float64) {
	return g.x, g.y
}

// Won reports whether the ball has reached the goal.
func (g *Game) Won() bool {
	return g.won
}

// Grid returns the maze this game runs on.
func (g *Game) Grid() *Grid {
	return g.grid
}
