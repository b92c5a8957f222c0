// Package nav provides grid pathfinding and a path-following mover that
// stands in for an engine navigation agent in the headless host.
package nav

import (
	"errors"
	"math"

	"github.com/jakecoffman/cp"
)

var ErrNoPath = errors.New("nav: no path")

// Cell addresses one grid square.
type Cell struct {
	X, Y int
}

// Grid is a walkability grid laid over world space. Cell (0,0) has its
// minimum corner at Origin.
type Grid struct {
	Width, Height int
	Size          float64
	Origin        cp.Vector

	blocked []bool
}

func NewGrid(width, height int, size float64, origin cp.Vector) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if size <= 0 {
		size = 1
	}
	return &Grid{Width: width, Height: height, Size: size, Origin: origin, blocked: make([]bool, width*height)}
}

func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.Width && c.Y < g.Height
}

func (g *Grid) Blocked(c Cell) bool {
	return !g.InBounds(c) || g.blocked[c.Y*g.Width+c.X]
}

func (g *Grid) SetBlocked(c Cell, blocked bool) {
	if g.InBounds(c) {
		g.blocked[c.Y*g.Width+c.X] = blocked
	}
}

// BlockRect blocks every cell overlapping the world-space box.
func (g *Grid) BlockRect(bb cp.BB) {
	lo := g.CellAt(cp.Vector{X: bb.L, Y: bb.B})
	hi := g.CellAt(cp.Vector{X: bb.R - 0.001, Y: bb.T - 0.001})
	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			g.SetBlocked(Cell{X: x, Y: y}, true)
		}
	}
}

// CellAt returns the cell containing pos, clamped to the grid.
func (g *Grid) CellAt(pos cp.Vector) Cell {
	local := pos.Sub(g.Origin)
	c := Cell{X: int(math.Floor(local.X / g.Size)), Y: int(math.Floor(local.Y / g.Size))}
	c.X = max(0, min(c.X, g.Width-1))
	c.Y = max(0, min(c.Y, g.Height-1))
	return c
}

// Center returns the world position of the middle of c.
func (g *Grid) Center(c Cell) cp.Vector {
	half := g.Size * 0.5
	return cp.Vector{
		X: g.Origin.X + float64(c.X)*g.Size + half,
		Y: g.Origin.Y + float64(c.Y)*g.Size + half,
	}
}

// Route returns world waypoints from from to to: the centers of the cells
// after the start cell, ending exactly at to.
func (g *Grid) Route(from, to cp.Vector) ([]cp.Vector, error) {
	cells := g.FindPath(g.CellAt(from), g.CellAt(to))
	if cells == nil {
		return nil, ErrNoPath
	}
	out := make([]cp.Vector, 0, len(cells))
	for _, c := range cells[1:] {
		out = append(out, g.Center(c))
	}
	if len(out) > 0 {
		out[len(out)-1] = to
	} else {
		out = append(out, to)
	}
	return out, nil
}
