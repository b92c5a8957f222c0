package nav

import (
	"container/heap"
	"math"
)

// FindPath runs A* over 4-connected cells. The result includes start and
// goal; nil means the goal is blocked or unreachable.
func (g *Grid) FindPath(start, goal Cell) []Cell {
	if g.Blocked(start) || g.Blocked(goal) {
		return nil
	}
	if start == goal {
		return []Cell{start}
	}

	n := g.Width * g.Height
	cameFrom := make([]int, n)
	gScore := make([]float64, n)
	for i := range cameFrom {
		cameFrom[i] = -1
		gScore[i] = math.Inf(1)
	}
	startIdx := g.index(start)
	goalIdx := g.index(goal)
	gScore[startIdx] = 0

	open := &openSet{}
	heap.Push(open, &openItem{cell: start, f: heuristic(start, goal)})

	for open.Len() > 0 {
		cur := heap.Pop(open).(*openItem).cell
		curIdx := g.index(cur)
		if curIdx == goalIdx {
			return g.reconstruct(cameFrom, startIdx, goalIdx)
		}

		for _, next := range g.neighbors(cur) {
			idx := g.index(next)
			tentative := gScore[curIdx] + 1
			if tentative < gScore[idx] {
				cameFrom[idx] = curIdx
				gScore[idx] = tentative
				heap.Push(open, &openItem{cell: next, f: tentative + heuristic(next, goal)})
			}
		}
	}
	return nil
}

func (g *Grid) index(c Cell) int {
	return c.Y*g.Width + c.X
}

func (g *Grid) reconstruct(cameFrom []int, startIdx, goalIdx int) []Cell {
	path := make([]Cell, 0, 32)
	for cur := goalIdx; cur != -1; cur = cameFrom[cur] {
		path = append(path, Cell{X: cur % g.Width, Y: cur / g.Width})
		if cur == startIdx {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func (g *Grid) neighbors(c Cell) []Cell {
	out := make([]Cell, 0, 4)
	for _, d := range [4]Cell{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		next := Cell{X: c.X + d.X, Y: c.Y + d.Y}
		if !g.Blocked(next) {
			out = append(out, next)
		}
	}
	return out
}

func heuristic(a, b Cell) float64 {
	return math.Abs(float64(a.X-b.X)) + math.Abs(float64(a.Y-b.Y))
}

type openItem struct {
	cell  Cell
	f     float64
	index int
}

type openSet []*openItem

func (o openSet) Len() int           { return len(o) }
func (o openSet) Less(i, j int) bool { return o[i].f < o[j].f }
func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}
func (o *openSet) Push(x any) {
	item := x.(*openItem)
	item.index = len(*o)
	*o = append(*o, item)
}
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return item
}
