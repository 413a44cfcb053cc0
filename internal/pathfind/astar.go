package pathfind

import (
	"container/heap"

	"voxworld/internal/voxel"
	"voxworld/internal/world"
)

// DefaultStepBudget caps node expansions per search. Worlds are unbounded;
// a search that has not reached its goal by then never will cheaply.
const DefaultStepBudget = 2048

// Node is one cell on the walk lattice. Y is the feet level: an agent at a
// node stands on the voxel below it.
type Node struct {
	X, Y, Z int
}

// Result carries a finished search. A nil Path with MissingChunks set means
// the search ran into terrain that is not resident and should be retried
// once it loads; nil without the flag means there is no route.
type Result struct {
	Path          []Node
	MissingChunks bool
}

// World is what the searcher needs from the chunk layer: voxel reads with a
// residency flag, and a way to ask for terrain it is missing.
type World interface {
	VoxelTypeAt(x, y, z int) (voxel.Type, bool)
	RequestChunkLoad(cx, cz int) bool
}

type probeState uint8

const (
	probeWalkable probeState = iota
	probeBlocked
	probeUnknown
)

// steps enumerates the twelve moves: four cardinal directions, each flat,
// one up, or one down. No diagonals and no multi-voxel jumps.
var steps = [12][3]int{
	{1, 0, 0}, {1, 1, 0}, {1, -1, 0},
	{-1, 0, 0}, {-1, 1, 0}, {-1, -1, 0},
	{0, 0, 1}, {0, 1, 1}, {0, -1, 1},
	{0, 0, -1}, {0, 1, -1}, {0, -1, -1},
}

// FindPath runs A* from start to goal. budget <= 0 selects
// DefaultStepBudget. Goals that are known-blocked fail immediately; goals
// in unloaded terrain report missing chunks immediately.
func FindPath(w World, reg *voxel.Registry, start, goal Node, budget int) Result {
	if budget <= 0 {
		budget = DefaultStepBudget
	}
	if start == goal {
		return Result{Path: []Node{start}}
	}

	s := &searcher{w: w, reg: reg}
	switch s.probe(goal) {
	case probeBlocked:
		return Result{}
	case probeUnknown:
		return Result{MissingChunks: true}
	}

	open := &openHeap{}
	heap.Init(open)
	gScore := map[Node]int{start: 0}
	cameFrom := make(map[Node]Node)
	closed := make(map[Node]bool)

	heap.Push(open, &openNode{node: start, f: manhattan(start, goal)})
	seq := 1
	expanded := 0

	for open.Len() > 0 {
		cur := heap.Pop(open).(*openNode)
		if cur.node == goal {
			return Result{Path: reconstruct(cameFrom, goal)}
		}
		if closed[cur.node] {
			continue
		}
		closed[cur.node] = true

		expanded++
		if expanded > budget {
			break
		}

		for _, d := range steps {
			succ := Node{X: cur.node.X + d[0], Y: cur.node.Y + d[1], Z: cur.node.Z + d[2]}
			if closed[succ] {
				continue
			}
			switch s.probe(succ) {
			case probeBlocked:
				continue
			case probeUnknown:
				continue
			}
			g := cur.g + 1
			if old, seen := gScore[succ]; seen && old <= g {
				continue
			}
			gScore[succ] = g
			cameFrom[succ] = cur.node
			heap.Push(open, &openNode{node: succ, g: g, f: g + manhattan(succ, goal), seq: seq})
			seq++
		}
	}
	return Result{MissingChunks: s.missing}
}

type searcher struct {
	w       World
	reg     *voxel.Registry
	missing bool
}

// probe classifies a node: walkable needs solid footing below with air at
// feet and head. Any read into unloaded terrain marks the search missing
// and requests the column's chunk; the node itself is not expandable.
func (s *searcher) probe(n Node) probeState {
	below, ok := s.w.VoxelTypeAt(n.X, n.Y-1, n.Z)
	if !ok {
		return s.unknown(n)
	}
	feet, ok := s.w.VoxelTypeAt(n.X, n.Y, n.Z)
	if !ok {
		return s.unknown(n)
	}
	head, ok := s.w.VoxelTypeAt(n.X, n.Y+1, n.Z)
	if !ok {
		return s.unknown(n)
	}
	if !s.reg.IsSolid(below) || feet != voxel.Air || head != voxel.Air {
		return probeBlocked
	}
	return probeWalkable
}

func (s *searcher) unknown(n Node) probeState {
	s.missing = true
	cc := world.ChunkCoordAt(n.X, n.Z)
	s.w.RequestChunkLoad(cc.X, cc.Z)
	return probeUnknown
}

func reconstruct(cameFrom map[Node]Node, goal Node) []Node {
	path := []Node{goal}
	cur := goal
	for {
		prev, ok := cameFrom[cur]
		if !ok {
			break
		}
		path = append(path, prev)
		cur = prev
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}

func manhattan(a, b Node) int {
	return intAbs(a.X-b.X) + intAbs(a.Y-b.Y) + intAbs(a.Z-b.Z)
}

func intAbs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// openNode is a heap entry; seq breaks f ties first-in first-out so equal
// candidates expand in discovery order.
type openNode struct {
	node Node
	g, f int
	seq  int
}

type openHeap []*openNode

func (h openHeap) Len() int { return len(h) }

func (h openHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}

func (h openHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *openHeap) Push(x any) { *h = append(*h, x.(*openNode)) }

func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
