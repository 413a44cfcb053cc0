package pathfind

import (
	"testing"

	"voxworld/internal/voxel"
)

// pathWorld is a sparse voxel field with per-column residency control.
type pathWorld struct {
	cells     map[[3]int]voxel.Type
	unknown   map[[2]int]bool
	requested [][2]int
}

func newPathWorld() *pathWorld {
	return &pathWorld{
		cells:   make(map[[3]int]voxel.Type),
		unknown: make(map[[2]int]bool),
	}
}

func (p *pathWorld) set(x, y, z int, t voxel.Type) {
	p.cells[[3]int{x, y, z}] = t
}

func (p *pathWorld) addFloor(x0, x1, z0, z1, y int) {
	for x := x0; x <= x1; x++ {
		for z := z0; z <= z1; z++ {
			p.set(x, y, z, voxel.Stone)
		}
	}
}

func (p *pathWorld) VoxelTypeAt(x, y, z int) (voxel.Type, bool) {
	if p.unknown[[2]int{x, z}] {
		return voxel.Air, false
	}
	if v, ok := p.cells[[3]int{x, y, z}]; ok {
		return v, true
	}
	return voxel.Air, true
}

func (p *pathWorld) RequestChunkLoad(cx, cz int) bool {
	p.requested = append(p.requested, [2]int{cx, cz})
	return true
}

func tryRecv(ch <-chan Result) (Result, bool) {
	select {
	case r := <-ch:
		return r, true
	default:
		return Result{}, false
	}
}

// TestFindPathStraightLine verifies the trivial flat route comes out at its
// exact optimal length.
func TestFindPathStraightLine(t *testing.T) {
	w := newPathWorld()
	w.addFloor(0, 8, 0, 2, 4)
	reg := voxel.NewRegistry()

	start := Node{X: 0, Y: 5, Z: 1}
	goal := Node{X: 6, Y: 5, Z: 1}
	res := FindPath(w, reg, start, goal, 0)
	if res.Path == nil {
		t.Fatalf("expected path, got none (missing=%v)", res.MissingChunks)
	}
	if res.Path[0] != start || res.Path[len(res.Path)-1] != goal {
		t.Fatalf("bad endpoints: %v", res.Path)
	}
	if len(res.Path) != 7 {
		t.Fatalf("flat straight line took %d nodes, want 7: %v", len(res.Path), res.Path)
	}
}

// TestFindPathDiagonalIsManhattan verifies optimality toward an offset goal:
// the path length equals the Manhattan distance plus the start node, and
// every consecutive pair differs by exactly one cardinal step.
func TestFindPathDiagonalIsManhattan(t *testing.T) {
	w := newPathWorld()
	w.addFloor(0, 9, 0, 9, 4)
	reg := voxel.NewRegistry()

	start := Node{X: 0, Y: 5, Z: 0}
	goal := Node{X: 5, Y: 5, Z: 5}
	res := FindPath(w, reg, start, goal, 0)
	if res.Path == nil {
		t.Fatalf("expected path, got none (missing=%v)", res.MissingChunks)
	}
	if len(res.Path) != 11 {
		t.Fatalf("diagonal path took %d nodes, want Manhattan 10 + start", len(res.Path))
	}
	for i := 1; i < len(res.Path); i++ {
		a, b := res.Path[i-1], res.Path[i]
		dx, dy, dz := intAbs(b.X-a.X), intAbs(b.Y-a.Y), intAbs(b.Z-a.Z)
		if dx+dz != 1 || dy > 1 {
			t.Fatalf("step %d is not a single cardinal move: %v -> %v", i, a, b)
		}
	}
}

// TestFindPathDetoursAroundPillar verifies blocked cells are routed around,
// never through.
func TestFindPathDetoursAroundPillar(t *testing.T) {
	w := newPathWorld()
	w.addFloor(0, 6, 0, 2, 4)
	w.set(3, 5, 1, voxel.Stone)
	w.set(3, 6, 1, voxel.Stone)
	reg := voxel.NewRegistry()

	start := Node{X: 0, Y: 5, Z: 1}
	goal := Node{X: 6, Y: 5, Z: 1}
	res := FindPath(w, reg, start, goal, 0)
	if res.Path == nil {
		t.Fatalf("expected detour path, got none")
	}
	detoured := false
	for _, n := range res.Path {
		if n == (Node{X: 3, Y: 5, Z: 1}) {
			t.Fatalf("path traversed the pillar: %v", res.Path)
		}
		if n.Z != 1 {
			detoured = true
		}
	}
	if !detoured {
		t.Fatalf("expected sideways detour, got %v", res.Path)
	}
}

// TestFindPathClimbsSingleStep verifies one-voxel climbs are legal moves.
func TestFindPathClimbsSingleStep(t *testing.T) {
	w := newPathWorld()
	w.addFloor(0, 2, 0, 2, 4)
	w.set(2, 5, 1, voxel.Stone)
	reg := voxel.NewRegistry()

	start := Node{X: 0, Y: 5, Z: 1}
	goal := Node{X: 2, Y: 6, Z: 1}
	res := FindPath(w, reg, start, goal, 0)
	if res.Path == nil {
		t.Fatalf("expected climbing path, got none")
	}
	if res.Path[len(res.Path)-1] != goal {
		t.Fatalf("bad endpoint: %v", res.Path)
	}
	climbed := false
	for _, n := range res.Path {
		if n.Y > start.Y {
			climbed = true
		}
	}
	if !climbed {
		t.Fatalf("expected a climb, got %v", res.Path)
	}
}

// TestFindPathRefusesDoubleClimb verifies a two-voxel wall has no legal
// move over it.
func TestFindPathRefusesDoubleClimb(t *testing.T) {
	w := newPathWorld()
	w.addFloor(0, 3, 0, 2, 4)
	w.set(2, 5, 1, voxel.Stone)
	w.set(2, 6, 1, voxel.Stone)
	reg := voxel.NewRegistry()

	res := FindPath(w, reg, Node{X: 0, Y: 5, Z: 1}, Node{X: 2, Y: 7, Z: 1}, 0)
	if res.Path != nil {
		t.Fatalf("expected no path over a two-voxel wall, got %v", res.Path)
	}
	if res.MissingChunks {
		t.Fatalf("fully loaded world reported missing chunks")
	}
}

// TestFindPathWallSeparatesPlatform verifies a two-voxel wall spanning the
// whole platform cuts it in half: no route over, around or off the edge.
func TestFindPathWallSeparatesPlatform(t *testing.T) {
	w := newPathWorld()
	w.addFloor(0, 6, 0, 4, 4)
	for z := 0; z <= 4; z++ {
		w.set(3, 5, z, voxel.Stone)
		w.set(3, 6, z, voxel.Stone)
	}
	reg := voxel.NewRegistry()

	res := FindPath(w, reg, Node{X: 0, Y: 5, Z: 2}, Node{X: 6, Y: 5, Z: 2}, 0)
	if res.Path != nil {
		t.Fatalf("path crossed a full-width wall: %v", res.Path)
	}
	if res.MissingChunks {
		t.Fatalf("fully loaded world reported missing chunks")
	}
}

// TestFindPathRequiresHeadroom verifies a low ceiling blocks the corridor.
func TestFindPathRequiresHeadroom(t *testing.T) {
	w := newPathWorld()
	w.addFloor(0, 4, 1, 1, 4)
	w.set(2, 6, 1, voxel.Stone)
	reg := voxel.NewRegistry()

	res := FindPath(w, reg, Node{X: 0, Y: 5, Z: 1}, Node{X: 4, Y: 5, Z: 1}, 0)
	if res.Path != nil {
		t.Fatalf("expected headroom to block the corridor, got %v", res.Path)
	}
}

// TestFindPathBlockedGoalFailsFast verifies a known-blocked goal returns no
// path without flagging missing terrain.
func TestFindPathBlockedGoalFailsFast(t *testing.T) {
	w := newPathWorld()
	w.addFloor(0, 4, 0, 2, 4)
	w.set(4, 5, 1, voxel.Stone)
	reg := voxel.NewRegistry()

	res := FindPath(w, reg, Node{X: 0, Y: 5, Z: 1}, Node{X: 4, Y: 5, Z: 1}, 0)
	if res.Path != nil || res.MissingChunks {
		t.Fatalf("blocked goal: got path=%v missing=%v", res.Path, res.MissingChunks)
	}
	if len(w.requested) != 0 {
		t.Fatalf("blocked goal requested chunk loads: %v", w.requested)
	}
}

// TestFindPathUnknownGoalReportsMissing verifies a goal in unloaded terrain
// short-circuits into a retry signal plus a load request.
func TestFindPathUnknownGoalReportsMissing(t *testing.T) {
	w := newPathWorld()
	w.addFloor(0, 4, 0, 2, 4)
	w.unknown[[2]int{4, 1}] = true
	reg := voxel.NewRegistry()

	res := FindPath(w, reg, Node{X: 0, Y: 5, Z: 1}, Node{X: 4, Y: 5, Z: 1}, 0)
	if res.Path != nil || !res.MissingChunks {
		t.Fatalf("unknown goal: got path=%v missing=%v", res.Path, res.MissingChunks)
	}
	if len(w.requested) == 0 {
		t.Fatalf("unknown goal issued no load request")
	}
}

// TestFindPathStopsAtUnknownFrontier verifies the search never expands into
// unloaded columns and requests the owning chunk instead.
func TestFindPathStopsAtUnknownFrontier(t *testing.T) {
	w := newPathWorld()
	w.addFloor(0, 24, 1, 1, 4)
	w.unknown[[2]int{20, 1}] = true
	reg := voxel.NewRegistry()

	res := FindPath(w, reg, Node{X: 0, Y: 5, Z: 1}, Node{X: 24, Y: 5, Z: 1}, 0)
	if res.Path != nil {
		t.Fatalf("path crossed an unloaded column: %v", res.Path)
	}
	if !res.MissingChunks {
		t.Fatalf("frontier stop did not flag missing chunks")
	}
	found := false
	for _, cc := range w.requested {
		if cc == [2]int{1, 0} { // column x=20 lives in chunk 1,0
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a request for chunk {1 0}, got %v", w.requested)
	}
}

// TestFindPathBudget verifies the expansion budget cuts hopeless searches.
func TestFindPathBudget(t *testing.T) {
	w := newPathWorld()
	w.addFloor(0, 50, 1, 1, 4)
	reg := voxel.NewRegistry()

	res := FindPath(w, reg, Node{X: 0, Y: 5, Z: 1}, Node{X: 50, Y: 5, Z: 1}, 10)
	if res.Path != nil {
		t.Fatalf("10-step budget reached a 50-step goal: %v", res.Path)
	}
	if res.MissingChunks {
		t.Fatalf("budget exhaustion flagged missing chunks")
	}
}

// TestFindPathStartEqualsGoal verifies the degenerate request.
func TestFindPathStartEqualsGoal(t *testing.T) {
	w := newPathWorld()
	w.addFloor(0, 2, 0, 2, 4)
	reg := voxel.NewRegistry()

	start := Node{X: 1, Y: 5, Z: 1}
	res := FindPath(w, reg, start, start, 0)
	if len(res.Path) != 1 || res.Path[0] != start {
		t.Fatalf("expected single-node path, got %v", res.Path)
	}
}

// TestQueueDeliversFIFO verifies one request is served per call, oldest
// first.
func TestQueueDeliversFIFO(t *testing.T) {
	w := newPathWorld()
	w.addFloor(0, 8, 0, 2, 4)
	q := NewQueue(w, voxel.NewRegistry())

	first := q.Submit(Node{X: 0, Y: 5, Z: 1}, Node{X: 2, Y: 5, Z: 1})
	second := q.Submit(Node{X: 0, Y: 5, Z: 1}, Node{X: 4, Y: 5, Z: 1})

	if !q.ProcessOne() {
		t.Fatalf("queue with two requests processed none")
	}
	if _, ok := tryRecv(first); !ok {
		t.Fatalf("first request not answered first")
	}
	if _, ok := tryRecv(second); ok {
		t.Fatalf("second request answered out of turn")
	}
	if !q.ProcessOne() {
		t.Fatalf("queue with one request processed none")
	}
	if res, ok := tryRecv(second); !ok || res.Path == nil {
		t.Fatalf("second request unanswered or pathless: %+v ok=%v", res, ok)
	}
	if q.ProcessOne() {
		t.Fatalf("empty queue claimed to process a request")
	}
}

// TestQueueRequeuesOnMissingChunks verifies the silent retry: the request
// stays queued while terrain loads and answers once it is resident.
func TestQueueRequeuesOnMissingChunks(t *testing.T) {
	w := newPathWorld()
	w.addFloor(0, 24, 1, 1, 4)
	w.unknown[[2]int{20, 1}] = true
	q := NewQueue(w, voxel.NewRegistry())

	out := q.Submit(Node{X: 0, Y: 5, Z: 1}, Node{X: 24, Y: 5, Z: 1})

	if !q.ProcessOne() {
		t.Fatalf("queue processed nothing")
	}
	if _, ok := tryRecv(out); ok {
		t.Fatalf("missing-chunk search answered instead of requeueing")
	}
	if q.Pending() != 1 {
		t.Fatalf("request not requeued: %d pending", q.Pending())
	}

	delete(w.unknown, [2]int{20, 1})
	if !q.ProcessOne() {
		t.Fatalf("requeued request not processed")
	}
	res, ok := tryRecv(out)
	if !ok {
		t.Fatalf("loaded retry went unanswered")
	}
	if res.Path == nil {
		t.Fatalf("loaded retry found no path (missing=%v)", res.MissingChunks)
	}
}

// TestQueueOverflowFailsFast verifies submissions past capacity answer
// immediately with an empty result.
func TestQueueOverflowFailsFast(t *testing.T) {
	w := newPathWorld()
	w.addFloor(0, 4, 0, 2, 4)
	q := NewQueue(w, voxel.NewRegistry())

	for i := 0; i < queueCapacity; i++ {
		q.Submit(Node{X: 0, Y: 5, Z: 1}, Node{X: 2, Y: 5, Z: 1})
	}
	out := q.Submit(Node{X: 0, Y: 5, Z: 1}, Node{X: 2, Y: 5, Z: 1})
	res, ok := tryRecv(out)
	if !ok {
		t.Fatalf("overflow submission got no immediate answer")
	}
	if res.Path != nil || res.MissingChunks {
		t.Fatalf("overflow answer should be empty, got %+v", res)
	}
}
