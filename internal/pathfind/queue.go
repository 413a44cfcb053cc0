package pathfind

import (
	"voxworld/internal/profiling"
	"voxworld/internal/voxel"
)

// queueCapacity bounds buffered requests. Submissions past it fail fast
// with an empty result instead of blocking the caller.
const queueCapacity = 256

type request struct {
	start, goal Node
	out         chan Result
}

// Queue serializes path searches: agents submit from anywhere, the engine
// drains one request per tick so search cost never stacks up in a frame.
type Queue struct {
	w        World
	reg      *voxel.Registry
	requests chan request
}

func NewQueue(w World, reg *voxel.Registry) *Queue {
	return &Queue{
		w:        w,
		reg:      reg,
		requests: make(chan request, queueCapacity),
	}
}

// Submit enqueues a search and returns the channel its single Result will
// arrive on. Callers poll it; nothing is ever closed.
func (q *Queue) Submit(start, goal Node) <-chan Result {
	out := make(chan Result, 1)
	select {
	case q.requests <- request{start: start, goal: goal, out: out}:
	default:
		out <- Result{}
	}
	return out
}

// ProcessOne pops and runs the oldest request, reporting whether there was
// one. A search that came back missing-chunks goes to the back of the line
// unanswered: the search already requested the loads, so by the time it
// comes around again the terrain is usually resident.
func (q *Queue) ProcessOne() bool {
	select {
	case req := <-q.requests:
		defer profiling.Track("pathfind.ProcessOne")()
		res := FindPath(q.w, q.reg, req.start, req.goal, DefaultStepBudget)
		if res.Path == nil && res.MissingChunks {
			select {
			case q.requests <- req:
			default:
				req.out <- res
			}
			return true
		}
		req.out <- res
		return true
	default:
		return false
	}
}

// Pending reports how many requests are waiting.
func (q *Queue) Pending() int {
	return len(q.requests)
}
