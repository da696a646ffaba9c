// Package repository defines the ranking store interface and errors.
package repository

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	types "github.com/okian/talentmatch/internal/domain/types"
	"github.com/okian/talentmatch/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: final score DESC, then employee ID ASC (deterministic).
// The BST comparator treats "less" as "ranks earlier", so an in-order
// traversal produces the ranking from best to worst. The treap is
// rebuilt wholesale on Replace and published as an immutable snapshot;
// read paths only ever touch the snapshot pointer.

// scoreScale controls fixed-point scaling from float64.
// Final scores carry two decimals; four keep comparisons exact.
const scoreScale = 10_000

type scoreFP int64

func toFixedPoint(x float64) scoreFP {
	if math.IsNaN(x) {
		return 0
	}
	if math.IsInf(x, 1) {
		return scoreFP(math.MaxInt64)
	}
	if math.IsInf(x, -1) {
		return scoreFP(math.MinInt64)
	}
	return scoreFP(math.Round(x * scoreScale))
}

// Snapshot represents an immutable view of one run's ranking state.
type Snapshot struct {
	// Rank and entry in O(1) for reads
	RankByEmployee  map[string]int
	EntryByEmployee map[string]types.Entry

	// Ordered holds every entry in rank order (best first).
	Ordered []types.Entry
}

// treap node
type node struct {
	id    string
	score scoreFP
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aScore, aID) should appear before (bScore, bID)
// in the ranking (higher scores rank earlier).
func less(aScore scoreFP, aID string, bScore scoreFP, bID string) bool {
	if aScore != bScore {
		return aScore > bScore // higher score ranks earlier
	}
	return aID < bID // tie-breaker by employee ID asc
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// scoreToPriority converts a score to a priority value.
// Higher scores get higher priorities to keep them higher in the treap.
func scoreToPriority(score scoreFP) uint64 {
	const offset = uint64(1) << 63 // shift negatives into the positive range
	return uint64(score) + offset
}

func insert(n *node, id string, score scoreFP) *node {
	if n == nil {
		return &node{id: id, score: score, prio: scoreToPriority(score), size: 1}
	}
	if less(score, id, n.score, n.id) {
		n.left = insert(n.left, id, score)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, score)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, score scoreFP) *node {
	if n == nil {
		return nil
	}
	if score == n.score && id == n.id {
		// Merge children by rotating highest priority up until leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, score)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, score)
		}
	} else if less(score, id, n.score, n.id) {
		n.left = deleteNode(n.left, id, score)
	} else {
		n.right = deleteNode(n.right, id, score)
	}
	fix(n)
	return n
}

// collectAll appends all entries in rank order (highest scores first).
func collectAll(n *node, byID map[string]types.Entry, out *[]types.Entry) {
	if n == nil {
		return
	}
	collectAll(n.left, byID, out)
	if e, ok := byID[n.id]; ok {
		*out = append(*out, e)
	}
	collectAll(n.right, byID, out)
}

// assignRanksWithTies assigns ranks over entries already in rank order.
// Employees with the same final score share a rank; the next distinct
// score gets the next consecutive rank.
func assignRanksWithTies(entries []types.Entry) {
	if len(entries) == 0 {
		return
	}

	currentRank := 1
	for i := 0; i < len(entries); i++ {
		entries[i].Rank = currentRank

		sameScoreCount := 1
		for j := i + 1; j < len(entries) && entries[j].FinalScore == entries[i].FinalScore; j++ {
			entries[j].Rank = currentRank
			sameScoreCount++
		}

		currentRank++
		i += sameScoreCount - 1
	}
}

// TreapStore holds the latest run's ranking in memory.
type TreapStore struct {
	mu                    sync.Mutex
	root                  *node
	byID                  map[string]types.Entry
	metricsUpdateInterval time.Duration

	// snapshot is an atomic pointer to the published ranking state
	snapshot atomic.Pointer[Snapshot]

	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewTreapStore constructs a treap store with configuration options.
func NewTreapStore(ctx context.Context, opts ...Option) *TreapStore {
	s := &TreapStore{
		metricsUpdateInterval: 5 * time.Second, // default metrics refresh
		byID:                  make(map[string]types.Entry),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	s.stopChan = make(chan struct{})
	s.startMetricsUpdater(ctx)

	metrics.UpdateRepositoryRecordsTotal(0)

	return s
}

// Close gracefully shuts down the background metrics goroutine.
func (s *TreapStore) Close() error {
	select {
	case <-s.stopChan:
		// Channel already closed
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// Replace implements Store.Replace: it rebuilds the treap from entries
// and publishes a fresh snapshot atomically. If the same employee ID
// appears more than once the last entry wins.
func (s *TreapStore) Replace(ctx context.Context, entries []types.Entry) error {
	start := time.Now()

	byID := make(map[string]types.Entry, len(entries))
	var root *node
	for _, e := range entries {
		fp := toFixedPoint(e.FinalScore)
		if old, ok := byID[e.EmployeeID]; ok {
			root = deleteNode(root, e.EmployeeID, toFixedPoint(old.FinalScore))
		}
		byID[e.EmployeeID] = e
		root = insert(root, e.EmployeeID, fp)
	}

	ordered := make([]types.Entry, 0, len(byID))
	collectAll(root, byID, &ordered)
	assignRanksWithTies(ordered)

	rankByEmployee := make(map[string]int, len(ordered))
	entryByEmployee := make(map[string]types.Entry, len(ordered))
	for _, e := range ordered {
		rankByEmployee[e.EmployeeID] = e.Rank
		entryByEmployee[e.EmployeeID] = e
	}

	snap := &Snapshot{
		RankByEmployee:  rankByEmployee,
		EntryByEmployee: entryByEmployee,
		Ordered:         ordered,
	}

	s.mu.Lock()
	s.root = root
	s.byID = byID
	s.snapshot.Store(snap)
	s.mu.Unlock()

	metrics.RecordRepositorySnapshot(float64(time.Since(start).Milliseconds()))
	metrics.UpdateRepositoryRecordsTotal(len(ordered))
	return nil
}

// Rank returns the ranking row for one employee in O(1).
func (s *TreapStore) Rank(ctx context.Context, employeeID string) (types.Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	snap := s.snapshot.Load()
	if snap == nil {
		metrics.RecordErrorByComponent("repository", "not_found")
		return types.Entry{}, ErrNotFound
	}
	e, ok := snap.EntryByEmployee[employeeID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return types.Entry{}, ErrNotFound
	}
	return e, nil
}

// TopN returns the best n entries in rank order.
func (s *TreapStore) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	snap := s.snapshot.Load()
	if snap == nil {
		return []types.Entry{}, nil
	}
	if n > len(snap.Ordered) {
		n = len(snap.Ordered)
	}
	out := make([]types.Entry, n)
	copy(out, snap.Ordered)
	return out, nil
}

// Count returns the number of employees ranked.
func (s *TreapStore) Count(ctx context.Context) int {
	snap := s.snapshot.Load()
	if snap == nil {
		return 0
	}
	return len(snap.Ordered)
}

// startMetricsUpdater starts a background goroutine that refreshes repository metrics.
func (s *TreapStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateRepositoryRecordsTotal(s.Count(ctx))
			}
		}
	}()
}
