// Package session implements the Brain Boost review queue: a per-session
// state machine that owns the ordered working set of cards under review,
// re-surfaces missed cards after a cooling gap and defers any long-term
// state commit until the learner has produced the required number of
// consecutive passing grades.
//
// A Queue belongs to one learner's one active session and must be driven
// from a single goroutine: re-insertion positions depend on the queue length
// at the moment of submission, so grades are processed strictly in
// submission order.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/wordbrain/internal/memory"
	"github.com/example/wordbrain/pkg/models"
)

// Sentinel errors for the session package. Check with errors.Is.
var (
	ErrSessionComplete = errors.New("wordbrain: session has no pending entries")
	ErrSessionEnded    = errors.New("wordbrain: session already ended")
)

// EntryState is the lifecycle stage of one queue entry.
type EntryState int

const (
	Pending         EntryState = iota + 1 // Awaiting first attempt this session.
	AwaitingRecheck                       // Failed or under-confident pass, waiting for another pass.
	Graduated                             // Terminal: memory state committed.
	SessionEnded                          // Terminal: session closed with the entry ungraduated.
)

var entryStateNames = [...]string{
	Pending:         "Pending",
	AwaitingRecheck: "AwaitingRecheck",
	Graduated:       "Graduated",
	SessionEnded:    "SessionEnded",
}

// String returns the name of the entry state.
func (s EntryState) String() string {
	if s >= Pending && s <= SessionEnded {
		return entryStateNames[s]
	}
	return fmt.Sprintf("EntryState(%d)", int(s))
}

// Committer is the persistence collaborator. It receives the committed
// memory state together with the word's full event trail for the session
// (intermediate attempts included, the committed event last). The handoff is
// synchronous; durability guarantees belong to the implementation.
type Committer interface {
	CommitReview(state models.WordMemoryState, events []models.ReviewEvent) error
}

// Config holds the re-queuing policy. The offsets are tunable policy
// constants, not part of the mathematical core: large enough that a failed
// word is not shown twice in a row, small enough that the session does not
// balloon.
type Config struct {
	FailRequeueOffset int // positions back after a fail; 0 → 3
	PassRequeueOffset int // positions back after an under-confident pass; 0 → 5
	RequiredPasses    int // consecutive passes to graduate; 0 → 2
	// PassThreshold is the lowest grade counted as a session pass; 0 → Hard.
	// A Hard recall advances the consecutive-pass counter (the memory model
	// applies its own penalty at commit); only Again is an explicit fail
	// signal. Raise to Good for a stricter graduation policy.
	PassThreshold   models.Grade
	TargetRetention float64 // retention target for the committed interval; 0 → 0.9
}

func (c Config) withDefaults() Config {
	if c.FailRequeueOffset == 0 {
		c.FailRequeueOffset = 3
	}
	if c.PassThreshold == 0 {
		c.PassThreshold = models.Hard
	}
	if c.PassRequeueOffset == 0 {
		c.PassRequeueOffset = 5
	}
	if c.RequiredPasses == 0 {
		c.RequiredPasses = 2
	}
	if c.TargetRetention == 0 {
		c.TargetRetention = memory.DefaultTargetRetention
	}
	return c
}

// Entry is one card in the working set. Ephemeral: it exists only for the
// lifetime of the session and never writes to the memory state directly.
type Entry struct {
	WordID            int64
	State             EntryState
	ConsecutivePasses int
	// Snapshot is the committed memory state active at session start.
	// Graduation computes from this snapshot, not from any in-session value.
	Snapshot models.WordMemoryState

	scheduledDays float64
	events        []models.ReviewEvent
}

// Result reports what one submitted grade did to the front entry.
type Result struct {
	WordID            int64
	State             EntryState
	ConsecutivePasses int
	// Position is the queue index the entry was re-inserted at; -1 when the
	// entry graduated.
	Position int
	// Committed is the persisted memory state; nil unless the entry graduated.
	Committed *models.WordMemoryState
}

// Queue sequences card presentation within one review session.
type Queue struct {
	model     *memory.Model
	committer Committer
	cfg       Config
	order     []*Entry
	graduated []*Entry
	ended     bool
	now       func() time.Time
}

// Option configures a Queue created with New.
type Option func(*Queue)

// WithClock overrides the queue's time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) {
		q.now = now
	}
}

// New creates a session queue over the given memory-state snapshots, in
// FIFO order. Each snapshot must carry the word's last-committed state, or a
// cold-start state for a never-reviewed word.
func New(model *memory.Model, committer Committer, cfg Config, snapshots []models.WordMemoryState, opts ...Option) *Queue {
	q := &Queue{
		model:     model,
		committer: committer,
		cfg:       cfg.withDefaults(),
		now:       time.Now,
	}
	for _, snap := range snapshots {
		var scheduled float64
		if snap.Reviewed() && !snap.NextReviewDate.IsZero() {
			scheduled = snap.NextReviewDate.Sub(snap.LastReviewDate).Hours() / 24.0
		}
		q.order = append(q.order, &Entry{
			WordID:        snap.WordID,
			State:         Pending,
			Snapshot:      snap,
			scheduledDays: scheduled,
		})
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Current returns the word at the front of the queue.
func (q *Queue) Current() (wordID int64, ok bool) {
	if q.ended || len(q.order) == 0 {
		return 0, false
	}
	return q.order[0].WordID, true
}

// Remaining returns the number of ungraduated entries still in the queue.
func (q *Queue) Remaining() int {
	return len(q.order)
}

// Graduated returns the entries that graduated so far, in graduation order.
func (q *Queue) Graduated() []*Entry {
	return q.graduated
}

// Submit records a grade for the front entry. See SubmitTimed.
func (q *Queue) Submit(grade models.Grade) (*Result, error) {
	return q.SubmitTimed(grade, 0)
}

// SubmitTimed records a grade for the front entry, with the time the learner
// spent on the card (0 = unknown).
//
// A grade below the pass threshold resets the consecutive-pass counter and re-inserts
// the entry a few positions back; no model call, no persisted change. A
// passing grade short of the required count re-inserts slightly further back
// for one more confirmation. The pass that reaches the required count
// graduates the entry: the memory model runs against the pre-session
// snapshot with wall-clock time since its last committed review, and the
// result is handed to the Committer together with the full event trail.
//
// An out-of-range grade is rejected with models.ErrInvalidGrade before any
// session state changes.
func (q *Queue) SubmitTimed(grade models.Grade, duration time.Duration) (*Result, error) {
	if !grade.IsValid() {
		return nil, fmt.Errorf("%w: %d", models.ErrInvalidGrade, int(grade))
	}
	if q.ended {
		return nil, ErrSessionEnded
	}
	if len(q.order) == 0 {
		return nil, ErrSessionComplete
	}

	e := q.order[0]
	q.order = q.order[1:]
	now := q.now()

	if grade < q.cfg.PassThreshold {
		e.ConsecutivePasses = 0
		e.State = AwaitingRecheck
		e.events = append(e.events, q.newEvent(e, grade, now, duration, false))
		pos := q.reinsert(e, q.cfg.FailRequeueOffset)
		return &Result{WordID: e.WordID, State: e.State, Position: pos}, nil
	}

	e.ConsecutivePasses++
	if e.ConsecutivePasses < q.cfg.RequiredPasses {
		e.State = AwaitingRecheck
		e.events = append(e.events, q.newEvent(e, grade, now, duration, false))
		pos := q.reinsert(e, q.cfg.PassRequeueOffset)
		return &Result{WordID: e.WordID, State: e.State, ConsecutivePasses: e.ConsecutivePasses, Position: pos}, nil
	}

	state, err := q.model.Commit(e.Snapshot, grade, now, q.cfg.TargetRetention)
	if err != nil {
		q.restoreFront(e)
		return nil, err
	}
	events := append(e.events, q.newEvent(e, grade, now, duration, true))
	if err := q.committer.CommitReview(state, events); err != nil {
		// Persistence failed: the entry stays in flight, long-term state
		// untouched, and the learner can retry or abandon the session.
		q.restoreFront(e)
		return nil, fmt.Errorf("commit review for word %d: %w", e.WordID, err)
	}
	e.events = events
	e.State = Graduated
	q.graduated = append(q.graduated, e)
	return &Result{
		WordID:            e.WordID,
		State:             Graduated,
		ConsecutivePasses: e.ConsecutivePasses,
		Position:          -1,
		Committed:         &state,
	}, nil
}

// End closes the session. Ungraduated entries become SessionEnded: no state
// is written for them, their last-committed state simply rolls over to the
// next session. Abandoning a session without calling End has the same effect.
func (q *Queue) End() (graduated, ended int) {
	if q.ended {
		return len(q.graduated), 0
	}
	q.ended = true
	for _, e := range q.order {
		e.State = SessionEnded
		ended++
	}
	q.order = nil
	return len(q.graduated), ended
}

func (q *Queue) newEvent(e *Entry, grade models.Grade, now time.Time, duration time.Duration, committed bool) models.ReviewEvent {
	return models.NewReviewEvent(e.Snapshot.UserID, e.WordID, grade, now, e.scheduledDays, duration, committed)
}

// reinsert places the entry offset positions back, or at the end when the
// remaining queue is shorter. Returns the index used.
func (q *Queue) reinsert(e *Entry, offset int) int {
	pos := offset
	if pos > len(q.order) {
		pos = len(q.order)
	}
	q.order = append(q.order, nil)
	copy(q.order[pos+1:], q.order[pos:])
	q.order[pos] = e
	return pos
}

// restoreFront puts the entry back at the front after a failed commit, with
// the counter rewound so a retry repeats the graduating pass.
func (q *Queue) restoreFront(e *Entry) {
	e.ConsecutivePasses--
	q.order = append([]*Entry{e}, q.order...)
}
