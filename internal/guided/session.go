// Package guided drives a user through a flattened exercise list with a
// ready countdown, per-exercise rest intervals and a completion record. All
// state lives in memory for the lifetime of one run; only the final summary
// leaves the package, via the OnComplete callback.
package guided

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"pulsefit/fitness-tracker/internal/domain"
)

// Phase is the session state. Ready is initial, Complete is terminal.
type Phase string

const (
	PhaseReady      Phase = "ready"
	PhaseExercise   Phase = "exercise"
	PhaseRest       Phase = "rest"
	PhaseTransition Phase = "transition"
	PhaseComplete   Phase = "complete"
)

const (
	// ReadyCountdownSeconds is the fixed countdown before the first exercise.
	ReadyCountdownSeconds = 3
	// DefaultRestSeconds is used when the config leaves the rest length unset.
	DefaultRestSeconds = 60
	// restPreCueAt: with this many seconds of rest left a success pre-cue
	// plays, independent of the configured rest length.
	restPreCueAt = 4
	// transitionDelay is the cosmetic pause between rest and the next exercise.
	transitionDelay = 500 * time.Millisecond

	tick = time.Second
)

var (
	ErrNoExercises    = errors.New("guided: session needs at least one exercise")
	ErrWrongPhase     = errors.New("guided: operation not valid in current phase")
	ErrAtLastExercise = errors.New("guided: already at the last exercise")
	ErrSessionOver    = errors.New("guided: session already finished")
)

// Config tunes a session. Zero values fall back to defaults.
type Config struct {
	RestSeconds int
}

// Summary is what a finished session hands to the host.
type Summary struct {
	CompletedExerciseIDs []string `json:"completedExerciseIds"`
	ElapsedSeconds       int      `json:"elapsedSeconds"`
}

// Callbacks are invoked at most once each, at the corresponding terminal
// action. Either OnComplete or OnExit fires, never both.
type Callbacks struct {
	OnComplete func(Summary)
	OnExit     func()
}

// Session is the guided-workout state machine. All methods are safe for
// concurrent use; in practice one user drives one session.
type Session struct {
	mu sync.Mutex

	id          string
	exercises   []domain.ExerciseRef
	restSeconds int
	clock       Clock
	sched       Scheduler
	cue         Cue
	callbacks   Callbacks

	phase          Phase
	index          int
	completed      map[string]struct{}
	completedOrder []string
	readyRemaining int
	restRemaining  int

	startedAt    time.Time
	paused       bool
	pausedAt     time.Time
	pausedTotal  time.Duration
	finalElapsed int

	cancelTimer CancelFunc
	over        bool
}

// NewSession creates a session over the flattened exercise list and starts
// the ready countdown immediately.
func NewSession(exercises []domain.ExerciseRef, cfg Config, clock Clock, sched Scheduler, cue Cue, cb Callbacks) (*Session, error) {
	if len(exercises) == 0 {
		return nil, ErrNoExercises
	}
	if cfg.RestSeconds <= 0 {
		cfg.RestSeconds = DefaultRestSeconds
	}
	if cue == nil {
		cue = NoopCue()
	}

	s := &Session{
		id:             uuid.NewString(),
		exercises:      exercises,
		restSeconds:    cfg.RestSeconds,
		clock:          clock,
		sched:          sched,
		cue:            cue,
		callbacks:      cb,
		phase:          PhaseReady,
		completed:      make(map[string]struct{}),
		readyRemaining: ReadyCountdownSeconds,
		restRemaining:  cfg.RestSeconds,
	}
	s.startedAt = clock.Now()

	s.mu.Lock()
	s.armTick(tick)
	s.mu.Unlock()
	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// --- timer plumbing ---

// armTick schedules the next countdown step. Caller must hold s.mu. Any
// previously armed timer is cancelled first, so at most one is ever live.
func (s *Session) armTick(d time.Duration) {
	s.disarm()
	s.cancelTimer = s.sched.After(d, s.onTick)
}

// disarm cancels the armed timer, if any. Caller must hold s.mu.
func (s *Session) disarm() {
	if s.cancelTimer != nil {
		s.cancelTimer()
		s.cancelTimer = nil
	}
}

func (s *Session) onTick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.over || s.paused {
		return
	}

	switch s.phase {
	case PhaseReady:
		s.readyRemaining--
		if s.readyRemaining <= 0 {
			s.phase = PhaseExercise
			s.playCue(CueMotivational)
			s.disarm()
			return
		}
		s.armTick(tick)

	case PhaseRest:
		s.restRemaining--
		if s.restRemaining == restPreCueAt {
			s.playCue(CueSuccess)
		}
		if s.restRemaining <= 0 {
			s.advanceLocked()
			return
		}
		s.armTick(tick)

	case PhaseTransition:
		s.phase = PhaseExercise
		s.disarm()

	default:
		// Exercise and complete phases run no countdown; a stray timer
		// firing here was already cancelled logically, ignore it.
		s.disarm()
	}
}

// advanceLocked moves to the next exercise via the transition phase.
// Caller must hold s.mu.
func (s *Session) advanceLocked() {
	if s.index < len(s.exercises)-1 {
		s.index++
	}
	s.restRemaining = s.restSeconds
	s.enterTransitionLocked()
}

// enterTransitionLocked passes through the cosmetic transition phase before
// re-entering exercise. Caller must hold s.mu.
func (s *Session) enterTransitionLocked() {
	s.phase = PhaseTransition
	s.armTick(transitionDelay)
}

func (s *Session) playCue(kind CueKind) {
	// Best-effort: cue failures never block a transition.
	_ = s.cue.Play(kind)
}

// --- user actions ---

// CompleteCurrent marks the current exercise done. From any exercise but the
// last it moves to rest; from the last it completes the session.
func (s *Session) CompleteCurrent() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.over {
		return ErrSessionOver
	}
	if s.phase != PhaseExercise {
		return ErrWrongPhase
	}

	s.markCompletedLocked(s.exercises[s.index].ID)

	if s.index == len(s.exercises)-1 {
		// Freeze elapsed before the phase flips; once complete, snapshots
		// read the frozen value.
		s.finalElapsed = s.elapsedSecondsLocked()
		s.phase = PhaseComplete
		s.disarm()
		s.playCue(CueAchievement)
		return nil
	}

	s.phase = PhaseRest
	s.restRemaining = s.restSeconds
	s.playCue(CueSuccess)
	s.armTick(tick)
	return nil
}

// markCompletedLocked is idempotent; re-completing an exercise never
// produces a duplicate entry. Caller must hold s.mu.
func (s *Session) markCompletedLocked(id string) {
	if _, ok := s.completed[id]; ok {
		return
	}
	s.completed[id] = struct{}{}
	s.completedOrder = append(s.completedOrder, id)
}

// SkipRest ends the rest interval early and advances to the next exercise.
func (s *Session) SkipRest() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.over {
		return ErrSessionOver
	}
	if s.phase != PhaseRest {
		return ErrWrongPhase
	}
	s.advanceLocked()
	return nil
}

// Previous navigates back one exercise, clamped at the first. Does not touch
// the completed set.
func (s *Session) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.over {
		return ErrSessionOver
	}
	if s.phase != PhaseExercise && s.phase != PhaseRest {
		return ErrWrongPhase
	}
	if s.index > 0 {
		s.index--
	}
	s.restRemaining = s.restSeconds
	s.enterTransitionLocked()
	return nil
}

// Next manually skips forward one exercise, clamped at the last. At the last
// exercise the control is disabled rather than wrapping or completing.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.over {
		return ErrSessionOver
	}
	if s.phase != PhaseExercise && s.phase != PhaseRest {
		return ErrWrongPhase
	}
	if s.index >= len(s.exercises)-1 {
		return ErrAtLastExercise
	}
	s.index++
	s.restRemaining = s.restSeconds
	s.enterTransitionLocked()
	return nil
}

// TogglePause flips the pause flag. While paused every countdown and the
// elapsed-time accrual freeze; resuming continues from the frozen values.
func (s *Session) TogglePause() (paused bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.over || s.phase == PhaseComplete {
		return false, ErrSessionOver
	}

	if !s.paused {
		s.paused = true
		s.pausedAt = s.clock.Now()
		s.disarm()
		return true, nil
	}

	s.paused = false
	s.pausedTotal += s.clock.Now().Sub(s.pausedAt)
	switch s.phase {
	case PhaseReady, PhaseRest:
		s.armTick(tick)
	case PhaseTransition:
		s.armTick(transitionDelay)
	}
	return false, nil
}

// Exit discards the session. The host's OnExit callback fires exactly once;
// nothing is persisted here.
func (s *Session) Exit() error {
	s.mu.Lock()
	if s.over {
		s.mu.Unlock()
		return ErrSessionOver
	}
	s.over = true
	s.disarm()
	onExit := s.callbacks.OnExit
	s.mu.Unlock()

	if onExit != nil {
		onExit()
	}
	return nil
}

// Finish hands the summary to the host. Only valid once the session reached
// the complete phase; the OnComplete callback fires exactly once.
func (s *Session) Finish() (Summary, error) {
	s.mu.Lock()
	if s.over {
		s.mu.Unlock()
		return Summary{}, ErrSessionOver
	}
	if s.phase != PhaseComplete {
		s.mu.Unlock()
		return Summary{}, ErrWrongPhase
	}
	s.over = true
	s.disarm()
	summary := Summary{
		CompletedExerciseIDs: append([]string(nil), s.completedOrder...),
		ElapsedSeconds:       s.finalElapsed,
	}
	onComplete := s.callbacks.OnComplete
	s.mu.Unlock()

	if onComplete != nil {
		onComplete(summary)
	}
	return summary, nil
}

// --- introspection ---

// elapsedSecondsLocked computes elapsed time as a wall-clock delta from the
// session start minus time spent paused, so timer-callback jitter never
// drifts it. Caller must hold s.mu.
func (s *Session) elapsedSecondsLocked() int {
	if s.phase == PhaseComplete {
		return s.finalElapsed
	}
	elapsed := s.clock.Now().Sub(s.startedAt) - s.pausedTotal
	if s.paused {
		elapsed -= s.clock.Now().Sub(s.pausedAt)
	}
	if elapsed < 0 {
		elapsed = 0
	}
	return int(elapsed / time.Second)
}

// Progress returns completed-exercise count and total, for the exit
// confirmation step.
func (s *Session) Progress() (completed, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.completed), len(s.exercises)
}

// Snapshot is a read-only view of the session for API responses.
type Snapshot struct {
	SessionID      string              `json:"sessionId"`
	Phase          Phase               `json:"phase"`
	Paused         bool                `json:"paused"`
	CurrentIndex   int                 `json:"currentIndex"`
	Current        domain.ExerciseRef  `json:"current"`
	Next           *domain.ExerciseRef `json:"next,omitempty"`
	TotalExercises int                 `json:"totalExercises"`
	CompletedIDs   []string            `json:"completedIds"`
	ElapsedSeconds int                 `json:"elapsedSeconds"`
	ReadyRemaining int                 `json:"readyRemaining,omitempty"`
	RestRemaining  int                 `json:"restRemaining,omitempty"`
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		SessionID:      s.id,
		Phase:          s.phase,
		Paused:         s.paused,
		CurrentIndex:   s.index,
		Current:        s.exercises[s.index],
		TotalExercises: len(s.exercises),
		CompletedIDs:   append([]string(nil), s.completedOrder...),
		ElapsedSeconds: s.elapsedSecondsLocked(),
	}
	if s.index < len(s.exercises)-1 {
		next := s.exercises[s.index+1]
		snap.Next = &next
	}
	if s.phase == PhaseReady {
		snap.ReadyRemaining = s.readyRemaining
	}
	if s.phase == PhaseRest {
		snap.RestRemaining = s.restRemaining
	}
	return snap
}
