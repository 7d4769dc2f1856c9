package guided

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulsefit/fitness-tracker/internal/domain"
)

// fakeTimeline is both Clock and Scheduler: a virtual timeline the tests
// advance deterministically.
type fakeTimeline struct {
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func newTimeline() *fakeTimeline {
	return &fakeTimeline{now: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)}
}

func (tl *fakeTimeline) Now() time.Time { return tl.now }

func (tl *fakeTimeline) After(d time.Duration, fn func()) CancelFunc {
	t := &fakeTimer{at: tl.now.Add(d), fn: fn}
	tl.timers = append(tl.timers, t)
	return func() { t.stopped = true }
}

// Advance moves the timeline forward, firing due timers in order. Callbacks
// may arm new timers; those fire too if they fall within the window.
func (tl *fakeTimeline) Advance(d time.Duration) {
	target := tl.now.Add(d)
	for {
		var next *fakeTimer
		for _, t := range tl.timers {
			if t.stopped || t.fired || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			break
		}
		tl.now = next.at
		next.fired = true
		next.fn()
	}
	tl.now = target
}

type recordingCue struct {
	played []CueKind
}

func (c *recordingCue) Play(kind CueKind) error {
	c.played = append(c.played, kind)
	return nil
}

func refs(ids ...string) []domain.ExerciseRef {
	var out []domain.ExerciseRef
	for _, id := range ids {
		out = append(out, domain.ExerciseRef{ID: id, Name: "ex " + id, Sets: "3", Reps: "10"})
	}
	return out
}

func newTestSession(t *testing.T, tl *fakeTimeline, cue Cue, cb Callbacks, ids ...string) *Session {
	t.Helper()
	s, err := NewSession(refs(ids...), Config{RestSeconds: 10}, tl, tl, cue, cb)
	require.NoError(t, err)
	return s
}

func TestSessionReadyCountdown(t *testing.T) {
	tl := newTimeline()
	cue := &recordingCue{}
	s := newTestSession(t, tl, cue, Callbacks{}, "a", "b")

	assert.Equal(t, PhaseReady, s.Snapshot().Phase)
	assert.Equal(t, ReadyCountdownSeconds, s.Snapshot().ReadyRemaining)

	tl.Advance(2 * time.Second)
	assert.Equal(t, PhaseReady, s.Snapshot().Phase)
	assert.Equal(t, 1, s.Snapshot().ReadyRemaining)

	tl.Advance(time.Second)
	assert.Equal(t, PhaseExercise, s.Snapshot().Phase)
	assert.Equal(t, []CueKind{CueMotivational}, cue.played)
}

func TestSessionNeedsExercises(t *testing.T) {
	tl := newTimeline()
	_, err := NewSession(nil, Config{}, tl, tl, nil, Callbacks{})
	assert.ErrorIs(t, err, ErrNoExercises)
}

func TestCompleteMidListEntersRest(t *testing.T) {
	tl := newTimeline()
	cue := &recordingCue{}
	s := newTestSession(t, tl, cue, Callbacks{}, "a", "b", "c")
	tl.Advance(3 * time.Second)

	require.NoError(t, s.CompleteCurrent())
	snap := s.Snapshot()
	assert.Equal(t, PhaseRest, snap.Phase)
	assert.Equal(t, 10, snap.RestRemaining)
	assert.Equal(t, []string{"a"}, snap.CompletedIDs)
	assert.Contains(t, cue.played, CueSuccess)

	// Rest counts down; at 4 seconds remaining the pre-cue plays.
	cue.played = nil
	tl.Advance(6 * time.Second)
	assert.Equal(t, []CueKind{CueSuccess}, cue.played)
	assert.Equal(t, 4, s.Snapshot().RestRemaining)

	// Countdown hitting zero advances to the next exercise via transition.
	tl.Advance(4 * time.Second)
	assert.Equal(t, PhaseTransition, s.Snapshot().Phase)
	tl.Advance(time.Second)
	snap = s.Snapshot()
	assert.Equal(t, PhaseExercise, snap.Phase)
	assert.Equal(t, 1, snap.CurrentIndex)
}

func TestCompleteLastExerciseFinishes(t *testing.T) {
	tl := newTimeline()
	cue := &recordingCue{}
	var got *Summary
	cb := Callbacks{OnComplete: func(sum Summary) { got = &sum }}
	s := newTestSession(t, tl, cue, cb, "a", "b")
	tl.Advance(3 * time.Second)

	require.NoError(t, s.CompleteCurrent()) // a -> rest
	require.NoError(t, s.SkipRest())
	tl.Advance(time.Second) // through transition

	tl.Advance(90 * time.Second) // time spent on the last exercise
	require.NoError(t, s.CompleteCurrent())
	assert.Equal(t, PhaseComplete, s.Snapshot().Phase)
	assert.Contains(t, cue.played, CueAchievement)

	// Elapsed freezes the moment the session completes; idle time between
	// completion and Finish does not accrue.
	assert.Equal(t, 94, s.Snapshot().ElapsedSeconds)
	tl.Advance(5 * time.Minute)
	assert.Equal(t, 94, s.Snapshot().ElapsedSeconds)

	sum, err := s.Finish()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, sum.CompletedExerciseIDs)
	// 3s ready + 1s transition + 90s exercise (SkipRest consumed no time).
	assert.Equal(t, 94, sum.ElapsedSeconds)
	require.NotNil(t, got)
	assert.Equal(t, sum, *got)

	// Terminal: nothing is callable afterwards.
	_, err = s.Finish()
	assert.ErrorIs(t, err, ErrSessionOver)
	assert.ErrorIs(t, s.CompleteCurrent(), ErrSessionOver)
}

func TestCompletedIDsNeverDuplicate(t *testing.T) {
	tl := newTimeline()
	s := newTestSession(t, tl, nil, Callbacks{}, "a", "b")
	tl.Advance(3 * time.Second)

	require.NoError(t, s.CompleteCurrent()) // completes "a"
	require.NoError(t, s.Previous())        // back to "a"
	tl.Advance(time.Second)
	require.NoError(t, s.CompleteCurrent()) // completes "a" again
	require.NoError(t, s.SkipRest())
	tl.Advance(time.Second)

	snap := s.Snapshot()
	assert.Equal(t, []string{"a"}, snap.CompletedIDs)
	assert.LessOrEqual(t, len(snap.CompletedIDs), snap.TotalExercises)
}

func TestNavigationClamps(t *testing.T) {
	tl := newTimeline()
	s := newTestSession(t, tl, nil, Callbacks{}, "a", "b", "c")
	tl.Advance(3 * time.Second)

	// Previous at index 0 stays at 0.
	require.NoError(t, s.Previous())
	tl.Advance(time.Second)
	assert.Equal(t, 0, s.Snapshot().CurrentIndex)

	// Manual next twice lands on the last exercise.
	require.NoError(t, s.Next())
	tl.Advance(time.Second)
	require.NoError(t, s.Next())
	tl.Advance(time.Second)
	snap := s.Snapshot()
	assert.Equal(t, 2, snap.CurrentIndex)
	assert.Nil(t, snap.Next)

	// Next is disabled at the boundary.
	assert.ErrorIs(t, s.Next(), ErrAtLastExercise)
	assert.Equal(t, 2, s.Snapshot().CurrentIndex)
}

func TestPauseFreezesEverything(t *testing.T) {
	tl := newTimeline()
	s := newTestSession(t, tl, nil, Callbacks{}, "a", "b")
	tl.Advance(3 * time.Second)
	require.NoError(t, s.CompleteCurrent())
	tl.Advance(3 * time.Second) // rest: 10 -> 7
	require.Equal(t, 7, s.Snapshot().RestRemaining)

	paused, err := s.TogglePause()
	require.NoError(t, err)
	assert.True(t, paused)

	before := s.Snapshot()
	tl.Advance(42 * time.Minute)
	after := s.Snapshot()
	assert.Equal(t, before.RestRemaining, after.RestRemaining)
	assert.Equal(t, before.ElapsedSeconds, after.ElapsedSeconds)

	// Resuming continues from the exact frozen values.
	paused, err = s.TogglePause()
	require.NoError(t, err)
	assert.False(t, paused)
	tl.Advance(time.Second)
	snap := s.Snapshot()
	assert.Equal(t, 6, snap.RestRemaining)
	assert.Equal(t, 7, snap.ElapsedSeconds)
}

func TestPauseDuringReadyCountdown(t *testing.T) {
	tl := newTimeline()
	s := newTestSession(t, tl, nil, Callbacks{}, "a")
	tl.Advance(time.Second) // ready: 3 -> 2

	_, err := s.TogglePause()
	require.NoError(t, err)
	tl.Advance(time.Hour)
	assert.Equal(t, PhaseReady, s.Snapshot().Phase)
	assert.Equal(t, 2, s.Snapshot().ReadyRemaining)

	_, err = s.TogglePause()
	require.NoError(t, err)
	tl.Advance(2 * time.Second)
	assert.Equal(t, PhaseExercise, s.Snapshot().Phase)
	assert.Equal(t, 3, s.Snapshot().ElapsedSeconds)
}

func TestExitDiscardsSession(t *testing.T) {
	tl := newTimeline()
	exits := 0
	s := newTestSession(t, tl, nil, Callbacks{OnExit: func() { exits++ }}, "a", "b")
	tl.Advance(3 * time.Second)
	require.NoError(t, s.CompleteCurrent())

	done, total := s.Progress()
	assert.Equal(t, 1, done)
	assert.Equal(t, 2, total)

	require.NoError(t, s.Exit())
	assert.Equal(t, 1, exits)
	assert.ErrorIs(t, s.Exit(), ErrSessionOver)

	// No orphaned timers keep mutating state after exit.
	snap := s.Snapshot()
	tl.Advance(time.Minute)
	assert.Equal(t, snap.Phase, s.Snapshot().Phase)
}

func TestManagerOneSessionPerUser(t *testing.T) {
	tl := newTimeline()
	m := NewManager(tl, tl, NoopCue())

	s1, err := m.Start("u1", refs("a"), Config{}, Callbacks{})
	require.NoError(t, err)

	_, err = m.Start("u1", refs("a"), Config{}, Callbacks{})
	assert.ErrorIs(t, err, ErrSessionActive)

	got, err := m.Get("u1")
	require.NoError(t, err)
	assert.Same(t, s1, got)

	require.NoError(t, s1.Exit())
	_, err = m.Get("u1")
	assert.ErrorIs(t, err, ErrNoActiveSession)

	_, err = m.Start("u1", refs("a"), Config{}, Callbacks{})
	assert.NoError(t, err)
}
