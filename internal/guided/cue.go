package guided

// CueKind identifies the feedback cue to play on the client.
type CueKind string

const (
	CueSuccess      CueKind = "success"
	CueMotivational CueKind = "motivational"
	CueAchievement  CueKind = "achievement"
)

// Cue delivers feedback cues (sounds, haptics, push). Strictly best-effort:
// the session swallows every error, a failed cue never blocks a transition.
type Cue interface {
	Play(kind CueKind) error
}

type noopCue struct{}

func (noopCue) Play(CueKind) error { return nil }

// NoopCue returns a Cue that does nothing. Used when no delivery channel is
// configured.
func NoopCue() Cue { return noopCue{} }
