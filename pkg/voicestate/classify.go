package voicestate

// Signal describes what a voice-state transition means for a session.
type Signal int

const (
	Unknown Signal = iota
	Joined
	Left
	Moved
)

func (s Signal) String() string {
	switch s {
	case Joined:
		return "joined"
	case Left:
		return "left"
	case Moved:
		return "moved"
	default:
		return "unknown"
	}
}

// Transition is the raw voice-state change as delivered by the gateway.
// An empty channel id means the user was not in any voice channel.
type Transition struct {
	UserID          string
	BotID           string
	PreviousChannel string
	CurrentChannel  string
}

// IsBot reports whether the transition concerns the bot's own voice state.
func (t Transition) IsBot() bool {
	return t.UserID == t.BotID
}

// Classify maps a voice-state transition into a lifecycle signal. It is a
// pure, total function: every input maps to exactly one signal and no
// input fails.
func Classify(t Transition) Signal {
	switch {
	case t.PreviousChannel == t.CurrentChannel:
		return Unknown
	case t.PreviousChannel == "":
		return Joined
	case t.CurrentChannel == "":
		return Left
	default:
		return Moved
	}
}
