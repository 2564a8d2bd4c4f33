package voicestate

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		previous string
		current  string
		want     Signal
	}{
		{"no channel to no channel", "", "", Unknown},
		{"none to some is a join", "", "general", Joined},
		{"some to none is a leave", "general", "", Left},
		{"different channels is a move", "general", "music", Moved},
		{"same channel is unknown", "music", "music", Unknown},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Classify(Transition{
				UserID:          "user",
				BotID:           "bot",
				PreviousChannel: c.previous,
				CurrentChannel:  c.current,
			})
			if got != c.want {
				t.Errorf("Classify(%q -> %q) = %v, want %v", c.previous, c.current, got, c.want)
			}
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	// Every combination of empty/non-empty channels yields exactly one of
	// the four signals; nothing panics, nothing falls through.
	channels := []string{"", "a", "b"}
	for _, prev := range channels {
		for _, cur := range channels {
			got := Classify(Transition{PreviousChannel: prev, CurrentChannel: cur})
			switch got {
			case Joined, Left, Moved, Unknown:
			default:
				t.Errorf("Classify(%q -> %q) returned out-of-range signal %d", prev, cur, got)
			}
		}
	}
}

func TestIsBot(t *testing.T) {
	if !(Transition{UserID: "x", BotID: "x"}).IsBot() {
		t.Error("expected IsBot for matching ids")
	}
	if (Transition{UserID: "x", BotID: "y"}).IsBot() {
		t.Error("expected !IsBot for differing ids")
	}
}
