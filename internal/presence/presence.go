package presence

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Manager keeps the bot's Discord presence in sync with what it is
// doing: the current track while streaming, server statistics otherwise.
type Manager struct {
	session *discordgo.Session

	mu         sync.Mutex
	nowPlaying string
}

// NewManager creates a presence manager.
func NewManager(session *discordgo.Session) *Manager {
	return &Manager{session: session}
}

// NowPlaying switches the presence to "Listening to <title>". Implements
// the streamer's Announcer interface.
func (m *Manager) NowPlaying(title string) {
	m.mu.Lock()
	m.nowPlaying = title
	m.mu.Unlock()

	err := m.session.UpdateStatusComplex(discordgo.UpdateStatusData{
		Status: "online",
		Activities: []*discordgo.Activity{
			{
				Name: title,
				Type: discordgo.ActivityTypeListening,
			},
		},
	})
	if err != nil {
		log.Printf("Failed to update now-playing presence: %v", err)
	}
}

// ClearNowPlaying restores the default presence once streaming stops.
func (m *Manager) ClearNowPlaying() {
	m.mu.Lock()
	m.nowPlaying = ""
	m.mu.Unlock()

	m.UpdateDefaultPresence()
}

// UpdateDefaultPresence shows server statistics while nothing plays.
func (m *Manager) UpdateDefaultPresence() {
	guilds := m.session.State.Guilds
	presence := discordgo.UpdateStatusData{
		Status: "online",
		Activities: []*discordgo.Activity{
			{
				Name: "in " + strconv.Itoa(len(guilds)) + " servers",
				Type: discordgo.ActivityTypeWatching,
			},
		},
	}
	if err := m.session.UpdateStatusComplex(presence); err != nil {
		log.Printf("Failed to update bot presence: %v", err)
	}
}

// StartPeriodicUpdates refreshes the default presence every ten minutes
// while nothing is playing.
func (m *Manager) StartPeriodicUpdates() {
	ticker := time.NewTicker(10 * time.Minute)
	go func() {
		for range ticker.C {
			m.mu.Lock()
			idle := m.nowPlaying == ""
			m.mu.Unlock()
			if idle {
				m.UpdateDefaultPresence()
			}
		}
	}()
}
