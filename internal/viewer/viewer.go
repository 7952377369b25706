// Package viewer is the real-time ebiten front end for a session.
package viewer

import (
	"fmt"
	"log/slog"
	"time"

	"monsterlane/internal/config"
	"monsterlane/internal/game"
	"monsterlane/internal/monitoring"
	"monsterlane/internal/session"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	maxMessages    = 5
	noticeDuration = 2 * time.Second
)

// SessionFactory starts a fresh session. It is called once at startup and
// again whenever the player restarts after a match.
type SessionFactory func() (*session.Session, error)

// Viewer implements ebiten.Game around one session at a time.
type Viewer struct {
	config     *config.Config
	newSession SessionFactory
	session    *session.Session
	monitor    *monitoring.PerformanceMonitor
	logger     *slog.Logger

	input    *InputHandler
	renderer *Renderer

	showDebug bool
	messages  []string
	notice    string
	noticeFor time.Duration
}

// NewViewer starts the first session. monitor may be nil.
func NewViewer(cfg *config.Config, factory SessionFactory, monitor *monitoring.PerformanceMonitor, logger *slog.Logger) (*Viewer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	v := &Viewer{
		config:     cfg,
		newSession: factory,
		monitor:    monitor,
		logger:     logger,
	}
	v.input = NewInputHandler(v)
	v.renderer = NewRenderer(v)
	if err := v.restart(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Viewer) restart() error {
	s, err := v.newSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	v.session = s
	v.messages = nil
	v.notice = ""
	v.noticeFor = 0
	if v.monitor != nil {
		v.monitor.Reset()
	}
	return nil
}

// Update handles input and advances the session by one frame.
func (v *Viewer) Update() error {
	if err := v.input.HandleInput(); err != nil {
		return err
	}

	delta := v.config.GetFrameDelta()
	if v.session.Pending() != nil {
		// The arena pauses while an upgrade is chosen.
		delta = 0
	}
	for _, e := range v.session.Update(delta) {
		v.handleEvent(e)
	}

	if v.noticeFor > 0 {
		v.noticeFor -= v.config.GetFrameDelta()
		if v.noticeFor <= 0 {
			v.notice = ""
		}
	}
	return nil
}

func (v *Viewer) handleEvent(e game.Event) {
	switch e.Kind {
	case game.EventDifficulty:
		v.AddMessage(fmt.Sprintf("Difficulty %d: enemies grow stronger", e.Level))
	case game.EventMatchEnded:
		v.AddMessage(outcomeTitle(e.Outcome))
	}
}

// AddMessage appends to the message log, keeping the newest entries.
func (v *Viewer) AddMessage(message string) {
	v.messages = append(v.messages, message)
	if len(v.messages) > maxMessages {
		v.messages = v.messages[len(v.messages)-maxMessages:]
	}
}

// Notify shows a short-lived notice, such as a refused command.
func (v *Viewer) Notify(message string) {
	v.notice = message
	v.noticeFor = noticeDuration
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	v.renderer.Draw(screen)
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return v.config.GetScreenWidth(), v.config.GetScreenHeight()
}

func outcomeTitle(o game.Outcome) string {
	switch o {
	case game.OutcomeVictory:
		return "Victory!"
	case game.OutcomeDefeat:
		return "Game Over"
	case game.OutcomeTimeExpired:
		return "Time's Up"
	default:
		return ""
	}
}

// formatClock renders a countdown as m:ss.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
