package viewer

import (
	"errors"

	"monsterlane/internal/session"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var digitKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
	ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

// InputHandler maps key presses onto session commands.
type InputHandler struct {
	viewer *Viewer
}

func NewInputHandler(v *Viewer) *InputHandler {
	return &InputHandler{viewer: v}
}

// HandleInput processes the keys pressed this frame.
func (ih *InputHandler) HandleInput() error {
	v := ih.viewer
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		v.showDebug = !v.showDebug
	}

	if v.session.Result() != nil {
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			return v.restart()
		}
		return nil
	}

	if v.session.Pending() != nil {
		ih.handleUpgradeInput()
		return nil
	}

	if i := pressedDigit(); i >= 0 {
		roster := v.session.Roster()
		if i < len(roster) {
			ih.report(v.session.Summon(roster[i]))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		ih.report(v.session.UseSkill())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyW) {
		ih.report(v.session.DivineWrath())
	}
	return nil
}

func (ih *InputHandler) handleUpgradeInput() {
	s := ih.viewer.session
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		ih.report(s.Skip())
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		ih.report(s.Reroll())
	default:
		if i := pressedDigit(); i >= 0 {
			ih.report(s.Choose(i))
		}
	}
}

// report turns a refused command into an on-screen notice.
func (ih *InputHandler) report(err error) {
	if err == nil {
		return
	}
	ih.viewer.Notify(noticeFor(err))
}

func noticeFor(err error) string {
	switch {
	case errors.Is(err, session.ErrInsufficientGold):
		return "Not enough gold!"
	case errors.Is(err, session.ErrSkillCooldown):
		return "Skill is on cooldown"
	case errors.Is(err, session.ErrNoCommander):
		return "Recruit a commander first"
	case errors.Is(err, session.ErrWrathUsed):
		return "Divine wrath has already been used"
	case errors.Is(err, session.ErrRerollUsed):
		return "Already rerolled this level"
	case errors.Is(err, session.ErrInvalidChoice):
		return "No such option"
	default:
		return err.Error()
	}
}

// pressedDigit returns the index of the number key pressed this frame, or -1.
func pressedDigit() int {
	for i, key := range digitKeys {
		if inpututil.IsKeyJustPressed(key) {
			return i
		}
	}
	return -1
}
