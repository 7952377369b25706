package viewer

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"monsterlane/internal/game"
	"monsterlane/internal/graphics"
	"monsterlane/internal/monster"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

var (
	colorBackground  = color.RGBA{34, 48, 34, 255}
	colorLane        = color.RGBA{70, 60, 40, 255}
	colorPlayer      = color.RGBA{60, 120, 220, 255}
	colorEnemy       = color.RGBA{210, 60, 60, 255}
	colorHealthBack  = color.RGBA{40, 0, 0, 200}
	colorHealthFront = color.RGBA{40, 200, 60, 255}
	colorPanel       = color.RGBA{0, 0, 0, 190}
	colorHighlight   = color.RGBA{255, 220, 80, 255}
	colorMuted       = color.RGBA{150, 150, 150, 255}
	colorText        = color.White
)

// effectColors tints the markers drawn over affected units.
var effectColors = map[monster.EffectKind]color.RGBA{
	monster.EffectSlow:    {120, 200, 255, 255},
	monster.EffectPoison:  {120, 220, 60, 255},
	monster.EffectHaste:   {255, 200, 40, 255},
	monster.EffectFortify: {200, 200, 200, 255},
}

const (
	towerWidth     = 40
	towerHeight    = 80
	meleeRadius    = 10
	rangedRadius   = 8
	unitBarWidth   = 24
	towerBarWidth  = 60
	healthBarH     = 4
	rosterBarY     = 30 // distance from the bottom edge
	upgradePanelW  = 460
	upgradeOptionH = 40
	spriteRoot     = "assets/sprites"
)

// Renderer draws the arena and every overlay.
type Renderer struct {
	viewer  *Viewer
	sprites *graphics.SpriteManager
}

func NewRenderer(v *Viewer) *Renderer {
	return &Renderer{viewer: v, sprites: graphics.NewSpriteManager(spriteRoot)}
}

func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	r.drawArena(screen)
	r.drawHUD(screen)
	r.drawRoster(screen)
	r.drawMessages(screen)
	r.drawNotice(screen)

	s := r.viewer.session
	if s.Pending() != nil {
		r.drawUpgradePanel(screen)
	}
	if s.Result() != nil {
		r.drawGameOver(screen)
	}
	if r.viewer.showDebug {
		r.drawDebugOverlay(screen)
	}
}

// scale maps arena coordinates onto the screen.
func (r *Renderer) scale(screen *ebiten.Image) (float32, float32) {
	arena := r.viewer.config.Arena
	b := screen.Bounds()
	sx, sy := float32(1), float32(1)
	if arena.Width > 0 {
		sx = float32(b.Dx()) / float32(arena.Width)
	}
	if arena.Height > 0 {
		sy = float32(b.Dy()) / float32(arena.Height)
	}
	return sx, sy
}

func (r *Renderer) drawArena(screen *ebiten.Image) {
	match := r.viewer.session.Match()
	world := match.World()
	sx, sy := r.scale(screen)

	pt, et := world.PlayerTower, world.EnemyTower
	vector.StrokeLine(screen, float32(pt.X)*sx, float32(pt.Y)*sy, float32(et.X)*sx, float32(et.Y)*sy, 60*sy, colorLane, false)

	for _, tower := range []*monster.Tower{pt, et} {
		x, y := float32(tower.X)*sx, float32(tower.Y)*sy
		team := tower.Team
		sprite := r.sprites.GetSprite("tower_"+team.String(), func() *ebiten.Image { return towerPlaceholder(team) })
		drawSprite(screen, sprite, x, y, towerWidth, towerHeight)
		drawHealthBar(screen, x-towerBarWidth/2, y-towerHeight/2-10, towerBarWidth, tower.Health, tower.MaxHealth)
	}

	for _, u := range world.Units() {
		if !u.IsAlive() {
			continue
		}
		x, y := float32(u.X)*sx, float32(u.Y)*sy
		radius := float32(meleeRadius)
		if u.Stats.AttackType == monster.AttackRanged {
			radius = rangedRadius
		}
		team := u.Team
		sprite := r.sprites.GetSprite(u.Key, func() *ebiten.Image { return unitPlaceholder(team, radius) })
		drawSprite(screen, sprite, x, y, 2*radius, 2*radius)
		if u.Stats.SplashDamage {
			vector.StrokeCircle(screen, x, y, radius+2, 1, colorHighlight, true)
		}
		drawHealthBar(screen, x-unitBarWidth/2, y-radius-7, unitBarWidth, u.Health, u.MaxHealth)

		for i, eff := range match.ActiveEffects(u.ID) {
			c, ok := effectColors[eff.Kind]
			if !ok {
				continue
			}
			vector.DrawFilledCircle(screen, x-radius+float32(i)*5, y+radius+3, 2, c, false)
		}
	}
}

func (r *Renderer) drawHUD(screen *ebiten.Image) {
	s := r.viewer.session
	match := s.Match()

	lines := []string{
		fmt.Sprintf("Gold: %d", s.Gold()),
		fmt.Sprintf("Level %d  EXP %d/%d", s.Level(), s.Experience(), s.ExpToNext()),
		fmt.Sprintf("Score: %d", s.Score()),
		fmt.Sprintf("Time: %s  Difficulty: %d", formatClock(s.Remaining()), match.Difficulty()),
	}
	if boost := match.BoostRemaining(); boost > 0 {
		lines = append(lines, fmt.Sprintf("Gold Rush: %s", formatClock(boost)))
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, 10, 10+i*16)
	}

	width := screen.Bounds().Dx()
	th := s.Theme()
	if th.Name != "" {
		drawTextRight(screen, "Theme: "+th.Name, width-10, 10, colorHighlight)
	}
	if c, ok := s.Commander(); ok {
		status := "ready [C]"
		if cd := s.SkillCooldown(); cd > 0 {
			status = formatClock(cd)
		}
		drawTextRight(screen, fmt.Sprintf("%s - %s: %s", c.Name, c.Skill.Name, status), width-10, 28, colorText)
	}
}

func (r *Renderer) drawRoster(screen *ebiten.Image) {
	s := r.viewer.session
	y := screen.Bounds().Dy() - rosterBarY
	var segments []coloredTextSegment
	for i, key := range s.Roster() {
		tmpl, ok := s.Match().PlayerTemplate(key)
		if !ok {
			continue
		}
		c := color.Color(colorText)
		if s.Gold() < tmpl.Cost {
			c = colorMuted
		}
		segments = append(segments, coloredTextSegment{text: fmt.Sprintf("[%d] %s %dg  ", i+1, tmpl.Name, tmpl.Cost), color: c})
	}
	vector.DrawFilledRect(screen, 0, float32(y-6), float32(screen.Bounds().Dx()), rosterBarY+6, colorPanel, false)
	drawColoredTextSegments(screen, 10, y, segments)
}

func (r *Renderer) drawMessages(screen *ebiten.Image) {
	y := screen.Bounds().Dy() - rosterBarY - 20 - len(r.viewer.messages)*14
	for i, msg := range r.viewer.messages {
		ebitenutil.DebugPrintAt(screen, msg, 10, y+i*14)
	}
}

func (r *Renderer) drawNotice(screen *ebiten.Image) {
	if r.viewer.notice == "" {
		return
	}
	drawTextCentered(screen, r.viewer.notice, screen.Bounds().Dx()/2, 90, colorHighlight)
}

func (r *Renderer) drawUpgradePanel(screen *ebiten.Image) {
	s := r.viewer.session
	options := s.Pending()
	b := screen.Bounds()
	h := 70 + len(options)*upgradeOptionH
	x := (b.Dx() - upgradePanelW) / 2
	y := (b.Dy() - h) / 2

	vector.DrawFilledRect(screen, float32(x), float32(y), upgradePanelW, float32(h), colorPanel, false)
	vector.StrokeRect(screen, float32(x), float32(y), upgradePanelW, float32(h), 2, colorHighlight, false)
	drawTextCentered(screen, fmt.Sprintf("Level Up! Choose an upgrade (level %d)", s.Level()), x+upgradePanelW/2, y+12, colorHighlight)

	for i, opt := range options {
		oy := y + 36 + i*upgradeOptionH
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("[%d] %s", i+1, opt.Name), x+16, oy)
		ebitenutil.DebugPrintAt(screen, opt.Description, x+40, oy+16)
	}
	ebitenutil.DebugPrintAt(screen, "[S] Skip   [R] Reroll", x+16, y+h-22)
}

func (r *Renderer) drawGameOver(screen *ebiten.Image) {
	res := r.viewer.session.Result()
	b := screen.Bounds()
	vector.DrawFilledRect(screen, 0, 0, float32(b.Dx()), float32(b.Dy()), color.RGBA{0, 0, 0, 150}, false)

	title := color.Color(colorEnemy)
	if res.Outcome == game.OutcomeVictory {
		title = colorHealthFront
	}
	cx, cy := b.Dx()/2, b.Dy()/2
	drawTextCentered(screen, outcomeTitle(res.Outcome), cx, cy-40, title)
	drawTextCentered(screen, fmt.Sprintf("Score %d   Level %d   Time %s", res.Score, res.Level, formatClock(res.PlayTime)), cx, cy-10, colorText)
	drawTextCentered(screen, "Press Enter to play again", cx, cy+20, colorMuted)
}

func (r *Renderer) drawDebugOverlay(screen *ebiten.Image) {
	mon := r.viewer.monitor
	if mon == nil {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS %.0f  TPS %.0f", ebiten.ActualFPS(), ebiten.ActualTPS()), 10, 100)
		return
	}
	stats := mon.GetDetailedStats()
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	fmt.Fprintf(&sb, "FPS %.0f  TPS %.0f\n", ebiten.ActualFPS(), ebiten.ActualTPS())
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s: %v\n", k, stats[k])
	}
	for _, alert := range mon.CheckPerformanceAlerts() {
		fmt.Fprintf(&sb, "! %s\n", alert.Message)
	}
	ebitenutil.DebugPrintAt(screen, sb.String(), 10, 100)
}

func teamColor(t monster.Team) color.RGBA {
	if t == monster.TeamPlayer {
		return colorPlayer
	}
	return colorEnemy
}

func towerPlaceholder(team monster.Team) *ebiten.Image {
	img := ebiten.NewImage(towerWidth, towerHeight)
	img.Fill(teamColor(team))
	vector.StrokeRect(img, 1, 1, towerWidth-2, towerHeight-2, 2, colorText, false)
	return img
}

func unitPlaceholder(team monster.Team, radius float32) *ebiten.Image {
	size := int(2*radius) + 2
	img := ebiten.NewImage(size, size)
	vector.DrawFilledCircle(img, float32(size)/2, float32(size)/2, radius, teamColor(team), true)
	return img
}

// drawSprite draws img scaled to w by h and centred on x, y.
func drawSprite(screen, img *ebiten.Image, x, y, w, h float32) {
	b := img.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy()))
	op.GeoM.Translate(float64(x-w/2), float64(y-h/2))
	screen.DrawImage(img, op)
}

// drawHealthBar draws a bar whose filled part is health/maxHealth of width.
func drawHealthBar(screen *ebiten.Image, x, y, width float32, health, maxHealth float64) {
	vector.DrawFilledRect(screen, x, y, width, healthBarH, colorHealthBack, false)
	if fill := healthFraction(health, maxHealth); fill > 0 {
		vector.DrawFilledRect(screen, x, y, width*fill, healthBarH, colorHealthFront, false)
	}
}

func healthFraction(health, maxHealth float64) float32 {
	if maxHealth <= 0 || health <= 0 {
		return 0
	}
	if health >= maxHealth {
		return 1
	}
	return float32(health / maxHealth)
}

type coloredTextSegment struct {
	text  string
	color color.Color
}

func drawColoredTextSegments(screen *ebiten.Image, x, y int, segments []coloredTextSegment) {
	face := basicfont.Face7x13
	baseline := y + face.Ascent
	curX := x
	for _, seg := range segments {
		ebitext.Draw(screen, seg.text, face, curX, baseline, seg.color)
		curX += font.MeasureString(face, seg.text).Round()
	}
}

func drawTextCentered(screen *ebiten.Image, s string, cx, y int, c color.Color) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, s).Round()
	ebitext.Draw(screen, s, face, cx-w/2, y+face.Ascent, c)
}

func drawTextRight(screen *ebiten.Image, s string, right, y int, c color.Color) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, s).Round()
	ebitext.Draw(screen, s, face, right-w, y+face.Ascent, c)
}
