// Package playing provides the interactive sandbox scene.
package playing

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"

	"github.com/younwookim/movingsphere/internal/application/sandbox"
	"github.com/younwookim/movingsphere/internal/application/scene"
	"github.com/younwookim/movingsphere/internal/application/state"
	"github.com/younwookim/movingsphere/internal/application/system"
	"github.com/younwookim/movingsphere/internal/domain/entity"
	"github.com/younwookim/movingsphere/internal/ecs"
	"github.com/younwookim/movingsphere/internal/infrastructure/config"
)

// Colors for rendering
var (
	colorBG       = color.RGBA{26, 26, 46, 255}
	colorGround   = color.RGBA{80, 80, 100, 255}
	colorStairs   = color.RGBA{110, 100, 80, 255}
	colorClimb    = color.RGBA{90, 130, 90, 255}
	colorWater    = color.RGBA{40, 90, 200, 90}
	colorZone     = color.RGBA{220, 200, 60, 255}
	colorAgent    = color.RGBA{100, 200, 100, 255}
	colorVelocity = color.RGBA{255, 255, 255, 200}
	colorNormal   = color.RGBA{255, 120, 120, 255}
	colorTrail    = color.RGBA{255, 255, 255, 60}
)

const (
	trailLength    = 90
	circleSegments = 20
)

// view selects the world plane drawn on screen
type view int

const (
	sideView view = iota // X right, Y up
	topView              // X right, Z up
)

func (v view) String() string {
	if v == topView {
		return "top"
	}
	return "side"
}

// camera maps world coordinates to screen pixels
type camera struct {
	center        mgl64.Vec3
	pixelsPerUnit float64
	screenW       int
	screenH       int
	view          view
}

// toScreen projects a world point onto the screen
func (c camera) toScreen(p mgl64.Vec3) (float64, float64) {
	d := p.Sub(c.center)
	v := d.Y()
	if c.view == topView {
		v = d.Z()
	}
	return float64(c.screenW)/2 + d.X()*c.pixelsPerUnit, float64(c.screenH)/2 - v*c.pixelsPerUnit
}

// Playing is the interactive sandbox scene
type Playing struct {
	config      *config.GameConfig
	stageCfg    *config.StageConfig
	sandbox     *sandbox.Sandbox
	inputSystem *system.InputSystem
	log         *logrus.Entry

	screenW       int
	screenH       int
	pixelsPerUnit float64
	dt            float64

	paused bool
	view   view
	last   system.StepContext
	trail  []mgl64.Vec3

	// colors of platform bodies, by entity
	bodyColors map[ecs.EntityID]color.RGBA
	agentColor color.RGBA

	// Input recording
	recorder       *Recorder
	recordFilename string
}

// New creates a new Playing scene for a stage. If recordPath is not empty,
// every frame of input is recorded and saved there on exit.
func New(cfg *config.GameConfig, stageCfg *config.StageConfig, recordPath string) (*Playing, error) {
	stage, err := system.LoadStage(stageCfg, cfg.Entities, cfg.Physics)
	if err != nil {
		return nil, fmt.Errorf("failed to load stage: %w", err)
	}
	sb, err := sandbox.New(cfg.Physics, stage)
	if err != nil {
		return nil, fmt.Errorf("failed to create sandbox: %w", err)
	}

	display := cfg.Physics.Display
	p := &Playing{
		config:         cfg,
		stageCfg:       stageCfg,
		sandbox:        sb,
		inputSystem:    system.NewInputSystem(cfg.Physics),
		log:            logrus.WithFields(logrus.Fields{"scene": "playing", "stage": stage.ID}),
		screenW:        display.ScreenWidth,
		screenH:        display.ScreenHeight,
		pixelsPerUnit:  display.PixelsPerUnit,
		dt:             cfg.Physics.Physics.FixedStep,
		bodyColors:     platformColors(stageCfg, stage, cfg.Entities),
		agentColor:     parseColor(cfg.Entities.Agent.Color, colorAgent),
		recordFilename: recordPath,
	}
	if p.pixelsPerUnit <= 0 {
		p.pixelsPerUnit = 16
	}

	if recordPath != "" {
		p.recorder = NewRecorder(stageCfg.ID, p.dt)
		p.log.WithField("file", recordPath).Info("recording enabled")
	}
	return p, nil
}

// Update advances the sandbox by one fixed step (implements scene.Scene)
func (p *Playing) Update(_ float64) (scene.Scene, error) {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		p.paused = !p.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		p.view = (p.view + 1) % 2
	}
	if p.paused {
		return nil, nil
	}

	// F5: Save recording manually
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) && p.recorder != nil {
		p.saveRecording()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		p.restart()
		return nil, nil
	}

	input := p.inputSystem.GetInput()
	p.step(input)
	return nil, nil // nil = stay on this scene
}

// step records and applies one frame of input
func (p *Playing) step(input system.InputState) {
	if p.recorder != nil {
		p.recorder.RecordFrame(input)
	}
	p.last = p.sandbox.Tick(p.dt, p.inputSystem.Intent(input))

	p.trail = append(p.trail, p.sandbox.Agent().Position())
	if len(p.trail) > trailLength {
		p.trail = p.trail[len(p.trail)-trailLength:]
	}
}

// saveRecording saves the current recording to file
func (p *Playing) saveRecording() {
	if p.recorder == nil {
		return
	}

	filename := p.recordFilename
	if filename == "" {
		filename = GenerateFilename()
	}

	entry := p.log.WithFields(logrus.Fields{"file": filename, "frames": p.recorder.FrameCount()})
	if err := p.recorder.Save(filename); err != nil {
		entry.WithError(err).Error("failed to save recording")
		return
	}
	entry.Info("recording saved")
}

func (p *Playing) restart() {
	p.sandbox.Reset()
	p.trail = p.trail[:0]
	p.last = system.StepContext{}

	if p.recordFilename != "" {
		p.recorder = NewRecorder(p.stageCfg.ID, p.dt)
		p.log.Info("recording restarted")
	}
}

func (p *Playing) camera() camera {
	return camera{
		center:        p.sandbox.Agent().Position(),
		pixelsPerUnit: p.pixelsPerUnit,
		screenW:       p.screenW,
		screenH:       p.screenH,
		view:          p.view,
	}
}

// Draw renders the sandbox
func (p *Playing) Draw(screen *ebiten.Image) {
	screen.Fill(colorBG)
	cam := p.camera()

	p.drawWorld(screen, cam)
	p.drawTrail(screen, cam)
	p.drawAgent(screen, cam)
	p.drawUI(screen)

	if p.paused {
		p.drawPauseOverlay(screen)
	}
}

func (p *Playing) drawWorld(screen *ebiten.Image, cam camera) {
	w := p.sandbox.World()
	for _, id := range w.Entities() {
		c, ok := w.Collider[id]
		if !ok {
			continue
		}
		tr := w.Transform[id]
		switch {
		case c.Trigger && p.sandbox.OnWaterLayer(c.Layer):
			x0, y0, x1, y1 := boxBounds(cam, tr, c.HalfExtents)
			ebitenutil.DrawRect(screen, x0, y0, x1-x0, y1-y0, colorWater)
		case c.Trigger:
			drawBox(screen, cam, tr, c.HalfExtents, colorZone)
		default:
			clr, ok := p.bodyColors[id]
			if !ok {
				clr = layerColor(c.Layer)
			}
			drawBox(screen, cam, tr, c.HalfExtents, clr)
		}
	}
}

func (p *Playing) drawTrail(screen *ebiten.Image, cam camera) {
	for i := 1; i < len(p.trail); i++ {
		x0, y0 := cam.toScreen(p.trail[i-1])
		x1, y1 := cam.toScreen(p.trail[i])
		ebitenutil.DrawLine(screen, x0, y0, x1, y1, colorTrail)
	}
}

func (p *Playing) drawAgent(screen *ebiten.Image, cam camera) {
	agent := p.sandbox.Agent()
	pos := agent.Position()
	r := agent.Radius() * cam.pixelsPerUnit
	cx, cy := cam.toScreen(pos)

	clr := p.agentColor
	if p.last.State == state.Climbing {
		clr = colorClimb
	}
	for i := 0; i < circleSegments; i++ {
		a0 := 2 * math.Pi * float64(i) / circleSegments
		a1 := 2 * math.Pi * float64(i+1) / circleSegments
		ebitenutil.DrawLine(screen,
			cx+r*math.Cos(a0), cy+r*math.Sin(a0),
			cx+r*math.Cos(a1), cy+r*math.Sin(a1), clr)
	}

	vx, vy := cam.toScreen(pos.Add(agent.Velocity().Mul(0.1)))
	ebitenutil.DrawLine(screen, cx, cy, vx, vy, colorVelocity)

	if p.last.State != state.Airborne && p.last.ContactNormal != (mgl64.Vec3{}) {
		nx, ny := cam.toScreen(pos.Add(p.last.ContactNormal.Mul(agent.Radius() * 1.5)))
		ebitenutil.DrawLine(screen, cx, cy, nx, ny, colorNormal)
	}
}

// hudText formats the agent status shown in the corner of the screen.
func (p *Playing) hudText() string {
	loco := p.sandbox.Locomotion()
	pos := p.sandbox.Agent().Position()
	up := loco.UpAxis()
	hud := fmt.Sprintf(
		"%s  step %d  view %s\npos %.2f %.2f %.2f  up %.2f %.2f %.2f\nspeed %.2f  submerged %.2f  jumps %d",
		loco.State(), p.sandbox.Steps(), p.view,
		pos.X(), pos.Y(), pos.Z(), up.X(), up.Y(), up.Z(),
		p.last.Velocity.Len(), p.last.Submergence, loco.JumpPhase(),
	)
	if p.recorder != nil {
		hud += fmt.Sprintf("\nREC %d", p.recorder.FrameCount())
	}
	return hud
}

func (p *Playing) drawUI(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, p.hudText(), 10, p.screenH-60)

	// Controls
	debugText := "WASD: Move | Space: Jump | Shift: Climb | Q/E: Dive | Tab: View | R: Reset | ESC: Pause"
	ebitenutil.DebugPrint(screen, debugText)
}

func (p *Playing) drawPauseOverlay(screen *ebiten.Image) {
	// Semi-transparent overlay
	overlay := color.RGBA{0, 0, 0, 128}
	ebitenutil.DrawRect(screen, 0, 0, float64(p.screenW), float64(p.screenH), overlay)

	text := "PAUSED\n\nPress ESC to resume"
	ebitenutil.DebugPrintAt(screen, text, p.screenW/2-50, p.screenH/2-20)
}

// drawBox outlines the box section through its center in the view plane
func drawBox(screen *ebiten.Image, cam camera, tr ecs.Transform, half mgl64.Vec3, clr color.Color) {
	corners := boxOutline(cam, tr, half)
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		ebitenutil.DrawLine(screen, a[0], a[1], b[0], b[1], clr)
	}
}

// boxOutline returns the screen corners of the box section in the view plane
func boxOutline(cam camera, tr ecs.Transform, half mgl64.Vec3) [4][2]float64 {
	signs := [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	var out [4][2]float64
	for i, s := range signs {
		local := mgl64.Vec3{s[0] * half.X(), s[1] * half.Y(), 0}
		if cam.view == topView {
			local = mgl64.Vec3{s[0] * half.X(), 0, s[1] * half.Z()}
		}
		out[i][0], out[i][1] = cam.toScreen(tr.TransformPoint(local))
	}
	return out
}

// boxBounds returns the screen rectangle enclosing the box outline
func boxBounds(cam camera, tr ecs.Transform, half mgl64.Vec3) (x0, y0, x1, y1 float64) {
	corners := boxOutline(cam, tr, half)
	x0, y0 = math.Inf(1), math.Inf(1)
	x1, y1 = math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		x0, x1 = math.Min(x0, c[0]), math.Max(x1, c[0])
		y0, y1 = math.Min(y0, c[1]), math.Max(y1, c[1])
	}
	return x0, y0, x1, y1
}

func layerColor(layer entity.Layer) color.RGBA {
	switch layer {
	case entity.LayerStairs:
		return colorStairs
	case entity.LayerClimb:
		return colorClimb
	}
	return colorGround
}

// platformColors maps platform boxes to the color of their template
func platformColors(cfg *config.StageConfig, stage *system.Stage, entities *config.EntitiesConfig) map[ecs.EntityID]color.RGBA {
	byName := make(map[string]string, len(cfg.Boxes))
	for _, b := range cfg.Boxes {
		if b.Platform != "" {
			byName[b.Name] = b.Platform
		}
	}
	colors := make(map[ecs.EntityID]color.RGBA)
	for id, name := range stage.Names {
		platform, ok := byName[name]
		if !ok {
			continue
		}
		colors[id] = parseColor(entities.Platforms[platform].Color, colorGround)
	}
	return colors
}

// parseColor parses a "#rrggbb" color, returning fallback when s is malformed
func parseColor(s string, fallback color.RGBA) color.RGBA {
	var r, g, b uint8
	if len(s) != 7 {
		return fallback
	}
	if n, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil || n != 3 {
		return fallback
	}
	return color.RGBA{r, g, b, 255}
}

// OnEnter is called when entering this scene
func (p *Playing) OnEnter() {
	p.log.Debug("entered")
}

// OnExit is called when leaving this scene
func (p *Playing) OnExit() {
	p.saveRecording()
}

// Layout returns the scene's logical screen size (implements scene.Layouter)
func (p *Playing) Layout(outsideWidth, outsideHeight int) (int, int) {
	return p.screenW, p.screenH
}

// Sandbox returns the sandbox driven by the scene
func (p *Playing) Sandbox() *sandbox.Sandbox {
	return p.sandbox
}
