// fisheye - fly through a wireframe world in your terminal, rendered
// with a spherical (angle-preserving) projection: screen distance from
// the crosshair is proportional to viewing angle, so the full sphere is
// visible at once — the outer HUD ring is the point directly behind you.
//
// Controls:
//
//	W/S         - Pitch down/up
//	A/D         - Roll left/right
//	Space/C     - Decelerate/accelerate
//	X           - Kill velocity
//	H           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/fisheye/pkg/math3d"
	"github.com/taigrr/fisheye/pkg/models"
	"github.com/taigrr/fisheye/pkg/render"
)

var (
	targetFPS = flag.Int("fps", 60, "Target FPS")
	bgColor   = flag.String("bg", "0,0,0", "Background color (R,G,B)")
	scaleFlag = flag.Float64("scale", 0, "Pixels per radian of view angle (0 = fit 180° ring to screen)")
	resFlag   = flag.Float64("res", render.DefaultResolution, "Curve subdivision resolution in pixels")
	splitFlag = flag.Int("split", render.DefaultMaxSplit, "Maximum curve subdivision depth")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "fisheye - spherical-projection terminal flight\n\n")
		fmt.Fprintf(os.Stderr, "Usage: fisheye [options] [model.obj|model.glb]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  W/S      - Pitch down/up\n")
		fmt.Fprintf(os.Stderr, "  A/D      - Roll left/right\n")
		fmt.Fprintf(os.Stderr, "  Space/C  - Decelerate/accelerate\n")
		fmt.Fprintf(os.Stderr, "  X        - Kill velocity\n")
		fmt.Fprintf(os.Stderr, "  H        - Toggle HUD\n")
		fmt.Fprintf(os.Stderr, "  Esc      - Quit\n")
	}
	flag.Parse()

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// ControlAxis animates a control rate toward its held target with a
// critically damped spring, so taps and holds both feel smooth.
type ControlAxis struct {
	Value  float64
	target float64
	spring harmonica.Spring
	vel    float64
}

// NewControlAxis creates an axis smoothed for the given frame rate.
func NewControlAxis(fps int) ControlAxis {
	return ControlAxis{
		// Frequency 6.0 = snappy, damping 1.0 = critically damped (no overshoot)
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// Set sets the target rate the axis settles toward.
func (a *ControlAxis) Set(target float64) {
	a.target = target
}

// Update advances the spring one frame.
func (a *ControlAxis) Update() {
	a.Value, a.vel = a.spring.Update(a.Value, a.vel, a.target)
}

// Controls holds the smoothed flight inputs.
type Controls struct {
	Pitch    ControlAxis // rad/s around the camera's right axis
	Roll     ControlAxis // rad/s around the camera's forward axis
	Throttle ControlAxis // forward acceleration, units/s²
}

func NewControls(fps int) *Controls {
	return &Controls{
		Pitch:    NewControlAxis(fps),
		Roll:     NewControlAxis(fps),
		Throttle: NewControlAxis(fps),
	}
}

func (c *Controls) Update() {
	c.Pitch.Update()
	c.Roll.Update()
	c.Throttle.Update()
}

const (
	controlMagnitude = 1.0  // rad/s of pitch/roll at full deflection
	acceleration     = 40.0 // units/s² of throttle
	initialVelocity  = 20.0
	boostFactor      = 4.0 // exit-boost multiple of acceleration
)

// cubeSide is the edge length of the scene cuboid.
const cubeSide = 100.0

// insideCube reports whether a world point is inside the posed cuboid.
func insideCube(pose math3d.Pose, p math3d.Vec3) bool {
	local := pose.Orientation.Inverse().Rotate(p.Sub(pose.Position))
	const half = cubeSide / 2
	return math.Abs(local.X) < half && math.Abs(local.Y) < half && math.Abs(local.Z) < half
}

// drawHUD draws the crosshair and the angular-distance rings: the inner
// ring is 90° off axis, the outer ring is 180° — the antipode of the
// look direction.
func drawHUD(fb *render.Framebuffer, scale float64) {
	cx, cy := fb.Width/2, fb.Height/2

	fb.DrawLine(cx, cy-5, cx, cy+5, render.ColorBlue)
	fb.DrawLine(cx-5, cy, cx+5, cy, render.ColorBlue)

	drawCircle(fb, cx, cy, scale*math.Pi/2, render.ColorBlue)
	drawCircle(fb, cx, cy, scale*math.Pi, render.ColorBlue)
}

// drawCircle approximates a circle with line segments.
func drawCircle(fb *render.Framebuffer, cx, cy int, radius float64, c render.Color) {
	const segments = 64
	px := cx + int(radius)
	py := cy
	for i := 1; i <= segments; i++ {
		angle := 2 * math.Pi * float64(i) / segments
		x := cx + int(radius*math.Cos(angle))
		y := cy + int(radius*math.Sin(angle))
		fb.DrawLine(px, py, x, y, c)
		px, py = x, y
	}
}

func loadModel(path string) (*models.Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".glb", ".gltf":
		return models.LoadGLB(path)
	case ".obj":
		return models.LoadOBJ(path)
	default:
		return nil, fmt.Errorf("unsupported format: %s (use .obj or .glb)", ext)
	}
}

func run(modelPath string) error {
	// Parse background color
	var bgR, bgG, bgB uint8
	fmt.Sscanf(*bgColor, "%d,%d,%d", &bgR, &bgG, &bgB)

	// Scene: either a loaded model or the flight cuboid. The cuboid is
	// built twice so the walls can change color while the camera is
	// inside without touching mesh data mid-frame.
	pose := math3d.Pose{
		Position:    math3d.Zero3(),
		Orientation: math3d.AxisAngle(math3d.V3(1, 1, 1), math.Pi/4),
	}
	var scene, sceneInside *models.Mesh
	if modelPath != "" {
		mesh, err := loadModel(modelPath)
		if err != nil {
			return fmt.Errorf("load model: %w", err)
		}
		mesh.Transform(mesh.FitTransform(cubeSide))
		fmt.Printf("Loaded: %s (%d vertices, %d edges, %d faces)\n",
			filepath.Base(modelPath), mesh.VertexCount(), mesh.EdgeCount(), mesh.FaceCount())
		scene = mesh
		sceneInside = mesh
		pose = math3d.IdentityPose()
	} else {
		size := math3d.V3(cubeSide, cubeSide, cubeSide)
		scene = models.Cuboid(size, render.ColorPurple)
		sceneInside = models.Cuboid(size, render.ColorSteel)
	}

	// Create terminal
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()
	fb := render.NewFramebuffer(fbWidth, fbHeight)

	// Fit the 180° ring to the screen unless overridden
	scale := *scaleFlag
	if scale == 0 {
		scale = float64(min(fbWidth, fbHeight)) / (2 * math.Pi)
	}

	camera := render.NewCamera(scale)
	camera.Position = math3d.V3(50, 50, 50)

	renderer := render.NewRenderer(camera, fb)
	renderer.Resolution = *resFlag
	renderer.MaxSplit = *splitFlag

	controls := NewControls(*targetFPS)
	velocity := initialVelocity
	drawHud := true
	inCube := false

	// Context for clean shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	stopVelocity := make(chan struct{}, 1)

	// Event handler
	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				termRenderer = render.NewTerminalRenderer(term, width, height)
				fbWidth, fbHeight = termRenderer.FramebufferSize()
				fb = render.NewFramebuffer(fbWidth, fbHeight)
				renderer = render.NewRenderer(camera, fb)
				renderer.Resolution = *resFlag
				renderer.MaxSplit = *splitFlag
				if *scaleFlag == 0 {
					camera.Scale = float64(min(fbWidth, fbHeight)) / (2 * math.Pi)
				}

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("w", "up"):
					controls.Pitch.Set(-controlMagnitude)
				case ev.MatchString("s", "down"):
					controls.Pitch.Set(controlMagnitude)
				case ev.MatchString("d", "right"):
					controls.Roll.Set(-controlMagnitude)
				case ev.MatchString("a", "left"):
					controls.Roll.Set(controlMagnitude)
				case ev.MatchString("space"):
					controls.Throttle.Set(-acceleration)
				case ev.MatchString("c"):
					controls.Throttle.Set(acceleration)
				case ev.MatchString("x"):
					select {
					case stopVelocity <- struct{}{}:
					default:
					}
				case ev.MatchString("h"):
					drawHud = !drawHud
				}

			case uv.KeyReleaseEvent:
				switch {
				case ev.MatchString("w"), ev.MatchString("up"), ev.MatchString("s"), ev.MatchString("down"):
					controls.Pitch.Set(0)
				case ev.MatchString("a"), ev.MatchString("left"), ev.MatchString("d"), ev.MatchString("right"):
					controls.Roll.Set(0)
				case ev.MatchString("space"), ev.MatchString("c"):
					controls.Throttle.Set(0)
				}
			}
		}
	}()

	// Main loop
	targetDuration := time.Second / time.Duration(*targetFPS)
	lastFrame := time.Now()

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now

		if dt > 0.1 {
			dt = 0.1
		}

		// Update: controls, then explicit-Euler camera physics. The
		// camera is mutated only here; the render below treats it as a
		// frozen snapshot.
		controls.Update()

		camera.Pitch(controls.Pitch.Value * dt)
		// rotate around the new forward vector to keep the axes orthogonal
		camera.Roll(controls.Roll.Value * dt)
		camera.Renormalize()

		select {
		case <-stopVelocity:
			velocity = 0
		default:
		}

		velocity += controls.Throttle.Value * dt
		camera.MoveForward(velocity * dt)

		wasInside := inCube
		inCube = insideCube(pose, camera.Position)
		if wasInside && !inCube {
			// punch through a wall and get launched
			velocity += acceleration * boostFactor
		}

		// Render
		fb.Clear(render.RGB(bgR, bgG, bgB))
		renderer.ResetStats()

		mesh := scene
		if inCube {
			mesh = sceneInside
		}
		renderer.DrawMesh(mesh, pose)

		if drawHud {
			drawHUD(fb, camera.Scale)
		}

		termRenderer.Render(fb)
		if err := termRenderer.Flush(); err != nil {
			cleanup()
			return fmt.Errorf("flush: %w", err)
		}

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
