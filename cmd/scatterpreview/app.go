package main

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/physical-layout/internal/config"
	"github.com/Faultbox/physical-layout/internal/logger"
	"github.com/Faultbox/physical-layout/internal/preview"
	"github.com/Faultbox/physical-layout/pkg/accel"
	"github.com/Faultbox/physical-layout/pkg/geometry"
	"github.com/Faultbox/physical-layout/pkg/instancer"
	"github.com/Faultbox/physical-layout/pkg/math"
	"github.com/Faultbox/physical-layout/pkg/transform"
)

// ghost is the uncommitted placement under the cursor.
type ghost struct {
	id     int
	sample transform.Sample
	height float32
	hit    transform.Hit
	onHit  bool
}

type app struct {
	cfg *config.Config
	log *zap.Logger

	window   *preview.Window
	renderer *preview.Renderer
	input    *preview.Input
	camera   *preview.OrbitCamera

	acc     accel.Accelerator
	handle  accel.Handle
	manager *instancer.Manager
	sampler *transform.Sampler
	bounds  geometry.Bounds

	ghost    ghost
	dragging bool

	shots *preview.Screenshots
	// opened receives scene paths picked in the file dialog.
	opened chan string
}

func newApp(cfg *config.Config) (*app, error) {
	a := &app{
		cfg:     cfg,
		log:     logger.Named("preview"),
		input:   preview.NewInput(),
		camera:  preview.NewOrbitCamera(cfg.Preview.GroundSize * 1.5),
		sampler: cfg.Sampling.Sampler(),
		shots:   preview.NewScreenshots(cfg.Preview.ScreenshotDir, "scatter"),
		opened:  make(chan string, 1),
	}

	var err error
	a.window, err = preview.NewWindow(preview.WindowConfig{
		Title:  "Scatter Preview",
		Width:  cfg.Preview.Width,
		Height: cfg.Preview.Height,
		VSync:  cfg.Preview.VSync,
	}, logger.Named("window"))
	if err != nil {
		return nil, err
	}

	a.renderer, err = preview.NewRenderer(logger.Named("renderer"))
	if err != nil {
		a.window.Close()
		return nil, err
	}

	if err := a.setupScene(); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) setupScene() error {
	a.acc = accel.Select(a.cfg.Accelerator.Options(a.cfg.Sampling), logger.Named("accel"))

	marker, err := a.acc.CircleMarker(a.cfg.Marker.Radius, a.cfg.Marker.Segments)
	if err != nil {
		return fmt.Errorf("marker: %w", err)
	}
	a.renderer.SetMarker(marker)
	a.renderer.SetGround(a.cfg.Preview.GroundSize, int(a.cfg.Preview.GroundSize)*2)

	master, err := geometry.PrepareMasterMeshData(rockPositions, rockUVs, rockIndices)
	if err != nil {
		return fmt.Errorf("master mesh: %w", err)
	}
	a.bounds = master.Bounds()

	buf := instancer.NewGLBuffer(a.cfg.Instancer.InitialCapacity)
	a.handle = a.acc.NewInstancer(a.cfg.Instancer.ShaderName, buf)
	a.manager, err = a.acc.Instancer(a.handle)
	if err != nil {
		return err
	}
	if err := a.manager.SetupMasterMesh(master, a.cfg.Preview.Instances+1); err != nil {
		return err
	}
	a.renderer.SetMasterMesh(master, buf)

	return a.scatter()
}

// scatter replaces every instance with a freshly sampled field and a new
// ghost. The field goes through the batch path: list first, one upload.
func (a *app) scatter() error {
	if err := a.manager.ClearInstances(); err != nil {
		return err
	}
	half := a.cfg.Preview.GroundSize
	for i := 0; i < a.cfg.Preview.Instances; i++ {
		p := math.Vec3{X: a.sampler.Uniform(-half, half), Y: a.sampler.Uniform(-half, half)}
		m := a.sampler.Place(preview.GroundHit(p), a.cfg.Transform, a.cfg.Placement)
		a.manager.AddInstance(a.land(m, p.Z))
	}
	if err := a.manager.UploadTransforms(); err != nil {
		return err
	}
	a.log.Info("scattered", zap.Int("instances", a.cfg.Preview.Instances))
	return a.newGhost()
}

// land rests the mesh bounds on the surface at surfaceZ and converts m to
// the row-major layout the instance buffer holds.
func (a *app) land(m math.Mat4, surfaceZ float32) instancer.Matrix {
	m[14] = transform.LandingPivotZ(surfaceZ, transform.MinLocalZ(m, a.bounds), a.cfg.Placement.LandingZCorrection) + m[14] - surfaceZ
	return m.RowMajor()
}

func (a *app) newGhost() error {
	a.ghost.sample = a.sampler.Sample(a.cfg.Transform)
	a.ghost.height = a.sampler.Uniform(a.cfg.Placement.HeightMin, a.cfg.Placement.HeightMax)
	id, err := a.manager.AddInstanceOnGPU(a.ghostMatrix())
	if err != nil {
		return err
	}
	a.ghost.id = id
	a.manager.SetGhostMode(true, id)
	return nil
}

func (a *app) ghostMatrix() instancer.Matrix {
	m := transform.Compose(transform.Input{
		Hit:          a.ghost.hit,
		Sample:       a.ghost.sample,
		HeightOffset: a.ghost.height,
		Placement:    a.cfg.Placement,
	})
	return a.land(m, a.ghost.hit.Location.Z)
}

// commit keeps the ghost where it is and starts a new one.
func (a *app) commit() error {
	if enabled, _ := a.manager.Ghost(); !enabled || !a.ghost.onHit {
		return nil
	}
	a.log.Debug("placed", zap.Int("id", a.ghost.id),
		zap.Float32("x", a.ghost.hit.Location.X), zap.Float32("y", a.ghost.hit.Location.Y))
	return a.newGhost()
}

func (a *app) moveGhost(x, y int) error {
	w, h := a.window.Size()
	view, proj := a.camera.ViewMatrix(), a.camera.ProjectionMatrix(w, h)
	ray := preview.ScreenToRay(float32(x), float32(y), float32(w), float32(h), proj.Mul(view).Inverse())

	p, ok := ray.IntersectGround(0)
	a.ghost.onHit = ok
	if !ok {
		return nil
	}
	a.ghost.hit = preview.GroundHit(p)
	if enabled, _ := a.manager.Ghost(); !enabled {
		return nil
	}
	return a.manager.UpdateSingleInstanceOnGPU(a.ghost.id, a.ghostMatrix())
}

func (a *app) toggleGhost() {
	enabled, _ := a.manager.Ghost()
	if enabled {
		a.manager.SetGhostMode(false, instancer.NoGhost)
		return
	}
	a.manager.SetGhostMode(true, a.ghost.id)
}

func (a *app) handleEvents() (quit bool, err error) {
	if a.input.Update() {
		return true, nil
	}
	for _, e := range a.input.Events() {
		switch e.Type {
		case preview.EventKeyDown:
			switch e.Key {
			case sdl.SCANCODE_ESCAPE:
				return true, nil
			case sdl.SCANCODE_R:
				err = a.scatter()
			case sdl.SCANCODE_C:
				if err = a.manager.ClearInstances(); err == nil {
					err = a.newGhost()
				}
			case sdl.SCANCODE_G:
				a.toggleGhost()
			case sdl.SCANCODE_O:
				a.openDialog()
			case sdl.SCANCODE_P:
				a.screenshot()
			}
		case preview.EventMouseDown:
			switch e.Button {
			case sdl.BUTTON_LEFT:
				err = a.commit()
			case sdl.BUTTON_RIGHT:
				a.dragging = true
			}
		case preview.EventMouseUp:
			if e.Button == sdl.BUTTON_RIGHT {
				a.dragging = false
			}
		case preview.EventMouseMove:
			if a.dragging {
				a.camera.HandleDrag(float32(e.RelX), float32(e.RelY))
			}
			err = a.moveGhost(e.MouseX, e.MouseY)
		case preview.EventMouseWheel:
			a.camera.HandleZoom(e.Wheel)
		}
		if err != nil {
			return false, err
		}
	}
	return false, nil
}

func (a *app) run() error {
	shown := -1
	for {
		quit, err := a.handleEvents()
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
		select {
		case path := <-a.opened:
			if err := a.loadScene(path); err != nil {
				a.log.Warn("opening scene", zap.String("path", path), zap.Error(err))
			}
		default:
		}

		w, h := a.window.Size()
		view, proj := a.camera.ViewMatrix(), a.camera.ProjectionMatrix(w, h)

		a.renderer.Begin(w, h)
		a.renderer.DrawGround(view, proj)
		if err := a.renderer.DrawInstances(a.manager, view, proj); err != nil {
			return err
		}
		if a.ghost.onHit {
			p := a.ghost.hit.Location
			a.renderer.DrawMarker(math.Translate(p.X, p.Y, p.Z+0.002), view, proj, a.cfg.Marker.Color)
		}
		a.window.SwapBuffers()

		if n := a.manager.InstanceCount(); n != shown {
			shown = n
			a.window.SetTitle(fmt.Sprintf("Scatter Preview - %d instances (%s)", n, a.acc.Name()))
		}
	}
}

func (a *app) close() {
	if a.manager != nil {
		if err := a.acc.ReleaseInstancer(a.handle); err != nil {
			a.log.Warn("releasing instancer", zap.Error(err))
		}
	}
	if a.acc != nil {
		if err := a.acc.Close(); err != nil {
			a.log.Warn("closing accelerator", zap.Error(err))
		}
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
