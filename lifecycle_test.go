package orrery

import (
	"context"
	"errors"
	"testing"
)

func TestLifecycleStateString(t *testing.T) {
	cases := map[LifecycleState]string{
		StateActive:        "active",
		StateStopping:      "stopping",
		StateStopped:       "stopped",
		LifecycleState(42): "LifecycleState(42)",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func TestMountStartsLoopAndListener(t *testing.T) {
	e, host := mountManual(t, MountConfig{})
	if e.State() != StateActive {
		t.Errorf("state = %v, want active", e.State())
	}
	if host.PendingFrames() != 1 {
		t.Errorf("pending = %d, want 1", host.PendingFrames())
	}
	if host.Listeners() != 1 {
		t.Errorf("listeners = %d, want 1", host.Listeners())
	}
	if e.Session().Scene().ObjectByName(PlanetsGroupName) == nil {
		t.Error("planets group missing")
	}
}

func TestMountErrors(t *testing.T) {
	if _, err := Mount(context.Background(), MountConfig{}); !errors.Is(err, ErrNilHost) {
		t.Errorf("no host: err = %v, want ErrNilHost", err)
	}

	// A host that is not also a Canvas needs an explicit canvas.
	bare := struct{ Host }{NewManualHost(10, 10)}
	if _, err := Mount(context.Background(), MountConfig{Host: bare}); !errors.Is(err, ErrNilCanvas) {
		t.Errorf("no canvas: err = %v, want ErrNilCanvas", err)
	}

	bad := []CelestialBody{{Name: "X", Radius: 0}}
	if _, err := Mount(context.Background(), MountConfig{Host: NewManualHost(10, 10), Catalog: bad}); !errors.Is(err, ErrInvalidCatalog) {
		t.Errorf("bad catalog: err = %v, want ErrInvalidCatalog", err)
	}
}

func TestMountAdvancesSessionContext(t *testing.T) {
	sc := &SessionContext{}
	host := NewManualHost(100, 100)

	first, err := Mount(context.Background(), MountConfig{Host: host, Session: sc})
	if err != nil {
		t.Fatal(err)
	}
	if !sc.IsInitialized || sc.Generation != 1 || sc.Reloaded() {
		t.Errorf("after first mount: %+v", *sc)
	}
	first.Teardown()

	second, err := Mount(context.Background(), MountConfig{Host: host, Session: sc})
	if err != nil {
		t.Fatal(err)
	}
	defer second.Teardown()
	if second.Generation() != 2 || !sc.Reloaded() {
		t.Errorf("generation = %d, reloaded = %v", second.Generation(), sc.Reloaded())
	}
}

func TestStopHaltsLoopAndListeners(t *testing.T) {
	e, host := mountManual(t, MountConfig{})
	host.Step(16)

	e.Stop()

	if e.State() != StateStopped {
		t.Errorf("state = %v, want stopped", e.State())
	}
	if host.PendingFrames() != 0 {
		t.Errorf("pending = %d, want 0", host.PendingFrames())
	}
	if host.Listeners() != 0 {
		t.Errorf("listeners = %d, want 0", host.Listeners())
	}
	if ran := host.Step(32); ran != 0 {
		t.Errorf("ran %d callbacks after stop", ran)
	}
	e.Stop()
}

func TestStopInsideFrameFinishesFrame(t *testing.T) {
	var e *Engine
	var during LifecycleState
	stopNow := false
	e, host := mountManual(t, MountConfig{OnDelta: func(float64) {
		if stopNow {
			e.Stop()
			during = e.State()
		}
	}})

	host.Step(16)
	stopNow = true
	host.Step(32)

	if during != StateStopping {
		t.Errorf("state inside frame = %v, want stopping", during)
	}
	if e.State() != StateStopped {
		t.Errorf("state after frame = %v, want stopped", e.State())
	}
	if got := headless(e).Frames(); got != 2 {
		t.Errorf("in-flight frame should complete: rendered %d, want 2", got)
	}
	if host.PendingFrames() != 0 {
		t.Error("stopped loop must not reschedule")
	}
}

func TestParentContextCancelStopsAtNextFrame(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	host := NewManualHost(100, 100)
	e, err := Mount(ctx, MountConfig{Host: host})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Teardown()

	cancel()
	if host.Listeners() != 0 {
		t.Error("resize listener should follow the parent context")
	}
	host.Step(16)

	if e.State() != StateStopped {
		t.Errorf("state = %v, want stopped", e.State())
	}
	if headless(e).Frames() != 0 {
		t.Error("no frame should render after cancel")
	}
	if host.PendingFrames() != 0 {
		t.Error("no frame should be rescheduled")
	}
}

func TestResizeUpdatesCameraAndRenderer(t *testing.T) {
	e, host := mountManual(t, MountConfig{})
	cam := e.Session().Camera()

	cases := []struct {
		w, h   int
		aspect float64
	}{
		{1920, 1080, 1920.0 / 1080.0},
		{800, 600, 800.0 / 600.0},
		{333, 777, 333.0 / 777.0},
	}
	for _, c := range cases {
		host.Resize(c.w, c.h)
		assertNear(t, "aspect", cam.Aspect, c.aspect)
		if w, h := e.Session().Renderer().Size(); w != c.w || h != c.h {
			t.Errorf("renderer size = %dx%d, want %dx%d", w, h, c.w, c.h)
		}
	}
	assertNear(t, "16:9", 1920.0/1080.0, 1.7777777777777777)
}

func TestResizeProjectionFollowsAspect(t *testing.T) {
	e, host := mountManual(t, MountConfig{})
	cam := e.Session().Camera()
	before := cam.ProjectionMatrix()
	host.Resize(1920, 1080)
	if cam.ProjectionMatrix() == before {
		t.Error("projection matrix should be recomputed on resize")
	}
}

func TestTeardownReleasesEverything(t *testing.T) {
	loader := &recordingLoader{}
	bg := &CubeTexture{}
	for i := range bg.Faces {
		bg.Faces[i] = NewTexture(SkyboxFaces[i], nil)
	}
	e, host := mountManual(t, MountConfig{Loader: loader, Background: bg})
	host.Step(16)

	scene := e.Session().Scene()
	var meshes []*Mesh
	var lights []*PointLight
	var ambients []*AmbientLight
	var helpers []*AxesHelper
	scene.Traverse(func(n *Node) {
		switch o := n.Object.(type) {
		case *Mesh:
			meshes = append(meshes, o)
		case *PointLight:
			lights = append(lights, o)
		case *AmbientLight:
			ambients = append(ambients, o)
		case *AxesHelper:
			helpers = append(helpers, o)
		}
	})
	controls := e.Session().Controls()
	renderer := headless(e)

	e.Teardown()

	for _, m := range meshes {
		if !m.Geometry.IsDisposed() {
			t.Error("geometry not released")
		}
		for _, mat := range m.Materials {
			if !mat.IsDisposed() || (mat.Map != nil && !mat.Map.IsDisposed()) {
				t.Error("material or map not released")
			}
		}
	}
	if !lights[0].IsDisposed() || !ambients[0].IsDisposed() || !helpers[0].IsDisposed() {
		t.Error("lights and helper not released")
	}
	if !bg.IsDisposed() || !bg.Faces[CubeNegZ].IsDisposed() {
		t.Error("background not released")
	}
	if !controls.IsDisposed() || !renderer.IsDisposed() {
		t.Error("controls and renderer not disposed")
	}

	// shared geometry + 8 materials with maps + 3 lights/helpers + cube and faces
	if want := 1 + 8*2 + 3 + 7; e.Released() != want {
		t.Errorf("released = %d, want %d", e.Released(), want)
	}
}

func TestTeardownIdempotent(t *testing.T) {
	e, host := mountManual(t, MountConfig{Loader: &recordingLoader{}})
	host.Step(16)

	e.Teardown()
	released := e.Released()
	e.Teardown()

	if !e.TornDown() {
		t.Error("engine should be torn down")
	}
	if e.Released() != released {
		t.Errorf("second teardown released %d more", e.Released()-released)
	}
	if e.Session().Scene() != nil || e.Session().Camera() != nil {
		t.Error("session references should be cleared")
	}
}

func TestTeardownLeavesNoListeners(t *testing.T) {
	e, host := mountManual(t, MountConfig{})
	cam := e.Session().Camera()
	aspect := cam.Aspect

	e.Teardown()

	if host.Listeners() != 0 {
		t.Errorf("listeners = %d, want 0", host.Listeners())
	}
	host.Resize(1920, 1080)
	if cam.Aspect != aspect {
		t.Error("resize reached a torn-down camera")
	}
}

func TestTeardownInsideFrameRunsAfterFrame(t *testing.T) {
	var e *Engine
	var tornDuring bool
	tear := false
	e, host := mountManual(t, MountConfig{OnDelta: func(float64) {
		if tear {
			e.Teardown()
			tornDuring = e.TornDown()
		}
	}})
	host.Step(16)
	tear = true
	host.Step(32)

	if tornDuring {
		t.Error("teardown must not run while the frame is in flight")
	}
	if !e.TornDown() {
		t.Error("teardown should run once the frame finishes")
	}
	if host.PendingFrames() != 0 {
		t.Error("no frame should be pending")
	}
}

func TestEndToEndTwoBodies(t *testing.T) {
	cat := twoBodies()
	e, host := mountManual(t, MountConfig{Catalog: cat})
	planets := e.Session().Scene().ObjectByName(PlanetsGroupName)

	for i := 1; i <= 100; i++ {
		host.Step(float64(i) * 16)
	}

	for _, body := range cat {
		n := planets.FindByName(body.Name)
		assertAngle(t, body.Name, n.Rotation.Y, 100*0.016*body.AngularSpeed)
	}

	e.Teardown()

	if e.Session().Scene() != nil {
		t.Fatal("scene reference should be nil after teardown")
	}
	if planets.Parent != nil || !planets.IsDisposed() {
		t.Error("planets group should be detached and disposed")
	}
}
