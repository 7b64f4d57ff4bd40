package engine_test

import (
	"errors"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/san-kum/solarsim/internal/bodies"
	"github.com/san-kum/solarsim/internal/camera"
	"github.com/san-kum/solarsim/internal/engine"
	"github.com/san-kum/solarsim/internal/picking"
	"github.com/san-kum/solarsim/internal/scene"
	"github.com/san-kum/solarsim/internal/telemetry"
)

var _ = Describe("Engine", func() {
	var (
		eng      *engine.Engine
		hub      *engine.Hub
		sched    *engine.ManualScheduler
		layer    *scene.LabelLayer
		renderer *engine.NopRenderer
		metrics  *telemetry.Metrics
		t0       time.Time
	)

	at := func(ms int) time.Time { return t0.Add(time.Duration(ms) * time.Millisecond) }

	orbit := func(name string) float64 {
		b, ok := eng.World().Body(name)
		Expect(ok).To(BeTrue(), name)
		return b.OrbitAngle()
	}

	spin := func(name string) float64 {
		b, _ := eng.World().Body(name)
		return b.SpinAngle()
	}

	screenOf := func(name string) (float64, float64) {
		b, _ := eng.World().Body(name)
		r := picking.Resolver{Camera: eng.Camera(), Viewport: eng.Viewport()}
		x, y, ok := r.Project(b.WorldPosition())
		Expect(ok).To(BeTrue())
		return x, y
	}

	BeforeEach(func() {
		var err error
		hub = engine.NewHub(800, 600)
		sched = &engine.ManualScheduler{}
		layer = scene.NewLabelLayer()
		renderer = &engine.NopRenderer{}
		metrics, err = telemetry.New(prometheus.NewRegistry())
		Expect(err).NotTo(HaveOccurred())
		t0 = time.Unix(1_700_000_000, 0)

		eng = engine.New(
			engine.WithSurface(hub),
			engine.WithScheduler(sched),
			engine.WithOverlay(layer),
			engine.WithRenderer(renderer),
			engine.WithMetrics(metrics),
			engine.WithSceneOptions(scene.Options{StarCount: 50, StarSpread: 2000, Seed: 3}),
		)
		Expect(eng.Init()).To(Succeed())
	})

	AfterEach(func() {
		eng.Dispose()
	})

	Describe("Init", func() {
		It("builds one instance and one hidden label per body", func() {
			Expect(eng.World().Bodies).To(HaveLen(bodies.Len()))
			Expect(layer.Len()).To(Equal(bodies.Len()))
			Expect(layer.Visible()).To(BeEmpty())
		})

		It("starts running, free, with labels on and every speed at 1", func() {
			st := eng.Status()
			Expect(st.Paused).To(BeFalse())
			Expect(st.Mode).To(Equal(camera.ModeFree))
			Expect(st.FollowTarget).To(BeEmpty())
			Expect(st.ShowLabels).To(BeTrue())
			for _, name := range bodies.Names() {
				Expect(eng.PlanetSpeed(name)).To(Equal(1.0))
			}
		})

		It("takes the viewport from the surface and requests a frame", func() {
			Expect(eng.Viewport()).To(Equal(picking.Viewport{Width: 800, Height: 600}))
			Expect(hub.Listeners()).To(Equal(1))
			Expect(sched.Pending()).To(BeTrue())
		})

		It("refuses a second Init", func() {
			Expect(errors.Is(eng.Init(), engine.ErrAlreadyInitialized)).To(BeTrue())
			Expect(hub.Listeners()).To(Equal(1))
		})

		It("fails on an empty body table", func() {
			e := engine.New(engine.WithBodies(nil))
			Expect(e.Init()).To(MatchError(scene.ErrNoBodies))
		})

		It("leaves no labels behind when the scene cannot be built", func() {
			dupLayer := scene.NewLabelLayer()
			e := engine.New(
				engine.WithBodies(append(bodies.All(), bodies.MustLookup("Earth"))),
				engine.WithOverlay(dupLayer),
			)
			Expect(e.Init()).To(MatchError(scene.ErrDuplicate))
			Expect(dupLayer.Len()).To(Equal(0))
		})
	})

	Describe("animation loop", func() {
		It("advances nothing on the first frame", func() {
			sched.Fire(at(0))
			Expect(orbit("Earth")).To(Equal(0.0))
			Expect(renderer.Frames).To(Equal(1))
			Expect(sched.Pending()).To(BeTrue())
		})

		It("advances each pivot by delta × multiplier × angular speed", func() {
			Expect(eng.SetPlanetSpeed("Mars", 2.0)).To(Succeed())
			sched.Fire(at(0))
			sched.Fire(at(100))

			Expect(orbit("Mars")).To(BeNumerically("~", 0.0048, 1e-9))
			Expect(orbit("Earth")).To(BeNumerically("~", 0.0030, 1e-9))
			Expect(spin("Mars")).To(BeNumerically("~", 0.0096, 1e-9))
			Expect(orbit(bodies.SunName)).To(Equal(0.0))
		})

		It("freezes a single body at speed zero", func() {
			Expect(eng.SetPlanetSpeed("Jupiter", 0)).To(Succeed())
			sched.Fire(at(0))
			sched.Fire(at(50))

			Expect(orbit("Jupiter")).To(Equal(0.0))
			Expect(orbit("Saturn")).To(BeNumerically(">", 0))
		})

		It("does not replay paused time after resuming", func() {
			sched.Fire(at(0))
			Expect(eng.TogglePause()).To(BeTrue())
			sched.Fire(at(200))
			Expect(orbit("Earth")).To(Equal(0.0))

			Expect(eng.TogglePause()).To(BeFalse())
			sched.Fire(at(300))
			Expect(orbit("Earth")).To(BeNumerically("~", 0.1*0.030, 1e-9))
		})

		It("keeps rendering while paused", func() {
			eng.TogglePause()
			sched.Fire(at(0))
			sched.Fire(at(16))
			Expect(renderer.Frames).To(Equal(2))
			Expect(testutil.ToFloat64(metrics.Frames)).To(Equal(2.0))
			Expect(testutil.ToFloat64(metrics.Paused)).To(Equal(1.0))
		})

		It("clamps a stalled frame", func() {
			sched.Fire(at(0))
			sched.Fire(at(10_000))
			Expect(orbit("Earth")).To(BeNumerically("~", engine.DefaultMaxFrameDelta*0.030, 1e-9))
		})

		It("resets rotations without touching speeds or pause", func() {
			Expect(eng.SetPlanetSpeed("Venus", 3)).To(Succeed())
			Expect(eng.Advance(1)).To(Succeed())
			eng.TogglePause()

			eng.ResetPlanets()
			for _, b := range eng.World().Bodies {
				Expect(b.OrbitAngle()).To(Equal(0.0))
				Expect(b.SpinAngle()).To(Equal(0.0))
			}
			Expect(eng.PlanetSpeed("Venus")).To(Equal(3.0))
			Expect(eng.Paused()).To(BeTrue())
		})

		It("rejects a negative delta", func() {
			Expect(errors.Is(eng.Advance(-1), engine.ErrNegativeDelta)).To(BeTrue())
		})
	})

	Describe("SetPlanetSpeed", func() {
		It("rejects unknown bodies", func() {
			Expect(errors.Is(eng.SetPlanetSpeed("Pluto", 1), engine.ErrUnknownBody)).To(BeTrue())
		})

		DescribeTable("rejects invalid multipliers",
			func(m float64) {
				Expect(errors.Is(eng.SetPlanetSpeed("Earth", m), engine.ErrNegativeSpeed)).To(BeTrue())
				Expect(eng.PlanetSpeed("Earth")).To(Equal(1.0))
			},
			Entry("negative", -0.1),
			Entry("NaN", math.NaN()),
			Entry("infinite", math.Inf(1)),
		)

		It("accepts values above the slider range", func() {
			Expect(eng.SetPlanetSpeed("Earth", 42)).To(Succeed())
			Expect(eng.PlanetSpeed("Earth")).To(Equal(42.0))
		})
	})

	Describe("camera modes", func() {
		It("follows the first planet when no target was given", func() {
			Expect(eng.SetCameraMode(camera.ModeFollow)).To(Succeed())
			Expect(eng.CameraMode()).To(Equal(camera.ModeFollow))
			Expect(eng.FollowTarget()).To(Equal("Mercury"))
		})

		It("snaps to the target plus offset on the next frame", func() {
			Expect(eng.FollowPlanet("Earth")).To(Succeed())
			Expect(eng.Advance(0.5)).To(Succeed())

			b, _ := eng.World().Body("Earth")
			want := b.WorldPosition().Add(camera.DefaultFollowOffset)
			Expect(eng.Camera().Position.ApproxEqualThreshold(want, 1e-9)).To(BeTrue())
			Expect(eng.Camera().Target.ApproxEqualThreshold(b.WorldPosition(), 1e-9)).To(BeTrue())
		})

		It("clears the target when returning to free mode", func() {
			Expect(eng.FollowPlanet("Saturn")).To(Succeed())
			Expect(eng.SetCameraMode(camera.ModeFree)).To(Succeed())
			Expect(eng.CameraMode()).To(Equal(camera.ModeFree))
			Expect(eng.FollowTarget()).To(BeEmpty())
			Expect(eng.Camera().Target).To(Equal(mgl64.Vec3{}))
		})

		It("reports an error instead of a fallback target for an empty table", func() {
			e := engine.New(engine.WithBodies(nil))
			var err error
			Expect(func() { err = e.SetCameraMode(camera.ModeFollow) }).NotTo(Panic())
			Expect(errors.Is(err, engine.ErrUnknownBody)).To(BeTrue())
			Expect(e.CameraMode()).To(Equal(camera.ModeFree))
		})

		It("keeps the previous mode when following an unknown body", func() {
			Expect(errors.Is(eng.FollowPlanet("Vulcan"), engine.ErrUnknownBody)).To(BeTrue())
			Expect(eng.CameraMode()).To(Equal(camera.ModeFree))
		})

		It("orbits on drag in free mode", func() {
			before := eng.Camera().Position
			hub.Emit(engine.Event{Kind: engine.PointerDown, X: 100, Y: 100})
			hub.Emit(engine.Event{Kind: engine.PointerMove, X: 150, Y: 120})
			hub.Emit(engine.Event{Kind: engine.PointerUp, X: 150, Y: 120})
			Expect(eng.Camera().Position).NotTo(Equal(before))
		})

		It("ignores drag and wheel in follow mode", func() {
			Expect(eng.FollowPlanet("Mars")).To(Succeed())
			Expect(eng.Advance(0)).To(Succeed())
			before := eng.Camera().Position

			hub.Emit(engine.Event{Kind: engine.PointerDown, X: 100, Y: 100})
			hub.Emit(engine.Event{Kind: engine.PointerMove, X: 300, Y: 300})
			hub.Emit(engine.Event{Kind: engine.Wheel, DeltaY: 200})
			Expect(eng.Camera().Position).To(Equal(before))
		})

		It("keeps zoom inside the radius limits", func() {
			for i := 0; i < 50; i++ {
				hub.Emit(engine.Event{Kind: engine.Wheel, DeltaY: 1000})
			}
			Expect(eng.Camera().Position.Len()).To(BeNumerically("~", camera.DefaultLimits().MaxRadius, 1e-9))
		})
	})

	Describe("picking", func() {
		It("selects the body under a click and notifies the callback", func() {
			var got []string
			eng.SetOnPlanetClick(func(id string) { got = append(got, id) })

			x, y := screenOf("Earth")
			hub.Emit(engine.Event{Kind: engine.Click, X: x, Y: y})

			Expect(got).To(Equal([]string{"Earth"}))
			Expect(eng.Selected()).To(Equal("Earth"))
			Expect(testutil.ToFloat64(metrics.Selections.WithLabelValues("Earth"))).To(Equal(1.0))
		})

		It("ignores bodies whose orbit group is hidden", func() {
			called := false
			eng.SetOnPlanetClick(func(string) { called = true })
			x, y := screenOf("Earth")

			earth, _ := eng.World().Body("Earth")
			earth.Pivot.Visible = false
			hub.Emit(engine.Event{Kind: engine.Click, X: x, Y: y})
			Expect(called).To(BeFalse())

			earth.Pivot.Visible = true
			hub.Emit(engine.Event{Kind: engine.Click, X: x, Y: y})
			Expect(called).To(BeTrue())
		})

		It("does nothing on a miss", func() {
			called := false
			eng.SetOnPlanetClick(func(string) { called = true })
			hub.Emit(engine.Event{Kind: engine.Click, X: 2, Y: 2})
			Expect(called).To(BeFalse())
			Expect(eng.Selected()).To(BeEmpty())
		})

		It("replaces the callback on re-registration", func() {
			first, second := 0, 0
			eng.SetOnPlanetClick(func(string) { first++ })
			eng.SetOnPlanetClick(func(string) { second++ })

			x, y := screenOf(bodies.SunName)
			hub.Emit(engine.Event{Kind: engine.Click, X: x, Y: y})
			Expect(first).To(Equal(0))
			Expect(second).To(Equal(1))
		})

		It("shows only the hovered label, offset from the pointer", func() {
			x, y := screenOf("Earth")
			hub.Emit(engine.Event{Kind: engine.PointerMove, X: x, Y: y})

			visible := layer.Visible()
			Expect(visible).To(HaveLen(1))
			Expect(visible[0].ID()).To(Equal("Earth"))
			lx, ly := visible[0].Position()
			Expect(lx).To(Equal(x + engine.LabelOffsetX))
			Expect(ly).To(Equal(y + engine.LabelOffsetY))
			Expect(eng.Hovered()).To(Equal("Earth"))

			hub.Emit(engine.Event{Kind: engine.PointerMove, X: 2, Y: 2})
			Expect(layer.Visible()).To(BeEmpty())
			Expect(eng.Hovered()).To(BeEmpty())
		})

		It("hides labels and skips hover while labels are off", func() {
			x, y := screenOf("Earth")
			hub.Emit(engine.Event{Kind: engine.PointerMove, X: x, Y: y})
			Expect(layer.Visible()).To(HaveLen(1))

			eng.SetShowLabels(false)
			Expect(layer.Visible()).To(BeEmpty())

			hub.Emit(engine.Event{Kind: engine.PointerMove, X: x, Y: y})
			Expect(layer.Visible()).To(BeEmpty())

			eng.SetShowLabels(true)
			hub.Emit(engine.Event{Kind: engine.PointerMove, X: x, Y: y})
			Expect(layer.Visible()).To(HaveLen(1))
		})

		It("tracks viewport resizes", func() {
			hub.Emit(engine.Event{Kind: engine.Resize, Width: 1000, Height: 500})
			Expect(eng.Viewport()).To(Equal(picking.Viewport{Width: 1000, Height: 500}))
			Expect(eng.Camera().Aspect).To(Equal(2.0))
		})
	})

	Describe("Dispose", func() {
		It("releases labels, listeners, the frame request and the renderer", func() {
			eng.SetOnPlanetClick(func(string) { Fail("callback after dispose") })
			eng.Dispose()

			Expect(layer.Len()).To(Equal(0))
			Expect(hub.Listeners()).To(Equal(0))
			Expect(sched.Pending()).To(BeFalse())
			Expect(renderer.Disposed).To(BeTrue())
			Expect(eng.Disposed()).To(BeTrue())

			hub.Emit(engine.Event{Kind: engine.Click, X: 400, Y: 300})
		})

		It("is a no-op the second time", func() {
			eng.Dispose()
			Expect(func() { eng.Dispose() }).NotTo(Panic())
		})

		It("refuses further mutation", func() {
			eng.Dispose()
			Expect(eng.Init()).To(MatchError(engine.ErrDisposed))
			Expect(eng.SetPlanetSpeed("Earth", 2)).To(MatchError(engine.ErrDisposed))
			Expect(eng.FollowPlanet("Earth")).To(MatchError(engine.ErrDisposed))
			Expect(eng.Advance(0.1)).To(MatchError(engine.ErrDisposed))
		})

		It("stops a frame already in flight from rescheduling", func() {
			sched.Fire(at(0))
			eng.Dispose()
			Expect(sched.Fire(at(16))).To(BeFalse())
		})
	})
})
