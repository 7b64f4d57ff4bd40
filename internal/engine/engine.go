package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/solarsim/internal/bodies"
	"github.com/san-kum/solarsim/internal/camera"
	"github.com/san-kum/solarsim/internal/logging"
	"github.com/san-kum/solarsim/internal/picking"
	"github.com/san-kum/solarsim/internal/scene"
	"github.com/san-kum/solarsim/internal/telemetry"
)

const (
	DefaultWidth  = 1280
	DefaultHeight = 720

	// DefaultMaxFrameDelta caps a single frame's advance after a stall.
	DefaultMaxFrameDelta = 0.25

	// Hover labels sit this far from the pointer.
	LabelOffsetX = 10.0
	LabelOffsetY = -10.0
)

type options struct {
	specs         []bodies.Spec
	renderer      Renderer
	overlay       scene.Overlay
	surface       Surface
	scheduler     Scheduler
	logger        logging.Logger
	metrics       *telemetry.Metrics
	sceneOpts     scene.Options
	limits        camera.Limits
	maxFrameDelta float64
	showLabels    bool
}

type Option func(*options)

func WithBodies(specs []bodies.Spec) Option    { return func(o *options) { o.specs = specs } }
func WithRenderer(r Renderer) Option           { return func(o *options) { o.renderer = r } }
func WithOverlay(ov scene.Overlay) Option      { return func(o *options) { o.overlay = ov } }
func WithSurface(s Surface) Option             { return func(o *options) { o.surface = s } }
func WithScheduler(s Scheduler) Option         { return func(o *options) { o.scheduler = s } }
func WithLogger(l logging.Logger) Option       { return func(o *options) { o.logger = l } }
func WithMetrics(m *telemetry.Metrics) Option  { return func(o *options) { o.metrics = m } }
func WithSceneOptions(so scene.Options) Option { return func(o *options) { o.sceneOpts = so } }
func WithCameraLimits(l camera.Limits) Option  { return func(o *options) { o.limits = l } }
func WithMaxFrameDelta(seconds float64) Option { return func(o *options) { o.maxFrameDelta = seconds } }
func WithShowLabels(show bool) Option          { return func(o *options) { o.showLabels = show } }

// Engine is the facade over scene, loop, camera and picking.
type Engine struct {
	opts    options
	log     logging.Logger
	metrics *telemetry.Metrics

	state    State
	world    *scene.World
	cam      *camera.Camera
	ctrl     *camera.Controller
	viewport picking.Viewport
	clock    Clock
	drag     dragState

	frameFn     FrameFunc
	cancelFrame func()
	unlisten    []func()

	initialized bool
	disposed    bool
	frames      uint64
	simTime     float64
}

type dragState struct {
	active bool
	x, y   float64
}

// New creates an engine with default speeds of 1.0 for every body. Nothing is
// built until Init.
func New(opts ...Option) *Engine {
	o := options{
		specs:         bodies.All(),
		sceneOpts:     scene.DefaultOptions(),
		limits:        camera.DefaultLimits(),
		maxFrameDelta: DefaultMaxFrameDelta,
		showLabels:    true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.renderer == nil {
		o.renderer = &NopRenderer{}
	}
	if o.overlay == nil {
		o.overlay = scene.NewLabelLayer()
	}
	if o.logger == nil {
		o.logger = logging.Noop()
	}

	e := &Engine{
		opts:    o,
		log:     o.logger.With(logging.String("component", "engine")),
		metrics: o.metrics,
		state: State{
			Speeds:     make(map[string]float64, len(o.specs)),
			Mode:       camera.ModeFree,
			ShowLabels: o.showLabels,
		},
		clock:    Clock{max: o.maxFrameDelta},
		viewport: picking.Viewport{Width: DefaultWidth, Height: DefaultHeight},
	}
	for _, s := range o.specs {
		e.state.Speeds[s.Name] = 1.0
	}
	return e
}

// Init builds the scene, attaches input and requests the first frame. Only the
// first call does anything; later calls report ErrAlreadyInitialized.
func (e *Engine) Init() error {
	if e.disposed {
		return ErrDisposed
	}
	if e.initialized {
		return ErrAlreadyInitialized
	}

	world, err := scene.Build(e.opts.specs, e.opts.overlay, e.opts.sceneOpts)
	if err != nil {
		return fmt.Errorf("engine: build scene: %w", err)
	}
	e.world = world

	if e.opts.surface != nil {
		if w, h := e.opts.surface.Size(); w > 0 && h > 0 {
			e.viewport = picking.Viewport{Width: w, Height: h}
		}
	}
	e.cam = camera.New(float64(e.viewport.Width) / float64(e.viewport.Height))
	e.ctrl = camera.NewController(e.cam, e.opts.limits)
	if e.state.Mode == camera.ModeFollow {
		e.ctrl.Follow()
	}
	e.initialized = true

	if e.opts.surface != nil {
		e.unlisten = append(e.unlisten, e.opts.surface.Listen(e.handleEvent))
	}
	if e.opts.scheduler != nil {
		e.frameFn = e.frame
		e.cancelFrame = e.opts.scheduler.Request(e.frameFn)
	}

	e.log.Info(context.Background(), "engine initialized",
		logging.Int("bodies", len(world.Bodies)),
		logging.Int("stars", len(world.Stars.Points)),
		logging.Int("nodes", world.Scene.Len()),
		logging.Int("width", e.viewport.Width),
		logging.Int("height", e.viewport.Height))
	return nil
}

// Dispose stops frame scheduling, detaches input, removes labels and releases
// the renderer. Later calls are no-ops.
func (e *Engine) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true

	if e.cancelFrame != nil {
		e.cancelFrame()
		e.cancelFrame = nil
	}
	for _, cancel := range e.unlisten {
		cancel()
	}
	e.unlisten = nil

	if e.world != nil {
		e.world.Dispose()
	}
	e.opts.renderer.Dispose()
	e.state.OnSelect = nil

	e.log.Info(context.Background(), "engine disposed", logging.Int("frames", int(e.frames)))
}

func (e *Engine) Disposed() bool { return e.disposed }

// TogglePause flips between running and paused and returns the new paused state.
func (e *Engine) TogglePause() bool {
	if e.disposed {
		return e.state.Paused
	}
	e.state.Paused = !e.state.Paused
	e.log.Debug(context.Background(), "pause toggled", logging.Bool("paused", e.state.Paused))
	return e.state.Paused
}

func (e *Engine) Paused() bool { return e.state.Paused }

// ResetPlanets zeroes every orbit and spin angle. Speeds, pause state and the
// camera are untouched.
func (e *Engine) ResetPlanets() {
	if e.world == nil || e.disposed {
		return
	}
	for _, b := range e.world.Bodies {
		b.Reset()
	}
}

// SetPlanetSpeed sets the multiplier applied to a body's base angular speed.
// Zero freezes that body alone; values above 1 are accepted as-is.
func (e *Engine) SetPlanetSpeed(id string, multiplier float64) error {
	if e.disposed {
		return ErrDisposed
	}
	if _, ok := e.state.Speeds[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBody, id)
	}
	if math.IsNaN(multiplier) || math.IsInf(multiplier, 0) || multiplier < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeSpeed, multiplier)
	}
	e.state.Speeds[id] = multiplier
	return nil
}

// PlanetSpeed returns the multiplier for id, or 0 for an unknown body.
func (e *Engine) PlanetSpeed(id string) float64 { return e.state.Speeds[id] }

// SetShowLabels toggles hover labels. Turning them off hides any visible label.
func (e *Engine) SetShowLabels(show bool) {
	if e.disposed {
		return
	}
	e.state.ShowLabels = show
	if !show {
		e.state.Hovered = ""
		if e.world != nil {
			e.world.HideLabels()
		}
	}
}

func (e *Engine) ShowLabels() bool { return e.state.ShowLabels }

// SetOnPlanetClick replaces the selection callback. nil unregisters it.
func (e *Engine) SetOnPlanetClick(fn func(id string)) {
	if e.disposed {
		return
	}
	e.state.OnSelect = fn
}

// SetCameraMode switches camera modes. Entering follow mode without a target
// follows the first orbiting body in registry order; entering free mode clears
// the target.
func (e *Engine) SetCameraMode(mode camera.Mode) error {
	if e.disposed {
		return ErrDisposed
	}
	switch mode {
	case camera.ModeFree:
		e.state.Mode = camera.ModeFree
		e.state.FollowTarget = ""
		if e.ctrl != nil {
			e.ctrl.Free()
		}
	case camera.ModeFollow:
		target := e.state.FollowTarget
		if target == "" {
			var ok bool
			if target, ok = e.defaultFollowTarget(); !ok {
				return fmt.Errorf("%w: registry is empty", ErrUnknownBody)
			}
		}
		return e.FollowPlanet(target)
	default:
		return fmt.Errorf("engine: unsupported camera mode %v", mode)
	}
	e.log.Debug(context.Background(), "camera mode", logging.String("mode", mode.String()))
	return nil
}

// FollowPlanet sets the follow target and enters follow mode in one step. The
// camera snaps to it on the next frame.
func (e *Engine) FollowPlanet(id string) error {
	if e.disposed {
		return ErrDisposed
	}
	if _, ok := e.state.Speeds[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBody, id)
	}
	e.state.FollowTarget = id
	e.state.Mode = camera.ModeFollow
	if e.ctrl != nil {
		e.ctrl.Follow()
	}
	e.log.Debug(context.Background(), "following body", logging.String("body", id))
	return nil
}

func (e *Engine) CameraMode() camera.Mode { return e.state.Mode }
func (e *Engine) FollowTarget() string    { return e.state.FollowTarget }

func (e *Engine) defaultFollowTarget() (string, bool) {
	s, ok := bodies.FirstOrbiting(e.opts.specs)
	return s.Name, ok
}

// ClearSelection forgets the last clicked body.
func (e *Engine) ClearSelection() { e.state.Selected = "" }

// Status snapshots the state for HUDs.
func (e *Engine) Status() Status {
	return Status{
		Paused:       e.state.Paused,
		Mode:         e.state.Mode,
		FollowTarget: e.state.FollowTarget,
		ShowLabels:   e.state.ShowLabels,
		Hovered:      e.state.Hovered,
		Selected:     e.state.Selected,
		Frames:       e.frames,
		SimTime:      e.simTime,
	}
}

// World exposes the live scene to renderers. nil before Init.
func (e *Engine) World() *scene.World { return e.world }

// Camera exposes the live camera to renderers. nil before Init.
func (e *Engine) Camera() *camera.Camera { return e.cam }

// CameraController exposes spherical state for HUDs. nil before Init.
func (e *Engine) CameraController() *camera.Controller { return e.ctrl }

func (e *Engine) Viewport() picking.Viewport { return e.viewport }

// Bodies returns the specs this engine was built with.
func (e *Engine) Bodies() []bodies.Spec {
	return append([]bodies.Spec(nil), e.opts.specs...)
}
