package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"go.uber.org/zap"

	"github.com/stewi1014/glbackdrop/engine"
	"github.com/stewi1014/glbackdrop/input"
	"github.com/stewi1014/glbackdrop/prefs"
	"github.com/stewi1014/glbackdrop/programs"
	"github.com/stewi1014/glbackdrop/render"
	"github.com/stewi1014/glbackdrop/sources"
)

// frameInterval paces animated redraws, in milliseconds.
const frameInterval = 16

func NewViewerWindow(
	app *Application,
	cfg prefs.Config,
	statePath string,
	ctx context.Context,
	quit func(error),
	log *zap.Logger,
) *ViewerWindow {
	var err error
	w := &ViewerWindow{
		cfg:   cfg,
		ctx:   ctx,
		quit:  quit,
		log:   log,
		scale: 1,
	}

	w.ApplicationWindow, err = gtk.ApplicationWindowNew(app.Application)
	if err != nil {
		quit(fmt.Errorf("gtk.ApplicationWindowNew: %w", err))
		return nil
	}

	w.SetDefaultSize(getWindowSize())

	// With animation off there is nothing to switch, fetch or listen
	// for. The window keeps the static gradient and nothing else starts.
	if !cfg.Animate || !app.AnimationsEnabled() {
		log.Info("animations disabled, keeping the static backdrop")
		if err := applyFallbackStyle(w.ApplicationWindow); err != nil {
			log.Warn("fallback style", zap.Error(err))
		}
		w.ShowAll()
		return w
	}

	w.catalogue = programs.DefaultCatalogue()
	if len(cfg.Catalogue) > 0 {
		c, err := programs.FromNames(cfg.Catalogue)
		if err != nil {
			log.Warn("ignoring configured catalogue", zap.Error(err))
		} else {
			w.catalogue = c
		}
	}
	w.router.Entries = w.catalogue.Len()

	w.store = sources.NewCache(newStore(cfg.Source, w.catalogue))
	w.prefsStore = prefs.NewStore(statePath)

	w.gla, err = gtk.GLAreaNew()
	if err != nil {
		quit(fmt.Errorf("gtk.GLAreaNew: %w", err))
		return nil
	}

	w.gla.SetRequiredVersion(4, 6)
	w.gla.Connect("realize", w.glaRealize)
	w.gla.Connect("render", w.glaRender)
	w.gla.Connect("unrealize", w.glaUnrealize)

	w.gla.SetEvents(
		int(gdk.BUTTON_PRESS_MASK) |
			int(gdk.BUTTON_RELEASE_MASK),
	)
	w.gla.Connect("resize", w.resize)
	w.gla.Connect("button-press-event", w.button)
	w.gla.Connect("button-release-event", w.button)

	hold := time.Duration(cfg.Indicator.HoldMillis) * time.Millisecond
	if cfg.Indicator.HoldMillis < 0 {
		hold = engine.HoldForever
	}
	w.indicator, err = NewIndicator(hold, func() {
		w.dispatch(input.Action{Op: input.OpNext})
	})
	if err != nil {
		quit(err)
		return nil
	}

	overlay, err := gtk.OverlayNew()
	if err != nil {
		quit(fmt.Errorf("gtk.OverlayNew: %w", err))
		return nil
	}
	overlay.Add(w.gla)
	overlay.AddOverlay(w.indicator.Widget())

	w.Add(overlay)
	w.Connect("key-press-event", w.keyPress)
	w.ShowAll()

	return w
}

func getWindowSize() (width, height int) {
	width = 1200
	height = 800

	display, err := gdk.DisplayGetDefault()
	if err != nil {
		return
	}

	monitor, err := display.GetPrimaryMonitor()
	if err != nil {
		return
	}

	width = int(float32(monitor.GetGeometry().GetWidth()) * .6)
	height = int(float32(monitor.GetGeometry().GetHeight()) * .6)
	return
}

// newStore picks the configured source backend. Unknown modes never get
// here; config validation rejects them.
func newStore(cfg prefs.SourceConfig, catalogue *programs.Catalogue) sources.Store {
	switch cfg.Mode {
	case "dir":
		return sources.DirStore{Dir: cfg.Dir}
	case "http":
		return sources.HTTPStore{Base: cfg.Base}
	default:
		return sources.EmbedStore{Catalogue: catalogue}
	}
}

type ViewerWindow struct {
	*gtk.ApplicationWindow
	gla       *gtk.GLArea
	indicator *Indicator

	cfg        prefs.Config
	catalogue  *programs.Catalogue
	store      sources.Store
	prefsStore *prefs.Store
	router     input.Router

	ctx  context.Context
	quit func(error)
	log  *zap.Logger

	quad     *render.Quad
	builder  *render.Builder
	surface  *render.Surface
	switcher *engine.Switcher

	widthPx  int
	heightPx int
	scale    float64
	epoch    time.Time

	snapshotRequested bool
}

func (w *ViewerWindow) glaRealize(gla *gtk.GLArea) {
	gla.MakeCurrent()

	err := gla.GetError()
	if err != nil {
		err = fmt.Errorf("%w: %v", render.ErrContextUnavailable, err)
	} else {
		err = render.Init()
	}
	if err != nil {
		w.log.Warn("no usable opengl, keeping the static backdrop", zap.Error(err))
		if err := applyFallbackStyle(w.ApplicationWindow); err != nil {
			w.log.Warn("fallback style", zap.Error(err))
		}
		gla.Hide()
		return
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	w.log.Info("opengl ready", zap.String("version", version))
	render.AttachDebugLog(w.log)

	gl.ClearColor(0.051, 0.051, 0.051, 1)

	w.quad = render.NewQuad()
	w.builder = render.NewBuilder(w.quad)
	w.surface = render.NewSurface(w.cfg.MaxRenderScale)
	w.epoch = time.Now()

	policy := engine.PolicyFixed
	if w.cfg.Initial == "random" {
		policy = engine.PolicyRandom
	}
	initial := engine.InitialIndex(w.prefsStore, policy, w.catalogue.Len(), nil)

	w.switcher, err = engine.NewSwitcher(engine.Config{
		Catalogue: w.catalogue,
		Store:     w.store,
		Builder:   programBuilder{w.builder},
		Initial:   initial,
		RunOnMain: func(f func()) {
			glib.IdleAdd(func() {
				w.gla.MakeCurrent()
				f()
				w.gla.QueueRender()
			})
		},
		Prefs:     w.prefsStore,
		Indicator: w.indicator,
		Log:       w.log,
	})
	if err != nil {
		w.quit(err)
		return
	}

	w.awaitSwitch(w.switcher.Activate(w.ctx, initial))

	glib.TimeoutAdd(frameInterval, func() bool {
		w.gla.QueueRender()
		return true
	})
}

func (w *ViewerWindow) glaRender(gla *gtk.GLArea) {
	gla.AttachBuffers()

	program, ok := w.activeProgram()
	if !ok || w.surface == nil {
		gl.Clear(gl.COLOR_BUFFER_BIT)
		return
	}

	w.surface.Resize(w.widthPx, w.heightPx, w.scale)
	w.surface.Begin()

	program.Use()
	program.SetTime(float32(time.Since(w.epoch).Seconds()))
	rw, rh := w.surface.Size()
	program.SetResolution(float32(rw), float32(rh))

	gl.Clear(gl.COLOR_BUFFER_BIT)
	w.quad.Draw()

	if w.snapshotRequested {
		w.snapshotRequested = false
		w.saveSnapshot()
	}

	w.surface.Resolve(w.widthPx, w.heightPx)
}

func (w *ViewerWindow) glaUnrealize(gla *gtk.GLArea) {
	gla.MakeCurrent()

	if w.switcher != nil {
		if p, ok := w.switcher.Active(); ok {
			p.Release()
		}
	}
	if w.surface != nil {
		w.surface.Release()
		w.surface = nil
	}
	if w.quad != nil {
		w.quad.Release()
		w.quad = nil
	}
}

// resize reports device pixels; the scale factor converts back to the
// logical size event coordinates use.
func (w *ViewerWindow) resize(gla *gtk.GLArea, width, height int) {
	w.widthPx, w.heightPx = width, height
	w.scale = float64(gla.GetScaleFactor())
}

func (w *ViewerWindow) activeProgram() (*render.Program, bool) {
	if w.switcher == nil {
		return nil, false
	}
	p, ok := w.switcher.Active()
	if !ok {
		return nil, false
	}
	rp, ok := p.(*render.Program)
	return rp, ok
}

func (w *ViewerWindow) button(gla *gtk.GLArea, event *gdk.Event) {
	button := gdk.EventButtonNewFromEvent(event)
	pos := mgl32.Vec2{float32(button.X()), float32(button.Y())}

	if button.Type() == gdk.EVENT_BUTTON_PRESS {
		w.router.PointerDown(pos)
	} else if button.Type() == gdk.EVENT_BUTTON_RELEASE {
		w.dispatch(w.router.PointerUp(pos))
	}
}

func (w *ViewerWindow) keyPress(win *gtk.ApplicationWindow, event *gdk.Event) bool {
	if w.indicator.HasKeyboardFocus() {
		return false
	}

	key, ok := decodeKeyval(gdk.EventKeyNewFromEvent(event).KeyVal())
	if !ok {
		return false
	}

	action := w.router.Key(key)
	if action.Op == input.OpNone {
		return false
	}

	w.dispatch(action)
	return true
}

// GDK keyval codes for the arrow keys; printable ASCII keyvals are the
// characters themselves.
const (
	keyvalLeft  = 0xff51
	keyvalRight = 0xff53
)

func decodeKeyval(keyval uint) (input.Key, bool) {
	switch keyval {
	case keyvalLeft:
		return input.Key{Left: true}, true
	case keyvalRight:
		return input.Key{Right: true}, true
	}

	if keyval >= 0x20 && keyval <= 0x7e {
		return input.Key{Rune: rune(keyval)}, true
	}

	return input.Key{}, false
}

func (w *ViewerWindow) dispatch(action input.Action) {
	if w.switcher == nil {
		return
	}

	switch action.Op {
	case input.OpNext:
		w.awaitSwitch(w.switcher.Next(w.ctx))
	case input.OpPrev:
		w.awaitSwitch(w.switcher.Prev(w.ctx))
	case input.OpSelect:
		w.awaitSwitch(w.switcher.Activate(w.ctx, action.Index))
	case input.OpSnapshot:
		w.snapshotRequested = true
		w.gla.QueueRender()
	}
}

// awaitSwitch drains a request's outcome. The engine already logs each
// rejected entry, so outcomes only matter at debug level.
func (w *ViewerWindow) awaitSwitch(done <-chan error) {
	go func() {
		err := <-done
		if err != nil && !errors.Is(err, engine.ErrSuperseded) {
			w.log.Debug("switch request failed", zap.Error(err))
		}
	}()
}

// programBuilder adapts render.Builder to the engine's Builder interface.
type programBuilder struct {
	builder *render.Builder
}

func (b programBuilder) Build(fragment string) (engine.Program, error) {
	p, err := b.builder.Build(fragment)
	if err != nil {
		return nil, err
	}
	return p, nil
}
