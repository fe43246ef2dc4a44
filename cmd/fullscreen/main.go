// Command fullscreen runs the backdrop directly on a monitor, without
// the GTK shell. Escape quits.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stewi1014/glbackdrop/engine"
	"github.com/stewi1014/glbackdrop/input"
	"github.com/stewi1014/glbackdrop/prefs"
	"github.com/stewi1014/glbackdrop/programs"
	"github.com/stewi1014/glbackdrop/render"
	"github.com/stewi1014/glbackdrop/sources"
)

func init() {
	// glfw event handling must run on the first thread
	runtime.LockOSThread()
}

func main() {
	log := newLogger()
	defer log.Sync()

	if err := run(log); err != nil {
		log.Error("exiting", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if os.Getenv("GLBACKDROP_DEBUG") != "" {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func run(log *zap.Logger) error {
	confDir, err := prefs.DefaultDir()
	if err != nil {
		log.Warn("no config dir", zap.Error(err))
	}

	configPath := flag.String("config", filepath.Join(confDir, "config.toml"), "config file")
	windowed := flag.Bool("windowed", false, "render in a window instead of fullscreen")
	flag.Parse()

	cfg, err := prefs.LoadConfig(*configPath)
	if err != nil {
		log.Warn("using default config", zap.Error(err))
	}

	if !cfg.Animate {
		log.Info("animations disabled in config, nothing to draw")
		return nil
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw.Init: %w", err)
	}
	defer glfw.Terminate()

	v, err := newViewer(cfg, filepath.Join(confDir, "state.toml"), *windowed, log)
	if err != nil {
		return err
	}
	defer v.release()

	v.run()
	return nil
}

type viewer struct {
	window *glfw.Window
	log    *zap.Logger

	catalogue  *programs.Catalogue
	prefsStore *prefs.Store
	router     input.Router
	ctx        context.Context

	// pump carries work from worker goroutines onto the render thread.
	pump chan func()

	quad     *render.Quad
	builder  *render.Builder
	surface  *render.Surface
	label    *render.Label
	switcher *engine.Switcher

	widthPx  int
	heightPx int
	scale    float64
	epoch    time.Time

	snapshotRequested bool
}

func newViewer(cfg prefs.Config, statePath string, windowed bool, log *zap.Logger) (*viewer, error) {
	v := &viewer{
		log:   log,
		ctx:   context.Background(),
		pump:  make(chan func(), 16),
		scale: 1,
	}

	v.catalogue = programs.DefaultCatalogue()
	if len(cfg.Catalogue) > 0 {
		c, err := programs.FromNames(cfg.Catalogue)
		if err != nil {
			log.Warn("ignoring configured catalogue", zap.Error(err))
		} else {
			v.catalogue = c
		}
	}
	v.router.Entries = v.catalogue.Len()
	v.prefsStore = prefs.NewStore(statePath)

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	monitor := glfw.GetPrimaryMonitor()
	width, height := 1280, 800
	if windowed {
		monitor = nil
	} else if monitor != nil {
		mode := monitor.GetVideoMode()
		width, height = mode.Width, mode.Height
		glfw.WindowHint(glfw.RedBits, mode.RedBits)
		glfw.WindowHint(glfw.GreenBits, mode.GreenBits)
		glfw.WindowHint(glfw.BlueBits, mode.BlueBits)
		glfw.WindowHint(glfw.RefreshRate, mode.RefreshRate)
	}

	window, err := glfw.CreateWindow(width, height, "Backdrop", monitor, nil)
	if err != nil {
		return nil, fmt.Errorf("glfw.CreateWindow: %w", err)
	}
	v.window = window

	window.MakeContextCurrent()
	if err := render.Init(); err != nil {
		return nil, err
	}
	glfw.SwapInterval(1)

	log.Info("opengl ready", zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))))
	render.AttachDebugLog(log)

	gl.ClearColor(0.051, 0.051, 0.051, 1)

	v.widthPx, v.heightPx = window.GetFramebufferSize()
	sx, _ := window.GetContentScale()
	v.scale = float64(sx)
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		v.widthPx, v.heightPx = w, h
		sx, _ := v.window.GetContentScale()
		v.scale = float64(sx)
	})

	v.quad = render.NewQuad()
	v.builder = render.NewBuilder(v.quad)
	v.surface = render.NewSurface(cfg.MaxRenderScale)
	v.epoch = time.Now()

	v.label, err = render.NewLabel()
	if err != nil {
		return nil, err
	}

	hold := time.Duration(cfg.Indicator.HoldMillis) * time.Millisecond
	if cfg.Indicator.HoldMillis < 0 {
		hold = engine.HoldForever
	}
	timer := engine.NewIndicatorTimer(
		hold,
		v.runOnMain,
		func(ordinal, total int) {
			v.label.SetText(fmt.Sprintf("%d / %d", ordinal, total))
			v.label.SetVisible(true)
		},
		func() { v.label.SetVisible(false) },
	)

	policy := engine.PolicyFixed
	if cfg.Initial == "random" {
		policy = engine.PolicyRandom
	}
	initial := engine.InitialIndex(v.prefsStore, policy, v.catalogue.Len(), nil)

	v.switcher, err = engine.NewSwitcher(engine.Config{
		Catalogue: v.catalogue,
		Store:     sources.NewCache(newStore(cfg.Source, v.catalogue)),
		Builder:   programBuilder{v.builder},
		Initial:   initial,
		RunOnMain: v.runOnMain,
		Prefs:     v.prefsStore,
		Indicator: timer,
		Log:       log,
	})
	if err != nil {
		return nil, err
	}

	window.SetKeyCallback(v.onKey)
	window.SetMouseButtonCallback(v.onMouseButton)

	v.await(v.switcher.Activate(v.ctx, initial))

	return v, nil
}

// runOnMain queues work for the render thread and wakes the event loop.
func (v *viewer) runOnMain(f func()) {
	v.pump <- f
	glfw.PostEmptyEvent()
}

func (v *viewer) run() {
	for !v.window.ShouldClose() {
		v.drainPump()
		v.frame()
		v.window.SwapBuffers()
		glfw.PollEvents()
	}
}

func (v *viewer) drainPump() {
	for {
		select {
		case f := <-v.pump:
			f()
		default:
			return
		}
	}
}

func (v *viewer) frame() {
	program, ok := v.activeProgram()
	if !ok {
		gl.Clear(gl.COLOR_BUFFER_BIT)
		return
	}

	v.surface.Resize(v.widthPx, v.heightPx, v.scale)
	v.surface.Begin()

	program.Use()
	program.SetTime(float32(time.Since(v.epoch).Seconds()))
	rw, rh := v.surface.Size()
	program.SetResolution(float32(rw), float32(rh))

	gl.Clear(gl.COLOR_BUFFER_BIT)
	v.quad.Draw()

	if v.snapshotRequested {
		v.snapshotRequested = false
		v.saveSnapshot()
	}

	v.surface.Resolve(v.widthPx, v.heightPx)

	v.label.Draw(v.widthPx, v.heightPx)
}

func (v *viewer) activeProgram() (*render.Program, bool) {
	p, ok := v.switcher.Active()
	if !ok {
		return nil, false
	}
	rp, ok := p.(*render.Program)
	return rp, ok
}

func (v *viewer) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}

	if key == glfw.KeyEscape {
		v.window.SetShouldClose(true)
		return
	}

	k, ok := decodeKey(key)
	if !ok {
		return
	}
	v.dispatch(v.router.Key(k))
}

func (v *viewer) onMouseButton(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}

	x, y := v.window.GetCursorPos()
	pos := mgl32.Vec2{float32(x), float32(y)}

	if action == glfw.Press {
		v.router.PointerDown(pos)
	} else if action == glfw.Release {
		v.dispatch(v.router.PointerUp(pos))
	}
}

func decodeKey(key glfw.Key) (input.Key, bool) {
	switch key {
	case glfw.KeyLeft:
		return input.Key{Left: true}, true
	case glfw.KeyRight:
		return input.Key{Right: true}, true
	case glfw.KeySpace:
		return input.Key{Rune: ' '}, true
	case glfw.KeyS:
		return input.Key{Rune: 's'}, true
	}

	if key >= glfw.Key0 && key <= glfw.Key9 {
		return input.Key{Rune: rune(key)}, true
	}

	return input.Key{}, false
}

func (v *viewer) dispatch(action input.Action) {
	switch action.Op {
	case input.OpNext:
		v.await(v.switcher.Next(v.ctx))
	case input.OpPrev:
		v.await(v.switcher.Prev(v.ctx))
	case input.OpSelect:
		v.await(v.switcher.Activate(v.ctx, action.Index))
	case input.OpSnapshot:
		v.snapshotRequested = true
	}
}

func (v *viewer) await(done <-chan error) {
	go func() {
		<-done
	}()
}

// saveSnapshot reads the surface on the render thread; encoding happens
// on its own goroutine. The file lands in the working directory.
func (v *viewer) saveSnapshot() {
	img := v.surface.Snapshot()
	log := v.log

	go func() {
		name := "glbackdrop-" + time.Now().Format("20060102-150405") + ".png"
		if err := writePNG(name, img); err != nil {
			log.Warn("snapshot failed", zap.Error(err))
			return
		}
		log.Info("snapshot saved", zap.String("path", name))
	}()
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func (v *viewer) release() {
	if v.switcher != nil {
		if p, ok := v.switcher.Active(); ok {
			p.Release()
		}
	}
	if v.label != nil {
		v.label.Release()
	}
	if v.surface != nil {
		v.surface.Release()
	}
	if v.quad != nil {
		v.quad.Release()
	}
}

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
