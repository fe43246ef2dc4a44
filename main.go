package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stewi1014/glbackdrop/prefs"
)

func main() {
	log := newLogger()
	defer log.Sync()

	mainContext, mainQuit := context.WithCancelCause(context.Background())

	go func() {
		mainQuit(gtkMain(mainContext, log))
	}()

	<-mainContext.Done()
	if err := context.Cause(mainContext); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("exiting", zap.Error(err))
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

func gtkMain(ctx context.Context, log *zap.Logger) error {
	runtime.LockOSThread()

	confDir, err := prefs.DefaultDir()
	if err != nil {
		log.Warn("no config dir", zap.Error(err))
	}

	cfg, err := prefs.LoadConfig(filepath.Join(confDir, "config.toml"))
	if err != nil {
		log.Warn("using default config", zap.Error(err))
	}

	gtk.Init(&os.Args)
	app, err := NewApplication(log)
	if err != nil {
		return err
	}

	appContext, appQuit := context.WithCancelCause(ctx)
	app.Connect("activate", func() {
		defer CatchPanicToContext(appQuit)

		viewer := NewViewerWindow(
			app,
			cfg,
			filepath.Join(confDir, "state.toml"),
			appContext,
			appQuit,
			log,
		)
		if viewer == nil {
			return
		}

		viewer.Connect("destroy", func() {
			appQuit(nil)
		})
		viewer.SetTitle("Backdrop")
	})

	go func() {
		<-appContext.Done()
		glib.IdleAdd(func() {
			app.Quit()
		})
	}()
	app.Run(nil)
	return context.Cause(appContext)
}

// CatchPanicToContext converts a panic into a context cancellation, so a
// crash in a signal handler tears the whole app down instead of killing
// the process mid-callback.
func CatchPanicToContext(ctxCancel context.CancelCauseFunc) {
	if v := recover(); v != nil {
		err, ok := v.(error)
		if !ok {
			err = fmt.Errorf("panic: %v", v)
		}
		err = fmt.Errorf("%w\n%v", err, string(debug.Stack()))
		if ctxCancel != nil {
			ctxCancel(err)
		}
	}
}
