package main

import (
	"fmt"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"go.uber.org/zap"
)

func NewApplication(log *zap.Logger) (*Application, error) {
	app, err := gtk.ApplicationNew("com.github.stewi1014.glbackdrop", glib.APPLICATION_FLAGS_NONE)
	if err != nil {
		return nil, fmt.Errorf("gtk.ApplicationNew failed: %w", err)
	}

	a := &Application{
		Application: app,
		log:         log,
	}

	return a, nil
}

type Application struct {
	*gtk.Application
	log *zap.Logger
}

// AnimationsEnabled reports the desktop's animation preference. Reduced
// motion environments set gtk-enable-animations to false, which keeps the
// GL backdrop from starting at all. Unknown is treated as enabled.
func (a *Application) AnimationsEnabled() bool {
	settings, err := gtk.SettingsGetDefault()
	if err != nil || settings == nil {
		return true
	}

	v, err := settings.GetProperty("gtk-enable-animations")
	if err != nil {
		a.log.Debug("gtk-enable-animations unavailable", zap.Error(err))
		return true
	}

	enabled, ok := v.(bool)
	if !ok {
		return true
	}
	return enabled
}
