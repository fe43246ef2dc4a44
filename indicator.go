package main

import (
	"fmt"
	"time"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	"github.com/stewi1014/glbackdrop/engine"
)

const indicatorCSS = `
button.backdrop-indicator {
	background-image: none;
	background-color: rgba(16, 16, 24, 0.85);
	color: #ebebeb;
	border: none;
	border-radius: 999px;
	padding: 6px 14px;
	font-weight: bold;
}
`

// Indicator is the corner overlay naming the current catalogue position.
// It doubles as a pointer target: clicking it advances the catalogue.
type Indicator struct {
	revealer *gtk.Revealer
	button   *gtk.Button
	timer    *engine.IndicatorTimer
}

// NewIndicator builds the overlay. hold is how long it stays up after a
// switch; a negative hold keeps it up until the next one.
func NewIndicator(hold time.Duration, onTap func()) (*Indicator, error) {
	revealer, err := gtk.RevealerNew()
	if err != nil {
		return nil, fmt.Errorf("gtk.RevealerNew: %w", err)
	}

	button, err := gtk.ButtonNewWithLabel("")
	if err != nil {
		return nil, fmt.Errorf("gtk.ButtonNewWithLabel: %w", err)
	}

	revealer.SetTransitionType(gtk.REVEALER_TRANSITION_TYPE_CROSSFADE)
	revealer.SetHAlign(gtk.ALIGN_END)
	revealer.SetVAlign(gtk.ALIGN_END)
	revealer.SetMarginEnd(24)
	revealer.SetMarginBottom(24)
	revealer.Add(button)

	if err := styleIndicator(button); err != nil {
		return nil, err
	}

	button.Connect("clicked", func() {
		onTap()
	})

	ind := &Indicator{
		revealer: revealer,
		button:   button,
	}

	ind.timer = engine.NewIndicatorTimer(
		hold,
		func(f func()) { glib.IdleAdd(f) },
		func(ordinal, total int) {
			button.SetLabel(fmt.Sprintf("%d / %d", ordinal, total))
			revealer.SetRevealChild(true)
		},
		func() {
			revealer.SetRevealChild(false)
		},
	)

	return ind, nil
}

// Show implements engine.Indicator.
func (ind *Indicator) Show(ordinal, total int, hold time.Duration) {
	ind.timer.Show(ordinal, total, hold)
}

// Widget is what goes into the window overlay.
func (ind *Indicator) Widget() gtk.IWidget {
	return ind.revealer
}

// HasKeyboardFocus reports whether key events belong to the indicator
// rather than the viewer shortcuts.
func (ind *Indicator) HasKeyboardFocus() bool {
	return ind.button.IsFocus()
}

func styleIndicator(button *gtk.Button) error {
	provider, err := gtk.CssProviderNew()
	if err != nil {
		return fmt.Errorf("gtk.CssProviderNew: %w", err)
	}
	if err := provider.LoadFromData(indicatorCSS); err != nil {
		return fmt.Errorf("indicator css: %w", err)
	}

	sc, err := button.GetStyleContext()
	if err != nil {
		return fmt.Errorf("style context: %w", err)
	}
	sc.AddClass("backdrop-indicator")
	sc.AddProvider(provider, uint(gtk.STYLE_PROVIDER_PRIORITY_APPLICATION))
	return nil
}
