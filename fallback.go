package main

import (
	"fmt"

	"github.com/gotk3/gotk3/gtk"
)

// fallbackCSS approximates the shader palette with a plain gradient, for
// machines without a usable GL context.
const fallbackCSS = `
window.backdrop-fallback {
	background-image: linear-gradient(160deg, #101018 0%, #0d0d0d 45%, #131a1f 100%);
}
`

func applyFallbackStyle(win *gtk.ApplicationWindow) error {
	provider, err := gtk.CssProviderNew()
	if err != nil {
		return fmt.Errorf("gtk.CssProviderNew: %w", err)
	}
	if err := provider.LoadFromData(fallbackCSS); err != nil {
		return fmt.Errorf("fallback css: %w", err)
	}

	sc, err := win.GetStyleContext()
	if err != nil {
		return fmt.Errorf("style context: %w", err)
	}
	sc.AddClass("backdrop-fallback")
	sc.AddProvider(provider, uint(gtk.STYLE_PROVIDER_PRIORITY_APPLICATION))
	return nil
}
