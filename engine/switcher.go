// Package engine drives switching between catalogue visualizations.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/stewi1014/glbackdrop/programs"
	"github.com/stewi1014/glbackdrop/sources"
)

// ErrCatalogueExhausted reports a sweep that tried every catalogue entry
// without producing a runnable program.
var ErrCatalogueExhausted = errors.New("no catalogue entry could be activated")

// ErrSuperseded reports an activation abandoned because a newer request
// arrived while it was in flight.
var ErrSuperseded = errors.New("activation superseded")

// Program is a built visualization program the switcher can install and
// later release.
type Program interface {
	Release()
}

// Builder turns fragment source into a runnable program. Build is always
// called on the main loop, with the GL context current.
type Builder interface {
	Build(fragment string) (Program, error)
}

// Prefs persists the chosen catalogue position between runs.
type Prefs interface {
	ActiveIndex() (int, bool)
	SetActiveIndex(int) error
}

type Config struct {
	Catalogue *programs.Catalogue
	Store     sources.Store
	Builder   Builder

	// Initial is the catalogue position stepping starts from before the
	// first activation lands.
	Initial int

	// RunOnMain schedules work onto the thread that owns the GL context.
	RunOnMain func(func())

	Prefs     Prefs      // nil disables persistence
	Indicator Indicator  // nil disables the overlay
	Log       *zap.Logger
}

// Switcher moves the viewer between catalogue entries. A request fetches
// source, builds a program on the main loop and swaps it in, walking
// forward through the catalogue past entries that fail. All methods are
// main loop only.
type Switcher struct {
	catalogue *programs.Catalogue
	store     sources.Store
	builder   Builder
	prefs     Prefs
	indicator Indicator
	runOnMain func(func())
	log       *zap.Logger

	generation atomic.Uint64

	position    int
	active      Program
	activeIndex int
	haveActive  bool
}

func NewSwitcher(cfg Config) (*Switcher, error) {
	if cfg.Catalogue == nil || cfg.Catalogue.Len() == 0 {
		return nil, fmt.Errorf("switcher needs a catalogue")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("switcher needs a source store")
	}
	if cfg.Builder == nil {
		return nil, fmt.Errorf("switcher needs a builder")
	}
	if cfg.RunOnMain == nil {
		cfg.RunOnMain = func(f func()) { f() }
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}

	return &Switcher{
		catalogue: cfg.Catalogue,
		store:     cfg.Store,
		builder:   cfg.Builder,
		prefs:     cfg.Prefs,
		indicator: cfg.Indicator,
		runOnMain: cfg.RunOnMain,
		log:       cfg.Log,
		position:  cfg.Catalogue.Wrap(cfg.Initial),
	}, nil
}

// Active returns the installed program, if any.
func (s *Switcher) Active() (Program, bool) {
	return s.active, s.haveActive
}

// ActiveIndex returns the catalogue index of the installed program.
func (s *Switcher) ActiveIndex() (int, bool) {
	return s.activeIndex, s.haveActive
}

// Next requests the entry after the current position.
func (s *Switcher) Next(ctx context.Context) <-chan error {
	return s.Activate(ctx, s.position+1)
}

// Prev requests the entry before the current position.
func (s *Switcher) Prev(ctx context.Context) <-chan error {
	return s.Activate(ctx, s.position-1)
}

// Activate requests the catalogue entry at index, wrapping out-of-range
// values. The returned channel receives the outcome: nil once a program
// is installed, ErrSuperseded if a newer request overtook this one, or
// ErrCatalogueExhausted after a full fruitless lap. A newer Activate
// always wins over in-flight ones.
func (s *Switcher) Activate(ctx context.Context, index int) <-chan error {
	s.position = s.catalogue.Wrap(index)
	gen := s.generation.Add(1)

	done := make(chan error, 1)
	go s.sweep(ctx, gen, s.position, done)
	return done
}

// sweep walks forward from index until a program installs, every entry
// has been tried once, or the request is superseded.
func (s *Switcher) sweep(ctx context.Context, gen uint64, index int, done chan<- error) {
	n := s.catalogue.Len()
	for attempt := 0; attempt < n; attempt++ {
		if s.generation.Load() != gen {
			done <- ErrSuperseded
			return
		}
		if err := ctx.Err(); err != nil {
			done <- err
			return
		}

		idx := s.catalogue.Wrap(index + attempt)
		name := s.catalogue.At(idx).Name

		src, err := s.store.Source(ctx, name)
		if err != nil {
			s.log.Warn("shader source unavailable",
				zap.String("name", name),
				zap.Error(err),
			)
			continue
		}

		installed := make(chan error, 1)
		s.runOnMain(func() {
			installed <- s.install(gen, idx, src)
		})

		switch err := <-installed; {
		case err == nil:
			done <- nil
			return
		case errors.Is(err, ErrSuperseded):
			done <- err
			return
		default:
			s.log.Warn("visualization rejected",
				zap.String("name", name),
				zap.Error(err),
			)
		}
	}

	s.log.Error("catalogue exhausted", zap.Int("attempts", n))
	s.runOnMain(func() {
		// step from the entry still on screen, not the target that
		// never landed
		if s.generation.Load() == gen && s.haveActive {
			s.position = s.activeIndex
		}
	})
	done <- ErrCatalogueExhausted
}

// install builds and swaps in a program. The previous program is only
// released once its replacement exists, so a failed build leaves the
// screen untouched. The position is also persisted here, behind the
// generation check; writes land in install order, so the stored index
// always names the program that is actually on screen.
func (s *Switcher) install(gen uint64, idx int, src string) error {
	if s.generation.Load() != gen {
		return ErrSuperseded
	}

	p, err := s.builder.Build(src)
	if err != nil {
		return err
	}

	old := s.active
	s.active = p
	s.activeIndex = idx
	s.haveActive = true
	s.position = idx
	if old != nil {
		old.Release()
	}

	s.log.Info("visualization active",
		zap.String("name", s.catalogue.At(idx).Name),
		zap.Int("index", idx),
	)

	s.persist(idx)

	if s.indicator != nil {
		s.indicator.Show(idx+1, s.catalogue.Len(), 0)
	}
	return nil
}

func (s *Switcher) persist(idx int) {
	if s.prefs == nil {
		return
	}
	if err := s.prefs.SetActiveIndex(idx); err != nil {
		s.log.Warn("persist catalogue position", zap.Error(err))
	}
}
