// Package app wires the on-screen keyboard together: layout, session
// state, renderer, input source and the tmux delivery boundary. It
// owns the lifecycle and the single-threaded event loop.
package app

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/paneboard/internal/config"
	"github.com/dshills/paneboard/internal/dispatch"
	"github.com/dshills/paneboard/internal/history"
	"github.com/dshills/paneboard/internal/input"
	"github.com/dshills/paneboard/internal/layout"
	"github.com/dshills/paneboard/internal/renderer"
	"github.com/dshills/paneboard/internal/renderer/backend"
	"github.com/dshills/paneboard/internal/state"
	"github.com/dshills/paneboard/internal/tmux"
)

// Application coordinates every component and runs the event loop.
// All state mutation happens on the loop goroutine; the watcher and
// signal forwarders only post events into the backend.
type Application struct {
	cfg config.Config
	log *zap.Logger

	backend  backend.Backend
	renderer *renderer.Renderer
	source   input.Source

	sender   tmux.Sender
	resolver *dispatch.Resolver
	macros   *dispatch.MacroEngine

	// layout is replaced wholesale on reload; layoutPath is empty
	// when the built-in layout is active.
	layout     *layout.Layout
	layoutPath string
	watcher    *layout.Watcher

	st      *state.State
	history *history.Store

	status renderer.Status

	pendingReload atomic.Bool
	shutdownOnce  sync.Once
}

// Option overrides a component the bootstrap would otherwise build.
// Tests inject the memory backend and a fake sender this way.
type Option func(*Application)

// WithBackend sets the terminal surface.
func WithBackend(b backend.Backend) Option {
	return func(a *Application) { a.backend = b }
}

// WithSender sets the delivery transport.
func WithSender(s tmux.Sender) Option {
	return func(a *Application) { a.sender = s }
}

// WithSource sets the input event source.
func WithSource(s input.Source) Option {
	return func(a *Application) { a.source = s }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Application) { a.log = l }
}

// New builds an application from the config, creating every component
// not supplied as an option.
func New(cfg config.Config, opts ...Option) (*Application, error) {
	app := &Application{cfg: cfg}
	for _, opt := range opts {
		opt(app)
	}
	if err := app.bootstrap(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes components in dependency order.
func (a *Application) bootstrap() error {
	var err error

	if a.log == nil {
		a.log, err = newLogger(a.cfg.Log.Level, a.cfg.Log.Path)
		if err != nil {
			return &InitError{Component: "logger", Err: err}
		}
	}

	sticky, err := a.cfg.Sticky()
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	a.st = state.New(sticky)

	if err := a.loadInitialLayout(); err != nil {
		return &InitError{Component: "layout", Err: err}
	}

	a.macros = dispatch.NewMacroEngine()
	a.resolver = dispatch.NewResolver(a.cfg.Target, a.macros)

	if a.sender == nil {
		switch a.cfg.Sender {
		case config.SenderControl:
			a.sender, err = tmux.NewControlSender()
			if err != nil {
				return &InitError{Component: "control sender", Err: err}
			}
		default:
			a.sender = tmux.NewExecSender(tmux.WithTimeout(a.cfg.SendTimeout))
		}
	}

	if a.cfg.History.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.history, err = history.Open(ctx, a.cfg.History.Path)
		if err != nil {
			return &InitError{Component: "history store", Err: err}
		}
		retention := time.Duration(a.cfg.History.RetentionDays) * 24 * time.Hour
		if err := a.history.Prune(ctx, retention); err != nil {
			a.log.Warn("history prune failed", zap.Error(err))
		}
	}

	if a.backend == nil {
		a.backend, err = backend.NewTerminal()
		if err != nil {
			return &InitError{Component: "terminal", Err: err}
		}
	}
	a.renderer = renderer.New(a.backend)
	if a.source == nil {
		a.source = input.NewTerminalSource(a.backend)
	}
	a.seedPreview()

	a.status = renderer.Status{Target: a.cfg.Target}
	return nil
}

// seedPreview replays the most recent deliveries into the preview line
// so the board comes up with its history visible.
func (a *Application) seedPreview() {
	if a.history == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	records, err := a.history.Recent(ctx, 40)
	if err != nil {
		a.log.Warn("history read failed", zap.Error(err))
		return
	}
	for i := len(records) - 1; i >= 0; i-- {
		a.renderer.Preview().Record(dispatch.Payload{Tokens: records[i].Tokens})
	}
}

// loadInitialLayout resolves the layout document: the configured path,
// then the default location, then the built-in layout.
func (a *Application) loadInitialLayout() error {
	path := a.cfg.LayoutPath
	if path == "" {
		def := config.DefaultLayoutPath()
		if _, err := os.Stat(def); err == nil {
			path = def
		}
	}
	if path == "" {
		a.layout = layout.Default()
		a.log.Info("using built-in layout")
		return nil
	}

	l, err := layout.Load(path)
	if err != nil {
		return err
	}
	a.layout = l
	a.layoutPath = path
	a.log.Info("layout loaded", zap.String("path", path))
	return nil
}

// Layout returns the active layout.
func (a *Application) Layout() *layout.Layout { return a.layout }

// State returns the session state.
func (a *Application) State() *state.State { return a.st }

// Close releases everything the loop does not own. Safe to call more
// than once and on a partially-bootstrapped application.
func (a *Application) Close() {
	a.shutdownOnce.Do(func() {
		if a.watcher != nil {
			_ = a.watcher.Close()
		}
		if a.macros != nil {
			a.macros.Close()
		}
		if c, ok := a.sender.(interface{ Close() error }); ok {
			_ = c.Close()
		}
		if a.history != nil {
			_ = a.history.Close()
		}
		if a.log != nil {
			_ = a.log.Sync()
		}
	})
}
