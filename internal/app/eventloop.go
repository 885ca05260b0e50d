package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/dshills/paneboard/internal/input"
	"github.com/dshills/paneboard/internal/layout"
	"github.com/dshills/paneboard/internal/renderer/backend"
	"github.com/dshills/paneboard/internal/state"
	"github.com/dshills/paneboard/internal/tmux"
)

// Run initializes the terminal and drives the event loop until the
// user quits or ctx is canceled. The terminal is restored on every
// exit path. Returns ErrQuit on a normal exit.
func (a *Application) Run(ctx context.Context) error {
	if err := a.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer a.backend.Shutdown()
	defer a.Close()

	if a.cfg.WatchLayout && a.layoutPath != "" {
		if err := a.startWatcher(); err != nil {
			// Live reload is a convenience; run without it.
			a.log.Warn("layout watcher unavailable", zap.Error(err))
		}
	}

	stop := context.AfterFunc(ctx, func() {
		a.backend.PostEvent(backend.Event{Type: backend.EventInterrupt})
	})
	defer stop()

	for {
		a.render()

		ev := a.source.Next()
		if a.pendingReload.CompareAndSwap(true, false) {
			a.reload()
		}

		switch ev {
		case input.Quit:
			a.log.Info("quit")
			return ErrQuit
		case input.MoveUp:
			a.st.Move(a.layout, state.Up)
		case input.MoveDown:
			a.st.Move(a.layout, state.Down)
		case input.MoveLeft:
			a.st.Move(a.layout, state.Left)
		case input.MoveRight:
			a.st.Move(a.layout, state.Right)
		case input.Activate:
			a.activate(ctx)
		case input.Reload:
			a.reload()
		case input.Redraw:
			// Next iteration repaints.
		}
	}
}

// activate handles one press of the focused key.
func (a *Application) activate(ctx context.Context) {
	key := a.st.FocusedKey(a.layout)
	if key == nil {
		return
	}

	switch key.Kind {
	case layout.KindModifierToggle:
		m, err := state.ParseModifier(key.Modifier)
		if err != nil {
			a.log.Warn("bad modifier key", zap.String("name", key.Modifier))
			return
		}
		a.st.Toggle(m)

	case layout.KindLayerSwitch:
		a.switchLayer(key.TargetLayer)

	default:
		a.dispatch(ctx, key)
	}
}

// switchLayer activates the target layer; pressing the switch for the
// already-active layer drops back to the base layer. An undeclared
// target degrades to base rather than wedging the session.
func (a *Application) switchLayer(target string) {
	switch {
	case !a.layout.HasLayer(target):
		a.log.Warn("undeclared layer", zap.String("layer", target))
		a.st.SwitchLayer(layout.DefaultLayer)
		a.status.Err = "unknown layer " + target
	case target == a.st.ActiveLayer:
		a.st.SwitchLayer(layout.DefaultLayer)
	default:
		a.st.SwitchLayer(target)
	}
}

// dispatch resolves the key and delivers the payload synchronously.
// One-shot modifiers are consumed only after a successful delivery, so
// a failed send can simply be retried.
func (a *Application) dispatch(ctx context.Context, key *layout.Key) {
	payload, err := a.resolver.Resolve(key, a.st.ActiveLayer, a.st.Modifiers)
	if err != nil {
		a.status.Err = err.Error()
		a.log.Warn("resolve failed", zap.Error(err))
		return
	}

	if err := a.sender.Deliver(ctx, a.resolver.Target, payload.Tokens); err != nil {
		a.status.Err = deliveryMessage(err)
		a.log.Error("delivery failed",
			zap.String("target", a.resolver.Target),
			zap.Strings("tokens", payload.Tokens),
			zap.Error(err))
		return
	}

	held := a.st.ConsumeModifiers()
	a.renderer.Preview().Record(payload)
	a.status.Err = ""

	if err := a.history.Append(ctx, a.resolver.Target, payload.Tokens, held.String()); err != nil {
		a.log.Warn("history append failed", zap.Error(err))
	}

	a.log.Debug("delivered",
		zap.String("target", a.resolver.Target),
		zap.Strings("tokens", payload.Tokens),
		zap.Stringer("modifiers", held))
}

// deliveryMessage maps sender errors to a short status line.
func deliveryMessage(err error) string {
	switch {
	case errors.Is(err, tmux.ErrTargetNotFound):
		return "pane not found"
	case errors.Is(err, tmux.ErrTimeout):
		return "send timed out"
	default:
		return "send failed: " + err.Error()
	}
}

// reload replaces the layout from disk. On failure the previous layout
// stays active and the error shows in the status line.
func (a *Application) reload() {
	if a.layoutPath == "" {
		a.log.Debug("reload skipped: built-in layout")
		return
	}

	l, err := layout.Load(a.layoutPath)
	if err != nil {
		a.status.Err = "reload: " + err.Error()
		a.log.Error("layout reload failed", zap.Error(err))
		return
	}

	a.layout = l
	a.st.Reset()
	a.renderer.Preview().Reset()
	a.status.Err = ""
	a.log.Info("layout reloaded", zap.String("path", a.layoutPath))
}

// startWatcher begins watching the layout document. Changes set the
// reload flag and post a synthetic event so the blocked loop wakes up.
func (a *Application) startWatcher() error {
	w, err := layout.NewWatcher(a.layoutPath)
	if err != nil {
		return err
	}
	a.watcher = w

	go func() {
		for {
			select {
			case _, ok := <-w.Reloads():
				if !ok {
					return
				}
				a.pendingReload.Store(true)
				a.backend.PostEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyCtrlL})
			case err, ok := <-w.Errors():
				if !ok {
					return
				}
				a.log.Warn("layout watcher", zap.Error(err))
			}
		}
	}()
	return nil
}

func (a *Application) render() {
	a.renderer.Render(a.layout, a.st, a.status)
}
