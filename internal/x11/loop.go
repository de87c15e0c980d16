package x11

import (
	"context"
	"errors"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/dodorz/xroagwem/internal/app"
	"github.com/dodorz/xroagwem/internal/bar"
	"github.com/dodorz/xroagwem/internal/input"
)

// ErrConnectionClosed is returned by Run when the X server goes away.
var ErrConnectionClosed = errors.New("connection to X server closed")

type eventOrError struct {
	event xgb.Event
	err   xgb.Error
}

// BarOptions attaches a bar to a loop.
type BarOptions struct {
	Window   *BarWindow
	Renderer *bar.Renderer
	// Stats delivers new samples. Each one redraws the bar.
	Stats     <-chan bar.Stats
	ShowStats bool
}

// Loop is the single goroutine that owns the window manager state. X events,
// closures queued with Post and bar redraw requests are all handled on it.
type Loop struct {
	server *Server
	keymap *Keymap
	wm     *app.WM
	input  *input.Handler
	bar    BarOptions

	proactive chan func()
	stats     bar.Stats
	dirty     bool
	barDirty  bool
}

// NewLoop wires wm and h to the server. It takes over wm.OnChange.
func NewLoop(s *Server, keymap *Keymap, wm *app.WM, h *input.Handler, b BarOptions) *Loop {
	l := &Loop{
		server:    s,
		keymap:    keymap,
		wm:        wm,
		input:     h,
		bar:       b,
		proactive: make(chan func()),
		dirty:     true,
	}
	wm.OnChange = func() { l.dirty = true }
	return l
}

// Post runs f on the loop goroutine. It blocks until the loop accepts f or
// ctx is done.
func (l *Loop) Post(ctx context.Context, f func()) bool {
	select {
	case l.proactive <- f:
		return true
	case <-ctx.Done():
		return false
	}
}

// Grab installs the key and button grabs of the input handler.
func (l *Loop) Grab() {
	l.server.GrabKeys(l.input.KeyGrabs())
	l.server.GrabButtons(l.input.ButtonGrabs())
	l.server.Flush()
}

// Run handles events until ctx is done or the connection closes.
func (l *Loop) Run(ctx context.Context) error {
	events := make(chan eventOrError)
	go func() {
		for {
			ev, err := l.server.conn.WaitForEvent()
			select {
			case events <- eventOrError{ev, err}:
			case <-ctx.Done():
				return
			}
			if ev == nil && err == nil {
				return
			}
		}
	}()

	for {
		l.server.Flush()
		l.refresh()

		select {
		case <-ctx.Done():
			return nil
		case f := <-l.proactive:
			f()
		case s := <-l.bar.Stats:
			l.stats = s
			l.barDirty = true
		case ee := <-events:
			if ee.event == nil && ee.err == nil {
				return ErrConnectionClosed
			}
			if ee.err != nil {
				l.server.logger.Debug("X error", "err", ee.err)
				continue
			}
			l.handle(ee.event)
		}
	}
}

// refresh publishes state that changed while handling the last event.
func (l *Loop) refresh() {
	if l.dirty {
		l.dirty = false
		l.barDirty = true
		l.server.Publish(l.wm.Active.Workspace, l.clients())
	}
	if l.barDirty && l.bar.Window != nil {
		l.barDirty = false
		img := l.bar.Renderer.Render(l.bar.Window.Rect().W, l.snapshot())
		if err := l.bar.Window.Paint(img); err != nil {
			l.server.logger.Warn("bar paint failed", "err", err)
		}
	}
}

func (l *Loop) snapshot() bar.Snapshot {
	return bar.SnapshotOf(l.wm, l.stats, l.bar.ShowStats)
}

func (l *Loop) clients() []xproto.Window {
	var out []xproto.Window
	for _, ws := range l.wm.Workspaces {
		for _, w := range ws.Windows {
			out = append(out, xproto.Window(w))
		}
	}
	return out
}

func (l *Loop) handle(ev xgb.Event) {
	switch e := ev.(type) {
	case xproto.KeyPressEvent:
		l.server.SetTime(e.Time)
		l.input.HandleKeyPress(input.Event{
			Code:  uint8(e.Detail),
			State: e.State,
			X:     int(e.RootX),
			Y:     int(e.RootY),
		})
	case xproto.ButtonPressEvent:
		l.server.SetTime(e.Time)
		if l.bar.Window != nil && e.Event == l.bar.Window.ID() {
			l.clickBar(int(e.EventX))
			return
		}
		l.input.HandleButtonPress(l.pointerEvent(e))
	case xproto.ButtonReleaseEvent:
		l.server.SetTime(e.Time)
		l.input.HandleButtonRelease(l.pointerEvent(xproto.ButtonPressEvent(e)))
	case xproto.MotionNotifyEvent:
		l.server.SetTime(e.Time)
		l.input.HandleMotion(input.Event{
			Window: l.pointerWindow(e.Event, e.Child),
			State:  e.State,
			X:      int(e.RootX),
			Y:      int(e.RootY),
		})
	case xproto.EnterNotifyEvent:
		l.server.SetTime(e.Time)
		if !focusCrossing(e) {
			return
		}
		l.input.HandleEnter(input.Event{
			Window: app.Window(e.Event),
			State:  e.State,
			X:      int(e.RootX),
			Y:      int(e.RootY),
		})
	case xproto.MapRequestEvent:
		l.wm.HandleMapRequest(app.Window(e.Window))
	case xproto.UnmapNotifyEvent:
		if clientUnmap(e, l.server.root) {
			l.wm.HandleUnmapNotify(app.Window(e.Window))
		}
	case xproto.DestroyNotifyEvent:
		if e.Event == e.Window {
			l.wm.HandleDestroyNotify(app.Window(e.Window))
		}
	case xproto.ConfigureRequestEvent:
		if !l.wm.HandleConfigureRequest(configureRequest(e)) {
			l.server.ForwardConfigure(e)
		}
	case xproto.MappingNotifyEvent:
		if e.Request == xproto.MappingKeyboard || e.Request == xproto.MappingModifier {
			l.keymap.Refresh()
			l.Grab()
		}
	case xproto.ExposeEvent:
		if l.bar.Window != nil && e.Window == l.bar.Window.ID() && e.Count == 0 {
			l.barDirty = true
		}
	default:
		// ConfigureNotify, MapNotify, PropertyNotify and the like.
	}
}

// clientUnmap reports whether an UnmapNotify is about a client window: the
// client's own StructureNotify copy, or the synthetic event ICCCM clients send
// to the root when they withdraw a window that is already unmapped. The root
// does not select SubstructureNotify, so anything reported there is synthetic.
func clientUnmap(e xproto.UnmapNotifyEvent, root xproto.Window) bool {
	return e.Event == e.Window || e.Event == root
}

func (l *Loop) clickBar(x int) {
	if i := l.bar.Renderer.TagAt(l.snapshot(), x); i >= 0 {
		l.wm.SwitchWorkspace(i)
	}
}

// pointerWindow is the client under the pointer: the event window, or its
// child when the event was reported on the root.
func (l *Loop) pointerWindow(event, child xproto.Window) app.Window {
	if event == l.server.root {
		return app.Window(child)
	}
	return app.Window(event)
}

func (l *Loop) pointerEvent(e xproto.ButtonPressEvent) input.Event {
	return input.Event{
		Window: l.pointerWindow(e.Event, e.Child),
		Button: uint8(e.Detail),
		State:  e.State,
		X:      int(e.RootX),
		Y:      int(e.RootY),
	}
}

// focusCrossing reports whether an EnterNotify should move focus: only
// real pointer motion into a window, not grabs or moves between a window
// and its own subwindows.
func focusCrossing(e xproto.EnterNotifyEvent) bool {
	return e.Mode == xproto.NotifyModeNormal && e.Detail != xproto.NotifyDetailInferior
}
