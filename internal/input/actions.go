package input

import (
	"maps"
	"slices"
	"strconv"

	"github.com/dodorz/xroagwem/internal/app"
	"github.com/dodorz/xroagwem/internal/config"
)

// ActionHandler is a function that handles a specific action
type ActionHandler func(h *Handler, t Trigger)

// ActionDispatcher maps action names to handler functions
type ActionDispatcher struct {
	handlers map[string]ActionHandler
}

// NewActionDispatcher creates a new action dispatcher with all handlers registered
func NewActionDispatcher() *ActionDispatcher {
	d := &ActionDispatcher{
		handlers: make(map[string]ActionHandler),
	}
	d.registerHandlers()
	return d
}

// registerHandlers registers all action handlers
func (d *ActionDispatcher) registerHandlers() {
	// Window actions
	d.Register("focus_next", handleFocusNext)
	d.Register("focus_prev", handleFocusPrev)
	d.Register("close_window", handleCloseWindow)
	d.Register("toggle_fullscreen", handleToggleFullscreen)
	d.Register("toggle_floating", handleToggleFloating)

	// Workspaces (1-9)
	for i := 1; i <= config.MaxWorkspaces; i++ {
		n := strconv.Itoa(i)
		d.Register("switch_workspace_"+n, makeSwitchWorkspaceHandler(i-1))
		d.Register("move_to_workspace_"+n, makeMoveToWorkspaceHandler(i-1))
	}
	d.Register("switch_workspace_next", handleSwitchWorkspaceNext)
	d.Register("switch_workspace_prev", handleSwitchWorkspacePrev)
	d.Register("switch_workspace_last", handleSwitchWorkspaceLast)

	// Layout
	d.Register("split_grow", handleSplitGrow)
	d.Register("split_shrink", handleSplitShrink)

	// Floating windows
	d.Register("float_move_left", makeNudgeHandler(-1, 0))
	d.Register("float_move_right", makeNudgeHandler(1, 0))
	d.Register("float_move_up", makeNudgeHandler(0, -1))
	d.Register("float_move_down", makeNudgeHandler(0, 1))
	d.Register("float_grow_width", makeFloatResizeHandler(1, 0))
	d.Register("float_shrink_width", makeFloatResizeHandler(-1, 0))
	d.Register("float_grow_height", makeFloatResizeHandler(0, 1))
	d.Register("float_shrink_height", makeFloatResizeHandler(0, -1))

	// System
	d.Register(config.ActionSpawn, handleSpawn)
	d.Register("quit", handleQuit)

	// Pointer gestures
	d.Register(config.ActionMoveGrab, handleMoveGrab)
	d.Register(config.ActionResizeGrab, handleResizeGrab)
	d.Register(config.ActionDragMotion, (*Handler).dragMotion)
	d.Register(config.ActionDragReorder, (*Handler).dragReorder)
	d.Register(config.ActionDragRelease, (*Handler).dragRelease)
}

// Register adds an action handler
func (d *ActionDispatcher) Register(action string, handler ActionHandler) {
	d.handlers[action] = handler
}

// Dispatch runs the handler for action and reports whether one exists.
func (d *ActionDispatcher) Dispatch(action string, h *Handler, t Trigger) bool {
	handler, ok := d.handlers[action]
	if !ok {
		return false
	}
	handler(h, t)
	return true
}

// HasAction checks if an action is registered
func (d *ActionDispatcher) HasAction(action string) bool {
	_, ok := d.handlers[action]
	return ok
}

// Actions returns the registered action names in order.
func (d *ActionDispatcher) Actions() []string {
	return slices.Sorted(maps.Keys(d.handlers))
}

// ============================================================================
// Window Action Handlers
// ============================================================================

func handleFocusNext(h *Handler, _ Trigger) {
	h.wm.FocusNext()
}

func handleFocusPrev(h *Handler, _ Trigger) {
	h.wm.FocusPrevious()
}

func handleCloseWindow(h *Handler, _ Trigger) {
	h.wm.CloseActive()
}

func handleToggleFullscreen(h *Handler, _ Trigger) {
	h.wm.ToggleFullscreen()
}

func handleToggleFloating(h *Handler, _ Trigger) {
	h.wm.ToggleFloating()
}

// ============================================================================
// Workspace Action Handlers
// ============================================================================

func makeSwitchWorkspaceHandler(workspace int) ActionHandler {
	return func(h *Handler, _ Trigger) {
		h.wm.SwitchWorkspace(workspace)
	}
}

func makeMoveToWorkspaceHandler(workspace int) ActionHandler {
	return func(h *Handler, _ Trigger) {
		h.wm.MoveActiveToWorkspace(workspace)
	}
}

func handleSwitchWorkspaceNext(h *Handler, _ Trigger) {
	h.wm.SwitchToNextWorkspace()
}

func handleSwitchWorkspacePrev(h *Handler, _ Trigger) {
	h.wm.SwitchToPreviousWorkspace()
}

func handleSwitchWorkspaceLast(h *Handler, _ Trigger) {
	h.wm.SwitchToLastWorkspace()
}

// ============================================================================
// Layout Action Handlers
// ============================================================================

func handleSplitGrow(h *Handler, _ Trigger) {
	h.wm.AdjustSplit(h.splitStep)
}

func handleSplitShrink(h *Handler, _ Trigger) {
	h.wm.AdjustSplit(-h.splitStep)
}

func makeNudgeHandler(dx, dy int) ActionHandler {
	return func(h *Handler, _ Trigger) {
		h.wm.NudgeFloating(dx*h.floatStep, dy*h.floatStep)
	}
}

func makeFloatResizeHandler(dw, dh int) ActionHandler {
	return func(h *Handler, _ Trigger) {
		h.wm.ResizeFloating(dw*h.floatStep, dh*h.floatStep)
	}
}

// ============================================================================
// System Action Handlers
// ============================================================================

func handleSpawn(h *Handler, t Trigger) {
	if h.opts.Spawn == nil || t.Arg == "" {
		return
	}
	h.opts.Spawn(t.Arg)
}

func handleQuit(h *Handler, _ Trigger) {
	if h.opts.Quit != nil {
		h.wm.LogInfo("quit requested")
		h.opts.Quit()
	}
}

// ============================================================================
// Pointer Action Handlers
// ============================================================================

func handleMoveGrab(h *Handler, t Trigger) {
	h.beginGrab(t, app.GrabMove)
}

func handleResizeGrab(h *Handler, t Trigger) {
	h.beginGrab(t, app.GrabResize)
}
