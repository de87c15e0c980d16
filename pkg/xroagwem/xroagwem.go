// Package xroagwem runs the xroagwem tiling window manager.
//
// # Basic Usage
//
// Run the window manager on $DISPLAY until the context is cancelled or the
// quit binding is pressed:
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	if err := xroagwem.Run(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// # Custom Configuration
//
// Use options to override the user's config file:
//
//	err := xroagwem.Run(ctx,
//		xroagwem.WithDisplay(":1"),
//		xroagwem.WithTheme("dracula"),
//		xroagwem.WithGap(10),
//		xroagwem.WithBar(false),
//	)
package xroagwem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/charmbracelet/log"
	"github.com/dodorz/xroagwem/internal/app"
	"github.com/dodorz/xroagwem/internal/bar"
	"github.com/dodorz/xroagwem/internal/config"
	"github.com/dodorz/xroagwem/internal/input"
	"github.com/dodorz/xroagwem/internal/launch"
	"github.com/dodorz/xroagwem/internal/layout"
	"github.com/dodorz/xroagwem/internal/x11"
	"github.com/google/uuid"
	"golang.org/x/term"
)

// ErrAnotherWM is returned by Run when another window manager is running.
var ErrAnotherWM = x11.ErrAnotherWM

// Options configures a window manager session.
type Options struct {
	// Display is the X display to manage. Empty uses $DISPLAY.
	Display string

	// UserConfig replaces the config file. If nil, the user's config is
	// loaded, falling back to defaults.
	UserConfig *config.UserConfig

	// Logger receives all log output. If nil, one is built from the
	// config's log level.
	Logger *log.Logger

	// Theme is a bubbletint theme name overriding the configured colors.
	Theme string

	// Bar shows or hides the status bar. Nil keeps the config's setting.
	Bar *bool

	// Gap and Border override the layout. Negative values keep the config.
	Gap    int
	Border int

	// Debug forces debug logging.
	Debug bool
}

// Option is a functional option for configuring a session.
type Option func(*Options)

// WithDisplay sets the X display.
func WithDisplay(display string) Option {
	return func(o *Options) {
		o.Display = display
	}
}

// WithUserConfig sets a custom user configuration.
func WithUserConfig(cfg *config.UserConfig) Option {
	return func(o *Options) {
		o.UserConfig = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithTheme sets the color theme.
func WithTheme(name string) Option {
	return func(o *Options) {
		o.Theme = name
	}
}

// WithBar shows or hides the status bar.
func WithBar(enabled bool) Option {
	return func(o *Options) {
		o.Bar = &enabled
	}
}

// WithGap sets the gap around tiled windows.
func WithGap(px int) Option {
	return func(o *Options) {
		o.Gap = max(px, 0)
	}
}

// WithBorder sets the window border width.
func WithBorder(px int) Option {
	return func(o *Options) {
		o.Border = max(px, 0)
	}
}

// WithDebug enables debug logging.
func WithDebug(enabled bool) Option {
	return func(o *Options) {
		o.Debug = enabled
	}
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{Gap: -1, Border: -1}
}

func (o Options) overrides() config.Overrides {
	return config.Overrides{
		ThemeName: o.Theme,
		Gap:       o.Gap,
		Border:    o.Border,
		NoBar:     o.Bar != nil && !*o.Bar,
		Debug:     o.Debug,
	}
}

// LogFormat selects how NewLogger renders records.
type LogFormat string

const (
	// LogFormatAuto is text on a terminal and JSON otherwise.
	LogFormatAuto LogFormat = "auto"
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// NewLogger returns a logger writing to w at level.
func NewLogger(w io.Writer, level string, format LogFormat) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          config.AppName,
		Level:           lvl,
	})

	switch format {
	case LogFormatJSON:
		logger.SetFormatter(log.JSONFormatter)
	case LogFormatText:
		logger.SetFormatter(log.TextFormatter)
	default:
		if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
			logger.SetFormatter(log.JSONFormatter)
		}
	}
	return logger, nil
}

// Run manages the display until ctx is done, the quit binding is pressed or
// the X connection closes. SIGHUP reloads the colors from the config file.
func Run(ctx context.Context, opts ...Option) error {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	cfg := options.UserConfig
	loadErr := error(nil)
	if cfg == nil {
		cfg, loadErr = config.LoadUserConfig()
		if loadErr != nil {
			cfg = config.DefaultConfig()
		}
	}
	config.ApplyOverrides(options.overrides(), cfg)

	logger := options.Logger
	if logger == nil {
		var err error
		logger, err = NewLogger(os.Stderr, cfg.Log.Level, LogFormatAuto)
		if err != nil {
			return err
		}
	}
	id := uuid.NewString()
	logger = logger.With("session", id)
	if loadErr != nil {
		logger.Warn("failed to load config, using defaults", "err", loadErr)
	}

	s, err := newSession(options, cfg, logger, id)
	if err != nil {
		return err
	}
	defer s.close()
	return s.run(ctx)
}

// session is one connection's worth of collaborators.
type session struct {
	options  Options
	cfg      *config.UserConfig
	logger   *log.Logger
	conn     *x11.Conn
	server   *x11.Server
	wm       *app.WM
	launcher *launch.Launcher
	renderer *bar.Renderer
	barWin   *x11.BarWindow
}

func newSession(options Options, cfg *config.UserConfig, logger *log.Logger, id string) (*session, error) {
	conn, err := x11.Connect(options.Display, logger.WithPrefix("x11"))
	if err != nil {
		return nil, err
	}
	if err := conn.BecomeWM(); err != nil {
		conn.Close()
		return nil, err
	}

	s := &session{
		options:  options,
		cfg:      cfg,
		logger:   logger,
		conn:     conn,
		launcher: launch.New(options.Display, id, logger.WithPrefix("launch")),
	}

	screen := conn.Screen()
	bounds := screen
	palette := cfg.Palette()
	if cfg.Bar.Enabled {
		barRect, rest := splitBar(screen, cfg.Bar.Height)
		if err := s.createBar(barRect); err != nil {
			logger.Warn("bar disabled", "err", err)
		} else {
			bounds = rest
		}
	}

	s.server = x11.NewServer(conn, palette)
	s.wm = app.New(s.server, app.Options{
		Tags:         cfg.Workspaces.Tags,
		TilingOnly:   cfg.Workspaces.TilingOnly,
		Screen:       screen,
		Bounds:       bounds,
		Gap:          cfg.Layout.Gap,
		Border:       cfg.Layout.Border,
		SplitDefault: cfg.Layout.SplitDefault,
		SplitMargin:  cfg.Layout.SplitMargin,
		Logger:       logger,
	})
	return s, nil
}

// splitBar cuts a bar of height h off the top of screen.
func splitBar(screen layout.Rect, h int) (barRect, rest layout.Rect) {
	h = min(max(h, 1), screen.H-1)
	barRect = layout.Rect{X: screen.X, Y: screen.Y, W: screen.W, H: h}
	rest = layout.Rect{X: screen.X, Y: screen.Y + h, W: screen.W, H: screen.H - h}
	return barRect, rest
}

func (s *session) createBar(r layout.Rect) error {
	palette := s.cfg.Palette()
	renderer, err := bar.NewRenderer(r.H, s.cfg.Bar.Font, s.cfg.Bar.FontSize, palette)
	if err != nil {
		s.logger.Warn("using the built-in bar font", "err", err)
		renderer, err = bar.NewRenderer(r.H, "", 0, palette)
		if err != nil {
			return err
		}
	}
	win, err := s.conn.CreateBar(r)
	if err != nil {
		return err
	}
	s.renderer, s.barWin = renderer, win
	return nil
}

func (s *session) close() {
	if s.barWin != nil {
		s.barWin.Destroy()
	}
	s.conn.Close()
}

func (s *session) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keymap := s.conn.LoadKeymap()
	handler := input.NewHandler(s.wm, keymap, s.cfg, input.Options{
		Spawn: s.launcher.SpawnLogged,
		Quit:  cancel,
	})

	barOpts := x11.BarOptions{}
	if s.barWin != nil {
		ticker := bar.NewTicker(bar.SystemSampler{}, s.cfg.RefreshInterval(), s.logger.WithPrefix("bar"))
		go ticker.Run(ctx)
		barOpts = x11.BarOptions{
			Window:    s.barWin,
			Renderer:  s.renderer,
			Stats:     ticker.Redraw(),
			ShowStats: s.cfg.Bar.ShowStats,
		}
	}

	loop := x11.NewLoop(s.server, keymap, s.wm, handler, barOpts)
	loop.Grab()
	if err := s.conn.Announce(s.wm.Tags()); err != nil {
		s.logger.Warn("EWMH hints not published", "err", err)
	}

	existing, err := s.conn.TopLevel()
	if err != nil {
		s.logger.Warn("not adopting existing windows", "err", err)
	}
	s.wm.ManageExisting(toWindows(existing))
	s.wm.Retile()

	go s.launcher.Reap(ctx)
	if err := s.launcher.Autostart(s.cfg.Autostart.Commands); err != nil {
		s.logger.Warn("autostart failed", "err", err)
	}
	go s.reloadOnHangup(ctx, loop)

	s.logger.Info("managing display", "display", s.options.Display, "workspaces", len(s.wm.Workspaces))
	err = loop.Run(ctx)
	if errors.Is(err, x11.ErrConnectionClosed) {
		s.logger.Info("X server went away")
	}
	return err
}

// reloadOnHangup reapplies the config file's colors on SIGHUP.
func (s *session) reloadOnHangup(ctx context.Context, loop *x11.Loop) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
		}
		cfg, err := config.LoadUserConfig()
		if err != nil {
			s.logger.Warn("reload failed", "err", err)
			continue
		}
		config.ApplyOverrides(s.options.overrides(), cfg)
		palette := cfg.Palette()
		loop.Post(ctx, func() {
			s.server.SetPalette(palette)
			if s.renderer != nil {
				s.renderer.SetPalette(palette)
			}
			s.wm.Retile()
			s.logger.Info("colors reloaded")
		})
	}
}

func toWindows(ws []xproto.Window) []app.Window {
	out := make([]app.Window, len(ws))
	for i, w := range ws {
		out[i] = app.Window(w)
	}
	return out
}

// Config re-exports the config package for customization.
// This allows users to access configuration types without importing internal packages.
var Config = struct {
	// LoadUserConfig loads the user's configuration file.
	LoadUserConfig func() (*config.UserConfig, error)
	// DefaultConfig returns the default configuration.
	DefaultConfig func() *config.UserConfig
	// GetConfigPath returns the path to the configuration file.
	GetConfigPath func() (string, error)
}{
	LoadUserConfig: config.LoadUserConfig,
	DefaultConfig:  config.DefaultConfig,
	GetConfigPath:  config.GetConfigPath,
}
