package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/mmcdole/hackboard/internal/adapter"
	"github.com/mmcdole/hackboard/internal/assets"
	"github.com/mmcdole/hackboard/internal/catalog"
	"github.com/mmcdole/hackboard/internal/domain"
	"github.com/mmcdole/hackboard/internal/eventloop"
	"github.com/mmcdole/hackboard/internal/store"
	"github.com/mmcdole/hackboard/internal/tui"
	"github.com/mmcdole/hackboard/internal/visibility"
)

// Version is set at build time via -ldflags
var Version = "dev"

// Globals are flags shared by every command
type Globals struct {
	ConfigFile string `name:"config" short:"c" help:"Config file (default ~/.config/hackboard/config.yaml)" type:"path"`
}

// CLI defines the command-line interface for hackboard.
var CLI struct {
	Globals

	Run     RunCmd      `cmd:"" default:"1" help:"Open the dashboard (default)"`
	Render  RenderCmd   `cmd:"" help:"Render one settled frame to stdout without a terminal"`
	Search  SearchCmd   `cmd:"" help:"Find achievements by title"`
	Cache   CacheGroup  `cmd:"" help:"Badge frame cache"`
	Config  ConfigGroup `cmd:"" help:"Configuration file"`
	Version VersionCmd  `cmd:"" help:"Print version information"`
}

// CacheGroup contains cache maintenance operations.
type CacheGroup struct {
	Clear CacheClearCmd `cmd:"" help:"Remove cached badge frames"`
}

// ConfigGroup contains configuration operations.
type ConfigGroup struct {
	Init ConfigInitCmd `cmd:"" help:"Write a config file with every default"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("hackboard"),
		kong.Description("Terminal dashboard for hackathon achievements and events."),
		kong.UsageOnError(),
	)
	if err := ctx.Run(&CLI.Globals); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and the file logger. Logging failures fall back
// to a null logger; the returned closer is always safe to call.
func setup(g *Globals) (*adapter.Config, *slog.Logger, io.Closer, error) {
	cfg, err := adapter.LoadConfig(g.ConfigFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		logger, closer = adapter.NullLogger(), nopCloser{}
	}
	slog.SetDefault(logger)
	return cfg, logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openFrames opens the configured frame cache, degrading to memory only.
func openFrames(cfg *adapter.Config, logger *slog.Logger) *store.FrameStore {
	frames, err := store.NewFrameStore(cfg.CacheDir(), cfg.Cache.MaxAge)
	if err != nil {
		logger.Warn("frame cache unavailable, using memory", "dir", cfg.CacheDir(), "error", err)
		frames, _ = store.NewFrameStore("", cfg.Cache.MaxAge)
	}
	return frames
}

// RunCmd opens the interactive dashboard.
type RunCmd struct{}

func (c *RunCmd) Run(g *Globals) error {
	cfg, logger, closer, err := setup(g)
	if err != nil {
		return err
	}
	defer closer.Close()

	logger.Info("starting hackboard", "version", Version)

	frames := openFrames(cfg, logger)
	defer frames.Close()

	observer, err := visibility.Detect(os.Stdout.Fd(), logger)
	if err != nil && !errors.Is(err, visibility.ErrObserverUnavailable) {
		return err
	}

	loop := eventloop.NewTeaLoop(logger)
	defer loop.Close()

	opts := catalog.DefaultOptions()
	opts.Latency = cfg.Feed.Latency
	cat := catalog.New(opts, logger)

	model := tui.NewModel(tui.Deps{
		Achievements: cat,
		Events:       cat,
		Observer:     observer,
		Loop:         loop,
		Fetcher:      assets.NewFetcher(frames, cfg.Images.Width, cfg.Images.Height, cfg.Images.Latency, logger),
		Config:       cfg,
		Logger:       logger,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// RenderCmd settles the dashboard on a deterministic loop with every target
// treated as visible, then prints the frame.
type RenderCmd struct {
	Width  int    `default:"100" help:"Frame width in cells"`
	Height int    `default:"40" help:"Frame height in cells"`
	Page   string `enum:"achievements,calendar" default:"achievements" help:"Page to render"`
	Plain  bool   `help:"Strip colors"`
}

func (c *RenderCmd) Run(g *Globals) error {
	cfg, logger, closer, err := setup(g)
	if err != nil {
		return err
	}
	defer closer.Close()
	cfg.UI.DefaultPage = c.Page

	frames := openFrames(cfg, logger)
	defer frames.Close()

	// Latency only matters on screen
	opts := catalog.DefaultOptions()
	opts.Latency = 0
	cat := catalog.New(opts, logger)

	q := eventloop.NewQueue()
	model := tui.NewModel(tui.Deps{
		Achievements: cat,
		Events:       cat,
		Observer:     visibility.NewEagerObserver(logger),
		Loop:         q,
		Fetcher:      assets.NewFetcher(frames, cfg.Images.Width, cfg.Images.Height, 0, logger),
		Config:       cfg,
		Logger:       logger,
	})
	defer model.Close()

	model, view := tui.Snapshot(model, q, c.Width, c.Height)
	logger.Info("rendered snapshot", "page", c.Page, "cards", model.Feed.Len())

	if c.Plain {
		view = ansi.Strip(view)
	}
	_, err = fmt.Fprintln(os.Stdout, view)
	return err
}

// SearchCmd ranks every achievement title against a query, including
// records the feed has not paged in.
type SearchCmd struct {
	Query string `arg:"" help:"Title to look for"`
	Limit int    `default:"10" help:"Maximum results (0 = all)"`
}

func (c *SearchCmd) Run(g *Globals) error {
	_, logger, closer, err := setup(g)
	if err != nil {
		return err
	}
	defer closer.Close()

	results := catalog.New(catalog.DefaultOptions(), logger).Search(c.Query)
	if len(results) == 0 {
		return fmt.Errorf("%w: nothing matches %q", domain.ErrNotFound, c.Query)
	}
	if c.Limit > 0 && len(results) > c.Limit {
		results = results[:c.Limit]
	}

	for _, a := range results {
		status := "locked"
		if a.Earned() {
			status = "earned " + a.EarnedAt.Format("Jan 2 15:04")
		}
		fmt.Printf("%-24s %-20s %s\n", a.Title, a.Subtitle(), status)
	}
	return nil
}

// CacheClearCmd empties the frame cache.
type CacheClearCmd struct {
	All bool `help:"Delete the cache directory instead of emptying the store"`
}

func (c *CacheClearCmd) Run(g *Globals) error {
	cfg, logger, closer, err := setup(g)
	if err != nil {
		return err
	}
	defer closer.Close()

	if c.All {
		if err := adapter.ClearCache(cfg); err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", cfg.Cache.Dir)
		return nil
	}

	frames, err := store.NewFrameStore(cfg.CacheDir(), cfg.Cache.MaxAge)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer frames.Close()

	n := frames.Len()
	if err := frames.Clear(); err != nil {
		return err
	}
	logger.Info("cache cleared", "frames", n)
	fmt.Printf("Cleared %d cached frames\n", n)
	return nil
}

// ConfigInitCmd writes the default configuration.
type ConfigInitCmd struct {
	Force bool `help:"Overwrite an existing file"`
}

func (c *ConfigInitCmd) Run(g *Globals) error {
	path := g.ConfigFile
	if path == "" {
		path = adapter.DefaultConfigFile()
	}
	if _, err := os.Stat(path); err == nil && !c.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := adapter.SaveConfig(adapter.DefaultConfig(), path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("hackboard %s\n", Version)
	return nil
}
