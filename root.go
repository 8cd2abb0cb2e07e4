package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iburimskiy/particle-demo/internal/config"
	"github.com/iburimskiy/particle-demo/internal/effect"
	"github.com/iburimskiy/particle-demo/internal/game"
	"github.com/iburimskiy/particle-demo/internal/player"
	"github.com/iburimskiy/particle-demo/internal/settings"
)

const appName = "particle-demo"

// app holds what the commands share after flag parsing.
type app struct {
	configPath string
	terminal   bool
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   appName + " [track]",
		Short: "Particle animation that plays along with your music",
		Long: `particle-demo plays an audio file and runs a particle animation while
the music plays: a tunnel of rings that dissolves, bursts into orbiting
spheres, morphs into cubes and solids and folds back into the tunnel.

Keys: Space play/pause, O open, Up/Down volume, M mute, Esc/Q quit.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: a.run,
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", defaultConfigPath(), "path to the YAML config")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().BoolVarP(&a.terminal, "terminal", "t", false, "draw in the terminal instead of a window")

	cmd.AddCommand(newFrameCmd(a))
	return cmd
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, "config.yaml")
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.terminal {
		cfg.Render.Backend = config.BackendTerminal
	}
	a.cfg = cfg

	a.logger, err = newLogger(cfg, a.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// newLogger builds the zap logger. The terminal backend owns the screen,
// so its logs go to a file.
func newLogger(cfg *config.Config, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	zc.Level = level
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if cfg.Render.Backend == config.BackendTerminal {
		path := filepath.Join(os.TempDir(), appName+".log")
		zc.OutputPaths = []string{path}
		zc.ErrorOutputPaths = []string{path}
	}
	return zc.Build()
}

func (a *app) run(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		a.cfg.Audio.File = args[0]
	}

	// settings are optional; the store degrades to a no-op
	store, _ := settings.Open(appName, a.logger)

	p := player.New(player.Speaker(), player.Options{
		Loop:      a.cfg.Audio.Loop,
		Buffer:    a.cfg.Audio.Buffer,
		RingSize:  config.VisualRingSize,
		Smoothing: config.SmoothingFactor,
		Logger:    a.logger,
	})
	opts := effect.Options{
		Particles:     a.cfg.Animation.Particles,
		FadeRate:      a.cfg.Animation.FadeRate,
		TeardownDelay: a.cfg.Animation.TeardownDelay,
		AlphaScale:    a.cfg.Animation.AlphaScale,
		Workers:       a.cfg.Animation.Workers,
		Logger:        a.logger,
	}

	a.logger.Info("starting",
		zap.String("backend", a.cfg.Render.Backend),
		zap.Int("particles", opts.Particles))

	if a.cfg.Render.Backend == config.BackendTerminal {
		return a.runTerminal(cmd, p, store, opts)
	}
	return a.runWindow(p, store, opts)
}

func (a *app) runWindow(p *player.Player, store *settings.Store, opts effect.Options) error {
	g := game.NewGame(a.cfg, a.logger)
	s := game.NewSession(a.cfg, p, effect.New(g.SurfaceFactory(), opts), store, a.logger)
	defer s.Close()
	g.Bind(s)
	s.Restore()

	ebiten.SetWindowSize(a.cfg.Render.Width, a.cfg.Render.Height)
	ebiten.SetWindowTitle(config.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func (a *app) runTerminal(cmd *cobra.Command, p *player.Player, store *settings.Store, opts effect.Options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("%w: %v", effect.ErrSurfaceUnavailable, err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("%w: %v", effect.ErrSurfaceUnavailable, err)
	}
	defer screen.Fini()

	t := game.NewTerminal(screen, a.cfg.Render.FPS)
	s := game.NewSession(a.cfg, p, effect.New(t.SurfaceFactory(), opts), store, a.logger)
	defer s.Close()
	t.Bind(s)
	s.Restore()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return t.Run(ctx)
}
