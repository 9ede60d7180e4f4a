package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/alecthomas/kingpin/v2"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/hyperconf/hyperconf/internal/application"
	"github.com/hyperconf/hyperconf/internal/config"
	"github.com/hyperconf/hyperconf/internal/logging"
	"github.com/hyperconf/hyperconf/internal/source"
	"github.com/hyperconf/hyperconf/internal/termconfig"
)

var signalNotify = signal.Notify

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type cli struct {
	app *kingpin.Application

	configPath string
	strict     bool
	strictSet  bool
	logLevel   string

	check *kingpin.CmdClause

	show       *kingpin.CmdClause
	showFormat string

	defaults       *kingpin.CmdClause
	defaultsFormat string
	defaultsList   bool

	watch       *kingpin.CmdClause
	reloadRPS   float64
	reloadBurst int
	watchFile   bool
}

func newCLI(stderr io.Writer) *cli {
	c := &cli{}
	c.app = kingpin.New("hyperconf", "Terminal configuration loader - validates, defaults and serves the Hyper configuration document")
	c.app.UsageWriter(stderr)
	c.app.ErrorWriter(stderr)

	c.app.Flag("config", "Path to the configuration document (default: ~/.hyper.yaml)").Short('c').StringVar(&c.configPath)
	c.app.Flag("strict", "Reject unrecognized options instead of passing them through").IsSetByUser(&c.strictSet).BoolVar(&c.strict)
	c.app.Flag("log-level", "Log level (debug, info, warn, error)").StringVar(&c.logLevel)

	c.check = c.app.Command("check", "Validate the configuration document and report every problem")

	c.show = c.app.Command("show", "Print the normalized configuration")
	c.show.Flag("format", "Output format").Default("yaml").EnumVar(&c.showFormat, "yaml", "toml")

	c.defaults = c.app.Command("defaults", "Print the default configuration")
	c.defaults.Flag("format", "Output format").Default("yaml").EnumVar(&c.defaultsFormat, "yaml", "toml")
	c.defaults.Flag("list", "List recognized options with their types").BoolVar(&c.defaultsList)

	c.watch = c.app.Command("watch", "Keep the configuration loaded and reload it on SIGHUP or file changes")
	c.watch.Flag("reload-rps", "Reloads per second allowed (set 0 to disable throttling)").Default("-1").Float64Var(&c.reloadRPS)
	c.watch.Flag("reload-burst", "Burst capacity for the reload limiter").Default("-1").IntVar(&c.reloadBurst)
	c.watch.Flag("watch-file", "Reload when the document changes on disk").Default("true").BoolVar(&c.watchFile)

	return c
}

func (c *cli) overrides() *config.CLIOverrides {
	overrides := &config.CLIOverrides{
		Path:     &c.configPath,
		LogLevel: &c.logLevel,
	}
	if c.strictSet {
		overrides.Strict = &c.strict
	}
	if c.reloadRPS >= 0 {
		overrides.ReloadRPS = &c.reloadRPS
	}
	if c.reloadBurst >= 0 {
		overrides.ReloadBurst = &c.reloadBurst
	}
	return overrides
}

func run(args []string, stdout, stderr io.Writer) int {
	c := newCLI(stderr)
	command, err := c.app.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "hyperconf: %v\n", err)
		return 2
	}
	fsys := afero.NewOsFs()
	cfg, err := config.Load(fsys, c.overrides())
	if err != nil {
		fmt.Fprintf(stderr, "hyperconf: failed to load settings: %v\n", err)
		return 2
	}

	switch command {
	case c.check.FullCommand():
		return runCheck(fsys, cfg, stdout)
	case c.show.FullCommand():
		return runShow(fsys, cfg, c.showFormat, stdout, stderr)
	case c.defaults.FullCommand():
		return runDefaults(c.defaultsFormat, c.defaultsList, stdout, stderr)
	case c.watch.FullCommand():
		return runWatch(cfg, c.watchFile, stderr)
	default:
		fmt.Fprintf(stderr, "hyperconf: unknown command %q\n", command)
		return 2
	}
}

func runCheck(fsys afero.Fs, cfg config.Config, stdout io.Writer) int {
	res, err := source.New(fsys, cfg.Path, cfg.Strict).Load()
	if err != nil {
		reportIssues(stdout, cfg.Path, err)
		return 1
	}
	if !res.Found {
		fmt.Fprintf(stdout, "%s: not found, defaults apply\n", res.Path)
		return 0
	}
	fmt.Fprintf(stdout, "%s: ok\n", res.Path)
	for _, key := range sortedExtra(res.Config.Extra) {
		fmt.Fprintf(stdout, "  passed through unrecognized option %s\n", key)
	}
	return 0
}

func runShow(fsys afero.Fs, cfg config.Config, format string, stdout, stderr io.Writer) int {
	res, err := source.New(fsys, cfg.Path, cfg.Strict).Load()
	if err != nil {
		reportIssues(stderr, cfg.Path, err)
		return 1
	}
	return writeDocument(res.Config, format, stdout, stderr)
}

func runDefaults(format string, list bool, stdout, stderr io.Writer) int {
	if !list {
		return writeDocument(termconfig.Defaults(), format, stdout, stderr)
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OPTION\tTYPE\tDEFAULT")
	for _, opt := range termconfig.Options() {
		fmt.Fprintf(tw, "%s\t%s\t%v\n", opt.Name, opt.Type, opt.Default)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(stderr, "hyperconf: %v\n", err)
		return 1
	}
	return 0
}

func runWatch(cfg config.Config, watchFile bool, stderr io.Writer) int {
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "hyperconf: failed to initialize logger: %v\n", err)
		return 2
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger,
		application.WithFileWatch(watchFile),
		application.WithSubscriber(func(tc termconfig.Configuration) {
			logger.Info("configuration handed to host",
				zap.Int("fontSize", tc.FontSize),
				zap.String("shell", tc.Shell),
				zap.Strings("plugins", tc.Plugins),
			)
		}),
	)
	if err != nil {
		logger.Error("failed to initialize application", zap.Error(err))
		return 1
	}

	if _, err := app.Load(); err != nil {
		logger.Error("failed to load configuration", zap.Error(err))
		return 1
	}

	ctx, cancel := shutdownContext(context.Background(), logger)
	defer cancel()

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("reload loop stopped", zap.Error(err))
		return 1
	}
	return 0
}

// shutdownContext returns a context cancelled on SIGINT or SIGTERM.
func shutdownContext(parent context.Context, logger *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-quit:
			logger.Info("shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

func writeDocument(cfg termconfig.Configuration, format string, stdout, stderr io.Writer) int {
	f, err := termconfig.ParseFormat(format)
	if err != nil {
		fmt.Fprintf(stderr, "hyperconf: %v\n", err)
		return 2
	}
	out, err := termconfig.Marshal(cfg, f)
	if err != nil {
		fmt.Fprintf(stderr, "hyperconf: %v\n", err)
		return 1
	}
	if _, err := stdout.Write(out); err != nil {
		fmt.Fprintf(stderr, "hyperconf: %v\n", err)
		return 1
	}
	return 0
}

func sortedExtra(extra map[string]any) []string {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func reportIssues(w io.Writer, path string, err error) {
	issues := termconfig.Issues(err)
	fmt.Fprintf(w, "%s: %d problem(s)\n", path, len(issues))
	for _, issue := range issues {
		fmt.Fprintf(w, "  %v\n", issue)
	}
}
