// Package cmd provides the CLI interface for fyi.
// It parses command-line arguments and dispatches to the programs in app.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/andpalmier/fyi/internal/app"
	"github.com/andpalmier/fyi/internal/config"
	"github.com/andpalmier/fyi/internal/logging"
	"github.com/andpalmier/fyi/internal/msg"
	"github.com/andpalmier/fyi/internal/term"
	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const appName = "fyi"

// Execute runs the CLI application and returns an exit code.
func Execute(version, commit, date string) int {
	root := newRootCommand(version, commit, date)

	err := root.Run(context.Background(), os.Args)
	if err == nil {
		return 0
	}

	var exit cli.ExitCoder
	if errors.As(err, &exit) {
		if s := exit.Error(); s != "" {
			fmt.Fprintln(os.Stderr, s)
		}
		return exit.ExitCode()
	}

	_ = msg.New(msg.Error, err.Error()).WithNewline(true).Print(os.Stderr)
	return 1
}

func newRootCommand(version, commit, date string) *cli.Command {
	return &cli.Command{
		Name:    appName,
		Usage:   "Print status messages and run progress demos",
		Version: versionString(version, commit, date),
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Number of parallel workers (default: number of CPUs)",
			},
			&cli.DurationFlag{
				Name:  "tick-rate",
				Usage: "How often the progress bar repaints",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Print messages without ANSI colors",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Write debug logs to this file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
			&cli.StringFlag{
				Name:  "sigint",
				Usage: "Ctrl+C behavior: default, two-strike, keepalive",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress the startup banner",
			},
		},
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Commands:       commands(),
	}
}

func commands() []*cli.Command {
	var cmds []*cli.Command
	for _, kind := range msg.Kinds() {
		cmds = append(cmds, messageCommand(kind))
	}

	return append(cmds,
		&cli.Command{
			Name:      "print",
			Usage:     "Print a message with a custom prefix",
			ArgsUsage: "<message>",
			Flags: append(messageFlags(),
				&cli.StringFlag{
					Name:    "prefix",
					Aliases: []string{"p"},
					Usage:   "Prefix label, printed with a trailing colon",
				},
				&cli.IntFlag{
					Name:    "color",
					Aliases: []string{"c"},
					Value:   int64(color.FgHiMagenta),
					Usage:   "SGR color code for the prefix",
				},
			),
			Action: func(ctx context.Context, c *cli.Command) error {
				if _, err := loadConfig(c); err != nil {
					return err
				}
				text := strings.Join(c.Args().Slice(), " ")

				m := msg.Plain(text)
				if prefix := c.String("prefix"); prefix != "" {
					m = msg.Custom(prefix, color.Attribute(c.Int("color")), text)
				}
				return printMessage(c, m)
			},
		},
		&cli.Command{
			Name:  "blank",
			Usage: "Print empty lines",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "count",
					Aliases: []string{"c"},
					Value:   1,
					Usage:   "Number of lines",
				},
				&cli.BoolFlag{
					Name:  "stderr",
					Usage: "Print to stderr instead of stdout",
				},
			},
			Action: func(ctx context.Context, c *cli.Command) error {
				out := os.Stdout
				if c.Bool("stderr") {
					out = os.Stderr
				}
				return app.Blank(out, int(c.Int("count")))
			},
		},
		&cli.Command{
			Name:  "demo",
			Usage: "Run a simulated parallel workload under a progress bar",
			Flags: []cli.Flag{
				&cli.DurationFlag{
					Name:  "rate",
					Value: 1500 * time.Microsecond,
					Usage: "Simulated time per year of each empire's lifetime",
				},
				&cli.IntFlag{
					Name:  "numbers",
					Value: 500,
					Usage: "Size of the second phase",
				},
			},
			Action: func(ctx context.Context, c *cli.Command) error {
				ctx, cfg, cleanup, err := setup(ctx, c)
				if err != nil {
					return err
				}
				defer cleanup()

				return app.Demo(ctx, app.DemoConfig{
					Config:   cfg,
					YearRate: c.Duration("rate"),
					Numbers:  int(c.Int("numbers")),
				})
			},
		},
		&cli.Command{
			Name:      "hash",
			Usage:     "Hash every file in a directory with xxhash64",
			ArgsUsage: "<directory>",
			Action: func(ctx context.Context, c *cli.Command) error {
				if c.Args().Len() != 1 {
					return errors.New("a directory is required")
				}

				ctx, cfg, cleanup, err := setup(ctx, c)
				if err != nil {
					return err
				}
				defer cleanup()

				_, err = app.Hash(ctx, cfg, c.Args().First())
				return err
			},
		},
		&cli.Command{
			Name:  "pipe",
			Usage: "Copy stdin to stdout, counting bytes on stderr",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "size",
					Value: -1,
					Usage: "Expected input size in bytes (-1 if unknown)",
				},
			},
			Action: func(ctx context.Context, c *cli.Command) error {
				ctx, cfg, cleanup, err := setup(ctx, c)
				if err != nil {
					return err
				}
				defer cleanup()

				n, err := app.Pipe(ctx, cfg, os.Stdin, c.Int("size"))
				cfg.Logger.Debug("pipe finished", zap.Int64("bytes", n))
				return err
			},
		},
	)
}

func messageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "indent",
			Aliases: []string{"i"},
			Usage:   "Indent the message by this many levels (4 spaces each)",
		},
		&cli.BoolFlag{
			Name:    "timestamp",
			Aliases: []string{"t"},
			Usage:   "Append a timestamp",
		},
		&cli.BoolFlag{
			Name:  "stderr",
			Usage: "Print to stderr instead of stdout",
		},
		&cli.IntFlag{
			Name:    "exit",
			Aliases: []string{"e"},
			Usage:   "Exit with this status code after printing",
		},
	}
}

// messageCommand builds the "fyi <kind> <message>" command for kind.
func messageCommand(kind msg.Kind) *cli.Command {
	c := &cli.Command{
		Name:      strings.ToLower(kind.String()),
		Usage:     fmt.Sprintf("Print a %q message", kind.String()),
		ArgsUsage: "<message>",
		Flags:     messageFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if _, err := loadConfig(c); err != nil {
				return err
			}
			return printMessage(c, msg.New(kind, strings.Join(c.Args().Slice(), " ")))
		},
	}

	if kind == msg.Confirm {
		c.Aliases = []string{"prompt"}
		c.Usage = "Ask a yes/no question; exits 1 unless the answer is yes"
	}
	return c
}

// printMessage applies the shared message flags to m and prints it.
func printMessage(c *cli.Command, m msg.Msg) error {
	m = m.WithIndent(int(c.Int("indent"))).WithTimestamp(c.Bool("timestamp"))

	out := os.Stdout
	if c.Bool("stderr") {
		out = os.Stderr
	}

	if m.Kind() == msg.Confirm {
		ok, err := app.Confirm(os.Stdin, out, m)
		if err != nil {
			return err
		}
		if !ok {
			return cli.Exit("", 1)
		}
		return nil
	}

	if err := app.Print(out, m); err != nil {
		return err
	}
	if code := c.Int("exit"); code != 0 {
		return cli.Exit("", int(code))
	}
	return nil
}

// loadConfig merges defaults, FYI_* variables and command-line flags.
func loadConfig(c *cli.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if c.IsSet("workers") && c.Int("workers") > 0 {
		cfg.Workers = int(c.Int("workers"))
	}
	if c.IsSet("tick-rate") && c.Duration("tick-rate") > 0 {
		cfg.TickRate = c.Duration("tick-rate")
	}
	if c.Bool("no-color") {
		cfg.NoColor = true
	}
	if c.IsSet("log-file") {
		cfg.LogFile = c.String("log-file")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("sigint") {
		policy, err := term.ParsePolicy(c.String("sigint"))
		if err != nil {
			return nil, err
		}
		cfg.Sigint = policy
	}

	if cfg.NoColor {
		color.NoColor = true
	}
	return cfg, nil
}

// setup prepares a long-running program: configuration, logging and the SIGINT
// policy. The returned context is cancelled on SIGTERM, and on SIGINT when the
// policy says so.
func setup(ctx context.Context, c *cli.Command) (context.Context, app.Config, func(), error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return ctx, app.Config{}, nil, err
	}

	logger, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return ctx, app.Config{}, nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	shutdown := term.Interrupts(cfg.Sigint, os.Stderr, cancel)
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM)

	logger.Debug("starting",
		zap.String("command", c.Name),
		zap.Int("workers", cfg.Workers),
		zap.Duration("tick_rate", cfg.TickRate))

	cleanup := func() {
		stop()
		cancel()
		_ = logger.Sync()
	}

	return ctx, app.Config{
		Workers:  cfg.Workers,
		TickRate: cfg.TickRate,
		Logger:   logger,
		Shutdown: shutdown,
		Quiet:    c.Bool("quiet"),
	}, cleanup, nil
}

// versionString formats the build information for --version.
func versionString(version, commit, date string) string {
	s := version
	if commit != "none" {
		s += ", commit " + commit
	}
	if date != "unknown" {
		s += ", built " + date
	}
	return s
}
