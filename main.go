// doxytags generates a Doxygen tag file linking .NET framework types to their
// online API documentation, from reflected assembly snapshots.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/phobologic/doxytags/internal/config"
	"github.com/phobologic/doxytags/internal/errors"
	"github.com/phobologic/doxytags/internal/logger"
	"github.com/phobologic/doxytags/internal/pipeline"
	"github.com/phobologic/doxytags/internal/progress"
	"github.com/phobologic/doxytags/internal/watch"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

// cli holds what every subcommand shares.
type cli struct {
	v          *viper.Viper
	configPath string
	stdout     io.Writer
	stderr     io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{v: config.New(), stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "doxytags [snapshot files or directories...]",
		Short: "Generate a Doxygen tag file for .NET API documentation",
		Long: `doxytags reads reflected assembly snapshots (.json, .yaml, .yml), selects and
orders the assemblies, and writes a Doxygen tag file whose references point at
the online .NET API documentation.

Without --output the tag file is written to stdout. With --output it is
written atomically and the matching TAGFILES entry is printed.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := c.load(args)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return c.generate(cmd.Context(), cfg, log)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default ./doxytags.yaml if present)")
	flags.StringP("output", "o", "", "tag file to write (default stdout)")
	flags.StringP("framework", "f", config.DefaultVersion, "framework version used in documentation links (major.minor)")
	flags.String("url-base", config.DefaultURLBase, "documentation base URL for the TAGFILES entry")
	flags.String("view-prefix", config.DefaultViewPrefix, "prefix of the documentation view token")
	flags.StringSlice("exclude", nil, "gitignore-style patterns of snapshots to skip (replaces the defaults)")
	flags.String("company", config.DefaultCompany, "only document assemblies from this company (empty for any)")
	flags.Bool("system-only", true, "only document system-provided assemblies")
	flags.Bool("progress", false, "draw a progress bar on stderr")
	flags.Bool("log-json", false, "log as JSON")
	flags.String("log-level", "info", "log level: debug, info, warn, error")

	for key, name := range map[string]string{
		"output":             "output",
		"version":            "framework",
		"url_base":           "url-base",
		"view_prefix":        "view-prefix",
		"exclude":            "exclude",
		"select.company":     "company",
		"select.system_only": "system-only",
		"progress":           "progress",
		"log.json":           "log-json",
		"log.level":          "log-level",
	} {
		_ = c.v.BindPFlag(key, flags.Lookup(name))
	}

	root.AddCommand(newInitCmd(c), newWatchCmd(c), newVersionCmd(stdout))
	return root
}

// load resolves the configuration and builds the logger. Positional
// arguments replace the configured inputs.
func (c *cli) load(args []string) (*config.Config, *zap.SugaredLogger, error) {
	if len(args) > 0 {
		c.v.Set("inputs", args)
	}
	cfg, err := config.Load(c.v, c.configPath)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(logger.Options{JSON: cfg.Log.JSON, Level: cfg.Log.Level, Out: c.stderr})
	if err != nil {
		return nil, nil, errors.WithHint(errors.Mark(err, errors.ErrInvalidArgument),
			"valid levels are debug, info, warn and error")
	}
	return cfg, log, nil
}

func (c *cli) generate(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) error {
	var reporter progress.Reporter
	if cfg.Progress {
		reporter = &progress.Bar{Title: "Writing tag file", Out: c.stderr}
	}
	if _, err := pipeline.Run(ctx, cfg, pipeline.Options{Log: log, Stdout: c.stdout, Progress: reporter}); err != nil {
		return err
	}
	if cfg.Output != "" {
		_, _ = fmt.Fprintln(c.stdout, cfg.TagFilesEntry())
	}
	return nil
}

func newWatchCmd(c *cli) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [snapshot files or directories...]",
		Short: "Regenerate the tag file whenever snapshots change",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := c.load(args)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			if cfg.Output == "" {
				return errors.WithHint(errors.InvalidArgumentf("watch needs an output file"),
					"pass --output or set output in doxytags.yaml")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			w := &watch.Watcher{
				Inputs:   cfg.Inputs,
				Ignore:   cfg.Output,
				Debounce: debounce,
				Log:      log,
				Run: func(ctx context.Context) error {
					return c.generate(ctx, cfg, log)
				},
			}
			log.Infow("watching snapshots", "inputs", cfg.Inputs, logger.FieldOutput, cfg.Output)
			return w.Watch(ctx)
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before regenerating")
	return cmd
}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the doxytags version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _ = fmt.Fprintf(stdout, "doxytags %s\n", version)
			return nil
		},
	}
}
