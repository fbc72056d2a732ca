// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/walteh/diffmorpher/cmd/diffmorpher/commands"
	"github.com/walteh/diffmorpher/cmd/diffmorpher/opts"
	"github.com/walteh/diffmorpher/pkg/config"
	"github.com/walteh/diffmorpher/pkg/log"
	"github.com/walteh/diffmorpher/pkg/operation"
	"github.com/walteh/diffmorpher/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// rootFlags holds the raw flag values. They only override the configuration when set.
type rootFlags struct {
	source, target, patch, out string
	auto, dirs, ignore, force  bool
	fill, engine, timeout      string
	margin, jobs               int
	exclude                    []string

	configFile string
	envFile    string
	debug      bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &rootFlags{}
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "diffmorpher",
		Short: "Replay the changes between two files onto a third one",
		Long: `diffmorpher computes a character level diff from a source to a target and replays it,
position by position, onto a patch file of the same size as the source. The result is written
to the output path. With --dirs the four paths are directories and every file below the source
and target roots is processed.`,
		Example: `  diffmorpher -s old.txt -t new.txt -p mask.txt -o out.txt
  diffmorpher -d -a -s old/ -t new/ -p mask/ -o out/ --exclude '**/*.png'`,
		Version:       GetVersionInfo().Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(stderr, flags.debug)
			cmd.SetContext(logger.WithContext(cmd.Context()))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context(), cmd.Flags(), flags)
			if err != nil {
				return err
			}
			return runMorph(cmd.Context(), cfg, stdout)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate(FormatVersion())

	f := cmd.Flags()
	f.StringVarP(&flags.source, "source", "s", defaults.Source, "source file or directory")
	f.StringVarP(&flags.target, "target", "t", defaults.Target, "target file or directory")
	f.StringVarP(&flags.patch, "patch", "p", defaults.Patch, "patch-target file or directory")
	f.StringVarP(&flags.out, "out", "o", defaults.Out, "output file or directory")
	f.BoolVarP(&flags.auto, "auto", "a", false, "treat missing inputs as absent instead of failing")
	f.BoolVarP(&flags.dirs, "dirs", "d", false, "the four paths are directories")
	f.BoolVarP(&flags.ignore, "ignore", "i", false, "skip files whose source and target are identical")
	f.BoolVarP(&flags.force, "force", "f", false, "truncate or pad the patch-target to the source length")
	f.StringVarP(&flags.fill, "fillchar", "c", defaults.Fill, "fill character used for padding and blanking (alias --fill)")
	f.StringVar(&flags.engine, "engine", defaults.Engine, "diff engine (myers or dmp)")
	f.IntVar(&flags.margin, "margin", defaults.Margin, "context characters kept around each change")
	f.StringVar(&flags.timeout, "timeout", defaults.Timeout, "diff deadline per file, 0 disables it")
	f.IntVar(&flags.jobs, "jobs", defaults.Jobs, "files processed concurrently in directory mode")
	f.StringArrayVar(&flags.exclude, "exclude", nil, "glob of relative paths skipped in directory mode (repeatable)")
	f.StringVar(&flags.configFile, "config", "", "config file (.yaml, .yml, .json or .hcl)")
	f.StringVar(&flags.envFile, "env-file", ".env", "dotenv file with DIFFMORPHER_* overrides")
	f.SetNormalizeFunc(flagAliases)
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging and patch traces")

	cmd.AddCommand(commands.NewVersionCmd(&opts.RootOpts{Version: FormatVersion}))

	return cmd
}

// flagAliases maps alternate long flag names onto their canonical names.
func flagAliases(f *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == "fill" {
		name = "fillchar"
	}
	return pflag.NormalizedName(name)
}

// setupLogging returns the diagnostics logger. Debug level enables the per-operation traces.
func setupLogging(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: color.NoColor}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// loadConfig resolves the configuration. Later sources win: defaults, config file, environment,
// then flags given on the command line.
func loadConfig(ctx context.Context, fs *pflag.FlagSet, flags *rootFlags) (*config.Config, error) {
	cfg := config.Default()

	if flags.configFile != "" {
		loaded, err := config.Load(ctx, flags.configFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if err := config.LoadDotEnv(ctx, flags.envFile); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	applyFlags(fs, flags, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.CheckPaths(); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().Str("config", cfg.String()).Msg("configuration resolved")
	return cfg, nil
}

func applyFlags(fs *pflag.FlagSet, flags *rootFlags, cfg *config.Config) {
	strs := map[string]struct{ dst, src *string }{
		"source":   {&cfg.Source, &flags.source},
		"target":   {&cfg.Target, &flags.target},
		"patch":    {&cfg.Patch, &flags.patch},
		"out":      {&cfg.Out, &flags.out},
		"fillchar": {&cfg.Fill, &flags.fill},
		"engine":   {&cfg.Engine, &flags.engine},
		"timeout":  {&cfg.Timeout, &flags.timeout},
	}
	for name, v := range strs {
		if fs.Changed(name) {
			*v.dst = *v.src
		}
	}

	bools := map[string]struct{ dst, src *bool }{
		"auto":   {&cfg.Auto, &flags.auto},
		"dirs":   {&cfg.Dirs, &flags.dirs},
		"ignore": {&cfg.Ignore, &flags.ignore},
		"force":  {&cfg.Force, &flags.force},
	}
	for name, v := range bools {
		if fs.Changed(name) {
			*v.dst = *v.src
		}
	}

	if fs.Changed("margin") {
		cfg.Margin = flags.margin
	}
	if fs.Changed("jobs") {
		cfg.Jobs = flags.jobs
	}
	if fs.Changed("exclude") {
		cfg.Exclude = flags.exclude
	}
}

// runMorph processes the configured file triple or directory roots.
func runMorph(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	logger := zerolog.Ctx(ctx)
	console := log.New(stdout, *logger)
	ctx = log.NewContext(ctx, console)

	mgr := status.New("", logger)
	opts := operation.Options{
		Morph:     cfg.MorphOptions(),
		Auto:      cfg.Auto,
		Ignore:    cfg.Ignore,
		StatusMgr: mgr,
		Logger:    logger,
	}

	triple := operation.Triple{
		Source: cfg.Source,
		Target: cfg.Target,
		Patch:  cfg.Patch,
		Out:    cfg.Out,
	}

	var op operation.Operation
	if cfg.Dirs {
		op = operation.NewDirOperation(opts, triple, cfg.Exclude, cfg.Jobs)
	} else {
		op = operation.NewTripleOperation(opts, triple)
	}

	console.StartBatch(ctx, log.BatchOperation{
		Source: cfg.Source,
		Target: cfg.Target,
		Patch:  cfg.Patch,
		Out:    cfg.Out,
		Dirs:   cfg.Dirs,
	})
	err := operation.NewRunner(logger, 1).Run(ctx, op)
	console.EndBatch(ctx)

	reportSummary(stdout, mgr.Summary(ctx), err == nil)
	return err
}
