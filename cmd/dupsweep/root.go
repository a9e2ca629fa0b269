package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/dupsweep/pkg/dupsweep/config"
	"github.com/jamesainslie/dupsweep/pkg/dupsweep/logging"
	"github.com/jamesainslie/dupsweep/pkg/dupsweep/output"
)

// app holds the state of one command invocation.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	cfgFile string
	delete  bool
	noCache bool
	quiet   bool
	verbose bool

	v   *viper.Viper
	cfg *config.Config
}

// newRootCmd builds the command tree bound to the given streams.
func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:   "dupsweep [path]",
		Short: "Find and remove duplicate files",
		Long: `dupsweep walks a directory tree, groups files with identical content and
reports every set of duplicates.

With --delete it asks, for each set, which copy to keep and removes the
others. Leave the answer empty to skip a set.

Examples:
  dupsweep                   # Report duplicates in the current directory
  dupsweep ~/Photos          # Report duplicates in a specific directory
  dupsweep -o json ~/Photos  # Machine-readable report
  dupsweep -d ~/Photos       # Choose which copy to keep, remove the rest
  dupsweep -d --trash .      # Same, but move removed copies to the trash
  dupsweep history           # View past scans and clean runs`,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { _ = logging.Close() },
		RunE:              a.runScan,
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: ~/.config/dupsweep/config.yaml)")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "minimal output")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug output")

	f := rootCmd.Flags()
	f.BoolVarP(&a.delete, "delete", "d", false, "interactively keep one file per set and remove the rest")
	f.Bool("trash", false, "move removed files to the trash instead of deleting them")
	f.StringP("output", "o", "", fmt.Sprintf("report format (%v)", output.Available()))
	f.StringSliceP("exclude", "e", nil, "exclude patterns (can be specified multiple times)")
	f.String("hash", "", "digest algorithm (md5, sha256, xxhash)")
	f.String("batch-size", "", "read size per hashing chunk (e.g., 64K, 1MiB)")
	f.BoolVar(&a.noCache, "no-cache", false, "hash every file, ignoring the digest cache")

	rootCmd.AddCommand(
		newConfigCmd(a),
		newHistoryCmd(a),
		newCacheCmd(a),
		newVersionCmd(a),
	)

	return rootCmd
}

// flagKeys maps root command flags to config keys.
var flagKeys = map[string]string{
	"output":     "output",
	"exclude":    "exclude",
	"hash":       "hash.algorithm",
	"batch-size": "hash.batch_size",
	"trash":      "clean.trash",
}

// setup loads configuration, binds flags over it and initializes logging.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	v, err := config.NewViper(a.cfgFile)
	if err != nil {
		return err
	}

	for flag, key := range flagKeys {
		if fl := cmd.Flags().Lookup(flag); fl != nil {
			if err := v.BindPFlag(key, fl); err != nil {
				return fmt.Errorf("binding --%s: %w", flag, err)
			}
		}
	}

	cfg, err := config.Decode(v)
	if err != nil {
		return err
	}
	a.v = v
	a.cfg = cfg

	logCfg, err := cfg.LoggingConfig()
	if err != nil {
		return err
	}
	logCfg.Console = a.errOut
	if a.verbose {
		logCfg.Level = "debug"
		logCfg.ConsoleLevel = "debug"
	}
	if err := logging.Init(logCfg); err != nil {
		// A broken log file must not stop a scan.
		fmt.Fprintf(a.errOut, "Warning: logging disabled: %v\n", err)
	}

	return nil
}

// Execute runs the root command against the process streams.
func Execute() error {
	err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute()
	if err != nil {
		printError(os.Stderr, "%v", err)
	}
	return err
}

// printVerbose prints a message if verbose mode is enabled.
func (a *app) printVerbose(format string, args ...interface{}) {
	if a.verbose && !a.quiet {
		fmt.Fprintf(a.errOut, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func (a *app) printInfo(format string, args ...interface{}) {
	if !a.quiet {
		fmt.Fprintf(a.out, format+"\n", args...)
	}
}

// printError prints an error message.
func printError(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "Error: "+format+"\n", args...)
}
