package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

// execute runs one invocation. Errors are reported to the user before being
// returned.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := newApp(stdout, stderr)
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		a.printError(err)
		return err
	}
	return nil
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "getbrowser",
		Short:         "Find Chromium and Firefox builds for your platform",
		Long:          "Resolve Chromium snapshot and Firefox release versions per channel and platform, with their download URLs.",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetVersionTemplate("getbrowser {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&a.flags.configPath, "config", "", "Config file (default: <config dir>/getbrowser/config.lua)")
	flags.StringVar(&a.flags.mode, "mode", "", "Override the config mode: development or production")
	flags.BoolVar(&a.flags.json, "json", false, "Output in JSON format")
	flags.BoolVarP(&a.flags.verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(
		a.platformCmd(),
		a.optionsCmd(),
		a.releasesCmd(),
		a.urlCmd(),
		a.cacheCmd(),
		a.configCmd(),
	)
	return root
}
